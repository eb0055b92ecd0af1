package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"creativehub/internal/config"
	"creativehub/internal/domain"
	"creativehub/internal/repository"

	"gorm.io/gorm"
)

type Service struct {
	bookings BookingRepository
	notifs   NotificationSender
	activity ActivityRecorder
	progress ProgressAwarder
	refunds  RefundExecutor
	cfg      *config.RuntimeConfig
	loggerf  func(format string, args ...interface{})
}

func NewService(
	bookings BookingRepository,
	notifs NotificationSender,
	activity ActivityRecorder,
	progress ProgressAwarder,
	refunds RefundExecutor,
	cfg *config.RuntimeConfig,
	loggerf func(format string, args ...interface{}),
) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		bookings: bookings,
		notifs:   notifs,
		activity: activity,
		progress: progress,
		refunds:  refunds,
		cfg:      cfg,
		loggerf:  loggerf,
	}
}

func (s *Service) Create(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	if req.ClientUID == 0 || req.ProviderUID == 0 || req.TotalCostMinor <= 0 {
		return nil, ErrValidation
	}
	if !req.ScheduledAt.After(time.Now()) {
		return nil, ErrValidation
	}
	if !req.RevenueSplit.Valid() {
		return nil, ErrValidation
	}

	b := &domain.Booking{
		ClientUID:      req.ClientUID,
		ProviderUID:    req.ProviderUID,
		Status:         domain.BookingPending,
		ScheduledAt:    req.ScheduledAt,
		TotalCostMinor: req.TotalCostMinor,
		PaymentStatus:  domain.PaymentPending,
		RevenueSplit:   req.RevenueSplit,
		Notes:          req.Notes,
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *Service) ListByClient(ctx context.Context, clientUID int64, limit, offset int) ([]domain.Booking, error) {
	return s.bookings.ListByClient(ctx, clientUID, limit, offset)
}

// Transition validates and applies one lifecycle step. The status write is a
// guarded check-and-set: when a concurrent transition wins the race, the
// whole read-validate-write cycle is retried from a fresh read, so stale
// snapshots can never overwrite a newer status.
//
// Cancelling a booking whose payment is already captured is settled through
// the refund policy engine before the cancellation is confirmed.
func (s *Service) Transition(ctx context.Context, bookingID int64, req TransitionRequest, actor Actor) (*domain.Booking, error) {
	target := req.Status

	for attempt := 0; attempt < s.cfg.TransitionRetries; attempt++ {
		b, err := s.GetByID(ctx, bookingID)
		if err != nil {
			return nil, err
		}

		if !domain.CanTransition(b.Status, target) {
			return nil, ErrInvalidTransition
		}
		if err := authorize(b, target, actor); err != nil {
			return nil, err
		}

		if target == domain.BookingCancelled && b.PaymentStatus == domain.PaymentPaid {
			// Money is in escrow: the refund engine owns this path. It calls
			// the gateway first and commits the cancellation only on
			// gateway confirmation.
			if err := s.refunds.Execute(ctx, b.ID, actor.UID, actor.Role, req.Reason, req.IsEmergency); err != nil {
				return nil, err
			}
			return s.GetByID(ctx, bookingID)
		}

		err = s.bookings.TransitionStatus(ctx, b.ID, b.Status, target)
		if errors.Is(err, repository.ErrConcurrencyConflict) {
			s.loggerf("level=warn msg=transition lost update race booking_id=%d target=%s attempt=%d", b.ID, target, attempt+1)
			time.Sleep(s.cfg.TransitionBackoff * time.Duration(attempt+1))
			continue
		}
		if err != nil {
			return nil, err
		}

		if target == domain.BookingPaid && req.PaymentRef != "" {
			if err := s.bookings.MarkPaid(ctx, b.ID, req.PaymentRef); err != nil &&
				!errors.Is(err, repository.ErrConcurrencyConflict) {
				return nil, err
			}
		}

		s.applySideEffects(ctx, b, target, actor)
		return s.GetByID(ctx, bookingID)
	}

	return nil, ErrTransient
}

// applySideEffects runs the post-commit actions for a transition. None of
// them may fail the transition: the status is already durable.
func (s *Service) applySideEffects(ctx context.Context, b *domain.Booking, target domain.BookingStatus, actor Actor) {
	switch target {
	case domain.BookingConfirmed:
		if s.notifs != nil {
			if err := s.notifs.NotifyBookingConfirmed(ctx, b.ClientUID, b.ID); err != nil {
				s.loggerf("level=error msg=confirm notification failed booking_id=%d err=%v", b.ID, err)
			}
		}
		if s.activity != nil {
			if err := s.activity.RecordBookingActivity(ctx, b.ID, actor.UID, "confirmed", ""); err != nil {
				s.loggerf("level=error msg=activity log append failed booking_id=%d err=%v", b.ID, err)
			}
		}

	case domain.BookingCompleted:
		if s.progress != nil {
			contextID := fmt.Sprintf("booking-%d", b.ID)
			if err := s.progress.AwardForEvent(ctx, b.ProviderUID, domain.EventBookingConfirmed, contextID); err != nil {
				s.loggerf("level=error msg=completion xp award failed booking_id=%d provider_uid=%d err=%v", b.ID, b.ProviderUID, err)
			}
		}

	case domain.BookingCancelled:
		if s.notifs != nil {
			if err := s.notifs.NotifyBookingCancelled(ctx, b.ClientUID, b.ID, ""); err != nil {
				s.loggerf("level=error msg=cancel notification failed booking_id=%d err=%v", b.ID, err)
			}
		}
	}
}

func authorize(b *domain.Booking, target domain.BookingStatus, actor Actor) error {
	if actor.Role == domain.RoleAdmin {
		return nil
	}

	// Dispute resolution is administrative only.
	if b.Status == domain.BookingDisputed {
		return ErrForbidden
	}

	isClient := actor.UID == b.ClientUID
	isProvider := actor.UID == b.ProviderUID

	switch target {
	case domain.BookingConfirmed, domain.BookingInProgress, domain.BookingCompleted:
		if isProvider {
			return nil
		}
	case domain.BookingPaid:
		if isClient {
			return nil
		}
	case domain.BookingCancelled, domain.BookingDisputed:
		if isClient || isProvider {
			return nil
		}
	case domain.BookingReviewed:
		if isClient {
			return nil
		}
	}
	return ErrForbidden
}
