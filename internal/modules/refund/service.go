package refund

import (
	"context"
	"errors"
	"time"

	"creativehub/internal/config"
	"creativehub/internal/domain"
	"creativehub/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Service struct {
	bookings BookingRepository
	gateway  PaymentGateway
	refunds  RefundRecorder
	activity ActivityRecorder
	cfg      *config.RuntimeConfig
	loggerf  func(format string, args ...interface{})
}

func NewService(
	bookings BookingRepository,
	gw PaymentGateway,
	refunds RefundRecorder,
	activity ActivityRecorder,
	cfg *config.RuntimeConfig,
	loggerf func(format string, args ...interface{}),
) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		bookings: bookings,
		gateway:  gw,
		refunds:  refunds,
		activity: activity,
		cfg:      cfg,
		loggerf:  loggerf,
	}
}

// Preview computes the refund decision for a booking at a given instant.
// Pure: no ledger reads, no gateway calls, no mutation. The percentage is
// non-decreasing in hoursUntilBooking unless the emergency override forces
// a full refund.
func (s *Service) Preview(b *domain.Booking, now time.Time, isEmergency bool) domain.RefundPreview {
	hours := b.ScheduledAt.Sub(now).Hours()

	preview := domain.RefundPreview{
		HoursUntilBooking: hours,
		EscrowStatus:      escrowStatus(b),
	}

	if b.Status.IsTerminal() || b.PaymentStatus == domain.PaymentRefunded {
		preview.Reason = "booking already settled"
		return preview
	}
	if b.PaymentStatus != domain.PaymentPaid {
		preview.Reason = "no captured payment to refund"
		return preview
	}
	if !domain.CanTransition(b.Status, domain.BookingCancelled) {
		preview.Reason = "booking can no longer be cancelled"
		return preview
	}

	switch {
	case isEmergency:
		preview.RefundPercentage = 100
		preview.Reason = "emergency override"
	case hours >= s.cfg.FullRefundHours:
		preview.RefundPercentage = 100
		preview.Reason = "cancelled outside full-refund window"
	case hours >= s.cfg.HalfRefundHours:
		preview.RefundPercentage = 50
		preview.Reason = "cancelled inside partial-refund window"
	default:
		preview.RefundPercentage = 0
		preview.Reason = "cancelled too close to the booking"
	}

	gross := decimal.NewFromInt(b.TotalCostMinor).
		Mul(decimal.NewFromInt(int64(preview.RefundPercentage))).
		Div(decimal.NewFromInt(100)).
		Round(0).IntPart()
	if gross > b.TotalCostMinor {
		gross = b.TotalCostMinor
	}

	fee := s.cfg.ProcessingFeeMinor
	if fee > gross {
		fee = gross
	}

	preview.CanRefund = true
	preview.ProcessingFeeMinor = fee
	preview.RefundAmountMinor = gross - fee
	return preview
}

// PreviewByID loads the booking and computes its preview.
func (s *Service) PreviewByID(ctx context.Context, bookingID int64, now time.Time, isEmergency bool) (*domain.RefundPreview, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	preview := s.Preview(b, now, isEmergency)
	return &preview, nil
}

// ProcessRefund executes a refund decision. Two phases: the preview is
// re-derived server side (a client-supplied percentage is never trusted),
// the gateway is called, and only a gateway confirmation commits the local
// cancellation. A gateway failure leaves the booking exactly as it was, and
// a second attempt after success fails the eligibility check because the
// booking is then terminal.
func (s *Service) ProcessRefund(ctx context.Context, bookingID int64, requester Requester, reason string, isEmergency bool) (*RefundResult, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !requester.mayRefund(b) {
		return nil, ErrForbidden
	}

	preview := s.Preview(b, time.Now().UTC(), isEmergency)
	if !preview.CanRefund {
		return nil, ErrNotEligible
	}

	res, err := s.gateway.Refund(ctx, b.PaymentRef, preview.RefundAmountMinor)
	if err != nil {
		s.loggerf("level=error msg=gateway refund failed booking_id=%d amount=%d err=%v", b.ID, preview.RefundAmountMinor, err)
		return nil, err
	}

	if err := s.bookings.CancelWithRefund(ctx, b.ID, b.Status, reason); err != nil {
		if errors.Is(err, repository.ErrConcurrencyConflict) {
			// The booking moved under us after the gateway confirmed. The
			// refund record below still captures the settlement for audit.
			s.loggerf("level=warn msg=refund commit lost status race booking_id=%d gateway_ref=%s", b.ID, res.ID)
		} else {
			return nil, err
		}
	}

	rec := &domain.RefundRecord{
		BookingID:          b.ID,
		RequestedByUID:     requester.UID,
		RefundAmountMinor:  preview.RefundAmountMinor,
		ProcessingFeeMinor: preview.ProcessingFeeMinor,
		RefundPercentage:   preview.RefundPercentage,
		Reason:             reason,
		GatewayRef:         res.ID,
	}
	if s.refunds != nil {
		if err := s.refunds.AppendRefund(ctx, rec); err != nil {
			s.loggerf("level=error msg=refund log append failed booking_id=%d err=%v", b.ID, err)
		}
	}
	if s.activity != nil {
		if err := s.activity.RecordBookingActivity(ctx, b.ID, requester.UID, "refunded", preview.Reason); err != nil {
			s.loggerf("level=error msg=activity log append failed booking_id=%d err=%v", b.ID, err)
		}
	}

	return &RefundResult{
		BookingID:          b.ID,
		RefundAmountMinor:  preview.RefundAmountMinor,
		ProcessingFeeMinor: preview.ProcessingFeeMinor,
		RefundPercentage:   preview.RefundPercentage,
		GatewayRef:         res.ID,
	}, nil
}

// Execute adapts ProcessRefund for the booking state machine, which settles
// paid cancellations through this engine. The actor was already authorized by
// the state machine; the role travels along so admin dispute resolutions pass
// the requester check here too.
func (s *Service) Execute(ctx context.Context, bookingID, requestedByUID int64, requesterRole domain.UserRole, reason string, isEmergency bool) error {
	_, err := s.ProcessRefund(ctx, bookingID, Requester{UID: requestedByUID, Role: requesterRole}, reason, isEmergency)
	return err
}

func escrowStatus(b *domain.Booking) domain.EscrowStatus {
	switch {
	case b.PaymentStatus == domain.PaymentRefunded:
		return domain.EscrowRefunded
	case b.Status == domain.BookingCompleted || b.Status == domain.BookingReviewed:
		return domain.EscrowReleased
	default:
		return domain.EscrowHeld
	}
}
