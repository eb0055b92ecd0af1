package booking

import (
	"context"

	"creativehub/internal/domain"
)

// BookingRepository is the slice of the ledger store this module needs.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	TransitionStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error
	MarkPaid(ctx context.Context, id int64, paymentRef string) error
	ListByClient(ctx context.Context, clientUID int64, limit, offset int) ([]domain.Booking, error)
}

// NotificationSender delivers lifecycle notifications. Calls are
// fire-and-forget: a delivery failure never rolls back a transition.
type NotificationSender interface {
	NotifyBookingConfirmed(ctx context.Context, clientUID, bookingID int64) error
	NotifyBookingCancelled(ctx context.Context, clientUID, bookingID int64, reason string) error
}

// ActivityRecorder appends audit rows for lifecycle actions.
type ActivityRecorder interface {
	RecordBookingActivity(ctx context.Context, bookingID, actorUID int64, action, detail string) error
}

// ProgressAwarder credits XP for lifecycle events. Implemented by the xp
// module; the context ID carries the dedup key for retried deliveries.
type ProgressAwarder interface {
	AwardForEvent(ctx context.Context, uid int64, event domain.XPEvent, contextID string) error
}

// RefundExecutor settles a paid booking's cancellation through the refund
// policy engine. Implemented by the refund module. The actor's role is passed
// through so administrative dispute resolutions settle like any other
// authorized cancellation.
type RefundExecutor interface {
	Execute(ctx context.Context, bookingID, requestedByUID int64, requesterRole domain.UserRole, reason string, isEmergency bool) error
}
