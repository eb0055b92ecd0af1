package refund

import (
	"context"

	"creativehub/internal/domain"
	"creativehub/internal/gateway"
)

type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	CancelWithRefund(ctx context.Context, id int64, from domain.BookingStatus, reason string) error
}

// PaymentGateway is the external refund operation. Implementations classify
// failures as declined (terminal) or transient (caller-retryable).
type PaymentGateway interface {
	Refund(ctx context.Context, paymentRef string, amountMinor int64) (*gateway.RefundResult, error)
}

// RefundRecorder appends to the refund settlement log.
type RefundRecorder interface {
	AppendRefund(ctx context.Context, rec *domain.RefundRecord) error
}

type ActivityRecorder interface {
	RecordBookingActivity(ctx context.Context, bookingID, actorUID int64, action, detail string) error
}
