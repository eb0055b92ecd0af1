package review

import (
	"context"

	"creativehub/internal/domain"
)

type ReviewRepository interface {
	Create(ctx context.Context, rev *domain.Review) error
	ListByProvider(ctx context.Context, providerUID int64, limit int) ([]domain.Review, error)
}

type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	TransitionStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error
}

// ProgressAwarder credits review-driven XP to the provider.
type ProgressAwarder interface {
	AwardForEvent(ctx context.Context, uid int64, event domain.XPEvent, contextID string) error
}
