package xp

import (
	"context"

	"creativehub/internal/domain"
)

// ProgressRepository is the atomic counter store for one user's gamification
// state. Award runs the supplied mutation and the ledger append as a single
// unit; a lost race surfaces repository.ErrConcurrencyConflict, a duplicate
// idempotency key repository.ErrDuplicateAward.
type ProgressRepository interface {
	GetProgress(ctx context.Context, uid int64) (*domain.UserProgress, error)
	FindTransaction(ctx context.Context, uid int64, event domain.XPEvent, contextID string) (*domain.XPTransaction, error)
	Award(ctx context.Context, uid int64, apply func(p *domain.UserProgress) (*domain.XPTransaction, error)) (*domain.XPTransaction, *domain.UserProgress, error)
	SetTierFrozen(ctx context.Context, uid int64, frozen bool) error
	IncrementLateDeliveries(ctx context.Context, uid int64) (int, error)
	ListTransactions(ctx context.Context, uid int64, limit int) ([]domain.XPTransaction, error)
}

// NotificationSender announces tier changes. Fire-and-forget.
type NotificationSender interface {
	NotifyTierChanged(ctx context.Context, uid int64, tier domain.Tier) error
}
