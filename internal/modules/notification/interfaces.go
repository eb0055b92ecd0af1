package notification

import (
	"context"

	"creativehub/internal/domain"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, uid int64, limit int) ([]domain.Notification, error)
}
