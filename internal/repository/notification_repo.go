package repository

import (
	"context"
	"time"

	"creativehub/internal/domain"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

type notificationModel struct {
	ID          int64      `gorm:"column:id;primaryKey"`
	UID         int64      `gorm:"column:uid;index"`
	TemplateKey string     `gorm:"column:template_key"`
	Payload     *string    `gorm:"column:payload"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	ReadAt      *time.Time `gorm:"column:read_at"`
}

func (notificationModel) TableName() string { return "notifications" }

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	var payload *string
	if n.Payload != "" {
		v := n.Payload
		payload = &v
	}
	m := notificationModel{
		UID:         n.UID,
		TemplateKey: string(n.TemplateKey),
		Payload:     payload,
		CreatedAt:   time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	n.ID = m.ID
	n.CreatedAt = m.CreatedAt
	return nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, uid int64, limit int) ([]domain.Notification, error) {
	var models []notificationModel
	tx := r.db.WithContext(ctx).
		Where("uid = ?", uid).
		Order("created_at DESC").
		Limit(limit).
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Notification, 0, len(models))
	for _, m := range models {
		var payload string
		if m.Payload != nil {
			payload = *m.Payload
		}
		out = append(out, domain.Notification{
			ID:          m.ID,
			UID:         m.UID,
			TemplateKey: domain.NotificationTemplate(m.TemplateKey),
			Payload:     payload,
			CreatedAt:   m.CreatedAt,
			ReadAt:      m.ReadAt,
		})
	}
	return out, nil
}
