package repository

import (
	"context"
	"time"

	"creativehub/internal/domain"

	"gorm.io/gorm"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

type activityEntryModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	BookingID int64     `gorm:"column:booking_id;index"`
	ActorUID  int64     `gorm:"column:actor_uid"`
	Action    string    `gorm:"column:action"`
	Detail    *string   `gorm:"column:detail"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (activityEntryModel) TableName() string { return "activity_log" }

// RecordBookingActivity appends one audit row. The log is append-only.
func (r *ActivityRepository) RecordBookingActivity(ctx context.Context, bookingID, actorUID int64, action, detail string) error {
	var d *string
	if detail != "" {
		d = &detail
	}
	m := activityEntryModel{
		BookingID: bookingID,
		ActorUID:  actorUID,
		Action:    action,
		Detail:    d,
		CreatedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *ActivityRepository) ListByBooking(ctx context.Context, bookingID int64) ([]domain.ActivityEntry, error) {
	var models []activityEntryModel
	tx := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at ASC").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.ActivityEntry, 0, len(models))
	for _, m := range models {
		var detail string
		if m.Detail != nil {
			detail = *m.Detail
		}
		out = append(out, domain.ActivityEntry{
			ID:        m.ID,
			BookingID: m.BookingID,
			ActorUID:  m.ActorUID,
			Action:    m.Action,
			Detail:    detail,
			CreatedAt: m.CreatedAt,
		})
	}
	return out, nil
}
