package repository

import (
	"context"
	"time"

	"creativehub/internal/domain"

	"gorm.io/gorm"
)

type RefundRepository struct {
	db *gorm.DB
}

func NewRefundRepository(db *gorm.DB) *RefundRepository {
	return &RefundRepository{db: db}
}

type refundRecordModel struct {
	ID                 int64     `gorm:"column:id;primaryKey"`
	BookingID          int64     `gorm:"column:booking_id;index"`
	RequestedByUID     int64     `gorm:"column:requested_by_uid"`
	RefundAmountMinor  int64     `gorm:"column:refund_amount_minor"`
	ProcessingFeeMinor int64     `gorm:"column:processing_fee_minor"`
	RefundPercentage   int       `gorm:"column:refund_percentage"`
	Reason             *string   `gorm:"column:reason"`
	GatewayRef         string    `gorm:"column:gateway_ref"`
	CreatedAt          time.Time `gorm:"column:created_at"`
}

func (refundRecordModel) TableName() string { return "refunds" }

// AppendRefund writes one settlement log row after the gateway confirmed.
func (r *RefundRepository) AppendRefund(ctx context.Context, rec *domain.RefundRecord) error {
	var reason *string
	if rec.Reason != "" {
		v := rec.Reason
		reason = &v
	}
	m := refundRecordModel{
		BookingID:          rec.BookingID,
		RequestedByUID:     rec.RequestedByUID,
		RefundAmountMinor:  rec.RefundAmountMinor,
		ProcessingFeeMinor: rec.ProcessingFeeMinor,
		RefundPercentage:   rec.RefundPercentage,
		Reason:             reason,
		GatewayRef:         rec.GatewayRef,
		CreatedAt:          time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	rec.ID = m.ID
	rec.CreatedAt = m.CreatedAt
	return nil
}
