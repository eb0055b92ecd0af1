package repository

import (
	"context"
	"encoding/json"
	"time"

	"creativehub/internal/domain"

	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID                 int64      `gorm:"column:id;primaryKey"`
	ClientUID          int64      `gorm:"column:client_uid;index"`
	ProviderUID        int64      `gorm:"column:provider_uid;index"`
	Status             string     `gorm:"column:status;index"`
	ScheduledAt        time.Time  `gorm:"column:scheduled_at"`
	TotalCostMinor     int64      `gorm:"column:total_cost_minor"`
	PaymentStatus      string     `gorm:"column:payment_status"`
	PaymentRef         string     `gorm:"column:payment_ref"`
	RevenueSplit       *string    `gorm:"column:revenue_split"`
	Notes              *string    `gorm:"column:notes"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
	CancelledAt        *time.Time `gorm:"column:cancelled_at"`
	CancellationReason *string    `gorm:"column:cancellation_reason"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	var notes, reason string
	if m.Notes != nil {
		notes = *m.Notes
	}
	if m.CancellationReason != nil {
		reason = *m.CancellationReason
	}

	var split domain.RevenueSplit
	if m.RevenueSplit != nil && *m.RevenueSplit != "" {
		_ = json.Unmarshal([]byte(*m.RevenueSplit), &split)
	}

	return &domain.Booking{
		ID:                 m.ID,
		ClientUID:          m.ClientUID,
		ProviderUID:        m.ProviderUID,
		Status:             domain.BookingStatus(m.Status),
		ScheduledAt:        m.ScheduledAt,
		TotalCostMinor:     m.TotalCostMinor,
		PaymentStatus:      domain.PaymentStatus(m.PaymentStatus),
		PaymentRef:         m.PaymentRef,
		RevenueSplit:       split,
		Notes:              notes,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
		CancelledAt:        m.CancelledAt,
		CancellationReason: reason,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	var notes, reason *string
	if b.Notes != "" {
		v := b.Notes
		notes = &v
	}
	if b.CancellationReason != "" {
		v := b.CancellationReason
		reason = &v
	}

	var split *string
	if len(b.RevenueSplit) > 0 {
		raw, _ := json.Marshal(b.RevenueSplit)
		v := string(raw)
		split = &v
	}

	return bookingModel{
		ID:                 b.ID,
		ClientUID:          b.ClientUID,
		ProviderUID:        b.ProviderUID,
		Status:             string(b.Status),
		ScheduledAt:        b.ScheduledAt,
		TotalCostMinor:     b.TotalCostMinor,
		PaymentStatus:      string(b.PaymentStatus),
		PaymentRef:         b.PaymentRef,
		RevenueSplit:       split,
		Notes:              notes,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
		CancelledAt:        b.CancelledAt,
		CancellationReason: reason,
	}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*b = *toDomainBooking(m)
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBooking(m), nil
}

// TransitionStatus is the atomic check-and-set for the state machine: the
// UPDATE is guarded by the status the caller read, so of two concurrent
// transitions off the same snapshot exactly one wins. The loser gets
// ErrConcurrencyConflict and must re-read.
func (r *BookingRepository) TransitionStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error {
	now := time.Now().UTC()
	updates := map[string]any{
		"status":     string(to),
		"updated_at": now,
	}
	if to == domain.BookingCancelled {
		updates["cancelled_at"] = now
	}

	tx := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrConcurrencyConflict
	}
	return nil
}

// CancelWithRefund commits the refund decision locally: status -> cancelled,
// payment -> refunded, reason recorded, all guarded by the status the refund
// eligibility check was derived from. Called only after the gateway confirmed.
func (r *BookingRepository) CancelWithRefund(ctx context.Context, id int64, from domain.BookingStatus, reason string) error {
	now := time.Now().UTC()
	tx := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ? AND status = ? AND payment_status = ?", id, string(from), string(domain.PaymentPaid)).
		Updates(map[string]any{
			"status":              string(domain.BookingCancelled),
			"payment_status":      string(domain.PaymentRefunded),
			"cancellation_reason": reason,
			"cancelled_at":        now,
			"updated_at":          now,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrConcurrencyConflict
	}
	return nil
}

// MarkPaid records a captured payment. Guarded so a replayed webhook cannot
// overwrite a refund.
func (r *BookingRepository) MarkPaid(ctx context.Context, id int64, paymentRef string) error {
	tx := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ? AND payment_status = ?", id, string(domain.PaymentPending)).
		Updates(map[string]any{
			"payment_status": string(domain.PaymentPaid),
			"payment_ref":    paymentRef,
			"updated_at":     time.Now().UTC(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrConcurrencyConflict
	}
	return nil
}

func (r *BookingRepository) ListByClient(ctx context.Context, clientUID int64, limit, offset int) ([]domain.Booking, error) {
	var models []bookingModel
	tx := r.db.WithContext(ctx).
		Where("client_uid = ?", clientUID).
		Order("scheduled_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Booking, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

// ExpireUnpaid cancels bookings that never got paid within the window.
// Used by the hourly cleanup job.
func (r *BookingRepository) ExpireUnpaid(ctx context.Context, olderThan time.Time) (int64, error) {
	now := time.Now().UTC()
	tx := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("status IN ? AND payment_status = ? AND created_at < ?",
			[]string{string(domain.BookingPending), string(domain.BookingConfirmed)},
			string(domain.PaymentPending), olderThan).
		Updates(map[string]any{
			"status":              string(domain.BookingCancelled),
			"cancellation_reason": "expired unpaid",
			"cancelled_at":        now,
			"updated_at":          now,
		})
	if tx.Error != nil {
		return 0, tx.Error
	}
	return tx.RowsAffected, nil
}
