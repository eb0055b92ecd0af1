package repository

import (
	"context"
	"errors"
	"time"

	"creativehub/internal/domain"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

type userProgressModel struct {
	UID            int64      `gorm:"column:uid;primaryKey"`
	TotalXP        int64      `gorm:"column:total_xp"`
	DailyXP        int64      `gorm:"column:daily_xp"`
	DailyBucket    string     `gorm:"column:daily_bucket"`
	PointsMonth    int64      `gorm:"column:points_month"`
	StreakCount    int        `gorm:"column:streak_count"`
	LastActivityAt *time.Time `gorm:"column:last_activity_at"`
	Tier           string     `gorm:"column:tier"`
	TierFrozen     bool       `gorm:"column:tier_frozen"`
	LateDeliveries int        `gorm:"column:late_deliveries"`
	Version        int64      `gorm:"column:version"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (userProgressModel) TableName() string { return "user_progress" }

type xpTransactionModel struct {
	ID            string    `gorm:"column:id;primaryKey"`
	UID           int64     `gorm:"column:uid;index;uniqueIndex:idx_xp_dedup"`
	Event         string    `gorm:"column:event;uniqueIndex:idx_xp_dedup"`
	ContextID     *string   `gorm:"column:context_id;uniqueIndex:idx_xp_dedup"`
	AmountAwarded int64     `gorm:"column:amount_awarded"`
	OccurredAt    time.Time `gorm:"column:occurred_at"`
	DayBucket     string    `gorm:"column:day_bucket;index"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (xpTransactionModel) TableName() string { return "xp_transactions" }

func toDomainProgress(m userProgressModel) *domain.UserProgress {
	return &domain.UserProgress{
		UID:            m.UID,
		TotalXP:        m.TotalXP,
		DailyXP:        m.DailyXP,
		DailyBucket:    m.DailyBucket,
		PointsMonth:    m.PointsMonth,
		StreakCount:    m.StreakCount,
		LastActivityAt: m.LastActivityAt,
		Tier:           domain.Tier(m.Tier),
		TierFrozen:     m.TierFrozen,
		LateDeliveries: m.LateDeliveries,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toDomainXPTransaction(m xpTransactionModel) *domain.XPTransaction {
	var contextID string
	if m.ContextID != nil {
		contextID = *m.ContextID
	}
	return &domain.XPTransaction{
		ID:            m.ID,
		UID:           m.UID,
		Event:         domain.XPEvent(m.Event),
		AmountAwarded: m.AmountAwarded,
		ContextID:     contextID,
		OccurredAt:    m.OccurredAt,
		DayBucket:     m.DayBucket,
	}
}

func toXPTransactionModel(t *domain.XPTransaction) xpTransactionModel {
	var contextID *string
	if t.ContextID != "" {
		v := t.ContextID
		contextID = &v
	}
	return xpTransactionModel{
		ID:            t.ID,
		UID:           t.UID,
		Event:         string(t.Event),
		ContextID:     contextID,
		AmountAwarded: t.AmountAwarded,
		OccurredAt:    t.OccurredAt,
		DayBucket:     t.DayBucket,
		CreatedAt:     time.Now().UTC(),
	}
}

// GetProgress returns the stored counters, or a zero-valued record for users
// that have never earned XP. Progress rows are created lazily by Award.
func (r *ProgressRepository) GetProgress(ctx context.Context, uid int64) (*domain.UserProgress, error) {
	var m userProgressModel
	err := r.db.WithContext(ctx).First(&m, "uid = ?", uid).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &domain.UserProgress{UID: uid, Tier: domain.TierStandard}, nil
		}
		return nil, err
	}
	return toDomainProgress(m), nil
}

// FindTransaction looks up a prior award by its idempotency triple.
func (r *ProgressRepository) FindTransaction(ctx context.Context, uid int64, event domain.XPEvent, contextID string) (*domain.XPTransaction, error) {
	var m xpTransactionModel
	err := r.db.WithContext(ctx).
		Where("uid = ? AND event = ? AND context_id = ?", uid, string(event), contextID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toDomainXPTransaction(m), nil
}

// Award runs one read-modify-append cycle for a user's counters. apply
// receives the current progress (lazily initialized) and returns the ledger
// row to append; the counter update and the append commit in one transaction.
//
// Concurrency control is a version-guarded compare-and-swap, not a row lock:
// the UPDATE only matches the version apply worked from, so a concurrent
// award for the same user forces ErrConcurrencyConflict and a fresh cycle.
// A duplicate (uid, event, context_id) insert surfaces ErrDuplicateAward.
func (r *ProgressRepository) Award(ctx context.Context, uid int64, apply func(p *domain.UserProgress) (*domain.XPTransaction, error)) (*domain.XPTransaction, *domain.UserProgress, error) {
	now := time.Now().UTC()

	var current userProgressModel
	exists := true
	err := r.db.WithContext(ctx).First(&current, "uid = ?", uid).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, err
		}
		exists = false
		current = userProgressModel{UID: uid, Tier: string(domain.TierStandard), CreatedAt: now}
	}

	p := toDomainProgress(current)
	ledger, err := apply(p)
	if err != nil {
		return nil, nil, err
	}

	txRow := toXPTransactionModel(ledger)
	err = r.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		if exists {
			res := db.Model(&userProgressModel{}).
				Where("uid = ? AND version = ?", uid, current.Version).
				Updates(map[string]any{
					"total_xp":         p.TotalXP,
					"daily_xp":         p.DailyXP,
					"daily_bucket":     p.DailyBucket,
					"points_month":     p.PointsMonth,
					"streak_count":     p.StreakCount,
					"last_activity_at": p.LastActivityAt,
					"tier":             string(p.Tier),
					"tier_frozen":      p.TierFrozen,
					"version":          current.Version + 1,
					"updated_at":       now,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrConcurrencyConflict
			}
		} else {
			fresh := userProgressModel{
				UID:            uid,
				TotalXP:        p.TotalXP,
				DailyXP:        p.DailyXP,
				DailyBucket:    p.DailyBucket,
				PointsMonth:    p.PointsMonth,
				StreakCount:    p.StreakCount,
				LastActivityAt: p.LastActivityAt,
				Tier:           string(p.Tier),
				TierFrozen:     p.TierFrozen,
				Version:        1,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if err := db.Create(&fresh).Error; err != nil {
				if isUniqueViolation(err) {
					// Lost the race to create the row. Retry from a read.
					return ErrConcurrencyConflict
				}
				return err
			}
		}

		if err := db.Create(&txRow).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateAward
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	p.UpdatedAt = now
	return ledger, p, nil
}

// SetTierFrozen pins or unpins the user's tier. Creates the progress row if
// the user has never earned XP, so an admin can freeze ahead of activity.
// The version bump invalidates any in-flight Award cycle working from a
// pre-freeze snapshot; its CAS misses and it retries against the frozen row.
func (r *ProgressRepository) SetTierFrozen(ctx context.Context, uid int64, frozen bool) error {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&userProgressModel{}).
		Where("uid = ?", uid).
		Updates(map[string]any{
			"tier_frozen": frozen,
			"version":     gorm.Expr("version + 1"),
			"updated_at":  now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	fresh := userProgressModel{
		UID:        uid,
		Tier:       string(domain.TierStandard),
		TierFrozen: frozen,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := r.db.WithContext(ctx).Create(&fresh).Error; err != nil {
		if isUniqueViolation(err) {
			return r.SetTierFrozen(ctx, uid, frozen)
		}
		return err
	}
	return nil
}

// IncrementLateDeliveries bumps the penalty counter and returns the new count.
func (r *ProgressRepository) IncrementLateDeliveries(ctx context.Context, uid int64) (int, error) {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&userProgressModel{}).
		Where("uid = ?", uid).
		Updates(map[string]any{
			"late_deliveries": gorm.Expr("late_deliveries + 1"),
			"version":         gorm.Expr("version + 1"),
			"updated_at":      now,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		fresh := userProgressModel{
			UID:            uid,
			Tier:           string(domain.TierStandard),
			LateDeliveries: 1,
			Version:        1,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := r.db.WithContext(ctx).Create(&fresh).Error; err != nil {
			if isUniqueViolation(err) {
				return r.IncrementLateDeliveries(ctx, uid)
			}
			return 0, err
		}
		return 1, nil
	}

	var m userProgressModel
	if err := r.db.WithContext(ctx).First(&m, "uid = ?", uid).Error; err != nil {
		return 0, err
	}
	return m.LateDeliveries, nil
}

// ResetMonthlyPoints zeroes points_month for every user. Part of the
// first-of-month aggregation run.
func (r *ProgressRepository) ResetMonthlyPoints(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Model(&userProgressModel{}).
		Where("points_month <> 0").
		Updates(map[string]any{"points_month": 0, "updated_at": time.Now().UTC()})
	return res.RowsAffected, res.Error
}

// ListTransactions returns the user's ledger, newest first.
func (r *ProgressRepository) ListTransactions(ctx context.Context, uid int64, limit int) ([]domain.XPTransaction, error) {
	var models []xpTransactionModel
	tx := r.db.WithContext(ctx).
		Where("uid = ?", uid).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.XPTransaction, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainXPTransaction(m))
	}
	return out, nil
}
