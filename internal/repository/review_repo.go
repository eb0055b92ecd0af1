package repository

import (
	"context"
	"time"

	"creativehub/internal/domain"

	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

type reviewModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	BookingID   int64     `gorm:"column:booking_id;uniqueIndex"`
	AuthorUID   int64     `gorm:"column:author_uid"`
	ProviderUID int64     `gorm:"column:provider_uid;index"`
	Rating      int       `gorm:"column:rating"`
	Comment     *string   `gorm:"column:comment"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (reviewModel) TableName() string { return "reviews" }

func toDomainReview(m reviewModel) *domain.Review {
	var comment string
	if m.Comment != nil {
		comment = *m.Comment
	}
	return &domain.Review{
		ID:          m.ID,
		BookingID:   m.BookingID,
		AuthorUID:   m.AuthorUID,
		ProviderUID: m.ProviderUID,
		Rating:      m.Rating,
		Comment:     comment,
		CreatedAt:   m.CreatedAt,
	}
}

// Create inserts the review; one review per booking is enforced by the unique
// index and surfaced as ErrConcurrencyConflict for the second writer.
func (r *ReviewRepository) Create(ctx context.Context, rev *domain.Review) error {
	var comment *string
	if rev.Comment != "" {
		v := rev.Comment
		comment = &v
	}
	m := reviewModel{
		BookingID:   rev.BookingID,
		AuthorUID:   rev.AuthorUID,
		ProviderUID: rev.ProviderUID,
		Rating:      rev.Rating,
		Comment:     comment,
		CreatedAt:   time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrConcurrencyConflict
		}
		return err
	}
	*rev = *toDomainReview(m)
	return nil
}

func (r *ReviewRepository) ListByProvider(ctx context.Context, providerUID int64, limit int) ([]domain.Review, error) {
	var models []reviewModel
	tx := r.db.WithContext(ctx).
		Where("provider_uid = ?", providerUID).
		Order("created_at DESC").
		Limit(limit).
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Review, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainReview(m))
	}
	return out, nil
}
