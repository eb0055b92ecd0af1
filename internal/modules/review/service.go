package review

import (
	"context"
	"errors"
	"fmt"

	"creativehub/internal/domain"
	"creativehub/internal/repository"

	"gorm.io/gorm"
)

type Service struct {
	reviews  ReviewRepository
	bookings BookingRepository
	progress ProgressAwarder
	loggerf  func(format string, args ...interface{})
}

func NewService(reviews ReviewRepository, bookings BookingRepository, progress ProgressAwarder, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{reviews: reviews, bookings: bookings, progress: progress, loggerf: loggerf}
}

// Submit records the client's review of a completed booking, moves the
// booking into its reviewed terminal state and, for a five-star rating,
// credits the provider's XP with the review as dedup context.
func (s *Service) Submit(ctx context.Context, bookingID, authorUID int64, req SubmitReviewRequest) (*domain.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrValidation
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if b.ClientUID != authorUID {
		return nil, ErrForbidden
	}
	if b.Status == domain.BookingReviewed {
		return nil, ErrAlreadyReviewed
	}
	if b.Status != domain.BookingCompleted {
		return nil, ErrNotReviewable
	}

	rev := &domain.Review{
		BookingID:   b.ID,
		AuthorUID:   authorUID,
		ProviderUID: b.ProviderUID,
		Rating:      req.Rating,
		Comment:     req.Comment,
	}
	if err := s.reviews.Create(ctx, rev); err != nil {
		if errors.Is(err, repository.ErrConcurrencyConflict) {
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}

	if err := s.bookings.TransitionStatus(ctx, b.ID, domain.BookingCompleted, domain.BookingReviewed); err != nil {
		// The review row exists either way; a lost race here means another
		// transition (e.g. a dispute) got in first.
		s.loggerf("level=warn msg=review status transition failed booking_id=%d err=%v", b.ID, err)
	}

	if req.Rating == 5 && s.progress != nil {
		contextID := fmt.Sprintf("review-%d", rev.ID)
		if err := s.progress.AwardForEvent(ctx, b.ProviderUID, domain.EventFiveStarReview, contextID); err != nil {
			s.loggerf("level=error msg=five star xp award failed review_id=%d provider_uid=%d err=%v", rev.ID, b.ProviderUID, err)
		}
	}

	return rev, nil
}

func (s *Service) ListByProvider(ctx context.Context, providerUID int64, limit int) ([]domain.Review, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.reviews.ListByProvider(ctx, providerUID, limit)
}
