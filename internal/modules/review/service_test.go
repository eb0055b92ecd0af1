package review

import (
	"context"
	"testing"

	"creativehub/internal/domain"
	"creativehub/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, rev *domain.Review) error {
	args := m.Called(ctx, rev)
	if rev != nil {
		rev.ID = 321 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockReviewRepository) ListByProvider(ctx context.Context, providerUID int64, limit int) ([]domain.Review, error) {
	args := m.Called(ctx, providerUID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) TransitionStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

type MockProgressAwarder struct {
	mock.Mock
}

func (m *MockProgressAwarder) AwardForEvent(ctx context.Context, uid int64, event domain.XPEvent, contextID string) error {
	args := m.Called(ctx, uid, event, contextID)
	return args.Error(0)
}

func completedBooking() *domain.Booking {
	return &domain.Booking{
		ID:          88,
		ClientUID:   1,
		ProviderUID: 2,
		Status:      domain.BookingCompleted,
	}
}

func TestSubmit_Success(t *testing.T) {
	mockReviews := new(MockReviewRepository)
	mockBookings := new(MockBookingRepository)
	mockProgress := new(MockProgressAwarder)

	mockBookings.On("GetByID", mock.Anything, int64(88)).Return(completedBooking(), nil)
	mockReviews.On("Create", mock.Anything, mock.Anything).Return(nil)
	mockBookings.On("TransitionStatus", mock.Anything, int64(88), domain.BookingCompleted, domain.BookingReviewed).Return(nil)

	service := NewService(mockReviews, mockBookings, mockProgress, nil)

	rev, err := service.Submit(context.Background(), 88, 1, SubmitReviewRequest{Rating: 4, Comment: "solid work"})

	assert.NoError(t, err)
	assert.Equal(t, int64(88), rev.BookingID)
	assert.Equal(t, int64(2), rev.ProviderUID)
	mockBookings.AssertExpectations(t)
	// Four stars do not earn XP.
	mockProgress.AssertNotCalled(t, "AwardForEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmit_FiveStarsAwardProviderXP(t *testing.T) {
	mockReviews := new(MockReviewRepository)
	mockBookings := new(MockBookingRepository)
	mockProgress := new(MockProgressAwarder)

	mockBookings.On("GetByID", mock.Anything, int64(88)).Return(completedBooking(), nil)
	mockReviews.On("Create", mock.Anything, mock.Anything).Return(nil)
	mockBookings.On("TransitionStatus", mock.Anything, int64(88), domain.BookingCompleted, domain.BookingReviewed).Return(nil)
	mockProgress.On("AwardForEvent", mock.Anything, int64(2), domain.EventFiveStarReview, "review-321").Return(nil).Once()

	service := NewService(mockReviews, mockBookings, mockProgress, nil)

	_, err := service.Submit(context.Background(), 88, 1, SubmitReviewRequest{Rating: 5})

	assert.NoError(t, err)
	mockProgress.AssertExpectations(t)
}

func TestSubmit_OnlyClientMayReview(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockBookings.On("GetByID", mock.Anything, int64(88)).Return(completedBooking(), nil)

	service := NewService(new(MockReviewRepository), mockBookings, nil, nil)

	_, err := service.Submit(context.Background(), 88, 2, SubmitReviewRequest{Rating: 5})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSubmit_RequiresCompletedBooking(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	b := completedBooking()
	b.Status = domain.BookingInProgress
	mockBookings.On("GetByID", mock.Anything, int64(88)).Return(b, nil)

	service := NewService(new(MockReviewRepository), mockBookings, nil, nil)

	_, err := service.Submit(context.Background(), 88, 1, SubmitReviewRequest{Rating: 5})
	assert.ErrorIs(t, err, ErrNotReviewable)
}

func TestSubmit_ReviewedBookingRejected(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	b := completedBooking()
	b.Status = domain.BookingReviewed
	mockBookings.On("GetByID", mock.Anything, int64(88)).Return(b, nil)

	service := NewService(new(MockReviewRepository), mockBookings, nil, nil)

	_, err := service.Submit(context.Background(), 88, 1, SubmitReviewRequest{Rating: 3})
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestSubmit_DuplicateRowMapsToAlreadyReviewed(t *testing.T) {
	mockReviews := new(MockReviewRepository)
	mockBookings := new(MockBookingRepository)

	mockBookings.On("GetByID", mock.Anything, int64(88)).Return(completedBooking(), nil)
	mockReviews.On("Create", mock.Anything, mock.Anything).Return(repository.ErrConcurrencyConflict)

	service := NewService(mockReviews, mockBookings, nil, nil)

	_, err := service.Submit(context.Background(), 88, 1, SubmitReviewRequest{Rating: 5})
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestSubmit_InvalidRating(t *testing.T) {
	service := NewService(new(MockReviewRepository), new(MockBookingRepository), nil, nil)

	_, err := service.Submit(context.Background(), 88, 1, SubmitReviewRequest{Rating: 0})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = service.Submit(context.Background(), 88, 1, SubmitReviewRequest{Rating: 6})
	assert.ErrorIs(t, err, ErrValidation)
}
