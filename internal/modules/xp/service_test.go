package xp

import (
	"context"
	"fmt"
	"testing"
	"time"

	"creativehub/internal/config"
	"creativehub/internal/domain"
	"creativehub/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// fakeProgressStore executes Award closures against in-memory state, which
// mock.Mock cannot express. It reproduces the repository's contract: the
// mutation and ledger append land together, duplicate context IDs surface
// ErrDuplicateAward, and injected conflicts force the retry path.
type fakeProgressStore struct {
	progress  map[int64]*domain.UserProgress
	txns      []domain.XPTransaction
	conflicts int
}

func newFakeProgressStore() *fakeProgressStore {
	return &fakeProgressStore{progress: make(map[int64]*domain.UserProgress)}
}

func (f *fakeProgressStore) GetProgress(ctx context.Context, uid int64) (*domain.UserProgress, error) {
	if p, ok := f.progress[uid]; ok {
		cp := *p
		return &cp, nil
	}
	return &domain.UserProgress{UID: uid, Tier: domain.TierStandard}, nil
}

func (f *fakeProgressStore) FindTransaction(ctx context.Context, uid int64, event domain.XPEvent, contextID string) (*domain.XPTransaction, error) {
	for i := range f.txns {
		t := &f.txns[i]
		if t.UID == uid && t.Event == event && t.ContextID == contextID {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeProgressStore) Award(ctx context.Context, uid int64, apply func(p *domain.UserProgress) (*domain.XPTransaction, error)) (*domain.XPTransaction, *domain.UserProgress, error) {
	if f.conflicts > 0 {
		f.conflicts--
		return nil, nil, repository.ErrConcurrencyConflict
	}

	p, _ := f.GetProgress(ctx, uid)
	ledger, err := apply(p)
	if err != nil {
		return nil, nil, err
	}
	if ledger.ContextID != "" {
		if existing, _ := f.FindTransaction(ctx, uid, ledger.Event, ledger.ContextID); existing != nil {
			return nil, nil, repository.ErrDuplicateAward
		}
	}

	f.progress[uid] = p
	f.txns = append(f.txns, *ledger)
	return ledger, p, nil
}

func (f *fakeProgressStore) SetTierFrozen(ctx context.Context, uid int64, frozen bool) error {
	p, _ := f.GetProgress(ctx, uid)
	p.TierFrozen = frozen
	f.progress[uid] = p
	return nil
}

func (f *fakeProgressStore) IncrementLateDeliveries(ctx context.Context, uid int64) (int, error) {
	p, _ := f.GetProgress(ctx, uid)
	p.LateDeliveries++
	f.progress[uid] = p
	return p.LateDeliveries, nil
}

func (f *fakeProgressStore) ListTransactions(ctx context.Context, uid int64, limit int) ([]domain.XPTransaction, error) {
	var out []domain.XPTransaction
	for _, t := range f.txns {
		if t.UID == uid {
			out = append(out, t)
		}
	}
	return out, nil
}

type MockNotificationSender struct {
	mock.Mock
}

func (m *MockNotificationSender) NotifyTierChanged(ctx context.Context, uid int64, tier domain.Tier) error {
	args := m.Called(ctx, uid, tier)
	return args.Error(0)
}

func newTestService(store *fakeProgressStore, notifs NotificationSender) *Service {
	s := NewService(store, notifs, config.DefaultRuntimeConfig(), nil)
	s.now = func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestAwardXP_CreditsFixedReward(t *testing.T) {
	store := newFakeProgressStore()
	service := newTestService(store, nil)

	res, err := service.AwardXP(context.Background(), 7, domain.EventBookingConfirmed, AwardOptions{ContextID: "booking-1"})

	assert.NoError(t, err)
	assert.False(t, res.Duplicate)
	assert.Equal(t, int64(100), res.AmountAwarded)
	assert.NotEmpty(t, res.TransactionID)

	p, _ := store.GetProgress(context.Background(), 7)
	assert.Equal(t, int64(100), p.TotalXP)
	assert.Equal(t, int64(100), p.DailyXP)
	assert.Equal(t, int64(100), p.PointsMonth)
	assert.Equal(t, domain.TierStandard, p.Tier)
}

func TestAwardXP_UnknownEventRejected(t *testing.T) {
	service := newTestService(newFakeProgressStore(), nil)

	_, err := service.AwardXP(context.Background(), 7, domain.XPEvent("madeUpEvent"), AwardOptions{})
	assert.ErrorIs(t, err, ErrUnknownEvent)
}

func TestAwardXP_DuplicateContextReturnsOriginal(t *testing.T) {
	store := newFakeProgressStore()
	service := newTestService(store, nil)

	first, err := service.AwardXP(context.Background(), 7, domain.EventBookingConfirmed, AwardOptions{ContextID: "booking-42"})
	assert.NoError(t, err)

	second, err := service.AwardXP(context.Background(), 7, domain.EventBookingConfirmed, AwardOptions{ContextID: "booking-42"})
	assert.NoError(t, err)
	assert.True(t, second.Duplicate)
	assert.Equal(t, first.TransactionID, second.TransactionID)
	assert.Equal(t, first.AmountAwarded, second.AmountAwarded)

	// Counters moved exactly once.
	p, _ := store.GetProgress(context.Background(), 7)
	assert.Equal(t, int64(100), p.TotalXP)
	txns, _ := store.ListTransactions(context.Background(), 7, 10)
	assert.Len(t, txns, 1)
}

func TestAwardXP_SameEventDifferentContextCreditsAgain(t *testing.T) {
	store := newFakeProgressStore()
	service := newTestService(store, nil)

	_, err := service.AwardXP(context.Background(), 7, domain.EventBookingConfirmed, AwardOptions{ContextID: "booking-1"})
	assert.NoError(t, err)
	_, err = service.AwardXP(context.Background(), 7, domain.EventBookingConfirmed, AwardOptions{ContextID: "booking-2"})
	assert.NoError(t, err)

	p, _ := store.GetProgress(context.Background(), 7)
	assert.Equal(t, int64(200), p.TotalXP)
}

func TestAwardXP_DailyCapClipsCredit(t *testing.T) {
	store := newFakeProgressStore()
	service := newTestService(store, nil)
	day := domain.DayBucketFor(service.now())

	store.progress[7] = &domain.UserProgress{
		UID: 7, TotalXP: 500, DailyXP: 250, DailyBucket: day, Tier: domain.TierStandard,
	}

	res, err := service.AwardXP(context.Background(), 7, domain.EventBookingConfirmed, AwardOptions{ContextID: "booking-9"})

	assert.NoError(t, err)
	assert.Equal(t, int64(50), res.AmountAwarded)

	p, _ := store.GetProgress(context.Background(), 7)
	assert.Equal(t, int64(550), p.TotalXP)
	assert.Equal(t, int64(300), p.DailyXP)

	// The ledger row records the clipped amount, so log and totals agree.
	txns, _ := store.ListTransactions(context.Background(), 7, 10)
	assert.Equal(t, int64(50), txns[0].AmountAwarded)
}

func TestAwardXP_ExhaustedCapStillWritesLedgerRow(t *testing.T) {
	store := newFakeProgressStore()
	service := newTestService(store, nil)
	day := domain.DayBucketFor(service.now())

	store.progress[7] = &domain.UserProgress{
		UID: 7, TotalXP: 900, DailyXP: 300, DailyBucket: day, Tier: domain.TierStandard,
	}

	res, err := service.AwardXP(context.Background(), 7, domain.EventQuickReply, AwardOptions{ContextID: "msg-1"})

	assert.NoError(t, err)
	assert.Equal(t, int64(0), res.AmountAwarded)

	p, _ := store.GetProgress(context.Background(), 7)
	assert.Equal(t, int64(900), p.TotalXP)
	txns, _ := store.ListTransactions(context.Background(), 7, 10)
	assert.Len(t, txns, 1)
	assert.Equal(t, int64(0), txns[0].AmountAwarded)
}

func TestAwardXP_DayRolloverResetsDailySpend(t *testing.T) {
	store := newFakeProgressStore()
	service := newTestService(store, nil)

	store.progress[7] = &domain.UserProgress{
		UID: 7, TotalXP: 600, DailyXP: 300, DailyBucket: "2026-03-13", Tier: domain.TierStandard,
	}

	res, err := service.AwardXP(context.Background(), 7, domain.EventBookingConfirmed, AwardOptions{ContextID: "booking-3"})

	assert.NoError(t, err)
	assert.Equal(t, int64(100), res.AmountAwarded)

	p, _ := store.GetProgress(context.Background(), 7)
	assert.Equal(t, "2026-03-14", p.DailyBucket)
	assert.Equal(t, int64(100), p.DailyXP)
}

func TestAwardXP_TierPromotionNotifies(t *testing.T) {
	store := newFakeProgressStore()
	mockNotifs := new(MockNotificationSender)
	mockNotifs.On("NotifyTierChanged", mock.Anything, int64(7), domain.TierVerified).Return(nil).Once()
	service := newTestService(store, mockNotifs)
	day := domain.DayBucketFor(service.now())

	store.progress[7] = &domain.UserProgress{
		UID: 7, TotalXP: 950, DailyBucket: day, Tier: domain.TierStandard,
	}

	_, err := service.AwardXP(context.Background(), 7, domain.EventBookingConfirmed, AwardOptions{ContextID: "booking-5"})

	assert.NoError(t, err)
	p, _ := store.GetProgress(context.Background(), 7)
	assert.Equal(t, int64(1050), p.TotalXP)
	assert.Equal(t, domain.TierVerified, p.Tier)
	mockNotifs.AssertExpectations(t)
}

func TestAwardXP_FrozenTierNeverMoves(t *testing.T) {
	store := newFakeProgressStore()
	mockNotifs := new(MockNotificationSender)
	service := newTestService(store, mockNotifs)
	day := domain.DayBucketFor(service.now())

	store.progress[7] = &domain.UserProgress{
		UID: 7, TotalXP: 1950, DailyBucket: day, Tier: domain.TierVerified, TierFrozen: true,
	}

	_, err := service.AwardXP(context.Background(), 7, domain.EventBookingConfirmed, AwardOptions{ContextID: "booking-6"})

	assert.NoError(t, err)
	p, _ := store.GetProgress(context.Background(), 7)
	assert.Equal(t, int64(2050), p.TotalXP)
	assert.Equal(t, domain.TierVerified, p.Tier)
	mockNotifs.AssertNotCalled(t, "NotifyTierChanged", mock.Anything, mock.Anything, mock.Anything)
}

func TestAwardXP_QuickReplyStreak(t *testing.T) {
	store := newFakeProgressStore()
	service := newTestService(store, nil)
	now := service.now()
	day := domain.DayBucketFor(now)

	recent := now.Add(-2 * time.Hour)
	store.progress[7] = &domain.UserProgress{
		UID: 7, StreakCount: 4, LastActivityAt: &recent, DailyBucket: day, Tier: domain.TierStandard,
	}

	_, err := service.AwardXP(context.Background(), 7, domain.EventQuickReply, AwardOptions{ContextID: "msg-2", QuickReply: true})
	assert.NoError(t, err)

	p, _ := store.GetProgress(context.Background(), 7)
	assert.Equal(t, 5, p.StreakCount)
}

func TestAwardXP_StaleActivityResetsStreak(t *testing.T) {
	store := newFakeProgressStore()
	service := newTestService(store, nil)
	now := service.now()

	stale := now.Add(-30 * time.Hour)
	store.progress[7] = &domain.UserProgress{
		UID: 7, StreakCount: 9, LastActivityAt: &stale, Tier: domain.TierStandard,
	}

	_, err := service.AwardXP(context.Background(), 7, domain.EventQuickReply, AwardOptions{ContextID: "msg-3", QuickReply: true})
	assert.NoError(t, err)

	p, _ := store.GetProgress(context.Background(), 7)
	assert.Equal(t, 1, p.StreakCount)
}

func TestAwardXP_RetriesThroughLostRace(t *testing.T) {
	store := newFakeProgressStore()
	store.conflicts = 2
	service := newTestService(store, nil)

	res, err := service.AwardXP(context.Background(), 7, domain.EventBookingConfirmed, AwardOptions{ContextID: "booking-8"})

	assert.NoError(t, err)
	assert.Equal(t, int64(100), res.AmountAwarded)
}

func TestAwardXP_GivesUpAfterRetryBudget(t *testing.T) {
	store := newFakeProgressStore()
	store.conflicts = 10
	service := newTestService(store, nil)

	_, err := service.AwardXP(context.Background(), 7, domain.EventBookingConfirmed, AwardOptions{ContextID: "booking-8"})
	assert.ErrorIs(t, err, ErrTransient)
}

func TestRecordLateDelivery_FreezesAtLimit(t *testing.T) {
	store := newFakeProgressStore()
	service := newTestService(store, nil)

	for i := 0; i < 2; i++ {
		assert.NoError(t, service.RecordLateDelivery(context.Background(), 7))
		p, _ := store.GetProgress(context.Background(), 7)
		assert.False(t, p.TierFrozen, "frozen after %d strikes", i+1)
	}

	assert.NoError(t, service.RecordLateDelivery(context.Background(), 7))
	p, _ := store.GetProgress(context.Background(), 7)
	assert.True(t, p.TierFrozen)
	assert.Equal(t, 3, p.LateDeliveries)
}

func TestAwardXP_ConcurrentDeliveriesCreditOnce(t *testing.T) {
	store := newFakeProgressStore()
	service := newTestService(store, nil)

	// Simulate two deliveries racing past the pre-check: seed the ledger row
	// between the pre-check and the write by calling twice back to back.
	for i := 0; i < 2; i++ {
		res, err := service.AwardXP(context.Background(), 7, domain.EventCreatorReferral, AwardOptions{ContextID: "ref-1"})
		assert.NoError(t, err, "attempt %d", i+1)
		assert.Equal(t, int64(150), res.AmountAwarded)
	}

	p, _ := store.GetProgress(context.Background(), 7)
	assert.Equal(t, int64(150), p.TotalXP)
	txns, _ := store.ListTransactions(context.Background(), 7, 10)
	assert.Len(t, txns, 1)
}

func TestAwardXP_LedgerSumMatchesTotals(t *testing.T) {
	store := newFakeProgressStore()
	service := newTestService(store, nil)

	events := []domain.XPEvent{
		domain.EventBookingConfirmed,
		domain.EventFiveStarReview,
		domain.EventCreatorReferral,
		domain.EventQuickReply,
		domain.EventProfileCompleted,
	}
	for i, ev := range events {
		_, err := service.AwardXP(context.Background(), 7, ev, AwardOptions{ContextID: fmt.Sprintf("ctx-%d", i)})
		assert.NoError(t, err)
	}

	p, _ := store.GetProgress(context.Background(), 7)
	txns, _ := store.ListTransactions(context.Background(), 7, 100)
	var sum int64
	for _, tx := range txns {
		sum += tx.AmountAwarded
	}
	assert.Equal(t, p.TotalXP, sum)
	assert.Equal(t, int64(300), p.DailyXP) // 100+50+150+10+25 clipped at the cap
	assert.Equal(t, p.DailyXP, p.TotalXP)
}
