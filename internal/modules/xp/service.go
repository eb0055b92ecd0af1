package xp

import (
	"context"
	"errors"
	"time"

	"creativehub/internal/config"
	"creativehub/internal/domain"
	"creativehub/internal/repository"

	"github.com/google/uuid"
)

const streakWindow = 24 * time.Hour

type Service struct {
	progress ProgressRepository
	notifs   NotificationSender
	cfg      *config.RuntimeConfig
	loggerf  func(format string, args ...interface{})

	// now is swappable for tests.
	now func() time.Time
}

func NewService(progress ProgressRepository, notifs NotificationSender, cfg *config.RuntimeConfig, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		progress: progress,
		notifs:   notifs,
		cfg:      cfg,
		loggerf:  loggerf,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// AwardXP credits a lifecycle event to a user. The reward comes from the
// fixed table in config; the credited amount is clipped to what remains of
// the daily cap and the ledger row records the clipped amount, so totals and
// the log always agree. A repeated call with the same (uid, event, contextID)
// returns the original transaction without touching any counter.
func (s *Service) AwardXP(ctx context.Context, uid int64, event domain.XPEvent, opts AwardOptions) (*AwardResult, error) {
	reward, ok := config.Reward(event)
	if !ok {
		return nil, ErrUnknownEvent
	}

	if opts.ContextID != "" {
		existing, err := s.progress.FindTransaction(ctx, uid, event, opts.ContextID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return &AwardResult{
				TransactionID: existing.ID,
				AmountAwarded: existing.AmountAwarded,
				Duplicate:     true,
			}, nil
		}
	}

	occurredAt := opts.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = s.now()
	}
	bucket := domain.DayBucketFor(occurredAt)

	var tierBefore, tierAfter domain.Tier
	apply := func(p *domain.UserProgress) (*domain.XPTransaction, error) {
		if p.DailyBucket != bucket {
			p.DailyBucket = bucket
			p.DailyXP = 0
		}

		credit := reward
		if room := s.cfg.DailyXPCap - p.DailyXP; credit > room {
			credit = room
		}
		if credit < 0 {
			credit = 0
		}

		p.TotalXP += credit
		p.DailyXP += credit
		p.PointsMonth += credit

		if opts.QuickReply {
			if p.LastActivityAt != nil && occurredAt.Sub(*p.LastActivityAt) <= streakWindow {
				p.StreakCount++
			} else {
				p.StreakCount = 1
			}
		}
		at := occurredAt
		p.LastActivityAt = &at

		tierBefore = p.Tier
		p.Tier = ClassifyTier(p.TotalXP, p.TierFrozen, p.Tier, s.cfg.TierVerifiedXP, s.cfg.TierSignatureXP)
		tierAfter = p.Tier

		return &domain.XPTransaction{
			ID:            uuid.NewString(),
			UID:           uid,
			Event:         event,
			AmountAwarded: credit,
			ContextID:     opts.ContextID,
			OccurredAt:    occurredAt,
			DayBucket:     bucket,
		}, nil
	}

	for attempt := 0; attempt < s.cfg.TransitionRetries; attempt++ {
		ledger, _, err := s.progress.Award(ctx, uid, apply)
		if errors.Is(err, repository.ErrConcurrencyConflict) {
			s.loggerf("level=warn msg=xp award lost update race uid=%d event=%s attempt=%d", uid, event, attempt+1)
			time.Sleep(s.cfg.TransitionBackoff * time.Duration(attempt+1))
			continue
		}
		if errors.Is(err, repository.ErrDuplicateAward) {
			// Raced against a concurrent delivery of the same event.
			existing, ferr := s.progress.FindTransaction(ctx, uid, event, opts.ContextID)
			if ferr != nil {
				return nil, ferr
			}
			if existing == nil {
				return nil, err
			}
			return &AwardResult{
				TransactionID: existing.ID,
				AmountAwarded: existing.AmountAwarded,
				Duplicate:     true,
			}, nil
		}
		if err != nil {
			return nil, err
		}

		if tierAfter != tierBefore && s.notifs != nil {
			if nerr := s.notifs.NotifyTierChanged(ctx, uid, tierAfter); nerr != nil {
				s.loggerf("level=error msg=tier notification failed uid=%d tier=%s err=%v", uid, tierAfter, nerr)
			}
		}

		return &AwardResult{
			TransactionID: ledger.ID,
			AmountAwarded: ledger.AmountAwarded,
		}, nil
	}

	return nil, ErrTransient
}

// AwardForEvent is the narrow entry point used by the booking state machine.
func (s *Service) AwardForEvent(ctx context.Context, uid int64, event domain.XPEvent, contextID string) error {
	_, err := s.AwardXP(ctx, uid, event, AwardOptions{ContextID: contextID})
	return err
}

func (s *Service) GetProgress(ctx context.Context, uid int64) (*domain.UserProgress, error) {
	return s.progress.GetProgress(ctx, uid)
}

func (s *Service) ListTransactions(ctx context.Context, uid int64, limit int) ([]domain.XPTransaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.progress.ListTransactions(ctx, uid, limit)
}

// SetTierFrozen pins or releases a user's tier (administrative penalty).
func (s *Service) SetTierFrozen(ctx context.Context, uid int64, frozen bool) error {
	return s.progress.SetTierFrozen(ctx, uid, frozen)
}

// RecordLateDelivery bumps the penalty counter and freezes the tier once the
// configured limit is reached.
func (s *Service) RecordLateDelivery(ctx context.Context, uid int64) error {
	count, err := s.progress.IncrementLateDeliveries(ctx, uid)
	if err != nil {
		return err
	}
	if count >= s.cfg.LateDeliveryFreezeLimit {
		s.loggerf("level=info msg=freezing tier for late deliveries uid=%d count=%d", uid, count)
		return s.progress.SetTierFrozen(ctx, uid, true)
	}
	return nil
}
