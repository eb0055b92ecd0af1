package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// All gamification and refund constants live here so the award service, the
// refund engine, the classifier and the batch jobs read one table instead of
// each carrying its own copy.
const (
	defaultDailyXPCap          = "300"
	defaultTierVerifiedXP      = "1000"
	defaultTierSignatureXP     = "2000"
	defaultFullRefundHours     = "48"
	defaultHalfRefundHours     = "24"
	defaultProcessingFeeMinor  = "250"
	defaultLateDeliveryFreeze  = "3"
	defaultExpireUnpaidAfter   = "48h"
	defaultLeaderboardSize     = "10"
	defaultTransitionRetries   = "3"
	defaultTransitionBackoffMS = "25"
)

type RuntimeConfig struct {
	DailyXPCap      int64
	TierVerifiedXP  int64
	TierSignatureXP int64

	FullRefundHours    float64
	HalfRefundHours    float64
	ProcessingFeeMinor int64

	LateDeliveryFreezeLimit int
	ExpireUnpaidAfter       time.Duration
	LeaderboardSize         int

	TransitionRetries int
	TransitionBackoff time.Duration
}

func LoadRuntimeConfig() (*RuntimeConfig, error) {
	cfg := &RuntimeConfig{}

	var err error
	if cfg.DailyXPCap, err = envInt64("XP_DAILY_CAP", defaultDailyXPCap); err != nil {
		return nil, err
	}
	if cfg.TierVerifiedXP, err = envInt64("TIER_VERIFIED_XP", defaultTierVerifiedXP); err != nil {
		return nil, err
	}
	if cfg.TierSignatureXP, err = envInt64("TIER_SIGNATURE_XP", defaultTierSignatureXP); err != nil {
		return nil, err
	}
	if cfg.TierSignatureXP < cfg.TierVerifiedXP {
		return nil, fmt.Errorf("TIER_SIGNATURE_XP (%d) must be >= TIER_VERIFIED_XP (%d)", cfg.TierSignatureXP, cfg.TierVerifiedXP)
	}

	if cfg.FullRefundHours, err = envFloat("REFUND_FULL_HOURS", defaultFullRefundHours); err != nil {
		return nil, err
	}
	if cfg.HalfRefundHours, err = envFloat("REFUND_HALF_HOURS", defaultHalfRefundHours); err != nil {
		return nil, err
	}
	if cfg.HalfRefundHours > cfg.FullRefundHours {
		return nil, fmt.Errorf("REFUND_HALF_HOURS (%v) must be <= REFUND_FULL_HOURS (%v)", cfg.HalfRefundHours, cfg.FullRefundHours)
	}
	if cfg.ProcessingFeeMinor, err = envInt64("REFUND_PROCESSING_FEE_MINOR", defaultProcessingFeeMinor); err != nil {
		return nil, err
	}

	lateLimit, err := envInt64("LATE_DELIVERY_FREEZE_LIMIT", defaultLateDeliveryFreeze)
	if err != nil {
		return nil, err
	}
	cfg.LateDeliveryFreezeLimit = int(lateLimit)

	if cfg.ExpireUnpaidAfter, err = envDuration("EXPIRE_UNPAID_AFTER", defaultExpireUnpaidAfter); err != nil {
		return nil, err
	}

	size, err := envInt64("LEADERBOARD_SIZE", defaultLeaderboardSize)
	if err != nil {
		return nil, err
	}
	cfg.LeaderboardSize = int(size)

	retries, err := envInt64("TRANSITION_RETRIES", defaultTransitionRetries)
	if err != nil {
		return nil, err
	}
	cfg.TransitionRetries = int(retries)

	backoffMS, err := envInt64("TRANSITION_BACKOFF_MS", defaultTransitionBackoffMS)
	if err != nil {
		return nil, err
	}
	cfg.TransitionBackoff = time.Duration(backoffMS) * time.Millisecond

	return cfg, nil
}

// DefaultRuntimeConfig returns the config with every knob at its default,
// independent of the environment. Used by tests and the batch binaries.
func DefaultRuntimeConfig() *RuntimeConfig {
	return &RuntimeConfig{
		DailyXPCap:              300,
		TierVerifiedXP:          1000,
		TierSignatureXP:         2000,
		FullRefundHours:         48,
		HalfRefundHours:         24,
		ProcessingFeeMinor:      250,
		LateDeliveryFreezeLimit: 3,
		ExpireUnpaidAfter:       48 * time.Hour,
		LeaderboardSize:         10,
		TransitionRetries:       3,
		TransitionBackoff:       25 * time.Millisecond,
	}
}

func envInt64(name, def string) (int64, error) {
	v := envOrDefault(name, def)
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q: %w", name, v, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s: must not be negative, got %d", name, n)
	}
	return n, nil
}

func envFloat(name, def string) (float64, error) {
	v := envOrDefault(name, def)
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q: %w", name, v, err)
	}
	if f < 0 {
		return 0, fmt.Errorf("%s: must not be negative, got %v", name, f)
	}
	return f, nil
}

func envDuration(name, def string) (time.Duration, error) {
	v := envOrDefault(name, def)
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", name, v, err)
	}
	return d, nil
}

func envOrDefault(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}
