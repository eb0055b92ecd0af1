package domain

import "time"

type Tier string

const (
	TierStandard  Tier = "standard"
	TierVerified  Tier = "verified"
	TierSignature Tier = "signature"
)

// XPEvent is the closed set of reward-bearing lifecycle events. Point values
// live in internal/config so every module reads the same table.
type XPEvent string

const (
	EventBookingConfirmed XPEvent = "bookingConfirmed"
	EventFiveStarReview   XPEvent = "fiveStarReview"
	EventCreatorReferral  XPEvent = "creatorReferral"
	EventQuickReply       XPEvent = "quickReply"
	EventProfileCompleted XPEvent = "profileCompleted"
)

// XPTransaction is one append-only ledger row. (UID, Event, ContextID) is
// unique whenever ContextID is set; a retried award with the same triple is
// answered from the existing row.
type XPTransaction struct {
	ID            string    `json:"id"`
	UID           int64     `json:"uid"`
	Event         XPEvent   `json:"event"`
	AmountAwarded int64     `json:"amount_awarded"`
	ContextID     string    `json:"context_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
	DayBucket     string    `json:"day_bucket"`
}

// UserProgress carries the running gamification counters for one user.
// TotalXP only ever grows; DailyXP resets when DailyBucket rolls over;
// PointsMonth resets on the first aggregation run of each month.
type UserProgress struct {
	UID            int64      `json:"uid"`
	TotalXP        int64      `json:"total_xp"`
	DailyXP        int64      `json:"daily_xp"`
	DailyBucket    string     `json:"daily_bucket,omitempty"`
	PointsMonth    int64      `json:"points_month"`
	StreakCount    int        `json:"streak_count"`
	LastActivityAt *time.Time `json:"last_activity_at,omitempty"`
	Tier           Tier       `json:"tier"`
	TierFrozen     bool       `json:"tier_frozen"`
	LateDeliveries int        `json:"late_deliveries"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// DayBucketFor returns the accounting-day key for a timestamp. Accounting
// days are UTC calendar dates.
func DayBucketFor(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
