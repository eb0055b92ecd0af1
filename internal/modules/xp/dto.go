package xp

import "time"

type AwardOptions struct {
	// ContextID ties the award to one real-world event; retried deliveries
	// with the same ID credit nothing extra.
	ContextID string
	// QuickReply marks the event as streak-bearing.
	QuickReply bool
	// OccurredAt defaults to now; the accounting day derives from it.
	OccurredAt time.Time
}

type AwardResult struct {
	TransactionID string `json:"transaction_id"`
	AmountAwarded int64  `json:"amount_awarded"`
	Duplicate     bool   `json:"duplicate,omitempty"`
}

type AwardRequest struct {
	UID        int64  `json:"uid" binding:"required"`
	Event      string `json:"event" binding:"required"`
	ContextID  string `json:"context_id"`
	QuickReply bool   `json:"quick_reply"`
}

type TierFreezeRequest struct {
	Frozen *bool `json:"frozen" binding:"required"`
}
