package domain

type EscrowStatus string

const (
	EscrowHeld     EscrowStatus = "held"
	EscrowReleased EscrowStatus = "released"
	EscrowRefunded EscrowStatus = "refunded"
)

// RefundPreview is computed per request and never stored. RefundAmountMinor
// is the net amount the gateway is asked to return (fee already subtracted).
type RefundPreview struct {
	CanRefund          bool         `json:"can_refund"`
	RefundPercentage   int          `json:"refund_percentage"`
	RefundAmountMinor  int64        `json:"refund_amount_minor"`
	ProcessingFeeMinor int64        `json:"processing_fee_minor"`
	HoursUntilBooking  float64      `json:"hours_until_booking"`
	EscrowStatus       EscrowStatus `json:"escrow_status"`
	Reason             string       `json:"reason"`
}
