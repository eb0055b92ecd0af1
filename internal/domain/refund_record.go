package domain

import "time"

// RefundRecord is the append-only settlement log entry written after the
// gateway confirms a refund.
type RefundRecord struct {
	ID                 int64     `json:"id"`
	BookingID          int64     `json:"booking_id"`
	RequestedByUID     int64     `json:"requested_by_uid"`
	RefundAmountMinor  int64     `json:"refund_amount_minor"`
	ProcessingFeeMinor int64     `json:"processing_fee_minor"`
	RefundPercentage   int       `json:"refund_percentage"`
	Reason             string    `json:"reason,omitempty"`
	GatewayRef         string    `json:"gateway_ref,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}
