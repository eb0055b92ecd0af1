package refund

import "creativehub/internal/domain"

// Requester identifies who asked for the refund. Clients and providers may
// settle their own bookings; admins settle any, which is how a dispute is
// resolved to a cancellation once payment is captured.
type Requester struct {
	UID  int64
	Role domain.UserRole
}

func (r Requester) mayRefund(b *domain.Booking) bool {
	return r.Role == domain.RoleAdmin || r.UID == b.ClientUID || r.UID == b.ProviderUID
}

type ProcessRefundRequest struct {
	Reason      string `json:"reason"`
	IsEmergency bool   `json:"is_emergency"`
}

type RefundResult struct {
	BookingID          int64  `json:"booking_id"`
	RefundAmountMinor  int64  `json:"refund_amount_minor"`
	ProcessingFeeMinor int64  `json:"processing_fee_minor"`
	RefundPercentage   int    `json:"refund_percentage"`
	GatewayRef         string `json:"gateway_ref"`
}
