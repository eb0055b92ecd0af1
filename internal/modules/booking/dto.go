package booking

import (
	"time"

	"creativehub/internal/domain"
)

type CreateBookingRequest struct {
	ClientUID      int64               `json:"client_uid" binding:"required"`
	ProviderUID    int64               `json:"provider_uid" binding:"required"`
	ScheduledAt    time.Time           `json:"scheduled_at" binding:"required"`
	TotalCostMinor int64               `json:"total_cost_minor" binding:"required"`
	RevenueSplit   domain.RevenueSplit `json:"revenue_split"`
	Notes          string              `json:"notes"`
}

type TransitionRequest struct {
	Status      domain.BookingStatus `json:"status" binding:"required"`
	Reason      string               `json:"reason"`
	IsEmergency bool                 `json:"is_emergency"`
	PaymentRef  string               `json:"payment_ref"`
}

// Actor identifies who asked for a transition; authorization depends on
// their relation to the booking.
type Actor struct {
	UID  int64
	Role domain.UserRole
}
