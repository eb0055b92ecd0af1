package domain

import (
	"math"
	"time"
)

type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingPaid       BookingStatus = "paid"
	BookingInProgress BookingStatus = "in_progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
	BookingDisputed   BookingStatus = "disputed"
	BookingReviewed   BookingStatus = "reviewed"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// bookingTransitions is the full lifecycle table. A status with no entry
// (cancelled, reviewed) is terminal.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:    {BookingConfirmed, BookingCancelled},
	BookingConfirmed:  {BookingPaid, BookingCancelled},
	BookingPaid:       {BookingInProgress, BookingCancelled, BookingDisputed},
	BookingInProgress: {BookingCompleted, BookingCancelled, BookingDisputed},
	BookingCompleted:  {BookingReviewed, BookingDisputed},
	BookingDisputed:   {BookingCompleted, BookingCancelled},
}

// CanTransition reports whether the lifecycle table allows from -> to.
func CanTransition(from, to BookingStatus) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s BookingStatus) IsTerminal() bool {
	return s == BookingCancelled || s == BookingReviewed
}

// RevenueSplit maps a payout role (e.g. "artist", "engineer") to its fraction
// of the booking total. Fractions must sum to 1; the split is frozen once the
// booking is paid.
type RevenueSplit map[string]float64

const revenueSplitTolerance = 1e-6

func (rs RevenueSplit) Valid() bool {
	if len(rs) == 0 {
		return true
	}
	sum := 0.0
	for _, f := range rs {
		if f < 0 {
			return false
		}
		sum += f
	}
	return math.Abs(sum-1.0) <= revenueSplitTolerance
}

type Booking struct {
	ID             int64         `json:"id"`
	ClientUID      int64         `json:"client_uid" validate:"required"`
	ProviderUID    int64         `json:"provider_uid" validate:"required"`
	Status         BookingStatus `json:"status"`
	ScheduledAt    time.Time     `json:"scheduled_at" validate:"required"`
	TotalCostMinor int64         `json:"total_cost_minor" validate:"gte=0"`
	PaymentStatus  PaymentStatus `json:"payment_status"`
	PaymentRef     string        `json:"payment_ref,omitempty"`
	RevenueSplit   RevenueSplit  `json:"revenue_split,omitempty"`
	Notes          string        `json:"notes,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
	CancelledAt    *time.Time    `json:"cancelled_at,omitempty"`

	CancellationReason string `json:"cancellation_reason,omitempty"`
}
