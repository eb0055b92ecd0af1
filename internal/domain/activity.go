package domain

import "time"

// ActivityEntry is an append-only audit row for booking lifecycle actions.
type ActivityEntry struct {
	ID        int64     `json:"id"`
	BookingID int64     `json:"booking_id"`
	ActorUID  int64     `json:"actor_uid"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
