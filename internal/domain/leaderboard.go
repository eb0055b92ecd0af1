package domain

import "time"

// LeaderboardEntry is derived data: each aggregation run replaces the whole
// (city, role) group, so entries are never updated in place.
type LeaderboardEntry struct {
	City        string    `json:"city"`
	Role        UserRole  `json:"role"`
	UID         int64     `json:"uid"`
	DisplayName string    `json:"display_name"`
	PointsMonth int64     `json:"points_month"`
	Rank        int       `json:"rank"`
	GeneratedAt time.Time `json:"generated_at"`
}
