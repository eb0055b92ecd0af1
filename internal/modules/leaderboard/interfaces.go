package leaderboard

import (
	"context"

	"creativehub/internal/domain"
	"creativehub/internal/repository"
)

// StandingsReader supplies the aggregation input: every creator with a city
// set, joined to their monthly points.
type StandingsReader interface {
	CreatorStandings(ctx context.Context) ([]repository.CreatorStanding, error)
}

// SnapshotStore holds the derived ranked lists. ReplaceGroup swaps one
// (city, role) group atomically.
type SnapshotStore interface {
	ReplaceGroup(ctx context.Context, city string, role domain.UserRole, entries []domain.LeaderboardEntry) error
	ListGroup(ctx context.Context, city string, role domain.UserRole) ([]domain.LeaderboardEntry, error)
}

// MonthlyResetter zeroes every user's points_month counter.
type MonthlyResetter interface {
	ResetMonthlyPoints(ctx context.Context) (int64, error)
}
