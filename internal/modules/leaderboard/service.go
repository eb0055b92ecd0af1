package leaderboard

import (
	"context"
	"sort"
	"time"

	"creativehub/internal/config"
	"creativehub/internal/domain"
	"creativehub/internal/repository"
)

type Service struct {
	standings StandingsReader
	snapshots SnapshotStore
	resetter  MonthlyResetter
	cfg       *config.RuntimeConfig
	loggerf   func(format string, args ...interface{})
}

func NewService(
	standings StandingsReader,
	snapshots SnapshotStore,
	resetter MonthlyResetter,
	cfg *config.RuntimeConfig,
	loggerf func(format string, args ...interface{}),
) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		standings: standings,
		snapshots: snapshots,
		resetter:  resetter,
		cfg:       cfg,
		loggerf:   loggerf,
	}
}

type RunResult struct {
	GroupsWritten int  `json:"groups_written"`
	GroupsFailed  int  `json:"groups_failed"`
	ResetApplied  bool `json:"reset_applied"`
}

type groupKey struct {
	city string
	role string
}

// Run rebuilds every (city, role) leaderboard from the progress records.
// Each group is replaced in its own transaction: one failing group is logged
// and skipped, never blocking the rest, and the next scheduled run repairs it
// because the whole snapshot derives from source data.
//
// On the first calendar day of the month the run ranks the prior month's
// accumulated points first, then zeroes every user's monthly counter. The
// reset only applies when every group wrote cleanly: a failed group still
// needs the counters to capture its closing board on a later run.
func (s *Service) Run(ctx context.Context, now time.Time) (*RunResult, error) {
	standings, err := s.standings.CreatorStandings(ctx)
	if err != nil {
		return nil, err
	}

	groups := make(map[groupKey][]repository.CreatorStanding)
	for _, st := range standings {
		k := groupKey{city: st.City, role: st.Role}
		groups[k] = append(groups[k], st)
	}

	keys := make([]groupKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].city != keys[j].city {
			return keys[i].city < keys[j].city
		}
		return keys[i].role < keys[j].role
	})

	result := &RunResult{}
	for _, k := range keys {
		entries := s.rank(k, groups[k], now)
		if err := s.snapshots.ReplaceGroup(ctx, k.city, domain.UserRole(k.role), entries); err != nil {
			s.loggerf("level=error msg=leaderboard group replace failed city=%s role=%s err=%v", k.city, k.role, err)
			result.GroupsFailed++
			continue
		}
		result.GroupsWritten++
	}

	if now.UTC().Day() == 1 {
		// The reset destroys the counters the boards were ranked from. A group
		// that failed to write has not captured its closing month yet, so the
		// reset is deferred to a later run of the day that writes cleanly.
		if result.GroupsFailed > 0 {
			s.loggerf("level=warn msg=monthly points reset deferred failed_groups=%d", result.GroupsFailed)
			return result, nil
		}
		reset, err := s.resetter.ResetMonthlyPoints(ctx)
		if err != nil {
			s.loggerf("level=error msg=monthly points reset failed err=%v", err)
			return result, err
		}
		s.loggerf("level=info msg=monthly points reset users=%d", reset)
		result.ResetApplied = true
	}

	return result, nil
}

// rank orders one group: points descending, ties broken by the lower UID so
// reruns over identical data produce identical boards.
func (s *Service) rank(k groupKey, standings []repository.CreatorStanding, now time.Time) []domain.LeaderboardEntry {
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].PointsMonth != standings[j].PointsMonth {
			return standings[i].PointsMonth > standings[j].PointsMonth
		}
		return standings[i].UID < standings[j].UID
	})

	size := s.cfg.LeaderboardSize
	if len(standings) < size {
		size = len(standings)
	}

	entries := make([]domain.LeaderboardEntry, 0, size)
	for i := 0; i < size; i++ {
		entries = append(entries, domain.LeaderboardEntry{
			City:        k.city,
			Role:        domain.UserRole(k.role),
			UID:         standings[i].UID,
			DisplayName: standings[i].DisplayName,
			PointsMonth: standings[i].PointsMonth,
			Rank:        i + 1,
			GeneratedAt: now,
		})
	}
	return entries
}

func (s *Service) Snapshot(ctx context.Context, city string, role domain.UserRole) ([]domain.LeaderboardEntry, error) {
	return s.snapshots.ListGroup(ctx, city, role)
}
