package repository

import (
	"context"
	"time"

	"creativehub/internal/domain"

	"gorm.io/gorm"
)

type LeaderboardRepository struct {
	db *gorm.DB
}

func NewLeaderboardRepository(db *gorm.DB) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

type leaderboardEntryModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	City        string    `gorm:"column:city;index:idx_board_group"`
	Role        string    `gorm:"column:role;index:idx_board_group"`
	UID         int64     `gorm:"column:uid"`
	DisplayName string    `gorm:"column:display_name"`
	PointsMonth int64     `gorm:"column:points_month"`
	Rank        int       `gorm:"column:rank"`
	GeneratedAt time.Time `gorm:"column:generated_at"`
}

func (leaderboardEntryModel) TableName() string { return "leaderboard_entries" }

// CreatorStanding is one row of aggregation input: a creator with a city and
// their accumulated monthly points.
type CreatorStanding struct {
	UID         int64
	DisplayName string
	City        string
	Role        string
	PointsMonth int64
}

// CreatorStandings joins users against progress for every creator with a city
// set. Users without a progress row count as zero points.
func (r *LeaderboardRepository) CreatorStandings(ctx context.Context) ([]CreatorStanding, error) {
	roles := make([]string, 0, len(domain.CreatorRoles))
	for _, role := range domain.CreatorRoles {
		roles = append(roles, string(role))
	}

	var rows []CreatorStanding
	q := `
SELECT u.id AS uid,
       u.display_name AS display_name,
       u.city AS city,
       u.role AS role,
       COALESCE(p.points_month, 0) AS points_month
FROM users u
LEFT JOIN user_progress p ON p.uid = u.id
WHERE u.city <> '' AND u.role IN ?
`
	tx := r.db.WithContext(ctx).Raw(q, roles).Scan(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return rows, nil
}

// ReplaceGroup swaps out one (city, role) group wholesale. Delete and insert
// commit together, so readers never see a half-written group and a failed run
// leaves the previous snapshot intact.
func (r *LeaderboardRepository) ReplaceGroup(ctx context.Context, city string, role domain.UserRole, entries []domain.LeaderboardEntry) error {
	return r.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		if err := db.Where("city = ? AND role = ?", city, string(role)).
			Delete(&leaderboardEntryModel{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}

		models := make([]leaderboardEntryModel, 0, len(entries))
		for _, e := range entries {
			models = append(models, leaderboardEntryModel{
				City:        e.City,
				Role:        string(e.Role),
				UID:         e.UID,
				DisplayName: e.DisplayName,
				PointsMonth: e.PointsMonth,
				Rank:        e.Rank,
				GeneratedAt: e.GeneratedAt,
			})
		}
		return db.Create(&models).Error
	})
}

func (r *LeaderboardRepository) ListGroup(ctx context.Context, city string, role domain.UserRole) ([]domain.LeaderboardEntry, error) {
	var models []leaderboardEntryModel
	tx := r.db.WithContext(ctx).
		Where("city = ? AND role = ?", city, string(role)).
		Order("rank ASC").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.LeaderboardEntry, 0, len(models))
	for _, m := range models {
		out = append(out, domain.LeaderboardEntry{
			City:        m.City,
			Role:        domain.UserRole(m.Role),
			UID:         m.UID,
			DisplayName: m.DisplayName,
			PointsMonth: m.PointsMonth,
			Rank:        m.Rank,
			GeneratedAt: m.GeneratedAt,
		})
	}
	return out, nil
}
