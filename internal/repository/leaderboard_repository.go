package repository

import (
	"gorm.io/gorm"
)

// RankingRow is one user's aggregate standing. Rank is filled in by the
// caller from the row's position in the ordered result.
type RankingRow struct {
	UserID           string  `gorm:"column:user_id"`
	Name             string  `gorm:"column:name"`
	ImageURL         *string `gorm:"column:image_url"`
	TotalScore       int     `gorm:"column:total_score"`
	ChallengesSolved int     `gorm:"column:challenges_solved"`
}

// BreakdownRow is one podium place on one challenge.
type BreakdownRow struct {
	ChallengeID   uint   `gorm:"column:challenge_id"`
	DayNumber     int    `gorm:"column:day_number"`
	Place         int    `gorm:"column:place"`
	UserID        string `gorm:"column:user_id"`
	Name          string `gorm:"column:name"`
	WeightedScore int    `gorm:"column:weighted_score"`
}

// StandingRow is a single user's rank lookup.
type StandingRow struct {
	Place            int `gorm:"column:place"`
	TotalScore       int `gorm:"column:total_score"`
	ChallengesSolved int `gorm:"column:challenges_solved"`
}

type LeaderboardRepository interface {
	Ranking(limit, offset int) ([]RankingRow, error)
	TotalRanked() (int64, error)
	Breakdown(topN int) ([]BreakdownRow, error)
	Standing(userID string) (*StandingRow, error)
}

type leaderboardRepository struct {
	db *gorm.DB
}

func NewLeaderboardRepository(db *gorm.DB) LeaderboardRepository {
	return &leaderboardRepository{db: db}
}

// bestPerPairCTE picks each user's single best passing submission per
// challenge: highest weighted score, earliest on ties. Window functions
// instead of DISTINCT ON keep the query portable across SQL backends.
const bestPerPairCTE = `
	best AS (
		SELECT user_id, challenge_id, weighted_score, created_at,
		       ROW_NUMBER() OVER (
		           PARTITION BY user_id, challenge_id
		           ORDER BY weighted_score DESC, created_at ASC
		       ) AS rn
		FROM submissions
		WHERE passed = ?
	)`

const totalsCTE = `
	totals AS (
		SELECT user_id,
		       SUM(weighted_score)  AS total_score,
		       COUNT(*)             AS challenges_solved,
		       MIN(created_at)      AS first_passed_at
		FROM best
		WHERE rn = 1
		GROUP BY user_id
	)`

func (r *leaderboardRepository) Ranking(limit, offset int) ([]RankingRow, error) {
	var rows []RankingRow
	query := `
		WITH ` + bestPerPairCTE + `, ` + totalsCTE + `
		SELECT t.user_id, u.name, u.image_url, t.total_score, t.challenges_solved
		FROM totals t
		JOIN users u ON u.id = t.user_id
		ORDER BY t.total_score DESC, t.first_passed_at ASC
		LIMIT ? OFFSET ?`
	err := r.db.Raw(query, true, limit, offset).Scan(&rows).Error
	return rows, err
}

func (r *leaderboardRepository) TotalRanked() (int64, error) {
	var total int64
	query := `
		SELECT COUNT(DISTINCT user_id)
		FROM submissions
		WHERE passed = ?`
	err := r.db.Raw(query, true).Scan(&total).Error
	return total, err
}

func (r *leaderboardRepository) Breakdown(topN int) ([]BreakdownRow, error) {
	var rows []BreakdownRow
	query := `
		WITH ` + bestPerPairCTE + `,
		placed AS (
			SELECT challenge_id, user_id, weighted_score,
			       ROW_NUMBER() OVER (
			           PARTITION BY challenge_id
			           ORDER BY weighted_score DESC, created_at ASC
			       ) AS place
			FROM best
			WHERE rn = 1
		)
		SELECT c.id AS challenge_id, c.day_number, p.place, p.user_id, u.name, p.weighted_score
		FROM placed p
		JOIN users u ON u.id = p.user_id
		JOIN challenges c ON c.id = p.challenge_id
		WHERE p.place <= ?
		ORDER BY c.day_number ASC, p.place ASC`
	err := r.db.Raw(query, true, topN).Scan(&rows).Error
	return rows, err
}

// Standing returns nil when the user has no passing submission.
func (r *leaderboardRepository) Standing(userID string) (*StandingRow, error) {
	var rows []StandingRow
	query := `
		WITH ` + bestPerPairCTE + `, ` + totalsCTE + `,
		placed AS (
			SELECT user_id, total_score, challenges_solved,
			       ROW_NUMBER() OVER (
			           ORDER BY total_score DESC, first_passed_at ASC
			       ) AS place
			FROM totals
		)
		SELECT place, total_score, challenges_solved
		FROM placed
		WHERE user_id = ?`
	if err := r.db.Raw(query, true, userID).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
