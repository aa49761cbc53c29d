package repository

import (
	"time"

	"github.com/giaic/promptnights/internal/model"
	"gorm.io/gorm"
)

// RecentPromptWindow is how many recent passing prompts feed the originality
// check. Keeps the comparison set (and query cost) bounded as a challenge
// accumulates submissions.
const RecentPromptWindow = 50

// MySubmissionRow is a user's best passing submission on one challenge, with
// how many of their attempts that challenge has consumed.
type MySubmissionRow struct {
	ChallengeID        uint      `gorm:"column:challenge_id"`
	DayNumber          int       `gorm:"column:day_number"`
	Title              string    `gorm:"column:title"`
	Prompt             string    `gorm:"column:prompt"`
	GeneratedCode      string    `gorm:"column:generated_code"`
	PromptTokens       int       `gorm:"column:prompt_tokens"`
	CodeTokens         int       `gorm:"column:code_tokens"`
	TotalTokens        int       `gorm:"column:total_tokens"`
	PromptQualityScore int       `gorm:"column:prompt_quality_score"`
	SimilarityScore    int       `gorm:"column:similarity_score"`
	WeightedScore      int       `gorm:"column:weighted_score"`
	AttemptCount       int       `gorm:"column:attempt_count"`
	CreatedAt          time.Time `gorm:"column:created_at"`
}

type SubmissionRepository interface {
	CreateTx(tx *gorm.DB, submission *model.Submission) error
	CountPassingTx(tx *gorm.DB, userID string, challengeID uint) (int64, error)
	BestScore(userID string, challengeID uint) (int, error)
	RecentPassingPrompts(challengeID uint) ([]string, error)
	BestPerChallenge(userID string) ([]MySubmissionRow, error)
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) CreateTx(tx *gorm.DB, submission *model.Submission) error {
	return tx.Create(submission).Error
}

// CountPassingTx runs inside the caller's transaction so the attempt cap
// cannot be raced past by concurrent submissions from the same user.
func (r *submissionRepository) CountPassingTx(tx *gorm.DB, userID string, challengeID uint) (int64, error) {
	var count int64
	err := tx.Model(&model.Submission{}).
		Where("user_id = ? AND challenge_id = ? AND passed = ?", userID, challengeID, true).
		Count(&count).Error
	return count, err
}

// BestScore returns the user's best weighted score on a challenge, or 0 when
// they have no passing submission yet.
func (r *submissionRepository) BestScore(userID string, challengeID uint) (int, error) {
	var best *int
	err := r.db.Model(&model.Submission{}).
		Where("user_id = ? AND challenge_id = ? AND passed = ?", userID, challengeID, true).
		Select("MAX(weighted_score)").
		Scan(&best).Error
	if err != nil {
		return 0, err
	}
	if best == nil {
		return 0, nil
	}
	return *best, nil
}

// RecentPassingPrompts includes the submitter's own earlier prompts, so
// resubmitting a prompt verbatim trips the originality gate too.
func (r *submissionRepository) RecentPassingPrompts(challengeID uint) ([]string, error) {
	var prompts []string
	err := r.db.Model(&model.Submission{}).
		Where("challenge_id = ? AND passed = ?", challengeID, true).
		Order("created_at desc").
		Limit(RecentPromptWindow).
		Pluck("prompt", &prompts).Error
	return prompts, err
}

// BestPerChallenge keeps the single highest-scoring passing submission per
// challenge (earliest on ties) and counts all passing attempts alongside it.
// Window functions instead of DISTINCT ON keep the query portable.
func (r *submissionRepository) BestPerChallenge(userID string) ([]MySubmissionRow, error) {
	var rows []MySubmissionRow
	query := `
		WITH ranked AS (
			SELECT challenge_id, prompt, generated_code,
			       prompt_tokens, code_tokens, total_tokens,
			       prompt_quality_score, similarity_score, weighted_score, created_at,
			       ROW_NUMBER() OVER (
			           PARTITION BY challenge_id
			           ORDER BY weighted_score DESC, created_at ASC
			       ) AS rn,
			       COUNT(*) OVER (PARTITION BY challenge_id) AS attempt_count
			FROM submissions
			WHERE user_id = ? AND passed = ?
		)
		SELECT c.id AS challenge_id, c.day_number, c.title,
		       r.prompt, r.generated_code,
		       r.prompt_tokens, r.code_tokens, r.total_tokens,
		       r.prompt_quality_score, r.similarity_score, r.weighted_score,
		       r.attempt_count, r.created_at
		FROM ranked r
		JOIN challenges c ON c.id = r.challenge_id
		WHERE r.rn = 1
		ORDER BY c.day_number ASC`
	err := r.db.Raw(query, userID, true).Scan(&rows).Error
	return rows, err
}
