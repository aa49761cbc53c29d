package model

import "time"

// Submission is an accepted (passing) grading attempt. Rows are append-only:
// the scoring flow never updates or deletes them, and only passing
// submissions are stored at all.
type Submission struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	UserID      string    `json:"user_id" gorm:"not null;index:idx_submissions_user_challenge,priority:1"`
	User        User      `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	ChallengeID uint      `json:"challenge_id" gorm:"not null;index:idx_submissions_user_challenge,priority:2;index:idx_submissions_challenge_created,priority:1"`
	Challenge   Challenge `json:"-" gorm:"foreignKey:ChallengeID;constraint:OnDelete:CASCADE"`

	Prompt        string `json:"prompt" gorm:"type:text;not null"`
	GeneratedCode string `json:"generated_code" gorm:"type:text;not null"`

	PromptTokens       int  `json:"prompt_tokens" gorm:"not null"`
	CodeTokens         int  `json:"code_tokens" gorm:"not null"`
	TotalTokens        int  `json:"total_tokens" gorm:"not null"`
	PromptQualityScore int  `json:"prompt_quality_score" gorm:"not null;default:0"`
	SimilarityScore    int  `json:"similarity_score" gorm:"not null;default:0"`
	RawWeightedScore   int  `json:"raw_weighted_score" gorm:"not null;default:0"`
	WeightedScore      int  `json:"weighted_score" gorm:"not null;default:0"`
	Passed             bool `json:"passed" gorm:"not null"`

	CreatedAt time.Time `json:"created_at" gorm:"index:idx_submissions_challenge_created,priority:2"`
}
