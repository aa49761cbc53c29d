package dto

import "time"

type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type SubmissionResultDTO struct {
	ID               uint    `json:"id"`
	PromptTokens     int     `json:"prompt_tokens"`
	CodeTokens       int     `json:"code_tokens"`
	TotalTokens      int     `json:"total_tokens"`
	QualityScore     int     `json:"quality_score"`
	CorrectnessScore int     `json:"correctness_score"`
	EfficiencyScore  int     `json:"efficiency_score"`
	RawWeightedScore int     `json:"raw_weighted_score"`
	WeightedScore    int     `json:"weighted_score"`
	AttemptNumber    int     `json:"attempt_number"`
	Multiplier       float64 `json:"multiplier"`
	IsNewBest        bool    `json:"is_new_best"`
	PassedCount      int     `json:"passed_count"`
	TotalCount       int     `json:"total_count"`
}

// MySubmissionDTO is the caller's best passing submission on one challenge.
type MySubmissionDTO struct {
	ChallengeID        uint      `json:"challenge_id"`
	DayNumber          int       `json:"day_number"`
	Title              string    `json:"title"`
	Prompt             string    `json:"prompt"`
	GeneratedCode      string    `json:"generated_code"`
	PromptTokens       int       `json:"prompt_tokens"`
	CodeTokens         int       `json:"code_tokens"`
	TotalTokens        int       `json:"total_tokens"`
	PromptQualityScore int       `json:"prompt_quality_score"`
	SimilarityScore    int       `json:"similarity_score"`
	WeightedScore      int       `json:"weighted_score"`
	AttemptCount       int       `json:"attempt_count"`
	CreatedAt          time.Time `json:"created_at"`
}

type ChallengeSummaryDTO struct {
	ID         uint      `json:"id"`
	DayNumber  int       `json:"day_number"`
	Title      string    `json:"title"`
	Difficulty string    `json:"difficulty"`
	UnlocksAt  time.Time `json:"unlocks_at"`
	IsUnlocked bool      `json:"is_unlocked"`
}

type ChallengeResponseDTO struct {
	ID            uint      `json:"id"`
	DayNumber     int       `json:"day_number"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	FunctionName  string    `json:"function_name"`
	HarnessKind   string    `json:"harness_kind"`
	ExampleInput  string    `json:"example_input"`
	ExampleOutput string    `json:"example_output"`
	Difficulty    string    `json:"difficulty"`
	UnlocksAt     time.Time `json:"unlocks_at"`
}

type LeaderboardEntryDTO struct {
	Rank             int     `json:"rank"`
	UserID           string  `json:"user_id"`
	Name             string  `json:"name"`
	ImageURL         *string `json:"image_url"`
	TotalScore       int     `json:"total_score"`
	ChallengesSolved int     `json:"challenges_solved"`
}

type LeaderboardDTO struct {
	Entries []LeaderboardEntryDTO `json:"entries"`
	Total   int64                 `json:"total"`
	HasMore bool                  `json:"has_more"`
}

type BreakdownEntryDTO struct {
	ChallengeID   uint   `json:"challenge_id"`
	DayNumber     int    `json:"day_number"`
	Rank          int    `json:"rank"`
	UserID        string `json:"user_id"`
	Name          string `json:"name"`
	WeightedScore int    `json:"weighted_score"`
}

type BreakdownDTO struct {
	Entries []BreakdownEntryDTO `json:"entries"`
}

type MyRankDTO struct {
	Rank             int  `json:"rank"`
	TotalScore       int  `json:"total_score"`
	ChallengesSolved int  `json:"challenges_solved"`
	Ranked           bool `json:"ranked"`
}

type GenerateResponseDTO struct {
	Code string `json:"code"`
}
