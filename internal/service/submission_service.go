package service

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/giaic/promptnights/config"
	"github.com/giaic/promptnights/internal/apperror"
	"github.com/giaic/promptnights/internal/dto"
	"github.com/giaic/promptnights/internal/model"
	"github.com/giaic/promptnights/internal/repository"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	// SimilarityThreshold rejects prompts whose token-set overlap with the
	// challenge text or recent passing prompts is this high or higher.
	SimilarityThreshold = 0.8

	// CorrectnessThreshold is the minimum test score for a submission to be
	// accepted and stored.
	CorrectnessThreshold = 70
)

// SubmissionService runs the full grading pipeline: cheap text gates first,
// sandboxed execution second, scoring and persistence last. Only passing
// submissions are stored; every rejection carries an apperror code.
type SubmissionService interface {
	Create(userID string, req dto.SubmissionCreateDTO) (*dto.SubmissionResultDTO, error)
	ListMine(userID string) ([]dto.MySubmissionDTO, error)
}

type submissionService struct {
	db                   *gorm.DB
	challengeRepository  repository.ChallengeRepository
	submissionRepository repository.SubmissionRepository
	promptRules          PromptRulesService
	similarity           SimilarityService
	tokens               TokenEstimatorService
	aggregator           ScoreAggregatorService
	runner               CodeRunnerService
	leaderboard          LeaderboardService
	cfg                  *config.Config
}

func NewSubmissionService(
	db *gorm.DB,
	challengeRepository repository.ChallengeRepository,
	submissionRepository repository.SubmissionRepository,
	promptRules PromptRulesService,
	similarity SimilarityService,
	tokens TokenEstimatorService,
	aggregator ScoreAggregatorService,
	runner CodeRunnerService,
	leaderboard LeaderboardService,
	cfg *config.Config,
) SubmissionService {
	return &submissionService{
		db:                   db,
		challengeRepository:  challengeRepository,
		submissionRepository: submissionRepository,
		promptRules:          promptRules,
		similarity:           similarity,
		tokens:               tokens,
		aggregator:           aggregator,
		runner:               runner,
		leaderboard:          leaderboard,
		cfg:                  cfg,
	}
}

func (s *submissionService) Create(userID string, req dto.SubmissionCreateDTO) (*dto.SubmissionResultDTO, error) {
	// The trimmed text is what every later gate sees and what gets stored.
	prompt := strings.TrimSpace(req.Prompt)
	code := strings.TrimSpace(req.GeneratedCode)
	if prompt == "" || code == "" {
		return nil, apperror.New(apperror.CodeInvalidInput, "Prompt and generated code must not be empty.")
	}

	structure := s.promptRules.ValidateStructure(prompt)
	if !structure.IsValid {
		return nil, apperror.New(apperror.CodeInvalidInput,
			"Prompt is missing required sections: %s. %s",
			strings.Join(structure.MissingSections, ", "), FormatHint)
	}

	challenge, err := s.challengeRepository.FindByID(req.ChallengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.CodeNotFound, "Challenge %d not found.", req.ChallengeID)
		}
		return nil, err
	}
	if !challenge.IsUnlocked(time.Now(), s.cfg.IsDevelopment()) {
		return nil, apperror.New(apperror.CodeForbidden, "Challenge for day %d is not unlocked yet.", challenge.DayNumber)
	}

	references := []string{
		challenge.Title,
		challenge.Description,
		challenge.ExampleInput,
		challenge.ExampleOutput,
	}
	recentPrompts, err := s.submissionRepository.RecentPassingPrompts(challenge.ID)
	if err != nil {
		return nil, err
	}
	references = append(references, recentPrompts...)
	highest := s.similarity.HighestSimilarity(prompt, references)
	if highest >= SimilarityThreshold {
		return nil, apperror.New(apperror.CodeTooSimilar,
			"Prompt is too similar to the challenge text or an existing passing prompt (%.0f%% overlap). Write it in your own words.",
			highest*100)
	}

	runResult, err := s.runner.RunTests(code, challenge.HarnessKind, challenge.FunctionName, challenge.TestCases)
	if err != nil {
		log.Error().Err(err).Uint("challenge_id", challenge.ID).Msg("Challenge test suite is broken")
		return nil, err
	}
	if runResult.CorrectnessScore < CorrectnessThreshold {
		reason := runResult.Reason
		if reason == "" {
			reason = "Generated code did not pass enough server tests."
		}
		return nil, apperror.New(apperror.CodeBelowCorrectness,
			"Correctness %d%% is below the %d%% acceptance threshold. %s",
			runResult.CorrectnessScore, CorrectnessThreshold, reason)
	}

	promptTokens := s.tokens.Estimate(prompt)
	codeTokens := s.tokens.Estimate(code)
	totalTokens := promptTokens + codeTokens
	qualityScore := s.promptRules.ScoreQuality(prompt)
	efficiencyScore := s.aggregator.EfficiencyScore(totalTokens)
	rawWeighted := s.aggregator.RawWeightedScore(qualityScore, runResult.CorrectnessScore, efficiencyScore)

	previousBest, err := s.submissionRepository.BestScore(userID, challenge.ID)
	if err != nil {
		return nil, err
	}

	var submission model.Submission
	var attemptNumber int
	err = s.db.Transaction(func(tx *gorm.DB) error {
		// The count is re-read inside the transaction so two in-flight
		// submissions cannot both slip under the attempt cap.
		passing, err := s.submissionRepository.CountPassingTx(tx, userID, challenge.ID)
		if err != nil {
			return err
		}
		if passing >= MaxAttempts {
			return apperror.New(apperror.CodeAttemptsExhausted,
				"All %d scoring attempts for this challenge are used.", MaxAttempts)
		}
		attemptNumber = int(passing) + 1

		submission = model.Submission{
			UserID:             userID,
			ChallengeID:        challenge.ID,
			Prompt:             prompt,
			GeneratedCode:      code,
			PromptTokens:       promptTokens,
			CodeTokens:         codeTokens,
			TotalTokens:        totalTokens,
			PromptQualityScore: qualityScore,
			SimilarityScore:    int(math.Round(highest * 100)),
			RawWeightedScore:   rawWeighted,
			WeightedScore:      s.aggregator.WeightedScore(rawWeighted, attemptNumber),
			Passed:             true,
		}
		return s.submissionRepository.CreateTx(tx, &submission)
	})
	if err != nil {
		return nil, err
	}

	s.leaderboard.InvalidateCache()
	log.Info().
		Str("user_id", userID).
		Uint("challenge_id", challenge.ID).
		Int("attempt", attemptNumber).
		Int("weighted_score", submission.WeightedScore).
		Msg("Submission accepted")

	return &dto.SubmissionResultDTO{
		ID:               submission.ID,
		PromptTokens:     promptTokens,
		CodeTokens:       codeTokens,
		TotalTokens:      totalTokens,
		QualityScore:     qualityScore,
		CorrectnessScore: runResult.CorrectnessScore,
		EfficiencyScore:  efficiencyScore,
		RawWeightedScore: rawWeighted,
		WeightedScore:    submission.WeightedScore,
		AttemptNumber:    attemptNumber,
		Multiplier:       s.aggregator.AttemptMultiplier(attemptNumber),
		IsNewBest:        submission.WeightedScore > previousBest,
		PassedCount:      runResult.PassedCount,
		TotalCount:       runResult.TotalCount,
	}, nil
}

// ListMine returns the caller's best passing submission per challenge, with
// the number of attempts spent on each.
func (s *submissionService) ListMine(userID string) ([]dto.MySubmissionDTO, error) {
	rows, err := s.submissionRepository.BestPerChallenge(userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MySubmissionDTO, 0, len(rows))
	for i := range rows {
		var item dto.MySubmissionDTO
		if err := copier.Copy(&item, &rows[i]); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
