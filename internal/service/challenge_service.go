package service

import (
	"errors"
	"time"

	"github.com/giaic/promptnights/config"
	"github.com/giaic/promptnights/internal/apperror"
	"github.com/giaic/promptnights/internal/cache"
	"github.com/giaic/promptnights/internal/dto"
	"github.com/giaic/promptnights/internal/model"
	"github.com/giaic/promptnights/internal/repository"
	"github.com/giaic/promptnights/internal/sandbox"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// challengeListTTL bounds staleness of the challenge calendar. The list only
// changes when an admin seeds a day, and seeding also invalidates.
const challengeListTTL = 60 * time.Second

// lastDayNumber is the length of the competition calendar.
const lastDayNumber = 30

type ChallengeService interface {
	ListChallenges() ([]dto.ChallengeSummaryDTO, error)
	GetChallengeByDay(dayNumber int) (*dto.ChallengeResponseDTO, error)
	CreateChallenge(req dto.ChallengeCreateDTO) (*dto.ChallengeResponseDTO, error)
}

type challengeService struct {
	challengeRepository repository.ChallengeRepository
	listCache           *cache.TTLCache[[]model.Challenge]
	cfg                 *config.Config
}

func NewChallengeService(challengeRepository repository.ChallengeRepository, cfg *config.Config) ChallengeService {
	return &challengeService{
		challengeRepository: challengeRepository,
		listCache:           cache.NewTTL[[]model.Challenge](challengeListTTL),
		cfg:                 cfg,
	}
}

func (s *challengeService) loadAll() ([]model.Challenge, error) {
	if challenges, ok := s.listCache.Get(); ok {
		return challenges, nil
	}
	challenges, err := s.challengeRepository.FindAll()
	if err != nil {
		return nil, err
	}
	s.listCache.Set(challenges)
	return challenges, nil
}

// ListChallenges returns the full calendar. Locked days keep their metadata
// visible but the unlock flag tells clients not to link into them; the
// detail endpoint enforces the lock server-side regardless.
func (s *challengeService) ListChallenges() ([]dto.ChallengeSummaryDTO, error) {
	challenges, err := s.loadAll()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	summaries := make([]dto.ChallengeSummaryDTO, 0, len(challenges))
	for i := range challenges {
		var summary dto.ChallengeSummaryDTO
		if err := copier.Copy(&summary, &challenges[i]); err != nil {
			return nil, err
		}
		summary.IsUnlocked = challenges[i].IsUnlocked(now, s.cfg.IsDevelopment())
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *challengeService) GetChallengeByDay(dayNumber int) (*dto.ChallengeResponseDTO, error) {
	if dayNumber < 1 || dayNumber > lastDayNumber {
		return nil, apperror.New(apperror.CodeInvalidInput, "Day number must be between 1 and %d.", lastDayNumber)
	}
	challenge, err := s.challengeRepository.FindByDayNumber(dayNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.CodeNotFound, "Challenge for day %d not found.", dayNumber)
		}
		return nil, err
	}
	if !challenge.IsUnlocked(time.Now(), s.cfg.IsDevelopment()) {
		return nil, apperror.New(apperror.CodeForbidden, "Challenge for day %d is not unlocked yet.", dayNumber)
	}
	var resp dto.ChallengeResponseDTO
	if err := copier.Copy(&resp, challenge); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *challengeService) CreateChallenge(req dto.ChallengeCreateDTO) (*dto.ChallengeResponseDTO, error) {
	kind, err := sandbox.KindFor(req.HarnessKind)
	if err != nil {
		return nil, apperror.New(apperror.CodeInvalidInput, "Unknown harness kind %q.", req.HarnessKind)
	}
	testCases, err := sandbox.ParseTestCases(req.TestCases)
	if err != nil {
		return nil, apperror.New(apperror.CodeInvalidInput, "Test cases must be a JSON array of {input, expected} objects.")
	}
	if len(testCases) == 0 {
		return nil, apperror.New(apperror.CodeInvalidInput, "At least one test case is required.")
	}
	unlocksAt, err := time.Parse(time.RFC3339, req.UnlocksAt)
	if err != nil {
		return nil, apperror.New(apperror.CodeInvalidInput, "unlocks_at must be an RFC 3339 timestamp.")
	}
	if _, err := s.challengeRepository.FindByDayNumber(req.DayNumber); err == nil {
		return nil, apperror.New(apperror.CodeInvalidInput, "Day %d already has a challenge.", req.DayNumber)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	challenge := &model.Challenge{
		DayNumber:     req.DayNumber,
		Title:         req.Title,
		Description:   req.Description,
		FunctionName:  req.FunctionName,
		HarnessKind:   string(kind),
		ExampleInput:  req.ExampleInput,
		ExampleOutput: req.ExampleOutput,
		TestCases:     []byte(req.TestCases),
		Difficulty:    req.Difficulty,
		UnlocksAt:     unlocksAt,
	}
	if err := s.challengeRepository.Create(challenge); err != nil {
		return nil, err
	}
	s.listCache.Invalidate()
	log.Info().Int("day", challenge.DayNumber).Str("title", challenge.Title).Msg("Challenge created")

	var resp dto.ChallengeResponseDTO
	if err := copier.Copy(&resp, challenge); err != nil {
		return nil, err
	}
	return &resp, nil
}
