package service

import (
	"fmt"
	"time"

	"github.com/giaic/promptnights/internal/cache"
	"github.com/giaic/promptnights/internal/dto"
	"github.com/giaic/promptnights/internal/repository"
)

const (
	leaderboardTTL      = 60 * time.Second
	leaderboardMaxPages = 64

	// BreakdownTopN is how many podium places each challenge shows.
	BreakdownTopN = 3

	DefaultPageSize = 20
	MaxPageSize     = 100
)

// LeaderboardService serves the ranked standings. Reads are cached with a
// short TTL; the submission pipeline calls InvalidateCache on every accepted
// submission so standings never lag a score by more than one read cycle.
type LeaderboardService interface {
	Ranking(page, pageSize int) (*dto.LeaderboardDTO, error)
	Breakdown() (*dto.BreakdownDTO, error)
	MyRank(userID string) (*dto.MyRankDTO, error)
	InvalidateCache()
}

type leaderboardService struct {
	leaderboardRepository repository.LeaderboardRepository
	pageCache             *cache.KeyedTTLCache[dto.LeaderboardDTO]
	breakdownCache        *cache.TTLCache[dto.BreakdownDTO]
}

func NewLeaderboardService(leaderboardRepository repository.LeaderboardRepository) LeaderboardService {
	return &leaderboardService{
		leaderboardRepository: leaderboardRepository,
		pageCache:             cache.NewKeyedTTL[dto.LeaderboardDTO](leaderboardTTL, leaderboardMaxPages),
		breakdownCache:        cache.NewTTL[dto.BreakdownDTO](leaderboardTTL),
	}
}

func clampPaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

func (s *leaderboardService) Ranking(page, pageSize int) (*dto.LeaderboardDTO, error) {
	page, pageSize = clampPaging(page, pageSize)
	key := fmt.Sprintf("%d:%d", page, pageSize)
	if cached, ok := s.pageCache.Get(key); ok {
		return &cached, nil
	}

	offset := (page - 1) * pageSize
	rows, err := s.leaderboardRepository.Ranking(pageSize, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.leaderboardRepository.TotalRanked()
	if err != nil {
		return nil, err
	}

	entries := make([]dto.LeaderboardEntryDTO, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, dto.LeaderboardEntryDTO{
			Rank:             offset + i + 1,
			UserID:           row.UserID,
			Name:             row.Name,
			ImageURL:         row.ImageURL,
			TotalScore:       row.TotalScore,
			ChallengesSolved: row.ChallengesSolved,
		})
	}
	result := dto.LeaderboardDTO{
		Entries: entries,
		Total:   total,
		HasMore: int64(offset+len(rows)) < total,
	}
	s.pageCache.Set(key, result)
	return &result, nil
}

func (s *leaderboardService) Breakdown() (*dto.BreakdownDTO, error) {
	if cached, ok := s.breakdownCache.Get(); ok {
		return &cached, nil
	}
	rows, err := s.leaderboardRepository.Breakdown(BreakdownTopN)
	if err != nil {
		return nil, err
	}
	entries := make([]dto.BreakdownEntryDTO, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, dto.BreakdownEntryDTO{
			ChallengeID:   row.ChallengeID,
			DayNumber:     row.DayNumber,
			Rank:          row.Place,
			UserID:        row.UserID,
			Name:          row.Name,
			WeightedScore: row.WeightedScore,
		})
	}
	result := dto.BreakdownDTO{Entries: entries}
	s.breakdownCache.Set(result)
	return &result, nil
}

// MyRank is uncached: it is a single-row lookup and users expect it to move
// immediately after their own submission.
func (s *leaderboardService) MyRank(userID string) (*dto.MyRankDTO, error) {
	standing, err := s.leaderboardRepository.Standing(userID)
	if err != nil {
		return nil, err
	}
	if standing == nil {
		return &dto.MyRankDTO{Ranked: false}, nil
	}
	return &dto.MyRankDTO{
		Rank:             standing.Place,
		TotalScore:       standing.TotalScore,
		ChallengesSolved: standing.ChallengesSolved,
		Ranked:           true,
	}, nil
}

func (s *leaderboardService) InvalidateCache() {
	s.pageCache.Invalidate()
	s.breakdownCache.Invalidate()
}
