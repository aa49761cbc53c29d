package service

import "math"

// MaxAttempts is the hard cap on passing submissions per user+challenge.
// Attempt numbers beyond it are rejected by the pipeline before scoring.
const MaxAttempts = 3

// ScoreAggregatorService combines prompt quality, test correctness, and a
// token-economy efficiency curve into the final 0-100 competitive score, and
// applies the anti-grinding attempt decay.
type ScoreAggregatorService interface {
	EfficiencyScore(totalTokens int) int
	RawWeightedScore(qualityScore, correctnessScore, efficiencyScore int) int
	AttemptMultiplier(attemptNumber int) float64
	WeightedScore(rawWeightedScore int, attemptNumber int) int
}

type scoreAggregatorService struct{}

func NewScoreAggregatorService() ScoreAggregatorService {
	return &scoreAggregatorService{}
}

// efficiencyBreakpoints maps token counts to efficiency scores; between
// breakpoints the score is linearly interpolated so there are no cliff-edge
// jumps. Beyond the last breakpoint the score ramps to 0 over tailRamp more
// tokens.
var efficiencyBreakpoints = [][2]float64{
	{80, 100},
	{150, 80},
	{250, 50},
	{400, 20},
}

const tailRamp = 100.0

func (s *scoreAggregatorService) EfficiencyScore(totalTokens int) int {
	tokens := float64(totalTokens)

	if tokens <= efficiencyBreakpoints[0][0] {
		return int(efficiencyBreakpoints[0][1])
	}

	for i := 1; i < len(efficiencyBreakpoints); i++ {
		prevTokens, prevScore := efficiencyBreakpoints[i-1][0], efficiencyBreakpoints[i-1][1]
		currTokens, currScore := efficiencyBreakpoints[i][0], efficiencyBreakpoints[i][1]
		if tokens <= currTokens {
			t := (tokens - prevTokens) / (currTokens - prevTokens)
			return int(math.Round(prevScore + t*(currScore-prevScore)))
		}
	}

	lastTokens, lastScore := efficiencyBreakpoints[len(efficiencyBreakpoints)-1][0], efficiencyBreakpoints[len(efficiencyBreakpoints)-1][1]
	if tokens <= lastTokens+tailRamp {
		t := (tokens - lastTokens) / tailRamp
		return int(math.Round(lastScore * (1 - t)))
	}
	return 0
}

const (
	weightQuality     = 0.50
	weightCorrectness = 0.30
	weightEfficiency  = 0.20
)

// RawWeightedScore is round(0.50q + 0.30c + 0.20e) with each input clamped
// to [0,100]. The maximum is exactly 100 when all three inputs are 100.
func (s *scoreAggregatorService) RawWeightedScore(qualityScore, correctnessScore, efficiencyScore int) int {
	q := clampScore(qualityScore)
	c := clampScore(correctnessScore)
	e := clampScore(efficiencyScore)
	return int(math.Round(q*weightQuality + c*weightCorrectness + e*weightEfficiency))
}

var attemptMultipliers = map[int]float64{
	1: 1.00,
	2: 0.90,
	3: 0.75,
}

// AttemptMultiplier decays the score on repeat passing attempts. The 0.50
// tail is only reachable through this API: the pipeline blocks attempts
// beyond MaxAttempts before scoring.
func (s *scoreAggregatorService) AttemptMultiplier(attemptNumber int) float64 {
	if m, ok := attemptMultipliers[attemptNumber]; ok {
		return m
	}
	return 0.50
}

func (s *scoreAggregatorService) WeightedScore(rawWeightedScore int, attemptNumber int) int {
	return int(math.Round(float64(rawWeightedScore) * s.AttemptMultiplier(attemptNumber)))
}

func clampScore(v int) float64 {
	return math.Max(0, math.Min(100, float64(v)))
}
