package service

import "testing"

func TestEfficiencyScore(t *testing.T) {
	aggregator := NewScoreAggregatorService()
	tests := []struct {
		tokens int
		want   int
	}{
		{tokens: 0, want: 100},
		{tokens: 80, want: 100},
		{tokens: 115, want: 90},
		{tokens: 150, want: 80},
		{tokens: 200, want: 65},
		{tokens: 250, want: 50},
		{tokens: 325, want: 35},
		{tokens: 400, want: 20},
		{tokens: 450, want: 10},
		{tokens: 500, want: 0},
		{tokens: 800, want: 0},
	}
	for _, tt := range tests {
		if got := aggregator.EfficiencyScore(tt.tokens); got != tt.want {
			t.Errorf("EfficiencyScore(%d) = %d, want %d", tt.tokens, got, tt.want)
		}
	}
}

func TestEfficiencyScoreMonotonic(t *testing.T) {
	aggregator := NewScoreAggregatorService()
	prev := aggregator.EfficiencyScore(0)
	for tokens := 1; tokens <= 600; tokens++ {
		got := aggregator.EfficiencyScore(tokens)
		if got > prev {
			t.Fatalf("EfficiencyScore(%d) = %d rises above EfficiencyScore(%d) = %d", tokens, got, tokens-1, prev)
		}
		prev = got
	}
}

func TestRawWeightedScore(t *testing.T) {
	aggregator := NewScoreAggregatorService()
	tests := []struct {
		name                             string
		quality, correctness, efficiency int
		want                             int
	}{
		{name: "all max", quality: 100, correctness: 100, efficiency: 100, want: 100},
		{name: "all zero", quality: 0, correctness: 0, efficiency: 0, want: 0},
		// 0.5*80 + 0.3*70 + 0.2*100 = 81
		{name: "mixed", quality: 80, correctness: 70, efficiency: 100, want: 81},
		// 0.5*91 + 0.3*100 + 0.2*90 = 93.5, rounds to 94
		{name: "rounds half up", quality: 91, correctness: 100, efficiency: 90, want: 94},
		// out-of-range inputs clamp: 0.5*100 + 0 + 0.2*50 = 60
		{name: "clamped", quality: 150, correctness: -10, efficiency: 50, want: 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := aggregator.RawWeightedScore(tt.quality, tt.correctness, tt.efficiency); got != tt.want {
				t.Errorf("RawWeightedScore = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAttemptMultiplier(t *testing.T) {
	aggregator := NewScoreAggregatorService()
	tests := []struct {
		attempt int
		want    float64
	}{
		{attempt: 1, want: 1.0},
		{attempt: 2, want: 0.9},
		{attempt: 3, want: 0.75},
		{attempt: 4, want: 0.5},
		{attempt: 9, want: 0.5},
	}
	for _, tt := range tests {
		if got := aggregator.AttemptMultiplier(tt.attempt); got != tt.want {
			t.Errorf("AttemptMultiplier(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestWeightedScore(t *testing.T) {
	aggregator := NewScoreAggregatorService()
	tests := []struct {
		raw     int
		attempt int
		want    int
	}{
		{raw: 80, attempt: 1, want: 80},
		{raw: 80, attempt: 2, want: 72},
		{raw: 80, attempt: 3, want: 60},
		// round(85 * 0.9) = 77
		{raw: 85, attempt: 2, want: 77},
	}
	for _, tt := range tests {
		if got := aggregator.WeightedScore(tt.raw, tt.attempt); got != tt.want {
			t.Errorf("WeightedScore(%d, attempt %d) = %d, want %d", tt.raw, tt.attempt, got, tt.want)
		}
	}
}
