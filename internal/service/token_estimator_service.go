package service

import (
	"math"
	"strings"
)

// TokenEstimatorService is the official cost metric for a text blob. It is a
// deterministic heuristic (not a model tokenizer): whitespace-delimited words
// weighted at 1.3 plus punctuation/operator characters at 0.3, rounded up.
// The same numbers back both UI feedback and the efficiency score.
type TokenEstimatorService interface {
	Estimate(text string) int
}

type tokenEstimatorService struct{}

func NewTokenEstimatorService() TokenEstimatorService {
	return &tokenEstimatorService{}
}

const specialChars = "{}()[];=><+-*/&|!.,:`'\""

func (s *tokenEstimatorService) Estimate(text string) int {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}
	words := len(strings.Fields(trimmed))
	special := 0
	for _, r := range text {
		if strings.ContainsRune(specialChars, r) {
			special++
		}
	}
	return int(math.Ceil(float64(words)*1.3 + float64(special)*0.3))
}
