package service

import (
	"regexp"
	"strings"
)

// SimilarityService measures token-set Jaccard similarity between texts.
// It is the anti-plagiarism gate, not a score component: a candidate prompt
// too close to the challenge text or to recent passing prompts is rejected
// before any execution work happens.
type SimilarityService interface {
	Similarity(a, b string) float64
	HighestSimilarity(candidate string, references []string) float64
}

type similarityService struct{}

func NewSimilarityService() SimilarityService {
	return &similarityService{}
}

var nonAlphanumericRe = regexp.MustCompile(`[^a-z0-9\s]`)

func tokenSet(text string) map[string]struct{} {
	normalized := strings.ToLower(text)
	normalized = nonAlphanumericRe.ReplaceAllString(normalized, " ")
	set := make(map[string]struct{})
	for _, token := range strings.Fields(normalized) {
		set[token] = struct{}{}
	}
	return set
}

func (s *similarityService) Similarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for token := range setA {
		if _, ok := setB[token]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func (s *similarityService) HighestSimilarity(candidate string, references []string) float64 {
	highest := 0.0
	for _, reference := range references {
		if score := s.Similarity(candidate, reference); score > highest {
			highest = score
		}
	}
	return highest
}
