package service

import (
	"math"
	"regexp"
	"strings"
)

// RequiredSections are the four sections every structured prompt must carry,
// in any order.
var RequiredSections = []string{"Goal", "Constraints", "Edge Cases", "Output Format"}

// StructureResult reports which required sections a prompt is missing.
type StructureResult struct {
	IsValid         bool     `json:"is_valid"`
	MissingSections []string `json:"missing_sections"`
}

// PromptRulesService validates prompt structure and scores prompt quality on
// a 0-100 scale from three additive components:
//
//	Structure   (0-60): 15 points per present required section
//	Depth       (0-20): linear ramp, 20 at >=200 trimmed characters
//	Specificity (0-20): constraint keyword presence, 7 keywords cap the ramp
//
// The components sum to exactly 100 at maximum; no clamping overshoot.
type PromptRulesService interface {
	ValidateStructure(prompt string) StructureResult
	ScoreQuality(prompt string) int
}

type promptRulesService struct{}

func NewPromptRulesService() PromptRulesService {
	return &promptRulesService{}
}

// FormatHint is appended to structure rejections so users know what to fix.
const FormatHint = "Use structured prompt sections: Goal, Constraints, Edge Cases, Output Format."

var whitespaceRe = regexp.MustCompile(`\s+`)

var constraintKeywords = []string{"must", "should", "avoid", "handle", "return", "input", "output"}

func normalizePrompt(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(strings.ToLower(s), " "))
}

func hasSection(prompt, section string) bool {
	lowered := normalizePrompt(prompt)
	sectionLower := strings.ToLower(section)
	return strings.Contains(lowered, sectionLower+":") ||
		strings.Contains(lowered, "## "+sectionLower) ||
		strings.Contains(lowered, "# "+sectionLower)
}

func (s *promptRulesService) ValidateStructure(prompt string) StructureResult {
	var missing []string
	for _, section := range RequiredSections {
		if !hasSection(prompt, section) {
			missing = append(missing, section)
		}
	}
	return StructureResult{IsValid: len(missing) == 0, MissingSections: missing}
}

func (s *promptRulesService) ScoreQuality(prompt string) int {
	trimmed := strings.TrimSpace(prompt)
	lowered := normalizePrompt(trimmed)

	const pointsPerSection = 15
	structureScore := 0
	for _, section := range RequiredSections {
		if hasSection(trimmed, section) {
			structureScore += pointsPerSection
		}
	}

	const maxDepth = 20.0
	const depthThreshold = 200.0
	length := float64(len([]rune(trimmed)))
	depthScore := int(math.Round(math.Min(1, length/depthThreshold) * maxDepth))

	const maxSpecificity = 20.0
	hits := 0
	for _, keyword := range constraintKeywords {
		if strings.Contains(lowered, keyword) {
			hits++
		}
	}
	specificityScore := int(math.Round(math.Min(1, float64(hits)/float64(len(constraintKeywords))) * maxSpecificity))

	return structureScore + depthScore + specificityScore
}
