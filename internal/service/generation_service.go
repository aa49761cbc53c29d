package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/giaic/promptnights/config"
	"github.com/giaic/promptnights/internal/apperror"
	"github.com/giaic/promptnights/internal/dto"
	"github.com/giaic/promptnights/internal/ratelimit"
	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// GenerationService turns a user's structured prompt into candidate
// JavaScript via Gemini. Generation is a convenience, not part of grading:
// users may paste code from anywhere, so this endpoint is rate limited per
// user rather than per challenge.
type GenerationService interface {
	Generate(ctx context.Context, userID string, req dto.GenerateRequestDTO) (string, error)
}

type generationService struct {
	client  *genai.GenerativeModel
	limiter *ratelimit.SlidingWindow
}

func NewGenerationService(cfg *config.Config, limiter *ratelimit.SlidingWindow) (GenerationService, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. GenerationService will be non-functional.")
		return &generationService{client: nil, limiter: limiter}, nil
	}
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	model := client.GenerativeModel("gemini-1.5-flash")
	return &generationService{client: model, limiter: limiter}, nil
}

func (s *generationService) Generate(ctx context.Context, userID string, req dto.GenerateRequestDTO) (string, error) {
	if allowed, retryAt := s.limiter.Allow(userID); !allowed {
		return "", apperror.New(apperror.CodeRateLimited,
			"Generation limit reached. Try again at %s.", retryAt.UTC().Format("15:04:05 MST"))
	}
	if s.client == nil {
		return "", fmt.Errorf("gemini client not initialized")
	}

	var b strings.Builder
	b.WriteString("You are a JavaScript code generator for a coding challenge platform.\n")
	b.WriteString("Generate a solution for the challenge below, following the user's prompt exactly.\n\n")
	b.WriteString("Challenge:\n---\n")
	b.WriteString(req.ChallengeDescription)
	b.WriteString("\n---\n\n")
	b.WriteString("User's prompt:\n---\n")
	b.WriteString(req.Prompt)
	b.WriteString("\n---\n\n")
	b.WriteString(fmt.Sprintf("Rules:\n- Define a function named `%s`.\n", req.FunctionName))
	b.WriteString("- Plain JavaScript only. No imports, no require, no file or network access.\n")
	b.WriteString("- Return ONLY the code. No markdown fences, no explanation, no comments.\n")

	resp, err := s.client.GenerateContent(ctx, genai.Text(b.String()))
	if err != nil {
		log.Error().Err(err).Msg("Gemini API error during code generation")
		return "", fmt.Errorf("gemini API error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no content")
	}

	fullText := ""
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			fullText += string(txt)
		}
	}
	if fullText == "" {
		return "", fmt.Errorf("gemini returned no text content")
	}
	return stripCodeFences(fullText), nil
}

// stripCodeFences unwraps a ```-fenced block when the model ignores the
// no-markdown instruction.
func stripCodeFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
