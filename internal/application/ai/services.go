package ai

import (
	"context"

	"github.com/bryanwahyu/justification-engine/internal/domain/ai"
	"github.com/bryanwahyu/justification-engine/internal/domain/review"
	"github.com/bryanwahyu/justification-engine/internal/infra/ai/prompt"
	"github.com/bryanwahyu/justification-engine/internal/pkg/logger"
)

type LetterRequest struct {
	Insurer    string
	Categories []string
	Tier       review.Tier
}

// Letter is always usable. Err is the swallowed generation error when
// Source is the fallback.
type Letter struct {
	Content string
	Source  review.Source
	Err     error
}

type Service struct {
	client ai.Client
	log    logger.ILogger
}

func NewService(client ai.Client, log logger.ILogger) *Service {
	return &Service{client: client, log: log}
}

// Write asks the model for a letter once and falls back to the static
// template on any failure. It never returns an empty letter.
func (s *Service) Write(ctx context.Context, req LetterRequest) Letter {
	text, err := s.client.Generate(ctx, prompt.GetJustificationPrompt(req.Insurer, req.Categories))
	if err == nil && text == "" {
		err = ai.ErrEmptyCompletion
	}
	if err != nil {
		s.log.Warn("ai", "generation failed, using fallback letter", map[string]interface{}{
			"tier":    string(req.Tier),
			"insurer": req.Insurer,
			"error":   err.Error(),
		})
		return Letter{Content: prompt.GetFallbackLetter(req.Tier), Source: review.SourceFallback, Err: err}
	}
	return Letter{Content: text, Source: review.SourceModel}
}
