package factory

import (
	"fmt"
	"time"

	domai "github.com/bryanwahyu/justification-engine/internal/domain/ai"
	"github.com/bryanwahyu/justification-engine/internal/infra/ai/anthropic"
	"github.com/bryanwahyu/justification-engine/internal/infra/ai/openai"
)

type Options struct {
	Provider  string // "anthropic" or "openai"
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int
	Timeout   time.Duration
}

func NewClient(opts Options) (domai.Client, error) {
	switch opts.Provider {
	case "", "anthropic":
		return anthropic.NewClient(anthropic.Config{
			APIKey:    opts.APIKey,
			BaseURL:   opts.BaseURL,
			Model:     opts.Model,
			MaxTokens: opts.MaxTokens,
			Timeout:   opts.Timeout,
		}), nil
	case "openai":
		return openai.NewClient(openai.Config{
			APIKey:    opts.APIKey,
			BaseURL:   opts.BaseURL,
			Model:     opts.Model,
			MaxTokens: opts.MaxTokens,
			Timeout:   opts.Timeout,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", opts.Provider)
	}
}
