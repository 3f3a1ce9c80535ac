package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	domai "github.com/bryanwahyu/justification-engine/internal/domain/ai"
	"github.com/bryanwahyu/justification-engine/internal/domain/review"
	"github.com/bryanwahyu/justification-engine/internal/infra/ai/prompt"
	"github.com/bryanwahyu/justification-engine/internal/pkg/logger"
)

type stubClient struct {
	text   string
	err    error
	prompt string
}

func (c *stubClient) Generate(_ context.Context, p string) (string, error) {
	c.prompt = p
	return c.text, c.err
}

func TestWriteUsesModelText(t *testing.T) {
	c := &stubClient{text: "Generated letter"}
	svc := NewService(c, logger.NewNop())

	got := svc.Write(t.Context(), LetterRequest{Insurer: "AIA", Categories: []string{"A", "B"}, Tier: review.TierCore})

	assert.Equal(t, Letter{Content: "Generated letter", Source: review.SourceModel}, got)
	assert.Equal(t, prompt.GetJustificationPrompt("AIA", []string{"A", "B"}), c.prompt)
}

func TestWriteFallsBack(t *testing.T) {
	tests := []struct {
		name string
		c    *stubClient
	}{
		{"network error", &stubClient{err: errors.New("dial tcp: connection refused")}},
		{"quota", &stubClient{err: domai.ErrQuotaExceeded}},
		{"empty text", &stubClient{text: ""}},
	}
	for _, tt := range tests {
		for _, tier := range []review.Tier{review.TierCore, review.TierPro} {
			t.Run(tt.name+"/"+string(tier), func(t *testing.T) {
				got := NewService(tt.c, logger.NewNop()).Write(t.Context(), LetterRequest{Insurer: "AIA", Tier: tier})

				assert.Equal(t, prompt.GetFallbackLetter(tier), got.Content)
				assert.Equal(t, review.SourceFallback, got.Source)
				assert.Error(t, got.Err)
			})
		}
	}
}
