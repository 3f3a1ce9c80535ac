package ai

import "context"

// Client sends one prompt to a text-generation model and returns the first
// text segment of the reply.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
