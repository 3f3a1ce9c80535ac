package ai

import "errors"

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrEmptyCompletion indicates the provider answered without usable text.
var ErrEmptyCompletion = errors.New("ai returned no text")

// ErrNotConfigured indicates the provider has no API key.
var ErrNotConfigured = errors.New("ai provider not configured")
