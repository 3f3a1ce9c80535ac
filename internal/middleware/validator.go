package middleware

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/bryanwahyu/justification-engine/internal/domain/review"
)

// Input validation and sanitization utilities

// ValidateSessionID checks that id looks like one we issued.
func ValidateSessionID(id string) error {
	if id == "" {
		return fmt.Errorf("session ID cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid session ID format")
	}
	return nil
}

// ValidateInsurer trims input and checks it against the fixed insurer list.
func ValidateInsurer(insurer string) (string, error) {
	insurer = SanitizeString(insurer)
	if !review.IsKnownInsurer(insurer) {
		return "", fmt.Errorf("%w: %q", review.ErrUnknownInsurer, insurer)
	}
	return insurer, nil
}

// ValidateTier normalizes the tier name ("Core" and "core" are the same).
func ValidateTier(tier string) (review.Tier, error) {
	t := review.Tier(strings.ToLower(SanitizeString(tier)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", review.ErrUnknownTier, tier)
	}
	return t, nil
}

// SanitizeFilename drops any directory part a browser may send and strips
// control characters. It returns "" when nothing usable is left.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = SanitizeString(filepath.Base(name))
	if name == "." || name == "/" {
		return ""
	}
	if len(name) > 255 {
		ext := filepath.Ext(name)
		if len(ext) > 16 {
			ext = ""
		}
		name = name[:255-len(ext)] + ext
	}
	return name
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}
