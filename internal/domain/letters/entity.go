package letters

import "time"

// LetterID identifier type
type LetterID string

// Letter is an audit record of one delivered justification. It never holds
// document content or the letter text itself; the text goes to the archive.
type Letter struct {
	ID            LetterID  `json:"id"`
	SessionID     string    `json:"session_id"`
	Insurer       string    `json:"insurer"`
	Tier          string    `json:"tier"`
	Price         int       `json:"price"`
	Reviewed      bool      `json:"reviewed"`
	Source        string    `json:"source"`                   // model | fallback
	FailureReason string    `json:"failure_reason,omitempty"` // swallowed generation error
	ArchiveURL    string    `json:"archive_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
