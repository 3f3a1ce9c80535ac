package review

import "context"

// SessionStore port (interface untuk penyimpanan state sesi)
type SessionStore interface {
	// Get returns ErrSessionNotFound for unknown or expired sessions.
	Get(ctx context.Context, id SessionID) (State, error)
	Save(ctx context.Context, id SessionID, s State) error
}
