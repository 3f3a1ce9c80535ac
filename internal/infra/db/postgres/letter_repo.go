package postgres

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/bryanwahyu/justification-engine/internal/domain/letters"
)

type LetterRepository struct{ db *sql.DB }

func NewLetterRepository(db *sql.DB) *LetterRepository { return &LetterRepository{db: db} }

// Save inserts or updates a letter record
func (r *LetterRepository) Save(ctx context.Context, l *domain.Letter) error {
	const q = `
INSERT INTO justification_letters
  (id, session_id, insurer, tier, price, reviewed, source, failure_reason, archive_url, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (id) DO UPDATE SET
  archive_url=EXCLUDED.archive_url,
  failure_reason=EXCLUDED.failure_reason;
`
	createdAt := l.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q,
		l.ID, stringOrDash(l.SessionID), stringOrDash(l.Insurer), stringOrDash(l.Tier),
		l.Price, l.Reviewed, stringOrDash(l.Source), nullIfEmpty(l.FailureReason), l.ArchiveURL,
		createdAt,
	)
	return err
}
