package mysql

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/bryanwahyu/justification-engine/internal/domain/letters"
)

type LetterRepository struct {
	db *sql.DB
}

func NewLetterRepository(db *sql.DB) *LetterRepository {
	return &LetterRepository{db: db}
}

// Save inserts a letter record
func (r *LetterRepository) Save(ctx context.Context, l *domain.Letter) error {
	const q = `
INSERT INTO justification_letters
  (id, session_id, insurer, tier, price, reviewed, source, failure_reason, archive_url, created_at)
VALUES (?,?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  archive_url=VALUES(archive_url), failure_reason=VALUES(failure_reason);
`
	createdAt := l.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q,
		l.ID, stringOrDash(l.SessionID), stringOrDash(l.Insurer), stringOrDash(l.Tier),
		l.Price, l.Reviewed, stringOrDash(l.Source), nullIfEmpty(l.FailureReason), l.ArchiveURL,
		createdAt.UTC(),
	)
	return err
}
