package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS justification_letters (
  id             VARCHAR(36)  PRIMARY KEY,
  session_id     VARCHAR(36)  NOT NULL,
  insurer        VARCHAR(64)  NOT NULL,
  tier           VARCHAR(8)   NOT NULL,
  price          INTEGER      NOT NULL,
  reviewed       BOOLEAN      NOT NULL,
  source         VARCHAR(16)  NOT NULL,
  failure_reason TEXT,
  archive_url    VARCHAR(512) NOT NULL DEFAULT '',
  created_at     TIMESTAMPTZ  NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_letters_created ON justification_letters (created_at);`

func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
