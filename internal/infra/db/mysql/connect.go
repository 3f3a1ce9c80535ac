package mysql

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	// test ping
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
  id             VARCHAR(36)  NOT NULL PRIMARY KEY,
  session_id     VARCHAR(36)  NOT NULL,
  insurer        VARCHAR(64)  NOT NULL,
  tier           VARCHAR(8)   NOT NULL,
  price          INT          NOT NULL,
  reviewed       BOOLEAN      NOT NULL,
  source         VARCHAR(16)  NOT NULL,
  failure_reason TEXT         NULL,
  archive_url    VARCHAR(512) NOT NULL DEFAULT '',
  created_at     DATETIME(3)  NOT NULL,
  INDEX idx_letters_created (created_at)
);`

// EnsureSchema creates the letters table when missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
