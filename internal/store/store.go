// Package store archives finished ranking documents in Postgres so past
// scans stay queryable after their files rotate out.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/memerank/memerank/internal/report"
)

const schema = `
CREATE TABLE IF NOT EXISTS meme_scans (
	scan_id     TEXT PRIMARY KEY,
	scan_date   TIMESTAMPTZ NOT NULL,
	ranked      INT NOT NULL,
	payload     JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS meme_scans_date_idx ON meme_scans (scan_date DESC);`

// Store wraps the scan archive table.
type Store struct {
	db *sqlx.DB
}

// Open connects to Postgres and ensures the schema exists.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure scan schema: %w", err)
	}
	return &Store{db: db}, nil
}

// NewWithDB wraps an existing connection, for tests.
func NewWithDB(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// SaveScan inserts a finished document. Re-saving the same scan id is an
// upsert so retried publishes stay idempotent.
func (s *Store) SaveScan(ctx context.Context, doc *report.Document) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode scan payload: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO meme_scans (scan_id, scan_date, ranked, payload)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (scan_id) DO UPDATE
		SET scan_date = EXCLUDED.scan_date,
		    ranked = EXCLUDED.ranked,
		    payload = EXCLUDED.payload`,
		doc.ScanID, doc.ScanDate, doc.TotalRanked, payload)
	if err != nil {
		return fmt.Errorf("archive scan %s: %w", doc.ScanID, err)
	}
	return nil
}

// LatestScan returns the most recent archived document, or (nil, nil) when
// the archive is empty.
func (s *Store) LatestScan(ctx context.Context) (*report.Document, error) {
	var payload []byte
	err := s.db.GetContext(ctx, &payload,
		`SELECT payload FROM meme_scans ORDER BY scan_date DESC LIMIT 1`)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load latest scan: %w", err)
	}
	var doc report.Document
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("decode archived scan: %w", err)
	}
	return &doc, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
