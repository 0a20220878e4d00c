// Package store archives parsed record sets in PostgreSQL. Each successful
// reload writes a snapshot; the latest snapshot is the first fallback when
// the spreadsheet export is unreachable.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"compass/api/internal/records"
	"compass/api/internal/util"
)

// ErrNoSnapshot means no record set has ever been archived.
var ErrNoSnapshot = errors.New("no snapshot available")

// Snapshot is one archived record set.
type Snapshot struct {
	ID          string
	Source      string
	RecordCount int
	Records     []records.ObjectiveRecord
	FetchedAt   time.Time
}

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

// EnsureSchema creates the snapshot table if it does not exist. Writes are
// last-write-wins single inserts, so a single table with no migrations
// machinery is enough here.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS record_snapshots (
			id           TEXT PRIMARY KEY,
			source       TEXT NOT NULL,
			record_count INTEGER NOT NULL,
			records      JSONB NOT NULL,
			fetched_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		)`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure snapshot schema: %w", err)
	}
	return nil
}

// InsertSnapshot archives a freshly parsed record set.
func (s *PostgresStore) InsertSnapshot(ctx context.Context, source string, recs []records.ObjectiveRecord) (Snapshot, error) {
	payload, err := json.Marshal(recs)
	if err != nil {
		return Snapshot{}, fmt.Errorf("marshal snapshot records: %w", err)
	}

	snapshot := Snapshot{
		ID:          util.NewID("snap"),
		Source:      source,
		RecordCount: len(recs),
		Records:     recs,
	}

	const insert = `
		INSERT INTO record_snapshots (id, source, record_count, records)
		VALUES ($1, $2, $3, $4)
		RETURNING fetched_at`
	if err := s.db.QueryRowContext(ctx, insert, snapshot.ID, source, len(recs), payload).Scan(&snapshot.FetchedAt); err != nil {
		return Snapshot{}, fmt.Errorf("insert snapshot: %w", err)
	}
	return snapshot, nil
}

// LatestSnapshot returns the most recently archived record set.
func (s *PostgresStore) LatestSnapshot(ctx context.Context) (Snapshot, error) {
	const query = `
		SELECT id, source, record_count, records, fetched_at
		FROM record_snapshots
		ORDER BY fetched_at DESC
		LIMIT 1`

	var snapshot Snapshot
	var payload []byte
	err := s.db.QueryRowContext(ctx, query).Scan(&snapshot.ID, &snapshot.Source, &snapshot.RecordCount, &payload, &snapshot.FetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("load latest snapshot: %w", err)
	}

	if err := json.Unmarshal(payload, &snapshot.Records); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal snapshot records: %w", err)
	}
	return snapshot, nil
}

// PruneSnapshots keeps only the newest n snapshots.
func (s *PostgresStore) PruneSnapshots(ctx context.Context, keep int) error {
	const prune = `
		DELETE FROM record_snapshots
		WHERE id NOT IN (
			SELECT id FROM record_snapshots ORDER BY fetched_at DESC LIMIT $1
		)`
	if _, err := s.db.ExecContext(ctx, prune, keep); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
