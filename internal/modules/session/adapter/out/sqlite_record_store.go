package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"deskpulse/internal/modules/session/domain"
	sessionout "deskpulse/internal/modules/session/port/out"

	_ "modernc.org/sqlite"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

type SQLiteRecordStore struct {
	db *sql.DB
}

func NewSQLiteRecordStore(dbPath string) (sessionout.RecordStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &SQLiteRecordStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteRecordStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  started_at TEXT NOT NULL,
  ended_at TEXT NOT NULL,
  duration_seconds INTEGER NOT NULL,
  breaks_taken INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions (ended_at);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}
	return nil
}

func (s *SQLiteRecordStore) Save(ctx context.Context, record domain.Record) error {
	const stmt = `
INSERT INTO sessions (id, started_at, ended_at, duration_seconds, breaks_taken)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  started_at=excluded.started_at,
  ended_at=excluded.ended_at,
  duration_seconds=excluded.duration_seconds,
  breaks_taken=excluded.breaks_taken;
`
	_, err := s.db.ExecContext(ctx, stmt,
		record.ID,
		record.StartedAt.Format(timeLayout),
		record.EndedAt.Format(timeLayout),
		record.DurationSeconds,
		record.BreaksTaken,
	)
	if err != nil {
		return fmt.Errorf("save session record: %w", err)
	}
	return nil
}

func (s *SQLiteRecordStore) ListRecent(ctx context.Context, limit int) ([]domain.Record, error) {
	const query = `
SELECT id, started_at, ended_at, duration_seconds, breaks_taken
FROM sessions
ORDER BY ended_at DESC
LIMIT ?;
`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list session records: %w", err)
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		var (
			record             domain.Record
			startedAt, endedAt string
		)
		if err := rows.Scan(&record.ID, &startedAt, &endedAt, &record.DurationSeconds, &record.BreaksTaken); err != nil {
			return nil, fmt.Errorf("scan session record: %w", err)
		}
		if record.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		if record.EndedAt, err = time.Parse(timeLayout, endedAt); err != nil {
			return nil, fmt.Errorf("parse ended_at: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (s *SQLiteRecordStore) TotalsBetween(ctx context.Context, from, to time.Time) (domain.DayTotals, error) {
	const query = `
SELECT COUNT(*), COALESCE(SUM(duration_seconds), 0), COALESCE(SUM(breaks_taken), 0)
FROM sessions
WHERE ended_at >= ? AND ended_at < ?;
`
	var totals domain.DayTotals
	err := s.db.QueryRowContext(ctx, query, from.Format(timeLayout), to.Format(timeLayout)).
		Scan(&totals.Sessions, &totals.FocusSeconds, &totals.BreaksTaken)
	if err != nil {
		return domain.DayTotals{}, fmt.Errorf("sum session totals: %w", err)
	}
	return totals, nil
}
