package out

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"deskpulse/internal/modules/wellness/domain"
	"deskpulse/internal/platform/clock"

	_ "modernc.org/sqlite"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

// SQLiteSampleStore is both the sink harvested samples land in and the
// sample source the aggregator reads from.
type SQLiteSampleStore struct {
	db    *sql.DB
	clock clock.Clock
}

func NewSQLiteSampleStore(dbPath string, clk clock.Clock) (*SQLiteSampleStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &SQLiteSampleStore{db: db, clock: clk}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteSampleStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS health_samples (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  timestamp TEXT NOT NULL,
  focus_score REAL NOT NULL,
  posture_score REAL NOT NULL,
  phone_usage_seconds REAL NOT NULL,
  noise_level REAL NOT NULL,
  recommendations TEXT NOT NULL,
  cycle INTEGER NOT NULL,
  agent_status TEXT NOT NULL,
  UNIQUE (timestamp, cycle)
);
CREATE INDEX IF NOT EXISTS idx_health_samples_timestamp ON health_samples (timestamp);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create health_samples table: %w", err)
	}
	return nil
}

// Append inserts samples, skipping any the store already holds. Re-running a
// harvest over an overlapping range is therefore safe.
func (s *SQLiteSampleStore) Append(ctx context.Context, samples []domain.Sample) (int, error) {
	const stmt = `
INSERT INTO health_samples (timestamp, focus_score, posture_score, phone_usage_seconds, noise_level, recommendations, cycle, agent_status)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(timestamp, cycle) DO NOTHING;
`
	stored := 0
	for _, sample := range samples {
		recommendations, err := json.Marshal(sample.Recommendations)
		if err != nil {
			return stored, fmt.Errorf("marshal recommendations: %w", err)
		}
		res, err := s.db.ExecContext(ctx, stmt,
			sample.Timestamp.Format(timeLayout),
			sample.FocusScore,
			sample.PostureScore,
			sample.PhoneUsageSeconds,
			sample.NoiseLevel,
			string(recommendations),
			sample.Cycle,
			sample.AgentStatus,
		)
		if err != nil {
			return stored, fmt.Errorf("insert sample: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return stored, fmt.Errorf("count inserted rows: %w", err)
		}
		stored += int(affected)
	}
	return stored, nil
}

func (s *SQLiteSampleStore) FetchRecent(ctx context.Context, window time.Duration, limit int) ([]domain.Sample, error) {
	const query = `
SELECT timestamp, focus_score, posture_score, phone_usage_seconds, noise_level, recommendations, cycle, agent_status
FROM health_samples
WHERE timestamp >= ?
ORDER BY timestamp DESC
LIMIT ?;
`
	cutoff := s.clock.Now().Add(-window)
	rows, err := s.db.QueryContext(ctx, query, cutoff.Format(timeLayout), limit)
	if err != nil {
		return nil, fmt.Errorf("query samples: %w", err)
	}
	defer rows.Close()

	var samples []domain.Sample
	for rows.Next() {
		var (
			sample          domain.Sample
			timestamp       string
			recommendations string
		)
		err := rows.Scan(
			&timestamp,
			&sample.FocusScore,
			&sample.PostureScore,
			&sample.PhoneUsageSeconds,
			&sample.NoiseLevel,
			&recommendations,
			&sample.Cycle,
			&sample.AgentStatus,
		)
		if err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		if sample.Timestamp, err = time.Parse(timeLayout, timestamp); err != nil {
			return nil, fmt.Errorf("parse sample timestamp: %w", err)
		}
		if err := json.Unmarshal([]byte(recommendations), &sample.Recommendations); err != nil {
			return nil, fmt.Errorf("decode recommendations: %w", err)
		}
		samples = append(samples, sample)
	}
	return samples, rows.Err()
}

func (s *SQLiteSampleStore) NewestTimestamp(ctx context.Context) (time.Time, error) {
	var newest sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT MAX(timestamp) FROM health_samples`).Scan(&newest)
	if err != nil {
		return time.Time{}, fmt.Errorf("query newest sample: %w", err)
	}
	if !newest.Valid {
		return time.Time{}, nil
	}
	ts, err := time.Parse(timeLayout, newest.String)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse newest timestamp: %w", err)
	}
	return ts, nil
}
