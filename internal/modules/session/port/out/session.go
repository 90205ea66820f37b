package out

import (
	"context"
	"time"

	"deskpulse/internal/modules/session/domain"
)

// RecordStore persists completed sessions.
type RecordStore interface {
	Save(ctx context.Context, record domain.Record) error
	ListRecent(ctx context.Context, limit int) ([]domain.Record, error)
	TotalsBetween(ctx context.Context, from, to time.Time) (domain.DayTotals, error)
}

// ActiveSessionStore holds the single in-flight session so it survives
// process restarts.
type ActiveSessionStore interface {
	SaveActive(ctx context.Context, session domain.ActiveSession) error
	LoadActive(ctx context.Context) (domain.ActiveSession, error)
	ClearActive(ctx context.Context) error
}
