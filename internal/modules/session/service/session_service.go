package service

import (
	"context"
	"fmt"
	"time"

	"deskpulse/internal/modules/session/domain"
	sessionout "deskpulse/internal/modules/session/port/out"
	"deskpulse/internal/platform/clock"
	"deskpulse/internal/platform/id"
)

// minRecordable is the shortest session worth keeping in history. Shorter
// runs are treated as accidental starts and discarded on stop.
const minRecordable = time.Minute

type SessionService struct {
	clock   clock.Clock
	idGen   id.Generator
	records sessionout.RecordStore
}

func NewSessionService(clock clock.Clock, idGen id.Generator, records sessionout.RecordStore) *SessionService {
	return &SessionService{clock: clock, idGen: idGen, records: records}
}

func (s *SessionService) Now() time.Time {
	return s.clock.Now()
}

func (s *SessionService) Begin(_ context.Context, frequency, length time.Duration) (domain.ActiveSession, error) {
	if frequency <= 0 || length <= 0 {
		return domain.ActiveSession{}, fmt.Errorf("break frequency and length must be positive")
	}
	return domain.ActiveSession{
		SchemaVersion: domain.SchemaVersion,
		SessionID:     s.idGen.New(),
		Clock:         domain.Clock{}.Start(s.clock.Now(), frequency, length),
	}, nil
}

// Finish stops the clock and saves a history record unless the session was
// too short to matter. The returned flag reports whether a record was saved.
func (s *SessionService) Finish(ctx context.Context, active domain.ActiveSession) (domain.Record, bool, error) {
	now := s.clock.Now()
	_, total := active.Clock.Stop(now)
	record := domain.Record{
		ID:              active.SessionID,
		StartedAt:       active.Clock.StartedAt,
		EndedAt:         now,
		DurationSeconds: int(total.Seconds()),
		BreaksTaken:     active.Clock.BreaksTaken,
	}
	if total < minRecordable {
		return record, false, nil
	}
	if err := s.records.Save(ctx, record); err != nil {
		return domain.Record{}, false, err
	}
	return record, true, nil
}

func (s *SessionService) Recent(ctx context.Context, limit int) ([]domain.Record, error) {
	if limit < 1 {
		limit = 10
	}
	return s.records.ListRecent(ctx, limit)
}

// TotalsForDay aggregates the UTC calendar day containing now.
func (s *SessionService) TotalsForDay(ctx context.Context) (domain.DayTotals, error) {
	now := s.clock.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return s.records.TotalsBetween(ctx, dayStart, dayStart.Add(24*time.Hour))
}
