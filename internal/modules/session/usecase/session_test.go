package usecase_test

import (
	"context"
	"testing"
	"time"

	sessionout "deskpulse/internal/modules/session/adapter/out"
	"deskpulse/internal/modules/session/domain"
	"deskpulse/internal/modules/session/service"
	"deskpulse/internal/modules/session/usecase"
	apperrors "deskpulse/internal/platform/errors"
)

type fakeClock struct {
	values []time.Time
	idx    int
}

func (f *fakeClock) Now() time.Time {
	if f.idx >= len(f.values) {
		return f.values[len(f.values)-1]
	}
	v := f.values[f.idx]
	f.idx++
	return v
}

type fakeID struct{}

func (fakeID) New() string { return "sess-1" }

type fakeRecords struct {
	saved  []domain.Record
	totals domain.DayTotals
}

func (f *fakeRecords) Save(_ context.Context, record domain.Record) error {
	f.saved = append(f.saved, record)
	return nil
}

func (f *fakeRecords) ListRecent(_ context.Context, limit int) ([]domain.Record, error) {
	if limit > len(f.saved) {
		limit = len(f.saved)
	}
	out := make([]domain.Record, limit)
	copy(out, f.saved)
	return out, nil
}

func (f *fakeRecords) TotalsBetween(context.Context, time.Time, time.Time) (domain.DayTotals, error) {
	return f.totals, nil
}

func TestSessionLifecycleSurvivesRestart(t *testing.T) {
	t.Parallel()
	stateDir := t.TempDir()
	records := &fakeRecords{}

	first := usecase.NewInteractor(
		service.NewSessionService(&fakeClock{values: []time.Time{
			time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
		}}, fakeID{}, records),
		sessionout.NewFileActiveSessionStore(stateDir),
		15*time.Minute, 5*time.Minute,
	)
	start, err := first.Start(context.Background())
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	if start.SessionID != "sess-1" {
		t.Fatalf("unexpected session id %q", start.SessionID)
	}
	if start.NextBreakAt != time.Date(2026, 3, 10, 10, 15, 0, 0, time.UTC) {
		t.Fatalf("unexpected first break time %v", start.NextBreakAt)
	}

	// A new interactor over the same state dir stands in for a restarted
	// process picking up the persisted session.
	second := usecase.NewInteractor(
		service.NewSessionService(&fakeClock{values: []time.Time{
			time.Date(2026, 3, 10, 10, 20, 0, 0, time.UTC),
			time.Date(2026, 3, 10, 10, 26, 0, 0, time.UTC),
			time.Date(2026, 3, 10, 10, 40, 0, 0, time.UTC),
		}}, fakeID{}, records),
		sessionout.NewFileActiveSessionStore(stateDir),
		15*time.Minute, 5*time.Minute,
	)

	status, err := second.Tick(context.Background())
	if err != nil {
		t.Fatalf("tick after restart: %v", err)
	}
	if !status.InBreak {
		t.Fatal("missed break deadline must be folded in on the first tick")
	}
	if len(status.Events) != 0 {
		t.Fatalf("entering a break emits no event, got %v", status.Events)
	}

	status, err = second.Tick(context.Background())
	if err != nil {
		t.Fatalf("tick to finish break: %v", err)
	}
	if status.InBreak {
		t.Fatal("break should have completed")
	}
	if len(status.Events) != 1 || status.Events[0] != "break_completed" {
		t.Fatalf("expected break_completed event, got %v", status.Events)
	}
	if status.BreaksTaken != 1 {
		t.Fatalf("expected one break taken, got %d", status.BreaksTaken)
	}

	stop, err := second.Stop(context.Background())
	if err != nil {
		t.Fatalf("stop session: %v", err)
	}
	if stop.DurationSeconds != 40*60 {
		t.Fatalf("expected 2400s, got %d", stop.DurationSeconds)
	}
	if !stop.Saved || stop.BreaksTaken != 1 {
		t.Fatalf("expected saved record with one break, got %+v", stop)
	}
	if len(records.saved) != 1 || records.saved[0].ID != "sess-1" {
		t.Fatalf("record not persisted: %+v", records.saved)
	}

	if _, err := second.Status(context.Background()); err != apperrors.ErrNoActiveSession {
		t.Fatalf("expected no active session after stop, got %v", err)
	}
}

func TestPauseResumeKeepsElapsedAcrossRestart(t *testing.T) {
	t.Parallel()
	stateDir := t.TempDir()
	records := &fakeRecords{}
	clk := &fakeClock{values: []time.Time{
		time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 10, 10, 5, 0, 0, time.UTC),
		time.Date(2026, 3, 10, 10, 12, 0, 0, time.UTC),
	}}
	uc := usecase.NewInteractor(
		service.NewSessionService(clk, fakeID{}, records),
		sessionout.NewFileActiveSessionStore(stateDir),
		15*time.Minute, 5*time.Minute,
	)
	if _, err := uc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	paused, err := uc.TogglePause(context.Background())
	if err != nil {
		t.Fatalf("pause: %v", err)
	}
	if paused.State != "paused" || paused.ElapsedSeconds != 5*60 {
		t.Fatalf("expected paused at 300s, got %+v", paused)
	}

	resumed, err := uc.TogglePause(context.Background())
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if resumed.State != "running" {
		t.Fatalf("expected running after resume, got %s", resumed.State)
	}

	later := usecase.NewInteractor(
		service.NewSessionService(&fakeClock{values: []time.Time{
			time.Date(2026, 3, 10, 10, 20, 0, 0, time.UTC),
		}}, fakeID{}, records),
		sessionout.NewFileActiveSessionStore(stateDir),
		15*time.Minute, 5*time.Minute,
	)
	status, err := later.Status(context.Background())
	if err != nil {
		t.Fatalf("status after restart: %v", err)
	}
	if status.ElapsedSeconds != 13*60 {
		t.Fatalf("pause time must survive the restart: got %ds, want 780", status.ElapsedSeconds)
	}
}

func TestShortSessionIsDiscardedOnStop(t *testing.T) {
	t.Parallel()
	stateDir := t.TempDir()
	records := &fakeRecords{}
	clk := &fakeClock{values: []time.Time{
		time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 10, 10, 0, 45, 0, time.UTC),
	}}
	uc := usecase.NewInteractor(
		service.NewSessionService(clk, fakeID{}, records),
		sessionout.NewFileActiveSessionStore(stateDir),
		15*time.Minute, 5*time.Minute,
	)
	if _, err := uc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	stop, err := uc.Stop(context.Background())
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if stop.Saved {
		t.Fatal("a 45s session must not be recorded")
	}
	if stop.DurationSeconds != 45 {
		t.Fatalf("expected 45s reported, got %d", stop.DurationSeconds)
	}
	if len(records.saved) != 0 {
		t.Fatalf("record store must stay empty, got %+v", records.saved)
	}
	if _, err := uc.Status(context.Background()); err != apperrors.ErrNoActiveSession {
		t.Fatalf("active snapshot must be cleared, got %v", err)
	}
}

func TestTodayReportsStoredTotals(t *testing.T) {
	t.Parallel()
	records := &fakeRecords{totals: domain.DayTotals{Sessions: 3, FocusSeconds: 5400, BreaksTaken: 4}}
	uc := usecase.NewInteractor(
		service.NewSessionService(&fakeClock{values: []time.Time{
			time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC),
		}}, fakeID{}, records),
		sessionout.NewFileActiveSessionStore(t.TempDir()),
		15*time.Minute, 5*time.Minute,
	)
	today, err := uc.Today(context.Background())
	if err != nil {
		t.Fatalf("today: %v", err)
	}
	if today.Sessions != 3 || today.FocusSeconds != 5400 || today.BreaksTaken != 4 {
		t.Fatalf("unexpected totals %+v", today)
	}
}
