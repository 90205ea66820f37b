package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	sessionout "deskpulse/internal/modules/session/adapter/out"
	"deskpulse/internal/modules/session/domain"
	"deskpulse/internal/modules/session/service"
	"deskpulse/internal/modules/session/usecase"
	apperrors "deskpulse/internal/platform/errors"
)

func recordAt(t *testing.T, i int) domain.Record {
	t.Helper()
	started := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Hour)
	return domain.Record{
		ID:              fmt.Sprintf("sess-%d", i),
		StartedAt:       started,
		EndedAt:         started.Add(30 * time.Minute),
		DurationSeconds: 1800,
		BreaksTaken:     1,
	}
}

func TestOperationsWithoutActiveSession(t *testing.T) {
	t.Parallel()
	uc := usecase.NewInteractor(
		service.NewSessionService(&fakeClock{values: []time.Time{
			time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
		}}, fakeID{}, &fakeRecords{}),
		sessionout.NewFileActiveSessionStore(t.TempDir()),
		15*time.Minute, 5*time.Minute,
	)
	if _, err := uc.Stop(context.Background()); err != apperrors.ErrNoActiveSession {
		t.Fatalf("stop: expected ErrNoActiveSession, got %v", err)
	}
	if _, err := uc.TogglePause(context.Background()); err != apperrors.ErrNoActiveSession {
		t.Fatalf("pause: expected ErrNoActiveSession, got %v", err)
	}
	if _, err := uc.Tick(context.Background()); err != apperrors.ErrNoActiveSession {
		t.Fatalf("tick: expected ErrNoActiveSession, got %v", err)
	}
}

func TestSecondStartIsRefused(t *testing.T) {
	t.Parallel()
	uc := usecase.NewInteractor(
		service.NewSessionService(&fakeClock{values: []time.Time{
			time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 10, 10, 1, 0, 0, time.UTC),
		}}, fakeID{}, &fakeRecords{}),
		sessionout.NewFileActiveSessionStore(t.TempDir()),
		15*time.Minute, 5*time.Minute,
	)
	if _, err := uc.Start(context.Background()); err != nil {
		t.Fatalf("first start: %v", err)
	}
	if _, err := uc.Start(context.Background()); err != apperrors.ErrActiveSessionExists {
		t.Fatalf("expected ErrActiveSessionExists, got %v", err)
	}
}

func TestRecentFallsBackToDefaultLimit(t *testing.T) {
	t.Parallel()
	records := &fakeRecords{}
	for i := 0; i < 3; i++ {
		records.saved = append(records.saved, recordAt(t, i))
	}
	uc := usecase.NewInteractor(
		service.NewSessionService(&fakeClock{values: []time.Time{
			time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
		}}, fakeID{}, records),
		sessionout.NewFileActiveSessionStore(t.TempDir()),
		15*time.Minute, 5*time.Minute,
	)
	got, err := uc.Recent(context.Background(), 0)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected all three records back, got %d", len(got))
	}
}
