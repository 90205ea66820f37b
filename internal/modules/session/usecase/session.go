package usecase

import (
	"context"
	"time"

	"deskpulse/internal/modules/session/domain"
	sessiondto "deskpulse/internal/modules/session/dto"
	sessionin "deskpulse/internal/modules/session/port/in"
	sessionout "deskpulse/internal/modules/session/port/out"
	"deskpulse/internal/modules/session/service"
	apperrors "deskpulse/internal/platform/errors"
)

type Interactor struct {
	svc            *service.SessionService
	activeStore    sessionout.ActiveSessionStore
	breakFrequency time.Duration
	breakLength    time.Duration
}

func NewInteractor(svc *service.SessionService, activeStore sessionout.ActiveSessionStore, breakFrequency, breakLength time.Duration) sessionin.Usecase {
	return &Interactor{
		svc:            svc,
		activeStore:    activeStore,
		breakFrequency: breakFrequency,
		breakLength:    breakLength,
	}
}

func (i *Interactor) Start(ctx context.Context) (sessiondto.StartOutput, error) {
	_, err := i.activeStore.LoadActive(ctx)
	if err == nil {
		return sessiondto.StartOutput{}, apperrors.ErrActiveSessionExists
	}
	if err != apperrors.ErrNoActiveSession {
		return sessiondto.StartOutput{}, err
	}

	active, err := i.svc.Begin(ctx, i.breakFrequency, i.breakLength)
	if err != nil {
		return sessiondto.StartOutput{}, err
	}
	if err := i.activeStore.SaveActive(ctx, active); err != nil {
		return sessiondto.StartOutput{}, err
	}
	return sessiondto.StartOutput{
		SessionID:   active.SessionID,
		StartedAt:   active.Clock.StartedAt,
		NextBreakAt: active.Clock.NextBreakAt,
	}, nil
}

func (i *Interactor) TogglePause(ctx context.Context) (sessiondto.StatusOutput, error) {
	active, events, now, err := i.fold(ctx)
	if err != nil {
		return sessiondto.StatusOutput{}, err
	}
	active.Clock = active.Clock.TogglePause(now)
	if err := i.activeStore.SaveActive(ctx, active); err != nil {
		return sessiondto.StatusOutput{}, err
	}
	return status(active, events, now), nil
}

func (i *Interactor) Stop(ctx context.Context) (sessiondto.StopOutput, error) {
	active, err := i.activeStore.LoadActive(ctx)
	if err != nil {
		return sessiondto.StopOutput{}, err
	}
	record, saved, err := i.svc.Finish(ctx, active)
	if err != nil {
		return sessiondto.StopOutput{}, err
	}
	if err := i.activeStore.ClearActive(ctx); err != nil {
		return sessiondto.StopOutput{}, err
	}
	return sessiondto.StopOutput{
		SessionID:       record.ID,
		DurationSeconds: record.DurationSeconds,
		BreaksTaken:     record.BreaksTaken,
		Saved:           saved,
	}, nil
}

func (i *Interactor) Tick(ctx context.Context) (sessiondto.StatusOutput, error) {
	active, events, now, err := i.fold(ctx)
	if err != nil {
		return sessiondto.StatusOutput{}, err
	}
	return status(active, events, now), nil
}

func (i *Interactor) Status(ctx context.Context) (sessiondto.StatusOutput, error) {
	return i.Tick(ctx)
}

func (i *Interactor) Recent(ctx context.Context, limit int) ([]sessiondto.RecordOutput, error) {
	records, err := i.svc.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	outputs := make([]sessiondto.RecordOutput, 0, len(records))
	for _, r := range records {
		outputs = append(outputs, sessiondto.RecordOutput{
			ID:              r.ID,
			StartedAt:       r.StartedAt,
			EndedAt:         r.EndedAt,
			DurationSeconds: r.DurationSeconds,
			BreaksTaken:     r.BreaksTaken,
		})
	}
	return outputs, nil
}

func (i *Interactor) Today(ctx context.Context) (sessiondto.TodayOutput, error) {
	totals, err := i.svc.TotalsForDay(ctx)
	if err != nil {
		return sessiondto.TodayOutput{}, err
	}
	return sessiondto.TodayOutput{
		Sessions:     totals.Sessions,
		FocusSeconds: totals.FocusSeconds,
		BreaksTaken:  totals.BreaksTaken,
	}, nil
}

// fold loads the active session and advances its break schedule to the
// current time, persisting the snapshot only when a transition happened.
// This is what makes a restarted process pick up exactly where the previous
// one left off.
func (i *Interactor) fold(ctx context.Context) (domain.ActiveSession, []domain.Event, time.Time, error) {
	active, err := i.activeStore.LoadActive(ctx)
	if err != nil {
		return domain.ActiveSession{}, nil, time.Time{}, err
	}
	now := i.svc.Now()
	wasInBreak := active.Clock.InBreak
	updated, events := active.Clock.Tick(now)
	active.Clock = updated
	if len(events) > 0 || updated.InBreak != wasInBreak {
		if err := i.activeStore.SaveActive(ctx, active); err != nil {
			return domain.ActiveSession{}, nil, time.Time{}, err
		}
	}
	return active, events, now, nil
}

func status(active domain.ActiveSession, events []domain.Event, now time.Time) sessiondto.StatusOutput {
	names := make([]string, 0, len(events))
	for _, ev := range events {
		names = append(names, string(ev.Kind))
	}
	return sessiondto.StatusOutput{
		SessionID:             active.SessionID,
		State:                 string(active.Clock.State),
		StartedAt:             active.Clock.StartedAt,
		ElapsedSeconds:        int(active.Clock.Elapsed(now).Seconds()),
		InBreak:               active.Clock.InBreak,
		BreakRemainingSeconds: int(active.Clock.BreakRemaining(now).Seconds()),
		NextBreakAt:           active.Clock.NextBreakAt,
		NextBreakInSeconds:    int(active.Clock.UntilNextBreak(now).Seconds()),
		BreaksTaken:           active.Clock.BreaksTaken,
		Events:                names,
	}
}
