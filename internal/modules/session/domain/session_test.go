package domain_test

import (
	"testing"
	"time"

	"deskpulse/internal/modules/session/domain"
)

func assertExactlyOneBreakField(t *testing.T, c domain.Clock) {
	t.Helper()
	if c.State != domain.StateRunning {
		return
	}
	if c.InBreak == !c.NextBreakAt.IsZero() {
		t.Fatalf("running clock must have exactly one of in-break/next-break set: in_break=%v next_break_at=%v", c.InBreak, c.NextBreakAt)
	}
}

func TestPauseResumeKeepsElapsedLossless(t *testing.T) {
	t.Parallel()
	base := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	c := domain.Clock{}.Start(base, 15*time.Minute, 5*time.Minute)
	if got := c.Elapsed(base.Add(10 * time.Minute)); got != 10*time.Minute {
		t.Fatalf("expected 10m elapsed before pause, got %v", got)
	}

	c = c.TogglePause(base.Add(10 * time.Minute))
	if c.State != domain.StatePaused {
		t.Fatalf("expected paused state, got %s", c.State)
	}
	if got := c.Elapsed(base.Add(20 * time.Minute)); got != 10*time.Minute {
		t.Fatalf("elapsed must freeze while paused, got %v", got)
	}

	c = c.TogglePause(base.Add(20 * time.Minute))
	if c.State != domain.StateRunning {
		t.Fatalf("expected running state after resume, got %s", c.State)
	}
	if got := c.Elapsed(base.Add(30 * time.Minute)); got != 20*time.Minute {
		t.Fatalf("expected 20m elapsed after resume, got %v", got)
	}

	c, total := c.Stop(base.Add(30 * time.Minute))
	if total != 20*time.Minute {
		t.Fatalf("expected 20m total, got %v", total)
	}
	if c.State != domain.StateIdle || c.InBreak || !c.NextBreakAt.IsZero() {
		t.Fatalf("stop must reset to a clean idle clock, got %+v", c)
	}
}

func TestStartIsNoOpUnlessIdle(t *testing.T) {
	t.Parallel()
	base := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	c := domain.Clock{}.Start(base, 15*time.Minute, 5*time.Minute)
	again := c.Start(base.Add(time.Hour), 30*time.Minute, time.Minute)
	if again != c {
		t.Fatalf("start on a running clock must not change it: %+v vs %+v", again, c)
	}

	paused := c.TogglePause(base.Add(time.Minute))
	if got := paused.Start(base.Add(time.Hour), 30*time.Minute, time.Minute); got != paused {
		t.Fatalf("start on a paused clock must not change it: %+v", got)
	}
}

func TestStopAndTickAreNoOpsWhileIdle(t *testing.T) {
	t.Parallel()
	base := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	var c domain.Clock
	c, total := c.Stop(base)
	if total != 0 || c.State != "" {
		t.Fatalf("stop on idle clock must do nothing, got %v %+v", total, c)
	}
	c, events := c.Tick(base)
	if len(events) != 0 {
		t.Fatalf("tick on idle clock must emit nothing, got %v", events)
	}
	if got := c.Elapsed(base); got != 0 {
		t.Fatalf("idle clock has no elapsed time, got %v", got)
	}
}

func TestBreakLifecycleKeepsInvariant(t *testing.T) {
	t.Parallel()
	base := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	c := domain.Clock{}.Start(base, 15*time.Minute, 5*time.Minute)
	assertExactlyOneBreakField(t, c)
	if c.NextBreakAt != base.Add(15*time.Minute) {
		t.Fatalf("expected first break at +15m, got %v", c.NextBreakAt)
	}

	c, events := c.Tick(base.Add(14 * time.Minute))
	if c.InBreak || len(events) != 0 {
		t.Fatalf("no break expected before the deadline: %+v %v", c, events)
	}
	assertExactlyOneBreakField(t, c)

	c, events = c.Tick(base.Add(15 * time.Minute))
	if !c.InBreak {
		t.Fatal("break must start once the deadline passes")
	}
	if len(events) != 0 {
		t.Fatalf("entering a break emits no event, got %v", events)
	}
	assertExactlyOneBreakField(t, c)
	if got := c.BreakRemaining(base.Add(16 * time.Minute)); got != 4*time.Minute {
		t.Fatalf("expected 4m of break left, got %v", got)
	}

	c, events = c.Tick(base.Add(18 * time.Minute))
	if !c.InBreak || len(events) != 0 {
		t.Fatalf("break must continue until its length passes: %+v %v", c, events)
	}

	c, events = c.Tick(base.Add(20 * time.Minute))
	if c.InBreak {
		t.Fatal("break must end after its length")
	}
	if len(events) != 1 || events[0].Kind != domain.EventBreakCompleted {
		t.Fatalf("expected exactly one break-completed event, got %v", events)
	}
	if c.BreaksTaken != 1 {
		t.Fatalf("expected one break taken, got %d", c.BreaksTaken)
	}
	if c.NextBreakAt != base.Add(35*time.Minute) {
		t.Fatalf("next break must be rescheduled from completion, got %v", c.NextBreakAt)
	}
	assertExactlyOneBreakField(t, c)

	c, _ = c.Stop(base.Add(21 * time.Minute))
	if c.InBreak || !c.NextBreakAt.IsZero() {
		t.Fatalf("idle clock must clear all break state, got %+v", c)
	}
}

func TestTickingEverySecondBreaksOnFiveMinuteCadence(t *testing.T) {
	t.Parallel()
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	c := domain.Clock{}.Start(base, 5*time.Minute, 5*time.Minute)
	var breakStarts, breakEnds []time.Duration
	inBreak := false
	for s := 1; s <= 20*60; s++ {
		now := base.Add(time.Duration(s) * time.Second)
		var events []domain.Event
		c, events = c.Tick(now)
		assertExactlyOneBreakField(t, c)
		if c.InBreak && !inBreak {
			breakStarts = append(breakStarts, now.Sub(base))
		}
		for _, ev := range events {
			if ev.Kind == domain.EventBreakCompleted {
				breakEnds = append(breakEnds, now.Sub(base))
			}
		}
		if len(events) > 1 {
			t.Fatalf("a single tick may emit at most one event, got %v", events)
		}
		inBreak = c.InBreak
	}

	wantStarts := []time.Duration{5 * time.Minute, 15 * time.Minute}
	wantEnds := []time.Duration{10 * time.Minute, 20 * time.Minute}
	if len(breakStarts) != len(wantStarts) {
		t.Fatalf("expected breaks at %v, got %v", wantStarts, breakStarts)
	}
	for i := range wantStarts {
		if breakStarts[i] != wantStarts[i] {
			t.Fatalf("break %d started at %v, want %v", i, breakStarts[i], wantStarts[i])
		}
	}
	if len(breakEnds) != len(wantEnds) {
		t.Fatalf("expected completions at %v, got %v", wantEnds, breakEnds)
	}
	for i := range wantEnds {
		if breakEnds[i] != wantEnds[i] {
			t.Fatalf("break %d completed at %v, want %v", i, breakEnds[i], wantEnds[i])
		}
	}
	if c.BreaksTaken != 2 {
		t.Fatalf("expected two breaks taken, got %d", c.BreaksTaken)
	}
}

func TestPauseFreezesBreaksButKeepsAbsoluteDeadline(t *testing.T) {
	t.Parallel()
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	c := domain.Clock{}.Start(base, 5*time.Minute, time.Minute)
	c = c.TogglePause(base.Add(3 * time.Minute))

	c, events := c.Tick(base.Add(6 * time.Minute))
	if c.InBreak || len(events) != 0 {
		t.Fatalf("paused clock must not evaluate breaks: %+v %v", c, events)
	}

	c = c.TogglePause(base.Add(7 * time.Minute))
	c, _ = c.Tick(base.Add(7*time.Minute + time.Second))
	if !c.InBreak {
		t.Fatal("deadline that passed while paused must fire right after resume")
	}
}
