package domain

import "time"

const SchemaVersion = 1

type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StatePaused  State = "paused"
)

type EventKind string

const EventBreakCompleted EventKind = "break_completed"

type Event struct {
	Kind EventKind
	At   time.Time
}

// Clock is the focus-session state machine. It never reads the wall clock
// itself; every transition takes the current time from the caller, so the
// same sequence of calls always produces the same states.
//
// While running, exactly one of InBreak and NextBreakAt is set. Both are
// cleared when the clock returns to idle.
type Clock struct {
	State          State         `json:"state"`
	StartedAt      time.Time     `json:"started_at"`
	PausedAt       time.Time     `json:"paused_at,omitempty"`
	PausedTotal    time.Duration `json:"paused_total_ns"`
	BreakFrequency time.Duration `json:"break_frequency_ns"`
	BreakLength    time.Duration `json:"break_length_ns"`
	InBreak        bool          `json:"in_break"`
	BreakStartedAt time.Time     `json:"break_started_at,omitempty"`
	NextBreakAt    time.Time     `json:"next_break_at,omitempty"`
	BreaksTaken    int           `json:"breaks_taken"`
}

// Start begins a session from idle. Calling it in any other state is a no-op.
func (c Clock) Start(now time.Time, frequency, length time.Duration) Clock {
	if c.State != StateIdle && c.State != "" {
		return c
	}
	return Clock{
		State:          StateRunning,
		StartedAt:      now,
		BreakFrequency: frequency,
		BreakLength:    length,
		NextBreakAt:    now.Add(frequency),
	}
}

// TogglePause flips between running and paused. Pausing freezes elapsed time
// and break evaluation; the break schedule keeps its absolute timestamps, so
// a deadline that passes while paused fires on the first tick after resume.
func (c Clock) TogglePause(now time.Time) Clock {
	switch c.State {
	case StateRunning:
		c.State = StatePaused
		c.PausedAt = now
	case StatePaused:
		c.State = StateRunning
		c.PausedTotal += now.Sub(c.PausedAt)
		c.PausedAt = time.Time{}
	}
	return c
}

// Tick advances the break schedule to now and reports any event that
// occurred. A single tick produces at most one event: entering a break is
// visible through InBreak, and only its completion is announced.
func (c Clock) Tick(now time.Time) (Clock, []Event) {
	if c.State != StateRunning {
		return c, nil
	}
	if c.InBreak {
		if now.Sub(c.BreakStartedAt) >= c.BreakLength {
			c.InBreak = false
			c.BreakStartedAt = time.Time{}
			c.NextBreakAt = now.Add(c.BreakFrequency)
			c.BreaksTaken++
			return c, []Event{{Kind: EventBreakCompleted, At: now}}
		}
		return c, nil
	}
	if !c.NextBreakAt.IsZero() && !now.Before(c.NextBreakAt) {
		c.InBreak = true
		c.BreakStartedAt = now
		c.NextBreakAt = time.Time{}
	}
	return c, nil
}

// Stop ends the session and reports total focused time, which excludes
// paused periods but includes breaks. Stopping an idle clock is a no-op.
func (c Clock) Stop(now time.Time) (Clock, time.Duration) {
	if c.State == StateIdle || c.State == "" {
		return c, 0
	}
	elapsed := c.Elapsed(now)
	return Clock{State: StateIdle}, elapsed
}

// Elapsed reports active session time at now: wall time since start minus
// accumulated pauses. While paused the value stays frozen.
func (c Clock) Elapsed(now time.Time) time.Duration {
	switch c.State {
	case StateRunning:
		return now.Sub(c.StartedAt) - c.PausedTotal
	case StatePaused:
		return c.PausedAt.Sub(c.StartedAt) - c.PausedTotal
	default:
		return 0
	}
}

// BreakRemaining reports how much of the current break is left, or zero when
// no break is in progress.
func (c Clock) BreakRemaining(now time.Time) time.Duration {
	if !c.InBreak {
		return 0
	}
	remaining := c.BreakLength - now.Sub(c.BreakStartedAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// UntilNextBreak reports time until the next scheduled break, or zero when
// no break is scheduled.
func (c Clock) UntilNextBreak(now time.Time) time.Duration {
	if c.NextBreakAt.IsZero() {
		return 0
	}
	until := c.NextBreakAt.Sub(now)
	if until < 0 {
		return 0
	}
	return until
}

// ActiveSession is the persisted form of an in-flight session.
type ActiveSession struct {
	SchemaVersion int    `json:"schema_version"`
	SessionID     string `json:"session_id"`
	Clock         Clock  `json:"clock"`
}

// Record is a completed session as stored in history.
type Record struct {
	ID              string
	StartedAt       time.Time
	EndedAt         time.Time
	DurationSeconds int
	BreaksTaken     int
}

// DayTotals aggregates completed sessions for a single day.
type DayTotals struct {
	Sessions     int
	FocusSeconds int
	BreaksTaken  int
}
