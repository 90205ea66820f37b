package dto

import "time"

type StartOutput struct {
	SessionID   string
	StartedAt   time.Time
	NextBreakAt time.Time
}

type StatusOutput struct {
	SessionID             string
	State                 string
	StartedAt             time.Time
	ElapsedSeconds        int
	InBreak               bool
	BreakRemainingSeconds int
	NextBreakAt           time.Time
	NextBreakInSeconds    int
	BreaksTaken           int
	Events                []string
}

type StopOutput struct {
	SessionID       string
	DurationSeconds int
	BreaksTaken     int
	Saved           bool
}

type RecordOutput struct {
	ID              string
	StartedAt       time.Time
	EndedAt         time.Time
	DurationSeconds int
	BreaksTaken     int
}

type TodayOutput struct {
	Sessions     int
	FocusSeconds int
	BreaksTaken  int
}
