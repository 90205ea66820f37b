package in

import (
	"context"

	"deskpulse/internal/modules/session/dto"
)

type Usecase interface {
	Start(ctx context.Context) (dto.StartOutput, error)
	TogglePause(ctx context.Context) (dto.StatusOutput, error)
	Stop(ctx context.Context) (dto.StopOutput, error)
	// Tick folds wall-clock progress into the active session, persisting any
	// break transition it produced. Callers drive it once per second while a
	// session view is open; a single catch-up call is enough elsewhere.
	Tick(ctx context.Context) (dto.StatusOutput, error)
	Status(ctx context.Context) (dto.StatusOutput, error)
	Recent(ctx context.Context, limit int) ([]dto.RecordOutput, error)
	Today(ctx context.Context) (dto.TodayOutput, error)
}
