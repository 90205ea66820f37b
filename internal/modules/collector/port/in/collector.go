package in

import (
	"context"
	"time"

	"deskpulse/internal/modules/collector/dto"
)

type Usecase interface {
	List(ctx context.Context) ([]dto.CollectorInfo, error)
	Doctor(ctx context.Context) ([]dto.DoctorResult, error)
	Pull(ctx context.Context, name string, since time.Time, limit int) (dto.PullOutput, error)
	Status(ctx context.Context, name string) (dto.StatusOutput, error)
	// Harvest pulls every enabled collector since the newest stored sample
	// and feeds the results into the wellness store.
	Harvest(ctx context.Context) (dto.HarvestOutput, error)
}
