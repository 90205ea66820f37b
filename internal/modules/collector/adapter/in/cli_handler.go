package in

import (
	"context"
	"time"

	collectordto "deskpulse/internal/modules/collector/dto"
	collectorin "deskpulse/internal/modules/collector/port/in"
)

type CLIHandler struct {
	usecase collectorin.Usecase
}

func NewCLIHandler(usecase collectorin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) ([]collectordto.CollectorInfo, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Doctor(ctx context.Context) ([]collectordto.DoctorResult, error) {
	return h.usecase.Doctor(ctx)
}

func (h CLIHandler) Pull(ctx context.Context, name string, since time.Time, limit int) (collectordto.PullOutput, error) {
	return h.usecase.Pull(ctx, name, since, limit)
}

func (h CLIHandler) Status(ctx context.Context, name string) (collectordto.StatusOutput, error) {
	return h.usecase.Status(ctx, name)
}

func (h CLIHandler) Harvest(ctx context.Context) (collectordto.HarvestOutput, error) {
	return h.usecase.Harvest(ctx)
}
