package in

import (
	"context"
	"time"

	wellnessdto "deskpulse/internal/modules/wellness/dto"
	wellnessin "deskpulse/internal/modules/wellness/port/in"
)

type CLIHandler struct {
	usecase wellnessin.Usecase
}

func NewCLIHandler(usecase wellnessin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Summary(ctx context.Context, windowHours, limit int) (wellnessdto.SummaryOutput, error) {
	return h.usecase.Summary(ctx, wellnessdto.SummaryQuery{WindowHours: windowHours, Limit: limit})
}

func (h CLIHandler) Ingest(ctx context.Context, samples []wellnessdto.SampleInput) (wellnessdto.IngestOutput, error) {
	return h.usecase.Ingest(ctx, samples)
}

func (h CLIHandler) LatestSampleTime(ctx context.Context) (time.Time, error) {
	return h.usecase.LatestSampleTime(ctx)
}
