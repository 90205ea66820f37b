package in

import (
	"context"
	"time"

	"deskpulse/internal/modules/wellness/dto"
)

type Usecase interface {
	// Summary aggregates the sample window into a display-ready report. An
	// unreachable sample source degrades to a no_data summary; the error
	// return is reserved for context cancellation.
	Summary(ctx context.Context, query dto.SummaryQuery) (dto.SummaryOutput, error)
	Ingest(ctx context.Context, samples []dto.SampleInput) (dto.IngestOutput, error)
	LatestSampleTime(ctx context.Context) (time.Time, error)
}
