package service

import (
	"context"
	"time"

	"github.com/hashicorp/go-hclog"

	"deskpulse/internal/modules/wellness/domain"
	wellnessout "deskpulse/internal/modules/wellness/port/out"
)

type WellnessService struct {
	source wellnessout.SampleSource
	store  wellnessout.SampleStore
	logger hclog.Logger
}

func NewWellnessService(source wellnessout.SampleSource, store wellnessout.SampleStore, logger hclog.Logger) *WellnessService {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &WellnessService{source: source, store: store, logger: logger}
}

// Summarize fetches the requested window and reduces it. Fetch failures are
// not propagated: the dashboard shows a no_data placeholder instead of dying
// because the telemetry backend is momentarily unreachable.
func (s *WellnessService) Summarize(ctx context.Context, windowHours, limit int) domain.Summary {
	samples, err := s.source.FetchRecent(ctx, time.Duration(windowHours)*time.Hour, limit)
	if err != nil {
		s.logger.Warn("sample fetch failed, serving no_data summary", "error", err)
		return domain.Summarize(nil, windowHours)
	}
	return domain.Summarize(samples, windowHours)
}

// Ingest validates and stores a batch of samples. The batch is rejected as a
// whole on the first invalid sample so a partial write never happens.
func (s *WellnessService) Ingest(ctx context.Context, samples []domain.Sample) (int, error) {
	for _, sample := range samples {
		if err := sample.Validate(); err != nil {
			return 0, err
		}
	}
	return s.store.Append(ctx, samples)
}

func (s *WellnessService) NewestStored(ctx context.Context) (time.Time, error) {
	return s.store.NewestTimestamp(ctx)
}
