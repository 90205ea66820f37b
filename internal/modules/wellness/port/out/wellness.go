package out

import (
	"context"
	"time"

	"deskpulse/internal/modules/wellness/domain"
)

// SampleSource yields the newest-first sample window the aggregator reads.
// Implementations signal an unreachable backing store with an error; the
// caller degrades to a no_data summary.
type SampleSource interface {
	FetchRecent(ctx context.Context, window time.Duration, limit int) ([]domain.Sample, error)
}

// SampleStore persists harvested samples.
type SampleStore interface {
	Append(ctx context.Context, samples []domain.Sample) (int, error)
	NewestTimestamp(ctx context.Context) (time.Time, error)
}
