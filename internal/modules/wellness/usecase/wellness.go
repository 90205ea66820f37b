package usecase

import (
	"context"
	"time"

	"deskpulse/internal/modules/wellness/domain"
	wellnessdto "deskpulse/internal/modules/wellness/dto"
	wellnessin "deskpulse/internal/modules/wellness/port/in"
	"deskpulse/internal/modules/wellness/service"
)

type Interactor struct {
	svc                *service.WellnessService
	defaultWindowHours int
	defaultLimit       int
}

func NewInteractor(svc *service.WellnessService, defaultWindowHours, defaultLimit int) wellnessin.Usecase {
	return &Interactor{
		svc:                svc,
		defaultWindowHours: defaultWindowHours,
		defaultLimit:       defaultLimit,
	}
}

func (i *Interactor) Summary(ctx context.Context, query wellnessdto.SummaryQuery) (wellnessdto.SummaryOutput, error) {
	windowHours := query.WindowHours
	if windowHours < 1 {
		windowHours = i.defaultWindowHours
	}
	limit := query.Limit
	if limit < 1 {
		limit = i.defaultLimit
	}
	return toSummaryOutput(i.svc.Summarize(ctx, windowHours, limit)), nil
}

func (i *Interactor) Ingest(ctx context.Context, inputs []wellnessdto.SampleInput) (wellnessdto.IngestOutput, error) {
	samples := make([]domain.Sample, 0, len(inputs))
	for _, in := range inputs {
		samples = append(samples, domain.Sample{
			Timestamp:         in.Timestamp,
			FocusScore:        in.FocusScore,
			PostureScore:      in.PostureScore,
			PhoneUsageSeconds: in.PhoneUsageSeconds,
			NoiseLevel:        in.NoiseLevel,
			Recommendations:   in.Recommendations,
			Cycle:             in.Cycle,
			AgentStatus:       in.AgentStatus,
		})
	}
	stored, err := i.svc.Ingest(ctx, samples)
	if err != nil {
		return wellnessdto.IngestOutput{}, err
	}
	return wellnessdto.IngestOutput{Received: len(inputs), Stored: stored}, nil
}

func (i *Interactor) LatestSampleTime(ctx context.Context) (time.Time, error) {
	return i.svc.NewestStored(ctx)
}

func toSummaryOutput(s domain.Summary) wellnessdto.SummaryOutput {
	recommendations := make([]wellnessdto.RecommendationOutput, 0, len(s.TopRecommendations))
	for _, rec := range s.TopRecommendations {
		recommendations = append(recommendations, wellnessdto.RecommendationOutput{Text: rec.Text, Count: rec.Count})
	}
	return wellnessdto.SummaryOutput{
		Status:         string(s.Status),
		Message:        s.Message,
		DataPointCount: s.DataPointCount,
		TimeRangeHours: s.TimeRangeHours,
		Averages: wellnessdto.AveragesOutput{
			FocusScore:   s.Averages.FocusScore,
			PostureScore: s.Averages.PostureScore,
			NoiseLevel:   s.Averages.NoiseLevel,
		},
		Totals: wellnessdto.TotalsOutput{
			PhoneUsageSeconds: s.Totals.PhoneUsageSeconds,
			PhoneUsageMinutes: s.Totals.PhoneUsageMinutes,
		},
		Trend: wellnessdto.TrendOutput{
			Direction:   string(s.Trend.Direction),
			RecentFocus: s.Trend.RecentFocus,
			OlderFocus:  s.Trend.OlderFocus,
		},
		TopRecommendations: recommendations,
		HealthGrade:        s.HealthGrade,
		LastUpdated:        s.LastUpdated,
		LiveMetrics: wellnessdto.LiveMetricsOutput{
			FocusScore:   toGauge(s.LiveMetrics.FocusScore),
			PostureScore: toGauge(s.LiveMetrics.PostureScore),
			NoiseLevel:   toGauge(s.LiveMetrics.NoiseLevel),
			PhoneUsage:   toGauge(s.LiveMetrics.PhoneUsage),
		},
		Metrics: wellnessdto.MetricsOutput{
			FocusScore:       s.Metrics.FocusScore,
			PostureScore:     s.Metrics.PostureScore,
			DistractionLevel: s.Metrics.DistractionLevel,
		},
		Cycle:       s.Cycle,
		AgentStatus: s.AgentStatus,
	}
}

func toGauge(g domain.Gauge) wellnessdto.GaugeOutput {
	return wellnessdto.GaugeOutput{Value: g.Value, Status: string(g.Status)}
}
