package usecase

import (
	"context"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"deskpulse/internal/modules/collector/domain"
	"deskpulse/internal/modules/collector/dto"
	collectorin "deskpulse/internal/modules/collector/port/in"
	"deskpulse/internal/modules/collector/service"
	wellnessdto "deskpulse/internal/modules/wellness/dto"
	wellnessin "deskpulse/internal/modules/wellness/port/in"
)

type Interactor struct {
	svc          *service.CollectorService
	wellness     wellnessin.Usecase
	defaultLimit int
	logger       hclog.Logger
}

func NewInteractor(svc *service.CollectorService, wellness wellnessin.Usecase, defaultLimit int, logger hclog.Logger) collectorin.Usecase {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Interactor{svc: svc, wellness: wellness, defaultLimit: defaultLimit, logger: logger}
}

func (i *Interactor) List(ctx context.Context) ([]dto.CollectorInfo, error) {
	return i.svc.List(ctx)
}

func (i *Interactor) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return i.svc.Doctor(ctx)
}

func (i *Interactor) Pull(ctx context.Context, name string, since time.Time, limit int) (dto.PullOutput, error) {
	if limit < 1 {
		limit = i.defaultLimit
	}
	samples, err := i.svc.PullSamples(ctx, name, since, limit)
	if err != nil {
		return dto.PullOutput{}, err
	}
	out := dto.PullOutput{Collector: name, Since: since, Samples: make([]dto.SampleOutput, 0, len(samples))}
	for _, sample := range samples {
		out.Samples = append(out.Samples, dto.SampleOutput{
			Timestamp:         sample.Timestamp,
			FocusScore:        sample.FocusScore,
			PostureScore:      sample.PostureScore,
			PhoneUsageSeconds: sample.PhoneUsageSeconds,
			NoiseLevel:        sample.NoiseLevel,
			Recommendations:   sample.Recommendations,
			Cycle:             sample.Cycle,
			AgentStatus:       sample.AgentStatus,
		})
	}
	return out, nil
}

func (i *Interactor) Status(ctx context.Context, name string) (dto.StatusOutput, error) {
	status, err := i.svc.StatusOf(ctx, name)
	if err != nil {
		return dto.StatusOutput{}, err
	}
	return dto.StatusOutput{
		Collector:    name,
		State:        status.State,
		Detail:       status.Detail,
		LastSampleAt: status.LastSampleAt,
	}, nil
}

// Harvest visits every enabled collector with the samples capability and
// ingests what it returns. A failing collector is reported in its result
// and does not abort the run.
func (i *Interactor) Harvest(ctx context.Context) (dto.HarvestOutput, error) {
	since, err := i.wellness.LatestSampleTime(ctx)
	if err != nil {
		return dto.HarvestOutput{}, err
	}
	manifests, err := i.svc.Enabled(ctx)
	if err != nil {
		return dto.HarvestOutput{}, err
	}

	out := dto.HarvestOutput{Since: since, Results: make([]dto.HarvestResult, 0, len(manifests))}
	for _, manifest := range manifests {
		if !manifest.HasCapability(domain.CapabilitySamples) {
			continue
		}
		result := dto.HarvestResult{Collector: manifest.Name}
		samples, err := i.svc.PullSamples(ctx, manifest.Name, since, i.defaultLimit)
		if err != nil {
			i.logger.Warn("harvest pull failed", "collector", manifest.Name, "error", err)
			result.Error = err.Error()
			out.Results = append(out.Results, result)
			continue
		}
		result.Pulled = len(samples)
		if len(samples) > 0 {
			ingested, err := i.wellness.Ingest(ctx, toSampleInputs(samples))
			if err != nil {
				i.logger.Warn("harvest ingest rejected", "collector", manifest.Name, "error", err)
				result.Error = err.Error()
				out.Results = append(out.Results, result)
				continue
			}
			result.Stored = ingested.Stored
		}
		out.Stored += result.Stored
		out.Results = append(out.Results, result)
	}
	i.logger.Debug("harvest finished", "since", since, "stored", out.Stored)
	return out, nil
}

func toSampleInputs(samples []domain.Sample) []wellnessdto.SampleInput {
	out := make([]wellnessdto.SampleInput, 0, len(samples))
	for _, sample := range samples {
		out = append(out, wellnessdto.SampleInput{
			Timestamp:         sample.Timestamp,
			FocusScore:        sample.FocusScore,
			PostureScore:      sample.PostureScore,
			PhoneUsageSeconds: sample.PhoneUsageSeconds,
			NoiseLevel:        sample.NoiseLevel,
			Recommendations:   sample.Recommendations,
			Cycle:             sample.Cycle,
			AgentStatus:       sample.AgentStatus,
		})
	}
	return out
}
