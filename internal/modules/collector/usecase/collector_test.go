package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"deskpulse/internal/modules/collector/domain"
	collectorin "deskpulse/internal/modules/collector/port/in"
	"deskpulse/internal/modules/collector/service"
	"deskpulse/internal/modules/collector/usecase"
	wellnessdto "deskpulse/internal/modules/wellness/dto"
)

type fakeStore struct {
	manifests []domain.Manifest
}

func (s *fakeStore) Load(context.Context) ([]domain.Manifest, error) {
	return s.manifests, nil
}

type fakeHost struct {
	samplesByName map[string][]domain.Sample
	errByName     map[string]error
	gotSince      time.Time
	gotLimit      int
}

func (h *fakeHost) Probe(context.Context, domain.Manifest) error {
	return nil
}

func (h *fakeHost) GetMetadata(context.Context, domain.Manifest) (domain.Metadata, error) {
	return domain.Metadata{}, nil
}

func (h *fakeHost) CollectSamples(_ context.Context, m domain.Manifest, since time.Time, limit int) ([]domain.Sample, error) {
	h.gotSince = since
	h.gotLimit = limit
	if err := h.errByName[m.Name]; err != nil {
		return nil, err
	}
	return h.samplesByName[m.Name], nil
}

func (h *fakeHost) GetStatus(context.Context, domain.Manifest) (domain.Status, error) {
	return domain.Status{State: domain.StateOperational, Detail: "all sensors up"}, nil
}

type fakeWellness struct {
	latest    time.Time
	batches   [][]wellnessdto.SampleInput
	ingestErr error
}

func (f *fakeWellness) Summary(context.Context, wellnessdto.SummaryQuery) (wellnessdto.SummaryOutput, error) {
	return wellnessdto.SummaryOutput{}, nil
}

func (f *fakeWellness) Ingest(_ context.Context, samples []wellnessdto.SampleInput) (wellnessdto.IngestOutput, error) {
	if f.ingestErr != nil {
		return wellnessdto.IngestOutput{}, f.ingestErr
	}
	f.batches = append(f.batches, samples)
	return wellnessdto.IngestOutput{Received: len(samples), Stored: len(samples)}, nil
}

func (f *fakeWellness) LatestSampleTime(context.Context) (time.Time, error) {
	return f.latest, nil
}

func manifest(name string, enabled bool, caps ...domain.Capability) domain.Manifest {
	return domain.Manifest{
		Name:         name,
		Version:      "1.0.0",
		Binary:       "/opt/collectors/" + name,
		SHA256:       strings.Repeat("ab", 32),
		Enabled:      enabled,
		Capabilities: caps,
	}
}

func sampleAt(ts time.Time) domain.Sample {
	return domain.Sample{
		Timestamp:    ts,
		FocusScore:   0.8,
		PostureScore: 0.7,
		NoiseLevel:   0.2,
		Cycle:        7,
		AgentStatus:  "operational",
	}
}

func newUsecase(store *fakeStore, host *fakeHost, wellness *fakeWellness, limit int) collectorin.Usecase {
	svc := service.NewCollectorService(store, host, nil)
	return usecase.NewInteractor(svc, wellness, limit, nil)
}

func TestHarvestPullsEnabledSampleCollectorsSinceNewest(t *testing.T) {
	t.Parallel()
	newest := time.Date(2025, 3, 10, 8, 55, 0, 0, time.UTC)
	store := &fakeStore{manifests: []domain.Manifest{
		manifest("cam", true, domain.CapabilitySamples, domain.CapabilityStatus),
		manifest("heartbeat-only", true, domain.CapabilityStatus),
		manifest("parked", false, domain.CapabilitySamples),
	}}
	host := &fakeHost{samplesByName: map[string][]domain.Sample{
		"cam": {sampleAt(newest.Add(5 * time.Minute)), sampleAt(newest.Add(10 * time.Minute))},
	}}
	wellness := &fakeWellness{latest: newest}
	uc := newUsecase(store, host, wellness, 100)

	out, err := uc.Harvest(context.Background())
	if err != nil {
		t.Fatalf("harvest: %v", err)
	}
	if !out.Since.Equal(newest) || !host.gotSince.Equal(newest) {
		t.Fatalf("harvest did not start from newest stored sample: %v", host.gotSince)
	}
	if host.gotLimit != 100 {
		t.Fatalf("expected configured limit, got %d", host.gotLimit)
	}
	if len(out.Results) != 1 || out.Results[0].Collector != "cam" {
		t.Fatalf("expected only the samples-capable enabled collector, got %+v", out.Results)
	}
	if out.Results[0].Pulled != 2 || out.Results[0].Stored != 2 || out.Stored != 2 {
		t.Fatalf("unexpected harvest counts: %+v", out)
	}
	if len(wellness.batches) != 1 || len(wellness.batches[0]) != 2 {
		t.Fatalf("expected one ingested batch of two samples, got %+v", wellness.batches)
	}
}

func TestHarvestContinuesPastFailingCollector(t *testing.T) {
	t.Parallel()
	store := &fakeStore{manifests: []domain.Manifest{
		manifest("broken", true, domain.CapabilitySamples),
		manifest("cam", true, domain.CapabilitySamples),
	}}
	host := &fakeHost{
		samplesByName: map[string][]domain.Sample{"cam": {sampleAt(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))}},
		errByName:     map[string]error{"broken": errors.New("handshake refused")},
	}
	wellness := &fakeWellness{}
	uc := newUsecase(store, host, wellness, 50)

	out, err := uc.Harvest(context.Background())
	if err != nil {
		t.Fatalf("harvest: %v", err)
	}
	if len(out.Results) != 2 {
		t.Fatalf("expected both collectors reported, got %+v", out.Results)
	}
	if out.Results[0].Error == "" {
		t.Fatalf("expected broken collector error to be recorded")
	}
	if out.Results[1].Stored != 1 || out.Stored != 1 {
		t.Fatalf("healthy collector should still store: %+v", out)
	}
}

func TestHarvestSkipsIngestWhenNothingPulled(t *testing.T) {
	t.Parallel()
	store := &fakeStore{manifests: []domain.Manifest{manifest("cam", true, domain.CapabilitySamples)}}
	wellness := &fakeWellness{}
	uc := newUsecase(store, &fakeHost{}, wellness, 50)

	out, err := uc.Harvest(context.Background())
	if err != nil {
		t.Fatalf("harvest: %v", err)
	}
	if len(wellness.batches) != 0 {
		t.Fatalf("expected no ingest for empty pull")
	}
	if out.Results[0].Pulled != 0 || out.Results[0].Error != "" {
		t.Fatalf("unexpected result: %+v", out.Results[0])
	}
}

func TestHarvestRecordsIngestRejection(t *testing.T) {
	t.Parallel()
	store := &fakeStore{manifests: []domain.Manifest{manifest("cam", true, domain.CapabilitySamples)}}
	host := &fakeHost{samplesByName: map[string][]domain.Sample{
		"cam": {sampleAt(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))},
	}}
	wellness := &fakeWellness{ingestErr: errors.New("focus_score out of range")}
	uc := newUsecase(store, host, wellness, 50)

	out, err := uc.Harvest(context.Background())
	if err != nil {
		t.Fatalf("harvest: %v", err)
	}
	if out.Results[0].Error == "" || out.Stored != 0 {
		t.Fatalf("expected rejection recorded without storing: %+v", out)
	}
}

func TestPullFallsBackToConfiguredLimit(t *testing.T) {
	t.Parallel()
	store := &fakeStore{manifests: []domain.Manifest{manifest("cam", true, domain.CapabilitySamples)}}
	host := &fakeHost{samplesByName: map[string][]domain.Sample{
		"cam": {sampleAt(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))},
	}}
	uc := newUsecase(store, host, &fakeWellness{}, 100)

	out, err := uc.Pull(context.Background(), "cam", time.Time{}, 0)
	if err != nil {
		t.Fatalf("pull: %v", err)
	}
	if host.gotLimit != 100 {
		t.Fatalf("expected default limit, got %d", host.gotLimit)
	}
	if len(out.Samples) != 1 || out.Samples[0].AgentStatus != "operational" {
		t.Fatalf("unexpected pull output: %+v", out)
	}
}

func TestStatusMapsHeartbeat(t *testing.T) {
	t.Parallel()
	store := &fakeStore{manifests: []domain.Manifest{manifest("cam", true, domain.CapabilityStatus)}}
	uc := newUsecase(store, &fakeHost{}, &fakeWellness{}, 100)

	out, err := uc.Status(context.Background(), "cam")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if out.State != domain.StateOperational || out.Detail != "all sensors up" {
		t.Fatalf("unexpected status: %+v", out)
	}
}
