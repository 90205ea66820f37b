package service_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	collectorout "deskpulse/internal/modules/collector/adapter/out"
	"deskpulse/internal/modules/collector/domain"
	"deskpulse/internal/modules/collector/service"
)

type fakeStore struct {
	manifests []domain.Manifest
	err       error
}

func (s *fakeStore) Load(context.Context) ([]domain.Manifest, error) {
	return s.manifests, s.err
}

type fakeHost struct {
	samples  []domain.Sample
	status   domain.Status
	err      error
	gotSince time.Time
	gotLimit int
	probes   int
}

func (h *fakeHost) Probe(context.Context, domain.Manifest) error {
	h.probes++
	return h.err
}

func (h *fakeHost) GetMetadata(context.Context, domain.Manifest) (domain.Metadata, error) {
	return domain.Metadata{}, h.err
}

func (h *fakeHost) CollectSamples(_ context.Context, _ domain.Manifest, since time.Time, limit int) ([]domain.Sample, error) {
	h.gotSince = since
	h.gotLimit = limit
	return h.samples, h.err
}

func (h *fakeHost) GetStatus(context.Context, domain.Manifest) (domain.Status, error) {
	return h.status, h.err
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

func TestDoctorDetectsChecksumMismatch(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()
	collectorsDir := filepath.Join(tmp, "collectors")
	if err := os.MkdirAll(collectorsDir, 0o755); err != nil {
		t.Fatalf("mkdir collectors: %v", err)
	}
	binPath := filepath.Join(tmp, "dummy-collector")
	if err := os.WriteFile(binPath, []byte("not-a-real-collector"), 0o755); err != nil {
		t.Fatalf("write collector binary: %v", err)
	}
	manifests := []domain.Manifest{{
		Name:         "demo",
		Version:      "1.0.0",
		Binary:       binPath,
		SHA256:       strings.Repeat("0", 64),
		Enabled:      true,
		Capabilities: []domain.Capability{domain.CapabilitySamples},
	}}
	raw, _ := json.Marshal(manifests)
	if err := os.WriteFile(filepath.Join(collectorsDir, "collectors.json"), raw, 0o644); err != nil {
		t.Fatalf("write collectors.json: %v", err)
	}

	svc := service.NewCollectorService(collectorout.NewFileManifestStore(tmp), nil, nil)
	results, err := svc.Doctor(context.Background())
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected one result, got %d", len(results))
	}
	if results[0].ChecksumValid {
		t.Fatalf("expected checksum mismatch")
	}
	if results[0].Error != "checksum mismatch" {
		t.Fatalf("unexpected error text: %q", results[0].Error)
	}
}

func TestDoctorProbesHealthyCollector(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()
	binPath := filepath.Join(tmp, "healthy-collector")
	payload := []byte("collector payload")
	if err := os.WriteFile(binPath, payload, 0o755); err != nil {
		t.Fatalf("write collector binary: %v", err)
	}
	sum := sha256.Sum256(payload)

	m := manifest("healthy", true, domain.CapabilitySamples)
	m.Binary = binPath
	m.SHA256 = hex.EncodeToString(sum[:])
	host := &fakeHost{}
	svc := service.NewCollectorService(&fakeStore{manifests: []domain.Manifest{m}}, host, nil)

	results, err := svc.Doctor(context.Background())
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	if !results[0].BinaryReachable || !results[0].ChecksumValid || !results[0].LifecycleOK {
		t.Fatalf("expected fully healthy result, got %+v", results[0])
	}
	if host.probes != 1 {
		t.Fatalf("expected one lifecycle probe, got %d", host.probes)
	}
}

func TestPullRefusesDisabledAndUnknownCollectors(t *testing.T) {
	t.Parallel()
	store := &fakeStore{manifests: []domain.Manifest{manifest("idle-cam", false, domain.CapabilitySamples)}}
	svc := service.NewCollectorService(store, &fakeHost{}, nil)

	if _, err := svc.PullSamples(context.Background(), "idle-cam", time.Time{}, 10); !errors.Is(err, domain.ErrCollectorDisabled) {
		t.Fatalf("expected ErrCollectorDisabled, got %v", err)
	}
	if _, err := svc.PullSamples(context.Background(), "missing", time.Time{}, 10); !errors.Is(err, domain.ErrCollectorNotFound) {
		t.Fatalf("expected ErrCollectorNotFound, got %v", err)
	}
}

func TestStatusRequiresStatusCapability(t *testing.T) {
	t.Parallel()
	store := &fakeStore{manifests: []domain.Manifest{manifest("samples-only", true, domain.CapabilitySamples)}}
	svc := service.NewCollectorService(store, &fakeHost{}, nil)

	if _, err := svc.StatusOf(context.Background(), "samples-only"); !errors.Is(err, domain.ErrCapabilityMissing) {
		t.Fatalf("expected ErrCapabilityMissing, got %v", err)
	}
}

func TestDuplicateCollectorNamesAreRejected(t *testing.T) {
	t.Parallel()
	store := &fakeStore{manifests: []domain.Manifest{
		manifest("twin", true, domain.CapabilitySamples),
		manifest("twin", true, domain.CapabilityStatus),
	}}
	svc := service.NewCollectorService(store, &fakeHost{}, nil)

	if _, err := svc.List(context.Background()); err == nil {
		t.Fatalf("expected duplicate name error")
	}
}

func TestEnabledFiltersDisabledCollectors(t *testing.T) {
	t.Parallel()
	store := &fakeStore{manifests: []domain.Manifest{
		manifest("on", true, domain.CapabilitySamples),
		manifest("off", false, domain.CapabilitySamples),
	}}
	svc := service.NewCollectorService(store, &fakeHost{}, nil)

	enabled, err := svc.Enabled(context.Background())
	if err != nil {
		t.Fatalf("enabled: %v", err)
	}
	if len(enabled) != 1 || enabled[0].Name != "on" {
		t.Fatalf("unexpected enabled set: %+v", enabled)
	}
}

func TestPullForwardsSinceAndLimit(t *testing.T) {
	t.Parallel()
	since := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	host := &fakeHost{samples: []domain.Sample{{Timestamp: since.Add(time.Minute), FocusScore: 0.8}}}
	store := &fakeStore{manifests: []domain.Manifest{manifest("cam", true, domain.CapabilitySamples)}}
	svc := service.NewCollectorService(store, host, nil)

	samples, err := svc.PullSamples(context.Background(), "cam", since, 25)
	if err != nil {
		t.Fatalf("pull: %v", err)
	}
	if len(samples) != 1 {
		t.Fatalf("expected one sample, got %d", len(samples))
	}
	if !host.gotSince.Equal(since) || host.gotLimit != 25 {
		t.Fatalf("since/limit not forwarded: %v %d", host.gotSince, host.gotLimit)
	}
}
