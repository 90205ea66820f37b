package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"deskpulse/internal/modules/collector/domain"
	"deskpulse/internal/modules/collector/dto"
	collectorout "deskpulse/internal/modules/collector/port/out"
)

type CollectorService struct {
	store  collectorout.ManifestStore
	host   collectorout.Host
	logger hclog.Logger
}

func NewCollectorService(store collectorout.ManifestStore, host collectorout.Host, logger hclog.Logger) *CollectorService {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &CollectorService{store: store, host: host, logger: logger}
}

func (s *CollectorService) List(ctx context.Context) ([]dto.CollectorInfo, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CollectorInfo, 0, len(manifests))
	for _, m := range manifests {
		caps := make([]string, 0, len(m.Capabilities))
		for _, c := range m.Capabilities {
			caps = append(caps, string(c))
		}
		out = append(out, dto.CollectorInfo{Name: m.Name, Version: m.Version, Enabled: m.Enabled, Binary: m.Binary, Capabilities: caps})
	}
	return out, nil
}

func (s *CollectorService) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]dto.DoctorResult, 0, len(manifests))
	for _, m := range manifests {
		result := dto.DoctorResult{Name: m.Name}
		if err := m.Validate(); err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		binaryOK := fileExists(m.Binary)
		result.BinaryReachable = binaryOK
		checksumOK := false
		if binaryOK {
			checksumOK = checksumMatches(m.Binary, m.SHA256) == nil
		}
		result.ChecksumValid = checksumOK
		if binaryOK && checksumOK && m.Enabled && s.host != nil {
			if err := s.host.Probe(ctx, m); err != nil {
				s.logger.Warn("collector probe failed", "collector", m.Name, "error", err)
				result.Error = err.Error()
			} else {
				result.LifecycleOK = true
			}
		}
		if !binaryOK {
			result.Error = fmt.Sprintf("binary does not exist: %s", m.Binary)
		}
		if binaryOK && !checksumOK {
			result.Error = "checksum mismatch"
		}
		results = append(results, result)
	}
	return results, nil
}

// Enabled returns the validated manifests a harvest run should visit.
func (s *CollectorService) Enabled(ctx context.Context) ([]domain.Manifest, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Manifest, 0, len(manifests))
	for _, m := range manifests {
		if m.Enabled {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *CollectorService) PullSamples(ctx context.Context, name string, since time.Time, limit int) ([]domain.Sample, error) {
	manifest, err := s.getRunnable(ctx, name, domain.CapabilitySamples)
	if err != nil {
		return nil, err
	}
	samples, err := s.host.CollectSamples(ctx, manifest, since, limit)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("collected samples", "collector", name, "count", len(samples))
	return samples, nil
}

func (s *CollectorService) StatusOf(ctx context.Context, name string) (domain.Status, error) {
	manifest, err := s.getRunnable(ctx, name, domain.CapabilityStatus)
	if err != nil {
		return domain.Status{}, err
	}
	return s.host.GetStatus(ctx, manifest)
}

func (s *CollectorService) loadValidated(ctx context.Context) ([]domain.Manifest, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	seenNames := map[string]struct{}{}
	for _, manifest := range manifests {
		if err := manifest.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seenNames[manifest.Name]; ok {
			return nil, fmt.Errorf("duplicate collector name: %s", manifest.Name)
		}
		seenNames[manifest.Name] = struct{}{}
	}
	return manifests, nil
}

// getRunnable resolves a named manifest and checks it may be launched.
// Checksum enforcement happens in the host immediately before launch.
func (s *CollectorService) getRunnable(ctx context.Context, name string, requiredCapability domain.Capability) (domain.Manifest, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return domain.Manifest{}, err
	}
	for _, item := range manifests {
		if item.Name != name {
			continue
		}
		if !item.Enabled {
			return domain.Manifest{}, fmt.Errorf("%w: %s", domain.ErrCollectorDisabled, name)
		}
		if requiredCapability != "" && !item.HasCapability(requiredCapability) {
			return domain.Manifest{}, fmt.Errorf("%w: %s", domain.ErrCapabilityMissing, requiredCapability)
		}
		return item, nil
	}
	return domain.Manifest{}, fmt.Errorf("%w: %s", domain.ErrCollectorNotFound, name)
}

func checksumMatches(path string, expected string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read collector binary: %w", err)
	}
	hash := sha256.Sum256(payload)
	actual := hex.EncodeToString(hash[:])
	if actual != expected {
		return fmt.Errorf("%w: %s", domain.ErrChecksumMismatch, filepath.Base(path))
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
