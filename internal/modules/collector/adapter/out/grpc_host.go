package out

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	collectorrpc "deskpulse/internal/modules/collector/adapter/out/rpc"
	"deskpulse/internal/modules/collector/domain"
	collectorout "deskpulse/internal/modules/collector/port/out"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 5 * time.Second
)

type GRPCHost struct{}

func NewGRPCHost() collectorout.Host {
	return &GRPCHost{}
}

func (h *GRPCHost) Probe(ctx context.Context, manifest domain.Manifest) error {
	client, closeFn, err := h.connect(ctx, manifest, defaultStartTimeout)
	if err != nil {
		return err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx, defaultCallTimeout)
	defer cancel()
	if _, err := client.GetMetadata(callCtx); err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("%w: %s", domain.ErrCollectorTimeout, manifest.Name)
		}
		return fmt.Errorf("get metadata: %w", err)
	}
	return nil
}

func (h *GRPCHost) GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error) {
	client, closeFn, err := h.connect(ctx, manifest, defaultStartTimeout)
	if err != nil {
		return domain.Metadata{}, err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx, defaultCallTimeout)
	defer cancel()

	meta, err := client.GetMetadata(callCtx)
	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			return domain.Metadata{}, fmt.Errorf("%w: %s", domain.ErrCollectorTimeout, manifest.Name)
		}
		return domain.Metadata{}, fmt.Errorf("get metadata: %w", err)
	}
	capabilities := make([]domain.Capability, 0, len(meta.Capabilities))
	for _, capability := range meta.Capabilities {
		capabilities = append(capabilities, domain.Capability(capability))
	}
	return domain.Metadata{Name: meta.Name, Version: meta.Version, Capabilities: capabilities}, nil
}

func (h *GRPCHost) CollectSamples(ctx context.Context, manifest domain.Manifest, since time.Time, limit int) ([]domain.Sample, error) {
	client, closeFn, err := h.connect(ctx, manifest, defaultStartTimeout)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx, defaultCallTimeout)
	defer cancel()

	request := &collectorrpc.CollectSamplesRequest{Limit: int32(limit)}
	if !since.IsZero() {
		request.Since = since.UTC().Format(time.RFC3339Nano)
	}
	response, err := client.CollectSamples(callCtx, request)
	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w: %s", domain.ErrCollectorTimeout, manifest.Name)
		}
		return nil, fmt.Errorf("collect samples: %w", err)
	}
	out := make([]domain.Sample, 0, len(response.Samples))
	for _, sample := range response.Samples {
		ts, err := time.Parse(time.RFC3339Nano, sample.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("parse sample timestamp %q: %w", sample.Timestamp, err)
		}
		out = append(out, domain.Sample{
			Timestamp:         ts,
			FocusScore:        sample.FocusScore,
			PostureScore:      sample.PostureScore,
			PhoneUsageSeconds: sample.PhoneUsageSeconds,
			NoiseLevel:        sample.NoiseLevel,
			Recommendations:   sample.Recommendations,
			Cycle:             int(sample.Cycle),
			AgentStatus:       sample.AgentStatus,
		})
	}
	return out, nil
}

func (h *GRPCHost) GetStatus(ctx context.Context, manifest domain.Manifest) (domain.Status, error) {
	client, closeFn, err := h.connect(ctx, manifest, defaultStartTimeout)
	if err != nil {
		return domain.Status{}, err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx, defaultCallTimeout)
	defer cancel()

	response, err := client.GetStatus(callCtx)
	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			return domain.Status{}, fmt.Errorf("%w: %s", domain.ErrCollectorTimeout, manifest.Name)
		}
		return domain.Status{}, fmt.Errorf("get status: %w", err)
	}
	status := domain.Status{State: response.State, Detail: response.Detail}
	if response.LastSampleAt != "" {
		ts, err := time.Parse(time.RFC3339Nano, response.LastSampleAt)
		if err != nil {
			return domain.Status{}, fmt.Errorf("parse status timestamp %q: %w", response.LastSampleAt, err)
		}
		status.LastSampleAt = ts
	}
	return status, nil
}

// connect verifies the manifest checksum, launches the binary, and hands
// back a ready client plus the kill func. Every call pays for its own
// subprocess; collectors are expected to respond within seconds.
func (h *GRPCHost) connect(ctx context.Context, manifest domain.Manifest, startTimeout time.Duration) (collectorrpc.CollectorPluginClient, func(), error) {
	if err := verifyChecksum(manifest.Binary, manifest.SHA256); err != nil {
		return nil, nil, err
	}
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  collectorrpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          collectorrpc.PluginMap(nil),
		Cmd:              exec.Command(manifest.Binary),
		Managed:          true,
		StartTimeout:     startTimeout,
		Logger:           hclog.New(&hclog.LoggerOptions{Output: io.Discard, Level: hclog.NoLevel}),
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start collector client: %w", err)
	}
	raw, err := rpcClient.Dispense(collectorrpc.PluginMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense collector: %w", err)
	}
	typed, ok := raw.(collectorrpc.CollectorPluginClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("collector rpc client type mismatch")
	}
	return typed, closeFn, nil
}

func (h *GRPCHost) callContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}

func verifyChecksum(path string, expected string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read collector binary: %w", err)
	}
	hash := sha256.Sum256(payload)
	if hex.EncodeToString(hash[:]) != expected {
		return fmt.Errorf("%w: %s", domain.ErrChecksumMismatch, filepath.Base(path))
	}
	return nil
}
