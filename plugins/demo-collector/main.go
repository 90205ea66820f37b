package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/hashicorp/go-plugin"

	collectorrpc "deskpulse/internal/modules/collector/adapter/out/rpc"
)

const (
	sampleSpacing = 5 * time.Minute
	backlogDepth  = 20
)

var recommendationSets = [][]string{
	{"🎯 Focus on alignment", "✅ Good posture"},
	{"🔴 Neck flexion critical - Raise monitor", "🟡 Minor shoulder imbalance"},
	{"📱 Brief phone check", "🌟 Excellent posture!"},
	{},
}

type server struct{}

func (s *server) GetMetadata(_ context.Context, _ *collectorrpc.Empty) (*collectorrpc.Metadata, error) {
	return &collectorrpc.Metadata{
		Name:         "demo-collector",
		Version:      "1.0.0",
		Capabilities: []string{"samples", "status"},
	}, nil
}

// CollectSamples replays a synthetic capture backlog, newest first, stopping
// at the caller's since watermark so repeated harvests stay disjoint.
func (s *server) CollectSamples(_ context.Context, in *collectorrpc.CollectSamplesRequest) (*collectorrpc.CollectSamplesResponse, error) {
	var since time.Time
	if in.Since != "" {
		parsed, err := time.Parse(time.RFC3339Nano, in.Since)
		if err != nil {
			return nil, fmt.Errorf("parse since %q: %w", in.Since, err)
		}
		since = parsed
	}
	limit := int(in.Limit)
	if limit < 1 || limit > backlogDepth {
		limit = backlogDepth
	}

	now := time.Now().UTC()
	rng := rand.New(rand.NewSource(now.UnixNano()))
	samples := make([]collectorrpc.Sample, 0, limit)
	for i := 0; i < backlogDepth && len(samples) < limit; i++ {
		ts := now.Add(-time.Duration(i) * sampleSpacing)
		if !since.IsZero() && !ts.After(since) {
			break
		}
		samples = append(samples, collectorrpc.Sample{
			Timestamp:         ts.Format(time.RFC3339Nano),
			FocusScore:        round(uniform(rng, 0.4, 0.9), 3),
			PostureScore:      round(uniform(rng, 0.3, 0.9), 3),
			PhoneUsageSeconds: round(uniform(rng, 0, 45), 1),
			NoiseLevel:        round(uniform(rng, 0.1, 0.6), 3),
			Recommendations:   recommendationSets[rng.Intn(len(recommendationSets))],
			Cycle:             int32(100 - i),
			AgentStatus:       "operational",
		})
	}
	return &collectorrpc.CollectSamplesResponse{Samples: samples}, nil
}

func (s *server) GetStatus(_ context.Context, _ *collectorrpc.Empty) (*collectorrpc.StatusResponse, error) {
	return &collectorrpc.StatusResponse{
		State:        "operational",
		Detail:       "synthetic capture loop",
		LastSampleAt: time.Now().UTC().Format(time.RFC3339Nano),
	}, nil
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: collectorrpc.HandshakeConfig,
		Plugins:         collectorrpc.PluginMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
