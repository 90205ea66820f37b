package out

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"deskpulse/internal/modules/wellness/domain"
	wellnessout "deskpulse/internal/modules/wellness/port/out"
	"deskpulse/internal/platform/clock"
)

var demoRecommendationSets = [][]string{
	{"🎯 Focus on alignment", "✅ Good posture"},
	{"🔴 Neck flexion critical - Raise monitor", "🟡 Minor shoulder imbalance"},
	{"📱 Brief phone check", "🌟 Excellent posture!"},
	{},
}

// DemoSource synthesizes a plausible sample window so the dashboard can be
// explored without any collector installed.
type DemoSource struct {
	clock clock.Clock

	mu  sync.Mutex
	rng *rand.Rand
}

func NewDemoSource(clk clock.Clock, seed int64) wellnessout.SampleSource {
	return &DemoSource{clock: clk, rng: rand.New(rand.NewSource(seed))}
}

func (d *DemoSource) FetchRecent(_ context.Context, window time.Duration, limit int) ([]domain.Sample, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.clock.Now()
	cutoff := now.Add(-window)
	samples := make([]domain.Sample, 0, 20)
	for i := 0; i < 20 && len(samples) < limit; i++ {
		ts := now.Add(-time.Duration(i) * 5 * time.Minute)
		if ts.Before(cutoff) {
			break
		}
		samples = append(samples, domain.Sample{
			Timestamp:         ts,
			FocusScore:        demoRound(d.uniform(0.4, 0.9), 3),
			PostureScore:      demoRound(d.uniform(0.3, 0.9), 3),
			PhoneUsageSeconds: demoRound(d.uniform(0, 45), 1),
			NoiseLevel:        demoRound(d.uniform(0.1, 0.6), 3),
			Recommendations:   demoRecommendationSets[d.rng.Intn(len(demoRecommendationSets))],
			Cycle:             100 - i,
			AgentStatus:       "operational",
		})
	}
	return samples, nil
}

func (d *DemoSource) uniform(lo, hi float64) float64 {
	return lo + d.rng.Float64()*(hi-lo)
}

func demoRound(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
