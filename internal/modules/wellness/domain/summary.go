package domain

import (
	"fmt"
	"math"
	"sort"
	"time"
)

type SummaryStatus string

const (
	SummarySuccess SummaryStatus = "success"
	SummaryNoData  SummaryStatus = "no_data"
)

type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendDeclining TrendDirection = "declining"
	TrendStable    TrendDirection = "stable"
)

type GaugeStatus string

const (
	GaugeGood GaugeStatus = "good"
	GaugeWarn GaugeStatus = "warn"
	GaugeBad  GaugeStatus = "bad"
)

// Gauge is one live metric: a display-ready value and a traffic-light status.
type Gauge struct {
	Value  string
	Status GaugeStatus
}

type Averages struct {
	FocusScore   float64
	PostureScore float64
	NoiseLevel   float64
}

type Totals struct {
	PhoneUsageSeconds float64
	PhoneUsageMinutes float64
}

type Trend struct {
	Direction   TrendDirection
	RecentFocus float64
	OlderFocus  float64
}

type RecommendationCount struct {
	Text  string
	Count int
}

type LiveMetrics struct {
	FocusScore   Gauge
	PostureScore Gauge
	NoiseLevel   Gauge
	PhoneUsage   Gauge
}

// Metrics are percentage views of the window averages for display.
type Metrics struct {
	FocusScore       float64
	PostureScore     float64
	DistractionLevel float64
}

type Summary struct {
	Status             SummaryStatus
	Message            string
	DataPointCount     int
	TimeRangeHours     int
	Averages           Averages
	Totals             Totals
	Trend              Trend
	TopRecommendations []RecommendationCount
	HealthGrade        string
	LastUpdated        time.Time
	LiveMetrics        LiveMetrics
	Metrics            Metrics
	Cycle              int
	AgentStatus        string
}

// Summarize reduces a newest-first sample window to a single summary. An
// empty window degrades to a no_data summary instead of failing; callers
// render a placeholder in that case.
//
// The trend compares mean focus of the newest third against the remaining
// two-thirds. Windows of six samples or fewer compare the whole window with
// itself, which reads as stable.
func Summarize(samples []Sample, windowHours int) Summary {
	if len(samples) == 0 {
		return Summary{Status: SummaryNoData, Message: "No health data available"}
	}

	n := len(samples)
	var focusSum, postureSum, noiseSum, phoneSum float64
	for _, s := range samples {
		focusSum += s.FocusScore
		postureSum += s.PostureScore
		noiseSum += s.NoiseLevel
		phoneSum += s.PhoneUsageSeconds
	}
	avgFocus := focusSum / float64(n)
	avgPosture := postureSum / float64(n)
	avgNoise := noiseSum / float64(n)

	recent, older := samples, samples
	if n > 6 {
		recent = samples[:n/3]
		older = samples[n/3:]
	}
	recentFocus := meanFocus(recent, avgFocus)
	olderFocus := meanFocus(older, avgFocus)
	direction := TrendStable
	switch {
	case recentFocus > olderFocus:
		direction = TrendImproving
	case recentFocus < olderFocus:
		direction = TrendDeclining
	}

	newest := samples[0]
	return Summary{
		Status:         SummarySuccess,
		DataPointCount: n,
		TimeRangeHours: windowHours,
		Averages: Averages{
			FocusScore:   round3(avgFocus),
			PostureScore: round3(avgPosture),
			NoiseLevel:   round3(avgNoise),
		},
		Totals: Totals{
			PhoneUsageSeconds: round1(phoneSum),
			PhoneUsageMinutes: round1(phoneSum / 60),
		},
		Trend: Trend{
			Direction:   direction,
			RecentFocus: round3(recentFocus),
			OlderFocus:  round3(olderFocus),
		},
		TopRecommendations: rankRecommendations(samples),
		HealthGrade:        healthGrade(avgFocus, avgPosture, phoneSum, avgNoise),
		LastUpdated:        newest.Timestamp,
		LiveMetrics:        liveMetrics(samples),
		Metrics: Metrics{
			FocusScore:       round1(avgFocus * 100),
			PostureScore:     round1(avgPosture * 100),
			DistractionLevel: round1((1 - avgFocus) * 100),
		},
		Cycle:       newest.Cycle,
		AgentStatus: newest.AgentStatus,
	}
}

// rankRecommendations counts identical recommendation strings across the
// window and keeps the five most frequent. The sort is stable, so equal
// counts stay in first-seen order.
func rankRecommendations(samples []Sample) []RecommendationCount {
	counts := make(map[string]int)
	var order []string
	for _, s := range samples {
		for _, rec := range s.Recommendations {
			if counts[rec] == 0 {
				order = append(order, rec)
			}
			counts[rec]++
		}
	}
	ranked := make([]RecommendationCount, 0, len(order))
	for _, text := range order {
		ranked = append(ranked, RecommendationCount{Text: text, Count: counts[text]})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })
	if len(ranked) > 5 {
		ranked = ranked[:5]
	}
	return ranked
}

// liveMetrics reflects only the newest five samples so the gauges react
// quickly. Threshold boundaries deliberately fall on the cautious side: a
// mean of exactly 0.7 is warn, not good.
func liveMetrics(samples []Sample) LiveMetrics {
	recent := samples
	if len(recent) > 5 {
		recent = recent[:5]
	}
	var focusSum, postureSum, noiseSum, phoneSum float64
	for _, s := range recent {
		focusSum += s.FocusScore
		postureSum += s.PostureScore
		noiseSum += s.NoiseLevel
		phoneSum += s.PhoneUsageSeconds
	}
	n := float64(len(recent))
	avgFocus := focusSum / n
	avgPosture := postureSum / n
	avgNoise := noiseSum / n

	return LiveMetrics{
		FocusScore:   Gauge{Value: percent(avgFocus), Status: scoreStatus(avgFocus)},
		PostureScore: Gauge{Value: percent(avgPosture), Status: scoreStatus(avgPosture)},
		NoiseLevel:   Gauge{Value: percent(avgNoise), Status: noiseStatus(avgNoise)},
		PhoneUsage:   Gauge{Value: fmt.Sprintf("%.1f min", phoneSum/60), Status: phoneStatus(phoneSum)},
	}
}

func healthGrade(focus, posture, phoneSeconds, noise float64) string {
	phonePenalty := math.Min(phoneSeconds/300*20, 20)
	noisePenalty := noise * 30
	overall := (focus*100 + posture*100 - phonePenalty - noisePenalty) / 2
	switch {
	case overall >= 85:
		return "A"
	case overall >= 75:
		return "B"
	case overall >= 65:
		return "C"
	case overall >= 55:
		return "D"
	default:
		return "F"
	}
}

func meanFocus(samples []Sample, fallback float64) float64 {
	if len(samples) == 0 {
		return fallback
	}
	var sum float64
	for _, s := range samples {
		sum += s.FocusScore
	}
	return sum / float64(len(samples))
}

func scoreStatus(mean float64) GaugeStatus {
	switch {
	case mean > 0.7:
		return GaugeGood
	case mean > 0.4:
		return GaugeWarn
	default:
		return GaugeBad
	}
}

func noiseStatus(mean float64) GaugeStatus {
	switch {
	case mean < 0.3:
		return GaugeGood
	case mean < 0.6:
		return GaugeWarn
	default:
		return GaugeBad
	}
}

func phoneStatus(totalSeconds float64) GaugeStatus {
	switch {
	case totalSeconds < 300:
		return GaugeGood
	case totalSeconds < 900:
		return GaugeWarn
	default:
		return GaugeBad
	}
}

func percent(v float64) string {
	return fmt.Sprintf("%d%%", int(v*100))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
