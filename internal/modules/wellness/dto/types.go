package dto

import "time"

type SampleInput struct {
	Timestamp         time.Time `json:"timestamp"`
	FocusScore        float64   `json:"focus_score"`
	PostureScore      float64   `json:"posture_score"`
	PhoneUsageSeconds float64   `json:"phone_usage_seconds"`
	NoiseLevel        float64   `json:"noise_level"`
	Recommendations   []string  `json:"recommendations,omitempty"`
	Cycle             int       `json:"cycle"`
	AgentStatus       string    `json:"agent_status"`
}

// SummaryQuery selects the aggregation window. Zero values fall back to the
// configured defaults.
type SummaryQuery struct {
	WindowHours int
	Limit       int
}

type GaugeOutput struct {
	Value  string `json:"value"`
	Status string `json:"status"`
}

type AveragesOutput struct {
	FocusScore   float64 `json:"focus_score"`
	PostureScore float64 `json:"posture_score"`
	NoiseLevel   float64 `json:"noise_level"`
}

type TotalsOutput struct {
	PhoneUsageSeconds float64 `json:"phone_usage_seconds"`
	PhoneUsageMinutes float64 `json:"phone_usage_minutes"`
}

type TrendOutput struct {
	Direction   string  `json:"direction"`
	RecentFocus float64 `json:"recent_focus"`
	OlderFocus  float64 `json:"older_focus"`
}

type RecommendationOutput struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

type LiveMetricsOutput struct {
	FocusScore   GaugeOutput `json:"focus_score"`
	PostureScore GaugeOutput `json:"posture_score"`
	NoiseLevel   GaugeOutput `json:"noise_level"`
	PhoneUsage   GaugeOutput `json:"phone_usage"`
}

type MetricsOutput struct {
	FocusScore       float64 `json:"focus_score"`
	PostureScore     float64 `json:"posture_score"`
	DistractionLevel float64 `json:"distraction_level"`
}

type SummaryOutput struct {
	Status             string                 `json:"status"`
	Message            string                 `json:"message,omitempty"`
	DataPointCount     int                    `json:"data_point_count"`
	TimeRangeHours     int                    `json:"time_range_hours"`
	Averages           AveragesOutput         `json:"averages"`
	Totals             TotalsOutput           `json:"totals"`
	Trend              TrendOutput            `json:"trend"`
	TopRecommendations []RecommendationOutput `json:"top_recommendations"`
	HealthGrade        string                 `json:"health_grade"`
	LastUpdated        time.Time              `json:"last_updated"`
	LiveMetrics        LiveMetricsOutput      `json:"live_metrics"`
	Metrics            MetricsOutput          `json:"metrics"`
	Cycle              int                    `json:"cycle"`
	AgentStatus        string                 `json:"agent_status"`
}

type IngestOutput struct {
	Received int `json:"received"`
	Stored   int `json:"stored"`
}
