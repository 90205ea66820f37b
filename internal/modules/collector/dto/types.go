package dto

import "time"

type CollectorInfo struct {
	Name         string
	Version      string
	Enabled      bool
	Binary       string
	Capabilities []string
}

type DoctorResult struct {
	Name            string
	BinaryReachable bool
	ChecksumValid   bool
	LifecycleOK     bool
	Error           string
}

type SampleOutput struct {
	Timestamp         time.Time `json:"timestamp"`
	FocusScore        float64   `json:"focus_score"`
	PostureScore      float64   `json:"posture_score"`
	PhoneUsageSeconds float64   `json:"phone_usage_seconds"`
	NoiseLevel        float64   `json:"noise_level"`
	Recommendations   []string  `json:"recommendations,omitempty"`
	Cycle             int       `json:"cycle"`
	AgentStatus       string    `json:"agent_status"`
}

type PullOutput struct {
	Collector string         `json:"collector"`
	Since     time.Time      `json:"since"`
	Samples   []SampleOutput `json:"samples"`
}

type StatusOutput struct {
	Collector    string    `json:"collector"`
	State        string    `json:"state"`
	Detail       string    `json:"detail,omitempty"`
	LastSampleAt time.Time `json:"last_sample_at"`
}

// HarvestResult is one collector's contribution to a harvest run. Error is
// populated instead of aborting the run so one broken collector cannot
// starve the rest.
type HarvestResult struct {
	Collector string `json:"collector"`
	Pulled    int    `json:"pulled"`
	Stored    int    `json:"stored"`
	Error     string `json:"error,omitempty"`
}

type HarvestOutput struct {
	Since   time.Time       `json:"since"`
	Results []HarvestResult `json:"results"`
	Stored  int             `json:"stored"`
}
