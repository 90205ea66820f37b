package domain

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

type Capability string

const (
	CapabilitySamples Capability = "samples"
	CapabilityStatus  Capability = "status"
)

var (
	ErrCollectorDisabled = errors.New("collector is disabled")
	ErrChecksumMismatch  = errors.New("collector checksum mismatch")
	ErrCapabilityMissing = errors.New("collector capability missing")
	ErrCollectorNotFound = errors.New("collector not found")
	ErrCollectorTimeout  = errors.New("collector timeout")
)

var sha256Pattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// Manifest describes one installed collector binary. Binaries run
// out-of-process and are only launched after the checksum matches.
type Manifest struct {
	Name         string       `json:"name"`
	Version      string       `json:"version"`
	Binary       string       `json:"binary"`
	SHA256       string       `json:"sha256"`
	Enabled      bool         `json:"enabled"`
	Capabilities []Capability `json:"capabilities"`
}

func (m Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("collector name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("collector version is required")
	}
	if m.Binary == "" {
		return fmt.Errorf("collector binary path is required")
	}
	if !sha256Pattern.MatchString(m.SHA256) {
		return fmt.Errorf("collector sha256 must be lowercase 64-char hex")
	}
	if len(m.Capabilities) == 0 {
		return fmt.Errorf("collector capabilities are required")
	}
	seen := map[Capability]struct{}{}
	for _, capability := range m.Capabilities {
		if err := capability.Validate(); err != nil {
			return err
		}
		if _, ok := seen[capability]; ok {
			return fmt.Errorf("duplicate capability: %s", capability)
		}
		seen[capability] = struct{}{}
	}
	return nil
}

func (c Capability) Validate() error {
	switch c {
	case CapabilitySamples, CapabilityStatus:
		return nil
	default:
		return fmt.Errorf("unknown capability: %s", c)
	}
}

func (m Manifest) HasCapability(capability Capability) bool {
	for _, c := range m.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}

type Metadata struct {
	Name         string
	Version      string
	Capabilities []Capability
}

const (
	StateOperational = "operational"
	StateDegraded    = "degraded"
	StateOffline     = "offline"
)

// Status is a collector's self-reported heartbeat.
type Status struct {
	State        string
	Detail       string
	LastSampleAt time.Time
}

// Sample is one telemetry reading as delivered by a collector. Validation
// happens on ingest; this type only carries the payload across the host
// boundary.
type Sample struct {
	Timestamp         time.Time
	FocusScore        float64
	PostureScore      float64
	PhoneUsageSeconds float64
	NoiseLevel        float64
	Recommendations   []string
	Cycle             int
	AgentStatus       string
}
