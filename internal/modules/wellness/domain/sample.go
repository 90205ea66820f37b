package domain

import (
	"fmt"
	"time"

	apperrors "deskpulse/internal/platform/errors"
)

// Sample is one telemetry reading from a collector. Scores are normalized to
// [0,1]; phone usage is absolute seconds within the sampling interval.
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

func (s Sample) Validate() error {
	if s.Timestamp.IsZero() {
		return fmt.Errorf("%w: sample timestamp is required", apperrors.ErrInvalidInput)
	}
	if s.FocusScore < 0 || s.FocusScore > 1 {
		return fmt.Errorf("%w: focus score %v outside [0,1]", apperrors.ErrInvalidInput, s.FocusScore)
	}
	if s.PostureScore < 0 || s.PostureScore > 1 {
		return fmt.Errorf("%w: posture score %v outside [0,1]", apperrors.ErrInvalidInput, s.PostureScore)
	}
	if s.NoiseLevel < 0 || s.NoiseLevel > 1 {
		return fmt.Errorf("%w: noise level %v outside [0,1]", apperrors.ErrInvalidInput, s.NoiseLevel)
	}
	if s.PhoneUsageSeconds < 0 {
		return fmt.Errorf("%w: phone usage %v must be non-negative", apperrors.ErrInvalidInput, s.PhoneUsageSeconds)
	}
	return nil
}
