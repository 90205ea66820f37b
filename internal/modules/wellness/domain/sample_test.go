package domain_test

import (
	"errors"
	"testing"
	"time"

	"deskpulse/internal/modules/wellness/domain"
	apperrors "deskpulse/internal/platform/errors"
)

func TestSampleValidate(t *testing.T) {
	t.Parallel()

	valid := domain.Sample{
		Timestamp:         time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		FocusScore:        0.8,
		PostureScore:      0.6,
		PhoneUsageSeconds: 12.5,
		NoiseLevel:        0.2,
		Recommendations:   []string{"stretch"},
		Cycle:             7,
		AgentStatus:       "operational",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid sample rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*domain.Sample)
	}{
		{"zero timestamp", func(s *domain.Sample) { s.Timestamp = time.Time{} }},
		{"focus above one", func(s *domain.Sample) { s.FocusScore = 1.2 }},
		{"negative focus", func(s *domain.Sample) { s.FocusScore = -0.1 }},
		{"posture above one", func(s *domain.Sample) { s.PostureScore = 1.01 }},
		{"noise above one", func(s *domain.Sample) { s.NoiseLevel = 2 }},
		{"negative phone usage", func(s *domain.Sample) { s.PhoneUsageSeconds = -1 }},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			sample := valid
			tc.mutate(&sample)
			if err := sample.Validate(); !errors.Is(err, apperrors.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}
