package out

import (
	"context"
	"time"

	"deskpulse/internal/modules/collector/domain"
)

type ManifestStore interface {
	Load(ctx context.Context) ([]domain.Manifest, error)
}

// Host launches a collector binary and speaks the plugin contract to it.
// Implementations verify the manifest checksum before every launch.
type Host interface {
	Probe(ctx context.Context, manifest domain.Manifest) error
	GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error)
	CollectSamples(ctx context.Context, manifest domain.Manifest, since time.Time, limit int) ([]domain.Sample, error)
	GetStatus(ctx context.Context, manifest domain.Manifest) (domain.Status, error)
}
