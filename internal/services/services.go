package services

import (
	"context"

	"github.com/seedmix/seedmix/internal/models"
)

// Provider is the interface each music catalog backend implements.
// Implementations must be safe for concurrent use; resolution and
// similarity search fan out across providers from multiple goroutines.
type Provider interface {
	// SearchTracks returns up to limit tracks matching the free-text query.
	// An empty result with a nil error means the catalog has no matches.
	SearchTracks(ctx context.Context, query string, limit int) ([]models.Track, error)

	// AudioFeatures returns the analysis features for a track, or nil with
	// a nil error when the provider has no features for it.
	AudioFeatures(ctx context.Context, trackID string) (*models.AudioFeatures, error)

	// Name returns the provider identifier used for weighting and logging
	// (e.g. "spotify", "apple_music").
	Name() string
}
