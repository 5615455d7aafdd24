package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Seed and model validation errors
	ErrInvalidSeed       = fmt.Errorf("invalid seed track")
	ErrInvalidFeatures   = fmt.Errorf("audio features out of range")
	ErrInvalidConfidence = fmt.Errorf("confidence out of range")

	// Pipeline errors
	ErrNoProviders      = fmt.Errorf("no music providers configured")
	ErrNoSeeds          = fmt.Errorf("no seed tracks provided")
	ErrNoAudioFeatures  = fmt.Errorf("no audio features available")
	ErrNoCandidates     = fmt.Errorf("no candidate tracks found")
	ErrTrackNotFound    = fmt.Errorf("track not found")
	ErrCatalogUnavailable = fmt.Errorf("catalog unavailable")
)
