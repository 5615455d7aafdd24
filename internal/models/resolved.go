package models

import (
	"fmt"

	"github.com/seedmix/seedmix/internal/shared"
)

// Resolution method names, in waterfall order.
const (
	MethodExactMatch       = "exact_match"
	MethodNormalizedSearch = "normalized_search"
	MethodPartialSearch    = "partial_search"
	MethodFuzzySearch      = "fuzzy_search"
)

// ResolvedSeedTrack records a seed track mapped to a canonical catalog
// track. Confidence score and resolution method are permanent provenance,
// set once at resolution time and never recomputed.
type ResolvedSeedTrack struct {
	SeedTrack          SeedTrack `json:"seed_track"`
	ResolvedTrack      Track     `json:"resolved_track"`
	ConfidenceScore    float64   `json:"confidence_score"`
	ResolutionMethod   string    `json:"resolution_method"`
	AlternativeMatches []Track   `json:"alternative_matches,omitempty"`
}

// NewResolvedSeedTrack constructs a resolution record, validating the
// confidence score and capping alternatives at five.
func NewResolvedSeedTrack(seed SeedTrack, track Track, confidence float64, method string, alternatives []Track) (ResolvedSeedTrack, error) {
	if confidence < 0.0 || confidence > 1.0 {
		return ResolvedSeedTrack{}, fmt.Errorf("%w: confidence score must be between 0.0 and 1.0, got %v",
			shared.ErrInvalidConfidence, confidence)
	}
	if len(alternatives) > 5 {
		alternatives = alternatives[:5]
	}
	return ResolvedSeedTrack{
		SeedTrack:          seed,
		ResolvedTrack:      track,
		ConfidenceScore:    confidence,
		ResolutionMethod:   method,
		AlternativeMatches: alternatives,
	}, nil
}

// IsHighConfidence reports a confidence score of at least 0.8.
func (r ResolvedSeedTrack) IsHighConfidence() bool {
	return r.ConfidenceScore >= 0.8
}

// IsMediumConfidence reports a confidence score in [0.6, 0.8).
func (r ResolvedSeedTrack) IsMediumConfidence() bool {
	return r.ConfidenceScore >= 0.6 && r.ConfidenceScore < 0.8
}

// IsLowConfidence reports a confidence score in [0.4, 0.6).
func (r ResolvedSeedTrack) IsLowConfidence() bool {
	return r.ConfidenceScore >= 0.4 && r.ConfidenceScore < 0.6
}

// NeedsUserConfirmation reports whether the match fell below the seed's own
// confidence threshold (possible for fuzzy resolutions, which accept any
// surviving match).
func (r ResolvedSeedTrack) NeedsUserConfirmation() bool {
	return r.ConfidenceScore < r.SeedTrack.ConfidenceThreshold
}
