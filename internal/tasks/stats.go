package tasks

import (
	"github.com/seedmix/seedmix/internal/models"
)

// ResolutionStats summarizes a resolution run for reporting.
type ResolutionStats struct {
	Total             int            `json:"total"`
	Attempted         int            `json:"attempted"`
	SuccessRate       float64        `json:"success_rate"`
	HighConfidence    int            `json:"high_confidence"`
	MediumConfidence  int            `json:"medium_confidence"`
	LowConfidence     int            `json:"low_confidence"`
	AverageConfidence float64        `json:"average_confidence"`
	Methods           map[string]int `json:"methods"`
	Providers         map[string]int `json:"providers"`
}

// GetResolutionStats aggregates confidence bands, resolution methods, and
// source providers over the resolved set. attempted is the number of
// seeds the caller originally submitted; passing 0 treats every resolved
// seed as attempted.
func GetResolutionStats(resolved []models.ResolvedSeedTrack, attempted int) ResolutionStats {
	stats := ResolutionStats{
		Total:     len(resolved),
		Attempted: attempted,
		Methods:   map[string]int{},
		Providers: map[string]int{},
	}
	if stats.Attempted < stats.Total {
		stats.Attempted = stats.Total
	}
	if len(resolved) == 0 {
		return stats
	}

	confidenceSum := 0.0
	for _, r := range resolved {
		switch {
		case r.IsHighConfidence():
			stats.HighConfidence++
		case r.IsMediumConfidence():
			stats.MediumConfidence++
		case r.IsLowConfidence():
			stats.LowConfidence++
		}

		stats.Methods[r.ResolutionMethod]++
		stats.Providers[r.ResolvedTrack.Provider]++
		confidenceSum += r.ConfidenceScore
	}

	stats.AverageConfidence = confidenceSum / float64(stats.Total)
	stats.SuccessRate = float64(stats.Total) / float64(stats.Attempted)
	return stats
}
