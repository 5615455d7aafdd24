package tasks

import (
	"math"
	"testing"

	"github.com/seedmix/seedmix/internal/models"
	th "github.com/seedmix/seedmix/internal/testing"
)

func statsResolution(t *testing.T, confidence float64, method, provider string) models.ResolvedSeedTrack {
	t.Helper()
	track := th.MakeTrack("t", "Song", "Artist", nil)
	track.Provider = provider
	resolved, err := models.NewResolvedSeedTrack(mustSeed(t, "Song", "Artist", 0.7), track, confidence, method, nil)
	if err != nil {
		t.Fatalf("NewResolvedSeedTrack failed: %v", err)
	}
	return resolved
}

func TestGetResolutionStats(t *testing.T) {
	t.Run("EmptyInput", func(t *testing.T) {
		stats := GetResolutionStats(nil, 0)
		if stats.Total != 0 || stats.Attempted != 0 || stats.SuccessRate != 0 {
			t.Errorf("Unexpected empty stats %+v", stats)
		}
	})

	t.Run("BandsMethodsAndProviders", func(t *testing.T) {
		resolved := []models.ResolvedSeedTrack{
			statsResolution(t, 0.95, models.MethodExactMatch, "catalog"),
			statsResolution(t, 0.85, models.MethodExactMatch, "catalog"),
			statsResolution(t, 0.70, models.MethodNormalizedSearch, "library"),
			statsResolution(t, 0.50, models.MethodFuzzySearch, "library"),
		}

		stats := GetResolutionStats(resolved, 5)
		if stats.Total != 4 || stats.Attempted != 5 {
			t.Errorf("Total/Attempted = %d/%d, want 4/5", stats.Total, stats.Attempted)
		}
		if math.Abs(stats.SuccessRate-0.8) > 1e-9 {
			t.Errorf("SuccessRate = %v, want 0.8", stats.SuccessRate)
		}
		if stats.HighConfidence != 2 || stats.MediumConfidence != 1 || stats.LowConfidence != 1 {
			t.Errorf("Bands = %d/%d/%d, want 2/1/1",
				stats.HighConfidence, stats.MediumConfidence, stats.LowConfidence)
		}
		if math.Abs(stats.AverageConfidence-0.75) > 1e-9 {
			t.Errorf("AverageConfidence = %v, want 0.75", stats.AverageConfidence)
		}
		if stats.Methods[models.MethodExactMatch] != 2 || stats.Methods[models.MethodNormalizedSearch] != 1 || stats.Methods[models.MethodFuzzySearch] != 1 {
			t.Errorf("Methods = %v", stats.Methods)
		}
		if stats.Providers["catalog"] != 2 || stats.Providers["library"] != 2 {
			t.Errorf("Providers = %v", stats.Providers)
		}
	})

	t.Run("AttemptedClampedUpToTotal", func(t *testing.T) {
		resolved := []models.ResolvedSeedTrack{
			statsResolution(t, 0.9, models.MethodExactMatch, "catalog"),
			statsResolution(t, 0.9, models.MethodExactMatch, "catalog"),
		}
		stats := GetResolutionStats(resolved, 0)
		if stats.Attempted != 2 {
			t.Errorf("Attempted = %d, want 2", stats.Attempted)
		}
		if stats.SuccessRate != 1.0 {
			t.Errorf("SuccessRate = %v, want 1.0", stats.SuccessRate)
		}
	})
}
