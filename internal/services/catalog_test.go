package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/seedmix/seedmix/internal/shared"
)

const catalogJSON = `[
	{
		"id": "q1",
		"name": "Bohemian Rhapsody",
		"artist": "Queen",
		"album": "A Night at the Opera",
		"duration_ms": 354000,
		"genres": ["rock", "classic rock"],
		"release_date": "1975-10-31",
		"audio_features": {"energy": 0.75, "valence": 0.5, "tempo": 144}
	},
	{
		"id": "q2",
		"name": "Somebody to Love",
		"artist": "Queen",
		"duration_ms": 296000,
		"genres": ["rock"],
		"release_date": "1976"
	},
	{
		"id": "m1",
		"name": "Enter Sandman",
		"artist": "Metallica",
		"duration_ms": 331000,
		"genres": ["metal"],
		"release_date": "1991",
		"provider": "other"
	}
]`

func TestNewCatalogProvider(t *testing.T) {
	t.Run("LoadsFromFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.json")
		if err := os.WriteFile(path, []byte(catalogJSON), 0o644); err != nil {
			t.Fatalf("Writing fixture failed: %v", err)
		}

		provider, err := NewCatalogProvider("catalog", path)
		if err != nil {
			t.Fatalf("NewCatalogProvider failed: %v", err)
		}
		if provider.Name() != "catalog" {
			t.Errorf("Name = %q, want 'catalog'", provider.Name())
		}
		if provider.Len() != 3 {
			t.Errorf("Len = %d, want 3", provider.Len())
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := NewCatalogProvider("catalog", "/does/not/exist.json")
		if !errors.Is(err, shared.ErrCatalogUnavailable) {
			t.Errorf("Expected ErrCatalogUnavailable, got %v", err)
		}
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		if _, err := NewCatalogProviderFromJSON("catalog", []byte("{not json")); err == nil {
			t.Error("Expected parse error")
		}
	})

	t.Run("InvalidFeaturesRejected", func(t *testing.T) {
		bad := `[{"id": "x", "name": "T", "artist": "A", "audio_features": {"energy": 3.0}}]`
		_, err := NewCatalogProviderFromJSON("catalog", []byte(bad))
		if !errors.Is(err, shared.ErrInvalidFeatures) {
			t.Errorf("Expected ErrInvalidFeatures, got %v", err)
		}
	})

	t.Run("ProviderFieldFilledWhenMissing", func(t *testing.T) {
		provider, err := NewCatalogProviderFromJSON("catalog", []byte(catalogJSON))
		if err != nil {
			t.Fatalf("NewCatalogProviderFromJSON failed: %v", err)
		}

		results, err := provider.SearchTracks(context.Background(), "Bohemian Rhapsody", 5)
		if err != nil {
			t.Fatalf("SearchTracks failed: %v", err)
		}
		if len(results) == 0 {
			t.Fatal("No results")
		}
		if results[0].Provider != "catalog" {
			t.Errorf("Provider = %q, want 'catalog'", results[0].Provider)
		}
	})
}

func TestCatalogSearchTracks(t *testing.T) {
	provider, err := NewCatalogProviderFromJSON("catalog", []byte(catalogJSON))
	if err != nil {
		t.Fatalf("NewCatalogProviderFromJSON failed: %v", err)
	}
	ctx := context.Background()

	t.Run("BestMatchFirst", func(t *testing.T) {
		results, err := provider.SearchTracks(ctx, "Bohemian Rhapsody Queen", 10)
		if err != nil {
			t.Fatalf("SearchTracks failed: %v", err)
		}
		if len(results) == 0 || results[0].ID != "q1" {
			t.Errorf("Expected q1 first, got %v", results)
		}
	})

	t.Run("GenreQualifierQuery", func(t *testing.T) {
		results, err := provider.SearchTracks(ctx, "genre:metal", 10)
		if err != nil {
			t.Fatalf("SearchTracks failed: %v", err)
		}
		if len(results) != 1 || results[0].ID != "m1" {
			t.Errorf("Expected only m1, got %v", results)
		}
	})

	t.Run("LimitApplied", func(t *testing.T) {
		results, err := provider.SearchTracks(ctx, "queen", 1)
		if err != nil {
			t.Fatalf("SearchTracks failed: %v", err)
		}
		if len(results) != 1 {
			t.Errorf("Expected 1 result, got %d", len(results))
		}
	})

	t.Run("NoOverlapReturnsNothing", func(t *testing.T) {
		results, err := provider.SearchTracks(ctx, "zzzzz", 10)
		if err != nil {
			t.Fatalf("SearchTracks failed: %v", err)
		}
		if len(results) != 0 {
			t.Errorf("Expected no results, got %v", results)
		}
	})

	t.Run("CancelledContext", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := provider.SearchTracks(cancelled, "queen", 10); err == nil {
			t.Error("Expected context error")
		}
	})
}

func TestCatalogAudioFeatures(t *testing.T) {
	provider, err := NewCatalogProviderFromJSON("catalog", []byte(catalogJSON))
	if err != nil {
		t.Fatalf("NewCatalogProviderFromJSON failed: %v", err)
	}
	ctx := context.Background()

	t.Run("EmbeddedFeatures", func(t *testing.T) {
		features, err := provider.AudioFeatures(ctx, "q1")
		if err != nil {
			t.Fatalf("AudioFeatures failed: %v", err)
		}
		if features == nil || features.Energy == nil || *features.Energy != 0.75 {
			t.Errorf("Unexpected features %+v", features)
		}
	})

	t.Run("TrackWithoutFeatures", func(t *testing.T) {
		features, err := provider.AudioFeatures(ctx, "q2")
		if err != nil {
			t.Fatalf("AudioFeatures failed: %v", err)
		}
		if features != nil {
			t.Errorf("Expected nil features, got %+v", features)
		}
	})

	t.Run("UnknownTrackID", func(t *testing.T) {
		features, err := provider.AudioFeatures(ctx, "nope")
		if err != nil {
			t.Fatalf("AudioFeatures failed: %v", err)
		}
		if features != nil {
			t.Errorf("Expected nil features, got %+v", features)
		}
	})
}
