package matching

import (
	"testing"

	"github.com/seedmix/seedmix/internal/models"
)

func TestCalculateSimilarity(t *testing.T) {
	matcher := NewTrackMatcher(nil)

	t.Run("IdenticalPairScoresNearOne", func(t *testing.T) {
		match := matcher.CalculateSimilarity("Bohemian Rhapsody", "Queen", "Bohemian Rhapsody", "Queen")
		if match.SimilarityScore < 0.99 {
			t.Errorf("Identical pair scored %v", match.SimilarityScore)
		}
	})

	t.Run("NormalizationVariantsScoreNearOne", func(t *testing.T) {
		match := matcher.CalculateSimilarity(
			"Bohemian Rhapsody", "Queen",
			"Bohemian Rhapsody (Official Video)", "queen")
		if match.SimilarityScore < 0.99 {
			t.Errorf("Normalized variant scored %v", match.SimilarityScore)
		}
		if match.NormalizedTrack != "bohemian rhapsody" {
			t.Errorf("Unexpected normalized track %q", match.NormalizedTrack)
		}
	})

	t.Run("UnrelatedPairScoresLow", func(t *testing.T) {
		match := matcher.CalculateSimilarity("Bohemian Rhapsody", "Queen", "Enter Sandman", "Metallica")
		if match.SimilarityScore > 0.5 {
			t.Errorf("Unrelated pair scored %v", match.SimilarityScore)
		}
	})

	t.Run("AliasBonusLiftsArtistScore", func(t *testing.T) {
		withAlias := matcher.CalculateSimilarity("Lose Yourself", "Eminem", "Lose Yourself", "Slim Shady")
		withoutAlias := matcher.CalculateSimilarity("Lose Yourself", "Eminem", "Lose Yourself", "Slim Sheddy")
		if withAlias.MatchDetails["artist_alias"] != AliasBonus {
			t.Errorf("Expected alias bonus %v, got %v", AliasBonus, withAlias.MatchDetails["artist_alias"])
		}
		if withAlias.SimilarityScore <= withoutAlias.SimilarityScore {
			t.Errorf("Alias pair %v should beat non-alias %v", withAlias.SimilarityScore, withoutAlias.SimilarityScore)
		}
	})

	t.Run("ScoreClampedToUnitRange", func(t *testing.T) {
		match := matcher.CalculateSimilarity("Halo", "Beyoncé", "Halo", "Beyonce")
		if match.SimilarityScore < 0.0 || match.SimilarityScore > 1.0 {
			t.Errorf("Score %v outside [0,1]", match.SimilarityScore)
		}
	})

	t.Run("TrackWeighsMoreThanArtist", func(t *testing.T) {
		sameTrack := matcher.CalculateSimilarity("Yesterday", "The Beatles", "Yesterday", "Oasis")
		sameArtist := matcher.CalculateSimilarity("Yesterday", "The Beatles", "Wonderwall", "The Beatles")
		if sameTrack.SimilarityScore <= sameArtist.SimilarityScore {
			t.Errorf("Matching title %v should beat matching artist %v",
				sameTrack.SimilarityScore, sameArtist.SimilarityScore)
		}
	})
}

func TestGenerateSearchVariations(t *testing.T) {
	matcher := NewTrackMatcher(nil)

	t.Run("RawConcatenationFirst", func(t *testing.T) {
		variations := matcher.GenerateSearchVariations("Bohemian Rhapsody", "Queen")
		if len(variations) == 0 {
			t.Fatal("No variations generated")
		}
		if variations[0] != "Bohemian Rhapsody Queen" {
			t.Errorf("Expected raw concatenation first, got %q", variations[0])
		}
	})

	t.Run("NoDuplicates", func(t *testing.T) {
		variations := matcher.GenerateSearchVariations("Help", "The Beatles")
		seen := map[string]bool{}
		for _, v := range variations {
			if seen[v] {
				t.Errorf("Duplicate variation %q", v)
			}
			seen[v] = true
		}
	})

	t.Run("NoEmptyVariations", func(t *testing.T) {
		variations := matcher.GenerateSearchVariations("Song", "")
		for _, v := range variations {
			if v == "" {
				t.Error("Empty variation emitted")
			}
		}
	})

	t.Run("LongTitleTruncations", func(t *testing.T) {
		variations := matcher.GenerateSearchVariations("The Rain Song Live Version", "Led Zeppelin")
		found2, found3 := false, false
		for _, v := range variations {
			if v == "The Rain Led Zeppelin" {
				found2 = true
			}
			if v == "The Rain Song Led Zeppelin" {
				found3 = true
			}
		}
		if !found2 || !found3 {
			t.Errorf("Missing word truncations in %v", variations)
		}
	})

	t.Run("FeaturedArtistStripped", func(t *testing.T) {
		variations := matcher.GenerateSearchVariations("Airplanes", "B.o.B feat. Hayley Williams")
		found := false
		for _, v := range variations {
			if v == "Airplanes B.o.B" {
				found = true
			}
		}
		if !found {
			t.Errorf("Missing main-artist variation in %v", variations)
		}
	})
}

func TestExtractFeaturedArtists(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		main     string
		featured []string
	}{
		{"NoFeature", "Queen", "Queen", nil},
		{"FeatDot", "Eminem feat. Rihanna", "Eminem", []string{"Rihanna"}},
		{"Ft", "B.o.B ft. Hayley Williams", "B.o.B", []string{"Hayley Williams"}},
		{"MultipleFeatured", "DJ Khaled featuring Drake, Rick Ross and Lil Wayne", "DJ Khaled", []string{"Drake", "Rick Ross", "Lil Wayne"}},
		{"With", "Artist with Friend", "Artist", []string{"Friend"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			main, featured := ExtractFeaturedArtists(tc.input)
			if main != tc.main {
				t.Errorf("Expected main %q, got %q", tc.main, main)
			}
			if len(featured) != len(tc.featured) {
				t.Fatalf("Expected featured %v, got %v", tc.featured, featured)
			}
			for i := range featured {
				if featured[i] != tc.featured[i] {
					t.Errorf("Expected featured[%d] %q, got %q", i, tc.featured[i], featured[i])
				}
			}
		})
	}
}

func TestFilterBySimilarity(t *testing.T) {
	matcher := NewTrackMatcher(nil)

	candidates := []models.Track{
		{ID: "1", Name: "Bohemian Rhapsody", Artist: "Queen"},
		{ID: "2", Name: "Bohemian Rhapsody (Live)", Artist: "Queen"},
		{ID: "3", Name: "Enter Sandman", Artist: "Metallica"},
	}

	t.Run("FiltersAndSortsDescending", func(t *testing.T) {
		results := matcher.FilterBySimilarity(candidates, "Bohemian Rhapsody", "Queen", 0.6)
		if len(results) != 2 {
			t.Fatalf("Expected 2 survivors, got %d", len(results))
		}
		if results[0].Score < results[1].Score {
			t.Errorf("Not sorted descending: %v then %v", results[0].Score, results[1].Score)
		}
		for _, r := range results {
			if r.Score < 0.6 {
				t.Errorf("Track %s below threshold with %v", r.Track.ID, r.Score)
			}
			if r.Track.ID == "3" {
				t.Error("Unrelated track survived the filter")
			}
		}
	})

	t.Run("EmptyCandidates", func(t *testing.T) {
		if results := matcher.FilterBySimilarity(nil, "Song", "Artist", 0.5); len(results) != 0 {
			t.Errorf("Expected no results, got %d", len(results))
		}
	})
}
