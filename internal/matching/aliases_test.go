package matching

import "testing"

func TestAliasTable(t *testing.T) {
	table := DefaultAliasTable()

	t.Run("SameGroup", func(t *testing.T) {
		cases := []struct {
			name     string
			artist1  string
			artist2  string
			expected bool
		}{
			{"CanonicalAndAlias", "Eminem", "Slim Shady", true},
			{"TwoAliasesOfSameGroup", "Slim Shady", "Marshall Mathers", true},
			{"DiacriticEntry", "Beyoncé", "Destiny's Child", true},
			{"HyphenatedCanonical", "Jay-Z", "Shawn Carter", true},
			{"LeadingArticleStripped", "The Beatles", "Fab Four", true},
			{"DifferentGroups", "Eminem", "Shawn Carter", false},
			{"UnknownArtist", "Queen", "Eminem", false},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				got := table.SameGroup(NormalizeArtist(tc.artist1), NormalizeArtist(tc.artist2))
				if got != tc.expected {
					t.Errorf("SameGroup(%q, %q) = %v, want %v", tc.artist1, tc.artist2, got, tc.expected)
				}
			})
		}
	})

	t.Run("BonusAppliesThroughMatcher", func(t *testing.T) {
		matcher := NewTrackMatcher(nil)

		related := matcher.CalculateSimilarity("Crazy in Love", "Beyoncé", "Crazy in Love", "Destiny's Child")
		unrelated := matcher.CalculateSimilarity("Crazy in Love", "Beyoncé", "Crazy in Love", "Shawn Carter")

		if related.SimilarityScore <= unrelated.SimilarityScore {
			t.Errorf("Aliased artist scored %v, non-aliased %v; expected the alias bonus to rank it higher",
				related.SimilarityScore, unrelated.SimilarityScore)
		}
	})
}
