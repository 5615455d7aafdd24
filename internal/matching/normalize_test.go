package matching

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"Lowercases", "HELLO World", "hello world"},
		{"StripsDiacritics", "Beyoncé", "beyonce"},
		{"CollapsesWhitespace", "  too   many	spaces ", "too many spaces"},
		{"Empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.input); got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeTrack(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"PlainTitle", "Bohemian Rhapsody", "bohemian rhapsody"},
		{"StripsOfficialVideo", "Song Name (Official Video)", "song name"},
		{"StripsLiveAnnotation", "Song Name (Live at Wembley)", "song name"},
		{"StripsRemixParen", "Song Name (Radio Edit)", "song name"},
		{"StripsRemaster", "Song Name - 2011 Remaster", "song name 2011"},
		{"StripsFeaturing", "Song Name feat. Other Artist", "song name"},
		{"StripsFt", "Song Name ft. Other", "song name"},
		{"StripsLeadingArticle", "The Song", "song"},
		{"KeepsInteriorArticle", "Song of the Year", "song of the year"},
		{"Possessive", "Satan's Waitin'", "satan waitin'"},
		{"Contraction", "Don't Stop Me Now", "dont stop me now"},
		{"Punctuation", "What's Up?!", "what up"},
		{"Empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeTrack(tc.input); got != tc.want {
				t.Errorf("NormalizeTrack(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}

	t.Run("Idempotent", func(t *testing.T) {
		inputs := []string{
			"The Song (Official Video) feat. Somebody",
			"Don't Stop Believin' (2022 Remaster)",
			"Beyoncé - Halo (Live)",
		}
		for _, input := range inputs {
			once := NormalizeTrack(input)
			twice := NormalizeTrack(once)
			if once != twice {
				t.Errorf("NormalizeTrack not idempotent for %q: %q then %q", input, once, twice)
			}
		}
	})
}

func TestNormalizeArtist(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"PlainArtist", "Queen", "queen"},
		{"StripsLeadingArticle", "The Beatles", "beatles"},
		{"StripsEnsembleNoun", "Dave Matthews Band", "dave matthews"},
		{"KeepsMainArtistOnly", "Eminem feat. Rihanna", "eminem"},
		{"AmpersandToAnd", "Simon & Garfunkel", "simon and garfunkel"},
		{"Diacritics", "Sigur Rós", "sigur ros"},
		{"Empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeArtist(tc.input); got != tc.want {
				t.Errorf("NormalizeArtist(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizedKey(t *testing.T) {
	t.Run("VariantsCollapse", func(t *testing.T) {
		key1 := NormalizedKey("Bohemian Rhapsody (Official Video)", "Queen")
		key2 := NormalizedKey("Bohemian Rhapsody", "queen")
		if key1 != key2 {
			t.Errorf("Expected equal keys, got %q and %q", key1, key2)
		}
	})

	t.Run("DistinctTracksStayDistinct", func(t *testing.T) {
		key1 := NormalizedKey("Bohemian Rhapsody", "Queen")
		key2 := NormalizedKey("Somebody to Love", "Queen")
		if key1 == key2 {
			t.Errorf("Distinct tracks collapsed to %q", key1)
		}
	})
}
