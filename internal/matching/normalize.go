package matching

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)

	// Release annotations that carry no identity: "(Official Video)",
	// "(Live at ...)", "(Acoustic)", and so on.
	parentheticalRe = regexp.MustCompile(`\((?:official|audio|live|acoustic|explicit|clean)[^)]*\)|\(music[^)]*video\)|\(lyric[^)]*video\)`)

	remixParenRe  = regexp.MustCompile(`\([^)]*(?:remix|mix|version|edit)[^)]*\)`)
	remasterRe    = regexp.MustCompile(`\bremaster.*$`)
	remixWordRe   = regexp.MustCompile(`\bremix\b|\bmix\b`)
	featuringRe   = regexp.MustCompile(`\b(?:feat\.?|ft\.?|featuring|with|vs\.?|&)\s+`)
	trackPunctRe  = regexp.MustCompile(`[^\p{L}\p{N}\s']`)
	artistPunctRe = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	possessiveRe  = regexp.MustCompile(`'s\b`)
	articleRe     = regexp.MustCompile(`^(?:the|a|an)\s+`)
	ensembleRe    = regexp.MustCompile(`\s+(?:band|group|orchestra|ensemble)$`)
	ampersandRe   = regexp.MustCompile(`\s*&\s*`)
)

// contractions expanded to their letters-only form, longest suffix first so
// that n't wins over a bare 't.
var contractions = []struct{ from, to string }{
	{"n't", "nt"},
	{"'re", "re"},
	{"'ll", "ll"},
	{"'ve", "ve"},
	{"'d", "d"},
}

// Normalize applies the base canonicalization shared by track and artist
// names: lowercase, Unicode decomposition with combining marks stripped,
// and whitespace collapsed.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ToLower(text)

	decomposed := norm.NFD.String(text)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if !unicode.Is(unicode.Mn, r) {
			b.WriteRune(r)
		}
	}
	text = b.String()

	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// NormalizeTrack canonicalizes a track title. On top of [Normalize] it
// strips release annotations, remix/remaster markers, featuring suffixes,
// punctuation (keeping apostrophes), possessives and contractions, and a
// single leading article. An input that normalizes to nothing returns the
// empty string; callers treat that as "no signal", not an error.
func NormalizeTrack(trackName string) string {
	if trackName == "" {
		return ""
	}

	normalized := Normalize(trackName)
	normalized = parentheticalRe.ReplaceAllString(normalized, "")
	normalized = remixParenRe.ReplaceAllString(normalized, "")
	normalized = remasterRe.ReplaceAllString(normalized, "")
	normalized = remixWordRe.ReplaceAllString(normalized, "")

	// Everything after the first featuring marker is dropped.
	if loc := featuringRe.FindStringIndex(normalized); loc != nil {
		normalized = normalized[:loc[0]]
	}

	normalized = trackPunctRe.ReplaceAllString(normalized, " ")
	normalized = possessiveRe.ReplaceAllString(normalized, "")
	for _, c := range contractions {
		normalized = strings.ReplaceAll(normalized, c.from, c.to)
	}

	normalized = strings.TrimSpace(whitespaceRe.ReplaceAllString(normalized, " "))
	normalized = articleRe.ReplaceAllString(normalized, "")

	return strings.TrimSpace(whitespaceRe.ReplaceAllString(normalized, " "))
}

// NormalizeArtist canonicalizes an artist name. On top of [Normalize] it
// truncates at the first featuring marker to keep only the main artist,
// strips a leading article and a trailing ensemble noun, converts
// ampersands to "and", and removes remaining punctuation.
func NormalizeArtist(artistName string) string {
	if artistName == "" {
		return ""
	}

	normalized := Normalize(artistName)

	if loc := featuringRe.FindStringIndex(normalized); loc != nil {
		normalized = strings.TrimSpace(normalized[:loc[0]])
	}

	normalized = articleRe.ReplaceAllString(normalized, "")
	normalized = ensembleRe.ReplaceAllString(normalized, "")
	normalized = ampersandRe.ReplaceAllString(normalized, " and ")
	normalized = artistPunctRe.ReplaceAllString(normalized, " ")

	return strings.TrimSpace(whitespaceRe.ReplaceAllString(normalized, " "))
}

// NormalizedKey builds the deduplication/cache key for a track-artist pair.
func NormalizedKey(trackName, artistName string) string {
	return NormalizeTrack(trackName) + ":" + NormalizeArtist(artistName)
}
