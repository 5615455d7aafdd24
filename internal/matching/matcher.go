package matching

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/seedmix/seedmix/internal/models"
)

// Per-metric weights for combining the four scorers into one side score.
const (
	editWeight     = 0.4
	sequenceWeight = 0.3
	tokenWeight    = 0.2
	phoneticWeight = 0.1
)

// Track similarity dominates artist similarity in the overall score.
const (
	trackSideWeight  = 0.6
	artistSideWeight = 0.4
)

var (
	featureSplitRe  = regexp.MustCompile(`\s*(?:,|&|\band\b)\s*`)
	featureMarkerRe = regexp.MustCompile(`(?i)\b(?:feat\.?|ft\.?|featuring|with|vs\.?|&)\s+`)
)

// MatchResult is the outcome of a single track-pair comparison. It is
// ephemeral; one is produced per comparison and discarded after ranking.
type MatchResult struct {
	SimilarityScore  float64
	NormalizedTrack  string
	NormalizedArtist string
	MatchDetails     map[string]float64
}

// TrackMatcher scores track/artist string pairs and generates search query
// variations. Safe for concurrent use; its only state is the immutable
// alias table.
type TrackMatcher struct {
	aliases *AliasTable
}

// NewTrackMatcher creates a matcher with the given alias table, which
// defaults to [DefaultAliasTable] when nil.
func NewTrackMatcher(aliases *AliasTable) *TrackMatcher {
	if aliases == nil {
		aliases = DefaultAliasTable()
	}
	return &TrackMatcher{aliases: aliases}
}

// CalculateSimilarity computes the combined similarity between a seed
// track/artist pair and a candidate pair. Both sides are normalized, scored
// with the four metrics, combined per side, and then mixed 60/40 in favor
// of the track title. An alias-group hit adds [AliasBonus] to the artist
// side. The overall score is clamped to [0,1].
func (m *TrackMatcher) CalculateSimilarity(seedTrack, seedArtist, candTrack, candArtist string) MatchResult {
	normSeedTrack := NormalizeTrack(seedTrack)
	normSeedArtist := NormalizeArtist(seedArtist)
	normCandTrack := NormalizeTrack(candTrack)
	normCandArtist := NormalizeArtist(candArtist)

	trackEdit := EditSimilarity(normSeedTrack, normCandTrack)
	trackSequence := SequenceSimilarity(normSeedTrack, normCandTrack)
	trackToken := TokenSimilarity(normSeedTrack, normCandTrack)
	trackPhonetic := PhoneticSimilarity(normSeedTrack, normCandTrack)

	artistEdit := EditSimilarity(normSeedArtist, normCandArtist)
	artistSequence := SequenceSimilarity(normSeedArtist, normCandArtist)
	artistToken := TokenSimilarity(normSeedArtist, normCandArtist)
	artistPhonetic := PhoneticSimilarity(normSeedArtist, normCandArtist)

	aliasBonus := 0.0
	if m.aliases.SameGroup(normSeedArtist, normCandArtist) {
		aliasBonus = AliasBonus
	}

	trackSimilarity := trackEdit*editWeight + trackSequence*sequenceWeight +
		trackToken*tokenWeight + trackPhonetic*phoneticWeight
	artistSimilarity := artistEdit*editWeight + artistSequence*sequenceWeight +
		artistToken*tokenWeight + artistPhonetic*phoneticWeight + aliasBonus

	overall := trackSimilarity*trackSideWeight + artistSimilarity*artistSideWeight
	if overall > 1.0 {
		overall = 1.0
	}
	if overall < 0.0 {
		overall = 0.0
	}

	return MatchResult{
		SimilarityScore:  overall,
		NormalizedTrack:  normCandTrack,
		NormalizedArtist: normCandArtist,
		MatchDetails: map[string]float64{
			"track_edit":        trackEdit,
			"track_sequence":    trackSequence,
			"track_token":       trackToken,
			"track_phonetic":    trackPhonetic,
			"track_similarity":  trackSimilarity,
			"artist_edit":       artistEdit,
			"artist_sequence":   artistSequence,
			"artist_token":      artistToken,
			"artist_phonetic":   artistPhonetic,
			"artist_alias":      aliasBonus,
			"artist_similarity": artistSimilarity,
		},
	}
}

// GenerateSearchVariations produces search query variations for the
// resolver's partial-match stage, in priority order, de-duplicated while
// preserving order: raw concatenation, normalized concatenation, each
// component alone (raw then normalized), first-2/first-3-word truncations
// of long titles with the artist, and the featuring-stripped main artist
// with the title.
func (m *TrackMatcher) GenerateSearchVariations(trackName, artistName string) []string {
	var variations []string

	variations = append(variations, fmt.Sprintf("%s %s", trackName, artistName))

	normTrack := NormalizeTrack(trackName)
	normArtist := NormalizeArtist(artistName)
	if normTrack != "" && normArtist != "" {
		variations = append(variations, fmt.Sprintf("%s %s", normTrack, normArtist))
	}

	if trackName != "" {
		variations = append(variations, trackName)
	}
	if artistName != "" {
		variations = append(variations, artistName)
	}
	if normTrack != "" {
		variations = append(variations, normTrack)
	}
	if normArtist != "" {
		variations = append(variations, normArtist)
	}

	words := strings.Fields(trackName)
	if len(words) > 2 {
		variations = append(variations, fmt.Sprintf("%s %s", strings.Join(words[:2], " "), artistName))
		variations = append(variations, fmt.Sprintf("%s %s", strings.Join(words[:3], " "), artistName))
	}

	mainArtist, _ := ExtractFeaturedArtists(artistName)
	if mainArtist != artistName {
		variations = append(variations, fmt.Sprintf("%s %s", trackName, mainArtist))
	}

	seen := map[string]struct{}{}
	unique := variations[:0]
	for _, v := range variations {
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		unique = append(unique, v)
	}

	return unique
}

// ExtractFeaturedArtists splits an artist string into the main artist and
// any featured artists named after a featuring marker.
func ExtractFeaturedArtists(text string) (string, []string) {
	loc := featureMarkerRe.FindStringIndex(text)
	if loc == nil {
		return text, nil
	}

	main := strings.TrimSpace(text[:loc[0]])
	rest := strings.TrimSpace(text[loc[1]:])

	var featured []string
	for _, part := range featureSplitRe.Split(rest, -1) {
		if part = strings.TrimSpace(part); part != "" {
			featured = append(featured, part)
		}
	}

	return main, featured
}

// FilterBySimilarity scores every candidate against the target pair and
// returns those at or above the threshold, sorted by score descending with
// ties kept in encounter order.
func (m *TrackMatcher) FilterBySimilarity(candidates []models.Track, targetTrack, targetArtist string, minSimilarity float64) []models.ScoredTrack {
	var results []models.ScoredTrack

	for _, candidate := range candidates {
		match := m.CalculateSimilarity(targetTrack, targetArtist, candidate.Name, candidate.PrimaryArtist())
		if match.SimilarityScore >= minSimilarity {
			results = append(results, models.ScoredTrack{Track: candidate, Score: match.SimilarityScore})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results
}
