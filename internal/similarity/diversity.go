package similarity

import (
	"math"
	"sort"
	"strings"

	"github.com/seedmix/seedmix/internal/models"
)

// Settings controls the diversity passes applied to a ranked candidate
// pool. Passed by value into each selection; never shared mutable state.
type Settings struct {
	MaxPerArtist           int
	FeatureDiversityFactor float64
	EraDistribution        map[string]float64
	IncludeSeeds           bool
}

// DefaultSettings returns the standard diversity settings.
func DefaultSettings() Settings {
	return Settings{
		MaxPerArtist:           2,
		FeatureDiversityFactor: 0.3,
		EraDistribution: map[string]float64{
			"2020s": 0.3,
			"2010s": 0.3,
			"2000s": 0.2,
			"1990s": 0.1,
			"older": 0.1,
		},
	}
}

// TrackEra buckets a release date string by decade: "2020s", "2010s",
// "2000s", "1990s", "older", or "unknown" when the year cannot be parsed.
func TrackEra(track models.Track) string {
	year := track.ReleaseYear()
	switch {
	case year == 0:
		return "unknown"
	case year >= 2020:
		return "2020s"
	case year >= 2010:
		return "2010s"
	case year >= 2000:
		return "2000s"
	case year >= 1990:
		return "1990s"
	default:
		return "older"
	}
}

// Selector turns a similarity-ranked candidate pool into a final ordered
// playlist via three sequential passes: per-artist cap, greedy
// feature-diversity selection, and era-distribution quotas.
type Selector struct {
	calc *Calculator
}

// NewSelector creates a Selector using the given calculator for pairwise
// feature comparisons.
func NewSelector(calc *Calculator) *Selector {
	if calc == nil {
		calc = NewCalculator()
	}
	return &Selector{calc: calc}
}

// Select applies the three diversity passes to the ranked candidates and
// returns at most targetLength tracks. The greedy pass is O(n²) over the
// pool, which is fine for the candidate pool sizes in play (a few hundred).
func (s *Selector) Select(ranked []models.ScoredTrack, settings Settings, targetLength int) []models.Track {
	if len(ranked) == 0 || targetLength <= 0 {
		return nil
	}

	capped := s.applyArtistCap(ranked, settings.MaxPerArtist)
	diversified := s.applyFeatureDiversity(capped, settings.FeatureDiversityFactor)
	return s.applyEraQuotas(diversified, settings.EraDistribution, targetLength)
}

// applyArtistCap walks the ranked list in order and drops any track whose
// artist (case-insensitive) has already appeared maxPerArtist times.
func (s *Selector) applyArtistCap(ranked []models.ScoredTrack, maxPerArtist int) []models.ScoredTrack {
	if maxPerArtist <= 0 {
		return ranked
	}

	counts := map[string]int{}
	var kept []models.ScoredTrack
	for _, st := range ranked {
		artist := strings.ToLower(st.Track.Artist)
		if counts[artist] >= maxPerArtist {
			continue
		}
		counts[artist]++
		kept = append(kept, st)
	}
	return kept
}

// applyFeatureDiversity re-orders the pool greedily: the top-ranked track
// is always kept, then each round picks the remaining track maximizing
// base score minus factor times its average similarity to the selection so
// far.
func (s *Selector) applyFeatureDiversity(ranked []models.ScoredTrack, factor float64) []models.ScoredTrack {
	if factor <= 0 || len(ranked) == 0 {
		return ranked
	}

	remaining := make([]models.ScoredTrack, len(ranked))
	copy(remaining, ranked)

	selected := []models.ScoredTrack{remaining[0]}
	selectedTracks := []models.Track{remaining[0].Track}
	remaining = remaining[1:]

	for len(remaining) > 0 {
		bestIdx := -1
		bestScore := math.Inf(-1)

		for i, st := range remaining {
			penalty := factor * s.calc.AverageSimilarity(st.Track, selectedTracks)
			if adjusted := st.Score - penalty; adjusted > bestScore {
				bestScore = adjusted
				bestIdx = i
			}
		}

		pick := remaining[bestIdx]
		selected = append(selected, pick)
		selectedTracks = append(selectedTracks, pick.Track)
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return selected
}

// applyEraQuotas buckets the pool by era and takes up to
// round(targetLength*ratio) tracks per configured era in existing order,
// then fills any remaining slots from leftover tracks in order, skipping
// IDs already used.
func (s *Selector) applyEraQuotas(pool []models.ScoredTrack, distribution map[string]float64, targetLength int) []models.Track {
	if len(distribution) == 0 {
		out := make([]models.Track, 0, minInt(targetLength, len(pool)))
		for _, st := range pool {
			if len(out) == targetLength {
				break
			}
			out = append(out, st.Track)
		}
		return out
	}

	buckets := map[string][]models.Track{}
	for _, st := range pool {
		era := TrackEra(st.Track)
		buckets[era] = append(buckets[era], st.Track)
	}

	var selected []models.Track
	used := map[string]struct{}{}

	for _, era := range eraOrder(distribution) {
		quota := int(math.Round(float64(targetLength) * distribution[era]))
		for _, track := range buckets[era] {
			if quota == 0 || len(selected) == targetLength {
				break
			}
			selected = append(selected, track)
			used[track.ID] = struct{}{}
			quota--
		}
	}

	for _, st := range pool {
		if len(selected) == targetLength {
			break
		}
		if _, taken := used[st.Track.ID]; taken {
			continue
		}
		selected = append(selected, st.Track)
		used[st.Track.ID] = struct{}{}
	}

	return selected
}

// eraOrder yields a deterministic iteration order over the configured
// eras: highest ratio first, ties broken by era name descending so that
// newer decades lead.
func eraOrder(distribution map[string]float64) []string {
	eras := make([]string, 0, len(distribution))
	for era := range distribution {
		eras = append(eras, era)
	}
	sort.Slice(eras, func(i, j int) bool {
		if distribution[eras[i]] != distribution[eras[j]] {
			return distribution[eras[i]] > distribution[eras[j]]
		}
		return eras[i] > eras[j]
	})
	return eras
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
