package similarity

import (
	"math"
	"strings"

	"github.com/seedmix/seedmix/internal/models"
)

// circleOfFifths orders the twelve keys so that harmonically adjacent keys
// sit next to each other.
var circleOfFifths = [12]int{0, 7, 2, 9, 4, 11, 6, 1, 8, 3, 10, 5}

// maxDistance for out-of-range scoring: 100 BPM for tempo, 1.0 for the
// 0-1 scale features.
const tempoMaxDistance = 100.0

// DefaultWeights returns the standard per-feature weights for profile
// similarity scoring.
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		"tempo":            0.15,
		"energy":           0.20,
		"valence":          0.15,
		"danceability":     0.15,
		"acousticness":     0.10,
		"instrumentalness": 0.05,
		"liveness":         0.05,
		"speechiness":      0.05,
		"key":              0.05,
		"mode":             0.05,
	}
}

// Calculator scores candidate tracks against a feature profile and
// computes pairwise feature distances. Stateless and safe for concurrent
// use.
type Calculator struct{}

// NewCalculator creates a Calculator.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// FeatureSimilarity returns a [0,1] score for how well the candidate's
// features fit the profile. Each numeric feature present on the candidate
// scores 1.0 inside the profile's expanded range, otherwise
// max(0, 1 - distance/maxDistance). Key similarity uses circle-of-fifths
// adjacency against the preferred-key set; mode membership is binary; both
// are neutral 0.5 when the preferred set is empty. The result is the
// weighted mean over the features that produced a score, so missing
// features drop out entirely. A nil weights map uses [DefaultWeights].
func (c *Calculator) FeatureSimilarity(features models.AudioFeatures, profile *Profile, weights map[string]float64) float64 {
	if weights == nil {
		weights = DefaultWeights()
	}

	scores := map[string]float64{}

	for _, name := range NumericFeatures {
		value := featureValue(features, name)
		if value == nil {
			continue
		}

		r := profile.Ranges[name]
		if r.Contains(*value) {
			scores[name] = 1.0
			continue
		}

		maxDistance := 1.0
		if name == "tempo" {
			maxDistance = tempoMaxDistance
		}
		scores[name] = maxf(0, 1.0-r.Distance(*value)/maxDistance)
	}

	if features.Key != nil {
		scores["key"] = c.keySimilarity(*features.Key, profile.PreferredKeys)
	}
	if features.Mode != nil {
		scores["mode"] = c.modeSimilarity(*features.Mode, profile.PreferredModes)
	}

	weightedSum := 0.0
	totalWeight := 0.0
	for feature, weight := range weights {
		if score, ok := scores[feature]; ok {
			weightedSum += score * weight
			totalWeight += weight
		}
	}

	if totalWeight == 0 {
		return 0
	}
	return weightedSum / totalWeight
}

// keySimilarity maps circle-of-fifths distance (0-6) to similarity
// (1.0-0.0), taking the best match across the preferred set. An empty set
// yields a neutral 0.5.
func (c *Calculator) keySimilarity(key int, preferred []int) float64 {
	if len(preferred) == 0 {
		return 0.5
	}

	best := 0.0
	for _, p := range preferred {
		distance := circleDistance(key, p)
		if s := 1.0 - float64(distance)/6.0; s > best {
			best = s
		}
	}
	return best
}

func circleDistance(key1, key2 int) int {
	pos1, pos2 := -1, -1
	for i, k := range circleOfFifths {
		if k == key1 {
			pos1 = i
		}
		if k == key2 {
			pos2 = i
		}
	}
	if pos1 < 0 || pos2 < 0 {
		// Key outside 0-11; exact match or nothing.
		if key1 == key2 {
			return 0
		}
		return 6
	}

	d := pos1 - pos2
	if d < 0 {
		d = -d
	}
	if d > 6 {
		d = 12 - d
	}
	return d
}

// modeSimilarity is 1.0 when the candidate's mode appears in the
// preferred set, 0.0 when it doesn't, and neutral 0.5 for an empty set.
func (c *Calculator) modeSimilarity(mode int, preferred []int) float64 {
	if len(preferred) == 0 {
		return 0.5
	}
	for _, p := range preferred {
		if p == mode {
			return 1.0
		}
	}
	return 0.0
}

// EuclideanDistance computes the weighted Euclidean distance between two
// feature sets over the numeric features present on both sides, with tempo
// linearly rescaled to [0,1]. Returns 1.0 when no feature overlaps.
func (c *Calculator) EuclideanDistance(a, b models.AudioFeatures, weights map[string]float64) float64 {
	if weights == nil {
		weights = DefaultWeights()
	}

	distanceSquared := 0.0
	totalWeight := 0.0

	for _, name := range NumericFeatures {
		weight, ok := weights[name]
		if !ok {
			continue
		}

		av := featureValue(a, name)
		bv := featureValue(b, name)
		if av == nil || bv == nil {
			continue
		}

		v1, v2 := *av, *bv
		if name == "tempo" {
			v1 = (v1 - 50.0) / 150.0
			v2 = (v2 - 50.0) / 150.0
		}

		distanceSquared += weight * (v1 - v2) * (v1 - v2)
		totalWeight += weight
	}

	if totalWeight == 0 {
		return 1.0
	}
	return math.Sqrt(distanceSquared / totalWeight)
}

// PairwiseSimilarity converts Euclidean distance to a [0,1] similarity.
func (c *Calculator) PairwiseSimilarity(a, b models.AudioFeatures) float64 {
	distance := c.EuclideanDistance(a, b, nil)
	return 1.0 - minf(1.0, distance)
}

// AverageSimilarity returns the mean pairwise similarity between a track
// and the tracks already selected; 0 when either side lacks features.
func (c *Calculator) AverageSimilarity(track models.Track, selected []models.Track) float64 {
	if len(selected) == 0 || track.AudioFeatures == nil {
		return 0
	}

	sum := 0.0
	count := 0
	for _, s := range selected {
		if s.AudioFeatures == nil {
			continue
		}
		sum += c.PairwiseSimilarity(*track.AudioFeatures, *s.AudioFeatures)
		count++
	}

	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// GenreSimilarity scores genre overlap: 1.0 for an exact (case-insensitive)
// match, 0.7 for a substring match, and a neutral 0.5 when either side has
// no genre data.
func (c *Calculator) GenreSimilarity(trackGenres, targetGenres []string) float64 {
	if len(trackGenres) == 0 || len(targetGenres) == 0 {
		return 0.5
	}

	best := 0.0
	for _, tg := range trackGenres {
		for _, pg := range targetGenres {
			a, b := strings.ToLower(tg), strings.ToLower(pg)
			switch {
			case a == b:
				best = maxf(best, 1.0)
			case strings.Contains(a, b) || strings.Contains(b, a):
				best = maxf(best, 0.7)
			}
		}
	}
	return best
}
