package similarity

import (
	"fmt"

	"github.com/seedmix/seedmix/internal/models"
	"github.com/seedmix/seedmix/internal/shared"
)

// NumericFeatures are the profile dimensions with range-based scoring, in
// canonical order.
var NumericFeatures = []string{
	"tempo", "energy", "valence", "danceability",
	"acousticness", "instrumentalness", "liveness", "speechiness",
}

// Per-feature range tolerances. The expanded range grows by
// tolerance*(max-min) on each side, or by the raw tolerance when all seed
// values are identical. Tempo tolerances are scaled by 100 because BPM is
// on a different numeric scale than the 0-1 features.
var featureTolerances = map[string]float64{
	"tempo":            0.15,
	"energy":           0.2,
	"valence":          0.2,
	"danceability":     0.2,
	"acousticness":     0.25,
	"instrumentalness": 0.3,
	"liveness":         0.3,
	"speechiness":      0.3,
}

// FeatureRange is a closed interval of acceptable values for one feature.
type FeatureRange struct {
	Min float64
	Max float64
}

// Contains reports whether v lies inside the range.
func (r FeatureRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Distance returns how far v lies outside the range; 0 when inside.
func (r FeatureRange) Distance(v float64) float64 {
	switch {
	case v < r.Min:
		return r.Min - v
	case v > r.Max:
		return v - r.Max
	default:
		return 0
	}
}

// Profile is a read-only summary of a set of seed tracks: per-feature
// tolerance-expanded ranges, preferred categorical values, and the mean
// and population variance of each numeric feature.
type Profile struct {
	Ranges          map[string]FeatureRange
	PreferredKeys   []int
	PreferredModes  []int
	PreferredGenres []string
	Average         models.AudioFeatures
	Variance        map[string]float64
}

// BuildProfile derives a feature profile from tracks that already carry
// audio features. Callers must attach features before calling; an empty
// input or one with no features at all is an error.
func BuildProfile(tracks []models.Track) (*Profile, error) {
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: no tracks provided for profile", shared.ErrNoSeeds)
	}

	var features []models.AudioFeatures
	for _, track := range tracks {
		if track.AudioFeatures != nil {
			features = append(features, *track.AudioFeatures)
		}
	}
	if len(features) == 0 {
		return nil, fmt.Errorf("%w: no seed tracks carry audio features", shared.ErrNoAudioFeatures)
	}

	profile := &Profile{
		Ranges:   map[string]FeatureRange{},
		Variance: map[string]float64{},
	}

	for _, name := range NumericFeatures {
		values := featureValues(features, name)
		profile.Ranges[name] = expandedRange(name, values)
		mean, variance := meanAndVariance(values)
		if len(values) > 0 {
			setFeature(&profile.Average, name, mean)
		}
		profile.Variance[name] = variance
	}

	keySet := map[int]struct{}{}
	modeSet := map[int]struct{}{}
	for _, f := range features {
		if f.Key != nil {
			keySet[*f.Key] = struct{}{}
		}
		if f.Mode != nil {
			modeSet[*f.Mode] = struct{}{}
		}
	}
	for key := 0; key <= 11; key++ {
		if _, ok := keySet[key]; ok {
			profile.PreferredKeys = append(profile.PreferredKeys, key)
		}
	}
	for mode := 0; mode <= 1; mode++ {
		if _, ok := modeSet[mode]; ok {
			profile.PreferredModes = append(profile.PreferredModes, mode)
		}
	}

	genreSet := map[string]struct{}{}
	for _, track := range tracks {
		for _, genre := range track.Genres {
			if _, dup := genreSet[genre]; !dup {
				genreSet[genre] = struct{}{}
				profile.PreferredGenres = append(profile.PreferredGenres, genre)
			}
		}
	}

	return profile, nil
}

// expandedRange widens [min,max] of the observed values by the feature's
// tolerance on each side, clamped to the feature's legal bounds. With no
// observations the full 0-1 interval is returned, which scores any
// in-bounds candidate value as a perfect match.
func expandedRange(name string, values []float64) FeatureRange {
	if len(values) == 0 {
		return FeatureRange{Min: 0, Max: 1}
	}

	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}

	tolerance := featureTolerances[name]
	amount := tolerance
	if span := maxVal - minVal; span > 0 {
		amount = span * tolerance
	}

	if name == "tempo" {
		amount *= 100
		return FeatureRange{Min: maxf(50, minVal-amount), Max: minf(200, maxVal+amount)}
	}
	return FeatureRange{Min: maxf(0, minVal-amount), Max: minf(1, maxVal+amount)}
}

func meanAndVariance(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	if len(values) == 1 {
		return mean, 0
	}
	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	return mean, variance / float64(len(values))
}

func featureValues(features []models.AudioFeatures, name string) []float64 {
	var values []float64
	for _, f := range features {
		if v := featureValue(f, name); v != nil {
			values = append(values, *v)
		}
	}
	return values
}

func featureValue(f models.AudioFeatures, name string) *float64 {
	switch name {
	case "tempo":
		return f.Tempo
	case "energy":
		return f.Energy
	case "valence":
		return f.Valence
	case "danceability":
		return f.Danceability
	case "acousticness":
		return f.Acousticness
	case "instrumentalness":
		return f.Instrumentalness
	case "liveness":
		return f.Liveness
	case "speechiness":
		return f.Speechiness
	default:
		return nil
	}
}

func setFeature(f *models.AudioFeatures, name string, value float64) {
	switch name {
	case "tempo":
		f.Tempo = &value
	case "energy":
		f.Energy = &value
	case "valence":
		f.Valence = &value
	case "danceability":
		f.Danceability = &value
	case "acousticness":
		f.Acousticness = &value
	case "instrumentalness":
		f.Instrumentalness = &value
	case "liveness":
		f.Liveness = &value
	case "speechiness":
		f.Speechiness = &value
	}
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
