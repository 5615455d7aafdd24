package models

import (
	"fmt"

	"github.com/seedmix/seedmix/internal/shared"
)

// AudioFeatures holds the standardized audio characteristics of a track.
// Every field is independently optional; a nil pointer means the provider
// did not report that dimension.
//
// Out-of-range values fail [AudioFeatures.Validate] rather than being
// clamped: letting a bad value through would corrupt every downstream
// similarity computation, so ingestion points reject it outright.
type AudioFeatures struct {
	Energy           *float64 `json:"energy,omitempty"`           // Musical intensity (0.0-1.0)
	Valence          *float64 `json:"valence,omitempty"`          // Musical positivity (0.0-1.0)
	Danceability     *float64 `json:"danceability,omitempty"`     // Rhythm and beat strength (0.0-1.0)
	Acousticness     *float64 `json:"acousticness,omitempty"`     // Acoustic vs electronic (0.0-1.0)
	Instrumentalness *float64 `json:"instrumentalness,omitempty"` // Vocal vs instrumental (0.0-1.0)
	Tempo            *float64 `json:"tempo,omitempty"`            // Beats per minute (50-200)
	Loudness         *float64 `json:"loudness,omitempty"`         // Overall loudness in dB (-60 to 0)
	Speechiness      *float64 `json:"speechiness,omitempty"`      // Speech-like qualities (0.0-1.0)
	Liveness         *float64 `json:"liveness,omitempty"`         // Live performance detection (0.0-1.0)
	Key              *int     `json:"key,omitempty"`              // Musical key (0-11)
	Mode             *int     `json:"mode,omitempty"`             // Major (1) or minor (0)
	TimeSignature    *int     `json:"time_signature,omitempty"`   // Time signature (3-7)
}

// Float returns a pointer to v, for building AudioFeatures literals.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v, for building AudioFeatures literals.
func Int(v int) *int { return &v }

type scalarBound struct {
	name     string
	value    *float64
	min, max float64
}

// Validate checks every present value against its bound.
func (f AudioFeatures) Validate() error {
	scalars := []scalarBound{
		{"energy", f.Energy, 0, 1},
		{"valence", f.Valence, 0, 1},
		{"danceability", f.Danceability, 0, 1},
		{"acousticness", f.Acousticness, 0, 1},
		{"instrumentalness", f.Instrumentalness, 0, 1},
		{"speechiness", f.Speechiness, 0, 1},
		{"liveness", f.Liveness, 0, 1},
		{"tempo", f.Tempo, 50, 200},
		{"loudness", f.Loudness, -60, 0},
	}
	for _, s := range scalars {
		if s.value != nil && (*s.value < s.min || *s.value > s.max) {
			return fmt.Errorf("%w: %s must be between %v and %v, got %v",
				shared.ErrInvalidFeatures, s.name, s.min, s.max, *s.value)
		}
	}

	if f.Key != nil && (*f.Key < 0 || *f.Key > 11) {
		return fmt.Errorf("%w: key must be between 0 and 11, got %d", shared.ErrInvalidFeatures, *f.Key)
	}
	if f.Mode != nil && *f.Mode != 0 && *f.Mode != 1 {
		return fmt.Errorf("%w: mode must be 0 or 1, got %d", shared.ErrInvalidFeatures, *f.Mode)
	}
	if f.TimeSignature != nil && (*f.TimeSignature < 3 || *f.TimeSignature > 7) {
		return fmt.Errorf("%w: time signature must be between 3 and 7, got %d", shared.ErrInvalidFeatures, *f.TimeSignature)
	}

	return nil
}

// ToMap converts the present feature values to a map keyed by feature name.
func (f AudioFeatures) ToMap() map[string]any {
	out := map[string]any{}
	scalars := map[string]*float64{
		"energy":           f.Energy,
		"valence":          f.Valence,
		"danceability":     f.Danceability,
		"acousticness":     f.Acousticness,
		"instrumentalness": f.Instrumentalness,
		"tempo":            f.Tempo,
		"loudness":         f.Loudness,
		"speechiness":      f.Speechiness,
		"liveness":         f.Liveness,
	}
	for name, v := range scalars {
		if v != nil {
			out[name] = *v
		}
	}
	ints := map[string]*int{
		"key":            f.Key,
		"mode":           f.Mode,
		"time_signature": f.TimeSignature,
	}
	for name, v := range ints {
		if v != nil {
			out[name] = *v
		}
	}
	return out
}

// FeaturesFromMap rebuilds AudioFeatures from a [AudioFeatures.ToMap] style
// map and validates the result. Numeric values may be float64 or int.
func FeaturesFromMap(data map[string]any) (AudioFeatures, error) {
	var f AudioFeatures

	scalar := func(name string) *float64 {
		switch v := data[name].(type) {
		case float64:
			return &v
		case int:
			fv := float64(v)
			return &fv
		}
		return nil
	}
	integer := func(name string) *int {
		switch v := data[name].(type) {
		case int:
			return &v
		case float64:
			iv := int(v)
			return &iv
		}
		return nil
	}

	f.Energy = scalar("energy")
	f.Valence = scalar("valence")
	f.Danceability = scalar("danceability")
	f.Acousticness = scalar("acousticness")
	f.Instrumentalness = scalar("instrumentalness")
	f.Tempo = scalar("tempo")
	f.Loudness = scalar("loudness")
	f.Speechiness = scalar("speechiness")
	f.Liveness = scalar("liveness")
	f.Key = integer("key")
	f.Mode = integer("mode")
	f.TimeSignature = integer("time_signature")

	if err := f.Validate(); err != nil {
		return AudioFeatures{}, err
	}
	return f, nil
}
