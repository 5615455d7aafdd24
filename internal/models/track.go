package models

import (
	"fmt"
	"strconv"
	"time"
)

// Track represents a canonical music track record from a provider catalog.
//
// A Track is owned by whichever component created it and is never mutated
// after creation, except to attach AudioFeatures once they are resolved.
type Track struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Artist        string         `json:"artist"`
	Artists       []string       `json:"artists,omitempty"`
	Album         string         `json:"album,omitempty"`
	DurationMS    int            `json:"duration_ms"`
	Popularity    *int           `json:"popularity,omitempty"`
	Explicit      bool           `json:"explicit,omitempty"`
	AudioFeatures *AudioFeatures `json:"audio_features,omitempty"`
	Genres        []string       `json:"genres,omitempty"`
	ReleaseDate   string         `json:"release_date,omitempty"` // "YYYY" or "YYYY-MM-DD"
	ISRC          string         `json:"isrc,omitempty"`
	Provider      string         `json:"provider"`
	ProviderID    string         `json:"provider_id,omitempty"`
}

// DisplayName returns the "Track - Artist" form for logging and output.
func (t Track) DisplayName() string {
	return fmt.Sprintf("%s - %s", t.Name, t.Artist)
}

// PrimaryArtist returns the first artist, falling back to the Artist field.
func (t Track) PrimaryArtist() string {
	if len(t.Artists) > 0 {
		return t.Artists[0]
	}
	return t.Artist
}

// ReleaseYear parses the leading year of ReleaseDate; 0 when missing or
// malformed.
func (t Track) ReleaseYear() int {
	if len(t.ReleaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(t.ReleaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}

// ScoredTrack pairs a track with the similarity score it was ranked by.
type ScoredTrack struct {
	Track Track
	Score float64
}

// Playlist is the generated output of the similarity engine.
type Playlist struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Tracks      []Track   `json:"tracks"`
	CreatedAt   time.Time `json:"created_at"`
}

// Duration returns the summed duration of all tracks.
func (p Playlist) Duration() time.Duration {
	total := 0
	for _, t := range p.Tracks {
		total += t.DurationMS
	}
	return time.Duration(total) * time.Millisecond
}
