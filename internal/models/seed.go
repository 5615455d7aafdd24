package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/seedmix/seedmix/internal/shared"
)

// DefaultConfidenceThreshold is the minimum confidence for auto-selecting a
// resolution when a seed does not carry its own threshold.
const DefaultConfidenceThreshold = 0.7

// SeedTrack represents user-provided track information used as a similarity
// anchor for playlist generation.
type SeedTrack struct {
	TrackName           string
	ArtistName          string
	AlbumName           string
	Year                int // 0 when unknown
	ConfidenceThreshold float64
}

// NewSeedTrack constructs a validated SeedTrack. Track and artist names are
// whitespace-collapsed and must be non-empty afterwards; the threshold must
// be in [0,1] and the year, when set, in [1900, current year+1].
func NewSeedTrack(trackName, artistName, albumName string, year int, threshold float64) (SeedTrack, error) {
	s := SeedTrack{
		TrackName:           collapseWhitespace(trackName),
		ArtistName:          collapseWhitespace(artistName),
		AlbumName:           collapseWhitespace(albumName),
		Year:                year,
		ConfidenceThreshold: threshold,
	}

	if s.TrackName == "" || s.ArtistName == "" {
		return SeedTrack{}, fmt.Errorf("%w: track and artist names cannot be empty", shared.ErrInvalidSeed)
	}
	if threshold < 0.0 || threshold > 1.0 {
		return SeedTrack{}, fmt.Errorf("%w: confidence threshold must be between 0.0 and 1.0, got %v", shared.ErrInvalidSeed, threshold)
	}
	if year != 0 {
		maxYear := time.Now().Year() + 1
		if year < 1900 || year > maxYear {
			return SeedTrack{}, fmt.Errorf("%w: year must be between 1900 and %d, got %d", shared.ErrInvalidSeed, maxYear, year)
		}
	}

	return s, nil
}

// DisplayName returns the "Track - Artist" form for logging and output.
func (s SeedTrack) DisplayName() string {
	return fmt.Sprintf("%s - %s", s.TrackName, s.ArtistName)
}

// SearchQuery returns the raw concatenated search query for the seed.
func (s SeedTrack) SearchQuery() string {
	query := fmt.Sprintf("%s %s", s.TrackName, s.ArtistName)
	if s.AlbumName != "" {
		query += " " + s.AlbumName
	}
	return query
}

// ParseSeedString builds a SeedTrack from a free-form reference string.
//
// Delimiter precedence, checked in order:
//
//	"Track - Artist"   the " - " form
//	"Artist: Track"    the ": " form (artist is the text BEFORE the colon)
//	"Track by Artist"  the " by " form; the delimiter match is
//	                   case-insensitive, the names keep their input casing
//
// Anything else is treated as a bare track name with "Unknown Artist". The
// colon form's artist-first convention is deliberate and load-bearing; do
// not swap it.
func ParseSeedString(input string, threshold float64) (SeedTrack, error) {
	var trackName, artistName string

	switch {
	case strings.Contains(input, " - "):
		parts := strings.SplitN(input, " - ", 2)
		trackName, artistName = parts[0], parts[1]
	case strings.Contains(input, ": "):
		parts := strings.SplitN(input, ": ", 2)
		artistName, trackName = parts[0], parts[1]
	case strings.Contains(strings.ToLower(input), " by "):
		idx := strings.Index(strings.ToLower(input), " by ")
		trackName, artistName = input[:idx], input[idx+len(" by "):]
	default:
		trackName = input
		artistName = "Unknown Artist"
	}

	return NewSeedTrack(trackName, artistName, "", 0, threshold)
}

// SeedFromRecord builds a SeedTrack from a row of string fields with
// forgiving column names, e.g. a parsed CSV record. Recognized keys:
// track_name/track/song/title, artist_name/artist/performer,
// album_name/album, year/release_year, confidence_threshold.
func SeedFromRecord(row map[string]string) (SeedTrack, error) {
	trackName := firstValue(row, "track_name", "track", "song", "title")
	artistName := firstValue(row, "artist_name", "artist", "performer")
	albumName := firstValue(row, "album_name", "album")

	year := 0
	if raw := firstValue(row, "year", "release_year"); raw != "" {
		if y, err := strconv.Atoi(raw); err == nil {
			year = y
		}
	}

	threshold := DefaultConfidenceThreshold
	if raw := row["confidence_threshold"]; raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			threshold = v
		}
	}

	return NewSeedTrack(trackName, artistName, albumName, year, threshold)
}

func firstValue(row map[string]string, keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(row[key]); v != "" {
			return v
		}
	}
	return ""
}

func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
