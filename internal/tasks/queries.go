package tasks

import (
	"fmt"
	"strings"

	"github.com/seedmix/seedmix/internal/models"
	"github.com/seedmix/seedmix/internal/similarity"
)

const maxSearchQueries = 10

// searchQueries derives provider search queries from a feature profile:
// preferred genres first, then mood words from valence and energy, then
// tempo words. Deduplicated preserving order, capped at ten.
func searchQueries(profile *similarity.Profile) []string {
	var queries []string

	genres := profile.PreferredGenres
	if len(genres) > 3 {
		genres = genres[:3]
	}
	for _, genre := range genres {
		queries = append(queries, "genre:"+genre)
	}

	switch valence := rangeMidpoint(profile, "valence"); {
	case valence > 0.7:
		queries = append(queries, "happy", "upbeat", "positive")
	case valence < 0.3:
		queries = append(queries, "sad", "melancholy", "dark")
	default:
		queries = append(queries, "chill", "mellow")
	}

	switch energy := rangeMidpoint(profile, "energy"); {
	case energy > 0.7:
		queries = append(queries, "energetic", "intense", "powerful")
	case energy < 0.3:
		queries = append(queries, "calm", "peaceful", "ambient")
	}

	switch tempo := rangeMidpoint(profile, "tempo"); {
	case tempo > 140:
		queries = append(queries, "fast", "uptempo", "dance")
	case tempo > 0 && tempo < 90:
		queries = append(queries, "slow", "ballad", "downtempo")
	}

	seen := make(map[string]struct{}, len(queries))
	unique := queries[:0]
	for _, q := range queries {
		if _, dup := seen[q]; dup {
			continue
		}
		seen[q] = struct{}{}
		unique = append(unique, q)
	}

	if len(unique) > maxSearchQueries {
		unique = unique[:maxSearchQueries]
	}
	return unique
}

func rangeMidpoint(profile *similarity.Profile, feature string) float64 {
	r, ok := profile.Ranges[feature]
	if !ok {
		return 0
	}
	return (r.Min + r.Max) / 2
}

// playlistName builds a descriptive name from the seed tracks.
func playlistName(seedTracks []models.Track) string {
	switch {
	case len(seedTracks) == 0:
		return "Generated Playlist"
	case len(seedTracks) == 1:
		return "Similar to " + seedTracks[0].Name
	case len(seedTracks) <= 3:
		names := make([]string, len(seedTracks))
		for i, t := range seedTracks {
			names[i] = t.Name
		}
		return "Similar to " + strings.Join(names, ", ")
	}

	seen := make(map[string]struct{})
	var artists []string
	for _, t := range seedTracks {
		if _, dup := seen[t.Artist]; dup {
			continue
		}
		seen[t.Artist] = struct{}{}
		artists = append(artists, t.Artist)
	}
	if len(artists) <= 3 {
		return "Similar to " + strings.Join(artists, ", ")
	}
	return fmt.Sprintf("Generated from %d tracks", len(seedTracks))
}
