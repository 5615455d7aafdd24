// Offline JSON catalog implementation of [Provider].
//
// A catalog file holds an array of track records with optional embedded
// audio features. Catalogs stand in for remote streaming APIs so the
// pipeline runs end to end without network access or credentials.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/seedmix/seedmix/internal/models"
	"github.com/seedmix/seedmix/internal/shared"
)

// CatalogProvider serves tracks from an in-memory catalog loaded from a
// JSON file. All state is immutable after load, so the methods are safe
// for concurrent use without locking.
type CatalogProvider struct {
	name   string
	tracks []models.Track
	byID   map[string]*models.Track
}

// NewCatalogProvider loads a JSON catalog file. Track records with
// malformed audio features fail the load; a catalog must be entirely
// valid or not used at all.
func NewCatalogProvider(name, path string) (*CatalogProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrCatalogUnavailable, path, err)
	}
	return NewCatalogProviderFromJSON(name, data)
}

// NewCatalogProviderFromJSON builds a catalog provider from raw JSON.
func NewCatalogProviderFromJSON(name string, data []byte) (*CatalogProvider, error) {
	var tracks []models.Track
	if err := json.Unmarshal(data, &tracks); err != nil {
		return nil, fmt.Errorf("parsing catalog %q: %w", name, err)
	}

	p := &CatalogProvider{
		name:   name,
		tracks: tracks,
		byID:   make(map[string]*models.Track, len(tracks)),
	}
	for i := range p.tracks {
		t := &p.tracks[i]
		if t.Provider == "" {
			t.Provider = name
		}
		if t.AudioFeatures != nil {
			if err := t.AudioFeatures.Validate(); err != nil {
				return nil, fmt.Errorf("catalog %q track %q: %w", name, t.ID, err)
			}
		}
		p.byID[t.ID] = t
	}
	return p, nil
}

// Name implements [Provider].
func (p *CatalogProvider) Name() string { return p.name }

// Len returns the number of tracks in the catalog.
func (p *CatalogProvider) Len() int { return len(p.tracks) }

// SearchTracks implements [Provider] with token-overlap scoring against
// track name, artists, album, and genres. Results are ordered best match
// first; a zero-overlap track is never returned.
func (p *CatalogProvider) SearchTracks(ctx context.Context, query string, limit int) ([]models.Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	terms := queryTerms(query)
	if len(terms) == 0 || limit <= 0 {
		return nil, nil
	}

	type hit struct {
		track models.Track
		score int
	}
	var hits []hit
	for _, t := range p.tracks {
		if score := matchScore(t, terms); score > 0 {
			hits = append(hits, hit{track: t, score: score})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	if len(hits) > limit {
		hits = hits[:limit]
	}
	results := make([]models.Track, len(hits))
	for i, h := range hits {
		results[i] = h.track
	}
	return results, nil
}

// AudioFeatures implements [Provider]. Unknown track IDs and tracks
// without embedded features both return nil features with a nil error.
func (p *CatalogProvider) AudioFeatures(ctx context.Context, trackID string) (*models.AudioFeatures, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, ok := p.byID[trackID]
	if !ok || t.AudioFeatures == nil {
		return nil, nil
	}
	f := *t.AudioFeatures
	return &f, nil
}

func queryTerms(query string) []string {
	var terms []string
	for _, field := range strings.Fields(strings.ToLower(query)) {
		// Strip qualifier prefixes like "genre:jazz" down to the value.
		if idx := strings.IndexByte(field, ':'); idx >= 0 && idx < len(field)-1 {
			field = field[idx+1:]
		}
		terms = append(terms, field)
	}
	return terms
}

func matchScore(t models.Track, terms []string) int {
	haystack := strings.ToLower(strings.Join(append([]string{
		t.Name, t.Artist, t.Album,
		strings.Join(t.Artists, " "),
	}, t.Genres...), " "))

	score := 0
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			score++
		}
	}
	return score
}
