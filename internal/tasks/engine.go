package tasks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/seedmix/seedmix/internal/matching"
	"github.com/seedmix/seedmix/internal/models"
	"github.com/seedmix/seedmix/internal/services"
	"github.com/seedmix/seedmix/internal/shared"
	"github.com/seedmix/seedmix/internal/similarity"
)

// SimilarityConfig controls candidate search and scoring for playlist
// generation.
type SimilarityConfig struct {
	TargetCountMultiplier  int
	MinSimilarityThreshold float64
	SearchTimeout          time.Duration
	MaxQueriesPerProvider  int
	FeatureWeights         map[string]float64
}

// DefaultSimilarityConfig returns the standard generation configuration.
func DefaultSimilarityConfig() SimilarityConfig {
	return SimilarityConfig{
		TargetCountMultiplier:  3,
		MinSimilarityThreshold: 0.4,
		SearchTimeout:          60 * time.Second,
		MaxQueriesPerProvider:  3,
		FeatureWeights:         similarity.DefaultWeights(),
	}
}

// Engine generates playlists from resolved seed tracks: it profiles the
// seeds, searches providers for candidates, scores them against the
// profile, and applies diversity selection.
type Engine struct {
	providers map[string]services.Provider
	calc      *similarity.Calculator
	selector  *similarity.Selector
	logger    *log.Logger
}

// NewEngine creates an engine over the given providers.
func NewEngine(providers []services.Provider, logger *log.Logger) (*Engine, error) {
	if len(providers) == 0 {
		return nil, shared.ErrNoProviders
	}
	if logger == nil {
		logger = log.Default()
	}

	byName := make(map[string]services.Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	calc := similarity.NewCalculator()
	return &Engine{
		providers: byName,
		calc:      calc,
		selector:  similarity.NewSelector(calc),
		logger:    logger,
	}, nil
}

// GeneratePlaylist produces a playlist of up to targetLength tracks
// similar to the resolved seeds. Provider features that fail validation
// abort the call; missing features fall back to synthetic estimates.
func (e *Engine) GeneratePlaylist(ctx context.Context, resolved []models.ResolvedSeedTrack, targetLength int, settings similarity.Settings, cfg SimilarityConfig, progress chan<- ProgressUpdate) (*models.Playlist, error) {
	if len(resolved) == 0 {
		return nil, shared.ErrNoSeeds
	}
	if targetLength <= 0 {
		return nil, fmt.Errorf("%w: target length must be positive, got %d", shared.ErrInvalidConfig, targetLength)
	}

	e.logger.Info("generating playlist", "seeds", len(resolved), "target_length", targetLength)

	seedTracks := make([]models.Track, len(resolved))
	for i, rst := range resolved {
		seedTracks[i] = rst.ResolvedTrack
	}

	sendProgress(progress, buildProfileUpdate(len(seedTracks)))
	for i := range seedTracks {
		if err := e.attachFeatures(ctx, &seedTracks[i]); err != nil {
			return nil, err
		}
	}
	profile, err := similarity.BuildProfile(seedTracks)
	if err != nil {
		return nil, err
	}

	targetCount := targetLength * cfg.TargetCountMultiplier
	if targetCount < targetLength {
		targetCount = targetLength
	}

	queries := searchQueries(profile)
	sendProgress(progress, searchCandidatesUpdate(len(queries)))
	candidates, err := e.findCandidates(ctx, queries, targetCount, cfg)
	if err != nil {
		return nil, err
	}

	sendProgress(progress, scoreCandidatesUpdate(len(candidates)))
	ranked := e.rankCandidates(ctx, candidates, profile, cfg)
	if len(ranked) > targetCount {
		ranked = ranked[:targetCount]
	}
	e.logger.Debug("ranked candidates above threshold", "count", len(ranked))

	sendProgress(progress, applyDiversityUpdate(len(ranked), targetLength))
	finalTracks := e.selector.Select(ranked, settings, targetLength)

	if settings.IncludeSeeds {
		finalTracks = append(append([]models.Track{}, seedTracks...), finalTracks...)
		if len(finalTracks) > targetLength {
			finalTracks = finalTracks[:targetLength]
		}
	}

	playlist := &models.Playlist{
		ID:          shared.GenerateID(),
		Name:        playlistName(seedTracks),
		Description: fmt.Sprintf("Generated from %d seed tracks", len(seedTracks)),
		Tracks:      finalTracks,
		CreatedAt:   time.Now(),
	}

	e.logger.Info("playlist generated", "name", playlist.Name, "tracks", len(playlist.Tracks))
	sendProgress(progress, createPlaylistUpdate(playlist))
	return playlist, nil
}

// attachFeatures ensures the track carries audio features, asking its
// provider first and synthesizing a fallback otherwise. Out-of-range
// provider features are a hard error; letting them through would corrupt
// every downstream similarity score.
func (e *Engine) attachFeatures(ctx context.Context, track *models.Track) error {
	if track.AudioFeatures != nil {
		if err := track.AudioFeatures.Validate(); err != nil {
			return fmt.Errorf("track %q: %w", track.ID, err)
		}
		return nil
	}

	if provider, ok := e.providers[track.Provider]; ok {
		id := track.ProviderID
		if id == "" {
			id = track.ID
		}
		features, err := provider.AudioFeatures(ctx, id)
		if err != nil {
			e.logger.Warn("failed to get audio features", "track", track.DisplayName(), "error", err)
		} else if features != nil {
			if err := features.Validate(); err != nil {
				return fmt.Errorf("track %q: %w", track.ID, err)
			}
			track.AudioFeatures = features
			return nil
		}
	}

	fallback := services.FallbackFeatures(track.Name, track.Artist, track.Genres)
	track.AudioFeatures = &fallback
	return nil
}

// findCandidates fans the profile-derived queries out across providers
// under a shared timeout and returns the deduplicated pool. Provider
// errors and timeouts degrade to fewer candidates, never to a failure.
func (e *Engine) findCandidates(ctx context.Context, queries []string, targetCount int, cfg SimilarityConfig) ([]models.Track, error) {
	maxQueries := cfg.MaxQueriesPerProvider
	if maxQueries <= 0 {
		maxQueries = 3
	}
	if len(queries) > maxQueries {
		queries = queries[:maxQueries]
	}
	if len(queries) == 0 {
		return nil, nil
	}

	perQuery := targetCount / len(queries)
	if perQuery < 1 {
		perQuery = 1
	}

	timeout := cfg.SearchTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	searchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resultCh := make(chan []models.Track, len(e.providers)*len(queries))
	var wg sync.WaitGroup
	for name, provider := range e.providers {
		for _, query := range queries {
			wg.Add(1)
			go func(name, query string, provider services.Provider) {
				defer wg.Done()
				tracks, err := provider.SearchTracks(searchCtx, query, perQuery)
				if err != nil {
					e.logger.Warn("candidate search failed", "provider", name, "query", query, "error", err)
					return
				}
				for i := range tracks {
					if tracks[i].Provider == "" {
						tracks[i].Provider = name
					}
				}
				resultCh <- tracks
			}(name, query, provider)
		}
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	var pool []models.Track
collect:
	for {
		select {
		case tracks, ok := <-resultCh:
			if !ok {
				break collect
			}
			pool = append(pool, tracks...)
		case <-searchCtx.Done():
			e.logger.Warn("timeout while searching for candidates")
			break collect
		}
	}

	return dedupeTracks(pool), nil
}

// rankCandidates attaches features, scores each candidate against the
// profile, and returns those clearing the similarity threshold, best
// first. A candidate whose provider serves invalid features is skipped
// rather than aborting the whole pool.
func (e *Engine) rankCandidates(ctx context.Context, candidates []models.Track, profile *similarity.Profile, cfg SimilarityConfig) []models.ScoredTrack {
	var ranked []models.ScoredTrack
	for i := range candidates {
		if err := e.attachFeatures(ctx, &candidates[i]); err != nil {
			e.logger.Warn("skipping candidate with invalid features", "track", candidates[i].DisplayName(), "error", err)
			continue
		}

		score := e.calc.FeatureSimilarity(*candidates[i].AudioFeatures, profile, cfg.FeatureWeights)
		if score >= cfg.MinSimilarityThreshold {
			ranked = append(ranked, models.ScoredTrack{Track: candidates[i], Score: score})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	return ranked
}

// dedupeTracks removes duplicates by normalized track/artist key, keeping
// the first occurrence.
func dedupeTracks(tracks []models.Track) []models.Track {
	if len(tracks) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(tracks))
	unique := tracks[:0]
	for _, track := range tracks {
		key := matching.NormalizedKey(track.Name, track.Artist)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, track)
	}
	return unique
}
