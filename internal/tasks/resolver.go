package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/seedmix/seedmix/internal/matching"
	"github.com/seedmix/seedmix/internal/models"
	"github.com/seedmix/seedmix/internal/repositories"
	"github.com/seedmix/seedmix/internal/services"
	"github.com/seedmix/seedmix/internal/shared"
)

// Per-stage acceptance floors for the adjusted similarity score.
const (
	exactMatchFloor      = 0.95
	normalizedMatchFloor = 0.8
	partialMatchFloor    = 0.7
	fuzzyMatchFloor      = 0.4
)

// Per-stage provider search limits.
const (
	exactSearchLimit     = 10
	normalizedSearchLimit = 20
	partialSearchLimit   = 15
	fuzzySearchLimit     = 25
	maxPartialVariations = 5
)

// ResolutionConfig controls the resolution waterfall. Passed by value
// into each ResolveSeedTracks call; never shared mutable state.
type ResolutionConfig struct {
	ConfidenceThreshold   float64
	MaxSearchResults      int
	FuzzyThreshold        float64
	SearchTimeout         time.Duration
	MaxConcurrentSearches int
	SearchesPerSecond     float64 // 0 disables rate limiting
	CacheTTL              time.Duration
	ProviderWeights       map[string]float64
}

// DefaultResolutionConfig returns the standard resolution configuration.
func DefaultResolutionConfig() ResolutionConfig {
	return ResolutionConfig{
		ConfidenceThreshold:   0.7,
		MaxSearchResults:      50,
		FuzzyThreshold:        0.6,
		SearchTimeout:         30 * time.Second,
		MaxConcurrentSearches: 5,
		CacheTTL:              24 * time.Hour,
		ProviderWeights: map[string]float64{
			"spotify":       1.0,
			"apple_music":   0.9,
			"youtube_music": 0.7,
		},
	}
}

// weightedCandidate pairs a provider search result with the weight of the
// provider that returned it.
type weightedCandidate struct {
	track  models.Track
	weight float64
}

// Resolver maps seed tracks to canonical provider tracks through the
// four-stage search waterfall.
type Resolver struct {
	providers map[string]services.Provider
	matcher   *matching.TrackMatcher
	cache     repositories.Cache
	logger    *log.Logger
}

// NewResolver creates a resolver over the given providers. The cache is
// optional; a nil cache simply disables resolution caching.
func NewResolver(providers []services.Provider, matcher *matching.TrackMatcher, cache repositories.Cache, logger *log.Logger) (*Resolver, error) {
	if len(providers) == 0 {
		return nil, shared.ErrNoProviders
	}
	if matcher == nil {
		matcher = matching.NewTrackMatcher(nil)
	}
	if logger == nil {
		logger = log.Default()
	}

	byName := make(map[string]services.Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &Resolver{
		providers: byName,
		matcher:   matcher,
		cache:     cache,
		logger:    logger,
	}, nil
}

// ResolveSeedTracks resolves seeds concurrently in batches of
// cfg.MaxConcurrentSearches. A panic or error resolving one seed is
// logged and excluded; it never aborts the batch. Unresolvable seeds
// are silently dropped, so the result may be shorter than the input.
// Output order follows input order within the resolved subset.
func (r *Resolver) ResolveSeedTracks(ctx context.Context, seeds []models.SeedTrack, cfg ResolutionConfig, progress chan<- ProgressUpdate) ([]models.ResolvedSeedTrack, error) {
	if len(seeds) == 0 {
		return nil, nil
	}

	batchSize := cfg.MaxConcurrentSearches
	if batchSize <= 0 {
		batchSize = 1
	}

	var limiter *rate.Limiter
	if cfg.SearchesPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.SearchesPerSecond), 1)
	}

	r.logger.Info("starting seed resolution", "seeds", len(seeds))

	results := make([]*models.ResolvedSeedTrack, len(seeds))
	for start := 0; start < len(seeds); start += batchSize {
		end := start + batchSize
		if end > len(seeds) {
			end = len(seeds)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(idx int, seed models.SeedTrack) {
				defer wg.Done()
				defer func() {
					if rec := recover(); rec != nil {
						r.logger.Error("panic resolving seed", "seed", seed.DisplayName(), "panic", rec)
					}
				}()

				sendProgress(progress, resolveSeedUpdate(idx+1, len(seeds), seed))
				resolved, err := r.resolveSingle(ctx, seed, cfg, limiter)
				if err != nil {
					r.logger.Error("error resolving seed", "seed", seed.DisplayName(), "error", err)
					return
				}
				if resolved == nil {
					r.logger.Warn("could not resolve seed", "seed", seed.DisplayName())
					sendProgress(progress, seedUnresolvedUpdate(idx+1, len(seeds), seed))
					return
				}
				sendProgress(progress, seedResolvedUpdate(idx+1, len(seeds), resolved))
				results[idx] = resolved
			}(i, seeds[i])
		}
		wg.Wait()
	}

	resolved := make([]models.ResolvedSeedTrack, 0, len(seeds))
	for _, res := range results {
		if res != nil {
			resolved = append(resolved, *res)
		}
	}

	r.logger.Info("seed resolution finished", "resolved", len(resolved), "total", len(seeds))
	return resolved, nil
}

// resolutionStage is one step of the waterfall. gated stages must also
// clear the seed's own confidence threshold; the last-resort fuzzy stage
// is not gated.
type resolutionStage struct {
	method string
	gated  bool
	run    func(ctx context.Context, seed models.SeedTrack, cfg ResolutionConfig, limiter *rate.Limiter) (*models.ResolvedSeedTrack, error)
}

// resolveSingle runs the waterfall for one seed: cache lookup, then each
// stage in order until one accepts. A nil result with a nil error means
// the seed is unresolvable.
func (r *Resolver) resolveSingle(ctx context.Context, seed models.SeedTrack, cfg ResolutionConfig, limiter *rate.Limiter) (*models.ResolvedSeedTrack, error) {
	if cached := r.cachedResolution(ctx, seed); cached != nil {
		r.logger.Debug("cache hit", "seed", seed.DisplayName())
		return cached, nil
	}

	stages := []resolutionStage{
		{method: models.MethodExactMatch, gated: true, run: r.exactSearch},
		{method: models.MethodNormalizedSearch, gated: true, run: r.normalizedSearch},
		{method: models.MethodPartialSearch, gated: true, run: r.partialSearch},
		{method: models.MethodFuzzySearch, gated: false, run: r.fuzzySearch},
	}

	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := stage.run(ctx, seed, cfg, limiter)
		if err != nil {
			return nil, fmt.Errorf("%s stage: %w", stage.method, err)
		}
		if result == nil {
			continue
		}
		if stage.gated && result.ConfidenceScore < seed.ConfidenceThreshold {
			continue
		}

		r.cacheResolution(ctx, seed, result, cfg.CacheTTL)
		return result, nil
	}
	return nil, nil
}

// exactSearch queries providers with the raw, unmodified seed query.
func (r *Resolver) exactSearch(ctx context.Context, seed models.SeedTrack, cfg ResolutionConfig, limiter *rate.Limiter) (*models.ResolvedSeedTrack, error) {
	candidates := r.searchAllProviders(ctx, seed.SearchQuery(), exactSearchLimit, cfg, limiter)
	return r.bestMatch(seed, candidates, models.MethodExactMatch, exactMatchFloor)
}

// normalizedSearch queries providers with the normalized track and artist
// strings. Empty normalized forms carry no signal, so the stage passes.
func (r *Resolver) normalizedSearch(ctx context.Context, seed models.SeedTrack, cfg ResolutionConfig, limiter *rate.Limiter) (*models.ResolvedSeedTrack, error) {
	normTrack := matching.NormalizeTrack(seed.TrackName)
	normArtist := matching.NormalizeArtist(seed.ArtistName)
	if normTrack == "" || normArtist == "" {
		return nil, nil
	}

	candidates := r.searchAllProviders(ctx, normTrack+" "+normArtist, normalizedSearchLimit, cfg, limiter)
	return r.bestMatch(seed, candidates, models.MethodNormalizedSearch, normalizedMatchFloor)
}

// partialSearch pools results from the top generated query variations.
func (r *Resolver) partialSearch(ctx context.Context, seed models.SeedTrack, cfg ResolutionConfig, limiter *rate.Limiter) (*models.ResolvedSeedTrack, error) {
	variations := r.matcher.GenerateSearchVariations(seed.TrackName, seed.ArtistName)
	if len(variations) > maxPartialVariations {
		variations = variations[:maxPartialVariations]
	}

	var pooled []weightedCandidate
	for _, variation := range variations {
		pooled = append(pooled, r.searchAllProviders(ctx, variation, partialSearchLimit, cfg, limiter)...)
	}

	return r.bestMatch(seed, dedupeCandidates(pooled), models.MethodPartialSearch, partialMatchFloor)
}

// fuzzySearch is the last resort: track name and artist name are searched
// independently, the pool is filtered by raw similarity against
// cfg.FuzzyThreshold, and the best survivor is accepted at the low floor
// without consulting provider weights.
func (r *Resolver) fuzzySearch(ctx context.Context, seed models.SeedTrack, cfg ResolutionConfig, limiter *rate.Limiter) (*models.ResolvedSeedTrack, error) {
	pooled := r.searchAllProviders(ctx, seed.TrackName, fuzzySearchLimit, cfg, limiter)
	pooled = append(pooled, r.searchAllProviders(ctx, seed.ArtistName, fuzzySearchLimit, cfg, limiter)...)

	unique := dedupeCandidates(pooled)
	tracks := make([]models.Track, len(unique))
	for i, cand := range unique {
		tracks[i] = cand.track
	}

	filtered := r.matcher.FilterBySimilarity(tracks, seed.TrackName, seed.ArtistName, cfg.FuzzyThreshold)
	survivors := make([]weightedCandidate, len(filtered))
	for i, scored := range filtered {
		survivors[i] = weightedCandidate{track: scored.Track, weight: 1.0}
	}

	return r.bestMatch(seed, survivors, models.MethodFuzzySearch, fuzzyMatchFloor)
}

// searchAllProviders fans a query out to every provider concurrently
// under a shared timeout. Providers that error or miss the deadline
// contribute zero results; partial results received before the deadline
// are kept.
func (r *Resolver) searchAllProviders(ctx context.Context, query string, limit int, cfg ResolutionConfig, limiter *rate.Limiter) []weightedCandidate {
	if cfg.MaxSearchResults > 0 && limit > cfg.MaxSearchResults {
		limit = cfg.MaxSearchResults
	}

	timeout := cfg.SearchTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	searchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if limiter != nil {
		if err := limiter.Wait(searchCtx); err != nil {
			return nil
		}
	}

	type providerResult struct {
		name   string
		tracks []models.Track
	}
	resultCh := make(chan providerResult, len(r.providers))

	var wg sync.WaitGroup
	for name, provider := range r.providers {
		wg.Add(1)
		go func(name string, provider services.Provider) {
			defer wg.Done()
			tracks, err := provider.SearchTracks(searchCtx, query, limit)
			if err != nil {
				r.logger.Warn("provider search failed", "provider", name, "query", query, "error", err)
				return
			}
			resultCh <- providerResult{name: name, tracks: tracks}
		}(name, provider)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	var candidates []weightedCandidate
	collecting := true
	for collecting {
		select {
		case res := <-resultCh:
			weight, ok := cfg.ProviderWeights[res.name]
			if !ok {
				weight = 1.0
			}
			for _, track := range res.tracks {
				if track.Provider == "" {
					track.Provider = res.name
				}
				candidates = append(candidates, weightedCandidate{track: track, weight: weight})
			}
		case <-done:
			collecting = false
		case <-searchCtx.Done():
			r.logger.Warn("search timeout", "query", query)
			collecting = false
		}
	}

	// Drain anything that landed between the last receive and the exit.
	for {
		select {
		case res := <-resultCh:
			weight, ok := cfg.ProviderWeights[res.name]
			if !ok {
				weight = 1.0
			}
			for _, track := range res.tracks {
				if track.Provider == "" {
					track.Provider = res.name
				}
				candidates = append(candidates, weightedCandidate{track: track, weight: weight})
			}
		default:
			return candidates
		}
	}
}

// bestMatch scores every candidate against the seed and keeps the best
// adjusted score clearing the floor. Displaced leaders and other passing
// candidates become alternatives, capped at five. Ties keep the earlier
// candidate.
func (r *Resolver) bestMatch(seed models.SeedTrack, candidates []weightedCandidate, method string, floor float64) (*models.ResolvedSeedTrack, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	var best *models.Track
	bestScore := 0.0
	var alternatives []models.Track

	for _, cand := range candidates {
		match := r.matcher.CalculateSimilarity(seed.TrackName, seed.ArtistName, cand.track.Name, cand.track.Artist)

		adjusted := match.SimilarityScore * cand.weight
		if adjusted > 1.0 {
			adjusted = 1.0
		}

		if adjusted < floor {
			continue
		}
		if adjusted > bestScore {
			if best != nil {
				alternatives = append(alternatives, *best)
			}
			track := cand.track
			best = &track
			bestScore = adjusted
		} else {
			alternatives = append(alternatives, cand.track)
		}
	}

	if best == nil {
		return nil, nil
	}

	resolved, err := models.NewResolvedSeedTrack(seed, *best, bestScore, method, alternatives)
	if err != nil {
		return nil, err
	}
	return &resolved, nil
}

// dedupeCandidates removes duplicates by normalized track/artist key,
// keeping the first occurrence.
func dedupeCandidates(candidates []weightedCandidate) []weightedCandidate {
	if len(candidates) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(candidates))
	unique := candidates[:0]
	for _, cand := range candidates {
		key := matching.NormalizedKey(cand.track.Name, cand.track.Artist)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, cand)
	}
	return unique
}

// resolutionCacheKey builds the cache key from the normalized seed names
// so spelling variants of the same seed share an entry.
func resolutionCacheKey(seed models.SeedTrack) string {
	return fmt.Sprintf("resolved_track:%s:%s",
		matching.NormalizeTrack(seed.TrackName), matching.NormalizeArtist(seed.ArtistName))
}

func (r *Resolver) cachedResolution(ctx context.Context, seed models.SeedTrack) *models.ResolvedSeedTrack {
	if r.cache == nil {
		return nil
	}

	data, found, err := r.cache.Get(ctx, resolutionCacheKey(seed))
	if err != nil {
		r.logger.Warn("cache read failed", "seed", seed.DisplayName(), "error", err)
		return nil
	}
	if !found {
		return nil
	}

	var resolved models.ResolvedSeedTrack
	if err := json.Unmarshal(data, &resolved); err != nil {
		r.logger.Warn("discarding malformed cache entry", "seed", seed.DisplayName(), "error", err)
		return nil
	}
	return &resolved
}

func (r *Resolver) cacheResolution(ctx context.Context, seed models.SeedTrack, resolved *models.ResolvedSeedTrack, ttl time.Duration) {
	if r.cache == nil {
		return
	}

	data, err := json.Marshal(resolved)
	if err != nil {
		r.logger.Warn("failed to serialize resolution", "seed", seed.DisplayName(), "error", err)
		return
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if err := r.cache.Set(ctx, resolutionCacheKey(seed), data, ttl); err != nil {
		r.logger.Warn("cache write failed", "seed", seed.DisplayName(), "error", err)
	}
}
