package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
//
// The file sections mirror the pipeline value objects: callers translate
// them into tasks.ResolutionConfig, tasks.SimilarityConfig and
// similarity.Settings at startup. The file never becomes shared mutable
// state; each pipeline invocation receives its own copy.
type Config struct {
	Cache      CacheConfig      `toml:"cache"`
	Catalogs   []CatalogConfig  `toml:"catalogs"`
	Resolution ResolutionConfig `toml:"resolution"`
	Similarity SimilarityConfig `toml:"similarity"`
	Diversity  DiversityConfig  `toml:"diversity"`
}

// CacheConfig contains settings for the resolution cache.
type CacheConfig struct {
	Path string `toml:"path"`
}

// CatalogConfig identifies a provider catalog file by name and path.
type CatalogConfig struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
}

// ResolutionConfig mirrors tasks.ResolutionConfig in file form.
type ResolutionConfig struct {
	ConfidenceThreshold   float64            `toml:"confidence_threshold"`
	MaxSearchResults      int                `toml:"max_search_results"`
	FuzzyThreshold        float64            `toml:"fuzzy_threshold"`
	SearchTimeoutSeconds  int                `toml:"search_timeout_seconds"`
	MaxConcurrentSearches int                `toml:"max_concurrent_searches"`
	SearchesPerSecond     float64            `toml:"searches_per_second"`
	CacheTTLHours         int                `toml:"cache_ttl_hours"`
	ProviderWeights       map[string]float64 `toml:"provider_weights"`
}

// SimilarityConfig mirrors tasks.SimilarityConfig in file form.
type SimilarityConfig struct {
	TargetCountMultiplier  int     `toml:"target_count_multiplier"`
	MinSimilarityThreshold float64 `toml:"min_similarity_threshold"`
	SearchTimeoutSeconds   int     `toml:"search_timeout_seconds"`
	MaxQueriesPerProvider  int     `toml:"max_queries_per_provider"`
}

// DiversityConfig mirrors similarity.Settings in file form.
type DiversityConfig struct {
	MaxPerArtist           int                `toml:"max_per_artist"`
	FeatureDiversityFactor float64            `toml:"feature_diversity_factor"`
	IncludeSeeds           bool               `toml:"include_seeds"`
	EraDistribution        map[string]float64 `toml:"era_distribution"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingConfig, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
