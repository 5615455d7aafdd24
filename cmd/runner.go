package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/seedmix/seedmix/internal/models"
	"github.com/seedmix/seedmix/internal/repositories"
	"github.com/seedmix/seedmix/internal/services"
	"github.com/seedmix/seedmix/internal/shared"
	"github.com/seedmix/seedmix/internal/similarity"
	"github.com/seedmix/seedmix/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config *shared.Config
	logger *log.Logger
	output io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	Logger *log.Logger
	Output io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config: opts.Config,
		logger: opts.Logger,
		output: opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, resolveCommand, generateCommand, cacheCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig reloads configuration from the path given on the command
// line, falling back to the runner's startup config.
func (r *Runner) loadConfig(cmd *cli.Command) *shared.Config {
	configPath := cmd.String("config")
	if configPath == "" {
		return r.config
	}
	if _, err := os.Stat(configPath); err != nil {
		return r.config
	}

	config, err := shared.LoadConfig(configPath)
	if err != nil {
		r.logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		return r.config
	}
	return config
}

// buildProviders constructs a catalog provider per configured catalog.
func (r *Runner) buildProviders(config *shared.Config) ([]services.Provider, error) {
	if len(config.Catalogs) == 0 {
		return nil, fmt.Errorf("%w: no catalogs configured", shared.ErrNoProviders)
	}

	providers := make([]services.Provider, 0, len(config.Catalogs))
	for _, catalog := range config.Catalogs {
		provider, err := services.NewCatalogProvider(catalog.Name, catalog.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog %q: %w", catalog.Name, err)
		}
		r.logger.Debug("catalog loaded", "name", catalog.Name, "tracks", provider.Len())
		providers = append(providers, provider)
	}
	return providers, nil
}

// buildCache opens the SQLite-backed resolution cache, or an in-memory
// one when no cache path is configured.
func (r *Runner) buildCache(config *shared.Config) (repositories.Cache, func(), error) {
	if config.Cache.Path == "" {
		return repositories.NewMemoryCache(0), func() {}, nil
	}

	db, err := shared.NewDatabase(config.Cache.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	cache, err := repositories.NewSQLiteCache(db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return cache, func() { db.Close() }, nil
}

// readSeeds collects seed tracks from positional arguments and an
// optional seeds file (one seed per line, # starts a comment).
func (r *Runner) readSeeds(cmd *cli.Command) ([]models.SeedTrack, error) {
	threshold := cmd.Float("threshold")

	var inputs []string
	inputs = append(inputs, cmd.Args().Slice()...)

	if seedsFile := cmd.String("file"); seedsFile != "" {
		f, err := os.Open(seedsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open seeds file: %w", err)
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			inputs = append(inputs, line)
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read seeds file: %w", err)
		}
	}

	if len(inputs) == 0 {
		return nil, shared.ErrNoSeeds
	}

	seeds := make([]models.SeedTrack, 0, len(inputs))
	for _, input := range inputs {
		seed, err := models.ParseSeedString(input, threshold)
		if err != nil {
			return nil, fmt.Errorf("invalid seed %q: %w", input, err)
		}
		seeds = append(seeds, seed)
	}
	return seeds, nil
}

// resolutionConfigFrom translates the file config into the pipeline value object.
func resolutionConfigFrom(config *shared.Config) tasks.ResolutionConfig {
	cfg := tasks.DefaultResolutionConfig()
	file := config.Resolution

	if file.ConfidenceThreshold > 0 {
		cfg.ConfidenceThreshold = file.ConfidenceThreshold
	}
	if file.MaxSearchResults > 0 {
		cfg.MaxSearchResults = file.MaxSearchResults
	}
	if file.FuzzyThreshold > 0 {
		cfg.FuzzyThreshold = file.FuzzyThreshold
	}
	if file.SearchTimeoutSeconds > 0 {
		cfg.SearchTimeout = time.Duration(file.SearchTimeoutSeconds) * time.Second
	}
	if file.MaxConcurrentSearches > 0 {
		cfg.MaxConcurrentSearches = file.MaxConcurrentSearches
	}
	if file.SearchesPerSecond > 0 {
		cfg.SearchesPerSecond = file.SearchesPerSecond
	}
	if file.CacheTTLHours > 0 {
		cfg.CacheTTL = time.Duration(file.CacheTTLHours) * time.Hour
	}
	if len(file.ProviderWeights) > 0 {
		cfg.ProviderWeights = file.ProviderWeights
	}
	return cfg
}

// similarityConfigFrom translates the file config into the pipeline value object.
func similarityConfigFrom(config *shared.Config) tasks.SimilarityConfig {
	cfg := tasks.DefaultSimilarityConfig()
	file := config.Similarity

	if file.TargetCountMultiplier > 0 {
		cfg.TargetCountMultiplier = file.TargetCountMultiplier
	}
	if file.MinSimilarityThreshold > 0 {
		cfg.MinSimilarityThreshold = file.MinSimilarityThreshold
	}
	if file.SearchTimeoutSeconds > 0 {
		cfg.SearchTimeout = time.Duration(file.SearchTimeoutSeconds) * time.Second
	}
	if file.MaxQueriesPerProvider > 0 {
		cfg.MaxQueriesPerProvider = file.MaxQueriesPerProvider
	}
	return cfg
}

// diversitySettingsFrom translates the file config into selection settings.
func diversitySettingsFrom(config *shared.Config) similarity.Settings {
	settings := similarity.DefaultSettings()
	file := config.Diversity

	if file.MaxPerArtist > 0 {
		settings.MaxPerArtist = file.MaxPerArtist
	}
	if file.FeatureDiversityFactor > 0 {
		settings.FeatureDiversityFactor = file.FeatureDiversityFactor
	}
	if len(file.EraDistribution) > 0 {
		settings.EraDistribution = file.EraDistribution
	}
	settings.IncludeSeeds = file.IncludeSeeds
	return settings
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
