package main

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/seedmix/seedmix/internal/shared"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}

			runner := NewRunner(RunnerOpts{
				Config: config,
				Logger: logger,
				Output: output,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})
			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})
	})

	t.Run("register returns all commands", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		names := map[string]bool{}
		for _, cmd := range commands {
			names[cmd.Name] = true
		}
		for _, want := range []string{"setup", "resolve", "generate", "cache"} {
			if !names[want] {
				t.Errorf("missing command %q", want)
			}
		}
	})
}

func TestWriteHelpers(t *testing.T) {
	t.Run("writeJSON compact", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writeJSON(map[string]int{"count": 3}, false); err != nil {
			t.Fatalf("writeJSON failed: %v", err)
		}
		if output.String() != "{\"count\":3}\n" {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("writeJSON pretty", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writeJSON(map[string]int{"count": 3}, true); err != nil {
			t.Fatalf("writeJSON failed: %v", err)
		}
		if !strings.Contains(output.String(), "  \"count\": 3") {
			t.Errorf("expected indented output, got %q", output.String())
		}
	})

	t.Run("writePlain", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writePlain("resolved %d of %d\n", 4, 5); err != nil {
			t.Fatalf("writePlain failed: %v", err)
		}
		if output.String() != "resolved 4 of 5\n" {
			t.Errorf("unexpected output %q", output.String())
		}
	})
}

func TestConfigTranslation(t *testing.T) {
	t.Run("resolutionConfigFrom", func(t *testing.T) {
		t.Run("zero values keep defaults", func(t *testing.T) {
			cfg := resolutionConfigFrom(&shared.Config{})
			if cfg.ConfidenceThreshold != 0.7 {
				t.Errorf("ConfidenceThreshold = %v, want default 0.7", cfg.ConfidenceThreshold)
			}
			if cfg.SearchTimeout != 30*time.Second {
				t.Errorf("SearchTimeout = %v, want default 30s", cfg.SearchTimeout)
			}
			if cfg.CacheTTL != 24*time.Hour {
				t.Errorf("CacheTTL = %v, want default 24h", cfg.CacheTTL)
			}
		})

		t.Run("file values override", func(t *testing.T) {
			config := &shared.Config{
				Resolution: shared.ResolutionConfig{
					ConfidenceThreshold:   0.8,
					MaxSearchResults:      25,
					FuzzyThreshold:        0.5,
					SearchTimeoutSeconds:  10,
					MaxConcurrentSearches: 2,
					SearchesPerSecond:     4,
					CacheTTLHours:         1,
					ProviderWeights:       map[string]float64{"catalog": 0.8},
				},
			}
			cfg := resolutionConfigFrom(config)
			if cfg.ConfidenceThreshold != 0.8 || cfg.MaxSearchResults != 25 || cfg.FuzzyThreshold != 0.5 {
				t.Errorf("scalar overrides not applied: %+v", cfg)
			}
			if cfg.SearchTimeout != 10*time.Second {
				t.Errorf("SearchTimeout = %v, want 10s", cfg.SearchTimeout)
			}
			if cfg.MaxConcurrentSearches != 2 || cfg.SearchesPerSecond != 4 {
				t.Errorf("concurrency overrides not applied: %+v", cfg)
			}
			if cfg.CacheTTL != time.Hour {
				t.Errorf("CacheTTL = %v, want 1h", cfg.CacheTTL)
			}
			if cfg.ProviderWeights["catalog"] != 0.8 {
				t.Errorf("ProviderWeights = %v", cfg.ProviderWeights)
			}
		})
	})

	t.Run("similarityConfigFrom", func(t *testing.T) {
		config := &shared.Config{
			Similarity: shared.SimilarityConfig{
				TargetCountMultiplier:  5,
				MinSimilarityThreshold: 0.6,
				SearchTimeoutSeconds:   15,
				MaxQueriesPerProvider:  4,
			},
		}
		cfg := similarityConfigFrom(config)
		if cfg.TargetCountMultiplier != 5 || cfg.MinSimilarityThreshold != 0.6 {
			t.Errorf("overrides not applied: %+v", cfg)
		}
		if cfg.SearchTimeout != 15*time.Second {
			t.Errorf("SearchTimeout = %v, want 15s", cfg.SearchTimeout)
		}
		if cfg.MaxQueriesPerProvider != 4 {
			t.Errorf("MaxQueriesPerProvider = %d, want 4", cfg.MaxQueriesPerProvider)
		}

		defaults := similarityConfigFrom(&shared.Config{})
		if defaults.TargetCountMultiplier != 3 || defaults.MinSimilarityThreshold != 0.4 {
			t.Errorf("zero config did not keep defaults: %+v", defaults)
		}
	})

	t.Run("diversitySettingsFrom", func(t *testing.T) {
		config := &shared.Config{
			Diversity: shared.DiversityConfig{
				MaxPerArtist:           3,
				FeatureDiversityFactor: 0.5,
				IncludeSeeds:           true,
				EraDistribution:        map[string]float64{"2020s": 1.0},
			},
		}
		settings := diversitySettingsFrom(config)
		if settings.MaxPerArtist != 3 || settings.FeatureDiversityFactor != 0.5 {
			t.Errorf("overrides not applied: %+v", settings)
		}
		if !settings.IncludeSeeds {
			t.Error("IncludeSeeds not carried over")
		}
		if len(settings.EraDistribution) != 1 || settings.EraDistribution["2020s"] != 1.0 {
			t.Errorf("EraDistribution = %v", settings.EraDistribution)
		}

		defaults := diversitySettingsFrom(&shared.Config{})
		if defaults.MaxPerArtist != 2 || defaults.IncludeSeeds {
			t.Errorf("zero config did not keep defaults: %+v", defaults)
		}
	})
}

func TestDefaultConfig(t *testing.T) {
	config := shared.DefaultConfig()
	if config.Resolution.ConfidenceThreshold <= 0 {
		t.Error("embedded config missing resolution.confidence_threshold")
	}
	if config.Similarity.TargetCountMultiplier <= 0 {
		t.Error("embedded config missing similarity.target_count_multiplier")
	}
	if len(config.Diversity.EraDistribution) == 0 {
		t.Error("embedded config missing diversity.era_distribution")
	}
}
