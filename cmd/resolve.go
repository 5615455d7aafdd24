package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/seedmix/seedmix/internal/models"
	"github.com/seedmix/seedmix/internal/shared"
	"github.com/seedmix/seedmix/internal/tasks"
)

func resolveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "resolve",
		Usage:     "Resolve seed descriptions to catalog tracks",
		ArgsUsage: `["Track - Artist" ...]`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Seeds file, one seed per line",
			},
			&cli.FloatFlag{
				Name:  "threshold",
				Usage: "Per-seed confidence threshold",
				Value: models.DefaultConfidenceThreshold,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
			},
		},
		Action: r.Resolve,
	}
}

// Resolve runs the resolution waterfall over the supplied seeds and
// prints per-seed results plus aggregate statistics.
func (r *Runner) Resolve(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)

	seeds, err := r.readSeeds(cmd)
	if err != nil {
		return err
	}

	resolved, stats, err := r.resolveSeeds(ctx, config, seeds)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"resolved": resolved,
			"stats":    stats,
		}, cmd.Bool("pretty"))
	}

	r.writePlain("Resolved %d of %d seeds\n\n", len(resolved), len(seeds))
	for _, rst := range resolved {
		marker := " "
		if rst.NeedsUserConfirmation() {
			marker = "?"
		}
		r.writePlain("%s %-40s → %s [%s, %.2f, %s]\n", marker,
			rst.SeedTrack.DisplayName(), rst.ResolvedTrack.DisplayName(),
			rst.ResolutionMethod, rst.ConfidenceScore, rst.ResolvedTrack.Provider)
	}

	r.writePlain("\nSuccess rate: %.0f%%  Average confidence: %.2f\n",
		stats.SuccessRate*100, stats.AverageConfidence)
	r.writePlain("Confidence bands: %d high / %d medium / %d low\n",
		stats.HighConfidence, stats.MediumConfidence, stats.LowConfidence)

	methods := make([]string, 0, len(stats.Methods))
	for method := range stats.Methods {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	for _, method := range methods {
		r.writePlain("  %s: %d\n", method, stats.Methods[method])
	}
	return nil
}

// resolveSeeds wires providers, cache, and resolver together and runs a
// resolution pass. Shared by the resolve and generate commands.
func (r *Runner) resolveSeeds(ctx context.Context, config *shared.Config, seeds []models.SeedTrack) ([]models.ResolvedSeedTrack, tasks.ResolutionStats, error) {
	providers, err := r.buildProviders(config)
	if err != nil {
		return nil, tasks.ResolutionStats{}, err
	}

	cache, closeCache, err := r.buildCache(config)
	if err != nil {
		return nil, tasks.ResolutionStats{}, err
	}
	defer closeCache()

	resolver, err := tasks.NewResolver(providers, nil, cache, r.logger)
	if err != nil {
		return nil, tasks.ResolutionStats{}, err
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	progressDone := make(chan struct{})
	go func() {
		defer close(progressDone)
		for update := range progressCh {
			r.logger.Debug(update.Message, "phase", update.Phase.String())
		}
	}()

	resolved, err := resolver.ResolveSeedTracks(ctx, seeds, resolutionConfigFrom(config), progressCh)
	close(progressCh)
	<-progressDone
	if err != nil {
		return nil, tasks.ResolutionStats{}, fmt.Errorf("resolution failed: %w", err)
	}

	return resolved, tasks.GetResolutionStats(resolved, len(seeds)), nil
}
