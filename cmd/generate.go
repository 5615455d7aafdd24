package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/seedmix/seedmix/internal/formatter"
	"github.com/seedmix/seedmix/internal/models"
	"github.com/seedmix/seedmix/internal/tasks"
)

func generateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "generate",
		Aliases:   []string{"gen"},
		Usage:     "Generate a similarity playlist from seed tracks",
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
			&cli.IntFlag{
				Name:    "length",
				Aliases: []string{"n"},
				Usage:   "Target playlist length",
				Value:   20,
			},
			&cli.FloatFlag{
				Name:  "threshold",
				Usage: "Per-seed confidence threshold",
				Value: models.DefaultConfidenceThreshold,
			},
			&cli.BoolFlag{
				Name:  "include-seeds",
				Usage: "Prepend resolved seed tracks to the playlist",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the playlist to a file",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Export format for --output: json, csv, markdown, text",
				Value: "json",
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
		Action: r.Generate,
	}
}

// Generate resolves the seeds and produces a playlist of similar tracks.
func (r *Runner) Generate(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)
	targetLength := int(cmd.Int("length"))

	seeds, err := r.readSeeds(cmd)
	if err != nil {
		return err
	}

	resolved, stats, err := r.resolveSeeds(ctx, config, seeds)
	if err != nil {
		return err
	}
	if len(resolved) == 0 {
		return fmt.Errorf("none of the %d seeds could be resolved", len(seeds))
	}
	r.logger.Info("seeds resolved", "resolved", len(resolved), "average_confidence", fmt.Sprintf("%.2f", stats.AverageConfidence))

	providers, err := r.buildProviders(config)
	if err != nil {
		return err
	}
	engine, err := tasks.NewEngine(providers, r.logger)
	if err != nil {
		return err
	}

	settings := diversitySettingsFrom(config)
	if cmd.Bool("include-seeds") {
		settings.IncludeSeeds = true
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	progressDone := make(chan struct{})
	go func() {
		defer close(progressDone)
		for update := range progressCh {
			r.logger.Debug(update.Message, "phase", update.Phase.String())
		}
	}()

	playlist, err := engine.GeneratePlaylist(ctx, resolved, targetLength, settings, similarityConfigFrom(config), progressCh)
	close(progressCh)
	<-progressDone
	if err != nil {
		return fmt.Errorf("playlist generation failed: %w", err)
	}

	if outputPath := cmd.String("output"); outputPath != "" {
		var data []byte
		if format := cmd.String("format"); format == "json" {
			data, err = playlistJSON(playlist)
		} else {
			data, err = formatter.Export(playlist, format)
		}
		if err != nil {
			return err
		}
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write playlist file: %w", err)
		}
		r.writePlain("Playlist written to %s\n", outputPath)
		return nil
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlist, cmd.Bool("pretty"))
	}

	r.writePlain("%s\n%s\n\n", playlist.Name, playlist.Description)
	for i, track := range playlist.Tracks {
		r.writePlain("%2d. %s - %s", i+1, track.Artist, track.Name)
		if year := track.ReleaseYear(); year > 0 {
			r.writePlain(" (%d)", year)
		}
		r.writePlain("\n")
	}
	r.writePlain("\n%d tracks, total duration %s\n", len(playlist.Tracks), playlist.Duration().Round(time.Second))
	return nil
}

func playlistJSON(playlist *models.Playlist) ([]byte, error) {
	data, err := json.MarshalIndent(playlist, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal playlist: %w", err)
	}
	return data, nil
}
