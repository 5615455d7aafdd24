package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/seedmix/seedmix/internal/repositories"
	"github.com/seedmix/seedmix/internal/shared"
)

func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Resolution cache maintenance",
		Commands: []*cli.Command{
			{
				Name:  "prune",
				Usage: "Remove expired resolution entries",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.CachePrune,
			},
		},
	}
}

// CachePrune deletes expired entries from the SQLite resolution cache.
func (r *Runner) CachePrune(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)
	if config.Cache.Path == "" {
		return fmt.Errorf("%w: no cache path configured", shared.ErrMissingConfig)
	}

	db, err := shared.NewDatabase(config.Cache.Path)
	if err != nil {
		return fmt.Errorf("failed to open cache database: %w", err)
	}
	defer db.Close()

	cache, err := repositories.NewSQLiteCache(db)
	if err != nil {
		return err
	}

	pruned, err := cache.Prune(ctx)
	if err != nil {
		return err
	}

	r.writePlain("Pruned %d expired cache entries\n", pruned)
	return nil
}
