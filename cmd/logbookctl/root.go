package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/pkordes/diplomatic-drive/internal/config"
	"github.com/pkordes/diplomatic-drive/internal/repo"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "logbookctl",
		Short:        "Diplomatic Drive logbook maintenance",
		SilenceUsage: true,
	}
	root.AddCommand(newReportCmd(), newBackupCmd(), newMigrateCmd())
	return root
}

// env is what every subcommand needs: configuration and a logger writing to
// the command's stderr.
type env struct {
	cfg config.Config
	log *slog.Logger
}

func loadEnv(cmd *cobra.Command) (env, error) {
	cfg, err := config.Load()
	if err != nil {
		return env{}, fmt.Errorf("load config: %w", err)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return env{cfg: cfg, log: log}, nil
}

// openStore opens the configured Trip Store. The returned func must be called
// when the command is done with it.
func (e env) openStore(ctx context.Context) (repo.TripRepo, func(), error) {
	trips, closeFn, err := repo.Open(ctx, e.cfg, e.log)
	if err != nil {
		return nil, nil, fmt.Errorf("open trip store: %w", err)
	}
	return trips, closeFn, nil
}
