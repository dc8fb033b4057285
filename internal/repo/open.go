package repo

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver for goose

	"github.com/pkordes/diplomatic-drive/internal/config"
	"github.com/pkordes/diplomatic-drive/migrations"
)

// Open returns the Trip Store selected by cfg.StoreBackend and a func that
// releases it. For postgres it connects, verifies the database is reachable,
// and applies pending migrations before returning.
func Open(ctx context.Context, cfg config.Config, log *slog.Logger) (TripRepo, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendSheet:
		log.Info("using spreadsheet trip store", "path", cfg.SheetPath, "sheet", cfg.SheetName)
		return NewSheetTripRepo(cfg.SheetPath, cfg.SheetName), func() {}, nil

	case config.BackendPostgres:
		// pgxpool.New does not open connections immediately; the ping does.
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("repo.Open: create pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("repo.Open: ping: %w", err)
		}

		n, err := Migrate(ctx, cfg.DatabaseURL)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("repo.Open: %w", err)
		}
		log.Info("using postgres trip store", "migrations_applied", n)
		return NewTripRepo(pool), pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("repo.Open: unknown store backend %q", cfg.StoreBackend)
	}
}

// Migrate applies pending migrations to the database at dsn over a
// short-lived database/sql handle, which is what goose drives. It reports how
// many migrations ran.
func Migrate(ctx context.Context, dsn string) (int, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return 0, fmt.Errorf("repo.Migrate: open: %w", err)
	}
	defer db.Close()

	n, err := migrations.Up(ctx, db)
	if err != nil {
		return 0, fmt.Errorf("repo.Migrate: %w", err)
	}
	return n, nil
}
