// Package testutil provides shared test helpers: Trip Store fixtures for both
// backends and in-memory report templates.
//
// Postgres helpers read TEST_DATABASE_URL and skip the calling test when it
// is unset, so the unit suite never needs a database.
package testutil

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // "pgx" driver for goose

	"github.com/pkordes/diplomatic-drive/internal/domain"
	"github.com/pkordes/diplomatic-drive/internal/repo"
)

// SheetName is the worksheet used by NewSheetStore.
const SheetName = "Hoja 1"

// databaseURL returns TEST_DATABASE_URL or skips t.
func databaseURL(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping postgres trip store test")
	}
	return dsn
}

// NewPool connects to the test database. The pool is closed when t ends.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	pool, err := pgxpool.New(context.Background(), databaseURL(t))
	if err != nil {
		t.Fatalf("testutil.NewPool: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := pool.Ping(context.Background()); err != nil {
		t.Fatalf("testutil.NewPool: ping: %v", err)
	}
	return pool
}

// NewSQLDB opens the test database through database/sql, which is what goose
// drives. The handle is closed when t ends.
func NewSQLDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", databaseURL(t))
	if err != nil {
		t.Fatalf("testutil.NewSQLDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.PingContext(context.Background()); err != nil {
		t.Fatalf("testutil.NewSQLDB: ping: %v", err)
	}
	return db
}

// NewTxTripStore returns a postgres Trip Store running inside a transaction
// that is rolled back when t ends, so appends never leak between tests.
// The trips table must already exist; repo's TestMain migrates it.
func NewTxTripStore(t *testing.T) repo.TripRepo {
	t.Helper()

	tx, err := NewPool(t).Begin(context.Background())
	if err != nil {
		t.Fatalf("testutil.NewTxTripStore: begin: %v", err)
	}
	t.Cleanup(func() { _ = tx.Rollback(context.Background()) })

	return repo.NewTripRepo(tx)
}

// NewSheetStore returns a spreadsheet Trip Store in a fresh temp dir, seeded
// with trips in order, and the workbook path. With no trips the workbook
// does not exist yet.
func NewSheetStore(t *testing.T, trips ...domain.Trip) (repo.TripRepo, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "viajes.xlsx")
	store := repo.NewSheetTripRepo(path, SheetName)
	for _, trip := range trips {
		if _, err := store.Append(context.Background(), trip); err != nil {
			t.Fatalf("testutil.NewSheetStore: seed %s: %v", trip.Date, err)
		}
	}
	return store, path
}
