// Package repo contains the Trip Store backends for the Diplomatic Drive logbook.
// The store is append-only: there is deliberately no update or delete path.
// No business logic lives here, only persistence and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/pkordes/diplomatic-drive/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Integration tests pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TripRepo is the Trip Store contract shared by every backend.
// The service layer depends on this interface, not on a concrete backend.
type TripRepo interface {
	// Append persists a new trip and returns it as stored.
	// Errors wrap domain.ErrUnavailable when the backend cannot be reached.
	Append(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// LoadAll returns every trip in insertion order. An empty store yields
	// an empty slice and a nil error.
	LoadAll(ctx context.Context) ([]domain.Trip, error)
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a Postgres-backed TripRepo.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, to_char(trip_date, 'YYYY-MM-DD'), departure_time, departure_place,
		odometer_start, arrival_time, arrival_place, odometer_end, cost::text, purpose, recorded_at`

// Append inserts a trip row and returns the persisted record.
func (r *pgTripRepo) Append(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	start, ok := trip.OdometerStart.Int()
	if !ok {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Append: %w: odometer_start %q is not an integer", domain.ErrValidation, trip.OdometerStart)
	}
	end, ok := trip.OdometerEnd.Int()
	if !ok {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Append: %w: odometer_end %q is not an integer", domain.ErrValidation, trip.OdometerEnd)
	}

	q := `
		INSERT INTO trips (id, trip_date, departure_time, departure_place, odometer_start,
		                   arrival_time, arrival_place, odometer_end, cost, purpose, recorded_at)
		VALUES (@id, @trip_date::date, @departure_time, @departure_place, @odometer_start,
		        @arrival_time, @arrival_place, @odometer_end, @cost::numeric, @purpose, @recorded_at)
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"id":              trip.ID,
		"trip_date":       trip.Date,
		"departure_time":  trip.DepartureTime,
		"departure_place": trip.DeparturePlace,
		"odometer_start":  start,
		"arrival_time":    trip.ArrivalTime,
		"arrival_place":   trip.ArrivalPlace,
		"odometer_end":    end,
		"cost":            trip.Cost.String(),
		"purpose":         trip.Purpose,
		"recorded_at":     trip.RecordedAt,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Append: %w", storeErr(err))
	}
	return result, nil
}

// LoadAll returns every trip ordered by insertion sequence.
func (r *pgTripRepo) LoadAll(ctx context.Context) ([]domain.Trip, error) {
	q := `SELECT ` + tripColumns + ` FROM trips ORDER BY seq`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.LoadAll: %w", storeErr(err))
	}
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.LoadAll: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.LoadAll: rows: %w", storeErr(err))
	}
	return trips, nil
}

// storeErr marks err as a connectivity failure unless Postgres itself
// answered with an error, in which case the store was reachable.
func storeErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrUnavailable, err)
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrip maps a single database row into a domain.Trip.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t          domain.Trip
		id         pgtype.UUID
		start, end int64
		cost       string
	)

	err := s.Scan(&id, &t.Date, &t.DepartureTime, &t.DeparturePlace, &start,
		&t.ArrivalTime, &t.ArrivalPlace, &end, &cost, &t.Purpose, &t.RecordedAt)
	if err != nil {
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.OdometerStart = domain.NewOdometer(start)
	t.OdometerEnd = domain.NewOdometer(end)
	t.Cost, err = decimal.NewFromString(cost)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("cost %q: %w", cost, err)
	}
	return t, nil
}
