// Package service contains the business logic for the Diplomatic Drive logbook.
// Services validate inputs, enforce business rules, and orchestrate store
// calls. Services depend on the repo.TripRepo interface, not on a backend.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/diplomatic-drive/internal/domain"
	"github.com/pkordes/diplomatic-drive/internal/form"
	"github.com/pkordes/diplomatic-drive/internal/metrics"
	"github.com/pkordes/diplomatic-drive/internal/repo"
	"github.com/pkordes/diplomatic-drive/internal/report"
)

// TripService implements trip intake: validation, defaults carried over from
// the previous trip, and the append to the Trip Store.
type TripService struct {
	repo repo.TripRepo
	loc  *time.Location
	now  func() time.Time
}

// NewTripService constructs a TripService. loc is the reference time zone for
// recorded_at, today's date, and the "now" buttons.
func NewTripService(r repo.TripRepo, loc *time.Location) *TripService {
	if loc == nil {
		loc = time.UTC
	}
	return &TripService{repo: r, loc: loc, now: time.Now}
}

// WithClock replaces the service clock. Intended for tests.
func (s *TripService) WithClock(now func() time.Time) *TripService {
	s.now = now
	return s
}

// Create validates and appends a new trip.
//
// An empty departure place is taken from the previous trip's arrival place,
// and a zero initial odometer from the previous trip's final reading. The
// store assigns nothing: the ID and recorded_at are set here.
// A store failure is returned as is; the trip is not queued for a retry.
func (s *TripService) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	saved, err := s.create(ctx, trip)
	switch {
	case err == nil:
		metrics.ObserveTripSave(metrics.ResultSuccess)
	case errors.Is(err, domain.ErrValidation):
		metrics.ObserveTripSave(metrics.ResultInvalid)
	case errors.Is(err, domain.ErrUnavailable):
		metrics.ObserveTripSave(metrics.ResultUnavailable)
	default:
		metrics.ObserveTripSave(metrics.ResultError)
	}
	return saved, err
}

func (s *TripService) create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if err := validateFields(&trip); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	if trip.DeparturePlace == "" || trip.OdometerStart.IsSentinel() {
		prev, ok, err := s.last(ctx)
		if err != nil {
			return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
		}
		if ok {
			carryOver(&trip, prev)
		}
	}

	if err := validateOdometers(trip); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	trip.ID = uuid.New()
	trip.RecordedAt = s.now().In(s.loc)

	saved, err := s.repo.Append(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return saved, nil
}

// List returns every trip in insertion order.
func (s *TripService) List(ctx context.Context) ([]domain.Trip, error) {
	trips, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	return trips, nil
}

// Draft returns a new form prefilled with today's date and the previous
// trip's arrival place and final odometer.
func (s *TripService) Draft(ctx context.Context) (form.State, error) {
	state := form.State{Date: s.now().In(s.loc).Format(domain.ISODate)}

	prev, ok, err := s.last(ctx)
	if err != nil {
		return form.State{}, fmt.Errorf("service.TripService.Draft: %w", err)
	}
	if ok {
		state.DeparturePlace = prev.ArrivalPlace
		if n, valid := prev.OdometerEnd.Int(); valid && n > 0 {
			state.OdometerStart = strconv.FormatInt(n, 10)
		}
	}
	return state, nil
}

// Stamp sets one of the form's time fields to the current time in the
// reference zone and returns the updated form.
func (s *TripService) Stamp(state form.State, field form.Field) (form.State, error) {
	if err := state.Stamp(field, s.now().In(s.loc)); err != nil {
		return form.State{}, fmt.Errorf("service.TripService.Stamp: %w", err)
	}
	return state, nil
}

// last returns the most recently appended trip, if any.
func (s *TripService) last(ctx context.Context) (domain.Trip, bool, error) {
	trips, err := s.repo.LoadAll(ctx)
	if err != nil {
		return domain.Trip{}, false, err
	}
	if len(trips) == 0 {
		return domain.Trip{}, false, nil
	}
	return trips[len(trips)-1], true, nil
}

func carryOver(trip *domain.Trip, prev domain.Trip) {
	if trip.DeparturePlace == "" {
		trip.DeparturePlace = prev.ArrivalPlace
	}
	if trip.OdometerStart.IsSentinel() {
		if n, ok := prev.OdometerEnd.Int(); ok && n > 0 {
			trip.OdometerStart = domain.NewOdometer(n)
		}
	}
}

// validateFields checks everything that does not depend on the previous trip
// and normalises the date to YYYY-MM-DD.
func validateFields(trip *domain.Trip) error {
	trip.Purpose = strings.TrimSpace(trip.Purpose)
	if trip.Purpose == "" {
		return fmt.Errorf("%w: purpose is required", domain.ErrValidation)
	}

	d, ok := report.ParseDate(trip.Date)
	if !ok {
		return fmt.Errorf("%w: date %q is not a valid date", domain.ErrValidation, trip.Date)
	}
	trip.Date = d.Format(domain.ISODate)

	if trip.DepartureTime == "" || trip.ArrivalTime == "" {
		return fmt.Errorf("%w: departure and arrival times are required", domain.ErrValidation)
	}
	if _, err := time.Parse(form.ClockLayout, trip.DepartureTime); err != nil {
		return fmt.Errorf("%w: departure_time must be HH:MM", domain.ErrValidation)
	}
	if _, err := time.Parse(form.ClockLayout, trip.ArrivalTime); err != nil {
		return fmt.Errorf("%w: arrival_time must be HH:MM", domain.ErrValidation)
	}

	if trip.Cost.IsNegative() {
		return fmt.Errorf("%w: cost must not be negative", domain.ErrValidation)
	}
	return nil
}

// validateOdometers enforces odometer_end >= odometer_start, except for the
// sentinel final reading 0 which means "not yet entered".
func validateOdometers(trip domain.Trip) error {
	start, ok := trip.OdometerStart.Int()
	if !ok || start < 0 {
		return fmt.Errorf("%w: odometer_start must be a non-negative integer", domain.ErrValidation)
	}
	end, ok := trip.OdometerEnd.Int()
	if !ok || end < 0 {
		return fmt.Errorf("%w: odometer_end must be a non-negative integer", domain.ErrValidation)
	}
	if end != 0 && end < start {
		return fmt.Errorf("%w: final odometer is lower than the initial odometer", domain.ErrValidation)
	}
	return nil
}
