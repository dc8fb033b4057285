// Package form holds the intake form's per-session state.
//
// The form keeps values between renders (most notably the departure and
// arrival times set by the "now" buttons). State is an explicit value passed
// to and returned from the server, never process-wide.
package form

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pkordes/diplomatic-drive/internal/domain"
)

// Field names a time-of-day field that can be stamped with the current time.
type Field string

const (
	Departure Field = "departure"
	Arrival   Field = "arrival"
)

// ClockLayout is the HH:MM layout used for departure and arrival times.
const ClockLayout = "15:04"

// State is the intake form as the user has filled it so far.
// Numeric fields are kept as text until submission so a half-typed value
// survives a re-render.
type State struct {
	Date           string `json:"date"`
	DepartureTime  string `json:"departure_time"`
	DeparturePlace string `json:"departure_place"`
	OdometerStart  string `json:"odometer_start"`
	ArrivalTime    string `json:"arrival_time"`
	ArrivalPlace   string `json:"arrival_place"`
	OdometerEnd    string `json:"odometer_end"`
	Cost           string `json:"cost"`
	Purpose        string `json:"purpose"`
}

// Stamp sets the named time field to now, formatted as HH:MM.
// now should already be in the reference zone.
func (s *State) Stamp(field Field, now time.Time) error {
	switch field {
	case Departure:
		s.DepartureTime = now.Format(ClockLayout)
	case Arrival:
		s.ArrivalTime = now.Format(ClockLayout)
	default:
		return fmt.Errorf("%w: unknown time field %q", domain.ErrValidation, field)
	}
	return nil
}

// Trip converts the form into a trip ready for validation by the service.
// It only rejects values that cannot be represented at all: non-integer
// odometers and non-numeric cost. Empty odometers and cost mean 0.
func (s State) Trip() (domain.Trip, error) {
	start, err := parseReading("odometer_start", s.OdometerStart)
	if err != nil {
		return domain.Trip{}, err
	}
	end, err := parseReading("odometer_end", s.OdometerEnd)
	if err != nil {
		return domain.Trip{}, err
	}

	cost := decimal.Zero
	if c := strings.TrimSpace(s.Cost); c != "" {
		cost, err = decimal.NewFromString(strings.ReplaceAll(c, ",", "."))
		if err != nil {
			return domain.Trip{}, fmt.Errorf("%w: cost %q is not a number", domain.ErrValidation, s.Cost)
		}
	}

	return domain.Trip{
		Date:           strings.TrimSpace(s.Date),
		DepartureTime:  strings.TrimSpace(s.DepartureTime),
		DeparturePlace: strings.TrimSpace(s.DeparturePlace),
		OdometerStart:  domain.NewOdometer(start),
		ArrivalTime:    strings.TrimSpace(s.ArrivalTime),
		ArrivalPlace:   strings.TrimSpace(s.ArrivalPlace),
		OdometerEnd:    domain.NewOdometer(end),
		Cost:           cost,
		Purpose:        strings.TrimSpace(s.Purpose),
	}, nil
}

func parseReading(name, v string) (int64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrValidation, name)
	}
	return n, nil
}
