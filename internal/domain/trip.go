// Package domain contains the core data types for the Diplomatic Drive logbook.
// Apart from uuid and decimal it has no external dependencies and is imported
// by every other internal package (repo, report, service, handler).
package domain

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Trip is one logged vehicle movement.
// Trips are append-only: once persisted they are never updated or deleted.
type Trip struct {
	ID uuid.UUID `json:"id"`

	// Date is kept as the text the store holds. Older rows use DD/MM/YYYY,
	// newer ones YYYY-MM-DD, and hand-edited sheets may hold Excel serials.
	Date string `json:"date"`

	DepartureTime  string   `json:"departure_time"` // HH:MM
	DeparturePlace string   `json:"departure_place,omitempty"`
	OdometerStart  Odometer `json:"odometer_start"`

	ArrivalTime  string   `json:"arrival_time"` // HH:MM
	ArrivalPlace string   `json:"arrival_place,omitempty"`
	OdometerEnd  Odometer `json:"odometer_end"` // "0" means not yet entered

	Cost    decimal.Decimal `json:"cost"`
	Purpose string          `json:"purpose"`

	// RecordedAt is assigned by the service at creation, in the reference zone.
	RecordedAt time.Time `json:"recorded_at"`
}

// Odometer is an odometer reading as it came out of the store.
// Readings written through the intake form are always integers; rows edited
// by hand in the spreadsheet backend may not be.
type Odometer string

// NewOdometer returns the reading for n kilometres.
func NewOdometer(n int64) Odometer {
	return Odometer(strconv.FormatInt(n, 10))
}

// Int returns the integer value of the reading and whether it is well formed.
// Spreadsheet exports sometimes store integers as "150.0", which is accepted.
func (o Odometer) Int() (int64, bool) {
	s := strings.TrimSpace(string(o))
	if s == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int64(f)) {
		return 0, false
	}
	return int64(f), true
}

// IsSentinel reports whether the reading is the "not yet entered" value 0.
func (o Odometer) IsSentinel() bool {
	n, ok := o.Int()
	return ok && n == 0
}

// MarshalJSON writes well-formed readings as JSON numbers and anything else
// as the raw string, so malformed sheet data survives a round trip.
func (o Odometer) MarshalJSON() ([]byte, error) {
	if n, ok := o.Int(); ok {
		return []byte(strconv.FormatInt(n, 10)), nil
	}
	return json.Marshal(string(o))
}

// UnmarshalJSON accepts either a JSON number or a string.
func (o *Odometer) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*o = Odometer(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*o = Odometer(n.String())
	return nil
}
