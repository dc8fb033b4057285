// Package report turns Trip Store contents into the office report workbook.
// Filter selects and orders trips for a date range; Inject copies them into
// fixed cells of a pre-formatted template.
package report

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/pkordes/diplomatic-drive/internal/domain"
)

// dateLayouts lists the textual date formats found in the store, tried in order.
// "2/1/2006" is the local DD/MM/YYYY convention and also matches zero-padded input.
var dateLayouts = []string{
	domain.ISODate,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999",
	time.RFC3339,
	"2/1/2006",
}

// Excel serials outside this window are treated as plain numbers, not dates.
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465 // 9999-12-31
)

// ParseDate parses a stored trip date and returns its calendar day at UTC
// midnight. The second result is false when s matches no known format.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return day(t), true
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial >= minExcelSerial && serial <= maxExcelSerial {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return day(t), true
		}
	}
	return time.Time{}, false
}

// Filter returns the trips whose date lies within rng, inclusive on both ends,
// sorted ascending by date. The sort is stable so trips sharing a date keep
// their store order. Trips with an unparseable date are left out silently.
//
// The result is never nil.
func Filter(trips []domain.Trip, rng domain.ReportRange) []domain.Trip {
	start, end := day(rng.Start), day(rng.End)

	type dated struct {
		trip domain.Trip
		day  time.Time
	}
	selected := make([]dated, 0, len(trips))
	for _, t := range trips {
		d, ok := ParseDate(t.Date)
		if !ok || d.Before(start) || d.After(end) {
			continue
		}
		selected = append(selected, dated{trip: t, day: d})
	}

	slices.SortStableFunc(selected, func(a, b dated) int {
		return a.day.Compare(b.day)
	})

	out := make([]domain.Trip, len(selected))
	for i, s := range selected {
		out[i] = s.trip
	}
	return out
}

// day drops the clock and zone of t, keeping its calendar date.
func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
