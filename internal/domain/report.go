package domain

import (
	"fmt"
	"time"
)

// ISODate is the layout used for dates in filenames, query parameters, and
// everything the service itself writes.
const ISODate = "2006-01-02"

// ReportRange is the inclusive date window requested for an export.
// Only the calendar date of Start and End is significant.
type ReportRange struct {
	Start time.Time
	End   time.Time
}

// Validate returns an ErrValidation-wrapped error when either bound is
// missing or End falls before Start.
func (r ReportRange) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrValidation)
	}
	if r.End.Before(r.Start) {
		return fmt.Errorf("%w: end date must not be before start date", ErrValidation)
	}
	return nil
}

// Filename returns the download name for a report over this range.
func (r ReportRange) Filename() string {
	return fmt.Sprintf("Report_%s_%s.xlsx", r.Start.Format(ISODate), r.End.Format(ISODate))
}

// Report is a filled report workbook ready for download.
type Report struct {
	Filename string
	Body     []byte
	// Count is the number of trips written into the template.
	Count int
	// Warnings lists rows whose values were adjusted during export.
	Warnings []ReportWarning
}

// ReportWarning flags a report row whose distance was clamped.
type ReportWarning struct {
	Row     int    `json:"row"`
	TripID  string `json:"trip_id"`
	Message string `json:"message"`
}
