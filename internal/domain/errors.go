package domain

import "errors"

// ErrNotFound is returned when a requested resource does not exist.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. empty purpose, final odometer below the initial one).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrUnavailable is returned by a Trip Store backend that cannot be reached.
// It is distinct from an empty store, which is a nil error and zero trips.
// A failed save is not queued or retried.
var ErrUnavailable = errors.New("trip store unavailable")

// ErrTemplateMissing is returned when the report template workbook cannot be
// found. The export is aborted and no partial artifact is produced.
var ErrTemplateMissing = errors.New("report template missing")

// ErrNoRecords is returned by the report export when no trip falls inside the
// requested range. It is a user-facing notice, not a technical failure.
var ErrNoRecords = errors.New("no records in range")
