package report

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// Layout describes where trips go in a template workbook.
// Templates have changed between office revisions, so the mapping is data:
// ship a YAML file per template revision instead of editing code.
type Layout struct {
	Version int `yaml:"version"`

	// Sheet names the sheet to fill. Empty means the workbook's active sheet.
	Sheet string `yaml:"sheet"`

	// StartRow is the 1-based row of the first trip (R0).
	StartRow int `yaml:"start_row"`

	// DateFormat is the Go layout used to write the date column.
	DateFormat string `yaml:"date_format"`

	Columns Columns `yaml:"columns"`

	// WarningColumn, when set, receives a note on rows whose distance was clamped.
	WarningColumn string `yaml:"warning_column"`
}

// Columns maps each exported field to a column letter.
type Columns struct {
	Date           string `yaml:"date"`
	OdometerStart  string `yaml:"odometer_start"`
	DeparturePlace string `yaml:"departure_place"`
	DepartureTime  string `yaml:"departure_time"`
	OdometerEnd    string `yaml:"odometer_end"`
	ArrivalPlace   string `yaml:"arrival_place"`
	ArrivalTime    string `yaml:"arrival_time"`
	Distance       string `yaml:"distance"`
	Cost           string `yaml:"cost"`
	Purpose        string `yaml:"purpose"`
}

// DefaultLayout returns the mapping for the current official template.
func DefaultLayout() Layout {
	return Layout{
		Version:    2,
		StartRow:   16,
		DateFormat: "02/01/2006",
		Columns: Columns{
			Date:           "A",
			OdometerStart:  "B",
			DeparturePlace: "C",
			DepartureTime:  "D",
			OdometerEnd:    "E",
			ArrivalPlace:   "F",
			ArrivalTime:    "G",
			Distance:       "H",
			Cost:           "J",
			Purpose:        "M",
		},
	}
}

// LayoutFor returns DefaultLayout when path is empty and LoadLayout(path) otherwise.
func LayoutFor(path string) (Layout, error) {
	if path == "" {
		return DefaultLayout(), nil
	}
	return LoadLayout(path)
}

// LoadLayout reads a YAML layout file. Keys absent from the file keep the
// values of DefaultLayout. The result is validated before it is returned.
func LoadLayout(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("report.LoadLayout: %w", err)
	}
	l := DefaultLayout()
	if err := yaml.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("report.LoadLayout: parse %s: %w", path, err)
	}
	if err := l.Validate(); err != nil {
		return Layout{}, fmt.Errorf("report.LoadLayout: %s: %w", path, err)
	}
	return l, nil
}

// Validate checks that every column is a valid, distinct column letter and
// that the start row is positive.
func (l Layout) Validate() error {
	var errs []error
	if l.StartRow < 1 {
		errs = append(errs, fmt.Errorf("start_row must be >= 1, got %d", l.StartRow))
	}
	if strings.TrimSpace(l.DateFormat) == "" {
		errs = append(errs, errors.New("date_format is required"))
	}

	seen := make(map[int]string)
	check := func(field, col string, required bool) {
		if col == "" {
			if required {
				errs = append(errs, fmt.Errorf("column for %s is required", field))
			}
			return
		}
		n, err := excelize.ColumnNameToNumber(col)
		if err != nil {
			errs = append(errs, fmt.Errorf("column for %s: %w", field, err))
			return
		}
		if other, dup := seen[n]; dup {
			errs = append(errs, fmt.Errorf("column %s used by both %s and %s", col, other, field))
			return
		}
		seen[n] = field
	}
	for _, m := range l.mappings() {
		check(m.field, m.col, true)
	}
	check("warning", l.WarningColumn, false)

	return errors.Join(errs...)
}

type mapping struct {
	field string
	col   string
}

func (l Layout) mappings() []mapping {
	c := l.Columns
	return []mapping{
		{"date", c.Date},
		{"odometer_start", c.OdometerStart},
		{"departure_place", c.DeparturePlace},
		{"departure_time", c.DepartureTime},
		{"odometer_end", c.OdometerEnd},
		{"arrival_place", c.ArrivalPlace},
		{"arrival_time", c.ArrivalTime},
		{"distance", c.Distance},
		{"cost", c.Cost},
		{"purpose", c.Purpose},
	}
}

// sheetIn resolves the sheet this layout fills within f.
func (l Layout) sheetIn(f *excelize.File) (string, error) {
	if l.Sheet == "" {
		name := f.GetSheetName(f.GetActiveSheetIndex())
		if name == "" {
			return "", errors.New("template has no active sheet")
		}
		return name, nil
	}
	idx, err := f.GetSheetIndex(l.Sheet)
	if err != nil || idx < 0 {
		return "", fmt.Errorf("template has no sheet %q", l.Sheet)
	}
	return l.Sheet, nil
}
