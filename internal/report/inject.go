package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/pkordes/diplomatic-drive/internal/domain"
)

// Result is a filled template.
type Result struct {
	Body     []byte
	Rows     int
	Warnings []domain.ReportWarning
}

// Inject writes trips into a copy of template, one trip per row starting at
// layout.StartRow, and returns the new workbook.
//
// Only rows [StartRow, StartRow+len(trips)) are touched and only in the mapped
// columns. template itself is never modified. With no trips the template
// bytes are returned unchanged.
func Inject(template []byte, trips []domain.Trip, layout Layout) (Result, error) {
	if err := layout.Validate(); err != nil {
		return Result{}, fmt.Errorf("report.Inject: layout: %w", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(template))
	if err != nil {
		return Result{}, fmt.Errorf("report.Inject: open template: %w", err)
	}
	defer f.Close()

	sheet, err := layout.sheetIn(f)
	if err != nil {
		return Result{}, fmt.Errorf("report.Inject: %w", err)
	}

	if len(trips) == 0 {
		return Result{Body: bytes.Clone(template), Warnings: []domain.ReportWarning{}}, nil
	}

	warnings := []domain.ReportWarning{}
	for i, t := range trips {
		row := layout.StartRow + i
		dist, note := distance(t)

		if err := writeRow(f, sheet, row, layout, t, dist); err != nil {
			return Result{}, fmt.Errorf("report.Inject: row %d: %w", row, err)
		}
		if note == "" {
			continue
		}
		warnings = append(warnings, domain.ReportWarning{Row: row, TripID: t.ID.String(), Message: note})
		if layout.WarningColumn != "" {
			if err := setCell(f, sheet, layout.WarningColumn, row, note); err != nil {
				return Result{}, fmt.Errorf("report.Inject: row %d: %w", row, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return Result{}, fmt.Errorf("report.Inject: write: %w", err)
	}
	return Result{Body: buf.Bytes(), Rows: len(trips), Warnings: warnings}, nil
}

// CheckTemplate opens template and confirms layout can be applied to it.
// Call it at start-up so a mismatched template fails before the first export.
func CheckTemplate(template []byte, layout Layout) error {
	if err := layout.Validate(); err != nil {
		return fmt.Errorf("report.CheckTemplate: layout: %w", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(template))
	if err != nil {
		return fmt.Errorf("report.CheckTemplate: open template: %w", err)
	}
	defer f.Close()
	if _, err := layout.sheetIn(f); err != nil {
		return fmt.Errorf("report.CheckTemplate: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, layout Layout, t domain.Trip, dist int64) error {
	c := layout.Columns

	date := t.Date
	if d, ok := ParseDate(t.Date); ok {
		date = d.Format(layout.DateFormat)
	}

	writes := []struct {
		col   string
		value any
	}{
		{c.Date, date},
		{c.OdometerStart, odometerValue(t.OdometerStart)},
		{c.DeparturePlace, t.DeparturePlace},
		{c.DepartureTime, t.DepartureTime},
		{c.OdometerEnd, odometerValue(t.OdometerEnd)},
		{c.ArrivalPlace, t.ArrivalPlace},
		{c.ArrivalTime, t.ArrivalTime},
		{c.Distance, dist},
		{c.Cost, t.Cost.InexactFloat64()},
		{c.Purpose, t.Purpose},
	}
	for _, w := range writes {
		if err := setCell(f, sheet, w.col, row, w.value); err != nil {
			return err
		}
	}
	return nil
}

func setCell(f *excelize.File, sheet, col string, row int, value any) error {
	cell, err := excelize.JoinCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, value)
}

// odometerValue writes well-formed readings as numbers so the template's
// formulas keep working, and anything else as the raw text.
func odometerValue(o domain.Odometer) any {
	if n, ok := o.Int(); ok {
		return n
	}
	return string(o)
}
