package repo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/pkordes/diplomatic-drive/internal/domain"
)

// Header names of the spreadsheet-backed store. They match the workbook the
// mission already keeps, so existing sheets load without conversion. Columns
// are located by name; their order in the sheet does not matter.
const (
	colDate           = "fecha"
	colDepartureTime  = "hora_salida"
	colDeparturePlace = "lugar_salida"
	colOdometerStart  = "odo_inicial"
	colArrivalTime    = "hora_llegada"
	colArrivalPlace   = "lugar_llegada"
	colOdometerEnd    = "odo_final"
	colCost           = "costo"
	colPurpose        = "asunto"
	colRecordedAt     = "timestamp_registro"
	colID             = "id"
)

var sheetHeader = []string{
	colDate, colDepartureTime, colDeparturePlace, colOdometerStart,
	colArrivalTime, colArrivalPlace, colOdometerEnd, colCost, colPurpose,
	colRecordedAt, colID,
}

// recordedAtLayouts covers timestamps written by this service and by the
// earlier spreadsheet tooling.
var recordedAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
}

// sheetTripRepo stores trips as rows of one sheet in an xlsx workbook.
type sheetTripRepo struct {
	path  string
	sheet string

	// mu serialises read-modify-write cycles on the workbook file.
	mu sync.Mutex
}

// NewSheetTripRepo constructs a TripRepo backed by the workbook at path.
// The workbook and sheet are created on the first Append.
func NewSheetTripRepo(path, sheet string) TripRepo {
	return &sheetTripRepo{path: path, sheet: sheet}
}

// Append writes trip as the next row of the sheet.
func (r *sheetTripRepo) Append(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if err := ctx.Err(); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.SheetTripRepo.Append: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := r.open()
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.SheetTripRepo.Append: %w", err)
	}
	defer f.Close()

	if err := r.ensureSheet(f); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.SheetTripRepo.Append: %w", err)
	}

	rows, err := f.GetRows(r.sheet)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.SheetTripRepo.Append: %w: %w", domain.ErrUnavailable, err)
	}

	header, err := r.ensureHeader(f, rows)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.SheetTripRepo.Append: %w", err)
	}

	next := max(len(rows), 1) + 1
	values := make([]any, len(header))
	for i, name := range header {
		values[i] = fieldValue(trip, name)
	}
	cell, err := excelize.CoordinatesToCellName(1, next)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.SheetTripRepo.Append: %w", err)
	}
	if err := f.SetSheetRow(r.sheet, cell, &values); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.SheetTripRepo.Append: write row %d: %w", next, err)
	}

	if err := f.SaveAs(r.path); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.SheetTripRepo.Append: %w: %w", domain.ErrUnavailable, err)
	}
	return trip, nil
}

// LoadAll reads every data row of the sheet in row order.
// A workbook or sheet that does not exist yet is an empty store.
func (r *sheetTripRepo) LoadAll(ctx context.Context) ([]domain.Trip, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("repo.SheetTripRepo.LoadAll: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := excelize.OpenFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.Trip{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("repo.SheetTripRepo.LoadAll: %w: %w", domain.ErrUnavailable, err)
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(r.sheet); err != nil || idx < 0 {
		return []domain.Trip{}, nil
	}

	rows, err := f.GetRows(r.sheet)
	if err != nil {
		return nil, fmt.Errorf("repo.SheetTripRepo.LoadAll: %w: %w", domain.ErrUnavailable, err)
	}
	// Dates typed by hand become date cells; their raw serial is what the
	// report filter understands, not the locale-formatted display value.
	raw, err := f.GetRows(r.sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("repo.SheetTripRepo.LoadAll: %w: %w", domain.ErrUnavailable, err)
	}

	trips := []domain.Trip{}
	if len(rows) == 0 {
		return trips, nil
	}

	index := headerIndex(rows[0])
	for i := 1; i < len(rows); i++ {
		if blank(rows[i]) {
			continue
		}
		var rawRow []string
		if i < len(raw) {
			rawRow = raw[i]
		}
		trips = append(trips, rowToTrip(rows[i], rawRow, index))
	}
	return trips, nil
}

func (r *sheetTripRepo) open() (*excelize.File, error) {
	f, err := excelize.OpenFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		f = excelize.NewFile()
		if err := f.SetSheetName(f.GetSheetName(0), r.sheet); err != nil {
			f.Close()
			return nil, err
		}
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnavailable, err)
	}
	return f, nil
}

func (r *sheetTripRepo) ensureSheet(f *excelize.File) error {
	if idx, err := f.GetSheetIndex(r.sheet); err == nil && idx >= 0 {
		return nil
	}
	_, err := f.NewSheet(r.sheet)
	return err
}

// ensureHeader returns the sheet's header in column order, writing the
// standard header into an empty sheet and appending any missing columns.
func (r *sheetTripRepo) ensureHeader(f *excelize.File, rows [][]string) ([]string, error) {
	var header []string
	if len(rows) > 0 {
		header = append(header, rows[0]...)
	}
	present := headerIndex(header)
	for _, name := range sheetHeader {
		if _, ok := present[name]; !ok {
			header = append(header, name)
		}
	}
	if len(rows) > 0 && len(header) == len(rows[0]) {
		return header, nil
	}

	row := make([]any, len(header))
	for i, h := range header {
		row[i] = h
	}
	if err := f.SetSheetRow(r.sheet, "A1", &row); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	return header, nil
}

func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		if _, dup := index[name]; !dup && name != "" {
			index[name] = i
		}
	}
	return index
}

func fieldValue(t domain.Trip, column string) any {
	switch strings.ToLower(strings.TrimSpace(column)) {
	case colDate:
		return t.Date
	case colDepartureTime:
		return t.DepartureTime
	case colDeparturePlace:
		return t.DeparturePlace
	case colOdometerStart:
		return odometerCell(t.OdometerStart)
	case colArrivalTime:
		return t.ArrivalTime
	case colArrivalPlace:
		return t.ArrivalPlace
	case colOdometerEnd:
		return odometerCell(t.OdometerEnd)
	case colCost:
		return t.Cost.InexactFloat64()
	case colPurpose:
		return t.Purpose
	case colRecordedAt:
		return t.RecordedAt.Format(time.RFC3339Nano)
	case colID:
		return t.ID.String()
	}
	return nil
}

func odometerCell(o domain.Odometer) any {
	if n, ok := o.Int(); ok {
		return n
	}
	return string(o)
}

func rowToTrip(row, raw []string, index map[string]int) domain.Trip {
	get := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	// Number formats such as #,##0 change the displayed text ("12,345"), so
	// dates, readings and cost come from the stored value instead.
	getRaw := func(name string) string {
		if i, ok := index[name]; ok && i < len(raw) {
			if v := strings.TrimSpace(raw[i]); v != "" {
				return v
			}
		}
		return get(name)
	}

	t := domain.Trip{
		Date:           getRaw(colDate),
		DepartureTime:  get(colDepartureTime),
		DeparturePlace: get(colDeparturePlace),
		OdometerStart:  domain.Odometer(getRaw(colOdometerStart)),
		ArrivalTime:    get(colArrivalTime),
		ArrivalPlace:   get(colArrivalPlace),
		OdometerEnd:    domain.Odometer(getRaw(colOdometerEnd)),
		Purpose:        get(colPurpose),
	}
	if id, err := uuid.Parse(get(colID)); err == nil {
		t.ID = id
	}
	if c, err := decimal.NewFromString(getRaw(colCost)); err == nil {
		t.Cost = c
	}
	for _, layout := range recordedAtLayouts {
		if ts, err := time.Parse(layout, get(colRecordedAt)); err == nil {
			t.RecordedAt = ts
			break
		}
	}
	return t
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
