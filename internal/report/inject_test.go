package report_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/diplomatic-drive/internal/domain"
	"github.com/pkordes/diplomatic-drive/internal/report"
	"github.com/pkordes/diplomatic-drive/testutil"
)

const (
	startRow  = 16
	footerRow = 40
)

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// ---- Distance --------------------------------------------------------------

func TestDistance(t *testing.T) {
	tests := []struct {
		name       string
		start, end domain.Odometer
		want       int64
	}{
		{"plain difference", "100", "150", 50},
		{"zero length", "150", "150", 0},
		{"negative clamped", "150", "140", 0},
		{"final not entered", "150", "0", 0},
		{"both zero", "0", "0", 0},
		{"float formatted", "100.0", "175.0", 75},
		{"non-numeric start", "abc", "150", 0},
		{"missing end", "100", "", 0},
		{"fractional reading", "100.5", "150", 0},
		{"negative reading", "-10", "150", 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			trip := domain.Trip{OdometerStart: tc.start, OdometerEnd: tc.end}
			assert.Equal(t, tc.want, report.Distance(trip))
		})
	}
}

// ---- Inject ----------------------------------------------------------------

func TestInject_WritesMappedColumns(t *testing.T) {
	tmpl := testutil.NewTemplate(t, startRow, footerRow)
	trip := tripOn("2024-01-05", 100, 150)
	trip.DeparturePlace = "Embajada"
	trip.ArrivalPlace = "Cancilleria"
	trip.DepartureTime = "08:15"
	trip.ArrivalTime = "09:05"
	trip.Cost = decimal.RequireFromString("12.50")
	trip.Purpose = "Entrega de notas diplomaticas"

	res, err := report.Inject(tmpl, []domain.Trip{trip}, report.DefaultLayout())

	require.NoError(t, err)
	assert.Equal(t, 1, res.Rows)
	assert.Empty(t, res.Warnings)

	want := map[string]string{
		"A": "05/01/2024",
		"B": "100",
		"C": "Embajada",
		"D": "08:15",
		"E": "150",
		"F": "Cancilleria",
		"G": "09:05",
		"H": "50",
		"I": "",
		"J": "12.5",
		"K": "",
		"L": "",
		"M": "Entrega de notas diplomaticas",
	}
	for col, v := range want {
		assert.Equal(t, v, testutil.CellValue(t, res.Body, testutil.TemplateSheet, cell(col, startRow)), "column %s", col)
	}
}

func TestInject_ConsecutiveRowsInOrder(t *testing.T) {
	tmpl := testutil.NewTemplate(t, startRow, footerRow)
	trips := []domain.Trip{
		tripOn("2024-01-05", 100, 150),
		tripOn("2024-01-06", 150, 180),
		tripOn("2024-01-07", 180, 200),
	}

	res, err := report.Inject(tmpl, trips, report.DefaultLayout())

	require.NoError(t, err)
	for i, want := range []string{"05/01/2024", "06/01/2024", "07/01/2024"} {
		assert.Equal(t, want, testutil.CellValue(t, res.Body, testutil.TemplateSheet, cell("A", startRow+i)))
	}
	assert.Empty(t, testutil.CellValue(t, res.Body, testutil.TemplateSheet, cell("A", startRow+3)))
}

func TestInject_PreservesRowsOutsideWindow(t *testing.T) {
	tmpl := testutil.NewTemplate(t, startRow, footerRow)
	before := testutil.ReadRows(t, tmpl, testutil.TemplateSheet)
	trips := []domain.Trip{tripOn("2024-01-05", 100, 150), tripOn("2024-01-06", 150, 180)}

	res, err := report.Inject(tmpl, trips, report.DefaultLayout())

	require.NoError(t, err)
	after := testutil.ReadRows(t, res.Body, testutil.TemplateSheet)
	require.Len(t, after, len(before))
	for i := range before {
		row := i + 1
		if row >= startRow && row < startRow+len(trips) {
			continue
		}
		assert.Equal(t, before[i], after[i], "row %d changed", row)
	}
	assert.Equal(t, "Firma del responsable", testutil.CellValue(t, res.Body, testutil.TemplateSheet, cell("A", footerRow)))
}

func TestInject_NoTrips_ReturnsTemplateUnchanged(t *testing.T) {
	tmpl := testutil.NewTemplate(t, startRow, footerRow)

	res, err := report.Inject(tmpl, []domain.Trip{}, report.DefaultLayout())

	require.NoError(t, err)
	assert.Equal(t, tmpl, res.Body)
	assert.Zero(t, res.Rows)
}

func TestInject_DoesNotModifyTemplateSlice(t *testing.T) {
	tmpl := testutil.NewTemplate(t, startRow, footerRow)
	orig := append([]byte(nil), tmpl...)

	_, err := report.Inject(tmpl, []domain.Trip{tripOn("2024-01-05", 100, 150)}, report.DefaultLayout())

	require.NoError(t, err)
	assert.Equal(t, orig, tmpl)
}

// Records dated 2024-01-05 and 2024-01-10 fall inside 2024-01-01..15; the
// second has a final reading below the initial one and is clamped to 0.
func TestInject_FilteredScenario(t *testing.T) {
	tmpl := testutil.NewTemplate(t, startRow, footerRow)
	store := []domain.Trip{
		tripOn("2024-01-05", 100, 150),
		tripOn("2024-01-10", 150, 140),
		tripOn("2024-01-20", 200, 260),
	}

	trips := report.Filter(store, rng(date(2024, 1, 1), date(2024, 1, 15)))
	res, err := report.Inject(tmpl, trips, report.DefaultLayout())

	require.NoError(t, err)
	assert.Equal(t, 2, res.Rows)
	assert.Equal(t, "50", testutil.CellValue(t, res.Body, testutil.TemplateSheet, cell("H", startRow)))
	assert.Equal(t, "0", testutil.CellValue(t, res.Body, testutil.TemplateSheet, cell("H", startRow+1)))
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, startRow+1, res.Warnings[0].Row)
	assert.Equal(t, store[1].ID.String(), res.Warnings[0].TripID)
	assert.Empty(t, testutil.CellValue(t, res.Body, testutil.TemplateSheet, cell("A", startRow+2)))
}

func TestInject_WarningColumn(t *testing.T) {
	tmpl := testutil.NewTemplate(t, startRow, footerRow)
	layout := report.DefaultLayout()
	layout.WarningColumn = "N"

	res, err := report.Inject(tmpl, []domain.Trip{tripOn("2024-01-10", 150, 0)}, layout)

	require.NoError(t, err)
	assert.Equal(t, "final odometer not entered",
		testutil.CellValue(t, res.Body, testutil.TemplateSheet, cell("N", startRow)))
}

func TestInject_MalformedOdometersWrittenRaw(t *testing.T) {
	tmpl := testutil.NewTemplate(t, startRow, footerRow)
	trip := tripOn("2024-01-05", 0, 0)
	trip.OdometerStart = "n/d"

	res, err := report.Inject(tmpl, []domain.Trip{trip}, report.DefaultLayout())

	require.NoError(t, err)
	assert.Equal(t, "n/d", testutil.CellValue(t, res.Body, testutil.TemplateSheet, cell("B", startRow)))
	assert.Equal(t, "0", testutil.CellValue(t, res.Body, testutil.TemplateSheet, cell("H", startRow)))
	assert.Empty(t, res.Warnings)
}

func TestInject_CustomStartRow(t *testing.T) {
	tmpl := testutil.NewTemplate(t, 12, footerRow)
	layout := report.DefaultLayout()
	layout.StartRow = 12

	res, err := report.Inject(tmpl, []domain.Trip{tripOn("2024-01-05", 100, 150)}, layout)

	require.NoError(t, err)
	assert.Equal(t, "05/01/2024", testutil.CellValue(t, res.Body, testutil.TemplateSheet, "A12"))
	assert.Equal(t, "Fecha", testutil.CellValue(t, res.Body, testutil.TemplateSheet, "A11"))
}

func TestInject_NamedSheetMissing(t *testing.T) {
	tmpl := testutil.NewTemplate(t, startRow, footerRow)
	layout := report.DefaultLayout()
	layout.Sheet = "Hoja 2"

	_, err := report.Inject(tmpl, []domain.Trip{tripOn("2024-01-05", 100, 150)}, layout)

	require.Error(t, err)
	assert.ErrorContains(t, err, "Hoja 2")
}

func TestInject_InvalidTemplateBytes(t *testing.T) {
	_, err := report.Inject([]byte("not a workbook"), []domain.Trip{tripOn("2024-01-05", 1, 2)}, report.DefaultLayout())

	assert.Error(t, err)
}

func TestInject_InvalidLayout(t *testing.T) {
	tmpl := testutil.NewTemplate(t, startRow, footerRow)
	layout := report.DefaultLayout()
	layout.StartRow = 0

	_, err := report.Inject(tmpl, []domain.Trip{tripOn("2024-01-05", 1, 2)}, layout)

	assert.ErrorContains(t, err, "start_row")
}

func TestCheckTemplate(t *testing.T) {
	tmpl := testutil.NewTemplate(t, startRow, footerRow)

	require.NoError(t, report.CheckTemplate(tmpl, report.DefaultLayout()))

	layout := report.DefaultLayout()
	layout.Sheet = "Otra"
	assert.Error(t, report.CheckTemplate(tmpl, layout))
}

// ---- FileTemplate ----------------------------------------------------------

func TestFileTemplate_Missing(t *testing.T) {
	src := report.FileTemplate{Path: filepath.Join(t.TempDir(), "plantilla_oficial.xlsx")}

	_, err := src.Load()

	assert.ErrorIs(t, err, domain.ErrTemplateMissing)
}

func TestFileTemplate_Load(t *testing.T) {
	tmpl := testutil.NewTemplate(t, startRow, footerRow)
	path := filepath.Join(t.TempDir(), "plantilla_oficial.xlsx")
	require.NoError(t, os.WriteFile(path, tmpl, 0o600))

	got, err := report.FileTemplate{Path: path}.Load()

	require.NoError(t, err)
	assert.Equal(t, tmpl, got)
}
