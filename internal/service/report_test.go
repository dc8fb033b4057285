package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/diplomatic-drive/internal/domain"
	"github.com/pkordes/diplomatic-drive/internal/report"
	"github.com/pkordes/diplomatic-drive/internal/service"
	"github.com/pkordes/diplomatic-drive/testutil"
)

// mockTemplate is a test double for service.TemplateSource.
type mockTemplate struct {
	load func() ([]byte, error)
}

func (m *mockTemplate) Load() ([]byte, error) { return m.load() }

var _ service.TemplateSource = (*mockTemplate)(nil)

// ---- helpers ---------------------------------------------------------------

func templateOf(t *testing.T) *mockTemplate {
	body := testutil.NewTemplate(t, 16, 40)
	return &mockTemplate{load: func() ([]byte, error) { return body, nil }}
}

func missingTemplate() *mockTemplate {
	return &mockTemplate{load: func() ([]byte, error) {
		return nil, fmt.Errorf("report.FileTemplate.Load: plantilla_oficial.xlsx: %w", domain.ErrTemplateMissing)
	}}
}

func january(from, to int) domain.ReportRange {
	return domain.ReportRange{
		Start: time.Date(2024, 1, from, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, to, 0, 0, 0, 0, time.UTC),
	}
}

func tripAt(date string, start, end int64) domain.Trip {
	tr := validTrip()
	tr.Date = date
	tr.OdometerStart = domain.NewOdometer(start)
	tr.OdometerEnd = domain.NewOdometer(end)
	return tr
}

// ---- Export ----------------------------------------------------------------

func TestReportService_Export_Scenario(t *testing.T) {
	r, _ := storeRepo(
		tripAt("2024-01-05", 100, 150),
		tripAt("2024-01-10", 150, 140),
		tripAt("2024-01-20", 200, 260),
	)
	svc := service.NewReportService(r, templateOf(t), report.DefaultLayout())

	rep, err := svc.Export(context.Background(), january(1, 15))

	require.NoError(t, err)
	assert.Equal(t, "Report_2024-01-01_2024-01-15.xlsx", rep.Filename)
	assert.Equal(t, 2, rep.Count)
	require.Len(t, rep.Warnings, 1)
	assert.Equal(t, 17, rep.Warnings[0].Row)
	assert.Equal(t, "50", testutil.CellValue(t, rep.Body, testutil.TemplateSheet, "H16"))
	assert.Equal(t, "0", testutil.CellValue(t, rep.Body, testutil.TemplateSheet, "H17"))
	assert.Empty(t, testutil.CellValue(t, rep.Body, testutil.TemplateSheet, "A18"))
}

func TestReportService_Export_EmptyStore_NoRecords(t *testing.T) {
	r, _ := storeRepo()
	svc := service.NewReportService(r, templateOf(t), report.DefaultLayout())

	_, err := svc.Export(context.Background(), january(1, 31))

	assert.ErrorIs(t, err, domain.ErrNoRecords)
}

func TestReportService_Export_NothingInRange_NoRecords(t *testing.T) {
	r, _ := storeRepo(tripAt("2023-12-31", 1, 2))
	svc := service.NewReportService(r, templateOf(t), report.DefaultLayout())

	_, err := svc.Export(context.Background(), january(1, 31))

	assert.ErrorIs(t, err, domain.ErrNoRecords)
}

func TestReportService_Export_TemplateMissing_StoreUntouched(t *testing.T) {
	r, stored := storeRepo(tripAt("2024-01-05", 100, 150))
	appended := false
	r.appendFn = func(_ context.Context, tr domain.Trip) (domain.Trip, error) {
		appended = true
		return tr, nil
	}
	svc := service.NewReportService(r, missingTemplate(), report.DefaultLayout())

	_, err := svc.Export(context.Background(), january(1, 31))

	assert.ErrorIs(t, err, domain.ErrTemplateMissing)
	assert.False(t, appended)
	assert.Len(t, *stored, 1)
}

func TestReportService_Export_StoreUnavailable(t *testing.T) {
	r := &mockTripRepo{
		loadAll: func(_ context.Context) ([]domain.Trip, error) {
			return nil, fmt.Errorf("repo: %w", domain.ErrUnavailable)
		},
	}
	svc := service.NewReportService(r, templateOf(t), report.DefaultLayout())

	_, err := svc.Export(context.Background(), january(1, 31))

	assert.ErrorIs(t, err, domain.ErrUnavailable)
	assert.NotErrorIs(t, err, domain.ErrNoRecords)
}

func TestReportService_Export_InvalidRange(t *testing.T) {
	r, _ := storeRepo()
	svc := service.NewReportService(r, templateOf(t), report.DefaultLayout())

	_, err := svc.Export(context.Background(), january(15, 1))

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestReportService_Export_RespectsLayoutStartRow(t *testing.T) {
	r, _ := storeRepo(tripAt("2024-01-05", 100, 150))
	layout := report.DefaultLayout()
	layout.StartRow = 12
	body := testutil.NewTemplate(t, 12, 40)
	svc := service.NewReportService(r, &mockTemplate{load: func() ([]byte, error) { return body, nil }}, layout)

	rep, err := svc.Export(context.Background(), january(1, 31))

	require.NoError(t, err)
	assert.Equal(t, "05/01/2024", testutil.CellValue(t, rep.Body, testutil.TemplateSheet, "A12"))
}

// The same export over the spreadsheet store, as the server runs by default.
func TestReportService_Export_SheetStore(t *testing.T) {
	store, _ := testutil.NewSheetStore(t,
		tripAt("2024-01-20", 200, 260),
		tripAt("2024-01-05", 100, 150),
	)
	svc := service.NewReportService(store, templateOf(t), report.DefaultLayout())

	rep, err := svc.Export(context.Background(), january(1, 31))

	require.NoError(t, err)
	assert.Equal(t, 2, rep.Count)
	assert.Empty(t, rep.Warnings)
	assert.Equal(t, "05/01/2024", testutil.CellValue(t, rep.Body, testutil.TemplateSheet, "A16"))
	assert.Equal(t, "60", testutil.CellValue(t, rep.Body, testutil.TemplateSheet, "H17"))
}
