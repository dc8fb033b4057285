package report_test

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/diplomatic-drive/internal/domain"
	"github.com/pkordes/diplomatic-drive/internal/report"
)

func TestWriteCSV_HeaderAndRows(t *testing.T) {
	trip := tripOn("2024-01-05", 100, 150)
	trip.Purpose = "Cena, con invitados"
	trip.Cost = decimal.RequireFromString("12.5")
	trip.RecordedAt = time.Date(2024, 1, 5, 9, 20, 0, 0, time.UTC)

	var buf bytes.Buffer
	require.NoError(t, report.WriteCSV(&buf, []domain.Trip{trip}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "id", records[0][0])
	assert.Len(t, records[1], len(records[0]))

	row := records[1]
	assert.Equal(t, trip.ID.String(), row[0])
	assert.Equal(t, "100", row[4])
	assert.Equal(t, "150", row[7])
	assert.Equal(t, "12.50", row[8])
	assert.Equal(t, "Cena, con invitados", row[9])
	assert.Equal(t, "2024-01-05 09:20:00", row[10])
}

func TestWriteCSV_EmptyStoreWritesHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteCSV(&buf, nil))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestWriteCSV_MalformedOdometerKeptRaw(t *testing.T) {
	trip := tripOn("2024-01-05", 100, 0)
	trip.OdometerEnd = domain.Odometer("15O")

	var buf bytes.Buffer
	require.NoError(t, report.WriteCSV(&buf, []domain.Trip{trip}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "15O", records[1][7])
}
