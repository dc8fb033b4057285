package handler_test

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/diplomatic-drive/internal/domain"
)

func TestGetExport_CSVByDefault(t *testing.T) {
	trip := tripFixture()
	trip.Purpose = "Dinner, with guests"
	svc := &mockTripServicer{
		list: func(_ context.Context) ([]domain.Trip, error) { return []domain.Trip{trip}, nil },
	}

	req := httptest.NewRequest(http.MethodGet, "/export", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))

	records, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "id", records[0][0])
	assert.Equal(t, "recorded_at", records[0][len(records[0])-1])

	row := records[1]
	assert.Equal(t, trip.ID.String(), row[0])
	assert.Equal(t, "2024-01-05", row[1])
	assert.Equal(t, "100", row[4])
	assert.Equal(t, "150", row[7])
	assert.Equal(t, "4.25", row[8])
	assert.Equal(t, "Dinner, with guests", row[9])
	assert.Equal(t, "2024-01-05 09:20:00", row[10])
}

func TestGetExport_JSON(t *testing.T) {
	trips := []domain.Trip{tripFixture(), tripFixture()}
	svc := &mockTripServicer{
		list: func(_ context.Context) ([]domain.Trip, error) { return trips, nil },
	}

	req := httptest.NewRequest(http.MethodGet, "/export?format=json", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []domain.Trip
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 2)
	assert.Equal(t, trips[1].ID, resp[1].ID)
}

func TestGetExport_EmptyStoreHasHeaderOnly(t *testing.T) {
	svc := &mockTripServicer{
		list: func(_ context.Context) ([]domain.Trip, error) { return []domain.Trip{}, nil },
	}

	req := httptest.NewRequest(http.MethodGet, "/export?format=csv", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	assert.Len(t, lines, 1)
}

func TestGetExport_400_UnknownFormat(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/export?format=pdf", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(&mockTripServicer{}, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetExport_503(t *testing.T) {
	svc := &mockTripServicer{
		list: func(_ context.Context) ([]domain.Trip, error) {
			return nil, fmt.Errorf("service.TripService.List: %w", domain.ErrUnavailable)
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/export", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
