package handler

import (
	"bytes"
	"net/http"

	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/diplomatic-drive/internal/report"
)

// GetExport handles GET /export.
// It returns every trip in the store, unfiltered, in insertion order.
// Use ?format=json to receive JSON; default is CSV.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	var param *string
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &param); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
		return
	}
	format := "csv"
	if param != nil {
		format = *param
	}
	if format != "csv" && format != "json" {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "format must be csv or json")
		return
	}

	trips, err := s.trips.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if format == "json" {
		writeJSON(w, http.StatusOK, trips)
		return
	}

	// Buffer first so an encoding failure can still become a 500.
	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, trips); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=trips.csv")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
