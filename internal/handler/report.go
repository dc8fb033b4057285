package handler

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/diplomatic-drive/internal/domain"
)

// xlsxContentType is the MIME type of an Office Open XML workbook.
const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GetReport handles GET /reports?start=YYYY-MM-DD&end=YYYY-MM-DD.
// It streams the filled report workbook as an attachment. The number of rows
// written and the number of clamped rows are returned in X-Report-Rows and
// X-Report-Warnings.
func (s *Server) GetReport(w http.ResponseWriter, r *http.Request) {
	var start, end openapi_types.Date
	if err := runtime.BindQueryParameter("form", true, true, "start", r.URL.Query(), &start); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, true, "end", r.URL.Query(), &end); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	rep, err := s.reports.Export(r.Context(), domain.ReportRange{Start: start.Time, End: end.Time})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	for _, warn := range rep.Warnings {
		s.log.WarnContext(r.Context(), "report row clamped",
			"row", warn.Row,
			"trip_id", warn.TripID,
			"message", warn.Message,
		)
	}

	h := w.Header()
	h.Set("Content-Type", xlsxContentType)
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": rep.Filename}))
	h.Set("Content-Length", strconv.Itoa(len(rep.Body)))
	h.Set("X-Report-Rows", strconv.Itoa(rep.Count))
	h.Set("X-Report-Warnings", strconv.Itoa(len(rep.Warnings)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(rep.Body)
}
