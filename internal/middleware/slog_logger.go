// Package middleware provides HTTP middleware for the Diplomatic Drive logbook server.
package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Headers set by the report download. The request log copies them so an
// export's row and clamp counts can be traced without opening the workbook.
const (
	HeaderReportRows     = "X-Report-Rows"
	HeaderReportWarnings = "X-Report-Warnings"
)

// NewSlogLogger returns a middleware that writes one structured line per
// request. Server errors log at ERROR, client errors at WARN, the rest at INFO.
// Report downloads also carry report_rows and report_warnings.
//
// Wire it after chimiddleware.RequestID so request_id is populated.
func NewSlogLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				// Nothing was written; net/http sends 200.
				status = http.StatusOK
			}

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
				slog.String("request_id", chimiddleware.GetReqID(r.Context())),
			}
			attrs = append(attrs, reportAttrs(ww.Header())...)

			log.LogAttrs(r.Context(), levelFor(status), "request", attrs...)
		})
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// reportAttrs returns the report outcome counts when the response carries them.
func reportAttrs(h http.Header) []slog.Attr {
	rows, err := strconv.Atoi(h.Get(HeaderReportRows))
	if err != nil {
		return nil
	}
	warnings, _ := strconv.Atoi(h.Get(HeaderReportWarnings))
	return []slog.Attr{
		slog.Int("report_rows", rows),
		slog.Int("report_warnings", warnings),
	}
}
