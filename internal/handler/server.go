// Package handler implements the HTTP handlers for the Diplomatic Drive logbook.
// All handlers are methods on Server. They are split into resource files
// (health.go, trip.go, report.go) but share the same Server struct so they
// can reach its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/diplomatic-drive/internal/domain"
	"github.com/pkordes/diplomatic-drive/internal/form"
	"github.com/pkordes/diplomatic-drive/spec"
)

// TripServicer defines the trip operations the handlers depend on.
// Defining the interface here, in the consumer package, lets handler tests
// inject a mock without touching a store.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	List(ctx context.Context) ([]domain.Trip, error)
	Draft(ctx context.Context) (form.State, error)
	Stamp(state form.State, field form.Field) (form.State, error)
}

// ReportServicer defines the report export the handlers depend on.
type ReportServicer interface {
	Export(ctx context.Context, rng domain.ReportRange) (domain.Report, error)
}

// Server holds the dependencies of every handler.
type Server struct {
	trips   TripServicer
	reports ReportServicer
	log     *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// A nil logger falls back to slog.Default().
func NewServer(trips TripServicer, reports ReportServicer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{trips: trips, reports: reports, log: log}
}

// Routes returns the API router. Cross-cutting middleware (request IDs,
// logging, CORS, body limits) is applied by the caller.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", serveOpenAPI)

	r.Route("/trips", func(r chi.Router) {
		r.Get("/", s.ListTrips)
		r.Post("/", s.CreateTrip)
		r.Get("/draft", s.GetDraft)
		r.Post("/draft/stamp", s.StampDraft)
	})

	r.Get("/reports", s.GetReport)
	r.Get("/export", s.GetExport)

	return r
}

func serveOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(spec.OpenAPI)
}
