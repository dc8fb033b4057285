package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/diplomatic-drive/internal/domain"
	"github.com/pkordes/diplomatic-drive/internal/form"
)

// TripPage is the body of GET /trips.
type TripPage struct {
	Data       []domain.Trip `json:"data"`
	Pagination Pagination    `json:"pagination"`
}

// Pagination describes the window returned in a TripPage.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// ListTrips handles GET /trips.
// Trips are returned in insertion order. page and limit are optional.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	var page, limit *int
	if err := runtime.BindQueryParameter("form", true, false, "page", r.URL.Query(), &page); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
		return
	}

	trips, err := s.trips.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	p := domain.NewPaginationParams(page, limit)
	from, to := p.Window(len(trips))
	writeJSON(w, http.StatusOK, TripPage{
		Data:       trips[from:to],
		Pagination: Pagination{Page: p.Page, Limit: p.Limit, Total: len(trips)},
	})
}

// CreateTrip handles POST /trips.
// The body is the intake form state; it is converted and validated before
// being appended to the store.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	state, ok := s.decodeState(w, r)
	if !ok {
		return
	}

	trip, err := state.Trip()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	saved, err := s.trips.Create(r.Context(), trip)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

// GetDraft handles GET /trips/draft.
// It returns a form prefilled from the last recorded trip.
func (s *Server) GetDraft(w http.ResponseWriter, r *http.Request) {
	state, err := s.trips.Draft(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// StampDraft handles POST /trips/draft/stamp?field=departure|arrival.
func (s *Server) StampDraft(w http.ResponseWriter, r *http.Request) {
	var field string
	if err := runtime.BindQueryParameter("form", true, true, "field", r.URL.Query(), &field); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
		return
	}

	state, ok := s.decodeState(w, r)
	if !ok {
		return
	}

	stamped, err := s.trips.Stamp(state, form.Field(field))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stamped)
}

// decodeState reads a form.State body. On failure it writes the response
// and returns false.
func (s *Server) decodeState(w http.ResponseWriter, r *http.Request) (form.State, bool) {
	var state form.State
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&state); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request_too_large", "request body is too large")
			return form.State{}, false
		}
		writeError(w, http.StatusBadRequest, "invalid_body", fmt.Sprintf("invalid request body: %v", err))
		return form.State{}, false
	}
	return state, true
}
