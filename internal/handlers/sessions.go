package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/commerce"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/configurator"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/models"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/services"
	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/telemetry"

	"github.com/gorilla/mux"
)

// Sessions is the configuration session registry
type Sessions interface {
	Create(ctx context.Context, productID string) (string, error)
	With(id string, fn func(*configurator.Session) error) error
	Inspect(id string, fn func(*configurator.Session) error) error
	View(id string) (models.SessionView, error)
	Delete(id string) error
}

// SessionHandler drives server-side configuration sessions
type SessionHandler struct {
	sessions    Sessions
	submissions Submissions
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions Sessions, submissions Submissions) *SessionHandler {
	return &SessionHandler{sessions: sessions, submissions: submissions}
}

// CreateSession handles POST /api/sessions. A product that fails to load
// still yields a session in the error state.
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSessionRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeInvalidJSON(w, r, err)
		return
	}

	id, err := h.sessions.Create(r.Context(), req.ProductID)
	if errors.Is(err, services.ErrProductRequired) {
		writeErrorResponse(w, http.StatusBadRequest, "validation_error", "Product ID is required", []models.ErrorDetail{
			{Field: "productId", Issue: "required"},
		})
		return
	}
	if err != nil {
		slog.Warn("Session created without catalog", "session_id", id, "product_id", req.ProductID, "error", err)
	}

	view, err := h.sessions.View(id)
	if err != nil {
		writeSessionError(w, id, err)
		return
	}
	telemetry.SetProductCount(r.Context(), 1)
	writeJSONResponse(w, http.StatusCreated, view)
}

// GetSession handles GET /api/sessions/{sessionId}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["sessionId"]
	view, err := h.sessions.View(id)
	if err != nil {
		writeSessionError(w, id, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, view)
}

// DeleteSession handles DELETE /api/sessions/{sessionId}
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["sessionId"]
	if err := h.sessions.Delete(id); err != nil {
		writeSessionError(w, id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateAttribute handles PUT /api/sessions/{sessionId}/attributes/{name}
func (h *SessionHandler) UpdateAttribute(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var req models.UpdateSelectionRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeInvalidJSON(w, r, err)
		return
	}

	h.mutate(w, vars["sessionId"], func(s *configurator.Session) error {
		return s.UpdateAttribute(vars["name"], req.Value)
	})
}

// UpdateComponent handles PUT /api/sessions/{sessionId}/components/{groupId}
func (h *SessionHandler) UpdateComponent(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var req models.UpdateSelectionRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeInvalidJSON(w, r, err)
		return
	}

	h.mutate(w, vars["sessionId"], func(s *configurator.Session) error {
		return s.UpdateComponent(vars["groupId"], req.Value)
	})
}

// NextStep handles POST /api/sessions/{sessionId}/steps/next
func (h *SessionHandler) NextStep(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, mux.Vars(r)["sessionId"], func(s *configurator.Session) error {
		if s.Status() != configurator.StatusReady {
			return configurator.ErrNotReady
		}
		s.Navigator().Next()
		return nil
	})
}

// PreviousStep handles POST /api/sessions/{sessionId}/steps/previous
func (h *SessionHandler) PreviousStep(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, mux.Vars(r)["sessionId"], func(s *configurator.Session) error {
		if s.Status() != configurator.StatusReady {
			return configurator.ErrNotReady
		}
		s.Navigator().Previous()
		return nil
	})
}

// JumpToStep handles POST /api/sessions/{sessionId}/steps/{index}
func (h *SessionHandler) JumpToStep(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	index, err := strconv.Atoi(vars["index"])
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "invalid_step", "Step index must be an integer", []models.ErrorDetail{
			{Field: "index", Issue: err.Error()},
		})
		return
	}

	h.mutate(w, vars["sessionId"], func(s *configurator.Session) error {
		if s.Status() != configurator.StatusReady {
			return configurator.ErrNotReady
		}
		return s.Navigator().JumpTo(index)
	})
}

// GetFinancing handles GET /api/sessions/{sessionId}/financing
func (h *SessionHandler) GetFinancing(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["sessionId"]
	term, down, details := parseFinancingQuery(r)
	if len(details) > 0 {
		writeErrorResponse(w, http.StatusBadRequest, "invalid_parameter", "Invalid financing parameters", details)
		return
	}

	var quote configurator.FinancingQuote
	err := h.sessions.Inspect(id, func(s *configurator.Session) error {
		var err error
		quote, err = s.Finance(term, down)
		return err
	})
	if err != nil {
		writeSessionError(w, id, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, quote)
}

// PlaceOrder handles POST /api/sessions/{sessionId}/order
func (h *SessionHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, commerce.KindOrder)
}

// PlaceQuote handles POST /api/sessions/{sessionId}/quote
func (h *SessionHandler) PlaceQuote(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, commerce.KindQuote)
}

// submit snapshots the session under its read lock and places the submission
// outside it. The session is left untouched whatever the outcome.
func (h *SessionHandler) submit(w http.ResponseWriter, r *http.Request, kind commerce.SubmissionKind) {
	telemetry.SetSubmissionKind(r.Context(), string(kind))
	id := mux.Vars(r)["sessionId"]

	var req models.SessionSubmitRequest
	if err := decodeJSON(r, &req, true); err != nil {
		writeInvalidJSON(w, r, err)
		return
	}

	var submission models.SubmissionRequest
	err := h.sessions.Inspect(id, func(s *configurator.Session) error {
		quote, err := s.Finance(req.LeaseTerm, req.DownPayment)
		if err != nil {
			return err
		}
		financing := quote.Financing
		submission = models.SubmissionRequest{
			Configuration: s.Configuration(),
			Financing:     &financing,
		}
		return nil
	})
	if err != nil {
		writeSessionError(w, id, err)
		return
	}

	respondSubmission(w, r, h.submissions, kind, id, submission)
}

// mutate applies fn and responds with the updated session view
func (h *SessionHandler) mutate(w http.ResponseWriter, id string, fn func(*configurator.Session) error) {
	if err := h.sessions.With(id, fn); err != nil {
		writeSessionError(w, id, err)
		return
	}
	view, err := h.sessions.View(id)
	if err != nil {
		writeSessionError(w, id, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, view)
}

func parseFinancingQuery(r *http.Request) (int, *float64, []models.ErrorDetail) {
	query := r.URL.Query()
	var (
		term    int
		down    *float64
		details []models.ErrorDetail
	)

	if raw := query.Get("term"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			details = append(details, models.ErrorDetail{Field: "term", Issue: "must be an integer number of months"})
		}
		term = v
	}
	if raw := query.Get("downPayment"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			details = append(details, models.ErrorDetail{Field: "downPayment", Issue: "must be a number"})
		} else {
			down = &v
		}
	}
	return term, down, details
}

func writeSessionError(w http.ResponseWriter, id string, err error) {
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		writeErrorResponse(w, http.StatusNotFound, "session_not_found", "Session not found", []models.ErrorDetail{
			{Field: "sessionId", Issue: id},
		})
	case errors.Is(err, configurator.ErrNotReady):
		writeErrorResponse(w, http.StatusConflict, "session_not_ready", "Session has no loaded product", nil)
	case errors.Is(err, configurator.ErrUnknownAttribute):
		writeErrorResponse(w, http.StatusBadRequest, "unknown_attribute", err.Error(), nil)
	case errors.Is(err, configurator.ErrUnknownGroup):
		writeErrorResponse(w, http.StatusBadRequest, "unknown_component_group", err.Error(), nil)
	case errors.Is(err, configurator.ErrStepOutOfRange):
		writeErrorResponse(w, http.StatusBadRequest, "invalid_step", err.Error(), nil)
	case errors.Is(err, configurator.ErrUnknownLeaseTerm):
		writeErrorResponse(w, http.StatusBadRequest, "invalid_lease_term", err.Error(), []models.ErrorDetail{
			{Field: "term", Issue: "must be one of 24, 36, 48, 60"},
		})
	default:
		slog.Error("Session operation failed", "session_id", id, "error", err)
		writeErrorResponse(w, http.StatusInternalServerError, "internal_error", "Session operation failed", nil)
	}
}
