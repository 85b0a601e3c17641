package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/skillswap-api/internal/application/match"
	"github.com/skillswap-api/internal/domain"
	"github.com/skillswap-api/internal/pkg/validate"
	"github.com/skillswap-api/internal/transport/http/middleware"
)

// SwipeHandler handles swipe, decision, and match/request listing endpoints.
type SwipeHandler struct {
	svc match.Service
}

func NewSwipeHandler(svc match.Service) *SwipeHandler { return &SwipeHandler{svc: svc} }

// Swipe submits a directed interest signal from the authenticated user.
func (h *SwipeHandler) Swipe(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.SwipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	outcome, err := h.svc.Swipe(r.Context(), claims.UserID, req.Target, domain.SignalKind(req.Kind))
	if err != nil {
		httpError(w, err)
		return
	}
	status := http.StatusOK
	if outcome == domain.OutcomePending {
		status = http.StatusCreated
	}
	writeJSON(w, status, SwipeEnvelope{Outcome: outcome})
}

// Decide resolves an inbound request (accept or reject).
func (h *SwipeHandler) Decide(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	outcome, err := h.svc.Decide(r.Context(), claims.UserID, chi.URLParam(r, "id"), req.Decision)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SwipeEnvelope{Outcome: outcome})
}

// ListPending returns inbound requests waiting on the authenticated user.
func (h *SwipeHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	signals, err := h.svc.ListPending(r.Context(), claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, signals)
}

// ListMatches returns the authenticated user's matches.
func (h *SwipeHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	matches, err := h.svc.ListMatches(r.Context(), claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}
