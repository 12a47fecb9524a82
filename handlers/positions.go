// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/danielhkuo/votewatch/cliparse"
	"github.com/danielhkuo/votewatch/db"
	"github.com/danielhkuo/votewatch/middleware"
	"github.com/danielhkuo/votewatch/models"
	"github.com/danielhkuo/votewatch/window"
)

// Voting gate reasons
const (
	ReasonOpen          = "voting is open"
	ReasonNotStarted    = "voting has not started"
	ReasonExpired       = "voting has ended"
	ReasonTerminated    = "position was terminated"
	ReasonInvalidWindow = "position has an invalid voting window"
)

type PositionHandler struct {
	store *db.Store
	cfg   cliparse.Config
	clock clockwork.Clock
}

func NewPositionHandler(store *db.Store, cfg cliparse.Config, clock clockwork.Clock) *PositionHandler {
	return &PositionHandler{store: store, cfg: cfg, clock: clock}
}

// loadPosition writes the error response itself and reports whether the
// caller should continue
func (h *PositionHandler) loadPosition(w http.ResponseWriter, r *http.Request) (models.Position, bool) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "position id is required")
		return models.Position{}, false
	}

	p, err := h.store.GetPosition(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Position not found")
		return models.Position{}, false
	}
	if err != nil {
		slog.Error("failed to load position", "position_id", id, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.Position{}, false
	}
	return p, true
}

// List handles GET /positions?status=&search=
// Returns the categorized dashboard
func (h *PositionHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := db.Filter{
		Status: r.URL.Query().Get("status"),
		Search: r.URL.Query().Get("search"),
	}
	if filter.Status != "" && !models.ValidStatus(filter.Status) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "status must be pending, live, terminated, or closed")
		return
	}

	positions, err := h.store.ListPositions(r.Context(), filter)
	if err != nil {
		slog.Error("failed to list positions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	now := h.clock.Now()
	buckets := window.Categorize(positions, now)

	resp := models.DashboardResponse{
		GeneratedAt:        now,
		Active:             cards(buckets.Active, now),
		NotActiveOrExpired: cards(buckets.NotActiveOrExpired, now),
		Invalid:            cards(buckets.Invalid, now),
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

func cards(positions []models.Position, now time.Time) []models.PositionCard {
	out := make([]models.PositionCard, 0, len(positions))
	for _, p := range positions {
		out = append(out, window.Card(p, now))
	}
	return out
}

// Summary handles GET /positions/summary
func (h *PositionHandler) Summary(w http.ResponseWriter, r *http.Request) {
	counts, err := h.store.CountByStatus(r.Context())
	if err != nil {
		slog.Error("failed to count positions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	resp := models.StatusSummaryResponse{
		Pending:    counts[models.StatusPending],
		Live:       counts[models.StatusLive],
		Terminated: counts[models.StatusTerminated],
		Closed:     counts[models.StatusClosed],
	}
	resp.Total = resp.Pending + resp.Live + resp.Terminated + resp.Closed
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// Get handles GET /positions/{id}
// Malformed timestamps are reported as 422
func (h *PositionHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadPosition(w, r)
	if !ok {
		return
	}

	card := window.Card(p, h.clock.Now())
	if card.Error != "" {
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, card.Error)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, card)
}

// VotingAllowed handles GET /positions/{id}/voting-allowed
// Invalid windows never allow voting
func (h *PositionHandler) VotingAllowed(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadPosition(w, r)
	if !ok {
		return
	}

	resp := models.VotingGateResponse{PositionID: p.ID}

	win, err := window.Evaluate(p, h.clock.Now())
	switch {
	case err != nil:
		resp.Reason = ReasonInvalidWindow
	case p.Status == models.StatusTerminated:
		resp.Reason = ReasonTerminated
	case win.Phase == window.PhaseNotYetStarted:
		resp.Reason = ReasonNotStarted
	case win.Phase == window.PhaseExpired:
		resp.Reason = ReasonExpired
	default:
		resp.VotingAllowed = win.VotingAllowed
		resp.Reason = ReasonOpen
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// Leader handles GET /positions/{id}/leader
// Reports the approved candidate with the most votes. Ties go to the
// lowest candidate id.
func (h *PositionHandler) Leader(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadPosition(w, r)
	if !ok {
		return
	}

	resp := models.LeaderResponse{PositionID: p.ID}
	switch p.Status {
	case models.StatusLive:
		resp.Role = models.LeaderCurrent
	case models.StatusClosed:
		resp.Role = models.LeaderWinner
	default:
		middleware.ErrorResponse(w, http.StatusConflict, "Position is "+p.Status+"; no leader to report")
		return
	}

	resp.Candidate = topApproved(p.Candidates)
	middleware.JSONResponse(w, http.StatusOK, resp)
}

func topApproved(candidates []models.Candidate) *models.Candidate {
	var best *models.Candidate
	for i := range candidates {
		c := &candidates[i]
		if c.Status != models.CandidateApproved {
			continue
		}
		if best == nil || c.Votes > best.Votes || (c.Votes == best.Votes && c.ID < best.ID) {
			best = c
		}
	}
	if best == nil {
		return nil
	}
	leader := *best
	return &leader
}

// Events handles GET /positions/{id}/events
func (h *PositionHandler) Events(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadPosition(w, r)
	if !ok {
		return
	}

	events, err := h.store.ListPhaseEvents(r.Context(), p.ID)
	if err != nil {
		slog.Error("failed to list phase events", "position_id", p.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, events)
}
