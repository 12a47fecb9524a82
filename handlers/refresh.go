// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/votewatch/auth"
	"github.com/danielhkuo/votewatch/middleware"
	"github.com/danielhkuo/votewatch/models"
	"github.com/danielhkuo/votewatch/refresher"
)

// Refresher is satisfied by *refresher.Refresher
type Refresher interface {
	RefreshOnce(ctx context.Context) (models.RefreshResponse, error)
}

type RefreshHandler struct {
	refresher Refresher
}

func NewRefreshHandler(r Refresher) *RefreshHandler {
	return &RefreshHandler{refresher: r}
}

// Refresh handles POST /refresh
// Requires the admin key (see AdminError). Election API failures are 502,
// anything else is 500.
func (h *RefreshHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	resp, err := h.refresher.RefreshOnce(r.Context())
	if err != nil {
		slog.Error("manual refresh failed", "error", err)
		if errors.Is(err, refresher.ErrSource) {
			middleware.ErrorResponse(w, http.StatusBadGateway, "Election API unavailable")
			return
		}
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Refresh failed")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// AdminError is the auth.RequireAdmin error writer
func AdminError(w http.ResponseWriter, err error) {
	if errors.Is(err, auth.ErrMissingAdminKey) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Admin-Key header required")
		return
	}
	middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
}
