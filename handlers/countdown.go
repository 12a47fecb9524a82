// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/danielhkuo/votewatch/cliparse"
	"github.com/danielhkuo/votewatch/countdown"
	"github.com/danielhkuo/votewatch/db"
	"github.com/danielhkuo/votewatch/middleware"
	"github.com/danielhkuo/votewatch/models"
	"github.com/danielhkuo/votewatch/window"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 512
)

// CountdownHandler streams one countdown per websocket connection
type CountdownHandler struct {
	store    *db.Store
	cfg      cliparse.Config
	clock    clockwork.Clock
	upgrader websocket.Upgrader
}

func NewCountdownHandler(store *db.Store, cfg cliparse.Config, clock clockwork.Clock) *CountdownHandler {
	return &CountdownHandler{
		store: store,
		cfg:   cfg,
		clock: clock,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(cfg.AllowedOrigins),
		},
	}
}

// originChecker accepts requests without an Origin header and origins in
// allowed. "*" allows everything.
func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		// Same host is always fine
		u, err := url.Parse(origin)
		return err == nil && u.Host == r.Host
	}
}

// Stream handles GET /positions/{id}/countdown
// Sends a CountdownFrame per tick and closes after the zero frame
func (h *CountdownHandler) Stream(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	p, err := h.store.GetPosition(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Position not found")
		return
	}
	if err != nil {
		slog.Error("failed to load position", "position_id", id, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	win, err := window.Evaluate(p, h.clock.Now())
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if win.CountdownTo == "" {
		middleware.ErrorResponse(w, http.StatusConflict, "Nothing to count down: "+win.Label)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		slog.Error("failed to upgrade websocket connection", "position_id", p.ID, "error", err)
		return
	}
	defer conn.Close()

	connID := uuid.NewString()
	slog.Info("countdown stream opened", "connection_id", connID, "position_id", p.ID, "to", win.CountdownTo)

	cd := countdown.New(h.clock, win.Deadline(), countdown.WithInterval(h.cfg.TickInterval))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The client sends nothing; reading only detects the close
	go func() {
		defer cancel()
		conn.SetReadLimit(maxMessageSize)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					slog.Warn("unexpected websocket close", "connection_id", connID, "error", err)
				}
				return
			}
		}
	}()

	prefix := "opens in "
	if win.CountdownTo == window.CountdownToEnd {
		prefix = "closes in "
	}

	var writeErr error
	err = cd.Run(ctx, func(tr window.TimeRemaining) {
		if writeErr != nil {
			return
		}
		frame := models.CountdownFrame{
			PositionID: p.ID,
			Remaining:  tr.Response(),
			Label:      prefix + tr.String(),
			Done:       tr.IsZero(),
		}
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if writeErr = conn.WriteJSON(frame); writeErr != nil {
			slog.Error("failed to write countdown frame", "connection_id", connID, "error", writeErr)
			cd.Stop()
		}
	})
	if writeErr != nil {
		return
	}
	if err != nil {
		slog.Info("countdown stream closed by client", "connection_id", connID)
		return
	}

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "countdown finished"))
	slog.Info("countdown stream finished", "connection_id", connID, "position_id", p.ID)
}
