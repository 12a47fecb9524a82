// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package refresher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/danielhkuo/votewatch/db"
	"github.com/danielhkuo/votewatch/events"
	"github.com/danielhkuo/votewatch/models"
	"github.com/danielhkuo/votewatch/window"
)

const DefaultInterval = 30 * time.Second

// PhaseInvalid is recorded for positions whose window cannot be parsed
const PhaseInvalid = "invalid"

// ErrSource marks refresh failures caused by the election API rather than
// the local store
var ErrSource = errors.New("election API fetch failed")

// Source is where positions are pulled from
type Source interface {
	ListPositions(ctx context.Context, searchTerm string) ([]models.Position, error)
	GetCandidates(ctx context.Context, positionID string) ([]models.Candidate, error)
}

// Refresher mirrors positions into the store and records phase transitions
type Refresher struct {
	source   Source
	store    *db.Store
	pub      events.Publisher
	clock    clockwork.Clock
	interval time.Duration

	// Serializes RefreshOnce between the loop and the manual endpoint.
	mu sync.Mutex
}

func New(source Source, store *db.Store, pub events.Publisher, clock clockwork.Clock, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if pub == nil {
		pub = events.LogPublisher{}
	}
	return &Refresher{
		source:   source,
		store:    store,
		pub:      pub,
		clock:    clock,
		interval: interval,
	}
}

// RefreshOnce pulls every position, mirrors it, and records each position
// whose phase changed since the previous refresh. The first observation of
// a position is not a transition. Positions the API no longer returns, or
// flags isDeleted, are removed from the mirror. Records with an unknown
// status are skipped and never classified.
func (r *Refresher) RefreshOnce(ctx context.Context) (models.RefreshResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	positions, err := r.source.ListPositions(ctx, "")
	if err != nil {
		return models.RefreshResponse{}, fmt.Errorf("%w: %w", ErrSource, err)
	}

	r.backfillCandidates(ctx, positions)

	now := r.clock.Now()
	_, removed, err := r.store.SyncPositions(ctx, positions, now)
	if err != nil {
		return models.RefreshResponse{}, err
	}

	previous, err := r.store.LastPhases(ctx)
	if err != nil {
		return models.RefreshResponse{}, err
	}

	resp := models.RefreshResponse{RefreshedAt: now, Removed: removed}
	for _, p := range positions {
		if p.ID == "" || p.IsDeleted || !models.ValidStatus(p.Status) {
			continue
		}
		resp.Positions++

		phase := PhaseInvalid
		if ph, err := window.Classify(p.StartTime, p.EndTime, now); err == nil {
			phase = string(ph)
		} else if !errors.Is(err, window.ErrInvalidWindow) {
			return resp, err
		}

		prev := previous[p.ID]
		if prev == phase {
			continue
		}

		if prev != "" {
			ev := models.PhaseEvent{
				ID:         uuid.NewString(),
				PositionID: p.ID,
				FromPhase:  prev,
				ToPhase:    phase,
				Status:     p.Status,
				ObservedAt: now,
			}
			if err := r.store.RecordPhaseEvent(ctx, ev); err != nil {
				return resp, err
			}
			if err := r.pub.Publish(ctx, ev); err != nil {
				slog.Error("failed to publish phase event", "event_id", ev.ID, "error", err)
			}
			resp.Transitions++
		}

		if err := r.store.SetLastPhase(ctx, p.ID, phase); err != nil {
			return resp, err
		}
	}

	resp.Skipped = countSkipped(positions)

	slog.Info("positions refreshed",
		"count", resp.Positions,
		"transitions", resp.Transitions,
		"skipped", resp.Skipped,
		"removed", resp.Removed,
	)
	return resp, nil
}

// countSkipped counts records dropped for a missing id or unknown status
func countSkipped(positions []models.Position) int {
	n := 0
	for _, p := range positions {
		if p.IsDeleted {
			continue
		}
		if p.ID == "" || !models.ValidStatus(p.Status) {
			n++
		}
	}
	return n
}

// backfillCandidates fills candidates for live and closed positions the
// list endpoint returned without any
func (r *Refresher) backfillCandidates(ctx context.Context, positions []models.Position) {
	for i := range positions {
		p := &positions[i]
		if p.ID == "" || p.IsDeleted || p.Candidates != nil {
			continue
		}
		if p.Status != models.StatusLive && p.Status != models.StatusClosed {
			continue
		}
		candidates, err := r.source.GetCandidates(ctx, p.ID)
		if err != nil {
			slog.Warn("failed to fetch candidates", "position_id", p.ID, "error", err)
			continue
		}
		p.Candidates = candidates
	}
}

// Run refreshes immediately and then once per interval until ctx is done.
// Failed refreshes are logged and retried on the next tick.
func (r *Refresher) Run(ctx context.Context) {
	r.refreshAndLog(ctx)

	ticker := r.clock.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			r.refreshAndLog(ctx)
		}
	}
}

func (r *Refresher) refreshAndLog(ctx context.Context) {
	if _, err := r.RefreshOnce(ctx); err != nil && ctx.Err() == nil {
		slog.Error("refresh failed", "error", err)
	}
}
