// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/danielhkuo/votewatch/auth"
	"github.com/danielhkuo/votewatch/db"
	"github.com/danielhkuo/votewatch/electionapi"
	"github.com/danielhkuo/votewatch/events"
	"github.com/danielhkuo/votewatch/models"
	"github.com/danielhkuo/votewatch/refresher"
	"github.com/danielhkuo/votewatch/testutil"
)

// fakeElectionAPI serves the positions list endpoint from a mutable slice
type fakeElectionAPI struct {
	mu        sync.Mutex
	positions []models.Position
}

func (f *fakeElectionAPI) set(positions ...models.Position) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.positions = positions
}

func (f *fakeElectionAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"message": "Positions retrieved successfully",
		"data":    f.positions,
	})
}

// TestPositionLifecycle follows one position through its window:
// 1. Pending position is mirrored by a manual refresh
// 2. Dashboard and voting gate before the start
// 3. Start boundary: refresh records a transition, voting opens
// 4. Current leader while live
// 5. End passes: position expires and reports a winner
// 6. Recorded transitions
func TestPositionLifecycle(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	clock := clockwork.NewFakeClockAt(testutil.Epoch)
	store := db.NewStore(conn)

	api := &fakeElectionAPI{}
	apiServer := httptest.NewServer(api)
	defer apiServer.Close()

	client := electionapi.NewClient(apiServer.URL, "", time.Second)
	ref := refresher.New(client, store, events.LogPublisher{}, clock, cfg.RefreshInterval)

	positionHandler := NewPositionHandler(store, cfg, clock)
	refresh := auth.RequireAdmin(cfg.AdminKey, AdminError, NewRefreshHandler(ref).Refresh)
	adminHeaders := map[string]string{"X-Admin-Key": cfg.AdminKey}

	position := testutil.MakePosition("treasurer", models.StatusPending, time.Minute, time.Hour)
	position.Candidates = []models.Candidate{
		{ID: "c1", Name: "Alice", Status: models.CandidateApproved},
		{ID: "c2", Name: "Bob", Status: models.CandidateApproved},
	}

	doRefresh := func(step string, transitions int) {
		t.Helper()
		w := httptest.NewRecorder()
		refresh(w, testutil.MakeRequest("POST", "/refresh", nil, adminHeaders))
		if w.Code != http.StatusOK {
			t.Fatalf("%s - refresh failed: %d - %s", step, w.Code, w.Body.String())
		}
		var resp models.RefreshResponse
		json.NewDecoder(w.Body).Decode(&resp)
		if resp.Positions != 1 || resp.Transitions != transitions {
			t.Fatalf("%s - refresh = %+v, want %d transitions", step, resp, transitions)
		}
	}

	gate := func(step string) models.VotingGateResponse {
		t.Helper()
		w := httptest.NewRecorder()
		positionHandler.VotingAllowed(w, withID(testutil.MakeRequest("GET", "/positions/treasurer/voting-allowed", nil, nil), "treasurer"))
		if w.Code != http.StatusOK {
			t.Fatalf("%s - voting gate failed: %d - %s", step, w.Code, w.Body.String())
		}
		var resp models.VotingGateResponse
		json.NewDecoder(w.Body).Decode(&resp)
		return resp
	}

	// Step 1: mirror the pending position
	api.set(position)
	doRefresh("Step 1", 0)

	// Step 2: dashboard and gate before the start
	w := httptest.NewRecorder()
	positionHandler.List(w, testutil.MakeRequest("GET", "/positions", nil, nil))
	var dash models.DashboardResponse
	json.NewDecoder(w.Body).Decode(&dash)
	if len(dash.Active) != 0 || len(dash.NotActiveOrExpired) != 1 {
		t.Fatalf("Step 2 - unexpected dashboard %+v", dash)
	}
	if card := dash.NotActiveOrExpired[0]; card.CountdownTo != "start" || card.Remaining.Minutes != 1 {
		t.Errorf("Step 2 - unexpected card %+v", card)
	}
	if g := gate("Step 2"); g.VotingAllowed || g.Reason != ReasonNotStarted {
		t.Errorf("Step 2 - gate = %+v", g)
	}

	// Step 3: exactly at the start the window is open
	clock.Advance(time.Minute)
	position.Status = models.StatusLive
	api.set(position)
	doRefresh("Step 3", 1)
	if g := gate("Step 3"); !g.VotingAllowed {
		t.Errorf("Step 3 - gate = %+v", g)
	}

	// Step 4: votes arrive
	position.Candidates[0].Votes = 5
	position.Candidates[1].Votes = 8
	api.set(position)
	doRefresh("Step 4", 0)

	w = httptest.NewRecorder()
	positionHandler.Leader(w, withID(testutil.MakeRequest("GET", "/positions/treasurer/leader", nil, nil), "treasurer"))
	var leader models.LeaderResponse
	json.NewDecoder(w.Body).Decode(&leader)
	if leader.Role != models.LeaderCurrent || leader.Candidate == nil || leader.Candidate.Name != "Bob" {
		t.Errorf("Step 4 - leader = %+v", leader)
	}

	// Step 5: one second past the end
	clock.Advance(59*time.Minute + time.Second)
	position.Status = models.StatusClosed
	api.set(position)
	doRefresh("Step 5", 1)
	if g := gate("Step 5"); g.VotingAllowed || g.Reason != ReasonExpired {
		t.Errorf("Step 5 - gate = %+v", g)
	}

	w = httptest.NewRecorder()
	positionHandler.Leader(w, withID(testutil.MakeRequest("GET", "/positions/treasurer/leader", nil, nil), "treasurer"))
	json.NewDecoder(w.Body).Decode(&leader)
	if leader.Role != models.LeaderWinner || leader.Candidate.Name != "Bob" {
		t.Errorf("Step 5 - winner = %+v", leader)
	}

	// Step 6: both transitions are on record
	w = httptest.NewRecorder()
	positionHandler.Events(w, withID(testutil.MakeRequest("GET", "/positions/treasurer/events", nil, nil), "treasurer"))
	var recorded []models.PhaseEvent
	json.NewDecoder(w.Body).Decode(&recorded)
	if len(recorded) != 2 {
		t.Fatalf("Step 6 - expected 2 events, got %+v", recorded)
	}
	if recorded[0].ToPhase != "active" || recorded[1].ToPhase != "expired" {
		t.Errorf("Step 6 - unexpected events %+v", recorded)
	}
}
