// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package electionapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", "secret-token", time.Second)
}

func TestListPositions(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/positions/get-positions-with-candidates-and-voters" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("sort"); got != "-endTime" {
			t.Errorf("sort = %q", got)
		}
		if got := r.URL.Query().Get("searchTerm"); got != "vice president" {
			t.Errorf("searchTerm = %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret-token" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"message": "Positions retrieved",
			"data": [{
				"_id": "p1",
				"title": "Vice President",
				"status": "live",
				"maxVotes": 1,
				"startTime": "2024-05-01T00:00:00.000Z",
				"endTime": "not a date",
				"candidates": [{"_id": "c1", "name": "Alice", "status": "approved", "votes": 4}]
			}, {
				"_id": "p2",
				"title": "Old Office",
				"status": "closed",
				"isDeleted": true
			}]
		}`))
	})

	positions, err := client.ListPositions(context.Background(), "vice president")
	if err != nil {
		t.Fatalf("ListPositions: %v", err)
	}
	if len(positions) != 2 {
		t.Fatalf("expected 2 positions, got %d", len(positions))
	}
	if positions[0].IsDeleted || !positions[1].IsDeleted {
		t.Errorf("isDeleted not decoded: %v, %v", positions[0].IsDeleted, positions[1].IsDeleted)
	}
	p := positions[0]
	if p.ID != "p1" || p.Status != "live" || p.EndTime != "not a date" {
		t.Errorf("unexpected position %+v", p)
	}
	if len(p.Candidates) != 1 || p.Candidates[0].Votes != 4 {
		t.Errorf("unexpected candidates %+v", p.Candidates)
	}
}

func TestListPositionsNullData(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "data": null}`))
	})

	positions, err := client.ListPositions(context.Background(), "")
	if err != nil {
		t.Fatalf("ListPositions: %v", err)
	}
	if positions == nil || len(positions) != 0 {
		t.Errorf("expected empty slice, got %#v", positions)
	}
}

func TestGetCandidates(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/positions/get-candidate-for-position/p1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"success": true, "data": [
			{"_id": "c1", "name": "Alice", "status": "approved", "votes": 3},
			{"_id": "c2", "name": "Bob", "status": "applied"}
		]}`))
	})

	candidates, err := client.GetCandidates(context.Background(), "p1")
	if err != nil {
		t.Fatalf("GetCandidates: %v", err)
	}
	if len(candidates) != 2 || candidates[1].Status != "applied" {
		t.Errorf("unexpected candidates %+v", candidates)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"envelope message", http.StatusUnauthorized, `{"success": false, "message": "Unauthorized access"}`, 401, "Unauthorized access"},
		{"plain body", http.StatusBadGateway, "upstream down", 502, "upstream down"},
		{"success false on 200", http.StatusOK, `{"success": false, "message": "No positions"}`, 200, "No positions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.ListPositions(context.Background(), "")
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %v", err)
			}
			if apiErr.StatusCode != tt.wantStatus || apiErr.Message != tt.wantMsg {
				t.Errorf("got %+v", apiErr)
			}
		})
	}
}

func TestMalformedBody(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>`))
	})

	_, err := client.ListPositions(context.Background(), "")
	if err == nil {
		t.Fatal("expected decode error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Errorf("decode failure should not be an APIError: %v", err)
	}
}

func TestContextCanceled(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "data": []}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := client.ListPositions(ctx, ""); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
