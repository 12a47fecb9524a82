// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/votewatch/auth"
	"github.com/danielhkuo/votewatch/electionapi"
	"github.com/danielhkuo/votewatch/models"
	"github.com/danielhkuo/votewatch/refresher"
	"github.com/danielhkuo/votewatch/testutil"
)

type stubRefresher struct {
	resp  models.RefreshResponse
	err   error
	calls int
}

func (s *stubRefresher) RefreshOnce(ctx context.Context) (models.RefreshResponse, error) {
	s.calls++
	return s.resp, s.err
}

func TestRefresh(t *testing.T) {
	stub := &stubRefresher{resp: models.RefreshResponse{Positions: 4, Transitions: 1, RefreshedAt: testutil.Epoch}}
	h := NewRefreshHandler(stub)
	protected := auth.RequireAdmin(testutil.TestAdminKey, AdminError, h.Refresh)

	testCases := []struct {
		name    string
		headers map[string]string
		status  int
		calls   int
	}{
		{"missing key", nil, http.StatusUnauthorized, 0},
		{"wrong key", map[string]string{"X-Admin-Key": "nope"}, http.StatusUnauthorized, 0},
		{"admin header", map[string]string{"X-Admin-Key": testutil.TestAdminKey}, http.StatusOK, 1},
		{"bearer token", map[string]string{"Authorization": "Bearer " + testutil.TestAdminKey}, http.StatusOK, 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			protected(w, testutil.MakeRequest("POST", "/refresh", nil, tc.headers))
			testutil.AssertStatus(t, w, tc.status)
			if stub.calls != tc.calls {
				t.Errorf("refresh calls = %d, want %d", stub.calls, tc.calls)
			}
			if tc.status == http.StatusOK {
				var resp models.RefreshResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.Positions != 4 || resp.Transitions != 1 {
					t.Errorf("unexpected response %+v", resp)
				}
			}
		})
	}
}

func TestRefreshFailure(t *testing.T) {
	testCases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			"election API down",
			fmt.Errorf("%w: %w", refresher.ErrSource, &electionapi.APIError{StatusCode: 503, Message: "maintenance"}),
			http.StatusBadGateway,
			"Election API unavailable",
		},
		{
			"store failure",
			errors.New("failed to begin transaction: database is locked"),
			http.StatusInternalServerError,
			"Refresh failed",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewRefreshHandler(&stubRefresher{err: tc.err})

			w := httptest.NewRecorder()
			h.Refresh(w, testutil.MakeRequest("POST", "/refresh", nil, nil))
			testutil.AssertStatus(t, w, tc.status)

			var resp models.ErrorResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Message != tc.message {
				t.Errorf("message = %q, want %q", resp.Message, tc.message)
			}
			if strings.Contains(resp.Message, "database") || strings.Contains(resp.Message, "maintenance") {
				t.Errorf("internal error text leaked: %q", resp.Message)
			}
		})
	}
}
