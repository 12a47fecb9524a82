// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/votewatch/cliparse"
	"github.com/danielhkuo/votewatch/db"
	"github.com/danielhkuo/votewatch/models"
)

// TestAdminKey is the admin key in GetTestConfig
const TestAdminKey = "test-admin-key"

// Epoch is the fixed instant tests anchor their clocks and fixtures to
var Epoch = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

// SetupTestDB creates a fresh in-memory database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:              3318,
		DatabaseType:      "sqlite",
		DatabaseURL:       ":memory:",
		ElectionAPIURL:    "http://election.test",
		AdminKey:          TestAdminKey,
		RefreshInterval:   30 * time.Second,
		TickInterval:      time.Second,
		NATSSubjectPrefix: "positions.phase",
		AllowedOrigins:    []string{"*"},
	}
}

// Timestamp formats t the way the election API does
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// MakePosition builds a position whose window is offset from Epoch
func MakePosition(id, status string, startOffset, endOffset time.Duration) models.Position {
	return models.Position{
		ID:        id,
		Title:     "Position " + id,
		Status:    status,
		MaxVotes:  1,
		StartTime: Timestamp(Epoch.Add(startOffset)),
		EndTime:   Timestamp(Epoch.Add(endOffset)),
	}
}

// SeedPositions stores positions through the store, failing the test on error
func SeedPositions(t *testing.T, conn *sql.DB, positions ...models.Position) {
	t.Helper()

	store := db.NewStore(conn)
	if err := store.UpsertPositions(context.Background(), positions, Epoch); err != nil {
		t.Fatalf("Failed to seed positions: %v", err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
