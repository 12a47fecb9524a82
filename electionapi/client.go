// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package electionapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/danielhkuo/votewatch/models"
)

const DefaultTimeout = 30 * time.Second

// APIError is returned for any non-2xx response
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("election API returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("election API returned status %d: %s", e.StatusCode, e.Message)
}

// envelope wraps every election API response body
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client reads positions and candidates from the election API
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// ListPositions fetches every position with its candidates, latest end
// time first. An empty searchTerm matches all positions.
func (c *Client) ListPositions(ctx context.Context, searchTerm string) ([]models.Position, error) {
	endpoint := "/positions/get-positions-with-candidates-and-voters?sort=-endTime&searchTerm=" +
		url.QueryEscape(searchTerm)

	var positions []models.Position
	if err := c.get(ctx, endpoint, &positions); err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	if positions == nil {
		positions = []models.Position{}
	}
	return positions, nil
}

// GetCandidates fetches the candidates standing for one position
func (c *Client) GetCandidates(ctx context.Context, positionID string) ([]models.Candidate, error) {
	endpoint := "/positions/get-candidate-for-position/" + url.PathEscape(positionID)

	var candidates []models.Candidate
	if err := c.get(ctx, endpoint, &candidates); err != nil {
		return nil, fmt.Errorf("failed to get candidates for %s: %w", positionID, err)
	}
	if candidates == nil {
		candidates = []models.Candidate{}
	}
	return candidates, nil
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(body, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(body))
		if decodeErr == nil && env.Message != "" {
			msg = env.Message
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return fmt.Errorf("failed to decode response: %w", decodeErr)
	}
	if !env.Success {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode data: %w", err)
	}
	return nil
}
