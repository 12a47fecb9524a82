// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package window

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Phase is the time-derived state of a voting window
type Phase string

const (
	PhaseNotYetStarted Phase = "not-yet-started"
	PhaseActive        Phase = "active"
	PhaseExpired       Phase = "expired"
)

var ErrInvalidWindow = errors.New("invalid window")

// InvalidWindowError names the timestamp that could not be parsed
type InvalidWindowError struct {
	Field string
	Value string
}

func (e *InvalidWindowError) Error() string {
	if strings.TrimSpace(e.Value) == "" {
		return fmt.Sprintf("invalid window: %s is missing", e.Field)
	}
	return fmt.Sprintf("invalid window: %s %q is not a timestamp", e.Field, e.Value)
}

func (e *InvalidWindowError) Unwrap() error {
	return ErrInvalidWindow
}

// Accepted layouts, tried in order. Zone-less values are read as UTC.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp parses an ISO 8601 timestamp as sent by the election API.
// Values without a zone offset are read as UTC, not the host's local time.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	var firstErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

func parseBounds(start, end string) (time.Time, time.Time, error) {
	s, err := ParseTimestamp(start)
	if err != nil {
		return time.Time{}, time.Time{}, &InvalidWindowError{Field: "start_time", Value: start}
	}
	e, err := ParseTimestamp(end)
	if err != nil {
		return time.Time{}, time.Time{}, &InvalidWindowError{Field: "end_time", Value: end}
	}
	return s, e, nil
}

// Classify returns the phase of the window [start, end] at now.
// Both boundaries are inclusive.
func Classify(start, end string, now time.Time) (Phase, error) {
	s, e, err := parseBounds(start, end)
	if err != nil {
		return "", err
	}
	return ClassifyTimes(s, e, now), nil
}

// ClassifyTimes is Classify for already parsed bounds
func ClassifyTimes(start, end, now time.Time) Phase {
	switch {
	case now.Before(start):
		return PhaseNotYetStarted
	case now.After(end):
		return PhaseExpired
	default:
		return PhaseActive
	}
}
