// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package window

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/votewatch/models"
)

func TestEvaluate(t *testing.T) {
	start := mustParse(t, dayStart)
	end := mustParse(t, dayEnd)

	tests := []struct {
		name          string
		status        string
		now           time.Time
		phase         Phase
		votingAllowed bool
		countdownTo   string
		remaining     TimeRemaining
		labelPrefix   string
	}{
		{
			name:          "live midday",
			status:        models.StatusLive,
			now:           start.Add(12 * time.Hour),
			phase:         PhaseActive,
			votingAllowed: true,
			countdownTo:   CountdownToEnd,
			remaining:     TimeRemaining{0, 12, 0, 0},
			labelPrefix:   "closes 12 hours from now",
		},
		{
			name:        "pending counts down to start",
			status:      models.StatusPending,
			now:         start.Add(-2 * time.Hour),
			phase:       PhaseNotYetStarted,
			countdownTo: CountdownToStart,
			remaining:   TimeRemaining{0, 2, 0, 0},
			labelPrefix: "opens ",
		},
		{
			name:        "expired",
			status:      models.StatusClosed,
			now:         end.Add(3 * time.Hour),
			phase:       PhaseExpired,
			labelPrefix: "closed 3 hours ago",
		},
		{
			name:        "terminated inside window",
			status:      models.StatusTerminated,
			now:         start.Add(time.Hour),
			phase:       PhaseActive,
			labelPrefix: "terminated",
		},
		{
			name:          "server says pending but window open",
			status:        models.StatusPending,
			now:           start,
			phase:         PhaseActive,
			votingAllowed: true,
			countdownTo:   CountdownToEnd,
			remaining:     TimeRemaining{1, 0, 0, 0},
			labelPrefix:   "closes ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := models.Position{ID: "p1", Status: tt.status, StartTime: dayStart, EndTime: dayEnd}
			w, err := Evaluate(p, tt.now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if w.Phase != tt.phase {
				t.Errorf("Phase = %s, want %s", w.Phase, tt.phase)
			}
			if w.VotingAllowed != tt.votingAllowed {
				t.Errorf("VotingAllowed = %v, want %v", w.VotingAllowed, tt.votingAllowed)
			}
			if w.CountdownTo != tt.countdownTo {
				t.Errorf("CountdownTo = %q, want %q", w.CountdownTo, tt.countdownTo)
			}
			if w.Remaining != tt.remaining {
				t.Errorf("Remaining = %+v, want %+v", w.Remaining, tt.remaining)
			}
			if !strings.HasPrefix(w.Label, tt.labelPrefix) {
				t.Errorf("Label = %q, want prefix %q", w.Label, tt.labelPrefix)
			}
			if got := VotingAllowed(p, tt.now); got != tt.votingAllowed {
				t.Errorf("VotingAllowed() = %v, want %v", got, tt.votingAllowed)
			}
		})
	}
}

func TestEvaluateDeadline(t *testing.T) {
	start := mustParse(t, dayStart)
	end := mustParse(t, dayEnd)
	p := models.Position{Status: models.StatusLive, StartTime: dayStart, EndTime: dayEnd}

	w, _ := Evaluate(p, start.Add(-time.Minute))
	if !w.Deadline().Equal(start) {
		t.Errorf("pending deadline = %v, want %v", w.Deadline(), start)
	}
	w, _ = Evaluate(p, start.Add(time.Minute))
	if !w.Deadline().Equal(end) {
		t.Errorf("live deadline = %v, want %v", w.Deadline(), end)
	}
	w, _ = Evaluate(p, end.Add(time.Minute))
	if !w.Deadline().IsZero() {
		t.Errorf("expired deadline = %v, want zero", w.Deadline())
	}
}

func TestEvaluateInvalid(t *testing.T) {
	p := models.Position{ID: "bad", Status: models.StatusLive, StartTime: "not-a-date", EndTime: dayEnd}

	_, err := Evaluate(p, time.Now())
	if !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow, got %v", err)
	}
	if VotingAllowed(p, time.Now()) {
		t.Error("voting must not be allowed on an invalid window")
	}

	card := Card(p, time.Now())
	if card.Error == "" {
		t.Error("expected card to carry the error")
	}
	if card.Phase != "" || card.Remaining != nil {
		t.Errorf("expected no phase or countdown on invalid card, got %+v", card)
	}
}

func TestCard(t *testing.T) {
	start := mustParse(t, dayStart)
	p := models.Position{
		ID:        "p1",
		Title:     "President",
		Status:    models.StatusLive,
		StartTime: dayStart,
		EndTime:   dayEnd,
	}

	card := Card(p, start.Add(12*time.Hour))
	if card.Phase != string(PhaseActive) || !card.VotingAllowed {
		t.Errorf("unexpected card %+v", card)
	}
	if card.Remaining == nil || card.Remaining.Hours != 12 {
		t.Errorf("expected 12h remaining, got %+v", card.Remaining)
	}

	p.Status = models.StatusTerminated
	p.TerminationMessage = "Irregularities"
	card = Card(p, start.Add(12*time.Hour))
	if card.VotingAllowed || card.Remaining != nil {
		t.Errorf("terminated card should not vote or count down: %+v", card)
	}
	if card.TerminationMessage != "Irregularities" {
		t.Errorf("TerminationMessage = %q", card.TerminationMessage)
	}
}
