// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package window

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/votewatch/models"
)

// Countdown targets
const (
	CountdownToStart = "start"
	CountdownToEnd   = "end"
)

// Window is the per-position projection rendered on cards
type Window struct {
	Phase         Phase
	Status        string
	Start         time.Time
	End           time.Time
	VotingAllowed bool
	// CountdownTo is empty when nothing is counting down.
	CountdownTo string
	Remaining   TimeRemaining
	Label       string
}

// Deadline is the instant the countdown runs to, or the zero time
func (w Window) Deadline() time.Time {
	switch w.CountdownTo {
	case CountdownToStart:
		return w.Start
	case CountdownToEnd:
		return w.End
	}
	return time.Time{}
}

// Evaluate projects p at now. A terminated position never votes or counts
// down, whatever its timestamps say.
func Evaluate(p models.Position, now time.Time) (Window, error) {
	start, end, err := parseBounds(p.StartTime, p.EndTime)
	if err != nil {
		return Window{}, err
	}

	w := Window{
		Phase:  ClassifyTimes(start, end, now),
		Status: p.Status,
		Start:  start,
		End:    end,
	}

	if p.Status == models.StatusTerminated {
		w.Label = "terminated"
		return w, nil
	}

	switch w.Phase {
	case PhaseNotYetStarted:
		w.CountdownTo = CountdownToStart
		w.Remaining = RemainingUntil(start, now)
		w.Label = "opens " + humanize.RelTime(start, now, "ago", "from now")
	case PhaseActive:
		w.VotingAllowed = true
		w.CountdownTo = CountdownToEnd
		w.Remaining = RemainingUntil(end, now)
		w.Label = "closes " + humanize.RelTime(end, now, "ago", "from now")
	case PhaseExpired:
		w.Label = "closed " + humanize.RelTime(end, now, "ago", "from now")
	}
	return w, nil
}

// VotingAllowed is the vote-submission gate
func VotingAllowed(p models.Position, now time.Time) bool {
	w, err := Evaluate(p, now)
	if err != nil {
		return false
	}
	return w.VotingAllowed
}

// Card renders p for the dashboard. Invalid windows still produce a card
// carrying the error text.
func Card(p models.Position, now time.Time) models.PositionCard {
	card := models.PositionCard{
		ID:                 p.ID,
		Title:              p.Title,
		Status:             p.Status,
		StartTime:          p.StartTime,
		EndTime:            p.EndTime,
		TerminationMessage: p.TerminationMessage,
	}

	w, err := Evaluate(p, now)
	if err != nil {
		card.Error = err.Error()
		return card
	}

	card.Phase = string(w.Phase)
	card.VotingAllowed = w.VotingAllowed
	card.CountdownTo = w.CountdownTo
	card.Label = w.Label
	if w.CountdownTo != "" {
		r := w.Remaining.Response()
		card.Remaining = &r
	}
	return card
}
