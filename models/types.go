// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Position status constants, as persisted by the election API
const (
	StatusPending    = "pending"
	StatusLive       = "live"
	StatusTerminated = "terminated"
	StatusClosed     = "closed"
)

// Candidate status constants
const (
	CandidateApplied  = "applied"
	CandidateApproved = "approved"
	CandidateRejected = "rejected"
)

// Leader roles
const (
	LeaderCurrent = "current_leader"
	LeaderWinner  = "winner"
)

// Domain types

// Position is an electable office. StartTime and EndTime are kept as the raw
// strings the election API sent so malformed values can be reported.
type Position struct {
	ID                 string      `json:"_id"`
	Title              string      `json:"title"`
	Description        string      `json:"description"`
	Status             string      `json:"status"`
	TerminationMessage string      `json:"terminationMessage,omitempty"`
	MaxVotes           int         `json:"maxVotes"`
	MaxCandidate       int         `json:"maxCandidate"`
	StartTime          string      `json:"startTime"`
	EndTime            string      `json:"endTime"`
	Candidates         []Candidate `json:"candidates"`
	IsDeleted          bool        `json:"isDeleted,omitempty"`
}

type Candidate struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	StudentID string `json:"studentId"`
	Photo     string `json:"photo,omitempty"`
	Status    string `json:"status"`
	Votes     int    `json:"votes"`
}

// ValidStatus reports whether s is one of the four position statuses
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusLive, StatusTerminated, StatusClosed:
		return true
	}
	return false
}

// Response types

// TimeRemainingResponse mirrors window.TimeRemaining on the wire
type TimeRemainingResponse struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

type PositionCard struct {
	ID                 string                 `json:"id"`
	Title              string                 `json:"title"`
	Status             string                 `json:"status"`
	Phase              string                 `json:"phase,omitempty"`
	StartTime          string                 `json:"start_time"`
	EndTime            string                 `json:"end_time"`
	VotingAllowed      bool                   `json:"voting_allowed"`
	CountdownTo        string                 `json:"countdown_to,omitempty"`
	Remaining          *TimeRemainingResponse `json:"remaining,omitempty"`
	Label              string                 `json:"label,omitempty"`
	TerminationMessage string                 `json:"termination_message,omitempty"`
	Error              string                 `json:"error,omitempty"`
}

type DashboardResponse struct {
	GeneratedAt        time.Time      `json:"generated_at"`
	Active             []PositionCard `json:"active"`
	NotActiveOrExpired []PositionCard `json:"not_active_or_expired"`
	Invalid            []PositionCard `json:"invalid"`
}

type StatusSummaryResponse struct {
	Pending    int `json:"pending"`
	Live       int `json:"live"`
	Terminated int `json:"terminated"`
	Closed     int `json:"closed"`
	Total      int `json:"total"`
}

type VotingGateResponse struct {
	PositionID    string `json:"position_id"`
	VotingAllowed bool   `json:"voting_allowed"`
	Reason        string `json:"reason,omitempty"`
}

type LeaderResponse struct {
	PositionID string     `json:"position_id"`
	Role       string     `json:"role"`
	Candidate  *Candidate `json:"candidate,omitempty"`
}

type RefreshResponse struct {
	Positions   int       `json:"positions"`
	Transitions int       `json:"transitions"`
	Skipped     int       `json:"skipped"`
	Removed     int       `json:"removed"`
	RefreshedAt time.Time `json:"refreshed_at"`
}

// CountdownFrame is one websocket message on the countdown stream
type CountdownFrame struct {
	PositionID string                `json:"position_id"`
	Remaining  TimeRemainingResponse `json:"remaining"`
	Label      string                `json:"label"`
	Done       bool                  `json:"done"`
}

// PhaseEvent records an observed change of a position's time-window phase
type PhaseEvent struct {
	ID         string    `json:"id"`
	PositionID string    `json:"position_id"`
	FromPhase  string    `json:"from_phase"`
	ToPhase    string    `json:"to_phase"`
	Status     string    `json:"status"`
	ObservedAt time.Time `json:"observed_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
