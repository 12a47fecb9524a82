// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines domain, response, and event types for the API.

# Domain Types

Types decoded from the election API and stored in the local mirror:

  - Position: an electable office with raw startTime/endTime strings
  - Candidate: an applicant for a position, with status and vote count

# Response Types

Types for JSON responses:

  - PositionCard: one position with phase, voting gate, and countdown
  - DashboardResponse: active, not_active_or_expired, invalid buckets
  - StatusSummaryResponse: counts per persisted status
  - VotingGateResponse: position_id, voting_allowed, reason
  - LeaderResponse: current leader or winner of a position
  - RefreshResponse: positions, transitions, skipped, removed, refreshed_at
  - CountdownFrame: one tick of the websocket countdown stream
  - ErrorResponse: error, message

# Events

PhaseEvent is emitted when a refresh observes a position moving between
time-window phases (for example not-yet-started to active).

# Constants

Position status values:

	StatusPending    = "pending"
	StatusLive       = "live"
	StatusTerminated = "terminated"
	StatusClosed     = "closed"

Candidate status values:

	CandidateApplied  = "applied"
	CandidateApproved = "approved"
	CandidateRejected = "rejected"
*/
package models
