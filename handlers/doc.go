// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the votewatch API.

# Handler Types

Each handler is a struct with its dependencies injected by constructor:

  - PositionHandler: Dashboard, summary, single window, voting gate, leader, events
  - CountdownHandler: Websocket countdown stream
  - RefreshHandler: Manual resync with the election API

	positionHandler := handlers.NewPositionHandler(store, cfg, clock)

All time-dependent answers are computed at the injected clock's Now, so tests
drive them with a clockwork fake clock.

# Dashboard

	GET /positions?status=&search= → List (active, not_active_or_expired, invalid)
	GET /positions/summary         → Summary (counts per status)
	GET /positions/{id}            → Get (422 when timestamps are malformed)

# Voting Gate

	GET /positions/{id}/voting-allowed → VotingAllowed

Voting is allowed only while the window is active and the position is not
terminated. Malformed windows never allow voting.

# Leader

	GET /positions/{id}/leader → Leader

Live positions report the current leader, closed positions the winner.
Pending and terminated positions answer 409.

# Countdown Stream

	GET /positions/{id}/countdown → Stream (websocket)

Counts down to the start of a not-yet-started window or the end of an active
one. One CountdownFrame per tick; the connection closes with 1000 after the
zero frame.

# Refresh

	POST /refresh → Refresh

Requires the X-Admin-Key header (or Authorization: Bearer).
*/
package handlers
