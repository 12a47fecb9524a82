// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the votewatch API.

# Route Registration

NewRouter builds an http.ServeMux with all endpoints and wraps it with
github.com/rs/cors using ALLOWED_ORIGINS:

	handler := router.NewRouter(store, refresher, cfg, clockwork.NewRealClock())

# Endpoints

Health:

	GET /health

Dashboards (public):

	GET /positions?status=&search=      - Categorized position cards
	GET /positions/summary              - Counts per status
	GET /positions/{id}                 - One position's window
	GET /positions/{id}/voting-allowed  - Voting gate
	GET /positions/{id}/leader          - Current leader or winner
	GET /positions/{id}/events          - Recorded phase transitions
	GET /positions/{id}/countdown       - Websocket countdown

Admin (requires X-Admin-Key):

	POST /refresh - Resync with the election API now
*/
package router
