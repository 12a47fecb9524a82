// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package electionapi is a read-only client for the election web app's REST API.

Every response is wrapped in an envelope:

	{"success": true, "message": "...", "data": [...]}

Non-2xx responses, and 2xx responses with success=false, are returned as
*APIError. Timestamps on positions are passed through untouched; parsing
them is the window package's job.

	client := electionapi.NewClient(cfg.ElectionAPIURL, cfg.ElectionAPIToken, 0)
	positions, err := client.ListPositions(ctx, "")
*/
package electionapi
