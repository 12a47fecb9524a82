// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the votewatch server.

votewatch mirrors election positions from the election web app's API and
answers time-window questions about them: which positions are open for
voting, how long until each opens or closes, and who is leading. Both window
boundaries are inclusive.

# Starting the Server

The server requires environment variables or CLI flags for configuration.
A .env file in the working directory is loaded first if present.

	ELECTION_API_URL=https://api.example.edu ADMIN_KEY=... go run .

Or with flags:

	go run . -p 3318 -api https://api.example.edu -admin-key ...

# Configuration

Required settings:

  - ELECTION_API_URL (-api): Base URL of the election API
  - ADMIN_KEY (-admin-key): Key for POST /refresh

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - DATABASE_URL (-d): Connection string (default: file:votewatch.db)
  - ELECTION_API_TOKEN (-api-token): Bearer token for the election API
  - REFRESH_INTERVAL (-refresh): Time between resyncs (default: 30s)
  - TICK_INTERVAL (-tick): Countdown frame interval (default: 1s)
  - NATS_URL (-nats): Publish phase transitions to NATS
  - NATS_SUBJECT_PREFIX (-nats-prefix): Subject prefix (default: positions.phase)
  - ALLOWED_ORIGINS (-origins): Comma separated CORS origins (default: *)

# Architecture

  - window: Phase classification, remaining time, categorization
  - countdown: Ticking countdown over an injectable clock
  - electionapi: Client for the election API
  - refresher: Poll loop that mirrors positions and records transitions
  - events: Transition publishing (NATS or log)
  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing, CORS
  - middleware: Logging, JSON helpers
  - models: Domain and response types
  - auth: Admin key validation
  - db: Schema and store (SQLite or PostgreSQL)
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
