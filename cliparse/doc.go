// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - DatabaseURL: Connection string (default for sqlite: file:votewatch.db)
  - ElectionAPIURL: Base URL of the election REST API (required)
  - ElectionAPIToken: Bearer token sent to the election API
  - AdminKey: Secret for POST /refresh (required)
  - RefreshInterval: How often positions are pulled (default: 30s)
  - TickInterval: Countdown stream tick (default: 1s)
  - NATSURL: Publish phase transitions to NATS when set
  - NATSSubjectPrefix: Subject prefix (default: positions.phase)
  - AllowedOrigins: CORS origins (default: *)

# CLI Flags

	-p            Server port
	-d            Database URL
	-t            Database type
	-api          Election API base URL
	-api-token    Election API token
	-admin-key    Admin key
	-refresh      Refresh interval
	-tick         Countdown tick interval
	-nats         NATS URL
	-nats-prefix  NATS subject prefix
	-origins      Comma separated CORS origins

# Environment Variables

Flags fall back to environment variables:

	PORT                → -p
	DATABASE_URL        → -d
	DATABASE_TYPE       → -t
	ELECTION_API_URL    → -api
	ELECTION_API_TOKEN  → -api-token
	ADMIN_KEY           → -admin-key
	REFRESH_INTERVAL    → -refresh
	TICK_INTERVAL       → -tick
	NATS_URL            → -nats
	NATS_SUBJECT_PREFIX → -nats-prefix
	ALLOWED_ORIGINS     → -origins

CLI flags take precedence over environment variables. main loads a .env
file into the environment before ParseFlags runs.

# Validation

ParseFlags returns an error if:

  - ELECTION_API_URL is missing
  - ADMIN_KEY is missing
  - DATABASE_TYPE is not sqlite or postgres
  - DATABASE_URL is missing for postgres
  - a port or duration cannot be parsed
*/
package cliparse
