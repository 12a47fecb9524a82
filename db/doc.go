// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db holds the local mirror of positions pulled from the election API.

# Connecting

Open selects the driver from DATABASE_TYPE and pings the database:

	conn, err := db.Open("sqlite", "file:votewatch.db")    // modernc.org/sqlite
	conn, err := db.Open("postgres", "postgres://...")      // lib/pq

SQLite connections are limited to one open connection.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The same statements run on SQLite and PostgreSQL.

# Tables

  - election_position: Position metadata, raw start/end timestamps, last observed phase
  - candidate: Candidates per position with status and vote count
  - phase_event: Observed phase transitions

# Relationships

	election_position 1──* candidate
	election_position 1──* phase_event

# Store

Store wraps the queries used by the refresher and handlers:

	store := db.NewStore(conn)
	err := store.UpsertPositions(ctx, positions, now)
	stored, removed, err := store.SyncPositions(ctx, positions, now) // prunes what the fetch no longer returns
	positions, err := store.ListPositions(ctx, db.Filter{Status: "live"})
	p, err := store.GetPosition(ctx, id) // db.ErrNotFound when missing
*/
package db
