// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The statements are valid on both SQLite and PostgreSQL.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Timestamps from the election API stay TEXT so that malformed values are
// stored as received.
const schema = `
-- Positions mirrored from the election API
CREATE TABLE IF NOT EXISTS election_position (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL CHECK (status IN ('pending', 'live', 'terminated', 'closed')),
    termination_message TEXT NOT NULL DEFAULT '',
    max_votes INTEGER NOT NULL DEFAULT 0,
    max_candidate INTEGER NOT NULL DEFAULT 0,
    start_time TEXT NOT NULL DEFAULT '',
    end_time TEXT NOT NULL DEFAULT '',
    last_phase TEXT NOT NULL DEFAULT '',
    synced_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_election_position_status ON election_position(status);

-- Candidates per position
CREATE TABLE IF NOT EXISTS candidate (
    id TEXT NOT NULL,
    position_id TEXT NOT NULL REFERENCES election_position(id) ON DELETE CASCADE,
    name TEXT NOT NULL DEFAULT '',
    email TEXT NOT NULL DEFAULT '',
    student_id TEXT NOT NULL DEFAULT '',
    photo TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'applied',
    votes INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (position_id, id)
);

CREATE INDEX IF NOT EXISTS idx_candidate_position_id ON candidate(position_id);

-- Observed phase transitions
CREATE TABLE IF NOT EXISTS phase_event (
    id TEXT PRIMARY KEY,
    position_id TEXT NOT NULL,
    from_phase TEXT NOT NULL,
    to_phase TEXT NOT NULL,
    status TEXT NOT NULL,
    observed_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_phase_event_position_id ON phase_event(position_id);
`
