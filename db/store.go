// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/votewatch/models"
)

var ErrNotFound = errors.New("not found")

// Filter narrows ListPositions. Zero values match everything.
type Filter struct {
	Status string
	Search string
}

// Store is the local mirror of positions pulled from the election API
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Fixed width so stored timestamps sort lexically
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

// UpsertPositions replaces the stored copy of each position and its
// candidates. The last observed phase is left untouched. Positions with an
// unknown status are skipped.
func (s *Store) UpsertPositions(ctx context.Context, positions []models.Position, syncedAt time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := upsertTx(ctx, tx, positions, syncedAt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// SyncPositions makes the mirror match a full fetch: positions are upserted
// as in UpsertPositions, and stored positions that are absent from the fetch
// or flagged isDeleted are removed with their candidates and events. A
// position skipped for an unknown status keeps its previous stored copy.
// Returns how many positions were stored and removed.
func (s *Store) SyncPositions(ctx context.Context, positions []models.Position, syncedAt time.Time) (stored, removed int, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stored, err = upsertTx(ctx, tx, positions, syncedAt)
	if err != nil {
		return 0, 0, err
	}

	keep := make(map[string]bool, len(positions))
	for _, p := range positions {
		if p.ID != "" && !p.IsDeleted {
			keep[p.ID] = true
		}
	}

	rows, err := tx.QueryContext(ctx, `SELECT id FROM election_position`)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to query stored positions: %w", err)
	}
	var gone []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, 0, fmt.Errorf("failed to scan position id: %w", err)
		}
		if !keep[id] {
			gone = append(gone, id)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, 0, fmt.Errorf("failed to read position ids: %w", err)
	}
	rows.Close()

	for _, id := range gone {
		for _, stmt := range []string{
			`DELETE FROM candidate WHERE position_id = $1`,
			`DELETE FROM phase_event WHERE position_id = $1`,
			`DELETE FROM election_position WHERE id = $1`,
		} {
			if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
				return 0, 0, fmt.Errorf("failed to remove position %s: %w", id, err)
			}
		}
		slog.Info("removed position no longer served by the election API", "position_id", id)
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return stored, len(gone), nil
}

// upsertTx writes positions inside tx and returns how many were stored.
// Records without an id, flagged isDeleted, or with an unknown status are
// skipped.
func upsertTx(ctx context.Context, tx *sql.Tx, positions []models.Position, syncedAt time.Time) (int, error) {
	synced := formatTime(syncedAt)
	stored := 0
	for _, p := range positions {
		if p.ID == "" || p.IsDeleted {
			continue
		}
		if !models.ValidStatus(p.Status) {
			slog.Warn("skipping position with unknown status", "position_id", p.ID, "status", p.Status)
			continue
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO election_position (id, title, description, status, termination_message,
				max_votes, max_candidate, start_time, end_time, synced_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (id) DO UPDATE SET
				title = excluded.title,
				description = excluded.description,
				status = excluded.status,
				termination_message = excluded.termination_message,
				max_votes = excluded.max_votes,
				max_candidate = excluded.max_candidate,
				start_time = excluded.start_time,
				end_time = excluded.end_time,
				synced_at = excluded.synced_at
		`, p.ID, p.Title, p.Description, p.Status, p.TerminationMessage,
			p.MaxVotes, p.MaxCandidate, p.StartTime, p.EndTime, synced)
		if err != nil {
			return 0, fmt.Errorf("failed to upsert position %s: %w", p.ID, err)
		}

		_, err = tx.ExecContext(ctx, `DELETE FROM candidate WHERE position_id = $1`, p.ID)
		if err != nil {
			return 0, fmt.Errorf("failed to clear candidates for %s: %w", p.ID, err)
		}

		for _, c := range p.Candidates {
			if c.ID == "" {
				continue
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO candidate (id, position_id, name, email, student_id, photo, status, votes)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			`, c.ID, p.ID, c.Name, c.Email, c.StudentID, c.Photo, c.Status, c.Votes)
			if err != nil {
				return 0, fmt.Errorf("failed to insert candidate %s: %w", c.ID, err)
			}
		}
		stored++
	}
	return stored, nil
}

const positionColumns = `id, title, description, status, termination_message,
	max_votes, max_candidate, start_time, end_time`

func scanPosition(row interface{ Scan(...any) error }) (models.Position, error) {
	var p models.Position
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Status, &p.TerminationMessage,
		&p.MaxVotes, &p.MaxCandidate, &p.StartTime, &p.EndTime)
	return p, err
}

// ListPositions returns positions ordered by end time, latest first, with
// candidates attached
func (s *Store) ListPositions(ctx context.Context, f Filter) ([]models.Position, error) {
	query := `SELECT ` + positionColumns + ` FROM election_position`
	var where []string
	var args []any

	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, "status = $"+strconv.Itoa(len(args)))
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		args = append(args, "%"+strings.ToLower(search)+"%")
		where = append(where, "LOWER(title) LIKE $"+strconv.Itoa(len(args)))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY end_time DESC, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}

	positions := []models.Position{}
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to read positions: %w", err)
	}
	// Close before the next query; SQLite runs on a single connection.
	rows.Close()

	ids := make([]string, len(positions))
	for i, p := range positions {
		ids[i] = p.ID
	}
	candidates, err := s.loadCandidates(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range positions {
		positions[i].Candidates = candidates[positions[i].ID]
	}

	return positions, nil
}

// GetPosition returns ErrNotFound for unknown ids
func (s *Store) GetPosition(ctx context.Context, id string) (models.Position, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+positionColumns+` FROM election_position WHERE id = $1`, id)
	p, err := scanPosition(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Position{}, ErrNotFound
	}
	if err != nil {
		return models.Position{}, fmt.Errorf("failed to query position: %w", err)
	}

	candidates, err := s.loadCandidates(ctx, []string{id})
	if err != nil {
		return models.Position{}, err
	}
	p.Candidates = candidates[id]
	return p, nil
}

// loadCandidates groups the candidates of the given positions by position id
func (s *Store) loadCandidates(ctx context.Context, positionIDs []string) (map[string][]models.Candidate, error) {
	out := make(map[string][]models.Candidate)
	if len(positionIDs) == 0 {
		return out, nil
	}

	placeholders := make([]string, len(positionIDs))
	args := make([]any, len(positionIDs))
	for i, id := range positionIDs {
		placeholders[i] = "$" + strconv.Itoa(i+1)
		args[i] = id
	}
	query := `SELECT position_id, id, name, email, student_id, photo, status, votes FROM candidate
		WHERE position_id IN (` + strings.Join(placeholders, ", ") + `)
		ORDER BY position_id, votes DESC, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pid string
		var c models.Candidate
		if err := rows.Scan(&pid, &c.ID, &c.Name, &c.Email, &c.StudentID, &c.Photo, &c.Status, &c.Votes); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		out[pid] = append(out[pid], c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read candidates: %w", err)
	}
	return out, nil
}

// CountByStatus counts stored positions per persisted status
func (s *Store) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM election_position GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count positions: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{
		models.StatusPending:    0,
		models.StatusLive:       0,
		models.StatusTerminated: 0,
		models.StatusClosed:     0,
	}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// LastPhases maps position id to the phase seen on the previous refresh.
// Positions never classified map to "".
func (s *Store) LastPhases(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, last_phase FROM election_position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query phases: %w", err)
	}
	defer rows.Close()

	phases := make(map[string]string)
	for rows.Next() {
		var id, phase string
		if err := rows.Scan(&id, &phase); err != nil {
			return nil, fmt.Errorf("failed to scan phase: %w", err)
		}
		phases[id] = phase
	}
	return phases, rows.Err()
}

func (s *Store) SetLastPhase(ctx context.Context, id, phase string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE election_position SET last_phase = $1 WHERE id = $2`, phase, id)
	if err != nil {
		return fmt.Errorf("failed to update phase: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) RecordPhaseEvent(ctx context.Context, ev models.PhaseEvent) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO phase_event (id, position_id, from_phase, to_phase, status, observed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, ev.ID, ev.PositionID, ev.FromPhase, ev.ToPhase, ev.Status, formatTime(ev.ObservedAt))
	if err != nil {
		return fmt.Errorf("failed to insert phase event: %w", err)
	}
	return nil
}

// ListPhaseEvents returns a position's transitions, oldest first
func (s *Store) ListPhaseEvents(ctx context.Context, positionID string) ([]models.PhaseEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, position_id, from_phase, to_phase, status, observed_at
		FROM phase_event
		WHERE position_id = $1
		ORDER BY observed_at, id
	`, positionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query phase events: %w", err)
	}
	defer rows.Close()

	events := []models.PhaseEvent{}
	for rows.Next() {
		var ev models.PhaseEvent
		var observed string
		if err := rows.Scan(&ev.ID, &ev.PositionID, &ev.FromPhase, &ev.ToPhase, &ev.Status, &observed); err != nil {
			return nil, fmt.Errorf("failed to scan phase event: %w", err)
		}
		if ev.ObservedAt, err = parseTime(observed); err != nil {
			return nil, fmt.Errorf("bad observed_at on event %s: %w", ev.ID, err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
