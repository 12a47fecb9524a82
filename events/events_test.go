// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/danielhkuo/votewatch/models"
)

type fakeConn struct {
	subjects []string
	payloads [][]byte
	err      error
	drained  bool
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.subjects = append(f.subjects, subject)
	f.payloads = append(f.payloads, data)
	return nil
}

func (f *fakeConn) Drain() error {
	f.drained = true
	return nil
}

func TestSubject(t *testing.T) {
	tests := []struct {
		prefix     string
		positionID string
		want       string
	}{
		{"positions.phase", "665f1c2a9b", "positions.phase.665f1c2a9b"},
		{"custom.", "abc", "custom.abc"},
		{"", "abc", "positions.phase.abc"},
		{"positions.phase", "a.b*c>d e", "positions.phase.a_b_c_d_e"},
		{"positions.phase", "", "positions.phase._"},
	}

	for _, tt := range tests {
		p := newNATSPublisher(&fakeConn{}, tt.prefix)
		if got := p.Subject(tt.positionID); got != tt.want {
			t.Errorf("Subject(%q, %q) = %q, want %q", tt.prefix, tt.positionID, got, tt.want)
		}
	}
}

func TestNATSPublish(t *testing.T) {
	conn := &fakeConn{}
	p := newNATSPublisher(conn, "positions.phase")

	ev := models.PhaseEvent{
		ID:         "ev-1",
		PositionID: "pos-1",
		FromPhase:  "not-yet-started",
		ToPhase:    "active",
		Status:     "live",
		ObservedAt: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}
	if err := p.Publish(context.Background(), ev); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if len(conn.subjects) != 1 || conn.subjects[0] != "positions.phase.pos-1" {
		t.Fatalf("unexpected subjects %v", conn.subjects)
	}
	var got models.PhaseEvent
	if err := json.Unmarshal(conn.payloads[0], &got); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if got.ToPhase != "active" || !got.ObservedAt.Equal(ev.ObservedAt) {
		t.Errorf("unexpected payload %+v", got)
	}

	p.Close()
	if !conn.drained {
		t.Error("expected Close to drain the connection")
	}
}

func TestNATSPublishErrors(t *testing.T) {
	conn := &fakeConn{err: errors.New("nats: connection closed")}
	p := newNATSPublisher(conn, "")

	if err := p.Publish(context.Background(), models.PhaseEvent{ID: "x"}); err == nil {
		t.Error("expected publish error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.Publish(ctx, models.PhaseEvent{ID: "y"}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestLogPublisher(t *testing.T) {
	var pub Publisher = LogPublisher{}
	if err := pub.Publish(context.Background(), models.PhaseEvent{ID: "x"}); err != nil {
		t.Errorf("LogPublisher.Publish: %v", err)
	}
	pub.Close()
}
