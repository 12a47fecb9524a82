// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/danielhkuo/votewatch/models"
)

const DefaultSubjectPrefix = "positions.phase"

// Publisher fans phase transitions out to other services
type Publisher interface {
	Publish(ctx context.Context, ev models.PhaseEvent) error
	Close()
}

// LogPublisher writes transitions to the log only
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, ev models.PhaseEvent) error {
	slog.Info("phase transition",
		"event_id", ev.ID,
		"position_id", ev.PositionID,
		"from", ev.FromPhase,
		"to", ev.ToPhase,
		"status", ev.Status,
	)
	return nil
}

func (LogPublisher) Close() {}

// natsConn is the subset of *nats.Conn the publisher uses
type natsConn interface {
	Publish(subject string, data []byte) error
	Drain() error
}

// NATSPublisher publishes each transition as JSON on <prefix>.<position_id>
type NATSPublisher struct {
	nc     natsConn
	prefix string
}

// NewNATSPublisher connects to url with unlimited reconnects
func NewNATSPublisher(url, prefix string) (*NATSPublisher, error) {
	opts := []nats.Option{
		nats.Name("votewatch"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			slog.Error("NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			slog.Error("NATS error", "error", err)
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	slog.Info("connected to NATS", "url", nc.ConnectedUrl())

	return newNATSPublisher(nc, prefix), nil
}

func newNATSPublisher(nc natsConn, prefix string) *NATSPublisher {
	prefix = strings.Trim(prefix, ".")
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &NATSPublisher{nc: nc, prefix: prefix}
}

// Subject returns the subject a position's transitions are published on
func (p *NATSPublisher) Subject(positionID string) string {
	return p.prefix + "." + subjectToken(positionID)
}

func (p *NATSPublisher) Publish(ctx context.Context, ev models.PhaseEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal phase event: %w", err)
	}
	if err := p.nc.Publish(p.Subject(ev.PositionID), data); err != nil {
		return fmt.Errorf("publish phase event %s: %w", ev.ID, err)
	}
	return nil
}

// Close drains pending messages before closing the connection
func (p *NATSPublisher) Close() {
	if err := p.nc.Drain(); err != nil {
		slog.Error("failed to drain NATS connection", "error", err)
	}
}

// subjectToken replaces characters that would split or wildcard a subject
func subjectToken(s string) string {
	if s == "" {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '\t', '\r', '\n':
			return '_'
		}
		return r
	}, s)
}
