// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package countdown

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/danielhkuo/votewatch/window"
)

const DefaultInterval = time.Second

// Countdown recomputes the time left until a deadline on a fixed interval.
// It owns one ticker, released when Run returns.
type Countdown struct {
	clock    clockwork.Clock
	deadline time.Time
	interval time.Duration

	stopOnce sync.Once
	stopCh   chan struct{}
}

type Option func(*Countdown)

func WithInterval(d time.Duration) Option {
	return func(c *Countdown) {
		if d > 0 {
			c.interval = d
		}
	}
}

func New(clock clockwork.Clock, deadline time.Time, opts ...Option) *Countdown {
	c := &Countdown{
		clock:    clock,
		deadline: deadline,
		interval: DefaultInterval,
		stopCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run calls emit once immediately and then on every tick until the
// remaining time reaches zero. The zero value is always emitted last.
// Returns ctx.Err() on cancellation and nil otherwise.
func (c *Countdown) Run(ctx context.Context, emit func(window.TimeRemaining)) error {
	r := window.RemainingUntil(c.deadline, c.clock.Now())
	emit(r)
	if r.IsZero() {
		return nil
	}

	ticker := c.clock.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.stopCh:
			return nil
		case <-ticker.Chan():
			r = window.RemainingUntil(c.deadline, c.clock.Now())
			emit(r)
			if r.IsZero() {
				return nil
			}
		}
	}
}

// Stop ends Run early. Safe to call more than once.
func (c *Countdown) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
	})
}
