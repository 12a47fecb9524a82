// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package refresher keeps the local store in step with the election API.

Each refresh lists positions, upserts them, then classifies every position at
the refresher's clock. When the phase differs from the one stored on the
previous refresh a phase_event row is written and the event is published.
Positions with unparseable timestamps are tracked under the phase "invalid".

	r := refresher.New(client, store, publisher, clockwork.NewRealClock(), cfg.RefreshInterval)
	go r.Run(ctx)
*/
package refresher
