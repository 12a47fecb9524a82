// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package countdown drives a window.TimeRemaining value off a ticking clock.

	cd := countdown.New(clockwork.NewRealClock(), endTime)
	err := cd.Run(ctx, func(r window.TimeRemaining) {
		// render r
	})

Run emits immediately, then once per interval (one second by default), and
returns after emitting the zero value. Nothing recomputes after that; a
later data refresh is expected to pick up the server-side status change.
*/
package countdown
