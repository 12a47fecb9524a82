// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package window classifies a position's voting window against a clock.

Every function takes now explicitly and performs no I/O, so results are
deterministic for a given input.

# Phases

	not-yet-started  now < start
	active           start <= now <= end (both boundaries inclusive)
	expired          now > end

A timestamp that cannot be parsed yields an error wrapping ErrInvalidWindow:

	phase, err := window.Classify(p.StartTime, p.EndTime, now)
	if errors.Is(err, window.ErrInvalidWindow) {
		// hide the countdown, show an error badge
	}

# Remaining Time

Remaining decomposes end-now into days, hours, minutes and seconds using
fixed factors (a day is always 24 hours) and floors at zero.

# Dashboards

Categorize partitions a list into active and not-active-or-expired buckets
sorted by start time. Evaluate combines the phase with the persisted status:
terminated positions never allow voting and never count down.
*/
package window
