// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package window

import (
	"fmt"
	"time"

	"github.com/danielhkuo/votewatch/models"
)

const (
	msPerDay    = 86400000
	msPerHour   = 3600000
	msPerMinute = 60000
	msPerSecond = 1000
)

// TimeRemaining is a calendar-agnostic breakdown; a day is always 24h.
type TimeRemaining struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

// Remaining parses end and returns the time left until it
func Remaining(end string, now time.Time) (TimeRemaining, error) {
	e, err := ParseTimestamp(end)
	if err != nil {
		return TimeRemaining{}, &InvalidWindowError{Field: "end_time", Value: end}
	}
	return RemainingUntil(e, now), nil
}

// RemainingUntil floors at zero once deadline has passed
func RemainingUntil(deadline, now time.Time) TimeRemaining {
	ms := deadline.Sub(now).Milliseconds()
	if ms <= 0 {
		return TimeRemaining{}
	}
	return TimeRemaining{
		Days:    int(ms / msPerDay),
		Hours:   int(ms % msPerDay / msPerHour),
		Minutes: int(ms % msPerHour / msPerMinute),
		Seconds: int(ms % msPerMinute / msPerSecond),
	}
}

func (t TimeRemaining) IsZero() bool {
	return t == TimeRemaining{}
}

// Duration reassembles the breakdown with the same fixed factors
func (t TimeRemaining) Duration() time.Duration {
	ms := int64(t.Days)*msPerDay +
		int64(t.Hours)*msPerHour +
		int64(t.Minutes)*msPerMinute +
		int64(t.Seconds)*msPerSecond
	return time.Duration(ms) * time.Millisecond
}

func (t TimeRemaining) String() string {
	return fmt.Sprintf("%dd %dh %dm %ds", t.Days, t.Hours, t.Minutes, t.Seconds)
}

func (t TimeRemaining) Response() models.TimeRemainingResponse {
	return models.TimeRemainingResponse{
		Days:    t.Days,
		Hours:   t.Hours,
		Minutes: t.Minutes,
		Seconds: t.Seconds,
	}
}
