// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package window

import (
	"sort"
	"strings"
	"time"

	"github.com/danielhkuo/votewatch/models"
)

// Categorized splits positions for the dashboards. Not-yet-started and
// expired positions share one bucket.
type Categorized struct {
	Active             []models.Position
	NotActiveOrExpired []models.Position
	// Invalid holds positions whose timestamps are present but unparseable.
	Invalid []models.Position
}

type dated struct {
	pos   models.Position
	start time.Time
}

// Categorize partitions positions by window phase at now. Each bucket is
// sorted by start time ascending. Positions missing either timestamp are
// dropped.
func Categorize(positions []models.Position, now time.Time) Categorized {
	var active, rest []dated
	var out Categorized

	for _, p := range positions {
		if strings.TrimSpace(p.StartTime) == "" || strings.TrimSpace(p.EndTime) == "" {
			continue
		}
		start, end, err := parseBounds(p.StartTime, p.EndTime)
		if err != nil {
			out.Invalid = append(out.Invalid, p)
			continue
		}
		if ClassifyTimes(start, end, now) == PhaseActive {
			active = append(active, dated{pos: p, start: start})
		} else {
			rest = append(rest, dated{pos: p, start: start})
		}
	}

	out.Active = sortByStart(active)
	out.NotActiveOrExpired = sortByStart(rest)
	return out
}

func sortByStart(items []dated) []models.Position {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].start.Before(items[j].start)
	})
	result := make([]models.Position, 0, len(items))
	for _, it := range items {
		result = append(result, it.pos)
	}
	return result
}
