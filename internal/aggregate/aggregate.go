// Package aggregate merges the records produced by all sources into the
// final windowed, deduplicated, ordered deadline list.
package aggregate

import (
	"sort"
	"time"

	"ConfAlert/internal/domain"
)

// Aggregate applies the time window, drops emptied records, dedupes
// editions and orders the result.
//
// A milestone survives when its deadline is not in the past and falls no
// later than the next calendar year. Editions sharing a (lowercased name,
// year) key keep only the first occurrence, so source priority is the
// caller's iteration order. Output is sorted by each record's earliest
// surviving milestone; ties keep input order.
func Aggregate(records []domain.Conference, now time.Time) []domain.Conference {
	maxYear := now.Year() + 1

	out := make([]domain.Conference, 0, len(records))
	seen := make(map[string]struct{}, len(records))

	for _, rec := range records {
		kept := make([]domain.Milestone, 0, len(rec.Milestones))
		for _, m := range rec.Milestones {
			if m.Deadline.Before(now) {
				continue
			}
			if m.Deadline.Year() > maxYear {
				continue
			}
			kept = append(kept, m)
		}
		if len(kept) == 0 {
			continue
		}

		key := rec.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		sort.SliceStable(kept, func(i, j int) bool {
			return kept[i].Deadline.Before(kept[j].Deadline)
		})
		rec.Milestones = kept
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Milestones[0].Deadline.Before(out[j].Milestones[0].Deadline)
	})

	return out
}
