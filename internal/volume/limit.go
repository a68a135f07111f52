// Package volume buckets a date-sorted set log into calendar weeks and
// computes per-muscle training volume.
package volume

import (
	"slices"
	"time"

	"github.com/claude/overload/internal/models"
)

// LimitSets returns the sets dated within [from, to], inclusive by day, in
// ascending order. sets must already be sorted by date.
//
// The scan starts from whichever end of the series is closer to its range
// boundary and stops at the first set past the far boundary.
func LimitSets(sets []models.Set, from, to time.Time) []models.Set {
	if len(sets) == 0 || from.IsZero() || to.IsZero() {
		return nil
	}
	from, to = models.Day(from), models.Day(to)
	if from.After(to) {
		return nil
	}

	first := models.Day(sets[0].Date)
	last := models.Day(sets[len(sets)-1].Date)

	var out []models.Set
	if absDays(first, from) <= absDays(last, to) {
		for _, s := range sets {
			d := models.Day(s.Date)
			if d.After(to) {
				break
			}
			if !d.Before(from) {
				out = append(out, s)
			}
		}
		return out
	}

	for i := len(sets) - 1; i >= 0; i-- {
		d := models.Day(sets[i].Date)
		if d.Before(from) {
			break
		}
		if !d.After(to) {
			out = append(out, sets[i])
		}
	}
	slices.Reverse(out)
	return out
}

func absDays(a, b time.Time) int {
	d := int(a.Sub(b).Hours() / 24)
	if d < 0 {
		return -d
	}
	return d
}
