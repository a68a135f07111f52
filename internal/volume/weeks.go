package volume

import (
	"errors"
	"fmt"
	"time"

	"github.com/claude/overload/internal/models"
)

const labelLayout = "Jan 2, 2006"

// Span is one 7-day window, inclusive on both ends.
type Span struct {
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether day falls inside the span.
func (s Span) Contains(day time.Time) bool {
	day = models.Day(day)
	return !day.Before(s.Start) && !day.After(s.End)
}

// Weeks splits [from, to] into consecutive 7-day spans anchored at from.
// The last span may extend past to. An invalid range yields no spans.
func Weeks(from, to time.Time) []Span {
	if from.IsZero() || to.IsZero() {
		return nil
	}
	from, to = models.Day(from), models.Day(to)
	if from.After(to) {
		return nil
	}

	var spans []Span
	for cur := from; !cur.After(to); cur = cur.AddDate(0, 0, 7) {
		end := cur.AddDate(0, 0, 6)
		spans = append(spans, Span{
			Label: "Week " + cur.Format(labelLayout) + "-" + end.Format(labelLayout),
			Start: cur,
			End:   end,
		})
	}
	return spans
}

// Direction selects which side of the picked date a period extends to.
type Direction string

const (
	Before Direction = "before"
	After  Direction = "after"
)

// ParseDirection maps a query value to a Direction. Empty means Before.
func ParseDirection(s string) (Direction, bool) {
	switch Direction(s) {
	case "", Before:
		return Before, true
	case After:
		return After, true
	}
	return "", false
}

// PeriodRange returns the inclusive range covering weeks whole weeks ending
// on date (Before) or starting on it (After). weeks below 1 counts as 1.
func PeriodRange(date time.Time, weeks int, dir Direction) (from, to time.Time) {
	if weeks < 1 {
		weeks = 1
	}
	date = models.Day(date)
	days := 7*weeks - 1
	if dir == After {
		return date, date.AddDate(0, 0, days)
	}
	return date.AddDate(0, 0, -days), date
}

// RangeQuery is a volume period as requested by a caller: either an explicit
// From/To pair or a period picked by Date, Weeks and Direction. Dates are
// YYYY-MM-DD strings; empty fields take defaults.
type RangeQuery struct {
	From      string
	To        string
	Date      string
	Weeks     int
	Direction string
}

// Resolve turns the query into an inclusive day range. Without From and To,
// the period is picked around Date, defaulting to now, defaultWeeks and Before.
func (q RangeQuery) Resolve(now time.Time, defaultWeeks int) (from, to time.Time, err error) {
	if q.From != "" || q.To != "" {
		if from, err = models.ParseDay(q.From); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid from: %w", err)
		}
		if to, err = models.ParseDay(q.To); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid to: %w", err)
		}
		return from, to, nil
	}

	date := now
	if q.Date != "" {
		if date, err = models.ParseDay(q.Date); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid date: %w", err)
		}
	}

	weeks := defaultWeeks
	if q.Weeks != 0 {
		weeks = q.Weeks
	}
	if weeks < 1 {
		return time.Time{}, time.Time{}, errors.New("weeks must be a positive integer")
	}

	dir, ok := ParseDirection(q.Direction)
	if !ok {
		return time.Time{}, time.Time{}, fmt.Errorf("direction must be %s or %s", Before, After)
	}

	from, to = PeriodRange(date, weeks, dir)
	return from, to, nil
}
