package analysis

import (
	"fmt"
	"slices"
	"time"

	"github.com/claude/overload/internal/models"
)

// Options carries caller-level settings for a pipeline run.
type Options struct {
	// Now is the reference clock for activity classification. Zero means time.Now().
	Now time.Time
	// ActiveDays defaults to DefaultActiveDays when zero.
	ActiveDays int
	// MinTrainingDays defaults to DefaultMinTrainingDays when zero.
	MinTrainingDays int
}

func (o Options) withDefaults() Options {
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	if o.ActiveDays <= 0 {
		o.ActiveDays = DefaultActiveDays
	}
	if o.MinTrainingDays <= 0 {
		o.MinTrainingDays = DefaultMinTrainingDays
	}
	return o
}

// AnalyzeProgressiveOverload runs the full batch pipeline over a date-sorted
// set log: grouping, day-over-day verdicts, progress and activity labels.
// The result is ordered by progress status, most concerning first; lifts with
// the same status keep their first-encountered order.
func AnalyzeProgressiveOverload(sets []models.Set, opts Options) []models.LiftHistory {
	opts = opts.withDefaults()

	lifts := GroupByLift(sets)
	for i := range lifts {
		annotatePerformance(lifts[i].Workouts)
		lifts[i].ProgressStatus = ComputeProgressStatus(lifts[i].Workouts)
		lifts[i].ActivityStatus = ActivityStatusAt(lifts[i], opts.Now, opts.ActiveDays, opts.MinTrainingDays)
	}

	slices.SortStableFunc(lifts, func(a, b models.LiftHistory) int {
		return a.ProgressStatus.Priority() - b.ProgressStatus.Priority()
	})
	return lifts
}

// ParseFilters validates user-supplied status filters for Filter. Empty
// strings are accepted and match everything.
func ParseFilters(status, activity string) (models.ProgressStatus, models.ActivityStatus, error) {
	progress := models.ProgressStatus(status)
	if progress != "" && progress.Priority() == 0 {
		return "", "", fmt.Errorf("unknown status %q", status)
	}
	act := models.ActivityStatus(activity)
	switch act {
	case "", models.Active, models.New, models.History:
	default:
		return "", "", fmt.Errorf("unknown activity %q", activity)
	}
	return progress, act, nil
}

// Filter keeps lifts matching the given statuses. Empty values match everything.
func Filter(lifts []models.LiftHistory, progress models.ProgressStatus, activity models.ActivityStatus) []models.LiftHistory {
	result := make([]models.LiftHistory, 0, len(lifts))
	for _, l := range lifts {
		if progress != "" && l.ProgressStatus != progress {
			continue
		}
		if activity != "" && l.ActivityStatus != activity {
			continue
		}
		result = append(result, l)
	}
	return result
}

// Find returns the lift with the given name.
func Find(lifts []models.LiftHistory, name string) (models.LiftHistory, bool) {
	for _, l := range lifts {
		if l.Name == name {
			return l, true
		}
	}
	return models.LiftHistory{}, false
}
