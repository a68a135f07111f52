package analysis

import "github.com/claude/overload/internal/models"

const (
	// minProgressDays is the number of training days needed before a trend is assessed.
	minProgressDays = 4
	// recentWindow is how many trailing day entries take part in the majority vote.
	recentWindow = 5
)

// ComputeProgressStatus reduces the performance verdicts of a lift's day
// entries (ascending by date) into a single trend label.
func ComputeProgressStatus(workouts []models.DayEntry) models.ProgressStatus {
	if len(workouts) < minProgressDays {
		return models.ProgressNotSure
	}

	lastTwo := tail(workouts, 2)
	if all(lastTwo, models.Increase) {
		return models.Progressing
	}
	if all(lastTwo, models.Decrease) {
		return models.Regressing
	}
	if all(tail(workouts, 3), models.NoChange) {
		return models.Plateaued
	}

	recent := tail(workouts, recentWindow)
	inc := count(recent, models.Increase)
	dec := count(recent, models.Decrease)

	if inc == 0 {
		if dec > 0 {
			return models.Regressing
		}
		return models.Plateaued
	}

	if dec == 0 || inc > dec || count(lastTwo, models.Decrease) == 0 {
		return models.Struggling
	}
	return models.AtRisk
}

func tail(workouts []models.DayEntry, n int) []models.DayEntry {
	if len(workouts) <= n {
		return workouts
	}
	return workouts[len(workouts)-n:]
}

func all(workouts []models.DayEntry, change models.PerformanceChange) bool {
	return count(workouts, change) == len(workouts)
}

func count(workouts []models.DayEntry, change models.PerformanceChange) int {
	n := 0
	for _, w := range workouts {
		if w.PerformanceChange == change {
			n++
		}
	}
	return n
}
