package analysis

import "github.com/claude/overload/internal/models"

// repDiffTolerance is the share of the previous rep count two sets may differ
// by before they are considered incomparable (a deload or a new rep target).
const repDiffTolerance = 0.55

// CompareSetPerformance compares two sets of the same lift. Weight dominates:
// a heavier set is an increase even if reps dropped within tolerance.
func CompareSetPerformance(previous, current models.LiftSet) models.PerformanceChange {
	diff := current.Reps - previous.Reps
	if diff < 0 {
		diff = -diff
	}
	if float64(diff) > float64(previous.Reps)*repDiffTolerance {
		return models.NotSure
	}

	if previous.Weight == current.Weight && previous.Reps == current.Reps {
		return models.NoChange
	}

	if current.Weight > previous.Weight ||
		(current.Weight == previous.Weight && current.Reps > previous.Reps) {
		return models.Increase
	}

	if current.Weight < previous.Weight ||
		(current.Weight == previous.Weight && current.Reps < previous.Reps) {
		return models.Decrease
	}

	// Unreachable for ordinary numbers; NaN weights end up here.
	return models.NotSure
}

// ComputePerformanceChange compares two days of the same lift position by
// position. The first differing position decides the verdict; an extra set
// today is an increase and a missing one a decrease.
func ComputePerformanceChange(previous, current models.DayEntry) models.PerformanceChange {
	if len(previous.Sets) == 0 || len(current.Sets) == 0 {
		return models.NotSure
	}

	n := max(len(previous.Sets), len(current.Sets))
	for i := range n {
		if i >= len(previous.Sets) {
			return models.Increase
		}
		if i >= len(current.Sets) {
			return models.Decrease
		}
		if change := CompareSetPerformance(previous.Sets[i], current.Sets[i]); change != models.NoChange {
			return change
		}
	}
	return models.NoChange
}

// annotatePerformance fills PerformanceChange on every day entry. The first
// entry has no predecessor and is always NoChange.
func annotatePerformance(workouts []models.DayEntry) {
	for i := range workouts {
		if i == 0 {
			workouts[i].PerformanceChange = models.NoChange
			continue
		}
		workouts[i].PerformanceChange = ComputePerformanceChange(workouts[i-1], workouts[i])
	}
}
