package analysis

import (
	"time"

	"github.com/claude/overload/internal/models"
)

const (
	// DefaultActiveDays is how many days may pass since a lift was last
	// performed before it moves to History.
	DefaultActiveDays = 15
	// DefaultMinTrainingDays is the number of distinct training days below
	// which a recent lift is still New.
	DefaultMinTrainingDays = 4
)

// ActivityStatusAt classifies a lift relative to now. Days are compared on the
// calendar: a lift last performed exactly activeDays days before today is
// History, one performed a day later is not.
func ActivityStatusAt(lift models.LiftHistory, now time.Time, activeDays, minTrainingDays int) models.ActivityStatus {
	threshold := models.Day(now).AddDate(0, 0, -activeDays)
	if last, ok := lift.LastPerformed(); ok && !last.After(threshold) {
		return models.History
	}

	if len(lift.Workouts) < minTrainingDays {
		return models.New
	}
	return models.Active
}
