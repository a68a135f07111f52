// Package analysis turns canonical sets into per-lift histories with
// day-over-day performance verdicts, a progress trend and an activity label.
package analysis

import (
	"slices"

	"github.com/claude/overload/internal/models"
)

// GroupByLift groups sets by lift key and calendar day. Lifts are returned in
// first-encountered order; each lift's day entries are ascending by date and
// keep the sets of a day in input order.
func GroupByLift(sets []models.Set) []models.LiftHistory {
	var lifts []*models.LiftHistory
	liftIndex := make(map[string]int)
	dayIndex := make(map[string]map[int64]int)
	sessionSeen := make(map[string]map[string]bool)

	for _, s := range sets {
		key := s.LiftKey()
		li, ok := liftIndex[key]
		if !ok {
			li = len(lifts)
			liftIndex[key] = li
			lifts = append(lifts, &models.LiftHistory{
				Name:           key,
				ProgressStatus: models.ProgressNotSure,
			})
			dayIndex[key] = make(map[int64]int)
			sessionSeen[key] = make(map[string]bool)
		}
		lift := lifts[li]

		day := models.Day(s.Date)
		di, ok := dayIndex[key][day.Unix()]
		if !ok {
			di = len(lift.Workouts)
			dayIndex[key][day.Unix()] = di
			lift.Workouts = append(lift.Workouts, models.DayEntry{
				Date:         day,
				SessionNotes: s.WorkoutNotes,
				LiftNotes:    s.Notes,
			})
		}

		if !sessionSeen[key][s.WorkoutName] {
			sessionSeen[key][s.WorkoutName] = true
			lift.SessionNames = append(lift.SessionNames, s.WorkoutName)
		}

		lift.Workouts[di].Sets = append(lift.Workouts[di].Sets, models.LiftSet{
			SetMark: s.SetMark,
			Weight:  s.Weight,
			Reps:    s.Reps,
			RPE:     s.RPE,
		})
	}

	result := make([]models.LiftHistory, 0, len(lifts))
	for _, l := range lifts {
		if len(l.Workouts) == 0 {
			continue
		}
		// Input is expected sorted by date already; a stable sort keeps the
		// ascending invariant if a caller hands in an unsorted log.
		slices.SortStableFunc(l.Workouts, func(a, b models.DayEntry) int {
			return a.Date.Compare(b.Date)
		})
		result = append(result, *l)
	}
	return result
}
