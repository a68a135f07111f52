// Package strong normalizes CSV exports from the Strong app.
package strong

import (
	"fmt"
	"io"
	"strings"

	"github.com/claude/overload/internal/ingest"
	"github.com/claude/overload/internal/models"
)

// Columns that identify a Strong export.
const (
	colDate         = "Date"
	colWorkoutName  = "Workout Name"
	colExerciseName = "Exercise Name"
	colSetOrder     = "Set Order"
	colWeight       = "Weight"
	colReps         = "Reps"
	colDistance     = "Distance"
	colSeconds      = "Seconds"
	colNotes        = "Notes"
	colWorkoutNotes = "Workout Notes"
	colRPE          = "RPE"
)

// Header lists the columns Parse requires.
var Header = []string{colDate, colWorkoutName, colExerciseName, colSetOrder, colWeight, colReps}

// Parse reads a Strong export into raw sets. The Date column holds
// "YYYY-MM-DD HH:MM:SS"; only the day is kept.
func Parse(r io.Reader) ([]models.Set, error) {
	t, err := ingest.ReadTable(r, Header...)
	if err != nil {
		return nil, fmt.Errorf("reading strong export: %w", err)
	}

	sets := make([]models.Set, 0, len(t.Rows))
	for i, row := range t.Rows {
		raw := t.Get(row, colDate)
		dayPart, _, _ := strings.Cut(raw, " ")
		date, err := models.ParseDay(dayPart)
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing date %q: %w", i+2, raw, err)
		}
		sets = append(sets, models.Set{
			Date:         date,
			ExerciseName: t.Get(row, colExerciseName),
			WorkoutName:  t.Get(row, colWorkoutName),
			SetMark:      t.Get(row, colSetOrder),
			Weight:       t.Float(row, colWeight),
			Reps:         t.Int(row, colReps),
			Distance:     t.Float(row, colDistance),
			Seconds:      t.Float(row, colSeconds),
			RPE:          t.OptionalFloat(row, colRPE),
			Notes:        note(t.Get(row, colNotes)),
			WorkoutNotes: note(t.Get(row, colWorkoutNotes)),
		})
	}
	return sets, nil
}

// note drops the lone quote Strong writes for empty notes.
func note(s string) string {
	if s == `"` {
		return ""
	}
	return s
}
