// Package hevy normalizes CSV exports from the Hevy app.
package hevy

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/claude/overload/internal/ingest"
	"github.com/claude/overload/internal/models"
)

const (
	colTitle         = "title"
	colStartTime     = "start_time"
	colDescription   = "description"
	colExerciseTitle = "exercise_title"
	colExerciseNotes = "exercise_notes"
	colSetIndex      = "set_index"
	colSetType       = "set_type"
	colWeightKg      = "weight_kg"
	colWeightLbs     = "weight_lbs"
	colReps          = "reps"
	colDistanceKm    = "distance_km"
	colDuration      = "duration_seconds"
	colRPE           = "rpe"
)

// Header lists the columns Parse requires. One of weight_kg or weight_lbs
// must also be present.
var Header = []string{colTitle, colStartTime, colExerciseTitle, colSetIndex, colSetType, colReps}

var startLayouts = []string{
	"2 Jan 2006, 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
}

// Parse reads a Hevy export into raw sets. The weight column is taken as is,
// in whichever unit the app exported. Hevy numbers sets from 0; the set mark
// is the 1-based ordinal, or W, D and F for warm-up, drop and failure sets.
func Parse(r io.Reader) ([]models.Set, error) {
	t, err := ingest.ReadTable(r, Header...)
	if err != nil {
		return nil, fmt.Errorf("reading hevy export: %w", err)
	}
	weightCol := colWeightKg
	if !t.Has(colWeightKg) {
		if !t.Has(colWeightLbs) {
			return nil, fmt.Errorf("reading hevy export: missing column %q or %q", colWeightKg, colWeightLbs)
		}
		weightCol = colWeightLbs
	}

	sets := make([]models.Set, 0, len(t.Rows))
	for i, row := range t.Rows {
		raw := t.Get(row, colStartTime)
		start, err := parseStart(raw)
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing start_time %q: %w", i+2, raw, err)
		}
		sets = append(sets, models.Set{
			Date:         models.Day(start),
			ExerciseName: t.Get(row, colExerciseTitle),
			WorkoutName:  t.Get(row, colTitle),
			SetMark:      setMark(t.Get(row, colSetType), t.Int(row, colSetIndex)),
			Weight:       t.Float(row, weightCol),
			Reps:         t.Int(row, colReps),
			Distance:     t.Float(row, colDistanceKm),
			Seconds:      t.Float(row, colDuration),
			RPE:          t.OptionalFloat(row, colRPE),
			Notes:        t.Get(row, colExerciseNotes),
			WorkoutNotes: t.Get(row, colDescription),
		})
	}
	return sets, nil
}

func parseStart(s string) (time.Time, error) {
	var err error
	for _, layout := range startLayouts {
		var ts time.Time
		if ts, err = time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, err
}

func setMark(setType string, index int) string {
	switch setType {
	case "warmup":
		return models.SetMarkWarmup
	case "dropset":
		return models.SetMarkDrop
	case "failure":
		return models.SetMarkFailure
	}
	return strconv.Itoa(index + 1)
}
