package models

import (
	"strings"
	"time"
)

// DateLayout is the calendar-day format used by every export and API date.
const DateLayout = "2006-01-02"

// Set marks carried over from the tracking apps. Ordinary working sets use
// their 1-based ordinal ("1", "2", ...).
const (
	SetMarkWarmup    = "W"
	SetMarkDrop      = "D"
	SetMarkFailure   = "F"
	SetMarkRestTimer = "Rest Timer"
)

// Set is one logged set in canonical form, produced by a normalizer in
// internal/ingest. Date is a calendar day at UTC midnight.
type Set struct {
	Date         time.Time `json:"date"`
	ExerciseName string    `json:"exercise_name"`
	WorkoutName  string    `json:"workout_name"`
	SetMark      string    `json:"set_mark"`
	Weight       float64   `json:"weight"`
	Reps         int       `json:"reps"`
	Distance     float64   `json:"distance"`
	Seconds      float64   `json:"seconds"`
	RPE          *float64  `json:"rpe,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	WorkoutNotes string    `json:"workout_notes,omitempty"`
}

// LiftKey identifies the lift this set belongs to. The same exercise logged
// under different workout names is tracked as different lifts.
func (s Set) LiftKey() string {
	return LiftKey(s.ExerciseName, s.WorkoutName)
}

// LiftKey joins an exercise and workout name into a lift identity.
func LiftKey(exerciseName, workoutName string) string {
	return exerciseName + " | " + workoutName
}

// IsDropSet reports whether the set is a load-reduction continuation set.
func (s Set) IsDropSet() bool {
	return s.SetMark == SetMarkDrop
}

// IsWarmup reports whether the set is a warm-up or a rest timer row.
func (s Set) IsWarmup() bool {
	return s.SetMark == SetMarkWarmup || strings.EqualFold(s.SetMark, SetMarkRestTimer)
}

// IsEmpty reports whether the set carries no work at all.
func (s Set) IsEmpty() bool {
	return float64(s.Reps)+s.Distance+s.Seconds <= 0
}

// Day truncates t to its calendar day in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD string into a UTC calendar day.
func ParseDay(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}
