package models

import "time"

// PerformanceChange is the day-over-day verdict for one lift.
type PerformanceChange string

const (
	Increase PerformanceChange = "Increase"
	Decrease PerformanceChange = "Decrease"
	NoChange PerformanceChange = "No Change"
	NotSure  PerformanceChange = "Not Sure"
)

// ProgressStatus is the multi-session trend label of a lift.
type ProgressStatus string

const (
	Progressing     ProgressStatus = "Progressing"
	Struggling      ProgressStatus = "Struggling"
	AtRisk          ProgressStatus = "At Risk"
	Plateaued       ProgressStatus = "Plateaued"
	Regressing      ProgressStatus = "Regressing"
	ProgressNotSure ProgressStatus = "Not Sure"
)

// ProgressStatuses lists every status, most concerning first.
var ProgressStatuses = []ProgressStatus{Regressing, Plateaued, AtRisk, Struggling, Progressing, ProgressNotSure}

// Priority returns the sort rank of the status; lower ranks are more concerning.
// Unknown values rank before everything else.
func (p ProgressStatus) Priority() int {
	for i, s := range ProgressStatuses {
		if s == p {
			return i + 1
		}
	}
	return 0
}

// ActivityStatus classifies a lift by recency and frequency.
type ActivityStatus string

const (
	Active  ActivityStatus = "Active"
	New     ActivityStatus = "New"
	History ActivityStatus = "History"
)

// LiftSet is the part of a Set kept inside a lift's day entry.
type LiftSet struct {
	SetMark string   `json:"set_mark"`
	Weight  float64  `json:"weight"`
	Reps    int      `json:"reps"`
	RPE     *float64 `json:"rpe,omitempty"`
}

// DayEntry holds every set of one lift performed on one calendar day, in log order.
type DayEntry struct {
	Date              time.Time         `json:"date"`
	SessionNotes      string            `json:"session_notes,omitempty"`
	LiftNotes         string            `json:"lift_notes,omitempty"`
	PerformanceChange PerformanceChange `json:"performance_change"`
	Sets              []LiftSet         `json:"sets"`
}

// LiftHistory is the analyzed history of one lift.
type LiftHistory struct {
	Name           string         `json:"name"`
	SessionNames   []string       `json:"session_names"`
	Workouts       []DayEntry     `json:"workouts"`
	ProgressStatus ProgressStatus `json:"progress_status"`
	ActivityStatus ActivityStatus `json:"activity_status,omitempty"`
}

// LastPerformed returns the date of the most recent day entry.
func (l LiftHistory) LastPerformed() (time.Time, bool) {
	if len(l.Workouts) == 0 {
		return time.Time{}, false
	}
	return l.Workouts[len(l.Workouts)-1].Date, true
}
