package volume

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/claude/overload/internal/models"
	"github.com/claude/overload/internal/muscles"
)

const dropSetFactor = 0.5

// SetCounts tallies the sets of one lift within a week.
type SetCounts struct {
	StraightSets int `json:"straight_sets"`
	DropSets     int `json:"drop_sets"`
}

// MuscleVolume is direct, indirect and blended set volume for one muscle.
type MuscleVolume struct {
	Primary    float64 `json:"primary"`
	Secondary  float64 `json:"secondary"`
	Fractional float64 `json:"fractional"`
}

func (v *MuscleVolume) finish() {
	v.Primary = round1(v.Primary)
	v.Secondary = round1(v.Secondary)
	v.Fractional = round1(v.Primary + v.Secondary/2)
}

// Week is one bucket of the result.
type Week struct {
	Span
	Lifts   map[string]SetCounts           `json:"lifts"`
	Muscles map[muscles.Group]MuscleVolume `json:"muscles"`
}

// Frequency is the average number of distinct training days per week on
// which a muscle was trained directly, or at all.
type Frequency struct {
	Direct   float64 `json:"direct"`
	Combined float64 `json:"combined"`
}

// PerformedLifts lists the exercises that contributed to a muscle's volume,
// in first-performed order.
type PerformedLifts struct {
	Primary   []string `json:"primary"`
	Secondary []string `json:"secondary"`
}

// Result is the weekly volume report for one date range.
type Result struct {
	From             time.Time                        `json:"from"`
	To               time.Time                        `json:"to"`
	Weeks            []Week                           `json:"weeks"`
	LiftAttributions map[string]muscles.Attribution   `json:"lift_attributions"`
	Averages         map[muscles.Group]MuscleVolume   `json:"averages"`
	Frequency        map[muscles.Group]Frequency      `json:"frequency"`
	PerformedLifts   map[muscles.Group]PerformedLifts `json:"performed_lifts"`
}

func emptyResult(from, to time.Time) Result {
	return Result{
		From:             from,
		To:               to,
		Weeks:            []Week{},
		LiftAttributions: map[string]muscles.Attribution{},
		Averages:         map[muscles.Group]MuscleVolume{},
		Frequency:        map[muscles.Group]Frequency{},
		PerformedLifts:   map[muscles.Group]PerformedLifts{},
	}
}

// Calculate computes weekly muscle volume for sets dated within [from, to].
// sets must be sorted by date. Each distinct exercise name is attributed once;
// overrides may be nil. An invalid range returns a result with no weeks.
func Calculate(sets []models.Set, from, to time.Time, overrides muscles.Overrides) Result {
	limited := LimitSets(sets, from, to)
	spans := Weeks(from, to)
	if len(spans) == 0 {
		if len(limited) > 0 {
			panic(fmt.Sprintf("volume: %d sets in range but no weeks", len(limited)))
		}
		return emptyResult(from, to)
	}
	res := emptyResult(models.Day(from), models.Day(to))

	res.Weeks = make([]Week, len(spans))
	for i, s := range spans {
		res.Weeks[i] = Week{
			Span:    s,
			Lifts:   map[string]SetCounts{},
			Muscles: map[muscles.Group]MuscleVolume{},
		}
	}

	memo := muscles.NewMemo(overrides)
	totals := map[muscles.Group]*MuscleVolume{}
	directDays := map[muscles.Group]map[int64]bool{}
	anyDays := map[muscles.Group]map[int64]bool{}

	w := 0
	for _, s := range limited {
		day := models.Day(s.Date)
		for w < len(res.Weeks) && day.After(res.Weeks[w].End) {
			w++
		}
		if w == len(res.Weeks) {
			panic(fmt.Sprintf("volume: set dated %s falls after the last week ending %s",
				day.Format(models.DateLayout), res.Weeks[len(res.Weeks)-1].End.Format(models.DateLayout)))
		}
		week := &res.Weeks[w]

		counts := week.Lifts[s.ExerciseName]
		factor := 1.0
		if s.IsDropSet() {
			counts.DropSets++
			factor = dropSetFactor
		} else {
			counts.StraightSets++
		}
		week.Lifts[s.ExerciseName] = counts

		attr := memo.Get(s.ExerciseName)
		key := day.Unix()
		for _, g := range attr.Primary {
			v := week.Muscles[g]
			v.Primary += factor
			week.Muscles[g] = v
			total(totals, g).Primary += factor
			mark(directDays, g, key)
			mark(anyDays, g, key)
			addPerformed(res.PerformedLifts, g, s.ExerciseName, true)
		}
		for _, g := range attr.Secondary {
			v := week.Muscles[g]
			v.Secondary += factor
			week.Muscles[g] = v
			total(totals, g).Secondary += factor
			mark(anyDays, g, key)
			addPerformed(res.PerformedLifts, g, s.ExerciseName, false)
		}
	}

	for i := range res.Weeks {
		for g, v := range res.Weeks[i].Muscles {
			v.finish()
			res.Weeks[i].Muscles[g] = v
		}
	}

	n := float64(len(res.Weeks))
	for g, t := range totals {
		avg := MuscleVolume{Primary: t.Primary / n, Secondary: t.Secondary / n}
		avg.finish()
		res.Averages[g] = avg
	}
	for g, days := range anyDays {
		res.Frequency[g] = Frequency{
			Direct:   round1(float64(len(directDays[g])) / n),
			Combined: round1(float64(len(days)) / n),
		}
	}
	res.LiftAttributions = memo.All()
	return res
}

func total(totals map[muscles.Group]*MuscleVolume, g muscles.Group) *MuscleVolume {
	t, ok := totals[g]
	if !ok {
		t = &MuscleVolume{}
		totals[g] = t
	}
	return t
}

func mark(days map[muscles.Group]map[int64]bool, g muscles.Group, key int64) {
	if days[g] == nil {
		days[g] = map[int64]bool{}
	}
	days[g][key] = true
}

func addPerformed(m map[muscles.Group]PerformedLifts, g muscles.Group, name string, primary bool) {
	p := m[g]
	if primary {
		if !slices.Contains(p.Primary, name) {
			p.Primary = append(p.Primary, name)
		}
	} else if !slices.Contains(p.Secondary, name) {
		p.Secondary = append(p.Secondary, name)
	}
	m[g] = p
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
