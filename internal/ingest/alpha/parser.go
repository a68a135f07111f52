// Package alpha normalizes Alpha Progression CSV exports.
package alpha

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/claude/overload/internal/models"
)

var (
	// sessionHeaderRe matches: "Session Name";"2026-02-19 4:54 h";"1:02 hr"
	sessionHeaderRe = regexp.MustCompile(`^"(.+)";"(\d{4}-\d{2}-\d{2}\s+\d+:\d+)\s+h";"(.+)"$`)

	// exerciseHeaderRe matches: "1. Exercise Name · Equipment · 8 reps[· modifiers]"[;"warmup info"]
	exerciseHeaderRe = regexp.MustCompile(`^"(\d+)\.\s+(.+?)(?:\s+·\s+(\S.*?))?\s+·\s+(\d+)\s+reps(.*?)"(?:;"(.+)")?$`)

	// setDataRe matches: 1;115;8;1
	setDataRe = regexp.MustCompile(`^(\d+);(.+);(\d+);(.*)$`)

	// warmupRe matches: WU1 · 37,5 kg · 9 reps
	warmupRe = regexp.MustCompile(`WU(\d+)\s+·\s+(.+?)\s+kg\s+·\s+(\d+)\s+reps`)

	columnHeaderRe = regexp.MustCompile(`^#;KG;REPS;RIR$`)
)

// exercise is the parser state for the exercise block being read.
type exercise struct {
	name    string
	workout string
	date    time.Time
}

// Parse reads an Alpha Progression CSV export into raw sets. Warm-ups from
// the exercise header come out marked models.SetMarkWarmup; working sets
// carry their set number as mark. Bodyweight-plus loads ("+35") keep only
// the added weight. RIR is converted to RPE as 10 - RIR.
func Parse(r io.Reader) ([]models.Set, error) {
	scanner := bufio.NewScanner(r)
	var (
		sets    []models.Set
		workout string
		date    time.Time
		inBlock bool
		current *exercise
	)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Blank line ends the session.
		if line == "" {
			inBlock = false
			current = nil
			continue
		}
		if columnHeaderRe.MatchString(line) {
			continue
		}

		if m := sessionHeaderRe.FindStringSubmatch(line); m != nil {
			d, err := parseSessionDate(m[2])
			if err != nil {
				return nil, fmt.Errorf("parsing session date %q: %w", m[2], err)
			}
			workout, date, inBlock, current = m[1], d, true, nil
			continue
		}

		if m := exerciseHeaderRe.FindStringSubmatch(line); m != nil {
			if !inBlock {
				return nil, fmt.Errorf("exercise without session: %q", line)
			}
			current = &exercise{
				name:    exerciseName(strings.TrimSpace(m[2]), strings.TrimSpace(m[3])),
				workout: workout,
				date:    date,
			}
			if m[6] != "" {
				for _, w := range parseWarmups(m[6]) {
					sets = append(sets, current.set(models.SetMarkWarmup, w.weight, w.reps, nil))
				}
			}
			continue
		}

		if m := setDataRe.FindStringSubmatch(line); m != nil {
			if current == nil {
				return nil, fmt.Errorf("set data without exercise: %q", line)
			}
			weight, _ := parseWeight(m[2])
			reps, _ := strconv.Atoi(m[3])
			var rpe *float64
			if rir, ok := parseEuropeanFloat(m[4]); ok {
				v := 10 - rir
				rpe = &v
			}
			sets = append(sets, current.set(m[1], weight, reps, rpe))
			continue
		}

		// Anything else is notes or metadata.
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}
	return sets, nil
}

func (e *exercise) set(mark string, weight float64, reps int, rpe *float64) models.Set {
	return models.Set{
		Date:         models.Day(e.date),
		ExerciseName: e.name,
		WorkoutName:  e.workout,
		SetMark:      mark,
		Weight:       weight,
		Reps:         reps,
		RPE:          rpe,
	}
}

// exerciseName joins name and equipment the way other trackers spell it:
// "Hack Squats (Machine)".
func exerciseName(name, equipment string) string {
	if equipment == "" {
		return name
	}
	return name + " (" + equipment + ")"
}

// parseSessionDate parses "2026-02-19 4:54" into a time.Time.
func parseSessionDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02 3:04"} {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse date %q", s)
}

type warmup struct {
	weight float64
	reps   int
}

// parseWarmups extracts warm-up sets from the exercise header's second field.
// Example: "WU1 · 37,5 kg · 9 reps<br>WU2 · 72,5 kg · 7 reps"
func parseWarmups(s string) []warmup {
	var out []warmup
	for _, part := range strings.Split(s, "<br>") {
		m := warmupRe.FindStringSubmatch(part)
		if m == nil {
			continue
		}
		weight, _ := parseWeight(m[2])
		reps, _ := strconv.Atoi(m[3])
		out = append(out, warmup{weight: weight, reps: reps})
	}
	return out
}

// parseWeight handles European decimals and bodyweight-plus notation.
// "+35" -> (35, true), "102,5" -> (102.5, false), "+0" -> (0, true)
func parseWeight(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "+"); ok {
		w, _ := parseEuropeanFloat(rest)
		return w, true
	}
	w, _ := parseEuropeanFloat(s)
	return w, false
}

// parseEuropeanFloat converts "102,5" to 102.5.
func parseEuropeanFloat(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
