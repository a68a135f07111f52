package alpha

import (
	"strings"
	"testing"

	"github.com/claude/overload/internal/ingest"
	"github.com/claude/overload/internal/models"
)

const sampleCSV = `
"Legs · Day 2 · Week 4 · Push-Pull-Legs";"2026-02-19 4:54 h";"1:02 hr"
"1. Hack Squats · Machine · 8 reps";"WU1 · 37,5 kg · 9 reps<br>WU2 · 72,5 kg · 7 reps"
#;KG;REPS;RIR
1;115;8;1
2;115;10;1
3;115;10;1
"2. Sumo Squats · Smith machine · 10 reps";"WU1 · 35 kg · 8 reps"
#;KG;REPS;RIR
1;70;8;1
2;70;12;1
"3. Hyperextensions on Roman Chair · Bodyweight · 10 reps";"WU1 · +0 kg · 8 reps"
#;KG;REPS;RIR
1;+35;10;0
2;+35;9;1
3;+35;10;0
"4. Reverse Lunges · Dumbbells · 10 reps"
#;KG;REPS;RIR
1;10;10;1
2;10;10;1
3;10;10;0
"5. Standing Calf Raises · Machine · 12 reps";"WU1 · 47,5 kg · 8 reps"
#;KG;REPS;RIR
1;157,5;11;1
2;157,5;11;0
3;157,5;10;0
"6. Hanging Leg Raises · Bodyweight · 12 reps · 2 dropsets"
#;KG;REPS;RIR
1;+0;12;1
2;+0;12;1
3;+0;12;0

"Push · Day 1 · Week 4 · Push-Pull-Legs";"2026-02-17 5:04 h";"1:12 hr"
"1. Bench Press · Barbell · 6 reps";"WU1 · 22,5 kg · 10 reps<br>WU2 · 47,5 kg · 8 reps<br>WU3 · 77,5 kg · 6 reps"
#;KG;REPS;RIR
1;102,5;6;0
2;102,5;6;0
3;100;6;0
`

// TestParseCompleteSessions verifies parsing a multi-session CSV into raw
// sets, warm-ups included. This is the happy path end-to-end.
func TestParseCompleteSessions(t *testing.T) {
	sets, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(sets) != 28 { // 20 working + 8 warm-up
		t.Fatalf("sets = %d, want 28", len(sets))
	}

	// Hack Squats: 2 warm-ups first, then working set 1
	first := sets[0]
	if first.ExerciseName != "Hack Squats (Machine)" {
		t.Errorf("ExerciseName = %q, want Hack Squats (Machine)", first.ExerciseName)
	}
	if first.WorkoutName != "Legs · Day 2 · Week 4 · Push-Pull-Legs" {
		t.Errorf("WorkoutName = %q", first.WorkoutName)
	}
	if first.SetMark != models.SetMarkWarmup || first.Weight != 37.5 || first.Reps != 9 {
		t.Errorf("first warm-up = %+v", first)
	}
	if got := sets[2]; got.SetMark != "1" || got.Weight != 115 || got.Reps != 8 {
		t.Errorf("first working set = %+v", got)
	}
	if d := sets[2].Date.Format(models.DateLayout); d != "2026-02-19" {
		t.Errorf("Date = %s, want 2026-02-19", d)
	}
	if rpe := sets[2].RPE; rpe == nil || *rpe != 9 {
		t.Errorf("RPE = %v, want 9 (RIR 1)", rpe)
	}

	// Multi-word equipment
	if got := sets[5].ExerciseName; got != "Sumo Squats (Smith machine)" {
		t.Errorf("sets[5].ExerciseName = %q", got)
	}

	// Bodyweight-plus keeps the added load only
	var hyper []models.Set
	for _, s := range sets {
		if s.ExerciseName == "Hyperextensions on Roman Chair (Bodyweight)" && !s.IsWarmup() {
			hyper = append(hyper, s)
		}
	}
	if len(hyper) != 3 || hyper[0].Weight != 35 {
		t.Errorf("hyperextension working sets = %+v", hyper)
	}

	last := sets[len(sets)-1]
	if last.ExerciseName != "Bench Press (Barbell)" || last.Weight != 100 || last.SetMark != "3" {
		t.Errorf("last set = %+v", last)
	}
}

// TestParseThenClean verifies that cleaning drops warm-ups and orders the
// earlier session first.
func TestParseThenClean(t *testing.T) {
	raw, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	sets := ingest.Clean(raw)
	if len(sets) != 20 {
		t.Fatalf("clean sets = %d, want 20", len(sets))
	}
	if sets[0].ExerciseName != "Bench Press (Barbell)" || sets[0].Weight != 102.5 {
		t.Errorf("first clean set = %+v, want bench 102.5", sets[0])
	}
}

// TestParseSetWithoutExercise verifies that orphan set rows are an error.
func TestParseSetWithoutExercise(t *testing.T) {
	in := "\"Push\";\"2026-02-17 5:04 h\";\"1:12 hr\"\n1;100;5;1\n"
	if _, err := Parse(strings.NewReader(in)); err == nil {
		t.Error("expected error for set data without exercise")
	}
}

// TestParseMissingRIR verifies that a blank RIR leaves RPE unset.
func TestParseMissingRIR(t *testing.T) {
	in := "\"Push\";\"2026-02-17 5:04 h\";\"1:12 hr\"\n\"1. Dips · Bodyweight · 10 reps\"\n1;+10;10;\n"
	sets, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(sets) != 1 || sets[0].RPE != nil {
		t.Errorf("sets = %+v, want one set without RPE", sets)
	}
}

// TestEuropeanDecimal verifies that European decimal notation is correctly parsed.
// Alpha Progression uses commas as decimal separators (e.g. "102,5" = 102.5 kg).
func TestEuropeanDecimal(t *testing.T) {
	got, ok := parseEuropeanFloat("102,5")
	if !ok || got != 102.5 {
		t.Errorf("parseEuropeanFloat(102,5) = %f, want 102.5", got)
	}
}

// TestBodyweightPlus verifies the +N notation for bodyweight exercises.
// "+35" means bodyweight plus 35kg (e.g. weighted pullups).
func TestBodyweightPlus(t *testing.T) {
	weight, isBW := parseWeight("+35")
	if !isBW {
		t.Error("expected isBodyweightPlus=true")
	}
	if weight != 35 {
		t.Errorf("weight = %f, want 35", weight)
	}
}

// TestBodyweightPlusZero verifies that +0 means bodyweight only.
func TestBodyweightPlusZero(t *testing.T) {
	weight, isBW := parseWeight("+0")
	if !isBW {
		t.Error("expected isBodyweightPlus=true")
	}
	if weight != 0 {
		t.Errorf("weight = %f, want 0", weight)
	}
}

// TestFractionalRIR verifies that fractional RIR values are parsed correctly.
// Alpha Progression supports half-RIR values like "0,5".
func TestFractionalRIR(t *testing.T) {
	got, ok := parseEuropeanFloat("0,5")
	if !ok || got != 0.5 {
		t.Errorf("parseEuropeanFloat(0,5) = %f, want 0.5", got)
	}
}

// TestWarmupParsing verifies warmup set extraction from the exercise header's second field.
// Warmups use <br> as separator and European decimal notation.
func TestWarmupParsing(t *testing.T) {
	warmupStr := "WU1 · 37,5 kg · 9 reps<br>WU2 · 72,5 kg · 7 reps"
	sets := parseWarmups(warmupStr)
	if len(sets) != 2 {
		t.Fatalf("warmup sets = %d, want 2", len(sets))
	}
	if sets[0].weight != 37.5 {
		t.Errorf("wu1 weight = %f, want 37.5", sets[0].weight)
	}
	if sets[0].reps != 9 {
		t.Errorf("wu1 reps = %d, want 9", sets[0].reps)
	}
	if sets[1].weight != 72.5 {
		t.Errorf("wu2 weight = %f, want 72.5", sets[1].weight)
	}
}

// TestWarmupBodyweightPlus verifies parsing warmup sets with bodyweight-plus notation.
func TestWarmupBodyweightPlus(t *testing.T) {
	sets := parseWarmups("WU1 · +5 kg · 8 reps")
	if len(sets) != 1 {
		t.Fatalf("warmup sets = %d, want 1", len(sets))
	}
	if sets[0].weight != 5 || sets[0].reps != 8 {
		t.Errorf("warmup = %+v, want 5 kg x 8", sets[0])
	}
}

// TestEmptyInput verifies that empty input returns no sets without error.
func TestEmptyInput(t *testing.T) {
	sets, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sets) != 0 {
		t.Errorf("sets = %d, want 0", len(sets))
	}
}

// TestExerciseName verifies name and equipment are joined like other trackers.
func TestExerciseName(t *testing.T) {
	if got := exerciseName("Hack Squats", "Machine"); got != "Hack Squats (Machine)" {
		t.Errorf("exerciseName = %q", got)
	}
	if got := exerciseName("Plank", ""); got != "Plank" {
		t.Errorf("exerciseName without equipment = %q", got)
	}
}
