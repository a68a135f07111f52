package ingest

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/claude/overload/internal/models"
)

func at(s string) time.Time {
	t, _ := time.Parse("2006-01-02 15:04", s)
	return t
}

// TestClean verifies filtering and stable date ordering.
func TestClean(t *testing.T) {
	raw := []models.Set{
		{Date: at("2024-01-02 10:00"), ExerciseName: "A", SetMark: "1", Reps: 5},
		{Date: at("2024-01-01 18:00"), ExerciseName: "B", SetMark: "W", Reps: 5},
		{Date: at("2024-01-01 18:00"), ExerciseName: "C", SetMark: "1", Reps: 5},
		{Date: at("2024-01-01 18:00"), ExerciseName: "D", SetMark: "rest timer", Seconds: 90},
		{Date: at("2024-01-01 18:00"), ExerciseName: "E", SetMark: "2"},
		{Date: at("2024-01-01 19:00"), ExerciseName: "F", SetMark: "F", Seconds: 30},
	}
	got := Clean(raw)
	want := []string{"C", "F", "A"}
	if len(got) != len(want) {
		t.Fatalf("Clean = %d sets, want %d", len(got), len(want))
	}
	for i, s := range got {
		if s.ExerciseName != want[i] {
			t.Errorf("got[%d] = %s, want %s", i, s.ExerciseName, want[i])
		}
		if s.Date.Hour() != 0 {
			t.Errorf("got[%d] date not truncated: %s", i, s.Date)
		}
	}
}

// TestNormalize verifies the counts reported alongside cleaned sets.
func TestNormalize(t *testing.T) {
	parse := func(io.Reader) ([]models.Set, error) {
		return []models.Set{
			{Date: at("2024-03-05 10:00"), SetMark: "1", Reps: 5},
			{Date: at("2024-03-01 10:00"), SetMark: "W", Reps: 5},
			{Date: at("2024-03-02 10:00"), SetMark: "1", Reps: 5},
		}, nil
	}
	sets, res, err := Normalize(SourceStrong, parse, strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if len(sets) != 2 || res.SetsReceived != 3 || res.SetsAccepted != 2 || res.SetsSkipped != 1 {
		t.Errorf("result = %+v", res)
	}
	if res.FirstDate != "2024-03-02" || res.LastDate != "2024-03-05" {
		t.Errorf("date span = %s..%s", res.FirstDate, res.LastDate)
	}
}

// TestParseSource verifies accepted source names.
func TestParseSource(t *testing.T) {
	for _, s := range []string{"strong", "hevy", "alpha"} {
		if _, ok := ParseSource(s); !ok {
			t.Errorf("ParseSource(%q) rejected", s)
		}
	}
	if _, ok := ParseSource("fitbod"); ok {
		t.Error("ParseSource accepted an unknown source")
	}
}

// TestReadTableBOM verifies a leading byte order mark does not break the header.
func TestReadTableBOM(t *testing.T) {
	tbl, err := ReadTable(strings.NewReader("\ufeffDate,Reps\n2024-01-01,5\n"), "Date")
	if err != nil {
		t.Fatal(err)
	}
	if got := tbl.Int(tbl.Rows[0], "Reps"); got != 5 {
		t.Errorf("Reps = %d, want 5", got)
	}
	if tbl.Get(tbl.Rows[0], "Missing") != "" {
		t.Error("absent column returned a value")
	}
}

// TestNormalizeParseError verifies parser errors are passed through.
func TestNormalizeParseError(t *testing.T) {
	boom := errors.New("boom")
	parse := func(io.Reader) ([]models.Set, error) { return nil, boom }
	if _, _, err := Normalize(SourceHevy, parse, strings.NewReader("")); !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}
