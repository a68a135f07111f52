package volume

import (
	"testing"
	"time"
)

// TestWeeks checks bucket counts and that spans tile the range.
func TestWeeks(t *testing.T) {
	tests := []struct {
		from, to string
		n        int
		lastEnd  string
	}{
		{"2025-03-01", "2025-03-31", 5, "2025-04-04"},
		{"2024-12-20", "2025-01-10", 4, "2025-01-16"},
		{"2025-03-01", "2025-05-23", 12, "2025-05-23"},
		{"2025-03-01", "2025-03-01", 1, "2025-03-07"},
		{"2025-03-01", "2025-03-07", 1, "2025-03-07"},
		{"2025-03-01", "2025-03-08", 2, "2025-03-14"},
	}
	for _, tt := range tests {
		t.Run(tt.from+"_"+tt.to, func(t *testing.T) {
			spans := Weeks(day(t, tt.from), day(t, tt.to))
			if len(spans) != tt.n {
				t.Fatalf("Weeks = %d spans, want %d", len(spans), tt.n)
			}
			if got := spans[len(spans)-1].End; !got.Equal(day(t, tt.lastEnd)) {
				t.Errorf("last end = %s, want %s", got.Format("2006-01-02"), tt.lastEnd)
			}
			if !spans[0].Start.Equal(day(t, tt.from)) {
				t.Errorf("first start = %s, want %s", spans[0].Start, tt.from)
			}
			for i := 1; i < len(spans); i++ {
				if !spans[i].Start.Equal(spans[i-1].End.AddDate(0, 0, 1)) {
					t.Errorf("span %d starts %s, previous ends %s", i, spans[i].Start, spans[i-1].End)
				}
			}
		})
	}
}

// TestWeeksLabel verifies the human-readable label format.
func TestWeeksLabel(t *testing.T) {
	spans := Weeks(day(t, "2024-12-30"), day(t, "2024-12-30"))
	want := "Week Dec 30, 2024-Jan 5, 2025"
	if spans[0].Label != want {
		t.Errorf("Label = %q, want %q", spans[0].Label, want)
	}
}

// TestWeeksInvalid verifies that invalid ranges produce no spans.
func TestWeeksInvalid(t *testing.T) {
	if got := Weeks(day(t, "2025-03-02"), day(t, "2025-03-01")); len(got) != 0 {
		t.Errorf("from after to: %d spans", len(got))
	}
	if got := Weeks(time.Time{}, time.Time{}); len(got) != 0 {
		t.Errorf("zero dates: %d spans", len(got))
	}
}

// TestPeriodRange verifies ranges before and after the picked date.
func TestPeriodRange(t *testing.T) {
	tests := []struct {
		weeks    int
		dir      Direction
		from, to string
	}{
		{4, Before, "2025-02-04", "2025-03-03"},
		{4, After, "2025-03-03", "2025-03-30"},
		{1, Before, "2025-02-25", "2025-03-03"},
		{0, After, "2025-03-03", "2025-03-09"},
	}
	for _, tt := range tests {
		from, to := PeriodRange(day(t, "2025-03-03"), tt.weeks, tt.dir)
		if !from.Equal(day(t, tt.from)) || !to.Equal(day(t, tt.to)) {
			t.Errorf("PeriodRange(%d, %s) = %s..%s, want %s..%s", tt.weeks, tt.dir,
				from.Format("2006-01-02"), to.Format("2006-01-02"), tt.from, tt.to)
		}
		if n := len(Weeks(from, to)); n != max(tt.weeks, 1) {
			t.Errorf("PeriodRange(%d, %s) spans %d weeks", tt.weeks, tt.dir, n)
		}
	}
}

// TestParseDirection verifies accepted query values.
func TestParseDirection(t *testing.T) {
	for in, want := range map[string]Direction{"": Before, "before": Before, "after": After} {
		if got, ok := ParseDirection(in); !ok || got != want {
			t.Errorf("ParseDirection(%q) = %q, %v", in, got, ok)
		}
	}
	if _, ok := ParseDirection("sideways"); ok {
		t.Error("ParseDirection accepted an unknown value")
	}
}

// TestRangeQueryResolve verifies explicit ranges, picked periods and defaults.
func TestRangeQueryResolve(t *testing.T) {
	now := time.Date(2025, 3, 3, 21, 30, 0, 0, time.UTC)
	tests := []struct {
		name     string
		q        RangeQuery
		from, to string
	}{
		{"defaults", RangeQuery{}, "2025-02-04", "2025-03-03"},
		{"explicit", RangeQuery{From: "2025-01-01", To: "2025-01-31"}, "2025-01-01", "2025-01-31"},
		{"picked before", RangeQuery{Date: "2025-02-14", Weeks: 2}, "2025-02-01", "2025-02-14"},
		{"picked after", RangeQuery{Date: "2025-02-14", Weeks: 1, Direction: "after"}, "2025-02-14", "2025-02-20"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, err := tt.q.Resolve(now, 4)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if !from.Equal(day(t, tt.from)) || !to.Equal(day(t, tt.to)) {
				t.Errorf("Resolve = %s..%s, want %s..%s",
					from.Format("2006-01-02"), to.Format("2006-01-02"), tt.from, tt.to)
			}
		})
	}
}

// TestRangeQueryResolveErrors verifies malformed queries are rejected.
func TestRangeQueryResolveErrors(t *testing.T) {
	now := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	for _, q := range []RangeQuery{
		{From: "2025-01-01"},
		{To: "2025-01-01"},
		{From: "01/01/2025", To: "2025-01-31"},
		{Date: "tomorrow"},
		{Weeks: -2},
		{Direction: "sideways"},
	} {
		if _, _, err := q.Resolve(now, 4); err == nil {
			t.Errorf("Resolve(%+v) succeeded", q)
		}
	}
}
