// Package ingest defines the contract shared by the export-file normalizers
// in its subpackages: every normalizer yields canonical models.Set records.
package ingest

import (
	"io"
	"slices"

	"github.com/google/uuid"

	"github.com/claude/overload/internal/models"
)

// Source names a supported export format.
type Source string

const (
	SourceStrong Source = "strong"
	SourceHevy   Source = "hevy"
	SourceAlpha  Source = "alpha"
)

// Sources lists every supported format.
var Sources = []Source{SourceStrong, SourceHevy, SourceAlpha}

// ParseSource validates a source name from a URL or flag.
func ParseSource(s string) (Source, bool) {
	src := Source(s)
	return src, slices.Contains(Sources, src)
}

// ParseFunc reads one export file into raw sets. Raw sets may still contain
// warm-ups, rest timers and empty rows; pass them through Clean.
type ParseFunc func(r io.Reader) ([]models.Set, error)

// Result holds the outcome of an ingest operation.
type Result struct {
	ImportID     uuid.UUID `json:"import_id"`
	Source       Source    `json:"source"`
	SetsReceived int       `json:"sets_received"`
	SetsAccepted int       `json:"sets_accepted"`
	SetsSkipped  int       `json:"sets_skipped"`
	SetsInserted int64     `json:"sets_inserted"`
	FirstDate    string    `json:"first_date,omitempty"`
	LastDate     string    `json:"last_date,omitempty"`
	Message      string    `json:"message,omitempty"`
}

// Clean drops warm-ups, rest-timer rows and sets without any work, then
// sorts the rest by date. Sets on the same day keep their export order.
func Clean(raw []models.Set) []models.Set {
	out := make([]models.Set, 0, len(raw))
	for _, s := range raw {
		if s.IsWarmup() || s.IsEmpty() {
			continue
		}
		s.Date = models.Day(s.Date)
		out = append(out, s)
	}
	slices.SortStableFunc(out, func(a, b models.Set) int {
		return a.Date.Compare(b.Date)
	})
	return out
}

// Normalize parses r with parse and cleans the result. The returned Result
// carries the received, accepted and skipped counts.
func Normalize(src Source, parse ParseFunc, r io.Reader) ([]models.Set, *Result, error) {
	raw, err := parse(r)
	if err != nil {
		return nil, nil, err
	}
	sets := Clean(raw)
	res := &Result{
		Source:       src,
		SetsReceived: len(raw),
		SetsAccepted: len(sets),
		SetsSkipped:  len(raw) - len(sets),
	}
	if len(sets) > 0 {
		res.FirstDate = sets[0].Date.Format(models.DateLayout)
		res.LastDate = sets[len(sets)-1].Date.Format(models.DateLayout)
	}
	return sets, res, nil
}
