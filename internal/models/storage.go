package models

import (
	"time"

	"github.com/google/uuid"
)

// SetRow is a canonical set ready for insertion into the sets table.
type SetRow struct {
	ImportID uuid.UUID
	Source   string
	Position int
	Set
}

// ImportedAt stamps a batch of rows with the import they belong to.
// Position preserves the original log order within the batch.
func ImportedAt(importID uuid.UUID, source string, sets []Set) []SetRow {
	rows := make([]SetRow, len(sets))
	for i, s := range sets {
		rows[i] = SetRow{ImportID: importID, Source: source, Position: i, Set: s}
	}
	return rows
}

// ImportLog represents a single import operation's outcome.
type ImportLog struct {
	ID           int64     `json:"id"`
	ImportID     uuid.UUID `json:"import_id"`
	CreatedAt    time.Time `json:"created_at"`
	Source       string    `json:"source"`
	FileName     string    `json:"file_name,omitempty"`
	Status       string    `json:"status"`
	SetsReceived int       `json:"sets_received"`
	SetsInserted int64     `json:"sets_inserted"`
	DurationMs   *int      `json:"duration_ms"`
	ErrorMessage *string   `json:"error_message"`
}
