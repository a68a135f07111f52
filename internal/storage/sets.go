package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/claude/overload/internal/models"
)

const setColumns = 14

// Postgres caps bind parameters at 65535 per statement.
const insertBatchRows = 65535 / setColumns

// ReplaceSets swaps out every set previously imported from source for rows,
// inside one transaction. Exports are full histories, so a re-import of the
// same source always reflects the latest file. Returns the count inserted.
func (db *DB) ReplaceSets(ctx context.Context, source string, rows []models.SetRow) (int64, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM sets WHERE source = $1`, source); err != nil {
		return 0, fmt.Errorf("deleting sets for %s: %w", source, err)
	}

	var inserted int64
	for _, batch := range batches(rows, insertBatchRows) {
		n, err := insertSets(ctx, tx, batch)
		if err != nil {
			return 0, err
		}
		inserted += n
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing sets: %w", err)
	}
	return inserted, nil
}

// batches splits rows into consecutive slices of at most size rows.
func batches(rows []models.SetRow, size int) [][]models.SetRow {
	var out [][]models.SetRow
	for start := 0; start < len(rows); start += size {
		out = append(out, rows[start:min(start+size, len(rows))])
	}
	return out
}

func insertSets(ctx context.Context, tx pgx.Tx, rows []models.SetRow) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	query, args := buildInsertSets(rows)
	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting sets: %w", err)
	}
	return tag.RowsAffected(), nil
}

// buildInsertSets renders one multi-row INSERT with setColumns parameters per row.
func buildInsertSets(rows []models.SetRow) (string, []any) {
	query := `INSERT INTO sets (import_id, source, position, set_date, exercise_name, workout_name,
		set_mark, weight, reps, distance, seconds, rpe, notes, workout_notes) VALUES `
	args := make([]any, 0, len(rows)*setColumns)
	valueStrings := make([]string, 0, len(rows))

	for i, r := range rows {
		base := i * setColumns
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7,
			base+8, base+9, base+10, base+11, base+12, base+13, base+14,
		))
		args = append(args, r.ImportID, r.Source, r.Position, r.Date, r.ExerciseName, r.WorkoutName,
			r.SetMark, r.Weight, r.Reps, r.Distance, r.Seconds, r.RPE, r.Notes, r.WorkoutNotes)
	}
	return query + strings.Join(valueStrings, ","), args
}

const selectSets = `SELECT set_date, exercise_name, workout_name, set_mark, weight, reps,
	distance, seconds, rpe, notes, workout_notes FROM sets`

// Sets from different sources on the same day keep their per-file order.
const orderSets = ` ORDER BY set_date ASC, source ASC, position ASC`

// AllSets returns the whole log in ascending date order.
func (db *DB) AllSets(ctx context.Context) ([]models.Set, error) {
	return db.querySets(ctx, selectSets+orderSets)
}

// QuerySets returns sets dated within [from, to], inclusive, in ascending order.
func (db *DB) QuerySets(ctx context.Context, from, to time.Time) ([]models.Set, error) {
	return db.querySets(ctx, selectSets+` WHERE set_date >= $1 AND set_date <= $2`+orderSets,
		models.Day(from), models.Day(to))
}

func (db *DB) querySets(ctx context.Context, query string, args ...any) ([]models.Set, error) {
	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sets: %w", err)
	}
	defer rows.Close()

	var result []models.Set
	for rows.Next() {
		var s models.Set
		if err := rows.Scan(&s.Date, &s.ExerciseName, &s.WorkoutName, &s.SetMark, &s.Weight, &s.Reps,
			&s.Distance, &s.Seconds, &s.RPE, &s.Notes, &s.WorkoutNotes); err != nil {
			return nil, fmt.Errorf("scanning set: %w", err)
		}
		s.Date = models.Day(s.Date)
		result = append(result, s)
	}
	return result, rows.Err()
}

// CountSets returns the number of stored sets per source.
func (db *DB) CountSets(ctx context.Context) (map[string]int64, error) {
	rows, err := db.Pool.Query(ctx, `SELECT source, count(*) FROM sets GROUP BY source`)
	if err != nil {
		return nil, fmt.Errorf("counting sets: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var source string
		var n int64
		if err := rows.Scan(&source, &n); err != nil {
			return nil, fmt.Errorf("scanning set count: %w", err)
		}
		counts[source] = n
	}
	return counts, rows.Err()
}
