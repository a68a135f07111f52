package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Table is a CSV export read into memory with a header index.
type Table struct {
	columns map[string]int
	Rows    [][]string
}

// ReadTable reads a header row and all records. The delimiter is ',' unless
// the header line contains ';' and no ','. A UTF-8 BOM is ignored.
func ReadTable(r io.Reader, required ...string) (*Table, error) {
	br := bufio.NewReader(r)
	if b, err := br.Peek(3); err == nil && bytes.Equal(b, []byte{0xEF, 0xBB, 0xBF}) {
		_, _ = br.Discard(3)
	}
	// Peek returns whatever is available when the file is shorter.
	head, _ := br.Peek(1024)
	line, _, _ := bytes.Cut(head, []byte("\n"))

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	if bytes.Contains(line, []byte(";")) && !bytes.Contains(line, []byte(",")) {
		cr.Comma = ';'
	}

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty export")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	t := &Table{columns: make(map[string]int, len(header))}
	for i, h := range header {
		t.columns[strings.TrimSpace(h)] = i
	}
	for _, name := range required {
		if _, ok := t.columns[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

// Has reports whether the export has the named column.
func (t *Table) Has(column string) bool {
	_, ok := t.columns[column]
	return ok
}

// Get returns the trimmed value of column in row, or "" when absent.
func (t *Table) Get(row []string, column string) string {
	i, ok := t.columns[column]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// Float parses a numeric cell, treating blanks and garbage as 0.
func (t *Table) Float(row []string, column string) float64 {
	f, _ := strconv.ParseFloat(t.Get(row, column), 64)
	return f
}

// Int parses an integer cell, treating blanks and garbage as 0.
func (t *Table) Int(row []string, column string) int {
	s := t.Get(row, column)
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	// Some exports write reps as "8.0".
	f, _ := strconv.ParseFloat(s, 64)
	return int(f)
}

// OptionalFloat parses a cell that may be blank.
func (t *Table) OptionalFloat(row []string, column string) *float64 {
	f, err := strconv.ParseFloat(t.Get(row, column), 64)
	if err != nil || f == 0 {
		return nil
	}
	return &f
}
