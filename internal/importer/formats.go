package importer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/claude/overload/internal/ingest"
	"github.com/claude/overload/internal/ingest/alpha"
	"github.com/claude/overload/internal/ingest/hevy"
	"github.com/claude/overload/internal/ingest/strong"
)

var parsers = map[ingest.Source]ingest.ParseFunc{
	ingest.SourceStrong: strong.Parse,
	ingest.SourceHevy:   hevy.Parse,
	ingest.SourceAlpha:  alpha.Parse,
}

// Parser returns the normalizer for src.
func Parser(src ingest.Source) (ingest.ParseFunc, bool) {
	p, ok := parsers[src]
	return p, ok
}

// alphaSessionRe matches the first line of an Alpha Progression session.
var alphaSessionRe = regexp.MustCompile(`^"[^"]+";"\d{4}-\d{2}-\d{2}\s+\d+:\d+\s+h";`)

// Detect guesses the export format from its first non-blank line.
func Detect(firstLine string) (ingest.Source, bool) {
	line := strings.TrimPrefix(strings.TrimSpace(firstLine), "\ufeff")
	switch {
	case strings.Contains(line, "exercise_title") && strings.Contains(line, "set_type"):
		return ingest.SourceHevy, true
	case strings.Contains(line, "Exercise Name") && strings.Contains(line, "Set Order"):
		return ingest.SourceStrong, true
	case alphaSessionRe.MatchString(line):
		return ingest.SourceAlpha, true
	}
	return "", false
}

// DetectReader reads r up to its first non-blank line and detects the format.
func DetectReader(r io.Reader) (ingest.Source, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if src, ok := Detect(line); ok {
			return src, nil
		}
		return "", fmt.Errorf("unrecognized export header %q", truncate(line, 80))
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading header: %w", err)
	}
	return "", fmt.Errorf("empty export")
}

// DetectFile detects the format of the file at path.
func DetectFile(path string) (ingest.Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return DetectReader(f)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
