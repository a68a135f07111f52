package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/claude/overload/internal/analysis"
	"github.com/claude/overload/internal/importer"
	"github.com/claude/overload/internal/ingest"
	"github.com/claude/overload/internal/models"
	"github.com/claude/overload/internal/muscles"
	"github.com/claude/overload/internal/volume"
)

type report struct {
	Source  ingest.Source        `json:"source"`
	Import  *ingest.Result       `json:"import"`
	Lifts   []models.LiftHistory `json:"lifts"`
	Volume  volume.Result        `json:"volume"`
	Unknown []string             `json:"unknown_exercises,omitempty"`
}

func main() {
	file := flag.String("file", "", "export file to analyze (required)")
	sourceName := flag.String("source", "", "export format: strong, hevy or alpha (default: detect from header)")
	status := flag.String("status", "", "only report lifts with this progress status")
	activity := flag.String("activity", "", "only report lifts with this activity status")
	from := flag.String("from", "", "volume range start (YYYY-MM-DD)")
	to := flag.String("to", "", "volume range end (YYYY-MM-DD)")
	date := flag.String("date", "", "picked date for the volume period (default: today)")
	weeks := flag.Int("weeks", 4, "volume period length in weeks")
	direction := flag.String("direction", "before", "volume period direction: before or after the picked date")
	activeDays := flag.Int("active-days", analysis.DefaultActiveDays, "days without training before a lift is History")
	minDays := flag.Int("min-days", analysis.DefaultMinTrainingDays, "training days before a lift stops being New")
	overridesPath := flag.String("overrides", "", "YAML file mapping exercise names to primary/secondary muscle groups")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *file == "" {
		fmt.Fprintf(os.Stderr, "Usage: overload-analyze -file export.csv [-source strong|hevy|alpha] [-weeks N]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	progress, act, err := analysis.ParseFilters(*status, *activity)
	if err != nil {
		log.Error("invalid filter", "error", err)
		os.Exit(1)
	}

	src, err := resolveSource(*sourceName, *file)
	if err != nil {
		log.Error("cannot determine export format", "file", *file, "error", err)
		os.Exit(1)
	}

	overrides, err := loadOverrides(*overridesPath)
	if err != nil {
		log.Error("failed to load overrides", "error", err)
		os.Exit(1)
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Error("failed to open export", "error", err)
		os.Exit(1)
	}
	defer f.Close()

	parse, _ := importer.Parser(src)
	sets, res, err := ingest.Normalize(src, parse, f)
	if err != nil {
		log.Error("failed to parse export", "source", src, "error", err)
		os.Exit(1)
	}
	log.Info("export parsed", "source", src, "received", res.SetsReceived, "accepted", res.SetsAccepted,
		"first_date", res.FirstDate, "last_date", res.LastDate)

	now := time.Now()
	lifts := analysis.AnalyzeProgressiveOverload(sets, analysis.Options{
		Now:             now,
		ActiveDays:      *activeDays,
		MinTrainingDays: *minDays,
	})

	rangeFrom, rangeTo, err := volume.RangeQuery{
		From:      *from,
		To:        *to,
		Date:      *date,
		Weeks:     *weeks,
		Direction: *direction,
	}.Resolve(now, 4)
	if err != nil {
		log.Error("invalid volume range", "error", err)
		os.Exit(1)
	}
	vol := volume.Calculate(sets, rangeFrom, rangeTo, overrides)

	out := report{
		Source: src,
		Import: res,
		Lifts:  analysis.Filter(lifts, progress, act),
		Volume: vol,
	}
	for name, attr := range vol.LiftAttributions {
		if attr.IsUnknown() {
			out.Unknown = append(out.Unknown, name)
		}
	}
	if len(out.Unknown) > 0 {
		log.Warn("exercises without muscle attribution", "count", len(out.Unknown))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Error("failed to write report", "error", err)
		os.Exit(1)
	}
}

func resolveSource(name, path string) (ingest.Source, error) {
	if name == "" {
		return importer.DetectFile(path)
	}
	src, ok := ingest.ParseSource(name)
	if !ok {
		return "", fmt.Errorf("unknown source %q", name)
	}
	return src, nil
}

func loadOverrides(path string) (muscles.Overrides, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading overrides file: %w", err)
	}
	var overrides muscles.Overrides
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("parsing overrides file: %w", err)
	}
	return overrides, nil
}
