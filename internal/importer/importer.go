// Package importer loads workout-tracker export files into storage, either
// one at a time through Provider or from a directory through Importer.
package importer

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/claude/overload/internal/ingest"
)

// Stats tracks import progress.
type Stats struct {
	FilesProcessed  int
	FilesSkipped    int
	FilesSuperseded int
	FilesErrored    int

	SetsReceived int
	SetsAccepted int
	SetsInserted int64
}

// candidate is one recognized export file found in the directory.
type candidate struct {
	path    string
	relPath string
	source  ingest.Source
	size    int64
	modTime time.Time
}

// Importer imports every recognized export file under a directory.
type Importer struct {
	provider *Provider
	state    *StateDB
	log      *slog.Logger
	dryRun   bool
	stats    Stats
}

// New creates a new Importer. state may be nil to import every file
// regardless of earlier runs.
func New(provider *Provider, state *StateDB, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{provider: provider, state: state, log: log, dryRun: dryRun}
}

// Import walks dir for .csv and .txt exports. Each export is a full history,
// so only the most recently modified file per source is imported; older ones
// count as superseded. Unchanged files seen in an earlier run are skipped.
func (imp *Importer) Import(ctx context.Context, dir string) (*Stats, error) {
	latest := map[ingest.Source]candidate{}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isExportFile(d.Name()) {
			return nil
		}
		src, err := DetectFile(path)
		if err != nil {
			imp.log.Info("skipping unrecognized file", "file", path, "reason", err)
			imp.stats.FilesSkipped++
			return nil
		}
		info, err := d.Info()
		if err != nil {
			imp.log.Warn("stat failed", "file", path, "error", err)
			imp.stats.FilesErrored++
			return nil
		}
		rel, _ := filepath.Rel(dir, path)
		c := candidate{path: path, relPath: rel, source: src, size: info.Size(), modTime: info.ModTime()}

		if prev, ok := latest[src]; ok {
			imp.stats.FilesSuperseded++
			if !c.modTime.After(prev.modTime) {
				imp.log.Info("superseded by newer export", "file", rel, "newer", prev.relPath)
				return nil
			}
			imp.log.Info("superseded by newer export", "file", prev.relPath, "newer", rel)
		}
		latest[src] = c
		return nil
	})
	if err != nil {
		return &imp.stats, fmt.Errorf("walking %s: %w", dir, err)
	}

	for _, src := range ingest.Sources {
		c, ok := latest[src]
		if !ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return &imp.stats, err
		}
		if err := imp.importFile(ctx, c); err != nil {
			return &imp.stats, err
		}
	}
	return &imp.stats, nil
}

func (imp *Importer) importFile(ctx context.Context, c candidate) error {
	hash, err := HashFile(c.path)
	if err != nil {
		imp.log.Warn("hash failed", "file", c.path, "error", err)
		imp.stats.FilesErrored++
		return nil
	}

	if imp.state != nil {
		done, err := imp.state.IsImported(c.relPath, c.size, hash)
		if err != nil {
			return err
		}
		if done {
			imp.log.Info("already imported", "file", c.relPath)
			imp.stats.FilesSkipped++
			return nil
		}
	}

	f, err := os.Open(c.path)
	if err != nil {
		imp.log.Warn("open failed", "file", c.path, "error", err)
		imp.stats.FilesErrored++
		return nil
	}
	defer f.Close()

	if imp.dryRun {
		parse, _ := Parser(c.source)
		_, res, err := ingest.Normalize(c.source, parse, f)
		if err != nil {
			imp.log.Warn("parse failed", "file", c.relPath, "error", err)
			imp.stats.FilesErrored++
			return nil
		}
		imp.log.Info("dry run", "file", c.relPath, "source", c.source,
			"received", res.SetsReceived, "accepted", res.SetsAccepted,
			"first_date", res.FirstDate, "last_date", res.LastDate)
		imp.stats.FilesProcessed++
		imp.stats.SetsReceived += res.SetsReceived
		imp.stats.SetsAccepted += res.SetsAccepted
		return nil
	}

	res, err := imp.provider.Ingest(ctx, c.source, c.relPath, f)
	if err != nil {
		imp.log.Warn("import failed", "file", c.relPath, "error", err)
		imp.stats.FilesErrored++
		return nil
	}
	imp.stats.FilesProcessed++
	imp.stats.SetsReceived += res.SetsReceived
	imp.stats.SetsAccepted += res.SetsAccepted
	imp.stats.SetsInserted += res.SetsInserted

	if imp.state != nil {
		if err := imp.state.MarkImported(c.relPath, c.size, hash, string(c.source)); err != nil {
			return err
		}
	}
	return nil
}

func isExportFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".csv" || ext == ".txt"
}
