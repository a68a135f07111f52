package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/claude/overload/internal/ingest"
	"github.com/claude/overload/internal/metrics"
	"github.com/claude/overload/internal/models"
)

// Store is the persistence needed to import sets.
type Store interface {
	ReplaceSets(ctx context.Context, source string, rows []models.SetRow) (int64, error)
	InsertImportLog(ctx context.Context, log models.ImportLog) (int64, error)
	UpdateImportLog(ctx context.Context, id int64, log models.ImportLog) error
}

// Provider normalizes one export file and stores its sets, logging the
// import in import_logs.
type Provider struct {
	store   Store
	log     *slog.Logger
	metrics *metrics.Manager
}

// NewProvider creates a Provider. m may be nil.
func NewProvider(store Store, log *slog.Logger, m *metrics.Manager) *Provider {
	return &Provider{store: store, log: log, metrics: m}
}

// Ingest parses r as an export of src and replaces the stored sets of that
// source with its contents.
func (p *Provider) Ingest(ctx context.Context, src ingest.Source, fileName string, r io.Reader) (*ingest.Result, error) {
	parse, ok := Parser(src)
	if !ok {
		return nil, fmt.Errorf("unsupported source %q", src)
	}

	start := time.Now()
	entry := models.ImportLog{
		ImportID: uuid.New(),
		Source:   string(src),
		FileName: fileName,
		Status:   "running",
	}
	logID, err := p.store.InsertImportLog(ctx, entry)
	if err != nil {
		p.log.Warn("failed to create import log", "error", err)
	}

	result, stored, err := p.ingest(ctx, src, parse, entry.ImportID, r)
	if result != nil {
		entry.SetsReceived = result.SetsReceived
		entry.SetsInserted = result.SetsInserted
	}

	status := "success"
	switch {
	case err != nil:
		status = "error"
		msg := err.Error()
		entry.ErrorMessage = &msg
	case !stored:
		status = "unchanged"
	}
	entry.Status = status
	durationMs := int(time.Since(start).Milliseconds())
	entry.DurationMs = &durationMs
	if logID > 0 {
		if uerr := p.store.UpdateImportLog(ctx, logID, entry); uerr != nil {
			p.log.Warn("failed to update import log", "id", logID, "error", uerr)
		}
	}
	p.metrics.ObserveImport(string(src), status, entry.SetsInserted)

	if err != nil {
		return nil, err
	}
	p.log.Info("import complete",
		"source", src,
		"file", fileName,
		"received", result.SetsReceived,
		"accepted", result.SetsAccepted,
		"inserted", result.SetsInserted,
		"duration_ms", durationMs,
	)
	return result, nil
}

// ingest reports whether the stored sets of src were replaced.
func (p *Provider) ingest(ctx context.Context, src ingest.Source, parse ingest.ParseFunc, importID uuid.UUID, r io.Reader) (*ingest.Result, bool, error) {
	sets, result, err := ingest.Normalize(src, parse, r)
	if err != nil {
		return nil, false, fmt.Errorf("parsing %s export: %w", src, err)
	}
	result.ImportID = importID
	if len(sets) == 0 {
		result.Message = "no working sets found; stored data left unchanged"
		return result, false, nil
	}

	inserted, err := p.store.ReplaceSets(ctx, string(src), models.ImportedAt(importID, string(src), sets))
	if err != nil {
		return result, false, fmt.Errorf("storing sets: %w", err)
	}
	result.SetsInserted = inserted
	return result, true, nil
}
