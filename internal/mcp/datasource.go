package mcp

import (
	"context"
	"time"

	"github.com/claude/overload/internal/models"
	"github.com/claude/overload/internal/storage"
)

// DataSource abstracts the set log for MCP tools. Both *storage.DB (local)
// and HTTPClient (remote via REST API) satisfy this interface. Sets are
// returned in ascending date order.
type DataSource interface {
	AllSets(ctx context.Context) ([]models.Set, error)
	QuerySets(ctx context.Context, from, to time.Time) ([]models.Set, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
