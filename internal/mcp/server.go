package mcp

import (
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/claude/overload/internal/analysis"
	"github.com/claude/overload/internal/muscles"
)

// Options carries analytics settings shared with the HTTP API.
type Options struct {
	Analysis     analysis.Options
	DefaultWeeks int
	Overrides    muscles.Overrides

	// Now overrides the clock for tests.
	Now func() time.Time
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, opts Options, version string, log *slog.Logger) *server.MCPServer {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DefaultWeeks <= 0 {
		opts.DefaultWeeks = 4
	}

	s := server.NewMCPServer("Overload", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Overload strength-training analytics. Query progressive-overload status per lift and weekly set volume per muscle group, computed from imported Strong, Hevy and Alpha Progression logs."),
	)

	h := &handlers{ds: ds, opts: opts, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetLiftProgress, Handler: h.getLiftProgress},
		server.ServerTool{Tool: toolGetLiftHistory, Handler: h.getLiftHistory},
		server.ServerTool{Tool: toolGetWeeklyVolume, Handler: h.getWeeklyVolume},
		server.ServerTool{Tool: toolGetMuscleAttribution, Handler: h.getMuscleAttribution},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resLiftStatus, Handler: h.liftStatus},
		server.ServerResource{Resource: resMuscleGroups, Handler: h.muscleGroups},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds   DataSource
	opts Options
	log  *slog.Logger
}

func (h *handlers) analysisOptions() analysis.Options {
	opts := h.opts.Analysis
	opts.Now = h.opts.Now()
	return opts
}

// --- Resource definitions ---

var resLiftStatus = mcp.NewResource(
	"overload://lift_status",
	"Lift Status",
	mcp.WithResourceDescription("Active lifts grouped by progress status, most concerning first"),
	mcp.WithMIMEType("application/json"),
)

var resMuscleGroups = mcp.NewResource(
	"overload://muscle_groups",
	"Muscle Groups",
	mcp.WithResourceDescription("Muscle groups used for volume attribution and the exercise rules that map onto them"),
	mcp.WithMIMEType("application/json"),
)
