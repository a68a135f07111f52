package mcp

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/overload/internal/analysis"
	"github.com/claude/overload/internal/models"
	"github.com/claude/overload/internal/muscles"
	"github.com/claude/overload/internal/volume"
)

func progressValues() []string {
	out := make([]string, len(models.ProgressStatuses))
	for i, p := range models.ProgressStatuses {
		out[i] = string(p)
	}
	return out
}

// --- Tool definitions ---

var toolGetLiftProgress = mcp.NewTool("get_lift_progress",
	mcp.WithDescription("Progressive-overload status of every lift, most concerning first. Each lift carries its day-by-day sets with a performance verdict (Increase, Decrease, No Change, Not Sure), a progress status and an activity status."),
	mcp.WithString("status", mcp.Description("Filter by progress status"), mcp.Enum(progressValues()...)),
	mcp.WithString("activity", mcp.Description("Filter by activity status. Lifts not trained for 15 days are History; recent lifts with few sessions are New."),
		mcp.Enum(string(models.Active), string(models.New), string(models.History))),
	mcp.WithString("name", mcp.Description("Filter by lift name (partial, case-insensitive match, e.g. 'bench')")),
)

var toolGetLiftHistory = mcp.NewTool("get_lift_history",
	mcp.WithDescription("Full analyzed history of one lift. Lift names combine exercise and workout, e.g. 'Bench Press (Barbell) | Push'."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Exact lift name as returned by get_lift_progress")),
)

var toolGetWeeklyVolume = mcp.NewTool("get_weekly_volume",
	mcp.WithDescription("Weekly working-set volume per muscle group. Primary movers count one set, secondary movers count toward secondary volume, drop sets count half. Returns per-week buckets, averages, training frequency and the muscle attribution of every lift."),
	mcp.WithString("from", mcp.Description("Range start (YYYY-MM-DD). Use together with 'to'.")),
	mcp.WithString("to", mcp.Description("Range end (YYYY-MM-DD). Use together with 'from'.")),
	mcp.WithString("date", mcp.Description("Picked date (YYYY-MM-DD) when no from/to is given. Defaults to today.")),
	mcp.WithNumber("weeks", mcp.Description("Number of weeks around the picked date. Defaults to the configured period.")),
	mcp.WithString("direction", mcp.Description("Whether the period ends on or starts at the picked date. Defaults to 'before'."),
		mcp.Enum(string(volume.Before), string(volume.After))),
)

var toolGetMuscleAttribution = mcp.NewTool("get_muscle_attribution",
	mcp.WithDescription("Primary and secondary muscle groups an exercise name is attributed to, with the matched rule, keywords and certainty."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name, e.g. 'Incline Bench Press (Dumbbell)'")),
)

// --- Tool handlers ---

func (h *handlers) lifts(ctx context.Context) ([]models.LiftHistory, error) {
	sets, err := h.ds.AllSets(ctx)
	if err != nil {
		return nil, err
	}
	return analysis.AnalyzeProgressiveOverload(sets, h.analysisOptions()), nil
}

func (h *handlers) getLiftProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	progress, activity, err := analysis.ParseFilters(req.GetString("status", ""), req.GetString("activity", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name := strings.ToLower(req.GetString("name", ""))

	lifts, err := h.lifts(ctx)
	if err != nil {
		h.log.Error("mcp get_lift_progress", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	filtered := analysis.Filter(lifts, progress, activity)
	if name != "" {
		matched := filtered[:0]
		for _, l := range filtered {
			if strings.Contains(strings.ToLower(l.Name), name) {
				matched = append(matched, l)
			}
		}
		filtered = matched
	}

	result, err := mcp.NewToolResultJSON(filtered)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getLiftHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name parameter is required"), nil
	}

	lifts, err := h.lifts(ctx)
	if err != nil {
		h.log.Error("mcp get_lift_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	lift, ok := analysis.Find(lifts, name)
	if !ok {
		return mcp.NewToolResultError("lift not found: " + name), nil
	}

	result, err := mcp.NewToolResultJSON(lift)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWeeklyVolume(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q := volume.RangeQuery{
		From:      req.GetString("from", ""),
		To:        req.GetString("to", ""),
		Date:      req.GetString("date", ""),
		Weeks:     req.GetInt("weeks", 0),
		Direction: req.GetString("direction", ""),
	}
	from, to, err := q.Resolve(h.opts.Now(), h.opts.DefaultWeeks)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sets, err := h.ds.QuerySets(ctx, from, to)
	if err != nil {
		h.log.Error("mcp get_weekly_volume", "from", from, "to", to, "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(volume.Calculate(sets, from, to, h.opts.Overrides))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getMuscleAttribution(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}

	result, err := mcp.NewToolResultJSON(muscles.NewMemo(h.opts.Overrides).Get(exercise))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// lastPerformed formats the date a lift was last trained, or "" if never.
func lastPerformed(l models.LiftHistory) string {
	if t, ok := l.LastPerformed(); ok {
		return t.Format(models.DateLayout)
	}
	return ""
}
