package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/overload/internal/models"
	"github.com/claude/overload/internal/muscles"
)

type liftStatusEntry struct {
	Name          string `json:"name"`
	LastPerformed string `json:"last_performed"`
	TrainingDays  int    `json:"training_days"`
}

func (h *handlers) liftStatus(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	lifts, err := h.lifts(ctx)
	if err != nil {
		return nil, err
	}

	byStatus := make(map[models.ProgressStatus][]liftStatusEntry)
	for _, l := range lifts {
		if l.ActivityStatus != models.Active {
			continue
		}
		byStatus[l.ProgressStatus] = append(byStatus[l.ProgressStatus], liftStatusEntry{
			Name:          l.Name,
			LastPerformed: lastPerformed(l),
			TrainingDays:  len(l.Workouts),
		})
	}

	type group struct {
		Status models.ProgressStatus `json:"status"`
		Lifts  []liftStatusEntry     `json:"lifts"`
	}
	groups := []group{}
	for _, s := range models.ProgressStatuses {
		if entries := byStatus[s]; len(entries) > 0 {
			groups = append(groups, group{Status: s, Lifts: entries})
		}
	}

	data, err := json.Marshal(map[string]any{
		"date":   h.opts.Now().Format(models.DateLayout),
		"active": groups,
	})
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) muscleGroups(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	type rule struct {
		Label     string          `json:"label"`
		Keywords  []string        `json:"keywords"`
		Primary   []muscles.Group `json:"primary"`
		Secondary []muscles.Group `json:"secondary"`
	}
	rules := make([]rule, len(muscles.Rules))
	for i, r := range muscles.Rules {
		kws := make([]string, len(r.Keywords))
		for j, k := range r.Keywords {
			kws[j] = k.String()
		}
		rules[i] = rule{Label: r.Label, Keywords: kws, Primary: r.Primary, Secondary: r.Secondary}
	}

	data, err := json.Marshal(map[string]any{
		"groups": muscles.All,
		"rules":  rules,
	})
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
