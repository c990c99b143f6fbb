package app

import (
	"encoding/json"
	"fmt"

	"github.com/CrafterKolyan/airbyte/internal/taskgraph"
)

// planTask is the JSON shape of a single task in the rendered plan.
type planTask struct {
	Name        string   `json:"name"`
	Module      string   `json:"module,omitempty"`
	Version     string   `json:"version,omitempty"`
	Command     string   `json:"command,omitempty"`
	Policy      string   `json:"policy"`
	Description string   `json:"description,omitempty"`
	DependsOn   []string `json:"depends_on,omitempty"`
	Outputs     []string `json:"outputs,omitempty"`
}

// renderPlan writes the finalized plan to the application's output writer
// in execution order, either human-readable or as JSON for other tooling.
func (a *App) renderPlan(plan *taskgraph.Plan, format string) error {
	if format == "json" {
		return a.renderJSON(plan)
	}
	return a.renderText(plan)
}

func (a *App) renderJSON(plan *taskgraph.Plan) error {
	tasks := make([]planTask, 0, len(plan.Order))
	for _, name := range plan.Order {
		n := plan.Nodes[name]
		tasks = append(tasks, planTask{
			Name:        n.Name,
			Module:      n.Module,
			Version:     n.Version,
			Command:     n.Command,
			Policy:      n.Policy.String(),
			Description: n.Description,
			DependsOn:   plan.Deps[name],
			Outputs:     n.Outputs,
		})
	}

	enc := json.NewEncoder(a.outW)
	enc.SetIndent("", "  ")
	return enc.Encode(tasks)
}

func (a *App) renderText(plan *taskgraph.Plan) error {
	for _, name := range plan.Order {
		n := plan.Nodes[name]
		line := name
		if n.Command != "" {
			line += "  [" + n.Command + "]"
		}
		if n.Policy == taskgraph.IgnoreExit {
			line += "  (ignore-exit)"
		}
		if _, err := fmt.Fprintln(a.outW, line); err != nil {
			return err
		}
	}
	return nil
}
