package taskgraph

import (
	"context"
	"fmt"
	"sort"

	"github.com/gammazero/toposort"

	"github.com/CrafterKolyan/airbyte/internal/ctxlog"
)

// Plan is the finalized build graph: every node, its resolved dependency
// edges, and a valid execution order. Only a complete, validated Plan is
// ever handed to a scheduler; configuration errors abort before one exists.
type Plan struct {
	// Order is a topological ordering of every node name.
	Order []string
	// Nodes maps each name to its node.
	Nodes map[string]*Node
	// Deps maps each name to its sorted dependency names.
	Deps map[string][]string
}

// Finalize validates the registry after every project has been visited and
// produces the execution plan. It fails with DanglingDependencyError when
// an edge references a name that was never registered, and with a cycle
// error when the edges do not form a DAG.
func (r *Registry) Finalize(ctx context.Context) (*Plan, error) {
	logger := ctxlog.FromContext(ctx)

	r.mu.RLock()
	defer r.mu.RUnlock()

	for name, set := range r.deps {
		if _, ok := r.nodes[name]; !ok {
			return nil, &DanglingDependencyError{Node: name}
		}
		for dep := range set {
			if _, ok := r.nodes[dep]; !ok {
				return nil, &DanglingDependencyError{Node: name, DependsOn: dep}
			}
		}
	}
	logger.Debug("Dangling dependency check passed.", "node_count", len(r.nodes))

	// Edge (dep, name) means dep must run before name. Nodes without
	// dependencies get a nil edge so the sort still includes them.
	var edges []toposort.Edge
	for name := range r.nodes {
		set := r.deps[name]
		if len(set) == 0 {
			edges = append(edges, toposort.Edge{nil, name})
			continue
		}
		for dep := range set {
			edges = append(edges, toposort.Edge{dep, name})
		}
	}

	sorted, err := toposort.Toposort(edges)
	if err != nil {
		return nil, fmt.Errorf("build graph contains a cycle: %w", err)
	}

	plan := &Plan{
		Nodes: make(map[string]*Node, len(r.nodes)),
		Deps:  make(map[string][]string, len(r.nodes)),
	}
	for _, id := range sorted {
		if id == nil {
			continue
		}
		plan.Order = append(plan.Order, id.(string))
	}
	for name, n := range r.nodes {
		plan.Nodes[name] = n
		set := r.deps[name]
		deps := make([]string, 0, len(set))
		for dep := range set {
			deps = append(deps, dep)
		}
		plan.Deps[name] = deps
	}
	for _, deps := range plan.Deps {
		sort.Strings(deps)
	}

	logger.Info("Build graph finalized.", "node_count", len(plan.Nodes))
	return plan, nil
}
