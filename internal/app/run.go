package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/CrafterKolyan/airbyte/internal/ctxlog"
	"github.com/CrafterKolyan/airbyte/internal/fsutil"
	"github.com/CrafterKolyan/airbyte/internal/project"
	"github.com/CrafterKolyan/airbyte/internal/settings"
	"github.com/CrafterKolyan/airbyte/internal/taskgraph"
)

// Run executes the main application logic: discover every project under the
// build root, configure each project's task nodes, resolve cross-project
// edges, finalize the graph, and render the plan. Any configuration error
// aborts before anything is rendered; a partial graph is never emitted.
func (a *App) Run(ctx context.Context, cfg *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	dirs, err := fsutil.FindProjects(cfg.RootPath, settings.ProjectFileName)
	if err != nil {
		return fmt.Errorf("project discovery failed: %w", err)
	}
	if len(dirs) == 0 {
		a.logger.Warn("No projects found under build root, nothing to configure.", "root", cfg.RootPath)
		return nil
	}
	a.logger.Debug("Projects discovered.", "count", len(dirs))

	reg := taskgraph.New()
	builder := taskgraph.NewBuilder(reg, a.settings)

	// Phase 1: visit every project. The registry is the only shared state
	// and is internally synchronized, so visits may run in parallel.
	projects := make([]*project.Context, len(dirs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.WorkerCount)
	for i, dir := range dirs {
		i, dir := i, dir
		g.Go(func() error {
			p, err := project.Resolve(gctx, cfg.RootPath, dir, a.settings)
			if err != nil {
				return err
			}
			if err := builder.Configure(gctx, p); err != nil {
				return err
			}
			projects[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to configure build graph: %w", err)
	}
	a.logger.Debug("All projects configured.", "node_count", reg.Len())

	// Phase 2: the full project set is known; resolve prefix-based
	// cross-project edges, then validate and order the graph.
	taskgraph.NewLinker(a.settings).Link(ctx, reg, projects)
	plan, err := reg.Finalize(ctx)
	if err != nil {
		return fmt.Errorf("failed to finalize build graph: %w", err)
	}

	if err := a.renderPlan(plan, cfg.OutputFormat); err != nil {
		return err
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}
