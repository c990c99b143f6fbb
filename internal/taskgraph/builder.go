package taskgraph

import (
	"context"
	"fmt"
	"path"
	"path/filepath"

	"github.com/CrafterKolyan/airbyte/internal/ctxlog"
	"github.com/CrafterKolyan/airbyte/internal/fsutil"
	"github.com/CrafterKolyan/airbyte/internal/project"
	"github.com/CrafterKolyan/airbyte/internal/settings"
)

// Builder registers the task nodes and dependency edges for one project at
// a time. All builder invocations share a single Registry; cross-project
// edges are left to the Linker once every project is known.
type Builder struct {
	reg      *Registry
	settings *settings.Settings
}

// NewBuilder creates a Builder registering nodes into reg.
func NewBuilder(reg *Registry, s *settings.Settings) *Builder {
	return &Builder{reg: reg, settings: s}
}

// installFactories maps each manifest kind to its install-task factory.
// ManifestNone is deliberately absent: it is a fatal configuration error,
// not a strategy.
var installFactories = map[project.ManifestKind]func(*Builder, *project.Context) *Node{
	project.ManifestRequirements: (*Builder).requirementsInstallNode,
	project.ManifestPackage:      (*Builder).packageInstallNode,
}

// Configure runs the per-project decision tree, registering every task node
// the project needs. It must not register anything for a project without a
// dependency manifest, so the manifest check comes first.
func (b *Builder) Configure(ctx context.Context, p *project.Context) error {
	logger := ctxlog.FromContext(ctx).With("project", p.Path)
	logger.Debug("Configuring project task graph.")

	installFactory, ok := installFactories[p.ManifestKind]
	if !ok {
		return &MissingManifestError{Project: p.Path}
	}

	b.configureInstall(p, installFactory)
	b.configureFormat(p)
	b.configureTypecheck(ctx, p)
	if err := b.configureTests(ctx, p); err != nil {
		return err
	}
	b.configureAggregates(p)
	b.configureCleanup(p)
	b.configureLifecycle(p)

	logger.Debug("Project task graph configured.")
	return nil
}

// configureInstall registers the three-stage install chain:
// installLocalReqs <- installReqs <- installTestReqs.
func (b *Builder) configureInstall(p *project.Context, installFactory func(*Builder, *project.Context) *Node) {
	b.reg.GetOrCreate(Name(p.Path, TaskInstallLocalReqs), func() *Node {
		return installFactory(b, p)
	})

	b.reg.GetOrCreate(Name(p.Path, TaskInstallReqs), func() *Node {
		return &Node{
			Module:  "pip",
			Command: "python -m pip install .[main]",
			Outputs: []string{path.Join(p.EnvName, ".requirements_installed")},
		}
	})
	b.reg.AddDependency(Name(p.Path, TaskInstallReqs), Name(p.Path, TaskInstallLocalReqs))

	// The test toolchain is pinned here so every project runs the same
	// pytest and coverage regardless of what its extras drag in.
	v := b.settings.Versions
	b.reg.GetOrCreate(Name(p.Path, TaskInstallTestReqs), func() *Node {
		return &Node{
			Module:  "pip",
			Command: fmt.Sprintf("python -m pip install .[tests] pytest==%s coverage==%s", v.Pytest, v.Coverage),
			Outputs: []string{path.Join(p.EnvName, ".test_requirements_installed")},
		}
	})
	b.reg.AddDependency(Name(p.Path, TaskInstallTestReqs), Name(p.Path, TaskInstallReqs))
}

// requirementsInstallNode is the install strategy for projects carrying a
// requirements.txt. Connector projects additionally depend on every base
// module's apply task, which the Linker wires once all projects are known.
func (b *Builder) requirementsInstallNode(p *project.Context) *Node {
	return &Node{
		Module:  "pip",
		Command: "python -m pip install -r requirements.txt",
	}
}

// packageInstallNode is the install strategy for packaged projects: install
// the package with its dev and tests extras. No base-module edges.
func (b *Builder) packageInstallNode(p *project.Context) *Node {
	return &Node{
		Module:  "pip",
		Command: "python -m pip install .[dev,tests]",
	}
}

// configureFormat registers the formatting chain
// isortFormat <- blackFormat <- flakeCheck and the airbytePythonFormat
// aggregate over all three. blackFormat also waits for the build-wide
// license formatter so headers are in place before black runs.
func (b *Builder) configureFormat(p *project.Context) {
	v := b.settings.Versions

	b.reg.GetOrCreate(Name(p.Path, TaskIsortFormat), func() *Node {
		return &Node{
			Module:  "isort",
			Version: v.Isort,
			Command: "python -m isort --dont-follow-links .",
		}
	})

	b.reg.GetOrCreate(RootName(RootTaskLicenseFormat), func() *Node {
		return &Node{Description: "applies the license header to every source file in the build"}
	})

	b.reg.GetOrCreate(Name(p.Path, TaskBlackFormat), func() *Node {
		return &Node{
			Module:  "black",
			Version: v.Black,
			Command: "python -m black --line-length 140 .",
		}
	})
	b.reg.AddDependency(Name(p.Path, TaskBlackFormat), Name(p.Path, TaskIsortFormat))
	b.reg.AddDependency(Name(p.Path, TaskBlackFormat), RootName(RootTaskLicenseFormat))

	b.reg.GetOrCreate(Name(p.Path, TaskFlakeCheck), func() *Node {
		return &Node{
			Module:  "flake8",
			Version: v.Flake8,
			Command: "python -m flake8 .",
		}
	})
	b.reg.AddDependency(Name(p.Path, TaskFlakeCheck), Name(p.Path, TaskBlackFormat))

	b.reg.GetOrCreate(Name(p.Path, TaskFormat), func() *Node {
		return &Node{Description: "formats and lints the project's python sources"}
	})
	b.reg.AddDependency(Name(p.Path, TaskFormat), Name(p.Path, TaskIsortFormat))
	b.reg.AddDependency(Name(p.Path, TaskFormat), Name(p.Path, TaskBlackFormat))
	b.reg.AddDependency(Name(p.Path, TaskFormat), Name(p.Path, TaskFlakeCheck))
}

// configureTypecheck registers mypyCheck only when the project configures a
// module directory. An unconfigured project gets no node and no edge;
// absence is the correct representation, not a stub.
func (b *Builder) configureTypecheck(ctx context.Context, p *project.Context) {
	if p.ModuleDirectory == "" {
		ctxlog.FromContext(ctx).Debug("No module directory configured, skipping typecheck task.", "project", p.Path)
		return
	}

	b.reg.GetOrCreate(Name(p.Path, TaskMypyCheck), func() *Node {
		return &Node{
			Module:  "mypy",
			Version: b.settings.Versions.Mypy,
			Command: fmt.Sprintf("python -m mypy %s --config-file mypy.ini", p.ModuleDirectory),
		}
	})
	b.reg.GetOrCreate(RootName(RootTaskCheck), func() *Node {
		return &Node{Description: "runs every configured static check in the build"}
	})
	b.reg.AddDependency(RootName(RootTaskCheck), Name(p.Path, TaskMypyCheck))
}

// configureTests registers the unit and integration test tasks, plus the
// integrationTest umbrella that other tooling hangs custom suites on.
func (b *Builder) configureTests(ctx context.Context, p *project.Context) error {
	if err := b.testTask(ctx, p, "unit_tests", TaskUnitTest); err != nil {
		return err
	}
	if err := b.testTask(ctx, p, "integration_tests", TaskCustomIntegrationTests); err != nil {
		return err
	}

	b.reg.GetOrCreate(Name(p.Path, TaskIntegrationTest), func() *Node {
		return &Node{Description: "runs the project's integration test suites"}
	})
	b.reg.AddDependency(Name(p.Path, TaskIntegrationTest), Name(p.Path, TaskCustomIntegrationTests))
	return nil
}

// testTask registers the task named taskName for one test directory. When
// the discovery probe finds test files, the named task becomes a coverage
// report over a coverage run of the directory; otherwise it becomes an
// informational no-op so downstream dependents still resolve. Exactly one
// node bears taskName either way.
func (b *Builder) testTask(ctx context.Context, p *project.Context, testDir, taskName string) error {
	logger := ctxlog.FromContext(ctx).With("project", p.Path, "dir", testDir)

	hasTests, err := fsutil.HasTestFiles(filepath.Join(p.Dir, testDir))
	if err != nil {
		return fmt.Errorf("test discovery failed for %s/%s: %w", p.Path, testDir, err)
	}

	name := Name(p.Path, taskName)
	if !hasTests {
		logger.Debug("No test files found, registering no-op test task.", "task", taskName)
		b.reg.GetOrCreate(name, func() *Node {
			return &Node{Description: fmt.Sprintf("no test files found in %s, nothing to run", testDir)}
		})
		return nil
	}
	logger.Debug("Test files found, registering coverage test task.", "task", taskName)

	v := b.settings.Versions

	// The coverage data file is namespaced by task name so the two test
	// directories of one project never write to the same path.
	runName := Name(p.Path, taskName+"Coverage")
	b.reg.GetOrCreate(runName, func() *Node {
		return &Node{
			Module:  "coverage",
			Version: v.Coverage,
			Command: fmt.Sprintf("python -m coverage run --data-file=.coverage.%s --module pytest -s %s", taskName, testDir),
			Outputs: []string{".coverage." + taskName},
		}
	})
	b.reg.AddDependency(runName, Name(p.Path, TaskInstallTestReqs))

	b.reg.GetOrCreate(name, func() *Node {
		return &Node{
			Module:  "coverage",
			Version: v.Coverage,
			Command: fmt.Sprintf("python -m coverage report --data-file=.coverage.%s", taskName),
			// Report generation must not fail the build over coverage gaps.
			Policy: IgnoreExit,
		}
	})
	b.reg.AddDependency(name, runName)
	return nil
}

// configureAggregates registers the per-project apply and test umbrellas.
func (b *Builder) configureAggregates(p *project.Context) {
	b.reg.GetOrCreate(Name(p.Path, TaskApply), func() *Node {
		return &Node{Description: "installs and formats the project"}
	})
	b.reg.AddDependency(Name(p.Path, TaskApply), Name(p.Path, TaskInstallReqs))
	b.reg.AddDependency(Name(p.Path, TaskApply), Name(p.Path, TaskFormat))

	b.reg.GetOrCreate(Name(p.Path, TaskTest), func() *Node {
		return &Node{Description: "runs the project's python test suite"}
	})
	b.reg.AddDependency(Name(p.Path, TaskTest), Name(p.Path, TaskApply))
	b.reg.AddDependency(Name(p.Path, TaskTest), Name(p.Path, TaskInstallTestReqs))
	b.reg.AddDependency(Name(p.Path, TaskTest), Name(p.Path, TaskUnitTest))
}

// configureCleanup registers the project's venv removal task and hangs it
// off the build-wide cleanPythonVenvs aggregate, which is created once no
// matter how many projects request it.
func (b *Builder) configureCleanup(p *project.Context) {
	b.reg.GetOrCreate(Name(p.Path, TaskCleanVenv), func() *Node {
		return &Node{Command: "rm -rf " + p.EnvName}
	})

	b.reg.GetOrCreate(RootName(RootTaskCleanVenvs), func() *Node {
		return &Node{Description: "removes every project's python virtual environment"}
	})
	b.reg.AddDependency(RootName(RootTaskCleanVenvs), Name(p.Path, TaskCleanVenv))
}

// configureLifecycle wires the project's generic assemble and test
// lifecycle tasks onto the python aggregates.
func (b *Builder) configureLifecycle(p *project.Context) {
	b.reg.GetOrCreate(Name(p.Path, TaskAssemble), func() *Node {
		return &Node{Description: "assembles the project"}
	})
	b.reg.AddDependency(Name(p.Path, TaskAssemble), Name(p.Path, TaskApply))

	b.reg.GetOrCreate(Name(p.Path, TaskLifecycleTest), func() *Node {
		return &Node{Description: "runs every test task of the project"}
	})
	b.reg.AddDependency(Name(p.Path, TaskLifecycleTest), Name(p.Path, TaskTest))
}
