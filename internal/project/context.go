// Package project resolves the per-project facts the graph builder needs:
// which dependency manifest the project carries, whether it has test
// directories, and its python build settings.
package project

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/CrafterKolyan/airbyte/internal/ctxlog"
	"github.com/CrafterKolyan/airbyte/internal/settings"
)

// ManifestKind identifies which kind of dependency manifest a project
// carries. It drives the install-task strategy in the graph builder.
type ManifestKind int

const (
	// ManifestNone means neither manifest file is present. Configuring a
	// project in this state is a fatal configuration error.
	ManifestNone ManifestKind = iota
	// ManifestRequirements means the project installs from requirements.txt.
	ManifestRequirements
	// ManifestPackage means the project is a python package with named
	// extras installed from setup.py.
	ManifestPackage
)

// String returns the manifest file name conventionally backing the kind.
func (k ManifestKind) String() string {
	switch k {
	case ManifestRequirements:
		return "requirements.txt"
	case ManifestPackage:
		return "setup.py"
	default:
		return "none"
	}
}

// Context holds the facts about a single project, resolved once at
// configuration time and never mutated afterwards.
type Context struct {
	// Path is the project's root-relative, slash-separated path. It is the
	// project's identity and the prefix of all its task names.
	Path string
	// Dir is the project's absolute directory on disk.
	Dir string
	// ModuleDirectory is the python module directory configured in the
	// project's build.hcl. Empty means the project gets no typecheck task.
	ModuleDirectory string
	// EnvName is the project's virtual environment directory.
	EnvName string
	// ManifestKind records which dependency manifest the project carries.
	ManifestKind ManifestKind
	// HasUnitTests and HasIntegrationTests record the presence of the
	// conventional test directories, not whether they contain test files.
	HasUnitTests        bool
	HasIntegrationTests bool
}

// Resolve builds the immutable Context for the project at dir, relative to
// the build root at rootPath.
func Resolve(ctx context.Context, rootPath, dir string, s *settings.Settings) (*Context, error) {
	rel, err := filepath.Rel(rootPath, dir)
	if err != nil {
		return nil, fmt.Errorf("project %s is not under build root %s: %w", dir, rootPath, err)
	}

	projectSettings, err := settings.LoadProject(ctx, dir)
	if err != nil {
		return nil, err
	}

	envName := s.EnvName
	if projectSettings.EnvName != "" {
		envName = projectSettings.EnvName
	}

	p := &Context{
		Path:            filepath.ToSlash(rel),
		Dir:             dir,
		ModuleDirectory: projectSettings.ModuleDirectory,
		EnvName:         envName,
	}

	switch {
	case fileExists(filepath.Join(dir, "requirements.txt")):
		p.ManifestKind = ManifestRequirements
	case fileExists(filepath.Join(dir, "setup.py")):
		p.ManifestKind = ManifestPackage
	default:
		p.ManifestKind = ManifestNone
	}

	p.HasUnitTests = dirExists(filepath.Join(dir, "unit_tests"))
	p.HasIntegrationTests = dirExists(filepath.Join(dir, "integration_tests"))

	ctxlog.FromContext(ctx).Debug("Project context resolved.",
		"project", p.Path,
		"manifest", p.ManifestKind.String(),
		"module_directory", p.ModuleDirectory,
		"unit_tests", p.HasUnitTests,
		"integration_tests", p.HasIntegrationTests,
	)
	return p, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
