package settings

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/CrafterKolyan/airbyte/internal/ctxlog"
)

// ProjectFileName is the per-project marker file. A directory containing
// one is a project from the configurer's point of view.
const ProjectFileName = "build.hcl"

// SettingsFileName is the build-wide configuration file, looked up at the
// build root.
const SettingsFileName = "airbyte.hcl"

// fileRoot decodes the top-level blocks of an airbyte.hcl file.
type fileRoot struct {
	Python *pythonBlock `hcl:"python,block"`
}

// pythonBlock mirrors Settings with every attribute optional, so a file
// may override only what it cares about.
type pythonBlock struct {
	MinPythonVersion string    `hcl:"min_version,optional"`
	EnvName          string    `hcl:"env_name,optional"`
	ConnectorPrefix  string    `hcl:"connector_prefix,optional"`
	BasePrefix       string    `hcl:"base_prefix,optional"`
	Versions         *Versions `hcl:"versions,block"`
}

// projectRoot decodes the top-level blocks of a project's build.hcl file.
type projectRoot struct {
	Python *ProjectSettings `hcl:"python,block"`
}

// Load returns the build-wide settings for the build rooted at rootPath.
// When no airbyte.hcl is present the defaults are returned as-is; when one
// is present its python block is overlaid onto the defaults.
func Load(ctx context.Context, rootPath string) (*Settings, error) {
	logger := ctxlog.FromContext(ctx)
	s := Defaults()

	path := filepath.Join(rootPath, SettingsFileName)
	var root fileRoot
	found, err := decodeFile(path, &root)
	if err != nil {
		return nil, err
	}
	if !found {
		logger.Debug("No build settings file found, using defaults.", "path", path)
		return s, nil
	}

	if root.Python != nil {
		overlay(s, root.Python)
	}
	logger.Debug("Build settings loaded.", "path", path, "env_name", s.EnvName)
	return s, nil
}

// LoadProject returns the per-project settings declared in the project
// directory's build.hcl. A marker file without a python block is valid and
// yields zero-valued settings.
func LoadProject(ctx context.Context, projectDir string) (*ProjectSettings, error) {
	logger := ctxlog.FromContext(ctx)

	path := filepath.Join(projectDir, ProjectFileName)
	var root projectRoot
	found, err := decodeFile(path, &root)
	if err != nil {
		return nil, err
	}
	if !found || root.Python == nil {
		return &ProjectSettings{}, nil
	}
	logger.Debug("Project settings loaded.", "path", path, "module_directory", root.Python.ModuleDirectory)
	return root.Python, nil
}

// decodeFile parses a single HCL file into target. It reports whether the
// file existed; a missing file is not an error.
func decodeFile(path string, target any) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("error accessing %s: %w", path, err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return false, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}
	if diags := gohcl.DecodeBody(file.Body, nil, target); diags.HasErrors() {
		return false, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}
	return true, nil
}

// overlay copies every non-empty attribute of the decoded python block onto
// the settings.
func overlay(s *Settings, b *pythonBlock) {
	if b.MinPythonVersion != "" {
		s.MinPythonVersion = b.MinPythonVersion
	}
	if b.EnvName != "" {
		s.EnvName = b.EnvName
	}
	if b.ConnectorPrefix != "" {
		s.ConnectorPrefix = b.ConnectorPrefix
	}
	if b.BasePrefix != "" {
		s.BasePrefix = b.BasePrefix
	}
	if b.Versions == nil {
		return
	}
	if b.Versions.Black != "" {
		s.Versions.Black = b.Versions.Black
	}
	if b.Versions.Isort != "" {
		s.Versions.Isort = b.Versions.Isort
	}
	if b.Versions.Flake8 != "" {
		s.Versions.Flake8 = b.Versions.Flake8
	}
	if b.Versions.Mypy != "" {
		s.Versions.Mypy = b.Versions.Mypy
	}
	if b.Versions.Pytest != "" {
		s.Versions.Pytest = b.Versions.Pytest
	}
	if b.Versions.Coverage != "" {
		s.Versions.Coverage = b.Versions.Coverage
	}
}
