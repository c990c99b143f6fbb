// Package settings loads the build-wide and per-project python build
// configuration from HCL files.
package settings

// Versions pins every tool in the python toolchain to an exact version, so
// that formatting and test runs are reproducible across machines.
type Versions struct {
	Black    string `hcl:"black,optional"`
	Isort    string `hcl:"isort,optional"`
	Flake8   string `hcl:"flake8,optional"`
	Mypy     string `hcl:"mypy,optional"`
	Pytest   string `hcl:"pytest,optional"`
	Coverage string `hcl:"coverage,optional"`
}

// Settings is the build-wide python configuration. It starts from Defaults
// and is overlaid with the root airbyte.hcl file when one exists.
type Settings struct {
	MinPythonVersion string
	EnvName          string
	ConnectorPrefix  string
	BasePrefix       string
	Versions         Versions
}

// ProjectSettings is the per-project configuration, loaded from the
// project's build.hcl marker file. ModuleDirectory is optional; when it is
// empty the project gets no typechecking task.
type ProjectSettings struct {
	ModuleDirectory string `hcl:"module_directory,optional"`
	EnvName         string `hcl:"env_name,optional"`
}

// Defaults returns the build-wide settings used when no airbyte.hcl is
// present, matching the conventions of the upstream monorepo.
func Defaults() *Settings {
	return &Settings{
		MinPythonVersion: "3.9",
		EnvName:          ".venv",
		ConnectorPrefix:  "airbyte-integrations/connectors",
		BasePrefix:       "airbyte-integrations/bases",
		Versions: Versions{
			Black:    "22.3.0",
			Isort:    "5.6.4",
			Flake8:   "4.0.1",
			Mypy:     "0.930",
			Pytest:   "6.2.5",
			Coverage: "6.3.1",
		},
	}
}
