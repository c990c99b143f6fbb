package taskgraph

import "fmt"

// MissingManifestError is the fatal configuration error raised when a
// project carries neither requirements.txt nor setup.py. It aborts the
// whole build configuration.
type MissingManifestError struct {
	Project string
}

func (e *MissingManifestError) Error() string {
	return fmt.Sprintf("project %q has no requirements.txt and no setup.py; one dependency manifest is required", e.Project)
}

// DanglingDependencyError is the fatal configuration error raised at
// finalization when a dependency edge references a task name that was never
// registered.
type DanglingDependencyError struct {
	Node      string
	DependsOn string
}

func (e *DanglingDependencyError) Error() string {
	if e.DependsOn == "" {
		return fmt.Sprintf("dependency declared for unregistered task %q", e.Node)
	}
	return fmt.Sprintf("task %q depends on unregistered task %q", e.Node, e.DependsOn)
}
