package taskgraph

// FailurePolicy determines how the external scheduler treats a node's
// non-zero exit.
type FailurePolicy int

const (
	// FailBuild propagates the node's failure and fails the build.
	FailBuild FailurePolicy = iota
	// IgnoreExit records the failure but lets the build continue. Used for
	// coverage reporting, which must not fail a build over coverage gaps.
	IgnoreExit
)

// String returns the policy's configuration-surface name.
func (p FailurePolicy) String() string {
	if p == IgnoreExit {
		return "ignore-exit"
	}
	return "fail-build"
}

// Node is a single task in the build graph. Its command fields are opaque
// data for the external scheduler; this package never executes them. A node
// with an empty Command is an aggregate or informational no-op, existing
// only so dependents can resolve.
type Node struct {
	// Name is the node's unique registry key: "<project path>:<task>" for
	// project-scoped tasks, ":<task>" for build-wide ones.
	Name string
	// Module is the python module the command runs, e.g. "black". Empty
	// for aggregates and shell commands.
	Module string
	// Version pins Module to an exact version. Empty when unpinned.
	Version string
	// Command is the full command line, carried as data.
	Command string
	// Policy is the node's failure policy.
	Policy FailurePolicy
	// Description is informational only, set on no-op and aggregate nodes.
	Description string
	// Outputs lists artifacts the node produces, namespaced per project and
	// task so parallel execution across projects never collides. Used by
	// the scheduler as cache keys.
	Outputs []string
}

// Name returns the registry key for a project-scoped task.
func Name(projectPath, task string) string {
	return projectPath + ":" + task
}

// RootName returns the registry key for a build-wide task.
func RootName(task string) string {
	return ":" + task
}

// Task names forming the externally visible surface of every configured
// project. Other tooling addresses nodes by these names.
const (
	TaskInstallLocalReqs       = "installLocalReqs"
	TaskInstallReqs            = "installReqs"
	TaskInstallTestReqs        = "installTestReqs"
	TaskIsortFormat            = "isortFormat"
	TaskBlackFormat            = "blackFormat"
	TaskFlakeCheck             = "flakeCheck"
	TaskMypyCheck              = "mypyCheck"
	TaskUnitTest               = "unitTest"
	TaskCustomIntegrationTests = "customIntegrationTests"
	TaskIntegrationTest        = "integrationTest"
	TaskFormat                 = "airbytePythonFormat"
	TaskApply                  = "airbytePythonApply"
	TaskTest                   = "airbytePythonTest"
	TaskCleanVenv              = "cleanPythonVenv"
	TaskAssemble               = "assemble"
	TaskLifecycleTest          = "test"
)

// Build-wide task names, registered once regardless of project count.
const (
	RootTaskLicenseFormat = "licenseFormat"
	RootTaskCheck         = "check"
	RootTaskCleanVenvs    = "cleanPythonVenvs"
)
