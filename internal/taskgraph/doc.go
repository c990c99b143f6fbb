// Package taskgraph builds the python build graph: a registry of named task
// nodes, the per-project builder that decides which nodes exist for a
// project and how they depend on each other, the cross-project linker that
// fans connector installs into base-module apply tasks, and the finalizer
// that validates the completed graph.
//
// Node creation is idempotent: requesting a name that already exists
// returns the existing node, which is what lets build-wide aggregates like
// cleanPythonVenvs be requested once per project while existing exactly
// once. Dependency edges are declared by name and may reference nodes that
// do not exist yet; they are checked when the graph is finalized, after
// every project has been visited.
//
// Nothing in this package executes anything. Nodes carry their commands as
// data for an external scheduler.
package taskgraph
