package taskgraph

import (
	"sort"
	"sync"
)

// Registry is the build-wide store of task nodes, shared by every
// per-project builder invocation and by the cross-project linker. It is the
// only shared mutable state during configuration and is safe for concurrent
// use, so the host may visit projects in parallel.
type Registry struct {
	mu    sync.RWMutex
	nodes map[string]*Node
	deps  map[string]map[string]struct{}
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		nodes: make(map[string]*Node),
		deps:  make(map[string]map[string]struct{}),
	}
}

// GetOrCreate returns the node registered under name, invoking factory to
// construct it only if it does not exist yet. Repeated requests for the
// same name return the existing node untouched; this is the idempotency
// contract that lets independent call sites contribute to one build-wide
// task.
func (r *Registry) GetOrCreate(name string, factory func() *Node) *Node {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n, ok := r.nodes[name]; ok {
		return n
	}
	n := factory()
	n.Name = name
	r.nodes[name] = n
	return n
}

// AddDependency records that the node named name depends on the node named
// dependsOn. Either side may be unregistered at call time; edges are
// resolved by name at finalization. Duplicate edges collapse into one.
func (r *Registry) AddDependency(name, dependsOn string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.deps[name]
	if !ok {
		set = make(map[string]struct{})
		r.deps[name] = set
	}
	set[dependsOn] = struct{}{}
}

// Node returns the node registered under name, if any.
func (r *Registry) Node(name string) (*Node, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.nodes[name]
	return n, ok
}

// Dependencies returns the sorted dependency names of the given node.
func (r *Registry) Dependencies(name string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := r.deps[name]
	deps := make([]string, 0, len(set))
	for dep := range set {
		deps = append(deps, dep)
	}
	sort.Strings(deps)
	return deps
}

// Names returns the sorted names of all registered nodes.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.nodes))
	for name := range r.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered nodes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.nodes)
}
