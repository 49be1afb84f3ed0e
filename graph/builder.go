package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingDependency indicates a declared dependency has no module.
	ErrMissingDependency = errors.New("missing dependency")

	// ErrDuplicateModule indicates two modules share a name.
	ErrDuplicateModule = errors.New("duplicate module")

	// ErrModuleNotFound indicates the named module is not in the graph.
	ErrModuleNotFound = errors.New("module not found")
)

// MissingDependencyError reports the module that declared an unresolved
// dependency.
type MissingDependencyError struct {
	Module     string
	Dependency string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("module %q depends on %q, which was not loaded", e.Module, e.Dependency)
}

// Unwrap allows errors.Is(err, ErrMissingDependency).
func (e *MissingDependencyError) Unwrap() error {
	return ErrMissingDependency
}

// New constructs a Graph from a module list. Every dependency name must
// resolve to a module in the same list.
func New(modules []*Module) (*Graph, error) {
	g := &Graph{
		Modules: make(map[string]*Node, len(modules)),
	}

	// First pass: create all nodes
	for _, m := range modules {
		if m == nil {
			continue
		}
		if _, ok := g.Modules[m.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateModule, m.Name)
		}
		g.add(newNode(m))
	}

	// Second pass: resolve edges and build reverse edges (dependents)
	for _, name := range g.order {
		node := g.Modules[name]
		for _, dep := range node.Dependencies {
			depNode, ok := g.Modules[dep]
			if !ok {
				return nil, &MissingDependencyError{Module: name, Dependency: dep}
			}
			depNode.Dependents = append(depNode.Dependents, name)
		}
	}

	return g, nil
}

// FilterModules drops every module for which ignore returns true, along with
// the dependency edges that point at ignored modules. It is the step callers
// use before New when some modules are provided by other means.
func FilterModules(modules []*Module, ignore func(name string) bool) []*Module {
	if ignore == nil {
		return modules
	}

	kept := make([]*Module, 0, len(modules))
	for _, m := range modules {
		if m == nil || ignore(m.Name) {
			continue
		}
		deps := make([]string, 0, len(m.Dependencies))
		for _, d := range m.Dependencies {
			if !ignore(d) {
				deps = append(deps, d)
			}
		}
		if len(deps) == len(m.Dependencies) {
			kept = append(kept, m)
			continue
		}
		// Copy rather than mutate: modules are shared with the loader.
		c := *m
		c.Dependencies = deps
		kept = append(kept, &c)
	}
	return kept
}

// add inserts a node, remembering insertion order.
func (g *Graph) add(n *Node) {
	g.Modules[n.Name()] = n
	g.order = append(g.order, n.Name())
}

// subgraph builds a standalone graph from detached nodes, keeping only the
// edges between them.
func subgraph(nodes []*Node) *Graph {
	g := &Graph{Modules: make(map[string]*Node, len(nodes))}
	for _, n := range nodes {
		n.Dependents = n.Dependents[:0]
		g.add(n)
	}
	for _, name := range g.order {
		node := g.Modules[name]
		kept := node.Dependencies[:0]
		for _, dep := range node.Dependencies {
			if depNode, ok := g.Modules[dep]; ok {
				kept = append(kept, dep)
				depNode.Dependents = append(depNode.Dependents, name)
			}
		}
		node.Dependencies = kept
	}
	return g
}
