package graph

import (
	"fmt"
	"slices"
)

// Get returns the node for a module name, or nil if not found.
func (g *Graph) Get(name string) *Node {
	return g.Modules[name]
}

// Contains returns true if the graph contains the given module.
func (g *Graph) Contains(name string) bool {
	_, ok := g.Modules[name]
	return ok
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	return len(g.Modules)
}

// Names returns the module names in insertion order.
func (g *Graph) Names() []string {
	names := make([]string, 0, len(g.Modules))
	for _, name := range g.order {
		if _, ok := g.Modules[name]; ok {
			names = append(names, name)
		}
	}
	// Compact so repeated removals don't keep growing the scan.
	g.order = append(g.order[:0], names...)
	return slices.Clone(names)
}

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	names := g.Names()
	nodes := make([]*Node, len(names))
	for i, name := range names {
		nodes[i] = g.Modules[name]
	}
	return nodes
}

// TransitiveDeps returns all transitive dependencies of a module.
// The result is in breadth-first order and excludes the module itself.
func (g *Graph) TransitiveDeps(name string) []string {
	result := make([]string, 0)
	visited := map[string]bool{name: true}
	queue := []string{name}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		node := g.Modules[current]
		if node == nil {
			continue
		}

		for _, dep := range node.Dependencies {
			if !visited[dep] {
				visited[dep] = true
				result = append(result, dep)
				queue = append(queue, dep)
			}
		}
	}

	return result
}

// Path finds the shortest dependency path from one module to another.
// Returns nil if no path exists.
func (g *Graph) Path(from, to string) []string {
	if from == to {
		if g.Contains(from) {
			return []string{from}
		}
		return nil
	}

	type queueItem struct {
		name string
		path []string
	}

	visited := map[string]bool{from: true}
	queue := []queueItem{{name: from, path: []string{from}}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		node := g.Modules[current.name]
		if node == nil {
			continue
		}

		for _, dep := range node.Dependencies {
			if dep == to {
				return append(slices.Clone(current.path), dep)
			}
			if !visited[dep] {
				visited[dep] = true
				next := append(slices.Clone(current.path), dep)
				queue = append(queue, queueItem{name: dep, path: next})
			}
		}
	}

	return nil
}

// FindCycles returns the cycles found by a depth-first walk in insertion
// order. Each cycle lists the modules on the loop, starting at the module
// the back edge points to.
func (g *Graph) FindCycles() [][]string {
	var cycles [][]string
	visited := make(map[string]bool)
	onPath := make(map[string]bool)
	path := make([]string, 0)

	var walk func(name string)
	walk = func(name string) {
		visited[name] = true
		onPath[name] = true
		path = append(path, name)

		if node := g.Modules[name]; node != nil {
			for _, dep := range node.Dependencies {
				if !visited[dep] {
					walk(dep)
				} else if onPath[dep] {
					start := slices.Index(path, dep)
					if start >= 0 {
						cycles = append(cycles, slices.Clone(path[start:]))
					}
				}
			}
		}

		path = path[:len(path)-1]
		onPath[name] = false
	}

	for _, name := range g.Names() {
		if !visited[name] {
			walk(name)
		}
	}

	return cycles
}

// Detach removes exactly one node and prunes the edges other nodes hold to
// it. It returns nil if the node does not exist.
func (g *Graph) Detach(name string) *Node {
	nodes := g.detachAll([]string{name})
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

// Remove deletes a module and, recursively, every dependency of it that is
// no longer reachable from the remaining roots. A node that is still
// reachable is never removed. When the graph has no roots left, every
// surviving module outside the removed closure counts as a root.
//
// The removed nodes are returned as a standalone graph.
func (g *Graph) Remove(name string) (*Graph, error) {
	if !g.Contains(name) {
		return nil, fmt.Errorf("%w: %q", ErrModuleNotFound, name)
	}

	candidates := g.TransitiveDeps(name)
	candidateSet := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		candidateSet[c] = true
	}

	var seeds []string
	for _, r := range g.Roots {
		if r != name {
			seeds = append(seeds, r)
		}
	}
	if len(seeds) == 0 {
		for _, n := range g.Names() {
			if n != name && !candidateSet[n] {
				seeds = append(seeds, n)
			}
		}
	}
	reachable := g.reachableFrom(seeds, name)

	toRemove := []string{name}
	for _, c := range candidates {
		if c != name && !reachable[c] {
			toRemove = append(toRemove, c)
		}
	}

	return subgraph(g.detachAll(toRemove)), nil
}

// Pluck removes a module and its whole dependency closure, regardless of
// whether other modules still depend on them. Nodes are returned in
// dependency-first order.
func (g *Graph) Pluck(name string) ([]*Node, error) {
	if !g.Contains(name) {
		return nil, fmt.Errorf("%w: %q", ErrModuleNotFound, name)
	}

	var ordered []string
	visited := make(map[string]bool)
	var visit func(n string)
	visit = func(n string) {
		visited[n] = true
		for _, dep := range g.Modules[n].Dependencies {
			if !visited[dep] && g.Contains(dep) {
				visit(dep)
			}
		}
		ordered = append(ordered, n)
	}
	visit(name)

	nodes := g.detachAll(ordered)
	subgraph(nodes)
	return nodes, nil
}

// PruneUnbundled detaches every node whose entry set is empty, i.e. nodes
// no entry point requires. It returns the pruned names in insertion order.
func (g *Graph) PruneUnbundled() []string {
	var pruned []string
	for _, node := range g.Nodes() {
		if node.Bundles.Len() == 0 {
			g.Detach(node.Name())
			pruned = append(pruned, node.Name())
		}
	}
	return pruned
}

// DetachAll removes the named nodes as one group. Edges among the detached
// nodes are left intact; edges surviving nodes hold to them are pruned.
// Unknown names are ignored.
func (g *Graph) DetachAll(names ...string) []*Node {
	return g.detachAll(names)
}

func (g *Graph) detachAll(names []string) []*Node {
	nodes := make([]*Node, 0, len(names))
	for _, name := range names {
		if node, ok := g.Modules[name]; ok {
			delete(g.Modules, name)
			nodes = append(nodes, node)
		}
	}

	for _, node := range nodes {
		name := node.Name()
		for _, dep := range node.Dependencies {
			if depNode := g.Modules[dep]; depNode != nil {
				depNode.Dependents = slices.DeleteFunc(depNode.Dependents, func(s string) bool { return s == name })
			}
		}
		for _, dependent := range node.Dependents {
			if parent := g.Modules[dependent]; parent != nil {
				parent.Dependencies = slices.DeleteFunc(parent.Dependencies, func(s string) bool { return s == name })
			}
		}
		g.Roots = slices.DeleteFunc(g.Roots, func(s string) bool { return s == name })
	}

	return nodes
}

// reachableFrom returns every node reachable from the seeds, seeds included,
// without passing through skip.
func (g *Graph) reachableFrom(seeds []string, skip string) map[string]bool {
	reachable := make(map[string]bool)
	queue := make([]string, 0, len(seeds))
	for _, s := range seeds {
		if s != skip && g.Contains(s) && !reachable[s] {
			reachable[s] = true
			queue = append(queue, s)
		}
	}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, dep := range g.Modules[current].Dependencies {
			if dep != skip && !reachable[dep] && g.Contains(dep) {
				reachable[dep] = true
				queue = append(queue, dep)
			}
		}
	}
	return reachable
}
