package graph

import (
	"fmt"
	"slices"
)

// MarkBundle records root as an entry point: root is added to the entry set
// of every node in its closure (itself included) and to Roots.
//
// Reads: Dependencies. Writes: Bundles, Roots.
func (g *Graph) MarkBundle(root string) error {
	rootNode := g.Modules[root]
	if rootNode == nil {
		return fmt.Errorf("%w: entry point %q", ErrModuleNotFound, root)
	}

	rootNode.Bundles.Add(root)
	for _, dep := range g.TransitiveDeps(root) {
		if node := g.Modules[dep]; node != nil {
			node.Bundles.Add(root)
		}
	}

	if !slices.Contains(g.Roots, root) {
		g.Roots = append(g.Roots, root)
	}
	return nil
}

// AssignOrder assigns topological depth from root: every node reachable from
// root gets Order = max(Order, 1 + parent.Order). The root itself keeps its
// current Order (zero on the first call).
//
// Calls for different roots compose: Order only ever grows, so a module
// required at different depths ends with its deepest-required order and is
// always written before the modules that consume it. Edges that close a
// cycle are ignored.
//
// Reads: Dependencies. Writes: Order.
func (g *Graph) AssignOrder(root string) error {
	if !g.Contains(root) {
		return fmt.Errorf("%w: entry point %q", ErrModuleNotFound, root)
	}

	// Depth-first post-order, skipping edges back onto the current path.
	const (
		unvisited = iota
		onPath
		done
	)
	state := make(map[string]int)
	post := make([]string, 0)

	var visit func(name string)
	visit = func(name string) {
		state[name] = onPath
		for _, dep := range g.Modules[name].Dependencies {
			if state[dep] == unvisited && g.Contains(dep) {
				visit(dep)
			}
		}
		state[name] = done
		post = append(post, name)
	}
	visit(root)

	// Reverse post-order is a topological order of the acyclic part: every
	// forward edge goes from an earlier to a later position.
	slices.Reverse(post)
	position := make(map[string]int, len(post))
	for i, name := range post {
		position[name] = i
	}

	for i, name := range post {
		node := g.Modules[name]
		for _, dep := range node.Dependencies {
			p, ok := position[dep]
			if !ok || p <= i {
				continue
			}
			depNode := g.Modules[dep]
			depNode.Order = max(depNode.Order, node.Order+1)
		}
	}

	return nil
}

// SortByOrder sorts nodes so that deeper (more foundational) modules come
// first; equal orders fall back to the module name.
func SortByOrder(nodes []*Node) {
	slices.SortStableFunc(nodes, func(a, b *Node) int {
		if a.Order != b.Order {
			return b.Order - a.Order
		}
		switch {
		case a.Name() < b.Name():
			return -1
		case a.Name() > b.Name():
			return 1
		}
		return 0
	})
}
