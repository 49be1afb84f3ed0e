package bundle

import (
	"github.com/albertocavalcante/go-bundle/graph"
)

// group is the candidate subset for one distinct entry set.
type group struct {
	entries graph.EntrySet
	nodes   []*graph.Node
	size    int
	first   int // insertion index of the first member
}

func (c *group) value() int {
	return c.entries.Len() * c.size
}

// better reports whether c should be extracted before o.
func (c *group) better(o *group) bool {
	if cv, ov := c.value(), o.value(); cv != ov {
		return cv > ov
	}
	if cl, ol := c.entries.Len(), o.entries.Len(); cl != ol {
		return cl > ol
	}
	if c.size != o.size {
		return c.size > o.size
	}
	return c.first < o.first
}

// Extract consumes g, repeatedly removing the most valuable group of nodes
// that share an identical entry set, until g is empty. Each removed group
// becomes one bundle, in extraction order.
//
// Nodes whose entry set is empty still form a group; callers normally prune
// them first (graph.PruneUnbundled).
func Extract(g *graph.Graph) []*Bundle {
	var bundles []*Bundle
	for g.Len() > 0 {
		best := mostShared(g)
		names := make([]string, len(best.nodes))
		for i, n := range best.nodes {
			names[i] = n.Name()
		}
		nodes := g.DetachAll(names...)
		bundles = append(bundles, New(nodes, best.entries.Clone()))
	}
	return bundles
}

// mostShared groups the remaining nodes by entry set and returns the winner.
func mostShared(g *graph.Graph) *group {
	groups := make(map[string]*group)
	var best *group
	for i, node := range g.Nodes() {
		key := node.Bundles.Key()
		c, ok := groups[key]
		if !ok {
			c = &group{entries: node.Bundles, first: i}
			groups[key] = c
		}
		c.nodes = append(c.nodes, node)
		c.size += node.Size
	}
	for _, c := range groups {
		if best == nil || c.better(best) {
			best = c
		}
	}
	return best
}
