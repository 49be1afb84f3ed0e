package bundle

import (
	"errors"
	"slices"

	"github.com/albertocavalcante/go-bundle/graph"
)

// DefaultDepth is the flatten threshold used when none is configured.
const DefaultDepth = 3

// ErrInvalidDepth indicates a non-positive flatten depth.
var ErrInvalidDepth = errors.New("bundle depth must be positive")

// Bundle is a named group of nodes shared by a set of entry points. Once a
// node is placed in a bundle it appears in no other bundle.
type Bundle struct {
	// Name is assigned by the namer; empty until then.
	Name string

	// Nodes are the member nodes, deepest order first.
	Nodes []*graph.Node

	// Bundles is the set of entry points that load this bundle.
	Bundles graph.EntrySet

	// Size is the sum of the member nodes' sizes.
	Size int

	// BuildType is the build type shared by every node. It is empty while a
	// bundle still mixes scripts and stylesheets, i.e. before SplitByBuildType.
	BuildType graph.BuildType
}

// New creates a bundle from nodes and the entry set they satisfy. Nodes are
// sorted so that producers precede consumers.
func New(nodes []*graph.Node, entries graph.EntrySet) *Bundle {
	b := &Bundle{
		Nodes:   slices.Clone(nodes),
		Bundles: entries,
	}
	b.refresh()
	return b
}

// Value estimates the bytes saved by sharing this bundle: entry points times size.
func (b *Bundle) Value() int {
	return b.Bundles.Len() * b.Size
}

// ModuleNames returns the member module names in output order.
func (b *Bundle) ModuleNames() []string {
	names := make([]string, len(b.Nodes))
	for i, n := range b.Nodes {
		names[i] = n.Name()
	}
	return names
}

// Contains reports whether the named module is a member.
func (b *Bundle) Contains(name string) bool {
	return slices.ContainsFunc(b.Nodes, func(n *graph.Node) bool { return n.Name() == name })
}

// FileName returns the physical file name, e.g. "bundles/app1.js".
func (b *Bundle) FileName() string {
	if b.Name == "" || b.BuildType == "" {
		return b.Name
	}
	return b.Name + "." + string(b.BuildType)
}

// absorb merges other into b: node union, entry-set union, size recomputed.
func (b *Bundle) absorb(other *Bundle) {
	b.Nodes = append(b.Nodes, other.Nodes...)
	b.Bundles = b.Bundles.Union(other.Bundles)
	b.refresh()
}

// refresh re-sorts nodes and recomputes derived fields.
func (b *Bundle) refresh() {
	graph.SortByOrder(b.Nodes)
	b.Size = 0
	b.BuildType = ""
	mixed := false
	for i, n := range b.Nodes {
		b.Size += n.Size
		if i == 0 {
			b.BuildType = n.Type()
		} else if n.Type() != b.BuildType {
			mixed = true
		}
	}
	if mixed {
		b.BuildType = ""
	}
}

// Depths returns, for every entry point, how many bundles it must load.
func Depths(bundles []*Bundle) map[string]int {
	depths := make(map[string]int)
	for _, b := range bundles {
		for entry := range b.Bundles {
			depths[entry]++
		}
	}
	return depths
}

// ForEntry returns the bundles an entry point loads, in collection order.
func ForEntry(bundles []*Bundle, entry string) []*Bundle {
	var out []*Bundle
	for _, b := range bundles {
		if b.Bundles.Has(entry) {
			out = append(out, b)
		}
	}
	return out
}

// Find returns the bundle holding the named module, or nil.
func Find(bundles []*Bundle, module string) *Bundle {
	for _, b := range bundles {
		if b.Contains(module) {
			return b
		}
	}
	return nil
}

// entryPoints returns every entry point referenced by the bundles, sorted.
func entryPoints(bundles []*Bundle) []string {
	seen := graph.NewEntrySet()
	for _, b := range bundles {
		for entry := range b.Bundles {
			seen.Add(entry)
		}
	}
	return seen.Sorted()
}
