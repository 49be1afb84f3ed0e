package graph

import (
	"slices"
	"strings"
)

// BuildType is the kind of physical file a module is written to.
type BuildType string

const (
	// BuildTypeJS marks script modules.
	BuildTypeJS BuildType = "js"

	// BuildTypeCSS marks stylesheet modules.
	BuildTypeCSS BuildType = "css"
)

// FormatDefined marks a module whose source is already bundled and must be
// treated as opaque.
const FormatDefined = "defined"

// Module is a loaded module as produced by the loader. It is never mutated
// by the bundler.
type Module struct {
	// Name uniquely identifies the module (e.g. "jquery@3.7.1#dist/jquery").
	Name string `json:"name"`

	// Dependencies are the names of the modules this module requires, in
	// declaration order.
	Dependencies []string `json:"dependencies,omitempty"`

	// Source is the module source text.
	Source string `json:"-"`

	// Address is the resolved origin (URL or path) the source was fetched from.
	Address string `json:"address,omitempty"`

	// Format is the declared module format, e.g. "amd", "cjs", "es6" or "defined".
	Format string `json:"format,omitempty"`

	// BuildType selects the output file kind. Empty means detect from Name.
	BuildType BuildType `json:"build_type,omitempty"`
}

// Type returns the module's build type, detecting it from the name when
// none was declared.
func (m *Module) Type() BuildType {
	if m.BuildType != "" {
		return m.BuildType
	}
	return DetectBuildType(m.Name)
}

// IsDefined reports whether the module is pre-bundled and opaque.
func (m *Module) IsDefined() bool {
	return m.Format == FormatDefined
}

// DetectBuildType infers a build type from a module name. Stylesheets are
// recognised by a ".css" extension, optionally followed by a plugin marker
// ("app/style.css!"), or by a "$css" plugin suffix.
func DetectBuildType(name string) BuildType {
	n := strings.TrimSuffix(name, "!")
	if strings.HasSuffix(n, ".css") || strings.HasSuffix(n, "$css") {
		return BuildTypeCSS
	}
	return BuildTypeJS
}

// Node is the bundler-owned, mutable wrapper around a Module.
type Node struct {
	// Module is the wrapped module.
	Module *Module

	// Dependencies are the names of dependency nodes, in declaration order.
	Dependencies []string

	// Dependents are nodes that directly depend on this one (reverse edges).
	Dependents []string

	// Bundles is the set of entry points that transitively require this node.
	Bundles EntrySet

	// Order is the topological depth assigned by AssignOrder.
	Order int

	// Size is the byte size of the node's (possibly minified) source.
	Size int
}

// Name returns the module name.
func (n *Node) Name() string {
	return n.Module.Name
}

// Type returns the node's build type.
func (n *Node) Type() BuildType {
	return n.Module.Type()
}

func newNode(m *Module) *Node {
	deps := make([]string, 0, len(m.Dependencies))
	seen := make(map[string]struct{}, len(m.Dependencies))
	for _, d := range m.Dependencies {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		deps = append(deps, d)
	}
	return &Node{
		Module:       m,
		Dependencies: deps,
		Dependents:   make([]string, 0),
		Bundles:      NewEntrySet(),
		Size:         len(m.Source),
	}
}

// EntrySet is a set of entry-point names. Two nodes with equal entry sets
// are equally shared and end up in the same bundle.
type EntrySet map[string]struct{}

// NewEntrySet creates a set holding the given names.
func NewEntrySet(names ...string) EntrySet {
	s := make(EntrySet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Add inserts a name into the set.
func (s EntrySet) Add(name string) {
	s[name] = struct{}{}
}

// Has reports whether name is in the set.
func (s EntrySet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Len returns the number of entry points in the set.
func (s EntrySet) Len() int {
	return len(s)
}

// Sorted returns the names in lexical order.
func (s EntrySet) Sorted() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Key returns a canonical string identifying the set's exact contents.
func (s EntrySet) Key() string {
	return strings.Join(s.Sorted(), "\x00")
}

// Clone returns an independent copy of the set.
func (s EntrySet) Clone() EntrySet {
	c := make(EntrySet, len(s))
	for n := range s {
		c[n] = struct{}{}
	}
	return c
}

// Union returns a new set with the members of both sets.
func (s EntrySet) Union(o EntrySet) EntrySet {
	u := s.Clone()
	for n := range o {
		u[n] = struct{}{}
	}
	return u
}

// Intersect returns a new set with the members present in both sets.
func (s EntrySet) Intersect(o EntrySet) EntrySet {
	i := make(EntrySet)
	for n := range s {
		if o.Has(n) {
			i[n] = struct{}{}
		}
	}
	return i
}

// Equal reports whether both sets hold exactly the same names.
func (s EntrySet) Equal(o EntrySet) bool {
	if len(s) != len(o) {
		return false
	}
	for n := range s {
		if !o.Has(n) {
			return false
		}
	}
	return true
}

// String renders the set as "{a,b}".
func (s EntrySet) String() string {
	return "{" + strings.Join(s.Sorted(), ",") + "}"
}

// Graph is the dependency graph: module name to Node.
//
// A Graph is owned by a single bundling run and is not safe for concurrent
// mutation.
type Graph struct {
	// Modules contains all nodes in the graph, keyed by module name.
	Modules map[string]*Node

	// Roots are the entry-point module names recorded by MarkBundle.
	Roots []string

	// order remembers insertion order for deterministic iteration. It may
	// hold names that were removed since; Names filters them out.
	order []string
}

// ModuleInfo is the flat, serialisable view of a node.
type ModuleInfo struct {
	Name         string   `json:"name"`
	Order        int      `json:"order"`
	Size         int      `json:"size"`
	BuildType    string   `json:"build_type"`
	Bundles      []string `json:"bundles,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
}
