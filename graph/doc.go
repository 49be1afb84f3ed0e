// Package graph provides the dependency graph model used by the bundler.
//
// A Graph maps module names to mutable Nodes. Each Node wraps an immutable
// Module and carries the annotations the bundling pipeline computes:
//
//   - Bundles: the set of entry points whose closure contains the node
//   - Order: topological depth, deeper (more foundational) modules have higher values
//   - Size: byte size used to weigh bundle groups
//
// # Building a Graph
//
//	g, err := graph.New([]*graph.Module{
//	    {Name: "a"},
//	    {Name: "b", Dependencies: []string{"a"}},
//	})
//
// Every dependency name must resolve within the same call, otherwise New
// returns a *MissingDependencyError.
//
// # Annotating
//
//	_ = g.MarkBundle("app1")  // record app1 in the entry set of its closure
//	_ = g.AssignOrder("app1") // Order = max(Order, 1 + parent.Order)
//
// # Carving
//
// Remove deletes a node and whatever becomes unreachable from the remaining
// roots. Pluck deletes a node and its whole closure regardless of who else
// depends on it, which is how special modules such as the loader
// configuration are separated from the application graph.
//
// # Output Formats
//
//	dot := g.ToDOT()
//	text := g.ToText("app1")
//	data, _ := g.ToJSON()
package graph
