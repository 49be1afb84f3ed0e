package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const separatorWidth = 60 // Width of separator lines in text output

// ToJSON outputs the graph as a flat module list in insertion order.
func (g *Graph) ToJSON() ([]byte, error) {
	return json.MarshalIndent(g.ToModuleList(), "", "  ")
}

// ToModuleList returns a flat view of every node in insertion order.
func (g *Graph) ToModuleList() []ModuleInfo {
	nodes := g.Nodes()
	modules := make([]ModuleInfo, 0, len(nodes))
	for _, node := range nodes {
		modules = append(modules, ModuleInfo{
			Name:         node.Name(),
			Order:        node.Order,
			Size:         node.Size,
			BuildType:    string(node.Type()),
			Bundles:      node.Bundles.Sorted(),
			Dependencies: append([]string(nil), node.Dependencies...),
		})
	}
	return modules
}

// ToDOT outputs the graph in Graphviz DOT format. Entry points are drawn
// bold and stylesheet modules dashed.
func (g *Graph) ToDOT() string {
	var buf bytes.Buffer

	buf.WriteString("digraph dependencies {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box];\n\n")

	roots := NewEntrySet(g.Roots...)
	nodes := g.Nodes()
	for _, node := range nodes {
		label := fmt.Sprintf("%s\\norder %d", node.Name(), node.Order)
		attrs := fmt.Sprintf(`label="%s"`, label) //nolint:gocritic // DOT format requires this quote style
		if roots.Has(node.Name()) {
			attrs += ", style=bold"
		}
		if node.Type() == BuildTypeCSS {
			attrs += ", style=dashed"
		}
		buf.WriteString(fmt.Sprintf("  %q [%s];\n", node.Name(), attrs))
	}

	buf.WriteString("\n")

	for _, node := range nodes {
		for _, dep := range node.Dependencies {
			buf.WriteString(fmt.Sprintf("  %q -> %q;\n", node.Name(), dep))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// ToText outputs a human-readable dependency tree rooted at root.
func (g *Graph) ToText(root string) string {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Dependency Graph (root: %s)\n", root))
	buf.WriteString(strings.Repeat("=", separatorWidth) + "\n\n")
	buf.WriteString(fmt.Sprintf("Total modules: %d\n", g.Len()))
	buf.WriteString(fmt.Sprintf("Transitive dependencies: %d\n", len(g.TransitiveDeps(root))))
	if cycles := g.FindCycles(); len(cycles) > 0 {
		buf.WriteString(fmt.Sprintf("Cycles: %d\n", len(cycles)))
	}
	buf.WriteString("\n")

	buf.WriteString("Dependency Tree:\n")
	visited := make(map[string]bool)
	g.printTree(&buf, root, "", true, visited)

	return buf.String()
}

func (g *Graph) printTree(buf *bytes.Buffer, name, prefix string, isLast bool, visited map[string]bool) {
	connector := "├── "
	if isLast {
		connector = "└── "
	}
	if prefix == "" {
		buf.WriteString(name)
	} else {
		buf.WriteString(prefix + connector + name)
	}

	node := g.Modules[name]
	if node != nil && node.Type() == BuildTypeCSS {
		buf.WriteString(" (css)")
	}

	if visited[name] {
		buf.WriteString(" (circular)\n")
		return
	}
	buf.WriteString("\n")

	visited[name] = true
	defer func() { visited[name] = false }()

	if node == nil {
		return
	}

	for i, dep := range node.Dependencies {
		isLastChild := i == len(node.Dependencies)-1
		childPrefix := prefix
		if prefix != "" {
			if isLast {
				childPrefix += "    "
			} else {
				childPrefix += "│   "
			}
		} else {
			childPrefix = " "
		}
		g.printTree(buf, dep, childPrefix, isLastChild, visited)
	}
}
