package bundle

import (
	"github.com/albertocavalcante/go-bundle/graph"
)

// SplitByBuildType returns a collection in which every bundle holds a single
// build type. A bundle mixing scripts and stylesheets becomes two bundles
// with the same entry set: the script half first, then the stylesheet half.
// Relative node order within each half is preserved. Input bundles that are
// already homogeneous are returned as-is.
func SplitByBuildType(bundles []*Bundle) []*Bundle {
	out := make([]*Bundle, 0, len(bundles))
	for _, b := range bundles {
		var js, css []*graph.Node
		for _, n := range b.Nodes {
			if n.Type() == graph.BuildTypeCSS {
				css = append(css, n)
			} else {
				js = append(js, n)
			}
		}

		switch {
		case len(css) == 0:
			b.BuildType = graph.BuildTypeJS
			out = append(out, b)
		case len(js) == 0:
			b.BuildType = graph.BuildTypeCSS
			out = append(out, b)
		default:
			out = append(out,
				half(b, js, graph.BuildTypeJS),
				half(b, css, graph.BuildTypeCSS),
			)
		}
	}
	return out
}

func half(b *Bundle, nodes []*graph.Node, bt graph.BuildType) *Bundle {
	size := 0
	for _, n := range nodes {
		size += n.Size
	}
	return &Bundle{
		Name:      b.Name,
		Nodes:     nodes,
		Bundles:   b.Bundles.Clone(),
		Size:      size,
		BuildType: bt,
	}
}
