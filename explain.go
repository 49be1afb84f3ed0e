package gobundle

import (
	"fmt"
	"strings"

	"github.com/albertocavalcante/go-bundle/bundle"
)

// Explanation tells where a module was placed and why.
type Explanation struct {
	Module    string   `json:"module"`
	Bundle    string   `json:"bundle"`
	File      string   `json:"file"`
	Bootstrap bool     `json:"bootstrap,omitempty"`
	Entries   []string `json:"entries"`
	Order     int      `json:"order"`
	Size      int      `json:"size"`
	Shared    []string `json:"shared_with,omitempty"`
}

// Explain looks a module up in a build result. Entries are the entry points
// that load the module's bundle; Shared lists the other modules in it.
func Explain(r *Result, module string) (*Explanation, error) {
	var home *bundle.Bundle
	if r != nil {
		home = bundle.Find(r.AllBundles(), module)
	}
	if home == nil {
		return nil, fmt.Errorf("%w: %q is not in any bundle", ErrModuleNotFound, module)
	}

	e := &Explanation{
		Module:    module,
		Bundle:    home.Name,
		File:      home.FileName(),
		Bootstrap: home == r.Bootstrap,
		Entries:   home.Bundles.Sorted(),
	}
	for _, n := range home.Nodes {
		if n.Name() == module {
			e.Order = n.Order
			e.Size = n.Size
			continue
		}
		e.Shared = append(e.Shared, n.Name())
	}
	return e, nil
}

// String renders the explanation for terminal output.
func (e *Explanation) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", e.Module)
	fmt.Fprintf(&sb, "  bundle:  %s\n", e.File)
	if e.Bootstrap {
		sb.WriteString("  loaded first, before any other bundle\n")
	}
	fmt.Fprintf(&sb, "  entries: %s\n", strings.Join(e.Entries, ", "))
	fmt.Fprintf(&sb, "  order:   %d\n", e.Order)
	fmt.Fprintf(&sb, "  size:    %d bytes\n", e.Size)
	if len(e.Shared) > 0 {
		fmt.Fprintf(&sb, "  with:    %s\n", strings.Join(e.Shared, ", "))
	}
	return sb.String()
}
