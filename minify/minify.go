// Package minify computes the byte size the bundler uses to value modules.
//
// Sizes are either the raw source length or the length after minification
// with esbuild. Minification is only measured here; writing minified output
// is the writer's concern.
package minify

import (
	"context"
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/albertocavalcante/go-bundle/graph"
)

// Sizer reports the byte size of a module's source.
type Sizer interface {
	Size(ctx context.Context, m *graph.Module) (int, error)
}

// SizerFunc adapts a function to the Sizer interface.
type SizerFunc func(ctx context.Context, m *graph.Module) (int, error)

// Size calls f.
func (f SizerFunc) Size(ctx context.Context, m *graph.Module) (int, error) {
	return f(ctx, m)
}

// RawSizer reports the unmodified source length.
type RawSizer struct{}

// Size returns len(m.Source).
func (RawSizer) Size(_ context.Context, m *graph.Module) (int, error) {
	return len(m.Source), nil
}

// TransformError reports esbuild diagnostics for one module.
type TransformError struct {
	Module   string
	Messages []string
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("minify %s: %s", e.Module, strings.Join(e.Messages, "; "))
}

// EsbuildSizer reports the minified length of scripts and stylesheets.
// Pre-bundled ("defined") modules are opaque and measured raw.
type EsbuildSizer struct {
	// Target is the language level esbuild may emit. Zero means ESNext.
	Target api.Target
}

// NewEsbuildSizer returns a sizer that minifies for ESNext.
func NewEsbuildSizer() *EsbuildSizer {
	return &EsbuildSizer{Target: api.ESNext}
}

// Size minifies m and returns the output length. On a transform failure it
// returns the raw length together with a *TransformError.
func (s *EsbuildSizer) Size(ctx context.Context, m *graph.Module) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if m.IsDefined() || m.Source == "" {
		return len(m.Source), nil
	}

	loader := api.LoaderJS
	if m.Type() == graph.BuildTypeCSS {
		loader = api.LoaderCSS
	}
	target := s.Target
	if target == api.DefaultTarget {
		target = api.ESNext
	}

	result := api.Transform(m.Source, api.TransformOptions{
		Loader:            loader,
		Target:            target,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
	})
	if len(result.Errors) > 0 {
		msgs := make([]string, 0, len(result.Errors))
		for _, e := range result.Errors {
			msgs = append(msgs, e.Text)
		}
		return len(m.Source), &TransformError{Module: m.Name, Messages: msgs}
	}
	return len(result.Code), nil
}

// Failure records a module whose size fell back to its raw length.
type Failure struct {
	Module string
	Err    error
}

// Apply sets Node.Size for every node. A sizer error other than context
// cancellation falls back to the raw source length and is reported as a
// Failure; cancellation aborts.
func Apply(ctx context.Context, nodes []*graph.Node, s Sizer) ([]Failure, error) {
	var failures []Failure
	for _, n := range nodes {
		if err := ctx.Err(); err != nil {
			return failures, err
		}
		size, err := s.Size(ctx, n.Module)
		if err != nil {
			if ctx.Err() != nil {
				return failures, ctx.Err()
			}
			failures = append(failures, Failure{Module: n.Name(), Err: err})
			size = len(n.Module.Source)
		}
		n.Size = size
	}
	return failures, nil
}
