// Package gobundle partitions the module graph of a multi-page application
// into shared bundles.
//
// Given every module reachable from a set of entry points, it decides which
// modules are grouped into which bundle so that entry points share common
// code without loading too many files, and emits a manifest that tells the
// runtime loader which bundles each entry point needs.
//
// # Overview
//
// A build runs these stages in order, each annotating the same graph:
//
//   - Graph: modules become nodes with resolved dependency edges (package graph)
//   - Bootstrap: the loader config module and, optionally, the loader runtime
//     are plucked out with their dependencies
//   - Membership and order: every node learns which entry points need it and
//     how deep it sits
//   - Sizing: each node is valued by its raw or minified size (package minify)
//   - Partitioning: extract shared subsets, flatten to a maximum depth, split
//     scripts from stylesheets (package bundle)
//   - Naming and manifest (package manifest)
//
// # Quick Start
//
//	result, err := gobundle.Build(ctx, modules, "app/main",
//	    gobundle.WithBundles("app/admin"),
//	    gobundle.WithBundleDepth(2),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	text, _ := result.ConfigText()
//
// Or from a graph file:
//
//	result, err := gobundle.BuildFile(ctx, "graph.bzl")
//
// # Errors
//
// Every failure is returned synchronously and matches a sentinel with
// errors.Is: ErrMissingDependency, ErrDuplicateModule, ErrModuleNotFound or
// ErrInvalidConfiguration. An empty module list is not an error; it builds
// zero bundles and an empty manifest.
//
// # Thread Safety
//
// Build owns the graph it constructs and may be called concurrently. BuildGraph
// mutates the graph it is given.
package gobundle

import (
	"context"
	"fmt"
	"slices"

	"github.com/albertocavalcante/go-bundle/bundle"
	"github.com/albertocavalcante/go-bundle/graph"
	"github.com/albertocavalcante/go-bundle/manifest"
	"github.com/albertocavalcante/go-bundle/minify"
)

// Build constructs the module graph and partitions it into bundles.
//
// Modules that no entry point reaches are dropped and listed in
// Summary.Pruned. Every remaining module lands in exactly one bundle, and each
// entry point's load order covers all the modules it needs.
func Build(ctx context.Context, modules []*graph.Module, main string, opts ...Option) (*Result, error) {
	cfg, err := newBuildConfig(opts...)
	if err != nil {
		return nil, err
	}

	if cfg.ignore != nil {
		before := len(modules)
		modules = graph.FilterModules(modules, cfg.ignore)
		cfg.log().Debug("ignored modules", "count", before-len(modules))
	}

	g, err := graph.New(modules)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}
	return run(ctx, g, main, cfg)
}

// BuildGraph partitions an existing graph. The graph is consumed: its nodes
// are moved into bundles and it is empty afterwards. WithIgnore has no
// effect here.
func BuildGraph(ctx context.Context, g *graph.Graph, main string, opts ...Option) (*Result, error) {
	cfg, err := newBuildConfig(opts...)
	if err != nil {
		return nil, err
	}
	return run(ctx, g, main, cfg)
}

// BuildFile parses a graph file and builds it. Options override settings
// from the file's bundle_config.
func BuildFile(ctx context.Context, filename string, opts ...Option) (*Result, error) {
	gf, err := ParseGraphFile(filename)
	if err != nil {
		return nil, err
	}
	return Build(ctx, gf.Modules, gf.Config.Main, slices.Concat(gf.Config.Options(), opts)...)
}

func run(ctx context.Context, g *graph.Graph, main string, cfg *buildConfig) (*Result, error) {
	log := cfg.log()
	result := &Result{
		Main:       main,
		configCall: cfg.configCall,
		Summary:    Summary{Depths: map[string]int{}},
	}

	if g.Len() == 0 {
		log.Info("empty module graph, nothing to bundle")
		result.Manifest = manifest.Build(nil, manifestOptions(cfg, main, nil))
		return result, nil
	}

	roots, err := entryPoints(g, main, cfg.bundles)
	if err != nil {
		return nil, err
	}

	boot, err := pluckBootstrap(g, cfg)
	if err != nil {
		return nil, err
	}
	for _, root := range roots {
		if !g.Contains(root) {
			return nil, &ConfigError{
				Field:   "bundles",
				Message: fmt.Sprintf("entry point %q is part of the bootstrap bundle", root),
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, root := range roots {
		if err := g.MarkBundle(root); err != nil {
			return nil, err
		}
		if err := g.AssignOrder(root); err != nil {
			return nil, err
		}
	}
	if pruned := g.PruneUnbundled(); len(pruned) > 0 {
		log.Warn("modules not required by any entry point", "count", len(pruned), "modules", pruned)
		result.Summary.Pruned = pruned
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sizer, err := cfg.sizerFor()
	if err != nil {
		return nil, err
	}
	failures, err := minify.Apply(ctx, slices.Concat(boot, g.Nodes()), sizer)
	if err != nil {
		return nil, err
	}
	for _, f := range failures {
		log.Warn("using raw size", "module", f.Module, "error", f.Err)
		result.Summary.SizeFallbacks = append(result.Summary.SizeFallbacks, f.Module)
	}

	modules := g.Len() + len(boot)
	bundles := bundle.Extract(g)
	log.Debug("extracted bundles", "count", len(bundles))
	if err := bundle.Flatten(&bundles, cfg.bundleDepth); err != nil {
		return nil, &ConfigError{Field: "bundle_depth", Message: err.Error(), Err: err}
	}
	log.Debug("flattened bundles", "count", len(bundles), "depth", cfg.bundleDepth)
	bundles = bundle.SplitByBuildType(bundles)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	manifest.NameAll(bundles)
	result.Bundles = bundles
	result.Bootstrap = bootstrapBundle(boot, roots)
	result.Manifest = manifest.Build(bundles, manifestOptions(cfg, main, result.Bootstrap))

	result.Summary.Modules = modules
	result.Summary.Bundles = len(bundles)
	result.Summary.Depths = bundle.Depths(bundles)
	for _, b := range result.AllBundles() {
		result.Summary.TotalSize += b.Size
	}

	log.Info("bundling complete",
		"main", main,
		"modules", result.Summary.Modules,
		"bundles", result.Summary.Bundles,
		"bytes", result.Summary.TotalSize)
	return result, nil
}

// entryPoints validates main and the extra bundle roots, dropping duplicates.
func entryPoints(g *graph.Graph, main string, extra []string) ([]string, error) {
	if main == "" {
		return nil, &ConfigError{Field: "main", Message: "main module is required"}
	}
	roots := []string{main}
	for _, name := range extra {
		if !slices.Contains(roots, name) {
			roots = append(roots, name)
		}
	}
	for _, root := range roots {
		if !g.Contains(root) {
			return nil, fmt.Errorf("%w: entry point %q", ErrModuleNotFound, root)
		}
	}
	return roots, nil
}

// pluckBootstrap removes the loader runtime (when bundling it) and the
// config module, each with its dependency closure, runtime first.
func pluckBootstrap(g *graph.Graph, cfg *buildConfig) ([]*graph.Node, error) {
	var names []string
	if cfg.bundleSteal {
		names = append(names, cfg.runtimeModule)
	}
	if cfg.configModule != "" {
		names = append(names, cfg.configModule)
	}

	var nodes []*graph.Node
	for _, name := range names {
		if !g.Contains(name) {
			cfg.log().Warn("bootstrap module not in graph", "module", name)
			continue
		}
		plucked, err := g.Pluck(name)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, plucked...)
	}
	return nodes, nil
}

// bootstrapBundle wraps the plucked nodes, keeping their dependency-first
// order. The bootstrap is a script bundle every entry point loads first.
func bootstrapBundle(nodes []*graph.Node, roots []string) *bundle.Bundle {
	if len(nodes) == 0 {
		return nil
	}
	b := &bundle.Bundle{
		Name:      manifest.BootstrapName,
		Nodes:     nodes,
		Bundles:   graph.NewEntrySet(roots...),
		BuildType: graph.BuildTypeJS,
	}
	for _, n := range nodes {
		b.Size += n.Size
	}
	return b
}

func manifestOptions(cfg *buildConfig, main string, boot *bundle.Bundle) manifest.Options {
	return manifest.Options{
		Main:        main,
		BaseURL:     cfg.baseURL,
		BundlesPath: cfg.bundlesPath,
		Bootstrap:   boot,
	}
}
