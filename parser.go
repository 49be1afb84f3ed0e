package gobundle

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bazelbuild/buildtools/build"

	"github.com/albertocavalcante/go-bundle/graph"
	"github.com/albertocavalcante/go-bundle/internal/buildutil"
)

// GraphFile is a parsed graph file: build settings plus the module list a
// loader produced.
//
//	bundle_config(
//	    main = "app/main",
//	    bundles = ["app/admin"],
//	    bundle_depth = 2,
//	)
//
//	module(name = "jquery", src = "node_modules/jquery/dist/jquery.js")
//	module(name = "app/main", deps = ["jquery"], source = "...")
type GraphFile struct {
	Config  FileConfig
	Modules []*graph.Module
}

// FileConfig holds the bundle_config() settings. Zero values mean "not set",
// except BundleDepth, which is nil when unset so an explicit 0 is rejected.
type FileConfig struct {
	Main         string
	Bundles      []string
	BundleDepth  *int
	BundlesPath  string
	BundleSteal  bool
	Minify       bool
	ConfigModule string
	BaseURL      string
}

var configSchema = buildutil.Schema{
	"main":          buildutil.KindString,
	"bundles":       buildutil.KindStringList,
	"bundle_depth":  buildutil.KindInt,
	"bundles_path":  buildutil.KindString,
	"bundle_steal":  buildutil.KindBool,
	"minify":        buildutil.KindBool,
	"config_module": buildutil.KindString,
	"base_url":      buildutil.KindString,
}

var moduleSchema = buildutil.Schema{
	"name":       buildutil.KindString,
	"deps":       buildutil.KindStringList,
	"source":     buildutil.KindString,
	"src":        buildutil.KindString,
	"format":     buildutil.KindString,
	"build_type": buildutil.KindString,
	"address":    buildutil.KindString,
}

// Options converts the settings that were set into build options.
func (c FileConfig) Options() []Option {
	var opts []Option
	if c.BundleDepth != nil {
		opts = append(opts, WithBundleDepth(*c.BundleDepth))
	}
	if len(c.Bundles) > 0 {
		opts = append(opts, WithBundles(c.Bundles...))
	}
	if c.BundlesPath != "" {
		opts = append(opts, WithBundlesPath(c.BundlesPath))
	}
	if c.BundleSteal {
		opts = append(opts, WithBundleSteal(true))
	}
	if c.Minify {
		opts = append(opts, WithMinify(true))
	}
	if c.ConfigModule != "" {
		opts = append(opts, WithConfigModule(c.ConfigModule))
	}
	if c.BaseURL != "" {
		opts = append(opts, WithBaseURL(c.BaseURL))
	}
	return opts
}

// ParseGraphFile reads and parses a graph file. src attributes are read
// relative to the file's directory.
func ParseGraphFile(filename string) (*GraphFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph file: %w", err)
	}
	return ParseGraphContent(filename, data, filepath.Dir(filename))
}

// ParseGraphContent parses graph file content. filename is used in error
// messages only; src attributes are read relative to dir.
func ParseGraphContent(filename string, content []byte, dir string) (*GraphFile, error) {
	f, err := build.ParseDefault(filename, content)
	if err != nil {
		return nil, &ParseError{Filename: filename, Message: "invalid syntax", Wrapped: err}
	}

	gf := &GraphFile{}
	seenConfig := false
	for _, stmt := range f.Stmt {
		call, ok := stmt.(*build.CallExpr)
		if !ok {
			start, _ := stmt.Span()
			return nil, &ParseError{Filename: filename, Line: start.Line,
				Message: "only bundle_config() and module() calls are allowed"}
		}
		line := buildutil.Line(call)

		switch buildutil.FuncName(call) {
		case "bundle_config":
			if seenConfig {
				return nil, &ParseError{Filename: filename, Line: line, Message: "bundle_config() declared twice"}
			}
			seenConfig = true
			if err := buildutil.Check(call, configSchema); err != nil {
				return nil, &ParseError{Filename: filename, Line: line, Message: err.Error(), Wrapped: ErrInvalidConfiguration}
			}
			gf.Config = extractConfig(call)

		case "module":
			if err := buildutil.Check(call, moduleSchema); err != nil {
				return nil, &ParseError{Filename: filename, Line: line, Message: err.Error()}
			}
			m, err := extractModule(call, dir)
			if err != nil {
				return nil, &ParseError{Filename: filename, Line: line, Message: err.Error(), Wrapped: err}
			}
			gf.Modules = append(gf.Modules, m)

		default:
			return nil, &ParseError{Filename: filename, Line: line,
				Message: fmt.Sprintf("unknown function %q", buildutil.FuncName(call))}
		}
	}
	return gf, nil
}

func extractConfig(call *build.CallExpr) FileConfig {
	var depth *int
	if buildutil.Has(call, "bundle_depth") {
		d := buildutil.Int(call, "bundle_depth")
		depth = &d
	}
	return FileConfig{
		Main:         buildutil.String(call, "main"),
		Bundles:      buildutil.StringList(call, "bundles"),
		BundleDepth:  depth,
		BundlesPath:  buildutil.String(call, "bundles_path"),
		BundleSteal:  buildutil.Bool(call, "bundle_steal"),
		Minify:       buildutil.Bool(call, "minify"),
		ConfigModule: buildutil.String(call, "config_module"),
		BaseURL:      buildutil.String(call, "base_url"),
	}
}

func extractModule(call *build.CallExpr, dir string) (*graph.Module, error) {
	m := &graph.Module{
		Name:         buildutil.String(call, "name"),
		Dependencies: buildutil.StringList(call, "deps"),
		Source:       buildutil.String(call, "source"),
		Format:       buildutil.String(call, "format"),
		Address:      buildutil.String(call, "address"),
	}
	if m.Name == "" {
		return nil, fmt.Errorf("module() requires a name")
	}

	switch bt := graph.BuildType(buildutil.String(call, "build_type")); bt {
	case "", graph.BuildTypeJS, graph.BuildTypeCSS:
		m.BuildType = bt
	default:
		return nil, fmt.Errorf("module %q: build_type must be \"js\" or \"css\", got %q", m.Name, bt)
	}

	if src := buildutil.String(call, "src"); src != "" {
		if buildutil.Has(call, "source") {
			return nil, fmt.Errorf("module %q: set source or src, not both", m.Name)
		}
		path := src
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, src)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("module %q: %w", m.Name, err)
		}
		m.Source = string(data)
		if m.Address == "" {
			m.Address = "file:" + filepath.ToSlash(src)
		}
	}
	return m, nil
}
