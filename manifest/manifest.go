package manifest

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"

	"github.com/albertocavalcante/go-bundle/bundle"
	"github.com/albertocavalcante/go-bundle/graph"
)

// CurrentVersion is the manifest schema version written by this package.
const CurrentVersion = 1

// DefaultBundlesPath is the bundle location that needs no path remapping.
const DefaultBundlesPath = "bundles"

// DefaultConfigCall is the loader function ConfigText calls by default.
const DefaultConfigCall = "steal.config"

// Manifest describes what each entry point loads at runtime.
type Manifest struct {
	// Version is the schema version.
	Version int `json:"version"`

	// Main is the primary entry point.
	Main string `json:"main,omitempty"`

	// BaseURL is passed through from the build configuration.
	BaseURL string `json:"baseURL,omitempty"`

	// Bootstrap is the file name of the bootstrap bundle, if one exists. It
	// leads the Entries list of every entry point it serves.
	Bootstrap string `json:"bootstrap,omitempty"`

	// Paths maps loader path patterns to URL templates. Empty unless bundles
	// live outside DefaultBundlesPath.
	Paths map[string]string `json:"paths"`

	// Bundles maps each script bundle name to its module names, in load order.
	Bundles map[string][]string `json:"bundles"`

	// Entries maps each entry point to the file names it loads, in order.
	Entries map[string][]string `json:"entries"`
}

// Options carries the loader metadata Build needs.
type Options struct {
	Main        string
	BaseURL     string
	BundlesPath string
	Bootstrap   *bundle.Bundle
}

// New creates an empty manifest.
func New() *Manifest {
	return &Manifest{
		Version: CurrentVersion,
		Paths:   make(map[string]string),
		Bundles: make(map[string][]string),
		Entries: make(map[string][]string),
	}
}

// Build describes a named bundle collection. Bundles must already be named
// and split by build type.
func Build(bundles []*bundle.Bundle, opts Options) *Manifest {
	m := New()
	m.Main = opts.Main
	m.BaseURL = opts.BaseURL
	m.Paths = PathsFor(opts.BundlesPath)

	if opts.Bootstrap != nil && len(opts.Bootstrap.Nodes) > 0 {
		m.Bootstrap = opts.Bootstrap.FileName()
		for _, entry := range opts.Bootstrap.Bundles.Sorted() {
			m.Entries[entry] = append(m.Entries[entry], m.Bootstrap)
		}
	}

	for _, b := range bundles {
		if b.BuildType == graph.BuildTypeJS {
			m.Bundles[b.Name] = append(m.Bundles[b.Name], b.ModuleNames()...)
		}
		for _, entry := range b.Bundles.Sorted() {
			m.Entries[entry] = append(m.Entries[entry], b.FileName())
		}
	}
	return m
}

// PathsFor returns the remapping directives for a bundle location. The
// default location, with or without a trailing slash, needs none.
func PathsFor(bundlesPath string) map[string]string {
	paths := make(map[string]string)
	p := strings.TrimRight(bundlesPath, "/")
	if p == "" || p == DefaultBundlesPath {
		return paths
	}
	paths[Prefix+"*"] = p + "/*.js"
	paths[Prefix+"*.css"] = p + "/*css"
	return paths
}

// LoadOrder returns the files an entry point loads, in order. The bootstrap
// file, when present, comes first.
func (m *Manifest) LoadOrder(entry string) []string {
	return slices.Clone(m.Entries[entry])
}

// ConfigText renders the manifest as loader configuration, e.g.
//
//	steal.config({"paths":{...},"bundles":{...}});
//
// Paths are omitted when empty. An empty call uses DefaultConfigCall.
func (m *Manifest) ConfigText(call string) (string, error) {
	if call == "" {
		call = DefaultConfigCall
	}

	config := struct {
		Paths   map[string]string   `json:"paths,omitempty"`
		Bundles map[string][]string `json:"bundles"`
	}{
		Paths:   m.Paths,
		Bundles: m.Bundles,
	}
	if config.Bundles == nil {
		config.Bundles = map[string][]string{}
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(config); err != nil {
		return "", err
	}
	return call + "(" + strings.TrimSpace(buf.String()) + ");\n", nil
}
