package gobundle

import (
	"github.com/albertocavalcante/go-bundle/bundle"
	"github.com/albertocavalcante/go-bundle/manifest"
)

// Result is the outcome of a build.
type Result struct {
	// Main is the primary entry point.
	Main string `json:"main"`

	// Bundles are the shared and per-entry bundles, in output order. Every
	// bundle is named and holds a single build type.
	Bundles []*bundle.Bundle `json:"-"`

	// Bootstrap holds the loader runtime and configuration modules, loaded
	// before anything else. Nil when neither was found.
	Bootstrap *bundle.Bundle `json:"-"`

	// Manifest describes what each entry point loads.
	Manifest *manifest.Manifest `json:"manifest"`

	// Summary contains aggregate statistics about the build.
	Summary Summary `json:"summary"`

	configCall string
}

// Summary provides aggregate statistics about a build.
type Summary struct {
	// Modules is the number of modules placed in bundles, bootstrap included.
	Modules int `json:"modules"`

	// Bundles is the number of bundle files, bootstrap excluded.
	Bundles int `json:"bundles"`

	// TotalSize is the sum of all bundle sizes in bytes.
	TotalSize int `json:"total_size"`

	// Depths maps each entry point to the number of bundles it loads.
	Depths map[string]int `json:"depths"`

	// Pruned lists modules no entry point requires; they are not bundled.
	Pruned []string `json:"pruned,omitempty"`

	// SizeFallbacks lists modules whose minified size could not be measured
	// and that were valued by raw size instead.
	SizeFallbacks []string `json:"size_fallbacks,omitempty"`
}

// ConfigText renders the manifest as loader configuration text, using the
// call set by WithConfigCall.
func (r *Result) ConfigText() (string, error) {
	return r.Manifest.ConfigText(r.configCall)
}

// AllBundles returns the bootstrap bundle, if any, followed by Bundles.
func (r *Result) AllBundles() []*bundle.Bundle {
	if r.Bootstrap == nil {
		return r.Bundles
	}
	return append([]*bundle.Bundle{r.Bootstrap}, r.Bundles...)
}
