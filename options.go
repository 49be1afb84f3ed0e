package gobundle

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/albertocavalcante/go-bundle/bundle"
	"github.com/albertocavalcante/go-bundle/manifest"
	"github.com/albertocavalcante/go-bundle/minify"
)

// DefaultRuntimeModule is the loader runtime plucked into the bootstrap
// bundle when WithBundleSteal is enabled.
const DefaultRuntimeModule = "steal"

// Option configures a build.
type Option func(*buildConfig) error

// buildConfig holds all build configuration.
type buildConfig struct {
	minify        bool
	bundleSteal   bool
	bundleDepth   int
	bundles       []string
	bundlesPath   string
	baseURL       string
	configModule  string
	runtimeModule string
	configCall    string
	ignore        func(name string) bool
	sizer         minify.Sizer

	// logger is the structured logger for debug/info output.
	// If nil, logging is disabled (silent mode).
	logger *slog.Logger
}

// DefaultOptions returns the options Build uses when none are given.
func DefaultOptions() []Option {
	return []Option{
		WithBundleDepth(bundle.DefaultDepth),
		WithBundlesPath(manifest.DefaultBundlesPath),
		WithRuntimeModule(DefaultRuntimeModule),
	}
}

// WithMinify values modules by their minified size instead of raw size.
func WithMinify(enabled bool) Option {
	return func(c *buildConfig) error {
		c.minify = enabled
		return nil
	}
}

// WithBundleSteal plucks the loader runtime into the bootstrap bundle.
func WithBundleSteal(enabled bool) Option {
	return func(c *buildConfig) error {
		c.bundleSteal = enabled
		return nil
	}
}

// WithBundleDepth sets the maximum number of bundles an entry point may load.
func WithBundleDepth(depth int) Option {
	return func(c *buildConfig) error {
		c.bundleDepth = depth
		return nil
	}
}

// WithBundles sets the entry points besides the main module. A later
// WithBundles replaces the list set by an earlier one.
func WithBundles(names ...string) Option {
	return func(c *buildConfig) error {
		c.bundles = slices.Clone(names)
		return nil
	}
}

// WithBundlesPath sets where bundle files are served from. Anything other
// than "bundles" adds path remapping to the manifest.
func WithBundlesPath(path string) Option {
	return func(c *buildConfig) error {
		c.bundlesPath = path
		return nil
	}
}

// WithBaseURL records the loader base URL in the manifest.
func WithBaseURL(url string) Option {
	return func(c *buildConfig) error {
		c.baseURL = url
		return nil
	}
}

// WithConfigModule names the loader configuration module. It is plucked,
// with its dependencies, into the bootstrap bundle.
func WithConfigModule(name string) Option {
	return func(c *buildConfig) error {
		c.configModule = name
		return nil
	}
}

// WithRuntimeModule names the loader runtime module.
func WithRuntimeModule(name string) Option {
	return func(c *buildConfig) error {
		c.runtimeModule = name
		return nil
	}
}

// WithConfigCall sets the loader function used by Result.ConfigText.
func WithConfigCall(call string) Option {
	return func(c *buildConfig) error {
		c.configCall = call
		return nil
	}
}

// WithIgnore drops modules for which fn returns true before the graph is
// built, together with every dependency edge pointing at them.
func WithIgnore(fn func(name string) bool) Option {
	return func(c *buildConfig) error {
		c.ignore = fn
		return nil
	}
}

// WithSizer overrides how module sizes are measured. It takes precedence
// over WithMinify.
func WithSizer(s minify.Sizer) Option {
	return func(c *buildConfig) error {
		c.sizer = s
		return nil
	}
}

// WithLogger sets a structured logger for build diagnostics.
// If not set, logging is disabled (silent mode).
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil)).With("component", "bundler")
//	Build(ctx, modules, "app/main", WithLogger(logger))
func WithLogger(l *slog.Logger) Option {
	return func(c *buildConfig) error {
		c.logger = l
		return nil
	}
}

// validate checks the configuration for logical consistency.
func (c *buildConfig) validate() error {
	if c.bundleDepth <= 0 {
		return &ConfigError{
			Field:   "bundle_depth",
			Message: fmt.Sprintf("must be positive, got %d", c.bundleDepth),
			Err:     bundle.ErrInvalidDepth,
		}
	}
	if c.bundleSteal && c.runtimeModule == "" {
		return &ConfigError{Field: "bundle_steal", Message: "requires a runtime module"}
	}
	if slices.Contains(c.bundles, "") {
		return &ConfigError{Field: "bundles", Message: "bundle names cannot be empty"}
	}
	if slices.Contains(strings.Split(c.bundlesPath, "/"), "..") {
		return &ConfigError{Field: "bundles_path", Message: fmt.Sprintf("%q must not contain ..", c.bundlesPath)}
	}
	return nil
}

// log returns the configured logger, or a no-op logger if none was set.
func (c *buildConfig) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.New(discardHandler{})
}

// discardHandler is a slog.Handler that discards all log records.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

// newBuildConfig applies DefaultOptions, then opts, and validates the result.
func newBuildConfig(opts ...Option) (*buildConfig, error) {
	c := &buildConfig{}

	for _, opt := range slices.Concat(DefaultOptions(), opts) {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// sharedMinifier caches minified sizes across builds in this process.
var sharedMinifier = sync.OnceValues(func() (minify.Sizer, error) {
	return minify.NewCachedSizer(minify.NewEsbuildSizer(), minify.DefaultCacheSize)
})

// sizerFor picks the configured sizer: explicit, minifying, or raw.
func (c *buildConfig) sizerFor() (minify.Sizer, error) {
	switch {
	case c.sizer != nil:
		return c.sizer, nil
	case c.minify:
		return sharedMinifier()
	default:
		return minify.RawSizer{}, nil
	}
}
