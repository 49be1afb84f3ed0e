package gobundle

import (
	"errors"
	"fmt"
	"strings"

	"github.com/albertocavalcante/go-bundle/graph"
)

// Sentinel errors. All errors returned by Build match one of these with
// errors.Is.
var (
	// ErrMissingDependency indicates a declared dependency has no module.
	// The concrete error is a *graph.MissingDependencyError.
	ErrMissingDependency = graph.ErrMissingDependency

	// ErrDuplicateModule indicates two modules share a name.
	ErrDuplicateModule = graph.ErrDuplicateModule

	// ErrModuleNotFound indicates the main module or a bundle root is unknown.
	ErrModuleNotFound = graph.ErrModuleNotFound

	// ErrInvalidConfiguration indicates an option or graph-file setting is
	// unusable, e.g. a non-positive bundle depth.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// ConfigError reports the setting that failed validation.
type ConfigError struct {
	Field   string // Option or attribute name (e.g., "bundle_depth")
	Message string // Human-readable error message
	Err     error  // Optional underlying cause
}

func (e *ConfigError) Error() string {
	var sb strings.Builder
	sb.WriteString("invalid configuration")
	if e.Field != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Field)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	return sb.String()
}

// Unwrap allows errors.Is(err, ErrInvalidConfiguration) as well as matching
// the underlying cause.
func (e *ConfigError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidConfiguration, e.Err}
	}
	return []error{ErrInvalidConfiguration}
}

// ParseError reports a graph-file problem with its position.
type ParseError struct {
	Filename string
	Line     int
	Message  string
	Wrapped  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Filename, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Filename, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Wrapped
}
