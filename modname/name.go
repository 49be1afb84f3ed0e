// Package modname parses loader module identifiers and derives
// filesystem-safe names from them.
//
// Values are immutable and validated at construction time. The zero Name is
// invalid; use Parse or MustParse.
//
// # Identifier shapes
//
//   - plain path: "app/main"
//   - package-qualified: "jquery@3.7.1#dist/jquery"
//   - scoped package: "@scope/ui@1.0.0#button"
//   - with plugin: "theme/style.css!$css", "package.json!npm"
package modname

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

// Name is a parsed module identifier.
type Name struct {
	pkg     string
	version string
	path    string
	plugin  string
	raw     string
}

var versionRegex = regexp.MustCompile(`^[0-9A-Za-z][0-9A-Za-z.+~-]*$`)

// Parse parses a module identifier.
func Parse(s string) (Name, error) {
	if strings.TrimSpace(s) == "" {
		return Name{}, fmt.Errorf("module name cannot be empty")
	}
	n := Name{raw: s}

	rest := s
	if idx := strings.LastIndex(rest, "!"); idx != -1 {
		n.plugin = rest[idx+1:]
		rest = rest[:idx]
	}

	if idx := strings.Index(rest, "#"); idx != -1 {
		spec, p := rest[:idx], rest[idx+1:]
		if p == "" {
			return Name{}, fmt.Errorf("invalid module name %q: empty path after #", s)
		}
		n.path = p

		// A leading @ belongs to a scoped package, not a version.
		at := strings.LastIndex(spec, "@")
		if at > 0 {
			n.pkg, n.version = spec[:at], spec[at+1:]
			if !versionRegex.MatchString(n.version) {
				return Name{}, fmt.Errorf("invalid module name %q: bad version %q", s, n.version)
			}
		} else {
			n.pkg = spec
		}
		if n.pkg == "" {
			return Name{}, fmt.Errorf("invalid module name %q: empty package", s)
		}
	} else {
		n.path = rest
	}

	if n.path == "" {
		return Name{}, fmt.Errorf("invalid module name %q: empty path", s)
	}
	return n, nil
}

// MustParse parses s or panics. Use only for constants/tests.
func MustParse(s string) Name {
	n, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return n
}

// String returns the original identifier.
func (n Name) String() string { return n.raw }

// Package returns the package name, or "" for a plain path.
func (n Name) Package() string { return n.pkg }

// Version returns the package version, or "".
func (n Name) Version() string { return n.version }

// Path returns the module path inside its package.
func (n Name) Path() string { return n.path }

// Plugin returns the loader plugin after "!", or "".
func (n Name) Plugin() string { return n.plugin }

// IsEmpty returns true for the zero Name.
func (n Name) IsEmpty() bool { return n.raw == "" }

// Short returns the last path segment without its extension, sanitised.
// "jquery@3.7.1#dist/jquery" and "app/jquery.js" both give "jquery". A
// path that is just an index falls back to the package or parent
// directory.
func (n Name) Short() string {
	base := StripExtension(path.Base(n.path))
	if base == "index" {
		switch dir := path.Dir(n.path); {
		case dir != ".":
			base = path.Base(dir)
		case n.pkg != "":
			base = path.Base(n.pkg)
		}
	}
	return Sanitize(base)
}

// StripExtension drops a loader plugin suffix and a .js or .css extension.
func StripExtension(s string) string {
	if idx := strings.Index(s, "!"); idx != -1 {
		s = s[:idx]
	}
	for _, ext := range []string{".js", ".css", ".mjs"} {
		if strings.HasSuffix(s, ext) && len(s) > len(ext) {
			return strings.TrimSuffix(s, ext)
		}
	}
	return s
}

var unsafeRun = regexp.MustCompile(`[^a-z0-9._-]+`)

// Sanitize lowercases s and replaces every run of characters outside
// [a-z0-9._-] with a single underscore. Leading and trailing separators are
// trimmed; an empty result becomes "bundle".
func Sanitize(s string) string {
	s = unsafeRun.ReplaceAllString(strings.ToLower(s), "_")
	s = strings.Trim(s, "._-")
	if s == "" {
		return "bundle"
	}
	return s
}

// ShortOf parses s and returns its short name. Unparseable identifiers are
// sanitised whole.
func ShortOf(s string) string {
	n, err := Parse(s)
	if err != nil {
		return Sanitize(s)
	}
	return n.Short()
}
