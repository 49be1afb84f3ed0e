package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/albertocavalcante/go-bundle/bundle"
	"github.com/albertocavalcante/go-bundle/graph"
	"github.com/albertocavalcante/go-bundle/modname"
)

const (
	// Prefix is the default location of bundle names.
	Prefix = "bundles/"

	// MaxNameLength bounds a generated name, prefix included.
	MaxNameLength = 64

	hashLength = 8

	// BootstrapName is reserved for the bootstrap bundle.
	BootstrapName = Prefix + "bootstrap"
)

// Namer assigns unique, deterministic, filesystem-safe names. The same
// input collection always yields the same names.
type Namer struct {
	used map[string]bool
	last *bundle.Bundle
}

// NewNamer returns a Namer with BootstrapName reserved.
func NewNamer() *Namer {
	return &Namer{used: map[string]bool{BootstrapName: true}}
}

// NameAll names every bundle in collection order.
func NameAll(bundles []*bundle.Bundle) {
	n := NewNamer()
	for _, b := range bundles {
		n.Name(b)
	}
}

// Name sets and returns b.Name. The stylesheet half following its script
// half (same entry set, other build type) shares the script half's name;
// the physical file names still differ by extension.
func (n *Namer) Name(b *bundle.Bundle) string {
	if n.isOtherHalf(b) {
		b.Name = n.last.Name
		n.last = nil
		return b.Name
	}

	base := baseName(b.Bundles)
	name := base
	for i := 2; n.used[name]; i++ {
		name = base + "-" + strconv.Itoa(i)
	}
	n.used[name] = true
	b.Name = name
	n.last = b
	return name
}

func (n *Namer) isOtherHalf(b *bundle.Bundle) bool {
	return n.last != nil &&
		b.BuildType != "" && n.last.BuildType != "" &&
		b.BuildType != n.last.BuildType &&
		b.Bundles.Equal(n.last.Bundles)
}

// baseName joins the short names of the entry points, e.g. "bundles/app1-app2".
// Names over MaxNameLength are cut and suffixed with a content hash of the
// full entry set.
func baseName(entries graph.EntrySet) string {
	sorted := entries.Sorted()
	if len(sorted) == 0 {
		return Prefix + "shared"
	}

	parts := make([]string, len(sorted))
	for i, e := range sorted {
		parts[i] = modname.ShortOf(e)
	}
	name := Prefix + strings.Join(parts, "-")
	if len(name) <= MaxNameLength {
		return name
	}

	sum := sha256.Sum256([]byte(entries.Key()))
	suffix := "-" + hex.EncodeToString(sum[:])[:hashLength]
	cut := strings.TrimRight(name[:MaxNameLength-len(suffix)], "-._")
	return cut + suffix
}
