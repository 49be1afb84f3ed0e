package bundle

import (
	"fmt"
	"slices"
)

// Flatten merges bundles until no entry point loads more than maxDepth of
// them. Entry points are processed in lexical order. For each one, the two
// lowest-value bundles it references are merged, repeatedly; on equal value
// the bundle positioned later in the collection goes first. The merged
// bundle takes the earlier position.
//
// A merge never raises another entry point's depth, so entry points already
// processed stay within the limit.
func Flatten(bundles *[]*Bundle, maxDepth int) error {
	if maxDepth <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDepth, maxDepth)
	}

	for _, entry := range entryPoints(*bundles) {
		for {
			refs := referencing(*bundles, entry)
			if len(refs) <= maxDepth {
				break
			}

			slices.SortStableFunc(refs, func(i, j int) int {
				vi, vj := (*bundles)[i].Value(), (*bundles)[j].Value()
				if vi != vj {
					return vi - vj
				}
				return j - i
			})
			keep, drop := min(refs[0], refs[1]), max(refs[0], refs[1])

			(*bundles)[keep].absorb((*bundles)[drop])
			*bundles = slices.Delete(*bundles, drop, drop+1)
		}
	}
	return nil
}

// referencing returns the positions of the bundles that entry loads.
func referencing(bundles []*Bundle, entry string) []int {
	var refs []int
	for i, b := range bundles {
		if b.Bundles.Has(entry) {
			refs = append(refs, i)
		}
	}
	return refs
}
