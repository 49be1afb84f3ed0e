package gobundle

import (
	"slices"
	"sort"

	"github.com/albertocavalcante/go-bundle/manifest"
)

// BundleChange represents an added or removed bundle in a build diff.
type BundleChange struct {
	// File is the bundle file name (or bundle name when diffing manifests).
	File string `json:"file"`

	// Modules are the bundle's modules.
	Modules []string `json:"modules"`
}

// BundleUpdate represents a bundle present in both builds with different
// membership.
type BundleUpdate struct {
	File    string   `json:"file"`
	Added   []string `json:"added,omitempty"`
	Removed []string `json:"removed,omitempty"`
}

// ModuleMove represents a module that ended up in a different bundle.
type ModuleMove struct {
	Module  string `json:"module"`
	OldFile string `json:"old_file"`
	NewFile string `json:"new_file"`
}

// ResultDiff describes the differences between two builds.
//
// Bundles whose membership changed must be re-fetched by clients, so the
// diff is a direct measure of cache invalidation:
//
//	oldResult, _ := Build(ctx, oldModules, "app/main")
//	newResult, _ := Build(ctx, newModules, "app/main")
//	diff := DiffResults(oldResult, newResult)
//
//	if !diff.IsEmpty() {
//	    fmt.Printf("%d bundles invalidated\n", diff.TotalChanges())
//	}
type ResultDiff struct {
	// Added contains bundles present in new but not in old.
	Added []BundleChange `json:"added,omitempty"`

	// Removed contains bundles present in old but not in new.
	Removed []BundleChange `json:"removed,omitempty"`

	// Changed contains bundles present in both with different modules.
	Changed []BundleUpdate `json:"changed,omitempty"`

	// Moved contains modules present in both builds under different bundles.
	Moved []ModuleMove `json:"moved,omitempty"`
}

// IsEmpty returns true if both builds produced the same bundles.
func (d *ResultDiff) IsEmpty() bool {
	return len(d.Added) == 0 &&
		len(d.Removed) == 0 &&
		len(d.Changed) == 0
}

// TotalChanges returns the number of bundle files that differ
// (added + removed + changed). Moves are a consequence of those.
func (d *ResultDiff) TotalChanges() int {
	return len(d.Added) + len(d.Removed) + len(d.Changed)
}

// DiffResults computes the difference between two builds, bootstrap bundles
// included. A nil result is treated as empty. Results are sorted by file
// name, moves by module name.
func DiffResults(old, new *Result) *ResultDiff {
	return diffMembership(resultMembership(old), resultMembership(new))
}

// DiffManifests computes the difference between two manifests. Only script
// bundles are listed in a manifest, so stylesheet changes are not seen.
func DiffManifests(old, new *manifest.Manifest) *ResultDiff {
	var oldBundles, newBundles map[string][]string
	if old != nil {
		oldBundles = old.Bundles
	}
	if new != nil {
		newBundles = new.Bundles
	}
	return diffMembership(oldBundles, newBundles)
}

func resultMembership(r *Result) map[string][]string {
	files := make(map[string][]string)
	if r == nil {
		return files
	}
	for _, b := range r.AllBundles() {
		files[b.FileName()] = b.ModuleNames()
	}
	return files
}

func diffMembership(oldFiles, newFiles map[string][]string) *ResultDiff {
	diff := &ResultDiff{}

	for file, modules := range newFiles {
		oldModules, existedBefore := oldFiles[file]
		if !existedBefore {
			diff.Added = append(diff.Added, BundleChange{File: file, Modules: modules})
			continue
		}
		added, removed := setDifference(modules, oldModules), setDifference(oldModules, modules)
		if len(added) > 0 || len(removed) > 0 {
			diff.Changed = append(diff.Changed, BundleUpdate{File: file, Added: added, Removed: removed})
		}
	}

	for file, modules := range oldFiles {
		if _, existsNow := newFiles[file]; !existsNow {
			diff.Removed = append(diff.Removed, BundleChange{File: file, Modules: modules})
		}
	}

	oldHome := homes(oldFiles)
	for module, newFile := range homes(newFiles) {
		if oldFile, ok := oldHome[module]; ok && oldFile != newFile {
			diff.Moved = append(diff.Moved, ModuleMove{Module: module, OldFile: oldFile, NewFile: newFile})
		}
	}

	// Sort results for consistent output
	sortBundleChanges(diff.Added)
	sortBundleChanges(diff.Removed)
	sort.Slice(diff.Changed, func(i, j int) bool {
		return diff.Changed[i].File < diff.Changed[j].File
	})
	sort.Slice(diff.Moved, func(i, j int) bool {
		return diff.Moved[i].Module < diff.Moved[j].Module
	})

	return diff
}

// homes maps each module to the file holding it.
func homes(files map[string][]string) map[string]string {
	out := make(map[string]string)
	for file, modules := range files {
		for _, m := range modules {
			out[m] = file
		}
	}
	return out
}

// setDifference returns the elements of a not in b, sorted.
func setDifference(a, b []string) []string {
	var out []string
	for _, s := range a {
		if !slices.Contains(b, s) {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

// sortBundleChanges sorts a slice of BundleChange by file.
func sortBundleChanges(changes []BundleChange) {
	sort.Slice(changes, func(i, j int) bool {
		return changes[i].File < changes[j].File
	})
}
