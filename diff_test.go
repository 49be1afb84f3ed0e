package gobundle

import (
	"context"
	"reflect"
	"testing"

	"github.com/albertocavalcante/go-bundle/manifest"
)

func TestDiffResults_NilInputs(t *testing.T) {
	tests := []struct {
		name string
		old  *Result
		new  *Result
	}{
		{"both nil", nil, nil},
		{"old nil", nil, &Result{}},
		{"new nil", &Result{}, nil},
		{"both empty", &Result{}, &Result{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diff := DiffResults(tt.old, tt.new)
			if diff == nil {
				t.Fatal("DiffResults returned nil")
			}
			if !diff.IsEmpty() {
				t.Errorf("expected empty diff, got %+v", diff)
			}
		})
	}
}

func TestDiffResults_Identical(t *testing.T) {
	ctx := context.Background()
	a, err := Build(ctx, appModules(), "app/main", allPages)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Build(ctx, appModules(), "app/main", allPages)
	if err != nil {
		t.Fatal(err)
	}

	diff := DiffResults(a, b)
	if !diff.IsEmpty() || len(diff.Moved) != 0 {
		t.Errorf("expected empty diff, got %+v", diff)
	}
	if diff.TotalChanges() != 0 {
		t.Errorf("TotalChanges() = %d, want 0", diff.TotalChanges())
	}
}

// Dropping the reports page folds util into the admin bundle.
func TestDiffResults_EntryRemoved(t *testing.T) {
	ctx := context.Background()
	old, err := Build(ctx, appModules(), "app/main", allPages)
	if err != nil {
		t.Fatal(err)
	}
	new, err := Build(ctx, appModules(), "app/main", WithBundles("app/admin"))
	if err != nil {
		t.Fatal(err)
	}

	diff := DiffResults(old, new)

	if len(diff.Added) != 0 {
		t.Errorf("Added = %+v, want none", diff.Added)
	}
	wantRemoved := []BundleChange{
		{File: "bundles/admin-reports.js", Modules: []string{"util"}},
		{File: "bundles/reports.js", Modules: []string{"app/reports"}},
	}
	if !reflect.DeepEqual(diff.Removed, wantRemoved) {
		t.Errorf("Removed = %+v, want %+v", diff.Removed, wantRemoved)
	}
	wantChanged := []BundleUpdate{{File: "bundles/admin.js", Added: []string{"util"}}}
	if !reflect.DeepEqual(diff.Changed, wantChanged) {
		t.Errorf("Changed = %+v, want %+v", diff.Changed, wantChanged)
	}
	wantMoved := []ModuleMove{{Module: "util", OldFile: "bundles/admin-reports.js", NewFile: "bundles/admin.js"}}
	if !reflect.DeepEqual(diff.Moved, wantMoved) {
		t.Errorf("Moved = %+v, want %+v", diff.Moved, wantMoved)
	}
	if diff.TotalChanges() != 3 {
		t.Errorf("TotalChanges() = %d, want 3", diff.TotalChanges())
	}
}

func TestDiffResults_BootstrapAdded(t *testing.T) {
	ctx := context.Background()
	old, err := Build(ctx, appModules(), "app/main")
	if err != nil {
		t.Fatal(err)
	}
	new, err := Build(ctx, appModules(), "app/main", WithConfigModule("package.json!npm"))
	if err != nil {
		t.Fatal(err)
	}

	diff := DiffResults(old, new)
	want := []BundleChange{{File: "bundles/bootstrap.js", Modules: []string{"package.json!npm"}}}
	if !reflect.DeepEqual(diff.Added, want) {
		t.Errorf("Added = %+v, want %+v", diff.Added, want)
	}
}

func TestDiffManifests(t *testing.T) {
	old := manifest.New()
	old.Bundles["bundles/shared"] = []string{"jquery", "can"}
	old.Bundles["bundles/main"] = []string{"app/main"}
	old.Bundles["bundles/admin"] = []string{"app/admin"}

	new := manifest.New()
	new.Bundles["bundles/shared"] = []string{"jquery", "can", "util"}
	new.Bundles["bundles/main"] = []string{"app/main"}
	new.Bundles["bundles/reports"] = []string{"app/reports"}

	diff := DiffManifests(old, new)

	if want := []BundleChange{{File: "bundles/reports", Modules: []string{"app/reports"}}}; !reflect.DeepEqual(diff.Added, want) {
		t.Errorf("Added = %+v, want %+v", diff.Added, want)
	}
	if want := []BundleChange{{File: "bundles/admin", Modules: []string{"app/admin"}}}; !reflect.DeepEqual(diff.Removed, want) {
		t.Errorf("Removed = %+v, want %+v", diff.Removed, want)
	}
	if want := []BundleUpdate{{File: "bundles/shared", Added: []string{"util"}}}; !reflect.DeepEqual(diff.Changed, want) {
		t.Errorf("Changed = %+v, want %+v", diff.Changed, want)
	}
	if len(diff.Moved) != 0 {
		t.Errorf("Moved = %+v, want none", diff.Moved)
	}
}

func TestDiffManifests_Nil(t *testing.T) {
	m := manifest.New()
	m.Bundles["bundles/main"] = []string{"app/main"}

	diff := DiffManifests(nil, m)
	if len(diff.Added) != 1 || diff.Added[0].File != "bundles/main" {
		t.Errorf("Added = %+v", diff.Added)
	}
	diff = DiffManifests(m, nil)
	if len(diff.Removed) != 1 {
		t.Errorf("Removed = %+v", diff.Removed)
	}
}
