package gobundle

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestExplain(t *testing.T) {
	result, err := Build(context.Background(), appModules(), "app/main",
		allPages, WithConfigModule("package.json!npm"), WithBundleSteal(true))
	if err != nil {
		t.Fatal(err)
	}

	e, err := Explain(result, "can")
	if err != nil {
		t.Fatalf("Explain() error = %v", err)
	}
	if e.File != "bundles/admin-main.js" || e.Bundle != "bundles/admin-main" {
		t.Errorf("File/Bundle = %q/%q", e.File, e.Bundle)
	}
	if !slices.Equal(e.Entries, []string{"app/admin", "app/main"}) {
		t.Errorf("Entries = %v", e.Entries)
	}
	if e.Size != 200 {
		t.Errorf("Size = %d, want 200", e.Size)
	}
	if !slices.Equal(e.Shared, []string{"jquery"}) {
		t.Errorf("Shared = %v, want [jquery]", e.Shared)
	}
	if e.Bootstrap {
		t.Error("can is not in the bootstrap bundle")
	}
	if out := e.String(); !strings.Contains(out, "bundles/admin-main.js") || !strings.Contains(out, "with:    jquery") {
		t.Errorf("String() = %q", out)
	}
}

func TestExplain_Bootstrap(t *testing.T) {
	result, err := Build(context.Background(), appModules(), "app/main",
		WithConfigModule("package.json!npm"), WithBundleSteal(true))
	if err != nil {
		t.Fatal(err)
	}

	e, err := Explain(result, "steal")
	if err != nil {
		t.Fatal(err)
	}
	if !e.Bootstrap || e.File != "bundles/bootstrap.js" {
		t.Errorf("Explanation = %+v", e)
	}
	if !strings.Contains(e.String(), "loaded first") {
		t.Errorf("String() = %q", e.String())
	}
}

func TestExplain_NotFound(t *testing.T) {
	result, err := Build(context.Background(), appModules(), "app/main")
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"orphan", "missing"} {
		if _, err := Explain(result, name); !errors.Is(err, ErrModuleNotFound) {
			t.Errorf("Explain(%q) error = %v, want ErrModuleNotFound", name, err)
		}
	}
	if _, err := Explain(nil, "can"); !errors.Is(err, ErrModuleNotFound) {
		t.Errorf("Explain(nil) error = %v", err)
	}
}
