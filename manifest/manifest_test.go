package manifest

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/albertocavalcante/go-bundle/bundle"
	"github.com/albertocavalcante/go-bundle/graph"
)

// makeBundle creates a bundle of standalone modules.
func makeBundle(t *testing.T, entries []string, modules ...string) *bundle.Bundle {
	t.Helper()
	mods := make([]*graph.Module, len(modules))
	for i, name := range modules {
		mods[i] = &graph.Module{Name: name, Source: "x"}
	}
	g, err := graph.New(mods)
	if err != nil {
		t.Fatal(err)
	}
	return bundle.New(g.Nodes(), graph.NewEntrySet(entries...))
}

func TestNamer_Name(t *testing.T) {
	tests := []struct {
		name    string
		entries []string
		want    string
	}{
		{"single entry", []string{"app1"}, "bundles/app1"},
		{"shared entries sorted", []string{"app2", "app1"}, "bundles/app1-app2"},
		{"entry paths shortened", []string{"app/main", "admin/index"}, "bundles/admin-main"},
		{"package identifiers", []string{"site@1.0.0#pages/home.js"}, "bundles/home"},
		{"no entries", nil, "bundles/shared"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := makeBundle(t, tt.entries, "m")
			if got := NewNamer().Name(b); got != tt.want {
				t.Errorf("Name() = %q, want %q", got, tt.want)
			}
			if b.Name != tt.want {
				t.Errorf("b.Name = %q, want %q", b.Name, tt.want)
			}
		})
	}
}

func TestNamer_Collisions(t *testing.T) {
	bundles := []*bundle.Bundle{
		makeBundle(t, []string{"one/main"}, "a"),
		makeBundle(t, []string{"two/main"}, "b"),
		makeBundle(t, []string{"three/main"}, "c"),
	}
	NameAll(bundles)

	var got []string
	for _, b := range bundles {
		got = append(got, b.Name)
	}
	want := []string{"bundles/main", "bundles/main-2", "bundles/main-3"}
	if !slices.Equal(got, want) {
		t.Errorf("names = %v, want %v", got, want)
	}
}

func TestNamer_BootstrapReserved(t *testing.T) {
	b := makeBundle(t, []string{"bootstrap"}, "a")
	if got := NewNamer().Name(b); got != BootstrapName+"-2" {
		t.Errorf("Name() = %q, want %q", got, BootstrapName+"-2")
	}
}

func TestNamer_SplitHalvesShareName(t *testing.T) {
	g, err := graph.New([]*graph.Module{
		{Name: "app1", Source: "js"},
		{Name: "theme.css", Source: "css"},
	})
	if err != nil {
		t.Fatal(err)
	}
	mixed := bundle.New(g.Nodes(), graph.NewEntrySet("app1"))
	halves := bundle.SplitByBuildType([]*bundle.Bundle{mixed})
	if len(halves) != 2 {
		t.Fatalf("expected 2 halves, got %d", len(halves))
	}

	NameAll(halves)

	if halves[0].Name != "bundles/app1" || halves[1].Name != "bundles/app1" {
		t.Errorf("halves named %q and %q", halves[0].Name, halves[1].Name)
	}
	if halves[0].FileName() == halves[1].FileName() {
		t.Errorf("file names collide: %q", halves[0].FileName())
	}
}

func TestNamer_LongNames(t *testing.T) {
	long := func(suffix string) []string {
		return []string{
			"dashboard_overview", "settings_account", "reports_quarterly",
			"inventory_manager", "customer_portal" + suffix,
		}
	}
	a := makeBundle(t, long("a"), "x")
	b := makeBundle(t, long("b"), "y")
	NameAll([]*bundle.Bundle{a, b})

	suffix := regexp.MustCompile(`-[0-9a-f]{8}$`)
	for _, name := range []string{a.Name, b.Name} {
		if len(name) > MaxNameLength {
			t.Errorf("%q is %d chars, max %d", name, len(name), MaxNameLength)
		}
		if !strings.HasPrefix(name, Prefix) || !suffix.MatchString(name) {
			t.Errorf("%q should keep the prefix and end in a hash", name)
		}
	}
	if a.Name == b.Name {
		t.Errorf("distinct entry sets produced the same name %q", a.Name)
	}
}

func TestNamer_Deterministic(t *testing.T) {
	names := func() []string {
		bundles := []*bundle.Bundle{
			makeBundle(t, []string{"app1", "app2"}, "a"),
			makeBundle(t, []string{"app1"}, "b"),
			makeBundle(t, []string{"app2"}, "c"),
		}
		NameAll(bundles)
		var out []string
		for _, b := range bundles {
			out = append(out, b.Name)
		}
		return out
	}
	first := names()
	if got := names(); !slices.Equal(got, first) {
		t.Errorf("names changed between runs: %v vs %v", first, got)
	}
}

func createNamedBundles(t *testing.T) []*bundle.Bundle {
	t.Helper()
	g, err := graph.New([]*graph.Module{
		{Name: "jquery", Source: "jq"},
		{Name: "app1", Dependencies: []string{"jquery", "app1.css"}, Source: "a1"},
		{Name: "app1.css", Source: "c"},
		{Name: "app2", Dependencies: []string{"jquery"}, Source: "a2"},
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range []string{"app1", "app2"} {
		if err := g.MarkBundle(entry); err != nil {
			t.Fatal(err)
		}
		if err := g.AssignOrder(entry); err != nil {
			t.Fatal(err)
		}
	}
	bundles := bundle.SplitByBuildType(bundle.Extract(g))
	NameAll(bundles)
	return bundles
}

func TestBuild(t *testing.T) {
	bundles := createNamedBundles(t)
	m := Build(bundles, Options{Main: "app1", BaseURL: "/"})

	if m.Version != CurrentVersion {
		t.Errorf("Version = %d, want %d", m.Version, CurrentVersion)
	}
	if len(m.Paths) != 0 {
		t.Errorf("default location should not remap paths: %v", m.Paths)
	}

	wantBundles := map[string][]string{
		"bundles/app1-app2": {"jquery"},
		"bundles/app1":      {"app1"},
		"bundles/app2":      {"app2"},
	}
	if len(m.Bundles) != len(wantBundles) {
		t.Errorf("Bundles = %v", m.Bundles)
	}
	for name, modules := range wantBundles {
		if !slices.Equal(m.Bundles[name], modules) {
			t.Errorf("Bundles[%q] = %v, want %v", name, m.Bundles[name], modules)
		}
	}

	wantApp1 := []string{"bundles/app1-app2.js", "bundles/app1.js", "bundles/app1.css"}
	if got := m.Entries["app1"]; !slices.Equal(got, wantApp1) {
		t.Errorf("Entries[app1] = %v, want %v", got, wantApp1)
	}
	wantApp2 := []string{"bundles/app1-app2.js", "bundles/app2.js"}
	if got := m.Entries["app2"]; !slices.Equal(got, wantApp2) {
		t.Errorf("Entries[app2] = %v, want %v", got, wantApp2)
	}
}

func TestBuild_Bootstrap(t *testing.T) {
	bundles := createNamedBundles(t)
	boot := makeBundle(t, []string{"app1", "app2"}, "steal", "package.json!npm")
	boot.Name = BootstrapName
	boot.BuildType = graph.BuildTypeJS

	m := Build(bundles, Options{Main: "app1", Bootstrap: boot})

	if m.Bootstrap != "bundles/bootstrap.js" {
		t.Errorf("Bootstrap = %q", m.Bootstrap)
	}
	if _, ok := m.Bundles[BootstrapName]; ok {
		t.Error("bootstrap bundle should not be listed with the shared bundles")
	}
	wantApp1 := []string{"bundles/bootstrap.js", "bundles/app1-app2.js", "bundles/app1.js", "bundles/app1.css"}
	if got := m.LoadOrder("app1"); !slices.Equal(got, wantApp1) {
		t.Errorf("LoadOrder(app1) = %v, want %v", got, wantApp1)
	}
	wantApp2 := []string{"bundles/bootstrap.js", "bundles/app1-app2.js", "bundles/app2.js"}
	if got := m.LoadOrder("app2"); !slices.Equal(got, wantApp2) {
		t.Errorf("LoadOrder(app2) = %v, want %v", got, wantApp2)
	}
	if got := m.Entries["app2"]; !slices.Equal(got, wantApp2) {
		t.Errorf("Entries[app2] = %v, want bootstrap first", got)
	}

	got := m.LoadOrder("app1")
	got[0] = "changed"
	if m.Entries["app1"][0] != "bundles/bootstrap.js" {
		t.Error("LoadOrder must return a copy")
	}
}

func TestPathsFor(t *testing.T) {
	tests := []struct {
		path string
		want map[string]string
	}{
		{"", map[string]string{}},
		{"bundles", map[string]string{}},
		{"bundles/", map[string]string{}},
		{"dist/bundles/", map[string]string{
			"bundles/*":     "dist/bundles/*.js",
			"bundles/*.css": "dist/bundles/*css",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := PathsFor(tt.path)
			if len(got) != len(tt.want) {
				t.Fatalf("PathsFor(%q) = %v, want %v", tt.path, got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("PathsFor(%q)[%q] = %q, want %q", tt.path, k, got[k], v)
				}
			}
		})
	}
}

func TestConfigText(t *testing.T) {
	m := New()
	m.Bundles["bundles/app1"] = []string{"jquery", "app1"}

	got, err := m.ConfigText("")
	if err != nil {
		t.Fatal(err)
	}
	want := `steal.config({"bundles":{"bundles/app1":["jquery","app1"]}});` + "\n"
	if got != want {
		t.Errorf("ConfigText() = %q, want %q", got, want)
	}

	m.Paths = PathsFor("dist/bundles")
	got, err = m.ConfigText("System.config")
	if err != nil {
		t.Fatal(err)
	}
	want = `System.config({"paths":{"bundles/*":"dist/bundles/*.js","bundles/*.css":"dist/bundles/*css"},` +
		`"bundles":{"bundles/app1":["jquery","app1"]}});` + "\n"
	if got != want {
		t.Errorf("ConfigText() = %q, want %q", got, want)
	}
}

func TestMarshal_Deterministic(t *testing.T) {
	first, err := Build(createNamedBundles(t), Options{Main: "app1"}).Marshal()
	if err != nil {
		t.Fatal(err)
	}
	for range 5 {
		again, err := Build(createNamedBundles(t), Options{Main: "app1"}).Marshal()
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("Marshal() not deterministic:\n%s\nvs\n%s", first, again)
		}
	}
}

func TestMarshal_NilMaps(t *testing.T) {
	data, err := (&Manifest{}).Marshal()
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"version": 1`, `"paths": {}`, `"bundles": {}`, `"entries": {}`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("Marshal() missing %s:\n%s", want, data)
		}
	}
}

func TestWriteReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundles.json")
	m := Build(createNamedBundles(t), Options{Main: "app1", BundlesPath: "dist/bundles"})

	if Exists(path) {
		t.Fatal("manifest should not exist yet")
	}
	if err := m.WriteFile(path); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if !Exists(path) {
		t.Fatal("manifest should exist after WriteFile")
	}

	read, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if read.Main != "app1" || len(read.Paths) != 2 {
		t.Errorf("read manifest = %+v", read)
	}
	if !slices.Equal(read.Entries["app2"], m.Entries["app2"]) {
		t.Errorf("Entries[app2] = %v, want %v", read.Entries["app2"], m.Entries["app2"])
	}

	var buf bytes.Buffer
	if _, err := read.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	original, _ := os.ReadFile(path)
	if !bytes.Equal(buf.Bytes(), original) {
		t.Error("re-serialized manifest differs from the file")
	}
}

func TestParse_Errors(t *testing.T) {
	if _, err := Parse([]byte("{not json")); err == nil {
		t.Error("expected error for malformed JSON")
	}
	if _, err := Parse([]byte(`{"version": 99}`)); err == nil {
		t.Error("expected error for unsupported version")
	}
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParse_Defaults(t *testing.T) {
	m, err := Parse([]byte(`{}`))
	if err != nil {
		t.Fatal(err)
	}
	if m.Version != CurrentVersion || m.Paths == nil || m.Bundles == nil || m.Entries == nil {
		t.Errorf("Parse({}) = %+v", m)
	}
}

func TestMarshalIndent(t *testing.T) {
	data, err := New().MarshalIndent("", "\t")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "\n\t\"version\": 1") {
		t.Errorf("MarshalIndent() = %s", data)
	}
}
