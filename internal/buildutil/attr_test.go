package buildutil

import (
	"slices"
	"strings"
	"testing"

	"github.com/bazelbuild/buildtools/build"
)

func parseCall(t *testing.T, content string) *build.CallExpr {
	t.Helper()
	f, err := build.ParseDefault("graph.bzl", []byte(content))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(f.Stmt) == 0 {
		t.Fatal("no statements parsed")
	}
	call, ok := f.Stmt[0].(*build.CallExpr)
	if !ok {
		t.Fatalf("expected CallExpr, got %T", f.Stmt[0])
	}
	return call
}

func TestString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"named string attribute", `module(name = "app/main")`, "app/main"},
		{"missing attribute", `module(src = "a.js")`, ""},
		{"non-string attribute", `module(name = 123)`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := String(parseCall(t, tt.input), "name"); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInt(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"positive", `bundle_config(bundle_depth = 3)`, 3},
		{"negative", `bundle_config(bundle_depth = -2)`, -2},
		{"missing", `bundle_config()`, 0},
		{"string value", `bundle_config(bundle_depth = "3")`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Int(parseCall(t, tt.input), "bundle_depth"); got != tt.want {
				t.Errorf("Int() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBool(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{`bundle_config(minify = True)`, true},
		{`bundle_config(minify = False)`, false},
		{`bundle_config()`, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Bool(parseCall(t, tt.input), "minify"); got != tt.want {
				t.Errorf("Bool() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStringList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"list", `module(deps = ["a", "b"])`, []string{"a", "b"}},
		{"empty list", `module(deps = [])`, []string{}},
		{"skips non-strings", `module(deps = ["a", 1, "b"])`, []string{"a", "b"}},
		{"not a list", `module(deps = "a")`, nil},
		{"missing", `module()`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StringList(parseCall(t, tt.input), "deps")
			if (got == nil) != (tt.want == nil) || !slices.Equal(got, tt.want) {
				t.Errorf("StringList() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestHas(t *testing.T) {
	call := parseCall(t, `module(name = "a", deps = [])`)
	if !Has(call, "deps") {
		t.Error("Has(deps) = false")
	}
	if Has(call, "source") {
		t.Error("Has(source) = true")
	}
}

func TestFuncNameAndLine(t *testing.T) {
	call := parseCall(t, "\n\nmodule(name = \"a\")")
	if got := FuncName(call); got != "module" {
		t.Errorf("FuncName() = %q", got)
	}
	if got := Line(call); got != 3 {
		t.Errorf("Line() = %d, want 3", got)
	}

	method := parseCall(t, `native.module(name = "a")`)
	if got := FuncName(method); got != "" {
		t.Errorf("FuncName(method call) = %q, want empty", got)
	}
}

func TestCheck(t *testing.T) {
	schema := Schema{
		"name":   KindString,
		"deps":   KindStringList,
		"depth":  KindInt,
		"minify": KindBool,
	}

	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"valid", `module(name = "a", deps = ["b"], depth = -1, minify = False)`, ""},
		{"no arguments", `module()`, ""},
		{"positional", `module("a")`, "keyword arguments only"},
		{"unknown attribute", `module(nmae = "a")`, `unknown attribute "nmae"`},
		{"wrong string", `module(name = 1)`, `"name" must be a string`},
		{"wrong list", `module(deps = "b")`, `"deps" must be a list of strings`},
		{"list with non-string", `module(deps = ["b", 2])`, "list of strings"},
		{"wrong int", `module(depth = "3")`, `"depth" must be a int`},
		{"wrong bool", `module(minify = None)`, `"minify" must be a bool`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(parseCall(t, tt.input), schema)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Check() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Check() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	if KindStringList.String() != "list of strings" || Kind(99).String() != "unknown" {
		t.Errorf("unexpected Kind names")
	}
}
