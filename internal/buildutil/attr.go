// Package buildutil extracts and checks keyword attributes of buildtools
// call expressions, e.g. module(name = "a", deps = ["b"]).
package buildutil

import (
	"fmt"
	"strconv"

	"github.com/bazelbuild/buildtools/build"
)

// Kind is the expected type of an attribute value.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindBool
	KindStringList
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindStringList:
		return "list of strings"
	default:
		return "unknown"
	}
}

// Schema maps attribute names to their kinds.
type Schema map[string]Kind

// Attr returns the value expression of a keyword attribute, or nil.
func Attr(call *build.CallExpr, name string) build.Expr {
	for _, arg := range call.List {
		assign, ok := arg.(*build.AssignExpr)
		if !ok {
			continue
		}
		if lhs, ok := assign.LHS.(*build.Ident); ok && lhs.Name == name {
			return assign.RHS
		}
	}
	return nil
}

// Has reports whether the keyword attribute is set.
func Has(call *build.CallExpr, name string) bool {
	return Attr(call, name) != nil
}

// String extracts a string attribute. Returns "" if missing or not a string.
func String(call *build.CallExpr, name string) string {
	if str, ok := Attr(call, name).(*build.StringExpr); ok {
		return str.Value
	}
	return ""
}

// Int extracts an integer attribute. Returns 0 if missing or not an integer.
// Negative literals are accepted.
func Int(call *build.CallExpr, name string) int {
	val, _ := intValue(Attr(call, name))
	return val
}

// Bool extracts a boolean attribute. Returns false if missing.
func Bool(call *build.CallExpr, name string) bool {
	if ident, ok := Attr(call, name).(*build.Ident); ok {
		return ident.Name == "True"
	}
	return false
}

// StringList extracts a list of strings. Returns nil if missing or not a list;
// non-string elements are skipped.
func StringList(call *build.CallExpr, name string) []string {
	list, ok := Attr(call, name).(*build.ListExpr)
	if !ok {
		return nil
	}
	result := make([]string, 0, len(list.List))
	for _, elem := range list.List {
		if str, ok := elem.(*build.StringExpr); ok {
			result = append(result, str.Value)
		}
	}
	return result
}

// FuncName returns the function name from a CallExpr, or "" for method
// calls such as foo.bar().
func FuncName(call *build.CallExpr) string {
	if ident, ok := call.X.(*build.Ident); ok {
		return ident.Name
	}
	return ""
}

// Line returns the 1-based line the call starts on.
func Line(call *build.CallExpr) int {
	start, _ := call.Span()
	return start.Line
}

// Check verifies that every argument is a keyword attribute named in the
// schema and holding a value of the declared kind.
func Check(call *build.CallExpr, schema Schema) error {
	fn := FuncName(call)
	for _, arg := range call.List {
		assign, ok := arg.(*build.AssignExpr)
		if !ok {
			return fmt.Errorf("line %d: %s() takes keyword arguments only", Line(call), fn)
		}
		lhs, ok := assign.LHS.(*build.Ident)
		if !ok {
			return fmt.Errorf("line %d: %s(): invalid argument", Line(call), fn)
		}
		kind, known := schema[lhs.Name]
		if !known {
			return fmt.Errorf("line %d: %s(): unknown attribute %q", Line(call), fn, lhs.Name)
		}
		if !matches(assign.RHS, kind) {
			return fmt.Errorf("line %d: %s(): attribute %q must be a %s", Line(call), fn, lhs.Name, kind)
		}
	}
	return nil
}

func matches(expr build.Expr, kind Kind) bool {
	switch kind {
	case KindString:
		_, ok := expr.(*build.StringExpr)
		return ok
	case KindInt:
		_, ok := intValue(expr)
		return ok
	case KindBool:
		ident, ok := expr.(*build.Ident)
		return ok && (ident.Name == "True" || ident.Name == "False")
	case KindStringList:
		list, ok := expr.(*build.ListExpr)
		if !ok {
			return false
		}
		for _, elem := range list.List {
			if _, ok := elem.(*build.StringExpr); !ok {
				return false
			}
		}
		return true
	}
	return false
}

func intValue(expr build.Expr) (int, bool) {
	switch e := expr.(type) {
	case *build.LiteralExpr:
		val, err := strconv.Atoi(e.Token)
		return val, err == nil
	case *build.UnaryExpr:
		if e.Op != "-" {
			return 0, false
		}
		val, ok := intValue(e.X)
		return -val, ok
	}
	return 0, false
}
