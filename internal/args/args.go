// Package args implements name binding over the formal parameters of a
// function or lambda: looking a parameter up by name, resolving its default
// and rendering the parameter list.
//
// Parameters are AssName nodes, or Tuple nodes for the unpacking form
// `def f(a, (b, c))`. Defaults are right aligned against the positional list.
package args

import (
	"fmt"
	"strings"

	"astroid/internal/ast"
	"astroid/internal/infer"
)

// FindArgname scans the positional parameters for name. Unpacking parameters
// are searched only when recursive is set; a match inside one reports the
// index of the enclosing top-level parameter, not its position inside the
// tuple. That index is the call-site position the name is bound from and the
// one the defaults window of DefaultValue is measured against. The not-found
// result is (-1, ast.NoNodeID), which is also what an opaque signature yields.
func FindArgname(t *ast.Tree, argsID ast.NodeID, name string, recursive bool) (int, ast.NodeID) {
	d, ok := t.ArgumentsOf(argsID)
	if !ok || d.Opaque {
		return -1, ast.NoNodeID
	}
	for i, arg := range d.Args {
		if found := findIn(t, arg, name, recursive); found.IsValid() {
			return i, found
		}
	}
	return -1, ast.NoNodeID
}

func findIn(t *ast.Tree, arg ast.NodeID, name string, recursive bool) ast.NodeID {
	if tup, ok := t.Tuple(arg); ok {
		if !recursive {
			return ast.NoNodeID
		}
		for _, e := range tup.Elts {
			if found := findIn(t, e, name, recursive); found.IsValid() {
				return found
			}
		}
		return ast.NoNodeID
	}
	if n, ok := t.NameOf(arg); ok && n == name {
		return arg
	}
	return ast.NoNodeID
}

// DefaultValue returns the default expression of the positional parameter
// name. It fails with infer.ErrNoDefault when the parameter is unknown or has
// no default; a parameter defaulting to None returns the None constant.
func DefaultValue(t *ast.Tree, argsID ast.NodeID, name string) (ast.NodeID, error) {
	i, _ := FindArgname(t, argsID, name, false)
	if i >= 0 {
		d, _ := t.ArgumentsOf(argsID)
		if idx := i - (len(d.Args) - len(d.Defaults)); idx >= 0 {
			return d.Defaults[idx], nil
		}
	}
	return ast.NoNodeID, fmt.Errorf("argument %q: %w", name, infer.ErrNoDefault)
}

// IsArgument reports whether name is the vararg, the kwarg or one of the
// top-level positional parameters.
func IsArgument(t *ast.Tree, argsID ast.NodeID, name string) bool {
	d, ok := t.ArgumentsOf(argsID)
	if !ok {
		return false
	}
	if name != "" && (name == t.Str(d.Vararg) || name == t.Str(d.Kwarg)) {
		return true
	}
	_, found := FindArgname(t, argsID, name, false)
	return found.IsValid()
}

// InferName returns name when the parameters bind it in frame, i.e. when the
// arguments node belongs to the function or lambda that frame is.
func InferName(t *ast.Tree, argsID, frame ast.NodeID, name string) (string, bool) {
	if t.Parent(argsID) != frame {
		return "", false
	}
	return name, true
}

// Renderer turns an expression into source text.
type Renderer func(t *ast.Tree, id ast.NodeID) string

// FormatArgs renders the parameter list as it would appear between the
// parentheses of a def.
func FormatArgs(t *ast.Tree, argsID ast.NodeID, render Renderer) string {
	d, ok := t.ArgumentsOf(argsID)
	if !ok {
		return ""
	}
	var parts []string
	if !d.Opaque {
		if s := formatList(t, d.Args, d.Defaults, render); s != "" {
			parts = append(parts, s)
		}
	}
	if v := t.Str(d.Vararg); v != "" {
		parts = append(parts, "*"+v)
	}
	if k := t.Str(d.Kwarg); k != "" {
		parts = append(parts, "**"+k)
	}
	return strings.Join(parts, ", ")
}

func formatList(t *ast.Tree, params, defaults []ast.NodeID, render Renderer) string {
	offset := len(params) - len(defaults)
	values := make([]string, 0, len(params))
	for i, p := range params {
		if tup, ok := t.Tuple(p); ok {
			values = append(values, "("+formatList(t, tup.Elts, nil, render)+")")
			continue
		}
		name, _ := t.NameOf(p)
		if i >= offset && len(defaults) > 0 {
			name += "=" + render(t, defaults[i-offset])
		}
		values = append(values, name)
	}
	return strings.Join(values, ", ")
}
