// Package imports resolves the names bound by import statements and loads the
// modules they refer to.
package imports

import (
	"fmt"
	"strings"

	"astroid/internal/ast"
	"astroid/internal/infer"
)

func importNames(t *ast.Tree, id ast.NodeID) ([]ast.ImportName, int, bool) {
	if d, ok := t.Import(id); ok {
		return d.Names, 0, true
	}
	if d, ok := t.From(id); ok {
		return d.Names, d.Level, true
	}
	return nil, 0, false
}

// RealName maps a name bound by an Import/From statement back to the imported
// name: `import a.b` binds "a", `from m import x as y` binds "y" for "x".
// A `*` entry answers with asname itself.
func RealName(t *ast.Tree, id ast.NodeID, asname string) (string, error) {
	names, _, ok := importNames(t, id)
	if !ok {
		return "", fmt.Errorf("%s is not an import: %w", t.Kind(id), infer.ErrInvalidOperation)
	}
	for _, n := range names {
		if n.Name == "*" {
			return asname, nil
		}
		name, bound := n.Name, n.AsName
		if bound == "" {
			name, _, _ = strings.Cut(name, ".")
			bound = name
		}
		if bound == asname {
			return name, nil
		}
	}
	return "", fmt.Errorf("%q: %w", asname, infer.ErrNotFound)
}

// InferName is the name an Import, From or Global statement binds for name:
// the name itself.
func InferName(t *ast.Tree, id ast.NodeID, name string) (string, bool) {
	switch t.Kind(id) {
	case ast.KindImport, ast.KindFrom, ast.KindGlobal:
		return name, true
	}
	return "", false
}

// AbsoluteName resolves modname as written in module importer (a package when
// pkg is set) with the given number of leading dots. Level 0 is an absolute import.
func AbsoluteName(importer string, pkg bool, modname string, level int) string {
	if level == 0 {
		return modname
	}
	if pkg {
		level--
	}
	base := importer
	for i := 0; i < level; i++ {
		idx := strings.LastIndexByte(base, '.')
		if idx < 0 {
			base = ""
			break
		}
		base = base[:idx]
	}
	switch {
	case base == "":
		return modname
	case modname == "":
		return base
	}
	return base + "." + modname
}
