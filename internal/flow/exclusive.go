package flow

import "astroid/internal/ast"

// AreExclusive reports whether stmt1 and stmt2 can never both run on one path.
//
// The lowest common ancestor decides: branches of an if are exclusive, and so
// are a try body and a handler catching one of exceptions, two different
// handlers, or a handler and the else clause. A nil exceptions list ignores
// if statements and lets every handler match; any other ancestor kind means
// the statements are not exclusive. Statements in unrelated subtrees, or one
// nested in the other, are never exclusive.
func AreExclusive(t *ast.Tree, stmt1, stmt2 ast.NodeID, exceptions []string) bool {
	// parent -> child on the path down to stmt1
	onPath := make(map[ast.NodeID]ast.NodeID)
	prev := stmt1
	for n := t.Parent(stmt1); n.IsValid(); n = t.Parent(n) {
		onPath[n] = prev
		prev = n
	}

	prev = stmt2
	for n := t.Parent(stmt2); n.IsValid(); n = t.Parent(n) {
		if c1, ok := onPath[n]; ok {
			return exclusiveAt(t, n, c1, prev, exceptions)
		}
		prev = n
	}
	return false
}

func exclusiveAt(t *ast.Tree, lca, c1, c2 ast.NodeID, exceptions []string) bool {
	l1, _ := t.LocateChild(lca, c1)
	l2, _ := t.LocateChild(lca, c2)
	switch t.Kind(lca) {
	case ast.KindIf:
		return exceptions == nil && l1.Field != l2.Field
	case ast.KindTryExcept:
		f1, f2 := l1.Field, l2.Field
		if f1 == f2 {
			return f1 == ast.FieldHandlers && c1 != c2
		}
		switch {
		case f2 == ast.FieldBody && f1 == ast.FieldHandlers:
			return t.Catches(c1, exceptions)
		case f2 == ast.FieldHandlers && f1 == ast.FieldBody:
			return t.Catches(c2, exceptions)
		}
		return (f1 == ast.FieldHandlers && f2 == ast.FieldOrelse) ||
			(f1 == ast.FieldOrelse && f2 == ast.FieldHandlers)
	}
	return false
}
