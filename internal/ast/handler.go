package ast

import "slices"

// Catches reports whether the except clause handler may catch one of exceptions.
// A bare `except:` catches everything, and a nil exceptions list matches any clause.
// Otherwise some Name inside the caught type expression must be listed.
func (t *Tree) Catches(handler NodeID, exceptions []string) bool {
	d, ok := t.ExceptHandler(handler)
	if !ok {
		return false
	}
	if !d.Type.IsValid() || exceptions == nil {
		return true
	}
	for _, n := range t.NodesOfKind(d.Type, KindName) {
		name, _ := t.NameOf(n)
		if slices.Contains(exceptions, name) {
			return true
		}
	}
	return false
}
