package ast

// RootOf climbs parent links up to the top-most node.
func (t *Tree) RootOf(id NodeID) NodeID {
	for {
		p := t.Parent(id)
		if !p.IsValid() {
			return id
		}
		id = p
	}
}

// Ancestors returns the parents of id from the closest outward; id itself is excluded.
func (t *Tree) Ancestors(id NodeID) []NodeID {
	var out []NodeID
	for p := t.Parent(id); p.IsValid(); p = t.Parent(p) {
		out = append(out, p)
	}
	return out
}

// IsAncestor reports whether anc is a strict ancestor of id.
func (t *Tree) IsAncestor(anc, id NodeID) bool {
	for p := t.Parent(id); p.IsValid(); p = t.Parent(p) {
		if p == anc {
			return true
		}
	}
	return false
}

// Statement returns the closest statement that is id or contains it.
func (t *Tree) Statement(id NodeID) NodeID {
	for ; id.IsValid(); id = t.Parent(id) {
		if t.Kind(id).IsStatement() {
			return id
		}
	}
	return NoNodeID
}

// Scope returns the closest node opening a lexical scope. Decorators are evaluated
// in the scope enclosing the decorated definition, so they resolve through their
// grandparent.
func (t *Tree) Scope(id NodeID) NodeID {
	for id.IsValid() {
		k := t.Kind(id)
		if k == KindDecorators {
			def := t.Parent(id)
			if !def.IsValid() {
				return NoNodeID
			}
			id = t.Parent(def)
			continue
		}
		if k.IsScope() {
			return id
		}
		id = t.Parent(id)
	}
	return NoNodeID
}

// Frame is like Scope but skips generator expressions.
func (t *Tree) Frame(id NodeID) NodeID {
	for id.IsValid() {
		k := t.Kind(id)
		if k == KindDecorators {
			id = t.Parent(t.Parent(id))
			continue
		}
		if k.IsFrame() {
			return id
		}
		id = t.Parent(id)
	}
	return NoNodeID
}

// NodesOfKind returns id and its descendants of the given kinds, depth-first pre-order.
// With no kinds every node matches.
func (t *Tree) NodesOfKind(id NodeID, kinds ...Kind) []NodeID {
	var out []NodeID
	var walk func(n NodeID)
	walk = func(n NodeID) {
		if matchKind(t.Kind(n), kinds) {
			out = append(out, n)
		}
		t.eachSlot(n, func(_ Field, _ int, c NodeID) bool {
			walk(c)
			return true
		})
	}
	if id.IsValid() {
		walk(id)
	}
	return out
}

func matchKind(k Kind, kinds []Kind) bool {
	if len(kinds) == 0 {
		return true
	}
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}

// ModuleName returns the dotted name of the module containing id, "" when the
// subtree is not attached to a module.
func (t *Tree) ModuleName(id NodeID) string {
	if d, ok := t.Module(t.RootOf(id)); ok {
		return d.Name
	}
	return ""
}

// StatementAt returns the first statement in pre-order whose own line is line,
// i.e. the outermost one when several start on that line.
func (t *Tree) StatementAt(root NodeID, line int) NodeID {
	for _, id := range t.NodesOfKind(root) {
		if t.Kind(id).IsStatement() && t.Pos(id).Line == line {
			return id
		}
	}
	return NoNodeID
}

// InnermostBlockAt returns the deepest block-owning statement whose extent contains line.
func (t *Tree) InnermostBlockAt(root NodeID, line int) NodeID {
	found := NoNodeID
	for _, id := range t.NodesOfKind(root, KindIf, KindFor, KindWhile, KindTryExcept, KindTryFinally, KindWith) {
		if t.Pos(id).Contains(line) {
			found = id // pre-order: later matches are nested deeper
		}
	}
	return found
}
