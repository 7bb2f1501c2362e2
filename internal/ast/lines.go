package ast

import (
	"astroid/internal/source"
)

// derive computes the position of a freshly built node from its own line and its
// children: FromLine is the node's line (or the first child's when the node has none),
// ToLine is the furthest child line.
func (t *Tree) derive(id NodeID, line int) (Pos, source.Span) {
	pos := Pos{Line: line, FromLine: line, ToLine: line}
	var span source.Span
	for i, c := range t.Children(id) {
		cn := t.Get(c)
		if i == 0 {
			span = cn.Span
		} else {
			span = span.Cover(cn.Span)
		}
		cp := cn.Pos
		if cp.FromLine > 0 && (pos.FromLine == 0 || (line == 0 && cp.FromLine < pos.FromLine)) {
			pos.FromLine = cp.FromLine
		}
		if cp.ToLine > pos.ToLine {
			pos.ToLine = cp.ToLine
		}
	}
	if pos.Line == 0 {
		pos.Line = pos.FromLine
	}
	pos.BlockStartToLine = t.blockStartToLine(id, pos)
	return pos, span
}

// blockStartToLine is the last line of the clause introducing a block:
// the test of if/while, the iterable of for, the bound name or caught type of an
// except clause, the context expression (or its target) of with.
func (t *Tree) blockStartToLine(id NodeID, pos Pos) int {
	toLine := func(c NodeID) int {
		if p := t.Pos(c); p.ToLine > 0 {
			return p.ToLine
		}
		return pos.Line
	}
	switch t.Kind(id) {
	case KindIf:
		d, _ := t.If(id)
		return toLine(d.Test)
	case KindWhile:
		d, _ := t.While(id)
		return toLine(d.Test)
	case KindFor:
		d, _ := t.For(id)
		return toLine(d.Iter)
	case KindTryExcept, KindTryFinally:
		return pos.Line
	case KindWith:
		d, _ := t.With(id)
		if d.Vars.IsValid() {
			return toLine(d.Vars)
		}
		return toLine(d.Expr)
	case KindExceptHandler:
		d, _ := t.ExceptHandler(id)
		switch {
		case d.Name.IsValid():
			return toLine(d.Name)
		case d.Type.IsValid():
			return toLine(d.Type)
		}
		return pos.Line
	case KindFunctionDef:
		d, _ := t.FunctionDef(id)
		if p := t.Pos(d.Args); p.ToLine > 0 {
			return p.ToLine
		}
		return pos.Line
	case KindClassDef:
		d, _ := t.ClassDef(id)
		if len(d.Bases) > 0 {
			return toLine(d.Bases[len(d.Bases)-1])
		}
		return pos.Line
	}
	return pos.ToLine
}
