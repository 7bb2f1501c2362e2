package flow

import "astroid/internal/ast"

// BlockOwner is implemented by statements that own nested bodies.
type BlockOwner interface {
	Node() ast.NodeID
	// BlockRange returns the inclusive range of lines owned by the sub-block
	// that contains line.
	BlockRange(line int) (from, to int)
}

// AsBlockOwner returns the block view of id, or false when the node owns no bodies.
func AsBlockOwner(t *ast.Tree, id ast.NodeID) (BlockOwner, bool) {
	b := block{t: t, id: id}
	switch t.Kind(id) {
	case ast.KindIf:
		return ifBlock{b}, true
	case ast.KindFor, ast.KindWhile:
		return loopBlock{b}, true
	case ast.KindTryExcept:
		return tryExceptBlock{b}, true
	case ast.KindTryFinally:
		return tryFinallyBlock{b}, true
	case ast.KindWith:
		return b, true
	}
	return nil, false
}

// BlockRange maps line to the block range of id. Nodes that own no bodies
// extend from line to their last line.
func BlockRange(t *ast.Tree, id ast.NodeID, line int) (from, to int) {
	if o, ok := AsBlockOwner(t, id); ok {
		return o.BlockRange(line)
	}
	return line, t.Pos(id).ToLine
}

type block struct {
	t  *ast.Tree
	id ast.NodeID
}

func (b block) Node() ast.NodeID { return b.id }

func (b block) BlockRange(line int) (int, int) {
	return line, b.t.Pos(b.id).ToLine
}

// elsed resolves a line that is not inside the main body: the else (or finally)
// sequence owns it when line is at or past its first statement, otherwise the
// line belongs to the gap that ends at last. A zero last stands for the node's
// last line.
func (b block) elsed(line int, orelse []ast.NodeID, last int) (int, int) {
	pos := b.t.Pos(b.id)
	if line == pos.FromLine {
		return line, line
	}
	if len(orelse) > 0 {
		first := b.t.Pos(orelse[0]).FromLine
		if line >= first {
			return line, b.t.Pos(orelse[len(orelse)-1]).ToLine
		}
		return line, first - 1
	}
	if last == 0 {
		last = pos.ToLine
	}
	return line, last
}

// span returns the first and last line of a statement sequence.
func (b block) span(body []ast.NodeID) (first, last int, ok bool) {
	if len(body) == 0 {
		return 0, 0, false
	}
	return b.t.Pos(body[0]).FromLine, b.t.Pos(body[len(body)-1]).ToLine, true
}

type ifBlock struct{ block }

func (b ifBlock) BlockRange(line int) (int, int) {
	d, _ := b.t.If(b.id)
	first, last, ok := b.span(d.Body)
	if !ok {
		return b.elsed(line, d.Orelse, 0)
	}
	// строка, где начинается тело, отмечает только вход в ветку
	if line == first {
		return line, line
	}
	if line <= last {
		return line, last
	}
	return b.elsed(line, d.Orelse, first-1)
}

type loopBlock struct{ block }

func (b loopBlock) BlockRange(line int) (int, int) {
	var orelse []ast.NodeID
	if d, ok := b.t.For(b.id); ok {
		orelse = d.Orelse
	} else if d, ok := b.t.While(b.id); ok {
		orelse = d.Orelse
	}
	return b.elsed(line, orelse, 0)
}

type tryExceptBlock struct{ block }

func (b tryExceptBlock) BlockRange(line int) (int, int) {
	d, _ := b.t.TryExcept(b.id)
	last := 0
	for _, h := range d.Handlers {
		hd, _ := b.t.ExceptHandler(h)
		if hd.Type.IsValid() {
			if line == b.t.Pos(hd.Type).FromLine {
				return line, line
			}
		} else if line == b.t.Pos(h).Line {
			return line, line
		}
		first, end, ok := b.span(hd.Body)
		if !ok {
			continue
		}
		if first <= line && line <= end {
			return line, end
		}
		if last == 0 {
			last = first - 1
		}
	}
	return b.elsed(line, d.Orelse, last)
}

type tryFinallyBlock struct{ block }

func (b tryFinallyBlock) BlockRange(line int) (int, int) {
	d, _ := b.t.TryFinally(b.id)
	from := b.t.Pos(b.id).FromLine
	// try/except/finally is stored as a try/finally wrapping a try/except on the same line
	if len(d.Body) > 0 && b.t.Kind(d.Body[0]) == ast.KindTryExcept {
		child := d.Body[0]
		cp := b.t.Pos(child)
		if cp.FromLine == from && line > from && line <= cp.ToLine {
			return tryExceptBlock{block{t: b.t, id: child}}.BlockRange(line)
		}
	}
	return b.elsed(line, d.Finalbody, 0)
}
