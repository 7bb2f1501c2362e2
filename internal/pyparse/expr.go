package pyparse

import (
	"fmt"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"golang.org/x/text/unicode/norm"

	"astroid/internal/ast"
	"astroid/internal/diag"
)

// exprCtx is the role of an expression used as an assignment target.
type exprCtx uint8

const (
	ctxLoad exprCtx = iota
	ctxStore
	ctxDel
)

// ident returns the identifier text in NFKC form, the way the interpreter
// compares names.
func (p *parser) ident(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	s := p.text(n)
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return norm.NFKC.String(s)
		}
	}
	return s
}

func (p *parser) exprs(ns []*sitter.Node) []ast.NodeID {
	out := make([]ast.NodeID, 0, len(ns))
	for _, n := range ns {
		out = append(out, p.expr(n))
	}
	return out
}

func (p *parser) targets(ns []*sitter.Node, ctx exprCtx) []ast.NodeID {
	out := make([]ast.NodeID, 0, len(ns))
	for _, n := range ns {
		out = append(out, p.target(n, ctx))
	}
	return out
}

// target converts an assignment, deletion, loop or binding target.
func (p *parser) target(n *sitter.Node, ctx exprCtx) ast.NodeID {
	if n == nil {
		return ast.NoNodeID
	}
	line := p.line(n)
	var id ast.NodeID
	switch n.Type() {
	case "identifier":
		if ctx == ctxDel {
			id = p.tree.NewDelName(line, p.ident(n))
		} else {
			id = p.tree.NewAssName(line, p.ident(n))
		}
	case "attribute":
		obj := p.expr(n.ChildByFieldName("object"))
		attr := p.ident(n.ChildByFieldName("attribute"))
		if ctx == ctxDel {
			id = p.tree.NewDelAttr(line, obj, attr)
		} else {
			id = p.tree.NewAssAttr(line, obj, attr)
		}
	case "pattern_list", "tuple_pattern", "tuple", "expression_list":
		id = p.tree.NewTuple(line, p.targets(namedChildren(n), ctx))
	case "list_pattern", "list":
		id = p.tree.NewList(line, p.targets(namedChildren(n), ctx))
	case "parenthesized_expression", "list_splat_pattern", "list_splat":
		if cs := namedChildren(n); len(cs) == 1 {
			return p.target(cs[0], ctx)
		}
		return p.unsupported(n)
	default:
		return p.expr(n)
	}
	return p.finish(id, n)
}

func (p *parser) expr(n *sitter.Node) ast.NodeID {
	if n == nil {
		return ast.NoNodeID
	}
	line := p.line(n)
	var id ast.NodeID
	switch n.Type() {
	case "identifier":
		id = p.tree.NewName(line, p.ident(n))
	case "true":
		id = p.tree.NewConst(line, ast.BoolValue(true))
	case "false":
		id = p.tree.NewConst(line, ast.BoolValue(false))
	case "none":
		id = p.tree.NewConst(line, ast.NoneValue())
	case "integer", "float":
		v, err := parseNumber(p.text(n))
		if err != nil {
			p.report(diag.SynBadLiteral, diag.SevError, n, err.Error())
			return p.unsupported(n)
		}
		id = p.tree.NewConst(line, v)
	case "string", "concatenated_string":
		id = p.tree.NewConst(line, ast.StrValue(p.str(n)))
	case "ellipsis":
		id = p.tree.NewEllipsis(line)
	case "attribute":
		id = p.tree.NewGetattr(line,
			p.expr(n.ChildByFieldName("object")),
			p.ident(n.ChildByFieldName("attribute")))
	case "subscript":
		id = p.subscript(n)
	case "call":
		id = p.call(n)
	case "binary_operator":
		id = p.tree.NewBinOp(line,
			p.expr(n.ChildByFieldName("left")),
			p.text(n.ChildByFieldName("operator")),
			p.expr(n.ChildByFieldName("right")))
	case "unary_operator":
		id = p.tree.NewUnaryOp(line,
			p.text(n.ChildByFieldName("operator")),
			p.expr(n.ChildByFieldName("argument")))
	case "not_operator":
		id = p.tree.NewUnaryOp(line, "not", p.expr(n.ChildByFieldName("argument")))
	case "boolean_operator":
		op := p.text(n.ChildByFieldName("operator"))
		id = p.tree.NewBoolOp(line, op, p.exprs(p.boolOperands(n, op)))
	case "comparison_operator":
		id = p.compare(n)
	case "conditional_expression":
		cs := namedChildren(n)
		if len(cs) != 3 {
			return p.unsupported(n)
		}
		// body if test else orelse
		id = p.tree.NewIfExp(line, p.expr(cs[1]), p.expr(cs[0]), p.expr(cs[2]))
	case "lambda":
		args := p.parameters(n.ChildByFieldName("parameters"))
		id = p.tree.NewLambda(line, args, p.expr(n.ChildByFieldName("body")))
	case "list":
		id = p.tree.NewList(line, p.exprs(namedChildren(n)))
	case "tuple", "expression_list":
		id = p.tree.NewTuple(line, p.exprs(namedChildren(n)))
	case "set":
		// {a, b} -> set([a, b])
		elts := p.finish(p.tree.NewList(line, p.exprs(namedChildren(n))), n)
		fn := p.tree.NewName(line, "set")
		id = p.tree.NewCallFunc(line, fn, []ast.NodeID{elts}, ast.NoNodeID, ast.NoNodeID)
	case "dictionary":
		id = p.dict(n)
	case "parenthesized_expression":
		cs := namedChildren(n)
		if len(cs) != 1 {
			return p.unsupported(n)
		}
		return p.expr(cs[0])
	case "list_comprehension", "set_comprehension", "dictionary_comprehension":
		id = p.tree.NewListComp(line, p.compElt(n), p.comprehensions(n))
	case "generator_expression":
		id = p.tree.NewGenExpr(line, p.compElt(n), p.comprehensions(n))
	case "yield":
		var value ast.NodeID
		if cs := namedChildren(n); len(cs) > 0 {
			value = p.expr(cs[0])
		}
		id = p.tree.NewYield(line, value)
	case "await", "named_expression", "list_splat", "dictionary_splat":
		// прозрачные обёртки: берём вложенное значение
		if v := n.ChildByFieldName("value"); v != nil {
			return p.expr(v)
		}
		if cs := namedChildren(n); len(cs) > 0 {
			return p.expr(cs[len(cs)-1])
		}
		return p.unsupported(n)
	default:
		return p.unsupported(n)
	}
	return p.finish(id, n)
}

// boolOperands flattens left-nested chains of the same operator: a and b and c.
func (p *parser) boolOperands(n *sitter.Node, op string) []*sitter.Node {
	left, right := n.ChildByFieldName("left"), n.ChildByFieldName("right")
	var out []*sitter.Node
	if left != nil && left.Type() == "boolean_operator" && p.text(left.ChildByFieldName("operator")) == op {
		out = p.boolOperands(left, op)
	} else {
		out = append(out, left)
	}
	return append(out, right)
}

// compare: операнды именованные, операторы анонимные (`not in`, `is not` из двух токенов).
func (p *parser) compare(n *sitter.Node) ast.NodeID {
	var left ast.NodeID
	var ops []ast.CompareOp
	var pending []string
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c == nil || c.Type() == "comment" {
			continue
		}
		if !c.IsNamed() {
			pending = append(pending, p.text(c))
			continue
		}
		operand := p.expr(c)
		if !left.IsValid() && len(ops) == 0 && len(pending) == 0 {
			left = operand
			continue
		}
		ops = append(ops, ast.CompareOp{Op: strings.Join(pending, " "), Operand: operand})
		pending = pending[:0]
	}
	return p.tree.NewCompare(p.line(n), left, ops)
}

func (p *parser) subscript(n *sitter.Node) ast.NodeID {
	line := p.line(n)
	value := p.expr(n.ChildByFieldName("value"))
	dims := fieldChildren(n, "subscript")
	hasSlice := false
	for _, d := range dims {
		if d.Type() == "slice" {
			hasSlice = true
		}
	}
	var slice ast.NodeID
	switch {
	case len(dims) == 1 && hasSlice:
		slice = p.slice(dims[0])
	case len(dims) == 1:
		slice = p.finish(p.tree.NewIndex(line, p.expr(dims[0])), dims[0])
	case hasSlice:
		parts := make([]ast.NodeID, 0, len(dims))
		for _, d := range dims {
			if d.Type() == "slice" {
				parts = append(parts, p.slice(d))
			} else {
				parts = append(parts, p.finish(p.tree.NewIndex(p.line(d), p.expr(d)), d))
			}
		}
		slice = p.tree.NewExtSlice(line, parts)
	default:
		// a[1, 2] -> Index(Tuple)
		tup := p.tree.NewTuple(line, p.exprs(dims))
		slice = p.tree.NewIndex(line, tup)
	}
	return p.tree.NewSubscript(line, value, slice)
}

// slice: `lower:upper:step`, any part may be missing; parts are told apart by colons.
func (p *parser) slice(n *sitter.Node) ast.NodeID {
	var parts [3]ast.NodeID
	idx := 0
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c == nil || c.Type() == "comment" {
			continue
		}
		if c.Type() == ":" {
			idx++
			continue
		}
		if c.IsNamed() && idx < len(parts) {
			parts[idx] = p.expr(c)
		}
	}
	return p.finish(p.tree.NewSlice(p.line(n), parts[0], parts[1], parts[2]), n)
}

func (p *parser) call(n *sitter.Node) ast.NodeID {
	fn := p.expr(n.ChildByFieldName("function"))
	argsNode := n.ChildByFieldName("arguments")
	var args []ast.NodeID
	var starargs, kwargs ast.NodeID
	if argsNode != nil && argsNode.Type() == "generator_expression" {
		args = append(args, p.expr(argsNode))
		return p.tree.NewCallFunc(p.line(n), fn, args, starargs, kwargs)
	}
	for _, c := range namedChildren(argsNode) {
		switch c.Type() {
		case "keyword_argument":
			kw := p.tree.NewKeyword(p.line(c),
				p.ident(c.ChildByFieldName("name")),
				p.expr(c.ChildByFieldName("value")))
			args = append(args, p.finish(kw, c))
		case "list_splat":
			if starargs.IsValid() {
				p.report(diag.SynUnsupported, diag.SevWarning, c, "only one *args is kept per call")
				continue
			}
			starargs = p.expr(c)
		case "dictionary_splat":
			if kwargs.IsValid() {
				p.report(diag.SynUnsupported, diag.SevWarning, c, "only one **kwargs is kept per call")
				continue
			}
			kwargs = p.expr(c)
		default:
			args = append(args, p.expr(c))
		}
	}
	return p.tree.NewCallFunc(p.line(n), fn, args, starargs, kwargs)
}

func (p *parser) dict(n *sitter.Node) ast.NodeID {
	var items []ast.DictItem
	for _, c := range namedChildren(n) {
		if c.Type() != "pair" {
			p.report(diag.SynUnsupported, diag.SevWarning, c, fmt.Sprintf("%s inside a dict display is skipped", c.Type()))
			continue
		}
		items = append(items, ast.DictItem{
			Key:   p.expr(c.ChildByFieldName("key")),
			Value: p.expr(c.ChildByFieldName("value")),
		})
	}
	return p.tree.NewDict(p.line(n), items)
}

// compElt is the element expression of a comprehension; for dict
// comprehensions the key/value pair becomes a Tuple.
func (p *parser) compElt(n *sitter.Node) ast.NodeID {
	body := n.ChildByFieldName("body")
	if body != nil && body.Type() == "pair" {
		key := p.expr(body.ChildByFieldName("key"))
		value := p.expr(body.ChildByFieldName("value"))
		return p.finish(p.tree.NewTuple(p.line(body), []ast.NodeID{key, value}), body)
	}
	return p.expr(body)
}

// comprehensions: каждый for_in_clause забирает следующие за ним if_clause.
func (p *parser) comprehensions(n *sitter.Node) []ast.NodeID {
	type clause struct {
		node *sitter.Node
		ifs  []*sitter.Node
	}
	var clauses []*clause
	for _, c := range namedChildren(n) {
		switch c.Type() {
		case "for_in_clause":
			clauses = append(clauses, &clause{node: c})
		case "if_clause":
			if len(clauses) > 0 {
				last := clauses[len(clauses)-1]
				last.ifs = append(last.ifs, c)
			}
		}
	}
	out := make([]ast.NodeID, 0, len(clauses))
	for _, c := range clauses {
		target := p.target(c.node.ChildByFieldName("left"), ctxStore)
		iter := p.compIter(c.node)
		ifs := make([]ast.NodeID, 0, len(c.ifs))
		for _, cond := range c.ifs {
			if cs := namedChildren(cond); len(cs) > 0 {
				ifs = append(ifs, p.expr(cs[0]))
			}
		}
		out = append(out, p.finish(p.tree.NewComprehension(p.line(c.node), target, iter, ifs), c.node))
	}
	return out
}

func (p *parser) compIter(n *sitter.Node) ast.NodeID {
	rights := fieldChildren(n, "right")
	switch len(rights) {
	case 0:
		return ast.NoNodeID
	case 1:
		return p.expr(rights[0])
	}
	return p.tree.NewTuple(p.line(rights[0]), p.exprs(rights))
}
