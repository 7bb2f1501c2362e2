package format

import (
	"strings"

	"astroid/internal/args"
	"astroid/internal/ast"
)

// Уровни приоритета, от слабого к сильному.
const (
	precYield = iota
	precLambda
	precIfExp
	precOr
	precAnd
	precNot
	precCompare
	precBitOr
	precBitXor
	precBitAnd
	precShift
	precArith
	precTerm
	precUnary
	precPower
	precAtom
)

var binaryPrec = map[string]int{
	"|":  precBitOr,
	"^":  precBitXor,
	"&":  precBitAnd,
	"<<": precShift,
	">>": precShift,
	"+":  precArith,
	"-":  precArith,
	"*":  precTerm,
	"/":  precTerm,
	"//": precTerm,
	"%":  precTerm,
	"@":  precTerm,
	"**": precPower,
}

// Expr renders an expression node as Python source. It has the shape of
// args.Renderer. Statement nodes render as their first line.
func Expr(t *ast.Tree, id ast.NodeID) string {
	if t.Kind(id).IsStatement() {
		return header(t, id)
	}
	var b strings.Builder
	exprPrinter{t: t, b: &b}.expr(id, precYield)
	return b.String()
}

type exprPrinter struct {
	t *ast.Tree
	b *strings.Builder
}

func (p exprPrinter) str(s string) { p.b.WriteString(s) }

// precOf returns the binding strength of id as an operand.
func (p exprPrinter) precOf(id ast.NodeID) int {
	t := p.t
	switch t.Kind(id) {
	case ast.KindYield:
		return precYield
	case ast.KindLambda:
		return precLambda
	case ast.KindIfExp:
		return precIfExp
	case ast.KindBoolOp:
		d, _ := t.BoolOp(id)
		if d.Op == "and" {
			return precAnd
		}
		return precOr
	case ast.KindUnaryOp:
		d, _ := t.UnaryOp(id)
		if d.Op == "not" {
			return precNot
		}
		return precUnary
	case ast.KindCompare:
		return precCompare
	case ast.KindBinOp:
		d, _ := t.BinOp(id)
		if prec, ok := binaryPrec[d.Op]; ok {
			return prec
		}
		return precTerm
	}
	return precAtom
}

func (p exprPrinter) expr(id ast.NodeID, min int) {
	if !id.IsValid() {
		return
	}
	if p.precOf(id) < min {
		p.str("(")
		p.expr(id, precYield)
		p.str(")")
		return
	}
	t := p.t
	switch t.Kind(id) {
	case ast.KindName, ast.KindAssName, ast.KindDelName:
		name, _ := t.NameOf(id)
		p.str(name)
	case ast.KindConst:
		d, _ := t.Const(id)
		p.str(d.Value.String())
	case ast.KindEllipsis:
		p.str("...")
	case ast.KindEmptyNode:
		p.str("<?>")
	case ast.KindGetattr:
		d, _ := t.Getattr(id)
		p.attr(d.Expr, t.Str(d.Attr))
	case ast.KindAssAttr:
		d, _ := t.AssAttr(id)
		p.attr(d.Expr, t.Str(d.Attr))
	case ast.KindDelAttr:
		d, _ := t.DelAttr(id)
		p.attr(d.Expr, t.Str(d.Attr))
	case ast.KindSubscript:
		d, _ := t.Subscript(id)
		p.expr(d.Value, precAtom)
		p.str("[")
		p.expr(d.Slice, precYield)
		p.str("]")
	case ast.KindIndex:
		d, _ := t.Index(id)
		p.bare(d.Value)
	case ast.KindSlice:
		d, _ := t.Slice(id)
		p.expr(d.Lower, precLambda)
		p.str(":")
		p.expr(d.Upper, precLambda)
		if d.Step.IsValid() {
			p.str(":")
			p.expr(d.Step, precLambda)
		}
	case ast.KindExtSlice:
		d, _ := t.ExtSlice(id)
		p.list(d.Dims, precYield)
	case ast.KindCallFunc:
		p.call(id)
	case ast.KindKeyword:
		d, _ := t.Keyword(id)
		p.str(t.Str(d.Arg))
		p.str("=")
		p.expr(d.Value, precLambda)
	case ast.KindBinOp:
		d, _ := t.BinOp(id)
		prec := p.precOf(id)
		left, right := prec, prec+1
		if d.Op == "**" {
			// правоассоциативный
			left, right = prec+1, prec
		}
		p.expr(d.Left, left)
		p.str(" " + d.Op + " ")
		p.expr(d.Right, right)
	case ast.KindUnaryOp:
		d, _ := t.UnaryOp(id)
		if d.Op == "not" {
			p.str("not ")
			p.expr(d.Operand, precNot)
			return
		}
		p.str(d.Op)
		p.expr(d.Operand, precUnary)
	case ast.KindBoolOp:
		d, _ := t.BoolOp(id)
		prec := p.precOf(id)
		for i, v := range d.Values {
			if i > 0 {
				p.str(" " + d.Op + " ")
			}
			p.expr(v, prec+1)
		}
	case ast.KindCompare:
		d, _ := t.Compare(id)
		p.expr(d.Left, precCompare+1)
		for _, op := range d.Ops {
			p.str(" " + op.Op + " ")
			p.expr(op.Operand, precCompare+1)
		}
	case ast.KindIfExp:
		d, _ := t.IfExp(id)
		p.expr(d.Body, precIfExp+1)
		p.str(" if ")
		p.expr(d.Test, precIfExp+1)
		p.str(" else ")
		p.expr(d.Orelse, precIfExp)
	case ast.KindLambda:
		d, _ := t.Lambda(id)
		p.str("lambda")
		if params := args.FormatArgs(t, d.Args, Expr); params != "" {
			p.str(" " + params)
		}
		p.str(": ")
		p.expr(d.Body, precIfExp)
	case ast.KindArguments:
		p.str(args.FormatArgs(t, id, Expr))
	case ast.KindTuple:
		d, _ := t.Tuple(id)
		p.str("(")
		p.tuple(d.Elts)
		p.str(")")
	case ast.KindList:
		d, _ := t.List(id)
		p.str("[")
		p.list(d.Elts, precLambda)
		p.str("]")
	case ast.KindDict:
		d, _ := t.Dict(id)
		p.str("{")
		for i, item := range d.Items {
			if i > 0 {
				p.str(", ")
			}
			p.expr(item.Key, precLambda)
			p.str(": ")
			p.expr(item.Value, precLambda)
		}
		p.str("}")
	case ast.KindListComp:
		d, _ := t.ListComp(id)
		p.str("[")
		p.expr(d.Elt, precLambda)
		p.generators(d.Generators)
		p.str("]")
	case ast.KindGenExpr:
		d, _ := t.GenExpr(id)
		p.str("(")
		p.expr(d.Elt, precLambda)
		p.generators(d.Generators)
		p.str(")")
	case ast.KindComprehension:
		p.comprehension(id)
	case ast.KindBackquote:
		d, _ := t.Backquote(id)
		p.str("`")
		p.bare(d.Value)
		p.str("`")
	case ast.KindYield:
		d, _ := t.Yield(id)
		p.str("yield")
		if d.Value.IsValid() {
			p.str(" ")
			p.bare(d.Value)
		}
	default:
		p.str("<" + t.Kind(id).String() + ">")
	}
}

func (p exprPrinter) attr(expr ast.NodeID, name string) {
	if d, ok := p.t.Const(expr); ok && d.Value.Kind == ast.ConstInt {
		// 1 .real, а не 1.real
		p.str("(")
		p.expr(expr, precYield)
		p.str(")")
	} else {
		p.expr(expr, precAtom)
	}
	p.str("." + name)
}

func (p exprPrinter) call(id ast.NodeID) {
	d, _ := p.t.CallFunc(id)
	p.expr(d.Func, precAtom)
	p.str("(")
	n := 0
	sep := func() {
		if n > 0 {
			p.str(", ")
		}
		n++
	}
	for _, a := range d.Args {
		sep()
		if p.t.Kind(a) == ast.KindGenExpr && len(d.Args) == 1 {
			// f(x for x in y): скобки генератора совпадают со скобками вызова
			g, _ := p.t.GenExpr(a)
			p.expr(g.Elt, precLambda)
			p.generators(g.Generators)
			continue
		}
		p.expr(a, precLambda)
	}
	if d.Starargs.IsValid() {
		sep()
		p.str("*")
		p.expr(d.Starargs, precLambda)
	}
	if d.Kwargs.IsValid() {
		sep()
		p.str("**")
		p.expr(d.Kwargs, precLambda)
	}
	p.str(")")
}

func (p exprPrinter) list(ids []ast.NodeID, min int) {
	for i, id := range ids {
		if i > 0 {
			p.str(", ")
		}
		p.expr(id, min)
	}
}

// tuple writes tuple elements without the brackets; a singleton keeps its comma.
func (p exprPrinter) tuple(elts []ast.NodeID) {
	p.list(elts, precLambda)
	if len(elts) == 1 {
		p.str(",")
	}
}

// bare writes a non-empty tuple without brackets, anything else as usual.
func (p exprPrinter) bare(id ast.NodeID) {
	if d, ok := p.t.Tuple(id); ok && len(d.Elts) > 0 {
		p.tuple(d.Elts)
		return
	}
	p.expr(id, precYield)
}

func (p exprPrinter) generators(gens []ast.NodeID) {
	for _, g := range gens {
		p.str(" ")
		p.comprehension(g)
	}
}

func (p exprPrinter) comprehension(id ast.NodeID) {
	d, ok := p.t.Comprehension(id)
	if !ok {
		return
	}
	p.str("for ")
	p.bare(d.Target)
	p.str(" in ")
	p.expr(d.Iter, precOr)
	for _, cond := range d.Ifs {
		p.str(" if ")
		p.expr(cond, precOr)
	}
}
