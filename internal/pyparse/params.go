package pyparse

import (
	sitter "github.com/smacker/go-tree-sitter"

	"astroid/internal/ast"
	"astroid/internal/diag"
)

type param struct {
	name *sitter.Node // identifier or tuple_pattern
	def  *sitter.Node
}

// parameters builds an Arguments node. Defaults stay right-aligned against the
// positional list: a default before a parameter without one (possible after a
// bare `*`) is dropped and reported.
func (p *parser) parameters(n *sitter.Node) ast.NodeID {
	var params []param
	var vararg, kwarg string
	for _, c := range namedChildren(n) {
		c = unwrapTyped(c)
		switch c.Type() {
		case "identifier", "tuple_pattern":
			params = append(params, param{name: c})
		case "default_parameter", "typed_default_parameter":
			params = append(params, param{name: c.ChildByFieldName("name"), def: c.ChildByFieldName("value")})
		case "list_splat_pattern":
			vararg = p.splatName(c)
		case "dictionary_splat_pattern":
			kwarg = p.splatName(c)
		case "keyword_separator", "positional_separator", "ERROR":
		default:
			p.report(diag.SynUnsupported, diag.SevWarning, c, "unsupported parameter form "+c.Type())
		}
	}

	suffix := len(params)
	for suffix > 0 && params[suffix-1].def != nil {
		suffix--
	}
	args := make([]ast.NodeID, 0, len(params))
	defaults := make([]ast.NodeID, 0, len(params)-suffix)
	for i, prm := range params {
		args = append(args, p.paramTarget(prm.name))
		switch {
		case i >= suffix:
			defaults = append(defaults, p.expr(prm.def))
		case prm.def != nil:
			p.report(diag.SynUnsupported, diag.SevWarning, prm.def, "default of a parameter followed by required ones is dropped")
		}
	}
	id := p.tree.NewArguments(args, defaults, vararg, kwarg)
	if n != nil {
		p.finish(id, n)
	}
	return id
}

func unwrapTyped(n *sitter.Node) *sitter.Node {
	if n.Type() != "typed_parameter" {
		return n
	}
	if cs := namedChildren(n); len(cs) > 0 {
		return cs[0]
	}
	return n
}

func (p *parser) splatName(n *sitter.Node) string {
	for _, c := range namedChildren(n) {
		if c.Type() == "identifier" {
			return p.ident(c)
		}
	}
	return ""
}

// paramTarget: AssName, or a Tuple of AssNames for `def f((a, b))`.
func (p *parser) paramTarget(n *sitter.Node) ast.NodeID {
	if n == nil {
		return ast.NoNodeID
	}
	if n.Type() == "tuple_pattern" || n.Type() == "parenthesized_expression" {
		elts := make([]ast.NodeID, 0, n.NamedChildCount())
		for _, c := range namedChildren(n) {
			elts = append(elts, p.paramTarget(c))
		}
		return p.finish(p.tree.NewTuple(p.line(n), elts), n)
	}
	return p.finish(p.tree.NewAssName(p.line(n), p.ident(n)), n)
}
