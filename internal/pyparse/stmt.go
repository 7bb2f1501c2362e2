package pyparse

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"astroid/internal/ast"
	"astroid/internal/diag"
	"astroid/internal/source"
)

// block converts the statements of a module or block node.
func (p *parser) block(n *sitter.Node) []ast.NodeID {
	if n == nil {
		return nil
	}
	var out []ast.NodeID
	for _, c := range namedChildren(n) {
		if c.Type() == "ERROR" {
			continue
		}
		if id := p.stmt(c); id.IsValid() {
			out = append(out, id)
		}
	}
	return out
}

func (p *parser) stmt(n *sitter.Node) ast.NodeID {
	line := p.line(n)
	var id ast.NodeID
	switch n.Type() {
	case "expression_statement":
		id = p.exprStmt(n)
	case "return_statement":
		var value ast.NodeID
		if cs := namedChildren(n); len(cs) > 0 {
			value = p.expr(cs[0])
		}
		id = p.tree.NewReturn(line, value)
	case "pass_statement":
		id = p.tree.NewPass(line)
	case "break_statement":
		id = p.tree.NewBreak(line)
	case "continue_statement":
		id = p.tree.NewContinue(line)
	case "delete_statement":
		id = p.tree.NewDelete(line, p.targets(namedChildren(n), ctxDel))
	case "raise_statement":
		id = p.raise(n)
	case "assert_statement":
		cs := namedChildren(n)
		var test, fail ast.NodeID
		if len(cs) > 0 {
			test = p.expr(cs[0])
		}
		if len(cs) > 1 {
			fail = p.expr(cs[1])
		}
		id = p.tree.NewAssert(line, test, fail)
	case "import_statement":
		id = p.tree.NewImport(line, p.importNames(n))
	case "import_from_statement", "future_import_statement":
		id = p.importFrom(n)
	case "global_statement", "nonlocal_statement":
		var names []string
		for _, c := range namedChildren(n) {
			if c.Type() == "identifier" {
				names = append(names, p.ident(c))
			}
		}
		id = p.tree.NewGlobal(line, names)
	case "print_statement":
		id = p.print(n)
	case "exec_statement":
		id = p.exec(n)
	case "if_statement":
		id = p.ifStmt(n)
	case "for_statement":
		id = p.tree.NewFor(line,
			p.target(n.ChildByFieldName("left"), ctxStore),
			p.expr(n.ChildByFieldName("right")),
			p.block(n.ChildByFieldName("body")),
			p.elseBody(n.ChildByFieldName("alternative")))
	case "while_statement":
		id = p.tree.NewWhile(line,
			p.expr(n.ChildByFieldName("condition")),
			p.block(n.ChildByFieldName("body")),
			p.elseBody(n.ChildByFieldName("alternative")))
	case "try_statement":
		id = p.try(n)
	case "with_statement":
		id = p.with(n)
	case "function_definition":
		id = p.funcDef(n, ast.NoNodeID)
	case "class_definition":
		id = p.classDef(n, ast.NoNodeID)
	case "decorated_definition":
		return p.decorated(n)
	default:
		return p.unsupported(n)
	}
	return p.finish(id, n)
}

func (p *parser) exprStmt(n *sitter.Node) ast.NodeID {
	line := p.line(n)
	cs := namedChildren(n)
	if len(cs) == 0 {
		return p.tree.NewPass(line)
	}
	if len(cs) > 1 {
		return p.tree.NewDiscard(line, p.finish(p.tree.NewTuple(line, p.exprs(cs)), n))
	}
	c := cs[0]
	switch c.Type() {
	case "assignment":
		return p.assign(c)
	case "augmented_assignment":
		op := c.ChildByFieldName("operator")
		return p.tree.NewAugAssign(line,
			p.target(c.ChildByFieldName("left"), ctxStore),
			p.text(op),
			p.expr(c.ChildByFieldName("right")))
	}
	return p.tree.NewDiscard(line, p.expr(c))
}

// assign flattens chained `a = b = value` into one Assign with several targets.
func (p *parser) assign(n *sitter.Node) ast.NodeID {
	line := p.line(n)
	var lefts []*sitter.Node
	cur := n
	for cur != nil && cur.Type() == "assignment" {
		lefts = append(lefts, cur.ChildByFieldName("left"))
		right := cur.ChildByFieldName("right")
		if right == nil {
			// аннотация без значения: `x: int`
			p.report(diag.SynUnsupported, diag.SevWarning, cur, "annotated name without value is not modelled")
			return p.tree.NewEmptyNode(line)
		}
		cur = right
	}
	targets := p.targets(lefts, ctxStore)
	return p.tree.NewAssign(line, targets, p.expr(cur))
}

func (p *parser) raise(n *sitter.Node) ast.NodeID {
	line := p.line(n)
	var typ, inst, tback ast.NodeID
	cause := n.ChildByFieldName("cause")
	for _, c := range namedChildren(n) {
		if same(c, cause) {
			continue
		}
		if c.Type() == "expression_list" {
			// raise E, V, T
			parts := namedChildren(c)
			if len(parts) > 0 {
				typ = p.expr(parts[0])
			}
			if len(parts) > 1 {
				inst = p.expr(parts[1])
			}
			if len(parts) > 2 {
				tback = p.expr(parts[2])
			}
			continue
		}
		typ = p.expr(c)
	}
	if cause != nil && !inst.IsValid() {
		inst = p.expr(cause)
	}
	return p.tree.NewRaise(line, typ, inst, tback)
}

func (p *parser) importNames(n *sitter.Node) []ast.ImportName {
	var names []ast.ImportName
	for _, c := range fieldChildren(n, "name") {
		names = append(names, p.importName(c))
	}
	if list := childOfType(n, "import_list"); list != nil {
		for _, c := range namedChildren(list) {
			names = append(names, p.importName(c))
		}
	}
	return names
}

func (p *parser) importName(n *sitter.Node) ast.ImportName {
	if n.Type() == "aliased_import" {
		return ast.ImportName{
			Name:   p.dotted(n.ChildByFieldName("name")),
			AsName: p.ident(n.ChildByFieldName("alias")),
		}
	}
	return ast.ImportName{Name: p.dotted(n)}
}

func (p *parser) dotted(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	parts := make([]string, 0, n.NamedChildCount())
	for _, c := range namedChildren(n) {
		parts = append(parts, p.ident(c))
	}
	if len(parts) == 0 {
		return p.ident(n)
	}
	return strings.Join(parts, ".")
}

func (p *parser) importFrom(n *sitter.Node) ast.NodeID {
	line := p.line(n)
	modname, level := "__future__", 0
	if mod := n.ChildByFieldName("module_name"); mod != nil {
		modname = ""
		if mod.Type() == "relative_import" {
			if prefix := childOfType(mod, "import_prefix"); prefix != nil {
				level = strings.Count(p.text(prefix), ".")
			}
			if dn := childOfType(mod, "dotted_name"); dn != nil {
				modname = p.dotted(dn)
			}
		} else {
			modname = p.dotted(mod)
		}
	}
	var names []ast.ImportName
	if childOfType(n, "wildcard_import") != nil {
		names = []ast.ImportName{{Name: "*"}}
	} else {
		names = p.importNames(n)
	}
	return p.tree.NewFrom(line, modname, names, level)
}

// print_statement: `print >>dest, a, b,`
func (p *parser) print(n *sitter.Node) ast.NodeID {
	var dest ast.NodeID
	var values []ast.NodeID
	for _, c := range namedChildren(n) {
		if c.Type() == "chevron" {
			if cs := namedChildren(c); len(cs) > 0 {
				dest = p.expr(cs[0])
			}
			continue
		}
		values = append(values, p.expr(c))
	}
	nl := true
	if last := n.Child(int(n.ChildCount()) - 1); last != nil && last.Type() == "," {
		nl = false
	}
	return p.tree.NewPrint(p.line(n), dest, values, nl)
}

func (p *parser) exec(n *sitter.Node) ast.NodeID {
	code := n.ChildByFieldName("code")
	var rest []ast.NodeID
	for _, c := range namedChildren(n) {
		if same(c, code) {
			continue
		}
		rest = append(rest, p.expr(c))
	}
	var globals, locals ast.NodeID
	if len(rest) > 0 {
		globals = rest[0]
	}
	if len(rest) > 1 {
		locals = rest[1]
	}
	return p.tree.NewExec(p.line(n), p.expr(code), globals, locals)
}

func (p *parser) ifStmt(n *sitter.Node) ast.NodeID {
	var clauses []*sitter.Node
	for _, c := range namedChildren(n) {
		if t := c.Type(); t == "elif_clause" || t == "else_clause" {
			clauses = append(clauses, c)
		}
	}
	return p.tree.NewIf(p.line(n),
		p.expr(n.ChildByFieldName("condition")),
		p.block(n.ChildByFieldName("consequence")),
		p.elifChain(clauses))
}

// elifChain строит orelse: каждый elif превращается во вложенный If.
func (p *parser) elifChain(clauses []*sitter.Node) []ast.NodeID {
	if len(clauses) == 0 {
		return nil
	}
	c := clauses[0]
	if c.Type() == "else_clause" {
		return p.elseBody(c)
	}
	id := p.tree.NewIf(p.line(c),
		p.expr(c.ChildByFieldName("condition")),
		p.block(c.ChildByFieldName("consequence")),
		p.elifChain(clauses[1:]))
	return []ast.NodeID{p.finish(id, c)}
}

func (p *parser) elseBody(n *sitter.Node) []ast.NodeID {
	if n == nil {
		return nil
	}
	if body := n.ChildByFieldName("body"); body != nil {
		return p.block(body)
	}
	return p.block(childOfType(n, "block"))
}

func (p *parser) try(n *sitter.Node) ast.NodeID {
	line := p.line(n)
	body := p.block(n.ChildByFieldName("body"))
	var handlers, orelse, final []ast.NodeID
	hasFinally := false
	for _, c := range namedChildren(n) {
		switch c.Type() {
		case "except_clause", "except_group_clause":
			handlers = append(handlers, p.handler(c))
		case "else_clause":
			orelse = p.elseBody(c)
		case "finally_clause":
			hasFinally = true
			final = p.block(childOfType(c, "block"))
		}
	}
	if len(handlers) > 0 {
		te := p.tree.NewTryExcept(line, body, handlers, orelse)
		if !hasFinally {
			return te
		}
		body = []ast.NodeID{p.finish(te, n)}
	}
	return p.tree.NewTryFinally(line, body, final)
}

// handler понимает обе формы грамматики: `except E as e` через as_pattern
// и плоскую `except E, e` / `except E as e` без обёртки.
func (p *parser) handler(n *sitter.Node) ast.NodeID {
	var typ, name ast.NodeID
	bindNext := false
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch {
		case c == nil || c.Type() == "comment" || c.Type() == "block":
			continue
		case !c.IsNamed():
			bindNext = c.Type() == "as" || c.Type() == ","
			continue
		case c.Type() == "as_pattern":
			if cs := namedChildren(c); len(cs) > 0 {
				typ = p.expr(cs[0])
			}
			name = p.target(unwrapAsTarget(c.ChildByFieldName("alias")), ctxStore)
		case bindNext:
			name = p.target(c, ctxStore)
		default:
			typ = p.expr(c)
		}
	}
	return p.finish(p.tree.NewExceptHandler(p.line(n), typ, name, p.block(childOfType(n, "block"))), n)
}

func unwrapAsTarget(n *sitter.Node) *sitter.Node {
	if n != nil && n.Type() == "as_pattern_target" {
		if cs := namedChildren(n); len(cs) > 0 {
			return cs[0]
		}
	}
	return n
}

// with раскладывает `with a as x, b as y:` во вложенные With.
func (p *parser) with(n *sitter.Node) ast.NodeID {
	line := p.line(n)
	var items []*sitter.Node
	if clause := childOfType(n, "with_clause"); clause != nil {
		for _, c := range namedChildren(clause) {
			if c.Type() == "with_item" {
				items = append(items, c)
			}
		}
	}
	body := p.block(n.ChildByFieldName("body"))
	if len(items) == 0 {
		return p.tree.NewWith(line, p.unsupported(n), ast.NoNodeID, body)
	}
	var id ast.NodeID
	for i := len(items) - 1; i >= 0; i-- {
		expr, vars := p.withItem(items[i])
		id = p.tree.NewWith(line, expr, vars, body)
		if i > 0 {
			p.finish(id, items[i])
			body = []ast.NodeID{id}
		}
	}
	return id
}

func (p *parser) withItem(n *sitter.Node) (expr, vars ast.NodeID) {
	value := n.ChildByFieldName("value")
	if value != nil && value.Type() == "as_pattern" {
		if cs := namedChildren(value); len(cs) > 0 {
			expr = p.expr(cs[0])
		}
		return expr, p.target(unwrapAsTarget(value.ChildByFieldName("alias")), ctxStore)
	}
	expr = p.expr(value)
	if alias := n.ChildByFieldName("alias"); alias != nil {
		vars = p.target(alias, ctxStore)
	}
	return expr, vars
}

func (p *parser) funcDef(n *sitter.Node, decorators ast.NodeID) ast.NodeID {
	args := p.parameters(n.ChildByFieldName("parameters"))
	return p.tree.NewFunctionDef(p.line(n),
		p.ident(n.ChildByFieldName("name")),
		decorators,
		args,
		p.block(n.ChildByFieldName("body")))
}

func (p *parser) classDef(n *sitter.Node, decorators ast.NodeID) ast.NodeID {
	var bases []ast.NodeID
	if supers := n.ChildByFieldName("superclasses"); supers != nil {
		for _, c := range namedChildren(supers) {
			if c.Type() == "keyword_argument" {
				// metaclass=... и прочие ключевые аргументы класса не моделируются
				continue
			}
			bases = append(bases, p.expr(c))
		}
	}
	return p.tree.NewClassDef(p.line(n),
		p.ident(n.ChildByFieldName("name")),
		decorators,
		bases,
		p.block(n.ChildByFieldName("body")))
}

func (p *parser) decorated(n *sitter.Node) ast.NodeID {
	var nodes []ast.NodeID
	var first, last *sitter.Node
	for _, c := range namedChildren(n) {
		if c.Type() != "decorator" {
			continue
		}
		if first == nil {
			first = c
		}
		last = c
		if cs := namedChildren(c); len(cs) > 0 {
			nodes = append(nodes, p.expr(cs[0]))
		}
	}
	var decorators ast.NodeID
	if first != nil {
		decorators = p.tree.NewDecorators(p.line(first), nodes)
		p.tree.SetSpan(decorators, source.Span{File: p.file, Start: first.StartByte(), End: last.EndByte()})
	}
	def := n.ChildByFieldName("definition")
	if def == nil {
		return p.unsupported(n)
	}
	var id ast.NodeID
	switch def.Type() {
	case "function_definition":
		id = p.funcDef(def, decorators)
	case "class_definition":
		id = p.classDef(def, decorators)
	default:
		return p.unsupported(def)
	}
	if first != nil {
		// Line остаётся на def, экстент начинается с первого декоратора
		p.tree.SetExtent(id, p.line(first), 0)
	}
	return p.finish(id, n)
}
