package format

import (
	"errors"
	"strings"

	"astroid/internal/args"
	"astroid/internal/ast"
)

type Options struct {
	IndentWidth int
	UseTabs     bool
}

func (o Options) withDefaults() Options {
	if o.IndentWidth == 0 {
		o.IndentWidth = 4
	}
	return o
}

type printer struct {
	tree   *ast.Tree
	writer *lineWriter
}

// FormatTree renders the module at the root of t.
func FormatTree(t *ast.Tree, opt Options) ([]byte, error) {
	if t == nil {
		return nil, errors.New("format: nil tree")
	}
	if !t.Root.IsValid() {
		return nil, errors.New("format: tree has no module")
	}
	return Source(t, t.Root, opt), nil
}

// Source renders id and everything below it. Expressions come out on a single line.
func Source(t *ast.Tree, id ast.NodeID, opt Options) []byte {
	w := newLineWriter(opt)
	pr := printer{tree: t, writer: w}
	if t.Kind(id) == ast.KindModule {
		d, _ := t.Module(id)
		pr.printStmts(d.Body)
	} else {
		pr.printStmt(id)
	}
	return w.bytes()
}

func (p *printer) expr(id ast.NodeID) string { return Expr(p.tree, id) }

func (p *printer) bare(id ast.NodeID) string {
	var b strings.Builder
	exprPrinter{t: p.tree, b: &b}.bare(id)
	return b.String()
}

func (p *printer) printStmts(ids []ast.NodeID) {
	for _, id := range ids {
		p.printStmt(id)
	}
}

func (p *printer) block(head string, body []ast.NodeID) {
	p.writer.line(head)
	p.writer.indent()
	if len(body) == 0 {
		p.writer.line("pass")
	}
	p.printStmts(body)
	p.writer.dedent()
}

func (p *printer) printStmt(id ast.NodeID) {
	t := p.tree
	switch t.Kind(id) {
	case ast.KindFunctionDef:
		d, _ := t.FunctionDef(id)
		p.decorators(d.Decorators)
		p.block(header(t, id), d.Body)
	case ast.KindClassDef:
		d, _ := t.ClassDef(id)
		p.decorators(d.Decorators)
		p.block(header(t, id), d.Body)
	case ast.KindIf:
		p.ifChain(id, "if ")
	case ast.KindWhile:
		d, _ := t.While(id)
		p.block(header(t, id), d.Body)
		p.orelse(d.Orelse)
	case ast.KindFor:
		d, _ := t.For(id)
		p.block(header(t, id), d.Body)
		p.orelse(d.Orelse)
	case ast.KindTryExcept:
		p.tryExcept(id)
	case ast.KindTryFinally:
		d, _ := t.TryFinally(id)
		if len(d.Body) == 1 && t.Kind(d.Body[0]) == ast.KindTryExcept {
			// try/except/finally одним оператором
			p.tryExcept(d.Body[0])
		} else {
			p.block("try:", d.Body)
		}
		p.block("finally:", d.Finalbody)
	case ast.KindExceptHandler:
		d, _ := t.ExceptHandler(id)
		p.block(header(t, id), d.Body)
	case ast.KindWith:
		d, _ := t.With(id)
		p.block(header(t, id), d.Body)
	default:
		p.writer.line(header(t, id))
	}
}

func (p *printer) decorators(id ast.NodeID) {
	d, ok := p.tree.DecoratorsOf(id)
	if !ok {
		return
	}
	for _, dec := range d.Nodes {
		p.writer.line("@" + p.expr(dec))
	}
}

func (p *printer) orelse(body []ast.NodeID) {
	if len(body) > 0 {
		p.block("else:", body)
	}
}

func (p *printer) ifChain(id ast.NodeID, keyword string) {
	d, _ := p.tree.If(id)
	p.block(keyword+p.expr(d.Test)+":", d.Body)
	if len(d.Orelse) == 1 && p.tree.Kind(d.Orelse[0]) == ast.KindIf {
		p.ifChain(d.Orelse[0], "elif ")
		return
	}
	p.orelse(d.Orelse)
}

func (p *printer) tryExcept(id ast.NodeID) {
	d, _ := p.tree.TryExcept(id)
	p.block("try:", d.Body)
	p.printStmts(d.Handlers)
	p.orelse(d.Orelse)
}

// header renders a simple statement, or the introducing line of a compound one.
func header(t *ast.Tree, id ast.NodeID) string {
	p := printer{tree: t}
	switch t.Kind(id) {
	case ast.KindFunctionDef:
		d, _ := t.FunctionDef(id)
		return "def " + t.Str(d.Name) + "(" + args.FormatArgs(t, d.Args, Expr) + "):"
	case ast.KindClassDef:
		d, _ := t.ClassDef(id)
		if len(d.Bases) == 0 {
			return "class " + t.Str(d.Name) + ":"
		}
		return "class " + t.Str(d.Name) + "(" + p.join(d.Bases) + "):"
	case ast.KindIf:
		d, _ := t.If(id)
		return "if " + p.expr(d.Test) + ":"
	case ast.KindWhile:
		d, _ := t.While(id)
		return "while " + p.expr(d.Test) + ":"
	case ast.KindFor:
		d, _ := t.For(id)
		return "for " + p.bare(d.Target) + " in " + p.bare(d.Iter) + ":"
	case ast.KindTryExcept, ast.KindTryFinally:
		return "try:"
	case ast.KindExceptHandler:
		d, _ := t.ExceptHandler(id)
		s := "except"
		if d.Type.IsValid() {
			s += " " + p.expr(d.Type)
		}
		if d.Name.IsValid() {
			s += " as " + p.expr(d.Name)
		}
		return s + ":"
	case ast.KindWith:
		d, _ := t.With(id)
		s := "with " + p.expr(d.Expr)
		if d.Vars.IsValid() {
			s += " as " + p.expr(d.Vars)
		}
		return s + ":"
	case ast.KindAssign:
		d, _ := t.Assign(id)
		var b strings.Builder
		for _, target := range d.Targets {
			b.WriteString(p.bare(target))
			b.WriteString(" = ")
		}
		b.WriteString(p.bare(d.Value))
		return b.String()
	case ast.KindAugAssign:
		d, _ := t.AugAssign(id)
		return p.expr(d.Target) + " " + d.Op + " " + p.bare(d.Value)
	case ast.KindDiscard:
		d, _ := t.Discard(id)
		return p.bare(d.Value)
	case ast.KindPrint:
		d, _ := t.Print(id)
		var parts []string
		if d.Dest.IsValid() {
			parts = append(parts, ">>"+p.expr(d.Dest))
		}
		for _, v := range d.Values {
			parts = append(parts, p.expr(v))
		}
		s := "print"
		if len(parts) > 0 {
			s += " " + strings.Join(parts, ", ")
		}
		if !d.Nl {
			s += ","
		}
		return s
	case ast.KindExec:
		d, _ := t.Exec(id)
		s := "exec " + p.expr(d.Expr)
		if d.Globals.IsValid() {
			s += " in " + p.expr(d.Globals)
			if d.Locals.IsValid() {
				s += ", " + p.expr(d.Locals)
			}
		}
		return s
	case ast.KindAssert:
		d, _ := t.Assert(id)
		s := "assert " + p.expr(d.Test)
		if d.Fail.IsValid() {
			s += ", " + p.expr(d.Fail)
		}
		return s
	case ast.KindRaise:
		d, _ := t.Raise(id)
		s := "raise"
		for i, part := range []ast.NodeID{d.Type, d.Inst, d.Tback} {
			if !part.IsValid() {
				break
			}
			if i == 0 {
				s += " "
			} else {
				s += ", "
			}
			s += p.expr(part)
		}
		return s
	case ast.KindReturn:
		d, _ := t.Return(id)
		if !d.Value.IsValid() {
			return "return"
		}
		return "return " + p.bare(d.Value)
	case ast.KindDelete:
		d, _ := t.Delete(id)
		parts := make([]string, len(d.Targets))
		for i, target := range d.Targets {
			parts[i] = p.bare(target)
		}
		return "del " + strings.Join(parts, ", ")
	case ast.KindGlobal:
		d, _ := t.Global(id)
		names := make([]string, len(d.Names))
		for i, n := range d.Names {
			names[i] = t.Str(n)
		}
		return "global " + strings.Join(names, ", ")
	case ast.KindImport:
		d, _ := t.Import(id)
		return "import " + importNames(d.Names)
	case ast.KindFrom:
		d, _ := t.From(id)
		return "from " + strings.Repeat(".", d.Level) + d.Modname + " import " + importNames(d.Names)
	case ast.KindPass:
		return "pass"
	case ast.KindBreak:
		return "break"
	case ast.KindContinue:
		return "continue"
	}
	return Expr(t, id)
}

func (p *printer) join(ids []ast.NodeID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = p.expr(id)
	}
	return strings.Join(parts, ", ")
}

func importNames(names []ast.ImportName) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n.Name
		if n.AsName != "" {
			parts[i] += " as " + n.AsName
		}
	}
	return strings.Join(parts, ", ")
}
