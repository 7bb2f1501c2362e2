// Package pyparse turns Python source into an ast.Tree using the tree-sitter
// Python grammar.
//
// Newer syntax is folded onto the node catalogue: elif chains become nested
// If nodes, try/except/finally becomes TryFinally around a TryExcept on the
// same line, multi-item with statements nest, set displays become calls to
// set(), dict and set comprehensions become ListComp, nonlocal becomes Global.
// Constructs with no counterpart are kept as EmptyNode and reported.
package pyparse

import (
	"context"
	"fmt"

	"fortio.org/safecast"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"astroid/internal/ast"
	"astroid/internal/diag"
	"astroid/internal/source"
)

type Options struct {
	// ModuleName is the dotted name recorded on the Module node.
	ModuleName string
	// Package marks an __init__ module.
	Package       bool
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	Tree *ast.Tree
	Root ast.NodeID
	Bag  *diag.Bag
}

// parser - состояние разбора одного файла
type parser struct {
	src  []byte
	file source.FileID
	tree *ast.Tree
	opts Options
}

// ParseFile разбирает файл из fs. Синтаксические ошибки не прерывают разбор:
// они уходят в Reporter, а дерево строится из того, что удалось распознать.
// Ошибка возвращается только при отмене ctx или сбое самого tree-sitter.
func ParseFile(ctx context.Context, fs *source.FileSet, file source.FileID, opts Options) (Result, error) {
	f := fs.Get(file)
	if f == nil {
		return Result{}, fmt.Errorf("pyparse: unknown file %d", file)
	}

	tsParser := sitter.NewParser()
	defer tsParser.Close()
	tsParser.SetLanguage(python.GetLanguage())

	tsTree, err := tsParser.ParseCtx(ctx, nil, f.Content)
	if err != nil {
		return Result{}, fmt.Errorf("pyparse: %s: %w", f.Path, err)
	}
	defer tsTree.Close()
	root := tsTree.RootNode()

	hint, err := safecast.Conv[uint](len(f.Content) / 8)
	if err != nil {
		hint = 0
	}
	p := &parser{
		src:  f.Content,
		file: file,
		tree: ast.NewTree(file, ast.Hints{Nodes: hint}),
		opts: opts,
	}
	if opts.Reporter != nil {
		p.opts.Reporter = diag.NewDedupReporter(opts.Reporter)
	}
	if root.HasError() {
		p.reportErrors(root)
	}

	body := p.block(root)
	mod := p.tree.NewModule(opts.ModuleName, opts.Package, body)
	p.finish(mod, root)

	var bag *diag.Bag
	switch r := opts.Reporter.(type) {
	case diag.BagReporter:
		bag = r.Bag
	case *diag.BagReporter:
		bag = r.Bag
	}
	return Result{Tree: p.tree, Root: mod, Bag: bag}, nil
}

// reportErrors обходит поддерево и сообщает о каждом ERROR/MISSING узле.
func (p *parser) reportErrors(n *sitter.Node) {
	if p.opts.Enough() {
		return
	}
	switch {
	case n.IsMissing():
		p.report(diag.SynMissing, diag.SevError, n, fmt.Sprintf("missing %s", n.Type()))
		return
	case n.Type() == "ERROR":
		p.report(diag.SynError, diag.SevError, n, fmt.Sprintf("invalid syntax near %q", p.snippet(n)))
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c != nil && c.HasError() {
			p.reportErrors(c)
		}
	}
}

func (p *parser) report(code diag.Code, sev diag.Severity, n *sitter.Node, msg string) {
	if p.opts.Reporter == nil || p.opts.Enough() {
		return
	}
	if sev == diag.SevError {
		p.opts.CurrentErrors++
	}
	diag.NewReportBuilder(p.opts.Reporter, sev, code, p.span(n), msg).Emit()
}

func (p *parser) unsupported(n *sitter.Node) ast.NodeID {
	// ERROR/MISSING уже сообщены в reportErrors
	if n.Type() != "ERROR" && !n.IsMissing() {
		p.report(diag.SynUnsupported, diag.SevWarning, n, fmt.Sprintf("%s is not modelled, kept as an empty node", n.Type()))
	}
	id := p.tree.NewEmptyNode(p.line(n))
	p.finish(id, n)
	return id
}

func (p *parser) span(n *sitter.Node) source.Span {
	return source.Span{File: p.file, Start: n.StartByte(), End: n.EndByte()}
}

// line is the 1-based line the node starts on.
func (p *parser) line(n *sitter.Node) int {
	row, err := safecast.Conv[int](n.StartPoint().Row)
	if err != nil {
		panic(fmt.Errorf("pyparse: row overflow: %w", err))
	}
	return row + 1
}

func (p *parser) text(n *sitter.Node) string {
	return n.Content(p.src)
}

func (p *parser) snippet(n *sitter.Node) string {
	s := p.text(n)
	for i, r := range s {
		if r == '\n' || i >= 24 {
			return s[:i]
		}
	}
	return s
}

func (p *parser) finish(id ast.NodeID, n *sitter.Node) ast.NodeID {
	p.tree.SetSpan(id, p.span(n))
	if end := p.endLine(n); end > p.tree.Pos(id).ToLine {
		p.tree.SetExtent(id, 0, end)
	}
	return id
}

// endLine is the 1-based line of the last token of n. Trailing comments and
// zero-width tokens (dedent, missing) do not count; a token ending on column 0
// ends on the line before.
func (p *parser) endLine(n *sitter.Node) int {
	for {
		var last *sitter.Node
		for i := int(n.ChildCount()) - 1; i >= 0; i-- {
			c := n.Child(i)
			if c == nil || c.Type() == "comment" || c.StartByte() == c.EndByte() {
				continue
			}
			last = c
			break
		}
		if last == nil {
			break
		}
		n = last
	}
	start, end := n.StartPoint(), n.EndPoint()
	row, err := safecast.Conv[int](end.Row)
	if err != nil {
		panic(fmt.Errorf("pyparse: row overflow: %w", err))
	}
	if end.Column == 0 && end.Row > start.Row {
		return row
	}
	return row + 1
}

func namedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c == nil || c.Type() == "comment" {
			continue
		}
		out = append(out, c)
	}
	return out
}

func fieldChildren(n *sitter.Node, field string) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.FieldNameForChild(i) == field {
			out = append(out, n.Child(i))
		}
	}
	return out
}

func childOfType(n *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c != nil && c.Type() == typ {
			return c
		}
	}
	return nil
}

func same(a, b *sitter.Node) bool {
	return a != nil && b != nil && a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}
