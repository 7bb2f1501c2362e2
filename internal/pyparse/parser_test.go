package pyparse

import (
	"context"
	"testing"

	"astroid/internal/ast"
	"astroid/internal/diag"
	"astroid/internal/flow"
	"astroid/internal/source"
)

// parseSource - хелпер: разбирает строку как модуль "mod".
func parseSource(t *testing.T, src string) (Result, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("mod.py", []byte(src))
	bag := diag.NewBag(100)
	res, err := ParseFile(context.Background(), fs, id, Options{
		ModuleName: "mod",
		MaxErrors:  100,
		Reporter:   diag.BagReporter{Bag: bag},
	})
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	return res, bag
}

func body(t *testing.T, res Result) []ast.NodeID {
	t.Helper()
	mod, ok := res.Tree.Module(res.Root)
	if !ok {
		t.Fatalf("root is %s, want Module", res.Tree.Kind(res.Root))
	}
	return mod.Body
}

func kinds(tree *ast.Tree, ids []ast.NodeID) []ast.Kind {
	out := make([]ast.Kind, len(ids))
	for i, id := range ids {
		out[i] = tree.Kind(id)
	}
	return out
}

func sameKinds(a, b []ast.Kind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestParseStatements(t *testing.T) {
	src := `import os.path, sys as system
from ..pkg import a as b, c
from mod import *
x = y = 1
x += 2
del x
f(x)
pass
`
	res, bag := parseSource(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	tree := res.Tree
	stmts := body(t, res)
	want := []ast.Kind{
		ast.KindImport, ast.KindFrom, ast.KindFrom, ast.KindAssign,
		ast.KindAugAssign, ast.KindDelete, ast.KindDiscard, ast.KindPass,
	}
	if got := kinds(tree, stmts); !sameKinds(got, want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}

	imp, _ := tree.Import(stmts[0])
	if len(imp.Names) != 2 || imp.Names[0] != (ast.ImportName{Name: "os.path"}) ||
		imp.Names[1] != (ast.ImportName{Name: "sys", AsName: "system"}) {
		t.Errorf("import names = %+v", imp.Names)
	}
	from, _ := tree.From(stmts[1])
	if from.Modname != "pkg" || from.Level != 2 || len(from.Names) != 2 || from.Names[0].AsName != "b" {
		t.Errorf("from = %+v", from)
	}
	star, _ := tree.From(stmts[2])
	if len(star.Names) != 1 || star.Names[0].Name != "*" {
		t.Errorf("wildcard names = %+v", star.Names)
	}

	assign, _ := tree.Assign(stmts[3])
	if len(assign.Targets) != 2 {
		t.Fatalf("chained assign targets = %d, want 2", len(assign.Targets))
	}
	for _, target := range assign.Targets {
		if tree.Kind(target) != ast.KindAssName {
			t.Errorf("target kind = %s, want AssName", tree.Kind(target))
		}
	}
	del, _ := tree.Delete(stmts[5])
	if len(del.Targets) != 1 || tree.Kind(del.Targets[0]) != ast.KindDelName {
		t.Errorf("delete targets = %v", kinds(tree, del.Targets))
	}
	if p := tree.Pos(stmts[7]); p.Line != 8 || p.FromLine != 8 || p.ToLine != 8 {
		t.Errorf("pass pos = %+v", p)
	}
}

func TestParseIfElifElse(t *testing.T) {
	src := `if a:
    x = 1
elif b:
    x = 2
else:
    x = 3
`
	res, _ := parseSource(t, src)
	tree := res.Tree
	stmts := body(t, res)
	if len(stmts) != 1 {
		t.Fatalf("statements = %d", len(stmts))
	}
	outer, ok := tree.If(stmts[0])
	if !ok {
		t.Fatalf("kind = %s, want If", tree.Kind(stmts[0]))
	}
	if len(outer.Orelse) != 1 || tree.Kind(outer.Orelse[0]) != ast.KindIf {
		t.Fatalf("elif must become a nested If, got %v", kinds(tree, outer.Orelse))
	}
	inner, _ := tree.If(outer.Orelse[0])
	if len(inner.Orelse) != 1 || tree.Pos(inner.Orelse[0]).Line != 6 {
		t.Errorf("else body = %v", inner.Orelse)
	}
	if p := tree.Pos(stmts[0]); p.FromLine != 1 || p.ToLine != 6 || p.BlockStartToLine != 1 {
		t.Errorf("if pos = %+v", p)
	}
	if p := tree.Pos(outer.Orelse[0]); p.Line != 3 || p.ToLine != 6 {
		t.Errorf("elif pos = %+v", p)
	}
}

func TestParseTryExceptFinally(t *testing.T) {
	src := `try:
    run()
except (ValueError, os.error) as exc:
    handle(exc)
except:
    pass
else:
    done()
finally:
    cleanup()
`
	res, _ := parseSource(t, src)
	tree := res.Tree
	stmts := body(t, res)
	tf, ok := tree.TryFinally(stmts[0])
	if !ok {
		t.Fatalf("kind = %s, want TryFinally", tree.Kind(stmts[0]))
	}
	if len(tf.Body) != 1 || tree.Kind(tf.Body[0]) != ast.KindTryExcept {
		t.Fatalf("finally body must wrap a TryExcept, got %v", kinds(tree, tf.Body))
	}
	if tree.Pos(tf.Body[0]).Line != 1 {
		t.Errorf("nested TryExcept line = %d, want 1", tree.Pos(tf.Body[0]).Line)
	}
	te, _ := tree.TryExcept(tf.Body[0])
	if len(te.Handlers) != 2 || len(te.Orelse) != 1 || len(tf.Finalbody) != 1 {
		t.Fatalf("handlers=%d orelse=%d final=%d", len(te.Handlers), len(te.Orelse), len(tf.Finalbody))
	}
	h, _ := tree.ExceptHandler(te.Handlers[0])
	if tree.Kind(h.Type) != ast.KindTuple || tree.Kind(h.Name) != ast.KindAssName {
		t.Errorf("handler type=%s name=%s", tree.Kind(h.Type), tree.Kind(h.Name))
	}
	if !tree.Catches(te.Handlers[0], []string{"os"}) || tree.Catches(te.Handlers[0], []string{"error"}) {
		t.Error("typed handler catch test is wrong")
	}
	bare, _ := tree.ExceptHandler(te.Handlers[1])
	if bare.Type.IsValid() || bare.Name.IsValid() {
		t.Errorf("bare handler = %+v", bare)
	}
}

func TestParseWithNests(t *testing.T) {
	res, _ := parseSource(t, "with open(a) as f, lock:\n    f.read()\n")
	tree := res.Tree
	stmts := body(t, res)
	outer, ok := tree.With(stmts[0])
	if !ok {
		t.Fatalf("kind = %s, want With", tree.Kind(stmts[0]))
	}
	if tree.Kind(outer.Expr) != ast.KindCallFunc || tree.Kind(outer.Vars) != ast.KindAssName {
		t.Errorf("outer with expr=%s vars=%s", tree.Kind(outer.Expr), tree.Kind(outer.Vars))
	}
	if len(outer.Body) != 1 || tree.Kind(outer.Body[0]) != ast.KindWith {
		t.Fatalf("second item must nest, got %v", kinds(tree, outer.Body))
	}
	inner, _ := tree.With(outer.Body[0])
	if inner.Vars.IsValid() || tree.Kind(inner.Expr) != ast.KindName {
		t.Errorf("inner with = %+v", inner)
	}
}

func TestParseFunctionArguments(t *testing.T) {
	src := `@decorator
@other(1)
def f(a, b=1, *args, c, d=2, **kw):
    return a
`
	res, bag := parseSource(t, src)
	tree := res.Tree
	stmts := body(t, res)
	fn, ok := tree.FunctionDef(stmts[0])
	if !ok {
		t.Fatalf("kind = %s, want Function", tree.Kind(stmts[0]))
	}
	if tree.Pos(stmts[0]).Line != 3 {
		t.Errorf("def line = %d, want 3", tree.Pos(stmts[0]).Line)
	}
	decs, ok := tree.DecoratorsOf(fn.Decorators)
	if !ok || len(decs.Nodes) != 2 {
		t.Fatalf("decorators = %+v", decs)
	}
	args, _ := tree.ArgumentsOf(fn.Args)
	if len(args.Args) != 4 {
		t.Fatalf("args = %d, want 4", len(args.Args))
	}
	// только хвост с умолчаниями: d=2; b=1 отброшен, так как за ним идёт c
	if len(args.Defaults) != 1 {
		t.Fatalf("defaults = %d, want 1", len(args.Defaults))
	}
	if tree.Str(args.Vararg) != "args" || tree.Str(args.Kwarg) != "kw" {
		t.Errorf("vararg=%q kwarg=%q", tree.Str(args.Vararg), tree.Str(args.Kwarg))
	}
	if bag.Len() == 0 {
		t.Error("dropped default must be reported")
	}
}

func TestParseExpressions(t *testing.T) {
	src := `s = {1, 2}
d = {k: v for k, v in items if k}
c = a < b <= c
n = not a and b and c
t = x[1:2]
l = lambda q, r=3: q
`
	res, _ := parseSource(t, src)
	tree := res.Tree
	value := func(i int) ast.NodeID {
		a, ok := tree.Assign(body(t, res)[i])
		if !ok {
			t.Fatalf("statement %d is %s", i, tree.Kind(body(t, res)[i]))
		}
		return a.Value
	}

	call, ok := tree.CallFunc(value(0))
	if !ok {
		t.Fatalf("set display = %s, want CallFunc", tree.Kind(value(0)))
	}
	if name, _ := tree.NameOf(call.Func); name != "set" || len(call.Args) != 1 || tree.Kind(call.Args[0]) != ast.KindList {
		t.Errorf("set call = %+v", call)
	}

	comp, ok := tree.ListComp(value(1))
	if !ok {
		t.Fatalf("dict comprehension = %s, want ListComp", tree.Kind(value(1)))
	}
	if tree.Kind(comp.Elt) != ast.KindTuple || len(comp.Generators) != 1 {
		t.Errorf("dict comp = %+v", comp)
	}
	gen, _ := tree.Comprehension(comp.Generators[0])
	if tree.Kind(gen.Target) != ast.KindTuple || len(gen.Ifs) != 1 {
		t.Errorf("comprehension = %+v", gen)
	}

	cmp, _ := tree.Compare(value(2))
	if len(cmp.Ops) != 2 || cmp.Ops[0].Op != "<" || cmp.Ops[1].Op != "<=" {
		t.Errorf("compare ops = %+v", cmp.Ops)
	}

	boolOp, _ := tree.BoolOp(value(3))
	if boolOp.Op != "and" || len(boolOp.Values) != 3 || tree.Kind(boolOp.Values[0]) != ast.KindUnaryOp {
		t.Errorf("bool op = %+v", boolOp)
	}

	sub, _ := tree.Subscript(value(4))
	if tree.Kind(sub.Slice) != ast.KindSlice {
		t.Errorf("slice kind = %s", tree.Kind(sub.Slice))
	}

	lam, _ := tree.Lambda(value(5))
	largs, _ := tree.ArgumentsOf(lam.Args)
	if len(largs.Args) != 2 || len(largs.Defaults) != 1 {
		t.Errorf("lambda args = %+v", largs)
	}
}

func TestParseReportsSyntaxErrors(t *testing.T) {
	res, bag := parseSource(t, "def f(:\n    pass\nx = 1\n")
	if !bag.HasErrors() {
		t.Fatal("expected a syntax error")
	}
	if res.Tree == nil || !res.Root.IsValid() {
		t.Fatal("a tree must be built even for broken input")
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.SynError || d.Code == diag.SynMissing {
			found = true
		}
	}
	if !found {
		t.Errorf("no syntax diagnostic among %v", bag.Items())
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want ast.ConstValue
	}{
		{"42", ast.IntValue(42)},
		{"1_000", ast.IntValue(1000)},
		{"0x1F", ast.IntValue(31)},
		{"0o17", ast.IntValue(15)},
		{"017", ast.IntValue(15)},
		{"0b101", ast.IntValue(5)},
		{"10L", ast.IntValue(10)},
		{"1.5", ast.FloatValue(1.5)},
		{"1e3", ast.FloatValue(1000)},
		{"2j", ast.ComplexValue(complex(0, 2))},
		{"99999999999999999999", ast.ConstValue{Kind: ast.ConstInt, Raw: "99999999999999999999"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseNumber(tt.in)
			if err != nil {
				t.Fatalf("parseNumber(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("parseNumber(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		in, want string
		wantErr  bool
	}{
		{`'abc'`, "abc", false},
		{`"it's"`, "it's", false},
		{`'a\nb'`, "a\nb", false},
		{`r'a\nb'`, `a\nb`, false},
		{`u'é'`, "é", false},
		{`b'\x41\101'`, "AA", false},
		{`"""multi
line"""`, "multi\nline", false},
		{`'\q'`, `\q`, false},
		{`'\x4'`, `\x4`, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := unquote(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("unquote(%s) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("unquote(%s) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseMultilineExtent(t *testing.T) {
	src := `if a:
    x = [
        1,
    ]
y = f(
    2)
s = """one
two"""  # trailing
`
	res, bag := parseSource(t, src)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	tree := res.Tree
	stmts := body(t, res)
	if len(stmts) != 3 {
		t.Fatalf("statements = %v", kinds(tree, stmts))
	}
	ifNode, _ := tree.If(stmts[0])

	tests := []struct {
		name           string
		id             ast.NodeID
		line, from, to int
	}{
		{"if", stmts[0], 1, 1, 4},
		{"list assign", ifNode.Body[0], 2, 2, 4},
		{"call", stmts[1], 5, 5, 6},
		{"triple-quoted string", stmts[2], 7, 7, 8},
	}
	for _, tt := range tests {
		p := tree.Pos(tt.id)
		if p.Line != tt.line || p.FromLine != tt.from || p.ToLine != tt.to {
			t.Errorf("%s pos = %+v, want %d (%d-%d)", tt.name, p, tt.line, tt.from, tt.to)
		}
	}

	for _, line := range []int{3, 4} {
		if got := tree.InnermostBlockAt(res.Root, line); got != stmts[0] {
			t.Fatalf("InnermostBlockAt(%d) = %v, want the if", line, got)
		}
		if from, to := flow.BlockRange(tree, stmts[0], line); from != line || to != 4 {
			t.Errorf("BlockRange(if, %d) = %d-%d, want %d-4", line, from, to, line)
		}
	}
}

func TestParseDecoratedExtent(t *testing.T) {
	src := `@dec
@other(1)
def f(a,
      b=1):
    pass
`
	res, _ := parseSource(t, src)
	tree := res.Tree
	stmts := body(t, res)
	fn, ok := tree.FunctionDef(stmts[0])
	if !ok {
		t.Fatalf("kind = %s, want FunctionDef", tree.Kind(stmts[0]))
	}
	p := tree.Pos(stmts[0])
	if p.Line != 3 || p.FromLine != 1 || p.ToLine != 5 || p.BlockStartToLine != 4 {
		t.Errorf("function pos = %+v", p)
	}
	for _, c := range tree.Children(stmts[0]) {
		cp := tree.Pos(c)
		if cp.FromLine < p.FromLine || cp.ToLine > p.ToLine {
			t.Errorf("child %s (%d-%d) outside function (%d-%d)", tree.Kind(c), cp.FromLine, cp.ToLine, p.FromLine, p.ToLine)
		}
	}
	if d := tree.Pos(fn.Decorators); d.FromLine != 1 || d.ToLine != 2 {
		t.Errorf("decorators pos = %+v", d)
	}
}
