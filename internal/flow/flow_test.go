package flow

import (
	"testing"

	"astroid/internal/ast"
)

type fixture struct {
	tree *ast.Tree
	mod  ast.NodeID

	ifStmt, elif         ast.NodeID
	forStmt, whileStmt   ast.NodeID
	try, tryFin, innerTE ast.NodeID
	with                 ast.NodeID
	handlerVE            ast.NodeID

	x, y, z, p, q, r, s, u, v, w, m, n, o, k ast.NodeID
}

// newFixture builds
//
//	 1 if a:
//	 2     x = 1
//	 3 elif b:
//	 4     y = 2
//	 5 else:
//	 6     z = 3
//	 7 for i in seq:
//	 8     p = 1
//	 9 else:
//	10     q = 2
//	11 while c:
//	12     r = 1
//	13 try:
//	14     s = 1
//	15 except ValueError:
//	16     u = 2
//	17 except:
//	18     v = 3
//	19 else:
//	20     w = 4
//	21 try:
//	22     m = 1
//	23 except KeyError as err:
//	24     n = 2
//	25 finally:
//	26     o = 3
//	27 with open(f) as fh:
//	28     k = 1
func newFixture() *fixture {
	t := ast.NewTree(0, ast.Hints{})
	f := &fixture{tree: t}
	assign := func(line int, name string) ast.NodeID {
		return t.NewAssign(line, []ast.NodeID{t.NewAssName(line, name)}, t.NewConst(line, ast.IntValue(int64(line))))
	}
	body := func(ids ...ast.NodeID) []ast.NodeID { return ids }

	f.x, f.y, f.z = assign(2, "x"), assign(4, "y"), assign(6, "z")
	f.elif = t.NewIf(3, t.NewName(3, "b"), body(f.y), body(f.z))
	f.ifStmt = t.NewIf(1, t.NewName(1, "a"), body(f.x), body(f.elif))

	f.p, f.q = assign(8, "p"), assign(10, "q")
	f.forStmt = t.NewFor(7, t.NewAssName(7, "i"), t.NewName(7, "seq"), body(f.p), body(f.q))

	f.r = assign(12, "r")
	f.whileStmt = t.NewWhile(11, t.NewName(11, "c"), body(f.r), nil)

	f.s, f.u, f.v, f.w = assign(14, "s"), assign(16, "u"), assign(18, "v"), assign(20, "w")
	f.handlerVE = t.NewExceptHandler(15, t.NewName(15, "ValueError"), ast.NoNodeID, body(f.u))
	bare := t.NewExceptHandler(17, ast.NoNodeID, ast.NoNodeID, body(f.v))
	f.try = t.NewTryExcept(13, body(f.s), body(f.handlerVE, bare), body(f.w))

	f.m, f.n, f.o = assign(22, "m"), assign(24, "n"), assign(26, "o")
	h := t.NewExceptHandler(23, t.NewName(23, "KeyError"), t.NewAssName(23, "err"), body(f.n))
	f.innerTE = t.NewTryExcept(21, body(f.m), body(h), nil)
	f.tryFin = t.NewTryFinally(21, body(f.innerTE), body(f.o))

	f.k = assign(28, "k")
	call := t.NewCallFunc(27, t.NewName(27, "open"), body(t.NewName(27, "f")), ast.NoNodeID, ast.NoNodeID)
	f.with = t.NewWith(27, call, t.NewAssName(27, "fh"), body(f.k))

	f.mod = t.NewModule("fixture", false, body(f.ifStmt, f.forStmt, f.whileStmt, f.try, f.tryFin, f.with))
	return f
}

func TestBlockRange(t *testing.T) {
	f := newFixture()
	type lr struct{ line, from, to int }
	tests := []struct {
		name  string
		node  ast.NodeID
		cases []lr
	}{
		{"if", f.ifStmt, []lr{{1, 1, 2}, {2, 2, 2}, {3, 3, 6}, {5, 5, 6}, {6, 6, 6}}},
		{"elif", f.elif, []lr{{4, 4, 4}, {5, 5, 5}, {6, 6, 6}}},
		{"for", f.forStmt, []lr{{7, 7, 7}, {8, 8, 9}, {9, 9, 9}, {10, 10, 10}}},
		{"while", f.whileStmt, []lr{{11, 11, 11}, {12, 12, 12}}},
		{"try/except", f.try, []lr{
			{13, 13, 13}, {14, 14, 19}, {15, 15, 15}, {16, 16, 16},
			{17, 17, 17}, {18, 18, 18}, {19, 19, 19}, {20, 20, 20},
		}},
		{"try/except/finally", f.tryFin, []lr{
			{21, 21, 21}, {22, 22, 23}, {23, 23, 23}, {24, 24, 24}, {25, 25, 25}, {26, 26, 26},
		}},
		{"with", f.with, []lr{{27, 27, 28}, {28, 28, 28}}},
		{"plain statement", f.x, []lr{{2, 2, 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, c := range tt.cases {
				from, to := BlockRange(f.tree, tt.node, c.line)
				if from != c.from || to != c.to {
					t.Errorf("line %d: got (%d, %d), want (%d, %d)", c.line, from, to, c.from, c.to)
				}
			}
		})
	}
}

func TestBlockRangeStaysInsideNode(t *testing.T) {
	f := newFixture()
	for _, id := range f.tree.NodesOfKind(f.mod) {
		owner, ok := AsBlockOwner(f.tree, id)
		if !ok {
			continue
		}
		pos := f.tree.Pos(id)
		for line := pos.FromLine; line <= pos.ToLine; line++ {
			from, to := owner.BlockRange(line)
			if from > to || from < pos.FromLine || to > pos.ToLine {
				t.Errorf("%s at %d, line %d: range (%d, %d) outside (%d, %d)",
					f.tree.Kind(id), pos.Line, line, from, to, pos.FromLine, pos.ToLine)
			}
		}
	}
}

func TestAsBlockOwner(t *testing.T) {
	f := newFixture()
	for _, id := range []ast.NodeID{f.ifStmt, f.forStmt, f.whileStmt, f.try, f.tryFin, f.with} {
		o, ok := AsBlockOwner(f.tree, id)
		if !ok || o.Node() != id {
			t.Errorf("%s is not a block owner", f.tree.Kind(id))
		}
	}
	if _, ok := AsBlockOwner(f.tree, f.x); ok {
		t.Error("assignment must not own blocks")
	}
}

func TestAreExclusive(t *testing.T) {
	f := newFixture()
	tests := []struct {
		name       string
		a, b       ast.NodeID
		exceptions []string
		want       bool
	}{
		{"if body vs elif body", f.x, f.y, nil, true},
		{"elif body vs else", f.y, f.z, nil, true},
		{"if body vs nested else", f.x, f.z, nil, true},
		{"if branches with exceptions", f.x, f.z, []string{"ValueError"}, false},
		{"loop body vs loop else", f.p, f.q, nil, false},
		{"try body vs caught handler", f.s, f.u, []string{"ValueError"}, true},
		{"try body vs uncaught handler", f.s, f.u, []string{"TypeError"}, false},
		{"try body vs handler without filter", f.s, f.u, nil, true},
		{"try body vs bare handler", f.s, f.v, []string{"TypeError"}, true},
		{"two handlers", f.u, f.v, nil, true},
		{"same handler", f.u, f.handlerVE, nil, false},
		{"handler vs else", f.u, f.w, nil, true},
		{"try body vs else", f.s, f.w, nil, false},
		{"different top level statements", f.x, f.s, nil, false},
		{"ancestor", f.ifStmt, f.y, nil, false},
		{"nested try body vs finally", f.m, f.o, nil, false},
		{"nested try body vs handler", f.m, f.n, []string{"KeyError"}, true},
		{"same statement", f.x, f.x, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AreExclusive(f.tree, tt.a, tt.b, tt.exceptions); got != tt.want {
				t.Errorf("AreExclusive(a, b) = %v, want %v", got, tt.want)
			}
			if got := AreExclusive(f.tree, tt.b, tt.a, tt.exceptions); got != tt.want {
				t.Errorf("AreExclusive(b, a) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAreExclusiveIsSymmetric(t *testing.T) {
	f := newFixture()
	var stmts []ast.NodeID
	for _, id := range f.tree.NodesOfKind(f.mod) {
		if f.tree.Kind(id).IsStatement() {
			stmts = append(stmts, id)
		}
	}
	for _, exc := range [][]string{nil, {"ValueError"}, {}} {
		for _, a := range stmts {
			for _, b := range stmts {
				if AreExclusive(f.tree, a, b, exc) != AreExclusive(f.tree, b, a, exc) {
					t.Fatalf("asymmetric for %s@%d / %s@%d with %v",
						f.tree.Kind(a), f.tree.Pos(a).Line, f.tree.Kind(b), f.tree.Pos(b).Line, exc)
				}
				if (f.tree.IsAncestor(a, b) || f.tree.IsAncestor(b, a)) && AreExclusive(f.tree, a, b, exc) {
					t.Fatalf("ancestor pair %d/%d reported exclusive", a, b)
				}
			}
		}
	}
}

func TestAreExclusiveDisjointTrees(t *testing.T) {
	f := newFixture()
	// a detached statement in the same arena has no common ancestor
	stray := f.tree.NewIf(40, f.tree.NewName(40, "a"), []ast.NodeID{f.tree.NewPass(41)}, nil)
	if AreExclusive(f.tree, f.x, stray, nil) {
		t.Error("statements without a common ancestor must not be exclusive")
	}
}
