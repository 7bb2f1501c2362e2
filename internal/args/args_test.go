package args

import (
	"errors"
	"testing"

	"astroid/internal/ast"
	"astroid/internal/infer"
)

func render(t *ast.Tree, id ast.NodeID) string {
	if c, ok := t.Const(id); ok {
		return c.Value.String()
	}
	if n, ok := t.NameOf(id); ok {
		return n
	}
	return "?"
}

// def f(a, b=1, c=2, *rest, **opts)
func simpleSignature() (*ast.Tree, ast.NodeID, ast.NodeID) {
	t := ast.NewTree(0, ast.Hints{})
	one := t.NewConst(1, ast.IntValue(1))
	params := []ast.NodeID{t.NewAssName(1, "a"), t.NewAssName(1, "b"), t.NewAssName(1, "c")}
	argsID := t.NewArguments(params, []ast.NodeID{one, t.NewConst(1, ast.IntValue(2))}, "rest", "opts")
	fn := t.NewFunctionDef(1, "f", ast.NoNodeID, argsID, []ast.NodeID{t.NewPass(2)})
	t.NewModule("m", false, []ast.NodeID{fn})
	return t, argsID, fn
}

// def g(x, (y, (z, w)), v=None)
func unpackingSignature() (*ast.Tree, ast.NodeID) {
	t := ast.NewTree(0, ast.Hints{})
	nested := t.NewTuple(1, []ast.NodeID{t.NewAssName(1, "z"), t.NewAssName(1, "w")})
	pair := t.NewTuple(1, []ast.NodeID{t.NewAssName(1, "y"), nested})
	params := []ast.NodeID{t.NewAssName(1, "x"), pair, t.NewAssName(1, "v")}
	return t, t.NewArguments(params, []ast.NodeID{t.NewConst(1, ast.NoneValue())}, "", "")
}

func TestDefaultValue(t *testing.T) {
	tree, argsID, _ := simpleSignature()
	tests := []struct {
		name string
		want int64
		err  error
	}{
		{"a", 0, infer.ErrNoDefault},
		{"b", 1, nil},
		{"c", 2, nil},
		{"rest", 0, infer.ErrNoDefault},
		{"missing", 0, infer.ErrNoDefault},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := DefaultValue(tree, argsID, tt.name)
			if tt.err != nil {
				if !errors.Is(err, tt.err) || !errors.Is(err, infer.ErrNotFound) {
					t.Fatalf("err = %v, want %v", err, tt.err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			c, ok := tree.Const(id)
			if !ok || c.Value.Int != tt.want {
				t.Fatalf("default = %v, want %d", c, tt.want)
			}
		})
	}
}

func TestDefaultNoneIsAValue(t *testing.T) {
	tree, argsID := unpackingSignature()
	id, err := DefaultValue(tree, argsID, "v")
	if err != nil {
		t.Fatal(err)
	}
	if c, _ := tree.Const(id); c.Value.Kind != ast.ConstNone {
		t.Fatalf("default of v = %v, want None", c.Value)
	}
}

func TestFindArgname(t *testing.T) {
	tree, argsID := unpackingSignature()
	tests := []struct {
		name      string
		recursive bool
		wantIdx   int
		found     bool
	}{
		{"x", false, 0, true},
		{"y", false, -1, false},
		// y и w вложены во второй позиционный параметр (y, (z, w))
		{"y", true, 1, true},
		{"w", true, 1, true},
		{"v", true, 2, true},
		{"nope", true, -1, false},
	}
	for _, tt := range tests {
		idx, id := FindArgname(tree, argsID, tt.name, tt.recursive)
		if idx != tt.wantIdx || id.IsValid() != tt.found {
			t.Errorf("FindArgname(%q, %v) = %d, %d", tt.name, tt.recursive, idx, id)
			continue
		}
		if tt.found {
			if got, _ := tree.NameOf(id); got != tt.name {
				t.Errorf("FindArgname(%q) matched %q", tt.name, got)
			}
		}
	}

	opaque := tree.NewOpaqueArguments()
	if idx, id := FindArgname(tree, opaque, "x", true); idx != -1 || id.IsValid() {
		t.Errorf("opaque signature matched %d, %d", idx, id)
	}
}

func TestIsArgument(t *testing.T) {
	tree, argsID, _ := simpleSignature()
	for name, want := range map[string]bool{"a": true, "c": true, "rest": true, "opts": true, "d": false, "": false} {
		if got := IsArgument(tree, argsID, name); got != want {
			t.Errorf("IsArgument(%q) = %v, want %v", name, got, want)
		}
	}
	utree, uargs := unpackingSignature()
	if IsArgument(utree, uargs, "z") {
		t.Error("names inside unpacking parameters are not top-level arguments")
	}
}

func TestFormatArgs(t *testing.T) {
	tree, argsID, _ := simpleSignature()
	if got, want := FormatArgs(tree, argsID, render), "a, b=1, c=2, *rest, **opts"; got != want {
		t.Errorf("FormatArgs = %q, want %q", got, want)
	}
	utree, uargs := unpackingSignature()
	if got, want := FormatArgs(utree, uargs, render), "x, (y, (z, w)), v=None"; got != want {
		t.Errorf("FormatArgs = %q, want %q", got, want)
	}
	empty := utree.NewArguments(nil, nil, "", "kw")
	if got := FormatArgs(utree, empty, render); got != "**kw" {
		t.Errorf("FormatArgs = %q, want **kw", got)
	}
}

func TestInferName(t *testing.T) {
	tree, argsID, fn := simpleSignature()
	if name, ok := InferName(tree, argsID, fn, "a"); !ok || name != "a" {
		t.Errorf("InferName in own frame = %q, %v", name, ok)
	}
	if _, ok := InferName(tree, argsID, tree.Root, "a"); ok {
		t.Error("parameters must not bind names in the module frame")
	}
}

func TestParams(t *testing.T) {
	tree, argsID := unpackingSignature()
	got := Params(tree, argsID)
	want := []struct {
		name  string
		index int
		def   bool
	}{{"x", 0, false}, {"y", 1, false}, {"z", 1, false}, {"w", 1, false}, {"v", 2, true}}
	if len(got) != len(want) {
		t.Fatalf("Params = %+v", got)
	}
	for i, w := range want {
		if got[i].Name != w.name || got[i].Index != w.index || got[i].Default.IsValid() != w.def {
			t.Errorf("param %d = %+v, want %+v", i, got[i], w)
		}
	}

	stree, sargs, _ := simpleSignature()
	sp := Params(stree, sargs)
	if last := sp[len(sp)-1]; last.Kind != Kwarg || last.Name != "opts" {
		t.Errorf("last param = %+v", last)
	}
}
