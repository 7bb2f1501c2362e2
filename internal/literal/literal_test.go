package literal

import (
	"errors"
	"math"
	"testing"

	"astroid/internal/ast"
	"astroid/internal/infer"
)

func TestConstFactory(t *testing.T) {
	tree := ast.NewTree(0, ast.Hints{})
	tests := []struct {
		name  string
		value any
		kind  ast.Kind
		want  ast.ConstValue
	}{
		{"list", []any{1, 2}, ast.KindList, ast.ConstValue{}},
		{"tuple", TupleValue{1}, ast.KindTuple, ast.ConstValue{}},
		{"dict", map[string]any{"a": 1}, ast.KindDict, ast.ConstValue{}},
		{"none", nil, ast.KindConst, ast.NoneValue()},
		{"bool", true, ast.KindConst, ast.BoolValue(true)},
		{"int", 42, ast.KindConst, ast.IntValue(42)},
		{"uint8", uint8(7), ast.KindConst, ast.IntValue(7)},
		{"float", 1.5, ast.KindConst, ast.FloatValue(1.5)},
		{"complex", complex(0, 2), ast.KindConst, ast.ComplexValue(complex(0, 2))},
		{"string", "héllo", ast.KindConst, ast.StrValue("héllo")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ConstFactory(tree, tt.value)
			if err != nil {
				t.Fatal(err)
			}
			if tree.Kind(id) != tt.kind {
				t.Fatalf("kind = %s, want %s", tree.Kind(id), tt.kind)
			}
			if tt.kind != ast.KindConst {
				elems, err := Itered(tree, id)
				if err != nil || len(elems) != 0 {
					t.Fatalf("Itered = %v, %v; want empty", elems, err)
				}
				return
			}
			c, _ := tree.Const(id)
			if c.Value != tt.want {
				t.Fatalf("value = %#v, want %#v", c.Value, tt.want)
			}
		})
	}
}

func TestConstFactoryRejects(t *testing.T) {
	tree := ast.NewTree(0, ast.Hints{})
	for _, v := range []any{struct{}{}, []int{1}, &tree, make(chan int)} {
		if _, err := ConstFactory(tree, v); !errors.Is(err, infer.ErrInvalidOperation) {
			t.Errorf("ConstFactory(%T) err = %v", v, err)
		}
	}
}

func TestConstFactoryHugeUnsigned(t *testing.T) {
	tree := ast.NewTree(0, ast.Hints{})
	id, err := ConstFactory(tree, uint64(math.MaxUint64))
	if err != nil {
		t.Fatal(err)
	}
	c, _ := tree.Const(id)
	if c.Value.Kind != ast.ConstInt || c.Value.String() != "18446744073709551615" {
		t.Fatalf("value = %#v", c.Value)
	}
}

func TestStringProtocol(t *testing.T) {
	tree := ast.NewTree(0, ast.Hints{})
	s := tree.NewConst(1, ast.StrValue("añb"))
	elems, err := Itered(tree, s)
	if err != nil {
		t.Fatal(err)
	}
	if len(elems) != 3 || elems[1].Text != "ñ" || elems[1].IsNode() {
		t.Fatalf("Itered = %+v", elems)
	}
	got, err := Getitem(nil, nil, tree, s, ast.IntValue(-1))
	if err != nil || got.Text != "b" {
		t.Fatalf("s[-1] = %+v, %v", got, err)
	}
	if _, err := Getitem(nil, nil, tree, s, ast.IntValue(3)); !errors.Is(err, infer.ErrNotFound) {
		t.Fatalf("s[3] err = %v", err)
	}
	if _, err := Getitem(nil, nil, tree, s, ast.StrValue("x")); !errors.Is(err, infer.ErrInvalidOperation) {
		t.Fatalf("s['x'] err = %v", err)
	}
	if got := Pytype(tree, s); got != "__builtin__.str" {
		t.Fatalf("Pytype = %q", got)
	}
}

func TestNumbersAreNotIndexable(t *testing.T) {
	tree := ast.NewTree(0, ast.Hints{})
	n := tree.NewConst(1, ast.IntValue(3))
	if _, err := Itered(tree, n); !errors.Is(err, infer.ErrInvalidOperation) {
		t.Errorf("Itered err = %v", err)
	}
	if _, err := Getitem(nil, nil, tree, n, ast.IntValue(0)); !errors.Is(err, infer.ErrInvalidOperation) {
		t.Errorf("Getitem err = %v", err)
	}
	if _, err := Itered(tree, tree.NewName(1, "x")); !errors.Is(err, infer.ErrInvalidOperation) {
		t.Errorf("Itered(Name) err = %v", err)
	}
	if got := Pytype(tree, n); got != "__builtin__.int" {
		t.Errorf("Pytype = %q", got)
	}
}

func TestSequences(t *testing.T) {
	tree := ast.NewTree(0, ast.Hints{})
	a, b := tree.NewName(1, "a"), tree.NewName(1, "b")
	tup := tree.NewTuple(1, []ast.NodeID{a, b})
	got, err := Getitem(nil, nil, tree, tup, ast.IntValue(1))
	if err != nil || got.Node != b {
		t.Fatalf("t[1] = %+v, %v", got, err)
	}
	if _, err := Getitem(nil, nil, tree, tup, ast.IntValue(-3)); !errors.Is(err, infer.ErrNotFound) {
		t.Fatalf("t[-3] err = %v", err)
	}
	if Pytype(tree, tup) != "__builtin__.tuple" || Pytype(tree, tree.NewList(1, nil)) != "__builtin__.list" {
		t.Fatal("sequence pytypes wrong")
	}
}

func TestDictGetitem(t *testing.T) {
	tree := ast.NewTree(0, ast.Hints{})
	unknownKey := tree.NewCallFunc(1, tree.NewName(1, "key"), nil, ast.NoNodeID, ast.NoNodeID)
	ka, v1 := tree.NewConst(1, ast.StrValue("a")), tree.NewName(1, "one")
	kb, v2 := tree.NewConst(1, ast.StrValue("b")), tree.NewName(1, "two")
	kn, v3 := tree.NewConst(1, ast.IntValue(1)), tree.NewName(1, "three")
	d := tree.NewDict(1, []ast.DictItem{
		{Key: unknownKey, Value: tree.NewName(1, "zero")},
		{Key: ka, Value: v1}, {Key: kb, Value: v2}, {Key: kn, Value: v3},
	})

	tests := []struct {
		name string
		key  ast.ConstValue
		want ast.NodeID
		err  error
	}{
		{"b", ast.StrValue("b"), v2, nil},
		{"a", ast.StrValue("a"), v1, nil},
		{"numeric equality", ast.FloatValue(1.0), v3, nil},
		{"missing", ast.StrValue("z"), ast.NoNodeID, infer.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Getitem(infer.NewContext(), infer.Literal{}, tree, d, tt.key)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("err = %v, want %v", err, tt.err)
				}
				return
			}
			if err != nil || got.Node != tt.want {
				t.Fatalf("got %+v, %v; want node %d", got, err, tt.want)
			}
		})
	}

	keys, _ := Itered(tree, d)
	if len(keys) != 4 || keys[1].Node != ka {
		t.Fatalf("Itered = %+v", keys)
	}
	if Pytype(tree, d) != "__builtin__.dict" {
		t.Fatal("dict pytype wrong")
	}
}

func TestDictGetitemPropagatesInferenceFailure(t *testing.T) {
	tree := ast.NewTree(0, ast.Hints{})
	d := tree.NewDict(1, []ast.DictItem{{Key: tree.NewName(1, "k"), Value: tree.NewName(1, "v")}})
	failing := infer.EngineFunc(func(*infer.Context, infer.Value) ([]infer.Value, error) {
		return nil, infer.ErrInferenceFailed
	})
	if _, err := Getitem(nil, failing, tree, d, ast.StrValue("k")); !errors.Is(err, infer.ErrInferenceFailed) {
		t.Fatalf("err = %v", err)
	}
}
