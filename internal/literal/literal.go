// Package literal lets constant, list, tuple and dict nodes be iterated and
// indexed the same way, and builds literal nodes from Go values.
package literal

import (
	"fmt"

	"astroid/internal/ast"
	"astroid/internal/infer"
)

// Element is one item of a literal. Containers yield nodes; strings yield
// their characters, which have no node of their own.
type Element struct {
	Node ast.NodeID
	Text string
}

func (e Element) IsNode() bool { return e.Node.IsValid() }

// Value is a literal node with a fixed runtime category.
type Value interface {
	Node() ast.NodeID
	// Pytype is the qualified name of the builtin type of the value.
	Pytype() string
}

type Iterable interface {
	Value
	Itered() ([]Element, error)
}

// Indexable supports subscripting. Dict keys are compared against the
// inferred values of the key expressions, which is why the engine is needed.
type Indexable interface {
	Value
	Getitem(ictx *infer.Context, eng infer.Engine, key ast.ConstValue) (Element, error)
}

// Of returns the literal view of id. Every view implements both Iterable
// and Indexable; whether an operation is legal depends on the value.
func Of(t *ast.Tree, id ast.NodeID) (Value, bool) {
	switch t.Kind(id) {
	case ast.KindConst:
		return constValue{t: t, id: id}, true
	case ast.KindList:
		d, _ := t.List(id)
		return sequence{id: id, elts: d.Elts, pytype: "__builtin__.list"}, true
	case ast.KindTuple:
		d, _ := t.Tuple(id)
		return sequence{id: id, elts: d.Elts, pytype: "__builtin__.tuple"}, true
	case ast.KindDict:
		return dict{t: t, id: id}, true
	}
	return nil, false
}

// Itered iterates id if it is an iterable literal.
func Itered(t *ast.Tree, id ast.NodeID) ([]Element, error) {
	v, ok := Of(t, id)
	it, isIter := v.(Iterable)
	if !ok || !isIter {
		return nil, fmt.Errorf("%w: %s is not iterable", infer.ErrInvalidOperation, t.Kind(id))
	}
	return it.Itered()
}

// Getitem subscripts id if it is an indexable literal.
func Getitem(ictx *infer.Context, eng infer.Engine, t *ast.Tree, id ast.NodeID, key ast.ConstValue) (Element, error) {
	v, ok := Of(t, id)
	ix, isIndex := v.(Indexable)
	if !ok || !isIndex {
		return Element{}, fmt.Errorf("%w: %s is not subscriptable", infer.ErrInvalidOperation, t.Kind(id))
	}
	return ix.Getitem(ictx, eng, key)
}

// Pytype returns the builtin type name of a literal node, "" for other nodes.
func Pytype(t *ast.Tree, id ast.NodeID) string {
	if v, ok := Of(t, id); ok {
		return v.Pytype()
	}
	return ""
}

// index resolves a Python index (negative counts from the end) against n items.
func index(key ast.ConstValue, n int) (int, error) {
	var i int64
	switch key.Kind {
	case ast.ConstInt:
		i = key.Int
	case ast.ConstBool:
		if key.Bool {
			i = 1
		}
	default:
		return 0, fmt.Errorf("%w: indices must be integers, not %s", infer.ErrInvalidOperation, key.Kind)
	}
	if i < 0 {
		i += int64(n)
	}
	if i < 0 || i >= int64(n) {
		return 0, fmt.Errorf("index %s out of range: %w", key, infer.ErrNotFound)
	}
	return int(i), nil
}

type sequence struct {
	id     ast.NodeID
	elts   []ast.NodeID
	pytype string
}

func (s sequence) Node() ast.NodeID { return s.id }
func (s sequence) Pytype() string   { return s.pytype }

func (s sequence) Itered() ([]Element, error) {
	out := make([]Element, len(s.elts))
	for i, e := range s.elts {
		out[i] = Element{Node: e}
	}
	return out, nil
}

func (s sequence) Getitem(_ *infer.Context, _ infer.Engine, key ast.ConstValue) (Element, error) {
	i, err := index(key, len(s.elts))
	if err != nil {
		return Element{}, err
	}
	return Element{Node: s.elts[i]}, nil
}

type constValue struct {
	t  *ast.Tree
	id ast.NodeID
}

func (c constValue) Node() ast.NodeID { return c.id }

func (c constValue) value() ast.ConstValue {
	d, _ := c.t.Const(c.id)
	return d.Value
}

func (c constValue) Pytype() string {
	return "__builtin__." + c.value().Kind.String()
}

func (c constValue) Itered() ([]Element, error) {
	v := c.value()
	if v.Kind != ast.ConstStr {
		return nil, fmt.Errorf("%w: %s is not iterable", infer.ErrInvalidOperation, v.Kind)
	}
	out := make([]Element, 0, len(v.Str))
	for _, r := range v.Str {
		out = append(out, Element{Text: string(r)})
	}
	return out, nil
}

func (c constValue) Getitem(_ *infer.Context, _ infer.Engine, key ast.ConstValue) (Element, error) {
	v := c.value()
	if v.Kind != ast.ConstStr {
		return Element{}, fmt.Errorf("%w: %s is not subscriptable", infer.ErrInvalidOperation, v.Kind)
	}
	runes := []rune(v.Str)
	i, err := index(key, len(runes))
	if err != nil {
		return Element{}, err
	}
	return Element{Text: string(runes[i])}, nil
}

type dict struct {
	t  *ast.Tree
	id ast.NodeID
}

func (d dict) Node() ast.NodeID { return d.id }
func (d dict) Pytype() string   { return "__builtin__.dict" }

// Itered yields the keys.
func (d dict) Itered() ([]Element, error) {
	data, _ := d.t.Dict(d.id)
	out := make([]Element, len(data.Items))
	for i, it := range data.Items {
		out[i] = Element{Node: it.Key}
	}
	return out, nil
}

// Getitem returns the value of the first item whose key infers to a constant
// equal to key. Keys that cannot be inferred are skipped.
func (d dict) Getitem(ictx *infer.Context, eng infer.Engine, key ast.ConstValue) (Element, error) {
	data, _ := d.t.Dict(d.id)
	for _, it := range data.Items {
		vals, err := eng.Infer(ictx, infer.Of(d.t, it.Key))
		if err != nil {
			return Element{}, err
		}
		for _, v := range vals {
			if v.IsUnknown() {
				continue
			}
			c, ok := v.Tree.Const(v.Node)
			if ok && c.Value.Equal(key) {
				return Element{Node: it.Value}, nil
			}
		}
	}
	return Element{}, fmt.Errorf("key %s: %w", key, infer.ErrNotFound)
}
