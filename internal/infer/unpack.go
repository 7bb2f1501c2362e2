package infer

import (
	"fmt"

	"astroid/internal/ast"
)

// UnpackInfer flattens v into its terminal values. List and tuple literals are
// expanded element by element; anything else is handed to the engine and every
// inferred value is flattened the same way. A value the engine echoes back
// unchanged is terminal. The result is materialized, so calling it again
// yields the same sequence.
func UnpackInfer(ictx *Context, eng Engine, v Value) ([]Value, error) {
	if ictx == nil {
		ictx = NewContext()
	}
	u := unpacker{ictx: ictx, eng: eng, seen: make(map[Value]struct{})}
	if err := u.unpack(v); err != nil {
		return nil, err
	}
	return u.out, nil
}

type unpacker struct {
	ictx *Context
	eng  Engine
	seen map[Value]struct{}
	out  []Value
}

func (u *unpacker) unpack(v Value) error {
	if v.IsUnknown() {
		u.out = append(u.out, Unknown)
		return nil
	}
	if elts, ok := sequenceElts(v); ok {
		for _, e := range elts {
			if err := u.unpack(Of(v.Tree, e)); err != nil {
				return err
			}
		}
		return nil
	}

	if _, ok := u.seen[v]; ok {
		return fmt.Errorf("%w: unpacking %s loops", ErrInferenceFailed, v)
	}
	u.seen[v] = struct{}{}
	defer delete(u.seen, v)

	vals, err := u.eng.Infer(u.ictx, v)
	if err != nil {
		return err
	}
	if len(vals) > 0 && vals[0] == v {
		u.out = append(u.out, v)
		return nil
	}
	for _, val := range vals {
		if err := u.unpack(val); err != nil {
			return err
		}
	}
	return nil
}

func sequenceElts(v Value) ([]ast.NodeID, bool) {
	switch v.Kind() {
	case ast.KindList:
		d, _ := v.Tree.List(v.Node)
		return d.Elts, true
	case ast.KindTuple:
		d, _ := v.Tree.Tuple(v.Node)
		return d.Elts, true
	}
	return nil, false
}
