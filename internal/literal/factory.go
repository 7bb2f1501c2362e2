package literal

import (
	"fmt"

	"fortio.org/safecast"

	"astroid/internal/ast"
	"astroid/internal/infer"
)

// TupleValue marks a Go slice that should become a tuple literal rather than a list.
type TupleValue []any

// ConstFactory builds a synthetic literal node for a Go value. Slices, tuples
// and maps become empty List, Tuple and Dict nodes; nil, booleans, numbers and
// strings become a Const holding the value. Anything else is rejected with
// infer.ErrInvalidOperation. Built nodes have no line and no parent.
func ConstFactory(t *ast.Tree, value any) (ast.NodeID, error) {
	switch value.(type) {
	case []any:
		return t.NewList(0, nil), nil
	case TupleValue:
		return t.NewTuple(0, nil), nil
	case map[string]any, map[any]any:
		return t.NewDict(0, nil), nil
	}
	cv, err := constOf(value)
	if err != nil {
		return ast.NoNodeID, err
	}
	return t.NewConst(0, cv), nil
}

func constOf(value any) (ast.ConstValue, error) {
	switch v := value.(type) {
	case nil:
		return ast.NoneValue(), nil
	case bool:
		return ast.BoolValue(v), nil
	case int:
		return ast.IntValue(int64(v)), nil
	case int8:
		return ast.IntValue(int64(v)), nil
	case int16:
		return ast.IntValue(int64(v)), nil
	case int32:
		return ast.IntValue(int64(v)), nil
	case int64:
		return ast.IntValue(v), nil
	case uint:
		return unsigned(v)
	case uint8:
		return ast.IntValue(int64(v)), nil
	case uint16:
		return ast.IntValue(int64(v)), nil
	case uint32:
		return ast.IntValue(int64(v)), nil
	case uint64:
		return unsigned(v)
	case float32:
		return ast.FloatValue(float64(v)), nil
	case float64:
		return ast.FloatValue(v), nil
	case complex64:
		return ast.ComplexValue(complex128(v)), nil
	case complex128:
		return ast.ComplexValue(v), nil
	case string:
		return ast.StrValue(v), nil
	}
	return ast.ConstValue{}, fmt.Errorf("%w: no literal for %T", infer.ErrInvalidOperation, value)
}

// unsigned keeps values above MaxInt64 as their decimal text.
func unsigned[T uint | uint64](v T) (ast.ConstValue, error) {
	if i, err := safecast.Conv[int64](v); err == nil {
		return ast.IntValue(i), nil
	}
	return ast.ConstValue{Kind: ast.ConstInt, Raw: fmt.Sprintf("%d", v)}, nil
}
