package infer

import (
	"fmt"

	"astroid/internal/ast"
)

// Engine infers the possible values of an expression.
type Engine interface {
	Infer(ictx *Context, v Value) ([]Value, error)
}

// EngineFunc adapts a function to Engine.
type EngineFunc func(ictx *Context, v Value) ([]Value, error)

func (f EngineFunc) Infer(ictx *Context, v Value) ([]Value, error) { return f(ictx, v) }

// Literal infers literal nodes to themselves and resolves a Name through the
// last single-target assignment to it in the same scope. Names with no such
// assignment infer to themselves; any other expression is Unknown.
type Literal struct{}

func (Literal) Infer(ictx *Context, v Value) ([]Value, error) {
	if v.IsUnknown() {
		return []Value{Unknown}, nil
	}
	if ictx == nil {
		ictx = NewContext()
	}
	if !ictx.Push(v) {
		return nil, fmt.Errorf("%w: %s depends on itself", ErrInferenceFailed, v)
	}
	defer ictx.Pop(v)

	switch v.Kind() {
	case ast.KindConst, ast.KindList, ast.KindTuple, ast.KindDict,
		ast.KindListComp, ast.KindGenExpr, ast.KindLambda,
		ast.KindFunctionDef, ast.KindClassDef, ast.KindModule:
		return []Value{v}, nil
	case ast.KindName:
		rhs, ok := lastAssignment(v.Tree, v.Node)
		if !ok {
			return []Value{v}, nil
		}
		return Literal{}.Infer(ictx, Of(v.Tree, rhs))
	}
	return []Value{Unknown}, nil
}

// lastAssignment finds the value of the last `name = value` statement in the
// scope of the Name node id. Assignments inside nested scopes do not count.
func lastAssignment(t *ast.Tree, id ast.NodeID) (ast.NodeID, bool) {
	name, _ := t.NameOf(id)
	scope := t.Scope(id)
	if !scope.IsValid() {
		return ast.NoNodeID, false
	}
	found := ast.NoNodeID
	for _, as := range t.NodesOfKind(scope, ast.KindAssign) {
		d, _ := t.Assign(as)
		if len(d.Targets) != 1 || t.Kind(d.Targets[0]) != ast.KindAssName {
			continue
		}
		if target, _ := t.NameOf(d.Targets[0]); target != name {
			continue
		}
		if t.Scope(as) != scope || t.IsAncestor(as, id) {
			continue
		}
		found = d.Value
	}
	return found, found.IsValid()
}
