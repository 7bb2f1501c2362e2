package ast

// Location is where a child sits inside its parent: the field and, for sequence
// fields, the index inside that sequence (-1 for single-node fields).
type Location struct {
	Field Field
	Index int
}

// slotFunc receives every occupied child slot; returning false stops the walk.
type slotFunc func(f Field, index int, child NodeID) bool

// eachSlot walks the child slots of id in field order. Compare exposes only its
// operands (never the operator strings) and Dict exposes keys and values
// interleaved, as flat `items`.
func (t *Tree) eachSlot(id NodeID, fn slotFunc) {
	n := t.Get(id)
	if n == nil {
		return
	}
	one := func(f Field, c NodeID) bool {
		if !c.IsValid() {
			return true
		}
		return fn(f, -1, c)
	}
	many := func(f Field, cs []NodeID) bool {
		for i, c := range cs {
			if !c.IsValid() {
				continue
			}
			if !fn(f, i, c) {
				return false
			}
		}
		return true
	}

	switch n.Kind {
	case KindModule:
		d, _ := t.Module(id)
		many(FieldBody, d.Body)
	case KindFunctionDef:
		d, _ := t.FunctionDef(id)
		_ = one(FieldDecorators, d.Decorators) && one(FieldArgs, d.Args) && many(FieldBody, d.Body)
	case KindClassDef:
		d, _ := t.ClassDef(id)
		_ = one(FieldDecorators, d.Decorators) && many(FieldBases, d.Bases) && many(FieldBody, d.Body)
	case KindLambda:
		d, _ := t.Lambda(id)
		_ = one(FieldArgs, d.Args) && one(FieldBody, d.Body)
	case KindGenExpr:
		d, _ := t.GenExpr(id)
		_ = one(FieldElt, d.Elt) && many(FieldGenerators, d.Generators)
	case KindArguments:
		d, _ := t.ArgumentsOf(id)
		_ = many(FieldArgs, d.Args) && many(FieldDefaults, d.Defaults)
	case KindAssAttr:
		d, _ := t.AssAttr(id)
		one(FieldExpr, d.Expr)
	case KindAssert:
		d, _ := t.Assert(id)
		_ = one(FieldTest, d.Test) && one(FieldFail, d.Fail)
	case KindAssign:
		d, _ := t.Assign(id)
		_ = many(FieldTargets, d.Targets) && one(FieldValue, d.Value)
	case KindAugAssign:
		d, _ := t.AugAssign(id)
		_ = one(FieldTarget, d.Target) && one(FieldValue, d.Value)
	case KindBackquote:
		d, _ := t.Backquote(id)
		one(FieldValue, d.Value)
	case KindBinOp:
		d, _ := t.BinOp(id)
		_ = one(FieldLeft, d.Left) && one(FieldRight, d.Right)
	case KindBoolOp:
		d, _ := t.BoolOp(id)
		many(FieldValues, d.Values)
	case KindCallFunc:
		d, _ := t.CallFunc(id)
		_ = one(FieldFunc, d.Func) && many(FieldArgs, d.Args) &&
			one(FieldStarargs, d.Starargs) && one(FieldKwargs, d.Kwargs)
	case KindCompare:
		d, _ := t.Compare(id)
		if !one(FieldLeft, d.Left) {
			return
		}
		for i, op := range d.Ops {
			if op.Operand.IsValid() && !fn(FieldOps, i, op.Operand) {
				return
			}
		}
	case KindComprehension:
		d, _ := t.Comprehension(id)
		_ = one(FieldTarget, d.Target) && one(FieldIter, d.Iter) && many(FieldIfs, d.Ifs)
	case KindDecorators:
		d, _ := t.DecoratorsOf(id)
		many(FieldNodes, d.Nodes)
	case KindDelAttr:
		d, _ := t.DelAttr(id)
		one(FieldExpr, d.Expr)
	case KindDelete:
		d, _ := t.Delete(id)
		many(FieldTargets, d.Targets)
	case KindDict:
		d, _ := t.Dict(id)
		for i, it := range d.Items {
			if it.Key.IsValid() && !fn(FieldItems, 2*i, it.Key) {
				return
			}
			if it.Value.IsValid() && !fn(FieldItems, 2*i+1, it.Value) {
				return
			}
		}
	case KindDiscard:
		d, _ := t.Discard(id)
		one(FieldValue, d.Value)
	case KindExceptHandler:
		d, _ := t.ExceptHandler(id)
		_ = one(FieldType, d.Type) && one(FieldName, d.Name) && many(FieldBody, d.Body)
	case KindExec:
		d, _ := t.Exec(id)
		_ = one(FieldExpr, d.Expr) && one(FieldGlobals, d.Globals) && one(FieldLocals, d.Locals)
	case KindExtSlice:
		d, _ := t.ExtSlice(id)
		many(FieldDims, d.Dims)
	case KindFor:
		d, _ := t.For(id)
		_ = one(FieldTarget, d.Target) && one(FieldIter, d.Iter) &&
			many(FieldBody, d.Body) && many(FieldOrelse, d.Orelse)
	case KindGetattr:
		d, _ := t.Getattr(id)
		one(FieldExpr, d.Expr)
	case KindIf:
		d, _ := t.If(id)
		_ = one(FieldTest, d.Test) && many(FieldBody, d.Body) && many(FieldOrelse, d.Orelse)
	case KindIfExp:
		d, _ := t.IfExp(id)
		_ = one(FieldTest, d.Test) && one(FieldBody, d.Body) && one(FieldOrelse, d.Orelse)
	case KindIndex:
		d, _ := t.Index(id)
		one(FieldValue, d.Value)
	case KindKeyword:
		d, _ := t.Keyword(id)
		one(FieldValue, d.Value)
	case KindList:
		d, _ := t.List(id)
		many(FieldElts, d.Elts)
	case KindListComp:
		d, _ := t.ListComp(id)
		_ = one(FieldElt, d.Elt) && many(FieldGenerators, d.Generators)
	case KindPrint:
		d, _ := t.Print(id)
		_ = one(FieldDest, d.Dest) && many(FieldValues, d.Values)
	case KindRaise:
		d, _ := t.Raise(id)
		_ = one(FieldType, d.Type) && one(FieldInst, d.Inst) && one(FieldTback, d.Tback)
	case KindReturn:
		d, _ := t.Return(id)
		one(FieldValue, d.Value)
	case KindSlice:
		d, _ := t.Slice(id)
		_ = one(FieldLower, d.Lower) && one(FieldUpper, d.Upper) && one(FieldStep, d.Step)
	case KindSubscript:
		d, _ := t.Subscript(id)
		_ = one(FieldValue, d.Value) && one(FieldSlice, d.Slice)
	case KindTryExcept:
		d, _ := t.TryExcept(id)
		_ = many(FieldBody, d.Body) && many(FieldHandlers, d.Handlers) && many(FieldOrelse, d.Orelse)
	case KindTryFinally:
		d, _ := t.TryFinally(id)
		_ = many(FieldBody, d.Body) && many(FieldFinalbody, d.Finalbody)
	case KindTuple:
		d, _ := t.Tuple(id)
		many(FieldElts, d.Elts)
	case KindUnaryOp:
		d, _ := t.UnaryOp(id)
		one(FieldOperand, d.Operand)
	case KindWhile:
		d, _ := t.While(id)
		_ = one(FieldTest, d.Test) && many(FieldBody, d.Body) && many(FieldOrelse, d.Orelse)
	case KindWith:
		d, _ := t.With(id)
		_ = one(FieldExpr, d.Expr) && one(FieldVars, d.Vars) && many(FieldBody, d.Body)
	case KindYield:
		d, _ := t.Yield(id)
		one(FieldValue, d.Value)
	}
	// Name, AssName, DelName, Const, From, Import, Global, Break, Continue, Pass,
	// Ellipsis and EmptyNode have no node children.
}

// Children returns the direct children of id in field order.
func (t *Tree) Children(id NodeID) []NodeID {
	var out []NodeID
	t.eachSlot(id, func(_ Field, _ int, c NodeID) bool {
		out = append(out, c)
		return true
	})
	return out
}

// LastChild returns the last direct child, or NoNodeID for a leaf.
func (t *Tree) LastChild(id NodeID) NodeID {
	last := NoNodeID
	t.eachSlot(id, func(_ Field, _ int, c NodeID) bool {
		last = c
		return true
	})
	return last
}

// LocateChild returns the slot under which child is stored in parent.
// ok is false when child is not a direct child of parent.
func (t *Tree) LocateChild(parent, child NodeID) (Location, bool) {
	loc := Location{Index: -1}
	found := false
	t.eachSlot(parent, func(f Field, i int, c NodeID) bool {
		if c != child {
			return true
		}
		loc = Location{Field: f, Index: i}
		found = true
		return false
	})
	return loc, found
}

// FieldNodes returns the nodes stored under field f of id, in order.
func (t *Tree) FieldNodes(id NodeID, f Field) []NodeID {
	var out []NodeID
	t.eachSlot(id, func(cf Field, _ int, c NodeID) bool {
		if cf == f {
			out = append(out, c)
		}
		return true
	})
	return out
}
