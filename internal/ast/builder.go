package ast

import (
	"fmt"

	"astroid/internal/source"
)

// new allocates the node header for an already stored payload, links every child
// reachable through the kind's slots to the new node and derives its position.
func (t *Tree) new(kind Kind, line int, payload uint32) NodeID {
	id := NodeID(t.Nodes.Allocate(Node{Kind: kind, Payload: PayloadID(payload)}))
	for _, child := range t.Children(id) {
		t.adopt(id, child)
	}
	pos, span := t.derive(id, line)
	n := t.Get(id)
	n.Pos = pos
	n.Span = span
	return id
}

func (t *Tree) adopt(parent, child NodeID) {
	c := t.Get(child)
	if c == nil {
		panic(fmt.Errorf("ast: node %d has dangling child %d", parent, child))
	}
	if c.Parent.IsValid() && c.Parent != parent {
		panic(fmt.Errorf("ast: %s %d is already owned by %d", c.Kind, child, c.Parent))
	}
	c.Parent = parent
}

func ids(xs []NodeID) []NodeID {
	return append([]NodeID(nil), xs...)
}

// NewModule builds the root module. Its lines come from the body.
func (t *Tree) NewModule(name string, pkg bool, body []NodeID) NodeID {
	p := t.Modules.Allocate(ModuleData{Name: name, Package: pkg, Body: ids(body)})
	id := t.new(KindModule, 0, p)
	t.Root = id
	return id
}

func (t *Tree) NewFunctionDef(line int, name string, decorators, args NodeID, body []NodeID) NodeID {
	p := t.Functions.Allocate(FunctionDefData{
		Name:       t.Strings.Intern(name),
		Decorators: decorators,
		Args:       args,
		Body:       ids(body),
	})
	return t.new(KindFunctionDef, line, p)
}

func (t *Tree) NewClassDef(line int, name string, decorators NodeID, bases, body []NodeID) NodeID {
	p := t.Classes.Allocate(ClassDefData{
		Name:       t.Strings.Intern(name),
		Decorators: decorators,
		Bases:      ids(bases),
		Body:       ids(body),
	})
	return t.new(KindClassDef, line, p)
}

func (t *Tree) NewLambda(line int, args, body NodeID) NodeID {
	p := t.Lambdas.Allocate(LambdaData{Args: args, Body: body})
	return t.new(KindLambda, line, p)
}

func (t *Tree) NewGenExpr(line int, elt NodeID, generators []NodeID) NodeID {
	p := t.GenExprs.Allocate(GenExprData{Elt: elt, Generators: ids(generators)})
	return t.new(KindGenExpr, line, p)
}

// NewArguments builds a parameter list. Empty vararg/kwarg mean "absent".
func (t *Tree) NewArguments(args, defaults []NodeID, vararg, kwarg string) NodeID {
	if len(defaults) > len(args) {
		panic(fmt.Errorf("ast: %d defaults for %d arguments", len(defaults), len(args)))
	}
	p := t.Arguments.Allocate(ArgumentsData{
		Args:     ids(args),
		Defaults: ids(defaults),
		Vararg:   t.internOpt(vararg),
		Kwarg:    t.internOpt(kwarg),
	})
	return t.new(KindArguments, 0, p)
}

// NewOpaqueArguments builds the parameter list of a callable whose signature is unknown.
func (t *Tree) NewOpaqueArguments() NodeID {
	p := t.Arguments.Allocate(ArgumentsData{Opaque: true})
	return t.new(KindArguments, 0, p)
}

func (t *Tree) NewAssAttr(line int, expr NodeID, attr string) NodeID {
	p := t.AssAttrs.Allocate(AssAttrData{Expr: expr, Attr: t.Strings.Intern(attr)})
	return t.new(KindAssAttr, line, p)
}

func (t *Tree) NewAssName(line int, name string) NodeID {
	p := t.AssNames.Allocate(AssNameData{Name: t.Strings.Intern(name)})
	return t.new(KindAssName, line, p)
}

func (t *Tree) NewAssert(line int, test, fail NodeID) NodeID {
	p := t.Asserts.Allocate(AssertData{Test: test, Fail: fail})
	return t.new(KindAssert, line, p)
}

func (t *Tree) NewAssign(line int, targets []NodeID, value NodeID) NodeID {
	p := t.Assigns.Allocate(AssignData{Targets: ids(targets), Value: value})
	return t.new(KindAssign, line, p)
}

func (t *Tree) NewAugAssign(line int, target NodeID, op string, value NodeID) NodeID {
	p := t.AugAssigns.Allocate(AugAssignData{Target: target, Op: op, Value: value})
	return t.new(KindAugAssign, line, p)
}

func (t *Tree) NewBackquote(line int, value NodeID) NodeID {
	p := t.Backquotes.Allocate(BackquoteData{Value: value})
	return t.new(KindBackquote, line, p)
}

func (t *Tree) NewBinOp(line int, left NodeID, op string, right NodeID) NodeID {
	p := t.BinOps.Allocate(BinOpData{Left: left, Op: op, Right: right})
	return t.new(KindBinOp, line, p)
}

func (t *Tree) NewBoolOp(line int, op string, values []NodeID) NodeID {
	p := t.BoolOps.Allocate(BoolOpData{Op: op, Values: ids(values)})
	return t.new(KindBoolOp, line, p)
}

func (t *Tree) NewBreak(line int) NodeID     { return t.new(KindBreak, line, 0) }
func (t *Tree) NewContinue(line int) NodeID  { return t.new(KindContinue, line, 0) }
func (t *Tree) NewPass(line int) NodeID      { return t.new(KindPass, line, 0) }
func (t *Tree) NewEllipsis(line int) NodeID  { return t.new(KindEllipsis, line, 0) }
func (t *Tree) NewEmptyNode(line int) NodeID { return t.new(KindEmptyNode, line, 0) }

// NewCallFunc builds a call; starargs and kwargs are NoNodeID when absent.
func (t *Tree) NewCallFunc(line int, fn NodeID, args []NodeID, starargs, kwargs NodeID) NodeID {
	p := t.Calls.Allocate(CallFuncData{Func: fn, Args: ids(args), Starargs: starargs, Kwargs: kwargs})
	return t.new(KindCallFunc, line, p)
}

func (t *Tree) NewCompare(line int, left NodeID, ops []CompareOp) NodeID {
	p := t.Compares.Allocate(CompareData{Left: left, Ops: append([]CompareOp(nil), ops...)})
	return t.new(KindCompare, line, p)
}

func (t *Tree) NewComprehension(line int, target, iter NodeID, ifs []NodeID) NodeID {
	p := t.Comprehensions.Allocate(ComprehensionData{Target: target, Iter: iter, Ifs: ids(ifs)})
	return t.new(KindComprehension, line, p)
}

func (t *Tree) NewConst(line int, v ConstValue) NodeID {
	p := t.Consts.Allocate(ConstData{Value: v})
	return t.new(KindConst, line, p)
}

func (t *Tree) NewDecorators(line int, nodes []NodeID) NodeID {
	p := t.Decorators.Allocate(DecoratorsData{Nodes: ids(nodes)})
	return t.new(KindDecorators, line, p)
}

func (t *Tree) NewDelAttr(line int, expr NodeID, attr string) NodeID {
	p := t.DelAttrs.Allocate(DelAttrData{Expr: expr, Attr: t.Strings.Intern(attr)})
	return t.new(KindDelAttr, line, p)
}

func (t *Tree) NewDelName(line int, name string) NodeID {
	p := t.DelNames.Allocate(DelNameData{Name: t.Strings.Intern(name)})
	return t.new(KindDelName, line, p)
}

func (t *Tree) NewDelete(line int, targets []NodeID) NodeID {
	p := t.Deletes.Allocate(DeleteData{Targets: ids(targets)})
	return t.new(KindDelete, line, p)
}

func (t *Tree) NewDict(line int, items []DictItem) NodeID {
	p := t.Dicts.Allocate(DictData{Items: append([]DictItem(nil), items...)})
	return t.new(KindDict, line, p)
}

func (t *Tree) NewDiscard(line int, value NodeID) NodeID {
	p := t.Discards.Allocate(DiscardData{Value: value})
	return t.new(KindDiscard, line, p)
}

// NewExceptHandler builds an `except [typ [, name]]:` clause; typ and name may be NoNodeID.
func (t *Tree) NewExceptHandler(line int, typ, name NodeID, body []NodeID) NodeID {
	p := t.Handlers.Allocate(ExceptHandlerData{Type: typ, Name: name, Body: ids(body)})
	return t.new(KindExceptHandler, line, p)
}

func (t *Tree) NewExec(line int, expr, globals, locals NodeID) NodeID {
	p := t.Execs.Allocate(ExecData{Expr: expr, Globals: globals, Locals: locals})
	return t.new(KindExec, line, p)
}

func (t *Tree) NewExtSlice(line int, dims []NodeID) NodeID {
	p := t.ExtSlices.Allocate(ExtSliceData{Dims: ids(dims)})
	return t.new(KindExtSlice, line, p)
}

func (t *Tree) NewFor(line int, target, iter NodeID, body, orelse []NodeID) NodeID {
	p := t.Fors.Allocate(ForData{Target: target, Iter: iter, Body: ids(body), Orelse: ids(orelse)})
	return t.new(KindFor, line, p)
}

func (t *Tree) NewFrom(line int, modname string, names []ImportName, level int) NodeID {
	p := t.Froms.Allocate(FromData{Modname: modname, Names: append([]ImportName(nil), names...), Level: level})
	return t.new(KindFrom, line, p)
}

func (t *Tree) NewGetattr(line int, expr NodeID, attr string) NodeID {
	p := t.Getattrs.Allocate(GetattrData{Expr: expr, Attr: t.Strings.Intern(attr)})
	return t.new(KindGetattr, line, p)
}

func (t *Tree) NewGlobal(line int, names []string) NodeID {
	d := GlobalData{}
	for _, n := range names {
		d.Names = append(d.Names, t.Strings.Intern(n))
	}
	p := t.Globals.Allocate(d)
	return t.new(KindGlobal, line, p)
}

func (t *Tree) NewIf(line int, test NodeID, body, orelse []NodeID) NodeID {
	p := t.Ifs.Allocate(IfData{Test: test, Body: ids(body), Orelse: ids(orelse)})
	return t.new(KindIf, line, p)
}

func (t *Tree) NewIfExp(line int, test, body, orelse NodeID) NodeID {
	p := t.IfExps.Allocate(IfExpData{Test: test, Body: body, Orelse: orelse})
	return t.new(KindIfExp, line, p)
}

func (t *Tree) NewImport(line int, names []ImportName) NodeID {
	p := t.Imports.Allocate(ImportData{Names: append([]ImportName(nil), names...)})
	return t.new(KindImport, line, p)
}

func (t *Tree) NewIndex(line int, value NodeID) NodeID {
	p := t.Indexes.Allocate(IndexData{Value: value})
	return t.new(KindIndex, line, p)
}

func (t *Tree) NewKeyword(line int, arg string, value NodeID) NodeID {
	p := t.Keywords.Allocate(KeywordData{Arg: t.Strings.Intern(arg), Value: value})
	return t.new(KindKeyword, line, p)
}

func (t *Tree) NewList(line int, elts []NodeID) NodeID {
	p := t.Lists.Allocate(ListData{Elts: ids(elts)})
	return t.new(KindList, line, p)
}

func (t *Tree) NewListComp(line int, elt NodeID, generators []NodeID) NodeID {
	p := t.ListComps.Allocate(ListCompData{Elt: elt, Generators: ids(generators)})
	return t.new(KindListComp, line, p)
}

func (t *Tree) NewName(line int, name string) NodeID {
	p := t.Names.Allocate(NameData{Name: t.Strings.Intern(name)})
	return t.new(KindName, line, p)
}

func (t *Tree) NewPrint(line int, dest NodeID, values []NodeID, nl bool) NodeID {
	p := t.Prints.Allocate(PrintData{Dest: dest, Values: ids(values), Nl: nl})
	return t.new(KindPrint, line, p)
}

func (t *Tree) NewRaise(line int, typ, inst, tback NodeID) NodeID {
	p := t.Raises.Allocate(RaiseData{Type: typ, Inst: inst, Tback: tback})
	return t.new(KindRaise, line, p)
}

func (t *Tree) NewReturn(line int, value NodeID) NodeID {
	p := t.Returns.Allocate(ReturnData{Value: value})
	return t.new(KindReturn, line, p)
}

func (t *Tree) NewSlice(line int, lower, upper, step NodeID) NodeID {
	p := t.Slices.Allocate(SliceData{Lower: lower, Upper: upper, Step: step})
	return t.new(KindSlice, line, p)
}

func (t *Tree) NewSubscript(line int, value, slice NodeID) NodeID {
	p := t.Subscripts.Allocate(SubscriptData{Value: value, Slice: slice})
	return t.new(KindSubscript, line, p)
}

func (t *Tree) NewTryExcept(line int, body, handlers, orelse []NodeID) NodeID {
	p := t.TryExcepts.Allocate(TryExceptData{Body: ids(body), Handlers: ids(handlers), Orelse: ids(orelse)})
	return t.new(KindTryExcept, line, p)
}

func (t *Tree) NewTryFinally(line int, body, finalbody []NodeID) NodeID {
	p := t.TryFinallys.Allocate(TryFinallyData{Body: ids(body), Finalbody: ids(finalbody)})
	return t.new(KindTryFinally, line, p)
}

func (t *Tree) NewTuple(line int, elts []NodeID) NodeID {
	p := t.Tuples.Allocate(TupleData{Elts: ids(elts)})
	return t.new(KindTuple, line, p)
}

func (t *Tree) NewUnaryOp(line int, op string, operand NodeID) NodeID {
	p := t.UnaryOps.Allocate(UnaryOpData{Op: op, Operand: operand})
	return t.new(KindUnaryOp, line, p)
}

func (t *Tree) NewWhile(line int, test NodeID, body, orelse []NodeID) NodeID {
	p := t.Whiles.Allocate(WhileData{Test: test, Body: ids(body), Orelse: ids(orelse)})
	return t.new(KindWhile, line, p)
}

func (t *Tree) NewWith(line int, expr, vars NodeID, body []NodeID) NodeID {
	p := t.Withs.Allocate(WithData{Expr: expr, Vars: vars, Body: ids(body)})
	return t.new(KindWith, line, p)
}

func (t *Tree) NewYield(line int, value NodeID) NodeID {
	p := t.Yields.Allocate(YieldData{Value: value})
	return t.new(KindYield, line, p)
}

func (t *Tree) internOpt(s string) source.StringID {
	if s == "" {
		return source.NoStringID
	}
	return t.Strings.Intern(s)
}
