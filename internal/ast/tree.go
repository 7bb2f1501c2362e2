package ast

import (
	"astroid/internal/source"
)

// Hints sizes the arenas of a new Tree.
type Hints struct{ Nodes uint }

// Tree is a single-owner syntax tree stored in arenas. Every node is owned by exactly
// one parent slot; Node.Parent is a navigational index only. Children are always
// allocated before their parent, so a parent's ID is greater than any of its children.
type Tree struct {
	File    source.FileID
	Strings *source.Interner
	Nodes   *Arena[Node]
	Root    NodeID // the last Module built, if any

	Modules        *Arena[ModuleData]
	Functions      *Arena[FunctionDefData]
	Classes        *Arena[ClassDefData]
	Lambdas        *Arena[LambdaData]
	GenExprs       *Arena[GenExprData]
	Arguments      *Arena[ArgumentsData]
	AssAttrs       *Arena[AssAttrData]
	AssNames       *Arena[AssNameData]
	Asserts        *Arena[AssertData]
	Assigns        *Arena[AssignData]
	AugAssigns     *Arena[AugAssignData]
	Backquotes     *Arena[BackquoteData]
	BinOps         *Arena[BinOpData]
	BoolOps        *Arena[BoolOpData]
	Calls          *Arena[CallFuncData]
	Compares       *Arena[CompareData]
	Comprehensions *Arena[ComprehensionData]
	Consts         *Arena[ConstData]
	Decorators     *Arena[DecoratorsData]
	DelAttrs       *Arena[DelAttrData]
	DelNames       *Arena[DelNameData]
	Deletes        *Arena[DeleteData]
	Dicts          *Arena[DictData]
	Discards       *Arena[DiscardData]
	Handlers       *Arena[ExceptHandlerData]
	Execs          *Arena[ExecData]
	ExtSlices      *Arena[ExtSliceData]
	Fors           *Arena[ForData]
	Froms          *Arena[FromData]
	Getattrs       *Arena[GetattrData]
	Globals        *Arena[GlobalData]
	Ifs            *Arena[IfData]
	IfExps         *Arena[IfExpData]
	Imports        *Arena[ImportData]
	Indexes        *Arena[IndexData]
	Keywords       *Arena[KeywordData]
	Lists          *Arena[ListData]
	ListComps      *Arena[ListCompData]
	Names          *Arena[NameData]
	Prints         *Arena[PrintData]
	Raises         *Arena[RaiseData]
	Returns        *Arena[ReturnData]
	Slices         *Arena[SliceData]
	Subscripts     *Arena[SubscriptData]
	TryExcepts     *Arena[TryExceptData]
	TryFinallys    *Arena[TryFinallyData]
	Tuples         *Arena[TupleData]
	UnaryOps       *Arena[UnaryOpData]
	Whiles         *Arena[WhileData]
	Withs          *Arena[WithData]
	Yields         *Arena[YieldData]
}

// NewTree creates an empty tree for file. A zero hint falls back to 1<<8 nodes.
func NewTree(file source.FileID, hints Hints) *Tree {
	if hints.Nodes == 0 {
		hints.Nodes = 1 << 8
	}
	n := hints.Nodes
	small := n / 16 // редкие виды узлов
	return &Tree{
		File:    file,
		Strings: source.NewInterner(),
		Nodes:   NewArena[Node](n),

		Modules:        NewArena[ModuleData](1),
		Functions:      NewArena[FunctionDefData](small),
		Classes:        NewArena[ClassDefData](small),
		Lambdas:        NewArena[LambdaData](small),
		GenExprs:       NewArena[GenExprData](small),
		Arguments:      NewArena[ArgumentsData](small),
		AssAttrs:       NewArena[AssAttrData](small),
		AssNames:       NewArena[AssNameData](n / 4),
		Asserts:        NewArena[AssertData](small),
		Assigns:        NewArena[AssignData](n / 8),
		AugAssigns:     NewArena[AugAssignData](small),
		Backquotes:     NewArena[BackquoteData](0),
		BinOps:         NewArena[BinOpData](small),
		BoolOps:        NewArena[BoolOpData](small),
		Calls:          NewArena[CallFuncData](n / 8),
		Compares:       NewArena[CompareData](small),
		Comprehensions: NewArena[ComprehensionData](small),
		Consts:         NewArena[ConstData](n / 4),
		Decorators:     NewArena[DecoratorsData](small),
		DelAttrs:       NewArena[DelAttrData](0),
		DelNames:       NewArena[DelNameData](0),
		Deletes:        NewArena[DeleteData](0),
		Dicts:          NewArena[DictData](small),
		Discards:       NewArena[DiscardData](small),
		Handlers:       NewArena[ExceptHandlerData](small),
		Execs:          NewArena[ExecData](0),
		ExtSlices:      NewArena[ExtSliceData](0),
		Fors:           NewArena[ForData](small),
		Froms:          NewArena[FromData](small),
		Getattrs:       NewArena[GetattrData](n / 8),
		Globals:        NewArena[GlobalData](0),
		Ifs:            NewArena[IfData](small),
		IfExps:         NewArena[IfExpData](0),
		Imports:        NewArena[ImportData](small),
		Indexes:        NewArena[IndexData](small),
		Keywords:       NewArena[KeywordData](small),
		Lists:          NewArena[ListData](small),
		ListComps:      NewArena[ListCompData](small),
		Names:          NewArena[NameData](n / 4),
		Prints:         NewArena[PrintData](0),
		Raises:         NewArena[RaiseData](small),
		Returns:        NewArena[ReturnData](small),
		Slices:         NewArena[SliceData](small),
		Subscripts:     NewArena[SubscriptData](small),
		TryExcepts:     NewArena[TryExceptData](small),
		TryFinallys:    NewArena[TryFinallyData](small),
		Tuples:         NewArena[TupleData](small),
		UnaryOps:       NewArena[UnaryOpData](small),
		Whiles:         NewArena[WhileData](small),
		Withs:          NewArena[WithData](small),
		Yields:         NewArena[YieldData](0),
	}
}

// Get returns the node header, or nil for NoNodeID.
func (t *Tree) Get(id NodeID) *Node {
	return t.Nodes.Get(uint32(id))
}

// Kind returns the kind of id, KindInvalid for an unknown node.
func (t *Tree) Kind(id NodeID) Kind {
	if n := t.Get(id); n != nil {
		return n.Kind
	}
	return KindInvalid
}

// Parent returns the owning node or NoNodeID at a root.
func (t *Tree) Parent(id NodeID) NodeID {
	if n := t.Get(id); n != nil {
		return n.Parent
	}
	return NoNodeID
}

// Pos returns the position of id; the zero Pos for an unknown node.
func (t *Tree) Pos(id NodeID) Pos {
	if n := t.Get(id); n != nil {
		return n.Pos
	}
	return Pos{}
}

// Str resolves an interned identifier.
func (t *Tree) Str(id source.StringID) string {
	s, _ := t.Strings.Lookup(id)
	return s
}

// NameOf returns the identifier of a Name, AssName or DelName node.
func (t *Tree) NameOf(id NodeID) (string, bool) {
	switch t.Kind(id) {
	case KindName:
		d, _ := t.Name(id)
		return t.Str(d.Name), true
	case KindAssName:
		d, _ := t.AssName(id)
		return t.Str(d.Name), true
	case KindDelName:
		d, _ := t.DelName(id)
		return t.Str(d.Name), true
	}
	return "", false
}

// SetSpan records the byte extent of id as seen by the parser.
func (t *Tree) SetSpan(id NodeID, sp source.Span) {
	if n := t.Get(id); n != nil {
		n.Span = sp
	}
}

// SetExtent overrides the derived line extent of id with the one reported by the parser.
// Zero arguments keep the derived values.
func (t *Tree) SetExtent(id NodeID, fromLine, toLine int) {
	n := t.Get(id)
	if n == nil {
		return
	}
	if fromLine > 0 {
		n.Pos.FromLine = fromLine
		if n.Pos.Line == 0 {
			n.Pos.Line = fromLine
		}
	}
	if toLine > 0 && toLine >= n.Pos.FromLine {
		n.Pos.ToLine = toLine
	}
}

func payload[T any](t *Tree, a *Arena[T], id NodeID, kind Kind) (*T, bool) {
	n := t.Get(id)
	if n == nil || n.Kind != kind {
		return nil, false
	}
	return a.Get(uint32(n.Payload)), true
}

func (t *Tree) Module(id NodeID) (*ModuleData, bool) { return payload(t, t.Modules, id, KindModule) }
func (t *Tree) FunctionDef(id NodeID) (*FunctionDefData, bool) {
	return payload(t, t.Functions, id, KindFunctionDef)
}
func (t *Tree) ClassDef(id NodeID) (*ClassDefData, bool) { return payload(t, t.Classes, id, KindClassDef) }
func (t *Tree) Lambda(id NodeID) (*LambdaData, bool)     { return payload(t, t.Lambdas, id, KindLambda) }
func (t *Tree) GenExpr(id NodeID) (*GenExprData, bool)   { return payload(t, t.GenExprs, id, KindGenExpr) }
func (t *Tree) ArgumentsOf(id NodeID) (*ArgumentsData, bool) {
	return payload(t, t.Arguments, id, KindArguments)
}
func (t *Tree) AssAttr(id NodeID) (*AssAttrData, bool)     { return payload(t, t.AssAttrs, id, KindAssAttr) }
func (t *Tree) AssName(id NodeID) (*AssNameData, bool)     { return payload(t, t.AssNames, id, KindAssName) }
func (t *Tree) Assert(id NodeID) (*AssertData, bool)       { return payload(t, t.Asserts, id, KindAssert) }
func (t *Tree) Assign(id NodeID) (*AssignData, bool)       { return payload(t, t.Assigns, id, KindAssign) }
func (t *Tree) AugAssign(id NodeID) (*AugAssignData, bool) { return payload(t, t.AugAssigns, id, KindAugAssign) }
func (t *Tree) Backquote(id NodeID) (*BackquoteData, bool) { return payload(t, t.Backquotes, id, KindBackquote) }
func (t *Tree) BinOp(id NodeID) (*BinOpData, bool)         { return payload(t, t.BinOps, id, KindBinOp) }
func (t *Tree) BoolOp(id NodeID) (*BoolOpData, bool)       { return payload(t, t.BoolOps, id, KindBoolOp) }
func (t *Tree) CallFunc(id NodeID) (*CallFuncData, bool)   { return payload(t, t.Calls, id, KindCallFunc) }
func (t *Tree) Compare(id NodeID) (*CompareData, bool)     { return payload(t, t.Compares, id, KindCompare) }
func (t *Tree) Comprehension(id NodeID) (*ComprehensionData, bool) {
	return payload(t, t.Comprehensions, id, KindComprehension)
}
func (t *Tree) Const(id NodeID) (*ConstData, bool) { return payload(t, t.Consts, id, KindConst) }
func (t *Tree) DecoratorsOf(id NodeID) (*DecoratorsData, bool) {
	return payload(t, t.Decorators, id, KindDecorators)
}
func (t *Tree) DelAttr(id NodeID) (*DelAttrData, bool) { return payload(t, t.DelAttrs, id, KindDelAttr) }
func (t *Tree) DelName(id NodeID) (*DelNameData, bool) { return payload(t, t.DelNames, id, KindDelName) }
func (t *Tree) Delete(id NodeID) (*DeleteData, bool)   { return payload(t, t.Deletes, id, KindDelete) }
func (t *Tree) Dict(id NodeID) (*DictData, bool)       { return payload(t, t.Dicts, id, KindDict) }
func (t *Tree) Discard(id NodeID) (*DiscardData, bool) { return payload(t, t.Discards, id, KindDiscard) }
func (t *Tree) ExceptHandler(id NodeID) (*ExceptHandlerData, bool) {
	return payload(t, t.Handlers, id, KindExceptHandler)
}
func (t *Tree) Exec(id NodeID) (*ExecData, bool)           { return payload(t, t.Execs, id, KindExec) }
func (t *Tree) ExtSlice(id NodeID) (*ExtSliceData, bool)   { return payload(t, t.ExtSlices, id, KindExtSlice) }
func (t *Tree) For(id NodeID) (*ForData, bool)             { return payload(t, t.Fors, id, KindFor) }
func (t *Tree) From(id NodeID) (*FromData, bool)           { return payload(t, t.Froms, id, KindFrom) }
func (t *Tree) Getattr(id NodeID) (*GetattrData, bool)     { return payload(t, t.Getattrs, id, KindGetattr) }
func (t *Tree) Global(id NodeID) (*GlobalData, bool)       { return payload(t, t.Globals, id, KindGlobal) }
func (t *Tree) If(id NodeID) (*IfData, bool)               { return payload(t, t.Ifs, id, KindIf) }
func (t *Tree) IfExp(id NodeID) (*IfExpData, bool)         { return payload(t, t.IfExps, id, KindIfExp) }
func (t *Tree) Import(id NodeID) (*ImportData, bool)       { return payload(t, t.Imports, id, KindImport) }
func (t *Tree) Index(id NodeID) (*IndexData, bool)         { return payload(t, t.Indexes, id, KindIndex) }
func (t *Tree) Keyword(id NodeID) (*KeywordData, bool)     { return payload(t, t.Keywords, id, KindKeyword) }
func (t *Tree) List(id NodeID) (*ListData, bool)           { return payload(t, t.Lists, id, KindList) }
func (t *Tree) ListComp(id NodeID) (*ListCompData, bool)   { return payload(t, t.ListComps, id, KindListComp) }
func (t *Tree) Name(id NodeID) (*NameData, bool)           { return payload(t, t.Names, id, KindName) }
func (t *Tree) Print(id NodeID) (*PrintData, bool)         { return payload(t, t.Prints, id, KindPrint) }
func (t *Tree) Raise(id NodeID) (*RaiseData, bool)         { return payload(t, t.Raises, id, KindRaise) }
func (t *Tree) Return(id NodeID) (*ReturnData, bool)       { return payload(t, t.Returns, id, KindReturn) }
func (t *Tree) Slice(id NodeID) (*SliceData, bool)         { return payload(t, t.Slices, id, KindSlice) }
func (t *Tree) Subscript(id NodeID) (*SubscriptData, bool) { return payload(t, t.Subscripts, id, KindSubscript) }
func (t *Tree) TryExcept(id NodeID) (*TryExceptData, bool) { return payload(t, t.TryExcepts, id, KindTryExcept) }
func (t *Tree) TryFinally(id NodeID) (*TryFinallyData, bool) {
	return payload(t, t.TryFinallys, id, KindTryFinally)
}
func (t *Tree) Tuple(id NodeID) (*TupleData, bool)     { return payload(t, t.Tuples, id, KindTuple) }
func (t *Tree) UnaryOp(id NodeID) (*UnaryOpData, bool) { return payload(t, t.UnaryOps, id, KindUnaryOp) }
func (t *Tree) While(id NodeID) (*WhileData, bool)     { return payload(t, t.Whiles, id, KindWhile) }
func (t *Tree) With(id NodeID) (*WithData, bool)       { return payload(t, t.Withs, id, KindWith) }
func (t *Tree) Yield(id NodeID) (*YieldData, bool)     { return payload(t, t.Yields, id, KindYield) }
