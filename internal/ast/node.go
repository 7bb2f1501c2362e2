package ast

import (
	"astroid/internal/source"
)

// Pos holds 1-based source lines. Zero means unknown.
type Pos struct {
	Line             int // line of the node's own first token (lineno)
	FromLine         int // first line of the full extent
	ToLine           int // last line of the full extent
	BlockStartToLine int // last line of the introducing clause (`if test:`)
}

// Contains reports whether line lies inside [FromLine, ToLine].
func (p Pos) Contains(line int) bool {
	return line >= p.FromLine && line <= p.ToLine
}

// Node is the kind-independent header stored in Tree.Nodes.
type Node struct {
	Kind    Kind
	Parent  NodeID
	Span    source.Span
	Pos     Pos
	Payload PayloadID
}

type ModuleData struct {
	Name    string // dotted module name
	Package bool   // the module is a package __init__
	Body    []NodeID
}

type FunctionDefData struct {
	Name       source.StringID
	Decorators NodeID
	Args       NodeID
	Body       []NodeID
}

type ClassDefData struct {
	Name       source.StringID
	Decorators NodeID
	Bases      []NodeID
	Body       []NodeID
}

type LambdaData struct {
	Args NodeID
	Body NodeID
}

type GenExprData struct {
	Elt        NodeID
	Generators []NodeID
}

// ArgumentsData holds formal parameters. Args entries are AssName nodes or, for
// tuple-unpacking parameters, Tuple nodes of AssNames. Defaults are right-aligned
// against Args.
type ArgumentsData struct {
	Args     []NodeID
	Defaults []NodeID
	Vararg   source.StringID
	Kwarg    source.StringID
	// Opaque marks signatures that are not known (builtins); Args is then meaningless.
	Opaque bool
}

type AssAttrData struct {
	Expr NodeID
	Attr source.StringID
}

type AssNameData struct{ Name source.StringID }

type AssertData struct {
	Test NodeID
	Fail NodeID
}

type AssignData struct {
	Targets []NodeID
	Value   NodeID
}

type AugAssignData struct {
	Target NodeID
	Op     string
	Value  NodeID
}

type BackquoteData struct{ Value NodeID }

type BinOpData struct {
	Left  NodeID
	Op    string
	Right NodeID
}

type BoolOpData struct {
	Op     string
	Values []NodeID
}

type CallFuncData struct {
	Func     NodeID
	Args     []NodeID
	Starargs NodeID
	Kwargs   NodeID
}

// CompareOp is one (operator, operand) pair of a chained comparison.
type CompareOp struct {
	Op      string
	Operand NodeID
}

type CompareData struct {
	Left NodeID
	Ops  []CompareOp
}

type ComprehensionData struct {
	Target NodeID
	Iter   NodeID
	Ifs    []NodeID
}

type ConstData struct{ Value ConstValue }

type DecoratorsData struct{ Nodes []NodeID }

type DelAttrData struct {
	Expr NodeID
	Attr source.StringID
}

type DelNameData struct{ Name source.StringID }

type DeleteData struct{ Targets []NodeID }

// DictItem is one key/value pair of a mapping literal.
type DictItem struct {
	Key   NodeID
	Value NodeID
}

type DictData struct{ Items []DictItem }

type DiscardData struct{ Value NodeID }

type ExceptHandlerData struct {
	Type NodeID // nil for a bare `except:`
	Name NodeID // AssName (or any assignable) bound to the exception
	Body []NodeID
}

type ExecData struct {
	Expr    NodeID
	Globals NodeID
	Locals  NodeID
}

type ExtSliceData struct{ Dims []NodeID }

type ForData struct {
	Target NodeID
	Iter   NodeID
	Body   []NodeID
	Orelse []NodeID
}

// ImportName is one `name [as asname]` entry of an import statement.
type ImportName struct {
	Name   string
	AsName string
}

type FromData struct {
	Modname string
	Names   []ImportName
	Level   int // number of leading dots; 0 is absolute
}

type GetattrData struct {
	Expr NodeID
	Attr source.StringID
}

type GlobalData struct{ Names []source.StringID }

type IfData struct {
	Test   NodeID
	Body   []NodeID
	Orelse []NodeID
}

type IfExpData struct {
	Test   NodeID
	Body   NodeID
	Orelse NodeID
}

type ImportData struct{ Names []ImportName }

type IndexData struct{ Value NodeID }

type KeywordData struct {
	Arg   source.StringID
	Value NodeID
}

type ListData struct{ Elts []NodeID }

type ListCompData struct {
	Elt        NodeID
	Generators []NodeID
}

type NameData struct{ Name source.StringID }

type PrintData struct {
	Dest   NodeID
	Values []NodeID
	Nl     bool
}

type RaiseData struct {
	Type  NodeID
	Inst  NodeID
	Tback NodeID
}

type ReturnData struct{ Value NodeID }

type SliceData struct {
	Lower NodeID
	Upper NodeID
	Step  NodeID
}

type SubscriptData struct {
	Value NodeID
	Slice NodeID
}

type TryExceptData struct {
	Body     []NodeID
	Handlers []NodeID
	Orelse   []NodeID
}

type TryFinallyData struct {
	Body      []NodeID
	Finalbody []NodeID
}

type TupleData struct{ Elts []NodeID }

type UnaryOpData struct {
	Op      string
	Operand NodeID
}

type WhileData struct {
	Test   NodeID
	Body   []NodeID
	Orelse []NodeID
}

type WithData struct {
	Expr NodeID
	Vars NodeID
	Body []NodeID
}

type YieldData struct{ Value NodeID }
