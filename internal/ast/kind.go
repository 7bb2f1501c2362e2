package ast

// Kind discriminates node variants. The set is closed.
type Kind uint8

const (
	KindInvalid Kind = iota
	// scoped
	KindModule
	KindFunctionDef
	KindClassDef
	KindLambda
	KindGenExpr
	// everything else, alphabetical
	KindArguments
	KindAssAttr
	KindAssName
	KindAssert
	KindAssign
	KindAugAssign
	KindBackquote
	KindBinOp
	KindBoolOp
	KindBreak
	KindCallFunc
	KindCompare
	KindComprehension
	KindConst
	KindContinue
	KindDecorators
	KindDelAttr
	KindDelName
	KindDelete
	KindDict
	KindDiscard
	KindEllipsis
	KindEmptyNode
	KindExceptHandler
	KindExec
	KindExtSlice
	KindFor
	KindFrom
	KindGetattr
	KindGlobal
	KindIf
	KindIfExp
	KindImport
	KindIndex
	KindKeyword
	KindList
	KindListComp
	KindName
	KindPass
	KindPrint
	KindRaise
	KindReturn
	KindSlice
	KindSubscript
	KindTryExcept
	KindTryFinally
	KindTuple
	KindUnaryOp
	KindWhile
	KindWith
	KindYield

	kindCount
)

var kindNames = [kindCount]string{
	KindInvalid:       "Invalid",
	KindModule:        "Module",
	KindFunctionDef:   "Function",
	KindClassDef:      "Class",
	KindLambda:        "Lambda",
	KindGenExpr:       "GenExpr",
	KindArguments:     "Arguments",
	KindAssAttr:       "AssAttr",
	KindAssName:       "AssName",
	KindAssert:        "Assert",
	KindAssign:        "Assign",
	KindAugAssign:     "AugAssign",
	KindBackquote:     "Backquote",
	KindBinOp:         "BinOp",
	KindBoolOp:        "BoolOp",
	KindBreak:         "Break",
	KindCallFunc:      "CallFunc",
	KindCompare:       "Compare",
	KindComprehension: "Comprehension",
	KindConst:         "Const",
	KindContinue:      "Continue",
	KindDecorators:    "Decorators",
	KindDelAttr:       "DelAttr",
	KindDelName:       "DelName",
	KindDelete:        "Delete",
	KindDict:          "Dict",
	KindDiscard:       "Discard",
	KindEllipsis:      "Ellipsis",
	KindEmptyNode:     "EmptyNode",
	KindExceptHandler: "ExceptHandler",
	KindExec:          "Exec",
	KindExtSlice:      "ExtSlice",
	KindFor:           "For",
	KindFrom:          "From",
	KindGetattr:       "Getattr",
	KindGlobal:        "Global",
	KindIf:            "If",
	KindIfExp:         "IfExp",
	KindImport:        "Import",
	KindIndex:         "Index",
	KindKeyword:       "Keyword",
	KindList:          "List",
	KindListComp:      "ListComp",
	KindName:          "Name",
	KindPass:          "Pass",
	KindPrint:         "Print",
	KindRaise:         "Raise",
	KindReturn:        "Return",
	KindSlice:         "Slice",
	KindSubscript:     "Subscript",
	KindTryExcept:     "TryExcept",
	KindTryFinally:    "TryFinally",
	KindTuple:         "Tuple",
	KindUnaryOp:       "UnaryOp",
	KindWhile:         "While",
	KindWith:          "With",
	KindYield:         "Yield",
}

func (k Kind) String() string {
	if k >= kindCount {
		return "Unknown"
	}
	return kindNames[k]
}

// IsStatement reports whether nodes of this kind may appear directly in a block body.
func (k Kind) IsStatement() bool {
	switch k {
	case KindFunctionDef, KindClassDef,
		KindAssert, KindAssign, KindAugAssign, KindBreak, KindContinue, KindDelete,
		KindDiscard, KindExceptHandler, KindExec, KindFor, KindFrom, KindGlobal, KindIf,
		KindImport, KindPass, KindPrint, KindRaise, KindReturn, KindTryExcept,
		KindTryFinally, KindWhile, KindWith:
		return true
	}
	return false
}

// IsScope reports whether the kind opens a lexical scope.
func (k Kind) IsScope() bool {
	switch k {
	case KindModule, KindFunctionDef, KindClassDef, KindLambda, KindGenExpr:
		return true
	}
	return false
}

// IsFrame reports whether the kind opens a frame (a scope that owns local bindings).
func (k Kind) IsFrame() bool {
	switch k {
	case KindModule, KindFunctionDef, KindClassDef, KindLambda:
		return true
	}
	return false
}

// HasBlocks reports whether the kind owns nested statement bodies.
func (k Kind) HasBlocks() bool {
	switch k {
	case KindIf, KindFor, KindWhile, KindTryExcept, KindTryFinally, KindWith:
		return true
	}
	return false
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s && Kind(k) != KindInvalid {
			return Kind(k), true
		}
	}
	return KindInvalid, false
}
