package ast

// Field names a child slot of a node.
type Field uint8

const (
	FieldNone Field = iota
	FieldArgs
	FieldBases
	FieldBody
	FieldDecorators
	FieldDefaults
	FieldDest
	FieldDims
	FieldElt
	FieldElts
	FieldExpr
	FieldFail
	FieldFinalbody
	FieldFunc
	FieldGenerators
	FieldGlobals
	FieldHandlers
	FieldIfs
	FieldInst
	FieldItems
	FieldIter
	FieldKwargs
	FieldLeft
	FieldLocals
	FieldLower
	FieldName
	FieldNodes
	FieldOperand
	FieldOps
	FieldOrelse
	FieldRight
	FieldSlice
	FieldStarargs
	FieldStep
	FieldTarget
	FieldTargets
	FieldTback
	FieldTest
	FieldType
	FieldUpper
	FieldValue
	FieldValues
	FieldVars

	fieldCount
)

var fieldNames = [fieldCount]string{
	FieldNone:       "",
	FieldArgs:       "args",
	FieldBases:      "bases",
	FieldBody:       "body",
	FieldDecorators: "decorators",
	FieldDefaults:   "defaults",
	FieldDest:       "dest",
	FieldDims:       "dims",
	FieldElt:        "elt",
	FieldElts:       "elts",
	FieldExpr:       "expr",
	FieldFail:       "fail",
	FieldFinalbody:  "finalbody",
	FieldFunc:       "func",
	FieldGenerators: "generators",
	FieldGlobals:    "globals",
	FieldHandlers:   "handlers",
	FieldIfs:        "ifs",
	FieldInst:       "inst",
	FieldItems:      "items",
	FieldIter:       "iter",
	FieldKwargs:     "kwargs",
	FieldLeft:       "left",
	FieldLocals:     "locals",
	FieldLower:      "lower",
	FieldName:       "name",
	FieldNodes:      "nodes",
	FieldOperand:    "operand",
	FieldOps:        "ops",
	FieldOrelse:     "orelse",
	FieldRight:      "right",
	FieldSlice:      "slice",
	FieldStarargs:   "starargs",
	FieldStep:       "step",
	FieldTarget:     "target",
	FieldTargets:    "targets",
	FieldTback:      "tback",
	FieldTest:       "test",
	FieldType:       "type",
	FieldUpper:      "upper",
	FieldValue:      "value",
	FieldValues:     "values",
	FieldVars:       "vars",
}

func (f Field) String() string {
	if f >= fieldCount {
		return "?"
	}
	return fieldNames[f]
}
