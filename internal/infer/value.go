package infer

import (
	"fmt"

	"astroid/internal/ast"
)

// Value identifies a node inside a particular tree. Inferred values may live in
// another module's tree, so the node index alone is not enough.
type Value struct {
	Tree *ast.Tree
	Node ast.NodeID
}

// Unknown is the unresolved value.
var Unknown = Value{}

func Of(t *ast.Tree, id ast.NodeID) Value {
	return Value{Tree: t, Node: id}
}

func (v Value) IsUnknown() bool {
	return v.Tree == nil || !v.Node.IsValid()
}

// Kind returns the node kind, KindInvalid for Unknown.
func (v Value) Kind() ast.Kind {
	if v.IsUnknown() {
		return ast.KindInvalid
	}
	return v.Tree.Kind(v.Node)
}

func (v Value) String() string {
	if v.IsUnknown() {
		return "Unknown"
	}
	name := v.Tree.ModuleName(v.Node)
	if name == "" {
		return fmt.Sprintf("%s#%d", v.Kind(), v.Node)
	}
	return fmt.Sprintf("%s#%d@%s", v.Kind(), v.Node, name)
}
