// Package flow answers control-flow questions about statements of an ast.Tree:
// which lines belong to the branch a line falls into (BlockRange) and whether
// two statements can ever run on the same path (AreExclusive).
//
// Both are read-only walks over parent links and never touch the tree.
package flow
