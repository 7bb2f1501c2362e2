// Package ast holds the syntax tree of one Python module.
//
// Nodes live in arenas owned by a Tree and are addressed by NodeID. Each node has
// a fixed header (Node: kind, parent, span, lines) and a payload stored in the
// arena of its kind; Tree.If, Tree.Dict and friends return the payload after
// checking the kind. The parent link is a plain index, so the tree stays single
// owner while still supporting upward navigation.
//
// Builders (Tree.NewIf, Tree.NewDict, ...) take already built children, link them
// to the new node and derive its line extent. Attaching a node that already has a
// parent panics.
//
// Generic structure is exposed through Children, LocateChild, FieldNodes and
// NodesOfKind; all of them see the same slots, so a Compare never exposes its
// operators and a Dict exposes its keys and values but not the pairs.
package ast
