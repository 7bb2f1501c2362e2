package ast

type (
	// NodeID addresses a node in Tree.Nodes. Parent links are NodeIDs too, never owners.
	NodeID uint32
	// PayloadID addresses the per-kind data of a node inside the arena for its kind.
	PayloadID uint32
)

const (
	NoNodeID    NodeID    = 0
	NoPayloadID PayloadID = 0
)

func (id NodeID) IsValid() bool    { return id != NoNodeID }
func (id PayloadID) IsValid() bool { return id != NoPayloadID }
