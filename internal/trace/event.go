package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	KindBegin Kind = iota + 1
	KindEnd
	KindMark // instant event
)

var kindNames = [...]string{"unknown", "begin", "end", "mark"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[0]
}

// Scope is the granularity of an event; lower values are coarser.
type Scope uint8

const (
	ScopeCommand Scope = iota + 1 // one CLI command
	ScopePass                     // parse, diagnose
	ScopeFile                     // one module
	ScopeNode                     // one node query (blockrange, unpack)
)

var scopeNames = [...]string{"unknown", "command", "pass", "file", "node"}

func (s Scope) String() string {
	if int(s) < len(scopeNames) {
		return scopeNames[s]
	}
	return scopeNames[0]
}

// Attr is one key=value annotation of an end event.
type Attr struct {
	Key, Value string
}

// Event is a single trace record. Seq is assigned by the tracer storing it.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for a root span
	Name     string
	Detail   string
	Elapsed  time.Duration // KindEnd only
	Attrs    []Attr
}
