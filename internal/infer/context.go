package infer

// Context carries the inference path. An engine pushes every value it starts
// inferring and pops it when done; a failed push means the value is already
// being inferred further up the stack.
type Context struct {
	path map[Value]struct{}
}

func NewContext() *Context {
	return &Context{path: make(map[Value]struct{})}
}

// Push records v on the path. It returns false if v is already there.
func (c *Context) Push(v Value) bool {
	if c.path == nil {
		c.path = make(map[Value]struct{})
	}
	if _, ok := c.path[v]; ok {
		return false
	}
	c.path[v] = struct{}{}
	return true
}

func (c *Context) Pop(v Value) {
	delete(c.path, v)
}

// Depth is the number of values currently being inferred.
func (c *Context) Depth() int {
	return len(c.path)
}

// Clone copies the path so that sibling branches do not see each other's entries.
func (c *Context) Clone() *Context {
	out := &Context{path: make(map[Value]struct{}, len(c.path))}
	for v := range c.path {
		out.path[v] = struct{}{}
	}
	return out
}
