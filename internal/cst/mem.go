package cst

// MemTree is an in-memory Tree. Trees are normally produced by Build.
type MemTree struct {
	src  []byte
	root *MemNode
}

// MemNode is a node of a MemTree.
type MemNode struct {
	tree       *MemTree
	typ        string
	named      bool
	missing    bool
	startByte  uint32
	endByte    uint32
	startPoint Point
	endPoint   Point
	children   []*MemNode
	hasError   bool
}

func (t *MemTree) Root() Node     { return t.root }
func (t *MemTree) Source() []byte { return t.src }
func (t *MemTree) Walk() Cursor   { return newMemCursor(t.root) }
func (t *MemTree) Close()         {}

func (n *MemNode) Type() string      { return n.typ }
func (n *MemNode) IsNamed() bool     { return n.named }
func (n *MemNode) StartByte() uint32 { return n.startByte }
func (n *MemNode) EndByte() uint32   { return n.endByte }
func (n *MemNode) StartPoint() Point { return n.startPoint }
func (n *MemNode) EndPoint() Point   { return n.endPoint }
func (n *MemNode) ChildCount() int   { return len(n.children) }
func (n *MemNode) HasError() bool    { return n.hasError }

func (n *MemNode) Child(i int) Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

func (n *MemNode) Text() string {
	return string(n.tree.src[n.startByte:n.endByte])
}

type memFrame struct {
	node  *MemNode
	index int
}

// memCursor keeps the path from the reset node down to the current node.
type memCursor struct {
	path []memFrame
}

func newMemCursor(n *MemNode) *memCursor {
	return &memCursor{path: []memFrame{{node: n}}}
}

func (c *memCursor) Node() Node {
	return c.path[len(c.path)-1].node
}

func (c *memCursor) GotoFirstChild() bool {
	cur := c.path[len(c.path)-1].node
	if len(cur.children) == 0 {
		return false
	}
	c.path = append(c.path, memFrame{node: cur.children[0], index: 0})
	return true
}

func (c *memCursor) GotoNextSibling() bool {
	if len(c.path) < 2 {
		return false
	}
	parent := c.path[len(c.path)-2].node
	top := &c.path[len(c.path)-1]
	if top.index+1 >= len(parent.children) {
		return false
	}
	top.index++
	top.node = parent.children[top.index]
	return true
}

func (c *memCursor) GotoParent() bool {
	if len(c.path) < 2 {
		return false
	}
	c.path = c.path[:len(c.path)-1]
	return true
}

func (c *memCursor) Reset(n Node) {
	mn, ok := n.(*MemNode)
	if !ok {
		panic("cst: memCursor.Reset with a foreign node")
	}
	c.path = append(c.path[:0], memFrame{node: mn})
}

func (c *memCursor) Close() {
	c.path = nil
}
