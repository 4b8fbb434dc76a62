// Package cst defines the narrow view of a concrete syntax tree that the
// lowering engine consumes. Any grammar engine able to expose typed nodes,
// positions, a subtree error flag and a reusable cursor can be plugged in;
// the tree-sitter adapter lives in cst/tsc, the in-memory tree used by tests
// lives here.
package cst

import "fmt"

// Point is a zero-based (row, column) position; column counts bytes.
type Point struct {
	Row    uint32
	Column uint32
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.Row, p.Column)
}

// Node is one CST node. Anonymous tokens report their spelling as Type.
type Node interface {
	Type() string
	IsNamed() bool
	StartByte() uint32
	EndByte() uint32
	StartPoint() Point
	EndPoint() Point
	ChildCount() int
	Child(i int) Node
	// HasError reports whether the subtree contains an ERROR or missing node.
	HasError() bool
	// Text returns the exact source bytes the node spans.
	Text() string
}

// Cursor walks a tree with first-child / next-sibling / parent moves.
// A cursor is owned by one goroutine.
type Cursor interface {
	Node() Node
	GotoFirstChild() bool
	GotoNextSibling() bool
	GotoParent() bool
	// Reset repositions the cursor on n, forgetting its previous path.
	Reset(n Node)
	Close()
}

// Tree owns the nodes of one parse together with the source they refer to.
type Tree interface {
	Root() Node
	Source() []byte
	Walk() Cursor
	Close()
}

// Node types shared by the lowering engine and the fixers.
const (
	TypeTranslationUnit = "translation_unit"
	TypeComment         = "comment"
	TypeError           = "ERROR"
)
