// Package tsc adapts the tree-sitter C grammar to the cst interfaces.
package tsc

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"

	"vulwitch/internal/cst"
)

// Parser wraps a tree-sitter parser configured for C. It is not safe for
// concurrent use; create one per worker.
type Parser struct {
	p *sitter.Parser
}

func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(c.GetLanguage())
	return &Parser{p: p}
}

// Parse builds a CST for src. The returned tree must be closed by the caller.
func (p *Parser) Parse(ctx context.Context, src []byte) (*Tree, error) {
	t, err := p.p.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse: %w", err)
	}
	return &Tree{t: t, src: src}, nil
}

func (p *Parser) Close() {
	p.p.Close()
}

// Parse is a one-shot helper using a throwaway parser.
func Parse(ctx context.Context, src []byte) (*Tree, error) {
	p := NewParser()
	defer p.Close()
	return p.Parse(ctx, src)
}

// Tree is a parsed C source.
type Tree struct {
	t   *sitter.Tree
	src []byte
}

func (t *Tree) Root() cst.Node   { return wrap(t.t.RootNode(), t.src) }
func (t *Tree) Source() []byte   { return t.src }
func (t *Tree) Close()           { t.t.Close() }
func (t *Tree) Walk() cst.Cursor { return &cursor{c: sitter.NewTreeCursor(t.t.RootNode()), src: t.src} }

type node struct {
	n   *sitter.Node
	src []byte
}

func wrap(n *sitter.Node, src []byte) cst.Node {
	if n == nil {
		return nil
	}
	return &node{n: n, src: src}
}

func (n *node) Type() string      { return n.n.Type() }
func (n *node) IsNamed() bool     { return n.n.IsNamed() }
func (n *node) StartByte() uint32 { return n.n.StartByte() }
func (n *node) EndByte() uint32   { return n.n.EndByte() }
func (n *node) StartPoint() cst.Point {
	p := n.n.StartPoint()
	return cst.Point{Row: p.Row, Column: p.Column}
}
func (n *node) EndPoint() cst.Point {
	p := n.n.EndPoint()
	return cst.Point{Row: p.Row, Column: p.Column}
}
func (n *node) ChildCount() int      { return int(n.n.ChildCount()) }
func (n *node) Child(i int) cst.Node { return wrap(n.n.Child(i), n.src) }
func (n *node) HasError() bool       { return n.n.HasError() }
func (n *node) Text() string         { return n.n.Content(n.src) }

type cursor struct {
	c   *sitter.TreeCursor
	src []byte
}

func (c *cursor) Node() cst.Node        { return wrap(c.c.CurrentNode(), c.src) }
func (c *cursor) GotoFirstChild() bool  { return c.c.GoToFirstChild() }
func (c *cursor) GotoNextSibling() bool { return c.c.GoToNextSibling() }
func (c *cursor) GotoParent() bool      { return c.c.GoToParent() }
func (c *cursor) Close()                { c.c.Close() }

func (c *cursor) Reset(n cst.Node) {
	tn, ok := n.(*node)
	if !ok {
		panic(fmt.Sprintf("tsc: cursor reset with foreign node %T", n))
	}
	c.c.Reset(tn.n)
}
