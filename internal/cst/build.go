package cst

import (
	"strings"

	"fortio.org/safecast"
)

// Spec describes a node to be laid out by Build.
type Spec struct {
	typ     string
	text    string
	named   bool
	leaf    bool
	missing bool
	kids    []*Spec
}

// N is a named interior node.
func N(typ string, kids ...*Spec) *Spec {
	return &Spec{typ: typ, named: true, kids: kids}
}

// L is a named leaf such as an identifier or a literal.
func L(typ, text string) *Spec {
	return &Spec{typ: typ, text: text, named: true, leaf: true}
}

// T is an anonymous token spelled as its type.
func T(tok string) *Spec {
	return &Spec{typ: tok, text: tok, leaf: true}
}

// A is an anonymous token whose spelling differs from its type (`#  if` for `#if`).
func A(typ, text string) *Spec {
	return &Spec{typ: typ, text: text, leaf: true}
}

// Err is an ERROR node wrapping whatever the grammar could not place.
func Err(kids ...*Spec) *Spec {
	return &Spec{typ: TypeError, named: true, kids: kids}
}

// Missing is a zero-width token inserted by error recovery.
func Missing(tok string) *Spec {
	return &Spec{typ: tok, leaf: true, missing: true}
}

// Build lays out spec as a MemTree. Leaves are separated by one space, the
// "\n" token ends the current line. The root spans the whole source.
func Build(root *Spec) *MemTree {
	b := &builder{tree: &MemTree{}}
	node := b.layout(root)
	node.startByte, node.startPoint = 0, Point{}
	node.endByte, node.endPoint = b.off, b.pos
	b.tree.src = []byte(b.buf.String())
	b.tree.root = node
	return b.tree
}

type builder struct {
	tree    *MemTree
	buf     strings.Builder
	off     uint32
	pos     Point
	started bool
	newline bool
}

func (b *builder) layout(s *Spec) *MemNode {
	n := &MemNode{tree: b.tree, typ: s.typ, named: s.named, missing: s.missing}
	if s.leaf {
		b.leaf(n, s)
		return n
	}
	n.hasError = s.typ == TypeError
	n.startByte, n.startPoint = b.off, b.pos
	n.endByte, n.endPoint = b.off, b.pos
	for i, k := range s.kids {
		child := b.layout(k)
		if i == 0 {
			n.startByte, n.startPoint = child.startByte, child.startPoint
		}
		n.endByte, n.endPoint = child.endByte, child.endPoint
		n.hasError = n.hasError || child.hasError
		n.children = append(n.children, child)
	}
	return n
}

func (b *builder) leaf(n *MemNode, s *Spec) {
	if s.missing {
		n.hasError = true
		n.startByte, n.startPoint = b.off, b.pos
		n.endByte, n.endPoint = b.off, b.pos
		return
	}
	if b.started && !b.newline && s.text != "\n" {
		b.write(" ")
	}
	n.startByte, n.startPoint = b.off, b.pos
	b.write(s.text)
	n.endByte, n.endPoint = b.off, b.pos
	b.started = true
	b.newline = strings.HasSuffix(s.text, "\n")
}

func (b *builder) write(text string) {
	b.buf.WriteString(text)
	size, err := safecast.Conv[uint32](len(text))
	if err != nil {
		panic(err)
	}
	b.off += size
	for i := range len(text) {
		if text[i] == '\n' {
			b.pos.Row++
			b.pos.Column = 0
		} else {
			b.pos.Column++
		}
	}
}
