package ast

import (
	"reflect"

	"vulwitch/internal/source"
)

// Node is implemented by every AST node. Nodes are built once by the lowering
// engine and must not be mutated afterwards; each child belongs to exactly one
// parent.
type Node interface {
	CodeRange() source.Range
	node()
}

// Loc carries the source range of a node. Every concrete node embeds it.
type Loc struct {
	Range source.Range
}

func (l Loc) CodeRange() source.Range { return l.Range }

func (Loc) node() {}

// At wraps a range for embedding.
func At(r source.Range) Loc { return Loc{Range: r} }

// Equal reports structural equality of two subtrees.
func Equal(a, b Node) bool {
	return reflect.DeepEqual(a, b)
}

// TranslationUnit is the root of a lowered source file.
type TranslationUnit struct {
	Loc
	// Nodes holds declarations and preprocessor directives in source order.
	// Empty for a file without items.
	Nodes []TopLevel
}

// Declaration: спецификаторы и список деклараторов.
type Declaration struct {
	Loc
	Specifiers []DeclSpecifier
	// Declarators is nil for declarations such as `struct S { int x; };`.
	Declarators []Declarator
}
