package ast

// Initializer is the right-hand side of an InitDeclarator or a list item.
type Initializer interface {
	Node
	initializer()
}

type ExpressionInitializer struct {
	Loc
	Expr Expr
}

// InitializerList is `{ items }`.
type InitializerList struct {
	Loc
	Items []*InitializerListItem // nil for `{}`
}

type InitializerListItem struct {
	Loc
	Designators []Designator // nil without designation
	Initializer Initializer
}

func (*ExpressionInitializer) initializer() {}
func (*InitializerList) initializer()       {}

// Designator is one step of a designation (`[i]`, `.field`, `[a ... b]`).
type Designator interface {
	Node
	designator()
}

type IndexDesignator struct {
	Loc
	Index Expr
}

type MemberDesignator struct {
	Loc
	Name string
}

// RangeDesignator is the GNU `[from ... to]` form.
type RangeDesignator struct {
	Loc
	From Expr
	To   Expr
}

func (*IndexDesignator) designator()  {}
func (*MemberDesignator) designator() {}
func (*RangeDesignator) designator()  {}
