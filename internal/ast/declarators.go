package ast

// Declarator is a named declarator.
type Declarator interface {
	Node
	declarator()
}

type IdentifierDeclarator struct {
	Loc
	Name string
}

// PointerDeclarator is `* [qualifiers] inner`.
type PointerDeclarator struct {
	Loc
	Qualifiers []*TypeQualifier // nil without qualifiers
	Inner      Declarator
}

type FunctionDeclarator struct {
	Loc
	Inner    Declarator
	Params   []*ParameterDeclaration // nil for `()`
	Variadic bool
	// Attributes written after the parameter list (`f(void) __attribute__((noreturn))`).
	Attributes []*Attribute
}

type ArrayDeclarator struct {
	Loc
	Inner Declarator
	Size  *ArraySize
}

type ParenthesizedDeclarator struct {
	Loc
	Inner Declarator
}

// InitDeclarator is `declarator = initializer`.
type InitDeclarator struct {
	Loc
	Declarator  Declarator
	Initializer Initializer
}

func (*IdentifierDeclarator) declarator()    {}
func (*PointerDeclarator) declarator()       {}
func (*FunctionDeclarator) declarator()      {}
func (*ArrayDeclarator) declarator()         {}
func (*ParenthesizedDeclarator) declarator() {}
func (*InitDeclarator) declarator()          {}

// AbstractDeclarator is an unnamed declarator used in type names and parameters.
type AbstractDeclarator interface {
	Node
	abstractDeclarator()
}

type AbstractPointerDeclarator struct {
	Loc
	Qualifiers []*TypeQualifier
	Inner      AbstractDeclarator // nil for a trailing `*`
}

type AbstractFunctionDeclarator struct {
	Loc
	Inner    AbstractDeclarator
	Params   []*ParameterDeclaration
	Variadic bool
}

type AbstractArrayDeclarator struct {
	Loc
	Inner AbstractDeclarator
	Size  *ArraySize
}

type AbstractParenthesizedDeclarator struct {
	Loc
	Inner AbstractDeclarator
}

func (*AbstractPointerDeclarator) abstractDeclarator()       {}
func (*AbstractFunctionDeclarator) abstractDeclarator()      {}
func (*AbstractArrayDeclarator) abstractDeclarator()         {}
func (*AbstractParenthesizedDeclarator) abstractDeclarator() {}

type ArraySizeKind uint8

const (
	// ArraySizeUnknown is `[]`.
	ArraySizeUnknown ArraySizeKind = iota
	// ArraySizeVariableUnknown is `[*]`.
	ArraySizeVariableUnknown
	// ArraySizeVariableExpression is `[expr]`.
	ArraySizeVariableExpression
	// ArraySizeStaticExpression is `[static expr]`.
	ArraySizeStaticExpression
)

func (k ArraySizeKind) String() string {
	switch k {
	case ArraySizeUnknown:
		return "unknown"
	case ArraySizeVariableUnknown:
		return "variable-unknown"
	case ArraySizeVariableExpression:
		return "variable-expression"
	case ArraySizeStaticExpression:
		return "static-expression"
	}
	return "invalid"
}

// ArraySize covers the bracketed part of an array declarator, `[` to `]`.
type ArraySize struct {
	Loc
	Kind       ArraySizeKind
	Qualifiers []*TypeQualifier
	Expr       Expr // nil for Unknown and VariableUnknown
}

// ParameterDeclaration holds at most one of Declarator and Abstract.
type ParameterDeclaration struct {
	Loc
	Specifiers []DeclSpecifier
	Declarator Declarator
	Abstract   AbstractDeclarator
	Attributes []*Attribute
}

// TypeName is a specifier-qualifier list with an optional abstract declarator,
// as written in casts, sizeof and _Alignas.
type TypeName struct {
	Loc
	SpecQuals []SpecQual
	Abstract  AbstractDeclarator
}
