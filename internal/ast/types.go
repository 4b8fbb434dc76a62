package ast

type StructKind uint8

const (
	StructKindStruct StructKind = iota
	StructKindUnion
)

func (k StructKind) String() string {
	if k == StructKindUnion {
		return "union"
	}
	return "struct"
}

// StructSpecifier is `struct|union [tag] [{ fields }]`; at least one of Tag and Body is set.
type StructSpecifier struct {
	Loc
	Kind StructKind
	Tag  *Identifier
	Body *FieldList
	// Attribute follows the body: `struct S { ... } __attribute__((packed))`.
	Attribute *Attribute
}

// FieldList is the braced body of a struct or union.
type FieldList struct {
	Loc
	Fields []StructDeclaration // nil for `{}`
}

// StructDeclaration is an element of a struct body.
type StructDeclaration interface {
	Node
	structDeclaration()
}

// StructField is an ordinary member declaration.
type StructField struct {
	Loc
	SpecQuals []SpecQual
	// Declarators is nil for anonymous members (`union { ... };`).
	Declarators []*StructDeclarator
	Attribute   *Attribute
}

// StructDeclarator is a member declarator with an optional bit width.
// Declarator is nil for an unnamed bit-field (`int : 3;`).
type StructDeclarator struct {
	Loc
	Declarator Declarator
	BitWidth   Expr
}

// MacroDefStructDeclaration is a `#define` written inside a struct body.
type MacroDefStructDeclaration struct {
	Loc
	Define *DefineDirective
}

type MacroFunctionDefStructDeclaration struct {
	Loc
	Define *FunctionDefineDirective
}

// MacroDirectiveStructDeclaration wraps #undef/#pragma/#line/#error inside a struct body.
type MacroDirectiveStructDeclaration struct {
	Loc
	Directive CallDirective
}

// MacroConditionalStructDeclaration is an #if/#ifdef section guarding struct members.
type MacroConditionalStructDeclaration struct {
	Loc
	If    MacroStructIfHead
	Elifs []*MacroStructDeclarationElifGroup
	Else  *MacroStructDeclarationElseGroup
}

// MacroStructIfHead opens a MacroConditionalStructDeclaration.
type MacroStructIfHead interface {
	Node
	structIfHead()
}

// Declarations is nil, never empty, when the guarded region has no members.
type MacroStructDeclarationIfGroup struct {
	Loc
	Condition    PreprocessExpr
	Declarations []StructDeclaration
}

type MacroStructDeclarationIfdefGroup struct {
	Loc
	Identifier   *Identifier
	IsIfndef     bool
	Declarations []StructDeclaration
}

type MacroStructDeclarationElifGroup struct {
	Loc
	Condition    PreprocessExpr
	Declarations []StructDeclaration
}

type MacroStructDeclarationElseGroup struct {
	Loc
	Declarations []StructDeclaration
}

func (*StructField) structDeclaration()                       {}
func (*MacroDefStructDeclaration) structDeclaration()         {}
func (*MacroFunctionDefStructDeclaration) structDeclaration() {}
func (*MacroDirectiveStructDeclaration) structDeclaration()   {}
func (*MacroConditionalStructDeclaration) structDeclaration() {}

func (*MacroStructDeclarationIfGroup) structIfHead()    {}
func (*MacroStructDeclarationIfdefGroup) structIfHead() {}

// EnumSpecifier is `enum [tag] [{ enumerators }]`; at least one of Tag and Body is set.
type EnumSpecifier struct {
	Loc
	Tag       *Identifier
	Body      *EnumeratorList
	Attribute *Attribute
}

type EnumeratorList struct {
	Loc
	Items []EnumeratorItem // nil for `{}`
}

// EnumeratorItem is an element of an enumerator list.
type EnumeratorItem interface {
	Node
	enumeratorItem()
}

type Enumerator struct {
	Loc
	Name  *Identifier
	Value Expr
}

// MacroDirectiveEnumerator wraps a directive call found between enumerators.
type MacroDirectiveEnumerator struct {
	Loc
	Directive CallDirective
}

// MacroEnumeratorList is an #if/#ifdef section guarding enumerators.
type MacroEnumeratorList struct {
	Loc
	If    MacroEnumeratorIfHead
	Elifs []*MacroEnumeratorElifGroup
	Else  *MacroEnumeratorElseGroup
}

type MacroEnumeratorIfHead interface {
	Node
	enumeratorIfHead()
}

// Enumerators is nil, never empty, when the guarded region has no items.
type MacroEnumeratorIfGroup struct {
	Loc
	Condition   PreprocessExpr
	Enumerators []EnumeratorItem
}

type MacroEnumeratorIfdefGroup struct {
	Loc
	Identifier  *Identifier
	IsIfndef    bool
	Enumerators []EnumeratorItem
}

type MacroEnumeratorElifGroup struct {
	Loc
	Condition   PreprocessExpr
	Enumerators []EnumeratorItem
}

type MacroEnumeratorElseGroup struct {
	Loc
	Enumerators []EnumeratorItem
}

func (*Enumerator) enumeratorItem()               {}
func (*MacroDirectiveEnumerator) enumeratorItem() {}
func (*MacroEnumeratorList) enumeratorItem()      {}

func (*MacroEnumeratorIfGroup) enumeratorIfHead()    {}
func (*MacroEnumeratorIfdefGroup) enumeratorIfHead() {}
