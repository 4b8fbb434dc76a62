package ast

// TopLevel is an item of a translation unit or of a top-level conditional group.
type TopLevel interface {
	Node
	topLevel()
}

// Directive is a preprocessor directive.
type Directive interface {
	TopLevel
	directive()
}

// CallDirective is a directive written as `#name argument` (#undef, #line, #error, #pragma).
type CallDirective interface {
	Directive
	callDirective()
}

// IfHead opens a conditional section: #if, #ifdef or #ifndef.
type IfHead interface {
	Node
	ifHead()
}

// Identifier is a name together with the range it was spelled at.
type Identifier struct {
	Loc
	Name string
}

func (*Declaration) topLevel() {}

// DefineDirective is an object-like `#define NAME value`.
type DefineDirective struct {
	Loc
	Name *Identifier
	// Value is the raw replacement text; empty when the macro has no body.
	Value string
}

// FunctionDefineDirective is a function-like `#define NAME(params) value`.
type FunctionDefineDirective struct {
	Loc
	Name     *Identifier
	Params   []*Identifier // nil for `NAME()`
	Variadic bool
	Value    string
}

type UndefDirective struct {
	Loc
	Name string
}

type LineDirective struct {
	Loc
	Arg string
}

type ErrorDirective struct {
	Loc
	Message string
}

type PragmaDirective struct {
	Loc
	Arg string
}

// IncludeKind describes how the #include target was spelled.
type IncludeKind uint8

const (
	IncludeSystemLib IncludeKind = iota // <stdio.h>
	IncludeString                       // "local.h"
	IncludeIdentifier                   // HEADER
	IncludeCall                         // MACRO(x)
)

func (k IncludeKind) String() string {
	switch k {
	case IncludeSystemLib:
		return "system_lib_string"
	case IncludeString:
		return "string_literal"
	case IncludeIdentifier:
		return "identifier"
	case IncludeCall:
		return "preproc_call_expression"
	}
	return "unknown"
}

type IncludeDirective struct {
	Loc
	Kind IncludeKind
	// Target is the raw spelling for every kind except IncludeCall.
	Target string
	Call   *PreprocessCall
}

// IfSection is a whole #if/#ifdef ... #endif construct at top level.
type IfSection struct {
	Loc
	If    IfHead
	Elifs []*ElifDirective // nil without #elif
	Else  *ElseDirective
	Endif *EndifDirective
}

type IfDirective struct {
	Loc
	Condition PreprocessExpr
	Group     []TopLevel // nil for an empty region
}

type IfdefDirective struct {
	Loc
	Name     *Identifier
	IsIfndef bool
	Group    []TopLevel
}

type ElifDirective struct {
	Loc
	Condition PreprocessExpr
	Group     []TopLevel
}

type ElseDirective struct {
	Loc
	Group []TopLevel
}

type EndifDirective struct {
	Loc
}

func (*DefineDirective) topLevel()         {}
func (*FunctionDefineDirective) topLevel() {}
func (*UndefDirective) topLevel()          {}
func (*LineDirective) topLevel()           {}
func (*ErrorDirective) topLevel()          {}
func (*PragmaDirective) topLevel()         {}
func (*IncludeDirective) topLevel()        {}
func (*IfSection) topLevel()               {}

func (*DefineDirective) directive()         {}
func (*FunctionDefineDirective) directive() {}
func (*UndefDirective) directive()          {}
func (*LineDirective) directive()           {}
func (*ErrorDirective) directive()          {}
func (*PragmaDirective) directive()         {}
func (*IncludeDirective) directive()        {}
func (*IfSection) directive()               {}

func (*UndefDirective) callDirective()  {}
func (*LineDirective) callDirective()   {}
func (*ErrorDirective) callDirective()  {}
func (*PragmaDirective) callDirective() {}

func (*IfDirective) ifHead()    {}
func (*IfdefDirective) ifHead() {}

// PreprocessExpr is an expression inside #if / #elif conditions.
// Macros are never expanded; the tree mirrors the source.
type PreprocessExpr interface {
	Node
	preprocessExpr()
}

type PrimitiveKind uint8

const (
	PrimitiveIdentifier PrimitiveKind = iota
	PrimitiveNumber
	PrimitiveChar
)

func (k PrimitiveKind) String() string {
	switch k {
	case PrimitiveIdentifier:
		return "identifier"
	case PrimitiveNumber:
		return "number_literal"
	case PrimitiveChar:
		return "char_literal"
	}
	return "unknown"
}

type PreprocessPrimitive struct {
	Loc
	Kind PrimitiveKind
	Text string
}

// PreprocessDefined is `defined NAME` or `defined(NAME)`.
type PreprocessDefined struct {
	Loc
	Name *Identifier
}

type PreprocessUnary struct {
	Loc
	Op      UnaryOp
	Operand PreprocessExpr
}

type PreprocessBinary struct {
	Loc
	Op    BinaryOp
	Left  PreprocessExpr
	Right PreprocessExpr
}

type PreprocessCall struct {
	Loc
	Callee *Identifier
	Args   []PreprocessExpr // nil for `F()`
}

type PreprocessParenthesized struct {
	Loc
	Inner PreprocessExpr
}

func (*PreprocessPrimitive) preprocessExpr()     {}
func (*PreprocessDefined) preprocessExpr()       {}
func (*PreprocessUnary) preprocessExpr()         {}
func (*PreprocessBinary) preprocessExpr()        {}
func (*PreprocessCall) preprocessExpr()          {}
func (*PreprocessParenthesized) preprocessExpr() {}
