package ast

// DeclSpecifier is one element of a declaration-specifier sequence.
type DeclSpecifier interface {
	Node
	declSpecifier()
}

// SpecQual is one element of a specifier-qualifier list (struct fields, type names).
type SpecQual interface {
	Node
	specQual()
}

// TypeSpecifier names a type inside specifier sequences.
type TypeSpecifier interface {
	DeclSpecifier
	SpecQual
	typeSpecifier()
}

type StorageClass uint8

const (
	StorageExtern StorageClass = iota
	StorageStatic
	StorageThreadLocal
	StorageAuto
	StorageRegister
)

func (s StorageClass) String() string {
	switch s {
	case StorageExtern:
		return "extern"
	case StorageStatic:
		return "static"
	case StorageThreadLocal:
		return "_Thread_local"
	case StorageAuto:
		return "auto"
	case StorageRegister:
		return "register"
	}
	return "unknown"
}

type StorageClassSpecifier struct {
	Loc
	Kind StorageClass
}

type QualifierKind uint8

const (
	QualConst QualifierKind = iota
	QualRestrict
	QualVolatile
	QualAtomic
	QualNonnull
)

func (q QualifierKind) String() string {
	switch q {
	case QualConst:
		return "const"
	case QualRestrict:
		return "restrict"
	case QualVolatile:
		return "volatile"
	case QualAtomic:
		return "_Atomic"
	case QualNonnull:
		return "_Nonnull"
	}
	return "unknown"
}

type TypeQualifier struct {
	Loc
	Kind QualifierKind
}

type FunctionSpecifierKind uint8

const (
	FuncInline FunctionSpecifierKind = iota
	FuncNoreturn
)

func (f FunctionSpecifierKind) String() string {
	switch f {
	case FuncInline:
		return "inline"
	case FuncNoreturn:
		return "_Noreturn"
	}
	return "unknown"
}

type FunctionSpecifier struct {
	Loc
	Kind FunctionSpecifierKind
}

// AlignasTypeSpecifier is `_Alignas(type-name)`.
type AlignasTypeSpecifier struct {
	Loc
	Type *TypeName
}

// AlignasExprSpecifier is `_Alignas(constant-expression)`.
type AlignasExprSpecifier struct {
	Loc
	Expr Expr
}

type PrimitiveType uint8

const (
	PrimVoid PrimitiveType = iota
	PrimChar
	PrimShort
	PrimInt
	PrimLong
	PrimFloat
	PrimDouble
	PrimSigned
	PrimUnsigned
	PrimBool
	PrimComplex
)

func (p PrimitiveType) String() string {
	switch p {
	case PrimVoid:
		return "void"
	case PrimChar:
		return "char"
	case PrimShort:
		return "short"
	case PrimInt:
		return "int"
	case PrimLong:
		return "long"
	case PrimFloat:
		return "float"
	case PrimDouble:
		return "double"
	case PrimSigned:
		return "signed"
	case PrimUnsigned:
		return "unsigned"
	case PrimBool:
		return "_Bool"
	case PrimComplex:
		return "_Complex"
	}
	return "unknown"
}

type PrimitiveTypeSpecifier struct {
	Loc
	Kind PrimitiveType
}

// TypedefName is a type spelled by an identifier (`size_t`, `FILE`).
type TypedefName struct {
	Loc
	Name string
}

// MacroTypeSpecifier is a macro applied to a type name, e.g. `LIST_HEAD(struct node)`.
type MacroTypeSpecifier struct {
	Loc
	Macro *Identifier
	Type  *TypeName
}

func (*StorageClassSpecifier) declSpecifier()  {}
func (*TypeQualifier) declSpecifier()          {}
func (*FunctionSpecifier) declSpecifier()      {}
func (*AlignasTypeSpecifier) declSpecifier()   {}
func (*AlignasExprSpecifier) declSpecifier()   {}
func (*Attribute) declSpecifier()              {}
func (*PrimitiveTypeSpecifier) declSpecifier() {}
func (*TypedefName) declSpecifier()            {}
func (*StructSpecifier) declSpecifier()        {}
func (*EnumSpecifier) declSpecifier()          {}
func (*MacroTypeSpecifier) declSpecifier()     {}

func (*TypeQualifier) specQual()          {}
func (*PrimitiveTypeSpecifier) specQual() {}
func (*TypedefName) specQual()            {}
func (*StructSpecifier) specQual()        {}
func (*EnumSpecifier) specQual()          {}
func (*MacroTypeSpecifier) specQual()     {}

func (*PrimitiveTypeSpecifier) typeSpecifier() {}
func (*TypedefName) typeSpecifier()            {}
func (*StructSpecifier) typeSpecifier()        {}
func (*EnumSpecifier) typeSpecifier()          {}
func (*MacroTypeSpecifier) typeSpecifier()     {}
