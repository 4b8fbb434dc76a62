package ast

// Expr is a C expression from the supported subset.
type Expr interface {
	Node
	expr()
}

type UnaryOp uint8

const (
	UnaryNot    UnaryOp = iota // !
	UnaryBitNot                // ~
	UnaryNeg                   // -
	UnaryPlus                  // +
	UnaryDeref                 // *
	UnaryAddrOf                // &
)

var unaryOpSpelling = [...]string{
	UnaryNot:    "!",
	UnaryBitNot: "~",
	UnaryNeg:    "-",
	UnaryPlus:   "+",
	UnaryDeref:  "*",
	UnaryAddrOf: "&",
}

func (op UnaryOp) String() string {
	if int(op) < len(unaryOpSpelling) {
		return unaryOpSpelling[op]
	}
	return "?"
}

// ParseUnaryOp maps an operator token to its UnaryOp.
func ParseUnaryOp(tok string) (UnaryOp, bool) {
	for i, s := range unaryOpSpelling {
		if s == tok {
			return UnaryOp(i), true
		}
	}
	return 0, false
}

type BinaryOp uint8

const (
	BinaryAdd BinaryOp = iota
	BinarySub
	BinaryMul
	BinaryDiv
	BinaryMod
	BinaryLogOr
	BinaryLogAnd
	BinaryBitOr
	BinaryBitXor
	BinaryBitAnd
	BinaryEq
	BinaryNe
	BinaryGt
	BinaryGe
	BinaryLe
	BinaryLt
	BinaryShl
	BinaryShr
)

var binaryOpSpelling = [...]string{
	BinaryAdd:    "+",
	BinarySub:    "-",
	BinaryMul:    "*",
	BinaryDiv:    "/",
	BinaryMod:    "%",
	BinaryLogOr:  "||",
	BinaryLogAnd: "&&",
	BinaryBitOr:  "|",
	BinaryBitXor: "^",
	BinaryBitAnd: "&",
	BinaryEq:     "==",
	BinaryNe:     "!=",
	BinaryGt:     ">",
	BinaryGe:     ">=",
	BinaryLe:     "<=",
	BinaryLt:     "<",
	BinaryShl:    "<<",
	BinaryShr:    ">>",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpSpelling) {
		return binaryOpSpelling[op]
	}
	return "?"
}

// ParseBinaryOp maps an operator token to its BinaryOp.
func ParseBinaryOp(tok string) (BinaryOp, bool) {
	for i, s := range binaryOpSpelling {
		if s == tok {
			return BinaryOp(i), true
		}
	}
	return 0, false
}

type LiteralKind uint8

const (
	LitNumber LiteralKind = iota
	LitChar
	LitString
	LitConcatString
	LitTrue
	LitFalse
	LitNull
)

func (k LiteralKind) String() string {
	switch k {
	case LitNumber:
		return "number"
	case LitChar:
		return "char"
	case LitString:
		return "string"
	case LitConcatString:
		return "concatenated_string"
	case LitTrue:
		return "true"
	case LitFalse:
		return "false"
	case LitNull:
		return "null"
	}
	return "unknown"
}

type IdentifierExpr struct {
	Loc
	Name string
}

// Literal keeps the literal exactly as spelled in the source.
type Literal struct {
	Loc
	Kind LiteralKind
	Text string
}

type ParenExpr struct {
	Loc
	Inner Expr
}

type UnaryExpr struct {
	Loc
	Op      UnaryOp
	Operand Expr
}

type BinaryExpr struct {
	Loc
	Op    BinaryOp
	Left  Expr
	Right Expr
}

// SizeofExpr has exactly one of Expr and Type.
type SizeofExpr struct {
	Loc
	Expr Expr
	Type *TypeName
}

type CastExpr struct {
	Loc
	Type *TypeName
	Expr Expr
}

type CallExpr struct {
	Loc
	Callee Expr
	Args   []Expr // nil for `f()`
}

func (*IdentifierExpr) expr() {}
func (*Literal) expr()        {}
func (*ParenExpr) expr()      {}
func (*UnaryExpr) expr()      {}
func (*BinaryExpr) expr()     {}
func (*SizeofExpr) expr()     {}
func (*CastExpr) expr()       {}
func (*CallExpr) expr()       {}

// Attribute is a GNU `__attribute__((args))` specifier.
type Attribute struct {
	Loc
	Args []Expr
}
