package ast

import (
	"vulwitch/internal/diag"
)

// Children returns the direct children of n in source order. Absent optional
// children are skipped. A node type outside the catalogue is a defect.
func Children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		if !isNil(c) {
			out = append(out, c)
		}
	}

	switch n := n.(type) {
	case *TranslationUnit:
		for _, c := range n.Nodes {
			add(c)
		}
	case *Declaration:
		for _, c := range n.Specifiers {
			add(c)
		}
		for _, c := range n.Declarators {
			add(c)
		}

	// preprocessor
	case *Identifier, *UndefDirective, *LineDirective, *ErrorDirective,
		*PragmaDirective, *EndifDirective, *PreprocessPrimitive:
	case *DefineDirective:
		add(n.Name)
	case *FunctionDefineDirective:
		add(n.Name)
		for _, p := range n.Params {
			add(p)
		}
	case *IncludeDirective:
		if n.Call != nil {
			add(n.Call)
		}
	case *IfSection:
		add(n.If)
		for _, e := range n.Elifs {
			add(e)
		}
		if n.Else != nil {
			add(n.Else)
		}
		if n.Endif != nil {
			add(n.Endif)
		}
	case *IfDirective:
		add(n.Condition)
		for _, c := range n.Group {
			add(c)
		}
	case *IfdefDirective:
		if n.Name != nil {
			add(n.Name)
		}
		for _, c := range n.Group {
			add(c)
		}
	case *ElifDirective:
		add(n.Condition)
		for _, c := range n.Group {
			add(c)
		}
	case *ElseDirective:
		for _, c := range n.Group {
			add(c)
		}
	case *PreprocessDefined:
		if n.Name != nil {
			add(n.Name)
		}
	case *PreprocessUnary:
		add(n.Operand)
	case *PreprocessBinary:
		add(n.Left)
		add(n.Right)
	case *PreprocessCall:
		if n.Callee != nil {
			add(n.Callee)
		}
		for _, a := range n.Args {
			add(a)
		}
	case *PreprocessParenthesized:
		add(n.Inner)

	// specifiers
	case *StorageClassSpecifier, *TypeQualifier, *FunctionSpecifier,
		*PrimitiveTypeSpecifier, *TypedefName:
	case *AlignasTypeSpecifier:
		if n.Type != nil {
			add(n.Type)
		}
	case *AlignasExprSpecifier:
		add(n.Expr)
	case *MacroTypeSpecifier:
		if n.Macro != nil {
			add(n.Macro)
		}
		if n.Type != nil {
			add(n.Type)
		}
	case *Attribute:
		for _, a := range n.Args {
			add(a)
		}

	// struct / union
	case *StructSpecifier:
		if n.Tag != nil {
			add(n.Tag)
		}
		if n.Body != nil {
			add(n.Body)
		}
		if n.Attribute != nil {
			add(n.Attribute)
		}
	case *FieldList:
		for _, f := range n.Fields {
			add(f)
		}
	case *StructField:
		for _, s := range n.SpecQuals {
			add(s)
		}
		for _, d := range n.Declarators {
			add(d)
		}
		if n.Attribute != nil {
			add(n.Attribute)
		}
	case *StructDeclarator:
		add(n.Declarator)
		add(n.BitWidth)
	case *MacroDefStructDeclaration:
		if n.Define != nil {
			add(n.Define)
		}
	case *MacroFunctionDefStructDeclaration:
		if n.Define != nil {
			add(n.Define)
		}
	case *MacroDirectiveStructDeclaration:
		add(n.Directive)
	case *MacroConditionalStructDeclaration:
		add(n.If)
		for _, e := range n.Elifs {
			add(e)
		}
		if n.Else != nil {
			add(n.Else)
		}
	case *MacroStructDeclarationIfGroup:
		add(n.Condition)
		for _, d := range n.Declarations {
			add(d)
		}
	case *MacroStructDeclarationIfdefGroup:
		if n.Identifier != nil {
			add(n.Identifier)
		}
		for _, d := range n.Declarations {
			add(d)
		}
	case *MacroStructDeclarationElifGroup:
		add(n.Condition)
		for _, d := range n.Declarations {
			add(d)
		}
	case *MacroStructDeclarationElseGroup:
		for _, d := range n.Declarations {
			add(d)
		}

	// enum
	case *EnumSpecifier:
		if n.Tag != nil {
			add(n.Tag)
		}
		if n.Body != nil {
			add(n.Body)
		}
		if n.Attribute != nil {
			add(n.Attribute)
		}
	case *EnumeratorList:
		for _, it := range n.Items {
			add(it)
		}
	case *Enumerator:
		if n.Name != nil {
			add(n.Name)
		}
		add(n.Value)
	case *MacroDirectiveEnumerator:
		add(n.Directive)
	case *MacroEnumeratorList:
		add(n.If)
		for _, e := range n.Elifs {
			add(e)
		}
		if n.Else != nil {
			add(n.Else)
		}
	case *MacroEnumeratorIfGroup:
		add(n.Condition)
		for _, e := range n.Enumerators {
			add(e)
		}
	case *MacroEnumeratorIfdefGroup:
		if n.Identifier != nil {
			add(n.Identifier)
		}
		for _, e := range n.Enumerators {
			add(e)
		}
	case *MacroEnumeratorElifGroup:
		add(n.Condition)
		for _, e := range n.Enumerators {
			add(e)
		}
	case *MacroEnumeratorElseGroup:
		for _, e := range n.Enumerators {
			add(e)
		}

	// declarators
	case *IdentifierDeclarator:
	case *PointerDeclarator:
		for _, q := range n.Qualifiers {
			add(q)
		}
		add(n.Inner)
	case *FunctionDeclarator:
		add(n.Inner)
		for _, p := range n.Params {
			add(p)
		}
		for _, a := range n.Attributes {
			add(a)
		}
	case *ArrayDeclarator:
		add(n.Inner)
		if n.Size != nil {
			add(n.Size)
		}
	case *ParenthesizedDeclarator:
		add(n.Inner)
	case *InitDeclarator:
		add(n.Declarator)
		add(n.Initializer)
	case *AbstractPointerDeclarator:
		for _, q := range n.Qualifiers {
			add(q)
		}
		add(n.Inner)
	case *AbstractFunctionDeclarator:
		add(n.Inner)
		for _, p := range n.Params {
			add(p)
		}
	case *AbstractArrayDeclarator:
		add(n.Inner)
		if n.Size != nil {
			add(n.Size)
		}
	case *AbstractParenthesizedDeclarator:
		add(n.Inner)
	case *ArraySize:
		for _, q := range n.Qualifiers {
			add(q)
		}
		add(n.Expr)
	case *ParameterDeclaration:
		for _, s := range n.Specifiers {
			add(s)
		}
		add(n.Declarator)
		add(n.Abstract)
		for _, a := range n.Attributes {
			add(a)
		}
	case *TypeName:
		for _, s := range n.SpecQuals {
			add(s)
		}
		add(n.Abstract)

	// initializers
	case *ExpressionInitializer:
		add(n.Expr)
	case *InitializerList:
		for _, it := range n.Items {
			add(it)
		}
	case *InitializerListItem:
		for _, d := range n.Designators {
			add(d)
		}
		add(n.Initializer)
	case *IndexDesignator:
		add(n.Index)
	case *MemberDesignator:
	case *RangeDesignator:
		add(n.From)
		add(n.To)

	// expressions
	case *IdentifierExpr, *Literal:
	case *ParenExpr:
		add(n.Inner)
	case *UnaryExpr:
		add(n.Operand)
	case *BinaryExpr:
		add(n.Left)
		add(n.Right)
	case *SizeofExpr:
		add(n.Expr)
		if n.Type != nil {
			add(n.Type)
		}
	case *CastExpr:
		if n.Type != nil {
			add(n.Type)
		}
		add(n.Expr)
	case *CallExpr:
		add(n.Callee)
		for _, a := range n.Args {
			add(a)
		}

	default:
		panic(diag.Unreachable("ast: unexpected node type %T", n))
	}
	return out
}

// isNil reports whether an interface holds nothing or a nil pointer.
func isNil(n Node) bool {
	if n == nil {
		return true
	}
	switch v := n.(type) {
	case *Identifier:
		return v == nil
	case *TypeName:
		return v == nil
	case *ArraySize:
		return v == nil
	case *Attribute:
		return v == nil
	}
	return false
}

// Visitor is called by Walk for every node. Returning false prunes the subtree.
type Visitor func(n Node) bool

// Walk visits n and its descendants depth-first in source order.
func Walk(n Node, visit Visitor) {
	if isNil(n) || !visit(n) {
		return
	}
	for _, c := range Children(n) {
		Walk(c, visit)
	}
}

// Inspect collects every node in the subtree for which keep returns true.
func Inspect(n Node, keep func(Node) bool) []Node {
	var out []Node
	Walk(n, func(c Node) bool {
		if keep(c) {
			out = append(out, c)
		}
		return true
	})
	return out
}
