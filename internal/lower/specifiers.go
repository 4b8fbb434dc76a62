package lower

import (
	"vulwitch/internal/ast"
	"vulwitch/internal/cst"
	"vulwitch/internal/diag"
)

// firstToken is the type of the first child of n, "" for a leaf.
func firstToken(n cst.Node) string {
	if n.ChildCount() == 0 {
		return ""
	}
	return n.Child(0).Type()
}

var qualifierKinds = map[string]ast.QualifierKind{
	"const":        ast.QualConst,
	"volatile":     ast.QualVolatile,
	"restrict":     ast.QualRestrict,
	"__restrict__": ast.QualRestrict,
	"__restrict":   ast.QualRestrict,
	"_Atomic":      ast.QualAtomic,
	"_Nonnull":     ast.QualNonnull,
}

var storageClasses = map[string]ast.StorageClass{
	"extern":        ast.StorageExtern,
	"static":        ast.StorageStatic,
	"auto":          ast.StorageAuto,
	"register":      ast.StorageRegister,
	"thread_local":  ast.StorageThreadLocal,
	"_Thread_local": ast.StorageThreadLocal,
	"__thread":      ast.StorageThreadLocal,
}

// inline spellings live under storage_class_specifier in the grammar.
var inlineSpellings = map[string]bool{
	"inline":        true,
	"__inline":      true,
	"__inline__":    true,
	"__forceinline": true,
}

var primitiveTypes = map[string]ast.PrimitiveType{
	"void":     ast.PrimVoid,
	"char":     ast.PrimChar,
	"short":    ast.PrimShort,
	"int":      ast.PrimInt,
	"long":     ast.PrimLong,
	"float":    ast.PrimFloat,
	"double":   ast.PrimDouble,
	"signed":   ast.PrimSigned,
	"unsigned": ast.PrimUnsigned,
	"bool":     ast.PrimBool,
	"_Bool":    ast.PrimBool,
	"_Complex": ast.PrimComplex,
}

// sizeFragments are the keyword tokens of a sized_type_specifier.
var sizeFragments = map[string]ast.PrimitiveType{
	"signed":   ast.PrimSigned,
	"unsigned": ast.PrimUnsigned,
	"long":     ast.PrimLong,
	"short":    ast.PrimShort,
}

func (p *Parser) isTypeSpecifier() bool {
	return p.w.is("struct_specifier", "union_specifier", "enum_specifier",
		"macro_type_specifier", "primitive_type", "type_identifier")
}

// isQualifier reports a type_qualifier that is a real qualifier, not
// _Noreturn or alignas which the grammar files under the same node.
func (p *Parser) isQualifier() bool {
	if !p.w.is("type_qualifier") {
		return false
	}
	_, ok := qualifierKinds[firstToken(p.w.node())]
	return ok
}

func (p *Parser) isDeclSpecifier() bool {
	return p.isTypeSpecifier() || p.w.is("sized_type_specifier", "storage_class_specifier",
		"type_qualifier", "alignas_qualifier", "attribute_specifier",
		"ms_declspec_modifier", "attribute_declaration")
}

// declSpecifiers consumes at most n declaration specifiers. The grammar does
// not delimit the specifier run from the declarator, so the loop stops at the
// first node that is no specifier or once n is used up. Every fragment of a
// sized type counts toward n.
func (p *Parser) declSpecifiers(n int) []ast.DeclSpecifier {
	var out []ast.DeclSpecifier
	for count := 0; count < n && !p.w.atEnd() && p.isDeclSpecifier(); {
		if p.w.is("sized_type_specifier") {
			frags := p.sizedType()
			for _, f := range frags {
				out = append(out, asDeclSpecifier(f))
			}
			count += len(frags)
			continue
		}
		out = append(out, p.declSpecifier())
		count++
	}
	return out
}

func (p *Parser) declSpecifier() ast.DeclSpecifier {
	switch p.w.typ() {
	case "storage_class_specifier":
		return p.storageClass()
	case "type_qualifier":
		return p.qualifierSpecifier()
	case "alignas_qualifier":
		return p.alignas()
	case "attribute_specifier":
		return p.attribute()
	case "ms_declspec_modifier":
		p.errorf("__declspec modifier is not supported")
	case "attribute_declaration":
		p.notImplemented("[[...]] attribute declaration")
	}
	return p.typeSpecifier()
}

// asDeclSpecifier widens a specifier-qualifier; every SpecQual is also a
// declaration specifier.
func asDeclSpecifier(s ast.SpecQual) ast.DeclSpecifier {
	d, ok := s.(ast.DeclSpecifier)
	if !ok {
		panic(diag.Unreachable("%T is not a declaration specifier", s))
	}
	return d
}

// specQuals consumes at most n type specifiers and qualifiers.
func (p *Parser) specQuals(n int) []ast.SpecQual {
	var out []ast.SpecQual
	for count := 0; count < n && !p.w.atEnd(); {
		switch {
		case p.w.is("sized_type_specifier"):
			frags := p.sizedType()
			out = append(out, frags...)
			count += len(frags)
		case p.isQualifier():
			out = append(out, p.typeQualifier())
			count++
		case p.isTypeSpecifier():
			out = append(out, p.typeSpecifier())
			count++
		default:
			return out
		}
	}
	return out
}

func (p *Parser) storageClass() ast.DeclSpecifier {
	r := p.w.here()
	tok := firstToken(p.w.node())
	var spec ast.DeclSpecifier
	if k, ok := storageClasses[tok]; ok {
		spec = &ast.StorageClassSpecifier{Loc: ast.At(r), Kind: k}
	} else if inlineSpellings[tok] {
		spec = &ast.FunctionSpecifier{Loc: ast.At(r), Kind: ast.FuncInline}
	} else {
		p.errorf("unsupported storage class %q", tok)
	}
	p.w.skip()
	return spec
}

// qualifierSpecifier lowers a type_qualifier in a declaration-specifier
// position, where it may also spell _Noreturn or alignas.
func (p *Parser) qualifierSpecifier() ast.DeclSpecifier {
	r := p.w.here()
	tok := firstToken(p.w.node())
	switch tok {
	case "_Noreturn", "noreturn":
		p.w.skip()
		return &ast.FunctionSpecifier{Loc: ast.At(r), Kind: ast.FuncNoreturn}
	case "alignas_qualifier":
		p.w.enter()
		spec := p.alignas()
		p.expectEnd("type qualifier")
		p.w.leave()
		return spec
	}
	return p.typeQualifier()
}

func (p *Parser) typeQualifier() *ast.TypeQualifier {
	if !p.w.is("type_qualifier") {
		p.unsupported("type qualifier")
	}
	tok := firstToken(p.w.node())
	k, ok := qualifierKinds[tok]
	if !ok {
		p.errorf("unsupported type qualifier %q", tok)
	}
	r := p.w.here()
	p.w.skip()
	return &ast.TypeQualifier{Loc: ast.At(r), Kind: k}
}

// qualifiers consumes a run of type qualifiers; nil when there is none.
func (p *Parser) qualifiers() []*ast.TypeQualifier {
	var out []*ast.TypeQualifier
	for !p.w.atEnd() && p.isQualifier() {
		out = append(out, p.typeQualifier())
	}
	return out
}

// alignas: ("alignas" | "_Alignas") "(" (type_descriptor | expression) ")"
func (p *Parser) alignas() ast.DeclSpecifier {
	r := p.w.here()
	p.w.enter()
	if !p.accept("alignas") && !p.accept("_Alignas") {
		p.unsupported("alignment specifier")
	}
	p.expect("(")
	var spec ast.DeclSpecifier
	if p.w.is("type_descriptor") {
		spec = &ast.AlignasTypeSpecifier{Loc: ast.At(r), Type: p.typeName()}
	} else {
		spec = &ast.AlignasExprSpecifier{Loc: ast.At(r), Expr: p.expr()}
	}
	p.expect(")")
	p.expectEnd("alignment specifier")
	p.w.leave()
	return spec
}

// attribute: "__attribute__" "(" argument_list ")"
func (p *Parser) attribute() *ast.Attribute {
	if !p.w.is("attribute_specifier") {
		p.unsupported("attribute")
	}
	r := p.w.here()
	p.w.enter()
	p.expect("__attribute__")
	p.expect("(")
	if !p.w.is("argument_list") {
		p.unsupported("attribute arguments")
	}
	args := p.argumentList()
	p.expect(")")
	p.expectEnd("attribute")
	p.w.leave()
	return &ast.Attribute{Loc: ast.At(r), Args: args}
}

func (p *Parser) typeSpecifier() ast.TypeSpecifier {
	switch p.w.typ() {
	case "struct_specifier", "union_specifier":
		return p.structSpecifier()
	case "enum_specifier":
		return p.enumSpecifier()
	case "macro_type_specifier":
		return p.macroType()
	case "primitive_type":
		return p.primitive()
	case "type_identifier":
		r := p.w.here()
		return &ast.TypedefName{Loc: ast.At(r), Name: p.text()}
	}
	p.unsupported("type specifier")
	panic("unreachable")
}

// primitive maps a primitive_type leaf. The grammar also files common
// typedefs (size_t, uint8_t, ...) under primitive_type; those stay names.
func (p *Parser) primitive() ast.TypeSpecifier {
	r := p.w.here()
	name := p.text()
	if k, ok := primitiveTypes[name]; ok {
		return &ast.PrimitiveTypeSpecifier{Loc: ast.At(r), Kind: k}
	}
	return &ast.TypedefName{Loc: ast.At(r), Name: name}
}

// sizedType expands `unsigned long long int` and friends into one specifier
// per fragment, in source order.
func (p *Parser) sizedType() []ast.SpecQual {
	p.w.enter()
	var out []ast.SpecQual
	for !p.w.atEnd() {
		if k, ok := sizeFragments[p.w.typ()]; ok {
			r := p.w.here()
			p.w.skip()
			out = append(out, &ast.PrimitiveTypeSpecifier{Loc: ast.At(r), Kind: k})
			continue
		}
		switch {
		case p.isQualifier():
			out = append(out, p.typeQualifier())
		case p.w.is("primitive_type", "type_identifier"):
			out = append(out, p.typeSpecifier())
		default:
			p.unsupported("sized type fragment")
		}
	}
	p.w.leave()
	return out
}

// macroType: identifier "(" type_descriptor ")"
func (p *Parser) macroType() *ast.MacroTypeSpecifier {
	r := p.w.here()
	p.w.enter()
	macro := p.identifier()
	p.expect("(")
	t := p.typeName()
	p.expect(")")
	p.expectEnd("macro type specifier")
	p.w.leave()
	return &ast.MacroTypeSpecifier{Loc: ast.At(r), Macro: macro, Type: t}
}

// typeName lowers a type_descriptor.
func (p *Parser) typeName() *ast.TypeName {
	if !p.w.is("type_descriptor") {
		p.unsupported("type name")
	}
	r := p.w.here()
	p.w.enter()
	t := &ast.TypeName{Loc: ast.At(r), SpecQuals: p.specQuals(p.w.remaining())}
	if len(t.SpecQuals) == 0 {
		p.unsupported("type specifier")
	}
	if !p.w.atEnd() && p.isAbstractDeclarator() {
		t.Abstract = p.abstractDeclarator()
	}
	p.expectEnd("type name")
	p.w.leave()
	return t
}
