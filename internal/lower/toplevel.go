package lower

import (
	"vulwitch/internal/ast"
)

// Top-level productions that are recognised but not lowered yet.
var pendingTopLevel = map[string]string{
	"function_definition":   "function definition",
	"type_definition":       "type definition",
	"linkage_specification": "linkage specification",
	"attributed_statement":  "attributed statement",
	"expression_statement":  "expression statement",
}

func (p *Parser) topLevel() ast.TopLevel {
	typ := p.w.typ()
	switch typ {
	case "declaration":
		return p.declaration()
	case "preproc_include":
		return p.include()
	case "preproc_def":
		return p.define()
	case "preproc_function_def":
		return p.functionDefine()
	case "preproc_call":
		return p.callDirective()
	}
	if feature, ok := pendingTopLevel[typ]; ok {
		p.notImplemented(feature)
	}
	if p.isCondSection() {
		return p.ifSection()
	}
	if p.isTypeSpecifier() || p.w.is("sized_type_specifier") {
		return p.emptyDeclaration()
	}
	p.errorf("unsupported top-level node %s", typ)
	panic("unreachable")
}

// declaration: specifiers, declarators separated by ",", ";"
func (p *Parser) declaration() *ast.Declaration {
	r := p.w.here()
	p.w.enter()
	d := &ast.Declaration{Loc: ast.At(r), Specifiers: p.declSpecifiers(p.w.remaining())}
	if len(d.Specifiers) == 0 {
		p.unsupported("declaration specifier")
	}
	// int __stdcall f(void);
	if p.w.is("ms_call_modifier") {
		p.errorf("MSVC calling convention is not supported")
	}
	for p.isDeclarator() {
		d.Declarators = append(d.Declarators, p.declarator())
		if !p.accept(",") {
			break
		}
	}
	p.expect(";")
	p.expectEnd("declaration")
	p.w.leave()
	return d
}

// emptyDeclaration handles `struct S { ... };` and `enum E { ... };` at file
// scope. The grammar hides that production, so the type specifier and the
// ";" show up as two siblings of the translation unit.
func (p *Parser) emptyDeclaration() *ast.Declaration {
	start := p.w.here()
	var specs []ast.DeclSpecifier
	if p.w.is("sized_type_specifier") {
		for _, f := range p.sizedType() {
			specs = append(specs, asDeclSpecifier(f))
		}
	} else {
		specs = []ast.DeclSpecifier{p.typeSpecifier()}
	}
	// the ";" is a top-level sibling of its own; recovery may have inserted it
	if !p.w.atEnd() {
		p.checkSyntax()
	}
	end := p.expect(";")
	return &ast.Declaration{Loc: ast.At(p.w.span(start, end)), Specifiers: specs}
}
