package lower

import (
	"vulwitch/internal/ast"
	"vulwitch/internal/diag"
	"vulwitch/internal/source"
)

// failAt reports a CodeError spanning a whole construct rather than the
// current node.
func (p *Parser) failAt(r source.Range, nodeType, msg string) {
	p.fail(&diag.CodeError{Message: msg, Range: r, NodeType: nodeType})
}

// struct_specifier: ("struct" | "union") [type_identifier] [field_declaration_list]
// [attribute_specifier]
func (p *Parser) structSpecifier() *ast.StructSpecifier {
	r := p.w.here()
	typ := p.w.typ()
	p.w.enter()
	s := &ast.StructSpecifier{Loc: ast.At(r)}
	if p.accept("union") {
		s.Kind = ast.StructKindUnion
	} else {
		p.expect("struct")
	}
	if p.w.is("attribute_specifier", "ms_declspec_modifier") {
		p.errorf("attributes on a %s specifier are not supported", s.Kind)
	}
	if p.w.is("type_identifier") {
		s.Tag = p.identifier()
	}
	if p.w.is("field_declaration_list") {
		s.Body = p.fieldList()
	}
	if s.Tag == nil && s.Body == nil {
		p.failAt(r, typ, "both the tag and the body of "+s.Kind.String()+" are missing")
	}
	if p.w.is("attribute_specifier") {
		s.Attribute = p.attribute()
	}
	p.expectEnd(typ)
	p.w.leave()
	return s
}

// field_declaration_list: "{" members "}"
func (p *Parser) fieldList() *ast.FieldList {
	r := p.w.here()
	p.w.enter()
	p.expect("{")
	list := &ast.FieldList{Loc: ast.At(r)}
	for !p.w.is("}") {
		list.Fields = append(list.Fields, p.fieldDeclaration())
	}
	p.expect("}")
	p.expectEnd("field declaration list")
	p.w.leave()
	return list
}

func (p *Parser) fieldDeclaration() ast.StructDeclaration {
	switch p.w.typ() {
	case "field_declaration":
		return p.structField()
	case "preproc_def":
		d := p.define()
		return &ast.MacroDefStructDeclaration{Loc: ast.At(d.Range), Define: d}
	case "preproc_function_def":
		d := p.functionDefine()
		return &ast.MacroFunctionDefStructDeclaration{Loc: ast.At(d.Range), Define: d}
	case "preproc_call":
		d := p.callDirective()
		return &ast.MacroDirectiveStructDeclaration{Loc: ast.At(d.CodeRange()), Directive: d}
	}
	if p.isCondSection() {
		return p.fieldConditional()
	}
	p.unsupported("struct member")
	panic("unreachable")
}

// structField lowers a field_declaration: specifier-qualifiers, declarators
// with optional bit widths separated by ",", an optional attribute and ";".
func (p *Parser) structField() *ast.StructField {
	r := p.w.here()
	p.w.enter()
	f := &ast.StructField{Loc: ast.At(r), SpecQuals: p.specQuals(p.w.remaining())}
	if len(f.SpecQuals) == 0 {
		p.unsupported("member type")
	}
	for p.isDeclarator() || p.w.is("bitfield_clause") {
		f.Declarators = append(f.Declarators, p.structDeclarator())
		if !p.accept(",") {
			break
		}
	}
	if p.w.is("attribute_specifier") {
		f.Attribute = p.attribute()
	}
	p.expect(";")
	p.expectEnd("field declaration")
	p.w.leave()
	return f
}

func (p *Parser) structDeclarator() *ast.StructDeclarator {
	start := p.w.here()
	end := start
	d := &ast.StructDeclarator{}
	if p.isDeclarator() {
		d.Declarator = p.declarator()
		end = d.Declarator.CodeRange()
	}
	if p.w.is("bitfield_clause") {
		end = p.w.here()
		p.w.enter()
		p.expect(":")
		d.BitWidth = p.expr()
		p.expectEnd("bit-field width")
		p.w.leave()
	}
	d.Loc = ast.At(p.w.span(start, end))
	return d
}

// enum_specifier: "enum" [type_identifier] [":" type] [enumerator_list]
// [attribute_specifier]
func (p *Parser) enumSpecifier() *ast.EnumSpecifier {
	r := p.w.here()
	p.w.enter()
	p.expect("enum")
	e := &ast.EnumSpecifier{Loc: ast.At(r)}
	if p.w.is("attribute_specifier", "ms_declspec_modifier") {
		p.errorf("attributes on an enum specifier are not supported")
	}
	if p.w.is("type_identifier") {
		e.Tag = p.identifier()
	}
	if p.w.is(":") {
		p.errorf("enum of fixed underlying type is not supported")
	}
	if p.w.is("enumerator_list") {
		e.Body = p.enumeratorList()
	}
	if e.Tag == nil && e.Body == nil {
		p.failAt(r, "enum_specifier", "both the tag and the body of enum are missing")
	}
	if p.w.is("attribute_specifier") {
		e.Attribute = p.attribute()
	}
	p.expectEnd("enum specifier")
	p.w.leave()
	return e
}

// enumerator_list: "{" items "}", items being enumerators, directives and
// conditional groups separated by optional commas.
func (p *Parser) enumeratorList() *ast.EnumeratorList {
	r := p.w.here()
	p.w.enter()
	p.expect("{")
	list := &ast.EnumeratorList{Loc: ast.At(r)}
	for !p.w.is("}") {
		if p.accept(",") {
			continue
		}
		list.Items = append(list.Items, p.enumeratorItem())
	}
	p.expect("}")
	p.expectEnd("enumerator list")
	p.w.leave()
	return list
}

func (p *Parser) enumeratorItem() ast.EnumeratorItem {
	switch {
	case p.w.is("enumerator"):
		r := p.w.here()
		p.w.enter()
		e := &ast.Enumerator{Loc: ast.At(r), Name: p.identifier()}
		if p.accept("=") {
			e.Value = p.expr()
		}
		p.expectEnd("enumerator")
		p.w.leave()
		return e
	case p.w.is("preproc_call"):
		d := p.callDirective()
		return &ast.MacroDirectiveEnumerator{Loc: ast.At(d.CodeRange()), Directive: d}
	case p.isCondSection():
		return p.enumConditional()
	}
	p.unsupported("enumerator")
	panic("unreachable")
}
