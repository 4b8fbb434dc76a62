package lower

import (
	"vulwitch/internal/ast"
)

func (p *Parser) isDeclarator() bool {
	return p.w.is("identifier", "field_identifier", "pointer_declarator",
		"function_declarator", "array_declarator", "parenthesized_declarator",
		"init_declarator", "attributed_declarator")
}

func (p *Parser) isAbstractDeclarator() bool {
	return p.w.is("abstract_pointer_declarator", "abstract_function_declarator",
		"abstract_array_declarator", "abstract_parenthesized_declarator")
}

func (p *Parser) declarator() ast.Declarator {
	switch p.w.typ() {
	case "identifier", "field_identifier":
		r := p.w.here()
		return &ast.IdentifierDeclarator{Loc: ast.At(r), Name: p.text()}
	case "pointer_declarator":
		return p.pointerDeclarator()
	case "function_declarator":
		return p.functionDeclarator()
	case "array_declarator":
		return p.arrayDeclarator()
	case "parenthesized_declarator":
		return p.parenDeclarator()
	case "init_declarator":
		return p.initDeclarator()
	case "attributed_declarator":
		p.notImplemented("attributed declarator")
	}
	p.unsupported("declarator")
	panic("unreachable")
}

// pointer_declarator: [ms_based_modifier] "*" [ms_pointer_modifier...] type_qualifier* declarator
func (p *Parser) pointerDeclarator() *ast.PointerDeclarator {
	r := p.w.here()
	p.w.enter()
	if p.w.is("ms_based_modifier") {
		p.errorf("__based pointer modifier is not supported")
	}
	p.expect("*")
	if p.w.is("ms_pointer_modifier") {
		p.errorf("MSVC pointer modifier is not supported")
	}
	d := &ast.PointerDeclarator{Loc: ast.At(r), Qualifiers: p.qualifiers()}
	d.Inner = p.declarator()
	p.expectEnd("pointer declarator")
	p.w.leave()
	return d
}

func (p *Parser) functionDeclarator() *ast.FunctionDeclarator {
	r := p.w.here()
	p.w.enter()
	d := &ast.FunctionDeclarator{Loc: ast.At(r), Inner: p.declarator()}
	d.Params, d.Variadic = p.parameterList()
	for p.w.is("attribute_specifier") {
		d.Attributes = append(d.Attributes, p.attribute())
	}
	if !p.w.atEnd() {
		p.notImplemented(p.w.typ() + " after a parameter list")
	}
	p.w.leave()
	return d
}

func (p *Parser) arrayDeclarator() *ast.ArrayDeclarator {
	r := p.w.here()
	p.w.enter()
	d := &ast.ArrayDeclarator{Loc: ast.At(r), Inner: p.declarator()}
	d.Size = p.arraySize()
	p.expectEnd("array declarator")
	p.w.leave()
	return d
}

// parenthesized_declarator: "(" [ms_call_modifier] declarator ")"
func (p *Parser) parenDeclarator() *ast.ParenthesizedDeclarator {
	r := p.w.here()
	p.w.enter()
	p.expect("(")
	if p.w.is("ms_call_modifier") {
		p.errorf("MSVC calling convention is not supported")
	}
	d := &ast.ParenthesizedDeclarator{Loc: ast.At(r), Inner: p.declarator()}
	p.expect(")")
	p.expectEnd("parenthesized declarator")
	p.w.leave()
	return d
}

// init_declarator: declarator "=" (initializer_list | expression)
func (p *Parser) initDeclarator() *ast.InitDeclarator {
	r := p.w.here()
	p.w.enter()
	d := &ast.InitDeclarator{Loc: ast.At(r), Declarator: p.declarator()}
	p.expect("=")
	d.Initializer = p.initializer()
	p.expectEnd("init declarator")
	p.w.leave()
	return d
}

// arraySize lowers the bracketed part of an array declarator, starting on
// "[" and finishing after "]". The order of checks decides the kind:
// `*` alone, then `static`, then leading qualifiers, then an expression,
// then an empty pair.
func (p *Parser) arraySize() *ast.ArraySize {
	open := p.expect("[")
	size := &ast.ArraySize{}
	switch {
	case p.w.is("*"):
		p.w.skip()
		size.Kind = ast.ArraySizeVariableUnknown
	case p.w.is("static"):
		p.staticSize(size)
	case p.isQualifier():
		size.Qualifiers = p.qualifiers()
		switch {
		case p.w.is("static"):
			p.staticSize(size)
		case p.w.is("*"):
			p.w.skip()
			size.Kind = ast.ArraySizeVariableUnknown
		case p.w.is("]"):
			size.Kind = ast.ArraySizeUnknown
		default:
			size.Kind = ast.ArraySizeVariableExpression
			size.Expr = p.expr()
		}
	case p.w.is("]"):
		size.Kind = ast.ArraySizeUnknown
	default:
		size.Kind = ast.ArraySizeVariableExpression
		size.Expr = p.expr()
	}
	closing := p.expect("]")
	size.Loc = ast.At(p.w.span(open, closing))
	return size
}

// staticSize handles `static [qualifiers] expr`; qualifiers may follow static.
func (p *Parser) staticSize(size *ast.ArraySize) {
	p.expect("static")
	size.Qualifiers = append(size.Qualifiers, p.qualifiers()...)
	size.Kind = ast.ArraySizeStaticExpression
	size.Expr = p.expr()
}

// parameterList lowers "(" params ")" and reports whether it ends in `...`.
// Params is nil for `()`.
func (p *Parser) parameterList() ([]*ast.ParameterDeclaration, bool) {
	if !p.w.is("parameter_list") {
		p.unsupported("parameter list")
	}
	p.w.enter()
	p.expect("(")
	var (
		params   []*ast.ParameterDeclaration
		variadic bool
	)
	for !p.w.is(")") {
		if variadic {
			p.errorf("variadic parameter must be the last parameter")
		}
		switch {
		case p.w.is("variadic_parameter", "..."):
			variadic = true
			p.w.skip()
		case p.w.is("parameter_declaration"):
			params = append(params, p.parameterDeclaration())
		default:
			p.unsupported("parameter")
		}
		if !p.w.is(")") {
			p.expect(",")
		}
	}
	p.expect(")")
	p.expectEnd("parameter list")
	p.w.leave()
	return params, variadic
}

func (p *Parser) parameterDeclaration() *ast.ParameterDeclaration {
	r := p.w.here()
	p.w.enter()
	d := &ast.ParameterDeclaration{Loc: ast.At(r), Specifiers: p.declSpecifiers(p.w.remaining())}
	if len(d.Specifiers) == 0 {
		p.unsupported("parameter type")
	}
	switch {
	case p.isDeclarator():
		d.Declarator = p.declarator()
	case p.isAbstractDeclarator():
		d.Abstract = p.abstractDeclarator()
	}
	for p.w.is("attribute_specifier") {
		d.Attributes = append(d.Attributes, p.attribute())
	}
	p.expectEnd("parameter declaration")
	p.w.leave()
	return d
}

func (p *Parser) abstractDeclarator() ast.AbstractDeclarator {
	r := p.w.here()
	switch p.w.typ() {
	case "abstract_pointer_declarator":
		p.w.enter()
		p.expect("*")
		d := &ast.AbstractPointerDeclarator{Loc: ast.At(r), Qualifiers: p.qualifiers()}
		d.Inner = p.optAbstract()
		p.expectEnd("abstract pointer declarator")
		p.w.leave()
		return d
	case "abstract_function_declarator":
		p.w.enter()
		d := &ast.AbstractFunctionDeclarator{Loc: ast.At(r), Inner: p.optAbstract()}
		d.Params, d.Variadic = p.parameterList()
		p.expectEnd("abstract function declarator")
		p.w.leave()
		return d
	case "abstract_array_declarator":
		p.w.enter()
		d := &ast.AbstractArrayDeclarator{Loc: ast.At(r), Inner: p.optAbstract()}
		d.Size = p.arraySize()
		p.expectEnd("abstract array declarator")
		p.w.leave()
		return d
	case "abstract_parenthesized_declarator":
		p.w.enter()
		p.expect("(")
		if p.w.is("ms_call_modifier") {
			p.errorf("MSVC calling convention is not supported")
		}
		d := &ast.AbstractParenthesizedDeclarator{Loc: ast.At(r), Inner: p.abstractDeclarator()}
		p.expect(")")
		p.expectEnd("abstract parenthesized declarator")
		p.w.leave()
		return d
	}
	p.unsupported("abstract declarator")
	panic("unreachable")
}

func (p *Parser) optAbstract() ast.AbstractDeclarator {
	if p.isAbstractDeclarator() {
		return p.abstractDeclarator()
	}
	return nil
}
