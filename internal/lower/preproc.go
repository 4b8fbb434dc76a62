package lower

import (
	"strings"

	"vulwitch/internal/ast"
)

// preproc_include: "#include" path "\n"
func (p *Parser) include() *ast.IncludeDirective {
	r := p.w.here()
	p.w.enter()
	p.expect("#include")
	d := &ast.IncludeDirective{Loc: ast.At(r)}
	switch p.w.typ() {
	case "system_lib_string":
		d.Kind, d.Target = ast.IncludeSystemLib, p.text()
	case "string_literal":
		d.Kind, d.Target = ast.IncludeString, p.text()
	case "identifier":
		d.Kind, d.Target = ast.IncludeIdentifier, p.text()
	case "call_expression", "preproc_call_expression":
		d.Kind, d.Call = ast.IncludeCall, p.preprocCall()
	default:
		p.unsupported("include target")
	}
	p.accept("\n")
	p.expectEnd("#include")
	p.w.leave()
	return d
}

// preproc_def: "#define" identifier [preproc_arg] "\n"
func (p *Parser) define() *ast.DefineDirective {
	r := p.w.here()
	p.w.enter()
	p.expect("#define")
	d := &ast.DefineDirective{Loc: ast.At(r), Name: p.identifier()}
	d.Value = p.macroValue()
	p.expectEnd("#define")
	p.w.leave()
	return d
}

// preproc_function_def: "#define" identifier preproc_params [preproc_arg] "\n"
func (p *Parser) functionDefine() *ast.FunctionDefineDirective {
	r := p.w.here()
	p.w.enter()
	p.expect("#define")
	d := &ast.FunctionDefineDirective{Loc: ast.At(r), Name: p.identifier()}
	d.Params, d.Variadic = p.macroParams()
	d.Value = p.macroValue()
	p.expectEnd("#define")
	p.w.leave()
	return d
}

func (p *Parser) macroValue() string {
	var v string
	if p.w.is("preproc_arg") {
		v = strings.TrimSpace(p.text())
	}
	p.accept("\n")
	return v
}

// macroParams lowers preproc_params; `...` may only come last.
func (p *Parser) macroParams() ([]*ast.Identifier, bool) {
	if !p.w.is("preproc_params") {
		p.unsupported("macro parameters")
	}
	p.w.enter()
	p.expect("(")
	var (
		params   []*ast.Identifier
		variadic bool
	)
	for !p.w.is(")") {
		if variadic {
			p.errorf(`"..." must be the last macro parameter`)
		}
		if p.accept("...") {
			variadic = true
		} else {
			params = append(params, p.identifier())
		}
		if !p.w.is(")") {
			p.expect(",")
		}
	}
	p.expect(")")
	p.expectEnd("macro parameters")
	p.w.leave()
	return params, variadic
}

// directiveName turns `#  pragma` into `pragma`.
func directiveName(raw string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "#"))
}

// preproc_call: preproc_directive [preproc_arg] "\n"
func (p *Parser) callDirective() ast.CallDirective {
	r := p.w.here()
	p.w.enter()
	if !p.w.is("preproc_directive") {
		p.unsupported("preprocessing directive")
	}
	name := directiveName(p.w.node().Text())
	switch name {
	case "undef", "error", "pragma", "line":
	default:
		p.errorf("unsupported preprocessing directive #%s", name)
	}
	p.w.skip()
	var arg string
	if p.w.is("preproc_arg") {
		arg = strings.TrimSpace(p.text())
	}
	p.accept("\n")
	p.expectEnd("#" + name)
	p.w.leave()

	loc := ast.At(r)
	switch name {
	case "undef":
		return &ast.UndefDirective{Loc: loc, Name: arg}
	case "error":
		return &ast.ErrorDirective{Loc: loc, Message: arg}
	case "pragma":
		return &ast.PragmaDirective{Loc: loc, Arg: arg}
	}
	return &ast.LineDirective{Loc: loc, Arg: arg}
}

// preprocExpr lowers a #if / #elif condition. Inside conditions the grammar
// aliases its preprocessor expressions to the ordinary expression names, so
// both spellings are accepted.
func (p *Parser) preprocExpr() ast.PreprocessExpr {
	r := p.w.here()
	typ := p.w.typ()
	switch typ {
	case "identifier":
		return &ast.PreprocessPrimitive{Loc: ast.At(r), Kind: ast.PrimitiveIdentifier, Text: p.text()}
	case "number_literal":
		return &ast.PreprocessPrimitive{Loc: ast.At(r), Kind: ast.PrimitiveNumber, Text: p.text()}
	case "char_literal":
		return &ast.PreprocessPrimitive{Loc: ast.At(r), Kind: ast.PrimitiveChar, Text: p.text()}

	case "preproc_defined":
		// "defined" "(" identifier ")" | "defined" identifier
		p.w.enter()
		p.expect("defined")
		paren := p.accept("(")
		e := &ast.PreprocessDefined{Loc: ast.At(r), Name: p.identifier()}
		if paren {
			p.expect(")")
		}
		p.expectEnd(typ)
		p.w.leave()
		return e

	case "unary_expression", "preproc_unary_expression":
		p.w.enter()
		op, ok := ast.ParseUnaryOp(p.w.typ())
		if !ok || op == ast.UnaryDeref || op == ast.UnaryAddrOf {
			p.unsupported("preprocessor unary operator")
		}
		p.w.skip()
		e := &ast.PreprocessUnary{Loc: ast.At(r), Op: op, Operand: p.preprocExpr()}
		p.expectEnd(typ)
		p.w.leave()
		return e

	case "binary_expression", "preproc_binary_expression":
		p.w.enter()
		left := p.preprocExpr()
		op, ok := ast.ParseBinaryOp(p.w.typ())
		if !ok {
			p.unsupported("preprocessor binary operator")
		}
		p.w.skip()
		e := &ast.PreprocessBinary{Loc: ast.At(r), Op: op, Left: left, Right: p.preprocExpr()}
		p.expectEnd(typ)
		p.w.leave()
		return e

	case "parenthesized_expression", "preproc_parenthesized_expression":
		p.w.enter()
		p.expect("(")
		e := &ast.PreprocessParenthesized{Loc: ast.At(r), Inner: p.preprocExpr()}
		p.expect(")")
		p.expectEnd(typ)
		p.w.leave()
		return e

	case "call_expression", "preproc_call_expression":
		return p.preprocCall()
	}
	p.unsupported("preprocessor expression")
	panic("unreachable")
}

// preprocCall: identifier argument_list, with preprocessor expressions as arguments.
func (p *Parser) preprocCall() *ast.PreprocessCall {
	r := p.w.here()
	p.w.enter()
	if !p.w.is("identifier") {
		p.unsupported("macro name")
	}
	call := &ast.PreprocessCall{Loc: ast.At(r), Callee: p.identifier()}
	if !p.w.is("argument_list", "preproc_argument_list") {
		p.unsupported("macro arguments")
	}
	p.w.enter()
	p.expect("(")
	for !p.w.is(")") {
		call.Args = append(call.Args, p.preprocExpr())
		if !p.w.is(")") {
			p.expect(",")
		}
	}
	p.expect(")")
	p.expectEnd("macro arguments")
	p.w.leave()
	p.expectEnd("macro call")
	p.w.leave()
	return call
}
