package lower

import (
	"vulwitch/internal/ast"
)

var literalKinds = map[string]ast.LiteralKind{
	"number_literal":      ast.LitNumber,
	"char_literal":        ast.LitChar,
	"string_literal":      ast.LitString,
	"concatenated_string": ast.LitConcatString,
	"true":                ast.LitTrue,
	"false":               ast.LitFalse,
	"null":                ast.LitNull,
}

// Expression node types the grammar produces but lowering does not cover yet.
var pendingExprs = map[string]bool{
	"field_expression":            true,
	"subscript_expression":        true,
	"conditional_expression":      true,
	"assignment_expression":       true,
	"update_expression":           true,
	"compound_literal_expression": true,
	"comma_expression":            true,
	"alignof_expression":          true,
	"offsetof_expression":         true,
	"generic_expression":          true,
	"gnu_asm_expression":          true,
	"extension_expression":        true,
	"statement_expression":        true,
}

// expr lowers the supported subset of C expressions. Precedence is already
// encoded in the tree shape.
func (p *Parser) expr() ast.Expr {
	r := p.w.here()
	typ := p.w.typ()
	if k, ok := literalKinds[typ]; ok {
		return &ast.Literal{Loc: ast.At(r), Kind: k, Text: p.text()}
	}

	switch typ {
	case "identifier":
		return &ast.IdentifierExpr{Loc: ast.At(r), Name: p.text()}

	case "parenthesized_expression":
		p.w.enter()
		p.expect("(")
		e := &ast.ParenExpr{Loc: ast.At(r), Inner: p.expr()}
		p.expect(")")
		p.expectEnd(typ)
		p.w.leave()
		return e

	case "unary_expression", "pointer_expression":
		p.w.enter()
		op, ok := ast.ParseUnaryOp(p.w.typ())
		if !ok {
			p.unsupported("unary operator")
		}
		p.w.skip()
		e := &ast.UnaryExpr{Loc: ast.At(r), Op: op, Operand: p.expr()}
		p.expectEnd(typ)
		p.w.leave()
		return e

	case "binary_expression":
		p.w.enter()
		left := p.expr()
		op, ok := ast.ParseBinaryOp(p.w.typ())
		if !ok {
			p.unsupported("binary operator")
		}
		p.w.skip()
		e := &ast.BinaryExpr{Loc: ast.At(r), Op: op, Left: left, Right: p.expr()}
		p.expectEnd(typ)
		p.w.leave()
		return e

	case "sizeof_expression":
		p.w.enter()
		p.expect("sizeof")
		e := &ast.SizeofExpr{Loc: ast.At(r)}
		if p.accept("(") {
			e.Type = p.typeName()
			p.expect(")")
		} else {
			e.Expr = p.expr()
		}
		p.expectEnd(typ)
		p.w.leave()
		return e

	case "cast_expression":
		p.w.enter()
		p.expect("(")
		e := &ast.CastExpr{Loc: ast.At(r), Type: p.typeName()}
		p.expect(")")
		e.Expr = p.expr()
		p.expectEnd(typ)
		p.w.leave()
		return e

	case "call_expression":
		p.w.enter()
		e := &ast.CallExpr{Loc: ast.At(r), Callee: p.expr()}
		if !p.w.is("argument_list") {
			p.unsupported("call arguments")
		}
		e.Args = p.argumentList()
		p.expectEnd(typ)
		p.w.leave()
		return e
	}

	if pendingExprs[typ] {
		p.notImplemented(typ)
	}
	p.unsupported("expression")
	panic("unreachable")
}

// argumentList: "(" expressions separated by "," ")". Nil for `()`.
func (p *Parser) argumentList() []ast.Expr {
	p.w.enter()
	p.expect("(")
	var args []ast.Expr
	for !p.w.is(")") {
		args = append(args, p.expr())
		if !p.w.is(")") {
			p.expect(",")
		}
	}
	p.expect(")")
	p.expectEnd("argument list")
	p.w.leave()
	return args
}
