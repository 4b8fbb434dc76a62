package lower

import (
	"vulwitch/internal/ast"
)

func (p *Parser) initializer() ast.Initializer {
	if p.w.is("initializer_list") {
		return p.initializerList()
	}
	r := p.w.here()
	return &ast.ExpressionInitializer{Loc: ast.At(r), Expr: p.expr()}
}

// initializer_list: "{" items separated by "," with an optional trailing "," "}"
func (p *Parser) initializerList() *ast.InitializerList {
	r := p.w.here()
	p.w.enter()
	p.expect("{")
	list := &ast.InitializerList{Loc: ast.At(r)}
	for !p.w.is("}") {
		list.Items = append(list.Items, p.initializerItem())
		if !p.w.is("}") {
			p.expect(",")
		}
	}
	p.expect("}")
	p.expectEnd("initializer list")
	p.w.leave()
	return list
}

func (p *Parser) initializerItem() *ast.InitializerListItem {
	r := p.w.here()
	if !p.w.is("initializer_pair") {
		return &ast.InitializerListItem{Loc: ast.At(r), Initializer: p.initializer()}
	}

	p.w.enter()
	item := &ast.InitializerListItem{Loc: ast.At(r)}
	if p.w.is("field_identifier") {
		// GNU `name: value`
		fr := p.w.here()
		item.Designators = []ast.Designator{&ast.MemberDesignator{Loc: ast.At(fr), Name: p.text()}}
		p.expect(":")
	} else {
		for p.w.is("subscript_designator", "field_designator", "subscript_range_designator") {
			item.Designators = append(item.Designators, p.designator())
		}
		if len(item.Designators) == 0 {
			p.unsupported("designator")
		}
		p.expect("=")
	}
	item.Initializer = p.initializer()
	p.expectEnd("initializer pair")
	p.w.leave()
	return item
}

func (p *Parser) designator() ast.Designator {
	r := p.w.here()
	typ := p.w.typ()
	p.w.enter()
	var d ast.Designator
	switch typ {
	case "subscript_designator":
		p.expect("[")
		d = &ast.IndexDesignator{Loc: ast.At(r), Index: p.expr()}
		p.expect("]")
	case "field_designator":
		p.expect(".")
		if !p.w.is("field_identifier") {
			p.unsupported("member designator")
		}
		d = &ast.MemberDesignator{Loc: ast.At(r), Name: p.text()}
	case "subscript_range_designator":
		p.expect("[")
		from := p.expr()
		p.expect("...")
		to := p.expr()
		p.expect("]")
		d = &ast.RangeDesignator{Loc: ast.At(r), From: from, To: to}
	}
	p.expectEnd(typ)
	p.w.leave()
	return d
}
