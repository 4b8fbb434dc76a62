package lower

import (
	"vulwitch/internal/ast"
	"vulwitch/internal/source"
)

// The grammar aliases conditional nodes per context (preproc_if,
// preproc_if_in_field_declaration_list, preproc_ifdef_in_enumerator_list_no_comma,
// ...). Every variant starts with its directive token, so sections and
// alternatives are recognised by that token instead of by the node name.

// isCondSection reports an #if / #ifdef / #ifndef section.
func (p *Parser) isCondSection() bool {
	if p.w.atEnd() || !p.w.node().IsNamed() {
		return false
	}
	switch firstToken(p.w.node()) {
	case "#if", "#ifdef", "#ifndef":
		return true
	}
	return false
}

// isCondAlternative reports an #elif / #elifdef / #elifndef / #else branch.
func (p *Parser) isCondAlternative() bool {
	if p.w.atEnd() || !p.w.node().IsNamed() {
		return false
	}
	switch firstToken(p.w.node()) {
	case "#elif", "#else", "#elifdef", "#elifndef":
		return true
	}
	return false
}

// condGroup is one branch of a conditional section before it is mapped to
// the node family of its context.
type condGroup[T ast.Node] struct {
	rng    source.Range
	cond   ast.PreprocessExpr // #if, #elif
	name   *ast.Identifier    // #ifdef, #ifndef
	ifndef bool
	items  []T // nil for an empty region
}

type condSection[T ast.Node] struct {
	rng   source.Range
	ifdef bool
	head  condGroup[T]
	elifs []condGroup[T]
	els   *condGroup[T]
	endif source.Range
}

// lowerCond lowers a conditional section of any context. item consumes one
// body element and reports false when it only consumed a separator. Nested
// alternatives (#elif inside #if inside ...) are flattened into elifs plus an
// optional else.
func lowerCond[T ast.Node](p *Parser, item func(*Parser) (T, bool)) condSection[T] {
	sec := condSection[T]{rng: p.w.here()}
	p.w.enter()

	tok := p.w.here()
	switch p.w.typ() {
	case "#if":
		p.w.skip()
		sec.head.cond = p.preprocExpr()
		p.accept("\n")
		sec.head.items = condBody(p, item)
		sec.head.rng = groupRange(p, tok, sec.head.cond.CodeRange(), sec.head.items)
	case "#ifdef", "#ifndef":
		sec.ifdef = true
		sec.head.ifndef = p.w.is("#ifndef")
		p.w.skip()
		sec.head.name = p.identifier()
		sec.head.items = condBody(p, item)
		sec.head.rng = groupRange(p, tok, sec.head.name.CodeRange(), sec.head.items)
	default:
		p.unsupported("conditional directive")
	}

	if p.isCondAlternative() {
		lowerAlternative(p, item, &sec)
	}
	sec.endif = p.expect("#endif")
	p.expectEnd("conditional section")
	p.w.leave()
	return sec
}

func lowerAlternative[T ast.Node](p *Parser, item func(*Parser) (T, bool), sec *condSection[T]) {
	p.w.enter()
	tok := p.w.here()
	switch p.w.typ() {
	case "#elif":
		p.w.skip()
		g := condGroup[T]{cond: p.preprocExpr()}
		p.accept("\n")
		g.items = condBody(p, item)
		g.rng = groupRange(p, tok, g.cond.CodeRange(), g.items)
		sec.elifs = append(sec.elifs, g)
		if p.isCondAlternative() {
			lowerAlternative(p, item, sec)
		}
	case "#else":
		p.w.skip()
		g := condGroup[T]{items: condBody(p, item)}
		g.rng = groupRange(p, tok, tok, g.items)
		sec.els = &g
	case "#elifdef", "#elifndef":
		p.errorf("#elifdef and #elifndef are not supported")
	default:
		p.unsupported("conditional alternative")
	}
	p.expectEnd("conditional alternative")
	p.w.leave()
}

// condBody consumes items up to the next alternative or #endif.
func condBody[T ast.Node](p *Parser, item func(*Parser) (T, bool)) []T {
	var items []T
	for !p.w.atEnd() && !p.w.is("#endif") && !p.isCondAlternative() {
		if it, ok := item(p); ok {
			items = append(items, it)
		}
	}
	return items
}

// groupRange runs from the directive token to the last body item, or to the
// end of the head (condition, name or the token itself) for an empty body.
func groupRange[T ast.Node](p *Parser, tok, head source.Range, items []T) source.Range {
	end := head
	if len(items) > 0 {
		end = items[len(items)-1].CodeRange()
	}
	return p.w.span(tok, end)
}

// top level

func topLevelItem(p *Parser) (ast.TopLevel, bool) {
	p.checkSyntax()
	return p.topLevel(), true
}

func (p *Parser) ifSection() *ast.IfSection {
	sec := lowerCond(p, topLevelItem)
	out := &ast.IfSection{
		Loc:   ast.At(sec.rng),
		Endif: &ast.EndifDirective{Loc: ast.At(sec.endif)},
	}
	h := sec.head
	if sec.ifdef {
		out.If = &ast.IfdefDirective{Loc: ast.At(h.rng), Name: h.name, IsIfndef: h.ifndef, Group: h.items}
	} else {
		out.If = &ast.IfDirective{Loc: ast.At(h.rng), Condition: h.cond, Group: h.items}
	}
	for _, g := range sec.elifs {
		out.Elifs = append(out.Elifs, &ast.ElifDirective{Loc: ast.At(g.rng), Condition: g.cond, Group: g.items})
	}
	if g := sec.els; g != nil {
		out.Else = &ast.ElseDirective{Loc: ast.At(g.rng), Group: g.items}
	}
	return out
}

// struct bodies

func fieldItem(p *Parser) (ast.StructDeclaration, bool) {
	return p.fieldDeclaration(), true
}

func (p *Parser) fieldConditional() *ast.MacroConditionalStructDeclaration {
	sec := lowerCond(p, fieldItem)
	out := &ast.MacroConditionalStructDeclaration{Loc: ast.At(sec.rng)}
	h := sec.head
	if sec.ifdef {
		out.If = &ast.MacroStructDeclarationIfdefGroup{
			Loc:          ast.At(h.rng),
			Identifier:   h.name,
			IsIfndef:     h.ifndef,
			Declarations: h.items,
		}
	} else {
		out.If = &ast.MacroStructDeclarationIfGroup{Loc: ast.At(h.rng), Condition: h.cond, Declarations: h.items}
	}
	for _, g := range sec.elifs {
		out.Elifs = append(out.Elifs, &ast.MacroStructDeclarationElifGroup{
			Loc:          ast.At(g.rng),
			Condition:    g.cond,
			Declarations: g.items,
		})
	}
	if g := sec.els; g != nil {
		out.Else = &ast.MacroStructDeclarationElseGroup{Loc: ast.At(g.rng), Declarations: g.items}
	}
	return out
}

// enumerator lists

func enumItem(p *Parser) (ast.EnumeratorItem, bool) {
	if p.accept(",") {
		return nil, false
	}
	return p.enumeratorItem(), true
}

func (p *Parser) enumConditional() *ast.MacroEnumeratorList {
	sec := lowerCond(p, enumItem)
	out := &ast.MacroEnumeratorList{Loc: ast.At(sec.rng)}
	h := sec.head
	if sec.ifdef {
		out.If = &ast.MacroEnumeratorIfdefGroup{
			Loc:         ast.At(h.rng),
			Identifier:  h.name,
			IsIfndef:    h.ifndef,
			Enumerators: h.items,
		}
	} else {
		out.If = &ast.MacroEnumeratorIfGroup{Loc: ast.At(h.rng), Condition: h.cond, Enumerators: h.items}
	}
	for _, g := range sec.elifs {
		out.Elifs = append(out.Elifs, &ast.MacroEnumeratorElifGroup{
			Loc:         ast.At(g.rng),
			Condition:   g.cond,
			Enumerators: g.items,
		})
	}
	if g := sec.els; g != nil {
		out.Else = &ast.MacroEnumeratorElseGroup{Loc: ast.At(g.rng), Enumerators: g.items}
	}
	return out
}
