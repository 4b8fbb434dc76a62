// Package lower turns a tree-sitter C concrete syntax tree into the typed AST
// of package ast.
//
// Lowering is one synchronous depth-first pass over a cst.Cursor. The first
// failure aborts the whole translation unit: malformed or unsupported input
// yields *diag.CodeError, a recognised but unimplemented production yields
// *diag.NotImplementedError, a syntax-error subtree with a registered fixer
// yields *RepairError, and a broken internal invariant yields
// *diag.InternalError.
package lower

import (
	"fmt"
	"runtime/debug"

	"vulwitch/internal/ast"
	"vulwitch/internal/cst"
	"vulwitch/internal/diag"
	"vulwitch/internal/fix"
	"vulwitch/internal/source"
)

// Parser lowers one tree at a time. It is not safe for concurrent use; reuse
// across files goes through Reset.
type Parser struct {
	fixers *fix.Registry
	tree   cst.Tree
	w      walker
}

// NewParser creates a parser consulting fixers for syntax-error subtrees.
// A nil registry means no repair is ever attempted.
func NewParser(fixers *fix.Registry) *Parser {
	return &Parser{fixers: fixers}
}

// Reset points the parser at a new tree. file is only used in ranges.
func (p *Parser) Reset(file string, tree cst.Tree) {
	if p.w.cur != nil {
		p.w.cur.Close()
	}
	p.tree = tree
	p.w.reset(file, tree.Walk())
}

// ParseModule is a one-shot helper around NewParser, Reset and ParseModule.
func ParseModule(file string, tree cst.Tree, fixers *fix.Registry) (*ast.TranslationUnit, error) {
	p := NewParser(fixers)
	p.Reset(file, tree)
	defer p.Close()
	return p.ParseModule()
}

// Close releases the cursor of the current tree.
func (p *Parser) Close() {
	if p.w.cur != nil {
		p.w.cur.Close()
		p.w.cur = nil
	}
}

// RepairError reports a syntax-error subtree for which a fixer produced a
// repair. The caller applies Fix to the source and parses again.
type RepairError struct {
	NodeType string
	Range    source.Range
	Fix      fix.CodeFix
}

func (e *RepairError) Error() string {
	return fmt.Sprintf("%s: repairable syntax error in %s: %s", e.Range, e.NodeType, e.Fix.Title)
}

// bailout carries a lowering failure up to ParseModule.
type bailout struct {
	err error
}

// ParseModule lowers the whole tree set by Reset.
func (p *Parser) ParseModule() (tu *ast.TranslationUnit, err error) {
	if p.w.cur == nil {
		return nil, fmt.Errorf("lower: ParseModule called before Reset")
	}
	p.w.cur.Reset(p.tree.Root())
	p.w.reset(p.w.file, p.w.cur)
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		switch v := r.(type) {
		case bailout:
			tu, err = nil, v.err
		case *diag.UnreachableError:
			tu, err = nil, &diag.InternalError{File: p.w.file, Cause: v, Stack: debug.Stack()}
		default:
			panic(r)
		}
	}()
	return p.translationUnit(), nil
}

func (p *Parser) translationUnit() *ast.TranslationUnit {
	root := p.w.node()
	if root.Type() != cst.TypeTranslationUnit {
		panic(diag.Unreachable("root node is %q, not %s", root.Type(), cst.TypeTranslationUnit))
	}
	tu := &ast.TranslationUnit{Loc: ast.At(p.w.rangeOf(root))}
	if root.ChildCount() == 0 {
		return tu
	}

	p.w.enter()
	for !p.w.atEnd() {
		p.checkSyntax()
		tu.Nodes = append(tu.Nodes, p.topLevel())
	}
	return tu
}

// checkSyntax stops on a subtree the grammar engine flagged, either with a
// repair proposed by a registered fixer or with a syntax CodeError.
func (p *Parser) checkSyntax() {
	n := p.w.node()
	if !n.HasError() {
		return
	}
	if f := p.fixers.Lookup(p.tree, n); f != nil {
		cf, err := f.Fix(p.tree, n)
		if err == nil {
			p.fail(&RepairError{NodeType: n.Type(), Range: p.w.rangeOf(n), Fix: cf})
		}
	}
	p.fail(&diag.CodeError{
		Message:  fmt.Sprintf("syntax error in %s", n.Type()),
		Range:    p.w.rangeOf(n),
		NodeType: n.Type(),
		Syntax:   true,
	})
}

func (p *Parser) fail(err error) {
	panic(bailout{err: err})
}

// errorf fails with a CodeError on the current node (or the parent's end).
func (p *Parser) errorf(format string, args ...any) {
	e := &diag.CodeError{Message: fmt.Sprintf(format, args...)}
	if p.w.atEnd() {
		e.Range = p.endRange()
	} else {
		e.Range = p.w.here()
		e.NodeType = p.w.typ()
	}
	p.fail(e)
}

// unsupported fails with a CodeError naming the unmatched node type.
func (p *Parser) unsupported(what string) {
	if p.w.atEnd() {
		p.errorf("expected %s, found nothing", what)
	}
	p.errorf("unsupported %s: %s", what, p.w.typ())
}

func (p *Parser) notImplemented(feature string) {
	p.fail(&diag.NotImplementedError{Feature: feature, Range: p.w.here()})
}

// endRange is an empty range at the end of the last sibling, used when a
// required child is missing.
func (p *Parser) endRange() source.Range {
	c := p.w.cur.Node()
	end := p.w.loc(c.EndPoint())
	return source.Range{File: p.w.file, Start: end, End: end}
}

// expect consumes an anonymous token of the given type and returns its range.
func (p *Parser) expect(tok string) source.Range {
	if !p.w.is(tok) {
		if p.w.atEnd() {
			p.errorf("expected %q, found nothing", tok)
		}
		p.errorf("expected %q, found %s", tok, p.w.typ())
	}
	r := p.w.here()
	p.w.next()
	return r
}

// accept consumes tok when it is the current node.
func (p *Parser) accept(tok string) bool {
	if !p.w.is(tok) {
		return false
	}
	p.w.next()
	return true
}

// text consumes the current node and returns its source text.
func (p *Parser) text() string {
	t := p.w.node().Text()
	p.w.next()
	return t
}

// expectEnd asserts that the sibling list is exhausted.
func (p *Parser) expectEnd(context string) {
	if !p.w.atEnd() {
		p.errorf("unexpected %s in %s", p.w.typ(), context)
	}
}

func (p *Parser) identifier() *ast.Identifier {
	if !p.w.is("identifier", "field_identifier", "type_identifier") {
		p.unsupported("identifier")
	}
	r := p.w.here()
	return &ast.Identifier{Loc: ast.At(r), Name: p.text()}
}
