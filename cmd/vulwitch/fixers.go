package main

import (
	"errors"

	"vulwitch/internal/cst"
	"vulwitch/internal/fix"
)

// repairedNodeTypes are the top-level CST nodes a missing token is repaired in.
var repairedNodeTypes = []string{
	"declaration",
	"type_definition",
	"struct_specifier",
	"enum_specifier",
	"field_declaration_list",
	"enumerator_list",
	"preproc_def",
	// `struct S {...}` without its ";": the token is a sibling of the specifier
	";",
}

// missingTokenFixer inserts a token that error recovery marked as missing:
// tree-sitter keeps it in the tree as a zero-width anonymous leaf.
type missingTokenFixer struct {
	nodeType string
}

func (f missingTokenFixer) NodeType() string { return f.nodeType }

func (f missingTokenFixer) CanFix(_ cst.Tree, node cst.Node) bool {
	return findMissing(node) != nil
}

func (f missingTokenFixer) Fix(_ cst.Tree, node cst.Node) (fix.CodeFix, error) {
	m := findMissing(node)
	if m == nil {
		return fix.CodeFix{}, errNothingMissing
	}
	return fix.CodeFix{
		Title:       "insert " + m.Type(),
		ByteStart:   m.StartByte(),
		ByteEnd:     m.StartByte(),
		Replacement: []byte(m.Type()),
	}, nil
}

var errNothingMissing = errors.New("no missing token")

// findMissing returns the first zero-width anonymous leaf under n that is not
// an ERROR node.
func findMissing(n cst.Node) cst.Node {
	if !n.HasError() {
		return nil
	}
	if n.ChildCount() == 0 {
		if !n.IsNamed() && n.Type() != cst.TypeError && n.StartByte() == n.EndByte() && n.Type() != "" {
			return n
		}
		return nil
	}
	for i := range n.ChildCount() {
		if m := findMissing(n.Child(i)); m != nil {
			return m
		}
	}
	return nil
}

// defaultFixers is the registry the CLI lowers with.
func defaultFixers() *fix.Registry {
	reg := fix.NewRegistry()
	for _, t := range repairedNodeTypes {
		reg.Register(missingTokenFixer{nodeType: t})
	}
	return reg
}
