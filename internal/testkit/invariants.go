package testkit

import (
	"fmt"

	"vulwitch/internal/ast"
)

// CheckRangeInvariants runs the range invariants on a lowered tree:
// 1) every node range has Start <= End
// 2) every node is anchored to the same file as the root
// 3) every child range lies inside its parent's range
// 4) the root covers the union of its top-level items
func CheckRangeInvariants(tu *ast.TranslationUnit) error {
	if tu == nil {
		return fmt.Errorf("nil translation unit")
	}
	file := tu.Range.File

	var check func(parent, n ast.Node) error
	check = func(parent, n ast.Node) error {
		r := n.CodeRange()
		if !r.Valid() {
			return fmt.Errorf("%T: reversed range %v", n, r)
		}
		if r.File != file {
			return fmt.Errorf("%T: range file %q, want %q", n, r.File, file)
		}
		if parent != nil && !parent.CodeRange().Contains(r) {
			return fmt.Errorf("%T %v is outside its parent %T %v", n, r, parent, parent.CodeRange())
		}
		for _, c := range ast.Children(n) {
			if err := check(n, c); err != nil {
				return err
			}
		}
		return nil
	}
	if err := check(nil, tu); err != nil {
		return err
	}

	if len(tu.Nodes) == 0 {
		return nil
	}
	union := tu.Nodes[0].CodeRange()
	for _, it := range tu.Nodes[1:] {
		union = union.Cover(it.CodeRange())
	}
	if !tu.Range.Contains(union) {
		return fmt.Errorf("root range %v does not cover items %v", tu.Range, union)
	}
	return nil
}
