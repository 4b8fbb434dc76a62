package cst

import (
	"fmt"
	"io"
	"strings"
)

// Dump prints every node of the tree, one per line, indented by depth:
//
//	translation_unit (from (0, 0) to (1, 0))
//	  declaration (from (0, 0) to (0, 7))
func Dump(w io.Writer, t Tree) error {
	c := t.Walk()
	defer c.Close()

	depth := 0
	for {
		n := c.Node()
		if _, err := fmt.Fprintf(w, "%s%s (from %s to %s)\n",
			strings.Repeat(" ", depth), n.Type(), n.StartPoint(), n.EndPoint()); err != nil {
			return err
		}
		if c.GotoFirstChild() {
			depth += 2
			continue
		}
		for !c.GotoNextSibling() {
			if !c.GotoParent() {
				return nil
			}
			depth -= 2
		}
	}
}
