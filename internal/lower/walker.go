package lower

import (
	"fortio.org/safecast"

	"vulwitch/internal/cst"
	"vulwitch/internal/diag"
	"vulwitch/internal/source"
)

// frame describes the sibling list the walker is currently moving through.
type frame struct {
	count   int  // children of the parent, comments included
	index   int  // position of the current child
	entered bool // the cursor really moved down (the parent had children)
}

// walker drives a cst.Cursor with an enter-on-node / exit-on-next-sibling
// contract: every consume step starts on the node it lowers and finishes on
// that node's next sibling. Moving past the last sibling sets an explicit
// end state instead of leaving the cursor on a sentinel.
//
// Comment nodes are extras and are skipped by every move.
type walker struct {
	file  string
	cur   cst.Cursor
	stack []frame
	end   bool
}

func (w *walker) reset(file string, cur cst.Cursor) {
	w.file = file
	w.cur = cur
	w.stack = w.stack[:0]
	w.end = false
}

// atEnd reports whether the walker moved past the last sibling.
func (w *walker) atEnd() bool { return w.end }

// node returns the current node. Reading past the end is a defect.
func (w *walker) node() cst.Node {
	if w.end {
		panic(diag.Unreachable("walker: read past the last sibling"))
	}
	return w.cur.Node()
}

// typ returns the type of the current node, or "" past the end.
func (w *walker) typ() string {
	if w.end {
		return ""
	}
	return w.cur.Node().Type()
}

func (w *walker) is(types ...string) bool {
	t := w.typ()
	if t == "" {
		return false
	}
	for _, want := range types {
		if t == want {
			return true
		}
	}
	return false
}

// remaining counts the current node and its following siblings.
func (w *walker) remaining() int {
	if len(w.stack) == 0 || w.end {
		return 0
	}
	top := w.stack[len(w.stack)-1]
	return top.count - top.index
}

// next moves to the next non-comment sibling or to the end state.
func (w *walker) next() {
	if w.end {
		panic(diag.Unreachable("walker: advance past the last sibling"))
	}
	top := &w.stack[len(w.stack)-1]
	for {
		if !w.cur.GotoNextSibling() {
			top.index = top.count
			w.end = true
			return
		}
		top.index++
		if w.cur.Node().Type() != cst.TypeComment {
			return
		}
	}
}

// enter moves onto the first non-comment child of the current node. A node
// without children leaves the walker in the end state of an empty list.
func (w *walker) enter() {
	n := w.node()
	f := frame{count: n.ChildCount()}
	if !w.cur.GotoFirstChild() {
		w.stack = append(w.stack, f)
		w.end = true
		return
	}
	f.entered = true
	w.stack = append(w.stack, f)
	w.end = false
	if w.cur.Node().Type() == cst.TypeComment {
		w.next()
	}
}

// leave returns to the parent and moves to the parent's next sibling.
func (w *walker) leave() {
	if len(w.stack) == 0 {
		panic(diag.Unreachable("walker: leave without enter"))
	}
	f := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]
	if f.entered && !w.cur.GotoParent() {
		panic(diag.Unreachable("walker: cursor lost its parent"))
	}
	w.end = false
	w.next()
}

// skip consumes the current node without looking inside.
func (w *walker) skip() { w.next() }

func (w *walker) loc(p cst.Point) source.Location {
	line, err := safecast.Conv[int](p.Row)
	if err != nil {
		panic(diag.Unreachable("walker: row %d out of range", p.Row))
	}
	col, err := safecast.Conv[int](p.Column)
	if err != nil {
		panic(diag.Unreachable("walker: column %d out of range", p.Column))
	}
	return source.Location{Line: line, Column: col}
}

// rangeOf converts a CST node span.
func (w *walker) rangeOf(n cst.Node) source.Range {
	return source.NewRange(w.file, w.loc(n.StartPoint()), w.loc(n.EndPoint()))
}

// here is the range of the current node.
func (w *walker) here() source.Range {
	return w.rangeOf(w.node())
}

// span joins the start of one range with the end of another.
func (w *walker) span(from, to source.Range) source.Range {
	return source.NewRange(w.file, from.Start, to.End)
}
