package source

import (
	"fmt"
)

// Location is a position in a source file as reported by the grammar engine.
// Both fields are zero-based (tree-sitter Point convention); they are used
// for ordering and display only.
type Location struct {
	Line   int
	Column int
}

// Compare orders locations line-major, then by column.
func (l Location) Compare(other Location) int {
	switch {
	case l.Line < other.Line:
		return -1
	case l.Line > other.Line:
		return 1
	case l.Column < other.Column:
		return -1
	case l.Column > other.Column:
		return 1
	}
	return 0
}

func (l Location) Less(other Location) bool {
	return l.Compare(other) < 0
}

// String выводит позицию в человекочитаемом (1-based) виде.
func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line+1, l.Column+1)
}

// Range is a source span anchored to a file path.
// Invariant: Start <= End.
type Range struct {
	File  string
	Start Location
	End   Location
}

// NewRange builds a range and panics when start is after end:
// a reversed range can only come from a broken producer.
func NewRange(file string, start, end Location) Range {
	if end.Less(start) {
		panic(fmt.Errorf("source: reversed range %s-%s in %s", start, end, file))
	}
	return Range{File: file, Start: start, End: end}
}

// Valid reports whether the range respects Start <= End.
func (r Range) Valid() bool {
	return !r.End.Less(r.Start)
}

func (r Range) Empty() bool {
	return r.Start == r.End
}

// Cover returns the smallest range holding both r and other.
// Ranges from different files are not merged.
func (r Range) Cover(other Range) Range {
	if r.File != other.File {
		return r
	}
	if other.Start.Less(r.Start) {
		r.Start = other.Start
	}
	if r.End.Less(other.End) {
		r.End = other.End
	}
	return r
}

// Contains reports whether other lies fully inside r.
func (r Range) Contains(other Range) bool {
	if r.File != other.File {
		return false
	}
	return !other.Start.Less(r.Start) && !r.End.Less(other.End)
}

func (r Range) String() string {
	return fmt.Sprintf("%s:%s-%s", r.File, r.Start, r.End)
}
