package fix

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNoFixes is returned when Apply is called without fixes.
var ErrNoFixes = errors.New("no applicable fixes found")

// ConflictError reports two fixes touching overlapping bytes.
type ConflictError struct {
	First, Second CodeFix
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("fix %q [%d,%d) conflicts with %q [%d,%d)",
		e.Second.Title, e.Second.ByteStart, e.Second.ByteEnd,
		e.First.Title, e.First.ByteStart, e.First.ByteEnd)
}

// Apply returns a copy of src with every fix applied. Fixes are expressed
// against the original bytes; they are applied right to left so earlier
// offsets stay valid. Overlapping fixes are rejected as a whole.
func Apply(src []byte, fixes ...CodeFix) ([]byte, error) {
	if len(fixes) == 0 {
		return nil, ErrNoFixes
	}

	var accepted []CodeFix
	for _, f := range fixes {
		if f.ByteEnd < f.ByteStart || int(f.ByteEnd) > len(src) {
			return nil, fmt.Errorf("fix %q: span [%d,%d) out of range (len %d)", f.Title, f.ByteStart, f.ByteEnd, len(src))
		}
		for _, prev := range accepted {
			if spansConflict(prev, f) {
				return nil, &ConflictError{First: prev, Second: f}
			}
		}
		accepted = insertFixSorted(accepted, f)
	}

	out := append([]byte(nil), src...)
	for i := len(accepted) - 1; i >= 0; i-- {
		f := accepted[i]
		suffix := append([]byte(nil), out[f.ByteEnd:]...)
		out = append(append(out[:f.ByteStart], f.Replacement...), suffix...)
	}
	return out, nil
}

// spansConflict reports whether two fixes overlap. Spans are half-open;
// two insertions never conflict, an insertion conflicts with a replaced range
// containing its position.
func spansConflict(a, b CodeFix) bool {
	aStart, aEnd := a.ByteStart, a.ByteEnd
	bStart, bEnd := b.ByteStart, b.ByteEnd

	if aStart == aEnd && bStart == bEnd {
		return false
	}
	if aStart == aEnd {
		return bStart <= aStart && aStart < bEnd
	}
	if bStart == bEnd {
		return aStart <= bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}

func insertFixSorted(fixes []CodeFix, f CodeFix) []CodeFix {
	idx := sort.Search(len(fixes), func(i int) bool {
		if fixes[i].ByteStart == f.ByteStart {
			return fixes[i].ByteEnd > f.ByteEnd
		}
		return fixes[i].ByteStart > f.ByteStart
	})
	fixes = append(fixes, CodeFix{})
	copy(fixes[idx+1:], fixes[idx:])
	fixes[idx] = f
	return fixes
}
