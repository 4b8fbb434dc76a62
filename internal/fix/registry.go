// Package fix holds the repair strategies that may be tried on CST subtrees
// flagged with a syntax error, and the byte-level applier for their output.
//
// A Registry is built explicitly, populated once, frozen, and then shared
// read-only by every lowering session. No repair policy ships with the
// package; callers register their own.
package fix

import (
	"fmt"
	"reflect"
	"sync"

	"vulwitch/internal/cst"
	"vulwitch/internal/diag"
)

// Fixer proposes a textual repair for one kind of CST node.
type Fixer interface {
	// NodeType is the CST type tag the fixer is registered under.
	NodeType() string
	CanFix(tree cst.Tree, node cst.Node) bool
	Fix(tree cst.Tree, node cst.Node) (CodeFix, error)
}

// CodeFix replaces the half-open byte range [ByteStart, ByteEnd) of the
// original source with Replacement.
type CodeFix struct {
	Title       string
	ByteStart   uint32
	ByteEnd     uint32
	Replacement []byte
}

// Diagnostic converts the fix into the form attached to diagnostics.
func (f CodeFix) Diagnostic() diag.Fix {
	return diag.Fix{
		Title: f.Title,
		Edits: []diag.FixEdit{{ByteStart: f.ByteStart, ByteEnd: f.ByteEnd, NewText: string(f.Replacement)}},
	}
}

type Registry struct {
	mu     sync.RWMutex
	byType map[string][]Fixer
	frozen bool
}

func NewRegistry() *Registry {
	return &Registry{byType: make(map[string][]Fixer)}
}

// Register adds f under f.NodeType(). It reports false when an equal fixer is
// already registered. Registering into a frozen registry is a defect.
func (r *Registry) Register(f Fixer) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		panic(fmt.Sprintf("fix: Register(%s) after Freeze", f.NodeType()))
	}
	key := f.NodeType()
	for _, existing := range r.byType[key] {
		if sameFixer(existing, f) {
			return false
		}
	}
	r.byType[key] = append(r.byType[key], f)
	return true
}

// Freeze makes the registry read-only. Lookups stay safe from any goroutine.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Lookup returns the first fixer registered for node's type that accepts it.
func (r *Registry) Lookup(tree cst.Tree, node cst.Node) Fixer {
	if r == nil || node == nil {
		return nil
	}
	r.mu.RLock()
	candidates := r.byType[node.Type()]
	r.mu.RUnlock()
	for _, f := range candidates {
		if f.CanFix(tree, node) {
			return f
		}
	}
	return nil
}

// Len returns the number of registered fixers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, fs := range r.byType {
		n += len(fs)
	}
	return n
}

// sameFixer compares by value; non-comparable fixer types fall back to deep equality.
func sameFixer(a, b Fixer) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}
