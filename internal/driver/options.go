// Package driver runs the lowering engine over real files: it parses with
// tree-sitter, lowers, applies fixer repairs and collects diagnostics, for a
// single buffer, a single file or a whole directory tree.
package driver

import (
	"runtime"

	"vulwitch/internal/fix"
)

// DefaultMaxRepairs bounds the parse/lower/repair loop of one file.
const DefaultMaxRepairs = 3

// DefaultExtensions are the file suffixes LowerDir picks up.
var DefaultExtensions = []string{".c", ".h"}

// Options configure a lowering run. The zero value is usable.
type Options struct {
	// MaxDiagnostics caps the bag of each file; 0 means unlimited.
	MaxDiagnostics int
	// MaxRepairs is the number of fixer repairs tried per file. 0 selects
	// DefaultMaxRepairs, a negative value disables repair.
	MaxRepairs int
	// Jobs is the number of parallel workers of LowerDir; 0 uses GOMAXPROCS.
	Jobs       int
	Extensions []string

	// Fixers is shared by every worker and frozen before fan-out.
	Fixers *fix.Registry
	Cache  *Cache

	Progress      ProgressSink
	EnableTimings bool
}

func (o Options) maxRepairs() int {
	switch {
	case o.MaxRepairs == 0:
		return DefaultMaxRepairs
	case o.MaxRepairs < 0:
		return 0
	}
	return o.MaxRepairs
}

func (o Options) jobs(files int) int {
	jobs := o.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return max(1, min(jobs, files))
}

func (o Options) extensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions
	}
	return o.Extensions
}
