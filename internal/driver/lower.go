package driver

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"vulwitch/internal/ast"
	"vulwitch/internal/cst/tsc"
	"vulwitch/internal/diag"
	"vulwitch/internal/fix"
	"vulwitch/internal/lower"
	"vulwitch/internal/observ"
	"vulwitch/internal/source"
	"vulwitch/internal/trace"
)

// Result is the outcome of lowering one file.
type Result struct {
	Path string
	// File is the loaded file; after a repair it is the repaired version.
	File *source.File
	// Source holds the bytes the final lowering pass ran on.
	Source []byte
	// Unit is nil when lowering failed or the result came from the cache.
	Unit    *ast.TranslationUnit
	Bag     *diag.Bag
	Repairs []fix.CodeFix
	Timing  observ.Report
	Cached  bool
}

// Failed reports whether the file produced at least one error.
func (r *Result) Failed() bool {
	return r == nil || r.Bag.HasErrors()
}

// LowerSource lowers an in-memory buffer. Lowering failures are reported in
// the result's bag; the error is only non-nil when ctx is done.
func LowerSource(ctx context.Context, path string, src []byte, opts Options) (*Result, error) {
	w := newWorker(opts)
	defer w.close()
	return w.lower(ctx, path, src)
}

// worker owns one tree-sitter parser and one lowering parser. It is used by a
// single goroutine.
type worker struct {
	opts    Options
	parser  *tsc.Parser
	lowerer *lower.Parser
}

func newWorker(opts Options) *worker {
	return &worker{
		opts:    opts,
		parser:  tsc.NewParser(),
		lowerer: lower.NewParser(opts.Fixers),
	}
}

func (w *worker) close() {
	w.lowerer.Close()
	w.parser.Close()
}

func (w *worker) lower(ctx context.Context, path string, src []byte) (res *Result, err error) {
	ctx, span := trace.BeginCtx(ctx, trace.ScopeFile, "file:"+path)
	timer := observ.NewTimer()
	res = &Result{Path: path, Bag: diag.NewBag(w.opts.MaxDiagnostics)}
	// a fixer that keeps proposing the same repair reports it once
	rep := diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag})
	defer func() {
		if err != nil {
			span.End("cancelled")
			return
		}
		res.Timing = timer.Report()
		if w.opts.EnableTimings && !res.Cached {
			appendTimingDiagnostic(res.Bag, timingPayload{Kind: "file", Path: path, TotalMS: res.Timing.TotalMS, Phases: res.Timing.Phases})
		}
		status := "ok"
		if res.Failed() {
			status = "error"
		}
		span.WithExtra("repairs", strconv.Itoa(len(res.Repairs))).WithExtra("cached", strconv.FormatBool(res.Cached)).End(status)
	}()

	if w.lookupCache(path, src, res) {
		return res, nil
	}

	orig := src
	limit := w.opts.maxRepairs()
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		unit, lowerErr := w.pass(ctx, timer, path, src)
		if lowerErr == nil {
			res.Unit = unit
			break
		}

		var (
			parseErr *parseError
			repair   *lower.RepairError
		)
		if errors.As(lowerErr, &parseErr) {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			diag.ReportError(rep, diag.IOParseError, source.Range{File: path}, parseErr.Error()).Emit()
			break
		}
		if !errors.As(lowerErr, &repair) {
			if diag.Classify(lowerErr) == diag.KindInternal {
				trace.Point(ctx, trace.ScopeFile, "internal-error", path)
			}
			d := diag.FromError(path, lowerErr)
			rep.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes, d.Fixes)
			break
		}
		if len(res.Repairs) >= limit {
			msg := fmt.Sprintf("syntax error in %s is still present after %d repairs", repair.NodeType, len(res.Repairs))
			diag.ReportError(rep, diag.LowRepairLimit, repair.Range, msg).Emit()
			break
		}

		idx := timer.Begin("repair")
		fixed, applyErr := fix.Apply(src, repair.Fix)
		timer.End(idx, repair.Fix.Title)
		if applyErr != nil {
			msg := fmt.Sprintf("cannot apply %q: %v", repair.Fix.Title, applyErr)
			diag.ReportError(rep, diag.LowRepairFailed, repair.Range, msg).Emit()
			break
		}
		emit(w.opts.Progress, Event{File: path, Stage: StageRepair, Status: StatusWorking})
		trace.Point(ctx, trace.ScopePass, "repair", repair.Fix.Title)

		suggested := repair.Fix.Diagnostic()
		diag.ReportWarning(rep, diag.LowRepairApplied, repair.Range,
			fmt.Sprintf("syntax error in %s repaired: %s", repair.NodeType, repair.Fix.Title)).
			WithFix(suggested.Title, suggested.Edits...).
			Emit()
		res.Repairs = append(res.Repairs, repair.Fix)
		src = fixed
	}

	res.Source = src
	w.storeCache(path, orig, res)
	return res, nil
}

// parseError marks a failure of the grammar engine itself, as opposed to a
// lowering failure on the tree it produced.
type parseError struct {
	err error
}

func (e *parseError) Error() string { return e.err.Error() }
func (e *parseError) Unwrap() error { return e.err }

// pass parses src once and lowers the tree.
func (w *worker) pass(ctx context.Context, timer *observ.Timer, path string, src []byte) (*ast.TranslationUnit, error) {
	emit(w.opts.Progress, Event{File: path, Stage: StageParse, Status: StatusWorking})
	pctx, pspan := trace.BeginCtx(ctx, trace.ScopePass, "parse")
	idx := timer.Begin("parse")
	tree, err := w.parser.Parse(pctx, src)
	timer.End(idx, "")
	pspan.End("")
	if err != nil {
		return nil, &parseError{err: err}
	}
	defer tree.Close()

	emit(w.opts.Progress, Event{File: path, Stage: StageLower, Status: StatusWorking})
	_, lspan := trace.BeginCtx(ctx, trace.ScopePass, "lower")
	idx = timer.Begin("lower")
	w.lowerer.Reset(path, tree)
	unit, lowerErr := w.lowerer.ParseModule()
	w.lowerer.Close()
	note := ""
	if unit != nil {
		note = strconv.Itoa(len(unit.Nodes)) + " nodes"
	}
	timer.End(idx, note)
	lspan.End(note)
	return unit, lowerErr
}

func (w *worker) lookupCache(path string, src []byte, res *Result) bool {
	if w.opts.Cache == nil {
		return false
	}
	entry, ok, err := w.opts.Cache.Get(cacheKey(src, w.opts))
	if err != nil {
		res.Bag.Add(diag.New(diag.SevWarning, diag.IOCacheError, source.Range{File: path}, "cache read failed: "+err.Error()))
		return false
	}
	if !ok {
		return false
	}
	emit(w.opts.Progress, Event{File: path, Stage: StageCache, Status: StatusDone})
	res.Cached = true
	res.Source = src
	res.Timing = observ.Report{}
	if entry.Repairs > 0 {
		res.Bag.Add(diag.New(diag.SevInfo, diag.LowInfo, source.Range{File: path},
			fmt.Sprintf("cached result needed %d repairs", entry.Repairs)))
	}
	return true
}

// storeCache remembers clean results; files with errors are always re-lowered.
// The key is computed from the text before any repair.
func (w *worker) storeCache(path string, orig []byte, res *Result) {
	if w.opts.Cache == nil || res.Unit == nil || res.Bag.HasErrors() {
		return
	}
	entry := &CacheEntry{Path: path, Nodes: len(res.Unit.Nodes), Repairs: len(res.Repairs), StoredAt: time.Now().Unix()}
	if err := w.opts.Cache.Put(cacheKey(orig, w.opts), entry); err != nil {
		res.Bag.Add(diag.New(diag.SevWarning, diag.IOCacheError, source.Range{File: path}, "cache write failed: "+err.Error()))
	}
}
