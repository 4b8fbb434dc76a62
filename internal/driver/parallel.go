package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"vulwitch/internal/diag"
	"vulwitch/internal/observ"
	"vulwitch/internal/source"
	"vulwitch/internal/trace"
)

// Batch holds the results of LowerFile or LowerDir in path order. Files has
// every loaded source, including repaired versions, for rendering snippets.
type Batch struct {
	Files   *source.FileSet
	Results []*Result
	Timing  observ.Report
}

// Failed returns the number of files that produced errors.
func (b *Batch) Failed() int {
	n := 0
	for _, r := range b.Results {
		if r.Failed() {
			n++
		}
	}
	return n
}

// Bag merges the diagnostics of every file, sorted.
func (b *Batch) Bag() *diag.Bag {
	out := diag.NewBag(0)
	for _, r := range b.Results {
		out.Merge(r.Bag)
	}
	out.Sort()
	return out
}

// ListSources возвращает отсортированный список исходников с нужными
// расширениями под dir.
func ListSources(dir string, extensions []string) ([]string, error) {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		ext := filepath.Ext(path)
		for _, want := range extensions {
			if ext == want {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// LowerFile loads path and lowers it. The error is non-nil only on
// cancellation; load failures become diagnostics.
func LowerFile(ctx context.Context, path string, opts Options) (*Batch, error) {
	return lowerFiles(ctx, "", []string{path}, opts)
}

// LowerDir lowers every matching file under dir in parallel.
func LowerDir(ctx context.Context, dir string, opts Options) (*Batch, error) {
	files, err := ListSources(dir, opts.extensions())
	if err != nil {
		return nil, err
	}
	return lowerFiles(ctx, dir, files, opts)
}

func lowerFiles(ctx context.Context, baseDir string, files []string, opts Options) (*Batch, error) {
	ctx, span := trace.BeginCtx(ctx, trace.ScopeDriver, "lower")
	defer span.End("")
	span.WithExtra("files", strconv.Itoa(len(files)))

	fileSet := source.NewFileSetWithBase(baseDir)
	batch := &Batch{Files: fileSet}
	if len(files) == 0 {
		return batch, nil
	}
	if opts.Fixers != nil {
		opts.Fixers.Freeze()
	}

	for _, path := range files {
		emit(opts.Progress, Event{File: path, Stage: StageQueued, Status: StatusQueued})
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]*Result, len(files))
	var next atomic.Int64

	workers := opts.jobs(len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for range workers {
		g.Go(func() error {
			w := newWorker(opts)
			defer w.close()
			for {
				i := int(next.Add(1) - 1)
				if i >= len(files) {
					return nil
				}
				res, err := lowerOne(gctx, w, fileSet, files[i])
				if err != nil {
					return err
				}
				results[i] = res
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	reports := make([]observ.Report, 0, len(results))
	for _, res := range results {
		reports = append(reports, res.Timing)
	}
	batch.Results = results
	batch.Timing = observ.Merge(reports...)
	return batch, nil
}

func lowerOne(ctx context.Context, w *worker, fileSet *source.FileSet, path string) (*Result, error) {
	started := time.Now()
	id, loadErr := fileSet.Load(path)
	if loadErr != nil {
		bag := diag.NewBag(w.opts.MaxDiagnostics)
		bag.Add(diag.NewError(diag.IOLoadFileError, source.Range{File: path}, "failed to load file: "+loadErr.Error()))
		emit(w.opts.Progress, Event{File: path, Stage: StageParse, Status: StatusError, Err: loadErr, Elapsed: time.Since(started)})
		return &Result{Path: path, Bag: bag}, nil
	}

	file := fileSet.Get(id)
	res, err := w.lower(ctx, file.Path, file.Content)
	if err != nil {
		return nil, err
	}
	res.File = file
	if len(res.Repairs) > 0 {
		res.File = fileSet.AddRepaired(file, res.Source)
	}

	status := StatusDone
	if res.Failed() {
		status = StatusError
	}
	emit(w.opts.Progress, Event{File: path, Stage: StageLower, Status: status, Elapsed: time.Since(started)})
	return res, nil
}
