package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"vulwitch/internal/diagfmt"
	"vulwitch/internal/driver"
)

// watchDebounce coalesces the burst of events an editor save produces.
const watchDebounce = 100 * time.Millisecond

func newWatchCmd(a *app) *cobra.Command {
	var (
		lf     lowerFlags
		format string
	)
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-lower a file every time it is written",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.lowerOptions(cmd, lf, "pretty")
			if err != nil {
				return err
			}
			switch format {
			case "pretty", "short":
			default:
				return fmt.Errorf("unsupported format %q (must be pretty or short)", format)
			}
			w := &fileWatcher{
				path:   args[0],
				opts:   opts,
				out:    cmd.OutOrStdout(),
				short:  format == "short",
				pretty: diagfmt.PrettyOpts{Color: a.color, ShowNotes: true},
			}
			return w.run(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "short", "diagnostics format (pretty|short)")
	cmd.Flags().IntVar(&lf.maxRepairs, "max-repairs", driver.DefaultMaxRepairs, "repairs tried per file (negative disables)")
	return cmd
}

type fileWatcher struct {
	path   string
	opts   driver.Options
	out    io.Writer
	short  bool
	pretty diagfmt.PrettyOpts
}

// run lowers the file once, then again after every write until ctx is done.
func (w *fileWatcher) run(ctx context.Context) error {
	abs, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("failed to resolve %q: %w", w.path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Close()
	// каталог, а не файл: редакторы сохраняют через rename
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %q: %w", filepath.Dir(abs), err)
	}

	if err := w.lowerOnce(ctx); err != nil {
		return err
	}

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			debounce = time.After(watchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(w.out, "watch: %v\n", err)
		case <-debounce:
			debounce = nil
			if err := w.lowerOnce(ctx); err != nil {
				return err
			}
		}
	}
}

func (w *fileWatcher) lowerOnce(ctx context.Context) error {
	batch, err := driver.LowerFile(ctx, w.path, w.opts)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	if w.short {
		writeShort(w.out, batch.Bag())
	} else {
		diagfmt.Pretty(w.out, batch.Bag(), batch.Files, w.pretty)
	}
	status := "ok"
	if batch.Failed() > 0 {
		status = "failed"
	}
	fmt.Fprintf(w.out, "[%s] %s: %s\n", time.Now().Format(time.TimeOnly), w.path, status)
	return nil
}
