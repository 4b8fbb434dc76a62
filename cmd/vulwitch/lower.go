package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"vulwitch/internal/diag"
	"vulwitch/internal/diagfmt"
	"vulwitch/internal/driver"
	"vulwitch/internal/observ"
)

type lowerFlags struct {
	format     string
	jobs       int
	maxRepairs int
	ui         string
	cache      bool
	clearCache bool
	pathMode   string
	context    int
	fixes      bool
}

func newLowerCmd(a *app) *cobra.Command {
	var lf lowerFlags
	cmd := &cobra.Command{
		Use:   "lower <file|dir>",
		Short: "Lower C sources and report diagnostics",
		Long: `Lower a C file, or every matching file under a directory, into the AST.
Syntax errors a fixer can repair are patched in memory and the file is lowered
again. The command fails when any file still has errors.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runLower(cmd, args[0], lf)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&lf.format, "format", "f", "pretty", "output format (pretty|short|tree|json|msgpack)")
	f.IntVarP(&lf.jobs, "jobs", "j", 0, "parallel workers for directories (0=auto)")
	f.IntVar(&lf.maxRepairs, "max-repairs", driver.DefaultMaxRepairs, "repairs tried per file (negative disables)")
	f.StringVar(&lf.ui, "ui", "auto", "progress UI for directories (auto|on|off)")
	f.BoolVar(&lf.cache, "cache", false, "skip files already known to lower cleanly")
	f.BoolVar(&lf.clearCache, "clear-cache", false, "drop the lowering cache before running")
	f.StringVar(&lf.pathMode, "path-mode", "auto", "how to print file paths (auto|absolute|relative|basename)")
	f.IntVar(&lf.context, "context", 0, "source lines shown above each diagnostic")
	f.BoolVar(&lf.fixes, "fixes", false, "show applied repairs with a preview")
	return cmd
}

func (a *app) runLower(cmd *cobra.Command, target string, lf lowerFlags) error {
	format := strings.ToLower(lf.format)
	switch format {
	case "pretty", "short", "tree", "json", "msgpack":
	default:
		return fmt.Errorf("unsupported format %q (must be pretty, short, tree, json or msgpack)", lf.format)
	}
	pathMode, ok := diagfmt.ParsePathMode(lf.pathMode)
	if !ok {
		return fmt.Errorf("invalid --path-mode %q", lf.pathMode)
	}
	mode, err := readUIMode(lf.ui)
	if err != nil {
		return err
	}

	opts, err := a.lowerOptions(cmd, lf, format)
	if err != nil {
		return err
	}

	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat %q: %w", target, err)
	}

	withUI, err := mode.progressUI(lowerRun{dir: info.IsDir(), format: format, quiet: a.quiet}, progressTerminal())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	var batch *driver.Batch
	switch {
	case !info.IsDir():
		batch, err = driver.LowerFile(ctx, target, opts)
	case withUI:
		batch, err = runLowerWithUI(ctx, target, opts)
	default:
		batch, err = driver.LowerDir(ctx, target, opts)
	}
	if err != nil {
		return err
	}

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	prettyOpts := diagfmt.PrettyOpts{
		Color:       a.color,
		Context:     lf.context,
		PathMode:    pathMode,
		ShowNotes:   true,
		ShowFixes:   lf.fixes,
		ShowPreview: lf.fixes,
	}
	bag := batch.Bag()

	switch format {
	case "pretty":
		diagfmt.Pretty(out, bag, batch.Files, prettyOpts)
	case "short":
		writeShort(out, bag)
	case "tree":
		if err := writeTrees(out, batch); err != nil {
			return err
		}
		diagfmt.Pretty(errOut, bag, batch.Files, prettyOpts)
	case "json":
		if err := writeLowerJSON(out, batch, a.timings, pathMode); err != nil {
			return err
		}
	case "msgpack":
		for _, res := range batch.Results {
			if err := diagfmt.FormatASTMsgpack(out, res.Unit); err != nil {
				return fmt.Errorf("failed to write msgpack: %w", err)
			}
		}
		diagfmt.Pretty(errOut, bag, batch.Files, prettyOpts)
	}

	if a.timings && format != "json" {
		printTimings(errOut, batch.Timing)
	}
	if !a.quiet && format != "json" {
		printLowerSummary(errOut, batch)
	}
	if failed := batch.Failed(); failed > 0 {
		return fmt.Errorf("%d of %d files failed to lower", failed, len(batch.Results))
	}
	return nil
}

// lowerOptions merges the [lower] table of the config with the flags.
func (a *app) lowerOptions(cmd *cobra.Command, lf lowerFlags, format string) (driver.Options, error) {
	opts := driver.Options{
		MaxDiagnostics: a.maxDiagnostics,
		MaxRepairs:     a.cfg.Lower.MaxRepairs,
		Jobs:           a.cfg.Lower.Jobs,
		Extensions:     a.cfg.Lower.Extensions,
		Fixers:         defaultFixers(),
		EnableTimings:  a.timings,
	}
	if cmd.Flags().Changed("jobs") {
		opts.Jobs = lf.jobs
	}
	if cmd.Flags().Changed("max-repairs") {
		opts.MaxRepairs = lf.maxRepairs
		if lf.maxRepairs == 0 {
			opts.MaxRepairs = -1
		}
	}

	if !lf.cache && !lf.clearCache {
		return opts, nil
	}
	if lf.cache && format != "pretty" && format != "short" {
		return driver.Options{}, errors.New("--cache only applies to --format pretty and short: cached files carry no AST")
	}
	cache, err := driver.OpenCache("vulwitch")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to open cache: %w", err)
	}
	if lf.clearCache {
		if err := cache.DropAll(); err != nil {
			return driver.Options{}, fmt.Errorf("failed to clear cache: %w", err)
		}
	}
	if lf.cache {
		opts.Cache = cache
	}
	return opts, nil
}

// writeShort prints one line per diagnostic, the format watch mode uses.
func writeShort(w io.Writer, bag *diag.Bag) {
	if text := diag.FormatShortDiagnostics(bag.Items(), false); text != "" {
		fmt.Fprintln(w, text)
	}
}

func writeTrees(w io.Writer, batch *driver.Batch) error {
	for i, res := range batch.Results {
		if len(batch.Results) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "== %s ==\n", res.Path)
		}
		if err := diagfmt.FormatASTTree(w, res.Unit); err != nil {
			return err
		}
	}
	return nil
}

type lowerFileJSON struct {
	Path    string              `json:"path"`
	Failed  bool                `json:"failed"`
	Repairs int                 `json:"repairs,omitempty"`
	AST     *diagfmt.ExportNode `json:"ast,omitempty"`
}

type lowerJSON struct {
	Files       []lowerFileJSON           `json:"files"`
	Diagnostics diagfmt.DiagnosticsOutput `json:"diagnostics"`
	Timings     *observ.Report            `json:"timings,omitempty"`
}

func writeLowerJSON(w io.Writer, batch *driver.Batch, withTimings bool, mode diagfmt.PathMode) error {
	payload := lowerJSON{
		Files: make([]lowerFileJSON, 0, len(batch.Results)),
		Diagnostics: diagfmt.BuildDiagnosticsOutput(batch.Bag(), batch.Files, diagfmt.JSONOpts{
			PathMode:        mode,
			IncludeNotes:    true,
			IncludeFixes:    true,
			IncludePreviews: true,
		}),
	}
	for _, res := range batch.Results {
		item := lowerFileJSON{Path: res.Path, Failed: res.Failed(), Repairs: len(res.Repairs)}
		if res.Unit != nil {
			item.AST = diagfmt.BuildExport(res.Unit)
		}
		payload.Files = append(payload.Files, item)
	}
	if withTimings {
		payload.Timings = &batch.Timing
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func printLowerSummary(w io.Writer, batch *driver.Batch) {
	repairs, cached := 0, 0
	for _, res := range batch.Results {
		repairs += len(res.Repairs)
		if res.Cached {
			cached++
		}
	}
	fmt.Fprintf(w, "lowered %d files: %d failed, %d repairs", len(batch.Results), batch.Failed(), repairs)
	if cached > 0 {
		fmt.Fprintf(w, ", %d cached", cached)
	}
	fmt.Fprintln(w)
}
