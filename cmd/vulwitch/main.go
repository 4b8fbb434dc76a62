package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"vulwitch/internal/config"
	"vulwitch/internal/prof"
	"vulwitch/internal/trace"
	"vulwitch/internal/version"
)

// skipConfig marks commands that must work without a readable vulwitch.toml.
const skipConfig = "skip-config"

// app holds what the root command resolved before a subcommand runs.
type app struct {
	root *cobra.Command

	cfg            config.Config
	color          bool
	quiet          bool
	timings        bool
	maxDiagnostics int
	tracer         trace.Tracer
	profile        *prof.Session
}

// main executes the root command; any returned error exits with status 1.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newApp().execute(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newApp() *app {
	a := &app{tracer: trace.Nop}
	root := &cobra.Command{
		Use:   "vulwitch",
		Short: "C to AST lowering tool",
		Long: `vulwitch parses C sources with tree-sitter, lowers the concrete syntax tree
into a typed AST and reports what it could not lower as diagnostics`,
		Version:           version.Get().Version,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	// Глобальные флаги
	flags := root.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "show timing information")
	flags.Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	flags.String("trace", "", "write a trace to this file (- for stderr)")
	flags.String("trace-level", "", "trace level (off|error|phase|detail|debug)")
	flags.String("config", "", "path to vulwitch.toml (default: search up from the working directory)")
	flags.String("cpu-profile", "", "write a CPU profile to this file")
	flags.String("mem-profile", "", "write a heap profile to this file on exit")
	flags.String("runtime-trace", "", "write a Go runtime trace to this file")

	root.AddCommand(newLowerCmd(a))
	root.AddCommand(newDumpCSTCmd(a))
	root.AddCommand(newWatchCmd(a))
	root.AddCommand(newVersionCmd(a))
	a.root = root
	return a
}

func (a *app) execute(ctx context.Context) error {
	defer a.close()
	return a.root.ExecuteContext(ctx)
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	flags := cmd.Root().PersistentFlags()

	a.cfg = config.Default()
	if cmd.Annotations[skipConfig] == "" {
		cfg, err := loadConfig(flags.Lookup("config").Value.String())
		if err != nil {
			return err
		}
		if err := cfg.CheckRequires(version.Get().Version); err != nil {
			return err
		}
		a.cfg = cfg
	}

	colorMode, err := flags.GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	if a.color, err = resolveColor(colorMode, cmd.OutOrStdout()); err != nil {
		return err
	}
	if a.quiet, err = flags.GetBool("quiet"); err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if a.timings, err = flags.GetBool("timings"); err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	a.maxDiagnostics = a.cfg.Lower.MaxDiagnostics
	if flags.Changed("max-diagnostics") {
		if a.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
			return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
	}
	if err := a.setupTracing(cmd); err != nil {
		return err
	}
	return a.setupProfiling(cmd)
}

func (a *app) setupProfiling(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	opts := prof.Options{
		CPUProfile:   flags.Lookup("cpu-profile").Value.String(),
		MemProfile:   flags.Lookup("mem-profile").Value.String(),
		RuntimeTrace: flags.Lookup("runtime-trace").Value.String(),
	}
	if !opts.Enabled() {
		return nil
	}
	session, err := prof.Start(opts)
	if err != nil {
		return err
	}
	a.profile = session
	return nil
}

func (a *app) close() {
	if err := a.profile.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "profile: %v\n", err)
	}
	a.profile = nil
	if err := a.tracer.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "trace: flush error: %v\n", err)
	}
	if err := a.tracer.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "trace: close error: %v\n", err)
	}
	a.tracer = trace.Nop
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.Discover(".")
}

func resolveColor(mode string, out io.Writer) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "", "auto":
		if os.Getenv("NO_COLOR") != "" {
			return false, nil
		}
		f, ok := out.(*os.File)
		return ok && isTerminal(f), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
