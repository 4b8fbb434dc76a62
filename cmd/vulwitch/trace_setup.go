package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vulwitch/internal/trace"
)

// setupTracing merges the trace flags over the [trace] table of the config
// and attaches the resulting tracer to the command context.
func (a *app) setupTracing(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()

	output := a.cfg.Trace.Output
	if flags.Changed("trace") {
		v, err := flags.GetString("trace")
		if err != nil {
			return fmt.Errorf("failed to get trace flag: %w", err)
		}
		output = v
	}

	levelStr := a.cfg.Trace.Level
	switch {
	case flags.Changed("trace-level"):
		v, err := flags.GetString("trace-level")
		if err != nil {
			return fmt.Errorf("failed to get trace-level flag: %w", err)
		}
		levelStr = v
	case flags.Changed("trace"):
		// --trace без уровня включает трассировку фаз
		if level, err := trace.ParseLevel(levelStr); err == nil && level == trace.LevelOff {
			levelStr = trace.LevelPhase.String()
		}
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return fmt.Errorf("invalid trace level: %w", err)
	}

	tracer, err := trace.New(trace.Config{Level: level, OutputPath: output})
	if err != nil {
		return fmt.Errorf("failed to create tracer: %w", err)
	}
	a.tracer = tracer

	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)
	return nil
}
