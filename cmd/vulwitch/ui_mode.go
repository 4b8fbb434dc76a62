package main

import (
	"fmt"
	"os"
	"strings"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

// lowerRun is what the progress view depends on for one `lower` invocation.
type lowerRun struct {
	dir    bool
	format string
	quiet  bool
}

// progressUI decides whether the bubbletea view follows the run. The view
// tracks files of a directory batch and shares the terminal with pretty
// diagnostics only; `--ui on` outside that case is a usage error.
func (m uiMode) progressUI(run lowerRun, terminal bool) (bool, error) {
	if m == uiModeOff {
		return false, nil
	}
	if !run.dir {
		if m == uiModeOn {
			return false, fmt.Errorf("--ui on needs a directory target")
		}
		return false, nil
	}
	if run.format != "pretty" {
		if m == uiModeOn {
			return false, fmt.Errorf("--ui on needs --format pretty, got %s", run.format)
		}
		return false, nil
	}
	if run.quiet {
		return false, nil
	}
	return m == uiModeOn || terminal, nil
}

// progressTerminal reports whether stderr, where the view is drawn, is a tty.
func progressTerminal() bool {
	return isTerminal(os.Stderr)
}
