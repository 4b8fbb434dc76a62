package main

import (
	"io"

	"vulwitch/internal/observ"
)

func printTimings(out io.Writer, report observ.Report) {
	if out == nil || len(report.Phases) == 0 {
		return
	}
	if _, err := io.WriteString(out, report.Summary()); err != nil {
		panic(err)
	}
}
