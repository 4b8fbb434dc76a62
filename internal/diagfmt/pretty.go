package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"vulwitch/internal/diag"
	"vulwitch/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info, note, code, gutter, caret, plus, minus *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue, color.Bold),
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
		plus:   color.New(color.FgGreen),
		minus:  color.New(color.FgRed),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.code, p.gutter, p.caret, p.plus, p.minus} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Range, затем Notes и Fixes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	pal := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, &d, fs, opts, pal)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	fmt.Fprintf(w, "%s:%s: %s %s: %s\n",
		displayPath(fs, d.Primary.File, opts.PathMode),
		d.Primary.Start,
		pal.severity(d.Severity).Sprint(d.Severity.String()),
		pal.code.Sprint(d.Code.ID()),
		d.Message)

	file := lookupFile(fs, d.Primary.File)
	if file != nil {
		writeSnippet(w, file, d.Primary, opts.Context, pal)
	}

	if opts.ShowNotes || d.Code == diag.ObsTimings {
		for _, note := range d.Notes {
			fmt.Fprintf(w, "  %s %s:%s: %s\n", pal.note.Sprint("note:"),
				displayPath(fs, note.Range.File, opts.PathMode), note.Range.Start, note.Msg)
		}
	}

	if opts.ShowFixes {
		for _, fx := range d.Fixes {
			fmt.Fprintf(w, "  %s %s\n", pal.note.Sprint("fix:"), fx.Title)
			if !opts.ShowPreview {
				continue
			}
			for _, edit := range fx.Edits {
				preview, err := buildFixEditPreview(file, edit)
				if err != nil {
					continue
				}
				for _, line := range preview.before {
					fmt.Fprintf(w, "    %s\n", pal.minus.Sprint("- "+line))
				}
				for _, line := range preview.after {
					fmt.Fprintf(w, "    %s\n", pal.plus.Sprint("+ "+line))
				}
			}
		}
	}
}

// writeSnippet prints up to context lines before the primary line, the line
// itself and a ^~~ underline. A range spanning lines is underlined to the end
// of its first line.
func writeSnippet(w io.Writer, file *source.File, r source.Range, context int, pal palette) {
	line := r.Start.Line + 1
	first := max(1, line-max(0, context))
	gutterWidth := len(strconv.Itoa(line))

	for n := first; n <= line; n++ {
		text := file.GetLine(uint32(n))
		fmt.Fprintf(w, " %s %s\n", pal.gutter.Sprint(fmt.Sprintf("%*d |", gutterWidth, n)), expandTabs(text))
	}

	text := file.GetLine(uint32(line))
	startCol := min(r.Start.Column, len(text))
	endCol := len(text)
	if r.End.Line == r.Start.Line {
		endCol = min(max(r.End.Column, startCol), len(text))
	}

	pad := runewidth.StringWidth(expandTabs(text[:startCol]))
	width := max(1, runewidth.StringWidth(expandTabs(text[startCol:endCol])))
	underline := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, " %s %s%s\n", pal.gutter.Sprint(strings.Repeat(" ", gutterWidth)+" |"),
		strings.Repeat(" ", pad), pal.caret.Sprint(underline))
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}
