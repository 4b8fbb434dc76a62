package diag

import (
	"testing"

	"vulwitch/internal/source"
)

func at(file string, line, col int) source.Range {
	loc := source.Location{Line: line, Column: col}
	return source.Range{File: file, Start: loc, End: loc}
}

func TestBagLimitAndSort(t *testing.T) {
	bag := NewBag(3)
	bag.Add(NewError(LowMalformed, at("b.c", 0, 0), "b"))
	bag.Add(New(SevWarning, LowRepairApplied, at("a.c", 4, 1), "warn"))
	bag.Add(NewError(LowNotImplemented, at("a.c", 1, 0), "first"))
	if bag.Add(NewError(LowMalformed, at("a.c", 0, 0), "dropped")) {
		t.Fatal("expected limit to reject the fourth diagnostic")
	}

	bag.Sort()
	items := bag.Items()
	if items[0].Message != "first" || items[1].Message != "warn" || items[2].Message != "b" {
		t.Fatalf("unexpected order: %q, %q, %q", items[0].Message, items[1].Message, items[2].Message)
	}
	if !bag.HasErrors() || !bag.HasWarnings() {
		t.Fatal("expected both errors and warnings")
	}
}

func TestBagDedupAndMerge(t *testing.T) {
	a := NewBag(10)
	a.Add(NewError(LowMalformed, at("a.c", 0, 0), "x"))
	b := NewBag(1)
	b.Add(NewError(LowMalformed, at("a.c", 0, 0), "x"))

	a.Merge(b)
	if a.Len() != 2 {
		t.Fatalf("expected 2 items after merge, got %d", a.Len())
	}
	a.Dedup()
	if a.Len() != 1 {
		t.Fatalf("expected 1 item after dedup, got %d", a.Len())
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: bag})
	ReportError(r, LowMalformed, at("a.c", 2, 3), "dup").Emit()
	ReportError(r, LowMalformed, at("a.c", 2, 3), "dup").Emit()
	ReportWarning(r, LowMalformed, at("a.c", 2, 3), "dup").Emit()
	if bag.Len() != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", bag.Len())
	}
}

func TestFormatShortDiagnostics(t *testing.T) {
	diags := []Diagnostic{
		NewError(LowMalformed, at("./src/b.c", 2, 0), "second\nline"),
		New(SevWarning, LowRepairApplied, at("src/a.c", 0, 4), "repaired").
			WithNote(at("src/a.c", 1, 0), "here"),
	}
	want := "warning LOW2004 src/a.c:1:5 repaired\n" +
		"note LOW2004 src/a.c:2:1 here\n" +
		"error LOW2001 src/b.c:3:1 second line"
	if got := FormatShortDiagnostics(diags, true); got != want {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", want, got)
	}
}

func TestSeverityLabels(t *testing.T) {
	tests := []struct {
		sev          Severity
		upper, lower string
	}{
		{SevInfo, "INFO", "info"},
		{SevWarning, "WARNING", "warning"},
		{SevError, "ERROR", "error"},
		{Severity(9), "UNKNOWN", "info"},
	}
	for _, tt := range tests {
		if got := tt.sev.String(); got != tt.upper {
			t.Errorf("String(%d) = %q, want %q", tt.sev, got, tt.upper)
		}
		if got := tt.sev.Label(); got != tt.lower {
			t.Errorf("Label(%d) = %q, want %q", tt.sev, got, tt.lower)
		}
	}
}
