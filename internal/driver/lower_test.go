package driver

import (
	"context"
	"errors"
	"strings"
	"testing"

	"vulwitch/internal/cst"
	"vulwitch/internal/diag"
	"vulwitch/internal/fix"
)

// rewriteFixer replaces the whole source with text; an empty text keeps the
// source unchanged, so the same error comes back on the next pass.
type rewriteFixer struct {
	typ  string
	text string
}

func (f rewriteFixer) NodeType() string                   { return f.typ }
func (f rewriteFixer) CanFix(_ cst.Tree, _ cst.Node) bool { return true }

func (f rewriteFixer) Fix(tree cst.Tree, _ cst.Node) (fix.CodeFix, error) {
	src := tree.Source()
	repl := []byte(f.text)
	if f.text == "" {
		repl = append([]byte(nil), src...)
	}
	return fix.CodeFix{Title: "rewrite", ByteStart: 0, ByteEnd: uint32(len(src)), Replacement: repl}, nil
}

// outOfRangeFixer proposes a span past the end of the source.
type outOfRangeFixer struct{ typ string }

func (f outOfRangeFixer) NodeType() string                   { return f.typ }
func (f outOfRangeFixer) CanFix(_ cst.Tree, _ cst.Node) bool { return true }

func (f outOfRangeFixer) Fix(tree cst.Tree, _ cst.Node) (fix.CodeFix, error) {
	end := uint32(len(tree.Source())) + 10
	return fix.CodeFix{Title: "overshoot", ByteStart: end, ByteEnd: end, Replacement: []byte(";")}, nil
}

// registryOf registers one fixer per node type the grammar may flag for a
// declaration missing its semicolon.
func registryOf(mk func(typ string) fix.Fixer) *fix.Registry {
	reg := fix.NewRegistry()
	for _, typ := range []string{"declaration", cst.TypeError} {
		reg.Register(mk(typ))
	}
	reg.Freeze()
	return reg
}

func codesOf(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func TestLowerSourceClean(t *testing.T) {
	res, err := LowerSource(context.Background(), "p.c", []byte("int *p;\n"), Options{})
	if err != nil {
		t.Fatalf("LowerSource: %v", err)
	}
	if res.Failed() || res.Bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", codesOf(res.Bag))
	}
	if res.Unit == nil || len(res.Unit.Nodes) != 1 {
		t.Fatalf("expected one top-level node, got %+v", res.Unit)
	}
	if len(res.Timing.Phases) != 2 || res.Timing.Phases[0].Name != "parse" || res.Timing.Phases[1].Name != "lower" {
		t.Fatalf("unexpected phases %+v", res.Timing.Phases)
	}
	if res.Timing.Phases[1].Note != "1 nodes" {
		t.Fatalf("unexpected lower note %q", res.Timing.Phases[1].Note)
	}
}

func TestLowerSourceFailuresBecomeDiagnostics(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
	}{
		{"syntax", "int x = ;\n", diag.LowSyntaxError},
		{"not implemented", "int main(void) { return 0; }\n", diag.LowNotImplemented},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := LowerSource(context.Background(), "f.c", []byte(tt.src), Options{})
			if err != nil {
				t.Fatalf("LowerSource: %v", err)
			}
			if res.Unit != nil {
				t.Fatalf("expected no unit on failure")
			}
			items := res.Bag.Items()
			if len(items) != 1 || items[0].Code != tt.code || items[0].Severity != diag.SevError {
				t.Fatalf("expected one %s, got %v", tt.code.ID(), codesOf(res.Bag))
			}
			if items[0].Primary.File != "f.c" {
				t.Fatalf("diagnostic anchored at %q", items[0].Primary.File)
			}
		})
	}
}

func TestRepairLoopRelowers(t *testing.T) {
	reg := registryOf(func(typ string) fix.Fixer { return rewriteFixer{typ: typ, text: "int x;\n"} })
	res, err := LowerSource(context.Background(), "r.c", []byte("int x\n"), Options{Fixers: reg})
	if err != nil {
		t.Fatalf("LowerSource: %v", err)
	}
	if res.Failed() {
		t.Fatalf("repaired file must not fail: %v", codesOf(res.Bag))
	}
	if res.Unit == nil || len(res.Unit.Nodes) != 1 {
		t.Fatalf("expected the repaired declaration, got %+v", res.Unit)
	}
	if string(res.Source) != "int x;\n" || len(res.Repairs) != 1 {
		t.Fatalf("unexpected repair outcome %q, %d repairs", res.Source, len(res.Repairs))
	}
	items := res.Bag.Items()
	if len(items) != 1 || items[0].Code != diag.LowRepairApplied || items[0].Severity != diag.SevWarning {
		t.Fatalf("expected a repair warning, got %v", codesOf(res.Bag))
	}
	if len(items[0].Fixes) != 1 || items[0].Fixes[0].Edits[0].NewText != "int x;\n" {
		t.Fatalf("repair warning must carry the fix: %+v", items[0].Fixes)
	}
}

func TestRepairLimit(t *testing.T) {
	reg := registryOf(func(typ string) fix.Fixer { return rewriteFixer{typ: typ} })
	tests := []struct {
		name       string
		maxRepairs int
		repairs    int
	}{
		{"two", 2, 2},
		{"default", 0, DefaultMaxRepairs},
		{"disabled", -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := LowerSource(context.Background(), "loop.c", []byte("int x\n"), Options{Fixers: reg, MaxRepairs: tt.maxRepairs})
			if err != nil {
				t.Fatalf("LowerSource: %v", err)
			}
			if len(res.Repairs) != tt.repairs {
				t.Fatalf("expected %d repairs, got %d", tt.repairs, len(res.Repairs))
			}
			// повторяющийся ремонт на том же месте виден одним предупреждением
			codes := codesOf(res.Bag)
			if len(codes) != min(tt.repairs, 1)+1 || codes[len(codes)-1] != diag.LowRepairLimit {
				t.Fatalf("unexpected codes %v", codes)
			}
			if res.Unit != nil || !res.Failed() {
				t.Fatalf("file over the repair limit must fail")
			}
		})
	}
}

func TestRepairFailed(t *testing.T) {
	reg := registryOf(func(typ string) fix.Fixer { return outOfRangeFixer{typ: typ} })
	res, err := LowerSource(context.Background(), "bad.c", []byte("int x\n"), Options{Fixers: reg})
	if err != nil {
		t.Fatalf("LowerSource: %v", err)
	}
	items := res.Bag.Items()
	if len(items) != 1 || items[0].Code != diag.LowRepairFailed {
		t.Fatalf("expected LowRepairFailed, got %v", codesOf(res.Bag))
	}
	if !strings.Contains(items[0].Message, "overshoot") {
		t.Fatalf("message should name the fix: %q", items[0].Message)
	}
}

func TestLowerSourceCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := LowerSource(ctx, "c.c", []byte("int x;\n"), Options{})
	if !errors.Is(err, context.Canceled) || res != nil {
		t.Fatalf("expected cancellation, got %v, %+v", err, res)
	}
}

func TestTimingDiagnostic(t *testing.T) {
	res, err := LowerSource(context.Background(), "t.c", []byte("int x;\n"), Options{EnableTimings: true})
	if err != nil {
		t.Fatalf("LowerSource: %v", err)
	}
	items := res.Bag.Items()
	if len(items) != 1 || items[0].Code != diag.ObsTimings || items[0].Severity != diag.SevInfo {
		t.Fatalf("expected a timings info, got %v", codesOf(res.Bag))
	}
	if res.Failed() {
		t.Fatalf("timings must not fail the file")
	}
	if len(items[0].Notes) != 1 || !strings.Contains(items[0].Notes[0].Msg, `"path":"t.c"`) {
		t.Fatalf("unexpected timing note %+v", items[0].Notes)
	}
}

func TestTimingDiagnosticIgnoresFullBag(t *testing.T) {
	res, err := LowerSource(context.Background(), "t.c", []byte("int x = ;\n"), Options{EnableTimings: true, MaxDiagnostics: 1})
	if err != nil {
		t.Fatalf("LowerSource: %v", err)
	}
	if codes := codesOf(res.Bag); len(codes) != 2 || codes[1] != diag.ObsTimings {
		t.Fatalf("timings must be appended past the limit, got %v", codes)
	}
}
