package diag

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"vulwitch/internal/source"
)

func sampleRange() source.Range {
	return source.Range{
		File:  "a.c",
		Start: source.Location{Line: 1, Column: 2},
		End:   source.Location{Line: 1, Column: 7},
	}
}

func TestCodeErrorMessage(t *testing.T) {
	err := &CodeError{Message: "unsupported declarator", Range: sampleRange()}
	got := err.Error()
	for _, want := range []string{"a.c", "2:3", "2:8", "unsupported declarator"} {
		if !strings.Contains(got, want) {
			t.Fatalf("error %q does not mention %q", got, want)
		}
	}
}

func TestClassify(t *testing.T) {
	_, statErr := os.Stat("/definitely/not/here.c")
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindUnknown},
		{"code error", &CodeError{Message: "x"}, KindMalformed},
		{"syntax error", &CodeError{Message: "x", Syntax: true}, KindSyntax},
		{"wrapped code error", fmt.Errorf("lower: %w", &CodeError{}), KindMalformed},
		{"not implemented", &NotImplementedError{Feature: "function_definition"}, KindNotImplemented},
		{"internal", &InternalError{Cause: Unreachable("boom")}, KindInternal},
		{"bare unreachable", Unreachable("boom"), KindInternal},
		{"io", statErr, KindIO},
		{"other", errors.New("something"), KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Fatalf("Classify(%v) = %s, want %s", tt.err, got, tt.want)
			}
		})
	}
}

func TestFromError(t *testing.T) {
	r := sampleRange()
	tests := []struct {
		name string
		err  error
		code Code
		rng  source.Range
	}{
		{"malformed", &CodeError{Message: "bad", Range: r}, LowMalformed, r},
		{"syntax", &CodeError{Message: "bad", Range: r, Syntax: true}, LowSyntaxError, r},
		{"not implemented", &NotImplementedError{Feature: "typedef", Range: r}, LowNotImplemented, r},
		{"internal", &InternalError{File: "b.c", Cause: Unreachable("x")}, IntInternal, source.Range{File: "b.c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := FromError("a.c", tt.err)
			if d.Code != tt.code {
				t.Fatalf("code = %s, want %s", d.Code.ID(), tt.code.ID())
			}
			if d.Primary != tt.rng {
				t.Fatalf("range = %v, want %v", d.Primary, tt.rng)
			}
			if d.Severity != SevError {
				t.Fatalf("severity = %s, want ERROR", d.Severity)
			}
		})
	}
}

func TestUnreachableIsNotCodeError(t *testing.T) {
	var err error = &InternalError{Cause: Unreachable("state %d", 3)}
	var codeErr *CodeError
	if errors.As(err, &codeErr) {
		t.Fatal("internal defect must not look like a CodeError")
	}
	var unreach *UnreachableError
	if !errors.As(err, &unreach) || unreach.Message != "state 3" {
		t.Fatalf("expected wrapped UnreachableError, got %v", unreach)
	}
}
