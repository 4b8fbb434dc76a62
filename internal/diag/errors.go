package diag

import (
	"errors"
	"fmt"
	"io/fs"

	"vulwitch/internal/source"
)

// CodeError reports input that the lowering engine rejects: a CST shape outside
// the supported productions or an explicitly refused extension.
type CodeError struct {
	Message string
	Range   source.Range
	// NodeType is the CST type tag that failed to match, when known.
	NodeType string
	// Syntax is set when the grammar engine itself flagged the subtree.
	Syntax bool
}

func (e *CodeError) Error() string {
	return fmt.Sprintf("a code error occurs at %s, from position %s to position %s: %s",
		e.Range.File, e.Range.Start, e.Range.End, e.Message)
}

// NotImplementedError marks a production that is recognised but not lowered yet.
// It is a roadmap gap, not a property of the input.
type NotImplementedError struct {
	Feature string
	Range   source.Range
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("%s: not implemented yet: %s", e.Range, e.Feature)
}

// UnreachableError is the panic value for states the lowering logic
// declared impossible. It is never turned into a CodeError.
type UnreachableError struct {
	Message string
}

func (e *UnreachableError) Error() string {
	if e.Message == "" {
		return "unreachable"
	}
	return "unreachable: " + e.Message
}

// Unreachable builds the panic value; use as panic(diag.Unreachable(...)).
func Unreachable(format string, args ...any) *UnreachableError {
	return &UnreachableError{Message: fmt.Sprintf(format, args...)}
}

// InternalError carries a recovered UnreachableError out of a lowering session.
type InternalError struct {
	File  string
	Cause *UnreachableError
	Stack []byte
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal lowering defect in %s: %v", e.File, e.Cause)
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

// Kind groups lowering failures the way callers act on them.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindMalformed
	KindSyntax
	KindNotImplemented
	KindInternal
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindMalformed:
		return "malformed"
	case KindSyntax:
		return "syntax"
	case KindNotImplemented:
		return "not-implemented"
	case KindInternal:
		return "internal"
	case KindIO:
		return "io"
	default:
		return "unknown"
	}
}

// Classify reports which failure family err belongs to.
func Classify(err error) Kind {
	var (
		codeErr     *CodeError
		notImplErr  *NotImplementedError
		internalErr *InternalError
		unreachErr  *UnreachableError
		pathErr     *fs.PathError
	)
	switch {
	case err == nil:
		return KindUnknown
	case errors.As(err, &codeErr):
		if codeErr.Syntax {
			return KindSyntax
		}
		return KindMalformed
	case errors.As(err, &notImplErr):
		return KindNotImplemented
	case errors.As(err, &internalErr), errors.As(err, &unreachErr):
		return KindInternal
	case errors.As(err, &pathErr):
		return KindIO
	}
	return KindUnknown
}

// FromError converts a lowering failure into a diagnostic anchored at file.
func FromError(file string, err error) Diagnostic {
	fileStart := source.Range{File: file}

	var (
		codeErr     *CodeError
		notImplErr  *NotImplementedError
		internalErr *InternalError
	)
	switch Classify(err) {
	case KindMalformed:
		errors.As(err, &codeErr)
		return NewError(LowMalformed, codeErr.Range, codeErr.Message)
	case KindSyntax:
		errors.As(err, &codeErr)
		return NewError(LowSyntaxError, codeErr.Range, codeErr.Message)
	case KindNotImplemented:
		errors.As(err, &notImplErr)
		return NewError(LowNotImplemented, notImplErr.Range, "not implemented yet: "+notImplErr.Feature)
	case KindInternal:
		if errors.As(err, &internalErr) && internalErr.File != "" {
			fileStart.File = internalErr.File
		}
		return NewError(IntInternal, fileStart, err.Error())
	case KindIO:
		return NewError(IOLoadFileError, fileStart, "failed to load file: "+err.Error())
	}
	return NewError(UnknownCode, fileStart, err.Error())
}
