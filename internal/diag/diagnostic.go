package diag

import (
	"vulwitch/internal/source"
)

type Note struct {
	Range source.Range
	Msg   string
}

// FixEdit is a byte-level replacement proposed for the primary file.
type FixEdit struct {
	ByteStart uint32
	ByteEnd   uint32
	NewText   string
}

type Fix struct {
	Title string
	Edits []FixEdit
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Range
	Notes    []Note
	Fixes    []Fix
}
