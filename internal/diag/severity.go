package diag

// Severity orders diagnostics; a file fails to lower when its bag holds a
// SevError.
type Severity uint8

const (
	// SevInfo carries timings and notes about cached or skipped work.
	SevInfo Severity = iota
	// SevWarning marks an applied repair: the file lowered, but not as written.
	SevWarning
	SevError
)

// String is the label of pretty and JSON output.
func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Label is the lower-case form of the one-line short format.
func (s Severity) Label() string {
	switch s {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	}
	return "info"
}
