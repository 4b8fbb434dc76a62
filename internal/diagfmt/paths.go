package diagfmt

import (
	"vulwitch/internal/source"
)

// displayPath formats a range's file according to mode. Paths unknown to fs
// are printed as recorded.
func displayPath(fs *source.FileSet, path string, mode PathMode) string {
	if path == "" {
		return "<unknown>"
	}
	if fs == nil {
		return path
	}
	f, ok := fs.GetByPath(path)
	if !ok {
		return path
	}
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	default:
		return f.FormatPath("auto", "")
	}
}

// lookupFile returns the latest loaded version of path.
func lookupFile(fs *source.FileSet, path string) *source.File {
	if fs == nil || path == "" {
		return nil
	}
	f, ok := fs.GetByPath(path)
	if !ok {
		return nil
	}
	return f
}
