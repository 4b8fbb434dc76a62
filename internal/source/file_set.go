package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"fortio.org/safecast"
)

// FileSet holds every version of every source file a lowering batch has
// seen. A path may map to several versions: the file as read from disk and
// the texts produced by repairs. Lookups by path return the latest one.
//
// FileSet is safe for concurrent use; driver workers load their own files.
// Returned *File values are never moved or modified.
type FileSet struct {
	mu      sync.RWMutex
	files   []*File
	index   map[string]FileID // path -> latest version
	baseDir string            // база для --path-mode relative
}

// NewFileSet creates an empty FileSet resolving relative paths against the
// working directory.
func NewFileSet() *FileSet {
	return NewFileSetWithBase("")
}

// NewFileSetWithBase creates an empty FileSet with the given base directory.
func NewFileSetWithBase(baseDir string) *FileSet {
	return &FileSet{index: make(map[string]FileID), baseDir: baseDir}
}

func (fileSet *FileSet) SetBaseDir(dir string) {
	fileSet.mu.Lock()
	fileSet.baseDir = dir
	fileSet.mu.Unlock()
}

// BaseDir returns the base directory, falling back to the working directory.
func (fileSet *FileSet) BaseDir() string {
	fileSet.mu.RLock()
	dir := fileSet.baseDir
	fileSet.mu.RUnlock()
	if dir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return dir
}

// Add stores already normalized content as a new version of path.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	return fileSet.insert(&File{
		Path:    normalizePath(path),
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	}).ID
}

func (fileSet *FileSet) insert(f *File) *File {
	fileSet.mu.Lock()
	defer fileSet.mu.Unlock()
	id, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("too many files in set: %w", err))
	}
	f.ID = FileID(id)
	fileSet.files = append(fileSet.files, f)
	fileSet.index[f.Path] = f.ID
	return f
}

// Load reads path from disk and stores it through AddRaw.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return fileSet.AddRaw(path, content)
}

// AddRaw transcodes UTF-16, strips a BOM and converts CRLF before storing
// content. The flags of the stored file record what was changed.
func (fileSet *FileSet) AddRaw(path string, content []byte) (FileID, error) {
	var flags FileFlags
	content, transcoded, err := transcodeUTF16(content)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to decode UTF-16: %w", path, err)
	}
	if transcoded {
		flags |= FileTranscoded
	}
	content, hadBOM := removeBOM(content)
	if hadBOM {
		flags |= FileHadBOM
	}
	content, hadCRLF := normalizeCRLF(content)
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return fileSet.Add(path, content, flags), nil
}

// AddVirtual stores content that never came from disk (tests, stdin).
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	return fileSet.Add(name, content, FileVirtual)
}

// AddRepaired stores the text a repair loop produced from prev as the newest
// version of prev's path. Diagnostics of a repaired file point into this text.
func (fileSet *FileSet) AddRepaired(prev *File, content []byte) *File {
	id := fileSet.Add(prev.Path, content, prev.Flags|FileRepaired)
	return fileSet.Get(id)
}

// Get returns the file with the given ID, or nil.
func (fileSet *FileSet) Get(id FileID) *File {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	if int(id) >= len(fileSet.files) {
		return nil
	}
	return fileSet.files[id]
}

// GetLatest returns the ID of the newest version of path.
func (fileSet *FileSet) GetLatest(path string) (FileID, bool) {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	id, ok := fileSet.index[normalizePath(path)]
	return id, ok
}

// GetByPath returns the newest version of path.
func (fileSet *FileSet) GetByPath(path string) (*File, bool) {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	id, ok := fileSet.index[normalizePath(path)]
	if !ok {
		return nil, false
	}
	return fileSet.files[id], true
}

// Len returns the number of stored versions.
func (fileSet *FileSet) Len() int {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	return len(fileSet.files)
}

// GetLine returns line lineNum (1-based) without its newline, or "" when the
// file has no such line.
func (f *File) GetLine(lineNum uint32) string {
	line, err := safecast.Conv[int](lineNum)
	if err != nil || line == 0 {
		return ""
	}
	start := 0
	if line > 1 {
		if line-2 >= len(f.LineIdx) {
			return ""
		}
		start = int(f.LineIdx[line-2]) + 1
	}
	end := len(f.Content)
	if line-1 < len(f.LineIdx) {
		end = min(int(f.LineIdx[line-1]), end)
	}
	if start >= len(f.Content) {
		return ""
	}
	return string(f.Content[start:end])
}

// FormatPath renders the path for diagnostics. mode is one of absolute,
// relative, basename and auto; baseDir only matters for relative.
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := AbsolutePath(f.Path); err == nil {
			return abs
		}
	case "relative":
		if baseDir == "" {
			if wd, err := os.Getwd(); err == nil {
				baseDir = wd
			}
		}
		if rel, err := RelativePath(f.Path, baseDir); err == nil {
			return rel
		}
	case "basename":
		return BaseName(f.Path)
	case "auto":
		// длинные абсолютные пути в выводе только мешают
		if len(f.Path) >= 40 && filepath.IsAbs(f.Path) {
			return BaseName(f.Path)
		}
	}
	return f.Path
}
