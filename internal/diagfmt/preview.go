package diagfmt

import (
	"fmt"
	"sort"
	"strings"

	"fortio.org/safecast"

	"vulwitch/internal/diag"
	"vulwitch/internal/source"
)

type fixEditPreview struct {
	before []string
	after  []string
}

// buildFixEditPreview shows the whole lines touched by edit before and after
// applying it.
func buildFixEditPreview(file *source.File, edit diag.FixEdit) (fixEditPreview, error) {
	if file == nil {
		return fixEditPreview{}, fmt.Errorf("nil file")
	}
	lenFileContent, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		return fixEditPreview{}, fmt.Errorf("len file content overflow: %w", err)
	}
	if edit.ByteEnd < edit.ByteStart || edit.ByteEnd > lenFileContent {
		return fixEditPreview{}, fmt.Errorf("edit [%d,%d) out of range for %s", edit.ByteStart, edit.ByteEnd, file.Path)
	}

	blockStart := lineStartOffset(file, lineOfOffset(file, edit.ByteStart))
	blockEnd := min(max(lineEndOffsetInclusive(file, lineOfOffset(file, edit.ByteEnd)), blockStart), lenFileContent)

	original := file.Content[blockStart:blockEnd]
	relStart := int(edit.ByteStart - blockStart)
	relEnd := int(edit.ByteEnd - blockStart)

	after := make([]byte, 0, len(original)+len(edit.NewText))
	after = append(after, original[:relStart]...)
	after = append(after, edit.NewText...)
	after = append(after, original[relEnd:]...)

	return fixEditPreview{
		before: splitPreviewLines(original),
		after:  splitPreviewLines(after),
	}, nil
}

func splitPreviewLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	// хвостовой \n не даёт лишней пустой строки
	return strings.Split(strings.TrimRight(string(content), "\n"), "\n")
}

// lineOfOffset returns the 1-based line holding offset.
func lineOfOffset(f *source.File, offset uint32) uint32 {
	n := sort.Search(len(f.LineIdx), func(i int) bool { return f.LineIdx[i] >= offset })
	line, err := safecast.Conv[uint32](n + 1)
	if err != nil {
		panic(fmt.Errorf("line number overflow: %w", err))
	}
	return line
}

func lineStartOffset(f *source.File, line uint32) uint32 {
	if line <= 1 {
		return 0
	}
	idx := line - 2
	if int(idx) < len(f.LineIdx) {
		return f.LineIdx[idx] + 1
	}
	lenFileContent, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return lenFileContent
}

func lineEndOffsetInclusive(f *source.File, line uint32) uint32 {
	if line == 0 {
		return 0
	}
	idx := line - 1
	if int(idx) < len(f.LineIdx) {
		return f.LineIdx[idx] + 1
	}
	lenFileContent, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return lenFileContent
}
