package diagfmt

import (
	"encoding/json"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"vulwitch/internal/ast"
)

// FormatASTJSON writes the export tree of tu as indented JSON.
func FormatASTJSON(w io.Writer, tu *ast.TranslationUnit) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if tu == nil {
		return encoder.Encode(nil)
	}
	return encoder.Encode(BuildExport(tu))
}

// FormatASTMsgpack writes the export tree of tu as msgpack with sorted map
// keys, so equal trees give equal bytes.
func FormatASTMsgpack(w io.Writer, tu *ast.TranslationUnit) error {
	enc := msgpack.NewEncoder(w)
	enc.SetSortMapKeys(true)
	if tu == nil {
		return enc.EncodeNil()
	}
	return enc.Encode(BuildExport(tu))
}

// DecodeASTMsgpack reads back a tree written by FormatASTMsgpack.
func DecodeASTMsgpack(r io.Reader) (*ExportNode, error) {
	var out *ExportNode
	if err := msgpack.NewDecoder(r).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
