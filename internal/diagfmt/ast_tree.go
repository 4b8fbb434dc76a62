package diagfmt

import (
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"

	"vulwitch/internal/ast"
	"vulwitch/internal/source"
)

// ExportRange is a source range with 1-based lines and columns.
type ExportRange struct {
	File      string `json:"file" msgpack:"file"`
	StartLine int    `json:"start_line" msgpack:"start_line"`
	StartCol  int    `json:"start_col" msgpack:"start_col"`
	EndLine   int    `json:"end_line" msgpack:"end_line"`
	EndCol    int    `json:"end_col" msgpack:"end_col"`
}

// ExportNode is the format-neutral view of an AST node shared by the tree,
// JSON and msgpack renderers.
type ExportNode struct {
	Kind     string            `json:"kind" msgpack:"kind"`
	Range    ExportRange       `json:"range" msgpack:"range"`
	Attrs    map[string]string `json:"attrs,omitempty" msgpack:"attrs,omitempty"`
	Children []*ExportNode     `json:"children,omitempty" msgpack:"children,omitempty"`
}

// BuildExport converts n and its subtree.
func BuildExport(n ast.Node) *ExportNode {
	r := n.CodeRange()
	out := &ExportNode{
		Kind:  nodeKind(n),
		Range: exportRange(r),
		Attrs: nodeAttrs(n),
	}
	for _, c := range ast.Children(n) {
		out.Children = append(out.Children, BuildExport(c))
	}
	return out
}

func exportRange(r source.Range) ExportRange {
	return ExportRange{
		File:      r.File,
		StartLine: r.Start.Line + 1,
		StartCol:  r.Start.Column + 1,
		EndLine:   r.End.Line + 1,
		EndCol:    r.End.Column + 1,
	}
}

func nodeKind(n ast.Node) string {
	t := reflect.TypeOf(n)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// nodeAttrs collects the scalar fields of a node: names, kinds, flags and
// literal text. Child nodes are reached through ast.Children instead.
func nodeAttrs(n ast.Node) map[string]string {
	v := reflect.ValueOf(n)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}
	var attrs map[string]string
	set := func(k, val string) {
		if attrs == nil {
			attrs = make(map[string]string)
		}
		attrs[k] = val
	}
	t := v.Type()
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() || f.Anonymous {
			continue
		}
		fv := v.Field(i)
		switch fv.Kind() {
		case reflect.String:
			if s := fv.String(); s != "" {
				set(f.Name, s)
			}
		case reflect.Bool:
			if fv.Bool() {
				set(f.Name, "true")
			}
		case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Int, reflect.Int32, reflect.Int64:
			set(f.Name, fmt.Sprint(fv.Interface()))
		}
	}
	return attrs
}

// FormatASTTree prints an indented tree: one node per line with its
// attributes and range.
func FormatASTTree(w io.Writer, tu *ast.TranslationUnit) error {
	if tu == nil {
		_, err := fmt.Fprintln(w, "<no translation unit>")
		return err
	}
	var sb strings.Builder
	writeTreeNode(&sb, BuildExport(tu), "", true, true)
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeTreeNode(sb *strings.Builder, n *ExportNode, prefix string, last, root bool) {
	childPrefix := prefix
	if !root {
		if last {
			sb.WriteString(prefix + "└─ ")
			childPrefix += "   "
		} else {
			sb.WriteString(prefix + "├─ ")
			childPrefix += "│  "
		}
	}
	sb.WriteString(treeLabel(n))
	sb.WriteByte('\n')
	for i, c := range n.Children {
		writeTreeNode(sb, c, childPrefix, i == len(n.Children)-1, false)
	}
}

func treeLabel(n *ExportNode) string {
	var sb strings.Builder
	sb.WriteString(n.Kind)
	if len(n.Attrs) > 0 {
		keys := make([]string, 0, len(n.Attrs))
		for k := range n.Attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteString(" {")
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s=%q", k, n.Attrs[k])
		}
		sb.WriteString("}")
	}
	r := n.Range
	fmt.Fprintf(&sb, " (%d:%d-%d:%d)", r.StartLine, r.StartCol, r.EndLine, r.EndCol)
	return sb.String()
}
