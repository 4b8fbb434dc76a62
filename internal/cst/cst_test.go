package cst

import (
	"strings"
	"testing"
)

// int **p;
func pointerTree() *MemTree {
	return Build(N(TypeTranslationUnit,
		N("declaration",
			L("primitive_type", "int"),
			N("pointer_declarator", T("*"),
				N("pointer_declarator", T("*"), L("identifier", "p"))),
			T(";"),
		),
	))
}

func TestBuildLayout(t *testing.T) {
	tree := pointerTree()
	if got := string(tree.Source()); got != "int * * p ;" {
		t.Fatalf("unexpected source %q", got)
	}
	decl := tree.Root().Child(0)
	if decl.Type() != "declaration" || !decl.IsNamed() {
		t.Fatalf("unexpected first child %s", decl.Type())
	}
	if decl.StartPoint() != (Point{0, 0}) || decl.EndPoint() != (Point{0, 11}) {
		t.Fatalf("declaration spans %s-%s", decl.StartPoint(), decl.EndPoint())
	}
	ptr := decl.Child(1)
	if ptr.Text() != "* * p" {
		t.Fatalf("pointer text %q", ptr.Text())
	}
	if star := ptr.Child(0); star.IsNamed() || star.Type() != "*" {
		t.Fatalf("expected anonymous '*', got %s", star.Type())
	}
	if decl.Child(5) != nil {
		t.Fatalf("out of range child must be nil")
	}
}

func TestBuildNewlines(t *testing.T) {
	tree := Build(N(TypeTranslationUnit,
		N("preproc_def", T("#define"), L("identifier", "X"), L("preproc_arg", "1"), T("\n")),
		N("declaration", L("primitive_type", "int"), L("identifier", "x"), T(";")),
	))
	if got := string(tree.Source()); got != "#define X 1\nint x ;" {
		t.Fatalf("unexpected source %q", got)
	}
	def := tree.Root().Child(0)
	if def.EndPoint() != (Point{1, 0}) {
		t.Fatalf("preproc_def must end at the next line start, got %s", def.EndPoint())
	}
	decl := tree.Root().Child(1)
	if decl.StartPoint() != (Point{1, 0}) {
		t.Fatalf("declaration must start at (1, 0), got %s", decl.StartPoint())
	}
}

func TestHasErrorPropagates(t *testing.T) {
	tree := Build(N(TypeTranslationUnit,
		N("declaration", L("primitive_type", "int"), L("identifier", "x"), Missing(";")),
		N("declaration", L("primitive_type", "int"), L("identifier", "y"), T(";")),
		Err(T("}")),
	))
	root := tree.Root()
	if !root.HasError() {
		t.Fatalf("root must report the error")
	}
	if !root.Child(0).HasError() {
		t.Fatalf("missing token must flag its parent")
	}
	if root.Child(1).HasError() {
		t.Fatalf("clean declaration flagged")
	}
	if root.Child(2).Type() != TypeError || !root.Child(2).HasError() {
		t.Fatalf("ERROR node not flagged")
	}
}

func TestCursorMoves(t *testing.T) {
	tree := pointerTree()
	c := tree.Walk()
	defer c.Close()

	if c.GotoParent() || c.GotoNextSibling() {
		t.Fatalf("root has neither parent nor siblings")
	}
	if !c.GotoFirstChild() || c.Node().Type() != "declaration" {
		t.Fatalf("expected declaration")
	}
	if !c.GotoFirstChild() || c.Node().Type() != "primitive_type" {
		t.Fatalf("expected primitive_type")
	}
	var seen []string
	for c.GotoNextSibling() {
		seen = append(seen, c.Node().Type())
	}
	if strings.Join(seen, ",") != "pointer_declarator,;" {
		t.Fatalf("unexpected siblings %v", seen)
	}
	if !c.GotoParent() || c.Node().Type() != "declaration" {
		t.Fatalf("expected to return to declaration")
	}

	c.Reset(tree.Root().Child(0).Child(1))
	if c.GotoParent() {
		t.Fatalf("reset must forget the path")
	}
	if c.Node().Type() != "pointer_declarator" {
		t.Fatalf("reset moved to %s", c.Node().Type())
	}
}

func TestDump(t *testing.T) {
	var sb strings.Builder
	if err := Dump(&sb, pointerTree()); err != nil {
		t.Fatalf("dump: %v", err)
	}
	want := `translation_unit (from (0, 0) to (0, 11))
  declaration (from (0, 0) to (0, 11))
    primitive_type (from (0, 0) to (0, 3))
    pointer_declarator (from (0, 4) to (0, 9))
      * (from (0, 4) to (0, 5))
      pointer_declarator (from (0, 6) to (0, 9))
        * (from (0, 6) to (0, 7))
        identifier (from (0, 8) to (0, 9))
    ; (from (0, 10) to (0, 11))
`
	if sb.String() != want {
		t.Fatalf("dump mismatch:\n%s\nwant:\n%s", sb.String(), want)
	}
}
