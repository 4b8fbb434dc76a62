package lower

import (
	"testing"

	"vulwitch/internal/ast"
	"vulwitch/internal/cst"
)

func nl() *cst.Spec { return cst.T("\n") }

func directive(name, arg string) *cst.Spec {
	kids := []*cst.Spec{cst.L("preproc_directive", name)}
	if arg != "" {
		kids = append(kids, cst.L("preproc_arg", arg))
	}
	return cst.N("preproc_call", append(kids, nl())...)
}

func onlyNode[T ast.Node](t *testing.T, got *ast.TranslationUnit) T {
	t.Helper()
	if len(got.Nodes) != 1 {
		t.Fatalf("expected 1 top-level node, got %d", len(got.Nodes))
	}
	n, ok := got.Nodes[0].(T)
	if !ok {
		t.Fatalf("unexpected node %T", got.Nodes[0])
	}
	return n
}

func TestIncludeKinds(t *testing.T) {
	tests := []struct {
		name   string
		target *cst.Spec
		kind   ast.IncludeKind
		text   string
	}{
		{"system", cst.L("system_lib_string", "<stdio.h>"), ast.IncludeSystemLib, "<stdio.h>"},
		{"string", cst.L("string_literal", `"local.h"`), ast.IncludeString, `"local.h"`},
		{"identifier", id("CONFIG_HEADER"), ast.IncludeIdentifier, "CONFIG_HEADER"},
		{"call", cst.N("call_expression", id("ARCH_HEADER"), args(id("x86"))), ast.IncludeCall, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lowerOK(t, tu(cst.N("preproc_include", cst.T("#include"), tt.target, nl())))
			inc := onlyNode[*ast.IncludeDirective](t, got)
			if inc.Kind != tt.kind || inc.Target != tt.text {
				t.Fatalf("include %v %q, want %v %q", inc.Kind, inc.Target, tt.kind, tt.text)
			}
			if tt.kind == ast.IncludeCall {
				if inc.Call == nil || inc.Call.Callee.Name != "ARCH_HEADER" || len(inc.Call.Args) != 1 {
					t.Fatalf("unexpected call target %#v", inc.Call)
				}
			} else if inc.Call != nil {
				t.Fatalf("plain include must not carry a call")
			}
		})
	}
}

func TestDefines(t *testing.T) {
	t.Run("object-like", func(t *testing.T) {
		got := lowerOK(t, tu(
			cst.N("preproc_def", cst.T("#define"), id("MAX"), cst.L("preproc_arg", "  16 "), nl()),
			cst.N("preproc_def", cst.T("#define"), id("GUARD_H"), nl()),
		))
		if len(got.Nodes) != 2 {
			t.Fatalf("expected 2 nodes, got %d", len(got.Nodes))
		}
		d := got.Nodes[0].(*ast.DefineDirective)
		if d.Name.Name != "MAX" || d.Value != "16" {
			t.Fatalf("define %q = %q", d.Name.Name, d.Value)
		}
		if d.Range.End.Line != 1 || d.Range.End.Column != 0 {
			t.Fatalf("a directive ends after its newline, got %v", d.Range)
		}
		if empty := got.Nodes[1].(*ast.DefineDirective); empty.Value != "" {
			t.Fatalf("bodiless macro got value %q", empty.Value)
		}
	})

	t.Run("function-like", func(t *testing.T) {
		got := lowerOK(t, tu(cst.N("preproc_function_def", cst.T("#define"), id("LOG"),
			cst.N("preproc_params", cst.T("("), id("fmt"), cst.T(","), cst.T("..."), cst.T(")")),
			cst.L("preproc_arg", "printf(fmt, __VA_ARGS__)"), nl())))
		d := onlyNode[*ast.FunctionDefineDirective](t, got)
		if len(d.Params) != 1 || d.Params[0].Name != "fmt" || !d.Variadic {
			t.Fatalf("params %v variadic %v", d.Params, d.Variadic)
		}
		if d.Value != "printf(fmt, __VA_ARGS__)" {
			t.Fatalf("value %q", d.Value)
		}
	})

	t.Run("no-params", func(t *testing.T) {
		got := lowerOK(t, tu(cst.N("preproc_function_def", cst.T("#define"), id("NOP"),
			cst.N("preproc_params", cst.T("("), cst.T(")")), nl())))
		d := onlyNode[*ast.FunctionDefineDirective](t, got)
		if d.Params != nil || d.Variadic || d.Value != "" {
			t.Fatalf("unexpected %+v", d)
		}
	})

	t.Run("ellipsis-not-last", func(t *testing.T) {
		err := lowerFail(t, tu(cst.N("preproc_function_def", cst.T("#define"), id("BAD"),
			cst.N("preproc_params", cst.T("("), cst.T("..."), cst.T(","), id("x"), cst.T(")")), nl())))
		wantCodeError(t, err, `"..." must be the last`)
	})
}

func TestCallDirectives(t *testing.T) {
	got := lowerOK(t, tu(
		directive("#undef", "MAX"),
		directive("#  pragma", "once"),
		directive("#error", "unsupported platform"),
		directive("#line", "42"),
	))
	if len(got.Nodes) != 4 {
		t.Fatalf("expected 4 directives, got %d", len(got.Nodes))
	}
	if u := got.Nodes[0].(*ast.UndefDirective); u.Name != "MAX" {
		t.Fatalf("undef %q", u.Name)
	}
	if p := got.Nodes[1].(*ast.PragmaDirective); p.Arg != "once" {
		t.Fatalf("pragma %q", p.Arg)
	}
	if e := got.Nodes[2].(*ast.ErrorDirective); e.Message != "unsupported platform" {
		t.Fatalf("error %q", e.Message)
	}
	if l := got.Nodes[3].(*ast.LineDirective); l.Arg != "42" {
		t.Fatalf("line %q", l.Arg)
	}

	err := lowerFail(t, tu(directive("#warning", "deprecated")))
	ce := wantCodeError(t, err, "unsupported preprocessing directive #warning")
	if ce.NodeType != "preproc_directive" {
		t.Fatalf("error anchored at %q", ce.NodeType)
	}
}

func TestTopLevelIfSection(t *testing.T) {
	// #if defined(A) && B > 1 / int x; / #elif C / #else / int y; / #endif
	cond := cst.N("binary_expression",
		cst.N("preproc_defined", cst.T("defined"), cst.T("("), id("A"), cst.T(")")),
		cst.T("&&"),
		cst.N("binary_expression", id("B"), cst.T(">"), num("1")))
	section := cst.N("preproc_if", cst.T("#if"), cond, nl(),
		decl(prim("int"), id("x")),
		cst.N("preproc_elif", cst.T("#elif"), id("C"), nl(),
			cst.N("preproc_else", cst.T("#else"), decl(prim("int"), id("y")))),
		cst.T("#endif"))

	sec := onlyNode[*ast.IfSection](t, lowerOK(t, tu(section)))
	head, ok := sec.If.(*ast.IfDirective)
	if !ok {
		t.Fatalf("expected IfDirective, got %T", sec.If)
	}
	and, ok := head.Condition.(*ast.PreprocessBinary)
	if !ok || and.Op != ast.BinaryLogAnd {
		t.Fatalf("condition %#v", head.Condition)
	}
	if def, ok := and.Left.(*ast.PreprocessDefined); !ok || def.Name.Name != "A" {
		t.Fatalf("defined %#v", and.Left)
	}
	if gt, ok := and.Right.(*ast.PreprocessBinary); !ok || gt.Op != ast.BinaryGt {
		t.Fatalf("comparison %#v", and.Right)
	}
	if len(head.Group) != 1 {
		t.Fatalf("if group has %d items", len(head.Group))
	}

	if len(sec.Elifs) != 1 {
		t.Fatalf("expected 1 elif, got %d", len(sec.Elifs))
	}
	elif := sec.Elifs[0]
	if elif.Group != nil {
		t.Fatalf("empty elif must have a nil group")
	}
	if elif.Range.End != elif.Condition.CodeRange().End {
		t.Fatalf("empty group must end at its condition, got %v", elif.Range)
	}
	if sec.Else == nil || len(sec.Else.Group) != 1 {
		t.Fatalf("else group lost: %#v", sec.Else)
	}
	if sec.Endif == nil || sec.Endif.Range.End != sec.Range.End {
		t.Fatalf("endif must close the section")
	}
}

func TestElifChainIsFlattened(t *testing.T) {
	// #ifdef A / #elif B / #elif C / int z; / #else / #endif
	section := cst.N("preproc_ifdef", cst.T("#ifdef"), id("A"),
		cst.N("preproc_elif", cst.T("#elif"), id("B"), nl(),
			cst.N("preproc_elif", cst.T("#elif"), id("C"), nl(), decl(prim("int"), id("z")),
				cst.N("preproc_else", cst.T("#else")))),
		cst.T("#endif"))
	sec := onlyNode[*ast.IfSection](t, lowerOK(t, tu(section)))

	head, ok := sec.If.(*ast.IfdefDirective)
	if !ok || head.IsIfndef || head.Name.Name != "A" || head.Group != nil {
		t.Fatalf("head %#v", sec.If)
	}
	if len(sec.Elifs) != 2 {
		t.Fatalf("expected 2 elifs, got %d", len(sec.Elifs))
	}
	if sec.Elifs[0].Group != nil || len(sec.Elifs[1].Group) != 1 {
		t.Fatalf("elif groups %v / %v", sec.Elifs[0].Group, sec.Elifs[1].Group)
	}
	if sec.Else == nil || sec.Else.Group != nil {
		t.Fatalf("empty else must be kept with a nil group")
	}
}

func TestPreprocessorExpressions(t *testing.T) {
	tests := []struct {
		name  string
		cond  *cst.Spec
		check func(t *testing.T, e ast.PreprocessExpr)
	}{
		{"bare-defined", cst.N("preproc_defined", cst.T("defined"), id("X")), func(t *testing.T, e ast.PreprocessExpr) {
			if d, ok := e.(*ast.PreprocessDefined); !ok || d.Name.Name != "X" {
				t.Fatalf("%#v", e)
			}
		}},
		{"not", cst.N("unary_expression", cst.T("!"), cst.N("preproc_defined", cst.T("defined"), id("X"))),
			func(t *testing.T, e ast.PreprocessExpr) {
				if u, ok := e.(*ast.PreprocessUnary); !ok || u.Op != ast.UnaryNot {
					t.Fatalf("%#v", e)
				}
			}},
		{"parenthesized", cst.N("parenthesized_expression", cst.T("("), num("0"), cst.T(")")),
			func(t *testing.T, e ast.PreprocessExpr) {
				p, ok := e.(*ast.PreprocessParenthesized)
				if !ok {
					t.Fatalf("%#v", e)
				}
				if n, ok := p.Inner.(*ast.PreprocessPrimitive); !ok || n.Kind != ast.PrimitiveNumber || n.Text != "0" {
					t.Fatalf("inner %#v", p.Inner)
				}
			}},
		{"call", cst.N("call_expression", id("VERSION_AT_LEAST"), args(num("2"), id("MINOR"))),
			func(t *testing.T, e ast.PreprocessExpr) {
				c, ok := e.(*ast.PreprocessCall)
				if !ok || c.Callee.Name != "VERSION_AT_LEAST" || len(c.Args) != 2 {
					t.Fatalf("%#v", e)
				}
			}},
		{"char", cst.N("binary_expression", id("SEP"), cst.T("=="), cst.L("char_literal", "'/'")),
			func(t *testing.T, e ast.PreprocessExpr) {
				b, ok := e.(*ast.PreprocessBinary)
				if !ok || b.Op != ast.BinaryEq {
					t.Fatalf("%#v", e)
				}
				if c, ok := b.Right.(*ast.PreprocessPrimitive); !ok || c.Kind != ast.PrimitiveChar {
					t.Fatalf("right %#v", b.Right)
				}
			}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			section := cst.N("preproc_if", cst.T("#if"), tt.cond, nl(), cst.T("#endif"))
			sec := onlyNode[*ast.IfSection](t, lowerOK(t, tu(section)))
			tt.check(t, sec.If.(*ast.IfDirective).Condition)
		})
	}

	t.Run("deref-rejected", func(t *testing.T) {
		cond := cst.N("pointer_expression", cst.T("*"), id("p"))
		err := lowerFail(t, tu(cst.N("preproc_if", cst.T("#if"), cond, nl(), cst.T("#endif"))))
		wantCodeError(t, err, "preprocessor expression")
	})
}

func TestGuardWrapsStructDeclaration(t *testing.T) {
	// #ifndef GUARD / struct S { int x; }; / #endif
	section := cst.N("preproc_ifdef", cst.T("#ifndef"), id("GUARD"),
		structOf("S", field(prim("int"), fid("x"))), cst.T(";"),
		cst.T("#endif"))
	sec := onlyNode[*ast.IfSection](t, lowerOK(t, tu(section)))
	head := sec.If.(*ast.IfdefDirective)
	if !head.IsIfndef || len(head.Group) != 1 {
		t.Fatalf("head %#v", head)
	}
	d, ok := head.Group[0].(*ast.Declaration)
	if !ok || d.Declarators != nil {
		t.Fatalf("expected a declaration without declarators, got %#v", head.Group[0])
	}
	if s, ok := d.Specifiers[0].(*ast.StructSpecifier); !ok || s.Tag.Name != "S" || len(s.Body.Fields) != 1 {
		t.Fatalf("struct %#v", d.Specifiers[0])
	}
}

func TestElifdefRejected(t *testing.T) {
	elifdef := func(typ string) *cst.Spec {
		return cst.N(typ, cst.T("#elifdef"), id("B"))
	}
	tests := []struct {
		name string
		tree *cst.MemTree
	}{
		{"top-level", tu(cst.N("preproc_ifdef", cst.T("#ifdef"), id("A"), elifdef("preproc_elifdef"), cst.T("#endif")))},
		{"struct", tu(structOf("S",
			cst.N("preproc_ifdef_in_field_declaration_list", cst.T("#ifdef"), id("A"),
				field(prim("int"), fid("x")),
				elifdef("preproc_elifdef_in_field_declaration_list"),
				cst.T("#endif"))), cst.T(";"))},
		{"enum", tu(cst.N("enum_specifier", cst.T("enum"), tid("E"), cst.N("enumerator_list", cst.T("{"),
			cst.N("preproc_ifdef_in_enumerator_list", cst.T("#ifdef"), id("A"),
				cst.N("enumerator", id("X")), cst.T(","),
				elifdef("preproc_elifdef_in_enumerator_list"),
				cst.T("#endif")),
			cst.T("}"))), cst.T(";"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ce := wantCodeError(t, lowerFail(t, tt.tree), "#elifdef and #elifndef are not supported")
			if ce.Syntax {
				t.Fatalf("a rejected directive is not a syntax error")
			}
		})
	}
}
