package lower

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"vulwitch/internal/ast"
	"vulwitch/internal/cst"
	"vulwitch/internal/diag"
)

// specName renders a specifier compactly for table comparisons.
func specName(s ast.Node) string {
	switch s := s.(type) {
	case *ast.StorageClassSpecifier:
		return "storage:" + s.Kind.String()
	case *ast.TypeQualifier:
		return "qual:" + s.Kind.String()
	case *ast.FunctionSpecifier:
		return "func:" + s.Kind.String()
	case *ast.PrimitiveTypeSpecifier:
		return "prim:" + s.Kind.String()
	case *ast.TypedefName:
		return "typedef:" + s.Name
	case *ast.MacroTypeSpecifier:
		return "macro:" + s.Macro.Name
	case *ast.AlignasExprSpecifier:
		return "alignas-expr"
	case *ast.AlignasTypeSpecifier:
		return "alignas-type"
	case *ast.Attribute:
		return "attribute"
	case *ast.StructSpecifier:
		return s.Kind.String()
	case *ast.EnumSpecifier:
		return "enum"
	}
	return fmt.Sprintf("%T", s)
}

func specNames[S ast.Node](specs []S) []string {
	out := make([]string, 0, len(specs))
	for _, s := range specs {
		out = append(out, specName(s))
	}
	return out
}

func funcDecl(name string, ps ...*cst.Spec) *cst.Spec {
	return cst.N("function_declarator", id(name), params(ps...))
}

func paramDecl(kids ...*cst.Spec) *cst.Spec {
	return cst.N("parameter_declaration", kids...)
}

func TestDeclarationSpecifiers(t *testing.T) {
	attr := cst.N("attribute_specifier", cst.T("__attribute__"), cst.T("("), args(id("unused")), cst.T(")"))
	alignas := cst.N("type_qualifier", cst.N("alignas_qualifier", cst.T("_Alignas"), cst.T("("), num("16"), cst.T(")")))
	alignasType := cst.N("alignas_qualifier", cst.T("alignas"), cst.T("("),
		cst.N("type_descriptor", prim("double")), cst.T(")"))
	listHead := cst.N("macro_type_specifier", id("LIST_HEAD"), cst.T("("),
		cst.N("type_descriptor", cst.N("struct_specifier", cst.T("struct"), tid("node"))), cst.T(")"))

	tests := []struct {
		name string
		tree *cst.MemTree
		want []string
	}{
		{
			"sized-run",
			tu(decl(storage("static"), qual("const"),
				cst.N("sized_type_specifier", cst.T("unsigned"), cst.T("long"), cst.T("long"), prim("int")), id("x"))),
			[]string{"storage:static", "qual:const", "prim:unsigned", "prim:long", "prim:long", "prim:int"},
		},
		{
			"sized-alone",
			tu(decl(cst.N("sized_type_specifier", cst.T("unsigned")), id("n"))),
			[]string{"prim:unsigned"},
		},
		{
			"inline",
			tu(decl(storage("__inline__"), prim("void"), funcDecl("f", paramDecl(prim("void"))))),
			[]string{"func:inline", "prim:void"},
		},
		{
			"noreturn",
			tu(decl(qual("_Noreturn"), prim("void"), funcDecl("die", paramDecl(prim("int"))))),
			[]string{"func:_Noreturn", "prim:void"},
		},
		{
			"thread-local",
			tu(decl(storage("__thread"), prim("int"), id("tls"))),
			[]string{"storage:_Thread_local", "prim:int"},
		},
		{
			"grammar-typedef",
			tu(decl(prim("size_t"), id("n"))),
			[]string{"typedef:size_t"},
		},
		{
			"bool",
			tu(decl(prim("bool"), id("ok"))),
			[]string{"prim:_Bool"},
		},
		{
			"type-identifier",
			tu(decl(tid("FILE"), ptr(id("f")))),
			[]string{"typedef:FILE"},
		},
		{
			"alignas-expr",
			tu(decl(alignas, prim("int"), id("x"))),
			[]string{"alignas-expr", "prim:int"},
		},
		{
			"alignas-type",
			tu(decl(alignasType, prim("char"), id("buf"))),
			[]string{"alignas-type", "prim:char"},
		},
		{
			"attribute",
			tu(decl(attr, prim("int"), id("x"))),
			[]string{"attribute", "prim:int"},
		},
		{
			"macro-type",
			tu(decl(listHead, id("head"))),
			[]string{"macro:LIST_HEAD"},
		},
		{
			"extern-volatile",
			tu(decl(storage("extern"), qual("volatile"), prim("int"), id("flag"))),
			[]string{"storage:extern", "qual:volatile", "prim:int"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := onlyDecl(t, lowerOK(t, tt.tree))
			if got := specNames(d.Specifiers); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("specifiers %v, want %v", got, tt.want)
			}
			if len(d.Declarators) != 1 {
				t.Fatalf("expected 1 declarator, got %d", len(d.Declarators))
			}
		})
	}
}

func TestSizedFragmentsKeepTheirRanges(t *testing.T) {
	// unsigned long x ;
	got := lowerOK(t, tu(decl(cst.N("sized_type_specifier", cst.T("unsigned"), cst.T("long")), id("x"))))
	d := onlyDecl(t, got)
	if len(d.Specifiers) != 2 {
		t.Fatalf("expected 2 fragments, got %d", len(d.Specifiers))
	}
	if r := d.Specifiers[0].CodeRange(); r != rng(0, 0, 0, 8) {
		t.Fatalf("unsigned at %v", r)
	}
	if r := d.Specifiers[1].CodeRange(); r != rng(0, 9, 0, 13) {
		t.Fatalf("long at %v", r)
	}
}

func TestSpecifierErrors(t *testing.T) {
	tests := []struct {
		name     string
		tree     *cst.MemTree
		fragment string
	}{
		{"declspec", tu(decl(cst.N("ms_declspec_modifier", cst.T("__declspec"), cst.T("("), id("dllexport"), cst.T(")")),
			prim("int"), id("x"))), "__declspec"},
		{"unknown-qualifier", tu(decl(qual("constexpr"), prim("int"), id("x"))), "constexpr"},
		{"unknown-storage", tu(decl(storage("__declspec_thread"), prim("int"), id("x"))), "storage class"},
		{"missing-type", tu(decl(id("x"))), "declaration specifier"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantCodeError(t, lowerFail(t, tt.tree), tt.fragment)
		})
	}
}

func TestArraySizeKinds(t *testing.T) {
	tests := []struct {
		name    string
		size    []*cst.Spec
		kind    ast.ArraySizeKind
		hasExpr bool
		quals   int
	}{
		{"unbounded", []*cst.Spec{cst.T("["), cst.T("]")}, ast.ArraySizeUnknown, false, 0},
		{"vla", []*cst.Spec{cst.T("["), cst.T("*"), cst.T("]")}, ast.ArraySizeVariableUnknown, false, 0},
		{"expr", []*cst.Spec{cst.T("["), num("10"), cst.T("]")}, ast.ArraySizeVariableExpression, true, 0},
		{"static", []*cst.Spec{cst.T("["), cst.T("static"), num("10"), cst.T("]")}, ast.ArraySizeStaticExpression, true, 0},
		{"qualified-static", []*cst.Spec{cst.T("["), qual("const"), cst.T("static"), num("10"), cst.T("]")},
			ast.ArraySizeStaticExpression, true, 1},
		{"static-qualified", []*cst.Spec{cst.T("["), cst.T("static"), qual("restrict"), num("10"), cst.T("]")},
			ast.ArraySizeStaticExpression, true, 1},
		{"qualified-empty", []*cst.Spec{cst.T("["), qual("const"), cst.T("]")}, ast.ArraySizeUnknown, false, 1},
		{"qualified-vla", []*cst.Spec{cst.T("["), qual("volatile"), cst.T("*"), cst.T("]")},
			ast.ArraySizeVariableUnknown, false, 1},
		{"qualified-expr", []*cst.Spec{cst.T("["), qual("const"), id("n"), cst.T("]")},
			ast.ArraySizeVariableExpression, true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arr := cst.N("array_declarator", append([]*cst.Spec{id("a")}, tt.size...)...)
			d := onlyDecl(t, lowerOK(t, tu(decl(prim("int"), arr))))
			ad, ok := d.Declarators[0].(*ast.ArrayDeclarator)
			if !ok {
				t.Fatalf("expected ArrayDeclarator, got %T", d.Declarators[0])
			}
			s := ad.Size
			if s.Kind != tt.kind {
				t.Fatalf("kind %v, want %v", s.Kind, tt.kind)
			}
			if (s.Expr != nil) != tt.hasExpr {
				t.Fatalf("expression presence %v, want %v", s.Expr != nil, tt.hasExpr)
			}
			if len(s.Qualifiers) != tt.quals {
				t.Fatalf("qualifiers %d, want %d", len(s.Qualifiers), tt.quals)
			}
			// "int a [" puts the bracket at column 6; the size ends with the declarator.
			if s.Range.Start.Column != 6 || s.Range.End != ad.Range.End {
				t.Fatalf("size range %v inside declarator %v", s.Range, ad.Range)
			}
		})
	}
}

func TestAbstractArrayUsesSameClassification(t *testing.T) {
	// int f(int [static 4]);
	arr := cst.N("abstract_array_declarator", cst.T("["), cst.T("static"), num("4"), cst.T("]"))
	d := onlyDecl(t, lowerOK(t, tu(decl(prim("int"), funcDecl("f", paramDecl(prim("int"), arr))))))
	fd := d.Declarators[0].(*ast.FunctionDeclarator)
	aa, ok := fd.Params[0].Abstract.(*ast.AbstractArrayDeclarator)
	if !ok {
		t.Fatalf("expected AbstractArrayDeclarator, got %T", fd.Params[0].Abstract)
	}
	if aa.Inner != nil || aa.Size.Kind != ast.ArraySizeStaticExpression {
		t.Fatalf("unexpected abstract array %+v", aa)
	}
}

func TestFunctionDeclarators(t *testing.T) {
	t.Run("variadic", func(t *testing.T) {
		// int printf(const char *fmt, ...);
		fd := cst.N("function_declarator", id("printf"), params(
			paramDecl(qual("const"), prim("char"), ptr(id("fmt"))),
			cst.N("variadic_parameter", cst.T("...")),
		))
		d := onlyDecl(t, lowerOK(t, tu(decl(prim("int"), fd))))
		f := d.Declarators[0].(*ast.FunctionDeclarator)
		if !f.Variadic || len(f.Params) != 1 {
			t.Fatalf("variadic %v with %d params", f.Variadic, len(f.Params))
		}
		if got := specNames(f.Params[0].Specifiers); !reflect.DeepEqual(got, []string{"qual:const", "prim:char"}) {
			t.Fatalf("param specifiers %v", got)
		}
		if _, ok := f.Params[0].Declarator.(*ast.PointerDeclarator); !ok {
			t.Fatalf("expected pointer param, got %T", f.Params[0].Declarator)
		}
		if name := f.Inner.(*ast.IdentifierDeclarator).Name; name != "printf" {
			t.Fatalf("function name %q", name)
		}
	})

	t.Run("empty-params", func(t *testing.T) {
		d := onlyDecl(t, lowerOK(t, tu(decl(prim("int"), funcDecl("f")))))
		f := d.Declarators[0].(*ast.FunctionDeclarator)
		if f.Params != nil || f.Variadic {
			t.Fatalf("expected nil params, got %v", f.Params)
		}
	})

	t.Run("function-pointer-param", func(t *testing.T) {
		// void qsort(int (*)(void));
		abs := cst.N("abstract_function_declarator",
			cst.N("abstract_parenthesized_declarator", cst.T("("), cst.N("abstract_pointer_declarator", cst.T("*")), cst.T(")")),
			params(paramDecl(prim("void"))))
		d := onlyDecl(t, lowerOK(t, tu(decl(prim("void"), funcDecl("qsort", paramDecl(prim("int"), abs))))))
		param := d.Declarators[0].(*ast.FunctionDeclarator).Params[0]
		if param.Declarator != nil {
			t.Fatalf("abstract parameter got a named declarator")
		}
		af, ok := param.Abstract.(*ast.AbstractFunctionDeclarator)
		if !ok {
			t.Fatalf("expected AbstractFunctionDeclarator, got %T", param.Abstract)
		}
		ap, ok := af.Inner.(*ast.AbstractParenthesizedDeclarator)
		if !ok {
			t.Fatalf("expected AbstractParenthesizedDeclarator, got %T", af.Inner)
		}
		star, ok := ap.Inner.(*ast.AbstractPointerDeclarator)
		if !ok || star.Inner != nil {
			t.Fatalf("expected a bare abstract pointer, got %#v", ap.Inner)
		}
		if len(af.Params) != 1 {
			t.Fatalf("inner parameter list lost")
		}
	})

	t.Run("parenthesized-pointer", func(t *testing.T) {
		// void (*handler)(int);
		fd := cst.N("function_declarator",
			cst.N("parenthesized_declarator", cst.T("("), ptr(id("handler")), cst.T(")")),
			params(paramDecl(prim("int"))))
		d := onlyDecl(t, lowerOK(t, tu(decl(prim("void"), fd))))
		f := d.Declarators[0].(*ast.FunctionDeclarator)
		pd, ok := f.Inner.(*ast.ParenthesizedDeclarator)
		if !ok {
			t.Fatalf("expected ParenthesizedDeclarator, got %T", f.Inner)
		}
		if _, ok := pd.Inner.(*ast.PointerDeclarator); !ok {
			t.Fatalf("expected pointer inside parens, got %T", pd.Inner)
		}
	})

	t.Run("trailing-attribute", func(t *testing.T) {
		fd := cst.N("function_declarator", id("die"), params(paramDecl(prim("void"))),
			cst.N("attribute_specifier", cst.T("__attribute__"), cst.T("("), args(id("noreturn")), cst.T(")")))
		d := onlyDecl(t, lowerOK(t, tu(decl(prim("void"), fd))))
		f := d.Declarators[0].(*ast.FunctionDeclarator)
		if len(f.Attributes) != 1 || len(f.Attributes[0].Args) != 1 {
			t.Fatalf("attribute not kept: %+v", f.Attributes)
		}
	})

	t.Run("variadic-not-last", func(t *testing.T) {
		fd := cst.N("function_declarator", id("f"), params(
			cst.N("variadic_parameter", cst.T("...")),
			paramDecl(prim("int")),
		))
		wantCodeError(t, lowerFail(t, tu(decl(prim("int"), fd))), "variadic parameter must be the last")
	})

	t.Run("pointer-qualifiers", func(t *testing.T) {
		// char * const restrict p ;
		p := cst.N("pointer_declarator", cst.T("*"), qual("const"), qual("restrict"), id("p"))
		d := onlyDecl(t, lowerOK(t, tu(decl(prim("char"), p))))
		pd := d.Declarators[0].(*ast.PointerDeclarator)
		if got := specNames(pd.Qualifiers); !reflect.DeepEqual(got, []string{"qual:const", "qual:restrict"}) {
			t.Fatalf("qualifiers %v", got)
		}
	})
}

func TestMicrosoftModifiersRejected(t *testing.T) {
	tests := []struct {
		name     string
		declr    *cst.Spec
		fragment string
	}{
		{"based", cst.N("pointer_declarator", cst.N("ms_based_modifier", cst.T("__based"), args(id("seg"))), cst.T("*"), id("p")),
			"__based"},
		{"pointer-modifier", cst.N("pointer_declarator", cst.T("*"), cst.N("ms_pointer_modifier", cst.T("__ptr64")), id("p")),
			"MSVC pointer"},
		{"calling-convention", cst.N("function_declarator",
			cst.N("parenthesized_declarator", cst.T("("), cst.N("ms_call_modifier", cst.T("__stdcall")), ptr(id("cb")), cst.T(")")),
			params()), "calling convention"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantCodeError(t, lowerFail(t, tu(decl(prim("int"), tt.declr))), tt.fragment)
		})
	}

	// int __stdcall f ( void ) ;
	tree := tu(decl(prim("int"), cst.N("ms_call_modifier", cst.T("__stdcall")), funcDecl("f", paramDecl(prim("void")))))
	ce := wantCodeError(t, lowerFail(t, tree), "MSVC calling convention")
	if ce.Range != rng(0, 4, 0, 13) {
		t.Fatalf("error must point at the modifier, got %v", ce.Range)
	}
}

func TestMultipleDeclarators(t *testing.T) {
	// int a , * b , c [ 2 ] ;
	got := lowerOK(t, tu(decl(prim("int"), id("a"), cst.T(","), ptr(id("b")), cst.T(","),
		cst.N("array_declarator", id("c"), cst.T("["), num("2"), cst.T("]")))))
	d := onlyDecl(t, got)
	if len(d.Declarators) != 3 {
		t.Fatalf("expected 3 declarators, got %d", len(d.Declarators))
	}
	for i, want := range []string{"*ast.IdentifierDeclarator", "*ast.PointerDeclarator", "*ast.ArrayDeclarator"} {
		if got := fmt.Sprintf("%T", d.Declarators[i]); got != want {
			t.Fatalf("declarator %d is %s, want %s", i, got, want)
		}
	}
}

func TestInitializers(t *testing.T) {
	list := cst.N("initializer_list", cst.T("{"),
		cst.N("initializer_pair", cst.N("subscript_designator", cst.T("["), num("0"), cst.T("]")), cst.T("="), num("1")), cst.T(","),
		cst.N("initializer_pair", cst.N("field_designator", cst.T("."), fid("x")), cst.T("="), num("2")), cst.T(","),
		cst.N("initializer_pair",
			cst.N("subscript_range_designator", cst.T("["), num("1"), cst.T("..."), num("3"), cst.T("]")),
			cst.N("field_designator", cst.T("."), fid("y")),
			cst.T("="), num("4")), cst.T(","),
		num("5"), cst.T(","),
		cst.N("initializer_pair", fid("z"), cst.T(":"), cst.N("initializer_list", cst.T("{"), cst.T("}"))),
		cst.T(","),
		cst.T("}"))
	init := cst.N("init_declarator", cst.N("array_declarator", id("a"), cst.T("["), cst.T("]")), cst.T("="), list)
	d := onlyDecl(t, lowerOK(t, tu(decl(cst.N("struct_specifier", cst.T("struct"), tid("pt")), init))))

	initd, ok := d.Declarators[0].(*ast.InitDeclarator)
	if !ok {
		t.Fatalf("expected InitDeclarator, got %T", d.Declarators[0])
	}
	il, ok := initd.Initializer.(*ast.InitializerList)
	if !ok {
		t.Fatalf("expected InitializerList, got %T", initd.Initializer)
	}
	if len(il.Items) != 5 {
		t.Fatalf("expected 5 items, got %d", len(il.Items))
	}

	if _, ok := il.Items[0].Designators[0].(*ast.IndexDesignator); !ok {
		t.Fatalf("item 0: %T", il.Items[0].Designators[0])
	}
	if m, ok := il.Items[1].Designators[0].(*ast.MemberDesignator); !ok || m.Name != "x" {
		t.Fatalf("item 1: %#v", il.Items[1].Designators[0])
	}
	if len(il.Items[2].Designators) != 2 {
		t.Fatalf("item 2 should chain two designators, got %d", len(il.Items[2].Designators))
	}
	if rd, ok := il.Items[2].Designators[0].(*ast.RangeDesignator); !ok || rd.From == nil || rd.To == nil {
		t.Fatalf("item 2: %#v", il.Items[2].Designators[0])
	}
	if il.Items[3].Designators != nil {
		t.Fatalf("positional item must have no designators")
	}
	if _, ok := il.Items[3].Initializer.(*ast.ExpressionInitializer); !ok {
		t.Fatalf("item 3: %T", il.Items[3].Initializer)
	}
	if m, ok := il.Items[4].Designators[0].(*ast.MemberDesignator); !ok || m.Name != "z" {
		t.Fatalf("GNU designator: %#v", il.Items[4].Designators[0])
	}
	if inner, ok := il.Items[4].Initializer.(*ast.InitializerList); !ok || inner.Items != nil {
		t.Fatalf("empty nested list: %#v", il.Items[4].Initializer)
	}
}

func TestExpressions(t *testing.T) {
	// int x = sizeof ( int ) + ( long ) y * - f ( 1 , 2 ) ;
	value := cst.N("binary_expression",
		cst.N("sizeof_expression", cst.T("sizeof"), cst.T("("), cst.N("type_descriptor", prim("int")), cst.T(")")),
		cst.T("+"),
		cst.N("binary_expression",
			cst.N("cast_expression", cst.T("("), cst.N("type_descriptor", prim("long")), cst.T(")"), id("y")),
			cst.T("*"),
			cst.N("unary_expression", cst.T("-"), cst.N("call_expression", id("f"), args(num("1"), num("2"))))))
	d := onlyDecl(t, lowerOK(t, tu(decl(prim("int"), cst.N("init_declarator", id("x"), cst.T("="), value)))))

	e := d.Declarators[0].(*ast.InitDeclarator).Initializer.(*ast.ExpressionInitializer).Expr
	add, ok := e.(*ast.BinaryExpr)
	if !ok || add.Op != ast.BinaryAdd {
		t.Fatalf("expected +, got %#v", e)
	}
	sz, ok := add.Left.(*ast.SizeofExpr)
	if !ok || sz.Type == nil || sz.Expr != nil {
		t.Fatalf("expected sizeof(type), got %#v", add.Left)
	}
	mul, ok := add.Right.(*ast.BinaryExpr)
	if !ok || mul.Op != ast.BinaryMul {
		t.Fatalf("expected *, got %#v", add.Right)
	}
	if c, ok := mul.Left.(*ast.CastExpr); !ok || specName(c.Type.SpecQuals[0]) != "prim:long" {
		t.Fatalf("expected a cast to long, got %#v", mul.Left)
	}
	neg, ok := mul.Right.(*ast.UnaryExpr)
	if !ok || neg.Op != ast.UnaryNeg {
		t.Fatalf("expected unary -, got %#v", mul.Right)
	}
	call, ok := neg.Operand.(*ast.CallExpr)
	if !ok || len(call.Args) != 2 {
		t.Fatalf("expected a call with 2 args, got %#v", neg.Operand)
	}

	t.Run("literals", func(t *testing.T) {
		s := cst.N("concatenated_string", cst.L("string_literal", `"a"`), cst.L("string_literal", `"b"`))
		d := onlyDecl(t, lowerOK(t, tu(decl(prim("char"), cst.N("init_declarator", ptr(id("s")), cst.T("="), s)))))
		lit := d.Declarators[0].(*ast.InitDeclarator).Initializer.(*ast.ExpressionInitializer).Expr.(*ast.Literal)
		if lit.Kind != ast.LitConcatString || lit.Text != `"a" "b"` {
			t.Fatalf("literal %v %q", lit.Kind, lit.Text)
		}
	})

	t.Run("sizeof-expression", func(t *testing.T) {
		v := cst.N("sizeof_expression", cst.T("sizeof"), cst.N("parenthesized_expression", cst.T("("), id("buf"), cst.T(")")))
		d := onlyDecl(t, lowerOK(t, tu(decl(prim("int"), cst.N("init_declarator", id("n"), cst.T("="), v)))))
		sz := d.Declarators[0].(*ast.InitDeclarator).Initializer.(*ast.ExpressionInitializer).Expr.(*ast.SizeofExpr)
		if sz.Type != nil {
			t.Fatalf("sizeof of an expression must not carry a type")
		}
		if _, ok := sz.Expr.(*ast.ParenExpr); !ok {
			t.Fatalf("expected ParenExpr, got %T", sz.Expr)
		}
	})

	t.Run("not-an-expression", func(t *testing.T) {
		tree := tu(decl(prim("int"), cst.N("init_declarator", id("x"), cst.T("="), tid("T"))))
		err := lowerFail(t, tree)
		wantCodeError(t, err, "unsupported expression")
		var ni *diag.NotImplementedError
		if errors.As(err, &ni) {
			t.Fatalf("unknown nodes are malformed input, not roadmap gaps")
		}
	})
}
