package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavsurve/slangc/internal/compiler/diag"
	"github.com/arnavsurve/slangc/internal/compiler/lexer"
	"github.com/arnavsurve/slangc/internal/compiler/parser"
	"github.com/arnavsurve/slangc/internal/compiler/scope"
	"github.com/arnavsurve/slangc/internal/compiler/symbols"
	"github.com/arnavsurve/slangc/internal/compiler/types"
	"github.com/arnavsurve/slangc/internal/testutil"
)

func analyze(t *testing.T, input string, opts Options) (*scope.Scope, diag.List) {
	t.Helper()
	p := parser.NewParser(lexer.NewLexer(input))
	program := p.ParseProgram()
	require.Empty(t, p.Errors().Strings(), "unexpected syntax errors")

	opts.Logger = testutil.NewTestLogger(t)
	global, diags := Analyze(program, opts)
	require.NotNil(t, global)
	return global, diags
}

// analyzeClean fails the test on any error diagnostic.
func analyzeClean(t *testing.T, input string) *scope.Scope {
	t.Helper()
	global, diags := analyze(t, input, DefaultOptions())
	require.Empty(t, diags.Errors().Strings())
	return global
}

func messages(l diag.List) string {
	return strings.Join(l.Strings(), "\n")
}

func TestFunctionWithBoolReturnType(t *testing.T) {
	global := analyzeClean(t, "fn f(): bool { return true; }")

	sym, ok := global.Lookup("f")
	require.True(t, ok)
	assert.True(t, sym.IsSymbolType(types.Function))
	assert.False(t, sym.IsSymbolType(types.Bool))

	fn, ok := symbols.AsFunction(sym)
	require.True(t, ok)
	assert.Equal(t, 0, fn.ParamCount())
	assert.Empty(t, fn.ParamList())
	assert.Equal(t, types.Bool, fn.ReturnType())
	assert.False(t, fn.IsInferredType())
}

func TestUninitializedBoolAtLine12(t *testing.T) {
	input := strings.Repeat("\n", 11) + "let x: bool;"
	global := analyzeClean(t, input)

	sym, ok := global.Lookup("x")
	require.True(t, ok)
	b, ok := symbols.AsBool(sym)
	require.True(t, ok)
	assert.False(t, b.Value())
	assert.Equal(t, 12, b.FirstAppearedLine())
	assert.False(t, b.IsInitialValueCalculated())
}

func TestLetDeclarations(t *testing.T) {
	global := analyzeClean(t, `
let a: int = 2 * 3 + 1;
let b = "ab" + "cd";
let c = a == 7;
let d: string;
let e = -a;
`)

	a, ok := global.LookupCurrentScope("a")
	require.True(t, ok)
	ai, ok := symbols.AsInt(a)
	require.True(t, ok)
	assert.Equal(t, int32(7), ai.Value())
	assert.True(t, ai.IsInitialValueCalculated())
	assert.False(t, ai.IsInferredType())

	b, _ := global.LookupCurrentScope("b")
	bs, ok := symbols.AsString(b)
	require.True(t, ok)
	assert.Equal(t, "abcd", bs.Value())
	assert.True(t, bs.IsInferredType())

	c, _ := global.LookupCurrentScope("c")
	cb, ok := symbols.AsBool(c)
	require.True(t, ok)
	assert.True(t, cb.Value())

	d, _ := global.LookupCurrentScope("d")
	ds, ok := symbols.AsString(d)
	require.True(t, ok)
	assert.Equal(t, "", ds.Value())
	assert.False(t, ds.IsInitialValueCalculated())

	e, _ := global.LookupCurrentScope("e")
	ei, ok := symbols.AsInt(e)
	require.True(t, ok)
	assert.Equal(t, int32(-7), ei.Value())

	var names []string
	for _, s := range global.Symbols() {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, names)
}

func TestFoldingDisabled(t *testing.T) {
	opts := DefaultOptions()
	opts.FoldConstants = false
	global, diags := analyze(t, "let a: int = 1 + 2;\nlet b = a;", opts)
	require.Empty(t, diags.Errors())

	a, _ := global.LookupCurrentScope("a")
	ai, ok := symbols.AsInt(a)
	require.True(t, ok)
	assert.Equal(t, int32(0), ai.Value())
	assert.False(t, ai.IsInitialValueCalculated())

	b, _ := global.LookupCurrentScope("b")
	assert.True(t, b.IsSymbolType(types.Int))
}

func TestReassignment(t *testing.T) {
	global := analyzeClean(t, `
let a = 1;
a = a + 41;
fn next(): int { return 3; }
let b = 5;
b = next();
`)

	a, _ := global.LookupCurrentScope("a")
	ai, _ := symbols.AsInt(a)
	assert.Equal(t, int32(42), ai.Value())
	assert.True(t, ai.IsInitialValueCalculated())

	b, _ := global.LookupCurrentScope("b")
	bi, _ := symbols.AsInt(b)
	assert.False(t, bi.IsInitialValueCalculated())
}

func TestGlobalWrittenInFunctionIsNotFolded(t *testing.T) {
	global := analyzeClean(t, `
let counter = 1;
let before = counter;
fn bump(): void { counter = 2; }
`)

	counter, _ := global.LookupCurrentScope("counter")
	cv, _ := symbols.AsVariable(counter)
	assert.False(t, cv.IsInitialValueCalculated())

	before, _ := global.LookupCurrentScope("before")
	bv, _ := symbols.AsVariable(before)
	assert.False(t, bv.IsInitialValueCalculated())
}

func TestLocalWriteDoesNotUnfoldGlobal(t *testing.T) {
	global := analyzeClean(t, `
let x = 1;
let y = x + 1;
fn local(): void {
  let x = 2;
  x = 3;
}
fn param(x: int): void { x = 4; }
fn nested(): void {
  let x = 5;
  { x = 6; }
}
`)

	x, _ := global.LookupCurrentScope("x")
	xi, _ := symbols.AsInt(x)
	assert.True(t, xi.IsInitialValueCalculated())
	assert.Equal(t, int32(1), xi.Value())

	y, _ := global.LookupCurrentScope("y")
	yi, _ := symbols.AsInt(y)
	assert.True(t, yi.IsInitialValueCalculated())
	assert.Equal(t, int32(2), yi.Value())
}

func TestWriteBeforeLocalLetUnfoldsGlobal(t *testing.T) {
	global := analyzeClean(t, `
let x = 1;
fn f(): void {
  x = 2;
  let x = 3;
}
`)

	x, _ := global.LookupCurrentScope("x")
	xv, _ := symbols.AsVariable(x)
	assert.False(t, xv.IsInitialValueCalculated())
}

func TestParameterAssignmentIsNotFolded(t *testing.T) {
	global := analyzeClean(t, "fn f(a: int): int { a = 5; return a; }")

	f, _ := global.LookupCurrentScope("f")
	fn, ok := symbols.AsFunction(f)
	require.True(t, ok)
	p, err := fn.ParamAt(0)
	require.NoError(t, err)
	pv, ok := symbols.AsVariable(p)
	require.True(t, ok)
	assert.False(t, pv.IsInitialValueCalculated())
}

func TestFunctionScopes(t *testing.T) {
	global := analyzeClean(t, `
fn add(a: int, b: int): int {
  let sum = a + b;
  {
    let inner: bool = true;
  }
  return sum;
}
`)

	add, _ := global.LookupCurrentScope("add")
	fn, ok := symbols.AsFunction(add)
	require.True(t, ok)
	require.Equal(t, 2, fn.ParamCount())
	assert.Equal(t, "(II)I", fn.Descriptor())

	children := global.Children()
	require.Len(t, children, 1)
	fnScope := children[0]
	assert.Equal(t, "add", fnScope.Name)
	assert.Equal(t, 1, fnScope.Depth())

	// Parameters are visible in the function scope and owned by the function.
	pa, ok := fnScope.LookupCurrentScope("a")
	require.True(t, ok)
	first, err := fn.ParamAt(0)
	require.NoError(t, err)
	assert.Same(t, first, pa)
	assert.Equal(t, "a", pa.AugmentedName())

	sum, ok := fnScope.LookupCurrentScope("sum")
	require.True(t, ok)
	assert.Equal(t, "sum_1", sum.AugmentedName())
	sv, _ := symbols.AsVariable(sum)
	assert.False(t, sv.IsInitialValueCalculated())

	require.Len(t, fnScope.Children(), 1)
	block := fnScope.Children()[0]
	inner, ok := block.LookupCurrentScope("inner")
	require.True(t, ok)
	assert.Equal(t, "inner_2", inner.AugmentedName())

	_, ok = global.LookupCurrentScope("sum")
	assert.False(t, ok)
}

func TestHoistedFunctionCalledBeforeDeclaration(t *testing.T) {
	global := analyzeClean(t, `
let r = twice(4);
fn twice(n: int): int { return n * 2; }
`)
	r, _ := global.LookupCurrentScope("r")
	assert.True(t, r.IsSymbolType(types.Int))
}

func TestInferredReturnType(t *testing.T) {
	global := analyzeClean(t, `
fn greet(name: string) { return "hi " + name; }
fn nothing() { }
let g = greet("bo");
`)

	greet, _ := global.LookupCurrentScope("greet")
	fn, ok := symbols.AsFunction(greet)
	require.True(t, ok)
	assert.Equal(t, types.String, fn.ReturnType())
	assert.True(t, fn.IsInferredType())

	nothing, _ := global.LookupCurrentScope("nothing")
	nf, _ := symbols.AsFunction(nothing)
	assert.Equal(t, types.Void, nf.ReturnType())

	g, _ := global.LookupCurrentScope("g")
	assert.True(t, g.IsSymbolType(types.String))
	assert.True(t, g.IsInferredType())
}

func TestShadowingWarning(t *testing.T) {
	input := "let x = 1;\nfn f(): void {\n  let x = true;\n}"

	_, diags := analyze(t, input, DefaultOptions())
	assert.Empty(t, diags.Errors())
	warnings := diags.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, 3, warnings[0].Line)
	assert.Contains(t, warnings[0].Message, "shadows x: int declared at line 1")

	opts := DefaultOptions()
	opts.WarnShadowing = false
	_, diags = analyze(t, input, opts)
	assert.Empty(t, diags)
}

func TestSemanticErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		line    int
		message string
	}{
		{"redeclaration", "let x = 1;\nlet x = 2;", 2, "Symbol 'x' already declared in this scope (first declared at line 1)"},
		{"void variable", "let v: void;", 1, "Variable 'v' cannot have type void"},
		{"type mismatch", `let x: int = "s";`, 1, "Type mismatch: cannot assign string to variable 'x' of type int"},
		{"undeclared", "let x = y;", 1, "Undeclared identifier 'y'"},
		{"assign undeclared", "z = 1;", 1, "Cannot assign to undeclared variable 'z'"},
		{"assign mismatch", "let x = 1;\nx = true;", 2, "Type mismatch: cannot assign bool to variable 'x' of type int"},
		{"assign function", "fn f(): int { return 1; }\nf = 2;", 2, "Cannot assign to function 'f'"},
		{"function as value", "fn f(): int { return 1; }\nlet x = f;", 2, "Function 'f' used as a value without calling it"},
		{"bad operands", `let x = 1 + "a";`, 1, "Type mismatch: int + string"},
		{"bad prefix", "let x = !1;", 1, "Operator '!' not defined for int"},
		{"arity", "fn f(a: int): int { return a; }\nlet x = f();", 2, "Function 'f' expects 1 arguments, got 0"},
		{"arg type", "fn f(a: int): int { return a; }\nlet x = f(true);", 2, "Argument 1 of 'f': cannot use bool as int"},
		{"not a function", "let g = 1;\nlet x = g();", 2, "'g' is not a function (it's a int)"},
		{"undeclared function", "let x = h();", 1, "Undeclared function 'h'"},
		{"void initializer", "fn f(): void { }\nlet x = f();", 2, "Cannot infer type of 'x' from void expression"},
		{"return mismatch", `fn f(): int { return "s"; }`, 1, "Type mismatch: cannot return string from function 'f' expecting int"},
		{"return value from void", "fn f(): void { return 1; }", 1, "Cannot return value from void function 'f'"},
		{"missing return value", "fn f(): int { return; }", 1, "Function 'f' must return a value of type int"},
		{"missing return", "fn f(): bool { let x = 1; }", 1, "Function 'f' must return a value of type bool"},
		{"inconsistent returns", "fn f() {\n  return 1;\n  return true;\n}", 3, "Inconsistent return types in 'f': bool here, int at line 2"},
		{"inferred recursion", "fn f() { return f(); }", 1, "Function 'f' has an inferred return type and cannot call itself"},
		{"inferred forward call", "let x = g();\nfn g() { return 1; }", 1, "Undeclared function 'g'"},
		{"duplicate parameter", "fn f(a: int, a: bool): void { }", 1, "Duplicate parameter name 'a'"},
		{"void parameter", "fn f(a: void): void { }", 1, "Parameter 'a' cannot have type void"},
		{"overflow literal", "let x = 2147483648;", 1, "Integer literal 2147483648 overflows int"},
		{"grouped overflow literal", "let x = -(2147483648);", 1, "Integer literal 2147483648 overflows int"},
		{"overflow fold", "let x = 2147483647 + 1;", 1, "Integer overflow in constant expression"},
		{"division by zero", "let x = 1 / 0;", 1, "Division by zero in constant expression"},
		{"function redeclared", "fn f(): int { return 1; }\nfn f(): int { return 2; }", 2, "Symbol 'f' already declared in this scope (first declared at line 1)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, diags := analyze(t, tt.input, DefaultOptions())
			errs := diags.Errors()
			require.NotEmpty(t, errs, "expected an error")
			assert.Equal(t, tt.line, errs[0].Line, messages(errs))
			assert.Equal(t, diag.Semantic, errs[0].Phase)
			assert.Equal(t, tt.message, errs[0].Message, messages(errs))
		})
	}
}

func TestMinInt32Literal(t *testing.T) {
	global := analyzeClean(t, "let x = -2147483648;")
	x, _ := global.LookupCurrentScope("x")
	xi, ok := symbols.AsInt(x)
	require.True(t, ok)
	assert.Equal(t, int32(-2147483648), xi.Value())
}

func TestUnusedExpressionWarning(t *testing.T) {
	_, diags := analyze(t, "fn f(): void {\n  1 + 2;\n}", DefaultOptions())
	require.Len(t, diags, 1)
	assert.Equal(t, diag.Warning, diags[0].Severity)
	assert.Equal(t, "2:5: Semantic Warning: Result of expression '(1 + 2)' is unused", diags[0].String())
}

func TestDiagnosticsAreSorted(t *testing.T) {
	_, diags := analyze(t, "let a = b;\nlet c = d;\nfn f(): int { return true; }", DefaultOptions())
	require.Len(t, diags, 3)
	for i := 1; i < len(diags); i++ {
		assert.LessOrEqual(t, diags[i-1].Line, diags[i].Line)
	}
}

func TestNilProgram(t *testing.T) {
	global, diags := Analyze(nil, DefaultOptions())
	require.NotNil(t, global)
	assert.True(t, global.IsGlobal())
	assert.Empty(t, diags)
}
