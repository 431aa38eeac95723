// Package analyzer walks a parsed program, builds its symbols, and places
// them in a scope tree. Type errors and other semantic problems are collected
// as diagnostics.
package analyzer

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/arnavsurve/slangc/internal/compiler/ast"
	"github.com/arnavsurve/slangc/internal/compiler/diag"
	"github.com/arnavsurve/slangc/internal/compiler/scope"
	"github.com/arnavsurve/slangc/internal/compiler/symbols"
	"github.com/arnavsurve/slangc/internal/compiler/token"
	"github.com/arnavsurve/slangc/internal/compiler/types"
)

const GlobalScopeName = "global"

type Options struct {
	FoldConstants bool
	WarnShadowing bool
	Logger        *slog.Logger
}

func DefaultOptions() Options {
	return Options{FoldConstants: true, WarnShadowing: true}
}

type Analyzer struct {
	opts Options
	log  *slog.Logger

	global  *scope.Scope
	current *scope.Scope
	fn      *funcContext // nil at top level
	diags   diag.List

	signatures map[*ast.FunctionDeclaration]*symbols.FunctionSymbol
	// Globals assigned somewhere inside a function body, by name. Names a
	// function binds locally are left out. Their top-level
	// value depends on which calls have run, so references never fold.
	mutated map[string]bool
}

// funcContext tracks the function whose body is being analyzed.
type funcContext struct {
	name     string
	declared types.SymbolType // Invalid when the return type is inferred
	returned bool
	params   []symbols.Symbol

	inferred    types.SymbolType
	inferredTok token.Token
}

func (c *funcContext) isInferred() bool { return c.declared == types.Invalid }

// result is the static type of an expression and, when it folded, its value.
type result struct {
	typ   types.SymbolType
	value any
}

func (r result) constant() bool { return r.value != nil }

var invalid = result{typ: types.Invalid}

func New(opts Options) *Analyzer {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Analyzer{
		opts:       opts,
		log:        log,
		signatures: make(map[*ast.FunctionDeclaration]*symbols.FunctionSymbol),
		mutated:    make(map[string]bool),
	}
}

// Analyze is shorthand for New(opts).Analyze(program).
func Analyze(program *ast.Program, opts Options) (*scope.Scope, diag.List) {
	return New(opts).Analyze(program)
}

// Analyze builds the global scope for program. The returned scope is always
// non-nil; symbols that could be built are in it even when errors were found.
func (a *Analyzer) Analyze(program *ast.Program) (*scope.Scope, diag.List) {
	a.global = scope.NewScope(nil, GlobalScopeName)
	a.current = a.global
	if program == nil {
		return a.global, a.diags
	}

	// --- Pass 1: hoist functions with an explicit return type ---
	for _, stmt := range program.Statements {
		decl, ok := stmt.(*ast.FunctionDeclaration)
		if !ok {
			continue
		}
		collectAssignments(decl.Body, paramNames(decl), a.mutated)
		if decl.ReturnType == nil {
			continue
		}
		fn := a.buildFunction(decl, a.buildParams(decl), decl.ReturnType.Type, false)
		if fn == nil {
			continue
		}
		a.signatures[decl] = fn
		a.define(fn, decl.Name.Token)
		a.log.Debug("hoisted function", "name", fn.Name(), "descriptor", fn.Descriptor())
	}

	// --- Pass 2: declarations and bodies in source order ---
	for _, stmt := range program.Statements {
		a.statement(stmt)
	}

	a.diags.Sort()
	return a.global, a.diags
}

// --- Error Handling ---

func (a *Analyzer) addError(tok token.Token, format string, args ...any) {
	a.report(diag.Error, tok, format, args...)
}

func (a *Analyzer) addWarning(tok token.Token, format string, args ...any) {
	a.report(diag.Warning, tok, format, args...)
}

func (a *Analyzer) report(sev diag.Severity, tok token.Token, format string, args ...any) {
	d := diag.Diagnostic{
		Line:     tok.Line,
		Column:   tok.Column,
		Severity: sev,
		Phase:    diag.Semantic,
		Message:  fmt.Sprintf(format, args...),
	}
	a.log.Debug("diagnostic", "severity", sev.String(), "line", d.Line, "message", d.Message)
	a.diags.Add(d)
}

// define places sym in the current scope, reporting redeclaration and, when
// enabled, shadowing.
func (a *Analyzer) define(sym symbols.Symbol, tok token.Token) bool {
	return a.bind(sym, tok, a.current.Define)
}

func (a *Analyzer) bind(sym symbols.Symbol, tok token.Token, bindFn func(symbols.Symbol) error) bool {
	name := sym.Name()
	if prev, ok := a.current.LookupCurrentScope(name); ok {
		a.addError(tok, "Symbol '%s' already declared in this scope (first declared at line %d)", name, prev.FirstAppearedLine())
		return false
	}
	if a.opts.WarnShadowing && !a.current.IsGlobal() {
		if outer, ok := a.current.Outer.Lookup(name); ok {
			a.addWarning(tok, "Declaration of '%s' shadows %s declared at line %d", name, symbols.Describe(outer), outer.FirstAppearedLine())
		}
	}
	if err := bindFn(sym); err != nil {
		if errors.Is(err, scope.ErrAlreadyDeclared) {
			a.addError(tok, "Symbol '%s' already declared in this scope", name)
		} else {
			a.addError(tok, "Internal Error: Failed to define '%s': %v", name, err)
		}
		return false
	}
	return true
}

// --- Functions ---

// buildParams makes one variable symbol per parameter. Parameters that cannot
// be built are reported and left out.
func (a *Analyzer) buildParams(decl *ast.FunctionDeclaration) []symbols.Symbol {
	params := make([]symbols.Symbol, 0, len(decl.Parameters))
	seen := make(map[string]bool, len(decl.Parameters))
	for _, param := range decl.Parameters {
		name := param.Name.Value
		if seen[name] {
			a.addError(param.Name.Token, "Duplicate parameter name '%s'", name)
			continue
		}
		seen[name] = true

		v, err := symbols.NewVariable(param.TypeNode.Type, name, param.Name.Token.Line)
		if err != nil {
			if errors.Is(err, types.ErrNoDefaultValue) {
				a.addError(param.TypeNode.Token, "Parameter '%s' cannot have type %s", name, param.TypeNode.Type)
			} else {
				a.addError(param.Name.Token, "Internal Error: %v", err)
			}
			continue
		}
		params = append(params, v)
	}
	return params
}

func (a *Analyzer) buildFunction(decl *ast.FunctionDeclaration, params []symbols.Symbol, returnType types.SymbolType, inferred bool) *symbols.FunctionSymbol {
	fn, err := symbols.NewFunctionWithSignature(decl.Name.Value, decl.Name.Token.Line, params, returnType, inferred)
	if err != nil {
		tok := decl.Name.Token
		if decl.ReturnType != nil {
			tok = decl.ReturnType.Token
		}
		switch {
		case errors.Is(err, symbols.ErrInvalidReturnType):
			a.addError(tok, "Function '%s' cannot return %s", decl.Name.Value, returnType)
		default:
			a.addError(tok, "Internal Error: %v", err)
		}
		return nil
	}
	return fn
}

func (a *Analyzer) functionDeclaration(decl *ast.FunctionDeclaration) {
	if !a.current.IsGlobal() {
		a.addError(decl.Token, "Functions can only be declared at top level")
		return
	}

	ctx := &funcContext{name: decl.Name.Value, declared: types.Invalid, inferred: types.Invalid}
	var params []symbols.Symbol
	if fn, ok := a.signatures[decl]; ok {
		ctx.declared = fn.ReturnType()
		params = fn.ParamList()
	} else if decl.ReturnType != nil {
		// The hoisted signature could not be built; it has been reported.
		return
	} else {
		params = a.buildParams(decl)
	}

	ctx.params = params

	fnScope := scope.NewScope(a.current, decl.Name.Value)
	outerScope, outerFn := a.current, a.fn
	a.current, a.fn = fnScope, ctx
	for _, p := range params {
		a.bind(p, paramToken(decl, p.Name()), fnScope.Reference)
	}
	if decl.Body != nil {
		for _, stmt := range decl.Body.Statements {
			a.statement(stmt)
		}
	}
	a.current, a.fn = outerScope, outerFn

	if !ctx.isInferred() {
		if ctx.declared != types.Void && !ctx.returned {
			a.addError(decl.Name.Token, "Function '%s' must return a value of type %s", ctx.name, ctx.declared)
		}
		return
	}

	returnType := types.Void
	if ctx.returned && ctx.inferred != types.Invalid {
		returnType = ctx.inferred
	}
	fn := a.buildFunction(decl, params, returnType, true)
	if fn == nil {
		return
	}
	a.define(fn, decl.Name.Token)
	a.log.Debug("inferred function", "name", fn.Name(), "descriptor", fn.Descriptor())
}

// --- Statements ---

func (a *Analyzer) statement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		a.letStatement(s)
	case *ast.AssignStatement:
		a.assignStatement(s)
	case *ast.FunctionDeclaration:
		a.functionDeclaration(s)
	case *ast.ReturnStatement:
		a.returnStatement(s)
	case *ast.BlockStatement:
		a.blockStatement(s)
	case *ast.ExpressionStatement:
		a.expressionStatement(s)
	case nil:
	default:
		a.addError(token.Token{}, "Internal Error: unknown statement type %T", stmt)
	}
}

func (a *Analyzer) letStatement(stmt *ast.LetStatement) {
	name := stmt.Name.Value
	line := stmt.Name.Token.Line

	init := invalid
	if stmt.Value != nil {
		init = a.expression(stmt.Value)
	}

	var varType types.SymbolType
	switch {
	case stmt.TypeNode != nil:
		varType = stmt.TypeNode.Type
		if stmt.Value != nil && init.typ != types.Invalid && init.typ != varType {
			if init.typ == types.Void {
				a.addError(stmt.Value.GetToken(), "Cannot assign result of void expression to variable '%s'", name)
			} else {
				a.addError(stmt.Value.GetToken(), "Type mismatch: cannot assign %s to variable '%s' of type %s", init.typ, name, varType)
			}
			init = invalid
		}
	case stmt.Value == nil:
		// Reported by the parser.
		return
	case init.typ == types.Invalid:
		return
	case init.typ == types.Void:
		a.addError(stmt.Value.GetToken(), "Cannot infer type of '%s' from void expression", name)
		return
	default:
		varType = init.typ
	}

	var (
		v   symbols.Variable
		err error
	)
	if init.constant() {
		v, err = symbols.NewVariableValue(varType, name, line, init.value)
	} else {
		v, err = symbols.NewVariable(varType, name, line)
	}
	if err != nil {
		if errors.Is(err, types.ErrNoDefaultValue) {
			tok := stmt.Name.Token
			if stmt.TypeNode != nil {
				tok = stmt.TypeNode.Token
			}
			a.addError(tok, "Variable '%s' cannot have type %s", name, varType)
		} else {
			a.addError(stmt.Name.Token, "Internal Error: %v", err)
		}
		return
	}
	if stmt.TypeNode == nil {
		v.MarkInferred()
	}
	a.define(v, stmt.Name.Token)
}

func (a *Analyzer) assignStatement(stmt *ast.AssignStatement) {
	name := stmt.Name.Value
	value := a.expression(stmt.Value)

	sym, ok := a.current.Lookup(name)
	if !ok {
		a.addError(stmt.Name.Token, "Cannot assign to undeclared variable '%s'", name)
		return
	}
	v, ok := symbols.AsVariable(sym)
	if !ok {
		a.addError(stmt.Name.Token, "Cannot assign to %s '%s'", sym.SymbolType(), name)
		return
	}
	if value.typ == types.Invalid {
		v.SetValueCalculated(false)
		return
	}
	if value.typ == types.Void {
		a.addError(stmt.Value.GetToken(), "Cannot assign result of void expression to '%s'", name)
		return
	}
	if value.typ != v.SymbolType() {
		a.addError(stmt.Value.GetToken(), "Type mismatch: cannot assign %s to variable '%s' of type %s", value.typ, name, v.SymbolType())
		return
	}

	// A global written from a function body depends on call order, and a
	// parameter's value comes from the caller.
	if a.fn != nil && (a.isGlobal(sym) || slices.Contains(a.fn.params, sym)) {
		v.SetValueCalculated(false)
		return
	}
	if !value.constant() || !store(v, value.value) {
		v.SetValueCalculated(false)
	}
}

func (a *Analyzer) returnStatement(stmt *ast.ReturnStatement) {
	ctx := a.fn
	if ctx == nil {
		// Reported by the parser.
		return
	}

	got := types.Void
	tok := stmt.Token
	if stmt.ReturnValue != nil {
		r := a.expression(stmt.ReturnValue)
		tok = stmt.ReturnValue.GetToken()
		if r.typ == types.Invalid {
			ctx.returned = true
			return
		}
		if r.typ == types.Void {
			a.addError(tok, "Cannot return result of void expression from '%s'", ctx.name)
			ctx.returned = true
			return
		}
		got = r.typ
	}
	ctx.returned = true

	if ctx.isInferred() {
		switch {
		case ctx.inferred == types.Invalid:
			ctx.inferred, ctx.inferredTok = got, tok
		case ctx.inferred != got:
			a.addError(tok, "Inconsistent return types in '%s': %s here, %s at line %d", ctx.name, got, ctx.inferred, ctx.inferredTok.Line)
		}
		return
	}

	switch {
	case ctx.declared == types.Void && stmt.ReturnValue != nil:
		a.addError(tok, "Cannot return value from void function '%s'", ctx.name)
	case ctx.declared != types.Void && stmt.ReturnValue == nil:
		a.addError(tok, "Function '%s' must return a value of type %s", ctx.name, ctx.declared)
	case got != ctx.declared && stmt.ReturnValue != nil:
		a.addError(tok, "Type mismatch: cannot return %s from function '%s' expecting %s", got, ctx.name, ctx.declared)
	}
}

func (a *Analyzer) blockStatement(block *ast.BlockStatement) {
	outer := a.current
	a.current = scope.NewScope(outer, "block")
	for _, stmt := range block.Statements {
		a.statement(stmt)
	}
	a.current = outer
}

func (a *Analyzer) expressionStatement(stmt *ast.ExpressionStatement) {
	a.expression(stmt.Expression)
	if _, ok := ast.Unparen(stmt.Expression).(*ast.CallExpression); !ok {
		a.addWarning(stmt.Expression.GetToken(), "Result of expression '%s' is unused", stmt.Expression.String())
	}
}

// --- Expressions ---

func (a *Analyzer) expression(expr ast.Expression) result {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		if e.Value > math.MaxInt32 {
			a.addError(e.Token, "Integer literal %s overflows int", e.Token.Literal)
			return result{typ: types.Int}
		}
		return a.constant(types.Int, int32(e.Value))
	case *ast.StringLiteral:
		return a.constant(types.String, e.Value)
	case *ast.BooleanLiteral:
		return a.constant(types.Bool, e.Value)
	case *ast.Identifier:
		return a.identifier(e)
	case *ast.PrefixExpression:
		return a.prefixExpression(e)
	case *ast.InfixExpression:
		return a.infixExpression(e)
	case *ast.CallExpression:
		return a.callExpression(e)
	case *ast.GroupedExpression:
		return a.expression(e.Expression)
	case nil:
		return invalid
	default:
		a.addError(expr.GetToken(), "Internal Error: unknown expression type %T", expr)
		return invalid
	}
}

func (a *Analyzer) constant(t types.SymbolType, v any) result {
	if !a.opts.FoldConstants {
		return result{typ: t}
	}
	return result{typ: t, value: v}
}

func (a *Analyzer) identifier(ident *ast.Identifier) result {
	sym, ok := a.current.Lookup(ident.Value)
	if !ok {
		a.addError(ident.Token, "Undeclared identifier '%s'", ident.Value)
		return invalid
	}
	v, ok := symbols.AsVariable(sym)
	if !ok {
		a.addError(ident.Token, "Function '%s' used as a value without calling it", ident.Value)
		return invalid
	}

	r := result{typ: v.SymbolType()}
	if !v.IsInitialValueCalculated() {
		return r
	}
	if a.isGlobal(sym) && (a.fn != nil || a.mutated[sym.Name()]) {
		return r
	}
	return a.constant(r.typ, v.AnyValue())
}

func (a *Analyzer) prefixExpression(e *ast.PrefixExpression) result {
	// -2147483648 is the one literal that only fits once negated. A grouped
	// literal is range checked on its own.
	if lit, ok := e.Right.(*ast.IntegerLiteral); ok && e.Operator == "-" && lit.Value == -math.MinInt32 {
		return a.constant(types.Int, int32(math.MinInt32))
	}

	right := a.expression(e.Right)
	if right.typ == types.Invalid {
		return invalid
	}

	var want types.SymbolType
	switch e.Operator {
	case "-":
		want = types.Int
	case "!":
		want = types.Bool
	}
	if right.typ != want {
		a.addError(e.Token, "Operator '%s' not defined for %s", e.Operator, right.typ)
		return invalid
	}

	r := result{typ: want}
	if right.constant() {
		v, err := foldPrefix(e.Operator, right.value)
		if err != nil {
			a.addError(e.Token, "%s", capitalize(err.Error()))
			return r
		}
		r.value = v
	}
	return r
}

func (a *Analyzer) infixExpression(e *ast.InfixExpression) result {
	left := a.expression(e.Left)
	right := a.expression(e.Right)
	if left.typ == types.Invalid || right.typ == types.Invalid {
		return invalid
	}

	resultType, ok := infixResultType(e.Operator, left.typ, right.typ)
	if !ok {
		a.addError(e.Token, "Type mismatch: %s %s %s", left.typ, e.Operator, right.typ)
		return invalid
	}

	r := result{typ: resultType}
	if left.constant() && right.constant() {
		v, err := foldInfix(e.Operator, left.value, right.value)
		if err != nil {
			a.addError(e.Token, "%s", capitalize(err.Error()))
			return r
		}
		r.value = v
	}
	return r
}

func infixResultType(op string, left, right types.SymbolType) (types.SymbolType, bool) {
	if left != right || left == types.Void {
		return types.Invalid, false
	}
	switch op {
	case "+":
		if left == types.Int || left == types.String {
			return left, true
		}
	case "-", "*", "/":
		if left == types.Int {
			return types.Int, true
		}
	case "&&", "||":
		if left == types.Bool {
			return types.Bool, true
		}
	case "==", "!=":
		return types.Bool, true
	}
	return types.Invalid, false
}

func (a *Analyzer) callExpression(call *ast.CallExpression) result {
	name := call.Function.Value
	args := make([]result, len(call.Arguments))
	for i, arg := range call.Arguments {
		args[i] = a.expression(arg)
	}

	sym, ok := a.current.Lookup(name)
	if !ok {
		if a.fn != nil && a.fn.isInferred() && a.fn.name == name {
			a.addError(call.Function.Token, "Function '%s' has an inferred return type and cannot call itself", name)
		} else {
			a.addError(call.Function.Token, "Undeclared function '%s'", name)
		}
		return invalid
	}
	fn, ok := symbols.AsFunction(sym)
	if !ok {
		a.addError(call.Function.Token, "'%s' is not a function (it's a %s)", name, sym.SymbolType())
		return invalid
	}

	res := result{typ: fn.ReturnType()}
	if len(args) != fn.ParamCount() {
		a.addError(call.Function.Token, "Function '%s' expects %d arguments, got %d", name, fn.ParamCount(), len(args))
		return res
	}
	for i, arg := range args {
		param, err := fn.ParamAt(i)
		if err != nil {
			a.addError(call.Function.Token, "Internal Error: %v", err)
			return res
		}
		if arg.typ == types.Invalid || arg.typ == param.SymbolType() {
			continue
		}
		a.addError(call.Arguments[i].GetToken(), "Argument %d of '%s': cannot use %s as %s", i+1, name, arg.typ, param.SymbolType())
	}
	return res
}

// isGlobal reports whether sym is the symbol bound to its name at the root.
func (a *Analyzer) isGlobal(sym symbols.Symbol) bool {
	g, ok := a.global.LookupCurrentScope(sym.Name())
	return ok && g == sym
}

// collectAssignments records the target of every assignment in block that
// is not bound by a parameter or an earlier local let, so only writes that
// can reach a global are collected. locals is not modified.
func collectAssignments(block *ast.BlockStatement, locals map[string]bool, into map[string]bool) {
	if block == nil {
		return
	}
	locals = maps.Clone(locals)
	for _, stmt := range block.Statements {
		switch s := stmt.(type) {
		case *ast.LetStatement:
			locals[s.Name.Value] = true
		case *ast.AssignStatement:
			if !locals[s.Name.Value] {
				into[s.Name.Value] = true
			}
		case *ast.BlockStatement:
			collectAssignments(s, locals, into)
		}
	}
}

func paramNames(decl *ast.FunctionDeclaration) map[string]bool {
	names := make(map[string]bool, len(decl.Parameters))
	for _, p := range decl.Parameters {
		names[p.Name.Value] = true
	}
	return names
}

func paramToken(decl *ast.FunctionDeclaration, name string) token.Token {
	for _, p := range decl.Parameters {
		if p.Name.Value == name {
			return p.Name.Token
		}
	}
	return decl.Name.Token
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
