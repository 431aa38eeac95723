package parser

import (
	"fmt"
	"strconv"

	"github.com/arnavsurve/slangc/internal/compiler/ast"
	"github.com/arnavsurve/slangc/internal/compiler/diag"
	"github.com/arnavsurve/slangc/internal/compiler/lexer"
	"github.com/arnavsurve/slangc/internal/compiler/token"
	"github.com/arnavsurve/slangc/internal/compiler/types"
)

// Precedence levels for Pratt parsing
const (
	_ int = iota
	PrecLowest
	PrecOr      // ||
	PrecAnd     // &&
	PrecEquals  // ==, !=
	PrecSum     // +, -
	PrecProduct // *, /
	PrecPrefix  // -x, !x
	PrecCall    // function(...)
)

// Map tokens to precedence levels
var precedences = map[token.TokenType]int{
	token.TokenOr:       PrecOr,
	token.TokenAnd:      PrecAnd,
	token.TokenEq:       PrecEquals,
	token.TokenNeq:      PrecEquals,
	token.TokenPlus:     PrecSum,
	token.TokenMinus:    PrecSum,
	token.TokenAsterisk: PrecProduct,
	token.TokenSlash:    PrecProduct,
	token.TokenLParen:   PrecCall,
}

func tokenPrecedence(tok token.Token) int {
	if p, ok := precedences[tok.Type]; ok {
		return p
	}
	return PrecLowest
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

type Parser struct {
	l       *lexer.Lexer
	curTok  token.Token
	peekTok token.Token
	errors  diag.List

	fnDepth int // > 0 while inside a function body

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

func NewParser(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.initializePratt()

	// Read two tokens so curTok and peekTok are both set
	p.nextToken()
	p.nextToken()
	return p
}

// --- Token Handling ---
func (p *Parser) nextToken() {
	p.curTok = p.peekTok
	p.peekTok = p.l.NextToken()
}

// --- Error Handling ---
func (p *Parser) addError(tok token.Token, format string, args ...any) {
	p.errors.Add(diag.Diagnostic{
		Line:     tok.Line,
		Column:   tok.Column,
		Severity: diag.Error,
		Phase:    diag.Syntax,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Errors returns the syntax errors found so far.
func (p *Parser) Errors() diag.List {
	return p.errors
}

// --- Program Parsing ---

func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{Statements: []ast.Statement{}}

	for p.curTok.Type != token.TokenEOF {
		startTok := p.curTok

		var stmt ast.Statement
		switch p.curTok.Type {
		case token.TokenLet:
			stmt = p.parseLetStatement()
		case token.TokenFn:
			stmt = p.parseFunctionDeclaration()
		case token.TokenIdent:
			if p.peekTok.Type == token.TokenAssign {
				stmt = p.parseAssignStatement()
			} else {
				p.addError(p.curTok, "Expected declaration or assignment at top level, got expression starting with '%s'", p.curTok.Literal)
				p.synchronize()
			}
		case token.TokenReturn:
			p.addError(p.curTok, "'return' statement outside of function")
			p.synchronize()
		default:
			p.addError(p.curTok, "Unexpected token at start of statement: %s ('%s')", p.curTok.Type, p.curTok.Literal)
			p.synchronize()
		}

		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		} else if p.curTok == startTok && p.curTok.Type != token.TokenEOF {
			// Force advance to prevent an infinite loop
			p.nextToken()
		}
	}

	return program
}

// synchronize skips to just after the next ';' or to the start of the next
// declaration, whichever comes first.
func (p *Parser) synchronize() {
	for p.curTok.Type != token.TokenEOF {
		if p.curTok.Type == token.TokenSemicolon {
			p.nextToken()
			return
		}
		if p.curTok.Type == token.TokenRBrace {
			return
		}
		p.nextToken()
		if p.curTok.Type == token.TokenLet || p.curTok.Type == token.TokenFn {
			return
		}
	}
}

// parseStatement parses one statement inside a block.
func (p *Parser) parseStatement() ast.Statement {
	switch p.curTok.Type {
	case token.TokenLet:
		return p.parseLetStatement()
	case token.TokenReturn:
		return p.parseReturnStatement()
	case token.TokenLBrace:
		if block := p.parseBlockStatement(); block != nil {
			return block
		}
		return nil
	case token.TokenFn:
		p.addError(p.curTok, "Functions can only be declared at top level")
		p.nextToken() // Consume 'fn'
		p.skipFunction()
		return nil
	case token.TokenIdent:
		if p.peekTok.Type == token.TokenAssign {
			return p.parseAssignStatement()
		}
		return p.parseExpressionStatement()
	default:
		return p.parseExpressionStatement()
	}
}

// parseLetStatement parses `let name [: type] [= value];`
func (p *Parser) parseLetStatement() ast.Statement {
	stmt := &ast.LetStatement{Token: p.curTok}

	if !p.expectPeek(token.TokenIdent) {
		p.synchronize()
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curTok, Value: p.curTok.Literal}
	p.nextToken() // Consume name

	if p.curTok.Type == token.TokenColon {
		p.nextToken() // Consume ':'
		stmt.TypeNode = p.parseTypeNode()
		if stmt.TypeNode == nil {
			p.synchronize()
			return nil
		}
	}

	if p.curTok.Type == token.TokenAssign {
		p.nextToken() // Consume '='
		stmt.Value = p.parseExpression(PrecLowest)
		if stmt.Value == nil {
			p.synchronize()
			return nil
		}
	}

	if stmt.TypeNode == nil && stmt.Value == nil {
		p.addError(stmt.Name.Token, "Cannot infer type of '%s' without an initializer", stmt.Name.Value)
	}

	if !p.expectCurrent(token.TokenSemicolon) {
		p.synchronize()
		return nil
	}
	return stmt
}

// parseAssignStatement parses `name = value;`
func (p *Parser) parseAssignStatement() ast.Statement {
	name := &ast.Identifier{Token: p.curTok, Value: p.curTok.Literal}
	p.nextToken() // Consume name
	stmt := &ast.AssignStatement{Token: p.curTok, Name: name}
	p.nextToken() // Consume '='

	stmt.Value = p.parseExpression(PrecLowest)
	if stmt.Value == nil {
		p.synchronize()
		return nil
	}
	if !p.expectCurrent(token.TokenSemicolon) {
		p.synchronize()
		return nil
	}
	return stmt
}

// parseReturnStatement parses `return [expression];`
func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.curTok}
	p.nextToken() // Consume 'return'

	if p.fnDepth == 0 {
		p.addError(stmt.Token, "'return' statement outside of function")
	}

	if p.curTok.Type != token.TokenSemicolon {
		stmt.ReturnValue = p.parseExpression(PrecLowest)
		if stmt.ReturnValue == nil {
			p.synchronize()
			return nil
		}
	}
	if !p.expectCurrent(token.TokenSemicolon) {
		p.synchronize()
		return nil
	}
	return stmt
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	stmt := &ast.ExpressionStatement{Token: p.curTok}
	stmt.Expression = p.parseExpression(PrecLowest)
	if stmt.Expression == nil {
		p.synchronize()
		return nil
	}
	if !p.expectCurrent(token.TokenSemicolon) {
		p.synchronize()
		return nil
	}
	return stmt
}

// parseFunctionDeclaration parses `fn name(params) [: type] { ... }`
func (p *Parser) parseFunctionDeclaration() ast.Statement {
	stmt := &ast.FunctionDeclaration{Token: p.curTok}

	if !p.expectPeek(token.TokenIdent) {
		p.skipFunction()
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curTok, Value: p.curTok.Literal}

	if !p.expectPeek(token.TokenLParen) {
		p.skipFunction()
		return nil
	}
	params, ok := p.parseParameterList()
	if !ok {
		p.skipFunction()
		return nil
	}
	stmt.Parameters = params
	p.nextToken() // Consume ')'

	// Optional return type; without one it is inferred from the body
	if p.curTok.Type == token.TokenColon {
		p.nextToken() // Consume ':'
		stmt.ReturnType = p.parseTypeNode()
		if stmt.ReturnType == nil {
			p.skipFunction()
			return nil
		}
	}

	if p.curTok.Type != token.TokenLBrace {
		p.addError(p.curTok, "Expected '{' to start body of '%s', got %s ('%s')", stmt.Name.Value, p.curTok.Type, p.curTok.Literal)
		p.skipFunction()
		return nil
	}

	p.fnDepth++
	stmt.Body = p.parseBlockStatement()
	p.fnDepth--
	if stmt.Body == nil {
		return nil
	}
	return stmt
}

// parseTypeNode parses a type keyword. curTok is the keyword on entry and the
// token after it on success.
func (p *Parser) parseTypeNode() *ast.TypeNode {
	tok := p.curTok
	if !tok.IsTypeKeyword() {
		p.addError(tok, "Expected type (int, bool, string, void), got %s ('%s')", tok.Type, tok.Literal)
		return nil
	}
	t, ok := types.Lookup(tok.Literal)
	if !ok {
		p.addError(tok, "Unknown type '%s'", tok.Literal)
		return nil
	}
	p.nextToken()
	return &ast.TypeNode{Token: tok, Type: t}
}

// parseParameterList expects curTok to be '(' and leaves curTok on ')'.
func (p *Parser) parseParameterList() ([]*ast.Parameter, bool) {
	params := []*ast.Parameter{}

	if p.peekTok.Type == token.TokenRParen {
		p.nextToken() // Consume '('
		return params, true
	}
	p.nextToken() // Consume '('

	for {
		param := p.parseSingleParameter()
		if param == nil {
			return nil, false
		}
		params = append(params, param)

		if p.curTok.Type != token.TokenComma {
			break
		}
		p.nextToken() // Consume ','
		if p.curTok.Type == token.TokenRParen {
			p.addError(p.curTok, "Unexpected ')' after comma")
			return nil, false
		}
	}

	// Expect ')' - DO NOT CONSUME
	if p.curTok.Type != token.TokenRParen {
		p.addError(p.curTok, "Expected ',' or ')' after parameter, got %s", p.curTok.Type)
		return nil, false
	}
	return params, true
}

func (p *Parser) parseSingleParameter() *ast.Parameter {
	if p.curTok.Type != token.TokenIdent {
		p.addError(p.curTok, "Expected parameter name")
		return nil
	}
	ident := &ast.Identifier{Token: p.curTok, Value: p.curTok.Literal}

	if !p.expectPeek(token.TokenColon) {
		return nil
	}
	p.nextToken() // Consume ':'

	typeNode := p.parseTypeNode()
	if typeNode == nil {
		return nil
	}
	return &ast.Parameter{Name: ident, TypeNode: typeNode}
}

// parseBlockStatement parses `{ statements... }`
func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curTok, Statements: []ast.Statement{}}
	p.nextToken() // Consume '{'

	for p.curTok.Type != token.TokenRBrace && p.curTok.Type != token.TokenEOF {
		startTok := p.curTok
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		} else if p.curTok == startTok {
			p.nextToken()
		}
	}

	if p.curTok.Type != token.TokenRBrace {
		p.addError(p.curTok, "Expected '}' to close block, found %s ('%s')", p.curTok.Type, p.curTok.Literal)
		return nil
	}
	p.nextToken() // Consume '}'
	return block
}

// skipFunction attempts recovery by consuming tokens through the function body.
func (p *Parser) skipFunction() {
	for p.curTok.Type != token.TokenLBrace && p.curTok.Type != token.TokenEOF {
		if p.curTok.Type == token.TokenLet || (p.curTok.Type == token.TokenFn && p.peekTok.Type == token.TokenIdent) {
			return
		}
		p.nextToken()
	}
	openCount := 0
	for p.curTok.Type != token.TokenEOF {
		switch p.curTok.Type {
		case token.TokenLBrace:
			openCount++
		case token.TokenRBrace:
			openCount--
		}
		p.nextToken()
		if openCount == 0 {
			return
		}
	}
}

// --- Pratt Parsing ---

func (p *Parser) registerPrefix(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType token.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

func (p *Parser) initializePratt() {
	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.infixParseFns = make(map[token.TokenType]infixParseFn)

	// Prefixes (NUDs)
	p.registerPrefix(token.TokenIdent, p.parseIdentifier)
	p.registerPrefix(token.TokenInt, p.parseIntegerLiteral)
	p.registerPrefix(token.TokenString, p.parseStringLiteral)
	p.registerPrefix(token.TokenTrue, p.parseBooleanLiteral)
	p.registerPrefix(token.TokenFalse, p.parseBooleanLiteral)
	p.registerPrefix(token.TokenLParen, p.parseGroupedExpression)
	p.registerPrefix(token.TokenMinus, p.parsePrefixExpression)
	p.registerPrefix(token.TokenBang, p.parsePrefixExpression)

	// Infixes (LEDs)
	for _, tt := range []token.TokenType{
		token.TokenPlus, token.TokenMinus, token.TokenAsterisk, token.TokenSlash,
		token.TokenEq, token.TokenNeq, token.TokenAnd, token.TokenOr,
	} {
		p.registerInfix(tt, p.parseInfixExpression)
	}
	p.registerInfix(token.TokenLParen, p.parseCallExpression)
}

// parseExpression is the main entry point for Pratt parsing. Each parse
// function leaves curTok on the first token after what it consumed.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curTok.Type]
	if prefix == nil {
		if p.curTok.Type == token.TokenIllegal {
			p.addError(p.curTok, "Illegal token '%s'", p.curTok.Literal)
		} else {
			p.addError(p.curTok, "No prefix parsing function found for token type %s ('%s')", p.curTok.Type, p.curTok.Literal)
		}
		return nil
	}
	leftExpr := prefix()
	if leftExpr == nil {
		return nil
	}

	for precedence < tokenPrecedence(p.curTok) {
		infix := p.infixParseFns[p.curTok.Type]
		if infix == nil {
			return leftExpr
		}
		leftExpr = infix(leftExpr)
		if leftExpr == nil {
			return nil
		}
	}

	return leftExpr
}

func (p *Parser) parseIdentifier() ast.Expression {
	expr := &ast.Identifier{Token: p.curTok, Value: p.curTok.Literal}
	p.nextToken()
	return expr
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	tok := p.curTok
	val, err := strconv.ParseInt(tok.Literal, 10, 64)
	if err != nil {
		p.addError(tok, "Could not parse integer literal '%s': %v", tok.Literal, err)
		p.nextToken() // Consume bad token
		return nil
	}
	p.nextToken()
	return &ast.IntegerLiteral{Token: tok, Value: val}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	expr := &ast.StringLiteral{Token: p.curTok, Value: p.curTok.Literal}
	p.nextToken()
	return expr
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	expr := &ast.BooleanLiteral{Token: p.curTok, Value: p.curTok.Type == token.TokenTrue}
	p.nextToken()
	return expr
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	tok := p.curTok
	p.nextToken() // Consume '('
	expr := p.parseExpression(PrecLowest)
	if expr == nil {
		return nil
	}
	if !p.expectCurrent(token.TokenRParen) {
		return nil
	}
	return &ast.GroupedExpression{Token: tok, Expression: expr}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expr := &ast.PrefixExpression{Token: p.curTok, Operator: p.curTok.Literal}
	p.nextToken() // Consume operator
	expr.Right = p.parseExpression(PrecPrefix)
	if expr.Right == nil {
		return nil
	}
	return expr
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expr := &ast.InfixExpression{Token: p.curTok, Operator: p.curTok.Literal, Left: left}
	precedence := tokenPrecedence(p.curTok)
	p.nextToken() // Consume operator
	expr.Right = p.parseExpression(precedence)
	if expr.Right == nil {
		return nil
	}
	return expr
}

func (p *Parser) parseCallExpression(function ast.Expression) ast.Expression {
	ident, ok := ast.Unparen(function).(*ast.Identifier)
	if !ok {
		p.addError(p.curTok, "Expected identifier before '(' for function call")
		return nil
	}
	expr := &ast.CallExpression{Token: p.curTok, Function: ident}
	p.nextToken() // Consume '('

	args, ok := p.parseExpressionList(token.TokenRParen)
	if !ok {
		return nil
	}
	expr.Arguments = args
	return expr
}

// parseExpressionList parses a comma-separated list of expressions until
// endToken, consuming the endToken. curTok is the token after the opening
// delimiter on entry.
func (p *Parser) parseExpressionList(endToken token.TokenType) ([]ast.Expression, bool) {
	list := []ast.Expression{}

	if p.curTok.Type == endToken {
		p.nextToken()
		return list, true
	}

	for {
		expr := p.parseExpression(PrecLowest)
		if expr == nil {
			return nil, false
		}
		list = append(list, expr)

		if p.curTok.Type != token.TokenComma {
			break
		}
		p.nextToken() // Consume ','
		if p.curTok.Type == endToken {
			p.addError(p.curTok, "Unexpected '%s' after comma in list", p.curTok.Literal)
			return nil, false
		}
	}

	if !p.expectCurrent(endToken) {
		return nil, false
	}
	return list, true
}

// --- Utility Functions ---

// expectPeek checks if the next token is of the expected type. If so, it
// advances so that it becomes curTok and returns true. Otherwise, adds an
// error and returns false.
func (p *Parser) expectPeek(expectedType token.TokenType) bool {
	if p.peekTok.Type == expectedType {
		p.nextToken()
		return true
	}
	p.addError(p.peekTok, "Expected next token to be %s, got %s ('%s') instead", expectedType, p.peekTok.Type, p.peekTok.Literal)
	return false
}

// expectCurrent consumes curTok if it has the expected type.
func (p *Parser) expectCurrent(expectedType token.TokenType) bool {
	if p.curTok.Type == expectedType {
		p.nextToken()
		return true
	}
	p.addError(p.curTok, "Expected %s, got %s ('%s') instead", expectedType, p.curTok.Type, p.curTok.Literal)
	return false
}
