package token

type TokenType string

const (
	// Single character tokens
	TokenLParen    TokenType = "LPAREN"    // (
	TokenRParen    TokenType = "RPAREN"    // )
	TokenLBrace    TokenType = "LBRACE"    // {
	TokenRBrace    TokenType = "RBRACE"    // }
	TokenAssign    TokenType = "ASSIGN"    // =
	TokenPlus      TokenType = "PLUS"      // +
	TokenMinus     TokenType = "MINUS"     // -
	TokenAsterisk  TokenType = "ASTERISK"  // *
	TokenSlash     TokenType = "SLASH"     // /
	TokenBang      TokenType = "BANG"      // !
	TokenColon     TokenType = "COLON"     // :
	TokenComma     TokenType = "COMMA"     // ,
	TokenSemicolon TokenType = "SEMICOLON" // ;

	// Two character operators
	TokenEq  TokenType = "EQ"  // ==
	TokenNeq TokenType = "NEQ" // !=
	TokenAnd TokenType = "AND" // &&
	TokenOr  TokenType = "OR"  // ||

	// Keywords
	TokenLet    TokenType = "LET"    // let
	TokenFn     TokenType = "FN"     // fn
	TokenReturn TokenType = "RETURN" // return
	TokenTrue   TokenType = "TRUE"   // true
	TokenFalse  TokenType = "FALSE"  // false

	// Literals & Identifiers
	TokenString TokenType = "STRING" // "..."
	TokenInt    TokenType = "INT"    // 43
	TokenIdent  TokenType = "IDENT"  // Identifier (e.g. variable name)

	// Types: int, bool, string, void all lex as TokenTypeLiteral
	TokenTypeLiteral TokenType = "TYPE_LITERAL"

	// Special
	TokenEOF     TokenType = "EOF"
	TokenIllegal TokenType = "ILLEGAL"
)

type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

func (t Token) IsTypeKeyword() bool {
	return t.Type == TokenTypeLiteral
}
