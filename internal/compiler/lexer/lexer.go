package lexer

import (
	"strings"

	"github.com/arnavsurve/slangc/internal/compiler/token"
)

type Lexer struct {
	input        string
	position     int  // current char index
	readPosition int  // next char index
	ch           byte // current char

	line   int // current line number (1-indexed)
	column int // current column number (1-indexed)
}

func NewLexer(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

// readChar advances the lexer's position and updates the current character
// It handles EOF and tracks line/column numbers correctly
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0 // ASCII NULL (EOF)
	} else {
		l.ch = l.input[l.readPosition]
	}

	// The newline itself belongs to the line it ends.
	if l.position < len(l.input) && l.readPosition > 0 && l.input[l.position] == '\n' {
		l.line++
		l.column = 0
	}

	l.position = l.readPosition
	l.readPosition++

	if l.ch != 0 {
		l.column++
	}
}

// Returns the next character without consuming it
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	startLine := l.line
	startCol := l.column

	switch l.ch {
	case '/':
		if l.peekChar() == '/' {
			l.readChar()
			l.readComment()
			return l.NextToken()
		} else if l.peekChar() == '*' {
			l.readChar()
			if !l.readBlockComment() {
				return l.newToken(token.TokenIllegal, "unterminated block comment", startLine, startCol)
			}
			return l.NextToken()
		}
		return l.single(token.TokenSlash, startLine, startCol)
	case '=':
		if l.peekChar() == '=' {
			return l.double(token.TokenEq, startLine, startCol)
		}
		return l.single(token.TokenAssign, startLine, startCol)
	case '!':
		if l.peekChar() == '=' {
			return l.double(token.TokenNeq, startLine, startCol)
		}
		return l.single(token.TokenBang, startLine, startCol)
	case '&':
		if l.peekChar() == '&' {
			return l.double(token.TokenAnd, startLine, startCol)
		}
		return l.single(token.TokenIllegal, startLine, startCol)
	case '|':
		if l.peekChar() == '|' {
			return l.double(token.TokenOr, startLine, startCol)
		}
		return l.single(token.TokenIllegal, startLine, startCol)
	case '(':
		return l.single(token.TokenLParen, startLine, startCol)
	case ')':
		return l.single(token.TokenRParen, startLine, startCol)
	case '{':
		return l.single(token.TokenLBrace, startLine, startCol)
	case '}':
		return l.single(token.TokenRBrace, startLine, startCol)
	case '+':
		return l.single(token.TokenPlus, startLine, startCol)
	case '-':
		return l.single(token.TokenMinus, startLine, startCol)
	case '*':
		return l.single(token.TokenAsterisk, startLine, startCol)
	case ':':
		return l.single(token.TokenColon, startLine, startCol)
	case ',':
		return l.single(token.TokenComma, startLine, startCol)
	case ';':
		return l.single(token.TokenSemicolon, startLine, startCol)
	case '"':
		// readString consumes necessary chars and returns the token
		return l.readString(startLine, startCol)
	case 0:
		// Do NOT call l.readChar() here
		return l.newToken(token.TokenEOF, "", startLine, startCol)
	default:
		if isLetter(l.ch) {
			ident := l.readIdentifier()
			return l.newToken(lookupIdent(ident), ident, startLine, startCol)
		} else if isDigit(l.ch) {
			return l.readInteger(startLine, startCol)
		}
		return l.single(token.TokenIllegal, startLine, startCol)
	}
}

// newToken is a helper to create a token.Token struct
func (l *Lexer) newToken(tokenType token.TokenType, literal string, line, col int) token.Token {
	return token.Token{Type: tokenType, Literal: literal, Line: line, Column: col}
}

// single consumes one character as a token.
func (l *Lexer) single(tokenType token.TokenType, line, col int) token.Token {
	tok := l.newToken(tokenType, string(l.ch), line, col)
	l.readChar()
	return tok
}

// double consumes the current and the next character as one token.
func (l *Lexer) double(tokenType token.TokenType, line, col int) token.Token {
	first := l.ch
	l.readChar()
	tok := l.newToken(tokenType, string(first)+string(l.ch), line, col)
	l.readChar()
	return tok
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\n' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) readComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

// readBlockComment reports false when EOF is reached before "*/".
func (l *Lexer) readBlockComment() bool {
	l.readChar() // Consume the opening '*'

	for {
		if l.ch == 0 {
			return false
		}
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar() // Consume '*'
			l.readChar() // Consume '/'
			return true
		}
		l.readChar()
	}
}

func (l *Lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readString reads a double-quoted literal. \" \\ \n and \t are unescaped;
// an unterminated literal is returned as TokenIllegal.
func (l *Lexer) readString(startLine, startCol int) token.Token {
	var b strings.Builder
	l.readChar() // Consume opening "

	for l.ch != '"' && l.ch != 0 {
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 0:
				continue
			default:
				b.WriteByte(l.ch)
			}
			l.readChar()
			continue
		}
		b.WriteByte(l.ch)
		l.readChar()
	}

	if l.ch == 0 {
		return l.newToken(token.TokenIllegal, "unterminated string literal", startLine, startCol)
	}

	l.readChar() // Consume closing "
	return l.newToken(token.TokenString, b.String(), startLine, startCol)
}

func (l *Lexer) readInteger(startLine, startCol int) token.Token {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	return l.newToken(token.TokenInt, l.input[start:l.position], startLine, startCol)
}

func isLetter(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

// keywords maps identifier strings to their corresponding token types.
var keywords = map[string]token.TokenType{
	"let":    token.TokenLet,
	"fn":     token.TokenFn,
	"return": token.TokenReturn,
	"true":   token.TokenTrue,
	"false":  token.TokenFalse,
	"int":    token.TokenTypeLiteral,
	"bool":   token.TokenTypeLiteral,
	"string": token.TokenTypeLiteral,
	"void":   token.TokenTypeLiteral,
}

// lookupIdent checks if an identifier is a keyword, returning the keyword's
// token type or token.TokenIdent if it's not a keyword.
func lookupIdent(ident string) token.TokenType {
	if tokType, ok := keywords[ident]; ok {
		return tokType
	}
	return token.TokenIdent
}
