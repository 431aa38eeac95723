package ast

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/arnavsurve/slangc/internal/compiler/token"
	"github.com/arnavsurve/slangc/internal/compiler/types"
)

// --- Interfaces ---
type Node interface {
	TokenLiteral() string
	String() string
}

type Statement interface {
	Node
	statementNode()
}

type Expression interface {
	Node
	expressionNode()
	GetToken() token.Token
}

// --- Program ---
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

// String for Program concatenates the string representations of its statements
func (p *Program) String() string {
	var out bytes.Buffer
	for _, s := range p.Statements {
		out.WriteString(s.String())
		out.WriteString("\n")
	}
	return out.String()
}

// --- Statements ---

// LetStatement -> let x: int = 1; or let x = 1; or let x: int;
type LetStatement struct {
	Token    token.Token // let
	Name     *Identifier
	TypeNode *TypeNode // nil when the type is inferred
	Value    Expression
}

func (ls *LetStatement) statementNode()       {}
func (ls *LetStatement) TokenLiteral() string { return ls.Token.Literal }
func (ls *LetStatement) String() string {
	var out bytes.Buffer
	out.WriteString("let ")
	out.WriteString(ls.Name.String())
	if ls.TypeNode != nil {
		out.WriteString(": ")
		out.WriteString(ls.TypeNode.String())
	}
	if ls.Value != nil {
		out.WriteString(" = ")
		out.WriteString(ls.Value.String())
	}
	out.WriteString(";")
	return out.String()
}

// AssignStatement -> x = 456;
type AssignStatement struct {
	Token token.Token // =
	Name  *Identifier
	Value Expression
}

func (as *AssignStatement) statementNode()       {}
func (as *AssignStatement) TokenLiteral() string { return as.Token.Literal }
func (as *AssignStatement) String() string {
	return as.Name.String() + " = " + as.Value.String() + ";"
}

// BlockStatement -> { statement1 statement2 }
type BlockStatement struct {
	Token      token.Token // {
	Statements []Statement
}

func (bs *BlockStatement) statementNode()       {}
func (bs *BlockStatement) TokenLiteral() string { return bs.Token.Literal }
func (bs *BlockStatement) String() string {
	var out bytes.Buffer
	out.WriteString("{\n")
	for _, s := range bs.Statements {
		for _, line := range strings.Split(s.String(), "\n") {
			out.WriteString("\t" + line + "\n")
		}
	}
	out.WriteString("}")
	return out.String()
}

// ReturnStatement -> return expression; or return;
type ReturnStatement struct {
	Token       token.Token
	ReturnValue Expression
}

func (rs *ReturnStatement) statementNode()       {}
func (rs *ReturnStatement) TokenLiteral() string { return rs.Token.Literal }
func (rs *ReturnStatement) String() string {
	if rs.ReturnValue == nil {
		return "return;"
	}
	return "return " + rs.ReturnValue.String() + ";"
}

// ExpressionStatement -> f(1);
type ExpressionStatement struct {
	Token      token.Token // first token of the expression
	Expression Expression
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Literal }
func (es *ExpressionStatement) String() string       { return es.Expression.String() + ";" }

// TypeNode -> int, bool, string, void
type TypeNode struct {
	Token token.Token
	Type  types.SymbolType
}

func (tn *TypeNode) TokenLiteral() string { return tn.Token.Literal }
func (tn *TypeNode) String() string       { return tn.Type.String() }

type Parameter struct {
	Name     *Identifier
	TypeNode *TypeNode
}

func (p *Parameter) String() string { return p.Name.String() + ": " + p.TypeNode.String() }

// FunctionDeclaration -> fn name(a: int): bool { ... }
type FunctionDeclaration struct {
	Token      token.Token // fn
	Name       *Identifier
	Parameters []*Parameter
	ReturnType *TypeNode // nil when the return type is inferred
	Body       *BlockStatement
}

func (fd *FunctionDeclaration) statementNode()       {}
func (fd *FunctionDeclaration) TokenLiteral() string { return fd.Token.Literal }
func (fd *FunctionDeclaration) String() string {
	var out bytes.Buffer
	params := make([]string, len(fd.Parameters))
	for i, p := range fd.Parameters {
		params[i] = p.String()
	}
	out.WriteString("fn " + fd.Name.String() + "(" + strings.Join(params, ", ") + ")")
	if fd.ReturnType != nil {
		out.WriteString(": " + fd.ReturnType.String())
	}
	out.WriteString(" ")
	out.WriteString(fd.Body.String())
	return out.String()
}

// --- Expressions ---

type Identifier struct {
	Token token.Token // IDENT
	Value string
}

func (i *Identifier) expressionNode()       {}
func (i *Identifier) TokenLiteral() string  { return i.Token.Literal }
func (i *Identifier) String() string        { return i.Value }
func (i *Identifier) GetToken() token.Token { return i.Token }

// IntegerLiteral keeps the parsed value wide; range checks happen during analysis.
type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (il *IntegerLiteral) expressionNode()       {}
func (il *IntegerLiteral) TokenLiteral() string  { return il.Token.Literal }
func (il *IntegerLiteral) String() string        { return strconv.FormatInt(il.Value, 10) }
func (il *IntegerLiteral) GetToken() token.Token { return il.Token }

type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) expressionNode()       {}
func (sl *StringLiteral) TokenLiteral() string  { return sl.Token.Literal }
func (sl *StringLiteral) String() string        { return strconv.Quote(sl.Value) }
func (sl *StringLiteral) GetToken() token.Token { return sl.Token }

type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (bl *BooleanLiteral) expressionNode()       {}
func (bl *BooleanLiteral) TokenLiteral() string  { return bl.Token.Literal }
func (bl *BooleanLiteral) String() string        { return strconv.FormatBool(bl.Value) }
func (bl *BooleanLiteral) GetToken() token.Token { return bl.Token }

// PrefixExpression -> -x or !x
type PrefixExpression struct {
	Token    token.Token
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) expressionNode()       {}
func (pe *PrefixExpression) TokenLiteral() string  { return pe.Token.Literal }
func (pe *PrefixExpression) String() string        { return "(" + pe.Operator + pe.Right.String() + ")" }
func (pe *PrefixExpression) GetToken() token.Token { return pe.Token }

// InfixExpression -> left op right
type InfixExpression struct {
	Token    token.Token // the operator
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) expressionNode()      {}
func (ie *InfixExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *InfixExpression) String() string {
	return "(" + ie.Left.String() + " " + ie.Operator + " " + ie.Right.String() + ")"
}
func (ie *InfixExpression) GetToken() token.Token { return ie.Token }

// GroupedExpression -> (x). Infix and prefix nodes already print their own
// parens, so String prints the inner expression.
type GroupedExpression struct {
	Token      token.Token // (
	Expression Expression
}

func (ge *GroupedExpression) expressionNode()       {}
func (ge *GroupedExpression) TokenLiteral() string  { return ge.Token.Literal }
func (ge *GroupedExpression) String() string        { return ge.Expression.String() }
func (ge *GroupedExpression) GetToken() token.Token { return ge.Token }

// Unparen strips any grouping around expr.
func Unparen(expr Expression) Expression {
	for {
		g, ok := expr.(*GroupedExpression)
		if !ok {
			return expr
		}
		expr = g.Expression
	}
}

// CallExpression -> f(a, b)
type CallExpression struct {
	Token     token.Token // (
	Function  *Identifier
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *CallExpression) String() string {
	args := make([]string, len(ce.Arguments))
	for i, a := range ce.Arguments {
		args[i] = a.String()
	}
	return ce.Function.String() + "(" + strings.Join(args, ", ") + ")"
}
func (ce *CallExpression) GetToken() token.Token { return ce.Function.Token }
