package ast

import (
	"strconv"

	"github.com/ardnew/monkey/lang/token"
)

// Builder provides a programmatic API for constructing AST nodes without
// parsing source text. This is useful for generating Monkey source files
// programmatically or for testing.
//
// Example:
//
//	b := ast.NewBuilder()
//	prog := b.Program(
//	    b.Let("config", b.Hash(
//	        b.Pair(b.String("log-level"), b.String("info")),
//	    )),
//	)
type Builder struct{}

// NewBuilder creates a new AST builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Program creates a [Program] with the given statements.
func (b *Builder) Program(stmts ...Statement) *Program {
	return &Program{Statements: stmts}
}

// Let creates a [LetStatement] binding name to value.
func (b *Builder) Let(name string, value Expression) *LetStatement {
	return &LetStatement{
		Token: b.makeToken(token.LET, "let"),
		Name:  b.Identifier(name),
		Value: value,
	}
}

// Return creates a [ReturnStatement].
func (b *Builder) Return(value Expression) *ReturnStatement {
	return &ReturnStatement{
		Token:       b.makeToken(token.RETURN, "return"),
		ReturnValue: value,
	}
}

// Expr wraps an expression in an [ExpressionStatement].
func (b *Builder) Expr(e Expression) *ExpressionStatement {
	return &ExpressionStatement{Token: token.Token{Literal: e.TokenLiteral()}, Expression: e}
}

// Identifier creates an [Identifier].
func (b *Builder) Identifier(name string) *Identifier {
	return &Identifier{Token: b.makeToken(token.IDENT, name), Value: name}
}

// String creates a [StringLiteral].
func (b *Builder) String(s string) *StringLiteral {
	return &StringLiteral{Token: b.makeToken(token.STRING, s), Value: s}
}

// Int creates an [IntegerLiteral].
func (b *Builder) Int(n int64) *IntegerLiteral {
	return &IntegerLiteral{
		Token: b.makeToken(token.INT, strconv.FormatInt(n, 10)),
		Value: n,
	}
}

// Bool creates a [Boolean] literal.
func (b *Builder) Bool(v bool) *Boolean {
	typ := token.FALSE
	if v {
		typ = token.TRUE
	}

	return &Boolean{Token: b.makeToken(typ, strconv.FormatBool(v)), Value: v}
}

// Array creates an [ArrayLiteral].
func (b *Builder) Array(elems ...Expression) *ArrayLiteral {
	return &ArrayLiteral{Token: b.makeToken(token.LBRACKET, "["), Elements: elems}
}

// Pair creates a [HashPair] for use with [Builder.Hash].
func (b *Builder) Pair(key, value Expression) HashPair {
	return HashPair{Key: key, Value: value}
}

// Hash creates a [HashLiteral] with pairs in the given order.
func (b *Builder) Hash(pairs ...HashPair) *HashLiteral {
	return &HashLiteral{Token: b.makeToken(token.LBRACE, "{"), Pairs: pairs}
}

// Call creates a [CallExpression] of fn applied to args.
func (b *Builder) Call(fn Expression, args ...Expression) *CallExpression {
	return &CallExpression{
		Token:     b.makeToken(token.LPAREN, "("),
		Function:  fn,
		Arguments: args,
	}
}

func (b *Builder) makeToken(typ token.Type, lit string) token.Token {
	return token.Token{Type: typ, Literal: lit}
}
