// Package token defines the lexical tokens of the Monkey language.
package token

import "strconv"

// Type identifies the kind of a [Token].
type Type string

// Token kinds. The string value of operator and delimiter kinds is the
// literal text of the token; other kinds use an upper-case name.
const (
	ILLEGAL Type = "ILLEGAL"
	EOF     Type = "EOF"

	// Identifiers and literals.
	IDENT  Type = "IDENT"
	INT    Type = "INT"
	STRING Type = "STRING"

	// Operators.
	ASSIGN   Type = "="
	PLUS     Type = "+"
	MINUS    Type = "-"
	BANG     Type = "!"
	ASTERISK Type = "*"
	SLASH    Type = "/"
	LT       Type = "<"
	GT       Type = ">"
	EQ       Type = "=="
	NOT_EQ   Type = "!="

	// Delimiters.
	COMMA     Type = ","
	SEMICOLON Type = ";"
	COLON     Type = ":"
	LPAREN    Type = "("
	RPAREN    Type = ")"
	LBRACE    Type = "{"
	RBRACE    Type = "}"
	LBRACKET  Type = "["
	RBRACKET  Type = "]"

	// Keywords.
	FUNCTION Type = "FUNCTION"
	LET      Type = "LET"
	TRUE     Type = "TRUE"
	FALSE    Type = "FALSE"
	IF       Type = "IF"
	ELSE     Type = "ELSE"
	RETURN   Type = "RETURN"
)

// Token is a single lexeme with its kind and source position.
// Line and Column are 1-based; the zero value means unknown.
type Token struct {
	Type    Type
	Literal string
	Line    int
	Column  int
}

// Pos returns the "line:column" position of the token.
func (t Token) Pos() string {
	return strconv.Itoa(t.Line) + ":" + strconv.Itoa(t.Column)
}

var keywords = map[string]Type{
	"fn":     FUNCTION,
	"let":    LET,
	"true":   TRUE,
	"false":  FALSE,
	"if":     IF,
	"else":   ELSE,
	"return": RETURN,
}

// LookupIdent returns the keyword kind for ident, or [IDENT] if ident is not a
// reserved word.
func LookupIdent(ident string) Type {
	if tok, ok := keywords[ident]; ok {
		return tok
	}

	return IDENT
}

// Keywords returns the reserved words of the language.
func Keywords() []string {
	kw := make([]string, 0, len(keywords))
	for k := range keywords {
		kw = append(kw, k)
	}

	return kw
}
