// Package lexer converts Monkey source text into a stream of tokens.
//
// The lexer is pull-based: each call to [Lexer.NextToken] scans and returns
// the next token. Once the input is exhausted every further call returns a
// token of kind [token.EOF].
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/monkey/lang/token"
)

// Lexer holds the scanning state over a source string.
type Lexer struct {
	input string
	pos   int  // byte offset of ch
	next  int  // byte offset after ch
	ch    rune // current rune, 0 at end of input
	line  int
	col   int
}

// New returns a lexer positioned at the start of input.
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readRune()

	return l
}

// NextToken scans and returns the next token.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	line, col := l.line, l.col

	var tok token.Token

	switch l.ch {
	case '=':
		tok = l.either('=', token.EQ, token.ASSIGN)
	case '!':
		tok = l.either('=', token.NOT_EQ, token.BANG)
	case '+':
		tok = l.single(token.PLUS)
	case '-':
		tok = l.single(token.MINUS)
	case '*':
		tok = l.single(token.ASTERISK)
	case '/':
		tok = l.single(token.SLASH)
	case '<':
		tok = l.single(token.LT)
	case '>':
		tok = l.single(token.GT)
	case ',':
		tok = l.single(token.COMMA)
	case ';':
		tok = l.single(token.SEMICOLON)
	case ':':
		tok = l.single(token.COLON)
	case '(':
		tok = l.single(token.LPAREN)
	case ')':
		tok = l.single(token.RPAREN)
	case '{':
		tok = l.single(token.LBRACE)
	case '}':
		tok = l.single(token.RBRACE)
	case '[':
		tok = l.single(token.LBRACKET)
	case ']':
		tok = l.single(token.RBRACKET)
	case '"':
		tok = l.readString()
	case 0:
		if l.pos >= len(l.input) {
			tok = token.Token{Type: token.EOF}

			break
		}

		tok = l.single(token.ILLEGAL)

	default:
		switch {
		case isLetter(l.ch):
			ident := l.readWhile(isIdentRune)
			tok = token.Token{Type: token.LookupIdent(ident), Literal: ident}
		case isDigit(l.ch):
			tok = token.Token{Type: token.INT, Literal: l.readWhile(isDigit)}
		default:
			tok = l.single(token.ILLEGAL)
		}
	}

	tok.Line, tok.Column = line, col

	return tok
}

// Tokens scans the remaining input and returns every token up to and
// including the terminating [token.EOF].
func (l *Lexer) Tokens() []token.Token {
	var toks []token.Token

	for {
		tok := l.NextToken()
		toks = append(toks, tok)

		if tok.Type == token.EOF {
			return toks
		}
	}
}

func (l *Lexer) readRune() {
	if l.ch == '\n' {
		l.line++
		l.col = 0
	}

	l.pos = l.next
	if l.next >= len(l.input) {
		l.ch = 0
		l.col++

		return
	}

	r, size := utf8.DecodeRuneInString(l.input[l.next:])
	l.ch = r
	l.next += size
	l.col++
}

func (l *Lexer) peekRune() rune {
	if l.next >= len(l.input) {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(l.input[l.next:])

	return r
}

func (l *Lexer) single(t token.Type) token.Token {
	lit := string(l.ch)
	l.readRune()

	return token.Token{Type: t, Literal: lit}
}

// either returns the two-rune token t2 if the current rune is followed by
// second, or the one-rune token t1 otherwise.
func (l *Lexer) either(second rune, t2, t1 token.Type) token.Token {
	if l.peekRune() != second {
		return l.single(t1)
	}

	lit := string(l.ch) + string(second)
	l.readRune()
	l.readRune()

	return token.Token{Type: t2, Literal: lit}
}

func (l *Lexer) readWhile(accept func(rune) bool) string {
	start := l.pos
	for l.pos < len(l.input) && accept(l.ch) {
		l.readRune()
	}

	return l.input[start:l.pos]
}

// readString scans a double-quoted string literal. The literal of the
// returned token is the unescaped content without quotes. An unterminated
// string yields an ILLEGAL token carrying the partial content.
func (l *Lexer) readString() token.Token {
	var sb strings.Builder

	l.readRune() // opening quote

	for {
		if l.pos >= len(l.input) {
			return token.Token{Type: token.ILLEGAL, Literal: `"` + sb.String()}
		}

		switch l.ch {
		case '"':
			l.readRune()

			return token.Token{Type: token.STRING, Literal: sb.String()}

		case '\\':
			l.readRune()

			switch l.ch {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case 'r':
				sb.WriteRune('\r')
			case '"', '\\':
				sb.WriteRune(l.ch)
			case 0:
				continue
			default:
				sb.WriteRune('\\')
				sb.WriteRune(l.ch)
			}

		default:
			sb.WriteRune(l.ch)
		}

		l.readRune()
	}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			l.readRune()

		case l.ch == '/' && l.peekRune() == '/':
			for l.pos < len(l.input) && l.ch != '\n' {
				l.readRune()
			}

		default:
			return
		}
	}
}

func isLetter(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isIdentRune(r rune) bool {
	return isLetter(r) || isDigit(r)
}
