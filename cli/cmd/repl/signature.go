package repl

import (
	"maps"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/monkey/lang"
	"github.com/ardnew/monkey/lang/object"
)

// builtinParams names the parameters of the builtin functions and the quote
// forms. A leading "..." marks a variadic parameter.
var builtinParams = map[string][]string{
	"len":     {"value"},
	"first":   {"array"},
	"last":    {"array"},
	"rest":    {"array"},
	"push":    {"array", "value"},
	"puts":    {"...values"},
	"quote":   {"expression"},
	"unquote": {"expression"},
}

// specialForms returns the callable names that are not builtin objects.
func specialForms() []string {
	return slices.Sorted(maps.Keys(builtinParams))
}

var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// functionCall describes the call surrounding the cursor.
type functionCall struct {
	name     string // callee identifier
	argIndex int    // 0-based index of the argument under the cursor
	inCall   bool   // cursor is inside an argument list
}

// isIdentRune reports whether r may appear in an identifier.
func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// detectFunctionCall reports the innermost call whose argument list contains
// the cursor. Brackets and braces nest like parentheses, and commas inside
// them or inside string literals do not separate arguments.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(cursor, len(input))

	// Positions of unclosed openers before the cursor, innermost last.
	type opener struct {
		pos  int
		ch   byte
		args int
	}

	var (
		stack    []opener
		inString bool
	)

	for i := 0; i < cursor; i++ {
		ch := input[i]

		if inString {
			switch ch {
			case '\\':
				i++
			case '"':
				inString = false
			}

			continue
		}

		switch ch {
		case '"':
			inString = true

		case '(', '[', '{':
			stack = append(stack, opener{pos: i, ch: ch})

		case ')', ']', '}':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}

		case ',':
			if len(stack) > 0 {
				stack[len(stack)-1].args++
			}
		}
	}

	if len(stack) == 0 {
		return functionCall{}
	}

	top := stack[len(stack)-1]
	if top.ch != '(' {
		return functionCall{}
	}

	// The callee is the identifier ending right before the paren.
	end := top.pos
	for end > 0 && input[end-1] == ' ' {
		end--
	}

	start := end

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isIdentRune(r) {
			break
		}

		start -= size
	}

	name := input[start:end]
	if name == "" || name == "fn" || name == "if" {
		return functionCall{}
	}

	return functionCall{name: name, argIndex: top.args, inCall: true}
}

// signature returns the parameter names of the function bound to name, or of
// the builtin with that name. ok is false if name is not callable.
func signature(in *lang.Interpreter, name string) (params []string, ok bool) {
	if obj, err := in.Get(name); err == nil {
		fn, isFn := obj.(*object.Function)
		if !isFn {
			return nil, false
		}

		params = make([]string, len(fn.Parameters))
		for i, p := range fn.Parameters {
			params[i] = p.Value
		}

		return params, true
	}

	params, ok = builtinParams[name]

	return params, ok
}

// renderSignatureHint renders name(params...) with the parameter at argIndex
// highlighted. A variadic parameter stays highlighted for every later
// argument.
func renderSignatureHint(name string, params []string, argIndex int) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		variadic := strings.HasPrefix(param, "...")

		if argIndex == i || (variadic && argIndex > i) {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
