package repl

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/monkey/lang"
	"github.com/ardnew/monkey/lang/object"
	"github.com/ardnew/monkey/lang/token"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "reset", "edit", "clear", "quit"}

// maxPreview is the widest inspected value shown by the list command.
const maxPreview = 48

// wordBounds returns the identifier under the cursor and its byte
// boundaries within input. The word is empty when the cursor does not touch
// an identifier.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isIdentRune(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if !isIdentRune(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// completions returns every name worth completing in eval mode: bindings,
// builtins and keywords, sorted and without duplicates.
func completions(in *lang.Interpreter) []string {
	names := slices.Concat(
		in.Bindings(),
		in.Builtins(),
		specialForms(),
		token.Keywords(),
	)

	slices.Sort(names)

	return slices.Compact(names)
}

// inString reports whether offset lies inside a string literal of input.
func inString(input string, offset int) bool {
	open := false

	for i := 0; i < offset && i < len(input); i++ {
		switch {
		case open && input[i] == '\\':
			i++
		case input[i] == '"':
			open = !open
		}
	}

	return open
}

// computeMatches ranks the candidates against the word at the cursor.
// Nothing is offered for an empty word, for a word inside a string literal,
// or for a word that starts with a digit.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())
	if word == "" || inString(input, wordStart) || (word[0] >= '0' && word[0] <= '9') {
		return nil, nil, wordStart, wordEnd
	}

	if m.mode == modeCtrl {
		candidates = ctrlCommands
	} else {
		candidates = completions(m.interp)
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within width. The selected candidate, when tabbing, uses the selected
// style.
func (m model) renderCandidateBar() string {
	if len(m.matches) == 0 || m.width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")

	var (
		b    strings.Builder
		used int
	)

	for i, match := range m.matches {
		rendered := m.renderCandidate(match, m.tabActive && i == m.suggIdx)

		entry := lipgloss.Width(rendered)
		if i > 0 {
			entry += len(sep)
		}

		if i > 0 && used+entry+lipgloss.Width(ellipsis) > m.width {
			b.WriteString(sep + ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entry
	}

	return b.String()
}

// renderCandidate renders a candidate with its matched characters
// highlighted. Callable names get a "()" suffix that is not inserted on
// completion.
func (m model) renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	if m.mode == modeEval && m.isCallable(match.Str) {
		b.WriteString(base.Render("()"))
	}

	return b.String()
}

// isCallable reports whether name is bound to a function or names a builtin.
func (m model) isCallable(name string) bool {
	if obj, err := m.interp.Get(name); err == nil {
		switch obj.(type) {
		case *object.Function, *object.Builtin:
			return true
		default:
			return false
		}
	}

	_, ok := builtinParams[name]

	return ok
}

// preview returns the inspected form of obj cut to maxPreview runes.
func preview(obj object.Object) string {
	s := strings.ReplaceAll(obj.Inspect(), "\n", " ")
	if utf8.RuneCountInString(s) <= maxPreview {
		return s
	}

	r := []rune(s)

	return string(r[:maxPreview-3]) + "..."
}
