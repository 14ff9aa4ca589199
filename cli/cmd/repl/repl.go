package repl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/monkey/lang"
	"github.com/ardnew/monkey/lang/ast"
	"github.com/ardnew/monkey/lang/object"
	"github.com/ardnew/monkey/log"
)

// Sentinel errors.
var (
	ErrOutOfBounds  = errors.New("index out of range")
	ErrEditDeclined = errors.New("decline edit")
)

// editedMsg is sent when the editor returns a program that parses.
type editedMsg struct{ source string }

// editCancelledMsg is sent when the user emptied the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to re-edit after a parse
// error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process fails for any other reason.
type editErrorMsg struct{ err error }

const (
	evalPrompt = ">> "
	ctrlPrompt = " : "
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help     Print this message
  list     List top-level bindings
  reset    Discard all bindings
  edit     Edit the session in $EDITOR and evaluate it afresh
  clear    Clear screen
  quit     Exit REPL

Usage:
  Type a statement to evaluate it; bindings persist between lines
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	outputStyle     = lipgloss.NewStyle()
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = suggestionStyle.Bold(true)
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

// Config configures a REPL session.
type Config struct {
	// Prelude, if not nil, is evaluated before the first prompt and again
	// after every reset.
	Prelude io.Reader

	// Options configure the session's interpreter. Output of puts is
	// always captured and printed above the prompt.
	Options []lang.Option

	// CacheDir holds the history file.
	CacheDir string

	// ParseOnly echoes the canonical form of each input instead of
	// evaluating it.
	ParseOnly bool

	Logger log.Logger
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc    func() context.Context
	input      textinput.Model
	interp     *lang.Interpreter
	out        *bytes.Buffer // captured puts output of the last evaluation
	prelude    string
	source     []string // inputs evaluated without error since the last reset
	parseOnly  bool
	logger     log.Logger
	history    *History
	historyIdx int

	matches      fuzzy.Matches // current fuzzy match results
	candidates   []string      // backing candidate list
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began

	width      int
	quitting   bool
	mode       inputMode
	evalText   string
	evalCursor int
	ctrlText   string
	ctrlCursor int
}

// Run starts an interactive session.
func Run(ctx context.Context, cfg Config) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	cfg.Logger.TraceContext(ctx, "repl start",
		slog.String("cache_dir", cfg.CacheDir),
		slog.Bool("has_prelude", cfg.Prelude != nil),
		slog.Bool("parse_only", cfg.ParseOnly),
	)

	var prelude string

	if cfg.Prelude != nil {
		data, err := io.ReadAll(cfg.Prelude)
		if err != nil {
			return lang.ErrReadInput.Wrap(err)
		}

		prelude = string(data)
	}

	out := new(bytes.Buffer)
	opts := append(slices.Clone(cfg.Options),
		lang.WithOutput(out),
		lang.WithLogger(cfg.Logger),
	)

	m := newModel(ctx, lang.New(opts...), out, cfg)
	m.prelude = prelude

	if err := m.loadPrelude(); err != nil {
		return err
	}

	os.Stdout.Write(out.Bytes())

	if err := m.history.Load(); err != nil {
		cfg.Logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	cfg.Logger.TraceContext(ctx, "repl history loaded",
		slog.Int("entry_count", m.history.Len()),
	)

	m.historyIdx = m.history.Len()

	_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	interp *lang.Interpreter,
	out *bytes.Buffer,
	cfg Config,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctxFunc:   func() context.Context { return ctx },
		input:     ti,
		interp:    interp,
		out:       out,
		parseOnly: cfg.ParseOnly,
		logger:    cfg.Logger,
		history:   NewHistory(filepath.Join(cfg.CacheDir, baseHistory)),
		width:     defaultWidth,
		mode:      modeEval,
		suggIdx:   -1,
	}
}

// loadPrelude evaluates the prelude, if any, in the session's interpreter.
func (m model) loadPrelude() error {
	if strings.TrimSpace(m.prelude) == "" {
		return nil
	}

	_, err := m.interp.Run(m.ctxFunc(), m.prelude)

	return err
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - lipgloss.Width(evalPrompt) - 2

		return m, nil

	case editedMsg:
		return m.replaceSession(msg.source)

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	input := m.input.Value()
	call := detectFunctionCall(input, m.input.Position())

	switch {
	case m.historyIdx < m.history.Len():
		pos := lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx + 1))
		b.WriteString(hintStyle.Render(fmt.Sprintf("%s/%d", pos, m.history.Len())))

	case strings.TrimSpace(input) == "":
		hint := "Type a statement or press Esc for commands"
		if m.mode == modeCtrl {
			hint = "Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)"
		}

		b.WriteString(hintStyle.Render(hint))

	case len(m.matches) > 0:
		b.WriteString(m.renderCandidateBar())

	case call.inCall && m.mode == modeEval:
		if params, ok := signature(m.interp, call.name); ok {
			b.WriteString(renderSignatureHint(call.name, params, call.argIndex))
		}
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}

		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycleCandidates(1), nil

	case tea.KeyShiftTab:
		return m.cycleCandidates(-1), nil

	case tea.KeyUp:
		return m.historyStep(-1, false), nil

	case tea.KeyDown:
		return m.historyStep(1, false), nil

	case tea.KeyShiftUp:
		return m.historyStep(-1, true), nil

	case tea.KeyShiftDown:
		return m.historyStep(1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		if m.mode == modeEval {
			return m.switchToMode(modeCtrl), nil
		}

		return m.switchToMode(modeEval), nil

	case tea.KeyRunes, tea.KeySpace:
		if m.tabActive && msg.Type == tea.KeySpace {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// Any other key (backspace, delete, arrows, ...) edits or moves without
	// auto-confirming a completion.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycleCandidates moves the tab selection by delta, wrapping at either end.
// A single candidate is completed and confirmed immediately.
func (m model) cycleCandidates(delta int) model {
	n := len(m.matches)

	switch {
	case n == 0:
		return m

	case n == 1:
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m

	case m.tabActive:
		m.suggIdx = (m.suggIdx + delta + n) % n

	default:
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if delta < 0 {
			m.suggIdx = n - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word with replacement and moves
// the cursor after it.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(cursor)

	m.wordEnd = cursor
}

// refreshMatches recomputes the fuzzy matches for the current input.
// With autoConfirm, a sole candidate equal to the typed word is accepted so
// the bar disappears once a name is complete. Deletions and cursor motion
// pass false so editing never completes unexpectedly.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.evalText, m.evalCursor = "", 0
	m.ctrlText, m.ctrlCursor = "", 0
	m.input.SetValue("")
	m.matches = nil

	if err := m.history.Add(input, m.mode); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not save history", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.executeCommand(input)
	}

	return m.evaluate(input)
}

// evaluate parses and evaluates input in the session's environment and
// prints any puts output followed by the result. A let statement prints
// nothing.
func (m model) evaluate(input string) (model, tea.Cmd) {
	ctx := m.ctxFunc()
	cmds := []tea.Cmd{tea.Println(promptStyle.Render(evalPrompt) + inputStyle.Render(input))}

	m.logger.TraceContext(ctx, "repl eval", slog.String("input", input))

	prog, err := lang.ParseString(ctx, input, lang.WithLogger(m.logger))
	if err != nil {
		return m, tea.Sequence(append(cmds, tea.Println(errorStyle.Render(err.Error())))...)
	}

	if m.parseOnly {
		return m, tea.Sequence(append(cmds, tea.Println(resultStyle.Render(prog.String())))...)
	}

	m.out.Reset()

	result, err := m.interp.Eval(ctx, prog)

	if out := strings.TrimSuffix(m.out.String(), "\n"); out != "" {
		cmds = append(cmds, tea.Println(outputStyle.Render(out)))
	}

	switch {
	case err != nil && result != nil:
		cmds = append(cmds, tea.Println(errorStyle.Render(result.Inspect())))

	case err != nil:
		cmds = append(cmds, tea.Println(errorStyle.Render(err.Error())))

	default:
		m.source = append(m.source, input)

		if line, ok := resultLine(prog, result); ok {
			cmds = append(cmds, tea.Println(resultStyle.Render(line)))
		}
	}

	return m, tea.Sequence(cmds...)
}

// resultLine returns the text printed for the result of prog. Nothing is
// printed for a program ending in a let statement.
func resultLine(prog *lang.Program, result object.Object) (string, bool) {
	if result == nil || len(prog.Statements) == 0 {
		return "", false
	}

	if _, ok := prog.Statements[len(prog.Statements)-1].(*ast.LetStatement); ok {
		return "", false
	}

	return result.Inspect(), true
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input))

	m.logger.TraceContext(m.ctxFunc(), "repl command",
		slog.String("command", parts[0]),
		slog.Any("args", parts[1:]),
	)

	switch parts[0] {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage()))

	case "l", "list":
		return m, tea.Sequence(echo, tea.Println(m.listBindings()))

	case "r", "reset":
		m.interp.Reset()
		m.source = nil

		if err := m.loadPrelude(); err != nil {
			return m, tea.Sequence(echo, tea.Println(errorStyle.Render(err.Error())))
		}

		return m, tea.Sequence(echo, tea.Println(hintStyle.Render("environment reset")))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echo, m.edit())

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + parts[0] + " (try 'help')"),
		)
	}
}

// edit opens the session source in the user's editor.
func (m model) edit() tea.Cmd {
	cmd := &editCommand{
		source:  strings.Join(m.source, "\n") + "\n",
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}

		case err != nil:
			return editErrorMsg{err: err}

		case cmd.edited == nil:
			return editCancelledMsg{}

		default:
			return editedMsg{source: *cmd.edited}
		}
	})
}

// replaceSession discards every binding and evaluates source as the new
// session.
func (m model) replaceSession(source string) (model, tea.Cmd) {
	m.interp.Reset()
	m.source = nil

	if err := m.loadPrelude(); err != nil {
		return m, tea.Println(errorStyle.Render(err.Error()))
	}

	m.logger.TraceContext(m.ctxFunc(), "repl edit complete",
		slog.Int("source_length", len(source)),
	)

	return m.evaluate(strings.TrimSpace(source))
}

func (m model) listBindings() string {
	var b strings.Builder

	for _, name := range m.interp.Bindings() {
		obj, err := m.interp.Get(name)
		if err != nil {
			continue
		}

		fmt.Fprintf(&b, "  %s %s\n", name, hintStyle.Render(preview(obj)))
	}

	if b.Len() == 0 {
		return hintStyle.Render("  (no bindings)")
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// historyStep moves through history by delta entries. With sameMode only
// entries of the current mode are visited; otherwise the mode follows the
// entry. Stepping past the newest entry clears the input.
func (m model) historyStep(delta int, sameMode bool) model {
	for i := m.historyIdx + delta; i >= 0 && i < m.history.Len(); i += delta {
		entry, err := m.history.Entry(i)
		if err != nil {
			break
		}

		if sameMode && entry.Mode != m.mode {
			continue
		}

		if entry.Mode != m.mode {
			m = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(len(entry.Line))
		refreshMatches(&m, false)

		return m
	}

	if delta > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m
}

// switchToMode switches to mode, keeping each mode's pending input.
func (m model) switchToMode(mode inputMode) model {
	if m.mode == modeEval {
		m.evalText, m.evalCursor = m.input.Value(), m.input.Position()
	} else {
		m.ctrlText, m.ctrlCursor = m.input.Value(), m.input.Position()
	}

	m.mode = mode

	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m
}
