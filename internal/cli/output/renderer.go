// Package output renders command results for terminals, pipes, and scripts.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Mode selects the output rendering style.
type Mode string

const (
	// ModeAuto picks text on a TTY and markdown when piped.
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// Renderer writes command output in the configured mode.
type Renderer struct {
	out  io.Writer
	err  io.Writer
	mode Mode
	tty  bool
}

// NewRenderer creates a renderer. An empty or unknown mode behaves as auto.
func NewRenderer(out, errw io.Writer, mode Mode) *Renderer {
	switch mode {
	case ModeText, ModeMarkdown, ModeJSON:
	default:
		mode = ModeAuto
	}
	return &Renderer{out: out, err: errw, mode: mode, tty: isTerminal(out)}
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Writer exposes the underlying output writer (for encoders).
func (r *Renderer) Writer() io.Writer {
	return r.out
}

// EffectiveMode resolves ModeAuto against the terminal state.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.tty {
		return ModeText
	}
	return ModeMarkdown
}

// Println writes a line to the output writer.
func (r *Renderer) Println(args ...any) {
	_, _ = fmt.Fprintln(r.out, args...)
}

// Printf writes formatted output to the output writer.
func (r *Renderer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

// Success writes a success line, styled on a terminal.
func (r *Renderer) Success(msg string) {
	if r.tty && r.EffectiveMode() == ModeText {
		r.Println(successStyle.Render("✓ " + msg))
		return
	}
	r.Println(msg)
}

// Warning writes a warning line to stderr, styled on a terminal.
func (r *Renderer) Warning(msg string) {
	if r.tty && r.EffectiveMode() == ModeText {
		_, _ = fmt.Fprintln(r.err, warningStyle.Render("! "+msg))
		return
	}
	_, _ = fmt.Fprintln(r.err, msg)
}

// Error writes an error line to stderr, styled on a terminal.
func (r *Renderer) Error(msg string) {
	if r.tty && r.EffectiveMode() == ModeText {
		_, _ = fmt.Fprintln(r.err, errorStyle.Render("✗ "+msg))
		return
	}
	_, _ = fmt.Fprintln(r.err, msg)
}

// FormatHeader renders a markdown heading of the given level.
func FormatHeader(level int, text string) string {
	if level < 1 {
		level = 1
	}
	return strings.Repeat("#", level) + " " + text
}

// FormatCodeBlock wraps content in a fenced code block.
func FormatCodeBlock(lang, content string) string {
	return "```" + lang + "\n" + strings.TrimRight(content, "\n") + "\n```"
}
