// Package diag renders the mid-end's fatal errors and non-fatal
// warnings (spec.md §4.6's convergence warning, SCCP/fold evaluation
// errors, CFG construction errors) the way the frontend compiler this
// tool is descended from renders its own diagnostics: a caret pointing
// at a source position, colored by severity, with optional notes and
// help text.
package diag

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// Level mirrors the frontend's ErrorLevel (error/warning/note/help),
// trimmed to the two severities this tool actually emits.
type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
)

// Position locates a diagnostic in the textual IR source spec.md §6
// describes: 1-based line and column, as the participle stateful lexer
// in internal/irparser reports them.
type Position struct {
	Line   int
	Column int
}

// Diagnostic is one reported error or warning. Length lets the reporter
// underline a span wider than a single caret when the offending token
// is longer than one character.
type Diagnostic struct {
	Level    Level
	Code     string
	Message  string
	Position Position
	Length   int
	Notes    []string
	Help     string
}

func Errorf(code string, pos Position, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Level: LevelError, Code: code, Message: fmt.Sprintf(format, args...), Position: pos, Length: 1}
}

func Warnf(code string, pos Position, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Level: LevelWarning, Code: code, Message: fmt.Sprintf(format, args...), Position: pos, Length: 1}
}

// Reporter formats diagnostics against a held copy of the source text,
// the same shape as the frontend's ErrorReporter.
type Reporter struct {
	filename string
	lines    []string
}

func NewReporter(filename, source string) *Reporter {
	return &Reporter{filename: filename, lines: strings.Split(source, "\n")}
}

// Format renders one diagnostic, Rust-style: a header line naming the
// code and message, a location line, the offending source line, and a
// caret marker underneath it.
func (r *Reporter) Format(d Diagnostic) string {
	levelColor := r.levelColor(d.Level)
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	var b strings.Builder
	fmt.Fprintf(&b, "%s%s: %s\n", levelColor(string(d.Level)), bold(fmt.Sprintf("[%s]", d.Code)), bold(d.Message))
	fmt.Fprintf(&b, "%s %s:%d:%d\n", dim("-->"), r.filename, d.Position.Line, d.Position.Column)

	width := r.lineNumberWidth()
	if line, ok := r.line(d.Position.Line); ok {
		fmt.Fprintf(&b, "%s %s\n", dim(strings.Repeat(" ", width)+" |"), "")
		fmt.Fprintf(&b, "%s %s\n", dim(pad(strconv.Itoa(d.Position.Line), width)+" |"), line)
		fmt.Fprintf(&b, "%s %s\n", dim(strings.Repeat(" ", width)+" |"), levelColor(r.marker(d.Position.Column, d.Length)))
	}

	for _, n := range d.Notes {
		fmt.Fprintf(&b, "%s %s\n", dim("note:"), n)
	}
	if d.Help != "" {
		fmt.Fprintf(&b, "%s %s\n", color.New(color.FgCyan).SprintFunc()("help:"), d.Help)
	}
	return b.String()
}

func (r *Reporter) levelColor(level Level) func(a ...interface{}) string {
	switch level {
	case LevelError:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	case LevelWarning:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	default:
		return fmt.Sprint
	}
}

func (r *Reporter) line(n int) (string, bool) {
	if n < 1 || n > len(r.lines) {
		return "", false
	}
	return r.lines[n-1], true
}

func (r *Reporter) marker(column, length int) string {
	if length < 1 {
		length = 1
	}
	return strings.Repeat(" ", column-1) + strings.Repeat("^", length)
}

func (r *Reporter) lineNumberWidth() int {
	return len(strconv.Itoa(len(r.lines)))
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}
