// Package irparser reads the textual three-address IR spec.md §6
// defines and builds the internal/mir instruction lists
// internal/driver's pipeline operates on.
package irparser

import (
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"

	"midend/internal/diag"
)

// ParseError wraps a fatal parse-time diagnostic (spec.md §7's "IR
// parse error": unrecognised token, unknown label reference, malformed
// instruction) with its already-rendered, caret-annotated text.
type ParseError struct {
	Diagnostic diag.Diagnostic
	rendered   string
}

func (e *ParseError) Error() string {
	if e.rendered != "" {
		return e.rendered
	}
	return e.Diagnostic.Message
}

var grammarParser = participle.MustBuild[program](
	participle.Lexer(MIRLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(3),
)

// ParseFile reads and parses a source file from disk.
func ParseFile(path string) (*Program, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("irparser: %w", err)
	}
	return ParseString(path, string(source))
}

// ParseString parses already-loaded source text. filename is used only
// for diagnostic rendering.
func ParseString(filename, source string) (*Program, error) {
	ast, err := grammarParser.ParseString(filename, source)
	if err != nil {
		return nil, parseFailure(filename, source, err)
	}
	return build(ast)
}

func parseFailure(filename, source string, err error) error {
	pe, ok := err.(participle.Error)
	if !ok {
		return fmt.Errorf("irparser: %w", err)
	}
	pos := pe.Position()
	d := diag.Errorf(diag.ErrIRParse, diag.Position{Line: pos.Line, Column: pos.Column}, "%s", pe.Message())
	rendered := diag.NewReporter(filename, source).Format(d)
	return &ParseError{Diagnostic: d, rendered: rendered}
}
