// Package diag is the shared diagnostics sink used by the scanner,
// parser and resolver. It accumulates diagnostics instead of exiting
// the process. It renders them in two fixed formats: one for static
// (scan/parse/resolve) errors, and one (RuntimeLine) for the runtime
// errors the evaluator returns as Go errors.
package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/sam-decook/glox/internal/token"
)

// Phase names which pass emitted a diagnostic, for callers that only
// care whether any static error occurred at all.
type Phase int

const (
	Scan Phase = iota
	Parse
	Resolve
)

// Diagnostic is a single static (scan/parse/resolve) error.
type Diagnostic struct {
	Phase   Phase
	Line    int
	AtEnd   bool
	Lexeme  string
	Message string
}

// String renders a static diagnostic as:
// "[line N] Error<at '<lexeme>'| at end>: <message>".
func (d Diagnostic) String() string {
	where := fmt.Sprintf(" at '%s'", d.Lexeme)
	if d.AtEnd {
		where = " at end"
	}
	return fmt.Sprintf("[line %d] Error%s: %s", d.Line, where, d.Message)
}

// Sink collects diagnostics across phases. A zero Sink is ready to use.
type Sink struct {
	diagnostics []Diagnostic
}

// Report records a new diagnostic at the given token.
func (s *Sink) Report(phase Phase, tok token.Token, message string) {
	s.diagnostics = append(s.diagnostics, Diagnostic{
		Phase:   phase,
		Line:    tok.Line,
		AtEnd:   tok.Type == token.EOF,
		Lexeme:  tok.Lexeme,
		Message: message,
	})
}

// ReportLine records a diagnostic keyed only to a line, for scanner
// errors that have no token (e.g. an unterminated string).
func (s *Sink) ReportLine(phase Phase, line int, message string) {
	s.diagnostics = append(s.diagnostics, Diagnostic{Phase: phase, Line: line, Message: message})
}

// HasErrors reports whether any diagnostic has been recorded.
func (s *Sink) HasErrors() bool {
	return len(s.diagnostics) > 0
}

// Diagnostics returns the recorded diagnostics in report order.
func (s *Sink) Diagnostics() []Diagnostic {
	return s.diagnostics
}

// Print writes every diagnostic to w, one per line. When colorize is
// true the "Error" tag is rendered in red, the same convention the
// teacher's test harness uses for pass/fail (color.RedString/GreenString).
func (s *Sink) Print(w io.Writer, colorize bool) {
	for _, d := range s.diagnostics {
		line := d.String()
		if colorize {
			line = strings.Replace(line, "Error", color.New(color.FgRed, color.Bold).Sprint("Error"), 1)
		}
		fmt.Fprintln(w, line)
	}
}

// RuntimeLine renders a runtime error as "<message>\n[line N]".
func RuntimeLine(message string, line int) string {
	return fmt.Sprintf("%s\n[line %d]", message, line)
}
