/*
Package lspl is a compiler and matcher for LSPL, a linguistic pattern language.

Consists of subpackages:
  - cmd/lspl: console utility matching a pattern suite against an annotated text;
  - cmd/lsplgen: console utility converting a pattern suite to a Go source file containing the compiled state table;
  - configuration: attribute schema (word signs) and its JSON loader;
  - text: annotated text, attribute encoding, and agreement computation;
  - parser: tokenizer, pattern parser, and semantic builder producing a pattern table;
  - pattern: pattern AST, variant expansion, condition lowering, and automaton building;
  - match: state table and the matcher walking an annotated text.

Typical usage is:

1. Load an attribute schema with the configuration package.

2. Read pattern definitions with parser.Builder; it reports every diagnostic
through an ErrorProcessor and yields a pattern.Patterns table.

3. Expand each pattern into variants under a size budget and build the state
table (pattern.BuildContext).

4. Load a text with the text package and walk it with match.Context.
*/
package lspl

import (
	"fmt"
)

// Error classes used by subpackages, each class contains up to 99 error codes:
const (
	ConfigurationErrors = 1   // used by configuration
	LexicalErrors       = 101 // used by parser (tokenizer)
	SyntaxErrors        = 201 // used by parser
	SemanticErrors      = 301 // used by parser (builder)
	RangeErrors         = 401 // used by parser (builder)
	TextErrors          = 501 // used by text
)

// Severity distinguishes recoverable diagnostics from those that stop processing.
type Severity int

const (
	// Error is a recoverable diagnostic: processing continues to accumulate
	// further diagnostics, but no state table is emitted.
	Error Severity = iota

	// CriticalError stops processing immediately.
	CriticalError
)

// Err is the error type used by lspl subpackages.
type Err struct {
	// Code contains non-zero error code.
	Code int

	// Severity is either Error or CriticalError.
	Severity Severity

	// Message contains non-empty error message including source name and position information if provided.
	Message string

	// SourceName contains source name that caused this error or empty string.
	SourceName string

	// Line contains line number in source file or 0.
	Line int

	// Col contains column number in source file or 0.
	Col int
}

// SourcePos is used to retrieve source name and position information when constructing an error;
// parser.Token implements this interface.
type SourcePos interface {
	// SourceName returns source file name or empty string.
	SourceName() string
	// Line returns line number or 0.
	Line() int
	// Col returns column number or 0.
	Col() int
}

// NewError creates new Err structure.
// name, line, and col will be added to error message if provided (non-zero).
func NewError(code int, severity Severity, msg, name string, line, col int) *Err {
	if name != "" && line != 0 && col != 0 {
		msg += fmt.Sprintf(" in %s at line %d col %d", name, line, col)
	}
	return &Err{code, severity, msg, name, line, col}
}

// Error simply returns Err.Message.
func (e *Err) Error() string {
	return e.Message
}

// FormatError creates Err structure with no source and position information.
// params will be added to error message using fmt.Sprintf function.
func FormatError(code int, severity Severity, msg string, params ...any) *Err {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, severity, msg, "", 0, 0)
}

// FormatErrorPos creates Err structure with source and position information.
// pos must not be nil.
// params will be added to error message using fmt.Sprintf function.
func FormatErrorPos(pos SourcePos, code int, severity Severity, msg string, params ...any) *Err {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, severity, msg, pos.SourceName(), pos.Line(), pos.Col())
}
