package parser

import (
	"fmt"
	"io"
	"sort"

	"github.com/lspl-tools/lspl"
)

// Error codes used by the tokenizer:
const (
	WrongCharError = lspl.LexicalErrors + iota
	EncodingError
	FileError
)

// Error codes used by the parser:
const (
	UnexpectedTokenError = lspl.SyntaxErrors + iota
	UnexpectedEndError
)

// Error codes used by the semantic builder:
const (
	UnknownNameError = lspl.SemanticErrors + iota
	UnknownSignError
	UnknownValueError
	AmbiguousValueError
	ValueTypeError
	DuplicateRestrictionError
	DuplicatePatternError
	InconsistentConditionError
	ReferenceArgumentError
	NoArgumentsError
	WrongRegexpError
)

// Error codes for repetition and transposition bounds (inverted, zero, or
// beyond the 8-bit word-offset budget):
const (
	RepetitionRangeError = lspl.RangeErrors + iota
	TranspositionSizeError
)

func wrongCharError(sourceName string, line, col int, char rune) *lspl.Err {
	msg := fmt.Sprintf("wrong char %q (u+%x)", char, char)
	return lspl.NewError(WrongCharError, lspl.Error, msg, sourceName, line, col)
}

func encodingError(sourceName string, line int) *lspl.Err {
	return lspl.NewError(EncodingError, lspl.CriticalError, "source is not valid UTF-8", sourceName, line, 1)
}

func fileError(e error) *lspl.Err {
	return lspl.FormatError(FileError, lspl.CriticalError, "cannot read patterns: %s", e.Error())
}

func unknownSignError(token *Token) *lspl.Err {
	return lspl.FormatErrorPos(token, UnknownSignError, lspl.Error,
		"unknown word class attribute name %q", token.Text)
}

func unknownNameError(token *Token) *lspl.Err {
	return lspl.FormatErrorPos(token, UnknownNameError, lspl.Error,
		"unknown word class or pattern name %q", token.Text)
}

func unknownValueError(token *Token) *lspl.Err {
	return lspl.FormatErrorPos(token, UnknownValueError, lspl.Error,
		"unknown word class attribute value %q", token.Text)
}

func ambiguousValueError(token *Token) *lspl.Err {
	return lspl.FormatErrorPos(token, AmbiguousValueError, lspl.Error,
		"cannot detect the attribute restricted by value %q", token.Text)
}

func valueTypeError(token *Token) *lspl.Err {
	return lspl.FormatErrorPos(token, ValueTypeError, lspl.Error,
		"quoted values are only allowed for string attributes")
}

func duplicateRestrictionError(token *Token) *lspl.Err {
	return lspl.FormatErrorPos(token, DuplicateRestrictionError, lspl.Error,
		"attribute restricted twice in one element")
}

func duplicatePatternError(token *Token) *lspl.Err {
	return lspl.FormatErrorPos(token, DuplicatePatternError, lspl.Error,
		"pattern %q already defined", token.Text)
}

func inconsistentConditionError(token *Token) *lspl.Err {
	return lspl.FormatErrorPos(token, InconsistentConditionError, lspl.Error,
		"inconsistent agreement condition arguments")
}

func referenceArgumentError(token *Token) *lspl.Err {
	return lspl.FormatErrorPos(token, ReferenceArgumentError, lspl.Error,
		"element or attribute of referenced pattern expected")
}

func noArgumentsError(token *Token) *lspl.Err {
	return lspl.FormatErrorPos(token, NoArgumentsError, lspl.Error,
		"pattern %q has no arguments to restrict", token.Text)
}

func wrongRegexpError(token *Token, e error) *lspl.Err {
	return lspl.FormatErrorPos(token, WrongRegexpError, lspl.Error,
		"incorrect regular expression %s (%s)", token.Text, e.Error())
}

func repetitionRangeError(token *Token) *lspl.Err {
	return lspl.FormatErrorPos(token, RepetitionRangeError, lspl.Error,
		"incorrect repetition bounds")
}

func transpositionSizeError(token *Token) *lspl.Err {
	return lspl.FormatErrorPos(token, TranspositionSizeError, lspl.Error,
		"more than %d transposed elements", maxTranspositionElements)
}

// ErrorProcessor collects the diagnostics of one pattern file.
// AddError is pure record; HasAnyErrors and HasCriticalErrors gate the
// subsequent compilation stages.
type ErrorProcessor struct {
	errors            []*lspl.Err
	hasErrors         bool
	hasCriticalErrors bool
}

func NewErrorProcessor() *ErrorProcessor {
	return &ErrorProcessor{}
}

func (p *ErrorProcessor) Reset() {
	p.errors = nil
	p.hasErrors = false
	p.hasCriticalErrors = false
}

func (p *ErrorProcessor) AddError(e *lspl.Err) {
	p.errors = append(p.errors, e)
	p.hasErrors = true
	if e.Severity == lspl.CriticalError {
		p.hasCriticalErrors = true
	}
}

func (p *ErrorProcessor) HasAnyErrors() bool {
	return p.hasErrors
}

func (p *ErrorProcessor) HasCriticalErrors() bool {
	return p.hasCriticalErrors
}

func (p *ErrorProcessor) Errors() []*lspl.Err {
	return p.errors
}

// PrintErrors writes every collected diagnostic ordered by source line.
func (p *ErrorProcessor) PrintErrors(out io.Writer, filename string) {
	errors := make([]*lspl.Err, len(p.errors))
	copy(errors, p.errors)
	sort.SliceStable(errors, func(i, j int) bool {
		if errors[i].Line != errors[j].Line {
			return errors[i].Line < errors[j].Line
		}
		return errors[i].Col < errors[j].Col
	})

	for _, e := range errors {
		severity := "error"
		if e.Severity == lspl.CriticalError {
			severity = "critical error"
		}
		if filename != "" && e.SourceName == "" {
			fmt.Fprintf(out, "%s: %s: %s\n", filename, severity, e.Message)
		} else {
			fmt.Fprintf(out, "%s: %s\n", severity, e.Message)
		}
	}
}
