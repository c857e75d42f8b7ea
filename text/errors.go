package text

import (
	"github.com/lspl-tools/lspl"
)

const (
	ParseError = lspl.TextErrors + iota
	BadTextError
	BadWordError
	BadAnnotationError
	NoMainAttributeError
	UnknownValueError
	FileError
)

func parseError(e error) *lspl.Err {
	return lspl.FormatError(ParseError, lspl.CriticalError, "cannot parse text: %s", e.Error())
}

func badTextError() *lspl.Err {
	return lspl.FormatError(BadTextError, lspl.CriticalError, "bad \"text\" element")
}

func badWordError(index int) *lspl.Err {
	return lspl.FormatError(BadWordError, lspl.CriticalError, "bad \"word\" #%d element", index)
}

func badAnnotationError(wordIndex, annotationIndex int) *lspl.Err {
	return lspl.FormatError(BadAnnotationError, lspl.CriticalError,
		"bad \"word\" #%d \"annotation\" #%d element", wordIndex, annotationIndex)
}

func noMainAttributeError(wordIndex, annotationIndex int) *lspl.Err {
	return lspl.FormatError(NoMainAttributeError, lspl.CriticalError,
		"\"word\" #%d \"annotation\" #%d has no main attribute", wordIndex, annotationIndex)
}

func unknownValueError(wordIndex int, name, value string) *lspl.Err {
	return lspl.FormatError(UnknownValueError, lspl.CriticalError,
		"\"word\" #%d has unknown value %q of attribute %q", wordIndex, value, name)
}

func fileError(e error) *lspl.Err {
	return lspl.FormatError(FileError, lspl.CriticalError, "cannot read text: %s", e.Error())
}
