package configuration

import (
	"github.com/lspl-tools/lspl"
)

const (
	ParseError = lspl.ConfigurationErrors + iota
	SchemeError
	MainSignCountError
	NoNamesError
	NoValuesError
	TooManyValuesError
	StringValuesError
	SignTypeError
	DuplicateNameError
	FileError
)

func parseError(e error) *lspl.Err {
	return lspl.FormatError(ParseError, lspl.CriticalError, "cannot parse configuration: %s", e.Error())
}

func schemeError(e error) *lspl.Err {
	return lspl.FormatError(SchemeError, lspl.CriticalError, "configuration does not conform to scheme: %s", e.Error())
}

func mainSignCountError(count int) *lspl.Err {
	return lspl.FormatError(MainSignCountError, lspl.CriticalError, "expected exactly one main word sign, got %d", count)
}

func noNamesError(index int) *lspl.Err {
	return lspl.FormatError(NoNamesError, lspl.CriticalError, "word sign #%d has no names", index)
}

func noValuesError(name string) *lspl.Err {
	return lspl.FormatError(NoValuesError, lspl.CriticalError, "word sign %q has no values", name)
}

func tooManyValuesError(name string) *lspl.Err {
	return lspl.FormatError(TooManyValuesError, lspl.CriticalError, "word sign %q has more than %d values", name, MaxEnumValues)
}

func stringValuesError(name string) *lspl.Err {
	return lspl.FormatError(StringValuesError, lspl.CriticalError, "string word sign %q must not list values", name)
}

func signTypeError(name string) *lspl.Err {
	return lspl.FormatError(SignTypeError, lspl.CriticalError, "word sign %q has unknown type", name)
}

func duplicateNameError(name string) *lspl.Err {
	return lspl.FormatError(DuplicateNameError, lspl.CriticalError, "word sign name %q already used", name)
}

func fileError(e error) *lspl.Err {
	return lspl.FormatError(FileError, lspl.CriticalError, "cannot read configuration: %s", e.Error())
}
