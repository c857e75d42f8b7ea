// Package configuration defines the attribute schema: a frozen, ordered
// catalogue of word signs loaded from a JSON file.
package configuration

import (
	"strings"

	"github.com/lspl-tools/lspl/util/ordered"
)

// WordSignType classifies a word sign.
type WordSignType int

const (
	// MainSign is the single sign every annotation must carry a value for.
	MainSign WordSignType = iota + 1

	// EnumSign has a finite value set.
	EnumSign

	// StringSign has an open value set; values are interned by the pattern table.
	StringSign
)

// MaxEnumValues bounds the value domain of a main or enum sign so that value
// ids stay below the attribute-encoding sentinels.
const MaxEnumValues = 127

// WordSign describes one attribute of a word annotation.
type WordSign struct {
	Type WordSignType

	// Names holds the sign aliases; Names.Value(0) is the canonical name.
	Names ordered.Strings

	// Values holds the canonical value domain; empty for StringSign.
	Values ordered.Strings

	// Consistent marks a sign participating in agreement.
	Consistent bool
}

// WordSigns is the frozen ordered sign catalogue. Index 0 is the main sign,
// followed by consistent signs, followed by the rest.
type WordSigns struct {
	signs       []WordSign
	nameIndices map[string]int
}

// MainAttribute is the index of the main sign.
const MainAttribute = 0

func (ws *WordSigns) IsEmpty() bool {
	return len(ws.signs) == 0
}

func (ws *WordSigns) Size() int {
	return len(ws.signs)
}

// Main returns the main word sign.
func (ws *WordSigns) Main() *WordSign {
	return &ws.signs[MainAttribute]
}

// At returns the sign with the given index; index must be within [0, Size).
func (ws *WordSigns) At(index int) *WordSign {
	return &ws.signs[index]
}

// Find returns the index of the sign carrying the given alias.
func (ws *WordSigns) Find(name string) (int, bool) {
	i, has := ws.nameIndices[name]
	return i, has
}

// ConsistentBegin returns the index of the first consistent sign,
// or Size() if no sign participates in agreement.
func (ws *WordSigns) ConsistentBegin() int {
	for i, sign := range ws.signs {
		if sign.Consistent {
			return i
		}
	}
	return len(ws.signs)
}

// ConsistentEnd returns the index just past the last consistent sign; the
// agreement window is [ConsistentBegin, ConsistentEnd). The builder keeps
// consistent signs contiguous.
func (ws *WordSigns) ConsistentEnd() int {
	for i := len(ws.signs) - 1; i >= 0; i-- {
		if ws.signs[i].Consistent {
			return i + 1
		}
	}
	return ws.ConsistentBegin()
}

// Print renders the catalogue, one sign per line.
func (ws *WordSigns) Print() string {
	var b strings.Builder
	for i := range ws.signs {
		sign := &ws.signs[i]
		b.WriteString(sign.Names.Print("/", func(s string) string { return s }))
		switch sign.Type {
		case MainSign:
			b.WriteString(" (main)")
		case StringSign:
			b.WriteString(" (string)")
		}
		if sign.Consistent {
			b.WriteString(" (consistent)")
		}
		if sign.Type != StringSign {
			b.WriteString(": ")
			b.WriteString(sign.Values.Print("|", func(s string) string { return s }))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// WordSignsBuilder assembles a WordSigns catalogue, placing the main sign
// first and consistent signs before the others.
type WordSignsBuilder struct {
	mainSigns          []WordSign
	consistentSigns    []WordSign
	notConsistentSigns []WordSign
}

func NewWordSignsBuilder() *WordSignsBuilder {
	return &WordSignsBuilder{}
}

func (b *WordSignsBuilder) Add(wordSign WordSign) {
	switch {
	case wordSign.Type == MainSign:
		b.mainSigns = append(b.mainSigns, wordSign)
	case wordSign.Consistent:
		b.consistentSigns = append(b.consistentSigns, wordSign)
	default:
		b.notConsistentSigns = append(b.notConsistentSigns, wordSign)
	}
}

// Build validates the catalogue invariants and returns the frozen catalogue.
func (b *WordSignsBuilder) Build() (*WordSigns, error) {
	if len(b.mainSigns) != 1 {
		return nil, mainSignCountError(len(b.mainSigns))
	}

	signs := make([]WordSign, 0, len(b.mainSigns)+len(b.consistentSigns)+len(b.notConsistentSigns))
	signs = append(signs, b.mainSigns...)
	signs = append(signs, b.consistentSigns...)
	signs = append(signs, b.notConsistentSigns...)

	nameIndices := make(map[string]int)
	for i := range signs {
		sign := &signs[i]
		if sign.Names.IsEmpty() {
			return nil, noNamesError(i)
		}
		switch sign.Type {
		case MainSign, EnumSign:
			if sign.Values.IsEmpty() {
				return nil, noValuesError(sign.Names.Value(0))
			}
			if sign.Values.Size() > MaxEnumValues {
				return nil, tooManyValuesError(sign.Names.Value(0))
			}
		case StringSign:
			if !sign.Values.IsEmpty() {
				return nil, stringValuesError(sign.Names.Value(0))
			}
		default:
			return nil, signTypeError(sign.Names.Value(0))
		}
		for j := 0; j < sign.Names.Size(); j++ {
			name := sign.Names.Value(j)
			if _, has := nameIndices[name]; has {
				return nil, duplicateNameError(name)
			}
			nameIndices[name] = i
		}
	}

	return &WordSigns{signs, nameIndices}, nil
}

// Configuration is the attribute schema shared by every compilation stage.
type Configuration struct {
	wordSigns *WordSigns
}

func NewConfiguration(wordSigns *WordSigns) *Configuration {
	return &Configuration{wordSigns}
}

func (c *Configuration) WordSigns() *WordSigns {
	return c.wordSigns
}
