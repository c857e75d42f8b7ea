// Package text defines annotated text: words carrying morphological
// annotations, the fixed-width attribute encoding consumed by the matcher,
// and agreement computation between annotations.
package text

import (
	"regexp"

	"github.com/lspl-tools/lspl/configuration"
	"github.com/lspl-tools/lspl/util/ordered"
)

// MainAttribute is the index of the main sign inside an attribute string.
const MainAttribute = configuration.MainAttribute

// Sentinels of the attribute encoding. Each annotation is serialized to a
// fixed-width string, one code unit per sign; enum and main value ids occupy
// 0..126, string-sign ids are shifted by StringValueOffset.
const (
	// NullAttributeValue encodes an absent value.
	NullAttributeValue rune = 127

	// AnyAttributeValue matches any present value.
	AnyAttributeValue rune = 128

	// BeginAttributeValue marks the agreement-window start when projected.
	BeginAttributeValue rune = 129

	// StringValueOffset shifts interned string ids above the sentinels.
	StringValueOffset rune = 130
)

// AttributeRune encodes a value id of the given sign type as one code unit.
func AttributeRune(signType configuration.WordSignType, value int) rune {
	if signType == configuration.StringSign {
		return StringValueOffset + rune(value)
	}
	return rune(value)
}

// AgreementPower grades how well two annotations agree.
type AgreementPower int

const (
	NoAgreement AgreementPower = iota
	WeakAgreement
	StrongAgreement
)

// Annotation is one morphological reading of a word, serialized to the
// attribute encoding. Annotations are immutable.
type Annotation struct {
	attributes string
}

func NewAnnotation(attributes string) Annotation {
	return Annotation{attributes}
}

// Attributes returns the serialized attribute string.
func (a Annotation) Attributes() string {
	return a.attributes
}

// Match reports whether the attribute string matches the restriction regexp.
func (a Annotation) Match(attributesRegexp *regexp.Regexp) bool {
	return attributesRegexp.MatchString(a.attributes)
}

func agreementPower(v1, v2 rune) AgreementPower {
	switch {
	case v1 == NullAttributeValue || v2 == NullAttributeValue:
		return WeakAgreement
	case v1 == v2:
		return StrongAgreement
	default:
		return NoAgreement
	}
}

// Agreement grades the agreement with another annotation.
// attribute selects a single sign; MainAttribute means every sign of the
// agreement window [begin, end). The power of a window is its minimum.
func (a Annotation) Agreement(other Annotation, attribute, begin, end int) AgreementPower {
	attrs1 := []rune(a.attributes)
	attrs2 := []rune(other.attributes)
	if attribute != MainAttribute {
		return agreementPower(attrs1[attribute], attrs2[attribute])
	}

	result := StrongAgreement
	for i := begin; i < end && i < len(attrs1) && i < len(attrs2); i++ {
		power := agreementPower(attrs1[i], attrs2[i])
		if power < result {
			result = power
		}
		if result == NoAgreement {
			break
		}
	}
	return result
}

// AnnotationIndices is a set of annotation ordinals within one word.
type AnnotationIndices = ordered.List[int]

// Word is one token of the text with all its annotations.
type Word struct {
	Text        string
	Annotations []Annotation
}

// AnnotationIndices returns the full index set of the word's annotations.
func (w *Word) AnnotationIndices() AnnotationIndices {
	var result AnnotationIndices
	for i := range w.Annotations {
		result.Add(i)
	}
	return result
}

// MatchWord reports whether the word text matches the regexp.
func (w *Word) MatchWord(wordRegexp *regexp.Regexp) bool {
	return wordRegexp.MatchString(w.Text)
}

// MatchAttributes returns the indices of annotations matching the regexp.
func (w *Word) MatchAttributes(attributesRegexp *regexp.Regexp) AnnotationIndices {
	var result AnnotationIndices
	for i, annotation := range w.Annotations {
		if annotation.Match(attributesRegexp) {
			result.Add(i)
		}
	}
	return result
}

// Text is an immutable annotated text with its agreement cache.
type Text struct {
	words      []Word
	agreements *Agreements
}

func New(words []Word, conf *configuration.Configuration) *Text {
	t := &Text{words: words}
	signs := conf.WordSigns()
	t.agreements = newAgreements(words, signs.ConsistentBegin(), signs.ConsistentEnd())
	return t
}

// Word returns the word at index; index must be within [0, Len).
func (t *Text) Word(index int) *Word {
	return &t.words[index]
}

func (t *Text) Len() int {
	return len(t.words)
}

func (t *Text) Agreements() *Agreements {
	return t.agreements
}
