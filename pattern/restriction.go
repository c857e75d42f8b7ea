package pattern

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/lspl-tools/lspl/configuration"
	"github.com/lspl-tools/lspl/text"
	"github.com/lspl-tools/lspl/util/ordered"
)

// SignValues is an ordered set of attribute value ids.
type SignValues = ordered.List[int]

// SignRestriction limits one sign of one element to a value set:
// the permitted set, or the forbidden set when exclude is set.
type SignRestriction struct {
	element int
	sign    int
	exclude bool
	values  SignValues
}

// NewSignRestriction creates a restriction; values must not be empty.
func NewSignRestriction(element, sign int, values SignValues, exclude bool) SignRestriction {
	if values.IsEmpty() {
		panic("sign restriction without values")
	}
	return SignRestriction{element, sign, exclude, values}
}

func (r SignRestriction) Element() int {
	return r.element
}

func (r SignRestriction) Sign() int {
	return r.sign
}

// Intersection replaces the restriction with the intersection of both
// restrictions on the same sign.
func (r *SignRestriction) Intersection(restriction SignRestriction) {
	if r.sign != restriction.sign {
		panic("intersection of restrictions on different signs")
	}
	switch {
	case r.exclude && restriction.exclude:
		r.values = ordered.Union(r.values, restriction.values)
	case r.exclude && !restriction.exclude:
		r.exclude = false
		r.values = ordered.Difference(restriction.values, r.values)
	case !r.exclude && restriction.exclude:
		r.values = ordered.Difference(r.values, restriction.values)
	default:
		r.values = ordered.Intersection(r.values, restriction.values)
	}
}

// IsEmpty reports whether no annotation can match the restriction:
// an empty permitted set, or a forbidden set covering the whole enum domain.
// A forbidden set over an open string domain is never empty.
func (r SignRestriction) IsEmpty(conf *configuration.Configuration) bool {
	sign := conf.WordSigns().At(r.sign)
	if r.exclude {
		if sign.Type == configuration.StringSign {
			return false
		}
		return r.values.Size() == sign.Values.Size()
	}
	return r.values.IsEmpty()
}

// Print renders the restriction as it is written in a pattern element.
func (r SignRestriction) Print(context *Patterns) string {
	var b strings.Builder
	b.WriteString(context.SignName(r.sign))
	if r.exclude {
		b.WriteString("!=")
	} else {
		b.WriteString("=")
	}
	b.WriteString(r.values.Print("|", func(v int) string { return context.SignValue(r.sign, v) }))
	return b.String()
}

// SignRestrictions is a set of restrictions sorted by (element, sign).
// Intersection works copy-on-write, so values may be shared between the
// word copies produced by variant expansion.
type SignRestrictions struct {
	data []SignRestriction
}

func compareRestrictions(a, b SignRestriction) int {
	if a.element != b.element {
		return a.element - b.element
	}
	return a.sign - b.sign
}

// Add inserts the restriction unless one with the same element and sign
// exists; returns whether it was inserted.
func (rs *SignRestrictions) Add(restriction SignRestriction) bool {
	i, found := slices.BinarySearchFunc(rs.data, restriction, compareRestrictions)
	if found {
		return false
	}
	rs.data = slices.Insert(slices.Clone(rs.data), i, restriction)
	return true
}

// Intersection merges the rows of restrictions belonging to the given
// element into the receiver, intersecting matching signs.
func (rs *SignRestrictions) Intersection(restrictions SignRestrictions, element int) {
	if len(restrictions.data) == 0 {
		return
	}

	data := slices.Clone(rs.data)
	for _, restriction := range restrictions.data {
		if restriction.element != element {
			continue
		}
		i, found := slices.BinarySearchFunc(data, restriction, func(a, b SignRestriction) int {
			return a.sign - b.sign
		})
		if found {
			data[i].Intersection(restriction)
		} else {
			data = slices.Insert(data, i, restriction)
		}
	}
	rs.data = data
}

// IsEmpty reports whether any row rejects every annotation.
func (rs SignRestrictions) IsEmpty(conf *configuration.Configuration) bool {
	for _, restriction := range rs.data {
		if restriction.IsEmpty(conf) {
			return true
		}
	}
	return false
}

// BuildRegexp compiles the restrictions to a regular expression over the
// attribute-string encoding: one code unit per sign, unrestricted signs
// match any value.
func (rs SignRestrictions) BuildRegexp(context *Patterns) *regexp.Regexp {
	signs := context.Configuration().WordSigns()
	var b strings.Builder
	b.WriteString(`(?s)\A`)
	for signIndex := 0; signIndex < signs.Size(); signIndex++ {
		merged, has := rs.signRestriction(signIndex)
		if !has {
			b.WriteString(".")
			continue
		}

		signType := signs.At(signIndex).Type
		if !merged.exclude && merged.values.IsEmpty() {
			// empty permitted set, matches nothing
			b.WriteString(`[^\x{0}-\x{10ffff}]`)
			continue
		}
		if merged.exclude {
			b.WriteString("[^")
		} else {
			b.WriteString("[")
		}
		for i := 0; i < merged.values.Size(); i++ {
			fmt.Fprintf(&b, `\x{%x}`, text.AttributeRune(signType, merged.values.Value(i)))
		}
		b.WriteString("]")
	}
	b.WriteString(`\z`)
	return regexp.MustCompile(b.String())
}

// signRestriction merges all rows carrying the given sign.
func (rs SignRestrictions) signRestriction(sign int) (SignRestriction, bool) {
	var result SignRestriction
	has := false
	for _, restriction := range rs.data {
		if restriction.sign != sign {
			continue
		}
		if !has {
			result = restriction
			has = true
		} else {
			result.Intersection(restriction)
		}
	}
	return result, has
}

// Print renders the restrictions as a pattern element condition list.
func (rs SignRestrictions) Print(context *Patterns) string {
	if len(rs.data) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("<")
	for i, restriction := range rs.data {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(restriction.Print(context))
	}
	b.WriteString(">")
	return b.String()
}
