package pattern

import (
	"slices"
	"strings"

	"github.com/lspl-tools/lspl/configuration"
	"github.com/lspl-tools/lspl/match"
)

// Condition is a high-level constraint attached to an alternative: either an
// agreement between argument positions, or a dictionary call over positional
// groups (an undefined argument terminates a group).
type Condition struct {
	strong     bool
	dictionary string
	arguments  Arguments
}

// NewAgreementCondition creates an agreement condition; at least two
// arguments are required and all must agree on having a sign.
func NewAgreementCondition(strong bool, arguments Arguments) Condition {
	if len(arguments) < 2 {
		panic("agreement condition with less than two arguments")
	}
	for _, argument := range arguments[1:] {
		if argument.HasSign() != arguments[0].HasSign() {
			panic("agreement condition with inconsistent arguments")
		}
	}
	return Condition{strong: strong, arguments: arguments}
}

// NewDictionaryCondition creates a dictionary call condition.
func NewDictionaryCondition(dictionary string, arguments Arguments) Condition {
	if dictionary == "" || len(arguments) == 0 {
		panic("empty dictionary condition")
	}
	return Condition{dictionary: dictionary, arguments: arguments}
}

func (c Condition) Agreement() bool {
	return c.dictionary == ""
}

func (c Condition) Strong() bool {
	return c.strong
}

func (c Condition) Dictionary() string {
	return c.dictionary
}

func (c Condition) Arguments() Arguments {
	return c.arguments
}

func (c Condition) Print(context *Patterns) string {
	var b strings.Builder
	if c.Agreement() {
		separator := "="
		if c.strong {
			separator = "=="
		}
		for i, argument := range c.arguments {
			if i > 0 {
				b.WriteString(separator)
			}
			b.WriteString(argument.Print(context))
		}
	} else {
		b.WriteString(c.dictionary)
		b.WriteString("(")
		first := true
		for _, argument := range c.arguments {
			if !argument.Defined() {
				b.WriteString(", ")
				first = true
				continue
			}
			if !first {
				b.WriteString(" ")
			}
			first = false
			b.WriteString(argument.Print(context))
		}
		b.WriteString(")")
	}
	return b.String()
}

type conditionRef struct {
	condition, argument int
}

// Conditions is the condition bundle of one alternative with its
// sign-stripped argument index, built once and applied per variant.
type Conditions struct {
	data    []Condition
	indices map[Argument][]conditionRef
}

func NewConditions(conditions []Condition) Conditions {
	result := Conditions{data: conditions}
	if len(conditions) == 0 {
		return result
	}

	result.indices = make(map[Argument][]conditionRef)
	for ci, condition := range conditions {
		for ai, argument := range condition.arguments {
			if !argument.Defined() {
				continue
			}
			key := argument
			key.RemoveSign()
			result.indices[key] = append(result.indices[key], conditionRef{ci, ai})
		}
	}
	return result
}

// Apply lowers every condition against one expanded variant and attaches each
// word condition to its anchor, the last word bound by any of the condition's
// arguments (not necessarily the variant's last word). A condition whose argument
// binds no word of this variant is omitted for this variant.
func (cs Conditions) Apply(context *Patterns, variant Variant) {
	if len(cs.data) == 0 || len(variant) == 0 {
		return
	}

	links := make(map[conditionRef][]int)
	for wi, word := range variant {
		if !word.ID.Defined() {
			continue
		}
		for _, ref := range cs.indices[word.ID] {
			links[ref] = append(links[ref], wi)
		}
	}

	for ci, condition := range cs.data {
		// the anchor is the last word bound by any of the arguments; the
		// lowered condition is attached there and offsets run backwards
		anchor := 0
		bound := true
		for ai, argument := range condition.arguments {
			if !argument.Defined() {
				continue
			}
			positions := links[conditionRef{ci, ai}]
			if len(positions) == 0 {
				bound = false
				break
			}
			for _, position := range positions {
				if position > anchor {
					anchor = position
				}
			}
		}
		if !bound {
			continue
		}

		var offsets []uint8
		for ai, argument := range condition.arguments {
			if !argument.Defined() {
				offsets = append(offsets, match.OffsetMax)
				continue
			}
			for _, position := range links[conditionRef{ci, ai}] {
				offsets = append(offsets, uint8(anchor-position))
			}
		}

		lowered := LoweredCondition{Dictionary: !condition.Agreement()}
		if condition.Agreement() {
			sign := configuration.MainAttribute
			if condition.arguments[0].HasSign() {
				sign = condition.arguments[0].Sign
			}
			lowered.Condition = match.WordCondition{Strong: condition.strong, Param: sign, Offsets: offsets}
		} else {
			lowered.Condition = match.WordCondition{Param: context.DictionaryIndex(condition.dictionary), Offsets: offsets}
		}
		// the word may be shared with other variants of the expansion
		variant[anchor].Conditions = append(slices.Clip(variant[anchor].Conditions), lowered)
	}
}

func (cs Conditions) Print(context *Patterns) string {
	if len(cs.data) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("<<")
	for i, condition := range cs.data {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(condition.Print(context))
	}
	b.WriteString(">>")
	return b.String()
}
