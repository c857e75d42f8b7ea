package pattern

import (
	"regexp"
	"sort"
	"strings"

	"github.com/lspl-tools/lspl/match"
)

// LoweredCondition is a word-relative condition together with its kind.
type LoweredCondition struct {
	Dictionary bool
	Condition  match.WordCondition
}

// Word is one position of a linear pattern variant: either a regexp over the
// word text, or an attribute-restricted word identified by a pattern argument.
type Word struct {
	ID         Argument
	Regexp     string
	Signs      SignRestrictions
	Conditions []LoweredCondition
}

// Print renders the word canonically; de-duplication equality is defined
// over this rendering.
func (w Word) Print(context *Patterns) string {
	if w.Regexp != "" {
		return `"` + w.Regexp + `"`
	}

	var b strings.Builder
	if w.ID.Defined() {
		b.WriteString(w.ID.Print(context))
	}
	b.WriteString(w.Signs.Print(context))
	return b.String()
}

// stateKey extends the canonical rendering with the lowered conditions, so
// that automaton states are shared only between words with equal actions.
func (w Word) stateKey(context *Patterns) string {
	var b strings.Builder
	b.WriteString(w.Print(context))
	for _, lowered := range w.Conditions {
		if lowered.Dictionary {
			b.WriteString(";d:")
		} else {
			b.WriteString(";a:")
		}
		b.WriteString(lowered.Condition.Print())
	}
	return b.String()
}

// build appends a state reached from stateIndex by matching this word and
// returns its index. The word's conditions become the new state's actions.
func (w Word) build(context *BuildContext) int {
	transition := match.Transition{Word: w.Regexp != ""}
	if transition.Word {
		transition.Re = regexp.MustCompile(`\A(?:` + w.Regexp + `)\z`)
	} else {
		transition.Re = w.Signs.BuildRegexp(context.Patterns())
	}

	next := len(context.States)
	transition.Next = next
	context.States = append(context.States, match.State{})
	current := context.stateIndex
	context.States[current].Transitions = append(context.States[current].Transitions, transition)

	state := &context.States[next]
	for _, lowered := range w.Conditions {
		if lowered.Dictionary {
			state.Actions = append(state.Actions, match.DictionaryAction{Condition: lowered.Condition})
		} else {
			state.Actions = append(state.Actions, match.AgreementAction{Condition: lowered.Condition})
		}
	}
	return next
}

// Variant is one linear expansion of a pattern, the unit of matching.
type Variant []Word

// Print renders the variant canonically, words joined with single spaces.
func (v Variant) Print(context *Patterns) string {
	parts := make([]string, len(v))
	for i, word := range v {
		parts[i] = word.Print(context)
	}
	return strings.Join(parts, " ")
}

// Build threads the variant through the state table, sharing the transition
// prefix with the previously built variant.
func (v Variant) Build(context *BuildContext, ref int) {
	if len(v) == 0 {
		return
	}

	context.stateIndex = 0
	shared := true
	for wi, word := range v {
		key := word.stateKey(context.Patterns())
		if shared && wi < len(context.lastVariant) && context.lastVariant[wi].key == key {
			context.stateIndex = context.lastVariant[wi].state
			continue
		}
		if shared {
			shared = false
			context.lastVariant = context.lastVariant[:wi]
		}
		next := word.build(context)
		context.lastVariant = append(context.lastVariant, prefixEntry{key, next})
		context.stateIndex = next
	}
	if shared {
		context.lastVariant = context.lastVariant[:len(v)]
	}

	terminal := &context.States[context.stateIndex]
	terminal.Actions = append(terminal.Actions, match.CallbackAction{Ref: ref})
}

func concatVariants(a, b Variant) Variant {
	result := make(Variant, 0, len(a)+len(b))
	result = append(result, a...)
	result = append(result, b...)
	return result
}

// Variants is a list of linear expansions.
type Variants []Variant

// SortAndRemoveDuplicates orders the variants by their canonical rendering
// and drops rendering duplicates.
func (vs *Variants) SortAndRemoveDuplicates(context *Patterns) {
	type renderedVariant struct {
		key     string
		variant Variant
	}
	rendered := make([]renderedVariant, len(*vs))
	for i, variant := range *vs {
		rendered[i] = renderedVariant{variant.Print(context), variant}
	}
	sort.SliceStable(rendered, func(i, j int) bool {
		return rendered[i].key < rendered[j].key
	})

	result := (*vs)[:0]
	previous := ""
	for i, r := range rendered {
		if i > 0 && r.key == previous {
			continue
		}
		result = append(result, r.variant)
		previous = r.key
	}
	*vs = result
}

// Build threads every variant through the state table; terminal states get
// a callback action reporting the given pattern reference.
func (vs Variants) Build(context *BuildContext, ref int) {
	for _, variant := range vs {
		variant.Build(context, ref)
	}
}

// Print renders the variants, one per line.
func (vs Variants) Print(context *Patterns) string {
	var b strings.Builder
	for _, variant := range vs {
		b.WriteString(variant.Print(context))
		b.WriteString("\n")
	}
	return b.String()
}
