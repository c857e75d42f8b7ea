package match

import (
	"regexp"

	"github.com/lspl-tools/lspl/text"
)

// Transition matches one text word and leads to the next state.
//
// Properties of a state table:
//   - tree-structured: every state except the initial one has a single
//     incoming transition;
//   - deterministic per variant, not per table: several transitions of one
//     state may match the same word, each is followed in order;
//   - immutable once built; safe for concurrent matchers over disjoint texts.
type Transition struct {
	// Word selects the match kind: the word text (true)
	// or the attribute encoding of its annotations (false).
	Word bool

	// Re is anchored; for attribute transitions it is built over the
	// attribute-string alphabet by the pattern compiler.
	Re *regexp.Regexp

	// Next is the index of the destination state.
	Next int
}

// Match matches a text word and returns the annotation indices admitted by
// the transition. A word-kind transition admits every annotation.
func (t *Transition) Match(word *text.Word) (text.AnnotationIndices, bool) {
	if t.Word {
		if !word.MatchWord(t.Re) {
			return text.AnnotationIndices{}, false
		}
		return word.AnnotationIndices(), true
	}

	indices := word.MatchAttributes(t.Re)
	return indices, !indices.IsEmpty()
}

// State carries the actions evaluated on entry and the outgoing transitions.
type State struct {
	Actions     Actions
	Transitions []Transition
}

// StateTable is the compiled form of a pattern suite. State 0 is initial.
type StateTable []State
