package match

import (
	"github.com/lspl-tools/lspl/util/ordered"
)

// Action is a check or effect evaluated when the matcher enters a state.
// Actions fail fast: the first failure aborts the current match attempt.
type Action interface {
	Run(context *Context) bool
}

type Actions []Action

func (as Actions) Run(context *Context) bool {
	for _, action := range as {
		if !action.Run(context) {
			return false
		}
	}
	return true
}

// AgreementAction narrows the annotation index sets of the anchor word and
// of every word named by the condition offsets down to agreeing annotations.
type AgreementAction struct {
	Condition WordCondition
}

func (a AgreementAction) Run(context *Context) bool {
	editor := context.DataEditor()
	index2 := context.Shift()
	word2 := context.InitialWord() + index2
	indices2 := editor.Value(index2)

	for _, offset := range a.Condition.Offsets {
		index1 := index2 - int(offset)
		if index1 < 0 {
			return false
		}
		word1 := context.InitialWord() + index1
		agreement := context.Text().Agreements().Agreement(word1, word2, a.Condition.Param, a.Condition.Strong)
		first := ordered.Intersection(agreement.First, editor.Value(index1))
		second := ordered.Intersection(agreement.Second, indices2)
		if first.IsEmpty() || second.IsEmpty() {
			return false
		}

		editor.Set(index1, first)
		editor.Set(index2, second)
		indices2 = second
	}
	return true
}

// DictionaryAction collects the matched word texts into positional groups and
// hands them to the context's dictionary hook. Without a hook it succeeds.
type DictionaryAction struct {
	Condition WordCondition
}

func (a DictionaryAction) Run(context *Context) bool {
	if context.dictionary == nil {
		return true
	}

	anchor := context.InitialWord() + context.Shift()
	groups := [][]string{nil}
	for _, offset := range a.Condition.Offsets {
		if offset == OffsetMax {
			groups = append(groups, nil)
			continue
		}
		wordIndex := anchor - int(offset)
		if wordIndex < context.InitialWord() {
			return false
		}
		last := len(groups) - 1
		groups[last] = append(groups[last], context.Text().Word(wordIndex).Text)
	}

	return context.dictionary(a.Condition.Param, groups)
}

// CallbackAction reports a recognized occurrence of the pattern Ref.
type CallbackAction struct {
	Ref int
}

func (a CallbackAction) Run(context *Context) bool {
	if context.callback != nil {
		context.callback(a.Ref, context.InitialWord(), context.InitialWord()+context.Shift(), context.data)
	}
	return true
}
