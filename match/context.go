package match

import (
	"github.com/lspl-tools/lspl/text"
)

// Callback receives every recognized occurrence: the pattern reference and
// the inclusive word range, plus the per-word annotation index sets.
type Callback func(ref, begin, end int, data []text.AnnotationIndices)

// DictionaryFunc resolves a dictionary call; the compiler only emits calls.
type DictionaryFunc func(dictionary int, words [][]string) bool

// Context walks a text over an immutable state table. A context is
// single-threaded; multiple contexts may share the state table.
type Context struct {
	text       *text.Text
	states     StateTable
	callback   Callback
	dictionary DictionaryFunc

	initialWordIndex int
	wordIndex        int
	data             []text.AnnotationIndices
	editor           *DataEditor
}

func NewContext(t *text.Text, states StateTable) *Context {
	c := &Context{text: t, states: states, data: make([]text.AnnotationIndices, 0, 32)}
	c.editor = &DataEditor{context: c}
	return c
}

func (c *Context) SetCallback(callback Callback) {
	c.callback = callback
}

func (c *Context) SetDictionary(dictionary DictionaryFunc) {
	c.dictionary = dictionary
}

func (c *Context) Text() *text.Text {
	return c.text
}

// InitialWord returns the text index the current match attempt started at.
func (c *Context) InitialWord() int {
	return c.initialWordIndex
}

// Shift returns the variant-relative index of the last consumed word.
func (c *Context) Shift() int {
	return len(c.data) - 1
}

// DataEditor returns the undo scope of the state being evaluated.
func (c *Context) DataEditor() *DataEditor {
	return c.editor
}

// Match reports every pattern occurrence starting at the given word.
func (c *Context) Match(initialWordIndex int) {
	c.initialWordIndex = initialWordIndex
	c.wordIndex = initialWordIndex
	c.data = c.data[:0]
	c.match(0)
}

func (c *Context) match(stateIndex int) {
	state := &c.states[stateIndex]

	editor := &DataEditor{context: c}
	previousEditor := c.editor
	c.editor = editor
	defer func() {
		editor.Restore()
		c.editor = previousEditor
	}()

	if !state.Actions.Run(c) || len(state.Transitions) == 0 || c.wordIndex >= c.text.Len() {
		return
	}

	for i := range state.Transitions {
		transition := &state.Transitions[i]
		indices, matched := transition.Match(c.text.Word(c.wordIndex))
		if !matched {
			continue
		}

		c.data = append(c.data, indices)
		c.wordIndex++
		c.match(transition.Next)
		c.wordIndex--
		c.data = c.data[:len(c.data)-1]
	}
}

// DataEditor is a scoped undo log over the per-word annotation index sets.
// Every Set is rolled back when the owning state scope ends; narrowing done
// by agreement actions is therefore visible to deeper states only while the
// matcher stays on the current path.
type DataEditor struct {
	context *Context
	saved   map[int]text.AnnotationIndices
}

// Value returns the current annotation index set of the word at the given
// variant-relative index.
func (e *DataEditor) Value(index int) text.AnnotationIndices {
	return e.context.data[index]
}

// Set replaces the annotation index set, recording the first overwritten
// value for rollback.
func (e *DataEditor) Set(index int, value text.AnnotationIndices) {
	if e.saved == nil {
		e.saved = make(map[int]text.AnnotationIndices)
	}
	if _, has := e.saved[index]; !has {
		e.saved[index] = e.context.data[index]
	}
	e.context.data[index] = value
}

// Restore rolls back every Set done through this editor.
func (e *DataEditor) Restore() {
	for index, value := range e.saved {
		e.context.data[index] = value
	}
	e.saved = nil
}
