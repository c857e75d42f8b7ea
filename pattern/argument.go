// Package pattern defines the pattern AST, the variant expander, condition
// lowering, and the automaton builder producing a match.StateTable.
package pattern

import (
	"strconv"
	"strings"
)

// ArgumentType tags a pattern argument.
//
// Sample(A7, N7.c, Sub.Pa, SubSub.c) = A7 N7 Sub SubSub
// Sub(Pa5) = Pa5
// SubSub(Pn7) = Pn7
type ArgumentType int

const (
	ArgumentNone                 ArgumentType = iota
	ArgumentElement                           // A7
	ArgumentElementSign                       // N7.c
	ArgumentReferenceElement                  // Sub.Pa
	ArgumentReferenceElementSign              // SubSub.c
)

// Argument identifies a word position of a pattern: a local element,
// an element of a referenced pattern, optionally narrowed to one sign.
type Argument struct {
	Type      ArgumentType
	Element   int
	Reference int
	Sign      int
}

func (a Argument) Defined() bool {
	return a.Type != ArgumentNone
}

func (a Argument) HasSign() bool {
	return a.Type == ArgumentElementSign || a.Type == ArgumentReferenceElementSign
}

func (a Argument) HasReference() bool {
	return a.Type == ArgumentReferenceElement || a.Type == ArgumentReferenceElementSign
}

// RemoveSign strips the sign slot, downgrading the type accordingly.
func (a *Argument) RemoveSign() {
	switch a.Type {
	case ArgumentElementSign:
		a.Type = ArgumentElement
	case ArgumentReferenceElementSign:
		a.Type = ArgumentReferenceElement
	}
	a.Sign = 0
}

// Inconsistent reports whether two defined arguments cannot share one
// agreement condition.
func (a Argument) Inconsistent(other Argument) bool {
	if !a.Defined() || !other.Defined() {
		return false
	}
	if a.HasSign() != other.HasSign() {
		return true
	}
	return a.Sign != other.Sign
}

// Print renders the argument the way it is written in a pattern.
func (a Argument) Print(context *Patterns) string {
	var b strings.Builder
	if a.HasReference() {
		b.WriteString(context.Reference(a.Reference))
		b.WriteString(".")
	}
	b.WriteString(context.Element(a.Element))
	if a.HasSign() {
		b.WriteString(".")
		b.WriteString(context.SignName(a.Sign))
	}
	return b.String()
}

type Arguments = []Argument

// IndexedName factors a decorated name like "N7" into its base and index.
type IndexedName struct {
	Name  string
	Index int
}

// NewIndexedName splits the trailing decimal digits off the name;
// an undecorated name gets index 0.
func NewIndexedName(text string) IndexedName {
	i := len(text)
	for i > 0 && text[i-1] >= '0' && text[i-1] <= '9' {
		i--
	}
	if i == len(text) || i == 0 {
		return IndexedName{text, 0}
	}
	index, e := strconv.Atoi(text[i:])
	if e != nil {
		return IndexedName{text, 0}
	}
	return IndexedName{text[:i], index}
}

// Normalize renders the name with its index; index 0 stays undecorated.
func (n IndexedName) Normalize() string {
	if n.Index == 0 {
		return n.Name
	}
	return n.Name + strconv.Itoa(n.Index)
}
