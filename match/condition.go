// Package match defines the state table emitted by the pattern compiler and
// the matcher walking an annotated text over it.
package match

import (
	"fmt"
	"strings"
)

// OffsetMax is reserved as the group separator inside dictionary conditions;
// word offsets therefore never exceed OffsetMax-1.
const OffsetMax uint8 = 255

// WordCondition is a lowered, position-anchored constraint. Offsets are
// distances measured backwards from the word the condition is attached to.
type WordCondition struct {
	// Strong requires strong agreement; meaningless for dictionary conditions.
	Strong bool

	// Param is the sign index for agreement conditions
	// or the dictionary id for dictionary conditions.
	Param int

	// Offsets holds the backward distances; OffsetMax separates positional
	// groups of a dictionary condition.
	Offsets []uint8
}

// Print renders the condition for state-key and debug purposes.
func (c WordCondition) Print() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d", c.Param)
	if c.Strong {
		b.WriteString("==")
	} else {
		b.WriteString("=")
	}
	for i, offset := range c.Offsets {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, "%d", offset)
	}
	return b.String()
}
