package pattern

import (
	"github.com/lspl-tools/lspl/match"
)

// MaxVariantSize caps the expansion budget so that every word-relative
// offset fits the 8-bit encoding; match.OffsetMax stays reserved.
const MaxVariantSize = 254

// MaxTranspositionElements caps the length of a transposition sequence.
const MaxTranspositionElements = 8

type prefixEntry struct {
	key   string
	state int
}

// BuildContext carries the state of one expansion-and-build run: the
// per-name budget stacks and the state table under construction.
type BuildContext struct {
	States match.StateTable

	patterns    *Patterns
	maxSizes    map[string][]int
	lastVariant []prefixEntry
	stateIndex  int
}

func NewBuildContext(patterns *Patterns) *BuildContext {
	return &BuildContext{
		States:   match.StateTable{match.State{}},
		patterns: patterns,
		maxSizes: make(map[string][]int),
	}
}

func (c *BuildContext) Patterns() *Patterns {
	return c.patterns
}

// PushMaxSize enters a named pattern with the requested budget and returns
// the corrected one. Re-entering a name with the same or a larger budget
// strictly decreases the correction, so self-recursion terminates.
func (c *BuildContext) PushMaxSize(name string, maxSize int) int {
	stack := c.maxSizes[name]
	if len(stack) == 0 || maxSize < stack[len(stack)-1] {
		stack = append(stack, maxSize)
	} else {
		stack = append(stack, stack[len(stack)-1]-1)
	}
	c.maxSizes[name] = stack
	return stack[len(stack)-1]
}

// PopMaxSize leaves a named pattern, returning the budget it ran under.
func (c *BuildContext) PopMaxSize(name string) int {
	stack := c.maxSizes[name]
	if len(stack) == 0 {
		panic("unbalanced budget stack for pattern " + name)
	}
	top := stack[len(stack)-1]
	c.maxSizes[name] = stack[:len(stack)-1]
	return top
}

// AddVariants appends every concatenation of one variant per sub-list,
// keeping concatenations of at most maxSize words.
func AddVariants(allSubVariants []Variants, variants *Variants, maxSize int) {
	indices := make([]int, len(allSubVariants))
	for {
		size := 0
		for i, index := range indices {
			size += len(allSubVariants[i][index])
		}
		if size <= maxSize {
			variant := make(Variant, 0, size)
			for i, index := range indices {
				variant = append(variant, allSubVariants[i][index]...)
			}
			*variants = append(*variants, variant)
		}
		if !nextIndices(allSubVariants, indices) {
			return
		}
	}
}

func nextIndices(allSubVariants []Variants, indices []int) bool {
	for pos := len(indices); pos > 0; pos-- {
		realPos := pos - 1
		if indices[realPos] < len(allSubVariants[realPos])-1 {
			indices[realPos]++
			return true
		}
		indices[realPos] = 0
	}
	return false
}

// transpositionSwaps returns a sequence of index swaps that, applied one
// after another, visits every permutation of n elements exactly once
// (Heap's algorithm).
func transpositionSwaps(n int) [][2]int {
	var swaps [][2]int
	counters := make([]int, n)
	for i := 0; i < n; {
		if counters[i] < i {
			if i%2 == 0 {
				swaps = append(swaps, [2]int{0, i})
			} else {
				swaps = append(swaps, [2]int{counters[i], i})
			}
			counters[i]++
			i = 0
		} else {
			counters[i] = 0
			i++
		}
	}
	return swaps
}
