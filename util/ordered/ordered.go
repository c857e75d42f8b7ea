// Package ordered defines sorted duplicate-free lists with merge-style set
// operations. The lists are small (attribute value domains, annotation index
// sets), so flat slices beat tree-based sets on every hot path.
package ordered

import (
	"cmp"
	"slices"
	"strings"
)

// List is a sorted sequence of distinct values.
// The zero value is an empty list ready for use.
// Union, Difference, and Intersection return fresh lists; a List that is only
// read after construction may therefore be shared freely between copies.
type List[T cmp.Ordered] struct {
	values []T
}

// New creates a list containing the given values.
func New[T cmp.Ordered](values ...T) List[T] {
	var result List[T]
	for _, v := range values {
		result.Add(v)
	}
	return result
}

// Add inserts value keeping the list sorted.
// Returns false if the value is already present.
func (l *List[T]) Add(value T) bool {
	i, found := slices.BinarySearch(l.values, value)
	if found {
		return false
	}
	l.values = slices.Insert(l.values, i, value)
	return true
}

// Has reports whether value is present.
func (l List[T]) Has(value T) bool {
	_, found := slices.BinarySearch(l.values, value)
	return found
}

// Find returns the index of value and whether it is present.
func (l List[T]) Find(value T) (int, bool) {
	return slices.BinarySearch(l.values, value)
}

func (l List[T]) IsEmpty() bool {
	return len(l.values) == 0
}

func (l List[T]) Size() int {
	return len(l.values)
}

// Value returns the element at index; index must be within [0, Size).
func (l List[T]) Value(index int) T {
	return l.values[index]
}

func (l List[T]) Equal(other List[T]) bool {
	return slices.Equal(l.values, other.values)
}

// Print renders the values joined with delimiter.
func (l List[T]) Print(delimiter string, render func(T) string) string {
	var b strings.Builder
	for i, v := range l.values {
		if i > 0 {
			b.WriteString(delimiter)
		}
		b.WriteString(render(v))
	}
	return b.String()
}

// Union returns a list with the values present in a or b.
func Union[T cmp.Ordered](a, b List[T]) List[T] {
	result := make([]T, 0, len(a.values)+len(b.values))
	i, j := 0, 0
	for i < len(a.values) && j < len(b.values) {
		switch {
		case a.values[i] < b.values[j]:
			result = append(result, a.values[i])
			i++
		case a.values[i] > b.values[j]:
			result = append(result, b.values[j])
			j++
		default:
			result = append(result, a.values[i])
			i++
			j++
		}
	}
	result = append(result, a.values[i:]...)
	result = append(result, b.values[j:]...)
	return List[T]{result}
}

// Difference returns a list with the values present in a but not in b.
func Difference[T cmp.Ordered](a, b List[T]) List[T] {
	result := make([]T, 0, len(a.values))
	i, j := 0, 0
	for i < len(a.values) && j < len(b.values) {
		switch {
		case a.values[i] < b.values[j]:
			result = append(result, a.values[i])
			i++
		case a.values[i] > b.values[j]:
			j++
		default:
			i++
			j++
		}
	}
	result = append(result, a.values[i:]...)
	return List[T]{result}
}

// Intersection returns a list with the values present in both a and b.
func Intersection[T cmp.Ordered](a, b List[T]) List[T] {
	result := make([]T, 0, min(len(a.values), len(b.values)))
	i, j := 0, 0
	for i < len(a.values) && j < len(b.values) {
		switch {
		case a.values[i] < b.values[j]:
			i++
		case a.values[i] > b.values[j]:
			j++
		default:
			result = append(result, a.values[i])
			i++
			j++
		}
	}
	return List[T]{result}
}

// Strings is an ordered list of strings, used for sign names and value domains.
type Strings = List[string]
