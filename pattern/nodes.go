package pattern

import (
	"strconv"
	"strings"
)

// Base is a pattern AST node. Build appends nothing when the node cannot
// fit maxSize words; it never emits a variant longer than maxSize.
type Base interface {
	Print(context *Patterns) string
	MinSize() int
	Build(context *BuildContext, variants *Variants, maxSize int)
}

// Sequence concatenates its children; with transposition every reordering
// of the children is admitted as an additional variant.
type Sequence struct {
	elements      []Base
	transposition bool
}

func NewSequence(elements []Base, transposition bool) *Sequence {
	if len(elements) == 0 {
		panic("empty pattern sequence")
	}
	return &Sequence{elements, transposition}
}

func (s *Sequence) Print(context *Patterns) string {
	separator := " "
	if s.transposition {
		separator = " ~ "
	}
	parts := make([]string, len(s.elements))
	for i, element := range s.elements {
		parts[i] = element.Print(context)
	}
	return strings.Join(parts, separator)
}

func (s *Sequence) MinSize() int {
	minSize := 0
	for _, element := range s.elements {
		minSize += element.MinSize()
	}
	return minSize
}

func (s *Sequence) Build(context *BuildContext, variants *Variants, maxSize int) {
	*variants = (*variants)[:0]
	allSubVariants := s.collectAllSubVariants(context, maxSize)
	if allSubVariants == nil {
		return
	}

	AddVariants(allSubVariants, variants, maxSize)
	if !s.transposition {
		return
	}

	for _, swap := range transpositionSwaps(len(allSubVariants)) {
		allSubVariants[swap[0]], allSubVariants[swap[1]] = allSubVariants[swap[1]], allSubVariants[swap[0]]
		AddVariants(allSubVariants, variants, maxSize)
	}
}

// collectAllSubVariants expands every child with the slack it could possibly
// consume given the other children's minimum sizes. Returns nil when any
// child yields no variants.
func (s *Sequence) collectAllSubVariants(context *BuildContext, maxSize int) []Variants {
	if maxSize == 0 {
		return nil
	}
	minSize := s.MinSize()
	if minSize > maxSize {
		return nil
	}

	allSubVariants := make([]Variants, 0, len(s.elements))
	for _, element := range s.elements {
		elementMaxSize := maxSize - minSize + element.MinSize()

		var subVariants Variants
		element.Build(context, &subVariants, elementMaxSize)
		if len(subVariants) == 0 {
			return nil
		}
		allSubVariants = append(allSubVariants, subVariants)
	}
	return allSubVariants
}

// Alternatives is the union of its children's variant sets.
type Alternatives struct {
	alternatives []Base
}

func NewAlternatives(alternatives []Base) *Alternatives {
	if len(alternatives) == 0 {
		panic("empty pattern alternatives")
	}
	return &Alternatives{alternatives}
}

func (s *Alternatives) Print(context *Patterns) string {
	parts := make([]string, len(s.alternatives))
	for i, alternative := range s.alternatives {
		parts[i] = alternative.Print(context)
	}
	return "( " + strings.Join(parts, " | ") + " )"
}

func (s *Alternatives) MinSize() int {
	minSize := s.alternatives[0].MinSize()
	for _, alternative := range s.alternatives[1:] {
		if alternative.MinSize() < minSize {
			minSize = alternative.MinSize()
		}
	}
	return minSize
}

func (s *Alternatives) Build(context *BuildContext, variants *Variants, maxSize int) {
	*variants = (*variants)[:0]
	for _, alternative := range s.alternatives {
		var subVariants Variants
		alternative.Build(context, &subVariants, maxSize)
		*variants = append(*variants, subVariants...)
	}
	variants.SortAndRemoveDuplicates(context.Patterns())
}

// Alternative is one branch of a choice carrying its condition bundle.
type Alternative struct {
	element    Base
	conditions Conditions
}

func NewAlternative(element Base, conditions Conditions) *Alternative {
	if element == nil {
		panic("alternative without a body")
	}
	return &Alternative{element, conditions}
}

func (s *Alternative) Print(context *Patterns) string {
	return s.element.Print(context) + s.conditions.Print(context)
}

func (s *Alternative) MinSize() int {
	return s.element.MinSize()
}

func (s *Alternative) Build(context *BuildContext, variants *Variants, maxSize int) {
	s.element.Build(context, variants, maxSize)
	for _, variant := range *variants {
		s.conditions.Apply(context.Patterns(), variant)
	}
	variants.SortAndRemoveDuplicates(context.Patterns())
}

// Repeating instantiates its body between minCount and maxCount times.
type Repeating struct {
	element  Base
	minCount int
	maxCount int
}

func NewRepeating(element Base, minCount, maxCount int) *Repeating {
	if element == nil || minCount > maxCount || maxCount == 0 {
		panic("bad repetition bounds")
	}
	return &Repeating{element, minCount, maxCount}
}

func (s *Repeating) Print(context *Patterns) string {
	return "{ " + s.element.Print(context) + " }<" +
		strconv.Itoa(s.minCount) + "," + strconv.Itoa(s.maxCount) + ">"
}

func (s *Repeating) MinSize() int {
	return s.minCount
}

func (s *Repeating) Build(context *BuildContext, variants *Variants, maxSize int) {
	*variants = (*variants)[:0]

	if s.minCount == 0 {
		*variants = append(*variants, Variant{})
	}
	if maxSize == 0 {
		return
	}

	start := s.minCount
	if start == 0 {
		start = 1
	}
	elementMinSize := s.element.MinSize()
	if elementMinSize == 0 {
		elementMinSize = 1
	}
	startMinSize := elementMinSize * start
	if startMinSize > maxSize {
		return
	}

	finish := min(s.maxCount, maxSize/elementMinSize)
	elementMaxSize := finish - startMinSize + elementMinSize

	var subVariants Variants
	s.element.Build(context, &subVariants, elementMaxSize)
	if len(subVariants) == 0 {
		return
	}

	firstPrevious := len(*variants)
	allSubVariants := make([]Variants, start)
	for i := range allSubVariants {
		allSubVariants[i] = subVariants
	}
	AddVariants(allSubVariants, variants, maxSize)

	for count := start + 1; count <= finish; count++ {
		lastPrevious := len(*variants)
		for vi := firstPrevious; vi < lastPrevious; vi++ {
			variant := (*variants)[vi]
			for _, subVariant := range subVariants {
				if len(variant)+len(subVariant) <= maxSize {
					*variants = append(*variants, concatVariants(variant, subVariant))
				}
			}
		}
		firstPrevious = lastPrevious
	}
}

// Regexp matches a single word by its text.
type Regexp struct {
	regexp string
}

func NewRegexp(re string) *Regexp {
	if re == "" {
		panic("empty pattern regexp")
	}
	return &Regexp{re}
}

func (s *Regexp) Print(context *Patterns) string {
	return `"` + s.regexp + `"`
}

func (s *Regexp) MinSize() int {
	return 1
}

func (s *Regexp) Build(context *BuildContext, variants *Variants, maxSize int) {
	*variants = (*variants)[:0]
	if maxSize > 0 {
		*variants = append(*variants, Variant{Word{Regexp: s.regexp}})
	}
}

// Element matches a single word of a word class, optionally restricted.
type Element struct {
	element int
	signs   SignRestrictions
}

func NewElement(element int, signs SignRestrictions) *Element {
	return &Element{element, signs}
}

func (s *Element) Print(context *Patterns) string {
	return context.Element(s.element) + s.signs.Print(context)
}

func (s *Element) MinSize() int {
	return 1
}

func (s *Element) Build(context *BuildContext, variants *Variants, maxSize int) {
	*variants = (*variants)[:0]
	if maxSize > 0 {
		word := Word{ID: Argument{Type: ArgumentElement, Element: s.element}, Signs: s.signs}
		*variants = append(*variants, Variant{word})
	}
}

// Reference invokes another pattern, projecting the caller's restrictions
// onto the words realizing the callee's arguments.
type Reference struct {
	reference int
	signs     SignRestrictions
}

func NewReference(reference int, signs SignRestrictions) *Reference {
	return &Reference{reference, signs}
}

func (s *Reference) Print(context *Patterns) string {
	return context.Reference(s.reference) + s.signs.Print(context)
}

func (s *Reference) MinSize() int {
	return 1
}

func (s *Reference) Build(context *BuildContext, variants *Variants, maxSize int) {
	pattern := context.Patterns().Pattern(s.reference)
	pattern.Build(context, variants, maxSize)

	conf := context.Patterns().Configuration()
	last := 0
	for _, variant := range *variants {
		isEmpty := false
		for wi := range variant {
			word := &variant[wi]
			if word.ID.Type != ArgumentReferenceElement {
				continue
			}
			word.ID.Reference = s.reference
			word.Signs.Intersection(s.signs, word.ID.Element)
			if word.Signs.IsEmpty(conf) {
				isEmpty = true
				break
			}
		}
		if !isEmpty {
			(*variants)[last] = variant
			last++
		}
	}
	*variants = (*variants)[:last]
}

