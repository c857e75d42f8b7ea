package parser

import (
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/lspl-tools/lspl/configuration"
	"github.com/lspl-tools/lspl/internal/chars"
	"github.com/lspl-tools/lspl/pattern"
)

const maxTranspositionElements = pattern.MaxTranspositionElements

// Builder reads pattern definitions, resolves every name against the
// attribute schema and the pattern table, and produces pattern.Patterns.
//
// Names are resolved in passes: first every definition reserves its table
// position (so reference ids are packed against the final table size), then
// the formal argument lists are resolved (element arguments before reference
// arguments, which need the callee's element arguments), then the bodies.
type Builder struct {
	conf     *configuration.Configuration
	errors   *ErrorProcessor
	patterns *pattern.Patterns

	defs      []*patternDef
	positions []int
	formals   [][]pattern.Argument
	result    *pattern.Patterns
}

func NewBuilder(conf *configuration.Configuration, errors *ErrorProcessor) *Builder {
	return &Builder{
		conf:     conf,
		errors:   errors,
		patterns: pattern.NewPatterns(conf),
	}
}

// ReadFromFile reads a patterns file: definitions separated by blank lines.
func (b *Builder) ReadFromFile(filename string) {
	data, e := os.ReadFile(filename)
	if e != nil {
		b.errors.AddError(fileError(e))
		return
	}
	b.ReadFromBytes(filename, data)
}

// ReadFromBytes tokenizes and parses every definition of a patterns file.
func (b *Builder) ReadFromBytes(sourceName string, data []byte) {
	if offset := chars.IsValidUTF8(data); offset >= 0 {
		line := 1 + strings.Count(string(data[:offset]), "\n")
		b.errors.AddError(encodingError(sourceName, line))
		return
	}

	tokenizer := NewTokenizer(sourceName, b.errors)
	parser := newPatternParser(b.errors)

	var tokens []Token
	flush := func() {
		if len(tokens) == 0 {
			return
		}
		def := parser.Parse(tokens)
		if def != nil {
			b.defs = append(b.defs, def)
		}
		tokens = nil
	}

	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		tokens = tokenizer.TokenizeLine(tokens, line, i+1)
	}
	flush()
}

// AddDefinition parses one definition given as a string (the interactive
// console entry point).
func (b *Builder) AddDefinition(sourceName, definition string) {
	b.ReadFromBytes(sourceName, []byte(definition))
}

// CheckAndBuildIfPossible resolves and builds every successfully parsed
// definition unless a critical error was recorded.
func (b *Builder) CheckAndBuildIfPossible() {
	if b.errors.HasCriticalErrors() {
		return
	}

	b.registerNames()
	b.resolveFormalArguments()
	for i, def := range b.defs {
		if b.positions[i] < 0 {
			continue
		}
		root := b.buildAlternatives(def.alternatives)
		if root == nil {
			continue
		}
		b.patterns.Define(b.positions[i], pattern.NewPattern(def.name.Text, root, b.formals[i]))
	}

	if !b.errors.HasAnyErrors() {
		b.result = b.patterns
	}
}

// GetResult returns the pattern table, or nil when any error was recorded.
func (b *Builder) GetResult() *pattern.Patterns {
	return b.result
}

func (b *Builder) registerNames() {
	b.positions = make([]int, len(b.defs))
	for i, def := range b.defs {
		position, added := b.patterns.AddName(def.name.Text)
		if !added {
			b.errors.AddError(duplicatePatternError(&def.name))
			b.positions[i] = -1
			continue
		}
		b.positions[i] = position
	}
}

func (b *Builder) resolveFormalArguments() {
	b.formals = make([][]pattern.Argument, len(b.defs))

	// element arguments first: reference arguments below need the
	// callee's element arguments
	tried := make([][]bool, len(b.defs))
	for i, def := range b.defs {
		b.formals[i] = make([]pattern.Argument, len(def.arguments))
		tried[i] = make([]bool, len(def.arguments))
		for j := range def.arguments {
			name := &def.arguments[j]
			if _, isElement := b.resolveElement(&name.first); isElement {
				tried[i][j] = true
				argument, ok := b.resolveArgument(name)
				if ok {
					b.formals[i][j] = argument
				}
			}
		}
	}
	for i, def := range b.defs {
		for j := range def.arguments {
			if tried[i][j] {
				continue
			}
			argument, ok := b.resolveArgument(&def.arguments[j])
			if ok {
				b.formals[i][j] = argument
			}
		}
	}
}

func (b *Builder) mainValues() *configuration.WordSign {
	return b.conf.WordSigns().Main()
}

// resolveElement resolves a decorated main-sign value name to an element id.
func (b *Builder) resolveElement(token *Token) (int, bool) {
	name := pattern.NewIndexedName(token.Text)
	values := b.mainValues().Values
	valueID, has := values.Find(name.Name)
	if !has {
		return 0, false
	}
	return name.Index*values.Size() + valueID, true
}

// resolveReference resolves a decorated pattern name to a reference id.
func (b *Builder) resolveReference(token *Token) (int, int, bool) {
	name := pattern.NewIndexedName(token.Text)
	reference, has := b.patterns.PatternReference(name.Name, name.Index)
	if !has {
		return 0, 0, false
	}
	position, _ := b.patterns.PatternReference(name.Name, 0)
	return reference, position, true
}

// defIndex returns the definition index of a pattern table position.
func (b *Builder) defIndex(position int) int {
	for i, p := range b.positions {
		if p == position {
			return i
		}
	}
	return -1
}

// resolveArgument resolves an extended name to a pattern argument:
// A7, N7.c, Sub.Pa, or SubSub.c per the argument type table.
func (b *Builder) resolveArgument(name *extendedName) (pattern.Argument, bool) {
	signs := b.conf.WordSigns()

	if element, isElement := b.resolveElement(&name.first); isElement {
		if name.second == nil {
			return pattern.Argument{Type: pattern.ArgumentElement, Element: element}, true
		}
		sign, has := signs.Find(name.second.Text)
		if !has {
			b.errors.AddError(unknownSignError(name.second))
			return pattern.Argument{}, false
		}
		return pattern.Argument{Type: pattern.ArgumentElementSign, Element: element, Sign: sign}, true
	}

	reference, position, isReference := b.resolveReference(&name.first)
	if !isReference {
		b.errors.AddError(unknownNameError(&name.first))
		return pattern.Argument{}, false
	}
	if name.second == nil {
		b.errors.AddError(referenceArgumentError(&name.first))
		return pattern.Argument{}, false
	}

	calleeIndex := b.defIndex(position)
	var calleeFormals []pattern.Argument
	if calleeIndex >= 0 {
		calleeFormals = b.formals[calleeIndex]
	}
	mainSize := b.mainValues().Values.Size()

	if sign, has := signs.Find(name.second.Text); has {
		// attribute of the callee's first element argument
		if len(calleeFormals) == 0 || calleeFormals[0].HasReference() || !calleeFormals[0].Defined() {
			b.errors.AddError(referenceArgumentError(name.second))
			return pattern.Argument{}, false
		}
		element := calleeFormals[0].Element % mainSize
		return pattern.Argument{
			Type: pattern.ArgumentReferenceElementSign, Element: element,
			Reference: reference, Sign: sign,
		}, true
	}

	secondName := pattern.NewIndexedName(name.second.Text)
	valueID, has := b.mainValues().Values.Find(secondName.Name)
	if !has {
		b.errors.AddError(unknownNameError(name.second))
		return pattern.Argument{}, false
	}
	for i, formal := range calleeFormals {
		if formal.Defined() && !formal.HasReference() && formal.Element%mainSize == valueID {
			return pattern.Argument{
				Type: pattern.ArgumentReferenceElement, Element: valueID + i*mainSize,
				Reference: reference,
			}, true
		}
	}
	b.errors.AddError(referenceArgumentError(name.second))
	return pattern.Argument{}, false
}

func (b *Builder) buildAlternatives(alternatives []*alternativeNode) pattern.Base {
	nodes := make([]pattern.Base, 0, len(alternatives))
	for _, alternative := range alternatives {
		node := b.buildAlternative(alternative)
		if node == nil {
			return nil
		}
		nodes = append(nodes, node)
	}
	if len(nodes) == 1 {
		return nodes[0]
	}
	return pattern.NewAlternatives(nodes)
}

func (b *Builder) buildAlternative(alternative *alternativeNode) pattern.Base {
	segments := make([]pattern.Base, 0, len(alternative.segments))
	for _, segment := range alternative.segments {
		elements := make([]pattern.Base, 0, len(segment))
		for _, element := range segment {
			node := b.buildElement(element)
			if node == nil {
				return nil
			}
			elements = append(elements, node)
		}
		if len(elements) == 1 {
			segments = append(segments, elements[0])
		} else {
			segments = append(segments, pattern.NewSequence(elements, false))
		}
	}

	var body pattern.Base
	if len(segments) == 1 {
		body = segments[0]
	} else {
		if len(segments) > maxTranspositionElements {
			b.errors.AddError(transpositionSizeError(alternative.segments[0][0].headToken()))
			return nil
		}
		body = pattern.NewSequence(segments, true)
	}

	conditions, ok := b.buildConditions(alternative)
	if !ok {
		return nil
	}
	return pattern.NewAlternative(body, conditions)
}

func (b *Builder) buildElement(node bodyNode) pattern.Base {
	switch n := node.(type) {
	case *regexpNode:
		body := n.token.Text[1 : len(n.token.Text)-1]
		if _, e := regexp.Compile(body); e != nil {
			b.errors.AddError(wrongRegexpError(&n.token, e))
			return nil
		}
		return pattern.NewRegexp(body)

	case *elementNode:
		return b.buildNamedElement(n)

	case *groupNode:
		inner := b.buildAlternatives(n.alternatives)
		if inner == nil {
			return nil
		}
		switch n.kind {
		case parenthesisGroup:
			return inner
		case bracketGroup:
			return pattern.NewRepeating(inner, 0, 1)
		default:
			return b.buildRepeating(n, inner)
		}
	}
	return nil
}

func (b *Builder) buildRepeating(node *groupNode, inner pattern.Base) pattern.Base {
	minCount := 0
	maxCount := pattern.MaxVariantSize
	var eMin, eMax error
	if node.min != nil {
		minCount, eMin = strconv.Atoi(node.min.Text)
		maxCount = minCount
		if node.max != nil {
			maxCount, eMax = strconv.Atoi(node.max.Text)
		}
	}
	if eMin != nil || eMax != nil || minCount > maxCount || maxCount == 0 || maxCount > pattern.MaxVariantSize {
		b.errors.AddError(repetitionRangeError(&node.head))
		return nil
	}
	return pattern.NewRepeating(inner, minCount, maxCount)
}

func (b *Builder) buildNamedElement(node *elementNode) pattern.Base {
	if element, isElement := b.resolveElement(&node.name); isElement {
		signs, ok := b.buildRestrictions(node, element)
		if !ok {
			return nil
		}
		// the word class itself restricts the main sign
		var classValues pattern.SignValues
		classValues.Add(element % b.mainValues().Values.Size())
		signs.Add(pattern.NewSignRestriction(element, configuration.MainAttribute, classValues, false))
		return pattern.NewElement(element, signs)
	}

	reference, position, isReference := b.resolveReference(&node.name)
	if !isReference {
		b.errors.AddError(unknownNameError(&node.name))
		return nil
	}

	// restrictions on a reference bind to the callee's first argument
	var signs pattern.SignRestrictions
	if len(node.conditions) > 0 {
		calleeIndex := b.defIndex(position)
		var calleeFormals []pattern.Argument
		if calleeIndex >= 0 {
			calleeFormals = b.formals[calleeIndex]
		}
		if len(calleeFormals) == 0 || !calleeFormals[0].Defined() || calleeFormals[0].HasReference() {
			b.errors.AddError(noArgumentsError(&node.name))
			return nil
		}
		element := calleeFormals[0].Element % b.mainValues().Values.Size()
		var ok bool
		signs, ok = b.buildRestrictions(node, element)
		if !ok {
			return nil
		}
	}
	return pattern.NewReference(reference, signs)
}

func (b *Builder) buildRestrictions(node *elementNode, element int) (pattern.SignRestrictions, bool) {
	var result pattern.SignRestrictions
	ok := true
	for ci := range node.conditions {
		condition := &node.conditions[ci]
		sign, has := b.resolveConditionSign(condition)
		if !has {
			ok = false
			continue
		}

		wordSign := b.conf.WordSigns().At(sign)
		var values pattern.SignValues
		for vi := range condition.values {
			value := &condition.values[vi]
			switch {
			case value.Type == RegexpToken && wordSign.Type == configuration.StringSign:
				values.Add(b.patterns.StringIndex(value.Text[1 : len(value.Text)-1]))
			case value.Type == RegexpToken:
				b.errors.AddError(valueTypeError(value))
				ok = false
			case wordSign.Type == configuration.StringSign:
				values.Add(b.patterns.StringIndex(value.Text))
			default:
				valueID, hasValue := wordSign.Values.Find(value.Text)
				if !hasValue {
					b.errors.AddError(unknownValueError(value))
					ok = false
					continue
				}
				values.Add(valueID)
			}
		}
		if values.IsEmpty() {
			continue
		}
		if !result.Add(pattern.NewSignRestriction(element, sign, values, condition.exclude)) {
			b.errors.AddError(duplicateRestrictionError(conditionToken(condition)))
			ok = false
		}
	}
	return result, ok
}

// resolveConditionSign resolves an element condition to its sign: either by
// its explicit name, or as the unique non-string sign (main or enum)
// containing all the values.
func (b *Builder) resolveConditionSign(condition *elementCondition) (int, bool) {
	signs := b.conf.WordSigns()
	if condition.name != nil {
		sign, has := signs.Find(condition.name.Text)
		if !has {
			b.errors.AddError(unknownSignError(condition.name))
			return 0, false
		}
		return sign, true
	}

	candidate := -1
	for i := 0; i < signs.Size(); i++ {
		sign := signs.At(i)
		if sign.Type == configuration.StringSign {
			continue
		}
		matchesAll := true
		for vi := range condition.values {
			value := &condition.values[vi]
			if value.Type != IdentifierToken || !sign.Values.Has(value.Text) {
				matchesAll = false
				break
			}
		}
		if !matchesAll {
			continue
		}
		if candidate >= 0 {
			b.errors.AddError(ambiguousValueError(conditionToken(condition)))
			return 0, false
		}
		candidate = i
	}
	if candidate < 0 {
		b.errors.AddError(unknownValueError(conditionToken(condition)))
		return 0, false
	}
	return candidate, true
}

func conditionToken(condition *elementCondition) *Token {
	if condition.name != nil {
		return condition.name
	}
	return &condition.values[0]
}

func (b *Builder) buildConditions(alternative *alternativeNode) (pattern.Conditions, bool) {
	var conditions []pattern.Condition
	ok := true

	for mi := range alternative.matching {
		matching := &alternative.matching[mi]
		arguments := make(pattern.Arguments, 0, len(matching.names))
		resolved := true
		for ni := range matching.names {
			argument, has := b.resolveArgument(&matching.names[ni])
			if !has {
				resolved = false
				break
			}
			arguments = append(arguments, argument)
		}
		if !resolved {
			ok = false
			continue
		}

		consistent := true
		for _, argument := range arguments[1:] {
			if arguments[0].Inconsistent(argument) {
				consistent = false
				break
			}
		}
		if !consistent {
			b.errors.AddError(inconsistentConditionError(&matching.names[0].first))
			ok = false
			continue
		}
		conditions = append(conditions, pattern.NewAgreementCondition(matching.strong, arguments))
	}

	for di := range alternative.dictionaries {
		dictionary := &alternative.dictionaries[di]
		var arguments pattern.Arguments
		resolved := true
		for gi, group := range dictionary.groups {
			if gi > 0 {
				arguments = append(arguments, pattern.Argument{})
			}
			for ti := range group {
				element, isElement := b.resolveElement(&group[ti])
				if !isElement {
					b.errors.AddError(unknownNameError(&group[ti]))
					resolved = false
					break
				}
				arguments = append(arguments, pattern.Argument{Type: pattern.ArgumentElement, Element: element})
			}
			if !resolved {
				break
			}
		}
		if !resolved {
			ok = false
			continue
		}
		conditions = append(conditions, pattern.NewDictionaryCondition(dictionary.name.Text, arguments))
	}

	return pattern.NewConditions(conditions), ok
}
