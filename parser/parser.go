package parser

import (
	"github.com/lspl-tools/lspl"
)

// tokensList is a token cursor with arbitrary lookahead.
type tokensList struct {
	tokens []Token
	pos    int
}

func (t *tokensList) Has() bool {
	return t.pos < len(t.tokens)
}

func (t *tokensList) Token() *Token {
	return &t.tokens[t.pos]
}

func (t *tokensList) TokenAt(offset int) *Token {
	return &t.tokens[t.pos+offset]
}

func (t *tokensList) Last() *Token {
	return &t.tokens[len(t.tokens)-1]
}

// CheckType reports whether the token at the given lookahead offset has the
// given type; it does not advance.
func (t *tokensList) CheckType(tokenType TokenType, offset ...int) bool {
	pos := t.pos
	if len(offset) > 0 {
		pos += offset[0]
	}
	return pos < len(t.tokens) && t.tokens[pos].Type == tokenType
}

// MatchType advances past the current token if it has the given type.
func (t *tokensList) MatchType(tokenType TokenType) bool {
	if !t.CheckType(tokenType) {
		return false
	}
	t.pos++
	return true
}

// MatchToken is MatchType returning the matched token.
func (t *tokensList) MatchToken(tokenType TokenType) *Token {
	if !t.CheckType(tokenType) {
		return nil
	}
	token := t.Token()
	t.pos++
	return token
}

func (t *tokensList) Next(count ...int) {
	n := 1
	if len(count) > 0 {
		n = count[0]
	}
	t.pos += n
}

// patternParser parses one pattern definition with recursive descent.
// Error recovery is single-shot: the first error aborts the definition.
type patternParser struct {
	errors *ErrorProcessor
	tokens tokensList
}

func newPatternParser(errors *ErrorProcessor) *patternParser {
	return &patternParser{errors: errors}
}

// Parse parses one tokenized definition. Returns nil when a syntax error was
// reported; the diagnostic is recorded in the error processor.
func (p *patternParser) Parse(tokens []Token) *patternDef {
	if len(tokens) == 0 {
		return nil
	}
	p.tokens = tokensList{tokens: tokens}

	def := &patternDef{}
	if !p.readPattern(def) {
		return nil
	}
	if !p.readTextExtractionPatterns() {
		return nil
	}
	if p.tokens.Has() {
		p.addError("end of pattern definition expected")
		return nil
	}
	return def
}

func (p *patternParser) addError(text string) {
	if p.tokens.Has() {
		token := p.tokens.Token()
		p.errors.AddError(lspl.FormatErrorPos(token, UnexpectedTokenError, lspl.Error, "%s, got %q", text, token.Text))
	} else {
		p.errors.AddError(lspl.FormatErrorPos(p.tokens.Last(), UnexpectedEndError, lspl.Error,
			"%s, got end of definition", text))
	}
}

// readExtendedName reads Identifier [ . Identifier ].
func (p *patternParser) readExtendedName(name *extendedName) bool {
	if !p.tokens.CheckType(IdentifierToken) {
		p.addError("word class or pattern name expected")
		return false
	}

	name.first = *p.tokens.Token()
	p.tokens.Next()

	if p.tokens.MatchType(DotToken) {
		if !p.tokens.CheckType(IdentifierToken) {
			p.addError("word class attribute name expected")
			return false
		}
		name.second = p.tokens.Token()
		p.tokens.Next()
	} else {
		name.second = nil
	}
	return true
}

func (p *patternParser) readPatternName(def *patternDef) bool {
	if !p.tokens.CheckType(IdentifierToken) {
		p.addError("pattern name expected")
		return false
	}
	def.name = *p.tokens.Token()
	p.tokens.Next()
	return true
}

func (p *patternParser) readPatternArguments(def *patternDef) bool {
	if p.tokens.MatchType(OpeningParenthesisToken) {
		for {
			var argument extendedName
			if !p.readExtendedName(&argument) {
				return false
			}
			def.arguments = append(def.arguments, argument)
			if !p.tokens.MatchType(CommaToken) {
				break
			}
		}
		if !p.tokens.MatchType(ClosingParenthesisToken) {
			p.addError("closing parenthesis `)` expected")
			return false
		}
	}
	return true
}

func (p *patternParser) readPattern(def *patternDef) bool {
	if !p.readPatternName(def) || !p.readPatternArguments(def) {
		return false
	}
	if !p.tokens.MatchType(EqualSignToken) {
		p.addError("equal sign `=` expected")
		return false
	}
	alternatives, ok := p.readAlternatives()
	if !ok {
		return false
	}
	def.alternatives = alternatives
	return true
}

func (p *patternParser) readElementCondition(condition *elementCondition) bool {
	if p.tokens.CheckType(IdentifierToken) &&
		(p.tokens.CheckType(EqualSignToken, 1) || p.tokens.CheckType(ExclamationEqualSignToken, 1)) {
		condition.name = p.tokens.Token()
		condition.exclude = p.tokens.TokenAt(1).Type == ExclamationEqualSignToken
		p.tokens.Next(2)
	} else if p.tokens.CheckType(EqualSignToken) || p.tokens.CheckType(ExclamationEqualSignToken) {
		condition.exclude = p.tokens.Token().Type == ExclamationEqualSignToken
		p.tokens.Next()
	}

	for {
		if p.tokens.CheckType(RegexpToken) || p.tokens.CheckType(IdentifierToken) {
			condition.values = append(condition.values, *p.tokens.Token())
			p.tokens.Next()
		} else {
			p.addError("regular expression or word class attribute value expected")
			return false
		}
		if !p.tokens.MatchType(VerticalBarToken) {
			break
		}
	}
	return true
}

func (p *patternParser) readElementConditions(element *elementNode) bool {
	if p.tokens.MatchType(LessThanSignToken) {
		for {
			var condition elementCondition
			if !p.readElementCondition(&condition) {
				return false
			}
			element.conditions = append(element.conditions, condition)
			if !p.tokens.MatchType(CommaToken) {
				break
			}
		}
		if !p.tokens.MatchType(GreaterThanSignToken) {
			p.addError("greater than sign `>` expected")
			return false
		}
	}
	return true
}

// readElement reads one element or nil when the current token cannot start
// an element.
func (p *patternParser) readElement() (bodyNode, bool) {
	if !p.tokens.Has() {
		return nil, true
	}

	switch p.tokens.Token().Type {
	case RegexpToken:
		node := &regexpNode{*p.tokens.Token()}
		p.tokens.Next()
		return node, true

	case IdentifierToken:
		node := &elementNode{name: *p.tokens.Token()}
		p.tokens.Next()
		if !p.readElementConditions(node) {
			return nil, false
		}
		return node, true

	case OpeningBraceToken:
		node := &groupNode{head: *p.tokens.Token(), kind: braceGroup}
		p.tokens.Next()
		alternatives, ok := p.readAlternatives()
		if !ok {
			return nil, false
		}
		node.alternatives = alternatives
		if !p.tokens.MatchType(ClosingBraceToken) {
			p.addError("closing brace `}` expected")
			return nil, false
		}
		if p.tokens.MatchType(LessThanSignToken) {
			node.min = p.tokens.MatchToken(NumberToken)
			if node.min == nil {
				p.addError("number (0, 1, 2, etc.) expected")
				return nil, false
			}
			if p.tokens.MatchType(CommaToken) {
				node.max = p.tokens.MatchToken(NumberToken)
				if node.max == nil {
					p.addError("number (0, 1, 2, etc.) expected")
					return nil, false
				}
			}
			if !p.tokens.MatchType(GreaterThanSignToken) {
				p.addError("greater than sign `>` expected")
				return nil, false
			}
		}
		return node, true

	case OpeningBracketToken:
		node := &groupNode{head: *p.tokens.Token(), kind: bracketGroup}
		p.tokens.Next()
		alternatives, ok := p.readAlternatives()
		if !ok {
			return nil, false
		}
		node.alternatives = alternatives
		if !p.tokens.MatchType(ClosingBracketToken) {
			p.addError("closing bracket `]` expected")
			return nil, false
		}
		return node, true

	case OpeningParenthesisToken:
		node := &groupNode{head: *p.tokens.Token(), kind: parenthesisGroup}
		p.tokens.Next()
		alternatives, ok := p.readAlternatives()
		if !ok {
			return nil, false
		}
		node.alternatives = alternatives
		if !p.tokens.MatchType(ClosingParenthesisToken) {
			p.addError("closing parenthesis `)` expected")
			return nil, false
		}
		return node, true
	}

	return nil, true
}

// readElements reads a non-empty element list.
func (p *patternParser) readElements() ([]bodyNode, bool) {
	var elements []bodyNode
	for {
		element, ok := p.readElement()
		if !ok {
			return nil, false
		}
		if element == nil {
			break
		}
		elements = append(elements, element)
	}
	if len(elements) == 0 {
		p.addError("at least one pattern element expected")
		return nil, false
	}
	return elements, true
}

func (p *patternParser) readMatchingCondition(condition *matchingConditionNode) bool {
	var first extendedName
	if !p.readExtendedName(&first) {
		return false
	}
	condition.names = append(condition.names, first)

	condition.strong = p.tokens.CheckType(DoubleEqualSignToken)
	if !p.tokens.MatchType(DoubleEqualSignToken) && !p.tokens.MatchType(EqualSignToken) {
		p.addError("equal sign `=` or double equal `==` sign expected")
		return false
	}

	for {
		var name extendedName
		if !p.readExtendedName(&name) {
			return false
		}
		condition.names = append(condition.names, name)

		// inconsistent mixing is reported but does not abort
		if p.tokens.CheckType(EqualSignToken) && condition.strong ||
			p.tokens.CheckType(DoubleEqualSignToken) && !condition.strong {
			p.errors.AddError(lspl.FormatErrorPos(p.tokens.Token(), UnexpectedTokenError, lspl.Error,
				"inconsistent equal sign `=` and double equal `==` sign"))
		}
		if !p.tokens.MatchType(EqualSignToken) && !p.tokens.MatchType(DoubleEqualSignToken) {
			break
		}
	}
	return true
}

// readDictionaryCondition reads Identifier `(` group { `,` group } `)` where
// group is a non-empty identifier list.
func (p *patternParser) readDictionaryCondition(condition *dictionaryConditionNode) bool {
	name := p.tokens.MatchToken(IdentifierToken)
	if name == nil {
		p.addError("dictionary name expected")
		return false
	}
	condition.name = *name
	if !p.tokens.MatchType(OpeningParenthesisToken) {
		p.addError("opening parenthesis `(` expected")
		return false
	}
	for {
		var group []Token
		for p.tokens.CheckType(IdentifierToken) {
			group = append(group, *p.tokens.Token())
			p.tokens.Next()
		}
		if len(group) == 0 {
			p.addError("at least one pattern element expected")
			return false
		}
		condition.groups = append(condition.groups, group)
		if !p.tokens.MatchType(CommaToken) {
			break
		}
	}
	if !p.tokens.MatchType(ClosingParenthesisToken) {
		p.addError("closing parenthesis `)` expected")
		return false
	}
	return true
}

// readAlternativeCondition needs one-token lookahead to tell a dictionary
// call from an agreement.
func (p *patternParser) readAlternativeCondition(alternative *alternativeNode) bool {
	if p.tokens.CheckType(OpeningParenthesisToken, 1) {
		var condition dictionaryConditionNode
		if !p.readDictionaryCondition(&condition) {
			return false
		}
		alternative.dictionaries = append(alternative.dictionaries, condition)
		return true
	}

	var condition matchingConditionNode
	if !p.readMatchingCondition(&condition) {
		return false
	}
	alternative.matching = append(alternative.matching, condition)
	return true
}

// readAlternativeConditions reads << ... >>.
func (p *patternParser) readAlternativeConditions(alternative *alternativeNode) bool {
	if p.tokens.MatchType(DoubleLessThanSignToken) {
		for {
			if !p.readAlternativeCondition(alternative) {
				return false
			}
			if !p.tokens.MatchType(CommaToken) {
				break
			}
		}
		if !p.tokens.MatchType(DoubleGreaterThanSignToken) {
			p.addError("double greater than sign `>>` expected")
			return false
		}
	}
	return true
}

func (p *patternParser) readAlternative() (*alternativeNode, bool) {
	alternative := &alternativeNode{}
	for {
		elements, ok := p.readElements()
		if !ok {
			return nil, false
		}
		alternative.segments = append(alternative.segments, elements)
		if !p.tokens.MatchType(TildeToken) {
			break
		}
	}

	if !p.readAlternativeConditions(alternative) {
		return nil, false
	}
	return alternative, true
}

func (p *patternParser) readAlternatives() ([]*alternativeNode, bool) {
	var alternatives []*alternativeNode
	for {
		alternative, ok := p.readAlternative()
		if !ok {
			return nil, false
		}
		alternatives = append(alternatives, alternative)
		if !p.tokens.MatchType(VerticalBarToken) {
			break
		}
	}
	return alternatives, true
}

// Text extraction patterns are parsed for grammar completeness and discarded.

func (p *patternParser) readTextExtractionPrefix() bool {
	if p.tokens.CheckType(EqualSignToken) &&
		p.tokens.CheckType(IdentifierToken, 1) &&
		p.tokens.TokenAt(1).Text == "text" &&
		p.tokens.CheckType(GreaterThanSignToken, 2) {
		p.tokens.Next(3)
		return true
	}
	return false
}

func (p *patternParser) readTextExtractionPatterns() bool {
	if p.readTextExtractionPrefix() {
		for {
			if !p.readTextExtractionPattern() {
				return false
			}
			if !p.tokens.MatchType(CommaToken) {
				break
			}
		}
	}
	return true
}

func (p *patternParser) readTextExtractionPattern() bool {
	if !p.readTextExtractionElements() {
		return false
	}

	if p.tokens.MatchType(DoubleLessThanSignToken) {
		for {
			var name extendedName
			if !p.readExtendedName(&name) {
				return false
			}
			if !p.tokens.MatchType(TildeGreaterThanSignToken) {
				p.addError("tilde and greater than sign `~>` expected")
				return false
			}
			if !p.readExtendedName(&name) {
				return false
			}
			if !p.tokens.MatchType(CommaToken) {
				break
			}
		}
		if !p.tokens.MatchType(DoubleGreaterThanSignToken) {
			p.addError("double greater than sign `>>` expected")
			return false
		}
	}
	return true
}

func (p *patternParser) readTextExtractionElements() bool {
	if !p.readTextExtractionElement(true) {
		return false
	}
	for p.readTextExtractionElement(false) {
	}
	return true
}

func (p *patternParser) readTextExtractionElement(required bool) bool {
	switch {
	case p.tokens.MatchType(RegexpToken):
	case p.tokens.MatchType(NumberSignToken):
		if !p.tokens.MatchType(IdentifierToken) {
			p.addError("word class or pattern name expected")
			return false
		}
	case p.tokens.MatchType(IdentifierToken):
		if p.tokens.MatchType(LessThanSignToken) {
			for p.tokens.MatchType(IdentifierToken) {
				if !p.tokens.MatchType(RegexpToken) && !p.tokens.MatchType(IdentifierToken) {
					p.addError("regular expression or word class attribute value expected")
					return false
				}
			}
			if !p.tokens.MatchType(GreaterThanSignToken) {
				p.addError("greater than sign `>` expected")
				return false
			}
		}
	default:
		if required {
			p.addError("text extraction element expected")
		}
		return false
	}
	return true
}
