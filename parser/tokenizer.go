package parser

import (
	"regexp"
	"unicode/utf8"

	"github.com/lspl-tools/lspl/internal/chars"
)

// The tokenizer is driven by a single regular expression: each token type
// maps to its own capturing group, a match with no captured group is an
// insignificant lexeme (whitespace).
var tokenRe *regexp.Regexp

const (
	regexpGroup = iota + 1
	numberGroup
	identifierGroup
	opGroup
	wrongGroup
)

var opTypes = map[string]TokenType{
	".":  DotToken,
	",":  CommaToken,
	"=":  EqualSignToken,
	"==": DoubleEqualSignToken,
	"!=": ExclamationEqualSignToken,
	"<":  LessThanSignToken,
	">":  GreaterThanSignToken,
	"<<": DoubleLessThanSignToken,
	">>": DoubleGreaterThanSignToken,
	"(":  OpeningParenthesisToken,
	")":  ClosingParenthesisToken,
	"{":  OpeningBraceToken,
	"}":  ClosingBraceToken,
	"[":  OpeningBracketToken,
	"]":  ClosingBracketToken,
	"|":  VerticalBarToken,
	"~":  TildeToken,
	"~>": TildeGreaterThanSignToken,
	"#":  NumberSignToken,
}

func init() {
	tokenRe = regexp.MustCompile(
		`^(?:[ \t]+|` +
			`("(?:[^\\"]|\\.)*")|` +
			`([0-9]+)|` +
			`([\p{L}_][\p{L}0-9_]*)|` +
			`(==|=|!=|<<|<|>>|>|~>|~|\(|\)|\{|\}|\[|\]|\||,|\.|#)|` +
			`(.))`)
}

// Tokenizer converts pattern source lines to tokens, reporting lexical
// errors through the error processor.
type Tokenizer struct {
	sourceName string
	errors     *ErrorProcessor
}

func NewTokenizer(sourceName string, errors *ErrorProcessor) *Tokenizer {
	return &Tokenizer{sourceName, errors}
}

// TokenizeLine appends the tokens of one source line; tabs are expanded
// before scanning, columns are counted in runes.
func (t *Tokenizer) TokenizeLine(tokens []Token, line string, lineNo int) []Token {
	line = chars.ReplaceTabs(line)

	pos := 0
	for pos < len(line) {
		match := tokenRe.FindStringSubmatchIndex(line[pos:])
		if match == nil {
			break
		}

		group := 0
		for g := regexpGroup; g <= wrongGroup; g++ {
			if match[2*g] >= 0 {
				group = g
				break
			}
		}

		col := utf8.RuneCountInString(line[:pos+match[0]]) + 1
		text := line[pos+match[0] : pos+match[1]]
		switch group {
		case 0:
			// insignificant
		case wrongGroup:
			char, _ := utf8.DecodeRuneInString(text)
			t.errors.AddError(wrongCharError(t.sourceName, lineNo, col, char))
		default:
			token := Token{Text: text, sourceName: t.sourceName, line: lineNo, col: col}
			switch group {
			case regexpGroup:
				token.Type = RegexpToken
			case numberGroup:
				token.Type = NumberToken
			case identifierGroup:
				token.Type = IdentifierToken
			case opGroup:
				token.Type = opTypes[text]
			}
			tokens = append(tokens, token)
		}

		pos += match[1]
	}
	return tokens
}
