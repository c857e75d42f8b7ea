package text

import (
	"encoding/json"
	"os"

	"github.com/lspl-tools/lspl/configuration"
)

// StringInterner maps open-domain (string sign) values to stable ids.
// The pattern table implements this interface so that restrictions written in
// patterns and values met in texts share one id space.
type StringInterner interface {
	StringIndex(value string) int
}

type wordJSON struct {
	Word        *string             `json:"word"`
	Annotations []map[string]string `json:"annotations"`
}

type textJSON struct {
	Text *[]wordJSON `json:"text"`
}

// LoadFromBytes parses a text file: a JSON object {"text": [word...]} where
// each word is {"word": string, "annotations": [{attrName: value, ...}, ...]}.
// Every annotation must bind the main attribute. Unknown attribute names are
// ignored; an unknown value of an enum attribute fails the load.
func LoadFromBytes(conf *configuration.Configuration, interner StringInterner, data []byte) (*Text, error) {
	var doc textJSON
	e := json.Unmarshal(data, &doc)
	if e != nil {
		return nil, parseError(e)
	}
	if doc.Text == nil {
		return nil, badTextError()
	}

	wordSigns := conf.WordSigns()
	words := make([]Word, 0, len(*doc.Text))
	for wi, wordObject := range *doc.Text {
		if wordObject.Word == nil || len(wordObject.Annotations) == 0 {
			return nil, badWordError(wi)
		}

		word := Word{Text: *wordObject.Word}
		for ai, attrObject := range wordObject.Annotations {
			if len(attrObject) == 0 {
				return nil, badAnnotationError(wi, ai)
			}

			attributes := make([]rune, wordSigns.Size())
			for i := range attributes {
				attributes[i] = NullAttributeValue
			}
			for name, value := range attrObject {
				index, has := wordSigns.Find(name)
				if !has {
					continue
				}
				sign := wordSigns.At(index)
				var valueIndex int
				if sign.Type == configuration.StringSign {
					valueIndex = interner.StringIndex(value)
				} else {
					valueIndex, has = sign.Values.Find(value)
					if !has {
						return nil, unknownValueError(wi, name, value)
					}
				}
				attributes[index] = AttributeRune(sign.Type, valueIndex)
			}

			if attributes[MainAttribute] == NullAttributeValue {
				return nil, noMainAttributeError(wi, ai)
			}
			word.Annotations = append(word.Annotations, NewAnnotation(string(attributes)))
		}
		words = append(words, word)
	}

	return New(words, conf), nil
}

// LoadFromFile reads and parses a text file.
func LoadFromFile(conf *configuration.Configuration, interner StringInterner, filename string) (*Text, error) {
	data, e := os.ReadFile(filename)
	if e != nil {
		return nil, fileError(e)
	}
	return LoadFromBytes(conf, interner, data)
}
