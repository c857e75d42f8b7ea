package configuration

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/lspl-tools/lspl/util/ordered"
)

// JSONSchemeText is the JSON schema every configuration file must conform to.
// It is exported so that tests can validate sample files directly.
const JSONSchemeText = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["word_signs"],
  "additionalProperties": false,
  "properties": {
    "word_signs": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["type", "names", "consistent"],
        "additionalProperties": false,
        "properties": {
          "type": { "enum": ["main", "enum", "string"] },
          "names": {
            "type": "array",
            "minItems": 1,
            "items": { "type": "string", "minLength": 1 }
          },
          "values": {
            "type": "array",
            "items": { "type": "string", "minLength": 1 }
          },
          "consistent": { "type": "boolean" }
        }
      }
    }
  }
}`

var jsonScheme *jsonschema.Schema

func init() {
	doc, e := jsonschema.UnmarshalJSON(strings.NewReader(JSONSchemeText))
	if e != nil {
		panic("bad configuration scheme: " + e.Error())
	}
	compiler := jsonschema.NewCompiler()
	e = compiler.AddResource("configuration.schema.json", doc)
	if e == nil {
		jsonScheme, e = compiler.Compile("configuration.schema.json")
	}
	if e != nil {
		panic("bad configuration scheme: " + e.Error())
	}
}

type wordSignJSON struct {
	Type       string   `json:"type"`
	Names      []string `json:"names"`
	Values     []string `json:"values"`
	Consistent bool     `json:"consistent"`
}

type configurationJSON struct {
	WordSigns []wordSignJSON `json:"word_signs"`
}

var wordSignTypes = map[string]WordSignType{
	"main":   MainSign,
	"enum":   EnumSign,
	"string": StringSign,
}

// LoadFromBytes parses and validates a configuration file.
// Returns nil and *lspl.Err of CriticalError severity on any failure.
func LoadFromBytes(data []byte) (*Configuration, error) {
	instance, e := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if e != nil {
		return nil, parseError(e)
	}
	e = jsonScheme.Validate(instance)
	if e != nil {
		return nil, schemeError(e)
	}

	var doc configurationJSON
	e = json.Unmarshal(data, &doc)
	if e != nil {
		return nil, parseError(e)
	}

	builder := NewWordSignsBuilder()
	for _, sign := range doc.WordSigns {
		builder.Add(WordSign{
			Type:       wordSignTypes[sign.Type],
			Names:      ordered.New(sign.Names...),
			Values:     ordered.New(sign.Values...),
			Consistent: sign.Consistent,
		})
	}

	wordSigns, e := builder.Build()
	if e != nil {
		return nil, e
	}
	return NewConfiguration(wordSigns), nil
}

// LoadFromFile reads and parses a configuration file.
func LoadFromFile(filename string) (*Configuration, error) {
	data, e := os.ReadFile(filename)
	if e != nil {
		return nil, fileError(e)
	}
	return LoadFromBytes(data)
}
