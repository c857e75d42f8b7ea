package pattern

import (
	"fmt"
	"io"
	"strings"

	"github.com/lspl-tools/lspl/configuration"
)

// Pattern is a named pattern with its formal arguments.
type Pattern struct {
	name      string
	root      Base
	arguments Arguments
}

func NewPattern(name string, root Base, arguments Arguments) Pattern {
	if name == "" || root == nil {
		panic("incomplete pattern")
	}
	return Pattern{name, root, arguments}
}

func (p *Pattern) Name() string {
	return p.name
}

func (p *Pattern) Arguments() Arguments {
	return p.arguments
}

func (p *Pattern) Print(context *Patterns) string {
	var b strings.Builder
	b.WriteString(p.name)
	if len(p.arguments) > 0 {
		b.WriteString("( ")
		for i, argument := range p.arguments {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(argument.Print(context))
		}
		b.WriteString(" )")
	}
	b.WriteString(" = ")
	b.WriteString(p.root.Print(context))
	return b.String()
}

func (p *Pattern) MinSize() int {
	return p.root.MinSize()
}

// Build expands the pattern into variants of at most maxSize words and
// remaps every word id: a word realizing a formal argument becomes a
// reference element of this pattern, everything else becomes anonymous.
func (p *Pattern) Build(context *BuildContext, variants *Variants, maxSize int) {
	if maxSize > MaxVariantSize {
		maxSize = MaxVariantSize
	}
	correctMaxSize := context.PushMaxSize(p.name, maxSize)
	p.root.Build(context, variants, correctMaxSize)
	topMaxSize := context.PopMaxSize(p.name)
	if topMaxSize != correctMaxSize {
		panic("unbalanced budget stack for pattern " + p.name)
	}

	mainSize := context.Patterns().Configuration().WordSigns().Main().Values.Size()
	reference, _ := context.Patterns().PatternReference(p.name, 0)
	for _, variant := range *variants {
		for wi := range variant {
			word := &variant[wi]
			if word.ID.Type != ArgumentElement {
				word.ID = Argument{}
				continue
			}
			matched := false
			for i, argument := range p.arguments {
				if !argument.HasReference() && word.ID.Element == argument.Element {
					word.ID.Type = ArgumentReferenceElement
					word.ID.Element = word.ID.Element%mainSize + i*mainSize
					word.ID.Reference = reference
					matched = true
					break
				}
			}
			if !matched {
				word.ID = Argument{}
			}
		}
	}
}

// Patterns is the flat append-only pattern table shared by expansion,
// rendering, and text loading. References carry ids, not pointers.
type Patterns struct {
	configuration *configuration.Configuration
	patterns      []Pattern
	names         map[string]int

	strings       []string
	stringIndices map[string]int

	dictionaries      []string
	dictionaryIndices map[string]int
}

func NewPatterns(conf *configuration.Configuration) *Patterns {
	if conf == nil {
		panic("patterns without a configuration")
	}
	return &Patterns{
		configuration:     conf,
		names:             make(map[string]int),
		stringIndices:     make(map[string]int),
		dictionaryIndices: make(map[string]int),
	}
}

func (p *Patterns) Configuration() *configuration.Configuration {
	return p.configuration
}

func (p *Patterns) Size() int {
	return len(p.patterns)
}

// AddName reserves a table position for a pattern name.
// Returns the position and whether it was newly reserved.
func (p *Patterns) AddName(name string) (int, bool) {
	position, has := p.names[name]
	if has {
		return position, false
	}
	position = len(p.patterns)
	p.names[name] = position
	p.patterns = append(p.patterns, Pattern{})
	return position, true
}

// Define fills a previously reserved table position.
func (p *Patterns) Define(position int, pattern Pattern) {
	p.patterns[position] = pattern
}

// Pattern resolves a reference to its pattern.
func (p *Patterns) Pattern(reference int) *Pattern {
	return &p.patterns[reference%len(p.patterns)]
}

// PatternReference packs a pattern name and a decoration index into a
// reference id.
func (p *Patterns) PatternReference(name string, nameIndex int) (int, bool) {
	position, has := p.names[name]
	if !has {
		return 0, false
	}
	return position + nameIndex*len(p.patterns), true
}

// Element renders a packed element id as its decorated name.
func (p *Patterns) Element(element int) string {
	values := p.configuration.WordSigns().Main().Values
	name := IndexedName{
		Name:  values.Value(element % values.Size()),
		Index: element / values.Size(),
	}
	return name.Normalize()
}

// Reference renders a packed reference id as its decorated name.
func (p *Patterns) Reference(reference int) string {
	name := IndexedName{
		Name:  p.patterns[reference%len(p.patterns)].Name(),
		Index: reference / len(p.patterns),
	}
	return name.Normalize()
}

// SignName returns the canonical name of a sign.
func (p *Patterns) SignName(sign int) string {
	return p.configuration.WordSigns().At(sign).Names.Value(0)
}

// SignValue renders a value id of a sign.
func (p *Patterns) SignValue(sign, value int) string {
	wordSign := p.configuration.WordSigns().At(sign)
	if wordSign.Type == configuration.StringSign {
		return p.String(value)
	}
	return wordSign.Values.Value(value)
}

// StringIndex interns an open-domain value and returns its id.
func (p *Patterns) StringIndex(value string) int {
	index, has := p.stringIndices[value]
	if has {
		return index
	}
	index = len(p.strings)
	p.strings = append(p.strings, value)
	p.stringIndices[value] = index
	return index
}

// String returns an interned open-domain value.
func (p *Patterns) String(index int) string {
	return p.strings[index]
}

// DictionaryIndex interns a dictionary name and returns its id.
func (p *Patterns) DictionaryIndex(name string) int {
	index, has := p.dictionaryIndices[name]
	if has {
		return index
	}
	index = len(p.dictionaries)
	p.dictionaries = append(p.dictionaries, name)
	p.dictionaryIndices[name] = index
	return index
}

// Dictionary returns an interned dictionary name.
func (p *Patterns) Dictionary(index int) string {
	return p.dictionaries[index]
}

// Print renders every pattern with its variants expanded under the given
// budget.
func (p *Patterns) Print(out io.Writer, maxSize int) {
	for i := range p.patterns {
		pattern := &p.patterns[i]
		fmt.Fprintln(out, pattern.Print(p))
		buildContext := NewBuildContext(p)
		var variants Variants
		pattern.Build(buildContext, &variants, maxSize)
		fmt.Fprint(out, variants.Print(p))
		fmt.Fprintln(out)
	}
}
