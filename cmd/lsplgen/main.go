package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/dave/jennifer/jen"

	"github.com/lspl-tools/lspl/configuration"
	"github.com/lspl-tools/lspl/match"
	"github.com/lspl-tools/lspl/parser"
	"github.com/lspl-tools/lspl/pattern"
)

const matchPackage = "github.com/lspl-tools/lspl/match"

var (
	maxSize                           int
	outFileName, packageName, varName string
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "Usage is  lsplgen [-p <name>] [-v <name>] [-s <size>] [-o <name>] CONFIG PATTERNS")
		flag.PrintDefaults()
	}

	flag.StringVar(&outFileName, "o", "", "output file name, default is the name of the patterns file with .go suffix")
	flag.StringVar(&packageName, "p", "", "Go package name, default is dir name of output file")
	flag.StringVar(&varName, "v", "StateTable", "Go variable name")
	flag.IntVar(&maxSize, "s", 12, "variant expansion budget")
	flag.Parse()
	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}
	configFile := flag.Arg(0)
	patternsFile := flag.Arg(1)

	if outFileName == "" {
		ext := filepath.Ext(patternsFile)
		outFileName = patternsFile[:len(patternsFile)-len(ext)] + ".go"
	}

	e := generate(configFile, patternsFile)
	if e != nil {
		fmt.Fprintln(os.Stderr, e.Error())
		os.Exit(1)
	}
}

func generate(configFile, patternsFile string) error {
	conf, e := configuration.LoadFromFile(configFile)
	if e != nil {
		return e
	}

	errors := parser.NewErrorProcessor()
	builder := parser.NewBuilder(conf, errors)
	builder.ReadFromFile(patternsFile)
	builder.CheckAndBuildIfPossible()
	if errors.HasAnyErrors() {
		errors.PrintErrors(os.Stderr, patternsFile)
		return fmt.Errorf("cannot compile %s", patternsFile)
	}
	patterns := builder.GetResult()

	buildContext := pattern.NewBuildContext(patterns)
	for ref := 0; ref < patterns.Size(); ref++ {
		var variants pattern.Variants
		patterns.Pattern(ref).Build(buildContext, &variants, maxSize)
		variants.Build(buildContext, ref)
	}

	return writeGo(buildContext.States)
}

func writeGo(states match.StateTable) error {
	if packageName == "" {
		dir, e := filepath.Abs(outFileName)
		if e != nil {
			return e
		}
		dir, _ = filepath.Split(dir)
		_, packageName = filepath.Split(dir[:len(dir)-1])
	}

	re := regexp.MustCompile("^[A-Za-z_][A-Za-z_0-9]*$")
	if !re.MatchString(packageName) {
		return fmt.Errorf("invalid package name: %s", packageName)
	}
	if !re.MatchString(varName) {
		return fmt.Errorf("invalid variable name: %s", varName)
	}

	f := jen.NewFile(packageName)
	f.HeaderComment("Code generated by lsplgen. DO NOT EDIT.")

	stateValues := make([]jen.Code, len(states))
	for i, state := range states {
		entries := jen.Dict{}
		if len(state.Actions) > 0 {
			actionValues := make([]jen.Code, len(state.Actions))
			for j, action := range state.Actions {
				actionValues[j] = actionCode(action)
			}
			entries[jen.Id("Actions")] = jen.Qual(matchPackage, "Actions").Values(actionValues...)
		}
		if len(state.Transitions) > 0 {
			transitionValues := make([]jen.Code, len(state.Transitions))
			for j, transition := range state.Transitions {
				transitionValues[j] = jen.Values(jen.Dict{
					jen.Id("Word"): jen.Lit(transition.Word),
					jen.Id("Re"):   jen.Qual("regexp", "MustCompile").Call(jen.Lit(transition.Re.String())),
					jen.Id("Next"): jen.Lit(transition.Next),
				})
			}
			entries[jen.Id("Transitions")] = jen.Index().Qual(matchPackage, "Transition").Values(transitionValues...)
		}
		stateValues[i] = jen.Values(entries)
	}

	f.Var().Id(varName).Op("=").Qual(matchPackage, "StateTable").Values(stateValues...)
	return f.Save(outFileName)
}

func actionCode(action match.Action) jen.Code {
	switch a := action.(type) {
	case match.AgreementAction:
		return jen.Qual(matchPackage, "AgreementAction").Values(jen.Dict{
			jen.Id("Condition"): conditionCode(a.Condition),
		})
	case match.DictionaryAction:
		return jen.Qual(matchPackage, "DictionaryAction").Values(jen.Dict{
			jen.Id("Condition"): conditionCode(a.Condition),
		})
	case match.CallbackAction:
		return jen.Qual(matchPackage, "CallbackAction").Values(jen.Dict{
			jen.Id("Ref"): jen.Lit(a.Ref),
		})
	}
	panic("unknown action type")
}

func conditionCode(condition match.WordCondition) jen.Code {
	offsets := make([]jen.Code, len(condition.Offsets))
	for i, offset := range condition.Offsets {
		offsets[i] = jen.Lit(int(offset))
	}
	return jen.Qual(matchPackage, "WordCondition").Values(jen.Dict{
		jen.Id("Strong"):  jen.Lit(condition.Strong),
		jen.Id("Param"):   jen.Lit(condition.Param),
		jen.Id("Offsets"): jen.Index().Uint8().Values(offsets...),
	})
}
