package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/lspl-tools/lspl/configuration"
	"github.com/lspl-tools/lspl/match"
	"github.com/lspl-tools/lspl/parser"
	"github.com/lspl-tools/lspl/pattern"
	"github.com/lspl-tools/lspl/text"
)

const historyFile = ".lspl_history"

var (
	maxSize       int
	printVariants bool
	interactive   bool
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "Usage is  lspl [-s <size>] [-v] [-i] CONFIG PATTERNS TEXT RESULT")
		flag.PrintDefaults()
		fmt.Fprintln(flag.CommandLine.Output(), "  RESULT")
		fmt.Fprintln(flag.CommandLine.Output(), "\tresult file name, \"-\" for standard output")
	}

	flag.IntVar(&maxSize, "s", 12, "variant expansion budget")
	flag.BoolVar(&printVariants, "v", false, "print every pattern with its expanded variants")
	flag.BoolVar(&interactive, "i", false, "open an interactive console after matching")
	flag.Parse()
	if flag.NArg() != 4 {
		flag.Usage()
		os.Exit(2)
	}

	os.Exit(run(flag.Arg(0), flag.Arg(1), flag.Arg(2), flag.Arg(3)))
}

func run(configFile, patternsFile, textFile, resultFile string) int {
	conf, e := configuration.LoadFromFile(configFile)
	if e != nil {
		fmt.Fprintln(os.Stderr, e.Error())
		return 1
	}

	errors := parser.NewErrorProcessor()
	builder := parser.NewBuilder(conf, errors)
	builder.ReadFromFile(patternsFile)
	builder.CheckAndBuildIfPossible()
	if errors.HasAnyErrors() {
		errors.PrintErrors(os.Stderr, patternsFile)
		return 1
	}
	patterns := builder.GetResult()

	txt, e := text.LoadFromFile(conf, patterns, textFile)
	if e != nil {
		fmt.Fprintln(os.Stderr, e.Error())
		return 1
	}

	out := io.Writer(os.Stdout)
	if resultFile != "-" {
		file, e := os.Create(resultFile)
		if e != nil {
			fmt.Fprintln(os.Stderr, e.Error())
			return 1
		}
		defer file.Close()
		out = file
	}

	if printVariants {
		patterns.Print(out, maxSize)
	}
	for ref := 0; ref < patterns.Size(); ref++ {
		matchPattern(patterns, ref, txt, out)
	}

	if interactive {
		return console(conf, patternsFile, textFile)
	}
	return 0
}

// matchPattern expands one pattern, builds its state table, and reports
// every occurrence in the text.
func matchPattern(patterns *pattern.Patterns, ref int, txt *text.Text, out io.Writer) {
	buildContext := pattern.NewBuildContext(patterns)
	var variants pattern.Variants
	patterns.Pattern(ref).Build(buildContext, &variants, maxSize)
	variants.Build(buildContext, ref)

	matchContext := match.NewContext(txt, buildContext.States)
	matchContext.SetCallback(func(ref, begin, end int, data []text.AnnotationIndices) {
		var b strings.Builder
		b.WriteString(patterns.Pattern(ref).Name())
		b.WriteString(": {")
		for wi := begin; wi <= end; wi++ {
			if wi > begin {
				b.WriteString(" ")
			}
			b.WriteString(txt.Word(wi).Text)
		}
		b.WriteString("}")
		fmt.Fprintln(out, b.String())
	})
	for wi := 0; wi < txt.Len(); wi++ {
		matchContext.Match(wi)
	}
}

// console reads pattern definitions interactively and matches each one
// against the text. The text is reloaded per entry so that interned string
// values stay aligned with the rebuilt pattern table.
func console(conf *configuration.Configuration, patternsFile, textFile string) int {
	fmt.Println("lspl console. Ctrl+C cancels input, Ctrl+D exits. Type :quit to exit.")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	var extraDefinitions []string
	for {
		line, err := ln.Prompt("lspl> ")
		if err == liner.ErrPromptAborted {
			continue
		}
		if err != nil {
			fmt.Println()
			return 0
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.TrimSpace(line) == ":quit" {
			return 0
		}

		errors := parser.NewErrorProcessor()
		builder := parser.NewBuilder(conf, errors)
		builder.ReadFromFile(patternsFile)
		for i, definition := range extraDefinitions {
			builder.AddDefinition(fmt.Sprintf("console#%d", i+1), definition)
		}
		builder.AddDefinition("console", line)
		builder.CheckAndBuildIfPossible()
		if errors.HasAnyErrors() {
			errors.PrintErrors(os.Stderr, patternsFile)
			continue
		}

		patterns := builder.GetResult()
		txt, err := text.LoadFromFile(conf, patterns, textFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			continue
		}
		ref := patterns.Size() - 1
		fmt.Println(patterns.Pattern(ref).Print(patterns))
		matchPattern(patterns, ref, txt, os.Stdout)
		extraDefinitions = append(extraDefinitions, line)
		ln.AppendHistory(line)
	}
}
