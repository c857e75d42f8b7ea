package pattern

import (
	"strings"
	"testing"

	"github.com/lspl-tools/lspl/match"
)

const (
	elementA  = 0 // main value "A"
	elementN  = 1 // main value "N"
	elementPa = 2 // main value "Pa"
)

func alt(body Base) *Alternative {
	return NewAlternative(body, NewConditions(nil))
}

func definePattern(patterns *Patterns, name string, root Base, arguments Arguments) int {
	position, _ := patterns.AddName(name)
	patterns.Define(position, NewPattern(name, root, arguments))
	return position
}

func expand(t *testing.T, patterns *Patterns, ref, maxSize int) Variants {
	t.Helper()
	context := NewBuildContext(patterns)
	var variants Variants
	patterns.Pattern(ref).Build(context, &variants, maxSize)
	return variants
}

func renders(patterns *Patterns, variants Variants) []string {
	result := make([]string, len(variants))
	for i, variant := range variants {
		result[i] = variant.Print(patterns)
	}
	return result
}

func checkRenders(t *testing.T, name string, patterns *Patterns, variants Variants, expected ...string) {
	t.Helper()
	got := renders(patterns, variants)
	if len(got) != len(expected) {
		t.Errorf("%s: expected %d variants, got %d: %s", name, len(expected), len(got), strings.Join(got, " ; "))
		return
	}
	for i, r := range expected {
		if got[i] != r {
			t.Errorf("%s: variant #%d: expected %q, got %q", name, i, r, got[i])
		}
	}
}

func TestRegexpBudget(t *testing.T) {
	patterns := testPatterns(t)
	ref := definePattern(patterns, "A", alt(NewRegexp("x")), nil)

	checkRenders(t, "budget 0", patterns, expand(t, patterns, ref, 0))
	checkRenders(t, "budget 1", patterns, expand(t, patterns, ref, 1), `"x"`)
}

func TestRepeatingBounds(t *testing.T) {
	patterns := testPatterns(t)
	ref := definePattern(patterns, "A", alt(NewRepeating(NewRegexp("x"), 2, 4)), nil)

	checkRenders(t, "budget 3", patterns, expand(t, patterns, ref, 3),
		`"x" "x"`, `"x" "x" "x"`)
	checkRenders(t, "budget 1", patterns, expand(t, patterns, ref, 1))
}

func TestOptionalElement(t *testing.T) {
	patterns := testPatterns(t)
	body := NewSequence([]Base{
		NewRepeating(NewRegexp("x"), 0, 1),
		NewRegexp("y"),
	}, false)
	ref := definePattern(patterns, "A", alt(body), nil)

	checkRenders(t, "budget 2", patterns, expand(t, patterns, ref, 2),
		`"x" "y"`, `"y"`)
}

func TestTransposition(t *testing.T) {
	patterns := testPatterns(t)
	straight := definePattern(patterns, "S",
		alt(NewSequence([]Base{NewRegexp("x"), NewRegexp("y")}, false)), nil)
	transposed := definePattern(patterns, "T",
		alt(NewSequence([]Base{NewRegexp("x"), NewRegexp("y")}, true)), nil)

	checkRenders(t, "straight", patterns, expand(t, patterns, straight, 2), `"x" "y"`)

	variants := expand(t, patterns, transposed, 2)
	variants.SortAndRemoveDuplicates(patterns)
	checkRenders(t, "transposed", patterns, variants, `"x" "y"`, `"y" "x"`)
}

func TestArgumentRemapping(t *testing.T) {
	patterns := testPatterns(t)
	arguments := Arguments{{Type: ArgumentElement, Element: elementA}}
	ref := definePattern(patterns, "Top", alt(NewElement(elementA, SignRestrictions{})), arguments)

	variants := expand(t, patterns, ref, 1)
	if len(variants) != 1 || len(variants[0]) != 1 {
		t.Fatal("expected a single one-word variant")
	}
	word := variants[0][0]
	if word.ID.Type != ArgumentReferenceElement {
		t.Fatal("word realizing a formal argument not remapped")
	}
	if word.ID.Reference != ref {
		t.Errorf("expected self reference %d, got %d", ref, word.ID.Reference)
	}
	mainSize := patterns.Configuration().WordSigns().Main().Values.Size()
	if word.ID.Element != elementA%mainSize+0*mainSize {
		t.Errorf("wrong remapped element %d", word.ID.Element)
	}
}

func TestAnonymousRemapping(t *testing.T) {
	patterns := testPatterns(t)
	ref := definePattern(patterns, "A", alt(NewElement(elementN, SignRestrictions{})), nil)

	variants := expand(t, patterns, ref, 1)
	if len(variants) != 1 || len(variants[0]) != 1 {
		t.Fatal("expected a single one-word variant")
	}
	if variants[0][0].ID.Defined() {
		t.Error("word matching no formal argument kept its id")
	}
}

func TestReferenceProjection(t *testing.T) {
	patterns := testPatterns(t)
	subArguments := Arguments{{Type: ArgumentElement, Element: elementPa}}
	var subSigns SignRestrictions
	subSigns.Add(restriction(elementPa, caseSign, false, 1, 2))
	subRef := definePattern(patterns, "Sub", alt(NewElement(elementPa, subSigns)), subArguments)

	mainSize := patterns.Configuration().WordSigns().Main().Values.Size()
	var callerSigns SignRestrictions
	callerSigns.Add(restriction(elementPa%mainSize, caseSign, false, 2))
	topRef := definePattern(patterns, "Top", alt(NewReference(subRef, callerSigns)), nil)

	variants := expand(t, patterns, topRef, 1)
	if len(variants) != 1 || len(variants[0]) != 1 {
		t.Fatal("expected a single one-word variant")
	}
	merged, has := variants[0][0].Signs.signRestriction(caseSign)
	if !has {
		t.Fatal("projected restriction lost")
	}
	if merged.exclude || merged.values.Size() != 1 || merged.values.Value(0) != 2 {
		t.Error("caller restriction not intersected into the referenced word")
	}
}

func TestReferenceProjectionDiscardsEmpty(t *testing.T) {
	patterns := testPatterns(t)
	subArguments := Arguments{{Type: ArgumentElement, Element: elementPa}}
	var subSigns SignRestrictions
	subSigns.Add(restriction(elementPa, caseSign, false, 1))
	subRef := definePattern(patterns, "Sub", alt(NewElement(elementPa, subSigns)), subArguments)

	var callerSigns SignRestrictions
	callerSigns.Add(restriction(elementPa, caseSign, false, 2))
	topRef := definePattern(patterns, "Top", alt(NewReference(subRef, callerSigns)), nil)

	checkRenders(t, "empty projection", patterns, expand(t, patterns, topRef, 1))
}

func TestRecursionTermination(t *testing.T) {
	patterns := testPatterns(t)
	position, _ := patterns.AddName("R")
	root := NewAlternatives([]Base{
		alt(NewRegexp("x")),
		alt(NewSequence([]Base{NewRegexp("y"), NewReference(position, SignRestrictions{})}, false)),
	})
	patterns.Define(position, NewPattern("R", root, nil))

	variants := expand(t, patterns, position, 5)
	if len(variants) == 0 {
		t.Fatal("no variants for a self-recursive pattern")
	}
	for _, variant := range variants {
		if len(variant) > 5 {
			t.Error("variant exceeds the budget")
		}
	}
	got := renders(patterns, variants)
	expected := map[string]bool{
		`"x"`:                     true,
		`"y" "x"`:                 true,
		`"y" "y" "x"`:             true,
		`"y" "y" "y" "x"`:         true,
		`"y" "y" "y" "y" "x"`:     true,
	}
	for _, r := range got {
		if !expected[r] {
			t.Errorf("unexpected variant %q", r)
		}
	}
	if len(got) != len(expected) {
		t.Errorf("expected %d variants, got %d", len(expected), len(got))
	}
}

func TestSizeInvariants(t *testing.T) {
	patterns := testPatterns(t)
	body := NewSequence([]Base{
		NewRepeating(NewRegexp("x"), 0, 3),
		NewAlternatives([]Base{
			alt(NewRegexp("y")),
			alt(NewSequence([]Base{NewRegexp("z"), NewRegexp("z")}, false)),
		}),
	}, false)
	ref := definePattern(patterns, "A", alt(body), nil)
	pattern := patterns.Pattern(ref)

	previous := map[string]bool{}
	for budget := 0; budget <= 6; budget++ {
		variants := expand(t, patterns, ref, budget)
		current := map[string]bool{}
		for _, variant := range variants {
			if len(variant) > budget {
				t.Fatalf("budget %d: variant of %d words", budget, len(variant))
			}
			if budget > 0 && len(variant) < pattern.MinSize() {
				t.Fatalf("budget %d: variant shorter than the minimum size", budget)
			}
			current[variant.Print(patterns)] = true
		}
		for r := range previous {
			if !current[r] {
				t.Fatalf("budget %d: variant %q lost with a larger budget", budget, r)
			}
		}
		previous = current
	}
}

func TestDedupIdempotence(t *testing.T) {
	patterns := testPatterns(t)
	variants := Variants{
		{Word{Regexp: "b"}},
		{Word{Regexp: "a"}},
		{Word{Regexp: "b"}},
		{Word{Regexp: "a"}, Word{Regexp: "b"}},
	}
	variants.SortAndRemoveDuplicates(patterns)
	once := strings.Join(renders(patterns, variants), ";")
	variants.SortAndRemoveDuplicates(patterns)
	twice := strings.Join(renders(patterns, variants), ";")
	if once != twice {
		t.Errorf("dedup not idempotent: %q != %q", once, twice)
	}
	if once != `"a";"a" "b";"b"` {
		t.Errorf("wrong canonical order: %q", once)
	}
}

func TestConditionLowering(t *testing.T) {
	patterns := testPatterns(t)
	arguments := Arguments{
		{Type: ArgumentElement, Element: elementA},
		{Type: ArgumentElement, Element: elementN},
	}
	conditions := NewConditions([]Condition{
		NewAgreementCondition(false, Arguments{
			{Type: ArgumentElement, Element: elementA},
			{Type: ArgumentElement, Element: elementN},
		}),
	})
	body := NewSequence([]Base{
		NewElement(elementA, SignRestrictions{}),
		NewElement(elementN, SignRestrictions{}),
	}, false)
	ref := definePattern(patterns, "Agree", NewAlternative(body, conditions), arguments)

	variants := expand(t, patterns, ref, 2)
	if len(variants) != 1 || len(variants[0]) != 2 {
		t.Fatal("expected a single two-word variant")
	}
	if len(variants[0][0].Conditions) != 0 {
		t.Error("condition attached to a non-final word")
	}
	lowered := variants[0][1].Conditions
	if len(lowered) != 1 {
		t.Fatalf("expected one lowered condition, got %d", len(lowered))
	}
	if lowered[0].Dictionary {
		t.Error("agreement lowered as dictionary")
	}
	condition := lowered[0].Condition
	if condition.Strong || condition.Param != 0 {
		t.Error("wrong lowered condition header")
	}
	if len(condition.Offsets) != 2 || condition.Offsets[0] != 1 || condition.Offsets[1] != 0 {
		t.Errorf("expected offsets [1 0], got %v", condition.Offsets)
	}
}

func TestDictionaryLowering(t *testing.T) {
	patterns := testPatterns(t)
	conditions := NewConditions([]Condition{
		NewDictionaryCondition("dict", Arguments{
			{Type: ArgumentElement, Element: elementA},
			{},
			{Type: ArgumentElement, Element: elementN},
		}),
	})
	body := NewSequence([]Base{
		NewElement(elementA, SignRestrictions{}),
		NewElement(elementN, SignRestrictions{}),
	}, false)
	ref := definePattern(patterns, "D", NewAlternative(body, conditions), nil)

	variants := expand(t, patterns, ref, 2)
	if len(variants) != 1 {
		t.Fatal("expected a single variant")
	}
	lowered := variants[0][1].Conditions
	if len(lowered) != 1 || !lowered[0].Dictionary {
		t.Fatal("dictionary condition not lowered")
	}
	condition := lowered[0].Condition
	if condition.Param != patterns.DictionaryIndex("dict") {
		t.Error("wrong dictionary id")
	}
	if len(condition.Offsets) != 3 || condition.Offsets[0] != 1 || condition.Offsets[1] != 255 || condition.Offsets[2] != 0 {
		t.Errorf("expected offsets [1 255 0], got %v", condition.Offsets)
	}
}

func TestUnboundConditionOmitted(t *testing.T) {
	patterns := testPatterns(t)
	conditions := NewConditions([]Condition{
		NewAgreementCondition(false, Arguments{
			{Type: ArgumentElement, Element: elementA},
			{Type: ArgumentElement, Element: elementPa},
		}),
	})
	body := NewSequence([]Base{
		NewElement(elementA, SignRestrictions{}),
		NewElement(elementN, SignRestrictions{}),
	}, false)
	ref := definePattern(patterns, "A", NewAlternative(body, conditions), nil)

	variants := expand(t, patterns, ref, 2)
	if len(variants) != 1 {
		t.Fatal("expected a single variant")
	}
	for _, word := range variants[0] {
		if len(word.Conditions) != 0 {
			t.Error("unbindable condition not omitted")
		}
	}
}

func TestStateTableSharing(t *testing.T) {
	patterns := testPatterns(t)
	root := NewAlternatives([]Base{
		alt(NewSequence([]Base{NewRegexp("x"), NewRegexp("y")}, false)),
		alt(NewSequence([]Base{NewRegexp("x"), NewRegexp("z")}, false)),
	})
	ref := definePattern(patterns, "A", root, nil)

	context := NewBuildContext(patterns)
	var variants Variants
	patterns.Pattern(ref).Build(context, &variants, 2)
	variants.Build(context, ref)

	// x is shared: initial state, shared x state, then y and z states
	if len(context.States) != 4 {
		t.Fatalf("expected 4 states, got %d", len(context.States))
	}
	if len(context.States[0].Transitions) != 1 {
		t.Errorf("expected a single shared transition from the initial state")
	}
	terminalActions := 0
	for _, state := range context.States {
		for _, action := range state.Actions {
			if callback, is := action.(match.CallbackAction); is && callback.Ref == ref {
				terminalActions++
			}
		}
	}
	if terminalActions != 2 {
		t.Errorf("expected 2 terminal actions, got %d", terminalActions)
	}
}

func TestTranspositionSwaps(t *testing.T) {
	for n := 1; n <= 4; n++ {
		swaps := transpositionSwaps(n)
		expected := 1
		for i := 2; i <= n; i++ {
			expected *= i
		}
		if len(swaps) != expected-1 {
			t.Errorf("n=%d: expected %d swaps, got %d", n, expected-1, len(swaps))
		}

		seen := map[string]bool{}
		order := make([]int, n)
		for i := range order {
			order[i] = i
		}
		key := func() string {
			var b strings.Builder
			for _, v := range order {
				b.WriteByte(byte('0' + v))
			}
			return b.String()
		}
		seen[key()] = true
		for _, swap := range swaps {
			order[swap[0]], order[swap[1]] = order[swap[1]], order[swap[0]]
			if seen[key()] {
				t.Errorf("n=%d: permutation %s visited twice", n, key())
			}
			seen[key()] = true
		}
		if len(seen) != expected {
			t.Errorf("n=%d: expected %d permutations, got %d", n, expected, len(seen))
		}
	}
}

func TestBudgetStack(t *testing.T) {
	patterns := testPatterns(t)
	context := NewBuildContext(patterns)

	if context.PushMaxSize("A", 5) != 5 {
		t.Error("first push must keep the budget")
	}
	if context.PushMaxSize("A", 5) != 4 {
		t.Error("re-entry with an equal budget must decrease it")
	}
	if context.PushMaxSize("A", 2) != 2 {
		t.Error("re-entry with a smaller budget must keep it")
	}
	if context.PopMaxSize("A") != 2 || context.PopMaxSize("A") != 4 || context.PopMaxSize("A") != 5 {
		t.Error("pops must mirror pushes")
	}
}
