package pattern

import (
	"testing"

	"github.com/lspl-tools/lspl/configuration"
	"github.com/lspl-tools/lspl/util/ordered"
)

// test schema: main sign "p" with values A=0, N=1, Pa=2, V=3 (sorted),
// enum sign "c" with values acc=0, gen=1, nom=2, string sign "l"
func testConfiguration(t *testing.T) *configuration.Configuration {
	t.Helper()
	builder := configuration.NewWordSignsBuilder()
	builder.Add(configuration.WordSign{
		Type:   configuration.MainSign,
		Names:  ordered.New("p"),
		Values: ordered.New("A", "N", "Pa", "V"),
	})
	builder.Add(configuration.WordSign{
		Type:       configuration.EnumSign,
		Names:      ordered.New("c"),
		Values:     ordered.New("nom", "gen", "acc"),
		Consistent: true,
	})
	builder.Add(configuration.WordSign{
		Type:  configuration.StringSign,
		Names: ordered.New("l"),
	})
	wordSigns, e := builder.Build()
	if e != nil {
		t.Fatal("cannot build test configuration: " + e.Error())
	}
	return configuration.NewConfiguration(wordSigns)
}

func testPatterns(t *testing.T) *Patterns {
	t.Helper()
	return NewPatterns(testConfiguration(t))
}

const (
	caseSign = 1
	lexSign  = 2
)

func restriction(element, sign int, exclude bool, values ...int) SignRestriction {
	return NewSignRestriction(element, sign, ordered.New(values...), exclude)
}

// membership checks the defining property of a restriction over the test
// enum domain {0, 1, 2}.
func member(r SignRestriction, value int) bool {
	if r.exclude {
		return !r.values.Has(value)
	}
	return r.values.Has(value)
}

func TestSignRestrictionIntersection(t *testing.T) {
	domain := []int{0, 1, 2}
	samples := [][2][]int{
		{{0}, {0}},
		{{0}, {1}},
		{{0, 1}, {1, 2}},
		{{0, 1, 2}, {1}},
		{{2}, {0, 1, 2}},
	}
	for _, excludes := range [][2]bool{{false, false}, {false, true}, {true, false}, {true, true}} {
		for si, sample := range samples {
			a := restriction(0, caseSign, excludes[0], sample[0]...)
			b := restriction(0, caseSign, excludes[1], sample[1]...)
			result := a
			result.Intersection(b)
			for _, v := range domain {
				expected := member(a, v) && member(b, v)
				if member(result, v) != expected {
					t.Errorf("sample #%d excludes %v: wrong membership of %d", si, excludes, v)
				}
			}
		}
	}
}

func TestSignRestrictionIsEmpty(t *testing.T) {
	conf := testConfiguration(t)

	if restriction(0, caseSign, false, 0).IsEmpty(conf) {
		t.Error("non-empty permitted set reported empty")
	}
	if !restriction(0, caseSign, true, 0, 1, 2).IsEmpty(conf) {
		t.Error("full forbidden enum domain not reported empty")
	}
	if restriction(0, caseSign, true, 0, 1).IsEmpty(conf) {
		t.Error("partial forbidden set reported empty")
	}
	if restriction(0, lexSign, true, 0, 1, 2).IsEmpty(conf) {
		t.Error("forbidden set over an open string domain reported empty")
	}

	a := restriction(0, caseSign, false, 0)
	a.Intersection(restriction(0, caseSign, false, 1))
	if !a.IsEmpty(conf) {
		t.Error("disjoint permitted sets not reported empty")
	}
}

func TestSignRestrictionsAdd(t *testing.T) {
	var rs SignRestrictions
	if !rs.Add(restriction(0, caseSign, false, 0)) {
		t.Error("first insertion rejected")
	}
	if rs.Add(restriction(0, caseSign, true, 1)) {
		t.Error("duplicate (element, sign) accepted")
	}
	if !rs.Add(restriction(1, caseSign, false, 0)) {
		t.Error("same sign of another element rejected")
	}
}

func TestSignRestrictionsIntersectionByElement(t *testing.T) {
	conf := testConfiguration(t)

	var callee SignRestrictions
	callee.Add(restriction(2, caseSign, false, 1, 2))

	var caller SignRestrictions
	caller.Add(restriction(2, caseSign, false, 2))
	caller.Add(restriction(7, caseSign, false, 0))

	projected := callee
	projected.Intersection(caller, 2)
	merged, has := projected.signRestriction(caseSign)
	if !has {
		t.Fatal("projected restriction lost")
	}
	if merged.exclude || merged.values.Size() != 1 || merged.values.Value(0) != 2 {
		t.Error("wrong projected restriction")
	}
	if projected.IsEmpty(conf) {
		t.Error("non-empty projection reported empty")
	}

	// the source restrictions must stay unchanged
	original, _ := callee.signRestriction(caseSign)
	if original.values.Size() != 2 {
		t.Error("intersection modified the source restrictions")
	}
}

func TestBuildRegexp(t *testing.T) {
	patterns := testPatterns(t)

	var rs SignRestrictions
	rs.Add(restriction(1, caseSign, false, 2))
	re := rs.BuildRegexp(patterns)

	// attribute strings: [main, case, lex]
	match := string([]rune{1, 2, 127})
	if !re.MatchString(match) {
		t.Error("permitted value rejected")
	}
	if re.MatchString(string([]rune{1, 1, 127})) {
		t.Error("other value accepted")
	}
	if re.MatchString(string([]rune{1, 127, 127})) {
		t.Error("absent value accepted by permitted set")
	}

	var excluded SignRestrictions
	excluded.Add(restriction(1, caseSign, true, 2))
	re = excluded.BuildRegexp(patterns)
	if re.MatchString(match) {
		t.Error("forbidden value accepted")
	}
	if !re.MatchString(string([]rune{1, 1, 127})) {
		t.Error("allowed value rejected by forbidden set")
	}
	if !re.MatchString(string([]rune{1, 127, 127})) {
		t.Error("absent value rejected by forbidden set")
	}
}
