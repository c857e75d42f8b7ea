package configuration

import (
	"testing"

	"github.com/lspl-tools/lspl"
)

const sampleConfig = `{
  "word_signs": [
    {"type": "enum", "names": ["c", "case"], "values": ["nom", "gen", "acc"], "consistent": true},
    {"type": "main", "names": ["p", "pos"], "values": ["N", "A", "V", "Pa", "Pn"], "consistent": true},
    {"type": "string", "names": ["l", "lemma"], "consistent": false},
    {"type": "enum", "names": ["t", "tense"], "values": ["pres", "past"], "consistent": false}
  ]
}`

func checkLoadErrorCode(t *testing.T, samples []string, code int) {
	t.Helper()
	for index, src := range samples {
		_, e := LoadFromBytes([]byte(src))
		if code == 0 {
			if e != nil {
				t.Errorf("input #%d: unexpected error: %s", index, e.Error())
			}
			continue
		}

		if e == nil {
			t.Errorf("input #%d: error expected, got success", index)
			continue
		}
		le, is := e.(*lspl.Err)
		if !is {
			t.Errorf("input #%d: *lspl.Err expected, got %q", index, e.Error())
			continue
		}
		if le.Code != code {
			t.Errorf("input #%d: expected error code %d, got %d", index, code, le.Code)
		}
		if le.Severity != lspl.CriticalError {
			t.Errorf("input #%d: expected critical severity", index)
		}
	}
}

func TestLoad(t *testing.T) {
	conf, e := LoadFromBytes([]byte(sampleConfig))
	if e != nil {
		t.Fatal("unexpected error: " + e.Error())
	}

	signs := conf.WordSigns()
	if signs.Size() != 4 {
		t.Fatalf("expected 4 signs, got %d", signs.Size())
	}
	if signs.Main().Type != MainSign {
		t.Error("sign #0 is not the main sign")
	}
	if signs.Main().Values.Size() != 5 {
		t.Errorf("expected 5 main values, got %d", signs.Main().Values.Size())
	}

	i, has := signs.Find("case")
	if !has {
		t.Fatal("alias \"case\" not found")
	}
	if signs.At(i).Type != EnumSign || !signs.At(i).Consistent {
		t.Error("wrong sign found for \"case\"")
	}
	if j, _ := signs.Find("c"); j != i {
		t.Error("aliases of one sign resolve to different indices")
	}

	// main first, then consistent, then the rest
	if signs.ConsistentBegin() != 0 {
		t.Errorf("expected consistent window to start at 0, got %d", signs.ConsistentBegin())
	}
	if signs.At(signs.Size() - 1).Consistent {
		t.Error("consistent sign placed after non-consistent ones")
	}
}

func TestParseErrors(t *testing.T) {
	checkLoadErrorCode(t, []string{"", "{", "[1, 2"}, ParseError)
}

func TestSchemeErrors(t *testing.T) {
	samples := []string{
		`{}`,
		`{"word_signs": []}`,
		`{"word_signs": [{"names": ["p"], "consistent": true}]}`,
		`{"word_signs": [{"type": "major", "names": ["p"], "consistent": true}]}`,
		`{"word_signs": [{"type": "main", "names": [], "consistent": true}]}`,
		`{"word_signs": [{"type": "main", "names": ["p"], "values": ["N"]}]}`,
		`{"word_signs": [{"type": "main", "names": ["p"], "values": ["N"], "consistent": true, "extra": 1}]}`,
	}
	checkLoadErrorCode(t, samples, SchemeError)
}

func TestBuildErrors(t *testing.T) {
	checkLoadErrorCode(t, []string{
		`{"word_signs": [{"type": "enum", "names": ["c"], "values": ["nom"], "consistent": true}]}`,
		`{"word_signs": [
			{"type": "main", "names": ["p"], "values": ["N"], "consistent": true},
			{"type": "main", "names": ["q"], "values": ["X"], "consistent": true}]}`,
	}, MainSignCountError)

	checkLoadErrorCode(t, []string{
		`{"word_signs": [{"type": "main", "names": ["p"], "consistent": true}]}`,
		`{"word_signs": [
			{"type": "main", "names": ["p"], "values": ["N"], "consistent": true},
			{"type": "enum", "names": ["c"], "values": [], "consistent": true}]}`,
	}, NoValuesError)

	checkLoadErrorCode(t, []string{
		`{"word_signs": [
			{"type": "main", "names": ["p"], "values": ["N"], "consistent": true},
			{"type": "string", "names": ["l"], "values": ["x"], "consistent": false}]}`,
	}, StringValuesError)

	checkLoadErrorCode(t, []string{
		`{"word_signs": [
			{"type": "main", "names": ["p"], "values": ["N"], "consistent": true},
			{"type": "enum", "names": ["p"], "values": ["x"], "consistent": false}]}`,
	}, DuplicateNameError)
}
