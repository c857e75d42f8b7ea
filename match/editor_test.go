package match

import (
	"testing"

	"github.com/lspl-tools/lspl/text"
	"github.com/lspl-tools/lspl/util/ordered"
)

func TestDataEditorRollback(t *testing.T) {
	context := &Context{data: []text.AnnotationIndices{
		ordered.New(0, 1, 2),
		ordered.New(0, 1),
	}}

	editor := &DataEditor{context: context}
	if editor.Value(0).Size() != 3 {
		t.Fatal("wrong initial value")
	}

	editor.Set(0, ordered.New(1))
	editor.Set(0, ordered.New(2))
	editor.Set(1, ordered.New(0))
	if context.data[0].Size() != 1 || context.data[0].Value(0) != 2 {
		t.Error("set not visible through the context")
	}

	editor.Restore()
	if context.data[0].Size() != 3 {
		t.Error("first overwritten value not restored")
	}
	if context.data[1].Size() != 2 {
		t.Error("second entry not restored")
	}
}

func TestNestedEditorScopes(t *testing.T) {
	context := &Context{data: []text.AnnotationIndices{ordered.New(0, 1, 2)}}

	outer := &DataEditor{context: context}
	outer.Set(0, ordered.New(0, 1))

	inner := &DataEditor{context: context}
	inner.Set(0, ordered.New(0))
	if context.data[0].Size() != 1 {
		t.Error("inner narrowing not applied")
	}

	inner.Restore()
	if context.data[0].Size() != 2 {
		t.Error("inner rollback must restore the outer narrowing")
	}

	outer.Restore()
	if context.data[0].Size() != 3 {
		t.Error("outer rollback must restore the initial sets")
	}
}
