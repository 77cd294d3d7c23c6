package outparse

import (
	"testing"

	"git.fractalqb.de/fractalqb/testerr"
)

func TestStructure_depthLaws(t *testing.T) {
	t.Run("leaf", func(t *testing.T) {
		b := NewBlock(1, "x", wholeText("x"), BlockSpec{Type: "Block", Subtype: "X"})
		if d := ElementStructure(b).Depth(); d != 1 {
			t.Errorf("leaf depth %d, want 1", d)
		}
	})
	t.Run("node", func(t *testing.T) {
		leaf := NewBlock(1, "5", Position{Char: Span{6, 7}, Line: Span{1, 1}},
			BlockSpec{Type: "Value", Subtype: "Number"})
		node := NewBlock(2, "VALUE=5", Position{Char: Span{0, 7}, Line: Span{1, 1}},
			BlockSpec{Type: "Block", Subtype: "Assignment", Children: []Element{leaf}})
		if d := ElementStructure(node).Depth(); d != 2 {
			t.Errorf("node depth %d, want 1+max(children)=2", d)
		}
	})
}

func TestSession_structure(t *testing.T) {
	inner := testerr.Shall1(NewPass("Value", "Number", "", `\d+`, nil)).BeNil(t)
	outer := testerr.Shall1(NewPass("Block", "Assignment", "",
		`VALUE=\d+`, NestedFactory(BlockSpec{
			Type: "Block", Subtype: "Assignment",
		}, []Pass{inner}))).BeNil(t)
	set := testerr.Shall1(NewPassSettings(outer)).BeNil(t)
	s := NewSession(scenarioText, set)

	st := testerr.Shall1(s.Structure()).BeNil(t)
	if st.Element != nil {
		t.Error("session root must not reference an element")
	}
	if len(st.Children) != 3 {
		t.Fatalf("expect 3 top level structures, have %d", len(st.Children))
	}
	if n := len(st.Children[1].Children); n != 2 {
		t.Errorf("assignment structure has %d children, want 2", n)
	}
	// root(1) + assignment(1) + number leaf(1)
	if d := testerr.Shall1(s.Depth()).BeNil(t); d != 3 {
		t.Errorf("session depth %d, want 3", d)
	}
}

func TestSession_structureFlat(t *testing.T) {
	s := testerr.Shall1(NewModeSession(sampleORCA, "orca")).BeNil(t)
	st := testerr.Shall1(s.Structure()).BeNil(t)
	segs := testerr.Shall1(s.Segments()).BeNil(t)
	if len(st.Children) != segs.Len() {
		t.Errorf("structure has %d children for %d segments",
			len(st.Children), segs.Len())
	}
	if d := testerr.Shall1(s.Depth()).BeNil(t); d != 2 {
		t.Errorf("flat session depth %d, want 2", d)
	}
}
