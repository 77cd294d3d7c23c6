package outparse

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"git.fractalqb.de/fractalqb/testerr"
)

const scenarioText = "START\nVALUE=5\nEND"

func assignmentSettings(t *testing.T) *Settings {
	return testerr.Shall1(NewSettings([]PatternConfig{{
		Type: "Block", Subtype: "Assignment", Regex: `VALUE=(\d+)`,
	}}, nil)).BeNil(t)
}

const sampleORCA = `*************************
* O  R  C  A  5.0.4     *
*************************

Your calculation utilizes 4 CPU cores.

--------------------
SCF ITERATIONS
--------------------
iter    energy
  1   -76.021
  2   -76.310
               *** SCF CONVERGED AFTER 8 CYCLES ***

--------------------
TOTAL SCF ENERGY
--------------------
FINAL SINGLE POINT ENERGY     -76.323456789012

TOTAL RUN TIME: 0 days 0 hours 0 minutes 12 seconds 345 msec
`

const sampleGPAW = `  ___ ___ ___ _ _ _
 |   |   |_  | | | |
 | | | | | . | | | |
 |__ |  _|___|_____|
 |___|_|

User:   alice@node1

iter:   1  12:00:01  -226.95
iter:   2  12:00:02  -226.21

Free energy:   -226.200000
Extrapolated:  -226.150000

Timing:
Total:     12.345 100.0%
`

func ExampleSession() {
	set, _ := NewSettings([]PatternConfig{{
		Type: "Block", Subtype: "Assignment", Regex: `VALUE=(\d+)`,
	}}, nil)
	s := NewSession("START\nVALUE=5\nEND", set)
	rows, _ := s.Search(Query{RawAllOf: []string{"VALUE"}})
	for _, r := range rows {
		raw, _ := r.Element.RawData()
		fmt.Printf("%s/%s chars %d-%d lines %d-%d [%s]\n",
			r.Type, r.Subtype,
			r.Pos.Char.Start, r.Pos.Char.End,
			r.Pos.Line.Start, r.Pos.Line.End,
			raw)
	}
	// Output:
	// Block/Assignment chars 6-13 lines 2-2 [VALUE=5]
}

// checkPartition verifies that the frozen segments are contiguous,
// non-overlapping and concatenate to exactly the original text.
func checkPartition(t *testing.T, s *Session) {
	t.Helper()
	segs := testerr.Shall1(s.Segments()).BeNil(t)
	var sb strings.Builder
	nextChar, nextLine := 0, 1
	segs.Each(func(sg *Segment) error {
		pos := sg.Position()
		if pos.Char.Start != nextChar {
			t.Errorf("segment starts at char %d, want %d", pos.Char.Start, nextChar)
		}
		if pos.Line.Start != nextLine {
			t.Errorf("segment starts at line %d, want %d", pos.Line.Start, nextLine)
		}
		raw := testerr.Shall1(sg.Element().RawData()).BeNil(t)
		if pos.Char.Len() != len(raw) {
			t.Errorf("char span %v does not cover %d bytes", pos.Char, len(raw))
		}
		if want := pos.Line.Start + strings.Count(raw, "\n"); pos.Line.End != want {
			t.Errorf("line span ends at %d, want %d", pos.Line.End, want)
		}
		sb.WriteString(raw)
		nextChar, nextLine = pos.Char.End, pos.Line.End
		return nil
	})
	if sb.String() != s.Text() {
		t.Error("concatenated segments do not reproduce the input text")
	}
}

func TestSession_scenario(t *testing.T) {
	s := NewSession(scenarioText, assignmentSettings(t))
	segs := testerr.Shall1(s.Segments()).BeNil(t)
	if segs.Len() != 3 {
		t.Fatalf("expect 3 segments, have %d", segs.Len())
	}
	sgs := segs.Slice()

	check := func(i int, name, raw string, char Span, line Span) {
		t.Helper()
		el := sgs[i].Element()
		if el.ReadableName() != name {
			t.Errorf("segment %d: name %s, want %s", i, el.ReadableName(), name)
		}
		if r := testerr.Shall1(el.RawData()).BeNil(t); r != raw {
			t.Errorf("segment %d: raw %q, want %q", i, r, raw)
		}
		if pos := el.Position(); pos.Char != char || pos.Line != line {
			t.Errorf("segment %d: position %+v, want chars %v lines %v",
				i, pos, char, line)
		}
	}
	check(0, UnknownName, "START\n", Span{0, 6}, Span{1, 2})
	check(1, "Assignment", "VALUE=5", Span{6, 13}, Span{2, 2})
	check(2, UnknownName, "\nEND", Span{13, 17}, Span{2, 3})
	checkPartition(t, s)

	rows := testerr.Shall1(s.Search(Query{RawAllOf: []string{"VALUE"}})).BeNil(t)
	if len(rows) != 1 || rows[0].Subtype != "Assignment" {
		t.Errorf("search for VALUE: %+v", rows)
	}
}

func TestSession_partitionLaw(t *testing.T) {
	for _, mode := range []string{"orca", "gpaw"} {
		t.Run(mode, func(t *testing.T) {
			s := testerr.Shall1(NewModeSession(sampleORCA, mode)).BeNil(t)
			checkPartition(t, s)
		})
	}
	t.Run("custom", func(t *testing.T) {
		s := NewSession(scenarioText, assignmentSettings(t))
		checkPartition(t, s)
	})
}

func TestSession_gpawPreset(t *testing.T) {
	s := testerr.Shall1(NewModeSession(sampleGPAW, "gpaw")).BeNil(t)
	checkPartition(t, s)

	rows := testerr.Shall1(s.Blocks()).BeNil(t)
	count := make(map[string]int)
	for _, r := range rows {
		count[r.Subtype]++
	}
	for sub, want := range map[string]int{
		"Banner": 1, "Iteration": 2, "FreeEnergy": 1,
		"ExtrapolatedEnergy": 1, "Timing": 1,
	} {
		if count[sub] != want {
			t.Errorf("%d %s blocks, want %d", count[sub], sub, want)
		}
	}

	xs := testerr.Shall1(s.Extract(Query{ReadableName: "Free Energy"})).BeNil(t)
	if len(xs) != 1 || xs[0].Data == nil {
		t.Fatalf("free energy extraction: %+v", xs)
	}
	if e := xs[0].Data.Values["energy"]; e != -226.2 {
		t.Errorf("free energy %v", e)
	}

	xs = testerr.Shall1(s.Extract(Query{ReadableName: "SCF Iteration"})).BeNil(t)
	if len(xs) != 2 {
		t.Fatalf("expect 2 iteration extractions, have %d", len(xs))
	}
	if n := xs[1].Data.Values["iteration"]; n != 2 {
		t.Errorf("last iteration %v, want 2", n)
	}
}

func TestSession_roundTripLaw(t *testing.T) {
	s := testerr.Shall1(NewModeSession(sampleORCA, "orca")).BeNil(t)
	rows := testerr.Shall1(s.Blocks()).BeNil(t)
	for _, r := range rows {
		raw := testerr.Shall1(r.Element.RawData()).BeNil(t)
		if sub := sampleORCA[r.Pos.Char.Start:r.Pos.Char.End]; raw != sub {
			t.Errorf("element %d: raw data differs from source slice %v",
				r.ID, r.Pos.Char)
		}
	}
}

func TestSession_passPriority(t *testing.T) {
	// Both passes match "VALUE=5"; the earlier declared one claims it
	// even though the later pattern is more specific.
	set := testerr.Shall1(NewSettings([]PatternConfig{
		{Type: "Block", Subtype: "Broad", Regex: `VALUE=\d+`},
		{Type: "Block", Subtype: "Narrow", Regex: `VALUE=5`},
	}, nil)).BeNil(t)
	s := NewSession(scenarioText, set)
	rows := testerr.Shall1(s.Blocks()).BeNil(t)
	for _, r := range rows {
		if r.Subtype == "Narrow" {
			t.Error("later pass reclassified text claimed by earlier pass")
		}
	}
	if rows[0].Subtype != "Broad" {
		t.Errorf("first classified row is %s, want Broad", rows[0].Subtype)
	}
}

func TestSession_overlapSkipped(t *testing.T) {
	set := testerr.Shall1(NewSettings([]PatternConfig{{
		Type: "Block", Subtype: "Pair", Regex: `aa`,
	}}, nil)).BeNil(t)
	s := NewSession("aaa", set)
	segs := testerr.Shall1(s.Segments()).BeNil(t)
	sgs := segs.Slice()
	if len(sgs) != 2 {
		t.Fatalf("expect 2 segments, have %d", len(sgs))
	}
	if sgs[0].Element().ReadableName() != "Pair" {
		t.Error("leftmost match did not win")
	}
	if raw := testerr.Shall1(sgs[1].Element().RawData()).BeNil(t); raw != "a" {
		t.Errorf("leftover raw %q, want %q", raw, "a")
	}
	checkPartition(t, s)
}

func TestSession_emptyMatchSkipped(t *testing.T) {
	set := testerr.Shall1(NewSettings([]PatternConfig{{
		Type: "Block", Subtype: "Xs", Regex: `x*`,
	}}, nil)).BeNil(t)
	s := NewSession("axxb", set)
	segs := testerr.Shall1(s.Segments()).BeNil(t)
	sgs := segs.Slice()
	if len(sgs) != 3 {
		t.Fatalf("expect 3 segments, have %d", len(sgs))
	}
	if sgs[1].Element().ReadableName() != "Xs" {
		t.Error("non-empty match not claimed")
	}
	checkPartition(t, s)
}

func TestSession_unknownCoverage(t *testing.T) {
	set := testerr.Shall1(NewSettings([]PatternConfig{{
		Type: "Block", Subtype: "Nope", Regex: `never matches anything`,
	}}, nil)).BeNil(t)
	s := NewSession(scenarioText, set)
	segs := testerr.Shall1(s.Segments()).BeNil(t)
	if segs.Len() != 1 {
		t.Fatalf("expect 1 segment, have %d", segs.Len())
	}
	el := segs.Slice()[0].Element()
	if el.ReadableName() != UnknownName {
		t.Errorf("element is %s, want %s", el.ReadableName(), UnknownName)
	}
	if pos := el.Position(); pos.Char != (Span{0, len(scenarioText)}) {
		t.Errorf("unknown element spans %v, not the whole text", pos.Char)
	}
}

func TestSession_idempotence(t *testing.T) {
	s := testerr.Shall1(NewModeSession(sampleORCA, "orca")).BeNil(t)
	testerr.Shall(s.Initialize()).BeNil(t)
	rows1 := testerr.Shall1(s.Blocks()).BeNil(t)
	st1 := testerr.Shall1(s.Structure()).BeNil(t)
	testerr.Shall(s.Initialize()).BeNil(t)
	rows2 := testerr.Shall1(s.Blocks()).BeNil(t)
	st2 := testerr.Shall1(s.Structure()).BeNil(t)
	if len(rows1) != len(rows2) {
		t.Fatalf("row count changed: %d != %d", len(rows1), len(rows2))
	}
	for i := range rows1 {
		if rows1[i].Element != rows2[i].Element {
			t.Errorf("row %d changed identity after re-initialization", i)
		}
	}
	if len(st1.Children) != len(st2.Children) {
		t.Error("structure changed after re-initialization")
	}
}

func TestSession_failureIsolation(t *testing.T) {
	boom := func(ids *IDSeq, raw string, pos Position) (Element, error) {
		return nil, errors.New("kaput")
	}
	p1 := testerr.Shall1(NewPass("Block", "Fine", "", `START`, nil)).BeNil(t)
	p2 := testerr.Shall1(NewPass("Block", "Boom", "", `VALUE=\d+`, boom)).BeNil(t)
	set := testerr.Shall1(NewPassSettings(p1, p2)).BeNil(t)
	s := NewSession(scenarioText, set)

	err := s.Initialize()
	var pe PassError
	if !errors.As(err, &pe) {
		t.Fatalf("expect PassError, have %v", err)
	}
	if pe.Type != "Block" || pe.Subtype != "Boom" {
		t.Errorf("error names pass %s/%s, want Block/Boom", pe.Type, pe.Subtype)
	}
	if s.init || s.frozen != nil || s.rows != nil {
		t.Error("partial state retained after failed run")
	}
	if _, err = s.Search(Query{}); err == nil {
		t.Error("search must surface the initialization failure")
	}
}

func TestSession_progressHook(t *testing.T) {
	s := NewSession(scenarioText, assignmentSettings(t))
	var seen []string
	s.OnProgress = func(typ, sub string, pos Position) {
		seen = append(seen, fmt.Sprintf("%s/%s@%d", typ, sub, pos.Char.Start))
	}
	testerr.Shall(s.Initialize()).BeNil(t)
	want := []string{"Block/Assignment@6", "Block/Unknown@0", "Block/Unknown@13"}
	if len(seen) != len(want) {
		t.Fatalf("progress events %v, want %v", seen, want)
	}
	for i, w := range want {
		if seen[i] != w {
			t.Errorf("event %d: %s, want %s", i, seen[i], w)
		}
	}
}

func TestSession_noSettings(t *testing.T) {
	s := NewSession(scenarioText, nil)
	if err := s.Initialize(); err == nil {
		t.Error("expect configuration error for missing settings")
	}
}

func TestSession_emptyText(t *testing.T) {
	s := NewSession("", assignmentSettings(t))
	segs := testerr.Shall1(s.Segments()).BeNil(t)
	if segs.Len() != 1 {
		t.Fatalf("expect 1 segment, have %d", segs.Len())
	}
	if segs.Slice()[0].Element().ReadableName() != UnknownName {
		t.Error("empty text must degrade to a single Unknown element")
	}
}
