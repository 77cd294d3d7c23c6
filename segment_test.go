package outparse

import (
	"testing"
)

func TestWholeText(t *testing.T) {
	pos := wholeText("START\nVALUE=5\nEND")
	if pos.Char != (Span{0, 17}) {
		t.Errorf("char span %v", pos.Char)
	}
	if pos.Line != (Span{1, 3}) {
		t.Errorf("line span %v", pos.Line)
	}
}

func TestSegment_split(t *testing.T) {
	text := "START\nVALUE=5\nEND"
	sg := &Segment{pos: wholeText(text), raw: text}

	t.Run("three parts", func(t *testing.T) {
		pre, mid, post := sg.split(6, 13)
		if pre.raw != "START\n" || pre.pos.Char != (Span{0, 6}) || pre.pos.Line != (Span{1, 2}) {
			t.Errorf("prefix %q %+v", pre.raw, pre.pos)
		}
		if mid.raw != "VALUE=5" || mid.pos.Char != (Span{6, 13}) || mid.pos.Line != (Span{2, 2}) {
			t.Errorf("match %q %+v", mid.raw, mid.pos)
		}
		if post.raw != "\nEND" || post.pos.Char != (Span{13, 17}) || post.pos.Line != (Span{2, 3}) {
			t.Errorf("suffix %q %+v", post.raw, post.pos)
		}
	})
	t.Run("match at start", func(t *testing.T) {
		pre, mid, post := sg.split(0, 6)
		if pre != nil {
			t.Error("unexpected prefix")
		}
		if mid.raw != "START\n" || post.raw != "VALUE=5\nEND" {
			t.Errorf("parts %q / %q", mid.raw, post.raw)
		}
		if post.pos.Line != (Span{2, 3}) {
			t.Errorf("suffix lines %v", post.pos.Line)
		}
	})
	t.Run("match at end", func(t *testing.T) {
		pre, mid, post := sg.split(14, 17)
		if post != nil {
			t.Error("unexpected suffix")
		}
		if pre.raw != "START\nVALUE=5\n" || mid.raw != "END" {
			t.Errorf("parts %q / %q", pre.raw, mid.raw)
		}
		if mid.pos.Line != (Span{3, 3}) {
			t.Errorf("match lines %v", mid.pos.Line)
		}
	})
	t.Run("whole segment", func(t *testing.T) {
		pre, mid, post := sg.split(0, len(text))
		if pre != nil || post != nil {
			t.Error("unexpected parts")
		}
		if mid.pos != sg.pos {
			t.Errorf("position changed: %+v", mid.pos)
		}
	})
}

func TestSegmentList(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		sl := newSegmentList(nil)
		if sl.Len() != 0 {
			t.Error("non-empty list")
		}
		if sl.Slice() != nil && len(sl.Slice()) != 0 {
			t.Error("non-empty slice")
		}
	})
	t.Run("order", func(t *testing.T) {
		a := &Segment{raw: "a"}
		b := &Segment{raw: "b"}
		c := &Segment{raw: "c"}
		sl := newSegmentList([]*Segment{a, b, c})
		if sl.Len() != 3 {
			t.Fatalf("len %d", sl.Len())
		}
		var got string
		sl.Each(func(sg *Segment) error {
			raw, _ := sg.Raw()
			got += raw
			return nil
		})
		if got != "abc" {
			t.Errorf("traversal order %q", got)
		}
	})
}
