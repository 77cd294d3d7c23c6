package outparse

import (
	"strings"

	"git.fractalqb.de/fractalqb/icontainer/islist"
)

// Span is an offset range. For char spans it is 0-based and half-open,
// i.e. [Start,End). For line spans it is 1-based and inclusive.
type Span struct {
	Start, End int
}

func (s Span) Len() int { return s.End - s.Start }

// Position locates a piece of text within the original input by its
// char span and its line span.
type Position struct {
	Char Span
	Line Span
}

// wholeText is the position of a complete input text: all of its bytes
// and lines 1 to newline count + 1.
func wholeText(text string) Position {
	return Position{
		Char: Span{0, len(text)},
		Line: Span{1, 1 + strings.Count(text, "\n")},
	}
}

// Segment is one contiguous part of the input text. Its payload is
// either still-unclassified raw text or a classified element. The
// segments of a session are contiguous, non-overlapping and
// concatenate to exactly the original text.
type Segment struct {
	pos    Position
	raw    string  // payload while unclassified
	elem   Element // payload once classified
	lsNext *Segment
}

func (sg *Segment) Position() Position { return sg.pos }

// Raw returns the raw-text payload. ok is false once the segment holds
// a classified element.
func (sg *Segment) Raw() (raw string, ok bool) {
	if sg.elem != nil {
		return "", false
	}
	return sg.raw, true
}

// Element returns the classified payload or nil for a raw segment.
func (sg *Segment) Element() Element { return sg.elem }

// split partitions a raw segment at the local match range [ms,me).
// Empty prefix or suffix parts are returned as nil. Char and line
// spans of the parts are derived from local offsets and newline counts
// only, never from a rescan of the whole input.
func (sg *Segment) split(ms, me int) (pre, mid, post *Segment) {
	base := sg.pos
	nlPre := strings.Count(sg.raw[:ms], "\n")
	nlMid := strings.Count(sg.raw[ms:me], "\n")
	if ms > 0 {
		pre = &Segment{
			pos: Position{
				Char: Span{base.Char.Start, base.Char.Start + ms},
				Line: Span{base.Line.Start, base.Line.Start + nlPre},
			},
			raw: sg.raw[:ms],
		}
	}
	mid = &Segment{
		pos: Position{
			Char: Span{base.Char.Start + ms, base.Char.Start + me},
			Line: Span{base.Line.Start + nlPre, base.Line.Start + nlPre + nlMid},
		},
		raw: sg.raw[ms:me],
	}
	if me < len(sg.raw) {
		post = &Segment{
			pos: Position{
				Char: Span{base.Char.Start + me, base.Char.End},
				Line: Span{base.Line.Start + nlPre + nlMid, base.Line.End},
			},
			raw: sg.raw[me:],
		}
	}
	return pre, mid, post
}

// ListNext to implement intrusive singly linked list
func (sg *Segment) ListNext() islist.Node { return sg.lsNext }

// SetListNext to implement intrusive singly linked list
func (sg *Segment) SetListNext(n islist.Node) {
	if n == nil {
		sg.lsNext = nil
	} else {
		sg.lsNext = n.(*Segment)
	}
}

// SegmentList is the frozen, ordered partition of the input text. It
// is built once when a session freezes and is read-only afterwards.
type SegmentList struct {
	ls  *islist.List
	n   int
	hed *Segment
}

func newSegmentList(segs []*Segment) *SegmentList {
	sl := &SegmentList{n: len(segs)}
	if len(segs) == 0 {
		return sl
	}
	sl.hed = segs[0]
	sl.ls = islist.New(segs[0])
	for _, sg := range segs[1:] {
		sl.ls.PushBack(sg)
	}
	return sl
}

func (sl *SegmentList) Len() int { return sl.n }

// Each calls do on every segment in original text order. It stops on
// the first non-nil error and returns it.
func (sl *SegmentList) Each(do func(*Segment) error) error {
	for sg := sl.hed; sg != nil; sg = sg.lsNext {
		if err := do(sg); err != nil {
			return err
		}
	}
	return nil
}

// Slice returns the segments as a fresh slice in original text order.
func (sl *SegmentList) Slice() []*Segment {
	res := make([]*Segment, 0, sl.n)
	for sg := sl.hed; sg != nil; sg = sg.lsNext {
		res = append(res, sg)
	}
	return res
}
