package outparse

import (
	"fmt"
	"log/slog"
	"os"
)

// ProgressFunc observes classification progress. It is called once per
// classified element, including the Unknown backfill, with the tags of
// the claiming pass and the element's position.
type ProgressFunc func(passType, passSubtype string, pos Position)

// PassError reports a failing matcher or constructor. The whole run is
// aborted and no partial state is retained.
type PassError struct {
	Type, Subtype string
	err           error
}

func (e PassError) Error() string {
	return fmt.Sprintf("pass %s/%s: %s", e.Type, e.Subtype, e.err)
}

func (e PassError) Unwrap() error { return e.err }

// Session runs the ordered passes of one Settings over one input text
// and owns the resulting engine state. All query, structure and render
// views are read-only derivations of the frozen state. A Session must
// not be used concurrently.
type Session struct {
	// OnProgress, if set, observes every classified element.
	OnProgress ProgressFunc
	// Log for debug messages; nil uses slog.Default.
	Log *slog.Logger

	text     string
	settings *Settings
	ids      IDSeq

	frozen *SegmentList
	rows   []Row
	init   bool
}

// NewSession creates a session over the given decoded text. The
// settings must come from SettingsForMode, ParseSettings or
// NewSettings; they are not copied and must not change afterwards.
func NewSession(text string, set *Settings) *Session {
	return &Session{text: text, settings: set}
}

// NewModeSession creates a session using the embedded preset pattern
// table of the given mode.
func NewModeSession(text, mode string) (*Session, error) {
	set, err := SettingsForMode(mode)
	if err != nil {
		return nil, err
	}
	return NewSession(text, set), nil
}

// OpenFile reads path as UTF-8 text and creates a mode session for it.
func OpenFile(path, mode string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewModeSession(string(data), mode)
}

// Text returns the original input text.
func (s *Session) Text() string { return s.text }

// Mode returns the preset mode of the session's settings, "" for
// custom settings.
func (s *Session) Mode() string {
	if s.settings == nil {
		return ""
	}
	return s.settings.Mode()
}

func (s *Session) log() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return slog.Default()
}

// Initialize runs all passes and freezes the segment list. It is
// idempotent: once the state is frozen further calls are no-ops. A
// failing pass aborts the whole run with a PassError and leaves the
// session uninitialized with no partial state.
func (s *Session) Initialize() error {
	if s.init {
		return nil
	}
	if s.settings == nil || len(s.settings.passes) == 0 {
		return fmt.Errorf("session has no pattern settings")
	}
	var (
		ids  IDSeq
		rows []Row
	)
	observe := func(p *Pass, el Element) {
		r := Row{ID: el.ID(), Element: el, Pos: el.Position()}
		if p != nil {
			r.Type, r.Subtype = p.Type, p.Subtype
		} else {
			r.Type, r.Subtype = "Block", UnknownName
		}
		rows = append(rows, r)
		if s.OnProgress != nil {
			s.OnProgress(r.Type, r.Subtype, r.Pos)
		}
	}
	segs, err := tokenize(s.text, wholeText(s.text), s.settings.passes, &ids, observe)
	if err != nil {
		return err
	}
	s.ids = ids
	s.frozen = newSegmentList(segs)
	s.rows = rows
	s.init = true
	s.log().Debug("session initialized",
		"mode", s.Mode(), "segments", len(segs), "elements", len(rows))
	return nil
}

// Segments returns the frozen segment list, initializing on first use.
func (s *Session) Segments() (*SegmentList, error) {
	if err := s.Initialize(); err != nil {
		return nil, err
	}
	return s.frozen, nil
}

// tokenize is the engine core: it partitions text into classified
// segments by applying the passes in order and wrapping leftover raw
// text as Unknown elements. base locates text within the original
// input, so nested tokenization reports absolute spans. observe, if
// not nil, sees every element in classification order, Unknown last.
func tokenize(
	text string, base Position, passes []Pass,
	ids *IDSeq, observe func(*Pass, Element),
) ([]*Segment, error) {
	segs := []*Segment{{pos: base, raw: text}}
	for i := range passes {
		p := &passes[i]
		var err error
		if segs, err = applyPass(segs, p, ids, observe); err != nil {
			return nil, PassError{Type: p.Type, Subtype: p.Subtype, err: err}
		}
	}
	// Unknown backfill: no raw payload survives the funnel.
	for _, sg := range segs {
		if sg.elem != nil {
			continue
		}
		u := NewBlockUnknown(ids.Next(), sg.raw, sg.pos)
		sg.elem, sg.raw = u, ""
		if observe != nil {
			observe(nil, u)
		}
	}
	return segs, nil
}

// applyPass scans the raw segments for all non-overlapping matches,
// leftmost first, and splits each enclosing segment into raw prefix,
// classified match and raw suffix. Segments already holding elements
// are opaque and pass through untouched.
func applyPass(
	segs []*Segment, p *Pass,
	ids *IDSeq, observe func(*Pass, Element),
) ([]*Segment, error) {
	out := make([]*Segment, 0, len(segs))
	for _, sg := range segs {
		if sg.elem != nil {
			out = append(out, sg)
			continue
		}
		matches := p.rx.FindAllStringIndex(sg.raw, -1)
		cur, off := sg, 0
		for _, m := range matches {
			if m[1] == m[0] {
				continue // an empty match cannot claim a segment
			}
			pre, mid, post := cur.split(m[0]-off, m[1]-off)
			if pre != nil {
				out = append(out, pre)
			}
			el, err := p.factory(ids, mid.raw, mid.pos)
			if err != nil {
				return nil, err
			}
			mid.elem, mid.raw = el, ""
			out = append(out, mid)
			if observe != nil {
				observe(p, el)
			}
			if cur = post; cur == nil {
				break
			}
			off = m[1]
		}
		if cur != nil {
			out = append(out, cur)
		}
	}
	return out, nil
}
