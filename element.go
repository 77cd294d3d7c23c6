package outparse

import (
	"errors"
	"fmt"
	"html"
	"strings"
)

// ErrNoData is returned by ExtractData when an element has no
// extractable value. This is the regular "absent" case, not a failure:
// batch extraction reports it as an empty result without a diagnostic.
var ErrNoData = errors.New("no extractable data")

// Data is the extracted value set of one element, e.g. the numeric
// fields of a converged-energy block.
type Data struct {
	Values  map[string]any
	Comment string
}

// ExtractFunc derives a Data value from an element's verbatim text.
// Returning ErrNoData signals absence, any other error an
// element-data failure.
type ExtractFunc func(raw string) (*Data, error)

// Element is the capability contract of every classified unit of text.
// Elements are immutable after construction and may be shared freely
// between the query index and the renderer.
type Element interface {
	// ID is the session-unique identifier assigned at construction.
	ID() int
	// RawData is the verbatim source slice the element was built from.
	RawData() (string, error)
	// ReadableName is the stable classification label.
	ReadableName() string
	Position() Position
	// Children returns nested elements, empty for leaves.
	Children() []Element
	// ExtractData may return ErrNoData if the element has no value.
	ExtractData() (*Data, error)
	// HTML renders the element from its own state only, so a document
	// can be assembled by plain concatenation in segment order.
	HTML() (string, error)
}

// IDSeq hands out monotonically increasing element identifiers. Each
// session owns one, so IDs are stable per run and independent of any
// runtime identity hash.
type IDSeq struct {
	last int
}

func (s *IDSeq) Next() int {
	s.last++
	return s.last
}

// BlockSpec carries the classification detail for NewBlock.
type BlockSpec struct {
	Type, Subtype string
	// Name is the readable classification label; defaults to Subtype.
	Name string
	// Extract is the optional per-subtype value extractor.
	Extract ExtractFunc
	// Children are nested elements whose spans partition this block.
	Children []Element
}

// Block is the generic classified element. Pattern-specific behavior
// comes in through BlockSpec, not through subclassing.
type Block struct {
	id           int
	typ, subtype string
	name         string
	raw          string
	pos          Position
	kids         []Element
	extract      ExtractFunc
}

func NewBlock(id int, raw string, pos Position, spec BlockSpec) *Block {
	name := spec.Name
	if name == "" {
		name = spec.Subtype
	}
	return &Block{
		id:  id,
		typ: spec.Type, subtype: spec.Subtype,
		name:    name,
		raw:     raw,
		pos:     pos,
		kids:    spec.Children,
		extract: spec.Extract,
	}
}

func (b *Block) ID() int                  { return b.id }
func (b *Block) RawData() (string, error) { return b.raw, nil }
func (b *Block) ReadableName() string     { return b.name }
func (b *Block) Position() Position       { return b.pos }
func (b *Block) Children() []Element      { return b.kids }

func (b *Block) Type() string    { return b.typ }
func (b *Block) Subtype() string { return b.subtype }

func (b *Block) ExtractData() (*Data, error) {
	if b.extract == nil {
		return nil, ErrNoData
	}
	return b.extract(b.raw)
}

func (b *Block) HTML() (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<div class="block block-%s" id="block-%d" data-type=%q data-subtype=%q>`,
		cssToken(b.subtype), b.id, b.typ, b.subtype)
	if len(b.kids) == 0 {
		sb.WriteString("<pre>")
		sb.WriteString(html.EscapeString(b.raw))
		sb.WriteString("</pre>")
	} else {
		for _, k := range b.kids {
			kh, err := k.HTML()
			if err != nil {
				return "", err
			}
			sb.WriteString(kh)
		}
	}
	sb.WriteString("</div>")
	return sb.String(), nil
}

// BlockUnknown wraps text no pass claimed. It is a diagnostic, not an
// error: leftover text stays visible in every view instead of being
// dropped.
type BlockUnknown struct {
	id  int
	raw string
	pos Position
}

// UnknownName is the readable name of every BlockUnknown.
const UnknownName = "Unknown"

func NewBlockUnknown(id int, raw string, pos Position) *BlockUnknown {
	return &BlockUnknown{id: id, raw: raw, pos: pos}
}

func (u *BlockUnknown) ID() int                  { return u.id }
func (u *BlockUnknown) RawData() (string, error) { return u.raw, nil }
func (u *BlockUnknown) ReadableName() string     { return UnknownName }
func (u *BlockUnknown) Position() Position       { return u.pos }
func (u *BlockUnknown) Children() []Element      { return nil }

func (u *BlockUnknown) ExtractData() (*Data, error) { return nil, ErrNoData }

// HTML flags the text as unclassified via class and data attributes so
// the style sheet can make the gap visible. The text content itself
// stays verbatim to keep document reconstruction exact.
func (u *BlockUnknown) HTML() (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb,
		`<div class="block block-unknown" id="block-%d" data-type="Block" data-subtype="Unknown" data-unclassified="true">`,
		u.id)
	sb.WriteString(`<pre class="unknown">`)
	sb.WriteString(html.EscapeString(u.raw))
	sb.WriteString("</pre></div>")
	return sb.String(), nil
}

// cssToken lowercases a subtype tag into a usable CSS class suffix.
func cssToken(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			sb.WriteRune(r + ('a' - 'A'))
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			sb.WriteRune(r)
		default:
			sb.WriteByte('-')
		}
	}
	return sb.String()
}
