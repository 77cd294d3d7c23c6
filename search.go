package outparse

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Row is one record of the flat query index: a classified element with
// its tags and position. Rows are regenerated on demand from frozen
// session state, they own nothing.
type Row struct {
	ID            int
	Type, Subtype string
	// Name is the element's readable classification label.
	Name    string
	Element Element
	// RawData is the verbatim text, nil when the element could not
	// produce it (see Diag).
	RawData *string
	Pos     Position
	// Diag carries the single diagnostic of a soft element-data
	// failure. The row is retained in any case.
	Diag string
}

// Query filters the row set. All set filters apply conjunctively; a
// zero field imposes no constraint. The substring filters are
// case-sensitive literal containment on the raw data.
type Query struct {
	Type         string
	ReadableName string
	// RawAllOf keeps only rows whose raw data contains every listed
	// substring.
	RawAllOf []string
	// RawNoneOf drops rows whose raw data contains any listed
	// substring.
	RawNoneOf []string
}

// Search returns the matching rows in classification order, Unknown
// rows last. Rows whose raw data is unavailable are never dropped by
// the substring filters; they carry a nil RawData and one diagnostic.
// Use SortByPosition for source order.
func (s *Session) Search(q Query) ([]Row, error) {
	if err := s.Initialize(); err != nil {
		return nil, err
	}
	var res []Row
	for _, r := range s.rows {
		row := r
		row.Name = r.Element.ReadableName()
		if raw, err := r.Element.RawData(); err != nil {
			row.RawData = nil
			row.Diag = fmt.Sprintf("element %d: raw data unavailable: %s", r.ID, err)
		} else {
			row.RawData = &raw
		}
		if q.Type != "" && row.Type != q.Type {
			continue
		}
		if q.ReadableName != "" && row.Name != q.ReadableName {
			continue
		}
		if row.RawData != nil {
			if !containsAll(*row.RawData, q.RawAllOf) {
				continue
			}
			if containsAny(*row.RawData, q.RawNoneOf) {
				continue
			}
		}
		res = append(res, row)
	}
	return res, nil
}

// Blocks returns the complete row set, Unknown elements included.
func (s *Session) Blocks() ([]Row, error) { return s.Search(Query{}) }

// SortByPosition reorders rows by their char span's start, i.e. into
// source order.
func SortByPosition(rows []Row) {
	slices.SortStableFunc(rows, func(a, b Row) int {
		return a.Pos.Char.Start - b.Pos.Char.Start
	})
}

// Extraction is one row of an Extract result. Data is nil when the
// element has no value (no diagnostic) or when extraction failed (one
// diagnostic in Diag).
type Extraction struct {
	Row  Row
	Data *Data
	Diag string
}

// Extract layers per-element value extraction over Search. A failing
// extractor never aborts the batch; partial results are always
// returned.
func (s *Session) Extract(q Query) ([]Extraction, error) {
	rows, err := s.Search(q)
	if err != nil {
		return nil, err
	}
	res := make([]Extraction, 0, len(rows))
	for _, row := range rows {
		x := Extraction{Row: row}
		switch d, err := row.Element.ExtractData(); {
		case err == nil:
			x.Data = d
		case errors.Is(err, ErrNoData):
			// absent, not a failure
		default:
			x.Diag = fmt.Sprintf("element %d (%s/%s): extract: %s",
				row.ID, row.Type, row.Subtype, err)
		}
		res = append(res, x)
	}
	return res, nil
}

// RowStore persists a row set. The in-memory index is the only format
// the engine defines; storage layers plug in behind this interface
// (see package blockdb for a SQLite one).
type RowStore interface {
	Put(rows []Row) error
}

// Export writes the complete row set to a store.
func (s *Session) Export(st RowStore) error {
	rows, err := s.Blocks()
	if err != nil {
		return err
	}
	return st.Put(rows)
}

func containsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
