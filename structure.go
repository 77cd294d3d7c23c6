package outparse

// Structure is the nested hierarchy view: an element and the
// structures of its children. The root structure of a session has a
// nil Element. Structures hold back-references only; element lifetime
// belongs to the session.
type Structure struct {
	Element  Element
	Children []Structure
}

// ElementStructure derives the structure of one element. Termination
// is guaranteed because children's spans are strict sub-ranges of the
// parent's span; the tree is acyclic by construction.
func ElementStructure(el Element) Structure {
	kids := el.Children()
	st := Structure{Element: el}
	if len(kids) > 0 {
		st.Children = make([]Structure, len(kids))
		for i, k := range kids {
			st.Children[i] = ElementStructure(k)
		}
	}
	return st
}

// Depth of a leaf is 1, of a node 1 plus the maximum child depth.
func (st Structure) Depth() int {
	max := 0
	for _, c := range st.Children {
		if d := c.Depth(); d > max {
			max = d
		}
	}
	return 1 + max
}

// Structure returns the session's nested hierarchy in source order.
func (s *Session) Structure() (Structure, error) {
	segs, err := s.Segments()
	if err != nil {
		return Structure{}, err
	}
	root := Structure{Children: make([]Structure, 0, segs.Len())}
	segs.Each(func(sg *Segment) error {
		root.Children = append(root.Children, ElementStructure(sg.Element()))
		return nil
	})
	return root, nil
}

// Depth of the whole session tree, counting the root.
func (s *Session) Depth() (int, error) {
	st, err := s.Structure()
	if err != nil {
		return 0, err
	}
	return st.Depth(), nil
}
