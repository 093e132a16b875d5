package email

import "slices"

// Selection is the set of deals chosen for an email. A deal is either the
// main deal or one of the secondary deals, never both.
type Selection struct {
	Main      *int64  `json:"main"`
	Secondary []int64 `json:"secondary"`
}

// SetMain makes id the main deal and drops it from the secondary list.
func (s *Selection) SetMain(id int64) {
	s.Main = &id
	s.Secondary = slices.DeleteFunc(s.Secondary, func(v int64) bool { return v == id })
}

func (s *Selection) ClearMain() {
	s.Main = nil
}

// ToggleSecondary removes id from the secondary list if present, otherwise
// appends it and clears it as main deal.
func (s *Selection) ToggleSecondary(id int64) {
	if slices.Contains(s.Secondary, id) {
		s.Secondary = slices.DeleteFunc(s.Secondary, func(v int64) bool { return v == id })
		return
	}
	s.Secondary = append(s.Secondary, id)
	if s.Main != nil && *s.Main == id {
		s.Main = nil
	}
}

// Empty reports whether no deal is selected.
func (s Selection) Empty() bool {
	return s.Main == nil && len(s.Secondary) == 0
}

// Remove drops id from the selection wherever it appears.
func (s *Selection) Remove(id int64) {
	if s.Main != nil && *s.Main == id {
		s.Main = nil
	}
	s.Secondary = slices.DeleteFunc(s.Secondary, func(v int64) bool { return v == id })
}

func (s Selection) Clone() Selection {
	out := Selection{Secondary: slices.Clone(s.Secondary)}
	if s.Main != nil {
		m := *s.Main
		out.Main = &m
	}
	if out.Secondary == nil {
		out.Secondary = []int64{}
	}
	return out
}
