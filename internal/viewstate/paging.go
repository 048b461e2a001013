package viewstate

// NextPage advances Current by one page. total is the size of the result set, or negative
// when unknown. It reports false when already on the last page.
//
// Offsets are snapped to a multiple of the limit.
func (s *State) NextPage(total int) (BrowsingContext, bool) {
	limit := s.current.Limit
	next := (s.current.Offset/limit + 1) * limit
	if total >= 0 && next >= total {
		return s.current.BrowsingContext.Clone(), false
	}
	return s.UpdateContext(Patch{Offset: &next}), true
}

// PrevPage moves Current back one page. It reports false on the first page.
func (s *State) PrevPage() (BrowsingContext, bool) {
	if s.current.Offset == 0 {
		return s.current.BrowsingContext.Clone(), false
	}
	limit := s.current.Limit
	prev := max((s.current.Offset-1)/limit*limit, 0)
	return s.UpdateContext(Patch{Offset: &prev}), true
}

// Page returns the zero-based page index of Current.
func (s *State) Page() int {
	return s.current.Offset / s.current.Limit
}

// Refine applies a filter, sort, tag or search change to Current and rewinds it to the
// first page, since the old offset no longer points into the same result set.
func (s *State) Refine(patch Patch) BrowsingContext {
	patch.Offset = nil
	s.UpdateContext(patch)
	s.ResetPagination(s.current.Path)
	return s.current.BrowsingContext.Clone()
}
