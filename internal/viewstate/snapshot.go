package viewstate

// Selection records the active child of a card (Tab empty) or of a tab.
type Selection struct {
	Card   Card   `json:"card"`
	Tab    Tab    `json:"tab,omitempty"`
	Active string `json:"active"`
}

// Snapshot is the persisted form of a [State].
type Snapshot struct {
	Current  Path        `json:"current"`
	Active   []Selection `json:"active"`
	Contexts []Pointer   `json:"contexts"`
}

// Snapshot captures every context, every active selection and the Current path.
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{Current: s.current.Path}
	for _, p := range s.Paths() {
		ctx, _ := lookup(s.cards, p)
		snap.Contexts = append(snap.Contexts, Pointer{Path: p, BrowsingContext: ctx.Clone()})
	}
	for _, card := range s.order {
		n := s.cards[card]
		if n.ctx != nil {
			continue
		}
		snap.Active = append(snap.Active, Selection{Card: card, Active: n.active})
		for _, tab := range n.order {
			if t := n.children[tab]; t.ctx == nil {
				snap.Active = append(snap.Active, Selection{Card: card, Tab: Tab(tab), Active: t.active})
			}
		}
	}
	return snap
}

// Restore loads a snapshot taken from a State of the same topology. Paths and selections
// that no longer exist are skipped, and out-of-range values keep their current setting.
// Last is left alone.
func (s *State) Restore(snap Snapshot) {
	for _, saved := range snap.Contexts {
		ctx, err := lookup(s.cards, saved.Path)
		if err != nil {
			continue
		}
		c := saved.BrowsingContext
		Patch{
			Offset:    &c.Offset,
			Limit:     &c.Limit,
			Filter:    &c.Filter,
			Sort:      &c.Sort,
			Tag:       &c.Tag,
			Search:    &c.Search,
			ScrollPos: &c.ScrollPos,
		}.apply(ctx)
	}

	for _, sel := range snap.Active {
		n, ok := s.cards[sel.Card]
		if !ok || n.ctx != nil {
			continue
		}
		if sel.Tab != "" {
			if n, ok = n.children[string(sel.Tab)]; !ok || n.ctx != nil {
				continue
			}
		}
		if _, ok := n.children[sel.Active]; ok {
			n.active = sel.Active
		}
	}

	target := snap.Current
	if _, ok := s.cards[target.Card]; !ok {
		target = s.current.Path
	}
	s.enter(target)
}
