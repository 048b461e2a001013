package viewstate

import (
	"fmt"

	"github.com/desertthunder/mympctl/internal/shared"
)

// Options configures [New].
type Options struct {
	// Limit is the page size every context starts with. Zero means 100.
	Limit int
	// Start is the screen Current points at before any navigation. Zero means Home.
	Start Path
}

// State owns the screen tree and the Current/Last pointers.
type State struct {
	cards   map[Card]*node
	order   []Card
	current Pointer
	last    Pointer
	focus   *BrowsingContext
}

// New builds the fixed screen tree and points Current at opts.Start.
// Last stays empty until the first navigation.
func New(opts Options) (*State, error) {
	cards, order := defaultTree(opts.Limit)
	s := &State{cards: cards, order: order}

	start := opts.Start
	if start.Card == "" {
		start.Card = CardHome
	}
	if _, err := s.enter(start); err != nil {
		return nil, err
	}
	return s, nil
}

// enter walks to p, records the chosen tab/view as active and rewrites Current.
func (s *State) enter(p Path) (*BrowsingContext, error) {
	n, ok := s.cards[p.Card]
	if !ok {
		return nil, fmt.Errorf("%w: card %q", shared.ErrNotFound, p.Card)
	}

	resolved := Path{Card: p.Card}
	if n.ctx == nil {
		var tab string
		tab, n = n.pick(string(p.Tab))
		resolved.Tab = Tab(tab)
	}
	if n.ctx == nil {
		var view string
		view, n = n.pick(string(p.View))
		resolved.View = View(view)
	}

	s.focus = n.ctx
	s.current = Pointer{Path: resolved, BrowsingContext: n.ctx.Clone()}
	return n.ctx, nil
}

// NavigateTo switches to card, optionally selecting tab and view. Empty or unknown tab and
// view names fall back to the recorded active ones. The previous Current becomes Last.
func (s *State) NavigateTo(card Card, tab Tab, view View) (BrowsingContext, error) {
	if _, ok := s.cards[card]; !ok {
		return BrowsingContext{}, fmt.Errorf("%w: card %q", shared.ErrNotFound, card)
	}

	prev := s.current.Clone()
	ctx, err := s.enter(Path{Card: card, Tab: tab, View: view})
	if err != nil {
		return BrowsingContext{}, err
	}
	s.last = prev
	return ctx.Clone(), nil
}

// Navigate is [State.NavigateTo] taking a [Path].
func (s *State) Navigate(p Path) (BrowsingContext, error) {
	return s.NavigateTo(p.Card, p.Tab, p.View)
}

// UpdateContext merges patch into the context Current points at and mirrors it into Current.
// Active pointers are never touched.
func (s *State) UpdateContext(patch Patch) BrowsingContext {
	patch.apply(s.focus)
	s.current.BrowsingContext = s.focus.Clone()
	return s.focus.Clone()
}

// ResetPagination sets the offset of the context at p to zero, leaving everything else.
func (s *State) ResetPagination(p Path) error {
	ctx, err := lookup(s.cards, p)
	if err != nil {
		return err
	}
	ctx.Offset = 0
	if s.IsCurrent(p) {
		s.current.Offset = 0
	}
	return nil
}

// Current returns a copy of the pointer to the screen in focus.
func (s *State) Current() Pointer {
	return s.current.Clone()
}

// Last returns a copy of the pointer Current held before the latest navigation.
func (s *State) Last() Pointer {
	return s.last.Clone()
}

// Context returns the context at exactly p. Active pointers are not consulted.
func (s *State) Context(p Path) (BrowsingContext, error) {
	ctx, err := lookup(s.cards, p)
	if err != nil {
		return BrowsingContext{}, err
	}
	return ctx.Clone(), nil
}

// Resolve follows the active chain of card.
func (s *State) Resolve(card Card) (Pointer, error) {
	p, ctx, err := activePath(s.cards, card)
	if err != nil {
		return Pointer{}, err
	}
	return Pointer{Path: p, BrowsingContext: ctx.Clone()}, nil
}

// IsCurrent reports whether p is the screen in focus. Late responses use it to decide
// whether to touch what is visible.
func (s *State) IsCurrent(p Path) bool {
	return s.current.Path == p
}

// Cards lists the cards in display order.
func (s *State) Cards() []Card {
	out := make([]Card, len(s.order))
	copy(out, s.order)
	return out
}

// Tabs lists the tabs of card in display order. Leaf cards have none.
func (s *State) Tabs(card Card) ([]Tab, error) {
	n, ok := s.cards[card]
	if !ok {
		return nil, fmt.Errorf("%w: card %q", shared.ErrNotFound, card)
	}
	tabs := make([]Tab, 0, len(n.order))
	for _, name := range n.order {
		tabs = append(tabs, Tab(name))
	}
	return tabs, nil
}

// Views lists the views of card/tab in display order. Leaf tabs have none.
func (s *State) Views(card Card, tab Tab) ([]View, error) {
	n, ok := s.cards[card]
	if !ok {
		return nil, fmt.Errorf("%w: card %q", shared.ErrNotFound, card)
	}
	t, ok := n.children[string(tab)]
	if !ok {
		return nil, fmt.Errorf("%w: tab %s/%s", shared.ErrNotFound, card, tab)
	}
	views := make([]View, 0, len(t.order))
	for _, name := range t.order {
		views = append(views, View(name))
	}
	return views, nil
}

// Paths lists every addressable context in display order.
func (s *State) Paths() []Path {
	var paths []Path
	for _, card := range s.order {
		n := s.cards[card]
		if n.ctx != nil {
			paths = append(paths, Path{Card: card})
			continue
		}
		for _, tab := range n.order {
			t := n.children[tab]
			if t.ctx != nil {
				paths = append(paths, Path{Card: card, Tab: Tab(tab)})
				continue
			}
			for _, view := range t.order {
				paths = append(paths, Path{Card: card, Tab: Tab(tab), View: View(view)})
			}
		}
	}
	return paths
}
