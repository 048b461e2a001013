package viewstate

import (
	"fmt"

	"github.com/desertthunder/mympctl/internal/shared"
)

// node is a card or tab. Exactly one of ctx and children is set.
type node struct {
	ctx      *BrowsingContext
	active   string
	order    []string
	children map[string]*node
}

func leaf(c BrowsingContext) *node {
	return &node{ctx: &c}
}

// branch builds an inner node whose children are kept in declaration order.
func branch(active string, kids ...child) *node {
	n := &node{active: active, children: make(map[string]*node, len(kids))}
	for _, k := range kids {
		n.order = append(n.order, k.name)
		n.children[k.name] = k.node
	}
	return n
}

type child struct {
	name string
	node *node
}

func named[N ~string](name N, n *node) child {
	return child{name: string(name), node: n}
}

// pick returns the child called name, falling back to the recorded active child. A known
// name becomes the new active child.
func (n *node) pick(name string) (string, *node) {
	if c, ok := n.children[name]; ok && name != "" {
		n.active = name
		return name, c
	}
	return n.active, n.children[n.active]
}

// Defaults returns the context every screen starts from.
func Defaults(limit int) BrowsingContext {
	if limit <= 0 {
		limit = 100
	}
	return BrowsingContext{
		Limit:  limit,
		Filter: Text(None),
		Sort:   Sort{Tag: None},
		Tag:    None,
	}
}

// defaultTree builds the fixed screen topology.
func defaultTree(limit int) (map[Card]*node, []Card) {
	base := Defaults(limit)
	with := func(f func(*BrowsingContext)) BrowsingContext {
		c := base.Clone()
		f(&c)
		return c
	}
	anyFilter := with(func(c *BrowsingContext) { c.Filter = Text("any") })

	cards := map[Card]*node{
		CardHome:     leaf(base),
		CardPlayback: leaf(base),
		CardQueue: branch(string(TabCurrent),
			named(TabCurrent, leaf(anyFilter)),
			named(TabLastPlayed, leaf(anyFilter)),
			named(TabJukebox, leaf(anyFilter)),
		),
		CardBrowse: branch(string(TabDatabase),
			named(TabFilesystem, leaf(with(func(c *BrowsingContext) { c.Tag = "dir" }))),
			named(TabPlaylists, branch(string(ViewList),
				named(ViewList, leaf(base)),
				named(ViewDetail, leaf(base)),
			)),
			named(TabDatabase, branch(string(ViewList),
				named(ViewList, leaf(with(func(c *BrowsingContext) {
					c.Filter = Text("any")
					c.Sort = Sort{Tag: "AlbumArtist"}
					c.Tag = "Album"
				}))),
				named(ViewDetail, leaf(base)),
			)),
			named(TabRadio, branch(string(ViewFavorites),
				named(ViewFavorites, leaf(base)),
				named(ViewWebradiodb, leaf(with(func(c *BrowsingContext) {
					c.Filter = Fields("genre", "country", "language", "codec", "bitrate")
					c.Sort = Sort{Tag: "Name"}
				}))),
				named(ViewRadiobrowser, leaf(with(func(c *BrowsingContext) {
					c.Filter = Fields("tags", "genre", "country", "language")
				}))),
			)),
		),
		CardSearch: leaf(anyFilter),
	}
	order := []Card{CardHome, CardPlayback, CardQueue, CardBrowse, CardSearch}
	return cards, order
}

// lookup finds the context at exactly p without consulting or changing active pointers.
func lookup(cards map[Card]*node, p Path) (*BrowsingContext, error) {
	n, ok := cards[p.Card]
	if !ok {
		return nil, fmt.Errorf("%w: card %q", shared.ErrNotFound, p.Card)
	}
	segments := []string{string(p.Tab), string(p.View)}
	for _, seg := range segments {
		if n.ctx != nil {
			if seg != "" {
				return nil, fmt.Errorf("%w: %s has no %q below a leaf", shared.ErrNotFound, p, seg)
			}
			continue
		}
		if seg == "" {
			break
		}
		c, ok := n.children[seg]
		if !ok {
			return nil, fmt.Errorf("%w: %s", shared.ErrNotFound, p)
		}
		n = c
	}
	if n.ctx == nil {
		return nil, fmt.Errorf("%w: %s does not name a single context", shared.ErrInvalidPath, p)
	}
	return n.ctx, nil
}

// activePath follows the active chain of card without changing it.
func activePath(cards map[Card]*node, card Card) (Path, *BrowsingContext, error) {
	n, ok := cards[card]
	if !ok {
		return Path{}, nil, fmt.Errorf("%w: card %q", shared.ErrNotFound, card)
	}
	p := Path{Card: card}
	if n.ctx != nil {
		return p, n.ctx, nil
	}
	p.Tab = Tab(n.active)
	n = n.children[n.active]
	if n.ctx != nil {
		return p, n.ctx, nil
	}
	p.View = View(n.active)
	return p, n.children[n.active].ctx, nil
}
