package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up         key.Binding
	down       key.Binding
	enter      key.Binding
	back       key.Binding
	yes        key.Binding
	no         key.Binding
	quit       key.Binding
	cards      key.Binding
	nextTab    key.Binding
	prevTab    key.Binding
	nextView   key.Binding
	nextPage   key.Binding
	prevPage   key.Binding
	search     key.Binding
	filter     key.Binding
	sort       key.Binding
	grab       key.Binding
	moveUp     key.Binding
	moveDown   key.Binding
	remove     key.Binding
	duplicate  key.Binding
	ligature   key.Binding
	addView    key.Binding
	refresh    key.Binding
	partitions key.Binding
	outputs    key.Binding
	create     key.Binding
	toggle     key.Binding
	category   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		yes:        key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:         key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "no")),
		quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		cards:      key.NewBinding(key.WithKeys("1", "2", "3", "4", "5"), key.WithHelp("1-5", "card")),
		nextTab:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		prevTab:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		nextView:   key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "next view")),
		nextPage:   key.NewBinding(key.WithKeys("n", "pgdown"), key.WithHelp("n", "next page")),
		prevPage:   key.NewBinding(key.WithKeys("p", "pgup"), key.WithHelp("p", "prev page")),
		search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		filter:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		sort:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "reverse sort")),
		grab:       key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "grab/drop")),
		moveUp:     key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "move up")),
		moveDown:   key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "move down")),
		remove:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		duplicate:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "duplicate")),
		ligature:   key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "ligature")),
		addView:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add to home")),
		refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		partitions: key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "partitions")),
		outputs:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "outputs")),
		create:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		toggle:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		category:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "category")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.cards, k.nextTab, k.prevTab, k.nextView},
		{k.nextPage, k.prevPage, k.search, k.filter, k.sort},
		{k.grab, k.moveUp, k.moveDown, k.remove, k.duplicate, k.ligature},
		{k.addView, k.refresh, k.partitions, k.outputs, k.quit},
	}
}
