package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// DefaultHighlight is the drop target color when the config leaves it unset.
const DefaultHighlight = "#28a745"

// interface Painter defines coloring text with [lipgloss] styles
type Painter interface {
	On(string, lipgloss.Color) string // Sets background color
	As(string, lipgloss.Color) string // Sets foreground color
}

var _ Painter = (*Palette)(nil)

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title    lipgloss.Style
	ok       lipgloss.Style
	err      lipgloss.Style
	warn     lipgloss.Style
	help     lipgloss.Style
	active   lipgloss.Style
	muted    lipgloss.Style
	cursor   lipgloss.Style
	target   lipgloss.Style
	dragging lipgloss.Style
}

// NewPalette builds the stylesheet from title, success, error, warning, help and drop
// target colors.
func NewPalette(t, s, e, w, h, target string) *Palette {
	if target == "" {
		target = DefaultHighlight
	}
	return &Palette{
		title:    NewBold(t).MarginBottom(1),
		ok:       NewBold(s),
		err:      NewBold(e),
		warn:     NewStyle(w),
		help:     NewEm(h),
		active:   NewBold(t).Underline(true),
		muted:    NewStyle(h),
		cursor:   NewBold(t),
		target:   lipgloss.NewStyle().Background(lipgloss.Color(target)).Foreground(lipgloss.Color("#ffffff")),
		dragging: NewEm(w),
	}
}

// DefaultPalette uses the stock colors with the given drop target color.
func DefaultPalette(target string) *Palette {
	return NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262", target)
}

func (p *Palette) On(s string, c lipgloss.Color) string {
	return lipgloss.NewStyle().Background(c).Render(s)
}

func (p *Palette) As(s string, c lipgloss.Color) string {
	return lipgloss.NewStyle().Foreground(c).Render(s)
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
