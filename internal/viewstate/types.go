package viewstate

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/desertthunder/mympctl/internal/shared"
)

// Card names a top-level screen.
type Card string

// Tab names a sub-screen within a card.
type Tab string

// View names a sub-screen within a tab.
type View string

const (
	CardHome     Card = "Home"
	CardPlayback Card = "Playback"
	CardQueue    Card = "Queue"
	CardBrowse   Card = "Browse"
	CardSearch   Card = "Search"
)

const (
	TabCurrent    Tab = "Current"
	TabLastPlayed Tab = "LastPlayed"
	TabJukebox    Tab = "Jukebox"
	TabFilesystem Tab = "Filesystem"
	TabPlaylists  Tab = "Playlists"
	TabDatabase   Tab = "Database"
	TabRadio      Tab = "Radio"
)

const (
	ViewList         View = "List"
	ViewDetail       View = "Detail"
	ViewFavorites    View = "Favorites"
	ViewWebradiodb   View = "Webradiodb"
	ViewRadiobrowser View = "Radiobrowser"
)

// None marks an unset sort or grouping tag.
const None = "-"

// Path addresses one browsing context. Tab and View are empty below a leaf.
type Path struct {
	Card Card `json:"card"`
	Tab  Tab  `json:"tab,omitempty"`
	View View `json:"view,omitempty"`
}

// String renders the path as "Card/Tab/View", omitting empty segments.
func (p Path) String() string {
	parts := []string{string(p.Card)}
	if p.Tab != "" {
		parts = append(parts, string(p.Tab))
	}
	if p.View != "" {
		parts = append(parts, string(p.View))
	}
	return strings.Join(parts, "/")
}

// ParsePath splits "Browse/Database/List" into a [Path]. Trailing segments may be omitted.
func ParsePath(s string) (Path, error) {
	s = strings.Trim(strings.TrimSpace(s), "/")
	if s == "" {
		return Path{}, fmt.Errorf("%w: empty path", shared.ErrInvalidPath)
	}

	parts := strings.Split(s, "/")
	if len(parts) > 3 {
		return Path{}, fmt.Errorf("%w: %q has more than three segments", shared.ErrInvalidPath, s)
	}

	var p Path
	p.Card = Card(parts[0])
	if len(parts) > 1 {
		p.Tab = Tab(parts[1])
	}
	if len(parts) > 2 {
		p.View = View(parts[2])
	}
	return p, nil
}

// Sort is the ordering of a result list.
type Sort struct {
	Tag  string `json:"tag"`
	Desc bool   `json:"desc"`
}

// Filter is either a plain string or a set of named fields (radio directories filter by
// genre, country and so on). Fields is nil for a plain filter.
type Filter struct {
	Text   string
	Fields map[string]string
}

// Text builds a plain filter.
func Text(s string) Filter {
	return Filter{Text: s}
}

// Fields builds a structured filter with the given keys set to "".
func Fields(keys ...string) Filter {
	f := Filter{Fields: make(map[string]string, len(keys))}
	for _, k := range keys {
		f.Fields[k] = ""
	}
	return f
}

// IsStructured reports whether the filter carries named fields.
func (f Filter) IsStructured() bool {
	return f.Fields != nil
}

// Clone returns a copy that shares no map with f.
func (f Filter) Clone() Filter {
	return Filter{Text: f.Text, Fields: maps.Clone(f.Fields)}
}

// Equal compares text and fields.
func (f Filter) Equal(o Filter) bool {
	if f.IsStructured() != o.IsStructured() {
		return false
	}
	return f.Text == o.Text && maps.Equal(f.Fields, o.Fields)
}

// String renders a plain filter as its text and a structured one as sorted key=value pairs.
func (f Filter) String() string {
	if !f.IsStructured() {
		return f.Text
	}
	keys := slices.Sorted(maps.Keys(f.Fields))
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+f.Fields[k])
	}
	return strings.Join(pairs, ",")
}

// MarshalJSON encodes a plain filter as a string and a structured one as an object.
func (f Filter) MarshalJSON() ([]byte, error) {
	if f.IsStructured() {
		return json.Marshal(f.Fields)
	}
	return json.Marshal(f.Text)
}

// UnmarshalJSON accepts either a string or an object of strings.
func (f *Filter) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*f = Filter{Text: text}
		return nil
	}

	var fields map[string]string
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("filter must be a string or an object of strings: %w", err)
	}
	if fields == nil {
		fields = map[string]string{}
	}
	*f = Filter{Fields: fields}
	return nil
}

// BrowsingContext is the pagination, filter, sort and scroll state of one screen.
type BrowsingContext struct {
	Offset    int     `json:"offset"`
	Limit     int     `json:"limit"`
	Filter    Filter  `json:"filter"`
	Sort      Sort    `json:"sort"`
	Tag       string  `json:"tag"`
	Search    string  `json:"search"`
	ScrollPos float64 `json:"scrollPos"`
}

// Clone deep-copies the context.
func (c BrowsingContext) Clone() BrowsingContext {
	c.Filter = c.Filter.Clone()
	return c
}

// Equal compares every field.
func (c BrowsingContext) Equal(o BrowsingContext) bool {
	return c.Offset == o.Offset &&
		c.Limit == o.Limit &&
		c.Filter.Equal(o.Filter) &&
		c.Sort == o.Sort &&
		c.Tag == o.Tag &&
		c.Search == o.Search &&
		c.ScrollPos == o.ScrollPos
}

// Pointer is a flattened snapshot of a path and the context it resolved to.
type Pointer struct {
	Path
	BrowsingContext
}

// Clone deep-copies the pointer.
func (p Pointer) Clone() Pointer {
	return Pointer{Path: p.Path, BrowsingContext: p.BrowsingContext.Clone()}
}

// IsZero reports whether the pointer has never been set.
func (p Pointer) IsZero() bool {
	return p.Card == ""
}

// Patch lists the context fields to change. Nil fields are left alone.
type Patch struct {
	Offset    *int
	Limit     *int
	Filter    *Filter
	Sort      *Sort
	Tag       *string
	Search    *string
	ScrollPos *float64
}

// Ptr returns a pointer to v, for building a [Patch] inline.
func Ptr[T any](v T) *T {
	return &v
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Offset == nil && p.Limit == nil && p.Filter == nil && p.Sort == nil &&
		p.Tag == nil && p.Search == nil && p.ScrollPos == nil
}

// apply merges p into c. Negative offsets and scroll positions clamp to zero and a
// non-positive limit is ignored, so c always satisfies the context bounds.
func (p Patch) apply(c *BrowsingContext) {
	if p.Offset != nil {
		c.Offset = max(*p.Offset, 0)
	}
	if p.Limit != nil && *p.Limit > 0 {
		c.Limit = *p.Limit
	}
	if p.Filter != nil {
		c.Filter = p.Filter.Clone()
	}
	if p.Sort != nil {
		c.Sort = *p.Sort
	}
	if p.Tag != nil {
		c.Tag = *p.Tag
	}
	if p.Search != nil {
		c.Search = *p.Search
	}
	if p.ScrollPos != nil {
		c.ScrollPos = max(*p.ScrollPos, 0)
	}
}
