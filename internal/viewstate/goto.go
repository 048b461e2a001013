package viewstate

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/mympctl/internal/shared"
)

// GotoArity is the number of options a "goto view" home icon carries:
// card, tab, view, offset, limit, filter, sort, tag, search.
const GotoArity = 9

// GotoOptions encodes p as the option list of a "goto view" home icon.
// Structured filters and sorts are written as JSON objects. Text values that are empty or
// would read as JSON are written as JSON strings, so an empty option still means "keep".
func GotoOptions(p Pointer) []string {
	sort, _ := json.Marshal(p.Sort)
	filter := quoteOption(p.Filter.Text)
	if p.Filter.IsStructured() {
		b, _ := json.Marshal(p.Filter.Fields)
		filter = string(b)
	}
	return []string{
		string(p.Card),
		string(p.Tab),
		string(p.View),
		strconv.Itoa(p.Offset),
		strconv.Itoa(p.Limit),
		filter,
		string(sort),
		quoteOption(p.Tag),
		quoteOption(p.Search),
	}
}

func quoteOption(v string) string {
	if v != "" && !strings.HasPrefix(v, `"`) && !strings.HasPrefix(v, "{") {
		return v
	}
	b, _ := json.Marshal(v)
	return string(b)
}

// unquoteOption reverses quoteOption. Anything that is not a JSON string is taken as is.
func unquoteOption(v string) string {
	if !strings.HasPrefix(v, `"`) {
		return v
	}
	var s string
	if err := json.Unmarshal([]byte(v), &s); err != nil {
		return v
	}
	return s
}

// ParseGoto decodes a "goto view" option list. Only the card is required; trailing
// options may be missing, and missing or empty values leave the context untouched
// (search is the exception: an explicit empty search clears it). A JSON string such as
// `""` sets a text option to exactly that string.
func ParseGoto(opts []string) (Path, Patch, error) {
	var patch Patch
	if len(opts) == 0 || strings.TrimSpace(opts[0]) == "" {
		return Path{}, patch, fmt.Errorf("%w: goto needs at least a card", shared.ErrValidation)
	}
	if len(opts) > GotoArity {
		return Path{}, patch, fmt.Errorf("%w: goto takes at most %d options, got %d", shared.ErrValidation, GotoArity, len(opts))
	}

	at := func(i int) (string, bool) {
		if i >= len(opts) {
			return "", false
		}
		return opts[i], true
	}

	var p Path
	p.Card = Card(opts[0])
	if v, ok := at(1); ok {
		p.Tab = Tab(v)
	}
	if v, ok := at(2); ok {
		p.View = View(v)
	}

	if v, ok := at(3); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Path{}, Patch{}, fmt.Errorf("%w: offset %q", shared.ErrValidation, v)
		}
		patch.Offset = &n
	}
	if v, ok := at(4); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Path{}, Patch{}, fmt.Errorf("%w: limit %q", shared.ErrValidation, v)
		}
		patch.Limit = &n
	}
	if v, ok := at(5); ok && v != "" {
		f := parseFilterOption(v)
		patch.Filter = &f
	}
	if v, ok := at(6); ok && v != "" {
		s, err := parseSortOption(v)
		if err != nil {
			return Path{}, Patch{}, err
		}
		patch.Sort = &s
	}
	if v, ok := at(7); ok && v != "" {
		patch.Tag = Ptr(unquoteOption(v))
	}
	if v, ok := at(8); ok {
		patch.Search = Ptr(unquoteOption(v))
	}
	return p, patch, nil
}

// parseFilterOption reads an object of strings as a structured filter and anything else as
// text.
func parseFilterOption(v string) Filter {
	if strings.HasPrefix(v, "{") {
		var fields map[string]string
		if err := json.Unmarshal([]byte(v), &fields); err == nil && fields != nil {
			return Filter{Fields: fields}
		}
	}
	return Text(unquoteOption(v))
}

// parseSortOption accepts a JSON object or a bare tag, sorted ascending.
func parseSortOption(v string) (Sort, error) {
	if !strings.HasPrefix(v, "{") {
		return Sort{Tag: v}, nil
	}
	var s Sort
	if err := json.Unmarshal([]byte(v), &s); err != nil {
		return Sort{}, fmt.Errorf("%w: sort %q: %v", shared.ErrValidation, v, err)
	}
	if s.Tag == "" {
		s.Tag = None
	}
	return s, nil
}

// Goto navigates to the screen named by a "goto view" option list and applies the rest of
// the options to its context.
func (s *State) Goto(opts []string) (BrowsingContext, error) {
	p, patch, err := ParseGoto(opts)
	if err != nil {
		return BrowsingContext{}, err
	}
	ctx, err := s.Navigate(p)
	if err != nil {
		return BrowsingContext{}, err
	}
	if patch.IsEmpty() {
		return ctx, nil
	}
	return s.UpdateContext(patch), nil
}
