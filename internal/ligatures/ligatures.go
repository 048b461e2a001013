// Package ligatures holds the catalog of icon font ligatures a home icon can show, grouped
// by category, with substring and fuzzy search.
package ligatures

import (
	_ "embed"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/desertthunder/mympctl/internal/shared"
	"github.com/lithammer/fuzzysearch/fuzzy"
	ranked "github.com/sahilm/fuzzy"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed ligatures.yaml
var catalogYAML []byte

// AllCategories selects every category in [Catalog.Filter].
const AllCategories = "all"

// Ligature is one icon name and the category it is listed under.
type Ligature struct {
	Name     string
	Category string
}

// Match is a ranked search hit. Matched holds the byte offsets of the query characters in
// Name, for highlighting.
type Match struct {
	Ligature
	Matched []int
	Score   int
}

// Catalog is an immutable, ordered set of ligatures.
type Catalog struct {
	categories []string
	all        []Ligature
	names      []string
	index      map[string]int
	title      cases.Caser
}

// Default parses the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(catalogYAML)
}

// Parse reads a YAML mapping of category to ligature names. Categories are sorted, names
// keep their listed order and duplicates after the first are dropped.
func Parse(data []byte) (*Catalog, error) {
	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: ligature catalog: %v", shared.ErrInvalidConfig, err)
	}

	c := &Catalog{
		index: make(map[string]int),
		title: cases.Title(language.English),
	}
	c.categories = slices.Sorted(maps.Keys(raw))
	for _, cat := range c.categories {
		for _, name := range raw[cat] {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if _, dup := c.index[name]; dup {
				continue
			}
			c.index[name] = len(c.all)
			c.all = append(c.all, Ligature{Name: name, Category: cat})
			c.names = append(c.names, name)
		}
	}
	return c, nil
}

// Categories returns the category keys in display order.
func (c *Catalog) Categories() []string {
	return slices.Clone(c.categories)
}

// Title renders a category key as a heading.
func (c *Catalog) Title(category string) string {
	return c.title.String(category)
}

// All returns every ligature.
func (c *Catalog) All() []Ligature {
	return slices.Clone(c.all)
}

// Len returns the number of ligatures.
func (c *Catalog) Len() int {
	return len(c.all)
}

// Lookup finds a ligature by exact name.
func (c *Catalog) Lookup(name string) (Ligature, bool) {
	i, ok := c.index[name]
	if !ok {
		return Ligature{}, false
	}
	return c.all[i], true
}

// Filter returns the ligatures in category whose name contains query, case-insensitively,
// followed by those that only match it as a fuzzy subsequence. An empty query keeps every
// ligature of the category; an empty category or [AllCategories] searches all of them.
func (c *Catalog) Filter(query, category string) []Ligature {
	pool := c.inCategory(category)
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return pool
	}

	var out []Ligature
	rest := make([]Ligature, 0, len(pool))
	for _, l := range pool {
		if strings.Contains(l.Name, q) {
			out = append(out, l)
		} else {
			rest = append(rest, l)
		}
	}

	names := make([]string, len(rest))
	for i, l := range rest {
		names[i] = l.Name
	}
	hits := make(map[int]bool)
	for _, r := range fuzzy.RankFindNormalizedFold(q, names) {
		hits[r.OriginalIndex] = true
	}
	for i, l := range rest {
		if hits[i] {
			out = append(out, l)
		}
	}
	return out
}

// Search ranks every ligature against query, best first.
func (c *Catalog) Search(query string) []Match {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	found := ranked.Find(query, c.names)
	out := make([]Match, 0, len(found))
	for _, m := range found {
		out = append(out, Match{Ligature: c.all[m.Index], Matched: m.MatchedIndexes, Score: m.Score})
	}
	return out
}

// Grouped splits ligatures by category, preserving category order.
func (c *Catalog) Grouped(ligs []Ligature) [][]Ligature {
	by := make(map[string][]Ligature)
	for _, l := range ligs {
		by[l.Category] = append(by[l.Category], l)
	}
	var out [][]Ligature
	for _, cat := range c.categories {
		if g := by[cat]; len(g) > 0 {
			out = append(out, g)
		}
	}
	return out
}

func (c *Catalog) inCategory(category string) []Ligature {
	if category == "" || category == AllCategories {
		return c.All()
	}
	var out []Ligature
	for _, l := range c.all {
		if l.Category == category {
			out = append(out, l)
		}
	}
	return out
}
