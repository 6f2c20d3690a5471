// Package menu groups a flat list of suggestion items by category for
// display while keeping each item's original flat index, which is what the
// keyboard highlight points at.
package menu

import "strings"

// Category tags a menu item for grouping.
type Category int

const (
	Comparison Category = iota
	Pattern
	SetNull
	Uncategorized
)

// Precedence is the fixed display order of categories.
var Precedence = []Category{Comparison, Pattern, SetNull, Uncategorized}

var categoryNames = map[Category]string{
	Comparison:    "comparison",
	Pattern:       "pattern",
	SetNull:       "setNull",
	Uncategorized: "uncategorized",
}

var categoryTitles = map[Category]string{
	Comparison:    "Comparison",
	Pattern:       "Pattern",
	SetNull:       "Empty values",
	Uncategorized: "Other",
}

func (c Category) String() string {
	if s, ok := categoryNames[c]; ok {
		return s
	}
	return categoryNames[Uncategorized]
}

// Title is the section header shown when more than one category is present.
func (c Category) Title() string {
	if s, ok := categoryTitles[c]; ok {
		return s
	}
	return categoryTitles[Uncategorized]
}

// ParseCategory maps a category name to its tag. Unknown and empty names are Uncategorized.
func ParseCategory(s string) Category {
	for c, name := range categoryNames {
		if strings.EqualFold(name, s) {
			return c
		}
	}
	return Uncategorized
}

// Item is one selectable suggestion. Action names a custom command for items
// that are not plain values; it is empty otherwise.
type Item struct {
	Label    string
	Value    any
	Category Category
	Action   string
}

// Entry is an item together with its index in the input list.
type Entry struct {
	Index int
	Item  Item
}

// Section is the run of entries sharing one category.
type Section struct {
	Category Category
	Entries  []Entry
}

// Grouped is the display form of a menu.
type Grouped struct {
	Sections []Section
	// Empty is set when there are no items; callers render a "no results" row.
	Empty bool
}

// Compose buckets items by category in Precedence order, preserving input order
// inside each bucket and tagging every item with its original index.
func Compose(items []Item) Grouped {
	if len(items) == 0 {
		return Grouped{Empty: true}
	}
	buckets := make(map[Category][]Entry, len(Precedence))
	for i, it := range items {
		cat := it.Category
		if _, ok := categoryNames[cat]; !ok {
			cat = Uncategorized
		}
		buckets[cat] = append(buckets[cat], Entry{Index: i, Item: it})
	}
	var out Grouped
	for _, cat := range Precedence {
		if len(buckets[cat]) == 0 {
			continue
		}
		out.Sections = append(out.Sections, Section{Category: cat, Entries: buckets[cat]})
	}
	return out
}

// ShowHeaders reports whether section headers and separators should be drawn.
func (g Grouped) ShowHeaders() bool {
	return len(g.Sections) >= 2
}

// Len returns the total number of entries.
func (g Grouped) Len() int {
	n := 0
	for _, s := range g.Sections {
		n += len(s.Entries)
	}
	return n
}

// Order returns the original indexes in display order.
func (g Grouped) Order() []int {
	out := make([]int, 0, g.Len())
	for _, s := range g.Sections {
		for _, e := range s.Entries {
			out = append(out, e.Index)
		}
	}
	return out
}
