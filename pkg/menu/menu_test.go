package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mixedItems() []Item {
	return []Item{
		{Label: "other-1", Category: Uncategorized},
		{Label: "contains", Category: Pattern},
		{Label: "equals", Category: Comparison},
		{Label: "is empty", Category: SetNull},
		{Label: "starts with", Category: Pattern},
		{Label: "greater", Category: Comparison},
		{Label: "other-2", Category: Category(42)},
	}
}

func TestComposeOrdersByPrecedence(t *testing.T) {
	g := Compose(mixedItems())
	require.False(t, g.Empty)
	require.Len(t, g.Sections, 4)

	cats := make([]Category, 0, len(g.Sections))
	for _, s := range g.Sections {
		cats = append(cats, s.Category)
	}
	assert.Equal(t, Precedence, cats)

	assert.Equal(t, []int{2, 5, 1, 4, 3, 0, 6}, g.Order())
	assert.True(t, g.ShowHeaders())
}

func TestComposePreservesCountAndIndexes(t *testing.T) {
	items := mixedItems()
	g := Compose(items)
	assert.Equal(t, len(items), g.Len())

	seen := map[int]bool{}
	for _, s := range g.Sections {
		for _, e := range s.Entries {
			assert.False(t, seen[e.Index], "index %d appears twice", e.Index)
			seen[e.Index] = true
			assert.Equal(t, items[e.Index].Label, e.Item.Label)
		}
	}
	assert.Len(t, seen, len(items))
}

func TestComposeSingleCategoryIsFlat(t *testing.T) {
	g := Compose([]Item{{Label: "a"}, {Label: "b"}})
	require.Len(t, g.Sections, 1)
	assert.Equal(t, Comparison, g.Sections[0].Category, "zero value category is comparison")
	assert.False(t, g.ShowHeaders())

	u := Compose([]Item{{Label: "a", Category: Uncategorized}})
	assert.False(t, u.ShowHeaders())
}

func TestComposeEmpty(t *testing.T) {
	g := Compose(nil)
	assert.True(t, g.Empty)
	assert.Empty(t, g.Sections)
	assert.False(t, g.ShowHeaders())
	assert.Equal(t, 0, g.Len())
}

func TestParseCategory(t *testing.T) {
	tests := map[string]Category{
		"comparison": Comparison,
		"pattern":    Pattern,
		"setNull":    SetNull,
		"setnull":    SetNull,
		"":           Uncategorized,
		"bogus":      Uncategorized,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseCategory(in), in)
	}
	assert.Equal(t, "setNull", SetNull.String())
	assert.Equal(t, "uncategorized", Category(99).String())
	assert.Equal(t, "Other", Category(99).Title())
}

func TestListNavigationFollowsDisplayOrder(t *testing.T) {
	l := NewList(mixedItems())
	_, idx, ok := l.Highlighted()
	require.True(t, ok)
	assert.Equal(t, 2, idx, "first displayed item is highlighted")

	var visited []int
	for i := 0; i < 7; i++ {
		l.Next()
		visited = append(visited, l.HighlightedIndex())
	}
	assert.Equal(t, []int{5, 1, 4, 3, 0, 6, 2}, visited, "wraps back to the first item")

	l.Prev()
	assert.Equal(t, 6, l.HighlightedIndex())

	l.SetHighlight(4)
	item, _, _ := l.Highlighted()
	assert.Equal(t, "starts with", item.Label)
	l.SetHighlight(99)
	assert.Equal(t, 4, l.HighlightedIndex())
}

func TestListEmptyAndFilter(t *testing.T) {
	empty := NewList(nil)
	_, idx, ok := empty.Highlighted()
	assert.False(t, ok)
	assert.Equal(t, -1, idx)
	empty.Next()
	assert.Equal(t, -1, empty.HighlightedIndex())

	l := NewList(mixedItems())
	f := l.Filter("OTHER")
	require.Equal(t, 2, f.Len())
	assert.Equal(t, "other-1", f.Items()[0].Label)
	assert.False(t, f.Grouped().ShowHeaders())
	assert.Equal(t, 7, l.Filter("").Len())
}
