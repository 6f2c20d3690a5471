package ui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/fxed/internal/editor"
	"github.com/oakwood-commons/fxed/pkg/filter"
	"github.com/oakwood-commons/fxed/pkg/nav"
)

const (
	defaultMenuRows = 10
	// chrome is the number of non-menu lines: title, tree, blank, prompt,
	// status and help.
	chrome = 6
)

// Render draws the whole editor as a string.
func (m *Model) Render() string {
	lines := []string{
		m.Styles.Title.Render(m.Title),
		m.clip(m.renderTree()),
		"",
		m.clip(m.renderPrompt()),
	}
	lines = append(lines, m.renderMenu()...)
	lines = append(lines, m.clip(m.renderStatus()), m.clip(m.renderHelp()))
	return strings.Join(lines, "\n")
}

func (m *Model) clip(s string) string {
	if m.Width <= 0 {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(m.Width).Render(s)
}

func (m *Model) truncate(s string) string {
	if m.Width <= 0 {
		return s
	}
	return runewidth.Truncate(s, m.Width, "…")
}

func (m *Model) renderTree() string {
	root := m.Session.Root()
	st := m.Session.State()
	if root.Len() == 0 && !st.Is(nav.KindGroup) {
		return m.Styles.Muted.Render("(no filters)")
	}
	return m.renderGroup(root, filter.Root(), st)
}

func (m *Model) renderGroup(g *filter.Group, path filter.Path, st nav.State) string {
	parts := make([]string, 0, g.Len()+1)
	for i, n := range g.Conditions {
		child := path.Child(i)
		switch v := n.(type) {
		case *filter.Condition:
			parts = append(parts, m.renderCondition(v, child, st))
		case *filter.Group:
			parts = append(parts, "("+m.renderGroup(v, child, st)+")")
		}
	}
	sep := " " + m.Styles.Logic.Render(string(g.Logic)) + " "
	out := strings.Join(parts, sep)
	if st.Is(nav.KindGroup) && st.Active.Path.Equal(path) && !st.HasHighlight() {
		cursor := m.Styles.Focus.Render("+")
		if out == "" {
			return cursor
		}
		return out + " " + cursor
	}
	return out
}

func (m *Model) renderCondition(c *filter.Condition, path filter.Path, st nav.State) string {
	text := conditionLabel(m.Session.Registry(), c)
	switch {
	case st.HasHighlight() && st.Highlight.Equal(path):
		return m.Styles.Highlight.Render(text)
	case st.Active != nil && st.Active.Kind != nav.KindGroup && st.Active.Path.Equal(path):
		return m.Styles.Focus.Render(text)
	}
	return m.Styles.Condition.Render(text)
}

// conditionLabel renders a condition with property and operator labels.
func conditionLabel(reg *filter.Registry, c *filter.Condition) string {
	p, ok := reg.Get(c.PropertyName)
	if !ok {
		return c.String()
	}
	parts := []string{p.DisplayLabel()}
	if c.Operator != "" {
		op, found := p.FindOperator(c.Operator)
		if found {
			parts = append(parts, op.DisplayLabel())
		} else {
			parts = append(parts, c.Operator)
		}
		if !found || !filter.IsNullOperator(op) {
			if !filter.IsFalsy(c.Value) {
				parts = append(parts, valueLabel(p, c.Value))
			} else if c.Value == false {
				parts = append(parts, "false")
			}
		}
	}
	return strings.Join(parts, " ")
}

func valueLabel(p filter.Property, v any) string {
	if static, ok := p.Options.(filter.StaticOptions); ok {
		for _, o := range static {
			if o.Value == v {
				return o.Label
			}
		}
	}
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprint(v)
}

// slotLabel names the focused slot, e.g. "City equals".
func slotLabel(sess *editor.Session) string {
	st := sess.State()
	if st.Active == nil {
		return ""
	}
	if st.Active.Kind == nav.KindGroup {
		if st.HasHighlight() {
			return "selected"
		}
		g := filter.FindGroup(sess.Root(), st.Active.Path)
		if st.Active.Path.IsRoot() || g == nil {
			return "filter"
		}
		return fmt.Sprintf("group %s", g.Logic)
	}
	c := filter.FindCondition(sess.Root(), st.Active.Path)
	if c == nil {
		return ""
	}
	label := c.PropertyName
	p, ok := sess.Registry().Get(c.PropertyName)
	if ok {
		label = p.DisplayLabel()
	}
	if st.Active.Kind == nav.KindOperator {
		return label
	}
	if ok {
		if op, found := p.FindOperator(c.Operator); found {
			return label + " " + op.DisplayLabel()
		}
	}
	return label + " " + c.Operator
}

func placeholder(sess *editor.Session) string {
	st := sess.State()
	switch {
	case st.Active == nil:
		return "press enter to edit"
	case st.HasHighlight():
		return "backspace removes, enter edits"
	case st.Active.Kind == nav.KindGroup:
		return "type a property"
	case st.Active.Kind == nav.KindOperator:
		return "pick an operator"
	default:
		return "type a value"
	}
}

func (m *Model) renderPrompt() string {
	label := slotLabel(m.Session)
	if label == "" {
		return m.Styles.Muted.Render(placeholder(m.Session))
	}
	return m.Styles.Prompt.Render(label+" ›") + " " + m.Input.View()
}

type menuRow struct {
	text     string
	header   bool
	selected bool
}

func (m *Model) menuRows() []menuRow {
	if m.Session.State().IsIdle() || m.Session.State().HasHighlight() {
		return nil
	}
	list := m.Session.Menu()
	grouped := list.Grouped()
	if grouped.Empty {
		if m.Session.Loading() {
			return []menuRow{{text: "  loading…"}}
		}
		return []menuRow{{text: "  no results"}}
	}
	highlighted := list.HighlightedIndex()
	var rows []menuRow
	for _, sec := range grouped.Sections {
		if grouped.ShowHeaders() {
			rows = append(rows, menuRow{text: sec.Category.Title(), header: true})
		}
		for _, e := range sec.Entries {
			rows = append(rows, menuRow{text: e.Item.Label, selected: e.Index == highlighted})
		}
	}
	return rows
}

func (m *Model) renderMenu() []string {
	rows := visibleRows(m.menuRows(), m.menuCapacity())
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		switch {
		case r.header:
			out = append(out, m.Styles.MenuHeader.Render(m.truncate(r.text)))
		case r.selected:
			out = append(out, m.Styles.MenuSelected.Render(m.truncate("> "+r.text)))
		default:
			out = append(out, m.truncate("  "+r.text))
		}
	}
	return out
}

func (m *Model) menuCapacity() int {
	if m.Height <= 0 {
		return defaultMenuRows
	}
	return max(m.Height-chrome, 1)
}

// visibleRows returns a window of at most n rows that contains the selected row.
func visibleRows(rows []menuRow, n int) []menuRow {
	if len(rows) <= n {
		return rows
	}
	sel := 0
	for i, r := range rows {
		if r.selected {
			sel = i
			break
		}
	}
	start := 0
	if sel >= n {
		start = sel - n + 1
	}
	return rows[start : start+n]
}

func (m *Model) renderStatus() string {
	if msg := m.Session.PropertyError(); msg != "" {
		return m.Styles.Error.Render("options: " + msg)
	}
	if m.Session.Loading() {
		return m.Styles.Muted.Render("loading options…")
	}
	root := m.Session.Root()
	if root.Len() == 0 {
		return m.Styles.Muted.Render("cel: true")
	}
	expr := filter.ToCEL(root, m.Session.Registry())
	if err := filter.CheckCEL(root, m.Session.Registry()); err != nil {
		return m.Styles.Error.Render("cel: " + expr + " (" + err.Error() + ")")
	}
	return m.Styles.Status.Render("cel: " + expr)
}

func (m *Model) renderHelp() string {
	keys := []struct{ key, text string }{
		{"↑↓", "menu"},
		{"tab", "select"},
		{"←→", "move"},
		{"⌫", "back"},
		{"esc", "leave"},
		{"ctrl+d", "done"},
		{"ctrl+c", "cancel"},
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, m.Styles.HelpKey.Render(k.key)+" "+m.Styles.HelpText.Render(k.text))
	}
	return strings.Join(parts, "  ")
}
