package ui

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/fxed/internal/editor"
	"github.com/oakwood-commons/fxed/pkg/filter"
	"github.com/oakwood-commons/fxed/pkg/nav"
	"github.com/oakwood-commons/fxed/pkg/options"
)

var ansiRE = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]`)

func stripANSI(s string) string { return ansiRE.ReplaceAllString(s, "") }

func searchCities(_ context.Context, search string) ([]any, error) {
	var out []any
	for _, c := range []string{"Paris", "Parma", "Berlin"} {
		if strings.Contains(strings.ToLower(c), strings.ToLower(search)) {
			out = append(out, c)
		}
	}
	return out, nil
}

func newTestSession(t *testing.T, notifier *Notifier) *editor.Session {
	t.Helper()
	opts := []options.Option{options.WithDebounce(5 * time.Millisecond)}
	if notifier != nil {
		opts = append(opts, options.WithNotify(notifier.Notify))
	}
	cache := options.New(context.Background(), opts...)
	reg := filter.NewRegistry(
		filter.Property{Label: "Age", Name: "age", Type: filter.TypeNumber},
		filter.Property{
			Label: "Status", Name: "status", Type: filter.TypeString,
			Options: filter.StaticOptions{
				{Label: "Active", Value: "active"},
				{Label: "Closed", Value: "closed"},
			},
		},
		filter.Property{Label: "City", Name: "city", Type: filter.TypeString, Options: filter.AsyncOptions(searchCities)},
	)
	s := editor.New(reg, editor.WithCache(cache))
	t.Cleanup(s.Close)
	return s
}

func newTestModel(t *testing.T) *Model {
	t.Helper()
	m := NewModel(newTestSession(t, nil), nil, true)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func TestNewModelFocusesRootGroup(t *testing.T) {
	m := newTestModel(t)
	assert.True(t, nav.FocusGroup(filter.Root()).Equal(m.Session.State()))

	out := stripANSI(m.Render())
	assert.Contains(t, out, "filter ›")
	assert.Contains(t, out, "> Age")
	assert.Contains(t, out, "  Status")
	assert.Contains(t, out, "( ) add group")
	assert.NotContains(t, out, "Comparison", "a single category has no headers")
}

func TestKeysBuildExpression(t *testing.T) {
	m := newTestModel(t)
	ApplyStartupKeys(m, []string{"sta<CR>", "<CR>", "<CR>", "age<CR>", "greater<CR>", "18<CR>"})

	assert.Equal(t, `status = "active" AND age > 18`, m.Session.Root().String())
	assert.True(t, nav.FocusGroup(filter.Root()).Equal(m.Session.State()))

	out := stripANSI(m.Render())
	assert.Contains(t, out, `Status equals Active AND Age greater than 18 +`)
	assert.Contains(t, out, "cel: ")
	assert.Contains(t, out, "switch to OR")

	ApplyStartupKeys(m, []string{"<C-d>"})
	assert.True(t, m.Finished)
	assert.True(t, m.Session.State().IsIdle())
}

func TestOperatorMenuShowsHeaders(t *testing.T) {
	m := newTestModel(t)
	ApplyStartupKeys(m, []string{"sta<Tab>"})

	require.True(t, nav.FocusOperator(filter.Path{0}).Equal(m.Session.State()))
	out := stripANSI(m.Render())
	assert.Contains(t, out, "Comparison")
	assert.Contains(t, out, "Pattern")
	assert.Contains(t, out, "Empty values")
	assert.Contains(t, out, "> equals")

	ApplyStartupKeys(m, []string{"<Down><Tab>"})
	c := filter.FindCondition(m.Session.Root(), filter.Path{0})
	require.NotNil(t, c)
	assert.Equal(t, filter.OpNotEqual, c.Operator)
}

func TestAsyncOptionsSettleBetweenKeys(t *testing.T) {
	m := newTestModel(t)
	ApplyStartupKeys(m, []string{"city<CR><CR>par"})

	require.True(t, nav.FocusValue(filter.Path{0}).Equal(m.Session.State()))
	out := stripANSI(m.Render())
	assert.Contains(t, out, "City equals ›")
	assert.Contains(t, out, "> Paris")
	assert.Contains(t, out, "  Parma")
	assert.NotContains(t, out, "Berlin")

	ApplyStartupKeys(m, []string{"<Down><CR>"})
	assert.Equal(t, `city = "Parma"`, m.Session.Root().String())
}

func TestTwoStageBackspace(t *testing.T) {
	m := newTestModel(t)
	ApplyStartupKeys(m, []string{"sta<CR><CR><CR>"})
	require.Equal(t, 1, m.Session.Root().Len())

	ApplyStartupKeys(m, []string{"<BS>"})
	assert.True(t, m.Session.State().HasHighlight())
	assert.NotContains(t, stripANSI(m.Render()), "> Age", "no menu while a condition is highlighted")

	ApplyStartupKeys(m, []string{"<BS>"})
	assert.Equal(t, 0, m.Session.Root().Len())
	assert.False(t, m.Session.State().HasHighlight())
}

func TestTypingEditsTextSurface(t *testing.T) {
	m := newTestModel(t)
	ApplyStartupKeys(m, []string{"cix<BS>"})
	assert.Equal(t, "ci", m.Input.Value())
	assert.Equal(t, "ci", m.Session.Text())

	ApplyStartupKeys(m, []string{"<Left>"})
	assert.Equal(t, 1, m.Session.Caret())
	assert.True(t, nav.FocusGroup(filter.Root()).Equal(m.Session.State()), "arrows edit text when the surface is not empty")
}

func TestEscapeLeavesThenQuits(t *testing.T) {
	m := newTestModel(t)
	ApplyStartupKeys(m, []string{"<Esc>"})
	assert.True(t, m.Session.State().IsIdle())
	assert.False(t, m.Finished)
	assert.Contains(t, stripANSI(m.Render()), "press enter to edit")

	ApplyStartupKeys(m, []string{"<CR>"})
	assert.True(t, nav.FocusGroup(filter.Root()).Equal(m.Session.State()))

	ApplyStartupKeys(m, []string{"<Esc><Esc>"})
	assert.True(t, m.Finished)
}

func TestCtrlCCancels(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	assert.True(t, m.Cancelled)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestOptionsLoadedRefreshesAndListens(t *testing.T) {
	n := NewNotifier()
	m := NewModel(newTestSession(t, n), n, true)
	require.NotNil(t, m.Init())

	_, cmd := m.Update(OptionsLoadedMsg{Property: "city"})
	require.NotNil(t, cmd)

	n.Notify("city")
	msg := cmd()
	assert.Equal(t, OptionsLoadedMsg{Property: "city"}, msg)
}

func TestNotifierNeverBlocks(t *testing.T) {
	n := NewNotifier()
	for range 100 {
		n.Notify("city")
	}
	assert.Len(t, n.ch, cap(n.ch))
}

func TestSnapshot(t *testing.T) {
	sess := newTestSession(t, nil)
	out, res := Snapshot(sess, RunOptions{Width: 80, Height: 20, NoColor: true, Keys: []string{"age<CR>", "at most<CR>", "65<CR>"}})

	assert.False(t, res.Cancelled)
	assert.Equal(t, "age <= 65", res.Root.String())
	assert.Contains(t, stripANSI(out), "Age at most 65")
}

func TestConditionLabel(t *testing.T) {
	sess := newTestSession(t, nil)
	reg := sess.Registry()
	tests := []struct {
		c    filter.Condition
		want string
	}{
		{filter.Condition{PropertyName: "status"}, "Status"},
		{filter.Condition{PropertyName: "status", Operator: "="}, "Status equals"},
		{filter.Condition{PropertyName: "status", Operator: "=", Value: "closed"}, "Status equals Closed"},
		{filter.Condition{PropertyName: "city", Operator: "starts with", Value: "Pa"}, `City starts with "Pa"`},
		{filter.Condition{PropertyName: "age", Operator: "is null"}, "Age is empty"},
		{filter.Condition{PropertyName: "gone", Operator: "=", Value: "x"}, `gone = "x"`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, conditionLabel(reg, &tt.c))
	}
}

func TestVisibleRowsKeepsSelection(t *testing.T) {
	rows := make([]menuRow, 10)
	for i := range rows {
		rows[i].text = string(rune('a' + i))
	}
	rows[7].selected = true

	got := visibleRows(rows, 4)
	require.Len(t, got, 4)
	assert.Equal(t, "e", got[0].text)
	assert.True(t, got[3].selected)

	assert.Len(t, visibleRows(rows[:3], 4), 3)
}
