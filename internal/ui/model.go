// Package ui is the terminal front end of the filter editor. It maps key
// presses onto an editor session and renders the expression, the text
// surface and the suggestion menu.
package ui

import (
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/fxed/internal/editor"
	"github.com/oakwood-commons/fxed/pkg/filter"
	"github.com/oakwood-commons/fxed/pkg/nav"
)

// OptionsLoadedMsg reports that background options for a property started
// or finished loading.
type OptionsLoadedMsg struct {
	Property string
}

// Notifier carries option cache notifications into the Bubble Tea loop.
// Pass Notify to options.WithNotify.
type Notifier struct {
	ch chan string
}

// NewNotifier returns a Notifier with a small buffer. Notifications that
// arrive while the buffer is full are dropped; the pending ones already
// trigger a refresh.
func NewNotifier() *Notifier {
	return &Notifier{ch: make(chan string, 16)}
}

// Notify queues a notification without blocking.
func (n *Notifier) Notify(name string) {
	select {
	case n.ch <- name:
	default:
	}
}

func (n *Notifier) wait() tea.Cmd {
	return func() tea.Msg {
		name, ok := <-n.ch
		if !ok {
			return nil
		}
		return OptionsLoadedMsg{Property: name}
	}
}

var navKeys = map[string]nav.Key{
	"left":      nav.KeyLeft,
	"right":     nav.KeyRight,
	"backspace": nav.KeyBackspace,
	"esc":       nav.KeyEscape,
	"enter":     nav.KeyEnter,
}

// Model is the Bubble Tea model of the editor.
type Model struct {
	Session *editor.Session
	Input   textinput.Model
	Styles  Styles
	NoColor bool
	Title   string

	Width  int
	Height int

	// Finished is set when the user accepts the expression; Cancelled when
	// they abort with ctrl+c.
	Finished  bool
	Cancelled bool

	notifier *Notifier
}

// NewModel returns a model focused on the root group of sess. notifier may
// be nil when the session has no async properties.
func NewModel(sess *editor.Session, notifier *Notifier, noColor bool) *Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 256
	ti.Focus()

	m := &Model{
		Session:  sess,
		Input:    ti,
		Styles:   DefaultStyles(noColor),
		NoColor:  noColor,
		Title:    "fxed",
		notifier: notifier,
	}
	sess.Focus(nav.FocusGroup(filter.Root()))
	m.syncInput()
	return m
}

// Init starts listening for option notifications.
func (m *Model) Init() tea.Cmd {
	if m.notifier == nil {
		return nil
	}
	return m.notifier.wait()
}

// Update handles window, key and notification messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		if msg.Width > 4 {
			m.Input.SetWidth(msg.Width - 4)
		}
		return m, nil
	case OptionsLoadedMsg:
		m.Session.Refresh()
		if m.notifier != nil {
			return m, m.notifier.wait()
		}
		return m, nil
	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.Cancelled = true
		return m, tea.Quit
	case "ctrl+d":
		m.Finished = true
		m.Session.Blur()
		m.syncInput()
		return m, tea.Quit
	case "up":
		m.Session.MenuPrev()
		return m, nil
	case "down":
		m.Session.MenuNext()
		return m, nil
	case "tab":
		if m.Session.Select() {
			m.syncInput()
		}
		return m, nil
	}

	if m.Session.State().IsIdle() {
		switch msg.String() {
		case "enter":
			m.Session.Focus(nav.FocusGroup(filter.Root()))
			m.syncInput()
		case "esc":
			m.Finished = true
			return m, tea.Quit
		}
		return m, nil
	}

	if key, ok := navKeys[msg.String()]; ok {
		m.Session.SetText(m.Input.Value(), m.Input.Position())
		if m.Session.Key(key) {
			m.syncInput()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	m.Session.SetText(m.Input.Value(), m.Input.Position())
	return m, cmd
}

func (m *Model) syncInput() {
	m.Input.SetValue(m.Session.Text())
	m.Input.SetCursor(m.Session.Caret())
	m.Input.Placeholder = placeholder(m.Session)
}

// Settle waits until no option load is scheduled or running for the focused
// property, or until timeout, and then refreshes the menu.
func (m *Model) Settle(timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for m.Session.Busy() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	m.Session.Refresh()
}

// View renders the model on the alternate screen.
func (m *Model) View() tea.View {
	v := tea.NewView(m.Render())
	v.AltScreen = true
	return v
}
