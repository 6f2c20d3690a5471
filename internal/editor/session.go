// Package editor drives one filter editor: it owns the expression tree, the
// focus state, the single text surface and the suggestion menu, and routes
// keys through the navigation machine and selections through the tree mutators.
package editor

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/fxed/pkg/filter"
	"github.com/oakwood-commons/fxed/pkg/menu"
	"github.com/oakwood-commons/fxed/pkg/nav"
	"github.com/oakwood-commons/fxed/pkg/options"
)

// Session is the state of one editor. It is not safe for concurrent use;
// the option cache it owns reports background loads through its notify hook
// and the host calls Refresh in response.
type Session struct {
	log        logr.Logger
	reg        *filter.Registry
	cache      *options.Cache
	machine    nav.Machine
	maxOptions int
	onChange   []func(*filter.Group)

	root  *filter.Group
	state nav.State
	text  string
	caret int

	menu menu.List
	// menuActive is set once the user moves through the menu after the last edit.
	menuActive bool
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(lgr logr.Logger) Option {
	return func(s *Session) { s.log = lgr }
}

// WithCache sets the option cache. The session closes it on Close.
func WithCache(c *options.Cache) Option {
	return func(s *Session) { s.cache = c }
}

// WithRoot starts the session from an existing expression.
func WithRoot(root *filter.Group) Option {
	return func(s *Session) {
		if root != nil {
			s.root = root
		}
	}
}

// WithMaxOptions caps the number of value suggestions shown. Zero means no cap.
func WithMaxOptions(n int) Option {
	return func(s *Session) { s.maxOptions = n }
}

// WithOnChange registers a callback for every new root.
func WithOnChange(fn func(*filter.Group)) Option {
	return func(s *Session) { s.OnChange(fn) }
}

// New creates an idle session over the given properties.
func New(reg *filter.Registry, opts ...Option) *Session {
	s := &Session{
		log:  logr.Discard(),
		reg:  reg,
		root: filter.NewGroup(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.reg == nil {
		s.reg = filter.NewRegistry()
	}
	if s.cache == nil {
		s.cache = options.New(context.Background(), options.WithLogger(s.log))
	}
	s.machine = nav.Machine{Coerce: s.coerce}
	return s
}

// Close releases the option cache.
func (s *Session) Close() { s.cache.Close() }

// OnChange registers fn to receive the root after every mutation.
func (s *Session) OnChange(fn func(*filter.Group)) {
	if fn != nil {
		s.onChange = append(s.onChange, fn)
	}
}

// Root returns the current expression.
func (s *Session) Root() *filter.Group { return s.root }

// State returns the focus state.
func (s *Session) State() nav.State { return s.state }

// Text returns the content of the text surface.
func (s *Session) Text() string { return s.text }

// Caret returns the caret position in runes.
func (s *Session) Caret() int { return s.caret }

// Menu returns the current suggestions.
func (s *Session) Menu() menu.List { return s.menu }

// Registry returns the configured properties.
func (s *Session) Registry() *filter.Registry { return s.reg }

// Loading reports whether any option fetch is running.
func (s *Session) Loading() bool { return s.cache.IsLoading() }

// Busy reports whether options for the focused property are scheduled or
// loading.
func (s *Session) Busy() bool {
	p, ok := s.focusedProperty()
	if !ok || !p.IsAsync() {
		return false
	}
	return s.cache.Pending(p.Name) || s.cache.Loading(p.Name)
}

// Err returns the joined option fetch errors, if any.
func (s *Session) Err() error { return s.cache.Err() }

// PropertyError returns the fetch error of the property under the focused
// condition, or "".
func (s *Session) PropertyError() string {
	p, ok := s.focusedProperty()
	if !ok {
		return ""
	}
	return s.cache.Error(p.Name)
}

// Focus moves focus to st, resetting the text surface.
func (s *Session) Focus(st nav.State) {
	s.setState(st)
}

// Blur leaves the editor.
func (s *Session) Blur() {
	s.setState(nav.Idle())
}

// SetText records an edit of the text surface.
func (s *Session) SetText(text string, caret int) {
	changed := text != s.text
	s.text = text
	s.caret = caret
	if !changed {
		return
	}
	s.menuActive = false
	s.loadOptions()
	s.rebuildMenu(false)
}

// MenuNext moves the menu highlight forward.
func (s *Session) MenuNext() {
	s.menu.Next()
	s.menuActive = true
}

// MenuPrev moves the menu highlight backward.
func (s *Session) MenuPrev() {
	s.menu.Prev()
	s.menuActive = true
}

// Refresh recomputes the suggestions, keeping the menu highlight when it is
// still in range. Hosts call it when background option loads finish. When the
// finished load answered an older search than the current text, the current
// text is requested again.
func (s *Session) Refresh() {
	if s.staleOptions() {
		s.loadOptions()
	}
	s.rebuildMenu(true)
}

func (s *Session) staleOptions() bool {
	if !s.state.Is(nav.KindValue) || s.state.HasHighlight() {
		return false
	}
	p, ok := s.focusedProperty()
	if !ok || !p.IsAsync() {
		return false
	}
	if s.cache.Pending(p.Name) || s.cache.Loading(p.Name) || s.cache.Error(p.Name) != "" {
		return false
	}
	e, ok := s.cache.Entry(p.Name)
	return !ok || e.Search != s.text
}

// Key handles a navigation key and reports whether it was consumed. Keys
// that are not consumed belong to the text surface.
func (s *Session) Key(k nav.Key) bool {
	if k == nav.KeyEnter && s.enterSelects() {
		return s.Select()
	}
	st, root, consumed := s.machine.Step(s.state, nav.Event{Key: k, Text: s.text, Caret: s.caret}, s.root)
	if !consumed {
		return false
	}
	s.log.V(1).Info("navigation", "key", k.String(), "from", s.state.String(), "to", st.String())
	s.setRoot(root)
	if !st.Equal(s.state) {
		s.setState(st)
	}
	return true
}

func (s *Session) enterSelects() bool {
	if s.state.Active == nil || s.state.HasHighlight() {
		return false
	}
	if _, _, ok := s.menu.Highlighted(); !ok {
		return false
	}
	switch s.state.Active.Kind {
	case nav.KindGroup, nav.KindOperator:
		return true
	case nav.KindValue:
		return s.menuActive || s.text == ""
	}
	return false
}

// Select applies the highlighted menu item to the focused slot.
func (s *Session) Select() bool {
	item, _, ok := s.menu.Highlighted()
	if !ok || s.state.Active == nil {
		return false
	}
	path := s.state.Active.Path
	switch s.state.Active.Kind {
	case nav.KindGroup:
		return s.selectInGroup(path, item)
	case nav.KindOperator:
		value, _ := item.Value.(string)
		root := filter.UpdateOperator(s.root, path, value)
		next := nav.FocusValue(path)
		if p, ok := s.propertyAt(path); ok {
			if op, found := p.FindOperator(value); found && filter.IsNullOperator(op) {
				root = filter.UpdateValue(root, path, nil)
				next = nav.FocusGroup(path.Parent())
			}
		}
		s.setRoot(root)
		s.setState(next)
	case nav.KindValue:
		s.setRoot(filter.UpdateValue(s.root, path, item.Value))
		s.setState(nav.FocusGroup(path.Parent()))
	default:
		return false
	}
	return true
}

func (s *Session) selectInGroup(path filter.Path, item menu.Item) bool {
	switch item.Action {
	case ActionAddGroup:
		root := filter.AddGroup(s.root, path)
		s.setRoot(root)
		s.setState(nav.FocusGroup(path.Child(filter.FindGroup(root, path).Len() - 1)))
	case ActionToggleLogic:
		s.setRoot(filter.ToggleLogic(s.root, path))
		s.setState(nav.FocusGroup(path))
	case "":
		name, _ := item.Value.(string)
		p, ok := s.reg.Get(name)
		if !ok {
			s.log.Info("ignoring selection of unknown property", "property", name)
			return false
		}
		root := filter.AddFilter(s.root, path, p)
		s.setRoot(root)
		s.setState(nav.FocusOperator(path.Child(filter.FindGroup(root, path).Len() - 1)))
	default:
		s.log.Info("ignoring unknown menu action", "action", item.Action)
		return false
	}
	return true
}

func (s *Session) setRoot(root *filter.Group) {
	if root == nil || root == s.root {
		return
	}
	s.root = root
	s.log.V(1).Info("expression changed", "expression", root.String())
	for _, fn := range s.onChange {
		fn(root)
	}
}

func (s *Session) setState(st nav.State) {
	s.state = st
	s.text = ""
	if st.Is(nav.KindValue) && !st.HasHighlight() {
		if c := filter.FindCondition(s.root, st.Active.Path); c != nil && !filter.IsFalsy(c.Value) {
			s.text = fmt.Sprint(c.Value)
		}
	}
	s.caret = len([]rune(s.text))
	s.menuActive = false
	s.loadOptions()
	s.rebuildMenu(false)
}

func (s *Session) loadOptions() {
	if !s.state.Is(nav.KindValue) {
		return
	}
	if p, ok := s.focusedProperty(); ok && p.IsAsync() {
		s.cache.Load(p, s.text)
	}
}

func (s *Session) rebuildMenu(keep bool) {
	prev := s.menu.HighlightedIndex()
	s.menu = menu.NewList(s.menuItems())
	if keep && s.menuActive {
		s.menu.SetHighlight(prev)
	}
}

func (s *Session) menuItems() []menu.Item {
	if s.state.Active == nil {
		return nil
	}
	path := s.state.Active.Path
	switch s.state.Active.Kind {
	case nav.KindGroup:
		g := filter.FindGroup(s.root, path)
		if g == nil {
			return nil
		}
		items := append(propertyItems(s.reg), groupActionItems(g, path.IsRoot())...)
		return menu.NewList(items).Filter(s.text).Items()
	case nav.KindOperator:
		p, ok := s.propertyAt(path)
		if !ok {
			return nil
		}
		return menu.NewList(operatorItems(p)).Filter(s.text).Items()
	case nav.KindValue:
		c := filter.FindCondition(s.root, path)
		p, ok := s.propertyAt(path)
		if !ok || c == nil {
			return nil
		}
		if op, found := p.FindOperator(c.Operator); found && filter.IsNullOperator(op) {
			return nil
		}
		return optionItems(s.cache.Resolve(p, s.text), s.maxOptions)
	}
	return nil
}

func (s *Session) focusedProperty() (filter.Property, bool) {
	if s.state.Active == nil || s.state.Active.Kind == nav.KindGroup {
		return filter.Property{}, false
	}
	return s.propertyAt(s.state.Active.Path)
}

func (s *Session) propertyAt(path filter.Path) (filter.Property, bool) {
	c := filter.FindCondition(s.root, path)
	if c == nil {
		return filter.Property{}, false
	}
	return s.reg.Get(c.PropertyName)
}

func (s *Session) coerce(c *filter.Condition, text string) any {
	p, ok := s.reg.Get(c.PropertyName)
	if !ok {
		return text
	}
	return filter.CoerceValue(p.Type, text)
}
