// Package nav is the keyboard focus model of the filter editor. It decides,
// for one key press, which editable slot gets focus next, which condition is
// highlighted for deletion, and which tree mutation (if any) the key causes.
// Step is a pure function: it never mutates its inputs.
package nav

import (
	"fmt"

	"github.com/oakwood-commons/fxed/pkg/filter"
)

// InputKind identifies the kind of slot that owns the text surface.
type InputKind int

const (
	// KindValue is the value slot of a condition.
	KindValue InputKind = iota
	// KindOperator is the operator slot of a condition.
	KindOperator
	// KindGroup is the trailing input of a group, used to add conditions.
	KindGroup
)

func (k InputKind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindOperator:
		return "operator"
	case KindGroup:
		return "group"
	default:
		return fmt.Sprintf("InputKind(%d)", int(k))
	}
}

// ActiveInput is the focused slot. Path addresses a condition for value and
// operator slots and a group for group slots.
type ActiveInput struct {
	Kind InputKind
	Path filter.Path
}

// State is the focus state of one editor. A nil Active means nothing is
// focused. Highlight, when set, is a condition at or below the focused group.
type State struct {
	Active    *ActiveInput
	Highlight filter.Path
}

// Idle is the unfocused state.
func Idle() State { return State{} }

// FocusValue focuses the value slot of the condition at path.
func FocusValue(path filter.Path) State { return focus(KindValue, path) }

// FocusOperator focuses the operator slot of the condition at path.
func FocusOperator(path filter.Path) State { return focus(KindOperator, path) }

// FocusGroup focuses the input of the group at path.
func FocusGroup(path filter.Path) State { return focus(KindGroup, path) }

func focus(kind InputKind, path filter.Path) State {
	return State{Active: &ActiveInput{Kind: kind, Path: path.Clone()}}
}

// IsIdle reports whether nothing is focused.
func (s State) IsIdle() bool { return s.Active == nil }

// Is reports whether the focused slot has the given kind.
func (s State) Is(kind InputKind) bool { return s.Active != nil && s.Active.Kind == kind }

// HasHighlight reports whether a condition is highlighted.
func (s State) HasHighlight() bool { return s.Highlight != nil }

// WithHighlight returns s with the highlight replaced; nil clears it.
func (s State) WithHighlight(p filter.Path) State {
	if p == nil {
		s.Highlight = nil
	} else {
		s.Highlight = p.Clone()
	}
	return s
}

// Equal compares two states by value.
func (s State) Equal(o State) bool {
	if (s.Active == nil) != (o.Active == nil) {
		return false
	}
	if s.Active != nil && (s.Active.Kind != o.Active.Kind || !s.Active.Path.Equal(o.Active.Path)) {
		return false
	}
	if (s.Highlight == nil) != (o.Highlight == nil) {
		return false
	}
	return s.Highlight == nil || s.Highlight.Equal(o.Highlight)
}

func (s State) String() string {
	if s.Active == nil {
		return "idle"
	}
	out := s.Active.Kind.String() + s.Active.Path.String()
	if s.Highlight != nil {
		out += " highlight" + s.Highlight.String()
	}
	return out
}
