package nav

import (
	"github.com/oakwood-commons/fxed/pkg/filter"
)

// CoerceFunc converts the committed text of a value slot into a condition value.
type CoerceFunc func(c *filter.Condition, text string) any

// Machine interprets navigation keys. The zero value stores committed text as
// a string.
type Machine struct {
	Coerce CoerceFunc
}

// Step applies ev to st and root. It returns the next state, the next root
// (the same pointer when the tree is untouched) and whether the key was
// consumed. Unconsumed keys belong to the text surface.
func (m Machine) Step(st State, ev Event, root *filter.Group) (State, *filter.Group, bool) {
	if root == nil {
		root = filter.NewGroup()
	}
	switch ev.Key {
	case KeyEscape:
		return m.escape(st, root)
	case KeyEnter:
		return m.enter(st, ev, root)
	}
	if st.Active == nil {
		return st, root, false
	}
	switch st.Active.Kind {
	case KindValue:
		return m.stepValue(st, ev, root)
	case KindOperator:
		return m.stepOperator(st, ev, root)
	case KindGroup:
		return m.stepGroup(st, ev, root)
	}
	return st, root, false
}

func (m Machine) escape(st State, root *filter.Group) (State, *filter.Group, bool) {
	if st.HasHighlight() {
		return st.WithHighlight(nil), root, true
	}
	if st.Active == nil {
		return st, root, false
	}
	return Idle(), root, true
}

func (m Machine) enter(st State, ev Event, root *filter.Group) (State, *filter.Group, bool) {
	if st.HasHighlight() {
		if filter.FindCondition(root, st.Highlight) == nil {
			return st.WithHighlight(nil), root, true
		}
		return FocusValue(st.Highlight), root, true
	}
	if st.Active == nil {
		return st, root, false
	}
	path := st.Active.Path
	switch st.Active.Kind {
	case KindValue:
		cond := filter.FindCondition(root, path)
		if cond == nil {
			return st, root, false
		}
		next := filter.UpdateValue(root, path, m.coerce(cond, ev.Text))
		return FocusGroup(path.Parent()), next, true
	case KindOperator:
		if filter.FindCondition(root, path) == nil {
			return st, root, false
		}
		return FocusValue(path), root, true
	}
	return st, root, false
}

func (m Machine) coerce(c *filter.Condition, text string) any {
	if m.Coerce == nil {
		return text
	}
	return m.Coerce(c, text)
}

func (m Machine) stepValue(st State, ev Event, root *filter.Group) (State, *filter.Group, bool) {
	path := st.Active.Path
	switch ev.Key {
	case KeyLeft:
		if !ev.CaretAtStart() {
			return st, root, false
		}
		prev := filter.PrevLeaf(root, path)
		if prev == nil {
			return st, root, false
		}
		return FocusValue(prev), root, true
	case KeyRight:
		if !ev.CaretAtEnd() {
			return st, root, false
		}
		if filter.FindCondition(root, path) == nil {
			return st, root, false
		}
		next := filter.NextInGroup(root, path)
		switch {
		case next == nil:
			return FocusGroup(path.Parent()), root, true
		case filter.IsGroupPath(root, next):
			return FocusGroup(next), root, true
		default:
			return FocusValue(next), root, true
		}
	case KeyBackspace:
		if !ev.Empty() {
			return st, root, false
		}
		cond := filter.FindCondition(root, path)
		if cond == nil || !filter.IsFalsy(cond.Value) {
			return st, root, false
		}
		return FocusOperator(path), root, true
	}
	return st, root, false
}

func (m Machine) stepOperator(st State, ev Event, root *filter.Group) (State, *filter.Group, bool) {
	if ev.Key == KeyBackspace {
		// operators are replaced by selecting another one
		return st, root, true
	}
	return st, root, false
}

func (m Machine) stepGroup(st State, ev Event, root *filter.Group) (State, *filter.Group, bool) {
	if !ev.Empty() {
		return st, root, false
	}
	path := st.Active.Path
	group := filter.FindGroup(root, path)
	if group == nil {
		return st, root, false
	}
	leaves := filter.LeafPathsIn(root, path)
	pos := indexOf(leaves, st.Highlight)

	switch ev.Key {
	case KeyLeft:
		switch {
		case st.Highlight == nil:
			if len(leaves) == 0 {
				return st, root, false
			}
			return st.WithHighlight(leaves[len(leaves)-1]), root, true
		case pos > 0:
			return st.WithHighlight(leaves[pos-1]), root, true
		default:
			return st.WithHighlight(nil), root, true
		}
	case KeyRight:
		if st.Highlight == nil {
			return st, root, false
		}
		if pos >= 0 && pos+1 < len(leaves) {
			return st.WithHighlight(leaves[pos+1]), root, true
		}
		return st.WithHighlight(nil), root, true
	case KeyBackspace:
		switch {
		case st.Highlight != nil:
			if pos < 0 {
				return st.WithHighlight(nil), root, true
			}
			return st.WithHighlight(nil), filter.RemovePruned(root, st.Highlight, path), true
		case group.Len() == 0 && !path.IsRoot():
			return FocusGroup(path.Parent()), filter.Remove(root, path), true
		case len(leaves) > 0:
			return st.WithHighlight(leaves[len(leaves)-1]), root, true
		case group.Len() > 0:
			// only empty subgroups remain; step into the last one
			return FocusGroup(path.Child(group.Len() - 1)), root, true
		}
	}
	return st, root, false
}

func indexOf(paths []filter.Path, p filter.Path) int {
	if p == nil {
		return -1
	}
	for i, c := range paths {
		if c.Equal(p) {
			return i
		}
	}
	return -1
}
