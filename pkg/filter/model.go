// Package filter holds the filter expression tree: AND/OR groups of comparison
// conditions addressed by index paths, and the persistent mutators that edit it.
//
// Trees are never mutated in place. Every mutator rebuilds only the groups on
// the path it was given and reuses every other node by pointer, so callers can
// detect unchanged subtrees with a plain pointer comparison.
package filter

import (
	"fmt"
	"strconv"
	"strings"
)

// LogicalOperator joins the children of a Group.
type LogicalOperator string

const (
	And LogicalOperator = "AND"
	Or  LogicalOperator = "OR"
)

// Toggle flips AND to OR and back.
func (op LogicalOperator) Toggle() LogicalOperator {
	if op == Or {
		return And
	}
	return Or
}

// Node is either a *Condition or a *Group.
type Node interface {
	isNode()
}

// Condition is a single comparison. Operator is empty until the user picks one.
type Condition struct {
	PropertyName string
	Operator     string
	Value        any
}

func (*Condition) isNode() {}

// Group is an ordered AND/OR container. The root of every expression is a Group.
type Group struct {
	Logic      LogicalOperator
	Conditions []Node
}

func (*Group) isNode() {}

// NewGroup returns an empty AND group.
func NewGroup() *Group {
	return &Group{Logic: And, Conditions: []Node{}}
}

// Len returns the number of direct children.
func (g *Group) Len() int {
	if g == nil {
		return 0
	}
	return len(g.Conditions)
}

// Path addresses a node by child indexes starting at the root. An empty path
// is the root group itself. Paths are recomputed after every structural change.
type Path []int

// Root is the empty path.
func Root() Path { return Path{} }

// IsRoot reports whether p addresses the root group.
func (p Path) IsRoot() bool { return len(p) == 0 }

// Parent returns the path of the group containing p. The parent of the root is the root.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return Path{}
	}
	return p.Clone()[:len(p)-1]
}

// Last returns the terminal index, or -1 for the root.
func (p Path) Last() int {
	if len(p) == 0 {
		return -1
	}
	return p[len(p)-1]
}

// Child returns a new path one level below p.
func (p Path) Child(i int) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = i
	return out
}

// Sibling returns p with its terminal index replaced.
func (p Path) Sibling(i int) Path {
	if len(p) == 0 {
		return Path{}
	}
	out := p.Clone()
	out[len(out)-1] = i
	return out
}

// Clone returns a copy that shares no memory with p.
func (p Path) Clone() Path {
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Equal reports whether both paths address the same slot.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether p lies at or below prefix.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	return Path(p[:len(prefix)]).Equal(prefix)
}

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, idx := range p {
		parts[i] = strconv.Itoa(idx)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// String renders the condition for display, e.g. `age > 18`.
func (c *Condition) String() string {
	if c == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(c.PropertyName)
	if c.Operator != "" {
		b.WriteString(" ")
		b.WriteString(c.Operator)
	}
	if c.Value != nil && c.Value != "" {
		b.WriteString(" ")
		b.WriteString(formatValue(c.Value))
	}
	return b.String()
}

// String renders the group with explicit parentheses around nested groups.
func (g *Group) String() string {
	if g == nil || len(g.Conditions) == 0 {
		return "()"
	}
	parts := make([]string, 0, len(g.Conditions))
	for _, n := range g.Conditions {
		switch v := n.(type) {
		case *Condition:
			parts = append(parts, v.String())
		case *Group:
			if v.Len() == 0 {
				parts = append(parts, "()")
				continue
			}
			parts = append(parts, "("+v.String()+")")
		}
	}
	return strings.Join(parts, " "+string(g.Logic)+" ")
}

func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return strconv.Quote(x)
	case nil:
		return "null"
	default:
		return fmt.Sprint(x)
	}
}
