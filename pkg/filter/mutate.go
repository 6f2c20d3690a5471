package filter

// Every mutator returns a new root. Only the groups along the given path are
// rebuilt; all other nodes keep their identity. Paths that do not resolve to
// the expected node type leave the tree untouched and return root as is.

// AddFilter appends an operator-less condition for property to the group at path.
func AddFilter(root *Group, path Path, property Property) *Group {
	return editGroup(root, path, func(g *Group) *Group {
		return g.withAppended(&Condition{PropertyName: property.Name, Operator: "", Value: ""})
	})
}

// AddGroup appends an empty AND group to the group at path.
func AddGroup(root *Group, path Path) *Group {
	return editGroup(root, path, func(g *Group) *Group {
		return g.withAppended(NewGroup())
	})
}

// Remove deletes the node at the terminal index of path from its parent,
// shifting later siblings left. Removing the root is a no-op.
func Remove(root *Group, path Path) *Group {
	if path.IsRoot() || FindNode(root, path) == nil {
		return root
	}
	idx := path.Last()
	return editGroup(root, path.Parent(), func(g *Group) *Group {
		conds := make([]Node, 0, len(g.Conditions)-1)
		conds = append(conds, g.Conditions[:idx]...)
		conds = append(conds, g.Conditions[idx+1:]...)
		return &Group{Logic: g.Logic, Conditions: conds}
	})
}

// RemovePruned removes the node at path and then every ancestor group the
// removal left empty, stopping at the group at within. within must be a
// prefix of path.
func RemovePruned(root *Group, path, within Path) *Group {
	if !path.HasPrefix(within) || len(path) <= len(within) {
		return root
	}
	next := Remove(root, path)
	for p := path.Parent(); len(p) > len(within); p = p.Parent() {
		g := FindGroup(next, p)
		if g == nil || g.Len() > 0 {
			break
		}
		next = Remove(next, p)
	}
	return next
}

// UpdateValue replaces the value of the condition at path.
func UpdateValue(root *Group, path Path, value any) *Group {
	return editCondition(root, path, func(c Condition) Condition {
		c.Value = value
		return c
	})
}

// UpdateOperator replaces the operator of the condition at path.
func UpdateOperator(root *Group, path Path, operator string) *Group {
	return editCondition(root, path, func(c Condition) Condition {
		c.Operator = operator
		return c
	})
}

// ToggleLogic flips the logical operator of the group at path.
func ToggleLogic(root *Group, path Path) *Group {
	return editGroup(root, path, func(g *Group) *Group {
		return &Group{Logic: g.Logic.Toggle(), Conditions: g.Conditions}
	})
}

func (g *Group) withAppended(n Node) *Group {
	conds := make([]Node, len(g.Conditions), len(g.Conditions)+1)
	copy(conds, g.Conditions)
	return &Group{Logic: g.Logic, Conditions: append(conds, n)}
}

func editGroup(root *Group, path Path, fn func(*Group) *Group) *Group {
	if FindGroup(root, path) == nil {
		return root
	}
	return rebuild(root, path, func(n Node) Node {
		return fn(n.(*Group))
	})
}

func editCondition(root *Group, path Path, fn func(Condition) Condition) *Group {
	if FindCondition(root, path) == nil {
		return root
	}
	return rebuild(root, path, func(n Node) Node {
		c := fn(*n.(*Condition))
		return &c
	})
}

// rebuild reconstructs the spine from root down to path, replacing the node at
// path with fn's result. The path must already be known to resolve.
func rebuild(root *Group, path Path, fn func(Node) Node) *Group {
	return rebuildNode(root, path, fn).(*Group)
}

func rebuildNode(n Node, path Path, fn func(Node) Node) Node {
	if len(path) == 0 {
		return fn(n)
	}
	g := n.(*Group)
	idx := path[0]
	conds := make([]Node, len(g.Conditions))
	copy(conds, g.Conditions)
	conds[idx] = rebuildNode(g.Conditions[idx], path[1:], fn)
	return &Group{Logic: g.Logic, Conditions: conds}
}
