package filter

// FindNode returns the node at path, or nil when any index is out of range.
// The empty path resolves to root.
func FindNode(root *Group, path Path) Node {
	if root == nil {
		return nil
	}
	var cur Node = root
	for _, idx := range path {
		g, ok := cur.(*Group)
		if !ok || idx < 0 || idx >= len(g.Conditions) {
			return nil
		}
		cur = g.Conditions[idx]
	}
	return cur
}

// FindGroup returns the group at path. It returns nil when the path is out of
// range or ends on a condition.
func FindGroup(root *Group, path Path) *Group {
	g, _ := FindNode(root, path).(*Group)
	return g
}

// FindCondition returns the condition at path. It returns nil when the path is
// out of range or ends on a group; the empty path never resolves to a condition.
func FindCondition(root *Group, path Path) *Condition {
	c, _ := FindNode(root, path).(*Condition)
	return c
}

// IsGroupPath reports whether path resolves to a group.
func IsGroupPath(root *Group, path Path) bool {
	return FindGroup(root, path) != nil
}

// IsLeafPath reports whether path resolves to a condition.
func IsLeafPath(root *Group, path Path) bool {
	return FindCondition(root, path) != nil
}
