package filter

// LeafPaths returns the path of every condition in pre-order.
func LeafPaths(root *Group) []Path {
	var out []Path
	walkLeaves(root, Path{}, func(p Path) { out = append(out, p) })
	return out
}

// LeafPathsIn returns the pre-order condition paths below the group at groupPath.
func LeafPathsIn(root *Group, groupPath Path) []Path {
	g := FindGroup(root, groupPath)
	if g == nil {
		return nil
	}
	var out []Path
	walkLeaves(g, groupPath.Clone(), func(p Path) { out = append(out, p) })
	return out
}

func walkLeaves(g *Group, at Path, visit func(Path)) {
	for i, n := range g.Conditions {
		switch v := n.(type) {
		case *Condition:
			visit(at.Child(i))
		case *Group:
			walkLeaves(v, at.Child(i), visit)
		}
	}
}

// FirstLeaf returns the first condition at or below groupPath, or nil.
func FirstLeaf(root *Group, groupPath Path) Path {
	leaves := LeafPathsIn(root, groupPath)
	if len(leaves) == 0 {
		return nil
	}
	return leaves[0]
}

// LastLeaf returns the last condition at or below groupPath, or nil.
func LastLeaf(root *Group, groupPath Path) Path {
	leaves := LeafPathsIn(root, groupPath)
	if len(leaves) == 0 {
		return nil
	}
	return leaves[len(leaves)-1]
}

// PrevLeaf returns the condition preceding path in pre-order across the whole
// tree, or nil when path is the first condition or does not resolve.
func PrevLeaf(root *Group, path Path) Path {
	leaves := LeafPaths(root)
	for i, p := range leaves {
		if p.Equal(path) {
			if i == 0 {
				return nil
			}
			return leaves[i-1]
		}
	}
	return nil
}

// NextInGroup returns the next focus target after the condition at path
// without leaving its containing group: the first condition of the next
// sibling (descending into sibling groups), or an empty sibling group itself.
// It returns nil when nothing follows path inside its group.
func NextInGroup(root *Group, path Path) Path {
	if path.IsRoot() {
		return nil
	}
	parent := FindGroup(root, path.Parent())
	if parent == nil {
		return nil
	}
	for i := path.Last() + 1; i < len(parent.Conditions); i++ {
		sib := path.Sibling(i)
		switch v := parent.Conditions[i].(type) {
		case *Condition:
			return sib
		case *Group:
			if first := FirstLeaf(root, sib); first != nil {
				return first
			}
			if v.Len() == 0 {
				return sib
			}
		}
	}
	return nil
}
