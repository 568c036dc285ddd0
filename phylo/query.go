package phylo

// Ancestors returns every transitive ancestor of id in breadth-first
// order, nearest parents first. Each ancestor appears once even when it is
// reachable through both sides of a crossover. Returns nil for unknown ids
// and for roots.
func (t *Tree) Ancestors(id string) []*Node {
	return t.walk(id, func(n *Node) []string { return n.ParentIDs })
}

// Descendants returns every transitive descendant of id in breadth-first
// order. Returns nil for unknown ids and for childless nodes.
func (t *Tree) Descendants(id string) []*Node {
	return t.walk(id, func(n *Node) []string { return n.ChildIDs })
}

func (t *Tree) walk(id string, next func(*Node) []string) []*Node {
	start, ok := t.Nodes[id]
	if !ok {
		return nil
	}

	var out []*Node
	visited := map[string]bool{id: true}
	queue := next(start)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if visited[cur] {
			continue
		}
		visited[cur] = true
		node, ok := t.Nodes[cur]
		if !ok {
			continue
		}
		out = append(out, node)
		queue = append(queue, next(node)...)
	}
	return out
}

// Lineage returns the path from a root down to id, following only the
// first listed parent at each step (crossover nodes trace their primary
// parent). The result starts at the root, ends at id, and has length
// generation+1 when parent generations are contiguous. Returns nil for
// unknown ids.
func (t *Tree) Lineage(id string) []*Node {
	node, ok := t.Nodes[id]
	if !ok {
		return nil
	}

	// Walk upward, then reverse.
	var up []*Node
	for node != nil {
		up = append(up, node)
		if len(node.ParentIDs) == 0 {
			break
		}
		node = t.Nodes[node.ParentIDs[0]]
	}

	path := make([]*Node, len(up))
	for i, n := range up {
		path[len(up)-1-i] = n
	}
	return path
}
