package phylo

import "sort"

const (
	layoutRowGap = 80.0
	layoutColGap = 60.0
)

// Layout assigns plot coordinates to every node: y grows strictly with
// generation, and nodes sharing a generation are spread horizontally and
// centered around x=0. Rows are ordered by id so repeated layouts of the
// same tree are identical. No effect on an empty tree.
func (t *Tree) Layout() {
	rows := make(map[int][]string)
	for id, node := range t.Nodes {
		rows[node.Generation] = append(rows[node.Generation], id)
	}

	for gen, ids := range rows {
		sort.Strings(ids)
		offset := float64(len(ids)-1) / 2
		for i, id := range ids {
			node := t.Nodes[id]
			node.X = (float64(i) - offset) * layoutColGap
			node.Y = float64(gen) * layoutRowGap
		}
	}
}
