package phylo

// TreeStats summarizes a tree for dashboards and run reports.
type TreeStats struct {
	TotalNodes         int     `json:"totalNodes"`
	Generations        int     `json:"generations"`
	MaxFitness         float64 `json:"maxFitness"`
	AliveCount         int     `json:"aliveCount"`
	ArchivedCount      int     `json:"archivedCount"`
	AvgBranchingFactor float64 `json:"avgBranchingFactor"`
}

// Stats computes summary statistics in one sweep. The branching factor
// averages child counts over nodes that have at least one child; childless
// nodes do not drag the average toward zero.
func (t *Tree) Stats() TreeStats {
	stats := TreeStats{
		TotalNodes:  t.TotalNodes,
		Generations: t.MaxGeneration,
		MaxFitness:  t.MaxFitness,
	}

	var branching, parents int
	for _, node := range t.Nodes {
		if node.Alive {
			stats.AliveCount++
		}
		if node.Archived {
			stats.ArchivedCount++
		}
		if len(node.ChildIDs) > 0 {
			branching += len(node.ChildIDs)
			parents++
		}
	}
	if parents > 0 {
		stats.AvgBranchingFactor = float64(branching) / float64(parents)
	}
	return stats
}
