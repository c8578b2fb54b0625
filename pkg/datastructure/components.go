package datastructure

// WeakComponents labels every node with the id of its weakly-connected
// component (edge direction ignored) and returns the component count. The
// consolidator uses the count as its fragmentation guard: a graph shattered
// into very many pieces would make tolerance-merging pathologically slow.
func (g *RoadGraph) WeakComponents() ([]Index, int) {
	n := g.NumberOfNodes()

	undirected := make([][]Index, n)
	for _, e := range g.edges {
		if e.from == e.to {
			continue
		}
		undirected[e.from] = append(undirected[e.from], e.to)
		undirected[e.to] = append(undirected[e.to], e.from)
	}

	labels := make([]Index, n)
	for i := range labels {
		labels[i] = INVALID_NODE
	}

	count := 0
	queue := make([]Index, 0, n)
	for s := Index(0); s < Index(n); s++ {
		if labels[s] != INVALID_NODE {
			continue
		}
		labels[s] = Index(count)
		queue = append(queue[:0], s)
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			for _, v := range undirected[u] {
				if labels[v] == INVALID_NODE {
					labels[v] = Index(count)
					queue = append(queue, v)
				}
			}
		}
		count++
	}

	return labels, count
}
