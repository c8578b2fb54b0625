package factory

import (
	"math"

	"github.com/bcmobility/roadnet/pkg/datastructure"
	"go.uber.org/zap"
)

type ConsolidateStats struct {
	Skipped          bool
	Components       int
	NodesBefore      int
	NodesAfter       int
	SelfLoopsDropped int
	EdgesAfter       int
}

// unionFind with path halving and union by size.
type unionFind struct {
	parent []datastructure.Index
	size   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{
		parent: make([]datastructure.Index, n),
		size:   make([]int, n),
	}
	for i := range uf.parent {
		uf.parent[i] = datastructure.Index(i)
		uf.size[i] = 1
	}
	return uf
}

func (uf *unionFind) find(x datastructure.Index) datastructure.Index {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b datastructure.Index) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if uf.size[ra] < uf.size[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	uf.size[ra] += uf.size[rb]
}

// consolidate merges clusters of nodes lying within the tolerance radius of
// each other into single intersections placed at the cluster centroid. Dual
// carriageways and sliver intersections collapse into one routable junction.
// Edges are re-anchored on the moved endpoints and their costs recomputed;
// self-loops created by a merge are dropped. On heavily fragmented graphs the
// stage refuses to run rather than grind through a degenerate clustering.
func (f *Factory) consolidate(g *datastructure.RoadGraph) (*datastructure.RoadGraph, ConsolidateStats, error) {
	stats := ConsolidateStats{NodesBefore: g.NumberOfNodes()}

	_, components := g.WeakComponents()
	stats.Components = components
	if components > f.cfg.ConsolidationMaxComponents {
		stats.Skipped = true
		stats.NodesAfter = g.NumberOfNodes()
		stats.EdgesAfter = g.NumberOfEdges()
		f.log.Warn("skipping intersection consolidation, graph too fragmented",
			zap.Int("components", components),
			zap.Int("maxComponents", f.cfg.ConsolidationMaxComponents))
		return g, stats, nil
	}

	tol := f.cfg.ConsolidationToleranceM
	uf := newUnionFind(g.NumberOfNodes())

	// spatial hash with cell size equal to the tolerance, so every pair
	// within tolerance shares a cell or sits in adjacent ones
	grid := make(map[[2]int][]datastructure.Index)
	cellOf := func(n *datastructure.Node) [2]int {
		return [2]int{int(math.Floor(n.GetX() / tol)), int(math.Floor(n.GetY() / tol))}
	}
	g.ForNodes(func(n *datastructure.Node) {
		c := cellOf(n)
		grid[c] = append(grid[c], n.GetID())
	})

	g.ForNodes(func(n *datastructure.Node) {
		c := cellOf(n)
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				for _, other := range grid[[2]int{c[0] + dx, c[1] + dy}] {
					if other <= n.GetID() {
						continue
					}
					if n.Position().DistanceTo(g.GetNode(other).Position()) <= tol {
						uf.union(n.GetID(), other)
					}
				}
			}
		}
	})

	// assign dense cluster ids in order of first appearance and accumulate
	// the centroid of each cluster's members
	remap := make([]datastructure.Index, g.NumberOfNodes())
	clusterOf := make(map[datastructure.Index]datastructure.Index)
	var sumX, sumY []float64
	var members []int
	g.ForNodes(func(n *datastructure.Node) {
		root := uf.find(n.GetID())
		cid, ok := clusterOf[root]
		if !ok {
			cid = datastructure.Index(len(sumX))
			clusterOf[root] = cid
			sumX = append(sumX, 0)
			sumY = append(sumY, 0)
			members = append(members, 0)
		}
		remap[n.GetID()] = cid
		sumX[cid] += n.GetX()
		sumY[cid] += n.GetY()
		members[cid]++
	})

	nodes := make([]*datastructure.Node, len(sumX))
	for cid := range nodes {
		m := float64(members[cid])
		nodes[cid] = datastructure.NewNode(datastructure.Index(cid), sumX[cid]/m, sumY[cid]/m)
	}

	edges := make([]*datastructure.Edge, 0, g.NumberOfEdges())
	g.ForEdges(func(e *datastructure.Edge) {
		from, to := remap[e.GetFrom()], remap[e.GetTo()]
		if from == to && e.GetFrom() != e.GetTo() {
			stats.SelfLoopsDropped++
			return
		}

		geom := e.GetGeometry().Clone()
		geom[0] = nodes[from].Position()
		geom[len(geom)-1] = nodes[to].Position()

		meta := e.GetMeta()
		lengthM, speedKPH, timeMin := f.roundedCost(geom.Length(), e.GetSpeedKPH(), meta.Ferry)
		edges = append(edges, datastructure.NewEdge(from, to, geom, lengthM, speedKPH, timeMin, meta))
	})

	stats.NodesAfter = len(nodes)
	stats.EdgesAfter = len(edges)

	f.log.Info("consolidated intersections",
		zap.Float64("toleranceM", tol),
		zap.Int("components", components),
		zap.Int("nodesBefore", stats.NodesBefore),
		zap.Int("nodesAfter", stats.NodesAfter),
		zap.Int("selfLoopsDropped", stats.SelfLoopsDropped),
		zap.Int("edges", stats.EdgesAfter))

	consolidated, err := datastructure.BuildRoadGraph(nodes, edges)
	if err != nil {
		return nil, stats, err
	}
	return consolidated, stats, nil
}
