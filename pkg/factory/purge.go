package factory

import (
	"github.com/bcmobility/roadnet/pkg/datastructure"
	"go.uber.org/zap"
)

type PurgeStats struct {
	NodesPurged    int
	EdgesDetached  int
	EdgesTooLong   int
	NodesRemaining int
	EdgesRemaining int
}

// purge removes nodes that landed outside the projection's valid envelope and
// edges that either hang off a purged node or are implausibly long. Both are
// signatures of corrupt source rows that survived sanitizing, typically
// coordinates near the origin that projected to nonsense. Node ids are
// re-densified and the graph rebuilt.
func (f *Factory) purge(g *datastructure.RoadGraph) (*datastructure.RoadGraph, PurgeStats, error) {
	var stats PurgeStats

	remap := make([]datastructure.Index, g.NumberOfNodes())
	nodes := make([]*datastructure.Node, 0, g.NumberOfNodes())
	g.ForNodes(func(n *datastructure.Node) {
		if !f.cfg.PurgeEnvelope.Contains(n.GetX(), n.GetY()) {
			remap[n.GetID()] = datastructure.INVALID_NODE
			stats.NodesPurged++
			return
		}
		id := datastructure.Index(len(nodes))
		remap[n.GetID()] = id
		nodes = append(nodes, datastructure.NewNode(id, n.GetX(), n.GetY()))
	})

	edges := make([]*datastructure.Edge, 0, g.NumberOfEdges())
	g.ForEdges(func(e *datastructure.Edge) {
		from, to := remap[e.GetFrom()], remap[e.GetTo()]
		if from == datastructure.INVALID_NODE || to == datastructure.INVALID_NODE {
			stats.EdgesDetached++
			return
		}
		if e.GetLengthM() > f.cfg.EdgeLengthCeilingM {
			stats.EdgesTooLong++
			return
		}
		edges = append(edges, datastructure.NewEdge(from, to, e.GetGeometry(),
			e.GetLengthM(), e.GetSpeedKPH(), e.GetTravelTimeMin(), e.GetMeta()))
	})

	stats.NodesRemaining = len(nodes)
	stats.EdgesRemaining = len(edges)

	f.log.Info("purged out-of-envelope artifacts",
		zap.Int("nodesPurged", stats.NodesPurged),
		zap.Int("edgesDetached", stats.EdgesDetached),
		zap.Int("edgesTooLong", stats.EdgesTooLong),
		zap.Int("nodesRemaining", stats.NodesRemaining),
		zap.Int("edgesRemaining", stats.EdgesRemaining))

	purged, err := datastructure.BuildRoadGraph(nodes, edges)
	if err != nil {
		return nil, stats, err
	}
	return purged, stats, nil
}
