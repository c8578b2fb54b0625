package factory

import (
	"github.com/bcmobility/roadnet/pkg/datastructure"
	"github.com/bcmobility/roadnet/pkg/util"
	"go.uber.org/zap"
)

// link ties one sanitized segment to the node pair its snapped endpoints
// resolved to. Segments whose endpoints collapse onto the same node stay in,
// they become loop edges.
type link struct {
	seg  int
	from datastructure.Index
	to   datastructure.Index
}

type topology struct {
	nodes []*datastructure.Node
	links []link
}

// buildTopology derives shared intersection nodes from segment endpoints.
// Endpoint coordinates are rounded to a fixed number of decimals first, so
// endpoints that differ only by floating-point noise land on the same node.
// The segment geometries are re-anchored on the snapped positions, which is
// what the graph's geometry invariant relies on later.
func (f *Factory) buildTopology(segments []datastructure.RoadSegment) topology {
	topo := topology{
		links: make([]link, 0, len(segments)),
	}
	nodeAt := make(map[datastructure.Point]datastructure.Index, len(segments))

	internNode := func(p datastructure.Point) (datastructure.Point, datastructure.Index) {
		snapped := f.snapPoint(p)
		id, ok := nodeAt[snapped]
		if !ok {
			id = datastructure.Index(len(topo.nodes))
			nodeAt[snapped] = id
			topo.nodes = append(topo.nodes, datastructure.NewNode(id, snapped.GetX(), snapped.GetY()))
		}
		return snapped, id
	}

	for i := range segments {
		geom := segments[i].GetGeometry().Clone()

		first, from := internNode(geom.First())
		last, to := internNode(geom.Last())
		geom[0] = first
		geom[len(geom)-1] = last
		segments[i].SetGeometry(geom)

		topo.links = append(topo.links, link{seg: i, from: from, to: to})
	}

	f.log.Info("built topology",
		zap.Int("segments", len(topo.links)),
		zap.Int("nodes", len(topo.nodes)))

	return topo
}

func (f *Factory) snapPoint(p datastructure.Point) datastructure.Point {
	return datastructure.NewPoint(
		util.RoundFloat(p.GetX(), f.cfg.SnapDecimals),
		util.RoundFloat(p.GetY(), f.cfg.SnapDecimals),
	)
}
