package factory

import (
	"github.com/bcmobility/roadnet/pkg"
	"github.com/bcmobility/roadnet/pkg/datastructure"
	"go.uber.org/zap"
)

type DirectionStats struct {
	Bidirectional int
	ForwardOnly   int
	ReverseOnly   int
	EdgesEmitted  int
}

// resolveDirections expands every segment into its traversable directed edges.
// Two-way segments emit a forward edge and a reverse twin whose geometry runs
// in the opposite coordinate order; explicit one-way segments emit a single
// edge with or against the digitized direction. Costs are filled in by the
// physics stage afterwards, so the returned posted slice carries each edge's
// posted speed until then.
func (f *Factory) resolveDirections(segments []datastructure.RoadSegment, topo topology) ([]*datastructure.Edge, []float64, DirectionStats) {
	var stats DirectionStats
	edges := make([]*datastructure.Edge, 0, 2*len(topo.links))
	posted := make([]float64, 0, 2*len(topo.links))

	for _, ln := range topo.links {
		seg := &segments[ln.seg]
		geom := seg.GetGeometry()

		meta := datastructure.EdgeMeta{
			RoadClass:  seg.GetRoadClass(),
			PavSurf:    seg.GetPavSurf(),
			PavStatus:  seg.GetPavStatus(),
			TrafficDir: seg.GetTrafficDir(),
			Ferry:      seg.GetRoadClass() == pkg.CLASS_FERRY || seg.GetPavSurf() == pkg.SURFACE_WATER,
			Extra:      seg.GetExtra(),
		}

		switch pkg.ParseTrafficDirection(seg.GetTrafficDir()) {
		case pkg.SAME_DIRECTION:
			stats.ForwardOnly++
			edges = append(edges, datastructure.NewEdge(ln.from, ln.to, geom.Clone(), 0, 0, 0, meta))
			posted = append(posted, seg.GetSpeedKPH())
		case pkg.OPPOSITE_DIRECTION:
			stats.ReverseOnly++
			edges = append(edges, datastructure.NewEdge(ln.to, ln.from, geom.Reversed(), 0, 0, 0, meta))
			posted = append(posted, seg.GetSpeedKPH())
		default:
			stats.Bidirectional++
			edges = append(edges,
				datastructure.NewEdge(ln.from, ln.to, geom.Clone(), 0, 0, 0, meta),
				datastructure.NewEdge(ln.to, ln.from, geom.Reversed(), 0, 0, 0, meta))
			posted = append(posted, seg.GetSpeedKPH(), seg.GetSpeedKPH())
		}
	}

	stats.EdgesEmitted = len(edges)
	f.log.Info("resolved traffic directions",
		zap.Int("bidirectional", stats.Bidirectional),
		zap.Int("forwardOnly", stats.ForwardOnly),
		zap.Int("reverseOnly", stats.ReverseOnly),
		zap.Int("edges", stats.EdgesEmitted))

	return edges, posted, stats
}
