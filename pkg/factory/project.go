package factory

import (
	"github.com/bcmobility/roadnet/pkg/datastructure"
	"go.uber.org/zap"
)

// projectTopology moves nodes and segment geometries from geographic lon/lat
// into the planar meter grid. Node positions and geometry endpoints go through
// the same projection of the same snapped input, so the anchoring established
// by the topology stage survives bit for bit.
func (f *Factory) projectTopology(topo *topology, segments []datastructure.RoadSegment) {
	for i, n := range topo.nodes {
		x, y := f.proj.Project(n.GetX(), n.GetY())
		topo.nodes[i] = datastructure.NewNode(n.GetID(), x, y)
	}

	for i := range segments {
		geom := segments[i].GetGeometry()
		projected := make(datastructure.Polyline, len(geom))
		for j, p := range geom {
			x, y := f.proj.Project(p.GetX(), p.GetY())
			projected[j] = datastructure.NewPoint(x, y)
		}
		segments[i].SetGeometry(projected)
	}

	f.log.Info("projected topology to planar coordinates",
		zap.Int("nodes", len(topo.nodes)),
		zap.Int("segments", len(segments)))
}
