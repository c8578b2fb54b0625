package spatialindex

import (
	"math"

	"github.com/bcmobility/roadnet/pkg/datastructure"
	"github.com/tidwall/rtree"
)

const (
	initialSearchRadiusM = 100.0
	maxSearchRadiusM     = 1 << 22 // ~4200 km, larger than any serviced region
)

// NodeIndex snaps arbitrary planar coordinates onto graph nodes. Backed by an
// R-tree over the node positions; read-only after construction and safe for
// concurrent lookups.
type NodeIndex struct {
	tr rtree.RTreeG[datastructure.Index]
}

func NewNodeIndex(g *datastructure.RoadGraph) *NodeIndex {
	idx := &NodeIndex{}
	g.ForNodes(func(n *datastructure.Node) {
		p := [2]float64{n.GetX(), n.GetY()}
		idx.tr.Insert(p, p, n.GetID())
	})
	return idx
}

func (idx *NodeIndex) Len() int {
	return idx.tr.Len()
}

// NearestNode returns the closest node to (x, y) and its distance. The search
// box doubles until it captures a node whose distance fits inside the box,
// at which point nothing outside the box can be closer.
func (idx *NodeIndex) NearestNode(x, y float64) (datastructure.Index, float64, bool) {
	for radius := initialSearchRadiusM; radius <= maxSearchRadiusM; radius *= 2 {
		best, bestDist, found := idx.searchWithin(x, y, radius)
		if found && bestDist <= radius {
			return best, bestDist, true
		}
	}
	return datastructure.INVALID_NODE, 0, false
}

// NearestNodeWithin is NearestNode with a snap cutoff: coordinates farther
// than maxDistM from every node do not snap.
func (idx *NodeIndex) NearestNodeWithin(x, y, maxDistM float64) (datastructure.Index, float64, bool) {
	id, dist, found := idx.NearestNode(x, y)
	if !found || dist > maxDistM {
		return datastructure.INVALID_NODE, 0, false
	}
	return id, dist, true
}

func (idx *NodeIndex) searchWithin(x, y, radius float64) (datastructure.Index, float64, bool) {
	best := datastructure.INVALID_NODE
	bestDist := math.Inf(1)
	idx.tr.Search(
		[2]float64{x - radius, y - radius},
		[2]float64{x + radius, y + radius},
		func(min, max [2]float64, id datastructure.Index) bool {
			d := math.Hypot(min[0]-x, min[1]-y)
			if d < bestDist {
				best = id
				bestDist = d
			}
			return true
		})
	return best, bestDist, best != datastructure.INVALID_NODE
}
