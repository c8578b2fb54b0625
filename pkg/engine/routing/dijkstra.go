package routing

import (
	"github.com/bcmobility/roadnet/pkg"
	"github.com/bcmobility/roadnet/pkg/datastructure"
	"github.com/bcmobility/roadnet/pkg/util"
)

// Route is one shortest path through the road graph. Edges holds the
// traversed edges in travel order, so len(Edges) == len(Nodes)-1.
type Route struct {
	Nodes         []datastructure.Index
	Edges         []*datastructure.Edge
	TravelTimeMin float64
	DistanceM     float64
}

// Router answers single-pair shortest path queries with plain Dijkstra over
// travel time. It holds no mutable state of its own, so one Router is safe to
// share across goroutines as long as the graph stays frozen.
type Router struct {
	g *datastructure.RoadGraph
}

func NewRouter(g *datastructure.RoadGraph) *Router {
	return &Router{g: g}
}

// ShortestPath runs Dijkstra from -> to, minimizing travel time. Parallel
// edges between a node pair compete on rank like any other edge, so the
// cheapest one wins naturally. Returns false when either endpoint is unknown
// or no directed path exists.
func (r *Router) ShortestPath(from, to datastructure.Index) (Route, bool) {
	if !r.g.HasNode(from) || !r.g.HasNode(to) {
		return Route{}, false
	}

	n := r.g.NumberOfNodes()
	dist := make([]float64, n)
	for i := range dist {
		dist[i] = pkg.INF_WEIGHT
	}
	parentNode := make([]datastructure.Index, n)
	for i := range parentNode {
		parentNode[i] = datastructure.INVALID_NODE
	}
	parentEdge := make([]*datastructure.Edge, n)
	visited := make([]bool, n)
	heapNodes := make([]*datastructure.PriorityQueueNode[datastructure.Index], n)

	pq := datastructure.NewFourAryHeap[datastructure.Index]()
	pq.Preallocate(n)

	dist[from] = 0
	heapNodes[from] = datastructure.NewPriorityQueueNode(0, from)
	pq.Insert(heapNodes[from])

	for !pq.IsEmpty() {
		minNode, err := pq.ExtractMin()
		if err != nil {
			break
		}
		u := minNode.GetItem()
		if visited[u] {
			continue
		}
		visited[u] = true
		if u == to {
			break
		}

		r.g.ForOutEdgesOf(u, func(e *datastructure.Edge) {
			v := e.GetTo()
			if visited[v] {
				return
			}
			newDist := dist[u] + e.GetTravelTimeMin()
			if newDist >= dist[v] {
				return
			}
			dist[v] = newDist
			parentNode[v] = u
			parentEdge[v] = e
			if heapNodes[v] == nil {
				heapNodes[v] = datastructure.NewPriorityQueueNode(newDist, v)
				pq.Insert(heapNodes[v])
			} else {
				_ = pq.DecreaseKey(heapNodes[v], newDist)
			}
		})
	}

	if !visited[to] {
		return Route{}, false
	}

	route := Route{TravelTimeMin: dist[to]}
	for v := to; v != datastructure.INVALID_NODE; v = parentNode[v] {
		route.Nodes = append(route.Nodes, v)
		if e := parentEdge[v]; e != nil {
			route.Edges = append(route.Edges, e)
			route.DistanceM += e.GetLengthM()
		}
		if v == from {
			break
		}
	}
	route.Nodes = util.ReverseG(route.Nodes)
	route.Edges = util.ReverseG(route.Edges)

	return route, true
}
