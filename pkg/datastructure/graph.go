package datastructure

import (
	"fmt"

	"github.com/bcmobility/roadnet/pkg/util"
)

type Index int32

const INVALID_NODE Index = -1

// Node is a road intersection or segment endpoint after coordinate snapping.
// Positions are planar (projected) once the factory's projection stage ran.
type Node struct {
	id Index
	x  float64
	y  float64
}

func NewNode(id Index, x, y float64) *Node {
	return &Node{id: id, x: x, y: y}
}

func (n *Node) GetID() Index {
	return n.id
}

func (n *Node) GetX() float64 {
	return n.x
}

func (n *Node) GetY() float64 {
	return n.y
}

func (n *Node) Position() Point {
	return NewPoint(n.x, n.y)
}

// EdgeMeta is the categorical metadata every edge keeps for auditing.
// Attributes that take no part in cost computation live in Extra.
type EdgeMeta struct {
	RoadClass  string
	PavSurf    string
	PavStatus  string
	TrafficDir string
	Ferry      bool
	Extra      map[string]string
}

// Edge is one traversable road segment in one direction of travel. Its
// geometry is oriented in the direction of travel: the first coordinate is
// the tail node's position, the last the head node's.
type Edge struct {
	from Index
	to   Index
	key  int32

	geometry      Polyline
	lengthM       float64
	speedKPH      float64
	travelTimeMin float64

	meta EdgeMeta
}

func NewEdge(from, to Index, geometry Polyline, lengthM, speedKPH, travelTimeMin float64,
	meta EdgeMeta) *Edge {
	return &Edge{
		from:          from,
		to:            to,
		geometry:      geometry,
		lengthM:       lengthM,
		speedKPH:      speedKPH,
		travelTimeMin: travelTimeMin,
		meta:          meta,
	}
}

func (e *Edge) GetFrom() Index {
	return e.from
}

func (e *Edge) GetTo() Index {
	return e.to
}

func (e *Edge) GetKey() int32 {
	return e.key
}

func (e *Edge) GetGeometry() Polyline {
	return e.geometry
}

func (e *Edge) GetLengthM() float64 {
	return e.lengthM
}

func (e *Edge) GetSpeedKPH() float64 {
	return e.speedKPH
}

func (e *Edge) GetTravelTimeMin() float64 {
	return e.travelTimeMin
}

func (e *Edge) GetMeta() EdgeMeta {
	return e.meta
}

func (e *Edge) IsFerry() bool {
	return e.meta.Ferry
}

func (e *Edge) setKey(key int32) {
	e.key = key
}

// SetCost installs the modeled cost fields. Only the factory's physics stage
// and the consolidator's recomputation call this, never the routing side.
func (e *Edge) SetCost(lengthM, speedKPH, travelTimeMin float64) {
	e.lengthM = lengthM
	e.speedKPH = speedKPH
	e.travelTimeMin = travelTimeMin
}

// RoadGraph is the routable directed multigraph. It is built once by the
// factory, then frozen; the routing workers only ever read it.
type RoadGraph struct {
	nodes    []*Node
	edges    []*Edge
	outEdges [][]int32
	frozen   bool
}

// BuildRoadGraph assembles a graph from dense-id nodes and directed edges.
// Disambiguation keys are assigned here, sequentially per ordered (from, to)
// pair in insertion order, so every (from, to, key) triple is unique even
// after the directionality resolver emitted reverse twins.
func BuildRoadGraph(nodes []*Node, edges []*Edge) (*RoadGraph, error) {
	g := &RoadGraph{
		nodes:    nodes,
		edges:    make([]*Edge, 0, len(edges)),
		outEdges: make([][]int32, len(nodes)),
	}

	keyCounter := make(map[[2]Index]int32, len(edges))
	for _, e := range edges {
		if !g.HasNode(e.from) || !g.HasNode(e.to) {
			return nil, util.WrapErrorf(nil, util.ErrInternalServerError,
				"edge references missing node (%d -> %d)", e.from, e.to)
		}
		pair := [2]Index{e.from, e.to}
		e.setKey(keyCounter[pair])
		keyCounter[pair]++

		eid := int32(len(g.edges))
		g.edges = append(g.edges, e)
		g.outEdges[e.from] = append(g.outEdges[e.from], eid)
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *RoadGraph) NumberOfNodes() int {
	return len(g.nodes)
}

func (g *RoadGraph) NumberOfEdges() int {
	return len(g.edges)
}

func (g *RoadGraph) HasNode(id Index) bool {
	return id >= 0 && int(id) < len(g.nodes)
}

func (g *RoadGraph) GetNode(id Index) *Node {
	return g.nodes[id]
}

func (g *RoadGraph) GetEdge(eid int32) *Edge {
	return g.edges[eid]
}

func (g *RoadGraph) ForNodes(fn func(n *Node)) {
	for _, n := range g.nodes {
		fn(n)
	}
}

func (g *RoadGraph) ForEdges(fn func(e *Edge)) {
	for _, e := range g.edges {
		fn(e)
	}
}

func (g *RoadGraph) ForOutEdgesOf(u Index, fn func(e *Edge)) {
	for _, eid := range g.outEdges[u] {
		fn(g.edges[eid])
	}
}

func (g *RoadGraph) OutDegree(u Index) int {
	return len(g.outEdges[u])
}

// EdgesBetween returns all parallel edges u -> v in insertion order.
func (g *RoadGraph) EdgesBetween(u, v Index) []*Edge {
	var out []*Edge
	for _, eid := range g.outEdges[u] {
		if g.edges[eid].to == v {
			out = append(out, g.edges[eid])
		}
	}
	return out
}

// BestEdgeBetween picks the representative among parallel edges u -> v:
// minimum travel time, ties broken by first-encountered order.
func (g *RoadGraph) BestEdgeBetween(u, v Index) (*Edge, bool) {
	var best *Edge
	for _, eid := range g.outEdges[u] {
		e := g.edges[eid]
		if e.to != v {
			continue
		}
		if best == nil || e.travelTimeMin < best.travelTimeMin {
			best = e
		}
	}
	return best, best != nil
}

// Freeze marks the end of construction. Routing must only see frozen graphs.
func (g *RoadGraph) Freeze() {
	g.frozen = true
}

func (g *RoadGraph) IsFrozen() bool {
	return g.frozen
}

// Validate checks the internal-consistency invariants that must hold by
// construction: dense node ids, no dangling edge endpoints, unique
// (from, to, key) triples, positive costs, geometry endpoints anchored on
// the endpoint nodes. A violation here is a bug, not a data-quality problem.
func (g *RoadGraph) Validate() error {
	for i, n := range g.nodes {
		if n.id != Index(i) {
			return util.WrapErrorf(nil, util.ErrInternalServerError,
				"node ids are not dense: slot %d holds id %d", i, n.id)
		}
	}

	seen := make(map[string]struct{}, len(g.edges))
	for _, e := range g.edges {
		if !g.HasNode(e.from) || !g.HasNode(e.to) {
			return util.WrapErrorf(nil, util.ErrInternalServerError,
				"dangling edge (%d -> %d)", e.from, e.to)
		}
		triple := fmt.Sprintf("%d|%d|%d", e.from, e.to, e.key)
		if _, dup := seen[triple]; dup {
			return util.WrapErrorf(nil, util.ErrInternalServerError,
				"duplicate edge key (%d -> %d, key %d)", e.from, e.to, e.key)
		}
		seen[triple] = struct{}{}

		if e.lengthM <= 0 || e.speedKPH <= 0 || e.travelTimeMin < 0 {
			return util.WrapErrorf(nil, util.ErrInternalServerError,
				"non-positive cost on edge (%d -> %d, key %d): len=%f speed=%f time=%f",
				e.from, e.to, e.key, e.lengthM, e.speedKPH, e.travelTimeMin)
		}

		if len(e.geometry) >= 2 {
			if !pEqual(e.geometry.First(), g.nodes[e.from].Position()) ||
				!pEqual(e.geometry.Last(), g.nodes[e.to].Position()) {
				return util.WrapErrorf(nil, util.ErrInternalServerError,
					"edge geometry detached from its endpoints (%d -> %d, key %d)",
					e.from, e.to, e.key)
			}
		}
	}
	return nil
}
