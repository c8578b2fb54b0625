package factory

import (
	"math"
	"testing"

	"github.com/bcmobility/roadnet/pkg/datastructure"
)

func planarEdge(from, to datastructure.Index, a, b datastructure.Point, speedKPH float64) *datastructure.Edge {
	geom := datastructure.NewPolyline([]datastructure.Point{a, b})
	lengthM := geom.Length()
	timeMin := lengthM / 1000 / speedKPH * 60
	return datastructure.NewEdge(from, to, geom, lengthM, speedKPH, timeMin,
		datastructure.EdgeMeta{RoadClass: "Local", PavSurf: "Paved", PavStatus: "Paved", TrafficDir: "Both Directions"})
}

// two nodes 10m apart (inside the 15m tolerance) plus one far node. The close
// pair must merge onto its centroid, the edge between the merged pair must
// vanish as a self-loop and surviving edges get re-anchored, re-measured
// costs.
func TestConsolidateMergesCloseNodes(t *testing.T) {
	f := newTestFactory(nil)

	p0 := datastructure.NewPoint(0, 0)
	p1 := datastructure.NewPoint(10, 0)
	p2 := datastructure.NewPoint(1000, 0)

	nodes := []*datastructure.Node{
		datastructure.NewNode(0, p0.GetX(), p0.GetY()),
		datastructure.NewNode(1, p1.GetX(), p1.GetY()),
		datastructure.NewNode(2, p2.GetX(), p2.GetY()),
	}
	edges := []*datastructure.Edge{
		planarEdge(0, 1, p0, p1, 60), // collapses into the merged cluster
		planarEdge(0, 2, p0, p2, 60),
		planarEdge(2, 1, p2, p1, 60),
	}

	g, err := datastructure.BuildRoadGraph(nodes, edges)
	if err != nil {
		t.Fatal(err)
	}

	merged, stats, err := f.consolidate(g)
	if err != nil {
		t.Fatal(err)
	}

	if stats.Skipped {
		t.Fatal("consolidation unexpectedly skipped")
	}
	if merged.NumberOfNodes() != 2 {
		t.Fatalf("nodes after merge = %d, want 2", merged.NumberOfNodes())
	}
	if stats.SelfLoopsDropped != 1 {
		t.Errorf("SelfLoopsDropped = %d, want 1", stats.SelfLoopsDropped)
	}
	if merged.NumberOfEdges() != 2 {
		t.Fatalf("edges after merge = %d, want 2", merged.NumberOfEdges())
	}

	// cluster centroid of (0,0) and (10,0)
	cluster := merged.GetNode(0)
	if cluster.GetX() != 5 || cluster.GetY() != 0 {
		t.Errorf("cluster centroid = (%v, %v), want (5, 0)", cluster.GetX(), cluster.GetY())
	}

	// the 0 -> 2 edge now runs centroid to far node: 995m at 60 km/h
	e, ok := merged.BestEdgeBetween(0, 1)
	if !ok {
		t.Fatal("expected an edge from the cluster to the far node")
	}
	if e.GetLengthM() != 995 {
		t.Errorf("re-measured length = %v, want 995", e.GetLengthM())
	}
	wantTime := math.Round(995.0/1000.0/60.0*60.0*1000) / 1000
	if math.Abs(e.GetTravelTimeMin()-wantTime) > 1e-9 {
		t.Errorf("recomputed travel time = %v, want %v", e.GetTravelTimeMin(), wantTime)
	}
	if first := e.GetGeometry().First(); first != cluster.Position() {
		t.Errorf("geometry not re-anchored, starts at (%v, %v)", first.GetX(), first.GetY())
	}
}

func TestConsolidateLeavesSeparatedNodesAlone(t *testing.T) {
	f := newTestFactory(nil)

	p0 := datastructure.NewPoint(0, 0)
	p1 := datastructure.NewPoint(100, 0)
	nodes := []*datastructure.Node{
		datastructure.NewNode(0, p0.GetX(), p0.GetY()),
		datastructure.NewNode(1, p1.GetX(), p1.GetY()),
	}
	edges := []*datastructure.Edge{
		planarEdge(0, 1, p0, p1, 50),
		planarEdge(1, 0, p1, p0, 50),
	}

	g, err := datastructure.BuildRoadGraph(nodes, edges)
	if err != nil {
		t.Fatal(err)
	}

	merged, stats, err := f.consolidate(g)
	if err != nil {
		t.Fatal(err)
	}
	if merged.NumberOfNodes() != 2 || merged.NumberOfEdges() != 2 {
		t.Errorf("graph changed: %d nodes, %d edges", merged.NumberOfNodes(), merged.NumberOfEdges())
	}
	if stats.SelfLoopsDropped != 0 {
		t.Errorf("SelfLoopsDropped = %d, want 0", stats.SelfLoopsDropped)
	}
}

func TestConsolidateSkipsFragmentedGraphs(t *testing.T) {
	f := newTestFactory(func(cfg *Config) {
		cfg.ConsolidationMaxComponents = 0
	})

	p0 := datastructure.NewPoint(0, 0)
	p1 := datastructure.NewPoint(10, 0)
	nodes := []*datastructure.Node{
		datastructure.NewNode(0, p0.GetX(), p0.GetY()),
		datastructure.NewNode(1, p1.GetX(), p1.GetY()),
	}
	edges := []*datastructure.Edge{planarEdge(0, 1, p0, p1, 50)}

	g, err := datastructure.BuildRoadGraph(nodes, edges)
	if err != nil {
		t.Fatal(err)
	}

	merged, stats, err := f.consolidate(g)
	if err != nil {
		t.Fatal(err)
	}
	if !stats.Skipped {
		t.Fatal("expected the fragmentation guard to skip consolidation")
	}
	if merged != g {
		t.Error("skipped consolidation must return the graph unchanged")
	}
}
