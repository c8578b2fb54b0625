package engine

import (
	"context"
	"math"
	"testing"

	"github.com/bcmobility/roadnet/pkg/datastructure"
	"go.uber.org/zap"
)

// a 5-node line: 0 - 1 - 2 - 3 two-way at 60 km/h, node 4 disconnected.
func lineGraph(t *testing.T) *datastructure.RoadGraph {
	t.Helper()

	nodes := make([]*datastructure.Node, 5)
	for i := range nodes {
		nodes[i] = datastructure.NewNode(datastructure.Index(i), float64(i)*1000, 0)
	}
	nodes[4] = datastructure.NewNode(4, 50000, 50000)

	var edges []*datastructure.Edge
	addBoth := func(u, v datastructure.Index) {
		geom := datastructure.NewPolyline([]datastructure.Point{nodes[u].Position(), nodes[v].Position()})
		lengthM := geom.Length()
		timeMin := lengthM / 1000 / 60 * 60
		meta := datastructure.EdgeMeta{RoadClass: "Local", TrafficDir: "Both Directions"}
		edges = append(edges,
			datastructure.NewEdge(u, v, geom, lengthM, 60, timeMin, meta),
			datastructure.NewEdge(v, u, geom.Reversed(), lengthM, 60, timeMin, meta))
	}
	addBoth(0, 1)
	addBoth(1, 2)
	addBoth(2, 3)

	g, err := datastructure.BuildRoadGraph(nodes, edges)
	if err != nil {
		t.Fatal(err)
	}
	g.Freeze()
	return g
}

func newTestEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	e, err := New(lineGraph(t), opts, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestNewEngineRejectsBadConfiguration(t *testing.T) {
	log := zap.NewNop()

	if _, err := New(nil, Options{}, log); err == nil {
		t.Error("accepted a nil graph")
	}

	empty, err := datastructure.BuildRoadGraph(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	empty.Freeze()
	if _, err := New(empty, Options{}, log); err == nil {
		t.Error("accepted an empty graph")
	}

	unfrozen, err := datastructure.BuildRoadGraph(
		[]*datastructure.Node{datastructure.NewNode(0, 0, 0)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(unfrozen, Options{}, log); err == nil {
		t.Error("accepted an unfrozen graph")
	}

	if _, err := New(lineGraph(t), Options{NumWorkers: -1}, log); err == nil {
		t.Error("accepted a negative worker count")
	}
	if _, err := New(lineGraph(t), Options{ChunkSize: -5}, log); err == nil {
		t.Error("accepted a negative chunk size")
	}
}

func TestBatchShortestPathsOrderAndNulls(t *testing.T) {
	// chunk size 1 forces every query through its own chunk
	e := newTestEngine(t, Options{NumWorkers: 4, ChunkSize: 1})

	queries := []Query{
		{From: 0, To: 3},  // 3km at 60 km/h = 3 min
		{From: 3, To: 0},  // symmetric
		{From: 0, To: 4},  // disconnected
		{From: 0, To: 99}, // unknown node
		{From: 2, To: 2},  // trivial
	}

	results, err := e.BatchShortestPaths(context.Background(), queries, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != len(queries) {
		t.Fatalf("results = %d, want %d", len(results), len(queries))
	}

	if !results[0].Ok || math.Abs(results[0].TravelTimeMin-3) > 1e-9 {
		t.Errorf("result 0 = %+v, want Ok with 3 min", results[0])
	}
	if math.Abs(results[0].DistanceKM-3) > 1e-9 {
		t.Errorf("result 0 distance = %v km, want 3", results[0].DistanceKM)
	}
	if !results[1].Ok || results[1].TravelTimeMin != results[0].TravelTimeMin {
		t.Errorf("reverse trip differs: %+v vs %+v", results[1], results[0])
	}
	if results[2].Ok {
		t.Error("disconnected destination must yield a null result")
	}
	if results[3].Ok {
		t.Error("unknown node must yield a null result")
	}
	if !results[4].Ok || results[4].TravelTimeMin != 0 {
		t.Errorf("trivial query = %+v, want Ok with 0 min", results[4])
	}

	wantPath := []datastructure.Index{0, 1, 2, 3}
	if len(results[0].Nodes) != len(wantPath) {
		t.Fatalf("path = %v, want %v", results[0].Nodes, wantPath)
	}
	for i, n := range wantPath {
		if results[0].Nodes[i] != n {
			t.Fatalf("path = %v, want %v", results[0].Nodes, wantPath)
		}
	}
}

func TestBatchShortestPathsIsDeterministic(t *testing.T) {
	e := newTestEngine(t, Options{NumWorkers: 8, ChunkSize: 2})

	queries := make([]Query, 0, 64)
	for i := 0; i < 64; i++ {
		queries = append(queries, Query{
			From: datastructure.Index(i % 4),
			To:   datastructure.Index((i + 1) % 4),
		})
	}

	first, err := e.BatchShortestPaths(context.Background(), queries, nil)
	if err != nil {
		t.Fatal(err)
	}
	for run := 0; run < 3; run++ {
		again, err := e.BatchShortestPaths(context.Background(), queries, nil)
		if err != nil {
			t.Fatal(err)
		}
		for i := range first {
			if first[i].Ok != again[i].Ok || first[i].TravelTimeMin != again[i].TravelTimeMin {
				t.Fatalf("run %d: result %d differs", run, i)
			}
		}
	}
}

func TestBatchShortestPathsProgress(t *testing.T) {
	e := newTestEngine(t, Options{NumWorkers: 2, ChunkSize: 3})

	queries := make([]Query, 10)
	for i := range queries {
		queries[i] = Query{From: 0, To: 3}
	}

	var calls int
	var last int
	_, err := e.BatchShortestPaths(context.Background(), queries, func(completed, total int) {
		calls++
		if total != 10 {
			t.Errorf("total = %d, want 10", total)
		}
		if completed <= last {
			t.Errorf("progress not monotonic: %d after %d", completed, last)
		}
		last = completed
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 4 { // chunks of 3, 3, 3, 1
		t.Errorf("progress calls = %d, want 4", calls)
	}
	if last != 10 {
		t.Errorf("final completed = %d, want 10", last)
	}
}

func TestBatchShortestPathsEmpty(t *testing.T) {
	e := newTestEngine(t, Options{})

	results, err := e.BatchShortestPaths(context.Background(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("results = %v, want empty", results)
	}
}

func TestBatchShortestPathsCancelledContext(t *testing.T) {
	e := newTestEngine(t, Options{NumWorkers: 2, ChunkSize: 2})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	queries := make([]Query, 8)
	for i := range queries {
		queries[i] = Query{From: 0, To: 3}
	}
	results, err := e.BatchShortestPaths(ctx, queries, nil)
	if err == nil {
		t.Fatal("expected a context error")
	}
	for i, r := range results {
		if r.Ok {
			t.Errorf("result %d resolved after cancellation", i)
		}
	}
}

func TestAuditRouteMatchesRouteTotals(t *testing.T) {
	e := newTestEngine(t, Options{})

	route, ok := e.Route(0, 3)
	if !ok {
		t.Fatal("expected a route")
	}
	audit, err := e.AuditRoute(0, 3)
	if err != nil {
		t.Fatal(err)
	}

	if len(audit.Legs) != len(route.Nodes)-1 {
		t.Fatalf("legs = %d, want %d", len(audit.Legs), len(route.Nodes)-1)
	}
	if math.Abs(audit.TravelTimeMin-route.TravelTimeMin) > 1e-9 {
		t.Errorf("audited time = %v, routed time = %v", audit.TravelTimeMin, route.TravelTimeMin)
	}
	if math.Abs(audit.DistanceKM-route.DistanceM/1000) > 1e-9 {
		t.Errorf("audited distance = %v km, routed = %v m", audit.DistanceKM, route.DistanceM)
	}

	if _, err := e.AuditRoute(0, 4); err == nil {
		t.Error("expected an error auditing an unreachable pair")
	}
}
