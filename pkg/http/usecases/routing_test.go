package usecases

import (
	"context"
	"testing"

	"github.com/bcmobility/roadnet/pkg/datastructure"
	"github.com/bcmobility/roadnet/pkg/engine"
	"github.com/bcmobility/roadnet/pkg/factory"
	"github.com/bcmobility/roadnet/pkg/geo"
	"github.com/bcmobility/roadnet/pkg/spatialindex"
	"go.uber.org/zap"
)

func segment(points [][2]float64, speed float64, trafficDir string) datastructure.RoadSegment {
	pl := make(datastructure.Polyline, len(points))
	for i, p := range points {
		pl[i] = datastructure.NewPoint(p[0], p[1])
	}
	return datastructure.NewRoadSegment(pl, speed, "Local", "Paved", "Paved", trafficDir, nil)
}

func newTestService(t *testing.T) *RoutingService {
	t.Helper()
	log := zap.NewNop()

	cfg := factory.DefaultConfig()
	g, _, err := factory.NewFactory(cfg, log).Build([]datastructure.RoadSegment{
		segment([][2]float64{{-123.0, 49.0}, {-123.0, 49.01}}, 50, "Both Directions"),
		segment([][2]float64{{-123.0, 49.01}, {-123.01, 49.01}}, 50, "Both Directions"),
	})
	if err != nil {
		t.Fatal(err)
	}

	eng, err := engine.New(g, engine.Options{}, log)
	if err != nil {
		t.Fatal(err)
	}

	return NewRoutingService(log, eng, spatialindex.NewNodeIndex(g), geo.NewUTMZone(cfg.UTMZone), 1000)
}

func TestShortestPathSnapsAndRoutes(t *testing.T) {
	rs := newTestService(t)

	eta, dist, path, found, err := rs.ShortestPath(49.0, -123.0, 49.01, -123.01)
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("expected a route")
	}
	if eta <= 0 || dist <= 0 {
		t.Errorf("eta = %v, dist = %v, want positive", eta, dist)
	}
	// the two segments span roughly 1.8 km; a distance in the thousands would
	// mean meters leaked through the boundary
	if dist < 1 || dist > 3 {
		t.Errorf("dist = %v, want kilometers in [1, 3]", dist)
	}

	coords, err := geo.CoordsFromPolyline(path)
	if err != nil {
		t.Fatalf("returned polyline does not decode: %v", err)
	}
	if len(coords) < 3 {
		t.Fatalf("polyline has %d points, want at least 3", len(coords))
	}
	// polyline encoding quantizes to 1e-5 degrees
	if first := coords[0]; geo.CalculateHaversineDistance(first.GetLat(), first.GetLon(), 49.0, -123.0) > 0.01 {
		t.Errorf("path does not start at the origin: %+v", first)
	}
	if last := coords[len(coords)-1]; geo.CalculateHaversineDistance(last.GetLat(), last.GetLon(), 49.01, -123.01) > 0.01 {
		t.Errorf("path does not end at the destination: %+v", last)
	}
}

func TestShortestPathRejectsUnsnappableCoordinates(t *testing.T) {
	rs := newTestService(t)

	if _, _, _, _, err := rs.ShortestPath(50.5, -125.0, 49.01, -123.01); err == nil {
		t.Error("expected a snap error far from the network")
	}
}

func TestBatchShortestPathsKeepsSlots(t *testing.T) {
	rs := newTestService(t)

	origins := []geo.Coordinate{
		geo.NewCoordinate(49.0, -123.0),
		geo.NewCoordinate(50.5, -125.0), // nowhere near the network
	}
	destinations := []geo.Coordinate{
		geo.NewCoordinate(49.01, -123.01),
		geo.NewCoordinate(49.01, -123.01),
	}

	results, err := rs.BatchShortestPaths(context.Background(), origins, destinations, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if !results[0].Ok {
		t.Error("first query should resolve")
	}
	if results[1].Ok {
		t.Error("unsnappable query should fail in place")
	}

	if _, err := rs.BatchShortestPaths(context.Background(), origins, destinations[:1], nil); err == nil {
		t.Error("expected an error for mismatched slice lengths")
	}
}

func TestAuditRouteLegs(t *testing.T) {
	rs := newTestService(t)

	audit, err := rs.AuditRoute(49.0, -123.0, 49.01, -123.01)
	if err != nil {
		t.Fatal(err)
	}
	if len(audit.Legs) != len(audit.Nodes)-1 {
		t.Errorf("legs = %d, nodes = %d", len(audit.Legs), len(audit.Nodes))
	}
	var total float64
	for _, leg := range audit.Legs {
		total += leg.TravelTimeMin
	}
	if total != audit.TravelTimeMin {
		t.Errorf("leg sum %v != total %v", total, audit.TravelTimeMin)
	}
}
