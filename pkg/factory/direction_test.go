package factory

import (
	"testing"

	"github.com/bcmobility/roadnet/pkg/datastructure"
)

func samePolyline(a, b datastructure.Polyline) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestResolveDirections(t *testing.T) {
	// interior points make the geometry orientation observable
	points := [][2]float64{
		{-123.0, 49.0},
		{-123.001, 49.001},
		{-123.002, 49.0015},
		{-123.003, 49.002},
	}

	tests := []struct {
		trafficDir    string
		wantEdges     int
		wantReversed  bool // single emitted edge runs against the digitized direction
		bidirectional bool
	}{
		{trafficDir: "Same Direction", wantEdges: 1},
		{trafficDir: "Opposite Direction", wantEdges: 1, wantReversed: true},
		{trafficDir: "Both Directions", wantEdges: 2, bidirectional: true},
	}

	for _, tt := range tests {
		t.Run(tt.trafficDir, func(t *testing.T) {
			f := newTestFactory(nil)
			segments := []datastructure.RoadSegment{
				testSegment(points, 50, "Local", "Paved", "Paved", tt.trafficDir),
			}
			topo := f.buildTopology(segments)
			digitized := segments[0].GetGeometry()

			edges, posted, stats := f.resolveDirections(segments, topo)

			if len(edges) != tt.wantEdges || stats.EdgesEmitted != tt.wantEdges {
				t.Fatalf("emitted %d edges (stats %d), want %d", len(edges), stats.EdgesEmitted, tt.wantEdges)
			}
			if len(posted) != len(edges) {
				t.Fatalf("posted speeds = %d, want one per edge", len(posted))
			}
			for i, p := range posted {
				if p != 50 {
					t.Errorf("posted[%d] = %v, want the segment's 50", i, p)
				}
			}

			fwd, rev := topo.links[0].from, topo.links[0].to
			first := edges[0]

			if tt.bidirectional {
				second := edges[1]
				if first.GetFrom() != fwd || first.GetTo() != rev {
					t.Errorf("forward edge runs %d -> %d, want %d -> %d", first.GetFrom(), first.GetTo(), fwd, rev)
				}
				if second.GetFrom() != rev || second.GetTo() != fwd {
					t.Errorf("reverse edge runs %d -> %d, want %d -> %d", second.GetFrom(), second.GetTo(), rev, fwd)
				}
				if !samePolyline(first.GetGeometry(), digitized) {
					t.Error("forward geometry differs from the digitized coordinate order")
				}
				if !samePolyline(second.GetGeometry(), first.GetGeometry().Reversed()) {
					t.Error("reverse geometry is not the exact reverse of the forward geometry")
				}
				if stats.Bidirectional != 1 {
					t.Errorf("stats.Bidirectional = %d, want 1", stats.Bidirectional)
				}
				return
			}

			if tt.wantReversed {
				if first.GetFrom() != rev || first.GetTo() != fwd {
					t.Errorf("edge runs %d -> %d, want %d -> %d", first.GetFrom(), first.GetTo(), rev, fwd)
				}
				if !samePolyline(first.GetGeometry(), digitized.Reversed()) {
					t.Error("geometry not reversed against the digitized direction")
				}
				if stats.ReverseOnly != 1 {
					t.Errorf("stats.ReverseOnly = %d, want 1", stats.ReverseOnly)
				}
				return
			}

			// one-way with the digitized direction: exactly one u -> v edge,
			// nothing back
			if first.GetFrom() != fwd || first.GetTo() != rev {
				t.Errorf("edge runs %d -> %d, want %d -> %d", first.GetFrom(), first.GetTo(), fwd, rev)
			}
			if !samePolyline(first.GetGeometry(), digitized) {
				t.Error("one-way geometry differs from the digitized coordinate order")
			}
			if stats.ForwardOnly != 1 {
				t.Errorf("stats.ForwardOnly = %d, want 1", stats.ForwardOnly)
			}
		})
	}
}

func TestResolveDirectionsDirtyAttributeDefaultsToBidirectional(t *testing.T) {
	f := newTestFactory(nil)
	segments := []datastructure.RoadSegment{
		testSegment([][2]float64{{-123.0, 49.0}, {-123.0, 49.01}}, 0, "Local", "Paved", "Paved", "garbage"),
	}
	topo := f.buildTopology(segments)

	edges, _, stats := f.resolveDirections(segments, topo)
	if len(edges) != 2 || stats.Bidirectional != 1 {
		t.Fatalf("emitted %d edges (bidirectional %d), want a two-way fallback", len(edges), stats.Bidirectional)
	}
}
