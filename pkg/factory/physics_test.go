package factory

import (
	"math"
	"testing"

	"github.com/bcmobility/roadnet/pkg/datastructure"
)

func kmEdge(meta datastructure.EdgeMeta) *datastructure.Edge {
	geom := datastructure.NewPolyline([]datastructure.Point{
		datastructure.NewPoint(0, 0),
		datastructure.NewPoint(1000, 0),
	})
	return datastructure.NewEdge(0, 1, geom, 0, 0, 0, meta)
}

func TestApplyPhysicsSpeedRules(t *testing.T) {
	f := newTestFactory(nil)

	tests := []struct {
		name      string
		meta      datastructure.EdgeMeta
		posted    float64
		wantSpeed float64
		wantTime  float64
	}{
		{
			name:      "posted speed wins over class default",
			meta:      datastructure.EdgeMeta{RoadClass: "Local", PavSurf: "Paved", PavStatus: "Paved"},
			posted:    80,
			wantSpeed: 80,
			wantTime:  0.75,
		},
		{
			name:      "missing posted speed falls back to class default",
			meta:      datastructure.EdgeMeta{RoadClass: "Arterial", PavSurf: "Paved", PavStatus: "Paved"},
			posted:    0,
			wantSpeed: 60,
			wantTime:  1,
		},
		{
			name:      "unknown class falls back to the global default",
			meta:      datastructure.EdgeMeta{RoadClass: "Unknown", PavSurf: "Paved", PavStatus: "Paved"},
			posted:    0,
			wantSpeed: 40,
			wantTime:  1.5,
		},
		{
			name:      "unpaved status degrades the class default",
			meta:      datastructure.EdgeMeta{RoadClass: "Local", PavSurf: "Paved", PavStatus: "Unpaved"},
			posted:    0,
			wantSpeed: 24,
			wantTime:  2.5,
		},
		{
			name:      "gravel surface degrades a posted speed",
			meta:      datastructure.EdgeMeta{RoadClass: "Local", PavSurf: "Gravel", PavStatus: "Paved"},
			posted:    50,
			wantSpeed: 30,
			wantTime:  2,
		},
		{
			name:      "ferry override beats posted speed and pays the boarding wait",
			meta:      datastructure.EdgeMeta{RoadClass: "Ferry", PavSurf: "Water", PavStatus: "Unknown", Ferry: true},
			posted:    60,
			wantSpeed: 10,
			wantTime:  36,
		},
		{
			name:      "degraded speed is floored",
			meta:      datastructure.EdgeMeta{RoadClass: "Resource", PavSurf: "Dirt", PavStatus: "Unpaved"},
			posted:    0, // 30 * 0.6 = 18, above floor; posted below shows floor next case
			wantSpeed: 18,
			wantTime:  math.Round(1000.0/1000.0/18.0*60.0*1000) / 1000,
		},
		{
			name:      "speed never drops below the floor",
			meta:      datastructure.EdgeMeta{RoadClass: "Local", PavSurf: "Earth", PavStatus: "Unpaved"},
			posted:    8, // 8 * 0.6 = 4.8, floored to 10
			wantSpeed: 10,
			wantTime:  6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := kmEdge(tt.meta)
			f.applyPhysics([]*datastructure.Edge{e}, []float64{tt.posted})

			if e.GetLengthM() != 1000 {
				t.Errorf("length = %v, want 1000", e.GetLengthM())
			}
			if e.GetSpeedKPH() != tt.wantSpeed {
				t.Errorf("speed = %v, want %v", e.GetSpeedKPH(), tt.wantSpeed)
			}
			if math.Abs(e.GetTravelTimeMin()-tt.wantTime) > 1e-9 {
				t.Errorf("travel time = %v, want %v", e.GetTravelTimeMin(), tt.wantTime)
			}
		})
	}
}

func TestApplyPhysicsStats(t *testing.T) {
	f := newTestFactory(nil)

	edges := []*datastructure.Edge{
		kmEdge(datastructure.EdgeMeta{RoadClass: "Local", PavSurf: "Paved", PavStatus: "Paved"}),
		kmEdge(datastructure.EdgeMeta{RoadClass: "Local", PavSurf: "Gravel", PavStatus: "Paved"}),
		kmEdge(datastructure.EdgeMeta{RoadClass: "Ferry", PavSurf: "Water", PavStatus: "Unknown", Ferry: true}),
	}
	stats := f.applyPhysics(edges, []float64{90, 0, 0})

	if stats.PostedSpeedUsed != 1 {
		t.Errorf("PostedSpeedUsed = %d, want 1", stats.PostedSpeedUsed)
	}
	if stats.ClassDefaults != 2 {
		t.Errorf("ClassDefaults = %d, want 2", stats.ClassDefaults)
	}
	if stats.SurfacePenalty != 1 {
		t.Errorf("SurfacePenalty = %d, want 1", stats.SurfacePenalty)
	}
	if stats.FerryOverride != 1 {
		t.Errorf("FerryOverride = %d, want 1", stats.FerryOverride)
	}
}
