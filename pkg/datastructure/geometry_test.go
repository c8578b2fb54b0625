package datastructure

import (
	"math"
	"testing"
)

func TestPolylineBasics(t *testing.T) {
	pl := NewPolyline([]Point{NewPoint(0, 0), NewPoint(3, 4), NewPoint(3, 8)})

	if got := pl.Length(); got != 9 {
		t.Errorf("Length = %v, want 9", got)
	}
	if pl.First() != NewPoint(0, 0) || pl.Last() != NewPoint(3, 8) {
		t.Error("First/Last broken")
	}

	rev := pl.Reversed()
	if rev.First() != pl.Last() || rev.Last() != pl.First() {
		t.Error("Reversed did not flip the endpoints")
	}
	if pl.First() != NewPoint(0, 0) {
		t.Error("Reversed mutated the original")
	}

	cp := pl.Clone()
	cp[0] = NewPoint(99, 99)
	if pl.First() == cp[0] {
		t.Error("Clone shares backing storage")
	}
}

func TestIsDegenerate(t *testing.T) {
	tests := []struct {
		name string
		pl   Polyline
		want bool
	}{
		{"empty", Polyline{}, true},
		{"single point", NewPolyline([]Point{NewPoint(1, 1)}), true},
		{"all identical", NewPolyline([]Point{NewPoint(1, 1), NewPoint(1, 1)}), true},
		{"nan coordinate", NewPolyline([]Point{NewPoint(math.NaN(), 0), NewPoint(1, 1)}), true},
		{"infinite coordinate", NewPolyline([]Point{NewPoint(0, 0), NewPoint(math.Inf(1), 1)}), true},
		{"healthy", NewPolyline([]Point{NewPoint(0, 0), NewPoint(1, 1)}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pl.IsDegenerate(); got != tt.want {
				t.Errorf("IsDegenerate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRepair(t *testing.T) {
	dirty := NewPolyline([]Point{
		NewPoint(0, 0),
		NewPoint(math.NaN(), 5),
		NewPoint(0, 0), // duplicate of the surviving predecessor
		NewPoint(2, 2),
	})

	repaired, ok := dirty.Repair()
	if !ok {
		t.Fatal("repair failed on a salvageable polyline")
	}
	if len(repaired) != 2 {
		t.Fatalf("repaired length = %d, want 2", len(repaired))
	}

	hopeless := NewPolyline([]Point{NewPoint(1, 1), NewPoint(1, 1)})
	if _, ok := hopeless.Repair(); ok {
		t.Error("repaired a polyline with no usable extent")
	}
}
