package datastructure

import (
	"math"
)

const (
	EPS = 1e-6
)

type Point struct {
	x, y float64
}

func NewPoint(x, y float64) Point {
	return Point{x, y}
}

func (p Point) GetX() float64 {
	return p.x
}

func (p Point) GetY() float64 {
	return p.y
}

func (p Point) DistanceTo(q Point) float64 {
	return math.Hypot(p.x-q.x, p.y-q.y)
}

// equal operator
func Eq(a, b float64) bool {
	return math.Abs(a-b) <= EPS
}

// less than operator
func Lt(a, b float64) bool {
	return a+EPS < b
}

// less than or equal operator
func Le(a, b float64) bool {
	return a <= b+EPS
}

func Ge(a, b float64) bool {
	return Le(b, a)
}

func Gt(a, b float64) bool {
	return Lt(b, a)
}

func pEqual(a, b Point) bool {
	return Eq(a.x, b.x) && Eq(a.y, b.y)
}

// Polyline is an ordered coordinate sequence. The first point is the start of
// travel and the last point the end, so reversing a polyline is how an edge
// geometry gets oriented against the digitized direction.
type Polyline []Point

func NewPolyline(points []Point) Polyline {
	return Polyline(points)
}

func (pl Polyline) First() Point {
	return pl[0]
}

func (pl Polyline) Last() Point {
	return pl[len(pl)-1]
}

// Reversed returns a copy with the coordinate order flipped.
func (pl Polyline) Reversed() Polyline {
	rev := make(Polyline, len(pl))
	for i, p := range pl {
		rev[len(pl)-1-i] = p
	}
	return rev
}

func (pl Polyline) Clone() Polyline {
	cp := make(Polyline, len(pl))
	copy(cp, pl)
	return cp
}

// Length. planar length in the unit of the polyline's coordinates.
func (pl Polyline) Length() float64 {
	total := 0.0
	for i := 1; i < len(pl); i++ {
		total += pl[i-1].DistanceTo(pl[i])
	}
	return total
}

// IsDegenerate reports whether the polyline cannot describe a road segment:
// fewer than two points, a non-finite coordinate, or all points identical.
func (pl Polyline) IsDegenerate() bool {
	if len(pl) < 2 {
		return true
	}
	for _, p := range pl {
		if math.IsNaN(p.x) || math.IsInf(p.x, 0) || math.IsNaN(p.y) || math.IsInf(p.y, 0) {
			return true
		}
	}
	for i := 1; i < len(pl); i++ {
		if !pEqual(pl[0], pl[i]) {
			return false
		}
	}
	return true
}

// Repair drops non-finite points and collapses runs of duplicate points.
// Returns the repaired polyline and whether it is usable afterwards.
func (pl Polyline) Repair() (Polyline, bool) {
	out := make(Polyline, 0, len(pl))
	for _, p := range pl {
		if math.IsNaN(p.x) || math.IsInf(p.x, 0) || math.IsNaN(p.y) || math.IsInf(p.y, 0) {
			continue
		}
		if len(out) > 0 && pEqual(out[len(out)-1], p) {
			continue
		}
		out = append(out, p)
	}
	if out.IsDegenerate() {
		return out, false
	}
	return out, true
}
