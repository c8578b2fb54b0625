package geo

import (
	"github.com/golang/geo/s2"
)

// Region is the geographic bounding box that input road segments must fall in.
// Segments from the source dataset occasionally carry coordinates far outside
// the province (null-island rows, digitizing slips), so the sanitizer tests
// every segment against this rectangle before it reaches the topology builder.
type Region struct {
	rect s2.Rect
}

func NewRegion(minLat, minLon, maxLat, maxLon float64) Region {
	rect := s2.RectFromLatLng(s2.LatLngFromDegrees(minLat, minLon))
	rect = rect.AddPoint(s2.LatLngFromDegrees(maxLat, maxLon))
	return Region{rect: rect}
}

func (r Region) Contains(lat, lon float64) bool {
	return r.rect.ContainsLatLng(s2.LatLngFromDegrees(lat, lon))
}
