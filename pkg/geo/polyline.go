package geo

import (
	polyline "github.com/twpayne/go-polyline"
)

// PolylineFromCoords encodes a coordinate path into the Google encoded
// polyline format clients expect on the wire.
func PolylineFromCoords(coords []Coordinate) string {
	latLngs := make([][]float64, len(coords))
	for i, c := range coords {
		latLngs[i] = []float64{c.GetLat(), c.GetLon()}
	}
	return string(polyline.EncodeCoords(latLngs))
}

// CoordsFromPolyline decodes an encoded polyline back into coordinates.
func CoordsFromPolyline(encoded string) ([]Coordinate, error) {
	latLngs, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, err
	}
	coords := make([]Coordinate, len(latLngs))
	for i, ll := range latLngs {
		coords[i] = NewCoordinate(ll[0], ll[1])
	}
	return coords, nil
}
