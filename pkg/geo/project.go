package geo

import (
	"math"

	"github.com/bcmobility/roadnet/pkg"
	"github.com/bcmobility/roadnet/pkg/util"
)

// TransverseMercator projects geographic coordinates onto a metric plane so
// that the purge envelope and the consolidation tolerance can be expressed in
// meters. Spherical transverse mercator is enough here: the graph only needs
// a locally consistent metric plane, not survey-grade UTM.
// https://www.movable-type.co.uk/scripts/latlong-utm-mgrs.html
type TransverseMercator struct {
	centralMeridian float64 // degrees
	falseEasting    float64 // meters
	falseNorthing   float64 // meters
	scale           float64 // k0
}

func NewTransverseMercator(centralMeridian, falseEasting, falseNorthing, scale float64) *TransverseMercator {
	return &TransverseMercator{
		centralMeridian: centralMeridian,
		falseEasting:    falseEasting,
		falseNorthing:   falseNorthing,
		scale:           scale,
	}
}

// NewUTMZone builds the projection for a northern-hemisphere UTM zone.
func NewUTMZone(zone int) *TransverseMercator {
	centralMeridian := float64(zone)*6.0 - 183.0
	return NewTransverseMercator(centralMeridian, 500000.0, 0.0, 0.9996)
}

// Project. (lon, lat) in degrees -> (x, y) in meters.
func (tm *TransverseMercator) Project(lon, lat float64) (float64, float64) {
	phi := util.DegreeToRadians(lat)
	dLambda := util.DegreeToRadians(lon - tm.centralMeridian)

	kr := tm.scale * pkg.WGS84_EQUATOR_RADIUS_M

	b := math.Cos(phi) * math.Sin(dLambda)
	x := kr*math.Atanh(b) + tm.falseEasting
	y := kr*math.Atan2(math.Tan(phi), math.Cos(dLambda)) + tm.falseNorthing

	return x, y
}

// Unproject. (x, y) in meters -> (lon, lat) in degrees.
func (tm *TransverseMercator) Unproject(x, y float64) (float64, float64) {
	kr := tm.scale * pkg.WGS84_EQUATOR_RADIUS_M

	xn := (x - tm.falseEasting) / kr
	yn := (y - tm.falseNorthing) / kr

	lon := tm.centralMeridian + util.RadiansToDegree(math.Atan2(math.Sinh(xn), math.Cos(yn)))
	lat := util.RadiansToDegree(math.Asin(math.Sin(yn) / math.Cosh(xn)))

	return lon, lat
}
