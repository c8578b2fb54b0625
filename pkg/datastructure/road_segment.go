package datastructure

// RoadSegment is one decoded row of the source road layer. The factory never
// parses files itself, it consumes these records from an external loader.
// Points are (x=lon, y=lat) in the source's geographic coordinates.
type RoadSegment struct {
	geometry   Polyline
	speedKPH   float64 // posted speed, <= 0 means missing
	roadClass  string
	pavSurf    string
	pavStatus  string
	trafficDir string
	extra      map[string]string // jurisdiction, stable source ids, ...
}

func NewRoadSegment(geometry Polyline, speedKPH float64,
	roadClass, pavSurf, pavStatus, trafficDir string, extra map[string]string) RoadSegment {
	return RoadSegment{
		geometry:   geometry,
		speedKPH:   speedKPH,
		roadClass:  roadClass,
		pavSurf:    pavSurf,
		pavStatus:  pavStatus,
		trafficDir: trafficDir,
		extra:      extra,
	}
}

func (rs *RoadSegment) GetGeometry() Polyline {
	return rs.geometry
}

func (rs *RoadSegment) GetSpeedKPH() float64 {
	return rs.speedKPH
}

func (rs *RoadSegment) GetRoadClass() string {
	return rs.roadClass
}

func (rs *RoadSegment) GetPavSurf() string {
	return rs.pavSurf
}

func (rs *RoadSegment) GetPavStatus() string {
	return rs.pavStatus
}

func (rs *RoadSegment) GetTrafficDir() string {
	return rs.trafficDir
}

func (rs *RoadSegment) GetExtra() map[string]string {
	return rs.extra
}

func (rs *RoadSegment) SetGeometry(pl Polyline) {
	rs.geometry = pl
}

func (rs *RoadSegment) SetSpeedKPH(v float64) {
	rs.speedKPH = v
}

func (rs *RoadSegment) SetAttributes(roadClass, pavSurf, pavStatus, trafficDir string) {
	rs.roadClass = roadClass
	rs.pavSurf = pavSurf
	rs.pavStatus = pavStatus
	rs.trafficDir = trafficDir
}
