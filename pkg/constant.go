package pkg

// enum of normalized TRAFFICDIR values
type TrafficDirection uint8

const (
	BOTH_DIRECTIONS TrafficDirection = iota
	SAME_DIRECTION
	OPPOSITE_DIRECTION
)

const (
	INF_WEIGHT float64 = 1e15

	METERS_PER_KM          = 1000.0
	MINUTES_PER_HOUR       = 60.0
	WGS84_EQUATOR_RADIUS_M = 6378137.0
)

const (
	DEBUG = false
)

// ParseTrafficDirection. normalize the TRAFFICDIR attribute of a road segment.
// anything that is not an explicit one-way code must resolve to BOTH_DIRECTIONS,
// otherwise a road with a dirty attribute silently becomes impassable.
func ParseTrafficDirection(raw string) TrafficDirection {
	switch raw {
	case "Same Direction", "Positive":
		return SAME_DIRECTION
	case "Opposite Direction", "Negative":
		return OPPOSITE_DIRECTION
	default:
		return BOTH_DIRECTIONS
	}
}

func (td TrafficDirection) String() string {
	switch td {
	case SAME_DIRECTION:
		return "Same Direction"
	case OPPOSITE_DIRECTION:
		return "Opposite Direction"
	default:
		return "Both Directions"
	}
}

// road classes of the national road network ROADSEG layer
const (
	CLASS_FREEWAY    = "Freeway"
	CLASS_EXPRESSWAY = "Expressway"
	CLASS_ARTERIAL   = "Arterial"
	CLASS_COLLECTOR  = "Collector"
	CLASS_LOCAL      = "Local"
	CLASS_RESOURCE   = "Resource"
	CLASS_FERRY      = "Ferry"
	CLASS_UNKNOWN    = "Unknown"

	SURFACE_WATER   = "Water"
	SURFACE_UNKNOWN = "Unknown"
	STATUS_UNPAVED  = "Unpaved"
)

// explicit bad surfaces. an unknown surface is assumed paved, only these
// get the gravel penalty.
var badSurfaces = map[string]struct{}{
	"Unpaved": {},
	"Loose":   {},
	"Rough":   {},
	"Gravel":  {},
	"Dirt":    {},
	"Earth":   {},
}

func IsBadSurface(surface string) bool {
	_, ok := badSurfaces[surface]
	return ok
}
