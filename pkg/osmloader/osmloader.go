package osmloader

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/bcmobility/roadnet/pkg"
	"github.com/bcmobility/roadnet/pkg/datastructure"
	"github.com/bcmobility/roadnet/pkg/util"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"go.uber.org/zap"
)

// highway values that carry motor traffic, mapped onto the functional classes
// the cost model knows.
var highwayClass = map[string]string{
	"motorway":       pkg.CLASS_FREEWAY,
	"motorway_link":  pkg.CLASS_FREEWAY,
	"trunk":          pkg.CLASS_EXPRESSWAY,
	"trunk_link":     pkg.CLASS_EXPRESSWAY,
	"primary":        pkg.CLASS_ARTERIAL,
	"primary_link":   pkg.CLASS_ARTERIAL,
	"secondary":      pkg.CLASS_ARTERIAL,
	"secondary_link": pkg.CLASS_ARTERIAL,
	"tertiary":       pkg.CLASS_COLLECTOR,
	"tertiary_link":  pkg.CLASS_COLLECTOR,
	"residential":    pkg.CLASS_LOCAL,
	"unclassified":   pkg.CLASS_LOCAL,
	"living_street":  pkg.CLASS_LOCAL,
	"service":        pkg.CLASS_RESOURCE,
	"track":          pkg.CLASS_RESOURCE,
}

var unpavedSurfaces = map[string]struct{}{
	"unpaved": {}, "gravel": {}, "dirt": {}, "earth": {},
	"ground": {}, "fine_gravel": {}, "compacted": {}, "sand": {},
}

// Loader converts an OSM PBF extract into the road segments the graph
// factory consumes, so OSM can stand in where no government road layer is
// available.
type Loader struct {
	log *zap.Logger
}

func NewLoader(log *zap.Logger) *Loader {
	return &Loader{log: log}
}

// LoadRoadSegments scans the extract once, caching node positions and keeping
// every routable way, then assembles way geometries from the cache. Ways
// referencing nodes missing from the extract are skipped.
func (l *Loader) LoadRoadSegments(ctx context.Context, mapFile string) ([]datastructure.RoadSegment, error) {
	f, err := os.Open(mapFile)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "cannot open osm extract %s", mapFile)
	}
	defer f.Close()

	scanner := osmpbf.New(ctx, f, 0)
	defer scanner.Close()

	nodePos := make(map[osm.NodeID][2]float64)
	var ways []*osm.Way
	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Node:
			nodePos[o.ID] = [2]float64{o.Lon, o.Lat}
		case *osm.Way:
			if isRoutable(o) {
				ways = append(ways, o)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "scanning osm extract %s", mapFile)
	}

	segments := make([]datastructure.RoadSegment, 0, len(ways))
	skipped := 0
	for _, way := range ways {
		geom := make(datastructure.Polyline, 0, len(way.Nodes))
		complete := true
		for _, wn := range way.Nodes {
			pos, ok := nodePos[wn.ID]
			if !ok {
				complete = false
				break
			}
			geom = append(geom, datastructure.NewPoint(pos[0], pos[1]))
		}
		if !complete || len(geom) < 2 {
			skipped++
			continue
		}
		segments = append(segments, waySegment(way, geom))
	}

	l.log.Info("loaded osm extract",
		zap.String("file", mapFile),
		zap.Int("nodes", len(nodePos)),
		zap.Int("routableWays", len(ways)),
		zap.Int("segments", len(segments)),
		zap.Int("skippedIncomplete", skipped))

	return segments, nil
}

func isRoutable(way *osm.Way) bool {
	if way.Tags.Find("route") == "ferry" {
		return true
	}
	_, ok := highwayClass[way.Tags.Find("highway")]
	return ok
}

func waySegment(way *osm.Way, geom datastructure.Polyline) datastructure.RoadSegment {
	var roadClass, pavSurf, pavStatus string
	if way.Tags.Find("route") == "ferry" {
		roadClass = pkg.CLASS_FERRY
		pavSurf = pkg.SURFACE_WATER
		pavStatus = pkg.SURFACE_UNKNOWN
	} else {
		roadClass = highwayClass[way.Tags.Find("highway")]
		pavSurf, pavStatus = surfaceAttrs(way.Tags.Find("surface"))
	}

	extra := map[string]string{"osm_way_id": strconv.FormatInt(int64(way.ID), 10)}
	if name := way.Tags.Find("name"); name != "" {
		extra["name"] = name
	}

	return datastructure.NewRoadSegment(
		geom,
		parseMaxspeed(way.Tags.Find("maxspeed")),
		roadClass,
		pavSurf,
		pavStatus,
		trafficDir(way.Tags.Find("oneway")),
		extra,
	)
}

func surfaceAttrs(surface string) (pavSurf, pavStatus string) {
	if _, unpaved := unpavedSurfaces[surface]; unpaved {
		return "Gravel", pkg.STATUS_UNPAVED
	}
	if surface == "" {
		return pkg.SURFACE_UNKNOWN, pkg.SURFACE_UNKNOWN
	}
	return "Paved", "Paved"
}

func trafficDir(oneway string) string {
	switch oneway {
	case "yes", "true", "1":
		return pkg.SAME_DIRECTION.String()
	case "-1", "reverse":
		return pkg.OPPOSITE_DIRECTION.String()
	default:
		return pkg.BOTH_DIRECTIONS.String()
	}
}

// parseMaxspeed understands "50", "50 km/h" and "30 mph". Anything else, the
// walking-speed pseudo values included, counts as missing.
func parseMaxspeed(raw string) float64 {
	if raw == "" {
		return 0
	}
	fields := strings.Fields(raw)
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0
	}
	if strings.Contains(raw, "mph") {
		v *= 1.60934
	}
	return v
}
