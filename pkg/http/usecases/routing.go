package usecases

import (
	"context"
	"fmt"

	"github.com/bcmobility/roadnet/pkg"
	"github.com/bcmobility/roadnet/pkg/datastructure"
	"github.com/bcmobility/roadnet/pkg/engine"
	"github.com/bcmobility/roadnet/pkg/geo"
	"github.com/bcmobility/roadnet/pkg/util"
	"go.uber.org/zap"
)

var ErrPathNotFound = fmt.Errorf("no path found")

// RoutingService bridges coordinate-level requests onto the node-level
// engine: origins and destinations are projected into the graph's planar
// frame, snapped to their nearest node, routed, and the resulting paths
// unprojected back into lat/lon polylines. Distances are reported in
// kilometers, travel times in minutes.
type RoutingService struct {
	log        *zap.Logger
	engine     RoutingEngine
	index      SpatialIndex
	proj       *geo.TransverseMercator
	snapRadius float64
}

func NewRoutingService(log *zap.Logger, routingEngine RoutingEngine, index SpatialIndex,
	proj *geo.TransverseMercator, snapRadius float64) *RoutingService {
	return &RoutingService{
		log:        log,
		engine:     routingEngine,
		index:      index,
		proj:       proj,
		snapRadius: snapRadius,
	}
}

func (rs *RoutingService) snap(lat, lon float64) (datastructure.Index, error) {
	x, y := rs.proj.Project(lon, lat)
	id, _, ok := rs.index.NearestNodeWithin(x, y, rs.snapRadius)
	if !ok {
		return datastructure.INVALID_NODE, util.WrapErrorf(nil, util.ErrNotFound,
			"no road within %.0fm of %f,%f", rs.snapRadius, lat, lon)
	}
	return id, nil
}

func (rs *RoutingService) ShortestPath(origLat, origLon, dstLat, dstLon float64) (float64, float64, string, bool, error) {
	from, err := rs.snap(origLat, origLon)
	if err != nil {
		return 0, 0, "", false, err
	}
	to, err := rs.snap(dstLat, dstLon)
	if err != nil {
		return 0, 0, "", false, err
	}

	route, found := rs.engine.Route(from, to)
	if !found {
		return 0, 0, "", false, util.WrapErrorf(ErrPathNotFound, util.ErrNotFound,
			"no path found from %f,%f to %f,%f", origLat, origLon, dstLat, dstLon)
	}

	distKM := route.DistanceM / pkg.METERS_PER_KM
	return route.TravelTimeMin, distKM, rs.pathPolyline(route.Nodes, route.Edges), true, nil
}

// pathPolyline stitches the traversed edge geometries into one lat/lon
// polyline. Every edge geometry starts where the previous one ended, so the
// shared vertex is emitted once.
func (rs *RoutingService) pathPolyline(nodes []datastructure.Index, edges []*datastructure.Edge) string {
	var coords []geo.Coordinate
	appendPoint := func(p datastructure.Point) {
		lon, lat := rs.proj.Unproject(p.GetX(), p.GetY())
		coords = append(coords, geo.NewCoordinate(lat, lon))
	}

	if len(edges) == 0 {
		for _, n := range nodes {
			appendPoint(rs.engine.Graph().GetNode(n).Position())
		}
		return geo.PolylineFromCoords(coords)
	}

	for i, e := range edges {
		geom := e.GetGeometry()
		start := 1
		if i == 0 {
			start = 0
		}
		for _, p := range geom[start:] {
			appendPoint(p)
		}
	}
	return geo.PolylineFromCoords(coords)
}

// BatchShortestPaths snaps every origin/destination pair and hands the batch
// to the engine. Pairs whose endpoints do not snap keep their slot and come
// back as failed results rather than aborting the batch.
func (rs *RoutingService) BatchShortestPaths(ctx context.Context, origins, destinations []geo.Coordinate,
	onProgress func(completed, total int)) ([]engine.Result, error) {
	if len(origins) != len(destinations) {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput,
			"origins and destinations differ in length: %d vs %d", len(origins), len(destinations))
	}

	queries := make([]engine.Query, len(origins))
	for i := range origins {
		from, err := rs.snap(origins[i].GetLat(), origins[i].GetLon())
		if err != nil {
			queries[i] = engine.Query{From: datastructure.INVALID_NODE, To: datastructure.INVALID_NODE}
			continue
		}
		to, err := rs.snap(destinations[i].GetLat(), destinations[i].GetLon())
		if err != nil {
			queries[i] = engine.Query{From: datastructure.INVALID_NODE, To: datastructure.INVALID_NODE}
			continue
		}
		queries[i] = engine.Query{From: from, To: to}
	}

	return rs.engine.BatchShortestPaths(ctx, queries, onProgress)
}

func (rs *RoutingService) AuditRoute(origLat, origLon, dstLat, dstLon float64) (*engine.RouteAudit, error) {
	from, err := rs.snap(origLat, origLon)
	if err != nil {
		return nil, err
	}
	to, err := rs.snap(dstLat, dstLon)
	if err != nil {
		return nil, err
	}
	return rs.engine.AuditRoute(from, to)
}
