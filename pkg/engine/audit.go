package engine

import (
	"github.com/bcmobility/roadnet/pkg"
	"github.com/bcmobility/roadnet/pkg/datastructure"
	"github.com/bcmobility/roadnet/pkg/util"
)

// RouteLeg is one traversed segment of an audited route.
type RouteLeg struct {
	From          datastructure.Index
	To            datastructure.Index
	Key           int32
	RoadClass     string
	PavSurf       string
	Ferry         bool
	LengthM       float64
	SpeedKPH      float64
	TravelTimeMin float64
}

// RouteAudit breaks a route down leg by leg, for verifying that the summed
// per-segment costs reproduce the route totals. Legs keep the edge fields in
// their stored units (meters, km/h); the total distance is in kilometers like
// every route-level result.
type RouteAudit struct {
	Nodes         []datastructure.Index
	Legs          []RouteLeg
	TravelTimeMin float64
	DistanceKM    float64
}

// AuditRoute recomputes a route leg by leg. Where parallel edges connect two
// consecutive nodes the minimum-travel-time edge is the representative, which
// is the same choice the router converges on, so the audited totals match the
// routed ones.
func (e *Engine) AuditRoute(from, to datastructure.Index) (*RouteAudit, error) {
	route, ok := e.Route(from, to)
	if !ok {
		return nil, util.WrapErrorf(nil, util.ErrNotFound,
			"no route from %d to %d", from, to)
	}

	audit := &RouteAudit{Nodes: route.Nodes}
	var distanceM float64
	for i := 1; i < len(route.Nodes); i++ {
		u, v := route.Nodes[i-1], route.Nodes[i]
		edge, ok := e.g.BestEdgeBetween(u, v)
		if !ok {
			return nil, util.WrapErrorf(nil, util.ErrInternalServerError,
				"route traverses missing edge (%d -> %d)", u, v)
		}
		meta := edge.GetMeta()
		audit.Legs = append(audit.Legs, RouteLeg{
			From:          u,
			To:            v,
			Key:           edge.GetKey(),
			RoadClass:     meta.RoadClass,
			PavSurf:       meta.PavSurf,
			Ferry:         meta.Ferry,
			LengthM:       edge.GetLengthM(),
			SpeedKPH:      edge.GetSpeedKPH(),
			TravelTimeMin: edge.GetTravelTimeMin(),
		})
		audit.TravelTimeMin += edge.GetTravelTimeMin()
		distanceM += edge.GetLengthM()
	}
	audit.DistanceKM = distanceM / pkg.METERS_PER_KM
	return audit, nil
}
