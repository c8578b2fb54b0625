package usecases

import (
	"context"

	"github.com/bcmobility/roadnet/pkg/datastructure"
	"github.com/bcmobility/roadnet/pkg/engine"
	"github.com/bcmobility/roadnet/pkg/engine/routing"
)

type RoutingEngine interface {
	Graph() *datastructure.RoadGraph
	Route(from, to datastructure.Index) (routing.Route, bool)
	BatchShortestPaths(ctx context.Context, queries []engine.Query,
		onProgress engine.ProgressFunc) ([]engine.Result, error)
	AuditRoute(from, to datastructure.Index) (*engine.RouteAudit, error)
}

type SpatialIndex interface {
	NearestNodeWithin(x, y, maxDistM float64) (datastructure.Index, float64, bool)
}
