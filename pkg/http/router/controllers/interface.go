package controllers

import (
	"context"

	"github.com/bcmobility/roadnet/pkg/engine"
	"github.com/bcmobility/roadnet/pkg/geo"
)

type RoutingService interface {
	ShortestPath(origLat, origLon, dstLat, dstLon float64) (float64, float64, string, bool, error)
	BatchShortestPaths(ctx context.Context, origins, destinations []geo.Coordinate,
		onProgress func(completed, total int)) ([]engine.Result, error)
	AuditRoute(origLat, origLon, dstLat, dstLon float64) (*engine.RouteAudit, error)
}
