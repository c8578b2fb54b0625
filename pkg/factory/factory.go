package factory

import (
	"github.com/bcmobility/roadnet/pkg/datastructure"
	"github.com/bcmobility/roadnet/pkg/geo"
	"github.com/bcmobility/roadnet/pkg/util"
	"go.uber.org/zap"
)

// Factory runs the graph construction pipeline: sanitize raw segments, snap
// endpoints into shared intersection nodes, project to planar meters, expand
// traffic directions into directed edges, attach travel costs, purge
// projection artifacts and consolidate near-coincident intersections. The
// result is a frozen RoadGraph ready for routing.
type Factory struct {
	cfg    *Config
	log    *zap.Logger
	region geo.Region
	proj   *geo.TransverseMercator
}

// Report collects the per-stage accounting of one factory run.
type Report struct {
	Sanitize    SanitizeStats
	Nodes       int
	Directions  DirectionStats
	Physics     PhysicsStats
	Purge       PurgeStats
	Consolidate ConsolidateStats
}

func NewFactory(cfg *Config, log *zap.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		log:    log,
		region: geo.NewRegion(cfg.RegionMinLat, cfg.RegionMinLon, cfg.RegionMaxLat, cfg.RegionMaxLon),
		proj:   geo.NewUTMZone(cfg.UTMZone),
	}
}

// Build runs the whole pipeline over raw segments. The input slice is
// modified in place (geometries snapped and projected, attributes
// normalized); callers must not reuse it.
func (f *Factory) Build(segments []datastructure.RoadSegment) (*datastructure.RoadGraph, *Report, error) {
	report := &Report{}

	kept, sanStats := f.sanitize(segments)
	report.Sanitize = sanStats
	if len(kept) == 0 {
		return nil, report, util.WrapErrorf(nil, util.ErrBadParamInput,
			"no road segments survived sanitizing (input %d)", sanStats.Input)
	}

	topo := f.buildTopology(kept)
	report.Nodes = len(topo.nodes)

	f.projectTopology(&topo, kept)

	edges, posted, dirStats := f.resolveDirections(kept, topo)
	report.Directions = dirStats

	report.Physics = f.applyPhysics(edges, posted)

	g, err := datastructure.BuildRoadGraph(topo.nodes, edges)
	if err != nil {
		return nil, report, err
	}

	g, purgeStats, err := f.purge(g)
	report.Purge = purgeStats
	if err != nil {
		return nil, report, err
	}

	g, consStats, err := f.consolidate(g)
	report.Consolidate = consStats
	if err != nil {
		return nil, report, err
	}

	g.Freeze()
	f.log.Info("road graph built",
		zap.Int("nodes", g.NumberOfNodes()),
		zap.Int("edges", g.NumberOfEdges()))

	return g, report, nil
}
