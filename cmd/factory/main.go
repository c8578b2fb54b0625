package main

import (
	"context"
	"flag"

	"github.com/bcmobility/roadnet/pkg/factory"
	"github.com/bcmobility/roadnet/pkg/logger"
	"github.com/bcmobility/roadnet/pkg/osmloader"
	"github.com/bcmobility/roadnet/pkg/util"
	"go.uber.org/zap"
)

var (
	mapFile   = flag.String("map", "./data/british-columbia.osm.pbf", "openstreetmap pbf extract to build the graph from")
	graphFile = flag.String("out", "./data/roadnet.graph", "output graph file")
)

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}

	if err := util.ReadConfig(); err != nil {
		logger.Info("no config file found, using defaults")
	}
	cfg := factory.NewConfigFromViper()

	loader := osmloader.NewLoader(logger)
	segments, err := loader.LoadRoadSegments(context.Background(), *mapFile)
	if err != nil {
		panic(err)
	}

	roadFactory := factory.NewFactory(cfg, logger)
	graph, report, err := roadFactory.Build(segments)
	if err != nil {
		panic(err)
	}

	logger.Info("factory report",
		zap.Int("segmentsIn", report.Sanitize.Input),
		zap.Int("segmentsKept", report.Sanitize.Kept),
		zap.Int("intersections", report.Nodes),
		zap.Int("directedEdges", report.Directions.EdgesEmitted),
		zap.Int("purgedNodes", report.Purge.NodesPurged),
		zap.Int("consolidatedNodes", report.Consolidate.NodesBefore-report.Consolidate.NodesAfter),
		zap.Int("finalNodes", graph.NumberOfNodes()),
		zap.Int("finalEdges", graph.NumberOfEdges()))

	if err := graph.WriteGraph(*graphFile); err != nil {
		panic(err)
	}
	logger.Sugar().Infof("road graph written to %s", *graphFile)
}
