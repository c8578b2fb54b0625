package main

import (
	"context"
	"flag"

	"github.com/bcmobility/roadnet/pkg/datastructure"
	"github.com/bcmobility/roadnet/pkg/engine"
	"github.com/bcmobility/roadnet/pkg/factory"
	"github.com/bcmobility/roadnet/pkg/geo"
	"github.com/bcmobility/roadnet/pkg/http"
	"github.com/bcmobility/roadnet/pkg/http/usecases"
	"github.com/bcmobility/roadnet/pkg/logger"
	"github.com/bcmobility/roadnet/pkg/spatialindex"
	"github.com/bcmobility/roadnet/pkg/util"
	"go.uber.org/zap"
)

var (
	graphFile    = flag.String("graph", "./data/roadnet.graph", "graph file produced by the factory")
	snapRadius   = flag.Float64("snap_radius", 1000, "max distance in meters for snapping coordinates to the road network")
	useRateLimit = flag.Bool("rate_limit", false, "enable per-ip rate limiting")
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

	graph, err := datastructure.ReadGraph(*graphFile)
	if err != nil {
		panic(err)
	}
	logger.Info("graph loaded",
		zap.Int("nodes", graph.NumberOfNodes()),
		zap.Int("edges", graph.NumberOfEdges()))

	routingEngine, err := engine.New(graph, engine.Options{
		NumWorkers:   cfg.NumWorkers,
		ChunkSize:    cfg.ChunkSize,
		ChunkTimeout: cfg.ChunkTimeout,
	}, logger)
	if err != nil {
		panic(err)
	}

	index := spatialindex.NewNodeIndex(graph)
	routingService := usecases.NewRoutingService(logger, routingEngine, index,
		geo.NewUTMZone(cfg.UTMZone), *snapRadius)

	api := http.NewServer(logger)

	ctx, cancel := context.WithCancel(context.Background())
	if _, err := api.Use(ctx, logger, *useRateLimit, routingService); err != nil {
		panic(err)
	}

	signal := http.GracefulShutdown()
	logger.Info("roadnet server stopped", zap.String("signal", signal.String()))
	cancel()
}
