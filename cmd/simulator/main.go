package main

import (
	"context"
	"flag"
	"math"
	"math/rand"

	"github.com/bcmobility/roadnet/pkg/datastructure"
	"github.com/bcmobility/roadnet/pkg/engine"
	"github.com/bcmobility/roadnet/pkg/factory"
	"github.com/bcmobility/roadnet/pkg/logger"
	"github.com/bcmobility/roadnet/pkg/spatialindex"
	"github.com/bcmobility/roadnet/pkg/util"
	"go.uber.org/zap"
)

var (
	graphFile = flag.String("graph", "./data/roadnet.graph", "graph file produced by the factory")
	numTrips  = flag.Int("trips", 10000, "number of random trips to simulate")
	seed      = flag.Int64("seed", 42, "rng seed, fixed so runs are reproducible")
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
		NumWorkers: cfg.NumWorkers,
		ChunkSize:  cfg.ChunkSize,
	}, logger)
	if err != nil {
		panic(err)
	}

	// trips are random planar coordinates inside the network's bounding box,
	// snapped to the nearest intersection like real trip endpoints would be
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	graph.ForNodes(func(n *datastructure.Node) {
		minX = math.Min(minX, n.GetX())
		maxX = math.Max(maxX, n.GetX())
		minY = math.Min(minY, n.GetY())
		maxY = math.Max(maxY, n.GetY())
	})

	index := spatialindex.NewNodeIndex(graph)
	rng := rand.New(rand.NewSource(*seed))
	randomNode := func() datastructure.Index {
		x := minX + rng.Float64()*(maxX-minX)
		y := minY + rng.Float64()*(maxY-minY)
		id, _, _ := index.NearestNode(x, y)
		return id
	}

	queries := make([]engine.Query, *numTrips)
	for i := range queries {
		queries[i] = engine.Query{From: randomNode(), To: randomNode()}
	}

	results, err := routingEngine.BatchShortestPaths(context.Background(), queries,
		func(completed, total int) {
			if completed%1000 == 0 || completed == total {
				logger.Sugar().Infof("simulated %d/%d trips", completed, total)
			}
		})
	if err != nil {
		panic(err)
	}

	var (
		succeeded   int
		totalEta    float64
		totalDistKM float64
	)
	for _, r := range results {
		if !r.Ok {
			continue
		}
		succeeded++
		totalEta += r.TravelTimeMin
		totalDistKM += r.DistanceKM
	}

	successRate := float64(succeeded) / float64(len(results))
	logger.Info("simulation finished",
		zap.Int("trips", len(results)),
		zap.Int("succeeded", succeeded),
		zap.Float64("successRate", successRate))
	if succeeded > 0 {
		logger.Info("trip averages",
			zap.Float64("etaMin", totalEta/float64(succeeded)),
			zap.Float64("distanceKm", totalDistKM/float64(succeeded)))
	}
}
