package engine

import (
	"runtime"
	"time"

	"github.com/bcmobility/roadnet/pkg/datastructure"
	"github.com/bcmobility/roadnet/pkg/engine/routing"
	"github.com/bcmobility/roadnet/pkg/util"
	"go.uber.org/zap"
)

// Options tunes the batch executor. Zero values are filled by sane defaults,
// negative values are configuration errors. ChunkTimeout of zero means chunks
// run to completion; a positive value bounds each chunk, leaving the queries
// past the deadline unanswered in their slots.
type Options struct {
	NumWorkers   int
	ChunkSize    int
	ChunkTimeout time.Duration
}

// Engine answers routing queries over one frozen road graph, either one at a
// time or as parallel batches.
type Engine struct {
	g      *datastructure.RoadGraph
	router *routing.Router
	opts   Options
	log    *zap.Logger
}

func New(g *datastructure.RoadGraph, opts Options, log *zap.Logger) (*Engine, error) {
	if g == nil || g.NumberOfNodes() == 0 {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "routing engine needs a non-empty graph")
	}
	if !g.IsFrozen() {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "routing engine needs a frozen graph")
	}
	if opts.NumWorkers < 0 || opts.ChunkSize < 0 || opts.ChunkTimeout < 0 {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput,
			"invalid executor options: workers=%d chunkSize=%d chunkTimeout=%s",
			opts.NumWorkers, opts.ChunkSize, opts.ChunkTimeout)
	}
	if opts.NumWorkers == 0 {
		opts.NumWorkers = runtime.NumCPU()
	}
	if opts.ChunkSize == 0 {
		opts.ChunkSize = 100
	}

	return &Engine{
		g:      g,
		router: routing.NewRouter(g),
		opts:   opts,
		log:    log,
	}, nil
}

func (e *Engine) Graph() *datastructure.RoadGraph {
	return e.g
}

// Route answers a single origin/destination query.
func (e *Engine) Route(from, to datastructure.Index) (routing.Route, bool) {
	return e.router.ShortestPath(from, to)
}
