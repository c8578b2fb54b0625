package engine

import (
	"context"

	"github.com/bcmobility/roadnet/pkg"
	"github.com/bcmobility/roadnet/pkg/concurrent"
	"github.com/bcmobility/roadnet/pkg/datastructure"
	"github.com/bcmobility/roadnet/pkg/util"
	"go.uber.org/zap"
)

// Query is one origin/destination pair of a batch.
type Query struct {
	From datastructure.Index
	To   datastructure.Index
}

// Result is the outcome of one query. Ok is false for unknown endpoints and
// unreachable destinations; the cost fields are only meaningful when Ok.
// Distances leave the engine in kilometers, time in minutes.
type Result struct {
	Ok            bool
	TravelTimeMin float64
	DistanceKM    float64
	Nodes         []datastructure.Index
}

// ProgressFunc is invoked after every finished chunk, from the collecting
// goroutine only.
type ProgressFunc func(completed, total int)

type chunk struct {
	start   int
	queries []Query
}

type chunkResult struct {
	start   int
	results []Result
}

// BatchShortestPaths resolves every query and returns the results in query
// order. Queries are split into fixed-size chunks fanned out over a worker
// pool; each chunk writes back into its own slice window keyed by the chunk's
// start offset, so no ordering is lost to scheduling. A query that cannot be
// answered yields a not-Ok result in its slot and never fails the batch, and
// a panicking chunk loses only its own slots.
func (e *Engine) BatchShortestPaths(ctx context.Context, queries []Query, onProgress ProgressFunc) ([]Result, error) {
	results := make([]Result, len(queries))
	if len(queries) == 0 {
		return results, nil
	}

	numChunks := (len(queries) + e.opts.ChunkSize - 1) / e.opts.ChunkSize
	pool := concurrent.NewWorkerPool[chunk, chunkResult](e.opts.NumWorkers, numChunks)
	for start := 0; start < len(queries); start += e.opts.ChunkSize {
		end := util.MinNum(start+e.opts.ChunkSize, len(queries))
		pool.AddJob(chunk{start: start, queries: queries[start:end]})
	}
	pool.Close()

	pool.Start(func(c chunk) chunkResult {
		out := chunkResult{start: c.start, results: make([]Result, len(c.queries))}

		cctx := ctx
		if e.opts.ChunkTimeout > 0 {
			var cancel context.CancelFunc
			cctx, cancel = context.WithTimeout(ctx, e.opts.ChunkTimeout)
			defer cancel()
		}
		for i, q := range c.queries {
			if cctx.Err() != nil {
				break
			}
			out.results[i] = e.resolve(q)
		}
		return out
	})
	go pool.Wait()

	completed := 0
	for res := range pool.CollectResults() {
		copy(results[res.start:res.start+len(res.results)], res.results)
		completed += len(res.results)
		if onProgress != nil {
			onProgress(completed, len(queries))
		}
	}

	succeeded := 0
	for _, r := range results {
		if r.Ok {
			succeeded++
		}
	}
	e.log.Info("batch finished",
		zap.Int("queries", len(queries)),
		zap.Int("succeeded", succeeded),
		zap.Float64("successRate", float64(succeeded)/float64(len(queries))))

	return results, ctx.Err()
}

// resolve answers one query, converting any panic out of the router into a
// not-Ok result so a poisoned query cannot take its whole chunk down.
func (e *Engine) resolve(q Query) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("routing query panicked",
				zap.Int32("from", int32(q.From)),
				zap.Int32("to", int32(q.To)),
				zap.Any("panic", r))
			res = Result{}
		}
	}()

	route, ok := e.router.ShortestPath(q.From, q.To)
	if !ok {
		return Result{}
	}
	return Result{
		Ok:            true,
		TravelTimeMin: route.TravelTimeMin,
		DistanceKM:    route.DistanceM / pkg.METERS_PER_KM,
		Nodes:         route.Nodes,
	}
}
