// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package schedule

import (
	"context"
	"iter"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/wikt-scanner/internal/extract"
	"github.com/pdiddy/wikt-scanner/internal/sink"
	"github.com/pdiddy/wikt-scanner/pkg/types"
)

// BatchParallel accumulates batchSize pages, transforms the batch over the
// worker pool and writes its results in input order before reading the
// next batch. Memory is bounded by one batch of pages and results.
type BatchParallel struct {
	base
}

// Run implements Strategy.
func (s *BatchParallel) Run(ctx context.Context, pages iter.Seq2[types.Page, error], transform TransformFunc, out sink.Sink) (stats types.Stats, err error) {
	s.logStart()
	c := s.newCollector(out)
	defer func() {
		stats = c.finish()
		s.logEnd(stats, err)
	}()

	batch := make([]types.Page, 0, s.batchSize)
	results := make([]extract.Result, s.batchSize)

	flush := func() (bool, error) {
		if len(batch) == 0 {
			return false, nil
		}
		if err := mapPages(ctx, s.workers, batch, results, transform); err != nil {
			return false, err
		}
		for i := range batch {
			done, err := c.add(results[i])
			if err != nil || done {
				return done, err
			}
		}
		clear(results[:len(batch)])
		batch = batch[:0]
		return false, nil
	}

	for p, rerr := range pages {
		if rerr != nil {
			return stats, readError(rerr)
		}
		batch = append(batch, p)
		if len(batch) < s.batchSize {
			continue
		}
		done, err := flush()
		if err != nil {
			return stats, err
		}
		if done {
			return stats, nil
		}
	}
	if _, err := flush(); err != nil {
		return stats, err
	}
	return stats, nil
}

// mapPages fills results[i] with transform(pages[i]) using at most workers
// goroutines.
func mapPages(ctx context.Context, workers int, pages []types.Page, results []extract.Result, transform TransformFunc) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range pages {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = transform(pages[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
