// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package schedule

import (
	"context"
	"iter"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/pdiddy/wikt-scanner/internal/extract"
	"github.com/pdiddy/wikt-scanner/internal/sink"
	"github.com/pdiddy/wikt-scanner/pkg/types"
)

// ChannelPipeline connects one producer, a pool of transform workers and
// the collector with bounded channels. The producer blocks when the work
// queue is full and workers block when it is empty. Results carry the
// producer's sequence number; the collector restores input order with a
// reorder buffer unless the run is unordered. At most queueSize pages are
// in flight between the producer and the collector, which also bounds the
// reorder buffer when one slow page holds back the rest.
type ChannelPipeline struct {
	base
}

type seqPage struct {
	n    int
	page types.Page
}

type seqResult struct {
	n   int
	res extract.Result
}

// Run implements Strategy.
func (s *ChannelPipeline) Run(ctx context.Context, pages iter.Seq2[types.Page, error], transform TransformFunc, out sink.Sink) (stats types.Stats, err error) {
	s.logStart()
	c := s.newCollector(out)
	defer func() {
		stats = c.finish()
		s.logEnd(stats, err)
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	work := make(chan seqPage, s.queueSize)
	results := make(chan seqResult, s.queueSize)
	inflight := semaphore.NewWeighted(int64(s.queueSize))
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(work)
		n := 0
		for p, rerr := range pages {
			if rerr != nil {
				return readError(rerr)
			}
			if inflight.Acquire(gctx, 1) != nil {
				return nil
			}
			select {
			case work <- seqPage{n: n, page: p}:
				n++
			case <-gctx.Done():
				return nil
			}
		}
		return nil
	})

	var workers sync.WaitGroup
	for range s.workers {
		workers.Add(1)
		g.Go(func() error {
			defer workers.Done()
			for sp := range work {
				r := seqResult{n: sp.n, res: transform(sp.page)}
				select {
				case results <- r:
				case <-gctx.Done():
					return nil
				}
			}
			return nil
		})
	}
	go func() {
		workers.Wait()
		close(results)
	}()

	var (
		collectErr error
		stopped    bool
		next       int
		pending    = make(map[int]extract.Result)
	)
	stop := func(done bool, err error) {
		if err != nil {
			collectErr = err
		}
		if done || err != nil {
			stopped = true
			cancel()
		}
	}
	release := func() { inflight.Release(1) }
	for r := range results {
		if stopped {
			continue
		}
		if !s.ordered {
			release()
			stop(c.add(r.res))
			continue
		}
		pending[r.n] = r.res
		for !stopped {
			res, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			release()
			stop(c.add(res))
		}
	}

	werr := g.Wait()
	switch {
	case collectErr != nil:
		return stats, collectErr
	case werr != nil:
		return stats, werr
	case stopped:
		return stats, nil
	}
	return stats, ctx.Err()
}
