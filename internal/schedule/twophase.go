// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package schedule

import (
	"context"
	"iter"

	"github.com/pdiddy/wikt-scanner/internal/extract"
	"github.com/pdiddy/wikt-scanner/internal/sink"
	"github.com/pdiddy/wikt-scanner/pkg/types"
)

// TwoPhase reads every page into memory, transforms them all with the full
// worker pool, then writes in input order. It balances load best and uses
// memory proportional to the input.
type TwoPhase struct {
	base
}

// Run implements Strategy.
func (s *TwoPhase) Run(ctx context.Context, pages iter.Seq2[types.Page, error], transform TransformFunc, out sink.Sink) (stats types.Stats, err error) {
	s.logStart()
	c := s.newCollector(out)
	defer func() {
		stats = c.finish()
		s.logEnd(stats, err)
	}()

	var all []types.Page
	for p, rerr := range pages {
		if rerr != nil {
			return stats, readError(rerr)
		}
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		all = append(all, p)
	}
	s.log.WithField("pages", len(all)).Debug("pages materialized")

	results := make([]extract.Result, len(all))
	if err := mapPages(ctx, s.workers, all, results, transform); err != nil {
		return stats, err
	}

	for _, res := range results {
		done, err := c.add(res)
		if err != nil {
			return stats, err
		}
		if done {
			break
		}
	}
	return stats, nil
}
