// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package schedule

import (
	"context"
	"iter"

	"github.com/pdiddy/wikt-scanner/internal/sink"
	"github.com/pdiddy/wikt-scanner/pkg/types"
)

// Sequential transforms one page at a time on the calling goroutine. It
// holds only the current page in memory and is the reference the other
// strategies are checked against.
type Sequential struct {
	base
}

// Run implements Strategy.
func (s *Sequential) Run(ctx context.Context, pages iter.Seq2[types.Page, error], transform TransformFunc, out sink.Sink) (stats types.Stats, err error) {
	s.logStart()
	c := s.newCollector(out)
	defer func() {
		stats = c.finish()
		s.logEnd(stats, err)
	}()

	for p, rerr := range pages {
		if rerr != nil {
			return stats, readError(rerr)
		}
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		done, err := c.add(transform(p))
		if err != nil {
			return stats, err
		}
		if done {
			break
		}
	}
	return stats, nil
}
