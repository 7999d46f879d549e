// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package schedule

import (
	"context"
	"fmt"
	"io"
	"iter"
	"slices"

	"github.com/pdiddy/wikt-scanner/internal/parity"
	"github.com/pdiddy/wikt-scanner/internal/sink"
	"github.com/pdiddy/wikt-scanner/pkg/types"
)

// PageSource is a page sequence that can be replayed from the start.
type PageSource interface {
	Pages() iter.Seq2[types.Page, error]
}

// BenchResult is one strategy's run in a benchmark.
type BenchResult struct {
	Strategy types.StrategyName
	Stats    types.Stats

	// Speedup is sequential wall time over this strategy's wall time.
	Speedup float64

	// Parity compares this run's records with the sequential run's.
	Parity parity.Report
}

// Benchmark replays src through each named strategy with cfg, always
// running sequential first as the baseline. Records are kept in memory
// and compared with the baseline after each run.
func Benchmark(ctx context.Context, src PageSource, transform TransformFunc, cfg types.ScheduleConfig, names []types.StrategyName, opts ...Option) ([]BenchResult, error) {
	order := []types.StrategyName{types.StrategySequential}
	for _, n := range names {
		if !slices.Contains(order, n) {
			order = append(order, n)
		}
	}

	var (
		results  []BenchResult
		baseline []*types.Record
	)
	for _, name := range order {
		c := cfg
		c.Strategy = name
		s, err := New(c, opts...)
		if err != nil {
			return results, err
		}
		mem := &sink.Memory{}
		stats, err := s.Run(ctx, src.Pages(), transform, mem)
		if err != nil {
			return results, fmt.Errorf("strategy %s: %w", name, err)
		}

		res := BenchResult{Strategy: name, Stats: stats, Speedup: 1}
		if name == types.StrategySequential {
			baseline = mem.Records
		} else if stats.Elapsed > 0 {
			res.Speedup = results[0].Stats.Elapsed.Seconds() / stats.Elapsed.Seconds()
		}
		res.Parity, err = parity.CompareRecords(baseline, mem.Records, parity.Options{})
		if err != nil {
			return results, fmt.Errorf("comparing %s output: %w", name, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// WriteBench prints a benchmark table to w.
func WriteBench(w io.Writer, results []BenchResult) {
	fmt.Fprintf(w, "%-18s %10s %10s %12s %8s %s\n", "strategy", "pages", "records", "pages/s", "speedup", "parity")
	for _, r := range results {
		match := "ok"
		if !r.Parity.Equal() {
			match = "MISMATCH"
		}
		fmt.Fprintf(w, "%-18s %10d %10d %12.0f %7.2fx %s\n",
			r.Strategy, r.Stats.Pages, r.Stats.Written(), r.Stats.PagesPerSecond(), r.Speedup, match)
	}
}
