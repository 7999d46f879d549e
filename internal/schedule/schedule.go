// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package schedule runs the page transform under interchangeable
// concurrency strategies. Every strategy feeds results to one collector in
// input order (the channel pipeline may opt out when no limit is set), so
// all of them write the same records for the same input.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/wikt-scanner/internal/extract"
	"github.com/pdiddy/wikt-scanner/internal/sink"
	"github.com/pdiddy/wikt-scanner/pkg/types"
)

const (
	defaultBatchSize = 1000
	defaultQueueSize = 10000
)

// ErrUnknownStrategy is returned by New for an unrecognised strategy name.
var ErrUnknownStrategy = errors.New("unknown strategy")

// TransformFunc is the pure page transform every strategy wraps.
type TransformFunc func(types.Page) extract.Result

// Observer is told about every collected result. It is only called from
// the collector goroutine.
type Observer interface {
	Observe(res extract.Result)
}

// Strategy schedules transform over pages and writes records to out.
// Run does not close out.
type Strategy interface {
	Name() types.StrategyName
	Run(ctx context.Context, pages iter.Seq2[types.Page, error], transform TransformFunc, out sink.Sink) (types.Stats, error)
}

// Option configures a strategy.
type Option func(*base)

// WithLogger sets the logger for run start and end messages.
func WithLogger(l logrus.FieldLogger) Option {
	return func(b *base) { b.log = l }
}

// WithObserver registers an observer, such as a metrics recorder.
func WithObserver(o Observer) Option {
	return func(b *base) { b.observers = append(b.observers, o) }
}

// base holds the settings shared by all strategies.
type base struct {
	name      types.StrategyName
	workers   int
	batchSize int
	queueSize int
	limit     int
	ordered   bool
	log       logrus.FieldLogger
	observers []Observer
}

// New returns the strategy named by cfg.Strategy, sequential when empty.
func New(cfg types.ScheduleConfig, opts ...Option) (Strategy, error) {
	b := base{
		name:      cfg.Strategy,
		workers:   cfg.Workers,
		batchSize: cfg.BatchSize,
		queueSize: cfg.QueueSize,
		limit:     cfg.Limit,
		ordered:   !cfg.Unordered || cfg.Limit > 0,
		log:       logrus.StandardLogger(),
	}
	if b.name == "" {
		b.name = types.StrategySequential
	}
	if b.workers <= 0 {
		b.workers = runtime.NumCPU()
	}
	if b.batchSize <= 0 {
		b.batchSize = defaultBatchSize
	}
	if b.queueSize <= 0 {
		b.queueSize = defaultQueueSize
	}
	if b.limit < 0 {
		return nil, fmt.Errorf("limit must not be negative, got %d", b.limit)
	}
	for _, o := range opts {
		o(&b)
	}

	switch b.name {
	case types.StrategySequential:
		return &Sequential{base: b}, nil
	case types.StrategyBatchParallel:
		return &BatchParallel{base: b}, nil
	case types.StrategyChannelPipeline:
		return &ChannelPipeline{base: b}, nil
	case types.StrategyTwoPhase:
		return &TwoPhase{base: b}, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownStrategy, b.name)
}

// Name returns the strategy name.
func (b *base) Name() types.StrategyName {
	return b.name
}

// collector is the single writer of a run. It owns the sink and the stats.
type collector struct {
	out       sink.Sink
	limit     int
	stats     types.Stats
	observers []Observer
	start     time.Time
}

func (b *base) newCollector(out sink.Sink) *collector {
	return &collector{
		out:       out,
		limit:     b.limit,
		stats:     types.NewStats(),
		observers: b.observers,
		start:     time.Now(),
	}
}

// full reports whether the record limit has been reached.
func (c *collector) full() bool {
	return c.limit > 0 && c.stats.Written() >= c.limit
}

// add counts res and writes its record. It returns true once the limit is
// reached; results arriving after that are ignored.
func (c *collector) add(res extract.Result) (bool, error) {
	if c.full() {
		return true, nil
	}
	var word string
	if res.Record != nil {
		word = res.Record.Word
	}
	c.stats.Observe(res.Outcome, word, res.UnknownLabels)
	for _, o := range c.observers {
		o.Observe(res)
	}
	if res.Record != nil {
		if err := c.out.Write(res.Record); err != nil {
			return false, fmt.Errorf("writing record: %w", err)
		}
	}
	return c.full(), nil
}

func (c *collector) finish() types.Stats {
	c.stats.Elapsed = time.Since(c.start)
	return c.stats
}

func (b *base) logStart() {
	b.log.WithFields(logrus.Fields{
		"strategy": b.name,
		"workers":  b.workers,
		"limit":    b.limit,
	}).Debug("scheduler starting")
}

func (b *base) logEnd(s types.Stats, err error) {
	entry := b.log.WithFields(logrus.Fields{
		"strategy": b.name,
		"pages":    s.Pages,
		"written":  s.Written(),
		"elapsed":  s.Elapsed.Round(time.Millisecond),
	})
	if err != nil {
		entry.WithError(err).Warn("scheduler stopped")
		return
	}
	entry.Debug("scheduler finished")
}

func readError(err error) error {
	return fmt.Errorf("reading pages: %w", err)
}
