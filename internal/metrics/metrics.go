// Package metrics records scan counters in a per-run prometheus registry
// and exports them in the node-exporter textfile format.
package metrics

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pdiddy/wikt-scanner/internal/extract"
	"github.com/pdiddy/wikt-scanner/pkg/types"
)

const namespace = "wikt_scanner"

// flagGetters reads each boolean record flag by its wire name.
var flagGetters = []struct {
	name string
	get  func(*types.Record) bool
}{
	{"is_phrase", func(r *types.Record) bool { return r.IsPhrase }},
	{"is_abbreviation", func(r *types.Record) bool { return r.IsAbbreviation }},
	{"is_proper_noun", func(r *types.Record) bool { return r.IsProperNoun }},
	{"is_vulgar", func(r *types.Record) bool { return r.IsVulgar }},
	{"is_archaic", func(r *types.Record) bool { return r.IsArchaic }},
	{"is_rare", func(r *types.Record) bool { return r.IsRare }},
	{"is_informal", func(r *types.Record) bool { return r.IsInformal }},
	{"is_technical", func(r *types.Record) bool { return r.IsTechnical }},
	{"is_regional", func(r *types.Record) bool { return r.IsRegional }},
	{"is_inflected", func(r *types.Record) bool { return r.IsInflected }},
	{"is_dated", func(r *types.Record) bool { return r.IsDated }},
}

// Recorder implements schedule.Observer. Its collectors live in their own
// registry so concurrent runs (the benchmark) never collide.
type Recorder struct {
	RunID string

	reg        *prometheus.Registry
	pages      *prometheus.CounterVec
	flags      *prometheus.CounterVec
	pos        *prometheus.CounterVec
	unknown    prometheus.Counter
	duration   prometheus.Gauge
	throughput prometheus.Gauge
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// New builds a Recorder whose series carry the run id and strategy.
func New(runID string, strategy types.StrategyName) *Recorder {
	labels := prometheus.Labels{"run_id": runID, "strategy": string(strategy)}
	r := &Recorder{
		RunID: runID,
		reg:   prometheus.NewRegistry(),
		pages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "pages_total",
			Help:        "Pages transformed, by outcome.",
			ConstLabels: labels,
		}, []string{"outcome"}),
		flags: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "record_flags_total",
			Help:        "Written records with each boolean flag set.",
			ConstLabels: labels,
		}, []string{"flag"}),
		pos: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "record_pos_total",
			Help:        "Written records per part-of-speech tag.",
			ConstLabels: labels,
		}, []string{"pos"}),
		unknown: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "unknown_label_tokens_total",
			Help:        "Label tokens not found in the vocabulary.",
			ConstLabels: labels,
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "run_duration_seconds",
			Help:        "Wall time of the run.",
			ConstLabels: labels,
		}),
		throughput: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "pages_per_second",
			Help:        "Pages transformed per second over the run.",
			ConstLabels: labels,
		}),
	}
	r.reg.MustRegister(r.pages, r.flags, r.pos, r.unknown, r.duration, r.throughput)

	// Outcome series exist from the start so zero counts are exported.
	for _, o := range types.Outcomes {
		r.pages.WithLabelValues(string(o))
	}
	return r
}

// Observe counts one transform result.
func (r *Recorder) Observe(res extract.Result) {
	r.pages.WithLabelValues(string(res.Outcome)).Inc()
	r.unknown.Add(float64(len(res.UnknownLabels)))
	if res.Record == nil {
		return
	}
	for _, f := range flagGetters {
		if f.get(res.Record) {
			r.flags.WithLabelValues(f.name).Inc()
		}
	}
	for _, p := range res.Record.POS {
		r.pos.WithLabelValues(p).Inc()
	}
}

// Finish records the run totals from stats.
func (r *Recorder) Finish(stats types.Stats) {
	r.duration.Set(stats.Elapsed.Seconds())
	r.throughput.Set(stats.PagesPerSecond())
}

// Registry returns the recorder's registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.reg
}

// WriteFile writes every series to path in the text exposition format.
func (r *Recorder) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
