package types

import "time"

// HTTPConfig holds shared HTTP settings used by commands that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "wikt-scanner/0.1"). Wikimedia rejects requests without one.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for downloading a dump.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// URL is the dump location.
	URL string `json:"url" yaml:"url"`

	// Dest is the local path the dump is written to.
	Dest string `json:"dest" yaml:"dest"`

	// Force re-downloads even when Dest exists.
	Force bool `json:"force" yaml:"force"`

	// MaxRetries bounds HTTP 429 retries (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// ZeroPOSPolicy decides what happens to a page whose target-language
// section has no recognised part-of-speech heading.
type ZeroPOSPolicy string

const (
	// ZeroPOSFallback looks for head templates, then emits "unknown" when the
	// section still shows target-language evidence, otherwise skips.
	ZeroPOSFallback ZeroPOSPolicy = "fallback"

	// ZeroPOSEmit emits the record with an empty pos list.
	ZeroPOSEmit ZeroPOSPolicy = "emit"

	// ZeroPOSSkip drops the page.
	ZeroPOSSkip ZeroPOSPolicy = "skip"
)

// ExtractionConfig holds settings for the page transform.
type ExtractionConfig struct {
	// Language is the name of the level-2 section to isolate (default "English").
	Language string `json:"language" yaml:"language"`

	// LanguageCode is the template language argument (default "en").
	LanguageCode string `json:"language_code" yaml:"language_code"`

	// TaxonomyDir overrides the embedded pos.yaml and labels.yaml when set.
	TaxonomyDir string `json:"taxonomy_dir" yaml:"taxonomy_dir"`

	// ZeroPOS selects the zero-POS policy (default fallback).
	ZeroPOS ZeroPOSPolicy `json:"zero_pos" yaml:"zero_pos"`

	// Engine selects the markup reader: "regex" (default) or "structural".
	Engine string `json:"engine" yaml:"engine"`
}

// StrategyName identifies a scheduling strategy.
type StrategyName string

const (
	StrategySequential      StrategyName = "sequential"
	StrategyBatchParallel   StrategyName = "batch-parallel"
	StrategyChannelPipeline StrategyName = "channel-pipeline"
	StrategyTwoPhase        StrategyName = "two-phase"
)

// Strategies lists every strategy in benchmark order.
var Strategies = []StrategyName{
	StrategySequential,
	StrategyBatchParallel,
	StrategyChannelPipeline,
	StrategyTwoPhase,
}

// OutputFormat selects the record sink.
type OutputFormat string

const (
	FormatJSONL  OutputFormat = "jsonl"
	FormatSQLite OutputFormat = "sqlite"
)

// ScheduleConfig holds scheduler tuning.
type ScheduleConfig struct {
	// Strategy selects the scheduling strategy (default sequential).
	Strategy StrategyName `json:"strategy" yaml:"strategy"`

	// Workers is the transform pool size; 0 means one per CPU.
	Workers int `json:"workers" yaml:"workers"`

	// BatchSize is the number of pages per batch (default 1000).
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// QueueSize is the capacity of each pipeline channel (default 10000).
	QueueSize int `json:"queue_size" yaml:"queue_size"`

	// Limit stops the run after this many records; 0 means no limit.
	Limit int `json:"limit" yaml:"limit"`

	// Unordered lets the channel pipeline write records as workers finish.
	// Ignored when Limit is set.
	Unordered bool `json:"unordered" yaml:"unordered"`
}

// ScanConfig is the full configuration of a scan run.
type ScanConfig struct {
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`
	Schedule   ScheduleConfig   `json:"schedule" yaml:"schedule"`

	// Input is the dump path.
	Input string `json:"input" yaml:"input"`

	// Output is the record sink path.
	Output string `json:"output" yaml:"output"`

	// Format selects the sink (default jsonl).
	Format OutputFormat `json:"format" yaml:"format"`

	// ChunkSize is the scanner read size in bytes (default 1 MiB).
	ChunkSize int `json:"chunk_size" yaml:"chunk_size"`

	// PageLimit stops scanning after this many pages; 0 means no limit.
	PageLimit int `json:"page_limit" yaml:"page_limit"`

	// MetricsFile, when set, receives a Prometheus textfile at the end of the run.
	MetricsFile string `json:"metrics_file" yaml:"metrics_file"`
}
