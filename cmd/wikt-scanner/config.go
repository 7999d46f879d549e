// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/wikt-scanner/internal/extract"
	"github.com/pdiddy/wikt-scanner/internal/taxonomy"
	"github.com/pdiddy/wikt-scanner/pkg/types"
)

// envKeys maps config keys to env names: schedule.batch_size becomes
// WIKT_SCANNER_SCHEDULE_BATCH_SIZE.
var envKeys = strings.NewReplacer(".", "_", "-", "_")

// extractionKeys and scheduleKeys map flag names to config keys.
var extractionKeys = map[string]string{
	"language":      "extraction.language",
	"language-code": "extraction.language_code",
	"taxonomy-dir":  "extraction.taxonomy_dir",
	"zero-pos":      "extraction.zero_pos",
	"engine":        "extraction.engine",
}

var scheduleKeys = map[string]string{
	"strategy":   "schedule.strategy",
	"workers":    "schedule.workers",
	"batch-size": "schedule.batch_size",
	"queue-size": "schedule.queue_size",
	"limit":      "schedule.limit",
	"unordered":  "schedule.unordered",
}

var inputKeys = map[string]string{
	"format":       "format",
	"chunk-size":   "chunk_size",
	"page-limit":   "page_limit",
	"metrics-file": "metrics_file",
}

func addExtractionFlags(cmd *cobra.Command) {
	cmd.Flags().String("language", "English", "level-2 language section to extract")
	cmd.Flags().String("language-code", "en", "language code used as the first template argument")
	cmd.Flags().String("taxonomy-dir", "", "directory overriding the built-in pos.yaml and labels.yaml")
	cmd.Flags().String("zero-pos", string(types.ZeroPOSFallback), "pages without a part-of-speech heading: fallback, emit or skip")
	cmd.Flags().String("engine", "regex", "markup reader: regex or structural")
}

func addScheduleFlags(cmd *cobra.Command, withStrategy bool) {
	if withStrategy {
		cmd.Flags().String("strategy", string(types.StrategySequential), "scheduling strategy: sequential, batch-parallel, channel-pipeline or two-phase")
		cmd.Flags().Bool("unordered", false, "let channel-pipeline write records as workers finish")
	}
	cmd.Flags().Int("workers", 0, "transform workers (default one per CPU)")
	cmd.Flags().Int("batch-size", 1000, "pages per batch for batch-parallel")
	cmd.Flags().Int("queue-size", 10000, "channel capacity for channel-pipeline")
	cmd.Flags().Int("limit", 0, "stop after this many records (0 for no limit)")
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().Int("chunk-size", 0, "scanner read size in bytes (default 1 MiB)")
	cmd.Flags().Int("page-limit", 0, "stop after scanning this many pages (0 for no limit)")
}

func mergeKeys(maps ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// scanConfig reads the bound flags, config file and environment.
func scanConfig() types.ScanConfig {
	return types.ScanConfig{
		Extraction: types.ExtractionConfig{
			Language:     viper.GetString("extraction.language"),
			LanguageCode: viper.GetString("extraction.language_code"),
			TaxonomyDir:  viper.GetString("extraction.taxonomy_dir"),
			ZeroPOS:      types.ZeroPOSPolicy(viper.GetString("extraction.zero_pos")),
			Engine:       viper.GetString("extraction.engine"),
		},
		Schedule: types.ScheduleConfig{
			Strategy:  types.StrategyName(viper.GetString("schedule.strategy")),
			Workers:   viper.GetInt("schedule.workers"),
			BatchSize: viper.GetInt("schedule.batch_size"),
			QueueSize: viper.GetInt("schedule.queue_size"),
			Limit:     viper.GetInt("schedule.limit"),
			Unordered: viper.GetBool("schedule.unordered"),
		},
		Format:      types.OutputFormat(viper.GetString("format")),
		ChunkSize:   viper.GetInt("chunk_size"),
		PageLimit:   viper.GetInt("page_limit"),
		MetricsFile: viper.GetString("metrics_file"),
	}
}

// newExtractor loads the taxonomy and builds the page transform.
func newExtractor(cfg types.ExtractionConfig) (*extract.Extractor, error) {
	var (
		tax *taxonomy.Taxonomy
		err error
	)
	if cfg.TaxonomyDir != "" {
		tax, err = taxonomy.Load(cfg.TaxonomyDir)
	} else {
		tax, err = taxonomy.Default()
	}
	if err != nil {
		return nil, fmt.Errorf("loading taxonomy: %w", err)
	}
	return extract.New(tax, cfg)
}
