// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pdiddy/wikt-scanner/internal/dump"
	"github.com/pdiddy/wikt-scanner/internal/metrics"
	"github.com/pdiddy/wikt-scanner/internal/schedule"
	"github.com/pdiddy/wikt-scanner/internal/sink"
	"github.com/pdiddy/wikt-scanner/pkg/types"
)

// unknownLabelsShown bounds the unknown-label tokens logged at debug level.
const unknownLabelsShown = 20

var scanCmd = &cobra.Command{
	Use:   "scan INPUT OUTPUT",
	Short: "Extract lexical records from a Wiktionary dump",
	Long: `Scan streams INPUT (.xml, .xml.bz2, .xml.gz or .xml.zst), transforms each
page with the chosen scheduling strategy, and writes one record per
target-language entry to OUTPUT as JSON Lines or SQLite.

Every strategy writes the same records in dump order. A run summary with
page outcomes and throughput is printed when the scan ends.`,
	Args: cobra.ExactArgs(2),
	RunE: runScan,
}

func init() {
	addExtractionFlags(scanCmd)
	addScheduleFlags(scanCmd, true)
	addInputFlags(scanCmd)
	scanCmd.Flags().String("format", string(types.FormatJSONL), "output format: jsonl or sqlite")
	scanCmd.Flags().String("metrics-file", "", "write Prometheus metrics for the run to this file")

	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, mergeKeys(extractionKeys, scheduleKeys, inputKeys)); err != nil {
		return err
	}
	cfg := scanConfig()
	cfg.Input, cfg.Output = args[0], args[1]

	x, err := newExtractor(cfg.Extraction)
	if err != nil {
		return err
	}

	strategy := cfg.Schedule.Strategy
	if strategy == "" {
		strategy = types.StrategySequential
	}
	runID := metrics.NewRunID()
	log := logger.WithFields(logrus.Fields{"run_id": runID, "strategy": strategy})
	rec := metrics.New(runID, strategy)

	s, err := schedule.New(cfg.Schedule, schedule.WithLogger(log), schedule.WithObserver(rec))
	if err != nil {
		return err
	}

	out, err := sink.Open(cfg.Format, cfg.Output)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.WithFields(logrus.Fields{
		"input":  cfg.Input,
		"output": cfg.Output,
		"engine": x.Engine().Name(),
	}).Info("scan started")

	stats, runErr := s.Run(ctx, pageSource(cfg, log).Pages(), x.Transform, out)
	closeErr := out.Close()
	if runErr != nil {
		return fmt.Errorf("scanning %s: %w", cfg.Input, runErr)
	}
	if closeErr != nil {
		return fmt.Errorf("closing %s: %w", cfg.Output, closeErr)
	}

	rec.Finish(stats)
	if cfg.MetricsFile != "" {
		if err := rec.WriteFile(cfg.MetricsFile); err != nil {
			return err
		}
	}

	for _, lc := range stats.TopUnknownLabels(unknownLabelsShown) {
		log.WithFields(logrus.Fields{"label": lc.Label, "count": lc.Count}).Debug("unknown label")
	}
	writeStats(os.Stdout, stats)
	return nil
}

// pageSource builds a replayable dump source from cfg.
func pageSource(cfg types.ScanConfig, log logrus.FieldLogger) dump.Source {
	return dump.Source{
		Path:      cfg.Input,
		PageLimit: cfg.PageLimit,
		Options: []dump.Option{
			dump.WithChunkSize(cfg.ChunkSize),
			dump.WithLogger(log),
		},
	}
}

// writeStats prints the run summary.
func writeStats(w io.Writer, s types.Stats) {
	fmt.Fprintf(w, "\nScan summary: %d pages, %d records, %d skipped in %s (%.0f pages/s)\n",
		s.Pages, s.Written(), s.Skipped(), s.Elapsed.Round(time.Millisecond), s.PagesPerSecond())
	for _, o := range types.Outcomes {
		if n := s.Outcomes[o]; n > 0 {
			fmt.Fprintf(w, "  %-14s %d\n", o, n)
		}
	}
	if s.Written() > 0 {
		fmt.Fprintf(w, "Case forms:")
		for _, c := range []types.CaseForm{types.CaseLower, types.CaseTitle, types.CaseUpper, types.CaseMixed} {
			fmt.Fprintf(w, " %s=%d", c, s.Cases[c])
		}
		fmt.Fprintln(w)
	}
	if n := len(s.UnknownLabels); n > 0 {
		fmt.Fprintf(w, "Unknown label tokens: %d distinct\n", n)
	}
}
