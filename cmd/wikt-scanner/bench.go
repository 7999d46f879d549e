// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pdiddy/wikt-scanner/internal/metrics"
	"github.com/pdiddy/wikt-scanner/internal/schedule"
	"github.com/pdiddy/wikt-scanner/pkg/types"
)

var benchCmd = &cobra.Command{
	Use:   "bench INPUT",
	Short: "Compare the scheduling strategies on one dump",
	Long: `Bench replays INPUT through every scheduling strategy (or those named
with --strategies), keeping records in memory. Sequential always runs first
as the baseline; each other run is checked for identical output and timed
against it.

Bench exits non-zero when any strategy's records differ from the baseline.`,
	Args: cobra.ExactArgs(1),
	RunE: runBench,
}

func init() {
	addExtractionFlags(benchCmd)
	addScheduleFlags(benchCmd, false)
	addInputFlags(benchCmd)
	benchCmd.Flags().StringSlice("strategies", nil, "strategies to run (default all)")

	rootCmd.AddCommand(benchCmd)
}

func runBench(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, mergeKeys(extractionKeys, scheduleKeys, inputKeys)); err != nil {
		return err
	}
	cfg := scanConfig()
	cfg.Input = args[0]

	names := types.Strategies
	if raw, _ := cmd.Flags().GetStringSlice("strategies"); len(raw) > 0 {
		names = make([]types.StrategyName, len(raw))
		for i, n := range raw {
			names[i] = types.StrategyName(n)
		}
	}

	x, err := newExtractor(cfg.Extraction)
	if err != nil {
		return err
	}

	runID := metrics.NewRunID()
	log := logger.WithField("run_id", runID)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.WithFields(logrus.Fields{"input": cfg.Input, "strategies": names}).Info("benchmark started")
	results, err := schedule.Benchmark(ctx, pageSource(cfg, log), x.Transform, cfg.Schedule, names, schedule.WithLogger(log))
	if err != nil {
		return err
	}

	schedule.WriteBench(os.Stdout, results)
	for _, r := range results {
		if !r.Parity.Equal() {
			return fmt.Errorf("strategy %s does not match sequential output", r.Strategy)
		}
	}
	return nil
}
