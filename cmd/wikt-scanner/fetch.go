// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/wikt-scanner/internal/fetch"
	"github.com/pdiddy/wikt-scanner/internal/metrics"
	"github.com/pdiddy/wikt-scanner/pkg/types"
)

const (
	defaultDumpURL = "https://dumps.wikimedia.org/enwiktionary/latest/enwiktionary-latest-pages-articles.xml.bz2"

	// Dumps are gigabytes; the timeout covers the whole transfer.
	defaultTimeout = 2 * time.Hour
)

var fetchKeys = map[string]string{
	"url":         "fetch.url",
	"timeout":     "fetch.timeout",
	"user-agent":  "fetch.user_agent",
	"max-retries": "fetch.max_retries",
}

var fetchCmd = &cobra.Command{
	Use:   "fetch [DEST]",
	Short: "Download a Wiktionary dump",
	Long: `Fetch downloads a dump (by default the latest English Wiktionary
pages-articles dump) to DEST, or to the URL's file name in the current
directory. Throttled responses are retried with backoff. The download goes
to a temp file and is renamed into place once complete, and a
DEST.source.yaml file records the URL, size, SHA-256 and fetch time.

An existing DEST is kept unless --force is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("url", defaultDumpURL, "dump URL")
	fetchCmd.Flags().Duration("timeout", 0, "HTTP timeout for the whole download (default 2h)")
	fetchCmd.Flags().String("user-agent", fetch.DefaultUserAgent, "User-Agent header")
	fetchCmd.Flags().Int("max-retries", 0, "retries on HTTP 429/503 (default 5)")
	fetchCmd.Flags().Bool("force", false, "download even when DEST exists")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, fetchKeys); err != nil {
		return err
	}
	force, _ := cmd.Flags().GetBool("force")

	cfg := types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("fetch.timeout"),
			UserAgent: viper.GetString("fetch.user_agent"),
		},
		URL:        viper.GetString("fetch.url"),
		Force:      force,
		MaxRetries: viper.GetInt("fetch.max_retries"),
	}
	if len(args) == 1 {
		cfg.Dest = args[0]
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := fetch.Fetch(ctx, client, cfg, metrics.NewRunID(), logger)
	if err != nil {
		return err
	}
	if res.Skipped {
		fmt.Printf("skipped: %s (already exists)\n", res.Path)
		return nil
	}
	fmt.Printf("fetched: %s (%d bytes, sha256 %s)\n", res.Path, res.Provenance.Size, res.Provenance.SHA256)
	return nil
}
