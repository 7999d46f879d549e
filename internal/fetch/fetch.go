// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads Wiktionary dumps and records where they came from.
package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/wikt-scanner/internal/httputil"
	"github.com/pdiddy/wikt-scanner/pkg/types"
)

// DefaultUserAgent identifies the scanner to Wikimedia mirrors.
const DefaultUserAgent = "wikt-scanner/0.1"

const sourceSuffix = ".source.yaml"

// Provenance is written next to a downloaded dump.
type Provenance struct {
	URL       string    `yaml:"url"`
	Size      int64     `yaml:"size"`
	SHA256    string    `yaml:"sha256"`
	FetchedAt time.Time `yaml:"fetched_at"`
	RunID     string    `yaml:"run_id"`
}

// Result describes a fetch.
type Result struct {
	Path       string
	Skipped    bool
	Provenance *Provenance
}

// SourcePath returns the provenance file path for a dump path.
func SourcePath(dest string) string {
	return dest + sourceSuffix
}

// DestFor returns cfg.Dest, or the last path segment of cfg.URL when unset.
func DestFor(cfg types.FetchConfig) (string, error) {
	if cfg.Dest != "" {
		return cfg.Dest, nil
	}
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return "", fmt.Errorf("parsing url: %w", err)
	}
	base := path.Base(u.Path)
	if base == "" || base == "." || base == "/" {
		return "", fmt.Errorf("cannot derive a file name from %q; set a destination", cfg.URL)
	}
	return base, nil
}

// Fetch downloads cfg.URL to its destination. An existing file is kept
// unless cfg.Force is set. The body goes to a temp file in the destination
// directory and is renamed into place once complete, so an interrupted
// download never leaves a truncated dump behind.
func Fetch(ctx context.Context, client *http.Client, cfg types.FetchConfig, runID string, log logrus.FieldLogger) (Result, error) {
	if cfg.URL == "" {
		return Result{}, fmt.Errorf("no dump url")
	}
	dest, err := DestFor(cfg)
	if err != nil {
		return Result{}, err
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithFields(logrus.Fields{"url": cfg.URL, "dest": dest, "run_id": runID})

	if !cfg.Force {
		if _, err := os.Stat(dest); err == nil {
			log.Info("dump already present, skipping download")
			prov, _ := ReadProvenance(dest)
			return Result{Path: dest, Skipped: true, Provenance: prov}, nil
		}
	}

	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Result{}, fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	log.Info("downloading dump")
	size, sum, err := download(ctx, client, cfg, dest, log)
	if err != nil {
		return Result{}, fmt.Errorf("downloading %s: %w", cfg.URL, err)
	}

	prov := &Provenance{
		URL:       cfg.URL,
		Size:      size,
		SHA256:    sum,
		FetchedAt: time.Now().UTC().Truncate(time.Second),
		RunID:     runID,
	}
	if err := writeProvenance(SourcePath(dest), prov); err != nil {
		return Result{}, err
	}
	log.WithFields(logrus.Fields{"bytes": size, "sha256": sum}).Info("dump downloaded")
	return Result{Path: dest, Provenance: prov}, nil
}

// download streams the response body into a temp file, hashing as it goes.
func download(ctx context.Context, client *http.Client, cfg types.FetchConfig, dest string, log logrus.FieldLogger) (int64, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.URL, nil)
	if err != nil {
		return 0, "", fmt.Errorf("creating request: %w", err)
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)

	resp, err := httputil.DoWithRetry(ctx, client, req, cfg.MaxRetries, log)
	if err != nil {
		return 0, "", fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, "", fmt.Errorf("HTTP %d from %s", resp.StatusCode, cfg.URL)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(dest), ".fetch-*.tmp")
	if err != nil {
		return 0, "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	h := sha256.New()
	n, copyErr := io.Copy(io.MultiWriter(tmpFile, h), resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return 0, "", fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return 0, "", fmt.Errorf("closing temp file: %w", closeErr)
	}
	if resp.ContentLength >= 0 && n != resp.ContentLength {
		os.Remove(tmpPath)
		return 0, "", fmt.Errorf("short body: got %d of %d bytes", n, resp.ContentLength)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return 0, "", fmt.Errorf("renaming temp file: %w", err)
	}
	return n, hex.EncodeToString(h.Sum(nil)), nil
}

func writeProvenance(p string, prov *Provenance) error {
	data, err := yaml.Marshal(prov)
	if err != nil {
		return fmt.Errorf("marshaling provenance: %w", err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("writing provenance %s: %w", p, err)
	}
	return nil
}

// ReadProvenance loads the provenance file written next to dest.
func ReadProvenance(dest string) (*Provenance, error) {
	data, err := os.ReadFile(SourcePath(dest))
	if err != nil {
		return nil, fmt.Errorf("reading provenance: %w", err)
	}
	var prov Provenance
	if err := yaml.Unmarshal(data, &prov); err != nil {
		return nil, fmt.Errorf("parsing provenance: %w", err)
	}
	return &prov, nil
}
