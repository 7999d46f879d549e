// Package main contains Mage build targets for wikt-scanner developer tooling.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// projectDirs lists the working directories scans read from and write to.
var projectDirs = []string{
	"dumps",
	"out",
}

const (
	binDir  = "bin"
	binName = "wikt-scanner"
	cmdPkg  = "./cmd/wikt-scanner"
)

// defaultDump is the dump Fetch writes and Scan and Bench read.
var defaultDump = filepath.Join("dumps", "enwiktionary-latest-pages-articles.xml.bz2")

// Init creates the working directories.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

// Build compiles the CLI binary into bin/, stamping the git version when
// one is available.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	ldflags := ""
	if v, err := sh.Output("git", "describe", "--tags", "--always", "--dirty"); err == nil && v != "" {
		ldflags = "-X main.version=" + v
	}
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Fetch downloads the latest English Wiktionary dump into dumps/.
func Fetch() error {
	mg.Deps(Build, Init)
	return sh.RunV(filepath.Join(binDir, binName), "fetch", defaultDump)
}

// Scan extracts records from the dump in $WIKT_DUMP (default the fetched
// dump) into out/records.jsonl.
func Scan() error {
	mg.Deps(Build, Init)
	return sh.RunV(filepath.Join(binDir, binName), "scan",
		"--strategy", envOr("WIKT_STRATEGY", "channel-pipeline"),
		"--metrics-file", filepath.Join("out", "scan.prom"),
		envOr("WIKT_DUMP", defaultDump), filepath.Join("out", "records.jsonl"))
}

// Bench runs every scheduling strategy over $WIKT_DUMP, capped at
// $WIKT_PAGES pages (default 200000).
func Bench() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "bench",
		"--page-limit", envOr("WIKT_PAGES", "200000"),
		envOr("WIKT_DUMP", defaultDump))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Stats prints project metrics: Go production and test line counts.
func Stats() error {
	prodLines, err := countGoLines(".", false)
	if err != nil {
		return err
	}
	testLines, err := countGoLines(".", true)
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)
	return nil
}

// countGoLines walks the tree and counts non-blank lines in Go files.
// If testOnly is true, count only _test.go files; otherwise count non-test
// .go files. Directories starting with '_' or '.' are skipped, as the go
// tool does.
func countGoLines(root string, testOnly bool) (int, error) {
	total := 0
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		if strings.HasSuffix(path, "_test.go") != testOnly {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			if strings.TrimSpace(line) != "" {
				total++
			}
		}
		return nil
	})
	return total, err
}
