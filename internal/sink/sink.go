// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sink serializes records. Every sink assumes a single writer;
// schedulers funnel records through one collector goroutine.
package sink

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/wikt-scanner/pkg/types"
)

// Sink receives records in output order.
type Sink interface {
	Write(rec *types.Record) error
	Close() error
}

// Open creates the sink for format at path. An empty format means JSONL.
func Open(format types.OutputFormat, path string) (Sink, error) {
	switch format {
	case "", types.FormatJSONL:
		return CreateJSONL(path)
	case types.FormatSQLite:
		return OpenSQLite(path, defaultSQLiteBatch)
	default:
		return nil, fmt.Errorf("unknown output format %q (want jsonl or sqlite)", format)
	}
}

// JSONL writes one JSON object per line. Each record is marshalled in
// full before any byte of it reaches the buffer, so a failed record never
// leaves a partial line behind.
type JSONL struct {
	w      *bufio.Writer
	closer io.Closer
	line   []byte
}

// NewJSONL wraps w. Close flushes but does not close w.
func NewJSONL(w io.Writer) *JSONL {
	return &JSONL{w: bufio.NewWriterSize(w, 1<<16)}
}

// CreateJSONL creates (or truncates) path, making parent directories.
func CreateJSONL(path string) (*JSONL, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	s := NewJSONL(f)
	s.closer = f
	return s, nil
}

// Write appends rec as one line.
func (s *JSONL) Write(rec *types.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", rec.Word, err)
	}
	s.line = append(append(s.line[:0], data...), '\n')
	if _, err := s.w.Write(s.line); err != nil {
		return fmt.Errorf("writing %q: %w", rec.Word, err)
	}
	return nil
}

// Close flushes buffered lines and closes the file, if any.
func (s *JSONL) Close() error {
	err := s.w.Flush()
	if s.closer != nil {
		if cerr := s.closer.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return fmt.Errorf("closing output: %w", err)
	}
	return nil
}

// Memory keeps records in a slice. Tests and the benchmark use it to
// compare strategy outputs without touching disk.
type Memory struct {
	Records []*types.Record
}

// Write appends rec.
func (m *Memory) Write(rec *types.Record) error {
	m.Records = append(m.Records, rec)
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }

// Discard counts records and drops them.
type Discard struct {
	N int
}

// Write counts rec.
func (d *Discard) Write(*types.Record) error {
	d.N++
	return nil
}

// Close is a no-op.
func (d *Discard) Close() error { return nil }
