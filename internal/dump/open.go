// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dump

import (
	"bufio"
	"compress/bzip2"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

const readBufferSize = 1 << 20

// readCloser pairs a decoding reader with the closers behind it.
type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (rc *readCloser) Close() error {
	var first error
	for _, c := range rc.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Open opens a dump file and returns a reader over its decompressed XML.
// The decoder is chosen by extension: .bz2, .gz, .zst, anything else is
// read as plain XML.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dump %s: %w", path, err)
	}

	br := bufio.NewReaderSize(f, readBufferSize)
	lower := strings.ToLower(path)

	switch {
	case strings.HasSuffix(lower, ".bz2"):
		return &readCloser{Reader: bzip2.NewReader(br), closers: []io.Closer{f}}, nil

	case strings.HasSuffix(lower, ".gz"):
		zr, err := gzip.NewReader(br)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("reading gzip header of %s: %w", path, err)
		}
		return &readCloser{Reader: zr, closers: []io.Closer{zr, f}}, nil

	case strings.HasSuffix(lower, ".zst"):
		zr, err := zstd.NewReader(br)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("opening zstd stream of %s: %w", path, err)
		}
		dec := zr.IOReadCloser()
		return &readCloser{Reader: dec, closers: []io.Closer{dec, f}}, nil

	default:
		return &readCloser{Reader: br, closers: []io.Closer{f}}, nil
	}
}
