// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dump reads MediaWiki XML exports as a stream of pages without
// parsing the document as XML. The scanner looks for <page> and </page>
// markers in a growing byte buffer and carries any unconsumed remainder
// into the next read, so a marker split across two reads is still found.
package dump

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"io"
	"iter"
	"regexp"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/wikt-scanner/pkg/types"
)

const (
	// DefaultChunkSize is the number of bytes requested per read.
	DefaultChunkSize = 1 << 20

	// DefaultMaxPageBytes bounds how far the scanner reads looking for a
	// closing marker before it gives up on the stream.
	DefaultMaxPageBytes = 64 << 20
)

// ErrDesync is returned when the buffer grows past the page size bound
// without a closing </page> marker. The stream cannot be resynchronized
// and the run must stop.
var ErrDesync = errors.New("dump: lost page boundary")

var (
	pageOpen  = []byte("<page>")
	pageClose = []byte("</page>")

	titleRe    = regexp.MustCompile(`<title>([^<]*)</title>`)
	nsRe       = regexp.MustCompile(`<ns>(-?\d+)</ns>`)
	textRe     = regexp.MustCompile(`(?s)<text[^>]*?(?:/>|>(.*?)</text>)`)
	redirectRe = regexp.MustCompile(`<redirect\s+title="[^"]*"`)
)

// Scanner pulls pages from a dump stream. It is not safe for concurrent use.
type Scanner struct {
	r       io.Reader
	log     logrus.FieldLogger
	chunk   int
	maxPage int

	buf       []byte
	off       int
	eof       bool
	seq       int
	malformed int
	err       error
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithChunkSize sets the read size. Tests use tiny sizes to force markers
// across read boundaries.
func WithChunkSize(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.chunk = n
		}
	}
}

// WithMaxPageBytes sets the desync bound.
func WithMaxPageBytes(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.maxPage = n
		}
	}
}

// WithLogger sets the logger used for recoverable warnings.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Scanner) {
		if l != nil {
			s.log = l
		}
	}
}

// NewScanner returns a Scanner reading from r.
func NewScanner(r io.Reader, opts ...Option) *Scanner {
	s := &Scanner{
		r:       r,
		log:     logrus.StandardLogger(),
		chunk:   DefaultChunkSize,
		maxPage: DefaultMaxPageBytes,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Malformed returns the number of pages skipped as unparseable so far.
func (s *Scanner) Malformed() int {
	return s.malformed
}

// Next returns the next page. It returns io.EOF at the end of the stream
// and a non-nil error for read failures or ErrDesync. Once an error is
// returned every later call returns it again.
func (s *Scanner) Next() (types.Page, error) {
	if s.err != nil {
		return types.Page{}, s.err
	}
	p, err := s.next()
	if err != nil {
		s.err = err
	}
	return p, err
}

func (s *Scanner) next() (types.Page, error) {
	for {
		window := s.buf[s.off:]

		start := bytes.Index(window, pageOpen)
		if start < 0 {
			if s.eof {
				s.off = len(s.buf)
				return types.Page{}, io.EOF
			}
			// Keep just enough bytes to complete a marker cut by the read.
			if keep := len(pageOpen) - 1; len(window) > keep {
				s.off += len(window) - keep
			}
			if err := s.fill(); err != nil {
				return types.Page{}, err
			}
			continue
		}

		s.off += start
		window = s.buf[s.off:]
		body := window[len(pageOpen):]

		end := bytes.Index(body, pageClose)
		nested := bytes.Index(body, pageOpen)
		if nested >= 0 && (end < 0 || nested < end) {
			s.log.WithField("offset", s.off).Warn("page opened before previous page closed, skipping")
			s.malformed++
			s.off += len(pageOpen) + nested
			continue
		}

		if end < 0 {
			if s.eof {
				s.log.WithField("bytes", len(window)).Warn("dropping unterminated trailing page fragment")
				s.malformed++
				s.off = len(s.buf)
				return types.Page{}, io.EOF
			}
			if len(window) > s.maxPage {
				return types.Page{}, fmt.Errorf("%w: no </page> within %d bytes", ErrDesync, s.maxPage)
			}
			if err := s.fill(); err != nil {
				return types.Page{}, err
			}
			continue
		}

		pageLen := len(pageOpen) + end + len(pageClose)
		raw := window[:pageLen]
		s.off += pageLen

		p, ok := parsePage(raw)
		if !ok {
			s.log.WithField("seq", s.seq).Warn("page without title, skipping")
			s.malformed++
			continue
		}
		p.Seq = s.seq
		s.seq++
		return p, nil
	}
}

// fill compacts the consumed prefix away and appends one read.
func (s *Scanner) fill() error {
	if s.off > 0 {
		n := copy(s.buf, s.buf[s.off:])
		s.buf = s.buf[:n]
		s.off = 0
	}
	if cap(s.buf)-len(s.buf) < s.chunk {
		grown := make([]byte, len(s.buf), 2*cap(s.buf)+s.chunk)
		copy(grown, s.buf)
		s.buf = grown
	}

	n, err := s.r.Read(s.buf[len(s.buf) : len(s.buf)+s.chunk])
	s.buf = s.buf[:len(s.buf)+n]
	switch {
	case errors.Is(err, io.EOF):
		s.eof = true
	case err != nil:
		return fmt.Errorf("reading dump: %w", err)
	}
	return nil
}

func parsePage(raw []byte) (types.Page, bool) {
	m := titleRe.FindSubmatch(raw)
	if m == nil {
		return types.Page{}, false
	}
	p := types.Page{Title: html.UnescapeString(string(m[1]))}

	if m := nsRe.FindSubmatch(raw); m != nil {
		p.Namespace, _ = strconv.Atoi(string(m[1]))
	}
	if m := textRe.FindSubmatch(raw); m != nil {
		p.Text = html.UnescapeString(string(m[1]))
	}
	p.Redirect = redirectRe.Match(raw)
	return p, true
}

// Pages adapts the scanner to a range-over-func sequence. A scan error is
// yielded once with a zero Page and ends the sequence.
func (s *Scanner) Pages() iter.Seq2[types.Page, error] {
	return func(yield func(types.Page, error) bool) {
		for {
			p, err := s.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(types.Page{}, err)
				return
			}
			if !yield(p, nil) {
				return
			}
		}
	}
}
