// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dump

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/wikt-scanner/pkg/types"
)

const header = `<mediawiki xmlns="http://www.mediawiki.org/xml/export-0.11/">
  <siteinfo>
    <sitename>Wiktionary</sitename>
  </siteinfo>
`

const footer = "</mediawiki>\n"

func page(title string, ns int, text string) string {
	return fmt.Sprintf(`  <page>
    <title>%s</title>
    <ns>%d</ns>
    <id>1</id>
    <revision>
      <text bytes="%d" xml:space="preserve">%s</text>
    </revision>
  </page>
`, title, ns, len(text), text)
}

func dumpOf(pages ...string) string {
	return header + strings.Join(pages, "") + footer
}

func collect(t *testing.T, s *Scanner) []types.Page {
	t.Helper()
	var out []types.Page
	for p, err := range s.Pages() {
		require.NoError(t, err)
		out = append(out, p)
	}
	return out
}

func quietLogger() (*logrus.Logger, *test.Hook) {
	return test.NewNullLogger()
}

func TestScanner_Basic(t *testing.T) {
	in := dumpOf(
		page("dog", 0, "==English==\n===Noun===\n# An animal."),
		page("Talk:dog", 1, "chatter"),
		page("rock &amp; roll", 0, "a &lt;b&gt; c"),
	)
	log, _ := quietLogger()
	got := collect(t, NewScanner(strings.NewReader(in), WithLogger(log)))

	require.Len(t, got, 3)
	assert.Equal(t, "dog", got[0].Title)
	assert.Equal(t, 0, got[0].Namespace)
	assert.Equal(t, "==English==\n===Noun===\n# An animal.", got[0].Text)
	assert.Equal(t, 0, got[0].Seq)

	assert.Equal(t, 1, got[1].Namespace)
	assert.Equal(t, 1, got[1].Seq)

	assert.Equal(t, "rock & roll", got[2].Title)
	assert.Equal(t, "a <b> c", got[2].Text)
	assert.Equal(t, 2, got[2].Seq)
}

func TestScanner_MarkersStraddleReads(t *testing.T) {
	text := "==English==\n===Etymology===\n{{suffix|en|happy|ness}}\n===Noun===\n# State."
	in := dumpOf(page("happiness", 0, text), page("cat", 0, "==English=="))

	log, _ := quietLogger()
	for chunk := 1; chunk <= 64; chunk++ {
		t.Run(fmt.Sprintf("chunk=%d", chunk), func(t *testing.T) {
			got := collect(t, NewScanner(strings.NewReader(in), WithChunkSize(chunk), WithLogger(log)))
			require.Len(t, got, 2)
			assert.Equal(t, text, got[0].Text)
			assert.Equal(t, "cat", got[1].Title)
		})
	}
}

func TestScanner_Redirect(t *testing.T) {
	in := header + `<page><title>colour</title><ns>0</ns><redirect title="color" /><revision><text>#REDIRECT [[color]]</text></revision></page>` + footer
	got := collect(t, NewScanner(strings.NewReader(in)))
	require.Len(t, got, 1)
	assert.True(t, got[0].Redirect)
}

func TestScanner_EmptyText(t *testing.T) {
	in := header + `<page><title>blank</title><ns>0</ns><revision><text bytes="0" /></revision></page>` + footer
	got := collect(t, NewScanner(strings.NewReader(in)))
	require.Len(t, got, 1)
	assert.Equal(t, "", got[0].Text)
}

func TestScanner_TrailingFragmentDropped(t *testing.T) {
	in := header + page("dog", 0, "==English==") + "  <page>\n    <title>cut</title>\n    <revision><text>trunc"
	log, hook := quietLogger()
	s := NewScanner(strings.NewReader(in), WithLogger(log))

	got := collect(t, s)
	require.Len(t, got, 1)
	assert.Equal(t, "dog", got[0].Title)
	assert.Equal(t, 1, s.Malformed())
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestScanner_NestedOpenResyncs(t *testing.T) {
	in := header + "<page><title>broken</title><revision><text>oops\n" + page("dog", 0, "==English==") + footer
	log, _ := quietLogger()
	s := NewScanner(strings.NewReader(in), WithLogger(log), WithChunkSize(7))

	got := collect(t, s)
	require.Len(t, got, 1)
	assert.Equal(t, "dog", got[0].Title)
	assert.Equal(t, 0, got[0].Seq)
	assert.Equal(t, 1, s.Malformed())
}

func TestScanner_PageWithoutTitleSkipped(t *testing.T) {
	in := header + "<page><ns>0</ns></page>" + page("dog", 0, "x") + footer
	log, _ := quietLogger()
	s := NewScanner(strings.NewReader(in), WithLogger(log))

	got := collect(t, s)
	require.Len(t, got, 1)
	assert.Equal(t, "dog", got[0].Title)
	assert.Equal(t, 1, s.Malformed())
}

func TestScanner_Desync(t *testing.T) {
	in := header + "<page><title>huge</title><text>" + strings.Repeat("x", 4096)
	s := NewScanner(strings.NewReader(in), WithChunkSize(256), WithMaxPageBytes(1024))

	_, err := s.Next()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDesync))

	// The error is sticky.
	_, err = s.Next()
	assert.True(t, errors.Is(err, ErrDesync))
}

type failingReader struct {
	data []byte
	err  error
}

func (f *failingReader) Read(p []byte) (int, error) {
	if len(f.data) == 0 {
		return 0, f.err
	}
	n := copy(p, f.data)
	f.data = f.data[n:]
	return n, nil
}

func TestScanner_ReadErrorIsFatal(t *testing.T) {
	boom := errors.New("corrupt block")
	r := &failingReader{data: []byte(header + page("dog", 0, "x") + "<page><title>cut"), err: boom}
	s := NewScanner(r, WithChunkSize(16))

	p, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, "dog", p.Title)

	_, err = s.Next()
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.False(t, errors.Is(err, io.EOF))
}

func TestScanner_PagesStopsEarly(t *testing.T) {
	in := dumpOf(page("a", 0, ""), page("b", 0, ""), page("c", 0, ""))
	s := NewScanner(strings.NewReader(in))

	var titles []string
	for p, err := range s.Pages() {
		require.NoError(t, err)
		titles = append(titles, p.Title)
		if len(titles) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, titles)

	p, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, "c", p.Title)
}

func writeFixture(t *testing.T, name string, encode func(io.Writer) io.WriteCloser, content string) string {
	t.Helper()
	var buf bytes.Buffer
	if encode == nil {
		buf.WriteString(content)
	} else {
		w := encode(&buf)
		_, err := io.WriteString(w, content)
		require.NoError(t, err)
		require.NoError(t, w.Close())
	}
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestOpen_Formats(t *testing.T) {
	content := dumpOf(page("dog", 0, "==English=="), page("cat", 0, "==English=="))

	tests := []struct {
		name   string
		encode func(io.Writer) io.WriteCloser
	}{
		{"dump.xml", nil},
		{"dump.xml.gz", func(w io.Writer) io.WriteCloser { return gzip.NewWriter(w) }},
		{"dump.xml.zst", func(w io.Writer) io.WriteCloser {
			zw, err := zstd.NewWriter(w)
			require.NoError(t, err)
			return zw
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFixture(t, tt.name, tt.encode, content)

			src := Source{Path: path}
			var titles []string
			for p, err := range src.Pages() {
				require.NoError(t, err)
				titles = append(titles, p.Title)
			}
			assert.Equal(t, []string{"dog", "cat"}, titles)

			// Restartable: a second pass sees the same pages.
			n := 0
			for _, err := range src.Pages() {
				require.NoError(t, err)
				n++
			}
			assert.Equal(t, 2, n)
		})
	}
}

func TestOpen_CorruptGzip(t *testing.T) {
	path := writeFixture(t, "bad.xml.gz", nil, "not gzip at all")
	_, err := Open(path)
	assert.Error(t, err)
}

func TestOpen_Missing(t *testing.T) {
	src := Source{Path: filepath.Join(t.TempDir(), "nope.xml")}
	var errs int
	for _, err := range src.Pages() {
		if err != nil {
			errs++
		}
	}
	assert.Equal(t, 1, errs)
}

func TestSource_PageLimit(t *testing.T) {
	content := dumpOf(page("a", 0, ""), page("b", 0, ""), page("c", 0, ""))
	path := writeFixture(t, "dump.xml", nil, content)

	n := 0
	for _, err := range (Source{Path: path, PageLimit: 2}).Pages() {
		require.NoError(t, err)
		n++
	}
	assert.Equal(t, 2, n)
}
