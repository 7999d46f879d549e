// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parity compares two record streams field by field. It is how
// engines and scheduling strategies are held to identical output.
package parity

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/tidwall/gjson"

	"github.com/pdiddy/wikt-scanner/pkg/types"
)

// maxLine bounds one JSONL record.
const maxLine = 16 << 20

// DefaultMaxSamples is the number of rendered diffs a Report keeps.
const DefaultMaxSamples = 20

// Fields are the record fields compared for every shared word, in report
// order. A field absent on one side and present on the other is a mismatch.
var Fields = []string{
	"word_count",
	"pos",
	"labels",
	"is_phrase",
	"is_abbreviation",
	"is_proper_noun",
	"is_vulgar",
	"is_archaic",
	"is_rare",
	"is_informal",
	"is_technical",
	"is_regional",
	"is_inflected",
	"is_dated",
	"syllables",
	"phrase_type",
	"lemma",
	"spelling_region",
	"morphology",
	"sources",
}

// Diff is one mismatching field of one word.
type Diff struct {
	Word  string
	Field string
	A     string
	B     string
}

// Report summarizes a comparison.
type Report struct {
	// Compared counts words present on both sides.
	Compared int

	// OnlyA and OnlyB list words present on one side, sorted.
	OnlyA []string
	OnlyB []string

	// Duplicates counts repeated words within either stream.
	Duplicates int

	// Mismatches counts differing words per field.
	Mismatches map[string]int

	// Samples holds the first diffs in word order.
	Samples []Diff
}

// Equal reports whether both streams hold the same records.
func (r Report) Equal() bool {
	return len(r.OnlyA) == 0 && len(r.OnlyB) == 0 && r.Duplicates == 0 && r.mismatched() == 0
}

func (r Report) mismatched() int {
	n := 0
	for _, c := range r.Mismatches {
		n += c
	}
	return n
}

// Options tunes a comparison.
type Options struct {
	// MaxSamples caps Report.Samples; 0 means DefaultMaxSamples.
	MaxSamples int
}

// CompareStreams reads two JSONL streams and compares records keyed by
// word.
func CompareStreams(a, b io.Reader, opts Options) (Report, error) {
	left, dupA, err := index(a)
	if err != nil {
		return Report{}, fmt.Errorf("reading first stream: %w", err)
	}
	right, dupB, err := index(b)
	if err != nil {
		return Report{}, fmt.Errorf("reading second stream: %w", err)
	}

	maxSamples := opts.MaxSamples
	if maxSamples <= 0 {
		maxSamples = DefaultMaxSamples
	}
	rep := Report{Duplicates: dupA + dupB, Mismatches: make(map[string]int)}

	words := make([]string, 0, len(left))
	for w := range left {
		words = append(words, w)
	}
	sort.Strings(words)

	for _, w := range words {
		ra := left[w]
		rb, ok := right[w]
		if !ok {
			rep.OnlyA = append(rep.OnlyA, w)
			continue
		}
		rep.Compared++
		for _, f := range Fields {
			va, vb := field(ra, f), field(rb, f)
			if va == vb {
				continue
			}
			rep.Mismatches[f]++
			if len(rep.Samples) < maxSamples {
				rep.Samples = append(rep.Samples, Diff{Word: w, Field: f, A: va, B: vb})
			}
		}
	}
	for w := range right {
		if _, ok := left[w]; !ok {
			rep.OnlyB = append(rep.OnlyB, w)
		}
	}
	sort.Strings(rep.OnlyB)
	return rep, nil
}

// CompareFiles compares two JSONL files.
func CompareFiles(pathA, pathB string, opts Options) (Report, error) {
	fa, err := os.Open(pathA)
	if err != nil {
		return Report{}, fmt.Errorf("opening %s: %w", pathA, err)
	}
	defer fa.Close()
	fb, err := os.Open(pathB)
	if err != nil {
		return Report{}, fmt.Errorf("opening %s: %w", pathB, err)
	}
	defer fb.Close()
	return CompareStreams(fa, fb, opts)
}

// CompareRecords encodes two record slices as JSONL and compares them.
func CompareRecords(a, b []*types.Record, opts Options) (Report, error) {
	ea, err := encode(a)
	if err != nil {
		return Report{}, err
	}
	eb, err := encode(b)
	if err != nil {
		return Report{}, err
	}
	return CompareStreams(ea, eb, opts)
}

func encode(recs []*types.Record) (io.Reader, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, r := range recs {
		if err := enc.Encode(r); err != nil {
			return nil, fmt.Errorf("encoding %q: %w", r.Word, err)
		}
	}
	return &buf, nil
}

// index maps word to its raw JSON line.
func index(r io.Reader) (map[string]string, int, error) {
	out := make(map[string]string)
	dups := 0
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), maxLine)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		if !gjson.Valid(text) {
			return nil, 0, fmt.Errorf("line %d: invalid JSON", line)
		}
		word := gjson.Get(text, "word")
		if !word.Exists() {
			return nil, 0, fmt.Errorf("line %d: record has no word", line)
		}
		if _, ok := out[word.String()]; ok {
			dups++
		}
		out[word.String()] = text
	}
	if err := sc.Err(); err != nil {
		return nil, 0, err
	}
	return out, dups, nil
}

// field returns the compact JSON of one field, or "" when absent.
func field(record, name string) string {
	v := gjson.Get(record, name)
	if !v.Exists() {
		return ""
	}
	if v.IsObject() || v.IsArray() {
		return gjson.Get(record, name+"|@ugly").Raw
	}
	return v.Raw
}

// WriteReport prints a summary of rep and its sample diffs to w.
func WriteReport(w io.Writer, rep Report) {
	fmt.Fprintf(w, "compared %d words", rep.Compared)
	if len(rep.OnlyA) > 0 || len(rep.OnlyB) > 0 {
		fmt.Fprintf(w, ", %d only in A, %d only in B", len(rep.OnlyA), len(rep.OnlyB))
	}
	if rep.Duplicates > 0 {
		fmt.Fprintf(w, ", %d duplicates", rep.Duplicates)
	}
	fmt.Fprintln(w)

	for _, f := range Fields {
		if n := rep.Mismatches[f]; n > 0 {
			fmt.Fprintf(w, "  %-16s %d mismatched\n", f, n)
		}
	}
	for _, words := range []struct {
		label string
		list  []string
	}{{"only in A", rep.OnlyA}, {"only in B", rep.OnlyB}} {
		for i, word := range words.list {
			if i == DefaultMaxSamples {
				fmt.Fprintf(w, "  %s: ... %d more\n", words.label, len(words.list)-i)
				break
			}
			fmt.Fprintf(w, "  %s: %s\n", words.label, word)
		}
	}
	for _, d := range rep.Samples {
		fmt.Fprintf(w, "  %s.%s: %s\n", d.Word, d.Field, InlineDiff(d.A, d.B))
	}
	if rep.Equal() {
		fmt.Fprintln(w, "streams match")
	}
}

// InlineDiff renders the character diff from a to b as
// "common[-removed-]{+added+}".
func InlineDiff(a, b string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(a, b, false))
	var sb strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			sb.WriteString(d.Text)
		case diffmatchpatch.DiffDelete:
			sb.WriteString("[-" + d.Text + "-]")
		case diffmatchpatch.DiffInsert:
			sb.WriteString("{+" + d.Text + "+}")
		}
	}
	return sb.String()
}
