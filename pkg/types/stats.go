// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"sort"
	"time"
	"unicode"
)

// Outcome tells what the transform did with a page.
type Outcome string

const (
	OutcomeWritten      Outcome = "written"
	OutcomeSpecial      Outcome = "special"
	OutcomeRedirect     Outcome = "redirect"
	OutcomeDictOnly     Outcome = "dict_only"
	OutcomeNonTarget    Outcome = "non_target"
	OutcomeInvalidTitle Outcome = "invalid_title"
	OutcomeNoPOS        Outcome = "no_pos"
	OutcomeMissingText  Outcome = "missing_text"
)

// Outcomes lists every outcome in report order.
var Outcomes = []Outcome{
	OutcomeWritten,
	OutcomeSpecial,
	OutcomeRedirect,
	OutcomeDictOnly,
	OutcomeNonTarget,
	OutcomeInvalidTitle,
	OutcomeNoPOS,
	OutcomeMissingText,
}

// CaseForm buckets a headword by capitalization.
type CaseForm string

const (
	CaseLower CaseForm = "lower"
	CaseTitle CaseForm = "title"
	CaseUpper CaseForm = "upper"
	CaseMixed CaseForm = "mixed"
)

// CaseFormOf classifies word by the case of its letters. Words with no
// cased letters count as lower.
func CaseFormOf(word string) CaseForm {
	var upper, lower, firstUpper bool
	first := true
	for _, r := range word {
		if !unicode.IsLetter(r) {
			continue
		}
		switch {
		case unicode.IsUpper(r):
			upper = true
			if first {
				firstUpper = true
			}
		case unicode.IsLower(r):
			lower = true
		}
		first = false
	}
	switch {
	case !upper:
		return CaseLower
	case !lower:
		return CaseUpper
	case firstUpper && titleCased(word):
		return CaseTitle
	}
	return CaseMixed
}

// titleCased reports whether only the first letter of each word is upper.
func titleCased(word string) bool {
	start := true
	for _, r := range word {
		if unicode.IsSpace(r) || r == '-' {
			start = true
			continue
		}
		if !unicode.IsLetter(r) {
			continue
		}
		if unicode.IsUpper(r) && !start {
			return false
		}
		start = false
	}
	return true
}

// Stats holds the counters of one scan run. Only the collector goroutine
// mutates a Stats value.
type Stats struct {
	// Pages counts pages handed to the transform.
	Pages int `json:"pages" yaml:"pages"`

	// Outcomes counts pages per transform outcome.
	Outcomes map[Outcome]int `json:"outcomes" yaml:"outcomes"`

	// Cases counts written records per capitalization form.
	Cases map[CaseForm]int `json:"cases" yaml:"cases"`

	// UnknownLabels tallies label tokens not present in the vocabulary.
	UnknownLabels map[string]int `json:"unknown_labels,omitempty" yaml:"unknown_labels,omitempty"`

	// Elapsed is the wall time of the run.
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`
}

// NewStats returns a Stats with its maps allocated.
func NewStats() Stats {
	return Stats{
		Outcomes:      make(map[Outcome]int),
		Cases:         make(map[CaseForm]int),
		UnknownLabels: make(map[string]int),
	}
}

// Observe adds one transformed page to the counters.
func (s *Stats) Observe(outcome Outcome, word string, unknown []string) {
	s.Pages++
	s.Outcomes[outcome]++
	if outcome == OutcomeWritten {
		s.Cases[CaseFormOf(word)]++
	}
	for _, l := range unknown {
		s.UnknownLabels[l]++
	}
}

// Written returns the number of records emitted.
func (s Stats) Written() int {
	return s.Outcomes[OutcomeWritten]
}

// Skipped returns the number of pages that produced no record.
func (s Stats) Skipped() int {
	return s.Pages - s.Written()
}

// PagesPerSecond returns throughput over Elapsed, or zero before the run ends.
func (s Stats) PagesPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Pages) / s.Elapsed.Seconds()
}

// LabelCount is one entry of a sorted unknown-label tally.
type LabelCount struct {
	Label string
	Count int
}

// TopUnknownLabels returns the n most frequent unknown label tokens,
// ties broken alphabetically.
func (s Stats) TopUnknownLabels(n int) []LabelCount {
	out := make([]LabelCount, 0, len(s.UnknownLabels))
	for label, count := range s.UnknownLabels {
		out = append(out, LabelCount{Label: label, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
