// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns one dump page into at most one normalized Record.
//
// Transform is pure: the result depends only on the page and the
// Extractor's immutable tables, so it is safe to call from any number of
// goroutines. Markup is read by an Engine into Evidence; the POS table,
// label vocabulary and flag rules are then evaluated against Evidence the
// same way whichever engine gathered it.
package extract

import (
	"fmt"
	"regexp"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/pdiddy/wikt-scanner/internal/taxonomy"
	"github.com/pdiddy/wikt-scanner/pkg/types"
)

const (
	defaultLanguage     = "English"
	defaultLanguageCode = "en"
	unknownPOS          = "unknown"
)

// Result is the outcome of transforming one page.
type Result struct {
	// Record is nil unless Outcome is OutcomeWritten.
	Record  *types.Record
	Outcome types.Outcome

	// UnknownLabels holds label tokens missing from the vocabulary.
	UnknownLabels []string
}

// Extractor holds the immutable tables shared by all transform calls.
type Extractor struct {
	tax      *taxonomy.Taxonomy
	engine   Engine
	language string
	code     string
	zeroPOS  types.ZeroPOSPolicy
	flags    []FlagRule
	dictOnly *regexp.Regexp
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithEngine selects the evidence engine. The default is RegexEngine.
func WithEngine(e Engine) Option {
	return func(x *Extractor) { x.engine = e }
}

// WithFlagRules replaces the flag rule table.
func WithFlagRules(rules []FlagRule) Option {
	return func(x *Extractor) { x.flags = rules }
}

// New builds an Extractor. Empty config fields take their defaults.
func New(tax *taxonomy.Taxonomy, cfg types.ExtractionConfig, opts ...Option) (*Extractor, error) {
	if tax == nil {
		return nil, fmt.Errorf("extractor needs a taxonomy")
	}
	x := &Extractor{
		tax:      tax,
		engine:   RegexEngine{},
		language: cfg.Language,
		code:     strings.ToLower(cfg.LanguageCode),
		zeroPOS:  cfg.ZeroPOS,
		flags:    DefaultFlagRules(),
	}
	if x.language == "" {
		x.language = defaultLanguage
	}
	if x.code == "" {
		x.code = defaultLanguageCode
	}
	switch x.zeroPOS {
	case "":
		x.zeroPOS = types.ZeroPOSFallback
	case types.ZeroPOSFallback, types.ZeroPOSEmit, types.ZeroPOSSkip:
	default:
		return nil, fmt.Errorf("unknown zero-POS policy %q (want fallback, emit or skip)", x.zeroPOS)
	}
	switch cfg.Engine {
	case "", (RegexEngine{}).Name():
	case (StructuralEngine{}).Name():
		x.engine = StructuralEngine{}
	default:
		return nil, fmt.Errorf("unknown engine %q (want regex or structural)", cfg.Engine)
	}
	for _, o := range opts {
		o(x)
	}
	x.dictOnly = regexp.MustCompile(`(?i)\{\{\s*no entry\s*\|\s*` + regexp.QuoteMeta(x.code) + `\s*[|}]`)
	return x, nil
}

// Engine returns the evidence engine in use.
func (x *Extractor) Engine() Engine {
	return x.engine
}

// Transform classifies page and builds its record. Page-level filters run
// first: namespace, special titles, redirects, empty text, a missing
// language section, dictionary-only stubs and the title allow-list.
func (x *Extractor) Transform(page types.Page) Result {
	switch {
	case page.Namespace != 0 || x.tax.IsSpecial(page.Title):
		return Result{Outcome: types.OutcomeSpecial}
	case page.Redirect:
		return Result{Outcome: types.OutcomeRedirect}
	case strings.TrimSpace(page.Text) == "":
		return Result{Outcome: types.OutcomeMissingText}
	}

	section, ok := IsolateSection(page.Text, x.language)
	if !ok {
		return Result{Outcome: types.OutcomeNonTarget}
	}
	if x.dictOnly.MatchString(section) {
		return Result{Outcome: types.OutcomeDictOnly}
	}

	word := strings.TrimSpace(page.Title)
	if !x.tax.Title().Valid(word) {
		return Result{Outcome: types.OutcomeInvalidTitle}
	}

	ev := x.engine.Evidence(section)

	pos := x.extractPOS(&ev)
	if pos.Cardinality() == 0 {
		switch x.zeroPOS {
		case types.ZeroPOSSkip:
			return Result{Outcome: types.OutcomeNoPOS}
		case types.ZeroPOSFallback:
			pos = x.fallbackPOS(&ev)
			if pos.Cardinality() == 0 {
				if !x.hasEntryEvidence(&ev) {
					return Result{Outcome: types.OutcomeNoPOS}
				}
				pos.Add(unknownPOS)
			}
		}
	}

	labels := x.extractLabels(&ev)
	rec := x.assemble(word, &ev, pos, labels)
	return Result{Record: rec, Outcome: types.OutcomeWritten, UnknownLabels: labels.unknown}
}

// assemble merges the extracted fields into a Record. Every slice is
// sorted so the output is a function of the section text alone.
func (x *Extractor) assemble(word string, ev *Evidence, pos mapset.Set[string], labels labelResult) *types.Record {
	wc := len(strings.Fields(word))
	rec := &types.Record{
		Word:      word,
		WordCount: wc,
		POS:       sortedSlice(pos),
		Labels: types.Labels{
			Register: nonEmpty(sortedSlice(labels.sets[types.CategoryRegister])),
			Temporal: nonEmpty(sortedSlice(labels.sets[types.CategoryTemporal])),
			Domain:   nonEmpty(sortedSlice(labels.sets[types.CategoryDomain])),
			Region:   nonEmpty(sortedSlice(labels.sets[types.CategoryRegion])),
		},
		IsPhrase: wc > 1,
		Sources:  []string{types.SourceWiktionary},
	}

	f := newFacts(ev, x.language, x.code, pos, labels.sets)
	applyFlags(x.flags, f, rec)

	if n, ok := x.Syllables(ev); ok {
		rec.Syllables = &n
	}
	if wc > 1 {
		if pt, ok := x.PhraseType(ev, f); ok {
			rec.PhraseType = &pt
		}
	}
	if l, ok := x.lemma(ev); ok {
		rec.Lemma = &l
		rec.IsInflected = true
	}
	if region, ok := x.spellingRegion(ev); ok {
		rec.SpellingRegion = &region
	}
	rec.Morphology = x.Morphology(ev)
	return rec
}

func nonEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}
