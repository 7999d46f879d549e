// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/pdiddy/wikt-scanner/internal/taxonomy"
	"github.com/pdiddy/wikt-scanner/pkg/types"
)

// RuleKind tags the variant of a Rule.
type RuleKind int

const (
	// RuleTemplate matches a template whose first argument is the target
	// language code, e.g. {{plural of|en|cat}}.
	RuleTemplate RuleKind = iota

	// RuleHeadword matches a language-specific template that takes no
	// language argument; Values are suffixes after "<code>-", so "prop"
	// matches {{en-prop}}.
	RuleHeadword

	// RuleCategory matches a genuine [[Category:<Language> <value>]]
	// assignment. Reference links never match.
	RuleCategory

	// RuleHeading matches a level 3+ section heading.
	RuleHeading

	// RuleLabel matches when the record's label category holds one of Values.
	RuleLabel

	// RuleAnyLabel matches when the record's label category is non-empty.
	RuleAnyLabel

	// RulePOS matches when the record's final pos set holds one of Values,
	// whether it came from headings or the headword fallback.
	RulePOS
)

// Rule is one piece of markup evidence that can set a flag. Values are
// stored normalized (lowercase, single spaces).
type Rule struct {
	Kind     RuleKind
	Values   []string
	Category types.LabelCategory
}

func normalized(kind RuleKind, values []string) Rule {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = taxonomy.Normalize(v)
	}
	return Rule{Kind: kind, Values: out}
}

// Template builds a RuleTemplate.
func Template(names ...string) Rule { return normalized(RuleTemplate, names) }

// Headword builds a RuleHeadword.
func Headword(suffixes ...string) Rule { return normalized(RuleHeadword, suffixes) }

// Category builds a RuleCategory.
func Category(names ...string) Rule { return normalized(RuleCategory, names) }

// HeadingRule builds a RuleHeading.
func HeadingRule(texts ...string) Rule { return normalized(RuleHeading, texts) }

// Label builds a RuleLabel over one label category.
func Label(cat types.LabelCategory, tags ...string) Rule {
	r := normalized(RuleLabel, tags)
	r.Category = cat
	return r
}

// AnyLabel builds a RuleAnyLabel.
func AnyLabel(cat types.LabelCategory) Rule {
	return Rule{Kind: RuleAnyLabel, Category: cat}
}

// POSRule builds a RulePOS.
func POSRule(tags ...string) Rule { return normalized(RulePOS, tags) }

// FlagRule binds a boolean record field to the rules that set it.
type FlagRule struct {
	Flag  string
	Rules []Rule
	Set   func(*types.Record)
}

// InflectionTemplates are the form-of templates that mark an inflected
// entry, in lemma lookup priority.
var InflectionTemplates = []string{
	"plural of",
	"past tense of",
	"past participle of",
	"present participle of",
	"third-person singular of",
	"comparative of",
	"superlative of",
	"inflection of",
}

// InflectionHeadwords are "<code>-" prefixed form-of templates, which take
// the lemma as their first argument and no language argument.
var InflectionHeadwords = []string{
	"third-person singular of",
	"past of",
}

// InflectionCategories are the category names that mark an inflected entry.
var InflectionCategories = []string{
	"verb forms",
	"noun forms",
	"adjective forms",
	"adverb forms",
	"plurals",
}

// DefaultFlagRules is the rule table for every markup-derived flag.
// is_phrase is derived from the word count and has no rules.
func DefaultFlagRules() []FlagRule {
	return []FlagRule{
		{
			Flag: "is_abbreviation",
			Rules: []Rule{
				Template("abbreviation of", "abbrev of", "abbr of", "initialism of", "acronym of"),
				Category("abbreviations", "initialisms", "acronyms", "stenoscript abbreviations"),
			},
			Set: func(r *types.Record) { r.IsAbbreviation = true },
		},
		{
			Flag: "is_proper_noun",
			Rules: []Rule{
				HeadingRule("proper noun", "proper name", "propernoun"),
				Headword("proper noun", "prop"),
				POSRule("proper_noun"),
			},
			Set: func(r *types.Record) { r.IsProperNoun = true },
		},
		{
			Flag:  "is_vulgar",
			Rules: []Rule{Label(types.CategoryRegister, "vulgar", "offensive")},
			Set:   func(r *types.Record) { r.IsVulgar = true },
		},
		{
			Flag:  "is_archaic",
			Rules: []Rule{Label(types.CategoryTemporal, "archaic", "obsolete")},
			Set:   func(r *types.Record) { r.IsArchaic = true },
		},
		{
			Flag:  "is_rare",
			Rules: []Rule{Label(types.CategoryTemporal, "rare")},
			Set:   func(r *types.Record) { r.IsRare = true },
		},
		{
			Flag:  "is_informal",
			Rules: []Rule{Label(types.CategoryRegister, "informal", "slang", "colloquial")},
			Set:   func(r *types.Record) { r.IsInformal = true },
		},
		{
			Flag:  "is_technical",
			Rules: []Rule{AnyLabel(types.CategoryDomain)},
			Set:   func(r *types.Record) { r.IsTechnical = true },
		},
		{
			Flag:  "is_regional",
			Rules: []Rule{AnyLabel(types.CategoryRegion)},
			Set:   func(r *types.Record) { r.IsRegional = true },
		},
		{
			Flag: "is_inflected",
			Rules: []Rule{
				Template(InflectionTemplates...),
				Headword(InflectionHeadwords...),
				Category(InflectionCategories...),
			},
			Set: func(r *types.Record) { r.IsInflected = true },
		},
		{
			Flag:  "is_dated",
			Rules: []Rule{Label(types.CategoryTemporal, "dated")},
			Set:   func(r *types.Record) { r.IsDated = true },
		},
	}
}

// facts is the per-page index rules are evaluated against.
type facts struct {
	templates  mapset.Set[string] // names of templates carrying the language argument
	headwords  mapset.Set[string] // all template names
	categories mapset.Set[string] // assignment names with the language prefix removed
	headings   mapset.Set[string]
	labels     map[types.LabelCategory]mapset.Set[string]
	pos        mapset.Set[string]
	code       string
}

func newFacts(ev *Evidence, language, code string, pos mapset.Set[string], labels map[types.LabelCategory]mapset.Set[string]) *facts {
	f := &facts{
		templates:  mapset.NewThreadUnsafeSet[string](),
		headwords:  mapset.NewThreadUnsafeSet[string](),
		categories: mapset.NewThreadUnsafeSet[string](),
		headings:   mapset.NewThreadUnsafeSet[string](),
		labels:     labels,
		pos:        pos,
		code:       code,
	}
	for _, t := range ev.Templates {
		name := taxonomy.Normalize(t.Name)
		f.headwords.Add(name)
		if hasLanguageArg(t.Params, code) {
			f.templates.Add(name)
		}
	}
	for _, c := range ev.Categories {
		if name, ok := languageCategory(c, language); ok {
			f.categories.Add(name)
		}
	}
	for _, h := range ev.Headings {
		if h.Level >= 3 {
			f.headings.Add(taxonomy.Normalize(h.Text))
		}
	}
	return f
}

func hasLanguageArg(params []string, code string) bool {
	return len(params) > 0 && strings.EqualFold(strings.TrimSpace(params[0]), code)
}

// languageCategory strips "<Language> " from a category name and
// normalizes the rest. Categories of other languages are rejected.
func languageCategory(name, language string) (string, bool) {
	n := taxonomy.Normalize(name)
	rest, ok := strings.CutPrefix(n, taxonomy.Normalize(language)+" ")
	if !ok {
		return "", false
	}
	return rest, true
}

// Match evaluates one rule.
func (r Rule) Match(f *facts) bool {
	switch r.Kind {
	case RuleTemplate:
		return f.templates.ContainsAny(r.Values...)
	case RuleHeadword:
		for _, v := range r.Values {
			if f.headwords.Contains(f.code + "-" + v) {
				return true
			}
		}
		return false
	case RuleCategory:
		return f.categories.ContainsAny(r.Values...)
	case RuleHeading:
		return f.headings.ContainsAny(r.Values...)
	case RuleLabel:
		set, ok := f.labels[r.Category]
		return ok && set.ContainsAny(r.Values...)
	case RuleAnyLabel:
		set, ok := f.labels[r.Category]
		return ok && set.Cardinality() > 0
	case RulePOS:
		return f.pos != nil && f.pos.ContainsAny(r.Values...)
	}
	return false
}

// applyFlags sets every flag whose rule list has a match.
func applyFlags(rules []FlagRule, f *facts, rec *types.Record) {
	for _, fr := range rules {
		for _, r := range fr.Rules {
			if r.Match(f) {
				fr.Set(rec)
				break
			}
		}
	}
}
