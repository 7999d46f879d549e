// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Page is one <page> unit read from the dump. It is read once and never
// mutated after the scanner hands it out.
type Page struct {
	// Title is the unescaped page title.
	Title string `json:"title" yaml:"title"`

	// Namespace is the MediaWiki namespace id; headwords live in namespace 0.
	Namespace int `json:"namespace" yaml:"namespace"`

	// Text is the unescaped wikitext of the latest revision.
	Text string `json:"text" yaml:"text"`

	// Redirect is set when the page carries a <redirect> element.
	Redirect bool `json:"redirect" yaml:"redirect"`

	// Seq is the zero-based position of the page in the stream. Schedulers
	// use it to restore input order.
	Seq int `json:"seq" yaml:"seq"`
}

// Labels groups controlled-vocabulary usage tags by category.
type Labels struct {
	Register []string `json:"register,omitempty" yaml:"register,omitempty"`
	Temporal []string `json:"temporal,omitempty" yaml:"temporal,omitempty"`
	Domain   []string `json:"domain,omitempty" yaml:"domain,omitempty"`
	Region   []string `json:"region,omitempty" yaml:"region,omitempty"`
}

// Empty reports whether no category carries a tag.
func (l Labels) Empty() bool {
	return len(l.Register) == 0 && len(l.Temporal) == 0 && len(l.Domain) == 0 && len(l.Region) == 0
}

// LabelCategory names one of the four label groups.
type LabelCategory string

const (
	CategoryRegister LabelCategory = "register"
	CategoryTemporal LabelCategory = "temporal"
	CategoryDomain   LabelCategory = "domain"
	CategoryRegion   LabelCategory = "region"
)

// MorphologyKind classifies an etymological decomposition.
type MorphologyKind string

const (
	MorphPrefix   MorphologyKind = "prefix"
	MorphSuffix   MorphologyKind = "suffix"
	MorphAffix    MorphologyKind = "affix"
	MorphCompound MorphologyKind = "compound"
	MorphBlend    MorphologyKind = "blend"
)

// Morphology is the ordered morpheme decomposition taken from an etymology
// template.
type Morphology struct {
	Kind       MorphologyKind `json:"kind" yaml:"kind"`
	Base       string         `json:"base,omitempty" yaml:"base,omitempty"`
	Components []string       `json:"components" yaml:"components"`
	Prefixes   []string       `json:"prefixes,omitempty" yaml:"prefixes,omitempty"`
	Suffixes   []string       `json:"suffixes,omitempty" yaml:"suffixes,omitempty"`
	Interfixes []string       `json:"interfixes,omitempty" yaml:"interfixes,omitempty"`

	// Template is the raw template invocation the decomposition came from.
	Template string `json:"template" yaml:"template"`
}

// PhraseType is the closed set of multi-word expression classes.
type PhraseType string

const (
	PhraseIdiom         PhraseType = "idiom"
	PhraseProverb       PhraseType = "proverb"
	PhrasePrepositional PhraseType = "prepositional_phrase"
	PhraseAdverbial     PhraseType = "adverbial_phrase"
	PhraseVerb          PhraseType = "verb_phrase"
	PhraseNoun          PhraseType = "noun_phrase"
)

// SourceWiktionary is the provenance tag carried by every record this
// scanner emits.
const SourceWiktionary = "wikt"

// Record is the normalized lexical entry emitted for one qualifying page.
// Field order and JSON names are the wire contract consumed downstream;
// changing either breaks parity with existing outputs.
type Record struct {
	Word      string   `json:"word" yaml:"word"`
	WordCount int      `json:"word_count" yaml:"word_count"`
	POS       []string `json:"pos" yaml:"pos"`
	Labels    Labels   `json:"labels" yaml:"labels"`

	IsPhrase       bool `json:"is_phrase" yaml:"is_phrase"`
	IsAbbreviation bool `json:"is_abbreviation" yaml:"is_abbreviation"`
	IsProperNoun   bool `json:"is_proper_noun" yaml:"is_proper_noun"`
	IsVulgar       bool `json:"is_vulgar" yaml:"is_vulgar"`
	IsArchaic      bool `json:"is_archaic" yaml:"is_archaic"`
	IsRare         bool `json:"is_rare" yaml:"is_rare"`
	IsInformal     bool `json:"is_informal" yaml:"is_informal"`
	IsTechnical    bool `json:"is_technical" yaml:"is_technical"`
	IsRegional     bool `json:"is_regional" yaml:"is_regional"`
	IsInflected    bool `json:"is_inflected" yaml:"is_inflected"`
	IsDated        bool `json:"is_dated" yaml:"is_dated"`

	// Syllables is nil when the page carries no syllable evidence.
	Syllables *int `json:"syllables,omitempty" yaml:"syllables,omitempty"`

	// PhraseType is only set for multi-word entries.
	PhraseType *PhraseType `json:"phrase_type,omitempty" yaml:"phrase_type,omitempty"`

	// Lemma is the base form named by an inflection template.
	Lemma *string `json:"lemma,omitempty" yaml:"lemma,omitempty"`

	// SpellingRegion is the locale of a regional spelling variant (en-US, en-GB).
	SpellingRegion *string `json:"spelling_region,omitempty" yaml:"spelling_region,omitempty"`

	Morphology *Morphology `json:"morphology,omitempty" yaml:"morphology,omitempty"`

	Sources []string `json:"sources" yaml:"sources"`
}
