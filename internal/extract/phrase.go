// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"github.com/pdiddy/wikt-scanner/internal/taxonomy"
	"github.com/pdiddy/wikt-scanner/pkg/types"
)

// phraseHeadings maps a heading, or a {{head}} part of speech, to a phrase type.
var phraseHeadings = map[string]types.PhraseType{
	"idiom":                types.PhraseIdiom,
	"proverb":              types.PhraseProverb,
	"saying":               types.PhraseProverb,
	"adage":                types.PhraseProverb,
	"prepositional phrase": types.PhrasePrepositional,
	"adverbial phrase":     types.PhraseAdverbial,
	"verb phrase":          types.PhraseVerb,
	"verb phrase form":     types.PhraseVerb,
	"noun phrase":          types.PhraseNoun,
}

// phraseCategories is checked in this order.
var phraseCategories = []struct {
	name string
	typ  types.PhraseType
}{
	{"idioms", types.PhraseIdiom},
	{"proverbs", types.PhraseProverb},
	{"prepositional phrases", types.PhrasePrepositional},
	{"adverbial phrases", types.PhraseAdverbial},
	{"verb phrases", types.PhraseVerb},
	{"noun phrases", types.PhraseNoun},
	{"sayings", types.PhraseProverb},
}

// PhraseType classifies a multi-word entry from, in order, its section
// headings, its {{head}} templates, a prepositional-phrase headword
// template and its category assignments.
func (x *Extractor) PhraseType(ev *Evidence, f *facts) (types.PhraseType, bool) {
	for _, h := range ev.Headings {
		if h.Level < 3 {
			continue
		}
		if pt, ok := phraseHeadings[taxonomy.Normalize(h.Text)]; ok {
			return pt, true
		}
	}
	for _, t := range ev.Templates {
		if !isOneOf(t.Name, headTemplates) || !hasLanguageArg(t.Params, x.code) || len(t.Params) < 2 {
			continue
		}
		if pt, ok := phraseHeadings[taxonomy.Normalize(t.Params[1])]; ok {
			return pt, true
		}
	}
	if f.headwords.Contains(x.code + "-prepphr") {
		return types.PhrasePrepositional, true
	}
	for _, pc := range phraseCategories {
		if f.categories.Contains(pc.name) {
			return pc.typ, true
		}
	}
	return "", false
}
