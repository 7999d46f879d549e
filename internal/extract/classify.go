// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/pdiddy/wikt-scanner/internal/taxonomy"
	"github.com/pdiddy/wikt-scanner/pkg/types"
)

// Template names the classifier reads directly.
var (
	labelTemplates    = []string{"lb", "lbl", "label", "context"}
	spellingTemplates = []string{"tlb", "lb"}
	headTemplates     = []string{"head", "en-head", "head-lite"}
)

// evidenceTemplates are form-of and headword templates whose presence with
// a language argument shows the section is a real entry.
var evidenceTemplates = mapset.NewSet(
	"abbr of", "abbreviation of", "abbrev of", "initialism of", "acronym of",
	"alternative form of", "alt form", "alt sp", "alternative spelling of",
	"plural of", "past tense of", "past participle of", "present participle of",
)

func isOneOf(name string, names []string) bool {
	n := taxonomy.Normalize(name)
	for _, candidate := range names {
		if n == candidate {
			return true
		}
	}
	return false
}

// labelResult is the label categories of a section plus the tokens the
// vocabulary did not know.
type labelResult struct {
	sets    map[types.LabelCategory]mapset.Set[string]
	unknown []string
}

func newLabelSets() map[types.LabelCategory]mapset.Set[string] {
	return map[types.LabelCategory]mapset.Set[string]{
		types.CategoryRegister: mapset.NewThreadUnsafeSet[string](),
		types.CategoryTemporal: mapset.NewThreadUnsafeSet[string](),
		types.CategoryDomain:   mapset.NewThreadUnsafeSet[string](),
		types.CategoryRegion:   mapset.NewThreadUnsafeSet[string](),
	}
}

// extractLabels splits every label template's token list and looks each
// token up in the vocabulary, then adds the labels implied by category
// assignments.
func (x *Extractor) extractLabels(ev *Evidence) labelResult {
	res := labelResult{sets: newLabelSets()}
	for _, t := range ev.Templates {
		if !isOneOf(t.Name, labelTemplates) || !hasLanguageArg(t.Params, x.code) {
			continue
		}
		for _, tok := range t.Params[1:] {
			tok = taxonomy.Normalize(tok)
			if tok == "" || strings.Contains(tok, "=") {
				continue
			}
			if l, ok := x.tax.Label(tok); ok {
				res.sets[l.Category].Add(l.Tag)
				continue
			}
			if _, ok := x.tax.Spelling(tok); ok || x.tax.Ignored(tok) {
				continue
			}
			res.unknown = append(res.unknown, tok)
		}
	}
	for _, c := range ev.Categories {
		name, ok := languageCategory(c, x.language)
		if !ok {
			continue
		}
		for _, l := range x.tax.CategoryLabels(name) {
			res.sets[l.Category].Add(l.Tag)
		}
	}
	return res
}

// extractPOS maps level 3+ headings through the POS table.
func (x *Extractor) extractPOS(ev *Evidence) mapset.Set[string] {
	pos := mapset.NewThreadUnsafeSet[string]()
	for _, h := range ev.Headings {
		if h.Level < 3 {
			continue
		}
		if code, ok := x.tax.POS(h.Text); ok {
			pos.Add(code)
		}
	}
	return pos
}

// fallbackPOS reads {{head|<code>|X}} and {{<code>-X}} templates.
func (x *Extractor) fallbackPOS(ev *Evidence) mapset.Set[string] {
	pos := mapset.NewThreadUnsafeSet[string]()
	prefix := x.code + "-"
	for _, t := range ev.Templates {
		name := taxonomy.Normalize(t.Name)
		switch {
		case isOneOf(name, headTemplates):
			if hasLanguageArg(t.Params, x.code) && len(t.Params) > 1 {
				if code, ok := x.tax.HeadPOS(t.Params[1]); ok {
					pos.Add(code)
				}
			}
		case strings.HasPrefix(name, prefix):
			if code, ok := x.tax.TemplatePOS(strings.TrimPrefix(name, prefix)); ok {
				pos.Add(code)
			}
		}
	}
	return pos
}

// hasEntryEvidence reports whether a section without POS headings still
// looks like a real entry: a category of the target language, a headword
// template, a form-of template or a definition line.
func (x *Extractor) hasEntryEvidence(ev *Evidence) bool {
	for _, c := range ev.Categories {
		if _, ok := languageCategory(c, x.language); ok {
			return true
		}
	}
	prefix := x.code + "-"
	for _, t := range ev.Templates {
		name := taxonomy.Normalize(t.Name)
		if strings.HasPrefix(name, prefix) {
			return true
		}
		if evidenceTemplates.Contains(name) && hasLanguageArg(t.Params, x.code) {
			return true
		}
	}
	return ev.Definitions > 0
}

// spellingRegion returns the locale of the first spelling-variant label.
func (x *Extractor) spellingRegion(ev *Evidence) (string, bool) {
	for _, t := range ev.Templates {
		if !isOneOf(t.Name, spellingTemplates) || !hasLanguageArg(t.Params, x.code) {
			continue
		}
		for _, tok := range t.Params[1:] {
			if region, ok := x.tax.Spelling(tok); ok {
				return region, true
			}
		}
	}
	return "", false
}

// lemma returns the base form named by the highest-priority inflection
// template, then by a "<code>-" form-of template. Lemmas that fail the
// title check are ignored.
func (x *Extractor) lemma(ev *Evidence) (string, bool) {
	for _, name := range InflectionTemplates {
		for _, t := range ev.Templates {
			if taxonomy.Normalize(t.Name) != name || !hasLanguageArg(t.Params, x.code) || len(t.Params) < 2 {
				continue
			}
			if l, ok := x.validLemma(t.Params[1]); ok {
				return l, true
			}
		}
	}
	for _, suffix := range InflectionHeadwords {
		name := x.code + "-" + suffix
		for _, t := range ev.Templates {
			if taxonomy.Normalize(t.Name) != name || len(t.Params) == 0 {
				continue
			}
			if l, ok := x.validLemma(t.Params[0]); ok {
				return l, true
			}
		}
	}
	return "", false
}

func (x *Extractor) validLemma(raw string) (string, bool) {
	l := strings.ToLower(cleanLemma(raw))
	if l == "" || !x.tax.Title().Valid(l) {
		return "", false
	}
	return l, true
}

// cleanLemma drops a section anchor and any markup left in a template
// argument.
func cleanLemma(raw string) string {
	s, _, _ := strings.Cut(raw, "#")
	for {
		i := strings.Index(s, "{{")
		if i < 0 {
			break
		}
		j := strings.Index(s[i:], "}}")
		if j < 0 {
			s = s[:i]
			break
		}
		s = s[:i] + s[i+j+2:]
	}
	r := strings.NewReplacer("[[", "", "]]", "", "}}", "", "//", "")
	return strings.TrimSpace(r.Replace(s))
}

func sortedSlice(s mapset.Set[string]) []string {
	out := s.ToSlice()
	sort.Strings(out)
	return out
}
