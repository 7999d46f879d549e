// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"

	"github.com/pdiddy/wikt-scanner/pkg/types"
)

var (
	langPrefixRe = regexp.MustCompile(`^[A-Za-z]{2,4}:`)
	htmlTagRe    = regexp.MustCompile(`<[^>]*>`)
)

// morphParser turns one etymology template into a decomposition.
type morphParser func(args []string) *types.Morphology

// morphTemplates lists the etymology templates in priority order. Within
// one etymology subsection the first name in this list that yields a
// decomposition wins, wherever it appears in the text.
var morphTemplates = []struct {
	names []string
	parse morphParser
}{
	{[]string{"suffix", "suf"}, parseSuffix},
	{[]string{"prefix", "pre"}, parsePrefix},
	{[]string{"confix", "con"}, parseConfix},
	{[]string{"compound", "com"}, parseCompound},
	{[]string{"blend"}, parseBlend},
	{[]string{"affix", "af"}, parseAffix},
	{[]string{"surf"}, parseAffix},
}

// Morphology returns the decomposition from the first etymology subsection
// that has one.
func (x *Extractor) Morphology(ev *Evidence) *types.Morphology {
	for _, templates := range ev.Etymology {
		for _, mt := range morphTemplates {
			for _, t := range templates {
				if !isOneOf(t.Name, mt.names) || !hasLanguageArg(t.Params, x.code) {
					continue
				}
				if m := mt.parse(t.Positional()[1:]); m != nil {
					m.Template = t.Raw
					return m
				}
			}
		}
	}
	return nil
}

// stripMarkup removes HTML tags from a morpheme argument.
func stripMarkup(s string) string {
	if strings.ContainsAny(s, "<>") {
		s = htmlTagRe.ReplaceAllString(s, "")
	}
	return strings.TrimSpace(s)
}

// cleanComponents drops empty arguments, foreign roots written with a
// language prefix (grc:πλαγκτός) and stray punctuation.
func cleanComponents(args []string) []string {
	var out []string
	for _, a := range args {
		a = stripMarkup(a)
		if a == "" || langPrefixRe.MatchString(a) {
			continue
		}
		switch a {
		case "-", "|", "[[", "]]":
			continue
		}
		out = append(out, a)
	}
	return out
}

func asSuffix(s string) string {
	if strings.HasPrefix(s, "-") {
		return s
	}
	return "-" + s
}

func asPrefix(s string) string {
	if strings.HasSuffix(s, "-") {
		return s
	}
	return s + "-"
}

func parseSuffix(args []string) *types.Morphology {
	if len(args) < 2 {
		return nil
	}
	base, suf := stripMarkup(args[0]), stripMarkup(args[1])
	if base == "" || suf == "" {
		return nil
	}
	suf = asSuffix(suf)
	return &types.Morphology{
		Kind:       types.MorphSuffix,
		Base:       base,
		Components: []string{base, suf},
		Suffixes:   []string{suf},
	}
}

func parsePrefix(args []string) *types.Morphology {
	if len(args) < 2 {
		return nil
	}
	pre, base := stripMarkup(args[0]), stripMarkup(args[1])
	if pre == "" || base == "" {
		return nil
	}
	pre = asPrefix(pre)
	return &types.Morphology{
		Kind:       types.MorphPrefix,
		Base:       base,
		Components: []string{pre, base},
		Prefixes:   []string{pre},
	}
}

func parseConfix(args []string) *types.Morphology {
	if len(args) < 3 {
		return nil
	}
	pre, base, suf := stripMarkup(args[0]), stripMarkup(args[1]), stripMarkup(args[2])
	if pre == "" || base == "" || suf == "" {
		return nil
	}
	pre, suf = asPrefix(pre), asSuffix(suf)
	return &types.Morphology{
		Kind:       types.MorphAffix,
		Base:       base,
		Components: []string{pre, base, suf},
		Prefixes:   []string{pre},
		Suffixes:   []string{suf},
	}
}

func parseCompound(args []string) *types.Morphology {
	comps := cleanComponents(args)
	if len(comps) < 2 {
		return nil
	}
	return &types.Morphology{
		Kind:       types.MorphCompound,
		Components: comps,
		Interfixes: interfixes(comps),
	}
}

func parseBlend(args []string) *types.Morphology {
	comps := cleanComponents(args)
	if len(comps) < 2 {
		return nil
	}
	return &types.Morphology{
		Kind:       types.MorphBlend,
		Components: comps,
	}
}

// parseAffix classifies each component by its hyphens: trailing means
// prefix, leading means suffix, both means interfix, none means base.
func parseAffix(args []string) *types.Morphology {
	comps := cleanComponents(args)
	if len(comps) < 2 {
		return nil
	}

	m := &types.Morphology{Components: comps}
	var bases []string
	for _, c := range comps {
		lead, trail := strings.HasPrefix(c, "-"), strings.HasSuffix(c, "-")
		switch {
		case lead && trail:
			m.Interfixes = append(m.Interfixes, c)
		case trail:
			m.Prefixes = append(m.Prefixes, c)
		case lead:
			m.Suffixes = append(m.Suffixes, c)
		default:
			bases = append(bases, c)
		}
	}

	switch {
	case len(m.Prefixes) > 0 && len(m.Suffixes) > 0:
		m.Kind = types.MorphAffix
	case len(m.Prefixes) > 0:
		m.Kind = types.MorphPrefix
	case len(m.Suffixes) > 0:
		m.Kind = types.MorphSuffix
	case len(bases) >= 2:
		m.Kind = types.MorphCompound
	default:
		return nil
	}
	if m.Kind != types.MorphCompound && len(bases) > 0 {
		m.Base = bases[0]
	}
	return m
}

func interfixes(comps []string) []string {
	var out []string
	for _, c := range comps {
		if len(c) > 1 && strings.HasPrefix(c, "-") && strings.HasSuffix(c, "-") {
			out = append(out, c)
		}
	}
	return out
}
