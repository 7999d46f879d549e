// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/pdiddy/wikt-scanner/internal/wikitext"
)

var (
	reHeading    = regexp.MustCompile(`(?m)^(={2,})[ \t]*([^=\n]+?)[ \t]*={2,}[ \t]*$`)
	reInnermost  = regexp.MustCompile(`\{\{([^{}|]*)((?:\|[^{}]*)?)\}\}`)
	reLink       = regexp.MustCompile(`\[\[([^\]|#]*)(?:#[^\]|]*)?(\|[^\]]*)?\]\]`)
	reCategory   = regexp.MustCompile(`\[\[(?i:category):([^\]|#]+)[^\]]*\]\]`)
	reDefinition = regexp.MustCompile(`(?m)^#[^:*#\n]`)
)

// placeholders used while rewriting template text in place.
const (
	maskByte = '\x00'
	pipeMask = "\x01"
)

// RegexEngine gathers Evidence with compiled patterns. It is the
// production engine: it never builds a tree and allocates little beyond
// the matches themselves.
type RegexEngine struct{}

// Name returns "regex".
func (RegexEngine) Name() string { return "regex" }

// Evidence scans section with the package patterns.
func (RegexEngine) Evidence(section string) Evidence {
	var ev Evidence

	heads := reHeading.FindAllStringSubmatchIndex(section, -1)
	for _, h := range heads {
		ev.Headings = append(ev.Headings, Heading{
			Level: h[3] - h[2],
			Text:  section[h[4]:h[5]],
		})
	}

	ev.Templates = regexTemplates(section)

	for _, m := range reCategory.FindAllStringSubmatch(section, -1) {
		ev.Categories = append(ev.Categories, strings.TrimSpace(m[1]))
	}

	ev.Definitions = len(reDefinition.FindAllStringIndex(section, -1))

	for i, h := range heads {
		if !isEtymologyHeading(section[h[4]:h[5]]) {
			continue
		}
		end := len(section)
		if i+1 < len(heads) {
			end = heads[i+1][0]
		}
		ev.Etymology = append(ev.Etymology, regexTemplates(section[h[1]:end]))
	}

	return ev
}

// regexTemplates finds templates innermost first, masking each match so
// the enclosing template becomes innermost on the next pass. Results are
// ordered by closing offset.
func regexTemplates(text string) []wikitext.Template {
	type found struct {
		t   wikitext.Template
		end int
	}

	work := []byte(text)
	var all []found
	for {
		locs := reInnermost.FindAllSubmatchIndex(work, -1)
		if len(locs) == 0 {
			break
		}
		for _, loc := range locs {
			name := unmask(string(work[loc[2]:loc[3]]))
			t := wikitext.Template{
				Name: strings.TrimSpace(name),
				Raw:  text[loc[0]:loc[1]],
			}
			if loc[5] > loc[4] {
				t.Params = splitParams(string(work[loc[4]+1 : loc[5]]))
			}
			all = append(all, found{t: t, end: loc[1]})
			for i := loc[0]; i < loc[1]; i++ {
				work[i] = maskByte
			}
		}
	}

	sort.Slice(all, func(i, j int) bool { return all[i].end < all[j].end })
	out := make([]wikitext.Template, len(all))
	for i, f := range all {
		out[i] = f.t
	}
	return out
}

// splitParams resolves links to their text and splits on the remaining
// pipes. Pipes inside link text are protected first.
func splitParams(args string) []string {
	args = unmask(args)
	args = reLink.ReplaceAllStringFunc(args, func(m string) string {
		sub := reLink.FindStringSubmatch(m)
		text := sub[1]
		if sub[2] != "" {
			text = sub[2][1:]
		}
		return strings.ReplaceAll(text, "|", pipeMask)
	})
	parts := strings.Split(args, "|")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(strings.ReplaceAll(p, pipeMask, "|"))
	}
	return parts
}

func unmask(s string) string {
	if strings.IndexByte(s, maskByte) < 0 {
		return s
	}
	return strings.ReplaceAll(s, string(rune(maskByte)), "")
}
