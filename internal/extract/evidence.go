// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strings"

	"github.com/pdiddy/wikt-scanner/internal/wikitext"
)

// Heading is one == heading == line of a section.
type Heading struct {
	Level int
	Text  string
}

// Evidence is the markup an engine found in one language section. Every
// classification rule is evaluated against Evidence, never against raw
// text, so two engines that gather the same Evidence produce the same
// record.
type Evidence struct {
	Headings []Heading

	// Templates lists every invocation in closing-brace order. Names are
	// as written; rules compare them case-insensitively.
	Templates []wikitext.Template

	// Categories holds the names of genuine category assignments, without
	// the "Category:" prefix. Reference links ([[:Category:X]]) are absent.
	Categories []string

	// Etymology holds the templates of each etymology subsection in order.
	Etymology [][]wikitext.Template

	// Definitions counts "# ..." definition lines.
	Definitions int
}

// Engine gathers Evidence from a language section.
type Engine interface {
	Name() string
	Evidence(section string) Evidence
}

// isEtymologyHeading accepts "Etymology" optionally followed by a number.
func isEtymologyHeading(text string) bool {
	rest, ok := cutPrefixFold(strings.TrimSpace(text), "etymology")
	if !ok {
		return false
	}
	rest = strings.TrimSpace(rest)
	for _, r := range rest {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return s, false
	}
	return s[len(prefix):], true
}
