// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strings"

	"github.com/pdiddy/wikt-scanner/internal/wikitext"
)

// IsolateSection returns the body of the "== language ==" section of text:
// everything after the heading line up to the next level-2 heading, or the
// end of the page. HTML comments are removed from the result. The language
// name is matched case-insensitively with surrounding spaces ignored.
func IsolateSection(text, language string) (string, bool) {
	start := -1
	for off := 0; off <= len(text); {
		end := lineEnd(text, off)
		if start < 0 {
			if h, ok := parseHeading(text[off:end]); ok && h.Level == 2 && strings.EqualFold(h.Text, language) {
				start = end
			}
		} else if h, ok := parseHeading(text[off:end]); ok && h.Level == 2 {
			return wikitext.StripComments(text[start:off]), true
		}
		off = end + 1
	}
	if start < 0 {
		return "", false
	}
	if start > len(text) {
		start = len(text)
	}
	return wikitext.StripComments(text[start:]), true
}

func lineEnd(text string, off int) int {
	i := strings.IndexByte(text[off:], '\n')
	if i < 0 {
		return len(text)
	}
	return off + i
}
