// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strings"

	"github.com/pdiddy/wikt-scanner/internal/wikitext"
)

// StructuralEngine gathers Evidence by walking lines and parsing brackets
// with the wikitext reader. It shares no patterns with RegexEngine and is
// the second implementation the parity harness compares against.
type StructuralEngine struct{}

// Name returns "structural".
func (StructuralEngine) Name() string { return "structural" }

type headingLine struct {
	Heading
	start, end int // byte offsets of the line, end excludes the newline
}

// Evidence walks section line by line.
func (StructuralEngine) Evidence(section string) Evidence {
	var ev Evidence
	var heads []headingLine

	for start := 0; start <= len(section); {
		end := strings.IndexByte(section[start:], '\n')
		if end < 0 {
			end = len(section)
		} else {
			end += start
		}
		line := section[start:end]

		if h, ok := parseHeading(line); ok {
			heads = append(heads, headingLine{Heading: h, start: start, end: end})
			ev.Headings = append(ev.Headings, h)
		}
		if len(line) > 1 && line[0] == '#' && !strings.ContainsRune(":*#", rune(line[1])) {
			ev.Definitions++
		}
		start = end + 1
	}

	ev.Templates = wikitext.Templates(section)
	ev.Categories = wikitext.Categories(section)

	for i, h := range heads {
		if !isEtymologyHeading(h.Text) {
			continue
		}
		end := len(section)
		if i+1 < len(heads) {
			end = heads[i+1].start
		}
		ev.Etymology = append(ev.Etymology, wikitext.Templates(section[h.end:end]))
	}
	return ev
}

// parseHeading recognises "=== Text ===" lines of level two or deeper.
func parseHeading(line string) (Heading, bool) {
	line = strings.TrimRight(line, " \t")
	level := 0
	for level < len(line) && line[level] == '=' {
		level++
	}
	if level < 2 {
		return Heading{}, false
	}
	trailing := 0
	for trailing < len(line)-level && line[len(line)-1-trailing] == '=' {
		trailing++
	}
	if trailing < 2 {
		return Heading{}, false
	}
	text := strings.Trim(line[level:len(line)-trailing], " \t")
	if text == "" || strings.ContainsRune(text, '=') {
		return Heading{}, false
	}
	return Heading{Level: level, Text: text}, true
}
