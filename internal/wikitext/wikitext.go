// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package wikitext is a small bracket-aware reader for the two wikitext
// constructs the extractor cares about: {{templates}} and [[links]].
// It is not a wikitext grammar; everything else is treated as plain text.
package wikitext

import "strings"

// Link is a parsed [[target#anchor|display]].
type Link struct {
	// Target is the link target as written, including a leading colon.
	Target  string
	Anchor  string
	Display string

	// Piped is set when the link carries a display part, even an empty one.
	Piped bool
}

// Text returns the display text when present, otherwise the target.
func (l Link) Text() string {
	if l.Piped {
		return l.Display
	}
	return l.Target
}

// Template is a parsed {{name|param|...}}.
type Template struct {
	Name   string
	Params []string

	// Raw is the source text of the invocation, braces included.
	Raw string
}

// Positional returns the parameters that are not name=value pairs.
func (t Template) Positional() []string {
	out := make([]string, 0, len(t.Params))
	for _, p := range t.Params {
		if !strings.Contains(p, "=") {
			out = append(out, p)
		}
	}
	return out
}

// Named returns the value of the name=value parameter key.
func (t Template) Named(key string) (string, bool) {
	for _, p := range t.Params {
		k, v, ok := strings.Cut(p, "=")
		if ok && strings.TrimSpace(k) == key {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}

// parser is a recursive-descent reader over one string. Nesting depth is
// carried by the call stack.
type parser struct {
	s   string
	pos int

	// seen collects every template parsed, nested ones included, when set.
	seen *[]Template
}

func (p *parser) atEnd() bool { return p.pos >= len(p.s) }

func (p *parser) peek(prefix string) bool {
	return strings.HasPrefix(p.s[p.pos:], prefix)
}

// ParseParams splits the inner content of a template (no outer braces)
// into parameters. Links contribute their display text, nested templates
// contribute nothing, and every parameter is trimmed.
func ParseParams(content string) []string {
	p := &parser{s: content}
	var params []string
	for !p.atEnd() {
		params = append(params, p.param(false))
		if p.peek("|") {
			p.pos++
			continue
		}
		break
	}
	return params
}

// param reads up to the next top-level "|" (or "}}" when inTemplate).
func (p *parser) param(inTemplate bool) string {
	var b strings.Builder
	for !p.atEnd() && !p.peek("|") && !(inTemplate && p.peek("}}")) {
		switch {
		case p.peek("[["):
			b.WriteString(p.link().Text())
		case p.peek("{{"):
			p.template()
		default:
			b.WriteByte(p.s[p.pos])
			p.pos++
		}
	}
	return strings.TrimSpace(b.String())
}

func (p *parser) link() Link {
	p.pos += 2
	var l Link
	l.Target = p.until("#|]")
	if p.peek("#") {
		p.pos++
		l.Anchor = p.until("|]")
	}
	if p.peek("|") {
		p.pos++
		l.Piped = true
		l.Display = p.until("]")
	}
	if p.peek("]]") {
		p.pos += 2
	}
	return l
}

func (p *parser) until(stops string) string {
	start := p.pos
	for !p.atEnd() && !strings.ContainsRune(stops, rune(p.s[p.pos])) {
		p.pos++
	}
	return p.s[start:p.pos]
}

func (p *parser) template() Template {
	start := p.pos
	p.pos += 2
	var parts []string
	for !p.atEnd() && !p.peek("}}") {
		parts = append(parts, p.param(true))
		if p.peek("|") {
			p.pos++
			continue
		}
		break
	}
	closed := p.peek("}}")
	if closed {
		p.pos += 2
	}

	t := Template{Raw: p.s[start:p.pos]}
	if len(parts) > 0 {
		t.Name = parts[0]
		t.Params = parts[1:]
	}
	// An invocation missing its "}}" is malformed and not reported.
	if closed && p.seen != nil {
		*p.seen = append(*p.seen, t)
	}
	return t
}

// Templates returns every template invocation in text in order of their
// closing braces, so nested invocations precede the template enclosing them.
func Templates(text string) []Template {
	var out []Template
	p := &parser{s: text, seen: &out}
	for {
		i := strings.Index(p.s[p.pos:], "{{")
		if i < 0 {
			return out
		}
		p.pos += i
		p.template()
	}
}

// Links returns every [[link]] in text, including links inside template
// parameters.
func Links(text string) []Link {
	var out []Link
	for offset := 0; ; {
		i := strings.Index(text[offset:], "[[")
		if i < 0 {
			return out
		}
		p := &parser{s: text, pos: offset + i}
		out = append(out, p.link())
		offset += i + 2
	}
}

// Categories returns the names of genuine category assignments, the part
// after "Category:". The namespace matches in any case. A link with a
// leading colon, [[:Category:X]], only points at the category page and is
// not returned. Sort keys are dropped.
func Categories(text string) []string {
	const ns = "category:"
	var out []string
	for _, l := range Links(text) {
		if len(l.Target) < len(ns) || !strings.EqualFold(l.Target[:len(ns)], ns) {
			continue
		}
		out = append(out, strings.TrimSpace(l.Target[len(ns):]))
	}
	return out
}

// StripComments removes <!-- ... --> blocks. An unterminated comment runs
// to the end of the text.
func StripComments(text string) string {
	if !strings.Contains(text, "<!--") {
		return text
	}
	var b strings.Builder
	for {
		i := strings.Index(text, "<!--")
		if i < 0 {
			b.WriteString(text)
			return b.String()
		}
		b.WriteString(text[:i])
		j := strings.Index(text[i+4:], "-->")
		if j < 0 {
			return b.String()
		}
		text = text[i+4+j+3:]
	}
}
