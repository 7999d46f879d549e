// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package taxonomy

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

type runeRange struct {
	lo, hi rune
}

// Charset is the configurable title allow-list.
type Charset struct {
	letters     []runeRange
	punctuation map[rune]bool
	forbidden   map[rune]bool
}

// NewCharset compiles a CharsetSchema. Ranges are written as hex code
// points, "00C0-024F" or a single "00E9".
func NewCharset(s CharsetSchema) (*Charset, error) {
	c := &Charset{
		punctuation: make(map[rune]bool),
		forbidden:   make(map[rune]bool),
	}
	for _, raw := range s.LetterRanges {
		r, err := parseRange(raw)
		if err != nil {
			return nil, err
		}
		c.letters = append(c.letters, r)
	}
	for _, r := range s.Punctuation {
		c.punctuation[r] = true
	}
	for _, r := range s.Forbidden {
		c.forbidden[r] = true
	}
	return c, nil
}

func parseRange(raw string) (runeRange, error) {
	lo, hi, found := strings.Cut(strings.TrimSpace(raw), "-")
	if !found {
		hi = lo
	}
	l, err := strconv.ParseUint(strings.TrimSpace(lo), 16, 32)
	if err != nil {
		return runeRange{}, fmt.Errorf("letter range %q: %w", raw, err)
	}
	h, err := strconv.ParseUint(strings.TrimSpace(hi), 16, 32)
	if err != nil {
		return runeRange{}, fmt.Errorf("letter range %q: %w", raw, err)
	}
	if h < l {
		return runeRange{}, fmt.Errorf("letter range %q: end before start", raw)
	}
	return runeRange{lo: rune(l), hi: rune(h)}, nil
}

// Valid reports whether title passes the allow-list after NFC
// normalization. Ordinary spaces are allowed; any other whitespace, a
// forbidden rune, or a letter outside ASCII and the configured ranges
// rejects the title. At least one Latin letter is required.
func (c *Charset) Valid(title string) bool {
	t := norm.NFC.String(title)
	sawLetter := false
	for _, r := range t {
		switch {
		case r == ' ':
			continue
		case unicode.IsSpace(r):
			return false
		case c.forbidden[r]:
			return false
		case r < unicode.MaxASCII:
			if !unicode.IsPrint(r) {
				return false
			}
			if unicode.IsLetter(r) {
				sawLetter = true
			}
		case c.punctuation[r]:
		case unicode.IsLetter(r) && c.inRange(r):
			sawLetter = true
		default:
			return false
		}
	}
	return sawLetter
}

func (c *Charset) inRange(r rune) bool {
	for _, rr := range c.letters {
		if r >= rr.lo && r <= rr.hi {
			return true
		}
	}
	return false
}
