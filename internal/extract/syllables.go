// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var (
	hyphenationTemplates = []string{"hyphenation", "hyph"}
	rhymesTemplates      = []string{"rhymes", "rhyme"}
	ipaTemplates         = []string{"ipa"}

	syllableCategoryRe = regexp.MustCompile(`^(\d+)-syllable words?$`)
	transcriptionRe    = regexp.MustCompile(`[/\[]([^/\[\]]+)[/\]]`)
)

// maxIPASyllables caps a plausible count read from a transcription.
const maxIPASyllables = 15

const (
	syllabicMark = '\u0329'
	nonSyllabic  = '\u032F'
	nasalTilde   = '\u0303'
	tieBar       = '\u0361'
)

var (
	ipaVowels    = []rune("iɪeɛæaɑɒɔoʊuʌəɜɝɐᵻᵿɚ")
	ipaOffglides = []rune("ɪʊəɐ")
)

// Syllables counts syllables from, in order of preference, a hyphenation
// template, the s= argument of a rhymes template, an "N-syllable words"
// category, and the vowel nuclei of the first IPA transcription. It
// reports false when none of them gives a count.
func (x *Extractor) Syllables(ev *Evidence) (int, bool) {
	if n, ok := x.hyphenationCount(ev); ok {
		return n, true
	}
	for _, t := range ev.Templates {
		if !isOneOf(t.Name, rhymesTemplates) || !hasLanguageArg(t.Params, x.code) {
			continue
		}
		if v, ok := t.Named("s"); ok {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				return n, true
			}
		}
	}
	for _, c := range ev.Categories {
		name, ok := languageCategory(c, x.language)
		if !ok {
			continue
		}
		if m := syllableCategoryRe.FindStringSubmatch(name); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				return n, true
			}
		}
	}
	return x.ipaCount(ev)
}

// hyphenationCount reads the first hyphenation template. Alternatives are
// separated by an empty argument ("||"); only the first is counted. A lone
// segment longer than three characters is an unsplit word, not evidence.
func (x *Extractor) hyphenationCount(ev *Evidence) (int, bool) {
	for _, t := range ev.Templates {
		if !isOneOf(t.Name, hyphenationTemplates) || !hasLanguageArg(t.Params, x.code) {
			continue
		}
		var segments []string
		for _, p := range t.Params[1:] {
			if strings.Contains(p, "=") {
				continue
			}
			if p == "" {
				break
			}
			segments = append(segments, p)
		}
		if len(segments) == 0 {
			return 0, false
		}
		if len(segments) == 1 && len([]rune(segments[0])) > 3 {
			return 0, false
		}
		return len(segments), true
	}
	return 0, false
}

// ipaCount reads the first /.../ or [...] transcription of the first IPA
// template and counts its vowel nuclei. Counts of zero or above
// maxIPASyllables are rejected.
func (x *Extractor) ipaCount(ev *Evidence) (int, bool) {
	for _, t := range ev.Templates {
		if !isOneOf(t.Name, ipaTemplates) || !hasLanguageArg(t.Params, x.code) {
			continue
		}
		m := transcriptionRe.FindStringSubmatch(strings.Join(t.Params[1:], "|"))
		if m == nil {
			return 0, false
		}
		n := countIPANuclei(m[1])
		if n == 0 || n > maxIPASyllables {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// countIPANuclei counts vowel nuclei and syllabic consonants. A diphthong
// counts once: length marks and diacritics after a vowel are skipped along
// with at most one off-glide vowel.
func countIPANuclei(ipa string) int {
	rs := []rune(ipa)
	count := 0
	for i := 0; i < len(rs); {
		if i+1 < len(rs) && rs[i+1] == syllabicMark {
			count++
			i += 2
			continue
		}
		if !slices.Contains(ipaVowels, rs[i]) {
			i++
			continue
		}
		count++
		i++
		glided := false
		for i < len(rs) {
			switch next := rs[i]; {
			case next == 'ː' || next == 'ˑ' || next == nasalTilde || next == nonSyllabic || next == tieBar:
				i++
				continue
			case !glided && slices.Contains(ipaOffglides, next):
				glided = true
				i++
				continue
			}
			break
		}
	}
	return count
}
