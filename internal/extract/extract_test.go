package extract

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/wikt-scanner/internal/taxonomy"
	"github.com/pdiddy/wikt-scanner/pkg/types"
)

// --- test helpers ---

func newTestExtractor(t *testing.T, cfg types.ExtractionConfig, opts ...Option) *Extractor {
	t.Helper()
	tax, err := taxonomy.Default()
	require.NoError(t, err)
	x, err := New(tax, cfg, opts...)
	require.NoError(t, err)
	return x
}

func ptr[T any](v T) *T { return &v }

// loadCorpus reads testdata/*.wiki. The page title is the file name with
// underscores as spaces.
func loadCorpus(t *testing.T) []types.Page {
	t.Helper()
	paths, err := filepath.Glob(filepath.Join("testdata", "*.wiki"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	var pages []types.Page
	for i, p := range paths {
		data, err := os.ReadFile(p)
		require.NoError(t, err)
		title := strings.ReplaceAll(strings.TrimSuffix(filepath.Base(p), ".wiki"), "_", " ")
		pages = append(pages, types.Page{Title: title, Text: string(data), Seq: i})
	}
	return pages
}

func english(body string) string {
	return "==English==\n" + body
}

// --- corpus ---

func TestTransform_Corpus(t *testing.T) {
	want := map[string]*types.Record{
		"cat": {
			Word:      "cat",
			WordCount: 1,
			POS:       []string{"noun", "verb"},
			Labels: types.Labels{
				Register: []string{"slang"},
				Domain:   []string{"nautical"},
				Region:   []string{"en-US"},
			},
			IsInformal:  true,
			IsTechnical: true,
			IsRegional:  true,
			Syllables:   ptr(1),
			Morphology: &types.Morphology{
				Kind:       types.MorphCompound,
				Components: []string{"cat", "fish"},
				Template:   "{{compound|en|cat|fish}}",
			},
			Sources: []string{"wikt"},
		},
		"dictionary": {
			Word:      "dictionary",
			WordCount: 1,
			POS:       []string{"noun"},
			Syllables: ptr(4),
			Morphology: &types.Morphology{
				Kind:       types.MorphSuffix,
				Base:       "diction",
				Components: []string{"diction", "-ary"},
				Suffixes:   []string{"-ary"},
				Template:   "{{suffix|en|diction|ary}}",
			},
			Sources: []string{"wikt"},
		},
		"kick the bucket": {
			Word:       "kick the bucket",
			WordCount:  3,
			POS:        []string{"verb"},
			Labels:     types.Labels{Register: []string{"euphemistic", "informal"}},
			IsPhrase:   true,
			IsInformal: true,
			PhraseType: ptr(types.PhraseIdiom),
			Sources:    []string{"wikt"},
		},
		"colour": {
			Word:           "colour",
			WordCount:      1,
			POS:            []string{"noun", "verb"},
			SpellingRegion: ptr("en-GB"),
			Sources:        []string{"wikt"},
		},
		"walked": {
			Word:        "walked",
			WordCount:   1,
			POS:         []string{"verb"},
			IsInflected: true,
			Lemma:       ptr("walk"),
			Sources:     []string{"wikt"},
		},
		"NASA": {
			Word:           "NASA",
			WordCount:      1,
			POS:            []string{"proper_noun"},
			IsAbbreviation: true,
			IsProperNoun:   true,
			Sources:        []string{"wikt"},
		},
		"ice cream": {
			Word:      "ice cream",
			WordCount: 2,
			POS:       []string{"noun"},
			IsPhrase:  true,
			Morphology: &types.Morphology{
				Kind:       types.MorphCompound,
				Components: []string{"ice", "cream"},
				Template:   "{{compound|en|ice|cream}}",
			},
			Sources: []string{"wikt"},
		},
		"runs": {
			Word:        "runs",
			WordCount:   1,
			POS:         []string{"noun", "verb"},
			IsInflected: true,
			Lemma:       ptr("run"),
			Sources:     []string{"wikt"},
		},
		"unhappiness": {
			Word:      "unhappiness",
			WordCount: 1,
			POS:       []string{"noun"},
			Morphology: &types.Morphology{
				Kind:       types.MorphAffix,
				Base:       "happy",
				Components: []string{"un-", "happy", "-ness"},
				Prefixes:   []string{"un-"},
				Suffixes:   []string{"-ness"},
				Template:   "{{af|en|un-|happy|-ness}}",
			},
			Sources: []string{"wikt"},
		},
		"thou": {
			Word:      "thou",
			WordCount: 1,
			POS:       []string{"pronoun"},
			Labels: types.Labels{
				Register: []string{"literary"},
				Temporal: []string{"archaic"},
			},
			IsArchaic: true,
			Sources:   []string{"wikt"},
		},
	}
	wantUnknown := map[string][]string{
		"cat":             {"transitive"},
		"kick the bucket": {"idiomatic"},
		"colour":          {"canada"},
		"unhappiness":     {"uncountable"},
		"thou":            {"dialectal"},
	}

	for _, engine := range []Engine{RegexEngine{}, StructuralEngine{}} {
		x := newTestExtractor(t, types.ExtractionConfig{}, WithEngine(engine))
		for _, page := range loadCorpus(t) {
			t.Run(engine.Name()+"/"+page.Title, func(t *testing.T) {
				res := x.Transform(page)
				require.Equal(t, types.OutcomeWritten, res.Outcome)
				expected, ok := want[page.Title]
				require.True(t, ok, "no expectation for %q", page.Title)
				assert.Equal(t, expected, res.Record)
				assert.Equal(t, wantUnknown[page.Title], res.UnknownLabels)
			})
		}
	}
}

func TestTransform_EngineParity(t *testing.T) {
	rx := newTestExtractor(t, types.ExtractionConfig{}, WithEngine(RegexEngine{}))
	sx := newTestExtractor(t, types.ExtractionConfig{}, WithEngine(StructuralEngine{}))

	pages := loadCorpus(t)
	pages = append(pages,
		types.Page{Title: "ref", Text: english("===Noun===\n# x\n[[:Category:English abbreviations]]\n")},
		types.Page{Title: "nest", Text: english("===Verb===\n# {{lb|en|{{w|slang}}|vulgar}} {{plural of|en|{{l|en|nest}}}}\n")},
		types.Page{Title: "odd heading", Text: english("====Noun====\n# x\n=== Verb ===  \n# y\n==Not=a heading==\n")},
		types.Page{Title: "tail", Text: english("===Noun===\n# x\n{{unclosed|en")},
		types.Page{Title: "unclosed label", Text: english("===Noun===\n# {{lb|en|informal|slang\n# second sense {{plural of|en|bar}}\n")},
		types.Page{Title: "lowercase category", Text: english("===Noun===\n# x\n[[category:English abbreviations]]\n")},
	)
	for _, page := range pages {
		t.Run(page.Title, func(t *testing.T) {
			assert.Equal(t, rx.Transform(page), sx.Transform(page))
		})
	}
}

func TestTransform_UnclosedTemplateIgnored(t *testing.T) {
	x := newTestExtractor(t, types.ExtractionConfig{})
	body := "===Noun===\n# {{lb|en|informal|slang\n# second sense {{plural of|en|bar}}\n"

	for _, engine := range []Engine{RegexEngine{}, StructuralEngine{}} {
		t.Run(engine.Name(), func(t *testing.T) {
			x.engine = engine
			res := x.Transform(types.Page{Title: "foo", Text: english(body)})
			require.NotNil(t, res.Record)
			assert.False(t, res.Record.IsInformal)
			assert.Empty(t, res.Record.Labels.Register)
			assert.True(t, res.Record.IsInflected)
		})
	}
}

func TestIsolateSection(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{"to end of page", "==English==\n===Noun===\n# x\n", "\n===Noun===\n# x\n", true},
		{"stops at next language", "==English==\n# x\n==French==\n# y\n", "\n# x\n", true},
		{"stops at any level-2 heading", "==English==\n# x\n==See also==\n# y\n", "\n# x\n", true},
		{"level 3 does not stop", "==English==\n# x\n===French===\n# y\n", "\n# x\n===French===\n# y\n", true},
		{"case and spaces", "== english ==\n# x", "\n# x", true},
		{"comments stripped", "==English==\n# x<!-- ==French== -->\n", "\n# x\n", true},
		{"missing", "==French==\n# y\n", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := IsolateSection(tt.text, "English")
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

// --- page filters ---

func TestTransform_Outcomes(t *testing.T) {
	x := newTestExtractor(t, types.ExtractionConfig{})
	noun := english("===Noun===\n{{en-noun}}\n# A thing.\n")

	tests := []struct {
		name string
		page types.Page
		want types.Outcome
	}{
		{"entry", types.Page{Title: "thing", Text: noun}, types.OutcomeWritten},
		{"talk namespace", types.Page{Title: "thing", Namespace: 1, Text: noun}, types.OutcomeSpecial},
		{"appendix prefix", types.Page{Title: "Appendix:Colors", Text: noun}, types.OutcomeSpecial},
		{"translations subpage", types.Page{Title: "thing/translations", Text: noun}, types.OutcomeSpecial},
		{"redirect", types.Page{Title: "thing", Text: "#REDIRECT [[other]]", Redirect: true}, types.OutcomeRedirect},
		{"empty text", types.Page{Title: "thing", Text: "  \n"}, types.OutcomeMissingText},
		{"no english section", types.Page{Title: "chose", Text: "==French==\n===Noun===\n# chose\n"}, types.OutcomeNonTarget},
		{"english only at level 3", types.Page{Title: "chose", Text: "==French==\n===English===\n# chose\n"}, types.OutcomeNonTarget},
		{"no entry stub", types.Page{Title: "thing", Text: english("{{no entry|en|reason=misspelling}}\n")}, types.OutcomeDictOnly},
		{"no entry other language", types.Page{Title: "thing", Text: english("{{no entry|fr}}\n===Noun===\n# x\n")}, types.OutcomeWritten},
		{"cjk title", types.Page{Title: "日本", Text: noun}, types.OutcomeInvalidTitle},
		{"forbidden char", types.Page{Title: "a&b", Text: noun}, types.OutcomeInvalidTitle},
		{"extended latin", types.Page{Title: "café", Text: noun}, types.OutcomeWritten},
		{"no pos evidence", types.Page{Title: "thing", Text: english("See [[other]].\n")}, types.OutcomeNoPOS},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := x.Transform(tt.page)
			assert.Equal(t, tt.want, res.Outcome)
			if tt.want == types.OutcomeWritten {
				assert.NotNil(t, res.Record)
			} else {
				assert.Nil(t, res.Record)
			}
		})
	}
}

func TestTransform_WordCount(t *testing.T) {
	x := newTestExtractor(t, types.ExtractionConfig{})
	body := english("===Noun===\n# x\n")

	tests := []struct {
		title string
		count int
	}{
		{"cat", 1},
		{"ice cream", 2},
		{"  padded  ", 1},
		{"a  b c", 3},
		{"well-known", 1},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			res := x.Transform(types.Page{Title: tt.title, Text: body})
			require.NotNil(t, res.Record)
			assert.Equal(t, tt.count, res.Record.WordCount)
			assert.Equal(t, len(strings.Fields(res.Record.Word)), res.Record.WordCount)
			assert.Equal(t, res.Record.WordCount > 1, res.Record.IsPhrase)
		})
	}
}

// --- flags ---

func TestTransform_Abbreviation(t *testing.T) {
	x := newTestExtractor(t, types.ExtractionConfig{})

	tests := []struct {
		name string
		body string
		want bool
	}{
		{"category assignment", "===Noun===\n# x\n[[Category:English abbreviations]]\n", true},
		{"category assignment with sort key", "===Noun===\n# x\n[[Category:English abbreviations|ABC]]\n", true},
		{"category reference link", "===Noun===\n# x\nSee [[:Category:English abbreviations]].\n", false},
		{"reference link with text", "===Noun===\n# x\n[[:Category:English acronyms|acronyms]]\n", false},
		{"other language category", "===Noun===\n# x\n[[Category:French abbreviations]]\n", false},
		{"lowercase namespace assignment", "===Noun===\n# x\n[[category:English abbreviations]]\n", true},
		{"uppercase namespace assignment", "===Noun===\n# x\n[[CATEGORY:English abbreviations]]\n", true},
		{"lowercase namespace reference", "===Noun===\n# x\nSee [[:category:English abbreviations]].\n", false},
		{"template", "===Noun===\n# {{abbreviation of|en|abbreviation}}\n", true},
		{"acronym template", "===Noun===\n# {{acronym of|en|self-contained underwater breathing apparatus}}\n", true},
		{"template other language", "===Noun===\n# {{abbreviation of|fr|abréviation}}\n", false},
		{"plain text mention", "===Noun===\n# An abbreviation of something.\n", false},
	}
	for _, tt := range tests {
		for _, engine := range []Engine{RegexEngine{}, StructuralEngine{}} {
			t.Run(engine.Name()+"/"+tt.name, func(t *testing.T) {
				x.engine = engine
				res := x.Transform(types.Page{Title: "abc", Text: english(tt.body)})
				require.NotNil(t, res.Record)
				assert.Equal(t, tt.want, res.Record.IsAbbreviation)
			})
		}
	}
}

func TestTransform_InflectionTemplates(t *testing.T) {
	x := newTestExtractor(t, types.ExtractionConfig{})

	for _, name := range InflectionTemplates {
		t.Run(name, func(t *testing.T) {
			body := "===Verb===\n# {{" + name + "|en|walk}}\n"
			res := x.Transform(types.Page{Title: "walks", Text: english(body)})
			require.NotNil(t, res.Record)
			assert.True(t, res.Record.IsInflected)
			require.NotNil(t, res.Record.Lemma)
			assert.Equal(t, "walk", *res.Record.Lemma)
		})
	}

	t.Run("headword form", func(t *testing.T) {
		res := x.Transform(types.Page{Title: "walks", Text: english("===Verb===\n# {{en-third-person singular of|walk}}\n")})
		require.NotNil(t, res.Record)
		assert.True(t, res.Record.IsInflected)
		require.NotNil(t, res.Record.Lemma)
		assert.Equal(t, "walk", *res.Record.Lemma)
	})

	t.Run("language argument required", func(t *testing.T) {
		res := x.Transform(types.Page{Title: "walks", Text: english("===Verb===\n# {{plural of|fr|walk}}\n")})
		require.NotNil(t, res.Record)
		assert.False(t, res.Record.IsInflected)
		assert.Nil(t, res.Record.Lemma)
	})
}

func TestTransform_InflectionCategories(t *testing.T) {
	x := newTestExtractor(t, types.ExtractionConfig{})

	for _, name := range InflectionCategories {
		t.Run(name, func(t *testing.T) {
			body := "===Verb===\n# x\n[[Category:English " + name + "]]\n"
			res := x.Transform(types.Page{Title: "walks", Text: english(body)})
			require.NotNil(t, res.Record)
			assert.True(t, res.Record.IsInflected)
			assert.Nil(t, res.Record.Lemma)
		})
		t.Run(name+" reference", func(t *testing.T) {
			body := "===Verb===\n# x\n[[:Category:English " + name + "]]\n"
			res := x.Transform(types.Page{Title: "walks", Text: english(body)})
			require.NotNil(t, res.Record)
			assert.False(t, res.Record.IsInflected)
		})
	}
}

func TestTransform_Syllables(t *testing.T) {
	x := newTestExtractor(t, types.ExtractionConfig{})

	tests := []struct {
		name  string
		pron  string
		extra string
		want  *int
	}{
		{"hyphenation", "{{hyphenation|en|dic|tion|a|ry}}", "", ptr(4)},
		{"rhymes", "{{rhymes|en|ɔːtə|s=2}}", "", ptr(2)},
		{"category", "", "[[Category:English 3-syllable words]]", ptr(3)},
		{"ipa", "{{IPA|en|/ˈwɔːtə/}}", "", ptr(2)},
		{"ipa brackets", "{{IPA|en|[ˈbʌʔn\u0329]}}", "", ptr(2)},
		{"rhymes over ipa", "{{IPA|en|/kæt/}} {{rhymes|en|æt|s=3}}", "", ptr(3)},
		{"category over ipa", "{{IPA|en|/kæt/}}", "[[Category:English 2-syllable words]]", ptr(2)},
		{"ipa without transcription", "{{IPA|en|kæt}}", "", nil},
		{"ipa other language", "{{IPA|fr|/ʃa/}}", "", nil},
		{"none", "", "", nil},
	}
	for _, tt := range tests {
		for _, engine := range []Engine{RegexEngine{}, StructuralEngine{}} {
			t.Run(engine.Name()+"/"+tt.name, func(t *testing.T) {
				x.engine = engine
				body := "===Pronunciation===\n* " + tt.pron + "\n===Noun===\n# x\n" + tt.extra + "\n"
				res := x.Transform(types.Page{Title: "word", Text: english(body)})
				require.NotNil(t, res.Record)
				assert.Equal(t, tt.want, res.Record.Syllables)
			})
		}
	}
}

func TestCountIPANuclei(t *testing.T) {
	tests := []struct {
		ipa  string
		want int
	}{
		{"kæt", 1},
		{"ˈwɔːtə", 2},
		{"ˈbʌtn\u0329", 2},
		{"aɪ", 1},
		{"ɹiˈækt", 2},
		{"ˈdɪkʃəˌnɛəɹi", 4},
		{"ʃ", 0},
		{"", 0},
	}
	for _, tt := range tests {
		t.Run(tt.ipa, func(t *testing.T) {
			assert.Equal(t, tt.want, countIPANuclei(tt.ipa))
		})
	}
}

func TestTransform_LemmaPriority(t *testing.T) {
	x := newTestExtractor(t, types.ExtractionConfig{})
	body := "===Verb===\n# {{inflection of|en|be||pres}}\n# {{past tense of|en|[[Go#English|Go]]}}\n"
	res := x.Transform(types.Page{Title: "went", Text: english(body)})
	require.NotNil(t, res.Record)
	require.NotNil(t, res.Record.Lemma)
	assert.Equal(t, "go", *res.Record.Lemma)
}

func TestTransform_Labels(t *testing.T) {
	x := newTestExtractor(t, types.ExtractionConfig{})

	tests := []struct {
		name    string
		body    string
		labels  types.Labels
		check   func(t *testing.T, r *types.Record)
		unknown []string
	}{
		{
			name:   "colloquial is informal",
			body:   "===Noun===\n# {{lb|en|colloquial}} x\n",
			labels: types.Labels{Register: []string{"colloquial"}},
			check:  func(t *testing.T, r *types.Record) { assert.True(t, r.IsInformal) },
		},
		{
			name:   "colloquial category",
			body:   "===Noun===\n# x\n[[Category:English colloquialisms]]\n",
			labels: types.Labels{Register: []string{"informal"}},
			check:  func(t *testing.T, r *types.Record) { assert.True(t, r.IsInformal) },
		},
		{
			name:   "vulgar and offensive",
			body:   "===Noun===\n# {{lb|en|vulgar}} x\n# {{lb|en|offensive}} y\n",
			labels: types.Labels{Register: []string{"offensive", "vulgar"}},
			check:  func(t *testing.T, r *types.Record) { assert.True(t, r.IsVulgar) },
		},
		{
			name:   "obsolete is archaic",
			body:   "===Noun===\n# {{lbl|en|obsolete}} x\n",
			labels: types.Labels{Temporal: []string{"obsolete"}},
			check:  func(t *testing.T, r *types.Record) { assert.True(t, r.IsArchaic) },
		},
		{
			name:   "rare and dated",
			body:   "===Noun===\n# {{lb|en|rare|dated}} x\n",
			labels: types.Labels{Temporal: []string{"dated", "rare"}},
			check: func(t *testing.T, r *types.Record) {
				assert.True(t, r.IsRare)
				assert.True(t, r.IsDated)
				assert.False(t, r.IsArchaic)
			},
		},
		{
			name:   "domain is technical",
			body:   "===Noun===\n# {{lb|en|Computing}} x\n",
			labels: types.Labels{Domain: []string{"computing"}},
			check:  func(t *testing.T, r *types.Record) { assert.True(t, r.IsTechnical) },
		},
		{
			name:   "region is regional",
			body:   "===Noun===\n# {{lb|en|chiefly|UK}} x\n",
			labels: types.Labels{Region: []string{"en-GB"}},
			check:  func(t *testing.T, r *types.Record) { assert.True(t, r.IsRegional) },
		},
		{
			name:    "unknown tokens are dropped",
			body:    "===Noun===\n# {{lb|en|transitive|_|sense=x|slang}} x\n",
			labels:  types.Labels{Register: []string{"slang"}},
			unknown: []string{"transitive"},
		},
		{
			name: "other language labels ignored",
			body: "===Noun===\n# {{lb|fr|vulgar}} x\n",
			check: func(t *testing.T, r *types.Record) {
				assert.False(t, r.IsVulgar)
			},
		},
		{
			name: "whole-word category keywords",
			body: "===Noun===\n# x\n[[Category:English usage notes]]\n",
			check: func(t *testing.T, r *types.Record) {
				assert.False(t, r.IsRegional)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := x.Transform(types.Page{Title: "word", Text: english(tt.body)})
			require.NotNil(t, res.Record)
			assert.Equal(t, tt.labels, res.Record.Labels)
			assert.Equal(t, tt.unknown, res.UnknownLabels)
			if tt.check != nil {
				tt.check(t, res.Record)
			}
		})
	}
}

func TestTransform_ProperNoun(t *testing.T) {
	x := newTestExtractor(t, types.ExtractionConfig{})

	res := x.Transform(types.Page{Title: "Paris", Text: english("===Proper noun===\n{{en-proper noun}}\n# A city.\n")})
	require.NotNil(t, res.Record)
	assert.Equal(t, []string{"proper_noun"}, res.Record.POS)
	assert.True(t, res.Record.IsProperNoun)

	res = x.Transform(types.Page{Title: "paris", Text: english("===Noun===\n# A game.\n")})
	require.NotNil(t, res.Record)
	assert.False(t, res.Record.IsProperNoun)
}

func TestTransform_ProperNounFromFallbackPOS(t *testing.T) {
	x := newTestExtractor(t, types.ExtractionConfig{ZeroPOS: types.ZeroPOSFallback})

	for _, engine := range []Engine{RegexEngine{}, StructuralEngine{}} {
		t.Run(engine.Name(), func(t *testing.T) {
			x.engine = engine
			res := x.Transform(types.Page{Title: "Smith", Text: english("{{head|en|proper noun}}\n# A surname.\n")})
			require.NotNil(t, res.Record)
			assert.Equal(t, []string{"proper_noun"}, res.Record.POS)
			assert.True(t, res.Record.IsProperNoun)
		})
	}
}

func TestRule_POS(t *testing.T) {
	f := &facts{pos: mapset.NewThreadUnsafeSet("noun", "proper_noun")}
	assert.True(t, POSRule("proper_noun").Match(f))
	assert.True(t, POSRule("verb", "noun").Match(f))
	assert.False(t, POSRule("verb").Match(f))
	assert.False(t, POSRule("noun").Match(&facts{}))
}

// --- zero-POS policy ---

func TestTransform_ZeroPOS(t *testing.T) {
	tests := []struct {
		name    string
		policy  types.ZeroPOSPolicy
		body    string
		outcome types.Outcome
		pos     []string
	}{
		{"fallback head template", types.ZeroPOSFallback, "{{head|en|noun}}\n# x\n", types.OutcomeWritten, []string{"noun"}},
		{"fallback headword template", types.ZeroPOSFallback, "{{en-adj}}\n# x\n", types.OutcomeWritten, []string{"adjective"}},
		{"fallback unknown", types.ZeroPOSFallback, "# x\n", types.OutcomeWritten, []string{"unknown"}},
		{"fallback no evidence", types.ZeroPOSFallback, "Nothing here.\n", types.OutcomeNoPOS, nil},
		{"default is fallback", "", "{{head|en|verb}}\n# x\n", types.OutcomeWritten, []string{"verb"}},
		{"emit", types.ZeroPOSEmit, "Nothing here.\n", types.OutcomeWritten, []string{}},
		{"skip", types.ZeroPOSSkip, "{{head|en|noun}}\n# x\n", types.OutcomeNoPOS, nil},
		{"skip with heading", types.ZeroPOSSkip, "===Noun===\n# x\n", types.OutcomeWritten, []string{"noun"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := newTestExtractor(t, types.ExtractionConfig{ZeroPOS: tt.policy})
			res := x.Transform(types.Page{Title: "word", Text: english(tt.body)})
			assert.Equal(t, tt.outcome, res.Outcome)
			if tt.outcome == types.OutcomeWritten {
				require.NotNil(t, res.Record)
				assert.Equal(t, tt.pos, res.Record.POS)
			}
		})
	}
}

func TestNew_RejectsUnknownPolicy(t *testing.T) {
	tax, err := taxonomy.Default()
	require.NoError(t, err)
	_, err = New(tax, types.ExtractionConfig{ZeroPOS: "guess"})
	assert.Error(t, err)

	_, err = New(nil, types.ExtractionConfig{})
	assert.Error(t, err)

	_, err = New(tax, types.ExtractionConfig{Engine: "tree-sitter"})
	assert.Error(t, err)
}

func TestNew_SelectsEngine(t *testing.T) {
	tax, err := taxonomy.Default()
	require.NoError(t, err)
	for _, name := range []string{"", "regex", "structural"} {
		x, err := New(tax, types.ExtractionConfig{Engine: name})
		require.NoError(t, err)
		want := name
		if want == "" {
			want = "regex"
		}
		assert.Equal(t, want, x.Engine().Name())
	}
}

func TestTransform_OtherLanguage(t *testing.T) {
	x := newTestExtractor(t, types.ExtractionConfig{Language: "French", LanguageCode: "fr"})
	text := "==English==\n===Noun===\n# {{lb|en|vulgar}} x\n==French==\n===Noun===\n# {{lb|fr|vulgar}} chat\n"
	res := x.Transform(types.Page{Title: "chat", Text: text})
	require.NotNil(t, res.Record)
	assert.True(t, res.Record.IsVulgar)
	assert.Equal(t, []string{"noun"}, res.Record.POS)
}

// --- phrase type ---

func TestTransform_PhraseType(t *testing.T) {
	x := newTestExtractor(t, types.ExtractionConfig{})

	tests := []struct {
		name  string
		title string
		body  string
		want  *types.PhraseType
	}{
		{"idiom heading", "break a leg", "===Idiom===\n# good luck\n", ptr(types.PhraseIdiom)},
		{"proverb heading", "the early bird catches the worm", "===Proverb===\n# x\n", ptr(types.PhraseProverb)},
		{"head template", "at once", "===Phrase===\n{{head|en|prepositional phrase}}\n# x\n", ptr(types.PhrasePrepositional)},
		{"prepphr headword", "on top", "===Phrase===\n{{en-prepphr}}\n# x\n", ptr(types.PhrasePrepositional)},
		{"category", "spill the beans", "===Verb===\n# x\n[[Category:English idioms]]\n", ptr(types.PhraseIdiom)},
		{"category reference", "spill the beans", "===Verb===\n# x\n[[:Category:English idioms]]\n", nil},
		{"single word never typed", "idiom", "===Idiom===\n# x\n", nil},
		{"plain multiword", "ice cream", "===Noun===\n# x\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := x.Transform(types.Page{Title: tt.title, Text: english(tt.body)})
			require.NotNil(t, res.Record)
			assert.Equal(t, tt.want, res.Record.PhraseType)
		})
	}
}

// --- determinism ---

func TestTransform_Deterministic(t *testing.T) {
	x := newTestExtractor(t, types.ExtractionConfig{})
	pages := loadCorpus(t)

	first := make([]Result, len(pages))
	for i, p := range pages {
		first[i] = x.Transform(p)
	}

	var wg sync.WaitGroup
	second := make([]Result, len(pages))
	for i, p := range pages {
		wg.Add(1)
		go func() {
			defer wg.Done()
			second[i] = x.Transform(p)
		}()
	}
	wg.Wait()
	assert.Equal(t, first, second)
}
