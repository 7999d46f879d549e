// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package taxonomy loads the controlled vocabularies the extractor maps
// markup onto: part-of-speech headings, usage labels, category keywords,
// special page prefixes and the title allow-list.
//
// A Taxonomy is built once at startup and is read-only afterwards, so a
// single value is shared by every transform worker without locking.
package taxonomy

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/wikt-scanner/pkg/types"
)

const (
	posFile    = "pos.yaml"
	labelsFile = "labels.yaml"
)

//go:embed defaults/*.yaml
var defaults embed.FS

// PosSchema is the on-disk shape of pos.yaml.
type PosSchema struct {
	Classes         []PosClass        `yaml:"pos_classes"`
	HeadAliases     map[string]string `yaml:"head_aliases"`
	TemplateAliases map[string]string `yaml:"template_aliases"`
}

// PosClass maps heading variants to one canonical tag.
type PosClass struct {
	Code     string   `yaml:"code"`
	Variants []string `yaml:"variants"`
}

// LabelsSchema is the on-disk shape of labels.yaml.
type LabelsSchema struct {
	Register         []string          `yaml:"register"`
	Temporal         []string          `yaml:"temporal"`
	Domain           []string          `yaml:"domain"`
	Region           map[string]string `yaml:"region"`
	Spelling         map[string]string `yaml:"spelling"`
	IgnoredTokens    []string          `yaml:"ignored_tokens"`
	CategoryKeywords []CategoryKeyword `yaml:"category_keywords"`
	SpecialPrefixes  []string          `yaml:"special_page_prefixes"`
	TitleCharset     CharsetSchema     `yaml:"title_charset"`
}

// CategoryKeyword adds Tag to Category when a category assignment's name
// contains Keyword as a whole word sequence.
type CategoryKeyword struct {
	Keyword  string              `yaml:"keyword"`
	Category types.LabelCategory `yaml:"category"`
	Tag      string              `yaml:"tag"`
}

// CharsetSchema is the title allow-list as written in labels.yaml.
type CharsetSchema struct {
	LetterRanges []string `yaml:"letter_ranges"`
	Punctuation  string   `yaml:"punctuation"`
	Forbidden    string   `yaml:"forbidden"`
}

// Label is a vocabulary hit: the category a token belongs to and the tag
// stored for it.
type Label struct {
	Category types.LabelCategory
	Tag      string
}

// Taxonomy is the immutable lookup structure built from the schemas.
type Taxonomy struct {
	pos             map[string]string
	headAliases     map[string]string
	templateAliases map[string]string
	labels          map[string]Label
	spelling        map[string]string
	ignored         map[string]bool
	keywords        []CategoryKeyword
	specialPrefixes []string
	title           *Charset
}

// Default returns the taxonomy built from the embedded schema files.
func Default() (*Taxonomy, error) {
	posData, err := defaults.ReadFile("defaults/" + posFile)
	if err != nil {
		return nil, fmt.Errorf("reading embedded %s: %w", posFile, err)
	}
	labelsData, err := defaults.ReadFile("defaults/" + labelsFile)
	if err != nil {
		return nil, fmt.Errorf("reading embedded %s: %w", labelsFile, err)
	}
	return Parse(posData, labelsData)
}

// Load reads pos.yaml and labels.yaml from dir. A file missing from dir
// falls back to the embedded default.
func Load(dir string) (*Taxonomy, error) {
	if dir == "" {
		return Default()
	}
	posData, err := readOrDefault(dir, posFile)
	if err != nil {
		return nil, err
	}
	labelsData, err := readOrDefault(dir, labelsFile)
	if err != nil {
		return nil, err
	}
	return Parse(posData, labelsData)
}

func readOrDefault(dir, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err == nil {
		return data, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return defaults.ReadFile("defaults/" + name)
}

// Parse builds a Taxonomy from raw pos.yaml and labels.yaml contents.
func Parse(posData, labelsData []byte) (*Taxonomy, error) {
	var ps PosSchema
	if err := yaml.Unmarshal(posData, &ps); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", posFile, err)
	}
	var ls LabelsSchema
	if err := yaml.Unmarshal(labelsData, &ls); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", labelsFile, err)
	}
	return build(ps, ls)
}

func build(ps PosSchema, ls LabelsSchema) (*Taxonomy, error) {
	t := &Taxonomy{
		pos:             make(map[string]string),
		headAliases:     make(map[string]string, len(ps.HeadAliases)),
		templateAliases: make(map[string]string, len(ps.TemplateAliases)),
		labels:          make(map[string]Label),
		spelling:        make(map[string]string, len(ls.Spelling)),
		ignored:         make(map[string]bool, len(ls.IgnoredTokens)),
		specialPrefixes: ls.SpecialPrefixes,
	}

	for _, class := range ps.Classes {
		if class.Code == "" {
			return nil, fmt.Errorf("%s: pos class without code", posFile)
		}
		for _, v := range class.Variants {
			t.pos[Normalize(v)] = class.Code
		}
	}
	for k, v := range ps.HeadAliases {
		t.headAliases[Normalize(k)] = v
	}
	for k, v := range ps.TemplateAliases {
		t.templateAliases[Normalize(k)] = v
	}

	// Earlier categories win when a token is listed twice, matching the
	// register, temporal, domain, region lookup order.
	add := func(token string, l Label) {
		key := Normalize(token)
		if _, dup := t.labels[key]; !dup {
			t.labels[key] = l
		}
	}
	for _, tok := range ls.Register {
		add(tok, Label{Category: types.CategoryRegister, Tag: Normalize(tok)})
	}
	for _, tok := range ls.Temporal {
		add(tok, Label{Category: types.CategoryTemporal, Tag: Normalize(tok)})
	}
	for _, tok := range ls.Domain {
		add(tok, Label{Category: types.CategoryDomain, Tag: Normalize(tok)})
	}
	for _, tok := range sortedKeys(ls.Region) {
		add(tok, Label{Category: types.CategoryRegion, Tag: ls.Region[tok]})
	}
	for k, v := range ls.Spelling {
		t.spelling[Normalize(k)] = v
	}
	for _, tok := range ls.IgnoredTokens {
		t.ignored[Normalize(tok)] = true
	}

	for _, kw := range ls.CategoryKeywords {
		switch kw.Category {
		case types.CategoryRegister, types.CategoryTemporal, types.CategoryDomain, types.CategoryRegion:
		default:
			return nil, fmt.Errorf("%s: keyword %q has unknown category %q", labelsFile, kw.Keyword, kw.Category)
		}
		kw.Keyword = Normalize(kw.Keyword)
		t.keywords = append(t.keywords, kw)
	}

	title, err := NewCharset(ls.TitleCharset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", labelsFile, err)
	}
	t.title = title

	return t, nil
}

// Normalize lowercases s, trims it and collapses internal whitespace runs.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// POS maps a section heading to its canonical tag.
func (t *Taxonomy) POS(heading string) (string, bool) {
	code, ok := t.pos[Normalize(heading)]
	return code, ok
}

// HeadPOS maps the part-of-speech argument of a {{head|lang|X}} template.
func (t *Taxonomy) HeadPOS(arg string) (string, bool) {
	code, ok := t.headAliases[Normalize(arg)]
	return code, ok
}

// TemplatePOS maps the suffix of an {{en-X}} headword template.
func (t *Taxonomy) TemplatePOS(suffix string) (string, bool) {
	code, ok := t.templateAliases[Normalize(suffix)]
	return code, ok
}

// Label looks up one label token.
func (t *Taxonomy) Label(token string) (Label, bool) {
	l, ok := t.labels[Normalize(token)]
	return l, ok
}

// Spelling maps a spelling-variant label ("American spelling") to its locale.
func (t *Taxonomy) Spelling(token string) (string, bool) {
	region, ok := t.spelling[Normalize(token)]
	return region, ok
}

// Ignored reports whether a label token is a connector or qualifier that
// carries no tag.
func (t *Taxonomy) Ignored(token string) bool {
	return t.ignored[Normalize(token)]
}

// CategoryLabels returns the labels implied by a category name (the part
// after "Category:<Language> "). Keywords match whole words only, so
// "usage" never matches "us".
func (t *Taxonomy) CategoryLabels(name string) []Label {
	words := " " + Normalize(name) + " "
	var out []Label
	for _, kw := range t.keywords {
		if strings.Contains(words, " "+kw.Keyword+" ") {
			out = append(out, Label{Category: kw.Category, Tag: kw.Tag})
		}
	}
	return out
}

// IsSpecial reports whether title belongs to a non-entry namespace that is
// stored in namespace 0 anyway, or is a translations subpage.
func (t *Taxonomy) IsSpecial(title string) bool {
	for _, p := range t.specialPrefixes {
		if strings.HasPrefix(title, p) {
			return true
		}
	}
	return strings.HasSuffix(title, "/translations")
}

// Title returns the title allow-list.
func (t *Taxonomy) Title() *Charset {
	return t.title
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
