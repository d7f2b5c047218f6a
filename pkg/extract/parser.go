package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/donaldgifford/bike-hunter/pkg/lexicon"
	domain "github.com/donaldgifford/bike-hunter/pkg/types"
)

var (
	labeledYearRe = regexp.MustCompile(`(?i)(?:modelljahr|baujahr|jahr|year|my)\s*[:\-]?\s*((?:19|20)\d{2})`)
	bareYearRe    = regexp.MustCompile(`\b((?:19|20)\d{2})\b`)

	comboSizeRe  = regexp.MustCompile(`(?i)\b(XXL|XL|L|M|S|XS)\s*[/-]\s*(XXL|XL|L|M|S|XS)\b`)
	letterSizeRe = regexp.MustCompile(`(?i)(?:rahmengr(?:ö|oe|o)(?:ß|ss)e|rahmen|frame\s*size|gr(?:ö|oe|o)(?:ß|ss)e|gr\.|size)\s*[:\-]?\s*(XXL|XL|L|M|S|XS)\b`)
	cmSizeRe     = regexp.MustCompile(`(?i)\b(\d{2,3}(?:[.,]\d)?)\s*cm\b`)
	inchSizeRe   = regexp.MustCompile(`(?i)(?:rahmen|frame|gr(?:ö|oe|o)(?:ß|ss)e|size)\s*[:\-]?\s*(\d{2}(?:[.,]5)?)\s*(?:"|''|zoll|inch)`)

	mulletRe = regexp.MustCompile(`(?i)\bmullet\b|\bmx\b|29\s*/\s*27[.,]5`)
	wheel29  = regexp.MustCompile(`(?i)\b29(?:er\b|"|''|\s*zoll|\s*inch|\b)`)
	wheel275 = regexp.MustCompile(`(?i)\b27[.,]5\b|\b650\s*b\b`)
	wheel26  = regexp.MustCompile(`(?i)\b26(?:er\b|"|''|\s*zoll)`)
	wheel700 = regexp.MustCompile(`(?i)\b700\s*c\b|\b28(?:"|''|\s*zoll)`)
)

// genericModelWords are dropped from the title when deriving a model.
var genericModelWords = []string{
	"fahrrad", "bike", "mountainbike", "downhillbike", "enduro bike", "mtb",
	"fully", "hardtail", "rennrad", "verkaufe", "verkauf", "top zustand", "neuwertig",
}

// sizeFactKeys are detail-list keys that carry the frame size.
var sizeFactKeys = []string{"Rahmengröße", "Rahmenhöhe", "Größe"}

// Parser is the deterministic half of the dual-source extraction. It only
// looks at text, never at images.
type Parser struct {
	lex       *lexicon.Lexicon
	brands    *lexicon.Resolver
	materials *lexicon.Resolver
	generic   *lexicon.Matcher
	nowFunc   func() time.Time
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithParserNowFunc overrides the clock used to bound plausible years.
func WithParserNowFunc(fn func() time.Time) ParserOption {
	return func(p *Parser) {
		p.nowFunc = fn
	}
}

// NewParser creates a Parser over lex.
func NewParser(lex *lexicon.Lexicon, opts ...ParserOption) *Parser {
	materials := make(lexicon.Table, len(lex.Materials))
	for m, words := range lex.Materials {
		materials[string(m)] = words
	}

	p := &Parser{
		lex:       lex,
		brands:    lexicon.NewResolver(lex.Brands),
		materials: lexicon.NewResolver(materials),
		generic:   lexicon.NewMatcher(genericModelWords),
		nowFunc:   time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse extracts a ParsedRecord from a listing. Title and a positive price
// are carried over as-is; everything else is best effort.
func (p *Parser) Parse(l *domain.RawListing) domain.ParsedRecord {
	rec := domain.ParsedRecord{Title: l.Title}
	if l.Price > 0 {
		price := l.Price
		rec.Price = &price
	}

	text := l.Title + "\n" + l.Description

	if brand, alias, ok := p.brands.Resolve(l.Title); ok {
		rec.Brand = brand
		rec.Model = p.model(l.Title, alias)
	} else if brand, _, ok := p.brands.Resolve(l.Description); ok {
		// Without the brand in the title there is no reliable model.
		rec.Brand = brand
	}

	// Bare numbers in descriptions are often prices or purchase dates.
	rec.Year = p.Year(l.Title)
	if rec.Year == nil {
		rec.Year = p.labeledYear(l.Description)
	}
	rec.FrameMaterial = p.Material(text)
	rec.FrameSize = p.frameSize(l)
	rec.WheelSize = WheelSize(text)
	rec.Category = p.Category(l.Title + "\n" + factValues(l.Facts))
	return rec
}

// Material returns the normalized frame material mentioned in text.
func (p *Parser) Material(text string) string {
	m, _, ok := p.materials.Resolve(text)
	if !ok {
		return ""
	}
	return m
}

// Category returns the first category whose keywords occur in text.
func (p *Parser) Category(text string) domain.Category {
	folded := lexicon.Fold(text)
	for _, c := range p.lex.CategoryOrder {
		for _, kw := range p.lex.Categories[c] {
			if lexicon.ContainsTerm(folded, lexicon.Fold(kw)) {
				return c
			}
		}
	}
	return ""
}

// Year returns a plausible model year from text. Labeled years win over
// bare four-digit numbers.
func (p *Parser) Year(text string) *int {
	if y := p.labeledYear(text); y != nil {
		return y
	}
	for _, m := range bareYearRe.FindAllStringSubmatch(text, -1) {
		if y := p.plausibleYear(m[1]); y != nil {
			return y
		}
	}
	return nil
}

func (p *Parser) labeledYear(text string) *int {
	for _, m := range labeledYearRe.FindAllStringSubmatch(text, -1) {
		if y := p.plausibleYear(m[1]); y != nil {
			return y
		}
	}
	return nil
}

func (p *Parser) plausibleYear(s string) *int {
	y, err := strconv.Atoi(s)
	if err != nil || y < 1990 || y > p.nowFunc().Year()+1 {
		return nil
	}
	return &y
}

func (p *Parser) model(title, brandAlias string) string {
	words := strings.Fields(removeFolded(title, brandAlias))
	kept := words[:0]
	for _, w := range words {
		trimmed := strings.Trim(w, ",;:!()|-–")
		if trimmed == "" {
			continue
		}
		if _, generic := p.generic.Match(trimmed); generic {
			continue
		}
		kept = append(kept, trimmed)
	}
	return strings.Join(kept, " ")
}

// removeFolded drops the words of title that together spell alias.
func removeFolded(title, alias string) string {
	aliasWords := strings.Fields(alias)
	words := strings.Fields(title)
	for i := 0; i+len(aliasWords) <= len(words); i++ {
		match := true
		for j, aw := range aliasWords {
			if strings.Trim(lexicon.Fold(words[i+j]), ",;:!()|-–") != aw {
				match = false
				break
			}
		}
		if match {
			return strings.Join(append(append([]string{}, words[:i]...), words[i+len(aliasWords):]...), " ")
		}
	}
	return title
}

func (p *Parser) frameSize(l *domain.RawListing) string {
	for _, k := range sizeFactKeys {
		if v, ok := l.Facts[k]; ok {
			if s := FrameSize(v); s != "" {
				return s
			}
			return strings.TrimSpace(v)
		}
	}
	if s := FrameSize(l.Title); s != "" {
		return s
	}
	return FrameSize(l.Description)
}

// FrameSize finds a frame size in text. Letter sizes are upper-cased,
// combined sizes keep their slash and numeric sizes carry their unit.
func FrameSize(text string) string {
	if m := comboSizeRe.FindStringSubmatch(text); m != nil {
		return strings.ToUpper(m[1]) + "/" + strings.ToUpper(m[2])
	}
	if m := letterSizeRe.FindStringSubmatch(text); m != nil {
		return strings.ToUpper(m[1])
	}
	if m := cmSizeRe.FindStringSubmatch(text); m != nil {
		v := strings.Replace(m[1], ",", ".", 1)
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 40 && f <= 70 {
			return v + "cm"
		}
	}
	if m := inchSizeRe.FindStringSubmatch(text); m != nil {
		return strings.Replace(m[1], ",", ".", 1) + `"`
	}
	if s := strings.ToUpper(strings.TrimSpace(text)); isLetterSize(s) {
		return s
	}
	return ""
}

func isLetterSize(s string) bool {
	switch s {
	case "XXS", "XS", "S", "M", "L", "XL", "XXL":
		return true
	}
	return false
}

// WheelSize returns the wheel size mentioned in text.
func WheelSize(text string) string {
	switch {
	case mulletRe.MatchString(text):
		return "mullet"
	case wheel29.MatchString(text):
		return "29"
	case wheel275.MatchString(text):
		return "27.5"
	case wheel26.MatchString(text):
		return "26"
	case wheel700.MatchString(text):
		return "700c"
	}
	return ""
}

func factValues(facts map[string]string) string {
	vals := make([]string, 0, len(facts))
	for _, k := range lexicon.SortedKeys(facts) {
		vals = append(vals, facts[k])
	}
	return strings.Join(vals, " ")
}
