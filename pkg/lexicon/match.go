package lexicon

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases s and strips diacritics so that "Dämpfer" and "dampfer"
// compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// ContainsTerm reports whether term occurs in text on word boundaries.
// Both arguments must already be folded.
func ContainsTerm(text, term string) bool {
	if term == "" {
		return false
	}
	for offset := 0; offset < len(text); {
		idx := strings.Index(text[offset:], term)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(term)
		if boundaryBefore(text, start, term) && boundaryAfter(text, end, term) {
			return true
		}
		offset = start + 1
	}
	return false
}

func boundaryBefore(text string, start int, term string) bool {
	if start == 0 || !isWordByte(term[0]) {
		return true
	}
	return !isWordByte(text[start-1])
}

func boundaryAfter(text string, end int, term string) bool {
	if end >= len(text) || !isWordByte(term[len(term)-1]) {
		return true
	}
	return !isWordByte(text[end])
}

// isWordByte treats ASCII letters, digits and any multi-byte rune as word
// characters. Folded text keeps umlaut-free ASCII for most terms.
func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b >= 0x80
}

// Matcher finds lexicon terms in free text.
type Matcher struct {
	terms []string
	// inWords is set when terms may also match inside compound words.
	inWords bool
	// whole lists the terms that still need word boundaries.
	whole map[string]struct{}
}

// NewMatcher folds terms once and orders them longest first, so that
// "laufradsatz" wins over "laufrad" when reporting the matched term.
func NewMatcher(terms []string) *Matcher {
	folded := make([]string, 0, len(terms))
	seen := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		f := Fold(strings.TrimSpace(t))
		if f == "" {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		folded = append(folded, f)
	}
	sort.SliceStable(folded, func(i, j int) bool {
		return len(folded[i]) > len(folded[j])
	})
	return &Matcher{terms: folded}
}

// NewCompoundMatcher is like NewMatcher but matches terms anywhere in the
// text, so "rahmen" finds "Carbonrahmen". Terms listed in whole are short
// enough to occur inside unrelated words and keep word boundaries.
func NewCompoundMatcher(terms, whole []string) *Matcher {
	m := NewMatcher(terms)
	m.inWords = true
	m.whole = make(map[string]struct{}, len(whole))
	for _, w := range whole {
		m.whole[Fold(strings.TrimSpace(w))] = struct{}{}
	}
	return m
}

func (m *Matcher) contains(folded, term string) bool {
	if !m.inWords {
		return ContainsTerm(folded, term)
	}
	if _, ok := m.whole[term]; ok {
		return ContainsTerm(folded, term)
	}
	return strings.Contains(folded, term)
}

// Match returns the first term found in text.
func (m *Matcher) Match(text string) (string, bool) {
	return m.MatchFolded(Fold(text))
}

// MatchFolded is Match for text that is already folded.
func (m *Matcher) MatchFolded(folded string) (string, bool) {
	for _, t := range m.terms {
		if m.contains(folded, t) {
			return t, true
		}
	}
	return "", false
}

// Count returns how many distinct terms occur in text.
func (m *Matcher) Count(text string) int {
	folded := Fold(text)
	n := 0
	for _, t := range m.terms {
		if m.contains(folded, t) {
			n++
		}
	}
	return n
}

// Resolver maps free text to a canonical key of a Table.
type Resolver struct {
	aliases []alias
}

type alias struct {
	term      string
	canonical string
}

// NewResolver builds a resolver that prefers the longest alias.
func NewResolver(t Table) *Resolver {
	r := &Resolver{}
	for _, canonical := range SortedKeys(t) {
		for _, a := range t[canonical] {
			r.aliases = append(r.aliases, alias{term: Fold(a), canonical: canonical})
		}
	}
	sort.SliceStable(r.aliases, func(i, j int) bool {
		return len(r.aliases[i].term) > len(r.aliases[j].term)
	})
	return r
}

// Resolve returns the canonical key and the alias matched in text.
func (r *Resolver) Resolve(text string) (canonical, matched string, ok bool) {
	folded := Fold(text)
	for _, a := range r.aliases {
		if ContainsTerm(folded, a.term) {
			return a.canonical, a.term, true
		}
	}
	return "", "", false
}
