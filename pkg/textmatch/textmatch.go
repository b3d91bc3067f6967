// Package textmatch provides case- and accent-insensitive matching for free-text search.
package textmatch

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases s and strips combining marks, so "Čtvrtek" folds to "ctvrtek".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		result = s
	}
	return strings.ToLower(result)
}

// Tokenize splits a query on whitespace, dropping empty tokens.
func Tokenize(query string) []string {
	return strings.Fields(query)
}

// ContainsFold reports whether needle occurs in haystack, ignoring case and accents.
func ContainsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(Fold(haystack), Fold(needle))
}

// Matcher tests documents against a set of tokens with AND semantics:
// every token must occur in at least one field.
type Matcher struct {
	tokens []string
}

// NewMatcher folds tokens once for repeated matching.
func NewMatcher(tokens []string) *Matcher {
	folded := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok = strings.TrimSpace(tok); tok != "" {
			folded = append(folded, Fold(tok))
		}
	}
	return &Matcher{tokens: folded}
}

// Empty reports whether the matcher has no tokens.
func (m *Matcher) Empty() bool { return len(m.tokens) == 0 }

// Match reports whether every token is a substring of some field.
func (m *Matcher) Match(fields ...string) bool {
	if m.Empty() {
		return false
	}
	folded := make([]string, len(fields))
	for i, f := range fields {
		folded[i] = Fold(f)
	}
	for _, tok := range m.tokens {
		found := false
		for _, f := range folded {
			if strings.Contains(f, tok) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// accented lists the diacritic variants of base letters found in Czech,
// Slovak and neighbouring Latin alphabets.
var accented = map[rune]string{
	'a': "áàâäãåą",
	'c': "čćç",
	'd': "ď",
	'e': "éěèêëę",
	'i': "íìîï",
	'l': "ĺľ",
	'n': "ňńñ",
	'o': "óòôöõő",
	'r': "řŕ",
	's': "šśş",
	't': "ť",
	'u': "úůùûüű",
	'y': "ýÿ",
	'z': "žźż",
}

// RegexPattern returns a regular expression matching tok literally, ignoring
// diacritics, for stores that evaluate regexes server-side. Combine it with a
// case-insensitive flag: "cerveny" and "červený" both match "Červený".
func RegexPattern(tok string) string {
	var b strings.Builder
	for _, r := range Fold(strings.TrimSpace(tok)) {
		variants, ok := accented[r]
		if !ok {
			b.WriteString(regexp.QuoteMeta(string(r)))
			continue
		}
		b.WriteByte('[')
		b.WriteRune(r)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(variants)
		b.WriteString(strings.ToUpper(variants))
		b.WriteByte(']')
	}
	return b.String()
}
