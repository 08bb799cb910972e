package domain

import (
	"strings"
	"unicode"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
)

// LocaleMatcher holds the target-country signals shared by every provider's
// locale check. It is safe for concurrent use.
type LocaleMatcher struct {
	code    string
	names   []string
	matcher ahocorasick.AhoCorasick
}

// NewLocaleMatcher builds a matcher for an ISO 3166-1 alpha-2 code and a list
// of country name aliases, e.g. "IN" and ["India", "Bharat"].
func NewLocaleMatcher(code string, names []string) *LocaleMatcher {
	m := &LocaleMatcher{code: strings.ToUpper(strings.TrimSpace(code))}
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			m.names = append(m.names, strings.ToLower(n))
		}
	}
	if len(m.names) > 0 {
		builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
			AsciiCaseInsensitive: true,
			MatchOnlyWholeWords:  true,
		})
		m.matcher = builder.Build(m.names)
	}
	return m
}

// Code returns the upper-case target country code.
func (m *LocaleMatcher) Code() string {
	return m.code
}

// MatchesCode reports whether a structured country code or country name
// field names the target country.
func (m *LocaleMatcher) MatchesCode(code string) bool {
	code = strings.TrimSpace(code)
	if code == "" {
		return false
	}
	if m.code != "" && strings.EqualFold(code, m.code) {
		return true
	}
	lower := strings.ToLower(code)
	for _, n := range m.names {
		if lower == n {
			return true
		}
	}
	return false
}

// Mentions reports whether any of the texts names the target country as a
// whole word.
func (m *LocaleMatcher) Mentions(texts ...string) bool {
	if len(m.names) == 0 {
		return false
	}
	for _, t := range texts {
		if t == "" {
			continue
		}
		if len(m.matcher.FindAll(wordsOnly(t))) > 0 {
			return true
		}
	}
	return false
}

// wordsOnly lower-cases s and turns punctuation into spaces so the whole-word
// matcher sees "Karnataka, India." as separate words.
func wordsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
}
