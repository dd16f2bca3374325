// Package names splits and normalizes Spanish professor names
// Splitting rules
// 1 first name is the first whitespace token
// 2 last name is the final two tokens joined when two or more follow, else the final token
// Accent handling
// 1 StripAccents drops combining marks after NFD but keeps n-tilde intact
// 2 EscapeAccents rewrites the accented vowels and n-tilde the ratings site
//   escapes inside its listing blob into their literal \u00XX spelling
package names

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// First returns the first whitespace token of name, "" when name is blank
func First(name string) string {
	f := strings.Fields(name)
	if len(f) == 0 {
		return ""
	}
	return f[0]
}

// Last returns the surname portion of name
// two or more tokens yield the final two joined by a space, one token yields itself
func Last(name string) string {
	f := strings.Fields(name)
	switch {
	case len(f) == 0:
		return ""
	case len(f) >= 2:
		return strings.Join(f[len(f)-2:], " ")
	default:
		return f[0]
	}
}

// Split returns the first and last portions of name in one call
func Split(name string) (first, last string) {
	return First(name), Last(name)
}

// StripAccents removes diacritics from s while preserving n-tilde
// the input is decomposed (NFD), combining marks are dropped except a lone
// COMBINING TILDE right after n or N, and the result is recomposed (NFC)
func StripAccents(s string) string {
	if s == "" {
		return ""
	}
	rs := []rune(norm.NFD.String(s))
	var b strings.Builder
	b.Grow(len(rs))
	for i, r := range rs {
		if !unicode.Is(unicode.Mn, r) {
			b.WriteRune(r)
			continue
		}
		// keep the tilde that forms n-tilde: base n/N and no further marks
		if r == 0x0303 && i > 0 && (rs[i-1] == 'n' || rs[i-1] == 'N') &&
			(i+1 >= len(rs) || !unicode.Is(unicode.Mn, rs[i+1])) {
			b.WriteRune(r)
		}
	}
	return norm.NFC.String(b.String())
}

// escapes maps the eleven characters the listing blob escapes to their
// literal backslash-u spelling; the site never escapes capital N-tilde
var escapes = map[rune]string{
	'á': `\\u00e1`,
	'é': `\\u00e9`,
	'í': `\\u00ed`,
	'ó': `\\u00f3`,
	'ú': `\\u00fa`,
	'Á': `\\u00c1`,
	'É': `\\u00c9`,
	'Í': `\\u00cd`,
	'Ó': `\\u00d3`,
	'Ú': `\\u00da`,
	'ñ': `\\u00f1`,
}

// EscapeAccents rewrites accented characters in s to the literal \u00XX text
// the listing blob carries; everything else passes through untouched
func EscapeAccents(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if esc, ok := escapes[r]; ok {
			b.WriteString(esc)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
