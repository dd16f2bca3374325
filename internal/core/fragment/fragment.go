// Package fragment builds the listing-blob search pattern for a professor and
// decodes the brace-delimited JSON record the pattern locates
//
// The ratings site renders its professor listing as a JS blob of small objects
// like {"n":"María","a":"Núñez Gómez","c":"8.7","m":"12","i":123}
// with accented characters escaped as \u00XX. A professor is found by matching
// the first name and up to two surname words inside one object, each word in
// five spellings: the escaped form, the escaped form lowercased, and the
// de-accented form as-is, lowercased, and uppercased
package fragment

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"profescore/internal/core/names"
)

// Record is a decoded listing entry for one professor
type Record struct {
	FirstName string  // n
	LastName  string  // a
	Score     float64 // c, as published (unrounded)
	Comments  int     // m
	ID        string  // i, number or string on the wire
}

// FullName joins the record's own first and last name fields
func (r Record) FullName() string { return r.FirstName + " " + r.LastName }

// Outcome is the tagged result of decoding a located fragment
type Outcome struct {
	kind   outcomeKind
	record Record
	reason string
}

type outcomeKind int

const (
	outcomeFound outcomeKind = iota
	outcomeNotFound
	outcomeParseError
)

// Found returns the decoded record when the fragment yielded one
func (o Outcome) Found() (Record, bool) { return o.record, o.kind == outcomeFound }

// ParseError reports a fragment that matched but did not decode, with the reason
func (o Outcome) ParseError() (string, bool) { return o.reason, o.kind == outcomeParseError }

// Reason returns the not-found or parse-error explanation, "" for found
func (o Outcome) Reason() string { return o.reason }

// BuildPattern compiles the listing-blob expression for a first name and a
// surname of one or two words. Empty input is an error; surnames beyond two
// words keep the final two, mirroring the name splitter
func BuildPattern(first, last string) (*regexp.Regexp, error) {
	first = strings.TrimSpace(first)
	words := strings.Fields(last)
	if first == "" || len(words) == 0 {
		return nil, fmt.Errorf("fragment: first and last name are required")
	}
	if len(words) > 2 {
		words = words[len(words)-2:]
	}

	var sb strings.Builder
	sb.WriteString(`\{[^}]*(`)
	sb.WriteString(variants(first))
	sb.WriteString(`)`)
	for _, w := range words {
		sb.WriteString(`[^}]*(`)
		sb.WriteString(variants(w))
		sb.WriteString(`)`)
	}
	sb.WriteString(`.*?\}`)

	re, err := regexp.Compile(sb.String())
	if err != nil {
		return nil, fmt.Errorf("fragment: compile pattern for %q %q: %w", first, last, err)
	}
	return re, nil
}

// variants renders the five accepted spellings of one name word as an alternation
func variants(word string) string {
	esc := quoteEscaped(word)
	stripped := names.StripAccents(word)
	return strings.Join([]string{
		esc,
		strings.ToLower(esc),
		regexp.QuoteMeta(stripped),
		regexp.QuoteMeta(strings.ToLower(stripped)),
		regexp.QuoteMeta(strings.ToUpper(stripped)),
	}, "|")
}

// quoteEscaped regexp-quotes word rune by rune, emitting the literal \u00XX
// escape text for accented characters instead of the quoted character
func quoteEscaped(word string) string {
	var b strings.Builder
	for _, r := range word {
		s := string(r)
		if esc := names.EscapeAccents(s); esc != s {
			b.WriteString(esc)
			continue
		}
		b.WriteString(regexp.QuoteMeta(s))
	}
	return b.String()
}

// Locate returns the first fragment in text matching re, in document order
func Locate(text string, re *regexp.Regexp) (string, bool) {
	m := re.FindString(text)
	if m == "" {
		return "", false
	}
	return m, true
}

// wire mirrors the raw listing object; c, m and i vary between string and
// number across the site's output so they decode loosely
type wire struct {
	N string `json:"n"`
	A string `json:"a"`
	C any    `json:"c"`
	M any    `json:"m"`
	I any    `json:"i"`
}

// ParseRecord decodes a located fragment into a tagged outcome
// Records with a non-positive score or comment count are reported as not
// found: entries nobody has rated carry zeros and are worthless matches
func ParseRecord(frag string) Outcome {
	var w wire
	dec := json.NewDecoder(strings.NewReader(frag))
	dec.UseNumber()
	if err := dec.Decode(&w); err != nil {
		return Outcome{kind: outcomeParseError, reason: err.Error()}
	}

	score, err := toFloat(w.C)
	if err != nil {
		return Outcome{kind: outcomeParseError, reason: "score: " + err.Error()}
	}
	comments, err := toInt(w.M)
	if err != nil {
		return Outcome{kind: outcomeParseError, reason: "comment count: " + err.Error()}
	}
	if score <= 0 || comments <= 0 {
		return Outcome{kind: outcomeNotFound, reason: "unrated entry"}
	}

	return Outcome{kind: outcomeFound, record: Record{
		FirstName: w.N,
		LastName:  w.A,
		Score:     score,
		Comments:  comments,
		ID:        toID(w.I),
	}}
}

func toFloat(v any) (float64, error) {
	switch t := v.(type) {
	case json.Number:
		return t.Float64()
	case string:
		return strconv.ParseFloat(strings.TrimSpace(t), 64)
	case nil:
		return 0, fmt.Errorf("missing")
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}

func toInt(v any) (int, error) {
	f, err := toFloat(v)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// toID renders the listing id as a string whatever its wire type
func toID(v any) string {
	switch t := v.(type) {
	case json.Number:
		return t.String()
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
