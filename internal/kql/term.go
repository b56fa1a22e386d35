package kql

import (
	"strconv"
	"strings"
)

// Term is one comparison value in a parsed query. In
// "user:bob anne and status >= 500 and audit:true" the terms are "bob",
// "anne", "500" and "true".
//
// A filter is typically matched against many records, so the numeric and
// boolean readings of a term are computed once and cached.
type Term struct {
	Val      string // raw text as written in the query
	Wildcard bool   // Val contains an unescaped '*'

	text     string   // unescaped text (wildcards joined back with '*')
	segments []string // unescaped text split on unescaped '*'

	numParsed bool
	numOK     bool
	numVal    float64

	boolParsed bool
	boolOK     bool
	boolVal    bool
}

func (t *Term) String() string {
	return t.Val
}

// NewTerm builds a Term from an unquoted literal token. Backslash escapes
// are resolved and unescaped '*' runes become wildcard boundaries.
func NewTerm(raw string) *Term {
	var segs []string
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '\\':
			if i+1 < len(raw) {
				i++
				b.WriteByte(raw[i])
			}
		case '*':
			segs = append(segs, b.String())
			b.Reset()
		default:
			b.WriteByte(raw[i])
		}
	}
	segs = append(segs, b.String())

	return &Term{
		Val:      raw,
		Wildcard: len(segs) > 1,
		text:     strings.Join(segs, "*"),
		segments: segs,
	}
}

// NewQuotedTerm builds a Term from a quoted literal. Quoting suppresses both
// keywords and wildcards, so the content is taken verbatim.
func NewQuotedTerm(content string) *Term {
	return &Term{
		Val:      content,
		text:     content,
		segments: []string{content},
	}
}

// MatchString reports whether the term matches the whole string s,
// honouring wildcards.
func (t *Term) MatchString(s string) bool {
	if !t.Wildcard {
		return s == t.text
	}

	segs := t.segments
	if !strings.HasPrefix(s, segs[0]) {
		return false
	}
	s = s[len(segs[0]):]
	for _, seg := range segs[1 : len(segs)-1] {
		idx := strings.Index(s, seg)
		if idx < 0 {
			return false
		}
		s = s[idx+len(seg):]
	}
	return strings.HasSuffix(s, segs[len(segs)-1])
}

// MatchMessage reports whether the term matches free text. Plain terms do a
// case-insensitive substring search; wildcard terms must match the whole
// text.
func (t *Term) MatchMessage(s string) bool {
	if t.Wildcard {
		return t.MatchString(s)
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(t.text))
}

// NumVal returns the numeric reading of the term, if it has one.
func (t *Term) NumVal() (float64, bool) {
	if !t.numParsed {
		t.numParsed = true
		if f, err := strconv.ParseFloat(t.text, 64); err == nil {
			t.numOK = true
			t.numVal = f
		}
	}
	return t.numVal, t.numOK
}

// BoolVal returns the boolean reading of the term, if it has one.
func (t *Term) BoolVal() (bool, bool) {
	if !t.boolParsed {
		t.boolParsed = true
		switch t.text {
		case "true":
			t.boolOK = true
			t.boolVal = true
		case "false":
			t.boolOK = true
		}
	}
	return t.boolVal, t.boolOK
}
