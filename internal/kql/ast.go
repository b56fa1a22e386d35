package kql

// AST nodes produced by the parser. Each node evaluates itself directly
// against a parsed log record.

import (
	"fmt"
	"strings"

	"github.com/tinytelemetry/ecslog/internal/ecs"
	"github.com/valyala/fastjson"
)

// LevelLessFn orders two log level names. Range queries on "log.level" use
// it instead of lexical comparison.
type LevelLessFn func(level1, level2 string) bool

// Node is a query expression that can be matched against a record.
type Node interface {
	fmt.Stringer
	Match(rec *fastjson.Value) bool
}

type andExpr struct {
	left, right Node
}

func (e *andExpr) Match(rec *fastjson.Value) bool {
	return e.left.Match(rec) && e.right.Match(rec)
}

func (e *andExpr) String() string {
	return fmt.Sprintf("(%s and %s)", e.left, e.right)
}

type orExpr struct {
	left, right Node
}

func (e *orExpr) Match(rec *fastjson.Value) bool {
	return e.left.Match(rec) || e.right.Match(rec)
}

func (e *orExpr) String() string {
	return fmt.Sprintf("(%s or %s)", e.left, e.right)
}

type notExpr struct {
	expr Node
}

func (e *notExpr) Match(rec *fastjson.Value) bool {
	return !e.expr.Match(rec)
}

func (e *notExpr) String() string {
	return fmt.Sprintf("not %s", e.expr)
}

// existsQuery implements `field:*`.
type existsQuery struct {
	field string
}

func (q *existsQuery) Match(rec *fastjson.Value) bool {
	return lookupField(rec, q.field) != nil
}

func (q *existsQuery) String() string {
	return q.field + ":*"
}

// termsQuery implements `field:a b`, `field:(a or b)` and, with matchAll,
// `field:(a and b)` which requires every term to match in an array field.
type termsQuery struct {
	field    string
	terms    []*Term
	matchAll bool
}

func (q *termsQuery) Match(rec *fastjson.Value) bool {
	val := lookupField(rec, q.field)
	if val == nil {
		return false
	}

	if q.matchAll {
		if val.Type() != fastjson.TypeArray {
			return false
		}
		elems := val.GetArray()
		for _, t := range q.terms {
			matched := false
			for _, el := range elems {
				if termMatchesValue(t, el) {
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
		}
		return true
	}

	if val.Type() == fastjson.TypeArray {
		for _, el := range val.GetArray() {
			for _, t := range q.terms {
				if termMatchesValue(t, el) {
					return true
				}
			}
		}
		return false
	}

	for _, t := range q.terms {
		if termMatchesValue(t, val) {
			return true
		}
	}
	return false
}

func (q *termsQuery) String() string {
	vals := make([]string, len(q.terms))
	for i, t := range q.terms {
		vals[i] = fmt.Sprintf("%q", t.Val)
	}
	if q.matchAll {
		return fmt.Sprintf("%s:(%s)", q.field, strings.Join(vals, " and "))
	}
	return fmt.Sprintf("%s:%s", q.field, strings.Join(vals, " "))
}

// termMatchesValue compares one term against one scalar JSON value. Objects
// and arrays never match a term.
func termMatchesValue(t *Term, val *fastjson.Value) bool {
	switch val.Type() {
	case fastjson.TypeString:
		return t.MatchString(string(val.GetStringBytes()))
	case fastjson.TypeNumber:
		num, ok := t.NumVal()
		return ok && num == val.GetFloat64()
	case fastjson.TypeTrue:
		b, ok := t.BoolVal()
		return ok && b
	case fastjson.TypeFalse:
		b, ok := t.BoolVal()
		return ok && !b
	case fastjson.TypeNull:
		return t.Val == "null"
	}
	return false
}

// rangeQuery implements `field > term` and friends. Queries on "log.level"
// compare by level ordering rather than by string.
type rangeQuery struct {
	field     string
	op        TokenType // TokenGt, TokenGte, TokenLt or TokenLte
	term      *Term
	levelLess LevelLessFn
}

func (q *rangeQuery) Match(rec *fastjson.Value) bool {
	val := lookupField(rec, q.field)
	if val == nil {
		return false
	}

	if q.levelLess != nil && q.field == "log.level" && val.Type() == fastjson.TypeString {
		level := string(val.GetStringBytes())
		switch q.op {
		case TokenGt:
			return q.levelLess(q.term.text, level)
		case TokenGte:
			return !q.levelLess(level, q.term.text)
		case TokenLt:
			return q.levelLess(level, q.term.text)
		case TokenLte:
			return !q.levelLess(q.term.text, level)
		}
		return false
	}

	switch val.Type() {
	case fastjson.TypeString:
		s := string(val.GetStringBytes())
		switch q.op {
		case TokenGt:
			return s > q.term.text
		case TokenGte:
			return s >= q.term.text
		case TokenLt:
			return s < q.term.text
		case TokenLte:
			return s <= q.term.text
		}
	case fastjson.TypeNumber:
		num, ok := q.term.NumVal()
		if !ok {
			// Comparing a number field against a non-numeric term, e.g.
			// `status > bar` on {"status": 500}.
			return false
		}
		v := val.GetFloat64()
		switch q.op {
		case TokenGt:
			return v > num
		case TokenGte:
			return v >= num
		case TokenLt:
			return v < num
		case TokenLte:
			return v <= num
		}
	}
	// Ranges over null, bool, object and array values never match.
	return false
}

func (q *rangeQuery) String() string {
	return fmt.Sprintf("%s %s %s", q.field, strings.Trim(q.op.String(), "'"), q.term.Val)
}

// defaultFieldsQuery implements bare terms with no field name, e.g.
// `timeout retry`. Every term must match the record's message field.
type defaultFieldsQuery struct {
	terms []*Term
}

func (q *defaultFieldsQuery) Match(rec *fastjson.Value) bool {
	msg := ecs.LookupValue(rec, "message")
	if msg == nil || msg.Type() != fastjson.TypeString {
		return false
	}
	s := string(msg.GetStringBytes())
	for _, t := range q.terms {
		if !t.MatchMessage(s) {
			return false
		}
	}
	return true
}

func (q *defaultFieldsQuery) String() string {
	vals := make([]string, len(q.terms))
	for i, t := range q.terms {
		vals[i] = fmt.Sprintf("%q", t.Val)
	}
	return strings.Join(vals, " ")
}

func lookupField(rec *fastjson.Value, field string) *fastjson.Value {
	return ecs.LookupValue(rec, strings.Split(field, ".")...)
}
