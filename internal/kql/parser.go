package kql

// Recursive-descent parsing of the KQL subset into a Filter. Precedence,
// lowest to highest: or, and, not.

import (
	"fmt"
	"strings"

	"github.com/valyala/fastjson"
)

// Filter is a compiled KQL query.
//
// Usage:
//
//	filter, err := kql.New("foo:bar and status >= 500", ecs.LevelLess)
//	if err != nil { ... }
//	if filter.Match(rec) { ... }
type Filter struct {
	root Node
}

// New compiles a KQL query. levelLess may be nil to disable the "log.level"
// special case in range queries. An empty query yields a filter that matches
// every record.
func New(query string, levelLess LevelLessFn) (*Filter, error) {
	if strings.TrimSpace(query) == "" {
		return &Filter{}, nil
	}

	p := &parser{
		input:     query,
		lex:       NewLexer(query),
		levelLess: levelLess,
	}
	root, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	switch tok := p.next(); tok.Type {
	case TokenEOF:
		return &Filter{root: root}, nil
	case TokenError:
		return nil, p.errorAt(tok.Pos, "%s", tok.Value)
	case TokenRParen:
		return nil, p.errorAt(tok.Pos, "unmatched close parenthesis")
	default:
		return nil, p.errorAt(tok.Pos, "expected 'and', 'or', or end of query; got %s", tok.Type)
	}
}

// Match reports whether rec matches the filter.
func (f *Filter) Match(rec *fastjson.Value) bool {
	if f == nil || f.root == nil {
		return true
	}
	return f.root.Match(rec)
}

func (f *Filter) String() string {
	if f == nil || f.root == nil {
		return "Filter{}"
	}
	return fmt.Sprintf("Filter{%s}", f.root)
}

type parser struct {
	input     string
	lex       *Lexer
	levelLess LevelLessFn

	pending []Token // lookahead stack, at most two deep
}

func (p *parser) next() Token {
	if n := len(p.pending); n > 0 {
		tok := p.pending[n-1]
		p.pending = p.pending[:n-1]
		return tok
	}
	return p.lex.NextToken()
}

func (p *parser) backup(tok Token) {
	p.pending = append(p.pending, tok)
}

func (p *parser) peek() Token {
	tok := p.next()
	p.backup(tok)
	return tok
}

// errorAt builds a parse error with a caret pointing at pos in the query.
func (p *parser) errorAt(pos int, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s\n    %s\n    %s^", msg, p.input, strings.Repeat(".", pos))
}

func (p *parser) parseExpr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == TokenOr {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &orExpr{left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Node, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == TokenAnd {
		p.next()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &andExpr{left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseNot() (Node, error) {
	if p.peek().Type == TokenNot {
		p.next()
		expr, err := p.parseNot() // not is right-associative
		if err != nil {
			return nil, err
		}
		return &notExpr{expr: expr}, nil
	}
	return p.parsePrimary()
}

// parsePrimary parses a parenthesized group or a single query: a terms
// query, exists query, range query, or bare default-fields terms.
func (p *parser) parsePrimary() (Node, error) {
	tok := p.next()
	switch tok.Type {
	case TokenError:
		return nil, p.errorAt(tok.Pos, "%s", tok.Value)
	case TokenLParen:
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if closeTok := p.next(); closeTok.Type != TokenRParen {
			return nil, p.errorAt(closeTok.Pos, "unclosed open parenthesis")
		}
		return expr, nil
	case TokenLiteral, TokenQuoted:
		return p.parseQuery(tok)
	default:
		return nil, p.errorAt(tok.Pos, "expected a literal, 'not', or '('; got %s", tok.Type)
	}
}

// parseQuery parses a query starting at the given literal token, which is
// either the field name of a terms/exists/range query or the first of the
// bare terms.
func (p *parser) parseQuery(fieldTok Token) (Node, error) {
	switch opTok := p.peek(); opTok.Type {
	case TokenError:
		return nil, p.errorAt(opTok.Pos, "%s", opTok.Value)
	case TokenColon:
		if fieldTok.Type == TokenQuoted {
			return nil, p.errorAt(fieldTok.Pos, "a quoted field name for a terms query is not supported")
		}
		p.next()
		return p.parseTermsQuery(fieldTok)
	case TokenGt, TokenGte, TokenLt, TokenLte:
		if fieldTok.Type == TokenQuoted {
			return nil, p.errorAt(fieldTok.Pos, "a quoted field name for a range query is not supported")
		}
		p.next()
		return p.parseRangeQuery(fieldTok, opTok)
	default:
		return p.parseDefaultFieldsQuery(fieldTok)
	}
}

// parseTermsQuery parses what follows `field:`. E.g. `foo:a b`, `foo:*`,
// `foo:(a or b)`, `foo:(a and b)`, `foo:"bar baz"`.
func (p *parser) parseTermsQuery(fieldTok Token) (Node, error) {
	switch tok := p.peek(); tok.Type {
	case TokenError:
		return nil, p.errorAt(tok.Pos, "%s", tok.Value)
	case TokenLiteral, TokenQuoted:
		var terms []*Term
		exists := false
	loop:
		for {
			tok := p.next()
			switch tok.Type {
			case TokenLiteral:
				switch after := p.peek(); after.Type {
				case TokenColon, TokenGt, TokenGte, TokenLt, TokenLte:
					// The literal is the field name of the next query,
					// not one of our terms.
					if len(terms) > 0 {
						p.backup(tok)
						break loop
					}
				}
				if tok.Value == "*" {
					exists = true
				}
				terms = append(terms, NewTerm(tok.Value))
			case TokenQuoted:
				terms = append(terms, NewQuotedTerm(tok.Value))
			default:
				p.backup(tok)
				break loop
			}
		}
		if exists {
			return &existsQuery{field: fieldTok.Value}, nil
		}
		return &termsQuery{field: fieldTok.Value, terms: terms}, nil
	case TokenLParen:
		p.next()
		return p.parseTermGroup(fieldTok)
	default:
		return nil, p.errorAt(tok.Pos, "expected a literal or '('; got %s", tok.Type)
	}
}

// parseTermGroup parses `field:(a or b ...)` or `field:(a and b ...)`. The
// open paren is already consumed. Operators inside a group must not be mixed.
func (p *parser) parseTermGroup(fieldTok Token) (Node, error) {
	var terms []*Term
	matchAll := false
	for i := 0; ; i++ {
		termTok := p.next()
		switch termTok.Type {
		case TokenLiteral:
			terms = append(terms, NewTerm(termTok.Value))
		case TokenQuoted:
			terms = append(terms, NewQuotedTerm(termTok.Value))
		default:
			return nil, p.errorAt(termTok.Pos, "expected a literal, got %s", termTok.Type)
		}

		opTok := p.next()
		switch opTok.Type {
		case TokenRParen:
			return &termsQuery{field: fieldTok.Value, terms: terms, matchAll: matchAll}, nil
		case TokenOr:
			if i == 0 {
				matchAll = false
			} else if matchAll {
				return nil, p.errorAt(opTok.Pos, "cannot mix 'and' and 'or' in a parenthesized value group")
			}
		case TokenAnd:
			if i == 0 {
				matchAll = true
			} else if !matchAll {
				return nil, p.errorAt(opTok.Pos, "cannot mix 'and' and 'or' in a parenthesized value group")
			}
		default:
			return nil, p.errorAt(opTok.Pos, "expected ')', 'or', or 'and'; got %s", opTok.Type)
		}
	}
}

// parseRangeQuery parses `field > term` and friends; opTok holds the
// operator, already consumed.
func (p *parser) parseRangeQuery(fieldTok, opTok Token) (Node, error) {
	valTok := p.next()
	var term *Term
	switch valTok.Type {
	case TokenError:
		return nil, p.errorAt(valTok.Pos, "%s", valTok.Value)
	case TokenLiteral:
		term = NewTerm(valTok.Value)
	case TokenQuoted:
		term = NewQuotedTerm(valTok.Value)
	default:
		return nil, p.errorAt(valTok.Pos, "expected a literal after %s; got %s", opTok.Type, valTok.Type)
	}
	if term.Wildcard {
		return nil, p.errorAt(valTok.Pos, "cannot use a wildcard in a range query")
	}
	return &rangeQuery{
		field:     fieldTok.Value,
		op:        opTok.Type,
		term:      term,
		levelLess: p.levelLess,
	}, nil
}

// parseDefaultFieldsQuery gathers consecutive bare terms, e.g. `foo bar`. A
// literal followed by ':' or a range operator starts a new field query and is
// left for the caller.
func (p *parser) parseDefaultFieldsQuery(firstTok Token) (Node, error) {
	var terms []*Term
	tok := firstTok
	for {
		if tok.Type == TokenLiteral {
			switch after := p.peek(); after.Type {
			case TokenColon, TokenGt, TokenGte, TokenLt, TokenLte:
				if len(terms) == 0 {
					// Unreachable: parseQuery handles the first token.
					return nil, p.errorAt(tok.Pos, "unexpected field query")
				}
				p.backup(tok)
				return &defaultFieldsQuery{terms: terms}, nil
			}
			terms = append(terms, NewTerm(tok.Value))
		} else if tok.Type == TokenQuoted {
			terms = append(terms, NewQuotedTerm(tok.Value))
		} else {
			p.backup(tok)
			break
		}
		tok = p.next()
	}
	return &defaultFieldsQuery{terms: terms}, nil
}
