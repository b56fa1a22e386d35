package kql

// Tokenizing of the KQL subset used for log record filtering.
// https://www.elastic.co/guide/en/kibana/current/kuery-query.html

import (
	"fmt"
	"strings"
	"unicode"
)

// TokenType identifies a lexical token in a KQL query.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenError
	TokenLiteral // unquoted literal
	TokenQuoted  // "quoted literal", value holds the unescaped content
	TokenOr
	TokenAnd
	TokenNot
	TokenLParen
	TokenRParen
	TokenColon
	TokenGt
	TokenGte
	TokenLt
	TokenLte
)

var tokenTypeNames = map[TokenType]string{
	TokenEOF:     "EOF",
	TokenError:   "error",
	TokenLiteral: "unquoted literal",
	TokenQuoted:  "quoted literal",
	TokenOr:      "'or'",
	TokenAnd:     "'and'",
	TokenNot:     "'not'",
	TokenLParen:  "'('",
	TokenRParen:  "')'",
	TokenColon:   "':'",
	TokenGt:      "'>'",
	TokenGte:     "'>='",
	TokenLt:      "'<'",
	TokenLte:     "'<='",
}

func (tt TokenType) String() string {
	if name, ok := tokenTypeNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("token%d", int(tt))
}

// Token is a single lexical token. Pos is the byte offset of the token in
// the query string, used for error context.
type Token struct {
	Type  TokenType
	Pos   int
	Value string
}

// Lexer tokenizes a KQL query string.
type Lexer struct {
	input string
	pos   int
}

// NewLexer creates a Lexer for the given query string.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// NextToken returns the next token. After TokenEOF it keeps returning
// TokenEOF.
func (l *Lexer) NextToken() Token {
	l.skipSpace()
	start := l.pos

	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Pos: start}
	}

	switch ch := l.input[l.pos]; ch {
	case '(':
		l.pos++
		return Token{Type: TokenLParen, Pos: start, Value: "("}
	case ')':
		l.pos++
		return Token{Type: TokenRParen, Pos: start, Value: ")"}
	case ':':
		l.pos++
		return Token{Type: TokenColon, Pos: start, Value: ":"}
	case '<':
		l.pos++
		if l.pos < len(l.input) && l.input[l.pos] == '=' {
			l.pos++
			return Token{Type: TokenLte, Pos: start, Value: "<="}
		}
		return Token{Type: TokenLt, Pos: start, Value: "<"}
	case '>':
		l.pos++
		if l.pos < len(l.input) && l.input[l.pos] == '=' {
			l.pos++
			return Token{Type: TokenGte, Pos: start, Value: ">="}
		}
		return Token{Type: TokenGt, Pos: start, Value: ">"}
	case '"':
		return l.readQuoted()
	case '{', '}':
		l.pos = len(l.input)
		return Token{Type: TokenError, Pos: start,
			Value: fmt.Sprintf("nested field queries are not supported: %q", ch)}
	}

	return l.readLiteral()
}

func (l *Lexer) skipSpace() {
	for l.pos < len(l.input) && unicode.IsSpace(rune(l.input[l.pos])) {
		l.pos++
	}
}

// readQuoted scans a double-quoted literal and returns its unescaped
// content. A backslash escapes the following character.
func (l *Lexer) readQuoted() Token {
	start := l.pos
	l.pos++ // opening quote
	var b strings.Builder
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		switch ch {
		case '"':
			l.pos++
			return Token{Type: TokenQuoted, Pos: start, Value: b.String()}
		case '\\':
			l.pos++
			if l.pos >= len(l.input) {
				return Token{Type: TokenError, Pos: start, Value: "unterminated character escape"}
			}
			b.WriteByte(l.input[l.pos])
			l.pos++
		default:
			b.WriteByte(ch)
			l.pos++
		}
	}
	return Token{Type: TokenError, Pos: start, Value: "unterminated quoted literal"}
}

// readLiteral scans an unquoted literal or one of the keywords "and", "or",
// "not" (case-insensitive). Backslashes escape the following character and
// are kept raw in the token value; Term handles unescaping.
func (l *Lexer) readLiteral() Token {
	start := l.pos
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if unicode.IsSpace(rune(ch)) || isDelimiter(ch) {
			break
		}
		if ch == '\\' {
			if l.pos+1 >= len(l.input) {
				l.pos = len(l.input)
				return Token{Type: TokenError, Pos: start, Value: "unterminated character escape"}
			}
			l.pos += 2
			continue
		}
		l.pos++
	}

	val := l.input[start:l.pos]
	// Keywords are at most three characters, so longer literals skip the
	// lowercasing entirely.
	if len(val) <= 3 {
		switch strings.ToLower(val) {
		case "or":
			return Token{Type: TokenOr, Pos: start, Value: val}
		case "and":
			return Token{Type: TokenAnd, Pos: start, Value: val}
		case "not":
			return Token{Type: TokenNot, Pos: start, Value: val}
		}
	}
	return Token{Type: TokenLiteral, Pos: start, Value: val}
}

// From the KQL grammar's special characters; '*' stays part of a literal so
// wildcards work, and '\\' is handled by the caller.
func isDelimiter(ch byte) bool {
	switch ch {
	case '(', ')', ':', '<', '>', '"', '{', '}':
		return true
	}
	return false
}
