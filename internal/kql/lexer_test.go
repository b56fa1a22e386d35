package kql

import "testing"

func TestLexer(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Token
	}{
		{
			name:  "empty",
			input: "",
			want:  []Token{{Type: TokenEOF, Pos: 0}},
		},
		{
			name:  "whitespace only",
			input: " \t\n ",
			want:  []Token{{Type: TokenEOF, Pos: 4}},
		},
		{
			name:  "bare literal",
			input: "foo",
			want: []Token{
				{Type: TokenLiteral, Pos: 0, Value: "foo"},
				{Type: TokenEOF, Pos: 3},
			},
		},
		{
			name:  "terms query",
			input: "foo:bar",
			want: []Token{
				{Type: TokenLiteral, Pos: 0, Value: "foo"},
				{Type: TokenColon, Pos: 3, Value: ":"},
				{Type: TokenLiteral, Pos: 4, Value: "bar"},
				{Type: TokenEOF, Pos: 7},
			},
		},
		{
			name:  "range operators",
			input: "a > 1 b >= 2 c < 3 d <= 4",
			want: []Token{
				{Type: TokenLiteral, Pos: 0, Value: "a"},
				{Type: TokenGt, Pos: 2, Value: ">"},
				{Type: TokenLiteral, Pos: 4, Value: "1"},
				{Type: TokenLiteral, Pos: 6, Value: "b"},
				{Type: TokenGte, Pos: 8, Value: ">="},
				{Type: TokenLiteral, Pos: 11, Value: "2"},
				{Type: TokenLiteral, Pos: 13, Value: "c"},
				{Type: TokenLt, Pos: 15, Value: "<"},
				{Type: TokenLiteral, Pos: 17, Value: "3"},
				{Type: TokenLiteral, Pos: 19, Value: "d"},
				{Type: TokenLte, Pos: 21, Value: "<="},
				{Type: TokenLiteral, Pos: 24, Value: "4"},
				{Type: TokenEOF, Pos: 25},
			},
		},
		{
			name:  "boolean keywords case insensitive",
			input: "a OR b And not c",
			want: []Token{
				{Type: TokenLiteral, Pos: 0, Value: "a"},
				{Type: TokenOr, Pos: 2, Value: "OR"},
				{Type: TokenLiteral, Pos: 5, Value: "b"},
				{Type: TokenAnd, Pos: 7, Value: "And"},
				{Type: TokenNot, Pos: 11, Value: "not"},
				{Type: TokenLiteral, Pos: 15, Value: "c"},
				{Type: TokenEOF, Pos: 16},
			},
		},
		{
			name:  "keyword prefix is a plain literal",
			input: "android",
			want: []Token{
				{Type: TokenLiteral, Pos: 0, Value: "android"},
				{Type: TokenEOF, Pos: 7},
			},
		},
		{
			name:  "parens",
			input: "foo:(a or b)",
			want: []Token{
				{Type: TokenLiteral, Pos: 0, Value: "foo"},
				{Type: TokenColon, Pos: 3, Value: ":"},
				{Type: TokenLParen, Pos: 4, Value: "("},
				{Type: TokenLiteral, Pos: 5, Value: "a"},
				{Type: TokenOr, Pos: 7, Value: "or"},
				{Type: TokenLiteral, Pos: 10, Value: "b"},
				{Type: TokenRParen, Pos: 11, Value: ")"},
				{Type: TokenEOF, Pos: 12},
			},
		},
		{
			name:  "quoted literal",
			input: `foo:"bar baz"`,
			want: []Token{
				{Type: TokenLiteral, Pos: 0, Value: "foo"},
				{Type: TokenColon, Pos: 3, Value: ":"},
				{Type: TokenQuoted, Pos: 4, Value: "bar baz"},
				{Type: TokenEOF, Pos: 13},
			},
		},
		{
			name:  "quoted literal with escapes",
			input: `"say \"hi\"\\"`,
			want: []Token{
				{Type: TokenQuoted, Pos: 0, Value: `say "hi"\`},
				{Type: TokenEOF, Pos: 14},
			},
		},
		{
			name:  "escaped special in literal is kept raw",
			input: `fo\:o`,
			want: []Token{
				{Type: TokenLiteral, Pos: 0, Value: `fo\:o`},
				{Type: TokenEOF, Pos: 5},
			},
		},
		{
			name:  "unterminated quote",
			input: `"oops`,
			want: []Token{
				{Type: TokenError, Pos: 0, Value: "unterminated quoted literal"},
			},
		},
		{
			name:  "nested field query",
			input: "foo:{bar:baz}",
			want: []Token{
				{Type: TokenLiteral, Pos: 0, Value: "foo"},
				{Type: TokenColon, Pos: 3, Value: ":"},
				{Type: TokenError, Pos: 4, Value: "nested field queries are not supported: '{'"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lex := NewLexer(tt.input)
			for i, want := range tt.want {
				got := lex.NextToken()
				if got != want {
					t.Fatalf("token %d: got %+v, want %+v", i, got, want)
				}
			}
		})
	}
}

func TestTokenTypeString(t *testing.T) {
	if got := TokenGte.String(); got != "'>='" {
		t.Errorf("TokenGte.String() = %q, want %q", got, "'>='")
	}
	if got := TokenEOF.String(); got != "EOF" {
		t.Errorf("TokenEOF.String() = %q, want %q", got, "EOF")
	}
}
