package ecs

import (
	"testing"

	"github.com/valyala/fastjson"
)

func TestLookupValue(t *testing.T) {
	tests := []struct {
		name string
		json string
		path []string
		want string // "" means not found
	}{
		{"nested", `{"log": {"level": "info"}}`, []string{"log", "level"}, `"info"`},
		{"dotted", `{"log.level": "info"}`, []string{"log", "level"}, `"info"`},
		{"plain key", `{"message": "hi"}`, []string{"message"}, `"hi"`},
		{"three deep nested", `{"a": {"b": {"c": 42}}}`, []string{"a", "b", "c"}, `42`},
		{"three deep dotted", `{"a.b.c": 42}`, []string{"a", "b", "c"}, `42`},
		{"mixed dotting", `{"a.b": {"c": 42}}`, []string{"a", "b", "c"}, `42`},
		{"mixed dotting tail", `{"a": {"b.c": 42}}`, []string{"a", "b", "c"}, `42`},
		{"missing", `{"log": {"level": "info"}}`, []string{"log", "logger"}, ""},
		{"non-object step", `{"log": "flat"}`, []string{"log", "level"}, ""},
		{"empty object", `{}`, []string{"log", "level"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := fastjson.MustParse(tt.json)
			val := LookupValue(rec, tt.path...)
			if tt.want == "" {
				if val != nil {
					t.Errorf("LookupValue(%s, %v) = %s, want nil", tt.json, tt.path, val)
				}
				return
			}
			if val == nil {
				t.Fatalf("LookupValue(%s, %v) = nil, want %s", tt.json, tt.path, tt.want)
			}
			if got := val.String(); got != tt.want {
				t.Errorf("LookupValue(%s, %v) = %s, want %s", tt.json, tt.path, got, tt.want)
			}
		})
	}
}

func TestLookupValueNil(t *testing.T) {
	if got := LookupValue(nil, "a"); got != nil {
		t.Errorf("LookupValue(nil) = %v, want nil", got)
	}
}

func TestExtractValue(t *testing.T) {
	tests := []struct {
		name  string
		json  string
		path  []string
		want  string
		after string // record JSON after extraction
	}{
		{
			"dotted",
			`{"log.level":"info","message":"hi"}`,
			[]string{"log", "level"},
			`"info"`,
			`{"message":"hi"}`,
		},
		{
			"nested prunes empty parent",
			`{"ecs":{"version":"1.5.0"},"message":"hi"}`,
			[]string{"ecs", "version"},
			`"1.5.0"`,
			`{"message":"hi"}`,
		},
		{
			"nested keeps non-empty parent",
			`{"log":{"level":"info","logger":"main"}}`,
			[]string{"log", "level"},
			`"info"`,
			`{"log":{"logger":"main"}}`,
		},
		{
			"missing leaves record alone",
			`{"message":"hi"}`,
			[]string{"log", "level"},
			"",
			`{"message":"hi"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := fastjson.MustParse(tt.json)
			val := ExtractValue(rec, tt.path...)
			if tt.want == "" {
				if val != nil {
					t.Errorf("ExtractValue = %s, want nil", val)
				}
			} else if val == nil || val.String() != tt.want {
				t.Errorf("ExtractValue = %v, want %s", val, tt.want)
			}
			if got := rec.String(); got != tt.after {
				t.Errorf("record after extraction = %s, want %s", got, tt.after)
			}
		})
	}
}

func TestValidRecord(t *testing.T) {
	tests := []struct {
		name      string
		json      string
		wantLevel string
		wantOK    bool
	}{
		{
			"complete dotted",
			`{"log.level":"info","@timestamp":"2021-01-19T22:51:12.142Z","ecs":{"version":"1.5.0"},"message":"hi"}`,
			"info", true,
		},
		{
			"complete nested",
			`{"log":{"level":"warn"},"@timestamp":"2021-01-19T22:51:12.142Z","ecs.version":"1.5.0","message":"hi"}`,
			"warn", true,
		},
		{"empty object", `{}`, "", false},
		{"missing timestamp", `{"log.level":"info","ecs":{"version":"1.5.0"},"message":"hi"}`, "", false},
		{"missing message", `{"log.level":"info","@timestamp":"t","ecs":{"version":"1.5.0"}}`, "", false},
		{"missing level", `{"@timestamp":"t","ecs":{"version":"1.5.0"},"message":"hi"}`, "", false},
		{"non-string level", `{"log.level":30,"@timestamp":"t","ecs":{"version":"1.5.0"},"message":"hi"}`, "", false},
		{"non-string version", `{"log.level":"info","@timestamp":"t","ecs":{"version":1.5},"message":"hi"}`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, ok := ValidRecord(fastjson.MustParse(tt.json))
			if ok != tt.wantOK || level != tt.wantLevel {
				t.Errorf("ValidRecord(%s) = (%q, %v), want (%q, %v)",
					tt.json, level, ok, tt.wantLevel, tt.wantOK)
			}
		})
	}
}

func TestLevelLess(t *testing.T) {
	tests := []struct {
		l1, l2 string
		want   bool
	}{
		{"trace", "debug", true},
		{"debug", "info", true},
		{"info", "warn", true},
		{"warn", "error", true},
		{"error", "fatal", true},
		{"fatal", "trace", false},
		{"info", "info", false},
		{"warning", "warn", false},
		{"warning", "error", true},
		{"INFO", "Warn", true},
		// Unknown levels never compare less, in either position.
		{"bogus", "error", false},
		{"error", "bogus", false},
	}

	for _, tt := range tests {
		if got := LevelLess(tt.l1, tt.l2); got != tt.want {
			t.Errorf("LevelLess(%q, %q) = %v, want %v", tt.l1, tt.l2, got, tt.want)
		}
	}
}
