package render

import (
	"strings"
	"testing"
)

func TestNoColorPainterIsIdentity(t *testing.T) {
	for _, role := range []string{"message", "info", "no-such-role"} {
		if got := NoColorPainter.Paint(role, "hi"); got != "hi" {
			t.Errorf("NoColorPainter.Paint(%q, \"hi\") = %q", role, got)
		}
	}
}

func TestDefaultPainterEmitsANSI(t *testing.T) {
	got := DefaultPainter.Paint("info", "INFO")
	if got == "INFO" {
		t.Fatal("DefaultPainter should style the info role")
	}
	if !strings.HasPrefix(got, "\x1b[") || !strings.HasSuffix(got, "\x1b[0m") {
		t.Errorf("styled text %q is not wrapped in ANSI escapes", got)
	}
	if !strings.Contains(got, "INFO") {
		t.Errorf("styled text %q lost its content", got)
	}
}

func TestPainterUnknownRolePassesThrough(t *testing.T) {
	if got := DefaultPainter.Paint("no-such-role", "x"); got != "x" {
		t.Errorf("unknown role should pass text through, got %q", got)
	}
}

func TestPainterFromName(t *testing.T) {
	for _, name := range []string{"default", "bunyan", "pino-pretty"} {
		if _, err := PainterFromName(name); err != nil {
			t.Errorf("PainterFromName(%q): %s", name, err)
		}
	}

	_, err := PainterFromName("solarized")
	if err == nil {
		t.Fatal("PainterFromName should reject an unknown scheme")
	}
	if !strings.Contains(err.Error(), "bunyan, default, pino-pretty") {
		t.Errorf("error %q should list the known schemes sorted", err)
	}
}
