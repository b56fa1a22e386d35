package logsource

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func collectLines(t *testing.T, src Source, want int) []string {
	t.Helper()
	var lines []string
	timeout := time.After(2 * time.Second)
	for {
		select {
		case env, ok := <-src.Lines():
			if !ok {
				if len(lines) != want {
					t.Fatalf("got %d lines before close, want %d: %q", len(lines), want, lines)
				}
				return lines
			}
			lines = append(lines, env.Line)
		case <-timeout:
			t.Fatalf("timed out after %d of %d lines", len(lines), want)
		}
	}
}

func TestStdinSourceDeliversLines(t *testing.T) {
	// Empty lines are delivered too; blank lines in the input should
	// survive to the rendered output.
	in := strings.NewReader("one\ntwo\n\nthree")
	src := newStdinSourceWithReader(context.Background(), in)
	defer src.Stop()

	lines := collectLines(t, src, 4)
	want := []string{"one", "two", "", "three"}
	for i, l := range want {
		if lines[i] != l {
			t.Errorf("line %d = %q, want %q", i, lines[i], l)
		}
	}
	if err := src.Err(); err != nil {
		t.Errorf("Err() = %v, want nil", err)
	}
	if src.Name() != "stdin" {
		t.Errorf("Name() = %q, want %q", src.Name(), "stdin")
	}
}

func TestStdinSourceLongLine(t *testing.T) {
	// Far beyond any fixed scanner buffer.
	long := strings.Repeat("x", 256*1024)
	src := newStdinSourceWithReader(context.Background(), strings.NewReader(long+"\n"))
	defer src.Stop()

	lines := collectLines(t, src, 1)
	if lines[0] != long {
		t.Fatalf("long line was truncated: got %d bytes, want %d", len(lines[0]), len(long))
	}
}

func TestStdinSourceStopClosesLines(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	defer func() { _ = w.Close() }()

	src := newStdinSourceWithReader(context.Background(), r)
	src.Stop()

	select {
	case _, ok := <-src.Lines():
		if ok {
			t.Fatal("expected lines channel to be closed after Stop")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for lines channel to close")
	}
}

func TestStdinSourceStopIsIdempotent(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	defer func() { _ = w.Close() }()

	src := newStdinSourceWithReader(context.Background(), r)
	src.Stop()
	src.Stop()
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	if err := os.WriteFile(path, []byte("a\nb\nc\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	src, err := NewFileSource(context.Background(), path)
	if err != nil {
		t.Fatalf("NewFileSource: %v", err)
	}
	defer src.Stop()

	lines := collectLines(t, src, 3)
	if lines[0] != "a" || lines[2] != "c" {
		t.Errorf("unexpected lines: %q", lines)
	}
	if src.Name() != path {
		t.Errorf("Name() = %q, want %q", src.Name(), path)
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	_, err := NewFileSource(context.Background(), filepath.Join(t.TempDir(), "nope.log"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
