package genlog

// Synthetic ecs-logging records for exercising the renderer. The main use is
// producing a single record with an oversized message field: early versions
// of line-oriented log viewers die on lines longer than their scan buffer,
// and this is the fixture that catches that regression.

import (
	"bytes"
	"strconv"

	"github.com/valyala/fastjson"
)

const (
	// DefaultMessageLen is the message length used when no (usable) length
	// argument is given.
	DefaultMessageLen = 1000

	// Timestamp is the fixed @timestamp value of every generated record.
	// Keeping it constant makes generated fixtures reproducible.
	Timestamp = "2021-01-19T22:51:12.142Z"

	// ECSVersion is the fixed ecs.version value of every generated record.
	ECSVersion = "1.5.0"
)

// ParseMessageLen parses a message-length CLI argument. Anything that is not
// a positive integer falls back to DefaultMessageLen. Bad input is never an
// error: the generator always produces a record.
func ParseMessageLen(arg string) int {
	n, err := strconv.Atoi(arg)
	if err != nil || n <= 0 {
		return DefaultMessageLen
	}
	return n
}

// Message builds a string of n period characters with decimal position
// markers overwritten in place. For every multiple of ten i in [10, n) the
// digits of i are written starting at byte offset i-1, but only when
// i+len(digits) < n; markers that would run past the end are skipped rather
// than truncated, so the result is always exactly n bytes.
func Message(n int) string {
	if n <= 0 {
		return ""
	}
	buf := bytes.Repeat([]byte{'.'}, n)
	for i := 10; i < n; i += 10 {
		s := strconv.Itoa(i)
		if i+len(s) < n {
			copy(buf[i-1:], s)
		}
	}
	return string(buf)
}

// Record builds one ecs-logging record with a message of messageLen bytes
// and returns it as a single line of compact JSON (no trailing newline).
// Field order is fixed: log.level, @timestamp, ecs, message.
func Record(messageLen int) string {
	var a fastjson.Arena
	rec := a.NewObject()
	rec.Set("log.level", a.NewString("info"))
	rec.Set("@timestamp", a.NewString(Timestamp))
	ecs := a.NewObject()
	ecs.Set("version", a.NewString(ECSVersion))
	rec.Set("ecs", ecs)
	rec.Set("message", a.NewString(Message(messageLen)))
	return string(rec.MarshalTo(nil))
}
