package ecs

import "github.com/valyala/fastjson"

// ValidRecord reports whether rec carries the fields required by the
// ecs-logging spec: @timestamp, message, ecs.version, and log.level, all
// strings. On success it also returns the record's log.level so callers need
// not look it up again.
func ValidRecord(rec *fastjson.Value) (logLevel string, ok bool) {
	if rec.GetStringBytes("@timestamp") == nil {
		return "", false
	}
	if rec.GetStringBytes("message") == nil {
		return "", false
	}

	version := LookupValue(rec, "ecs", "version")
	if version == nil || version.Type() != fastjson.TypeString {
		return "", false
	}

	level := LookupValue(rec, "log", "level")
	if level == nil || level.Type() != fastjson.TypeString {
		return "", false
	}
	return string(level.GetStringBytes()), true
}
