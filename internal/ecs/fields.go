package ecs

// Field access helpers for ecs-logging records. ECS allows a field like
// "log.level" to be stored dotted:
//
//	{"log.level": "info"}
//
// or nested:
//
//	{"log": {"level": "info"}}
//
// or any mix of the two, so a plain key lookup is not enough.

import (
	"strings"

	"github.com/valyala/fastjson"
)

// LookupValue returns the value at the given field path, trying every
// dotted/nested split of the path. When a record holds conflicting paths
// (e.g. both "log.level" and a nested log object with a level key) the
// result is unspecified: one of them wins.
func LookupValue(obj *fastjson.Value, path ...string) *fastjson.Value {
	if obj == nil {
		return nil
	}
	if len(path) == 0 {
		return obj
	}

	o := obj.GetObject()
	if o == nil {
		return nil
	}

	if len(path) == 1 {
		return o.Get(path[0])
	}

	// Given path ["a", "b", "c"], try obj["a"] with ["b", "c"], then
	// obj["a.b"] with ["c"], then obj["a.b.c"].
	for i := 1; i <= len(path); i++ {
		key := strings.Join(path[:i], ".")
		if val := LookupValue(o.Get(key), path[i:]...); val != nil {
			return val
		}
	}
	return nil
}

// ExtractValueOfType is ExtractValue restricted to values of the given type.
// A value of any other type is left in place and nil is returned.
func ExtractValueOfType(obj *fastjson.Value, typ fastjson.Type, path ...string) *fastjson.Value {
	if val := LookupValue(obj, path...); val == nil || val.Type() != typ {
		return nil
	}
	return ExtractValue(obj, path...)
}

// ExtractValue is LookupValue plus removal: the found property is deleted
// from the record, and any sub-object left empty by the deletion is deleted
// as well. The top-level object itself is never removed.
func ExtractValue(obj *fastjson.Value, path ...string) *fastjson.Value {
	if obj == nil {
		return nil
	}
	if len(path) == 0 {
		return obj
	}

	o := obj.GetObject()
	if o == nil {
		return nil
	}

	if len(path) == 1 {
		val := o.Get(path[0])
		if val != nil {
			o.Del(path[0])
		}
		return val
	}

	for i := 1; i <= len(path); i++ {
		key := strings.Join(path[:i], ".")
		sub := o.Get(key)
		val := ExtractValue(sub, path[i:]...)
		if val == nil {
			continue
		}
		if i == len(path) {
			// The whole remaining path was a single dotted property of o.
			o.Del(key)
		} else if sub.GetObject().Len() == 0 {
			o.Del(key)
		}
		return val
	}
	return nil
}
