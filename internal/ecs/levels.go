package ecs

import "strings"

// levelWeight is a best-effort ordering of level names in common use by
// logging frameworks that emit ECS format. ECS itself does not mandate level
// names or an ordering. The weights are internal and can change between
// versions.
var levelWeight = map[string]int{
	"trace":   10,
	"debug":   20,
	"info":    30,
	"warn":    40,
	"warning": 40,
	"error":   50,
	"dpanic":  60,
	"panic":   70,
	"fatal":   80,
}

// LevelLess reports whether level1 orders strictly below level2. Level names
// are case-insensitive. An unknown level never compares less: filtering by
// level keeps records whose level we cannot rank.
func LevelLess(level1, level2 string) bool {
	w1, ok := levelWeight[strings.ToLower(level1)]
	if !ok {
		return false
	}
	w2, ok := levelWeight[strings.ToLower(level2)]
	if !ok {
		return false
	}
	return w1 < w2
}
