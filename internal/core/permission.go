package core

import "strings"

// Level is a GitHub App permission level for a single permission scope.
// Levels are ordered: read < write < admin. The zero value represents
// "not granted" and is weaker than any concrete level.
type Level string

const (
	LevelRead  Level = "read"
	LevelWrite Level = "write"
	LevelAdmin Level = "admin"
)

// PermissionMap maps a permission scope (e.g. "contents", "actions_variables")
// to a Level. A scope that is absent from the map is not granted; absence
// never implies a default level.
type PermissionMap map[string]Level

// levelRank orders the known permission levels.
// Unknown levels rank below read, same as an absent level.
var levelRank = map[Level]int{
	LevelRead:  1,
	LevelWrite: 2,
	LevelAdmin: 3,
}

func rank(l Level) int {
	return levelRank[l] // 0 for absent or unknown levels
}

// ParseLevel normalizes a raw permission level string.
// It returns false for anything outside the read/write/admin enumeration.
func ParseLevel(s string) (Level, bool) {
	l := Level(strings.ToLower(s))
	_, ok := levelRank[l]
	return l, ok
}

// Compare orders two permission levels and returns -1, 0 or +1.
// An absent level (zero value) on either side is handled explicitly:
// it is weaker than any concrete level, so Compare("", read) < 0 and
// Compare(read, "") > 0. Two absent levels are equal.
func Compare(a, b Level) int {
	ra, rb := rank(a), rank(b)
	switch {
	case ra < rb:
		return -1
	case ra > rb:
		return +1
	default:
		return 0
	}
}

// IsGranted reports whether a requested level is covered by a granted level,
// i.e. the requested level is at or below the granted one.
func IsGranted(requested, granted Level) bool {
	return Compare(requested, granted) <= 0
}

// DenyList returns the subset of requested permissions that are not covered
// by the granted permissions, or nil if every requested scope is granted.
// Scopes absent from requested are never consulted, so granted may contain
// extra scopes without affecting the result.
func DenyList(requested, granted PermissionMap) PermissionMap {
	denied := make(PermissionMap)
	for scope, level := range requested {
		if !IsGranted(level, granted[scope]) {
			denied[scope] = level
		}
	}
	if len(denied) == 0 {
		return nil
	}
	return denied
}

// Aggregate merges permission maps by taking, for every scope mentioned in
// any map, the most permissive level across all maps. Statements in an access
// policy are independent grants, so a broader statement never caps a narrower
// one; the requested-vs-granted check is the authorization boundary instead.
func Aggregate(maps []PermissionMap) PermissionMap {
	result := make(PermissionMap)
	for _, m := range maps {
		for scope, level := range m {
			if Compare(result[scope], level) < 0 {
				result[scope] = level
			}
		}
	}
	return result
}
