package policy

import (
	"regexp"
	"strings"

	"github.com/tokengate/tokengate/internal/core"
)

// WildcardRegexp compiles a wildcard pattern into an anchored regular
// expression: '*' matches one or more of any character, '?' exactly one,
// everything else is matched literally.
func WildcardRegexp(pattern string) (*regexp.Regexp, error) {
	quoted := regexp.QuoteMeta(pattern)
	quoted = strings.ReplaceAll(quoted, `\*`, `.+`)
	quoted = strings.ReplaceAll(quoted, `\?`, `.`)
	return regexp.Compile("^" + quoted + "$")
}

// MatchesPrincipal reports whether a principal pattern matches the identity's
// subject. Abbreviated patterns (anything not starting with "repo:") are
// expanded with the identity's own repository first, so a repository's policy
// can write short patterns implicitly scoped to itself:
//
//	pattern:  ref:refs/heads/*
//	expanded: repo:<identity.repository>:ref:refs/heads/*
//	subject:  repo:octo-org/octo-repo:ref:refs/heads/main
//
// A wildcard in the reference-type segment never matches: allowing it would
// let a pattern like "repo:org/*:*:*" collapse the ref/environment/tag
// distinction far more broadly than intended.
func MatchesPrincipal(pattern string, identity *core.Identity) bool {
	if !strings.HasPrefix(pattern, "repo:") {
		pattern = "repo:" + identity.Repository + ":" + pattern
	}

	ref, err := core.ParseSubjectRef(pattern)
	if err != nil {
		return false
	}
	if strings.Contains(ref.RefType, "*") {
		return false
	}

	return MatchesSubject(pattern, identity.Subject)
}

// MatchesSubject matches a wildcard pattern against a subject string without
// any abbreviation expansion. The subject allow-list uses this form, since
// there is no owning repository to expand against.
func MatchesSubject(pattern, subject string) bool {
	re, err := WildcardRegexp(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(subject)
}

// StatementMatches reports whether any of the statement's principal patterns
// matches the identity.
func StatementMatches(statement core.Statement, identity *core.Identity) bool {
	for _, pattern := range statement.Principals {
		if MatchesPrincipal(pattern, identity) {
			return true
		}
	}
	return false
}
