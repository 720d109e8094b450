package identity

import "github.com/tokengate/tokengate/internal/policy"

// SubjectAllowList restricts which verified subjects are accepted at all,
// independent of any repository policy. Patterns use the same wildcard
// matching as policy principals, but without abbreviation expansion since
// there is no owning repository at this boundary.
type SubjectAllowList struct {
	patterns []string
}

func NewSubjectAllowList(patterns []string) *SubjectAllowList {
	return &SubjectAllowList{patterns: patterns}
}

// Allows reports whether the subject passes the allow-list.
// An empty allow-list accepts any verified subject.
func (l *SubjectAllowList) Allows(subject string) bool {
	if len(l.patterns) == 0 {
		return true
	}
	for _, pattern := range l.patterns {
		if policy.MatchesSubject(pattern, subject) {
			return true
		}
	}
	return false
}
