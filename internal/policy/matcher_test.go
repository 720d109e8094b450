package policy

import (
	"testing"

	"github.com/tokengate/tokengate/internal/core"
)

func TestMatchesPrincipal(t *testing.T) {
	identity := &core.Identity{
		Subject:    "repo:octo-org/octo-repo:ref:refs/heads/main",
		Repository: "octo-org/octo-repo",
	}

	tests := []struct {
		name    string
		pattern string
		want    bool
	}{
		{
			name:    "Abbreviated Exact",
			pattern: "ref:refs/heads/main",
			want:    true,
		},
		{
			name:    "Abbreviated Wildcard",
			pattern: "ref:refs/heads/*",
			want:    true,
		},
		{
			name:    "Abbreviated Wrong Ref",
			pattern: "ref:refs/heads/dev",
			want:    false,
		},
		{
			name:    "Abbreviated Wrong Ref Type",
			pattern: "environment:prod",
			want:    false,
		},
		{
			name:    "Fully Qualified Exact",
			pattern: "repo:octo-org/octo-repo:ref:refs/heads/main",
			want:    true,
		},
		{
			name:    "Fully Qualified Other Repository",
			pattern: "repo:octo-org/other:ref:refs/heads/main",
			want:    false,
		},
		{
			name:    "Owner Wildcard",
			pattern: "repo:octo-org/*:ref:refs/heads/main",
			want:    true,
		},
		{
			name:    "Wildcard In Ref Type Never Matches",
			pattern: "repo:octo-org/*:*:refs/heads/main",
			want:    false,
		},
		{
			name:    "Full Wildcard Ref Type Never Matches",
			pattern: "repo:octo-org/*:*:*",
			want:    false,
		},
		{
			name:    "Question Mark Matches One Character",
			pattern: "ref:refs/heads/mai?",
			want:    true,
		},
		{
			name:    "Question Mark Too Short",
			pattern: "ref:refs/heads/m?",
			want:    false,
		},
		{
			name:    "Regex Metacharacters Are Literal",
			pattern: "ref:refs/heads/.+",
			want:    false,
		},
		{
			name:    "Case Sensitive",
			pattern: "ref:refs/heads/MAIN",
			want:    false,
		},
		{
			name:    "Malformed Pattern",
			pattern: "repo:incomplete",
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchesPrincipal(tt.pattern, identity); got != tt.want {
				t.Errorf("MatchesPrincipal(%q) = %v, want %v", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestMatchesPrincipalExpandsAgainstOwnRepository(t *testing.T) {
	// the same abbreviated pattern must not leak across repositories
	other := &core.Identity{
		Subject:    "repo:octo-org/other:ref:refs/heads/main",
		Repository: "octo-org/other",
	}
	if MatchesPrincipal("repo:octo-org/octo-repo:ref:refs/heads/*", other) {
		t.Error("fully qualified pattern matched an identity from another repository")
	}
	if !MatchesPrincipal("ref:refs/heads/*", other) {
		t.Error("abbreviated pattern did not expand against the identity's own repository")
	}
}

func TestMatchesSubject(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		subject string
		want    bool
	}{
		{
			name:    "Exact",
			pattern: "repo:octo-org/octo-repo:ref:refs/heads/main",
			subject: "repo:octo-org/octo-repo:ref:refs/heads/main",
			want:    true,
		},
		{
			name:    "Wildcard Owner",
			pattern: "repo:octo-org/*",
			subject: "repo:octo-org/octo-repo:ref:refs/heads/main",
			want:    true,
		},
		{
			name:    "No Expansion For Allow List Patterns",
			pattern: "ref:refs/heads/main",
			subject: "repo:octo-org/octo-repo:ref:refs/heads/main",
			want:    false,
		},
		{
			name:    "Star Requires At Least One Character",
			pattern: "repo:octo-org/octo-repo:ref:refs/heads/main*",
			subject: "repo:octo-org/octo-repo:ref:refs/heads/main",
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchesSubject(tt.pattern, tt.subject); got != tt.want {
				t.Errorf("MatchesSubject(%q, %q) = %v, want %v", tt.pattern, tt.subject, got, tt.want)
			}
		})
	}
}
