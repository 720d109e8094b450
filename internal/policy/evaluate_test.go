package policy

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tokengate/tokengate/internal/core"
)

var testIdentity = &core.Identity{
	Subject:    "repo:octo-org/octo-repo:ref:refs/heads/main",
	Repository: "octo-org/octo-repo",
}

func TestParse(t *testing.T) {
	repo := core.Repository{Owner: "octo-org", Name: "octo-repo"}

	tests := []struct {
		name       string
		raw        string
		wantErr    bool
		wantIssues int
	}{
		{
			name: "Valid YAML",
			raw: `
self: octo-org/octo-repo
statements:
  - principals: ["ref:refs/heads/main"]
    permissions:
      contents: read
      actions_variables: read
`,
		},
		{
			name: "Valid JSON",
			raw:  `{"self": "octo-org/octo-repo", "statements": [{"principals": ["ref:refs/heads/*"], "permissions": {"contents": "write"}}]}`,
		},
		{
			name: "Self Mismatch Is Case Insensitive",
			raw:  "self: OCTO-ORG/Octo-Repo\nstatements: []\n",
		},
		{
			name:       "Self Mismatch Rejected",
			raw:        "self: octo-org/other\nstatements: []\n",
			wantErr:    true,
			wantIssues: 1,
		},
		{
			name:       "Missing Self",
			raw:        "statements: []\n",
			wantErr:    true,
			wantIssues: 1,
		},
		{
			name: "Invalid Permission Level",
			raw: `
self: octo-org/octo-repo
statements:
  - principals: ["ref:refs/heads/main"]
    permissions:
      contents: owner
`,
			wantErr:    true,
			wantIssues: 1,
		},
		{
			name:       "Not YAML At All",
			raw:        "self: [unclosed\n",
			wantErr:    true,
			wantIssues: 1,
		},
		{
			name: "Multiple Issues Collected",
			raw: `
statements:
  - permissions:
      contents: owner
`,
			wantErr:    true,
			wantIssues: 3, // missing self, missing principals, bad level
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.raw), repo)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var policyErr *Error
				if !errors.As(err, &policyErr) {
					t.Fatalf("Parse() error type = %T, want *policy.Error", err)
				}
				if len(policyErr.Issues) != tt.wantIssues {
					t.Errorf("Parse() issues = %v, want %d issues", policyErr.Issues, tt.wantIssues)
				}
				return
			}
			if got == nil {
				t.Fatal("Parse() returned nil policy without error")
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name       string
		statements []core.Statement
		want       core.PermissionMap
	}{
		{
			name: "Single Matching Statement",
			statements: []core.Statement{
				{
					Principals:  []string{"ref:refs/heads/main"},
					Permissions: core.PermissionMap{"contents": core.LevelRead},
				},
			},
			want: core.PermissionMap{"contents": core.LevelRead},
		},
		{
			name: "No Matching Statement",
			statements: []core.Statement{
				{
					Principals:  []string{"ref:refs/heads/dev"},
					Permissions: core.PermissionMap{"contents": core.LevelAdmin},
				},
			},
			want: core.PermissionMap{},
		},
		{
			name: "Any Principal In Statement Suffices",
			statements: []core.Statement{
				{
					Principals:  []string{"environment:prod", "ref:refs/heads/main"},
					Permissions: core.PermissionMap{"contents": core.LevelRead},
				},
			},
			want: core.PermissionMap{"contents": core.LevelRead},
		},
		{
			// statements are independent grants: a broader pattern does
			// not cap a narrower one, the most permissive level wins
			name: "Broad Statement Does Not Cap Narrow One",
			statements: []core.Statement{
				{
					Principals:  []string{"ref:refs/heads/main"},
					Permissions: core.PermissionMap{"contents": core.LevelWrite},
				},
				{
					Principals:  []string{"ref:refs/heads/*"},
					Permissions: core.PermissionMap{"contents": core.LevelRead},
				},
			},
			want: core.PermissionMap{"contents": core.LevelWrite},
		},
		{
			name: "Scopes Union Across Statements",
			statements: []core.Statement{
				{
					Principals:  []string{"ref:refs/heads/*"},
					Permissions: core.PermissionMap{"contents": core.LevelRead},
				},
				{
					Principals:  []string{"ref:refs/heads/main"},
					Permissions: core.PermissionMap{"actions_variables": core.LevelRead},
				},
			},
			want: core.PermissionMap{
				"contents":          core.LevelRead,
				"actions_variables": core.LevelRead,
			},
		},
		{
			name:       "Empty Policy Grants Nothing",
			statements: nil,
			want:       core.PermissionMap{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accessPolicy := &core.AccessPolicy{
				Self:       testIdentity.Repository,
				Statements: tt.statements,
			}
			got := Evaluate(accessPolicy, testIdentity)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Evaluate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEvaluateIsIdempotent(t *testing.T) {
	accessPolicy := &core.AccessPolicy{
		Self: testIdentity.Repository,
		Statements: []core.Statement{
			{
				Principals:  []string{"ref:refs/heads/*"},
				Permissions: core.PermissionMap{"contents": core.LevelRead},
			},
		},
	}

	first := Evaluate(accessPolicy, testIdentity)
	second := Evaluate(accessPolicy, testIdentity)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Evaluate() not idempotent (-first +second):\n%s", diff)
	}
}
