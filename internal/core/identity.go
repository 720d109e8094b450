package core

import (
	"fmt"
	"strings"
)

// Identity is the verified assertion about the calling workflow run.
// It is produced once per request by a Verifier and never mutated.
type Identity struct {
	// Subject is the structured identity string,
	// e.g. "repo:octo-org/octo-repo:ref:refs/heads/main".
	Subject string `mapstructure:"sub" json:"sub"`

	// Repository is the owner/name of the calling repository.
	Repository string `mapstructure:"repository" json:"repository"`

	// RepositoryOwner is the owner part of Repository.
	RepositoryOwner string `mapstructure:"repository_owner" json:"repository_owner"`

	// Contextual claims, carried through for logging and auditing
	// but never interpreted by the decision logic.
	Ref         string `mapstructure:"ref" json:"ref"`
	RefType     string `mapstructure:"ref_type" json:"ref_type"`
	Actor       string `mapstructure:"actor" json:"actor"`
	Workflow    string `mapstructure:"workflow" json:"workflow"`
	WorkflowRef string `mapstructure:"workflow_ref" json:"workflow_ref"`
	RunID       string `mapstructure:"run_id" json:"run_id"`
	RunAttempt  string `mapstructure:"run_attempt" json:"run_attempt"`
	EventName   string `mapstructure:"event_name" json:"event_name"`

	// Claims holds the full raw claim set as received from the verifier.
	Claims map[string]any `mapstructure:"-" json:"-"`
}

// Repository is an owner/name pair.
type Repository struct {
	Owner string
	Name  string
}

// ParseRepository splits an "owner/name" string into its parts.
func ParseRepository(s string) (Repository, error) {
	owner, name, ok := strings.Cut(s, "/")
	if !ok || owner == "" || name == "" {
		return Repository{}, fmt.Errorf("invalid repository %q, expected 'owner/name'", s)
	}
	return Repository{Owner: owner, Name: name}, nil
}

func (r Repository) String() string {
	return r.Owner + "/" + r.Name
}

// SubjectRef is the parsed form of a fully qualified subject or principal
// pattern string "repo:<owner>/<name>:<refType>:<refValue>". Pattern matching
// operates on this typed form so that segment-level rules (such as the
// reference-type wildcard restriction) do not depend on raw string indexing.
type SubjectRef struct {
	Repository string
	RefType    string
	RefValue   string
}

// ParseSubjectRef parses a fully qualified subject string. The reference
// value may itself contain colons (e.g. "refs/heads/a:b"); everything after
// the third segment belongs to it.
func ParseSubjectRef(s string) (SubjectRef, error) {
	parts := strings.SplitN(s, ":", 4)
	if len(parts) < 4 || parts[0] != "repo" {
		return SubjectRef{}, fmt.Errorf("invalid subject %q, expected 'repo:<owner>/<name>:<refType>:<refValue>'", s)
	}
	return SubjectRef{
		Repository: parts[1],
		RefType:    parts[2],
		RefValue:   parts[3],
	}, nil
}

func (s SubjectRef) String() string {
	return "repo:" + s.Repository + ":" + s.RefType + ":" + s.RefValue
}
