package policy

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/tokengate/tokengate/internal/core"
)

// Error is a policy document failure attributable to the policy owner,
// as opposed to the caller. Issues describe the individual violations.
type Error struct {
	Message string
	Issues  []string
}

func (e *Error) Error() string {
	if len(e.Issues) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Issues, "; "))
}

// rawPolicy mirrors core.AccessPolicy with loose value types, so schema
// violations surface as collected issues instead of unmarshal errors.
type rawPolicy struct {
	Self       string         `yaml:"self"`
	Statements []rawStatement `yaml:"statements"`
}

type rawStatement struct {
	Principals  []string          `yaml:"principals"`
	Permissions map[string]string `yaml:"permissions"`
}

// Parse validates a raw access policy document fetched from the given
// repository. A schema violation or a self mismatch yields a *Error; the
// caller decides to whom the issues may be disclosed.
func Parse(raw []byte, repo core.Repository) (*core.AccessPolicy, error) {
	var doc rawPolicy
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, &Error{
			Message: "invalid access policy",
			Issues:  []string{err.Error()},
		}
	}

	var issues []string
	if doc.Self == "" {
		issues = append(issues, "self: required")
	}

	statements := make([]core.Statement, 0, len(doc.Statements))
	for i, stmt := range doc.Statements {
		if stmt.Principals == nil {
			issues = append(issues, fmt.Sprintf("statements.%d.principals: required", i))
		}
		permissions := make(core.PermissionMap, len(stmt.Permissions))
		for scope, value := range stmt.Permissions {
			level, ok := core.ParseLevel(value)
			if !ok {
				issues = append(issues, fmt.Sprintf(
					"statements.%d.permissions.%s: invalid level %q, expected 'read', 'write' or 'admin'",
					i, scope, value))
				continue
			}
			permissions[scope] = level
		}
		statements = append(statements, core.Statement{
			Principals:  stmt.Principals,
			Permissions: permissions,
		})
	}

	if len(issues) > 0 {
		return nil, &Error{Message: "invalid access policy", Issues: issues}
	}

	// tamper guard: a policy only speaks for the repository it names
	if !strings.EqualFold(doc.Self, repo.String()) {
		return nil, &Error{
			Message: "invalid access policy",
			Issues:  []string{fmt.Sprintf("policy field 'self' needs to be set to '%s'", repo)},
		}
	}

	return &core.AccessPolicy{
		Self:       doc.Self,
		Statements: statements,
	}, nil
}

// Empty returns the policy equivalent of a missing policy document:
// it names the repository and grants nothing.
func Empty(repo core.Repository) *core.AccessPolicy {
	return &core.AccessPolicy{Self: repo.String()}
}
