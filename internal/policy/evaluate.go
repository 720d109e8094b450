package policy

import (
	"github.com/tokengate/tokengate/internal/core"
)

// Evaluate derives the permission set a policy grants to an identity:
// the aggregate of every statement with at least one matching principal.
// Statements are independent grants, so the most permissive level wins per
// scope; a broad statement never caps a narrower one. An identity matching
// no statement gets an empty map.
func Evaluate(accessPolicy *core.AccessPolicy, identity *core.Identity) core.PermissionMap {
	var granted []core.PermissionMap
	for _, statement := range accessPolicy.Statements {
		if StatementMatches(statement, identity) {
			granted = append(granted, statement.Permissions)
		}
	}
	return core.Aggregate(granted)
}
