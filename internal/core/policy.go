package core

// AccessPolicy is a repository's declarative access policy, owned and
// version-controlled by that repository. Statements are evaluated as a
// union: an identity is granted the aggregate of every matching statement.
type AccessPolicy struct {
	// Self must equal the repository the policy was fetched from.
	// It guards against a policy document being attributed to a
	// different repository than the one that owns it.
	Self string `yaml:"self" json:"self"`

	// Statements is the ordered list of independent grants.
	Statements []Statement `yaml:"statements" json:"statements"`
}

// Statement grants a permission set to every identity matching any of its
// principal patterns.
type Statement struct {
	// Principals are OR-matched patterns, either fully qualified
	// ("repo:<owner>/<name>:<refType>:<refValue>") or abbreviated
	// ("<refType>:<refValue>", implicitly scoped to the calling
	// repository). Only the reference value may contain wildcards.
	Principals []string `yaml:"principals" json:"principals"`

	// Permissions granted to matching identities.
	Permissions PermissionMap `yaml:"permissions" json:"permissions"`
}
