package service

import "github.com/tokengate/tokengate/internal/core"

type AccessRequest struct {
	// TargetRepository the token should be scoped to.
	// If empty, the identity's own repository is used.
	TargetRepository string

	// Permissions requested for the token. Must be non-empty.
	Permissions core.PermissionMap
}
