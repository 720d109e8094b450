package core

import (
	"context"
	"time"
)

// Verifier validates a raw identity assertion (bearer token) and returns the
// verified Identity. Implementations: OIDC verifier for GitHub Actions
// tokens, static verifier for tests.
type Verifier interface {
	// Verify takes a raw token string, validates it, and returns the Identity.
	Verify(ctx context.Context, token string) (*Identity, error)
}

// AppInfo describes the credential-issuing GitHub App itself.
// It is fetched once per process and immutable thereafter.
type AppInfo struct {
	Name string `json:"name"`
	// HTMLURL is the app's public page, used as an installation hint
	// in denial messages.
	HTMLURL string `json:"html_url"`
}

// Installation is the app's installation record for a repository. Its
// permission map is the ceiling of what any token issued through that
// installation may ever contain.
type Installation struct {
	ID          int64         `json:"id"`
	Permissions PermissionMap `json:"permissions"`
}

// AccessToken is a minted installation access token descriptor.
type AccessToken struct {
	Token        string        `json:"token"`
	ExpiresAt    time.Time     `json:"expires_at"`
	Repositories []string      `json:"repositories"`
	Permissions  PermissionMap `json:"permissions"`
}

// AppGateway is the narrow interface to the upstream GitHub App API.
// Every call is a fresh read; the gateway holds no per-request state.
type AppGateway interface {
	// AppInfo returns the app identity (cached from process startup).
	AppInfo() AppInfo

	// FindInstallation looks up the app installation for a repository.
	// It returns (nil, nil) if the app is not installed there.
	FindInstallation(ctx context.Context, repo Repository) (*Installation, error)

	// FetchAccessPolicy reads the repository's access policy document
	// through a credential scoped to policy-file reads on that single
	// repository. It returns found == false if no policy document
	// exists, which is not an error.
	FetchAccessPolicy(ctx context.Context, installation *Installation, repo Repository) (raw []byte, found bool, err error)

	// MintAccessToken issues an installation token restricted to exactly
	// the given repository and permissions. Both must be non-empty;
	// empty sets would widen the token to everything the installation
	// holds and are rejected.
	MintAccessToken(ctx context.Context, installation *Installation, repo Repository, permissions PermissionMap) (*AccessToken, error)
}
