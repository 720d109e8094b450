package core

import "time"

// DecisionEntry is one audit record for an authorization decision.
type DecisionEntry struct {
	// ID is the unique request ID (X-Correlation-ID)
	ID string `json:"id"`

	// Time is the timestamp of the event
	Time time.Time `json:"time"`

	// Subject identifies who made the request
	Subject string `json:"subject,omitempty"`

	// Repository is the calling repository, TargetRepository the one
	// the token was requested for.
	Repository       string `json:"repository,omitempty"`
	TargetRepository string `json:"target_repository,omitempty"`

	// Decision details
	RequestedPermissions PermissionMap `json:"requested_permissions,omitempty"`
	DeniedPermissions    PermissionMap `json:"denied_permissions,omitempty"`
	Granted              bool          `json:"granted"`
	Error                string        `json:"error,omitempty"`

	// TokenFingerprint identifies the minted token without storing it.
	TokenFingerprint string `json:"token_fingerprint,omitempty"`
}

type Auditor interface {
	Log(entry DecisionEntry) error
	Close() error
}

// TokenMetadata represents the state of an issued token.
// Only metadata is kept, never the token value itself.
type TokenMetadata struct {
	// CorrelationID is the ID of the request that minted the token.
	CorrelationID string `json:"correlation_id"`

	// Subject is the identity the token was issued to.
	Subject string `json:"subject"`

	// Repository the token is scoped to.
	Repository string `json:"repository"`

	// Permissions the token carries.
	Permissions PermissionMap `json:"permissions"`

	// IssuedAt / ExpiresAt bound the token's lifetime. ExpiresAt is
	// used to check whether the token is still "active".
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`

	// Fingerprint of the token value for audit correlation.
	Fingerprint string `json:"fingerprint"`
}
