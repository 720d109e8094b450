package core

import "context"

// TokenStore keeps an inventory of issued tokens for the admin surface.
// It never influences authorization decisions.
type TokenStore interface {
	// Save records a newly minted token
	Save(ctx context.Context, meta TokenMetadata) error

	// ListActive returns tokens that have not expired yet
	ListActive(ctx context.Context) ([]TokenMetadata, error)
}
