package tasks

import (
	"context"
	"fmt"

	"github.com/tokengate/tokengate/internal/logging"
)

// TokenCleanupTaskName is how the expired-token sweep is addressed in the
// admin API and the CLI.
const TokenCleanupTaskName = "token_cleanup"

// ExpiredDeleter is the slice of the token store the cleanup task needs.
type ExpiredDeleter interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// NewTokenCleanupTask sweeps expired token metadata out of the inventory.
// Expired entries are harmless (the tokens themselves expired upstream long
// ago), this just keeps the inventory from growing without bound.
func NewTokenCleanupTask(store ExpiredDeleter) TaskFunc {
	return func(ctx context.Context, logger logging.InternalLogger) error {
		deleted, err := store.DeleteExpired(ctx)
		if err != nil {
			return fmt.Errorf("deleting expired token metadata: %w", err)
		}
		logger.Info("removed %d expired token metadata entries", deleted)
		return nil
	}
}
