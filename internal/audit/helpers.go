package audit

import (
	"fmt"

	"github.com/tokengate/tokengate/internal/buildinfo"
)

// CreateUserAgent tags outbound GitHub API calls with the request that
// caused them, so upstream audit logs can be correlated with ours.
func CreateUserAgent(correlationID string) string {
	return fmt.Sprintf("Tokengate/%s (correlation_id=%s)", buildinfo.Version, correlationID)
}
