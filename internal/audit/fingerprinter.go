package audit

import (
	"crypto/sha256"
	"encoding/base64"
)

// Fingerprint derives a stable identifier for a token value so audit
// records can reference a token without ever storing it.
func Fingerprint(token string) string {
	hash := sha256.Sum256([]byte(token))
	return base64.StdEncoding.EncodeToString(hash[:])
}
