package identity

import "fmt"

// VerifyErrorKind classifies why an identity assertion was rejected.
// The kind is logged server-side only; callers receive a uniform 401
// so the response does not act as a verification oracle.
type VerifyErrorKind string

const (
	KindMalformed        VerifyErrorKind = "malformed"
	KindInvalidSignature VerifyErrorKind = "invalid-signature"
	KindExpired          VerifyErrorKind = "expired"
	KindIssuerMismatch   VerifyErrorKind = "issuer-mismatch"
	KindAudienceMismatch VerifyErrorKind = "audience-mismatch"
)

type VerifyError struct {
	Kind VerifyErrorKind
	Err  error
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *VerifyError) Unwrap() error {
	return e.Err
}

func verifyError(kind VerifyErrorKind, err error) *VerifyError {
	return &VerifyError{Kind: kind, Err: err}
}
