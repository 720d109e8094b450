package identity

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	"github.com/mitchellh/mapstructure"

	"github.com/tokengate/tokengate/internal/config"
	"github.com/tokengate/tokengate/internal/core"
)

var _ core.Verifier = (*OIDCVerifier)(nil)

// OIDCVerifier validates identity assertions against an OIDC issuer,
// by default the GitHub Actions token issuer. The provider's key material
// is fetched once at construction and refreshed by go-oidc internally.
type OIDCVerifier struct {
	issuerURL string
	audience  string
	verifier  *oidc.IDTokenVerifier
}

func NewOIDCVerifier(ctx context.Context, cfg config.VerifierConfig) (*OIDCVerifier, error) {
	issuerURL := cfg.IssuerURL
	if issuerURL == "" {
		issuerURL = config.DefaultIssuerURL
	}

	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("creating oidc provider for issuer '%s': %w", issuerURL, err)
	}

	verifier := provider.Verifier(&oidc.Config{
		ClientID: cfg.Audience,
	})

	return &OIDCVerifier{
		issuerURL: issuerURL,
		audience:  cfg.Audience,
		verifier:  verifier,
	}, nil
}

func (v *OIDCVerifier) Verify(ctx context.Context, token string) (*core.Identity, error) {
	// classify the obvious claim failures before the signature check,
	// so the logged reason is precise
	if err := precheckClaims(token, v.issuerURL, v.audience, time.Now()); err != nil {
		return nil, err
	}

	idToken, err := v.verifier.Verify(ctx, token)
	if err != nil {
		var expiredErr *oidc.TokenExpiredError
		if errors.As(err, &expiredErr) {
			return nil, verifyError(KindExpired, err)
		}
		return nil, verifyError(KindInvalidSignature, err)
	}

	var claims map[string]any
	if err := idToken.Claims(&claims); err != nil {
		return nil, verifyError(KindMalformed, fmt.Errorf("extracting claims: %w", err))
	}

	return decodeIdentity(claims)
}

// precheckClaims parses the token without verifying its signature and checks
// the registered claims, returning a classified *VerifyError on the first
// violation. A token passing the precheck still has to survive the full
// signature verification.
func precheckClaims(token, wantIssuer, wantAudience string, now time.Time) error {
	parser := jwt.NewParser()
	parsed, _, err := parser.ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return verifyError(KindMalformed, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return verifyError(KindMalformed, fmt.Errorf("unexpected claims type %T", parsed.Claims))
	}

	issuer, err := claims.GetIssuer()
	if err != nil || issuer == "" {
		return verifyError(KindMalformed, fmt.Errorf("token missing 'iss' claim"))
	}
	if issuer != wantIssuer {
		return verifyError(KindIssuerMismatch,
			fmt.Errorf("token issued by '%s', expected '%s'", issuer, wantIssuer))
	}

	audience, err := claims.GetAudience()
	if err != nil || len(audience) == 0 {
		return verifyError(KindMalformed, fmt.Errorf("token missing 'aud' claim"))
	}
	if !slices.Contains(audience, wantAudience) {
		return verifyError(KindAudienceMismatch,
			fmt.Errorf("token audience %v, expected '%s'", []string(audience), wantAudience))
	}

	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return verifyError(KindMalformed, fmt.Errorf("token missing 'exp' claim"))
	}
	if expiry.Before(now) {
		return verifyError(KindExpired, fmt.Errorf("token expired at %s", expiry))
	}

	return nil
}

// decodeIdentity maps a raw claim set onto the typed Identity.
func decodeIdentity(claims map[string]any) (*core.Identity, error) {
	var ident core.Identity
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Metadata:         nil,
		Result:           &ident,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating claims decoder: %w", err)
	}
	if err := decoder.Decode(claims); err != nil {
		return nil, verifyError(KindMalformed, fmt.Errorf("decoding claims: %w", err))
	}

	if ident.Subject == "" {
		return nil, verifyError(KindMalformed, fmt.Errorf("token missing 'sub' claim"))
	}
	if ident.Repository == "" {
		return nil, verifyError(KindMalformed, fmt.Errorf("token missing 'repository' claim"))
	}

	ident.Claims = claims
	return &ident, nil
}
