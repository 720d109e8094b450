package identity

import (
	"context"
	"fmt"

	"github.com/tokengate/tokengate/internal/config"
	"github.com/tokengate/tokengate/internal/core"
)

var _ core.Verifier = (*StaticVerifier)(nil)

// StaticVerifier accepts a fixed token-to-claims map. Only meant for local
// development and tests; an empty map fails every verification.
type StaticVerifier struct {
	tokenMap map[string]map[string]any
}

func NewStaticVerifier(cfg config.VerifierConfig) (*StaticVerifier, error) {
	rawMap, ok := cfg.Config["token_map"].(map[string]any)
	if !ok {
		return &StaticVerifier{}, nil
	}

	tokenMap := make(map[string]map[string]any)
	for token, claimsRaw := range rawMap {
		claims, ok := claimsRaw.(map[string]any)
		if !ok {
			continue
		}
		tokenMap[token] = claims
	}

	return &StaticVerifier{tokenMap: tokenMap}, nil
}

func (s *StaticVerifier) Verify(_ context.Context, token string) (*core.Identity, error) {
	claims, ok := s.tokenMap[token]
	if !ok {
		return nil, verifyError(KindInvalidSignature, fmt.Errorf("unknown token"))
	}
	return decodeIdentity(claims)
}
