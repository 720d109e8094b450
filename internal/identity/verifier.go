package identity

import (
	"context"
	"fmt"

	"github.com/tokengate/tokengate/internal/config"
	"github.com/tokengate/tokengate/internal/core"
)

// Build constructs the configured verifier implementation.
func Build(ctx context.Context, cfg config.VerifierConfig) (core.Verifier, error) {
	switch cfg.Type {
	case "", "oidc":
		verifier, err := NewOIDCVerifier(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("building oidc verifier: %w", err)
		}
		return verifier, nil
	case "static":
		verifier, err := NewStaticVerifier(cfg)
		if err != nil {
			return nil, fmt.Errorf("building static verifier: %w", err)
		}
		return verifier, nil
	default:
		return nil, fmt.Errorf("unknown verifier type %q", cfg.Type)
	}
}
