package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tokengate/tokengate/internal/audit"
	"github.com/tokengate/tokengate/internal/core"
	"github.com/tokengate/tokengate/internal/policy"
)

// AccessService decides whether a verified identity may receive a GitHub
// access token, and with which permissions. Each decision is computed fresh
// from freshly fetched inputs; the service holds no mutable state beyond its
// (immutable) collaborators, so concurrent requests need no coordination.
type AccessService struct {
	gateway    core.AppGateway
	auditor    core.Auditor
	tokenStore core.TokenStore
}

func NewAccessService(
	gateway core.AppGateway,
	auditor core.Auditor,
	tokenStore core.TokenStore,
) *AccessService {
	return &AccessService{
		gateway:    gateway,
		auditor:    auditor,
		tokenStore: tokenStore,
	}
}

// RequestAccessToken runs the full authorization decision for a verified
// identity and mints the token if every check passes:
//
//  1. the requested permission map must be non-empty
//  2. the target repository must have an installation of the app
//  3. the request must not exceed the installation's own permission grant
//  4. the target repository's access policy is fetched and evaluated
//  5. the request must not exceed what the policy grants this identity
//  6. the token is minted, scoped to exactly the target repository and
//     exactly the requested permissions
//
// Defined denials are returned as *HTTPError with a 4xx status; anything
// else is an internal fault for this request only.
func (s *AccessService) RequestAccessToken(
	ctx context.Context,
	identity *core.Identity,
	req AccessRequest,
) (*core.AccessToken, error) {
	logger := log.Ctx(ctx)
	reqID, _ := ctx.Value("correlation_id").(string)

	auditEntry := core.DecisionEntry{
		ID:                   reqID,
		Time:                 time.Now(),
		Subject:              identity.Subject,
		Repository:           identity.Repository,
		RequestedPermissions: req.Permissions,
	}
	defer func() {
		if err := s.auditor.Log(auditEntry); err != nil {
			logger.Error().Err(err).Msg("failed to write audit log entry for access decision")
		}
	}()

	// an empty permission map would vacuously pass every check below, and
	// requesting a token without explicit permissions asks the upstream
	// API for ALL of them. never let that through.
	if len(req.Permissions) == 0 {
		auditEntry.Error = "no permissions requested"
		return nil, httpError(http.StatusBadRequest,
			fmt.Errorf("requested permissions must not be empty"))
	}

	target := req.TargetRepository
	if target == "" {
		target = identity.Repository
	}
	auditEntry.TargetRepository = target

	targetRepo, err := core.ParseRepository(target)
	if err != nil {
		auditEntry.Error = "invalid target repository"
		return nil, httpError(http.StatusBadRequest, err)
	}

	logger.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("target_repository", target)
	})

	appInfo := s.gateway.AppInfo()

	// --- installation lookup

	installation, err := s.gateway.FindInstallation(ctx, targetRepo)
	if err != nil {
		auditEntry.Error = "installation lookup failed"
		return nil, fmt.Errorf("looking up installation for '%s': %w", target, err)
	}
	if installation == nil {
		auditEntry.Error = "app not installed"
		return nil, httpErrorDetails(http.StatusForbidden,
			map[string]any{"html_url": appInfo.HTMLURL},
			fmt.Errorf("'%s' is not installed for '%s' repository", appInfo.Name, target))
	}

	// --- installation ceiling: a token can never exceed what the
	// --- installation itself was granted

	if denied := core.DenyList(req.Permissions, installation.Permissions); denied != nil {
		auditEntry.Error = "denied by installation grant"
		auditEntry.DeniedPermissions = denied
		return nil, httpErrorDetails(http.StatusForbidden,
			map[string]any{"deniedPermissions": denied},
			fmt.Errorf("the permissions requested are not granted to '%s' installation for '%s' repository",
				appInfo.Name, target))
	}

	// --- repository policy

	grantedPermissions, err := s.resolveGrantedPermissions(ctx, installation, targetRepo, identity)
	if err != nil {
		var policyErr *policy.Error
		if errors.As(err, &policyErr) {
			auditEntry.Error = "invalid access policy"
			// only disclose policy issues to the repository that owns
			// the broken policy
			var details any
			if target == identity.Repository {
				details = policyErr.Issues
			}
			return nil, httpErrorDetails(http.StatusForbidden, details,
				fmt.Errorf("'%s' repository has an invalid access policy", target))
		}
		auditEntry.Error = "policy fetch failed"
		return nil, fmt.Errorf("resolving access policy for '%s': %w", target, err)
	}

	if denied := core.DenyList(req.Permissions, grantedPermissions); denied != nil {
		auditEntry.Error = "denied by access policy"
		auditEntry.DeniedPermissions = denied
		return nil, httpErrorDetails(http.StatusForbidden,
			map[string]any{"deniedPermissions": denied},
			fmt.Errorf("the permissions requested are not granted to workflow principal '%s'", identity.Subject))
	}

	// --- both boundaries passed, mint the token

	token, err := s.gateway.MintAccessToken(ctx, installation, targetRepo, req.Permissions)
	if err != nil {
		auditEntry.Error = "minting failed"
		return nil, fmt.Errorf("minting access token for '%s': %w", target, err)
	}

	auditEntry.Granted = true
	auditEntry.TokenFingerprint = audit.Fingerprint(token.Token)

	meta := core.TokenMetadata{
		CorrelationID: reqID,
		Subject:       identity.Subject,
		Repository:    target,
		Permissions:   token.Permissions,
		IssuedAt:      time.Now(),
		ExpiresAt:     token.ExpiresAt,
		Fingerprint:   auditEntry.TokenFingerprint,
	}
	if err := s.tokenStore.Save(ctx, meta); err != nil {
		// inventory only, never fail the request over it
		logger.Error().Err(err).Msg("failed to save token metadata")
	}

	return token, nil
}

// resolveGrantedPermissions fetches and evaluates the target repository's
// access policy. A missing policy document grants nothing but is not an
// error; an unparsable one is a *policy.Error attributable to the policy
// owner.
func (s *AccessService) resolveGrantedPermissions(
	ctx context.Context,
	installation *core.Installation,
	repo core.Repository,
	identity *core.Identity,
) (core.PermissionMap, error) {
	raw, found, err := s.gateway.FetchAccessPolicy(ctx, installation, repo)
	if err != nil {
		return nil, fmt.Errorf("fetching access policy: %w", err)
	}

	accessPolicy := policy.Empty(repo)
	if found {
		accessPolicy, err = policy.Parse(raw, repo)
		if err != nil {
			return nil, err
		}
	}

	return policy.Evaluate(accessPolicy, identity), nil
}
