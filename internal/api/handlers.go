package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tokengate/tokengate/internal/api/presenter"
	"github.com/tokengate/tokengate/internal/buildinfo"
	"github.com/tokengate/tokengate/internal/core"
	"github.com/tokengate/tokengate/internal/identity"
	"github.com/tokengate/tokengate/internal/service"
)

// handleHealth responds with a simple OK status to indicate the server is healthy.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleInfo responds with service information including version and commit hash.
func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	presenter.JSON(w, r, buildinfo.GetBuildInfo(), http.StatusOK)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	presenter.Error(w, r, "not found", http.StatusNotFound)
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	presenter.Error(w, r, "method not allowed", http.StatusMethodNotAllowed)
}

// AccessTokenPayload is the inbound token request body.
type AccessTokenPayload struct {
	// Repository the token should be scoped to.
	// Defaults to the calling identity's own repository.
	Repository string `json:"repository,omitempty"`

	// Permissions requested for the token.
	Permissions map[string]string `json:"permissions"`
}

var repositoryPattern = regexp.MustCompile(`(?i)^[a-z\d](-?[a-z\d]){0,38}/[a-z\d\-._]{1,40}$`)

// validate collects field-level issues instead of failing on the first one.
func (p AccessTokenPayload) validate() []string {
	var issues []string
	if p.Repository != "" && !repositoryPattern.MatchString(p.Repository) {
		issues = append(issues, fmt.Sprintf("repository: invalid value, expected format %s", repositoryPattern))
	}
	if len(p.Permissions) == 0 {
		issues = append(issues, "permissions: must have at least 1 entry")
	}
	for scope, value := range p.Permissions {
		if _, ok := core.ParseLevel(value); !ok {
			issues = append(issues, fmt.Sprintf(
				"permissions.%s: invalid level %q, expected 'read', 'write' or 'admin'", scope, value))
		}
	}
	return issues
}

func DecodePayload(r *http.Request, dest any) error {
	switch r.Header.Get("Content-Type") {
	case "application/json", "":
		// strict encoding for JSON
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(dest); err != nil {
			return err
		}
		// ensure there's no extra data
		if dec.More() {
			return errors.New("extra data in request body")
		}
		return nil
	default:
		return errors.New("unsupported content type")
	}
}

// handleAccessTokens processes access token requests.
func (s *Server) handleAccessTokens(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	// the identity assertion travels in X-Authorization when the outer
	// transport occupies the standard header, so check that one first
	authHeader := r.Header.Get("X-Authorization")
	if authHeader == "" {
		authHeader = r.Header.Get("Authorization")
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
	if token == "" {
		logger.Warn().Msg("missing or empty authorization header")
		presenter.Error(w, r, "authorization required", http.StatusUnauthorized)
		return
	}

	// every verification failure maps to the same 401 so the response
	// cannot be used as a verification oracle; the reason is logged only
	ident, err := s.verifier.Verify(ctx, token)
	if err != nil {
		event := logger.Warn()
		var verifyErr *identity.VerifyError
		if errors.As(err, &verifyErr) {
			event = event.Str("reason", string(verifyErr.Kind))
		}
		event.Err(err).Msg("identity verification failed")
		presenter.Error(w, r, "invalid identity assertion", http.StatusUnauthorized)
		return
	}

	if !s.allowList.Allows(ident.Subject) {
		logger.Warn().Str("sub", ident.Subject).Msg("subject not on allow-list")
		presenter.Error(w, r, "invalid identity assertion", http.StatusUnauthorized)
		return
	}

	logger.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("sub", ident.Subject)
	})

	var payload AccessTokenPayload
	if err := DecodePayload(r, &payload); err != nil {
		logger.Warn().Err(err).Msg("failed to decode access token request payload")
		presenter.ErrorDetails(w, r, "invalid request body", []string{err.Error()}, http.StatusBadRequest)
		return
	}
	if issues := payload.validate(); len(issues) > 0 {
		logger.Warn().Strs("issues", issues).Msg("invalid access token request")
		presenter.ErrorDetails(w, r, "invalid request body", issues, http.StatusBadRequest)
		return
	}

	permissions := make(core.PermissionMap, len(payload.Permissions))
	for scope, value := range payload.Permissions {
		level, _ := core.ParseLevel(value)
		permissions[scope] = level
	}

	accessToken, err := s.accessService.RequestAccessToken(ctx, ident, service.AccessRequest{
		TargetRepository: payload.Repository,
		Permissions:      permissions,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("access token request denied")
		presenter.Err(w, r, err)
		return
	}

	logger.Info().
		Strs("repositories", accessToken.Repositories).
		Msg("access token issued")

	presenter.JSON(w, r, accessToken, http.StatusOK)
}
