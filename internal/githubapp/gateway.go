package githubapp

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/google/go-github/v80/github"
	"github.com/rs/zerolog/log"

	"github.com/tokengate/tokengate/internal/api/middleware"
	"github.com/tokengate/tokengate/internal/audit"
	"github.com/tokengate/tokengate/internal/config"
	"github.com/tokengate/tokengate/internal/core"
)

var _ core.AppGateway = (*Gateway)(nil)

// Gateway talks to the GitHub App API on behalf of the broker. It holds only
// immutable credentials and the app identity fetched once at construction;
// every lookup, policy fetch and mint is a fresh API call.
type Gateway struct {
	appID      int64
	privateKey []byte

	serverBaseURL string
	policyPath    string

	appInfo core.AppInfo
}

// New creates a Gateway from the given config and fetches the app identity.
func New(ctx context.Context, cfg config.GitHubConfig) (*Gateway, error) {
	var keyBytes []byte
	if cfg.PrivateKey != "" {
		keyBytes = []byte(cfg.PrivateKey)
	} else if cfg.PrivateKeyFile != "" {
		contents, err := os.ReadFile(cfg.PrivateKeyFile)
		if err != nil {
			return nil, fmt.Errorf("reading github app private key file: %w", err)
		}
		keyBytes = contents
	} else {
		return nil, fmt.Errorf("github app config missing 'private_key' or 'private_key_path'")
	}

	policyPath := cfg.PolicyPath
	if policyPath == "" {
		policyPath = config.DefaultPolicyPath
	}

	g := &Gateway{
		appID:         cfg.AppID,
		privateKey:    keyBytes,
		serverBaseURL: cfg.ServerURL,
		policyPath:    policyPath,
	}

	client, err := g.appClient(ctx)
	if err != nil {
		return nil, err
	}
	app, _, err := client.Apps.Get(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("fetching app identity: %w", err)
	}
	g.appInfo = core.AppInfo{
		Name:    app.GetName(),
		HTMLURL: app.GetHTMLURL(),
	}

	return g, nil
}

func (g *Gateway) AppInfo() core.AppInfo {
	return g.appInfo
}

func (g *Gateway) FindInstallation(ctx context.Context, repo core.Repository) (*core.Installation, error) {
	client, err := g.appClient(ctx)
	if err != nil {
		return nil, err
	}

	installation, resp, err := client.Apps.FindRepositoryInstallation(ctx, repo.Owner, repo.Name)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("finding installation for '%s': %w", repo, err)
	}

	permissions, err := fromInstallationPermissions(installation.GetPermissions())
	if err != nil {
		return nil, err
	}

	return &core.Installation{
		ID:          installation.GetID(),
		Permissions: permissions,
	}, nil
}

func (g *Gateway) FetchAccessPolicy(ctx context.Context, installation *core.Installation, repo core.Repository) ([]byte, bool, error) {
	// a token scoped to reading a single file on the target repository,
	// nothing more. this credential never leaves the broker.
	client, err := g.scopedClient(ctx, installation, repo, core.PermissionMap{
		"single_file": core.LevelRead,
	})
	if err != nil {
		return nil, false, err
	}

	fileContent, _, resp, err := client.Repositories.GetContents(ctx, repo.Owner, repo.Name, g.policyPath, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("fetching policy file '%s' from '%s': %w", g.policyPath, repo, err)
	}
	if fileContent == nil {
		return nil, false, fmt.Errorf("policy path '%s' in '%s' is not a file", g.policyPath, repo)
	}

	content, err := fileContent.GetContent()
	if err != nil {
		return nil, false, fmt.Errorf("decoding policy file content: %w", err)
	}

	return []byte(content), true, nil
}

func (g *Gateway) MintAccessToken(
	ctx context.Context,
	installation *core.Installation,
	repo core.Repository,
	permissions core.PermissionMap,
) (*core.AccessToken, error) {
	// an empty repository list or permission map would request access to
	// everything the installation holds. these must never reach the API.
	if len(permissions) == 0 {
		return nil, fmt.Errorf("refusing to mint a token without explicit permissions")
	}
	if repo == (core.Repository{}) {
		return nil, fmt.Errorf("refusing to mint a token without an explicit repository")
	}

	token, err := g.createInstallationToken(ctx, installation, repo, permissions)
	if err != nil {
		return nil, err
	}

	mintedPermissions, err := fromInstallationPermissions(token.GetPermissions())
	if err != nil {
		return nil, err
	}

	repositories := make([]string, 0, len(token.Repositories))
	for _, r := range token.Repositories {
		repositories = append(repositories, r.GetFullName())
	}
	if len(repositories) == 0 {
		repositories = []string{repo.String()}
	}

	log.Ctx(ctx).Info().
		Int64("installation_id", installation.ID).
		Strs("repositories", repositories).
		Interface("permissions", mintedPermissions).
		Msg("minted github installation token")

	return &core.AccessToken{
		Token:        token.GetToken(),
		ExpiresAt:    token.GetExpiresAt().Time,
		Repositories: repositories,
		Permissions:  mintedPermissions,
	}, nil
}

// scopedClient creates a client authenticated with a fresh installation
// token limited to the given repository and permissions.
func (g *Gateway) scopedClient(
	ctx context.Context,
	installation *core.Installation,
	repo core.Repository,
	permissions core.PermissionMap,
) (*github.Client, error) {
	token, err := g.createInstallationToken(ctx, installation, repo, permissions)
	if err != nil {
		return nil, err
	}
	client, err := NewRawClient(token.GetToken(), g.serverBaseURL)
	if err != nil {
		return nil, err
	}
	client.UserAgent = audit.CreateUserAgent(middleware.CorrelationCtx(ctx))
	return client, nil
}

func (g *Gateway) createInstallationToken(
	ctx context.Context,
	installation *core.Installation,
	repo core.Repository,
	permissions core.PermissionMap,
) (*github.InstallationToken, error) {
	client, err := g.appClient(ctx)
	if err != nil {
		return nil, err
	}

	ghPerms, err := toInstallationPermissions(permissions)
	if err != nil {
		return nil, err
	}

	token, _, err := client.Apps.CreateInstallationToken(ctx, installation.ID, &github.InstallationTokenOptions{
		Repositories: []string{repo.Name},
		Permissions:  ghPerms,
	})
	if err != nil {
		return nil, fmt.Errorf("creating installation token for installation ID %d: %w", installation.ID, err)
	}
	return token, nil
}

func (g *Gateway) appClient(ctx context.Context) (*github.Client, error) {
	client, err := NewAppClient(g.appID, g.privateKey, g.serverBaseURL)
	if err != nil {
		return nil, err
	}
	// tag outbound calls for auditing
	client.UserAgent = audit.CreateUserAgent(middleware.CorrelationCtx(ctx))
	return client, nil
}
