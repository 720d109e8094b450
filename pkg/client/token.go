package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/tokengate/tokengate/internal/api"
	"github.com/tokengate/tokengate/internal/core"
)

// AccessTokenOptions contains optional parameters for requesting a token.
type AccessTokenOptions struct {
	// Repository the token should be scoped to. If empty, the server
	// defaults to the calling identity's own repository.
	Repository string

	// Permissions requested for the token (scope -> level).
	Permissions map[string]string
}

// RequestAccessToken exchanges a workflow identity assertion for a
// repository-scoped GitHub access token.
func (c *Client) RequestAccessToken(
	ctx context.Context,
	identityToken string,
	opts AccessTokenOptions,
) (*core.AccessToken, string, error) {
	payload := api.AccessTokenPayload{
		Repository:  opts.Repository,
		Permissions: opts.Permissions,
	}
	marshalled, err := json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("marshalling payload: %w", err)
	}

	// the identity assertion goes into the authorization header, which our
	// helper methods would overwrite with the session token. do it manually.
	req, err := http.NewRequestWithContext(ctx, "POST", c.url().
		setPath(api.AccessTokensRoute).
		build(), bytes.NewReader(marshalled))
	if err != nil {
		return nil, "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+identityToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, correlationFromResponse(resp), fmt.Errorf("connection failed: %w", err)
	}
	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(resp.Body)

	if resp.StatusCode >= 400 {
		return nil, correlationFromResponse(resp), parseErrorResponse(resp)
	}

	var result core.AccessToken
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, correlationFromResponse(resp), fmt.Errorf("decoding response: %w", err)
	}

	return &result, correlationFromResponse(resp), nil
}
