package githubapp

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-github/v80/github"
)

func NewRawClient(signedToken, enterpriseURL string) (*github.Client, error) {
	client := github.NewClient(nil).WithAuthToken(signedToken)

	if enterpriseURL != "" {
		// we don't interact with uploads, so just use a dummy URL here.
		var err error
		client, err = client.WithEnterpriseURLs(enterpriseURL, enterpriseURL)
		if err != nil {
			return nil, fmt.Errorf("creating github enterprise client: %w", err)
		}
	}

	return client, nil
}

// NewAppClient creates an authenticated GitHub client using an App ID and private key.
// If enterpriseURL is non-empty, it configures the client for GitHub Enterprise.
// Note that you cannot use media uploads with this client as it uses the same URL for both base and upload.
func NewAppClient(appID int64, privateKey []byte, enterpriseURL string) (*github.Client, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM(privateKey)
	if err != nil {
		return nil, fmt.Errorf("parsing github app private key: %w", err)
	}

	// create and sign a JWT for the GitHub App using the private key
	now := time.Now()
	claims := jwt.MapClaims{
		"iat": now.Unix(),
		"exp": now.Add(9 * time.Minute).Unix(),
		"iss": appID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signedToken, err := token.SignedString(key)
	if err != nil {
		return nil, fmt.Errorf("signing github app jwt: %w", err)
	}

	return NewRawClient(signedToken, enterpriseURL)
}
