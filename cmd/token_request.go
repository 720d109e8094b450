package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tokengate/tokengate/pkg/client"
)

var (
	tokenRequestIdentityToken string
	tokenRequestRepository    string
	tokenRequestPermissions   map[string]string
	tokenRequestRaw           bool
)

// tokenRequestCmd represents the token request command
var tokenRequestCmd = &cobra.Command{
	Use:   "request",
	Short: "Exchange a workflow identity assertion for a GitHub access token",
	Long: `Sends the identity assertion (an OIDC token, e.g. from GitHub Actions)
to the tokengate server and requests an access token with the given
permissions. The target repository defaults to the calling identity's
own repository.`,
	Example: `  # request read access to the calling repository's contents
  tokengate token request --token "$ID_TOKEN" -p contents=read

  # request write access to another repository's packages
  tokengate token request --token "$ID_TOKEN" -r octo-org/octo-tools -p packages=write`,
	RunE: func(cmd *cobra.Command, args []string) error {
		identityToken := tokenRequestIdentityToken
		if identityToken == "" {
			identityToken = os.Getenv("TOKENGATE_ID_TOKEN")
		}
		if identityToken == "" {
			return fmt.Errorf("identity token not provided (use --token or set TOKENGATE_ID_TOKEN)")
		}
		if len(tokenRequestPermissions) == 0 {
			return fmt.Errorf("at least one permission is required (e.g. -p contents=read)")
		}

		server := viper.GetString(ServerAddrKey)
		if server == "" {
			return fmt.Errorf("server address not configured (use --server or set TOKENGATE_ADDR)")
		}
		cli := client.New(server)

		log.Debug().Msgf("Requesting access token from %q...", server)
		token, correlation, err := cli.RequestAccessToken(cmd.Context(), identityToken, client.AccessTokenOptions{
			Repository:  tokenRequestRepository,
			Permissions: tokenRequestPermissions,
		})
		if err != nil {
			return logError(err, correlation, "requesting access token")
		}

		if tokenRequestRaw {
			fmt.Println(token.Token)
			return nil
		}

		fmt.Println(bold("\n── Access Token ──"))
		fmt.Printf("  %s:        %s\n", faint("Token"), token.Token)
		fmt.Printf("  %s: %s\n", faint("Repositories"), token.Repositories)
		fmt.Printf("  %s:      %s (in %s)\n", faint("Expires"),
			token.ExpiresAt.Format(time.RFC3339),
			time.Until(token.ExpiresAt).Round(time.Second))
		fmt.Printf("  %s:  %v\n", faint("Permissions"), token.Permissions)
		return nil
	},
}

func init() {
	tokenCmd.AddCommand(tokenRequestCmd)

	tokenRequestCmd.Flags().StringVarP(&tokenRequestIdentityToken, "token", "t", "",
		"Workflow identity assertion (OIDC token)")
	tokenRequestCmd.Flags().StringVarP(&tokenRequestRepository, "repository", "r", "",
		"Target repository (owner/name), defaults to the identity's own repository")
	tokenRequestCmd.Flags().StringToStringVarP(&tokenRequestPermissions, "permission", "p", nil,
		"Requested permission as scope=level (repeatable)")
	tokenRequestCmd.Flags().BoolVar(&tokenRequestRaw, "raw", false,
		"Print only the token value")
}
