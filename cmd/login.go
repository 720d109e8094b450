package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tokengate/tokengate/internal/cliconfig"
)

var loginCmd = &cobra.Command{
	Use:   "login SESSION-TOKEN",
	Short: "Save an admin session token for a tokengate server",
	Long: `Stores an admin session token locally so that future admin requests
(audit log, active tokens, tasks) are authenticated automatically.

The session token is a JWT signed with the server's admin signing key,
issued out-of-band by the server operator.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionToken := args[0]
		if sessionToken == "" {
			return fmt.Errorf("token cannot be empty")
		}

		server := viper.GetString(ServerAddrKey)
		if server == "" {
			return fmt.Errorf("server address not configured (use --server or set TOKENGATE_ADDR)")
		}

		// sanity-check the token before saving; the server is the only
		// party that can actually verify it
		parser := jwt.NewParser()
		token, _, err := parser.ParseUnverified(sessionToken, jwt.MapClaims{})
		if err != nil {
			return fmt.Errorf("parsing session token: %w", err)
		}
		if exp, err := token.Claims.GetExpirationTime(); err == nil && exp != nil {
			if remaining := time.Until(exp.Time); remaining <= 0 {
				return fmt.Errorf("session token is already expired")
			} else {
				log.Debug().Msgf("session token expires in %s", remaining.Round(time.Second))
			}
		}

		cfg, err := cliconfig.Load()
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return err
			}
			cfg = &cliconfig.CLIConfig{}
		}
		if err := cfg.SetCredential(server, &cliconfig.Credential{Token: sessionToken}); err != nil {
			return err
		}
		if err := cliconfig.Save(cfg); err != nil {
			return err
		}

		log.Info().Msgf("%s saved credentials for %s", greenCheck, bold(server))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
