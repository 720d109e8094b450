package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/tokengate/tokengate/internal/cliconfig"
	"github.com/tokengate/tokengate/pkg/client"
)

var (
	bold  = color.New(color.Bold).SprintFunc()
	faint = color.New(color.Faint).SprintFunc()

	greenCheck = color.GreenString("✓")
	redCross   = color.RedString("✗")
)

func getClient() (*client.Client, error) {
	// we need the user to provide some server address first
	server := viper.GetString(ServerAddrKey)
	if server == "" {
		return nil, fmt.Errorf("server address not configured (use --server or set TOKENGATE_ADDR)")
	}

	var sessionToken string
	if cfg, err := cliconfig.Load(); err == nil {
		if cred, err := cfg.GetCredential(server); err == nil { // token prio 1: saved credential
			sessionToken = cred.Token
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		log.Debug().Err(err).Msg("could not load CLI credentials")
	}

	if envToken := os.Getenv("TOKENGATE_TOKEN"); envToken != "" { // token prio 2: env var
		sessionToken = envToken
	}

	return client.New(server, client.WithAuthToken(sessionToken)), nil
}

func logError(err error, correlationID, msg string) error {
	var apiErr client.APIError
	if errors.As(err, &apiErr) {
		return err
	}
	if correlationID != "" {
		return fmt.Errorf("%s (correlation: %s): %w", msg, correlationID, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

func applyTableFormat(t table.Writer) {
	t.SetStyle(table.StyleLight)
}
